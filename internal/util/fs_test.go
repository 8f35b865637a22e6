package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckWritableDir(t *testing.T) {
	dir := t.TempDir()
	if err := CheckWritableDir(dir); err != nil {
		t.Fatalf("CheckWritableDir(%q) = %v", dir, err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("probe file left behind: %v", entries)
	}

	file := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CheckWritableDir(file); err == nil {
		t.Error("expected error for regular file")
	}
	if err := CheckWritableDir(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing dir")
	}
	if err := CheckWritableDir(""); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestRemoveIfExists(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "out.mp4")
	if err := RemoveIfExists(p); err != nil {
		t.Fatalf("missing file: %v", err)
	}
	if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := FileSize(p); got != 1 {
		t.Errorf("FileSize = %d, want 1", got)
	}
	if err := RemoveIfExists(p); err != nil {
		t.Fatal(err)
	}
	if got := FileSize(p); got != -1 {
		t.Errorf("FileSize after remove = %d, want -1", got)
	}
}

func TestShellQuoteFileName(t *testing.T) {
	got := ShellQuote("ffmpeg", []string{"-i", "my clip.mp4", "it's.mp4", ""})
	want := `ffmpeg -i 'my clip.mp4' 'it'\''s.mp4' ''`
	if got != want {
		t.Errorf("ShellQuote = %q, want %q", got, want)
	}
}
