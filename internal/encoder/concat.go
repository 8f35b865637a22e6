package encoder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteConcatList writes a concat-demuxer manifest for paths into dir and returns
// its path. Callers remove the file once ffmpeg has finished.
func WriteConcatList(dir string, paths []string) (string, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	f, err := os.CreateTemp(dir, "concat-*.txt")
	if err != nil {
		return "", fmt.Errorf("create concat list: %w", err)
	}
	defer f.Close()

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		if _, err := fmt.Fprintf(f, "file '%s'\n", EscapeConcatPath(abs)); err != nil {
			_ = os.Remove(f.Name())
			return "", fmt.Errorf("write concat list: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("close concat list: %w", err)
	}
	return f.Name(), nil
}

// EscapeConcatPath escapes single quotes for a quoted concat-demuxer entry.
func EscapeConcatPath(p string) string {
	return strings.ReplaceAll(p, "'", `'\''`)
}
