package dropzone

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherEmitsSettledBatch(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, WithDebounce(100*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errc := make(chan error, 1)
	go func() { errc <- w.Run(ctx) }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.mp4"), []byte("v"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("t"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.PNG"), []byte("i"), 0o644))

	var got Batch
	deadline := time.After(5 * time.Second)
	for len(got.Paths)+got.Skipped < 3 {
		select {
		case b := <-w.Batches():
			got.Paths = append(got.Paths, b.Paths...)
			got.Skipped += b.Skipped
		case <-deadline:
			t.Fatalf("timed out, got %+v", got)
		}
	}
	assert.ElementsMatch(t, []string{filepath.Join(dir, "a.mp4"), filepath.Join(dir, "b.PNG")}, got.Paths)
	assert.Equal(t, 1, got.Skipped)

	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)
	_, open := <-w.Batches()
	assert.False(t, open)
}

func TestNewRejectsFile(t *testing.T) {
	f := filepath.Join(t.TempDir(), "x.mp4")
	require.NoError(t, os.WriteFile(f, nil, 0o644))
	_, err := New(f)
	assert.Error(t, err)
	_, err = New(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestClassify(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.mp4"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.mkv"), nil, 0o644))
	b := classify([]string{
		filepath.Join(dir, "sub.mp4"),
		filepath.Join(dir, "gone.mp4"),
		filepath.Join(dir, "c.mkv"),
	})
	assert.Equal(t, []string{filepath.Join(dir, "c.mkv")}, b.Paths)
	assert.Zero(t, b.Skipped)
}
