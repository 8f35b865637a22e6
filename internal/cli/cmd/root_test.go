package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidmerge/internal/gateway"
)

func TestExitFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"validation", &gateway.ValidationError{Op: "rotate", Reason: gateway.ErrUnsupportedRotation}, ExitCLIError},
		{"tool", &gateway.ToolError{Op: "merge", Stderr: "boom\n", Err: errors.New("exit status 1")}, ExitToolError},
		{"wrapped tool", errors.Join(errors.New("ctx"), &gateway.ToolError{Op: "trim", Err: errors.New("x")}), ExitToolError},
		{"exit passthrough", &ExitError{Code: ExitMissingDep, Err: errors.New("no ffmpeg")}, ExitMissingDep},
		{"plain", errors.New("something"), ExitCLIError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ee *ExitError
			require.ErrorAs(t, exitFor(tt.err), &ee)
			assert.Equal(t, tt.code, ee.Code)
		})
	}
	assert.NoError(t, exitFor(nil))
}

func TestToolErrorMessageIsStderrTail(t *testing.T) {
	err := exitFor(&gateway.ToolError{Op: "merge", Stderr: "line one\nInvalid data found\n", Err: errors.New("exit status 1")})
	assert.Equal(t, "line one\nInvalid data found", err.Error())
}

func TestRootHasSubcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"merge", "speed", "trim", "audio", "compress", "rotate", "cut", "probe", "tui", "doctor", "completion"} {
		c, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, c.Name())
	}
	for _, flag := range []string{"out-dir", "verbose", "ffmpeg", "ffprobe", "log-level", "dry-run"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
}

// sandbox isolates config/XDG state and returns a directory with two clips.
func sandbox(t *testing.T) (dir, out string) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	dir = t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "cfg"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	for _, n := range []string{"a.mp4", "b.mp4", "c.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("x"), 0o644))
	}
	out = filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(out, 0o755))
	return dir, out
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestMergeDryRun(t *testing.T) {
	dir, out := sandbox(t)
	stdout, _, err := execute(t, "merge",
		filepath.Join(dir, "a.mp4"), filepath.Join(dir, "b.mp4"),
		"--dry-run", "-o", out, "--ffmpeg", filepath.Join(dir, "missing-ffmpeg"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "Dry-run plan:")
	assert.Contains(t, stdout, "- Operation:      merge")
	assert.Contains(t, stdout, filepath.Join(out, "merged_video_"))
	assert.Contains(t, stdout, "-f concat -safe 0")

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries, "dry-run must not write outputs")
}

func TestMergeRejectsMixedMedia(t *testing.T) {
	dir, out := sandbox(t)
	_, _, err := execute(t, "merge",
		filepath.Join(dir, "a.mp4"), filepath.Join(dir, "c.png"),
		"--dry-run", "-o", out, "--ffmpeg", filepath.Join(dir, "missing-ffmpeg"))
	var ee *ExitError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, ExitCLIError, ee.Code)
}

func TestRotateDryRunRejectsAngle(t *testing.T) {
	dir, out := sandbox(t)
	_, _, err := execute(t, "rotate", filepath.Join(dir, "a.mp4"), "--angle", "45",
		"--dry-run", "-o", out, "--ffmpeg", filepath.Join(dir, "missing-ffmpeg"))
	var ee *ExitError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, ExitCLIError, ee.Code)
	assert.ErrorContains(t, err, "unsupported rotation")
}

func TestSpeedDryRunNamesOutput(t *testing.T) {
	dir, out := sandbox(t)
	stdout, _, err := execute(t, "speed", filepath.Join(dir, "a.mp4"), "--factor", "1.5",
		"--dry-run", "-o", out, "--ffmpeg", filepath.Join(dir, "missing-ffmpeg"))
	require.NoError(t, err)
	assert.Contains(t, stdout, filepath.Join(out, "speed_1.5x_"))
	assert.Contains(t, stdout, "setpts=")
}

func TestMissingFFmpegIsDependencyError(t *testing.T) {
	dir, out := sandbox(t)
	_, _, err := execute(t, "compress", filepath.Join(dir, "a.mp4"), "-o", out, "--ffmpeg", filepath.Join(dir, "missing-ffmpeg"))
	var ee *ExitError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, ExitMissingDep, ee.Code)
}

func TestCutNeedsSegment(t *testing.T) {
	dir, _ := sandbox(t)
	_, _, err := execute(t, "cut", filepath.Join(dir, "a.mp4"))
	var ee *ExitError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, ExitCLIError, ee.Code)
}

func TestInvalidQualityRejected(t *testing.T) {
	dir, out := sandbox(t)
	_, _, err := execute(t, "compress", filepath.Join(dir, "a.mp4"), "--quality", "ultra",
		"--dry-run", "-o", out, "--ffmpeg", filepath.Join(dir, "missing-ffmpeg"))
	var ee *ExitError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, ExitCLIError, ee.Code)
}

// fakeFFmpeg writes a stand-in ffmpeg that creates its last argument.
func fakeFFmpeg(t *testing.T, dir string) string {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	p := filepath.Join(dir, "ffmpeg")
	script := "#!/bin/sh\nfor a; do last=$a; done\necho data > \"$last\"\n"
	require.NoError(t, os.WriteFile(p, []byte(script), 0o755))
	return p
}

func TestRunCreatesMissingOutputDir(t *testing.T) {
	dir, _ := sandbox(t)
	out := filepath.Join(dir, "new", "nested")
	stdout, _, err := execute(t, "compress", filepath.Join(dir, "a.mp4"), "-o", out,
		"--ffmpeg", fakeFFmpeg(t, dir), "--ffprobe", filepath.Join(dir, "missing-ffprobe"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "Saved: "+filepath.Join(out, "compressed_"))

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
