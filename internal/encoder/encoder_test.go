package encoder

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"vidmerge/internal/progress"
	"vidmerge/internal/util"
)

type recordingReporter struct {
	updates []progress.Update
	logs    []progress.Log
}

func (r *recordingReporter) Update(u progress.Update) { r.updates = append(r.updates, u) }
func (r *recordingReporter) Log(l progress.Log)       { r.logs = append(r.logs, l) }
func (r *recordingReporter) Result(progress.Result)   {}

// fakeRunner writes a partial output file, emits progress lines and optionally fails.
type fakeRunner struct {
	fail  bool
	calls int
}

func (f *fakeRunner) Run(ctx context.Context, spec util.CmdSpec) (util.CmdResult, error) {
	f.calls++
	out := spec.Args[len(spec.Args)-1]
	if err := os.WriteFile(out, make([]byte, 2048), 0o644); err != nil {
		return util.CmdResult{}, err
	}
	if spec.StdoutLine != nil {
		spec.StdoutLine("out_time_ms=5000000")
		spec.StdoutLine("progress=continue")
		spec.StdoutLine("out_time_ms=10000000")
		spec.StdoutLine("progress=end")
	}
	if f.fail {
		if spec.StderrLine != nil {
			spec.StderrLine("Invalid data found when processing input")
		}
		return util.CmdResult{Code: 1, Stderr: []byte("Invalid data found when processing input\n")},
			errors.New("command failed (exit 1)")
	}
	return util.CmdResult{}, nil
}

func TestRun_Success(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "nested", "out.mp4")
	rep := &recordingReporter{}
	fr := &fakeRunner{}

	res, err := Run(context.Background(), Options{
		FFmpegPath:          "/bin/ffmpeg",
		Args:                BuildTrimArgs("/in.mp4", 0, 10, out, true),
		OutputPath:          out,
		ExpectedDurationSec: 10,
		Message:             "Trimming",
		Runner:              fr,
		Reporter:            rep,
		JobID:               "job-1",
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if res.Path != out || res.Bytes != 2048 {
		t.Errorf("Run() = %+v", res)
	}
	if len(rep.updates) != 2 {
		t.Fatalf("updates = %d, want 2", len(rep.updates))
	}
	if rep.updates[0].Percent != 50 || rep.updates[1].Percent != 100 {
		t.Errorf("percents = %v, %v", rep.updates[0].Percent, rep.updates[1].Percent)
	}
	if rep.updates[0].JobID != "job-1" {
		t.Errorf("JobID = %q", rep.updates[0].JobID)
	}
}

func TestRun_FailureRemovesPartialOutput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.mp4")
	rep := &recordingReporter{}

	res, err := Run(context.Background(), Options{
		FFmpegPath: "/bin/ffmpeg",
		Args:       BuildMergeArgs("/tmp/list.txt", out, true),
		OutputPath: out,
		Runner:     &fakeRunner{fail: true},
		Reporter:   rep,
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Errorf("partial output should be removed, stat err = %v", statErr)
	}
	if string(res.Stderr) == "" {
		t.Error("stderr should be captured on failure")
	}
	if len(rep.logs) != 1 || rep.logs[0].Stream != progress.StreamStderr {
		t.Errorf("logs = %+v", rep.logs)
	}
}

func TestRun_MissingPaths(t *testing.T) {
	if _, err := Run(context.Background(), Options{OutputPath: "/x.mp4"}); err == nil {
		t.Error("expected ffmpeg path error")
	}
	if _, err := Run(context.Background(), Options{FFmpegPath: "/bin/ffmpeg"}); err == nil {
		t.Error("expected output path error")
	}
}
