package encoder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"vidmerge/internal/progress"
	"vidmerge/internal/util"
)

// Options control a single ffmpeg execution.
type Options struct {
	FFmpegPath string
	Args       []string // full argument list, output path last
	OutputPath string   // Full path of desired output file (including extension)

	// ExpectedDurationSec converts out_time into a percentage. <= 0 means unknown.
	ExpectedDurationSec float64
	Message             string

	Runner   util.CmdRunner
	Reporter progress.Reporter
	Logger   hclog.Logger
	JobID    string
	Verbose  bool
}

// Output describes a finished ffmpeg run.
type Output struct {
	Path   string
	Bytes  int64
	Stderr []byte // captured on success and failure
}

// Run executes ffmpeg, streaming progress to opts.Reporter. On failure the
// partial output file is removed and the captured stderr is returned in Output.
func Run(ctx context.Context, opts Options) (Output, error) {
	if opts.FFmpegPath == "" {
		return Output{}, errors.New("ffmpeg path is required")
	}
	if opts.OutputPath == "" {
		return Output{}, errors.New("output path is required")
	}
	runner := opts.Runner
	if runner == nil {
		runner = util.NewDefaultRunner()
	}
	rep := opts.Reporter
	if rep == nil {
		rep = progress.Nop{}
	}

	// Ensure output dir exists
	if err := util.EnsureDir(filepath.Dir(opts.OutputPath)); err != nil {
		return Output{}, fmt.Errorf("ensure output dir: %w", err)
	}

	var ps ProgressState
	res, runErr := runner.Run(ctx, util.CmdSpec{
		Path:    opts.FFmpegPath,
		Args:    opts.Args,
		Verbose: opts.Verbose,
		Logger:  opts.Logger,
		StdoutLine: func(line string) {
			if u, ok := ps.UpdateFromLine(line, opts.JobID, opts.ExpectedDurationSec, opts.Message); ok {
				rep.Update(u)
			}
		},
		StderrLine: func(line string) {
			rep.Log(progress.Log{JobID: opts.JobID, Stream: progress.StreamStderr, Line: line})
		},
		CaptureStdout: false,
	})
	if runErr != nil {
		// Delete incomplete file
		_ = util.RemoveIfExists(opts.OutputPath)
		return Output{Stderr: res.Stderr}, runErr
	}

	// Stat output
	fi, err := os.Stat(opts.OutputPath)
	if err != nil {
		return Output{Stderr: res.Stderr}, fmt.Errorf("stat output: %w", err)
	}
	return Output{Path: opts.OutputPath, Bytes: fi.Size(), Stderr: res.Stderr}, nil
}
