package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"vidmerge/internal/config"
	"vidmerge/internal/dirs"
	"vidmerge/internal/gateway"
	"vidmerge/internal/logging"
	"vidmerge/internal/model"
	"vidmerge/internal/progress"
	"vidmerge/internal/util"
	"vidmerge/internal/util/deps"
	"vidmerge/internal/util/format"
)

// execEnv is everything a command needs after flags and config are resolved.
type execEnv struct {
	settings config.Settings
	opts     model.CLIOptions
	logger   hclog.Logger
	ffmpeg   string
	ffprobe  string
	quiet    bool // no stderr progress line, e.g. under the TUI
}

// loadEnv resolves settings and locates the external tools. ffprobe is
// optional unless needProbe is set; without it progress percent is unknown.
func loadEnv(cmd *cobra.Command, needProbe bool) (*execEnv, error) {
	s, err := config.Current()
	if err != nil {
		return nil, &ExitError{Code: ExitCLIError, Err: fmt.Errorf("config: %w", err)}
	}
	opts := s.CLIOptions()
	if opts.OutDir == "" {
		opts.OutDir = "."
	}
	opts.OutDir = filepath.Clean(opts.OutDir)

	level := opts.LogLevel
	if opts.Verbose && logging.ParseLevel(level) > hclog.Debug {
		level = "debug"
	}
	env := &execEnv{
		settings: s,
		opts:     opts,
		logger:   logging.New(logging.Options{Level: level, Output: cmd.ErrOrStderr()}),
	}

	ff, ferr := deps.FindFFmpeg(opts.FFmpegPath)
	switch {
	case ferr == nil:
		env.ffmpeg = ff
	case opts.DryRun:
		env.logger.Warn("ffmpeg not found; planning anyway", "error", ferr)
		env.ffmpeg = "ffmpeg"
	default:
		return nil, &ExitError{Code: ExitMissingDep, Err: ferr}
	}

	fp, perr := deps.FindFFprobe(opts.FFprobePath)
	switch {
	case perr == nil:
		env.ffprobe = fp
	case needProbe:
		return nil, &ExitError{Code: ExitMissingDep, Err: perr}
	default:
		env.logger.Debug("ffprobe not found; progress percent will be unknown", "error", perr)
	}
	return env, nil
}

// newGateway builds a Gateway on the resolved tools. A terminal progress line is
// attached to stderr unless output is verbose or redirected.
func (env *execEnv) newGateway(cmd *cobra.Command, extra ...gateway.Option) *gateway.Gateway {
	opts := []gateway.Option{
		gateway.WithFFmpegPath(env.ffmpeg),
		gateway.WithFFprobePath(env.ffprobe),
		gateway.WithLogger(env.logger.Named("gateway")),
		gateway.WithVerbose(env.opts.Verbose),
	}
	if tmp, err := dirs.TempBaseDir(); err == nil && dirs.Ensure(tmp) == nil {
		opts = append(opts, gateway.WithTempDir(tmp))
	}
	if !env.quiet && !env.opts.Verbose && isTerminalFile(os.Stderr) {
		opts = append(opts, gateway.WithReporter(newLineReporter(cmd.ErrOrStderr())))
	}
	return gateway.New(append(opts, extra...)...)
}

// run either plans req (dry-run) or submits it and prints the saved file.
func (env *execEnv) run(cmd *cobra.Command, g *gateway.Gateway, req model.Request, submit func(context.Context) (model.ProcessResult, error)) error {
	if env.opts.DryRun {
		inv, err := g.Plan(req)
		if err != nil {
			return exitFor(err)
		}
		printPlan(cmd.OutOrStdout(), env.ffmpeg, inv)
		return nil
	}
	if err := util.EnsureDir(req.Dir()); err != nil {
		return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("failed to create output dir: %v", err)}
	}
	res, err := submit(cmd.Context())
	if err != nil {
		return exitFor(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved: %s (%s)\n", res.OutputFile, format.HumanizeBytes(res.Bytes))
	return nil
}

// printPlan outputs a dry-run plan of actions without executing them.
func printPlan(w io.Writer, ffmpegPath string, inv gateway.Invocation) {
	fmt.Fprintln(w, "Dry-run plan:")
	fmt.Fprintf(w, "- Operation:      %s\n", inv.Op)
	fmt.Fprintf(w, "- FFmpeg:         %s\n", ffmpegPath)
	fmt.Fprintf(w, "- Output path:    %s\n", inv.OutputPath)
	if inv.ListPath != "" {
		fmt.Fprintf(w, "- Concat list:    %s (written at run time)\n", inv.ListPath)
	}
	fmt.Fprintf(w, "- Command:        %s\n", util.ShellQuote(ffmpegPath, inv.Args))
}

func isTerminal() bool {
	return isTerminalFile(os.Stdout)
}

func isTerminalFile(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// lineReporter redraws a single "message NN%" line per job.
type lineReporter struct {
	mu   sync.Mutex
	w    io.Writer
	mono progress.Monotonic
	last int
}

func newLineReporter(w io.Writer) *lineReporter {
	return &lineReporter{w: w, last: -1}
}

func (r *lineReporter) Update(u progress.Update) {
	if u.Stage != progress.StageProcessing || u.Percent < 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p := int(r.mono.Observe(u.Percent))
	if p == r.last {
		return
	}
	r.last = p
	fmt.Fprintf(r.w, "\r%s %3d%%", u.Message, p)
}

func (r *lineReporter) Log(progress.Log) {}

func (r *lineReporter) Result(progress.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last >= 0 {
		fmt.Fprintln(r.w)
	}
	r.mono.Reset()
	r.last = -1
}
