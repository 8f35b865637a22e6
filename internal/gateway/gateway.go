// Package gateway validates operation requests and dispatches them to ffmpeg.
package gateway

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-hclog"

	"vidmerge/internal/encoder"
	"vidmerge/internal/media"
	"vidmerge/internal/model"
	"vidmerge/internal/progress"
	"vidmerge/internal/util"
	"vidmerge/internal/util/format"
)

// Gateway turns Requests into ffmpeg runs. It does not serialize calls;
// single-flight is the caller's concern.
type Gateway struct {
	ffmpegPath  string
	ffprobePath string
	tempDir     string
	verbose     bool

	runner   util.CmdRunner
	reporter progress.Reporter
	feed     *progress.Feed
	logger   hclog.Logger
	now      func() time.Time
	validate *validator.Validate

	seq atomic.Uint64
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithFFmpegPath sets the ffmpeg binary path.
func WithFFmpegPath(p string) Option {
	return func(g *Gateway) {
		g.ffmpegPath = p
	}
}

// WithFFprobePath sets the ffprobe binary path. Without it progress percent is
// unknown for operations whose duration depends on the input.
func WithFFprobePath(p string) Option {
	return func(g *Gateway) {
		g.ffprobePath = p
	}
}

// WithRunner injects a custom command runner (useful for testing).
func WithRunner(r util.CmdRunner) Option {
	return func(g *Gateway) {
		g.runner = r
	}
}

// WithReporter attaches an extra reporter alongside the progress feed.
func WithReporter(rp progress.Reporter) Option {
	return func(g *Gateway) {
		g.reporter = rp
	}
}

// WithLogger sets the logger.
func WithLogger(l hclog.Logger) Option {
	return func(g *Gateway) {
		g.logger = l
	}
}

// WithClock overrides time.Now for output naming.
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) {
		g.now = now
	}
}

// WithTempDir sets where concat manifests are written.
func WithTempDir(dir string) Option {
	return func(g *Gateway) {
		g.tempDir = dir
	}
}

// WithVerbose logs subprocess output lines at debug level.
func WithVerbose(v bool) Option {
	return func(g *Gateway) {
		g.verbose = v
	}
}

// New constructs a Gateway, applying defaults for missing components.
func New(opts ...Option) *Gateway {
	g := &Gateway{}
	for _, o := range opts {
		o(g)
	}
	if g.runner == nil {
		g.runner = util.NewDefaultRunner()
	}
	if g.logger == nil {
		g.logger = hclog.NewNullLogger()
	}
	if g.now == nil {
		g.now = time.Now
	}
	if g.tempDir == "" {
		g.tempDir = os.TempDir()
	}
	g.feed = progress.NewFeed(0)
	g.validate = validator.New()
	return g
}

// Progress returns the feed every Execute publishes to.
func (g *Gateway) Progress() *progress.Feed { return g.feed }

// Invocation is a fully planned ffmpeg run.
type Invocation struct {
	Op         model.Op
	Args       []string
	OutputPath string
	ListPath   string // concat manifest, merge only
	Message    string
}

// Plan validates req and returns the ffmpeg invocation it would run. Nothing
// is written; for merges ListPath names a manifest that does not exist yet.
func (g *Gateway) Plan(req model.Request) (Invocation, error) {
	if err := g.check(req); err != nil {
		return Invocation{}, err
	}
	listPath := ""
	if _, ok := req.(model.Merge); ok {
		listPath = filepath.Join(g.tempDir, "concat-list.txt")
	}
	return g.build(req, listPath)
}

// Execute validates and runs req, returning exactly one terminal outcome.
// Validation failures never start a process.
func (g *Gateway) Execute(ctx context.Context, req model.Request) (model.ProcessResult, error) {
	var op model.Op
	if req != nil {
		op = req.Op()
	}
	jobID := fmt.Sprintf("%s-%d", op, g.seq.Add(1))
	rep := progress.Multi{g.feed, g.reporter}

	if err := g.check(req); err != nil {
		g.logger.Warn("rejected", "op", op, "error", err)
		rep.Result(progress.Result{JobID: jobID, Err: err})
		return model.ProcessResult{}, err
	}

	rep.Update(progress.Update{JobID: jobID, Stage: progress.StageProbing, Percent: -1, Message: "Preparing"})
	expected := g.expectedDuration(ctx, req)

	listPath := ""
	if m, ok := req.(model.Merge); ok {
		p, err := encoder.WriteConcatList(g.tempDir, media.Paths(m.Items))
		if err != nil {
			rep.Result(progress.Result{JobID: jobID, Err: err})
			return model.ProcessResult{}, err
		}
		listPath = p
		defer func() {
			if err := util.RemoveIfExists(listPath); err != nil {
				g.logger.Warn("remove concat list", "path", listPath, "error", err)
			}
		}()
	}

	inv, err := g.build(req, listPath)
	if err != nil {
		rep.Result(progress.Result{JobID: jobID, Err: err})
		return model.ProcessResult{}, err
	}

	g.logger.Info("starting", "op", op, "job", jobID, "output", inv.OutputPath)
	rep.Update(progress.Update{JobID: jobID, Stage: progress.StageProcessing, Percent: 0, Message: inv.Message})

	out, runErr := encoder.Run(ctx, encoder.Options{
		FFmpegPath:          g.ffmpegPath,
		Args:                inv.Args,
		OutputPath:          inv.OutputPath,
		ExpectedDurationSec: expected,
		Message:             inv.Message,
		Runner:              g.runner,
		Reporter:            rep,
		Logger:              g.logger,
		JobID:               jobID,
		Verbose:             g.verbose,
	})
	if runErr != nil {
		terr := &ToolError{Op: op, Args: inv.Args, Stderr: string(out.Stderr), Err: runErr}
		g.logger.Error("ffmpeg failed", "op", op, "job", jobID, "error", runErr)
		rep.Result(progress.Result{JobID: jobID, Err: terr})
		return model.ProcessResult{}, terr
	}

	g.logger.Info("saved", "op", op, "job", jobID, "output", out.Path, "size", format.HumanizeBytes(out.Bytes))
	rep.Result(progress.Result{JobID: jobID, OutputPath: out.Path, Bytes: out.Bytes})
	return model.ProcessResult{Success: true, OutputFile: out.Path, Bytes: out.Bytes}, nil
}

// build maps a validated request onto its argument list.
func (g *Gateway) build(req model.Request, listPath string) (Invocation, error) {
	dir := req.Dir()
	inv := Invocation{Op: req.Op(), ListPath: listPath}

	switch v := req.(type) {
	case model.Merge:
		inv.OutputPath = g.outputPath(dir, media.MergedVideoName)
		inv.Args = encoder.BuildMergeArgs(listPath, inv.OutputPath, true)
		inv.Message = "Merging videos"
	case model.MergeImages:
		inv.OutputPath = g.outputPath(dir, media.MergedImagesName)
		inv.Args = encoder.BuildImageMergeArgs(media.Paths(v.Items), v.PerImageDuration, inv.OutputPath, true)
		inv.Message = "Merging images"
	case model.ChangeSpeed:
		inv.OutputPath = g.outputPath(dir, func(t time.Time) string { return media.SpeedName(v.Factor, t) })
		inv.Args = encoder.BuildSpeedArgs(v.Item.Path, v.Factor, inv.OutputPath, true)
		inv.Message = "Changing speed"
	case model.Trim:
		inv.OutputPath = g.outputPath(dir, media.TrimmedName)
		inv.Args = encoder.BuildTrimArgs(v.Item.Path, v.Start, v.Duration, inv.OutputPath, true)
		inv.Message = "Trimming"
	case model.ExtractAudio:
		inv.OutputPath = g.outputPath(dir, func(t time.Time) string { return media.AudioName(string(v.Format), t) })
		inv.Args = encoder.BuildAudioArgs(v.Item.Path, v.Format, inv.OutputPath, true)
		inv.Message = "Extracting audio"
	case model.Compress:
		inv.OutputPath = g.outputPath(dir, media.CompressedName)
		var tier model.Tier
		inv.Args, tier = encoder.BuildCompressArgs(v.Item.Path, v.Quality, inv.OutputPath, true)
		g.logger.Debug("compress tier", "op", inv.Op, "quality", v.Quality, "crf", tier.CRF, "preset", tier.Preset)
		inv.Message = "Compressing"
	case model.Rotate:
		inv.OutputPath = g.outputPath(dir, func(t time.Time) string { return media.RotatedName(v.Angle, t) })
		args, err := encoder.BuildRotateArgs(v.Item.Path, v.Angle, inv.OutputPath, true)
		if err != nil {
			return Invocation{}, invalid(inv.Op, ErrUnsupportedRotation, err.Error())
		}
		inv.Args = args
		inv.Message = "Rotating"
	default:
		return Invocation{}, invalid(inv.Op, ErrUnknownRequest, fmt.Sprintf("%T", req))
	}
	return inv, nil
}

// outputPath names a new file in dir. If the timestamped name is taken the
// stamp is advanced by a millisecond until it is free.
func (g *Gateway) outputPath(dir string, name func(time.Time) string) string {
	t := g.now()
	p := media.OutputPath(dir, name(t))
	for i := 0; i < 1000; i++ {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return p
		}
		t = t.Add(time.Millisecond)
		p = media.OutputPath(dir, name(t))
	}
	return p
}
