// Package panel holds the per-file operation tabs and the merge session that
// turn UI parameters into gateway requests.
package panel

import (
	"context"
	"fmt"
	"math"
	"sync"

	"vidmerge/internal/media"
	"vidmerge/internal/model"
)

// Submitter executes one request. *gateway.Gateway satisfies it.
type Submitter interface {
	Execute(ctx context.Context, req model.Request) (model.ProcessResult, error)
}

// Tab is one operation page of the panel.
type Tab string

const (
	TabSpeed    Tab = "speed"
	TabTrim     Tab = "trim"
	TabAudio    Tab = "audio"
	TabCompress Tab = "compress"
	TabRotate   Tab = "rotate"
)

var tabs = []Tab{TabSpeed, TabTrim, TabAudio, TabCompress, TabRotate}

// Tabs returns every tab in display order.
func Tabs() []Tab {
	out := make([]Tab, len(tabs))
	copy(out, tabs)
	return out
}

// Speed slider bounds.
const (
	MinSpeed  = 0.25
	MaxSpeed  = 4.0
	SpeedStep = 0.25
)

// SpeedPresets are the one-click speed factors.
var SpeedPresets = []float64{0.5, 1, 1.5, 2, 3}

// Rotations are the angles offered by the rotate tab.
var Rotations = []int{90, 180, 270}

// Params are the entered values of every tab. They persist across tab switches.
type Params struct {
	Speed        float64
	TrimStart    float64
	TrimDuration float64
	AudioFormat  model.AudioFormat
	Quality      model.QualityPreset
	Rotation     int
}

// DefaultParams returns the values a fresh panel starts with.
func DefaultParams() Params {
	return Params{
		Speed:        1,
		TrimStart:    0,
		TrimDuration: 10,
		AudioFormat:  model.AudioMP3,
		Quality:      model.PresetMedium,
		Rotation:     90,
	}
}

// Option configures a Panel or Session.
type Option func(*options)

type options struct {
	guard *Guard
}

// WithGuard shares a single-flight guard.
func WithGuard(g *Guard) Option {
	return func(o *options) {
		o.guard = g
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	if o.guard == nil {
		o.guard = &Guard{}
	}
	return o
}

// Panel is the tabbed operation editor for one media item.
type Panel struct {
	sub   Submitter
	guard *Guard

	mu     sync.Mutex
	item   media.Item
	outDir string
	active Tab
	params Params
}

// New returns a panel on the speed tab with default parameters.
func New(sub Submitter, item media.Item, outDir string, opts ...Option) *Panel {
	o := buildOptions(opts)
	return &Panel{
		sub:    sub,
		guard:  o.guard,
		item:   item,
		outDir: outDir,
		active: TabSpeed,
		params: DefaultParams(),
	}
}

// Active returns the selected tab.
func (p *Panel) Active() Tab {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// SetActive switches tabs. Parameters of other tabs are kept.
func (p *Panel) SetActive(t Tab) error {
	for _, known := range tabs {
		if known == t {
			p.mu.Lock()
			p.active = t
			p.mu.Unlock()
			return nil
		}
	}
	return fmt.Errorf("unknown tab %q", t)
}

// NextTab cycles forward (delta > 0) or backward through the tabs.
func (p *Panel) NextTab(delta int) Tab {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := 0
	for j, t := range tabs {
		if t == p.active {
			i = j
		}
	}
	n := len(tabs)
	p.active = tabs[((i+delta)%n+n)%n]
	return p.active
}

// Params returns a copy of the current parameters.
func (p *Panel) Params() Params {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.params
}

// Item returns the file the panel operates on.
func (p *Panel) Item() media.Item { return p.item }

// SetOutputDir changes the destination directory.
func (p *Panel) SetOutputDir(dir string) {
	p.mu.Lock()
	p.outDir = dir
	p.mu.Unlock()
}

// SetSpeed snaps f to the slider grid within [MinSpeed, MaxSpeed].
func (p *Panel) SetSpeed(f float64) {
	if math.IsNaN(f) {
		return
	}
	f = math.Round(f/SpeedStep) * SpeedStep
	f = math.Max(MinSpeed, math.Min(MaxSpeed, f))
	p.mu.Lock()
	p.params.Speed = f
	p.mu.Unlock()
}

// AdjustSpeed moves the slider by n steps.
func (p *Panel) AdjustSpeed(n int) { p.SetSpeed(p.Params().Speed + float64(n)*SpeedStep) }

// SetTrimStart sets the trim start; invalid or negative input becomes 0.
func (p *Panel) SetTrimStart(v float64) {
	if math.IsNaN(v) || v < 0 {
		v = 0
	}
	p.mu.Lock()
	p.params.TrimStart = v
	p.mu.Unlock()
}

// SetTrimDuration sets the trim length; invalid or non-positive input becomes 1.
func (p *Panel) SetTrimDuration(v float64) {
	if math.IsNaN(v) || v <= 0 {
		v = 1
	}
	p.mu.Lock()
	p.params.TrimDuration = v
	p.mu.Unlock()
}

// SetAudioFormat selects the extraction format.
func (p *Panel) SetAudioFormat(f model.AudioFormat) {
	p.mu.Lock()
	p.params.AudioFormat = f
	p.mu.Unlock()
}

// SetQuality selects the compression tier.
func (p *Panel) SetQuality(q model.QualityPreset) {
	p.mu.Lock()
	p.params.Quality = q
	p.mu.Unlock()
}

// SetRotation sets the angle. It is not range-checked here; the gateway rejects
// unsupported angles.
func (p *Panel) SetRotation(angle int) {
	p.mu.Lock()
	p.params.Rotation = angle
	p.mu.Unlock()
}

// Request maps the active tab's parameters to exactly one request.
func (p *Panel) Request() model.Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	prm := p.params
	switch p.active {
	case TabTrim:
		return model.Trim{Item: p.item, OutputDir: p.outDir, Start: prm.TrimStart, Duration: prm.TrimDuration}
	case TabAudio:
		return model.ExtractAudio{Item: p.item, OutputDir: p.outDir, Format: prm.AudioFormat}
	case TabCompress:
		return model.Compress{Item: p.item, OutputDir: p.outDir, Quality: prm.Quality}
	case TabRotate:
		return model.Rotate{Item: p.item, OutputDir: p.outDir, Angle: prm.Rotation}
	default:
		return model.ChangeSpeed{Item: p.item, OutputDir: p.outDir, Factor: prm.Speed}
	}
}

// Busy reports whether a submission is outstanding.
func (p *Panel) Busy() bool { return p.guard.Busy() }

// Submit runs the active tab's request. It returns ErrBusy while another
// operation sharing the guard is outstanding.
func (p *Panel) Submit(ctx context.Context) (model.ProcessResult, error) {
	if err := p.guard.Acquire(); err != nil {
		return model.ProcessResult{}, err
	}
	defer p.guard.Release()
	return p.sub.Execute(ctx, p.Request())
}
