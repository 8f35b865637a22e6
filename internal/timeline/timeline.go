// Package timeline implements the trim-handle editor used to cut segments
// out of a single video.
package timeline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/google/uuid"

	"vidmerge/internal/media"
	"vidmerge/internal/model"
)

// Epsilon is the minimum gap between the start and end handles, in seconds.
const Epsilon = 0.1

// StepSeconds is how far Step moves the cursor per unit.
const StepSeconds = 1.0

var (
	ErrBusy       = errors.New("an export is already running")
	ErrNotLoaded  = errors.New("media duration is not known yet")
	ErrNoSegments = errors.New("no segments to export; add some segments first")
	ErrNoSegment  = errors.New("segment not found")
)

// State is the editor's lifecycle state.
type State int

const (
	Unloaded State = iota
	Selecting
	Exporting
)

func (s State) String() string {
	switch s {
	case Selecting:
		return "selecting"
	case Exporting:
		return "exporting"
	}
	return "unloaded"
}

// Selection is the live trim range.
type Selection struct {
	Start         float64
	End           float64
	MediaDuration float64
}

// Duration is End - Start.
func (s Selection) Duration() float64 { return s.End - s.Start }

// Segment is a snapshot of a Selection. It never changes after creation.
type Segment struct {
	ID       string
	Name     string
	Start    float64
	End      float64
	Duration float64
}

// Trimmer runs one trim request. *gateway.Gateway satisfies it.
type Trimmer interface {
	Execute(ctx context.Context, req model.Request) (model.ProcessResult, error)
}

// Failure records a segment whose export failed.
type Failure struct {
	Segment Segment
	Err     error
}

// Report summarizes an ExportAll run.
type Report struct {
	Outputs  []string // successful output files, in segment order
	Failures []Failure
	Total    int
}

// Succeeded is the number of segments that exported.
func (r Report) Succeeded() int { return len(r.Outputs) }

// Summary is a one-line user message.
func (r Report) Summary() string {
	if len(r.Failures) == 0 {
		return fmt.Sprintf("Exported %d segments successfully!", r.Succeeded())
	}
	return fmt.Sprintf("Exported %d of %d segments; %d failed", r.Succeeded(), r.Total, len(r.Failures))
}

// Editor is the segment/timeline state machine for one media item.
// Methods are safe to call from the UI loop while an export runs elsewhere.
type Editor struct {
	trimmer Trimmer
	item    media.Item
	outDir  string

	mu       sync.Mutex
	state    State
	sel      Selection
	cursor   float64
	segments []Segment
}

// NewEditor returns an Unloaded editor that exports item into outDir via t.
func NewEditor(t Trimmer, item media.Item, outDir string) *Editor {
	return &Editor{trimmer: t, item: item, outDir: outDir}
}

// Load records the media duration and selects the full range. Media shorter
// than Epsilon cannot hold a selection and is rejected.
func (e *Editor) Load(duration float64) error {
	if math.IsNaN(duration) || math.IsInf(duration, 0) || duration < Epsilon {
		return fmt.Errorf("%w: duration %v", ErrNotLoaded, duration)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Exporting {
		return ErrBusy
	}
	e.sel = Selection{Start: 0, End: duration, MediaDuration: duration}
	e.cursor = 0
	e.state = Selecting
	return nil
}

// SetOutputDir changes where exports are written.
func (e *Editor) SetOutputDir(dir string) {
	e.mu.Lock()
	e.outDir = dir
	e.mu.Unlock()
}

// State returns the current state.
func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Selection returns the live selection.
func (e *Editor) Selection() Selection {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sel
}

// Cursor returns the playback position.
func (e *Editor) Cursor() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursor
}

// Item returns the media being edited.
func (e *Editor) Item() media.Item { return e.item }

// DragStart moves the start handle, keeping it at least Epsilon before End.
func (e *Editor) DragStart(v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Unloaded {
		return
	}
	v = clamp(v, 0, e.sel.MediaDuration)
	e.sel.Start = math.Max(0, math.Min(v, e.sel.End-Epsilon))
}

// DragEnd moves the end handle, keeping it at least Epsilon after Start.
func (e *Editor) DragEnd(v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Unloaded {
		return
	}
	v = clamp(v, 0, e.sel.MediaDuration)
	e.sel.End = math.Min(e.sel.MediaDuration, math.Max(v, e.sel.Start+Epsilon))
}

// DragStartFraction positions the start handle by track fraction.
func (e *Editor) DragStartFraction(f float64) {
	e.DragStart(clamp(f, 0, 1) * e.Selection().MediaDuration)
}

// DragEndFraction positions the end handle by track fraction.
func (e *Editor) DragEndFraction(f float64) {
	e.DragEnd(clamp(f, 0, 1) * e.Selection().MediaDuration)
}

// Seek moves the cursor to t, clamped to the media. Handles never move.
func (e *Editor) Seek(t float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cursor = clamp(t, 0, e.sel.MediaDuration)
}

// Step moves the cursor by n steps of StepSeconds.
func (e *Editor) Step(n int) { e.Seek(e.Cursor() + float64(n)*StepSeconds) }

// JumpStart moves the cursor to the start handle.
func (e *Editor) JumpStart() { e.Seek(e.Selection().Start) }

// JumpEnd moves the cursor to the end handle.
func (e *Editor) JumpEnd() { e.Seek(e.Selection().End) }

// SeekFraction positions the cursor at a fraction of the track; f is clamped to [0,1].
func (e *Editor) SeekFraction(f float64) { e.Seek(clamp(f, 0, 1) * e.Selection().MediaDuration) }

// AddSegment snapshots the live selection.
func (e *Editor) AddSegment() (Segment, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Unloaded || e.sel.Duration() <= 0 {
		return Segment{}, ErrNotLoaded
	}
	seg := Segment{
		ID:       uuid.New().String(),
		Name:     fmt.Sprintf("Segment %d", len(e.segments)+1),
		Start:    e.sel.Start,
		End:      e.sel.End,
		Duration: e.sel.Duration(),
	}
	e.segments = append(e.segments, seg)
	return seg, nil
}

// RemoveSegment deletes the segment with id. Unknown ids are ignored.
func (e *Editor) RemoveSegment(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, s := range e.segments {
		if s.ID == id {
			e.segments = append(e.segments[:i], e.segments[i+1:]...)
			return
		}
	}
}

// Segments returns a copy of the segment list.
func (e *Editor) Segments() []Segment {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Segment, len(e.segments))
	copy(out, e.segments)
	return out
}

// ExportCurrent trims the live selection.
func (e *Editor) ExportCurrent(ctx context.Context) (model.ProcessResult, error) {
	e.mu.Lock()
	if e.state == Unloaded || e.sel.Duration() <= 0 {
		e.mu.Unlock()
		return model.ProcessResult{}, ErrNotLoaded
	}
	sel := e.sel
	e.mu.Unlock()
	return e.exportOne(ctx, sel.Start, sel.Duration())
}

// ExportSegment trims one stored segment.
func (e *Editor) ExportSegment(ctx context.Context, id string) (model.ProcessResult, error) {
	seg, ok := e.segment(id)
	if !ok {
		return model.ProcessResult{}, ErrNoSegment
	}
	return e.exportOne(ctx, seg.Start, seg.Duration)
}

// ExportAll trims every segment in order, one at a time. A failure does not
// stop the remaining segments.
func (e *Editor) ExportAll(ctx context.Context) (Report, error) {
	segs := e.Segments()
	if len(segs) == 0 {
		return Report{}, ErrNoSegments
	}
	req, err := e.begin()
	if err != nil {
		return Report{}, err
	}
	defer e.end()

	rep := Report{Total: len(segs)}
	for _, seg := range segs {
		req.Start, req.Duration = seg.Start, seg.Duration
		res, err := e.trimmer.Execute(ctx, req)
		if err != nil {
			rep.Failures = append(rep.Failures, Failure{Segment: seg, Err: err})
			continue
		}
		rep.Outputs = append(rep.Outputs, res.OutputFile)
	}
	return rep, nil
}

func (e *Editor) exportOne(ctx context.Context, start, duration float64) (model.ProcessResult, error) {
	req, err := e.begin()
	if err != nil {
		return model.ProcessResult{}, err
	}
	defer e.end()
	req.Start, req.Duration = start, duration
	return e.trimmer.Execute(ctx, req)
}

// begin enters Exporting and returns a Trim template for the current item.
func (e *Editor) begin() (model.Trim, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.state {
	case Exporting:
		return model.Trim{}, ErrBusy
	case Unloaded:
		return model.Trim{}, ErrNotLoaded
	}
	e.state = Exporting
	return model.Trim{Item: e.item, OutputDir: e.outDir}, nil
}

func (e *Editor) end() {
	e.mu.Lock()
	e.state = Selecting
	e.mu.Unlock()
}

func (e *Editor) segment(id string) (Segment, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, s := range e.segments {
		if s.ID == id {
			return s, true
		}
	}
	return Segment{}, false
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
