package timeline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidmerge/internal/media"
	"vidmerge/internal/model"
)

type fakeTrimmer struct {
	mu      sync.Mutex
	calls   []model.Trim
	failOn  map[int]bool // call index -> fail
	block   chan struct{}
	started chan struct{}
}

func (f *fakeTrimmer) Execute(ctx context.Context, req model.Request) (model.ProcessResult, error) {
	trim, ok := req.(model.Trim)
	if !ok {
		return model.ProcessResult{}, fmt.Errorf("unexpected request %T", req)
	}
	f.mu.Lock()
	idx := len(f.calls)
	f.calls = append(f.calls, trim)
	f.mu.Unlock()

	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	if f.failOn[idx] {
		return model.ProcessResult{}, errors.New("ffmpeg exploded")
	}
	return model.ProcessResult{Success: true, OutputFile: fmt.Sprintf("/out/trimmed_%d.mp4", idx)}, nil
}

func loaded(t *testing.T, tr Trimmer, dur float64) *Editor {
	t.Helper()
	e := NewEditor(tr, media.Item{Name: "a.mp4", Path: "/a.mp4", Kind: media.KindVideo}, "/out")
	require.NoError(t, e.Load(dur))
	return e
}

func TestLoad(t *testing.T) {
	e := NewEditor(&fakeTrimmer{}, media.Item{}, "/out")
	assert.Equal(t, Unloaded, e.State())
	assert.ErrorIs(t, e.Load(0), ErrNotLoaded)
	assert.ErrorIs(t, e.Load(Epsilon/2), ErrNotLoaded)
	assert.ErrorIs(t, e.Load(math.NaN()), ErrNotLoaded)
	assert.ErrorIs(t, e.Load(math.Inf(1)), ErrNotLoaded)
	assert.Equal(t, Unloaded, e.State())

	require.NoError(t, e.Load(Epsilon))
	e.DragStart(Epsilon / 2)
	e.DragEnd(0)
	sel := e.Selection()
	assert.LessOrEqual(t, sel.Start, sel.End-Epsilon+1e-9)

	require.NoError(t, e.Load(60))
	assert.Equal(t, Selecting, e.State())
	assert.Equal(t, Selection{Start: 0, End: 60, MediaDuration: 60}, e.Selection())
	assert.Zero(t, e.Cursor())
}

func TestDragHandlesKeepEpsilonGap(t *testing.T) {
	e := loaded(t, &fakeTrimmer{}, 30)

	e.DragStart(40)
	sel := e.Selection()
	assert.InDelta(t, 30-Epsilon, sel.Start, 1e-9)
	assert.Equal(t, 30.0, sel.End)

	e.DragEnd(0)
	sel = e.Selection()
	assert.InDelta(t, sel.Start+Epsilon, sel.End, 1e-9)

	e.DragStart(-5)
	assert.Equal(t, 0.0, e.Selection().Start)

	e.DragEnd(100)
	assert.Equal(t, 30.0, e.Selection().End)

	e.DragStartFraction(0.5)
	e.DragEndFraction(2)
	assert.Equal(t, Selection{Start: 15, End: 30, MediaDuration: 30}, e.Selection())
}

// Any sequence of drags must keep 0 <= start <= end-eps <= end <= duration.
func TestDragInvariantUnderRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for run := 0; run < 50; run++ {
		dur := 1 + rng.Float64()*120
		e := loaded(t, &fakeTrimmer{}, dur)
		for i := 0; i < 200; i++ {
			v := rng.Float64()*dur*1.4 - dur*0.2
			if rng.Intn(2) == 0 {
				e.DragStart(v)
			} else {
				e.DragEnd(v)
			}
			s := e.Selection()
			require.GreaterOrEqual(t, s.Start, 0.0)
			require.LessOrEqual(t, s.Start, s.End-Epsilon+1e-9)
			require.LessOrEqual(t, s.End, s.MediaDuration)
		}
	}
}

func TestSeekNeverMovesHandles(t *testing.T) {
	e := loaded(t, &fakeTrimmer{}, 10)
	e.DragStart(2)
	e.DragEnd(8)
	before := e.Selection()

	e.Seek(5)
	assert.Equal(t, 5.0, e.Cursor())
	e.Step(1)
	assert.Equal(t, 6.0, e.Cursor())
	e.Step(-10)
	assert.Equal(t, 0.0, e.Cursor())
	e.Seek(99)
	assert.Equal(t, 10.0, e.Cursor())
	e.Step(1)
	assert.Equal(t, 10.0, e.Cursor())
	e.JumpStart()
	assert.Equal(t, 2.0, e.Cursor())
	e.JumpEnd()
	assert.Equal(t, 8.0, e.Cursor())
	e.SeekFraction(0.25)
	assert.Equal(t, 2.5, e.Cursor())
	e.SeekFraction(-1)
	assert.Equal(t, 0.0, e.Cursor())

	assert.Equal(t, before, e.Selection())
}

func TestSegmentsAreSnapshots(t *testing.T) {
	e := loaded(t, &fakeTrimmer{}, 100)
	var added []Segment
	for i := 0; i < 4; i++ {
		e.DragEnd(100)
		e.DragStart(float64(i * 10))
		e.DragEnd(float64(i*10 + 5))
		seg, err := e.AddSegment()
		require.NoError(t, err)
		added = append(added, seg)
	}
	e.DragEnd(99)
	e.DragStart(50)

	segs := e.Segments()
	require.Len(t, segs, 4)
	for i, s := range segs {
		assert.Equal(t, added[i], s)
		assert.Equal(t, fmt.Sprintf("Segment %d", i+1), s.Name)
		assert.Equal(t, float64(i*10), s.Start)
		assert.Equal(t, float64(i*10+5), s.End)
		assert.Equal(t, 5.0, s.Duration)
		assert.NotEmpty(t, s.ID)
	}
	assert.NotEqual(t, segs[0].ID, segs[1].ID)

	e.RemoveSegment(segs[1].ID)
	e.RemoveSegment("missing")
	assert.Len(t, e.Segments(), 3)
	assert.Equal(t, Selection{Start: 50, End: 99, MediaDuration: 100}, e.Selection())
}

func TestAddSegmentUnloaded(t *testing.T) {
	e := NewEditor(&fakeTrimmer{}, media.Item{}, "/out")
	_, err := e.AddSegment()
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestExportAllSequentialInOrder(t *testing.T) {
	ft := &fakeTrimmer{failOn: map[int]bool{1: true}}
	e := loaded(t, ft, 60)
	for _, r := range [][2]float64{{0, 10}, {20, 25}, {40, 60}} {
		e.DragStart(r[0])
		e.DragEnd(r[1])
		_, err := e.AddSegment()
		require.NoError(t, err)
		e.DragStart(0)
		e.DragEnd(60)
	}

	rep, err := e.ExportAll(context.Background())
	require.NoError(t, err)

	require.Len(t, ft.calls, 3)
	assert.Equal(t, 0.0, ft.calls[0].Start)
	assert.Equal(t, 10.0, ft.calls[0].Duration)
	assert.Equal(t, 20.0, ft.calls[1].Start)
	assert.Equal(t, 40.0, ft.calls[2].Start)
	assert.Equal(t, 20.0, ft.calls[2].Duration)
	for _, c := range ft.calls {
		assert.Equal(t, "/a.mp4", c.Item.Path)
		assert.Equal(t, "/out", c.OutputDir)
	}

	assert.Equal(t, 2, rep.Succeeded())
	assert.LessOrEqual(t, rep.Succeeded(), 3)
	require.Len(t, rep.Failures, 1)
	assert.Equal(t, "Segment 2", rep.Failures[0].Segment.Name)
	assert.Equal(t, []string{"/out/trimmed_0.mp4", "/out/trimmed_2.mp4"}, rep.Outputs)
	assert.Equal(t, "Exported 2 of 3 segments; 1 failed", rep.Summary())
	assert.Equal(t, Selecting, e.State())
}

func TestExportAllWithoutSegments(t *testing.T) {
	e := loaded(t, &fakeTrimmer{}, 10)
	_, err := e.ExportAll(context.Background())
	assert.ErrorIs(t, err, ErrNoSegments)
}

func TestExportCurrentAndSegment(t *testing.T) {
	ft := &fakeTrimmer{failOn: map[int]bool{1: true}}
	e := loaded(t, ft, 30)
	e.DragStart(5)
	e.DragEnd(12)

	res, err := e.ExportCurrent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/out/trimmed_0.mp4", res.OutputFile)
	assert.Equal(t, 5.0, ft.calls[0].Start)
	assert.Equal(t, 7.0, ft.calls[0].Duration)
	assert.Equal(t, Selecting, e.State())

	seg, err := e.AddSegment()
	require.NoError(t, err)
	_, err = e.ExportSegment(context.Background(), seg.ID)
	assert.Error(t, err)
	assert.Equal(t, Selecting, e.State(), "failure returns to Selecting")
	assert.Len(t, ft.calls, 2, "no retry")

	_, err = e.ExportSegment(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNoSegment)
}

func TestExportWhileExportingIsBusy(t *testing.T) {
	ft := &fakeTrimmer{block: make(chan struct{}), started: make(chan struct{}, 1)}
	e := loaded(t, ft, 30)

	done := make(chan error, 1)
	go func() {
		_, err := e.ExportCurrent(context.Background())
		done <- err
	}()
	<-ft.started
	assert.Equal(t, Exporting, e.State())

	_, err := e.ExportCurrent(context.Background())
	assert.ErrorIs(t, err, ErrBusy)
	_, err = e.AddSegment()
	require.NoError(t, err)
	_, err = e.ExportAll(context.Background())
	assert.ErrorIs(t, err, ErrBusy)

	close(ft.block)
	require.NoError(t, <-done)
	assert.Equal(t, Selecting, e.State())
}

func TestReportSummaryAllSucceeded(t *testing.T) {
	r := Report{Outputs: []string{"a", "b"}, Total: 2}
	assert.Equal(t, "Exported 2 segments successfully!", r.Summary())
}
