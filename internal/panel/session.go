package panel

import (
	"context"
	"errors"
	"math"
	"sync"

	"vidmerge/internal/media"
	"vidmerge/internal/model"
	"vidmerge/internal/queue"
)

var (
	ErrNoFiles        = errors.New("please add files to merge")
	ErrNoOutputFolder = errors.New("please select an output folder")
	ErrMixedFiles     = errors.New("cannot mix videos and images; please use only one type of media")
)

// Session is the merge screen: a queue, an output folder and the image hold time.
// Clearing the queue also drops the preview and editing selections.
type Session struct {
	sub   Submitter
	guard *Guard
	queue *queue.Queue

	mu            sync.Mutex
	outDir        string
	imageDuration float64
	preview       *media.Item
	editing       *media.Item
}

// NewSession binds a session to q.
func NewSession(sub Submitter, q *queue.Queue, opts ...Option) *Session {
	o := buildOptions(opts)
	s := &Session{
		sub:           sub,
		guard:         o.guard,
		queue:         q,
		imageDuration: model.DefaultImageDuration,
	}
	q.OnClear(s.resetSelection)
	return s
}

// Queue returns the underlying queue.
func (s *Session) Queue() *queue.Queue { return s.queue }

// Guard returns the single-flight guard, for panels that must share it.
func (s *Session) Guard() *Guard { return s.guard }

// SetOutputDir sets the destination folder.
func (s *Session) SetOutputDir(dir string) {
	s.mu.Lock()
	s.outDir = dir
	s.mu.Unlock()
}

// OutputDir returns the destination folder.
func (s *Session) OutputDir() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outDir
}

// SetImageDuration snaps d to the half-second grid within the allowed range.
func (s *Session) SetImageDuration(d float64) {
	if math.IsNaN(d) {
		return
	}
	d = math.Round(d/model.ImageDurationStep) * model.ImageDurationStep
	d = math.Max(model.MinImageDuration, math.Min(model.MaxImageDuration, d))
	s.mu.Lock()
	s.imageDuration = d
	s.mu.Unlock()
}

// ImageDuration returns the per-image hold time in seconds.
func (s *Session) ImageDuration() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.imageDuration
}

// Preview selects the queue item at i for preview.
func (s *Session) Preview(i int) bool {
	it, ok := s.queue.At(i)
	if !ok {
		return false
	}
	s.mu.Lock()
	s.preview = &it
	s.mu.Unlock()
	return true
}

// Edit selects the queue item at i for the operation panel.
func (s *Session) Edit(i int) bool {
	it, ok := s.queue.At(i)
	if !ok {
		return false
	}
	s.mu.Lock()
	s.editing = &it
	s.mu.Unlock()
	return true
}

// Previewing returns the previewed item, if any.
func (s *Session) Previewing() (media.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.preview == nil {
		return media.Item{}, false
	}
	return *s.preview, true
}

// Editing returns the item open in the operation panel, if any.
func (s *Session) Editing() (media.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editing == nil {
		return media.Item{}, false
	}
	return *s.editing, true
}

// CloseEditor drops the editing selection.
func (s *Session) CloseEditor() {
	s.mu.Lock()
	s.editing = nil
	s.mu.Unlock()
}

func (s *Session) resetSelection() {
	s.mu.Lock()
	s.preview = nil
	s.editing = nil
	s.mu.Unlock()
}

// MergeRequest validates the session and picks Merge or MergeImages by the
// queue's media kind.
func (s *Session) MergeRequest() (model.Request, error) {
	if s.queue.Len() == 0 {
		return nil, ErrNoFiles
	}
	dir := s.OutputDir()
	if dir == "" {
		return nil, ErrNoOutputFolder
	}
	kind, err := s.queue.Kind()
	switch {
	case errors.Is(err, queue.ErrMixedMedia):
		return nil, ErrMixedFiles
	case err != nil:
		return nil, err
	}
	items := s.queue.Items()
	if kind == media.KindImage {
		return model.MergeImages{Items: items, OutputDir: dir, PerImageDuration: s.ImageDuration()}, nil
	}
	return model.Merge{Items: items, OutputDir: dir}, nil
}

// StartMerge runs the merge and empties the queue on success.
func (s *Session) StartMerge(ctx context.Context) (model.ProcessResult, error) {
	req, err := s.MergeRequest()
	if err != nil {
		return model.ProcessResult{}, err
	}
	res, err := s.RunMerge(ctx, req)
	if err != nil {
		return res, err
	}
	s.queue.Clear()
	return res, nil
}

// RunMerge executes a prepared merge request under the guard without touching
// the queue. The TUI runs it off the UI loop and clears the queue itself.
func (s *Session) RunMerge(ctx context.Context, req model.Request) (model.ProcessResult, error) {
	if err := s.guard.Acquire(); err != nil {
		return model.ProcessResult{}, err
	}
	defer s.guard.Release()
	return s.sub.Execute(ctx, req)
}
