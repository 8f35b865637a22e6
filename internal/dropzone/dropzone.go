// Package dropzone watches a folder and reports media files dropped into it.
package dropzone

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"

	"vidmerge/internal/media"
)

// DefaultDebounce is how long the folder must be quiet before a batch is emitted.
const DefaultDebounce = 500 * time.Millisecond

// Batch is one settled group of dropped files.
type Batch struct {
	Paths   []string // supported media, in arrival order
	Skipped int      // unsupported files
}

// Watcher emits a Batch each time files settle in the watched folder.
type Watcher struct {
	dir      string
	debounce time.Duration
	logger   hclog.Logger

	fsw *fsnotify.Watcher
	out chan Batch
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithLogger sets the logger.
func WithLogger(l hclog.Logger) Option {
	return func(w *Watcher) {
		w.logger = l
	}
}

// New starts watching dir. Call Run to begin emitting batches.
func New(dir string, opts ...Option) (*Watcher, error) {
	fi, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	w := &Watcher{
		dir:      dir,
		debounce: DefaultDebounce,
		logger:   hclog.NewNullLogger(),
		fsw:      fsw,
		out:      make(chan Batch, 8),
	}
	for _, o := range opts {
		o(w)
	}
	return w, nil
}

// Dir returns the watched folder.
func (w *Watcher) Dir() string { return w.dir }

// Batches delivers settled drops. It is closed when Run returns.
func (w *Watcher) Batches() <-chan Batch { return w.out }

// Run processes filesystem events until ctx is done or the watcher fails.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.out)
	defer w.fsw.Close()

	var (
		pending []string
		seen    = map[string]bool{}
		timer   *time.Timer
		fire    <-chan time.Time
	)
	flush := func() {
		if len(pending) == 0 {
			return
		}
		b := classify(pending)
		pending, seen = nil, map[string]bool{}
		if len(b.Paths) == 0 && b.Skipped == 0 {
			return
		}
		w.logger.Debug("drop batch", "files", len(b.Paths), "skipped", b.Skipped)
		select {
		case w.out <- b:
		case <-ctx.Done():
		}
	}

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				flush()
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if !seen[ev.Name] {
				seen[ev.Name] = true
				pending = append(pending, ev.Name)
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			flush()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "dir", w.dir, "error", err)
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()
		}
	}
}

// classify drops vanished paths and directories, and splits the rest.
func classify(paths []string) Batch {
	var b Batch
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil || fi.IsDir() {
			continue
		}
		if !media.IsSupported(p) {
			b.Skipped++
			continue
		}
		b.Paths = append(b.Paths, p)
	}
	return b
}
