package progress

import "sync"

const defaultBuffer = 64

// Feed fans updates out to subscribers. It implements Reporter so producers
// can publish into it directly. Slow subscribers lose non-terminal updates;
// terminal updates evict the oldest buffered update to make room.
type Feed struct {
	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	buffer int
}

// NewFeed returns an empty feed. buffer <= 0 uses a default size.
func NewFeed(buffer int) *Feed {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Feed{subs: make(map[*Subscription]struct{}), buffer: buffer}
}

// Subscription is one consumer's view of a Feed. Close it on teardown.
type Subscription struct {
	feed *Feed
	ch   chan Update
	once sync.Once
}

// C returns the channel updates arrive on. It is closed by Close.
func (s *Subscription) C() <-chan Update { return s.ch }

// Close detaches the subscription and closes its channel. Safe to call twice.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.feed.mu.Lock()
		delete(s.feed.subs, s)
		close(s.ch)
		s.feed.mu.Unlock()
	})
}

// Subscribe attaches a new consumer.
func (f *Feed) Subscribe() *Subscription {
	s := &Subscription{feed: f, ch: make(chan Update, f.buffer)}
	f.mu.Lock()
	f.subs[s] = struct{}{}
	f.mu.Unlock()
	return s
}

// Subscribers returns the number of attached consumers.
func (f *Feed) Subscribers() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}

// Publish delivers u to every current subscriber without blocking.
func (f *Feed) Publish(u Update) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for s := range f.subs {
		select {
		case s.ch <- u:
			continue
		default:
		}
		if !u.Stage.Terminal() {
			continue
		}
		select {
		case <-s.ch:
		default:
		}
		select {
		case s.ch <- u:
		default:
		}
	}
}

// Update implements Reporter.
func (f *Feed) Update(u Update) { f.Publish(u) }

// Log implements Reporter; log lines are not fanned out.
func (f *Feed) Log(Log) {}

// Result implements Reporter by publishing a terminal update.
func (f *Feed) Result(r Result) {
	u := Update{JobID: r.JobID, Stage: StageCompleted, Percent: 100, Message: r.OutputPath}
	if r.Err != nil {
		u = Update{JobID: r.JobID, Stage: StageError, Percent: -1, Message: r.Err.Error()}
	}
	f.Publish(u)
}
