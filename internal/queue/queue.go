// Package queue holds the ordered list of files a merge will consume.
package queue

import (
	"errors"

	"vidmerge/internal/media"
)

var (
	ErrEmpty      = errors.New("queue is empty")
	ErrMixedMedia = errors.New("queue mixes videos and images")
)

// Queue is an ordered, mutable list of media items. Insertion order is merge
// order. It is not safe for concurrent use; the UI loop owns it.
type Queue struct {
	items   []media.Item
	onClear []func()
}

// New returns a queue pre-filled with items.
func New(items ...media.Item) *Queue {
	q := &Queue{}
	q.Append(items...)
	return q
}

// Append adds items at the end in arrival order.
func (q *Queue) Append(items ...media.Item) {
	q.items = append(q.items, items...)
}

// RemoveAt deletes the item at i. Out of range is a no-op.
func (q *Queue) RemoveAt(i int) {
	if i < 0 || i >= len(q.items) {
		return
	}
	q.items = append(q.items[:i], q.items[i+1:]...)
}

// Reorder moves the item at from to position to, shifting the rest.
// Equal or out-of-range indices are a no-op.
func (q *Queue) Reorder(from, to int) {
	n := len(q.items)
	if from == to || from < 0 || from >= n || to < 0 || to >= n {
		return
	}
	it := q.items[from]
	q.items = append(q.items[:from], q.items[from+1:]...)
	q.items = append(q.items[:to], append([]media.Item{it}, q.items[to:]...)...)
}

// Clear empties the queue and runs every OnClear hook.
func (q *Queue) Clear() {
	q.items = nil
	for _, fn := range q.onClear {
		fn()
	}
}

// OnClear registers fn to run after every Clear, e.g. to reset a preview.
func (q *Queue) OnClear(fn func()) {
	if fn != nil {
		q.onClear = append(q.onClear, fn)
	}
}

// Ingest classifies paths and appends the supported ones. It returns how many
// paths were skipped as unsupported or unresolvable.
func (q *Queue) Ingest(paths ...string) (skipped int) {
	for _, p := range paths {
		if !media.IsSupported(p) {
			skipped++
			continue
		}
		it, err := media.NewItem(p)
		if err != nil {
			skipped++
			continue
		}
		q.items = append(q.items, it)
	}
	return skipped
}

// Items returns a copy of the queue contents.
func (q *Queue) Items() []media.Item {
	out := make([]media.Item, len(q.items))
	copy(out, q.items)
	return out
}

// At returns the item at i.
func (q *Queue) At(i int) (media.Item, bool) {
	if i < 0 || i >= len(q.items) {
		return media.Item{}, false
	}
	return q.items[i], true
}

// Len returns the number of items.
func (q *Queue) Len() int { return len(q.items) }

// Kind returns the shared media kind of all items.
func (q *Queue) Kind() (media.Kind, error) {
	k, err := media.Homogeneous(q.items)
	switch {
	case errors.Is(err, media.ErrNoItems):
		return media.KindUnknown, ErrEmpty
	case errors.Is(err, media.ErrMixedKinds):
		return media.KindUnknown, ErrMixedMedia
	}
	return k, err
}

// TotalSize sums known item sizes.
func (q *Queue) TotalSize() int64 {
	var total int64
	for _, it := range q.items {
		if it.Size > 0 {
			total += it.Size
		}
	}
	return total
}
