package panel

import (
	"errors"
	"sync"
)

// ErrBusy is returned when a submission is attempted while one is outstanding.
var ErrBusy = errors.New("an operation is already running")

// Guard enforces one outstanding operation. Share one Guard between the
// merge session and the operation panel so they exclude each other.
type Guard struct {
	mu   sync.Mutex
	busy bool
}

// Acquire marks the guard busy or returns ErrBusy.
func (g *Guard) Acquire() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy {
		return ErrBusy
	}
	g.busy = true
	return nil
}

// Release clears the busy flag.
func (g *Guard) Release() {
	g.mu.Lock()
	g.busy = false
	g.mu.Unlock()
}

// Busy reports whether an operation is outstanding.
func (g *Guard) Busy() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.busy
}
