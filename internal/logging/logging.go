// Package logging builds the hclog loggers used across vidmerge.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
)

// Options configure New.
type Options struct {
	Name   string
	Level  string // trace, debug, info, warn, error; empty means info
	Output io.Writer
	JSON   bool
}

// New returns a logger writing to opts.Output (stderr when nil).
func New(opts Options) hclog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	name := opts.Name
	if name == "" {
		name = "vidmerge"
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      ParseLevel(opts.Level),
		Output:     out,
		JSONFormat: opts.JSON,
	})
}

// ParseLevel maps a level name onto hclog, defaulting to Info for unknown input.
func ParseLevel(s string) hclog.Level {
	lvl := hclog.LevelFromString(s)
	if lvl == hclog.NoLevel {
		return hclog.Info
	}
	return lvl
}

// NewFile opens (appending) a log file under dir and returns a logger on it.
// The returned closer must be called on shutdown.
func NewFile(dir, filename string, opts Options) (hclog.Logger, io.Closer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, filename), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	opts.Output = f
	return New(opts), f, nil
}
