package ui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hashicorp/go-hclog"

	"vidmerge/internal/dropzone"
	"vidmerge/internal/gateway"
	"vidmerge/internal/queue"
)

// Config carries what the TUI is started with.
type Config struct {
	Logger        hclog.Logger
	OutDir        string
	ImageDuration float64
	Files         []string // queued on start
	DropDir       string   // watched for new files; empty disables
}

// Run launches the TUI on g until the user quits.
func Run(ctx context.Context, g *gateway.Gateway, cfg Config) error {
	if g == nil {
		return errors.New("ui: gateway is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
		cfg.Logger = logger
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sub := g.Progress().Subscribe()
	defer sub.Close()

	var drops <-chan dropzone.Batch
	if cfg.DropDir != "" {
		w, err := dropzone.New(cfg.DropDir, dropzone.WithLogger(logger.Named("dropzone")))
		if err != nil {
			logger.Warn("drop folder disabled", "dir", cfg.DropDir, "error", err)
			cfg.DropDir = ""
		} else {
			drops = w.Batches()
			go func() {
				if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Warn("drop folder watcher stopped", "error", err)
				}
			}()
		}
	}

	q := queue.New()
	m := NewModel(ctx, g, q, cfg, sub, drops)
	m.ingest(cfg.Files, 0)
	logger.Info("tui started", "files", q.Len(), "out", cfg.OutDir, "drop", cfg.DropDir)

	prog := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := prog.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
