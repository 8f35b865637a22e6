package ui

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/hashicorp/go-hclog"

	"vidmerge/internal/dropzone"
	"vidmerge/internal/gateway"
	"vidmerge/internal/media"
	"vidmerge/internal/model"
	"vidmerge/internal/panel"
	"vidmerge/internal/progress"
	"vidmerge/internal/queue"
	"vidmerge/internal/timeline"
	"vidmerge/internal/util/format"
)

type screen int

const (
	screenQueue screen = iota
	screenPanel
	screenTimeline
)

type promptKind int

const (
	promptNone promptKind = iota
	promptAddFiles
	promptOutDir
	promptTrimStart
	promptTrimDuration
)

// Operations is what the model needs from the gateway.
type Operations interface {
	panel.Submitter
	Probe(ctx context.Context, path string) (model.ProbeInfo, error)
}

type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	ops     Operations
	logger  hclog.Logger
	session *panel.Session
	queue   *queue.Queue
	sub     *progress.Subscription
	drops   <-chan dropzone.Batch
	dropDir string

	screen   screen
	selected int
	panel    *panel.Panel
	editor   *timeline.Editor
	segSel   int
	probes   map[string]model.ProbeInfo

	prompt promptKind
	input  textinput.Model

	busy    bool
	job     jobState
	notice  string
	warning string
	modal   string // blocking error text; empty when none

	// UI
	width, height int
	styles        Styles
	keys          keyMap
	help          help.Model
}

// NewModel builds the TUI state around q. sub and drops may be nil.
func NewModel(ctx context.Context, ops Operations, q *queue.Queue, cfg Config, sub *progress.Subscription, drops <-chan dropzone.Batch) Model {
	c, cancel := context.WithCancel(ctx)
	sty := defaultStyles()

	logger := cfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	s := panel.NewSession(ops, q)
	s.SetOutputDir(cfg.OutDir)
	if cfg.ImageDuration > 0 {
		s.SetImageDuration(cfg.ImageDuration)
	}

	in := textinput.New()
	in.CharLimit = 4096
	in.Width = 60

	return Model{
		ctx:     c,
		cancel:  cancel,
		ops:     ops,
		logger:  logger,
		session: s,
		queue:   q,
		sub:     sub,
		drops:   drops,
		dropDir: cfg.DropDir,
		probes:  make(map[string]model.ProbeInfo),
		input:   in,
		job:     newJobState(sty),
		styles:  sty,
		keys:    defaultKeys(),
		help:    help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(listenProgress(m.sub), listenDrops(m.drops))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case progressMsg:
		if m.busy {
			m.job.apply(msg.U)
		}
		return m, listenProgress(m.sub)

	case feedClosedMsg:
		return m, nil

	case dropMsg:
		m.ingest(msg.B.Paths, msg.B.Skipped)
		return m, listenDrops(m.drops)

	case probedMsg:
		return m.onProbed(msg), nil

	case jobDoneMsg:
		return m.onJobDone(msg), nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var c tea.Cmd
		m.job.spinner, c = m.job.spinner.Update(msg)
		return m, c
	}

	if m.prompt != promptNone {
		var c tea.Cmd
		m.input, c = m.input.Update(msg)
		return m, c
	}
	return m, nil
}

func (m Model) View() string {
	if m.modal != "" {
		return m.viewModal()
	}
	return m.viewMain()
}

func listenProgress(sub *progress.Subscription) tea.Cmd {
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		u, ok := <-sub.C()
		if !ok {
			return feedClosedMsg{}
		}
		return progressMsg{U: u}
	}
}

func listenDrops(ch <-chan dropzone.Batch) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		b, ok := <-ch
		if !ok {
			return nil
		}
		return dropMsg{B: b}
	}
}

// ingest appends supported paths and records what was skipped.
func (m *Model) ingest(paths []string, skipped int) {
	before := m.queue.Len()
	skipped += m.queue.Ingest(paths...)
	added := m.queue.Len() - before
	if added > 0 {
		m.notice = fmt.Sprintf("Added %d file(s)", added)
		m.logger.Info("files added", "added", added)
	}
	if skipped > 0 {
		m.warning = fmt.Sprintf("Some files were skipped: %d unsupported or unreadable", skipped)
		m.logger.Warn("files skipped", "skipped", skipped)
	} else {
		m.warning = ""
	}
}

func (m *Model) fail(err error) {
	m.modal = gateway.UserMessage(err)
	m.logger.Error("operation failed", "error", err)
}

// startJob marks the model busy and runs fn off the UI loop. steps is how many
// gateway jobs fn runs.
func (m *Model) startJob(kind jobKind, label string, steps int, fn func() jobDoneMsg) tea.Cmd {
	m.busy = true
	m.notice, m.warning = "", ""
	m.job.start(kind, label, steps)
	return tea.Batch(m.job.spinner.Tick, func() tea.Msg { return fn() })
}

func (m Model) probeCmd(it media.Item, forTimeline bool) tea.Cmd {
	ctx, ops := m.ctx, m.ops
	return func() tea.Msg {
		info, err := ops.Probe(ctx, it.Path)
		return probedMsg{Item: it, Info: info, Err: err, Timeline: forTimeline}
	}
}

func (m Model) onProbed(msg probedMsg) Model {
	if msg.Err != nil {
		if msg.Timeline {
			m.fail(msg.Err)
		} else {
			m.warning = "Could not read media info: " + gateway.UserMessage(msg.Err)
		}
		return m
	}
	m.probes[msg.Item.Path] = msg.Info
	if !msg.Timeline {
		return m
	}
	ed := timeline.NewEditor(m.ops, msg.Item, m.session.OutputDir())
	if err := ed.Load(msg.Info.DurationSec); err != nil {
		m.fail(err)
		return m
	}
	m.editor = ed
	m.segSel = 0
	m.screen = screenTimeline
	m.notice = ""
	return m
}

func (m Model) onJobDone(msg jobDoneMsg) Model {
	m.busy = false
	if msg.Err != nil {
		m.job.stage = progress.StageError
		m.fail(msg.Err)
		return m
	}
	m.job.stage = progress.StageCompleted
	switch msg.Kind {
	case jobMerge:
		m.queue.Clear()
		m.selected = 0
		m.notice = savedNotice(msg.Result)
	case jobExportAll:
		rep := msg.Report
		m.logger.Info("segments exported", "ok", rep.Succeeded(), "total", rep.Total)
		if len(rep.Failures) > 0 {
			text := rep.Summary()
			for _, f := range rep.Failures {
				text += fmt.Sprintf("\n\n%s: %s", f.Segment.Name, gateway.UserMessage(f.Err))
			}
			m.modal = text
			return m
		}
		m.notice = rep.Summary()
	default:
		m.notice = savedNotice(msg.Result)
	}
	return m
}

func savedNotice(res model.ProcessResult) string {
	return fmt.Sprintf("Saved: %s (%s)", filepath.Base(res.OutputFile), format.HumanizeBytes(res.Bytes))
}
