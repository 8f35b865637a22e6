package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"vidmerge/internal/gateway"
	"vidmerge/internal/media"
	"vidmerge/internal/model"
	"vidmerge/internal/panel"
	"vidmerge/internal/timeline"
	"vidmerge/internal/util"
)

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.cancel()
		return m, tea.Quit
	}
	if m.modal != "" {
		if key.Matches(msg, m.keys.Confirm, m.keys.Back) {
			m.modal = ""
		}
		return m, nil
	}
	if m.prompt != promptNone {
		return m.promptKey(msg)
	}
	if m.busy {
		return m, nil
	}
	switch m.screen {
	case screenPanel:
		return m.panelKey(msg)
	case screenTimeline:
		return m.timelineKey(msg)
	default:
		return m.queueKey(msg)
	}
}

func (m Model) queueKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := m.queue.Len()
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cancel()
		return m, tea.Quit
	case key.Matches(msg, m.keys.MoveUp):
		if m.selected > 0 && m.selected < n {
			m.queue.Reorder(m.selected, m.selected-1)
			m.selected--
		}
	case key.Matches(msg, m.keys.MoveDown):
		if m.selected < n-1 {
			m.queue.Reorder(m.selected, m.selected+1)
			m.selected++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Down):
		if m.selected < n-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Remove):
		m.queue.RemoveAt(m.selected)
		m.clampSelected()
	case key.Matches(msg, m.keys.Clear):
		m.queue.Clear()
		m.selected = 0
		m.notice = "Queue cleared"
	case key.Matches(msg, m.keys.Add):
		return m, m.openPrompt(promptAddFiles, "Add file, folder or glob: ", "")
	case key.Matches(msg, m.keys.OutDir):
		return m, m.openPrompt(promptOutDir, "Output folder: ", m.session.OutputDir())
	case key.Matches(msg, m.keys.Longer):
		m.session.SetImageDuration(m.session.ImageDuration() + model.ImageDurationStep)
	case key.Matches(msg, m.keys.Shorter):
		m.session.SetImageDuration(m.session.ImageDuration() - model.ImageDurationStep)
	case key.Matches(msg, m.keys.Preview):
		if m.session.Preview(m.selected) {
			it, _ := m.session.Previewing()
			return m, m.probeCmd(it, false)
		}
	case key.Matches(msg, m.keys.Edit):
		it, ok := m.videoAt(m.selected)
		if !ok {
			return m, nil
		}
		m.session.Edit(m.selected)
		m.panel = panel.New(m.ops, it, m.session.OutputDir(), panel.WithGuard(m.session.Guard()))
		m.screen = screenPanel
		m.notice, m.warning = "", ""
	case key.Matches(msg, m.keys.Cut):
		it, ok := m.videoAt(m.selected)
		if !ok {
			return m, nil
		}
		m.notice = "Reading " + it.Name + "..."
		return m, m.probeCmd(it, true)
	case key.Matches(msg, m.keys.Merge):
		req, err := m.session.MergeRequest()
		if err != nil {
			m.fail(err)
			return m, nil
		}
		ctx, s := m.ctx, m.session
		label := "Merging videos"
		if req.Op() == model.OpMergeImages {
			label = "Merging images"
		}
		m.logger.Info("merge", "op", req.Op(), "files", m.queue.Len(), "out", req.Dir())
		return m, m.startJob(jobMerge, label, 1, func() jobDoneMsg {
			res, err := s.RunMerge(ctx, req)
			return jobDoneMsg{Kind: jobMerge, Result: res, Err: err}
		})
	}
	return m, nil
}

// videoAt returns the queue item at i when it is a video; otherwise it raises
// the error modal.
func (m *Model) videoAt(i int) (media.Item, bool) {
	it, ok := m.queue.At(i)
	if !ok {
		return media.Item{}, false
	}
	if it.Kind != media.KindVideo {
		m.fail(fmt.Errorf("%w: %s is not a video", gateway.ErrWrongMediaKind, it.Name))
		return media.Item{}, false
	}
	return it, true
}

func (m *Model) clampSelected() {
	if n := m.queue.Len(); m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m Model) panelKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.panel
	if p == nil {
		m.screen = screenQueue
		return m, nil
	}
	prm := p.Params()
	switch {
	case key.Matches(msg, m.keys.Back):
		m.session.CloseEditor()
		m.panel = nil
		m.screen = screenQueue
	case key.Matches(msg, m.keys.Submit):
		ctx := m.ctx
		req := p.Request()
		m.logger.Info("submit", "op", req.Op(), "file", p.Item().Path)
		return m, m.startJob(jobPanel, tabLabel(p.Active()), 1, func() jobDoneMsg {
			res, err := p.Submit(ctx)
			return jobDoneMsg{Kind: jobPanel, Result: res, Err: err}
		})
	case key.Matches(msg, m.keys.NextTab):
		p.NextTab(1)
	case key.Matches(msg, m.keys.PrevTab):
		p.NextTab(-1)
	case key.Matches(msg, m.keys.Inc):
		m.adjustParam(1)
	case key.Matches(msg, m.keys.Dec):
		m.adjustParam(-1)
	case key.Matches(msg, m.keys.Presets):
		if p.Active() == panel.TabSpeed {
			if i, err := strconv.Atoi(msg.String()); err == nil && i >= 1 && i <= len(panel.SpeedPresets) {
				p.SetSpeed(panel.SpeedPresets[i-1])
			}
		}
	case key.Matches(msg, m.keys.Start):
		if p.Active() == panel.TabTrim {
			return m, m.openPrompt(promptTrimStart, "Trim start (seconds): ", strconv.FormatFloat(prm.TrimStart, 'f', -1, 64))
		}
	case key.Matches(msg, m.keys.Length):
		if p.Active() == panel.TabTrim {
			return m, m.openPrompt(promptTrimDuration, "Trim duration (seconds): ", strconv.FormatFloat(prm.TrimDuration, 'f', -1, 64))
		}
	}
	return m, nil
}

// adjustParam moves the active tab's value one notch.
func (m *Model) adjustParam(dir int) {
	p := m.panel
	prm := p.Params()
	switch p.Active() {
	case panel.TabSpeed:
		p.AdjustSpeed(dir)
	case panel.TabTrim:
		p.SetTrimStart(prm.TrimStart + float64(dir))
	case panel.TabAudio:
		formats := []model.AudioFormat{model.AudioMP3, model.AudioAAC, model.AudioWAV}
		p.SetAudioFormat(formats[cycle(indexOf(formats, prm.AudioFormat), dir, len(formats))])
	case panel.TabCompress:
		qs := []model.QualityPreset{model.PresetLow, model.PresetMedium, model.PresetHigh}
		p.SetQuality(qs[cycle(indexOf(qs, prm.Quality), dir, len(qs))])
	case panel.TabRotate:
		p.SetRotation(panel.Rotations[cycle(indexOf(panel.Rotations, prm.Rotation), dir, len(panel.Rotations))])
	}
}

func indexOf[T comparable](xs []T, v T) int {
	for i, x := range xs {
		if x == v {
			return i
		}
	}
	return 0
}

func cycle(i, delta, n int) int {
	return ((i+delta)%n + n) % n
}

func (m Model) timelineKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := m.editor
	if e == nil {
		m.screen = screenQueue
		return m, nil
	}
	segs := e.Segments()
	ctx := m.ctx
	guard := m.session.Guard()
	switch {
	case key.Matches(msg, m.keys.Back):
		m.editor = nil
		m.screen = screenQueue
	case key.Matches(msg, m.keys.StepBack):
		e.Step(-1)
	case key.Matches(msg, m.keys.StepFwd):
		e.Step(1)
	case key.Matches(msg, m.keys.JumpStart):
		e.JumpStart()
	case key.Matches(msg, m.keys.JumpEnd):
		e.JumpEnd()
	case key.Matches(msg, m.keys.SetStart):
		e.DragStart(e.Cursor())
	case key.Matches(msg, m.keys.SetEnd):
		e.DragEnd(e.Cursor())
	case key.Matches(msg, m.keys.AddSeg):
		seg, err := e.AddSegment()
		if err != nil {
			m.fail(err)
			return m, nil
		}
		m.segSel = len(segs)
		m.notice = "Added " + seg.Name
	case key.Matches(msg, m.keys.RemoveSeg):
		if m.segSel < len(segs) {
			e.RemoveSegment(segs[m.segSel].ID)
			if m.segSel >= len(segs)-1 && m.segSel > 0 {
				m.segSel--
			}
		}
	case key.Matches(msg, m.keys.Up):
		if m.segSel > 0 {
			m.segSel--
		}
	case key.Matches(msg, m.keys.Down):
		if m.segSel < len(segs)-1 {
			m.segSel++
		}
	case key.Matches(msg, m.keys.Export):
		return m, m.startJob(jobExport, "Exporting selection", 1, func() jobDoneMsg {
			res, err := guarded(guard, func() (model.ProcessResult, error) { return e.ExportCurrent(ctx) })
			return jobDoneMsg{Kind: jobExport, Result: res, Err: err}
		})
	case key.Matches(msg, m.keys.ExportSeg):
		if m.segSel >= len(segs) {
			return m, nil
		}
		seg := segs[m.segSel]
		return m, m.startJob(jobExport, "Exporting "+seg.Name, 1, func() jobDoneMsg {
			res, err := guarded(guard, func() (model.ProcessResult, error) { return e.ExportSegment(ctx, seg.ID) })
			return jobDoneMsg{Kind: jobExport, Result: res, Err: err}
		})
	case key.Matches(msg, m.keys.ExportAll):
		if len(segs) == 0 {
			m.fail(timeline.ErrNoSegments)
			return m, nil
		}
		return m, m.startJob(jobExportAll, fmt.Sprintf("Exporting %d segments", len(segs)), len(segs), func() jobDoneMsg {
			var rep timeline.Report
			_, err := guarded(guard, func() (model.ProcessResult, error) {
				var err error
				rep, err = e.ExportAll(ctx)
				return model.ProcessResult{}, err
			})
			return jobDoneMsg{Kind: jobExportAll, Report: rep, Err: err}
		})
	}
	return m, nil
}

// guarded runs fn under the session's single-flight guard.
func guarded(g *panel.Guard, fn func() (model.ProcessResult, error)) (model.ProcessResult, error) {
	if err := g.Acquire(); err != nil {
		return model.ProcessResult{}, err
	}
	defer g.Release()
	return fn()
}

func (m *Model) openPrompt(kind promptKind, label, value string) tea.Cmd {
	m.prompt = kind
	m.input.Prompt = label
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) closePrompt() {
	m.prompt = promptNone
	m.input.Blur()
	m.input.Reset()
}

func (m Model) promptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.closePrompt()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		kind, value := m.prompt, strings.TrimSpace(m.input.Value())
		m.closePrompt()
		m.applyPrompt(kind, value)
		return m, nil
	}
	var c tea.Cmd
	m.input, c = m.input.Update(msg)
	return m, c
}

func (m *Model) applyPrompt(kind promptKind, value string) {
	if value == "" {
		return
	}
	switch kind {
	case promptAddFiles:
		paths, err := expandInput(value)
		if err != nil {
			m.warning = err.Error()
			return
		}
		m.ingest(paths, 0)
	case promptOutDir:
		dir, err := filepath.Abs(expandHome(unquote(value)))
		if err == nil {
			err = util.EnsureDir(dir)
		}
		if err != nil {
			m.fail(fmt.Errorf("%w: %v", gateway.ErrOutputDirUnusable, err))
			return
		}
		m.session.SetOutputDir(dir)
		if m.panel != nil {
			m.panel.SetOutputDir(dir)
		}
		if m.editor != nil {
			m.editor.SetOutputDir(dir)
		}
		m.notice = "Output folder: " + dir
	case promptTrimStart, promptTrimDuration:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || m.panel == nil {
			m.warning = fmt.Sprintf("Not a number: %q", value)
			return
		}
		if kind == promptTrimStart {
			m.panel.SetTrimStart(v)
		} else {
			m.panel.SetTrimDuration(v)
		}
	}
}

// expandInput resolves a prompt entry to file paths: a glob pattern, a folder
// (its files, sorted) or a single file.
func expandInput(s string) ([]string, error) {
	s = expandHome(unquote(s))
	if strings.ContainsAny(s, "*?[") {
		matches, err := filepath.Glob(s)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %v", s, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", s)
		}
		sort.Strings(matches)
		return matches, nil
	}
	fi, err := os.Stat(s)
	if err != nil {
		return nil, fmt.Errorf("cannot open %q: %v", s, err)
	}
	if !fi.IsDir() {
		return []string{s}, nil
	}
	entries, err := os.ReadDir(s)
	if err != nil {
		return nil, fmt.Errorf("cannot read %q: %v", s, err)
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() {
			out = append(out, filepath.Join(s, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

func expandHome(s string) string {
	if s != "~" && !strings.HasPrefix(s, "~/") {
		return s
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return s
	}
	return filepath.Join(home, strings.TrimPrefix(s, "~"))
}

func tabLabel(t panel.Tab) string {
	switch t {
	case panel.TabSpeed:
		return "Changing speed"
	case panel.TabTrim:
		return "Trimming"
	case panel.TabAudio:
		return "Extracting audio"
	case panel.TabCompress:
		return "Compressing"
	case panel.TabRotate:
		return "Rotating"
	}
	return string(t)
}
