package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"vidmerge/internal/media"
	"vidmerge/internal/model"
	"vidmerge/internal/panel"
	"vidmerge/internal/timeline"
	"vidmerge/internal/util/format"
)

func (m Model) viewMain() string {
	var body string
	help := m.keys.queueHelp()
	switch m.screen {
	case screenPanel:
		body, help = m.viewPanel(), m.keys.panelHelp()
	case screenTimeline:
		body, help = m.viewTimeline(), m.keys.timelineHelp()
	default:
		body = m.viewQueue()
	}
	if m.prompt != promptNone {
		help = m.keys.promptHelp()
	}

	parts := []string{m.viewHeader(), body}
	if m.busy {
		parts = append(parts, m.viewJob())
	}
	if m.prompt != promptNone {
		parts = append(parts, m.input.View())
	}
	if status := m.viewStatus(); status != "" {
		parts = append(parts, status)
	}
	parts = append(parts, m.help.ShortHelpView(help))
	return strings.Join(parts, "\n\n")
}

func (m Model) viewHeader() string {
	title := m.styles.Title.Render("vidmerge")
	info := fmt.Sprintf("Output: %s", orNone(m.session.OutputDir()))
	if m.dropDir != "" {
		info += fmt.Sprintf(" • Drop folder: %s", m.dropDir)
	}
	return title + "\n" + m.styles.Subtitle.Render(info)
}

func (m Model) viewQueue() string {
	var b strings.Builder
	items := m.queue.Items()
	kind := "empty"
	if k, err := m.queue.Kind(); err == nil {
		kind = string(k) + "s"
	} else if m.queue.Len() > 0 {
		kind = m.styles.Warning.Render("mixed")
	}
	b.WriteString(m.styles.Header.Render(fmt.Sprintf("Queue: %d file(s), %s, %s", len(items), kind, format.HumanizeBytes(m.queue.TotalSize()))))
	b.WriteString("  ")
	b.WriteString(m.styles.Faint.Render(fmt.Sprintf("image duration %.1fs", m.session.ImageDuration())))
	b.WriteString("\n")

	if len(items) == 0 {
		hint := "Queue is empty. Press a to add files"
		if m.dropDir != "" {
			hint += " or drop them into the drop folder"
		}
		b.WriteString(m.styles.Faint.Render(hint))
		return b.String()
	}
	for i, it := range items {
		line := fmt.Sprintf("%2d. %-40s %-6s %10s", i+1, truncate(it.Name, 40), it.Kind, format.HumanizeBytes(it.Size))
		if i == m.selected {
			b.WriteString(m.styles.Selected.Render("▸ " + line))
		} else {
			b.WriteString(m.styles.Item.Render("  " + line))
		}
		b.WriteString("\n")
	}
	if it, ok := m.session.Previewing(); ok {
		b.WriteString("\n")
		b.WriteString(m.styles.Header.Render("Preview: "))
		b.WriteString(it.Name)
		if info, ok := m.probes[it.Path]; ok {
			b.WriteString(m.styles.Faint.Render(" " + describeProbe(info)))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func describeProbe(info model.ProbeInfo) string {
	parts := []string{}
	if info.DurationSec > 0 {
		parts = append(parts, format.Timecode(info.DurationSec))
	}
	if info.Width > 0 && info.Height > 0 {
		parts = append(parts, fmt.Sprintf("%dx%d", info.Width, info.Height))
	}
	if info.Format != "" {
		parts = append(parts, info.Format)
	}
	return strings.Join(parts, ", ")
}

func (m Model) viewPanel() string {
	p := m.panel
	if p == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.styles.Header.Render("Edit: " + p.Item().Name))
	b.WriteString("\n\n")

	var tabs []string
	for _, t := range panel.Tabs() {
		if t == p.Active() {
			tabs = append(tabs, m.styles.ActiveTab.Render(string(t)))
		} else {
			tabs = append(tabs, m.styles.Tab.Render(string(t)))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	prm := p.Params()
	switch p.Active() {
	case panel.TabSpeed:
		b.WriteString(fmt.Sprintf("Speed: %sx\n", media.FormatFactor(prm.Speed)))
		b.WriteString(m.speedSlider(prm.Speed, 32))
		b.WriteString("\n")
		var presets []string
		for i, f := range panel.SpeedPresets {
			presets = append(presets, fmt.Sprintf("%d) %sx", i+1, media.FormatFactor(f)))
		}
		b.WriteString(m.styles.Faint.Render("Presets: " + strings.Join(presets, "  ")))
	case panel.TabTrim:
		b.WriteString(fmt.Sprintf("Start:    %s\n", format.Timecode(prm.TrimStart)))
		b.WriteString(fmt.Sprintf("Duration: %s", format.Seconds(prm.TrimDuration)))
	case panel.TabAudio:
		b.WriteString("Format: " + m.choices([]string{"mp3", "aac", "wav"}, string(prm.AudioFormat)))
	case panel.TabCompress:
		tier := model.TierFor(prm.Quality)
		b.WriteString("Quality: " + m.choices([]string{"low", "medium", "high"}, string(prm.Quality)))
		b.WriteString("\n")
		b.WriteString(m.styles.Faint.Render(fmt.Sprintf("CRF %d, preset %s", tier.CRF, tier.Preset)))
	case panel.TabRotate:
		var opts []string
		for _, a := range panel.Rotations {
			opts = append(opts, fmt.Sprintf("%d°", a))
		}
		b.WriteString("Rotation: " + m.choices(opts, fmt.Sprintf("%d°", prm.Rotation)))
	}
	return b.String()
}

func (m Model) choices(opts []string, current string) string {
	out := make([]string, len(opts))
	for i, o := range opts {
		if o == current {
			out[i] = m.styles.Selected.Render("[" + o + "]")
		} else {
			out[i] = m.styles.Faint.Render(" " + o + " ")
		}
	}
	return strings.Join(out, " ")
}

func (m Model) speedSlider(v float64, width int) string {
	pos := int((v - panel.MinSpeed) / (panel.MaxSpeed - panel.MinSpeed) * float64(width-1))
	pos = clampInt(pos, 0, width-1)
	var b strings.Builder
	b.WriteString(m.styles.Faint.Render(media.FormatFactor(panel.MinSpeed) + " "))
	for i := 0; i < width; i++ {
		if i == pos {
			b.WriteString(m.styles.Handle.Render("●"))
		} else {
			b.WriteString(m.styles.Track.Render("─"))
		}
	}
	b.WriteString(m.styles.Faint.Render(" " + media.FormatFactor(panel.MaxSpeed)))
	return b.String()
}

func (m Model) viewTimeline() string {
	e := m.editor
	if e == nil {
		return ""
	}
	sel := e.Selection()
	cur := e.Cursor()
	var b strings.Builder
	b.WriteString(m.styles.Header.Render("Cut: " + e.Item().Name))
	b.WriteString(m.styles.Faint.Render("  " + format.Timecode(sel.MediaDuration)))
	b.WriteString("\n\n")

	width := 64
	if m.width > 0 && m.width < 80 {
		width = 42
	}
	b.WriteString(m.renderTrack(width, sel, cur))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Start %s   End %s   Length %s   Cursor %s",
		format.Timecode(sel.Start), format.Timecode(sel.End), format.Seconds(sel.Duration()), format.Timecode(cur)))
	b.WriteString("\n\n")

	segs := e.Segments()
	if len(segs) == 0 {
		b.WriteString(m.styles.Faint.Render("No segments yet. Press a to add the selection."))
		return b.String()
	}
	b.WriteString(m.styles.Header.Render(fmt.Sprintf("Segments (%d)", len(segs))))
	b.WriteString("\n")
	for i, s := range segs {
		line := fmt.Sprintf("%-12s %s - %s  (%s)", s.Name, format.Timecode(s.Start), format.Timecode(s.End), format.Seconds(s.Duration))
		if i == m.segSel {
			b.WriteString(m.styles.Selected.Render("▸ " + line))
		} else {
			b.WriteString(m.styles.Item.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// trackLayout maps the selection handles and cursor onto cell indexes of a
// track width cells wide.
func trackLayout(width int, sel timeline.Selection, cursor float64) (start, end, cur int) {
	if width < 2 || sel.MediaDuration <= 0 {
		return 0, 0, 0
	}
	pos := func(t float64) int {
		return clampInt(int(t/sel.MediaDuration*float64(width-1)+0.5), 0, width-1)
	}
	start, end, cur = pos(sel.Start), pos(sel.End), pos(cursor)
	if end < start {
		end = start
	}
	return start, end, cur
}

func (m Model) renderTrack(width int, sel timeline.Selection, cursor float64) string {
	start, end, cur := trackLayout(width, sel, cursor)
	var b strings.Builder
	b.WriteString(m.styles.Track.Render("["))
	for i := 0; i < width; i++ {
		switch {
		case i == cur:
			b.WriteString(m.styles.Cursor.Render("│"))
		case i == start || i == end:
			b.WriteString(m.styles.Handle.Render("◆"))
		case i > start && i < end:
			b.WriteString(m.styles.Range.Render("━"))
		default:
			b.WriteString(m.styles.Track.Render("─"))
		}
	}
	b.WriteString(m.styles.Track.Render("]"))
	return b.String()
}

func (m Model) viewJob() string {
	j := m.job
	line1 := m.styles.Spinner.Render(j.spinner.View()) + " " + m.styles.Header.Render(j.label) + "  " + m.styles.Faint.Render(string(j.stage))
	if step := j.stepLabel(); step != "" {
		line1 += "  " + m.styles.Faint.Render(step)
	}
	var line2 string
	if j.percent >= 0 {
		line2 = fmt.Sprintf("%s %5.1f%%", j.bar.ViewAs(j.percent/100.0), j.percent)
	} else {
		line2 = m.styles.Faint.Render("working...")
	}
	return m.styles.Box.Render(line1 + "\n" + line2 + "\n" + m.styles.Item.Render(j.status))
}

func (m Model) viewStatus() string {
	var lines []string
	if m.notice != "" {
		lines = append(lines, m.styles.Success.Render(m.notice))
	}
	if m.warning != "" {
		lines = append(lines, m.styles.Warning.Render(m.warning))
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewModal() string {
	box := m.styles.Modal.Render(
		m.styles.Error.Render("Error") + "\n\n" + m.modal + "\n\n" + m.styles.Faint.Render("enter/esc to dismiss"),
	)
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if n <= 0 || len(rs) <= n {
		return s
	}
	return string(rs[:n-1]) + "…"
}
