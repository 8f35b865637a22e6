package ui

import "github.com/charmbracelet/lipgloss"

type Styles struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Header    lipgloss.Style
	Item      lipgloss.Style
	Selected  lipgloss.Style
	Success   lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
	Faint     lipgloss.Style
	Box       lipgloss.Style
	Spinner   lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Track     lipgloss.Style
	Range     lipgloss.Style
	Handle    lipgloss.Style
	Cursor    lipgloss.Style
	Modal     lipgloss.Style
}

func defaultStyles() Styles {
	base := lipgloss.NewStyle()
	return Styles{
		Title:     base.Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		Subtitle:  base.Faint(true),
		Header:    base.Bold(true),
		Item:      base.Foreground(lipgloss.Color("#D1D5DB")),
		Selected:  base.Bold(true).Foreground(lipgloss.Color("#22D3EE")),
		Success:   base.Foreground(lipgloss.Color("#22C55E")),
		Error:     base.Foreground(lipgloss.Color("#EF4444")),
		Warning:   base.Foreground(lipgloss.Color("#F59E0B")),
		Faint:     base.Faint(true),
		Box:       base.Padding(0, 1),
		Spinner:   base.Foreground(lipgloss.Color("#22D3EE")),
		Tab:       base.Padding(0, 1).Foreground(lipgloss.Color("#A3A3A3")),
		ActiveTab: base.Padding(0, 1).Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#7D56F4")),
		Track:     base.Foreground(lipgloss.Color("#6B7280")),
		Range:     base.Foreground(lipgloss.Color("#D946EF")),
		Handle:    base.Bold(true).Foreground(lipgloss.Color("#F59E0B")),
		Cursor:    base.Bold(true).Foreground(lipgloss.Color("#22D3EE")),
		Modal: base.Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#EF4444")).
			Padding(1, 2),
	}
}
