package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit key.Binding
	Back key.Binding

	// queue
	Up       key.Binding
	Down     key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Remove   key.Binding
	Clear    key.Binding
	Add      key.Binding
	OutDir   key.Binding
	Longer   key.Binding
	Shorter  key.Binding
	Preview  key.Binding
	Edit     key.Binding
	Cut      key.Binding
	Merge    key.Binding

	// panel
	NextTab key.Binding
	PrevTab key.Binding
	Inc     key.Binding
	Dec     key.Binding
	Presets key.Binding
	Start   key.Binding
	Length  key.Binding
	Submit  key.Binding

	// timeline
	StepBack  key.Binding
	StepFwd   key.Binding
	JumpStart key.Binding
	JumpEnd   key.Binding
	SetStart  key.Binding
	SetEnd    key.Binding
	AddSeg    key.Binding
	RemoveSeg key.Binding
	Export    key.Binding
	ExportSeg key.Binding
	ExportAll key.Binding

	Confirm key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Back: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),

		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		MoveUp:   key.NewBinding(key.WithKeys("shift+up", "K"), key.WithHelp("K", "move up")),
		MoveDown: key.NewBinding(key.WithKeys("shift+down", "J"), key.WithHelp("J", "move down")),
		Remove:   key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "remove")),
		Clear:    key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add files")),
		OutDir:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "output folder")),
		Longer:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "image duration")),
		Shorter:  key.NewBinding(key.WithKeys("-")),
		Preview:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "preview")),
		Edit:     key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("enter", "edit")),
		Cut:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "timeline")),
		Merge:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "merge")),

		NextTab: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next tab")),
		PrevTab: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("shift+tab", "prev tab")),
		Inc:     key.NewBinding(key.WithKeys("up", "k", "+", "="), key.WithHelp("↑/↓", "change")),
		Dec:     key.NewBinding(key.WithKeys("down", "j", "-")),
		Presets: key.NewBinding(key.WithKeys("1", "2", "3", "4", "5"), key.WithHelp("1-5", "preset")),
		Start:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start")),
		Length:  key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "duration")),
		Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),

		StepBack:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "step 1s")),
		StepFwd:   key.NewBinding(key.WithKeys("right", "l")),
		JumpStart: key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g/G", "jump to handle")),
		JumpEnd:   key.NewBinding(key.WithKeys("end", "G")),
		SetStart:  key.NewBinding(key.WithKeys("["), key.WithHelp("[ ]", "set start/end")),
		SetEnd:    key.NewBinding(key.WithKeys("]")),
		AddSeg:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add segment")),
		RemoveSeg: key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "remove segment")),
		Export:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "export selection")),
		ExportSeg: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "export segment")),
		ExportAll: key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "export all")),

		Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "ok")),
	}
}

func (k keyMap) queueHelp() []key.Binding {
	return []key.Binding{k.Add, k.OutDir, k.MoveUp, k.MoveDown, k.Remove, k.Clear, k.Longer, k.Preview, k.Edit, k.Cut, k.Merge, k.Quit}
}

func (k keyMap) panelHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.PrevTab, k.Inc, k.Presets, k.Start, k.Length, k.Submit, k.Back}
}

func (k keyMap) timelineHelp() []key.Binding {
	return []key.Binding{k.StepBack, k.JumpStart, k.SetStart, k.AddSeg, k.RemoveSeg, k.Export, k.ExportSeg, k.ExportAll, k.Back}
}

func (k keyMap) promptHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Back}
}
