package cli

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up, Down          key.Binding
	Left, Right       key.Binding
	PageUp, PageDown  key.Binding
	Toggle, ExpandAll key.Binding
	Select            key.Binding
	SelectToggle      key.Binding
	SelectRange       key.Binding
	NextSegment       key.Binding
	NextPoint         key.Binding
	Move              key.Binding
	StretchLeft       key.Binding
	StretchRight      key.Binding
	Point             key.Binding
	Edit              key.Binding
	Commit, Cancel    key.Binding
	Reload            key.Binding
	Help, Quit        key.Binding
}

var keys = keyMap{
	Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:         key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
	Right:        key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
	PageUp:       key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
	PageDown:     key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
	Toggle:       key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "expand/collapse")),
	ExpandAll:    key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "expand all")),
	Select:       key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "select")),
	SelectToggle: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "toggle selection")),
	SelectRange:  key.NewBinding(key.WithKeys("V"), key.WithHelp("V", "select range")),
	NextSegment:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next segment")),
	NextPoint:    key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "next point")),
	Move:         key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move")),
	StretchLeft:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "stretch start")),
	StretchRight: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "stretch end")),
	Point:        key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "drag point")),
	Edit:         key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit dates")),
	Commit:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop")),
	Cancel:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Reload:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.NextSegment, k.Move, k.Edit, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.PageUp, k.PageDown},
		{k.Toggle, k.ExpandAll, k.Select, k.SelectToggle, k.SelectRange},
		{k.NextSegment, k.NextPoint, k.Move, k.StretchLeft, k.StretchRight, k.Point, k.Edit},
		{k.Reload, k.Help, k.Quit},
	}
}

// dragKeys is the help shown while a gesture is in progress.
type dragKeys struct{ keyMap }

func (k dragKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Commit, k.Cancel}
}

func (k dragKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
