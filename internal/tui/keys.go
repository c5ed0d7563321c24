package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Select    key.Binding
	Back      key.Binding
	NextPanel key.Binding
	PrevPanel key.Binding
	Advance   key.Binding
	Gift      key.Binding
	Date      key.Binding
	Start     key.Binding
	Restart   key.Binding
	Quit      key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		NextPanel: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next panel")),
		PrevPanel: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("shift+tab", "prev panel")),
		Advance:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next quarter")),
		Gift:      key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "treat")),
		Date:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "date")),
		Start:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start")),
		Restart:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "new run")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// bindings is the help.KeyMap for whatever the current screen accepts.
type bindings []key.Binding

func (b bindings) ShortHelp() []key.Binding  { return b }
func (b bindings) FullHelp() [][]key.Binding { return [][]key.Binding{b} }
