package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Submit      key.Binding
	Delete      key.Binding
	SwitchFocus key.Binding
	Up          key.Binding
	Down        key.Binding
	Quit        key.Binding
	ForceQuit   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Submit:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add")),
		Delete:      key.NewBinding(key.WithKeys("d", "x", "delete"), key.WithHelp("d", "delete")),
		SwitchFocus: key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch")),
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Quit:        key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit:   key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	}
}

// inputHelp and listHelp are the bindings shown for each focus area.
func (k keyMap) inputHelp() []key.Binding {
	return []key.Binding{k.Submit, k.SwitchFocus, k.ForceQuit}
}

func (k keyMap) listHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Delete, k.SwitchFocus, k.Quit}
}
