package analyze

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit   key.Binding
	Cancel key.Binding
	Into   key.Binding
	Up     key.Binding
	Next   key.Binding
	Prev   key.Binding
	Reset  key.Binding
	Crumb  key.Binding
	Rescan key.Binding
	Clear  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Into: key.NewBinding(
			key.WithKeys("enter", "right", "l"),
			key.WithHelp("→", "zoom in"),
		),
		Up: key.NewBinding(
			key.WithKeys("backspace", "left", "h"),
			key.WithHelp("←", "zoom out"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab", "down", "j"),
			key.WithHelp("tab", "next"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up", "k"),
			key.WithHelp("⇧tab", "prev"),
		),
		Reset: key.NewBinding(
			key.WithKeys("0", "home"),
			key.WithHelp("0", "root"),
		),
		Crumb: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "jump"),
		),
		Rescan: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear"),
		),
	}
}

// hints lists the bindings shown in the footer for the given state.
func (k keyMap) hints(state State) []key.Binding {
	switch state {
	case StateScanning:
		return []key.Binding{k.Cancel, k.Quit}
	case StateReady:
		return []key.Binding{k.Next, k.Into, k.Up, k.Crumb, k.Reset, k.Rescan, k.Clear, k.Quit}
	default:
		return []key.Binding{k.Rescan, k.Quit}
	}
}
