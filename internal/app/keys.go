package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard bindings for the console.
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Input      key.Binding
	Escape     key.Binding
	Quit       key.Binding
	ForceQuit  key.Binding
	Debug      key.Binding
	Resources  key.Binding
	Reload     key.Binding
	Reconnect  key.Binding
	Disconnect key.Binding
	Clear      key.Binding
	Help       key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "scroll down"),
		),
		Input: key.NewBinding(
			key.WithKeys("/", "i"),
			key.WithHelp("/", "edit target"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close overlay"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
		),
		Debug: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "debug log"),
		),
		Resources: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "admin lists"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Reconnect: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "reconnect"),
		),
		Disconnect: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "disconnect"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "clear comments"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

// Bindings lists the documented bindings in help order.
func (k KeyMap) Bindings() []key.Binding {
	return []key.Binding{
		k.Input, k.Up, k.Down, k.Reconnect, k.Disconnect, k.Clear,
		k.Resources, k.Reload, k.Debug, k.Help, k.Escape, k.Quit,
	}
}
