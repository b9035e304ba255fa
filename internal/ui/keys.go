package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the dashboard's keyboard bindings.
type keyMap struct {
	NewWallpaper key.Binding
	Save         key.Binding
	Quit         key.Binding
	ForceQuit    key.Binding
	CycleTheme   key.Binding
	Help         key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		NewWallpaper: key.NewBinding(
			key.WithKeys("n", "N"),
			key.WithHelp("n", "New wallpaper"),
		),
		Save: key.NewBinding(
			key.WithKeys("s", "S"),
			key.WithHelp("s", "Save wallpaper"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "Q"),
			key.WithHelp("q", "Quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "Quit now"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NewWallpaper, k.Save, k.Quit, k.Help}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NewWallpaper, k.Save},
		{k.CycleTheme, k.Help},
		{k.Quit, k.ForceQuit},
	}
}
