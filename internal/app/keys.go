package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings.
type KeyMap struct {
	Overview  key.Binding
	Daily     key.Binding
	Readings  key.Binding
	Back      key.Binding
	Forward   key.Binding
	Reload    key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
	Escape    key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	km := KeyMap{}
	km = setRouteKeys(km)
	km = setActionKeys(km)
	return km
}

func setRouteKeys(k KeyMap) KeyMap {
	k.Overview = key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "overview"))
	k.Daily = key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "daily"))
	k.Readings = key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "readings"))
	k.Back = key.NewBinding(key.WithKeys("backspace", "alt+left"), key.WithHelp("⌫/alt+←", "back"))
	k.Forward = key.NewBinding(key.WithKeys("alt+right"), key.WithHelp("alt+→", "forward"))
	return k
}

func setActionKeys(k KeyMap) KeyMap {
	k.Reload = key.NewBinding(key.WithKeys("ctrl+r", "f5"), key.WithHelp("ctrl+r", "reload"))
	k.Help = key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help"))
	k.Quit = key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit"))
	k.ForceQuit = key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit"))
	k.Escape = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close"))
	return k
}

// ShortHelp returns key bindings for the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Back, k.Quit}
}

// FullHelp returns key bindings for the help overlay.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Overview, k.Daily, k.Readings},
		{k.Back, k.Forward, k.Reload},
		{k.Help, k.Quit},
	}
}
