package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle key.Binding
	Import key.Binding
	Smart  key.Binding
	Reset  key.Binding
	Mute   key.Binding
	Hide   key.Binding
	Rate   key.Binding
	Faster key.Binding
	Slower key.Binding
	Help   key.Binding
	Cancel key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "start/stop")),
		Import: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "import")),
		Smart:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "smart pacing")),
		Reset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Mute:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mute")),
		Hide:   key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "hide ui")),
		Rate:   key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "edit wpm")),
		Faster: key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "faster")),
		Slower: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "slower")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Cancel: key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "cancel")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Import, k.Rate, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Reset, k.Import},
		{k.Rate, k.Faster, k.Slower},
		{k.Smart, k.Mute, k.Hide},
		{k.Help, k.Quit},
	}
}
