package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Click   key.Binding
	Buy     key.Binding
	Upgrade key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Click: key.NewBinding(
			key.WithKeys(" ", "space", "enter"),
			key.WithHelp("space", "collect"),
		),
		Buy: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "hire helper"),
		),
		Upgrade: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "upgrade click"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "save & quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Click, k.Buy, k.Upgrade, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Click, k.Upgrade},
		{k.Buy},
		{k.Help, k.Quit},
	}
}
