package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Annotate  key.Binding
	Back      key.Binding
	Skip      key.Binding
	Move      key.Binding
	KeyMove   key.Binding
	Reset     key.Binding
	Hide      key.Binding
	Clamp     key.Binding
	Slideshow key.Binding
	Command   key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Annotate: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "label"),
		),
		Back: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("←/h", "back"),
		),
		Skip: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("→/l", "skip"),
		),
		Move: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "move files"),
		),
		KeyMove: key.NewBinding(
			key.WithKeys("K"),
			key.WithHelp("K", "move by keyword"),
		),
		Reset: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reset"),
		),
		Hide: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "hide"),
		),
		Clamp: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clamp"),
		),
		Slideshow: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "slideshow"),
		),
		Command: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "command"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Annotate, k.Back, k.Skip, k.Move, k.Command, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Annotate, k.Back, k.Skip},
		{k.Move, k.KeyMove, k.Reset},
		{k.Hide, k.Clamp, k.Slideshow},
		{k.Command, k.Help, k.Quit},
	}
}
