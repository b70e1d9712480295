package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up     key.Binding
	down   key.Binding
	left   key.Binding
	right  key.Binding
	enter  key.Binding
	toggle key.Binding
	open   key.Binding
	retry  key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		right:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play")),
		toggle: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "grid/list")),
		open:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open in browser")),
		retry:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "try again")),
		quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.enter, k.toggle, k.open, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.left, k.right},
		{k.enter, k.toggle, k.open},
		{k.retry, k.quit},
	}
}
