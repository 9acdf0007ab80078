package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	yes   key.Binding
	no    key.Binding
	enter key.Binding
	quit  key.Binding
}

var keys = keyMap{
	yes:   key.NewBinding(key.WithKeys("y", "Y")),
	no:    key.NewBinding(key.WithKeys("n", "N", "esc")),
	enter: key.NewBinding(key.WithKeys("enter")),
	quit:  key.NewBinding(key.WithKeys("q", "ctrl+c")),
}
