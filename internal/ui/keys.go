package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"daystrip/internal/config"
)

type keyMap struct {
	Left      key.Binding
	Right     key.Binding
	PageLeft  key.Binding
	PageRight key.Binding
	Today     key.Binding
	Seek      key.Binding
	Confirm   key.Binding
	Cancel    key.Binding
	Quit      key.Binding
	Help      key.Binding
}

func newKeyMap(k config.Keymap) keyMap {
	return keyMap{
		Left: key.NewBinding(
			key.WithKeys(k.Left, "left"),
			key.WithHelp("←/"+k.Left, "previous day"),
		),
		Right: key.NewBinding(
			key.WithKeys(k.Right, "right"),
			key.WithHelp("→/"+k.Right, "next day"),
		),
		PageLeft: key.NewBinding(
			key.WithKeys(k.PageLeft, "pgup"),
			key.WithHelp(k.PageLeft, "scroll back"),
		),
		PageRight: key.NewBinding(
			key.WithKeys(k.PageRight, "pgdown"),
			key.WithHelp(k.PageRight, "scroll ahead"),
		),
		Today: key.NewBinding(
			key.WithKeys(k.Today),
			key.WithHelp(k.Today, "today"),
		),
		Seek: key.NewBinding(
			key.WithKeys(k.Seek),
			key.WithHelp(k.Seek, "go to date"),
		),
		Confirm: key.NewBinding(
			key.WithKeys(k.Confirm),
			key.WithHelp(k.Confirm, "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys(k.Cancel),
			key.WithHelp(k.Cancel, "cancel"),
		),
		Quit: key.NewBinding(
			key.WithKeys(k.Quit, "ctrl+c"),
			key.WithHelp(k.Quit, "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys(k.Help),
			key.WithHelp(k.Help, "more keys"),
		),
	}
}

// ShortHelp and FullHelp satisfy help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Seek, k.Today, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.PageLeft, k.PageRight},
		{k.Today, k.Seek, k.Confirm, k.Cancel},
		{k.Help, k.Quit},
	}
}
