package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up        key.Binding
	down      key.Binding
	switchTab key.Binding
	books     key.Binding
	authors   key.Binding
	create    key.Binding
	edit      key.Binding
	remove    key.Binding
	refresh   key.Binding
	search    key.Binding
	submit    key.Binding
	cancel    key.Binding
	dismiss   key.Binding
	nextField key.Binding
	prevField key.Binding
	prevOpt   key.Binding
	nextOpt   key.Binding
	quit      key.Binding
	forceQuit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		switchTab: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch view")),
		books:     key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "books")),
		authors:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "authors")),
		create:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		remove:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		dismiss:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss error")),
		nextField: key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		prevField: key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		prevOpt:   key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "prev author")),
		nextOpt:   key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next author")),
		quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		forceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.switchTab},
		{k.create, k.edit, k.remove, k.refresh},
		{k.submit, k.cancel, k.quit},
	}
}
