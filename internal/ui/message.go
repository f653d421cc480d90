package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgAuthorsChanged MsgKind = iota
	MsgBooksChanged
)

// Action names the manager operation that produced a change.
type Action string

const (
	ActionLoad   Action = "load"
	ActionCreate Action = "create"
	ActionSave   Action = "save"
	ActionDelete Action = "delete"
)

// actionResult is the payload of both change messages.
type actionResult struct {
	action Action
	err    error
}

// authorsChangedMsg is the constructor for [MsgAuthorsChanged]
func authorsChangedMsg(action Action, err error) Msg {
	return Msg{kind: MsgAuthorsChanged, data: actionResult{action, err}}
}

// booksChangedMsg is the constructor for [MsgBooksChanged]
func booksChangedMsg(action Action, err error) Msg {
	return Msg{kind: MsgBooksChanged, data: actionResult{action, err}}
}

func (m Msg) result() actionResult {
	r, _ := m.data.(actionResult)
	return r
}
