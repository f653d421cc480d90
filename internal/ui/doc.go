// Package ui implements the interactive catalog admin using bubbletea's Elm architecture.
//
// The [Model] shell renders a "Library Management" header and two tabs:
//  1. Manage Books : book list with add/edit forms, an author selector and server-side search
//  2. Manage Authors : author list with add/edit forms
//
// Each tab drives one manager from internal/managers. Every manager call runs inside a [tea.Cmd]; when it returns,
// a [Msg] tells the tab to re-read the manager's state, so the views never hold data of their own beyond form input.
// Switching tabs reloads the tab's data.
//
// Keys: tab/1/2 switch tabs, n new, e edit, d delete, r refresh, / search books, enter save, esc cancel,
// tab/shift+tab move between form fields, ←/→ pick the author, q quit.
package ui
