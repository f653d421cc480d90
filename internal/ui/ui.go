package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/desertthunder/libman/internal/managers"
)

// Tab identifies one of the shell's views.
type Tab int

const (
	BooksTab Tab = iota
	AuthorsTab
)

// view is one tab of the shell.
type view interface {
	title() string
	load() tea.Cmd                 // fetch the view's data, as when it is first shown
	update(msg tea.KeyMsg) tea.Cmd // handle a key press
	changed(r actionResult) tea.Cmd
	inForm() bool // whether keys are captured by a form or search box
	errorMessage() string
	helpKeys() []key.Binding
	setSize(w, h int)
	render() string
}

var (
	_ view = (*authorsView)(nil)
	_ view = (*booksView)(nil)
)

// Model is the TUI shell: a header, a tab bar and the active view.
type Model struct {
	tab    Tab
	views  []view
	width  int
	height int
	help   help.Model
	keys   keyMap
}

// NewModel creates the shell over the two managers. All network calls run with ctx.
func NewModel(ctx context.Context, authors *managers.AuthorsManager, books *managers.BooksManager) *Model {
	keys := newKeyMap()
	return &Model{
		tab: BooksTab,
		views: []view{
			BooksTab:   newBooksView(ctx, books, keys),
			AuthorsTab: newAuthorsView(ctx, authors, keys),
		},
		help: help.New(),
		keys: keys,
	}
}

// Init loads the initial tab.
func (m *Model) Init() tea.Cmd {
	return m.current().load()
}

// Tab returns the active tab.
func (m *Model) Tab() Tab { return m.tab }

func (m *Model) current() view { return m.views[m.tab] }

// switchTo shows tab, reloading its data the way a freshly mounted view would.
func (m *Model) switchTo(tab Tab) tea.Cmd {
	if tab == m.tab {
		return nil
	}
	m.tab = tab
	return m.current().load()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		for _, v := range m.views {
			v.setSize(msg.Width-4, msg.Height-10)
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.forceQuit) {
			return m, tea.Quit
		}
		if !m.current().inForm() {
			switch {
			case key.Matches(msg, m.keys.quit):
				return m, tea.Quit
			case key.Matches(msg, m.keys.switchTab):
				return m, m.switchTo((m.tab + 1) % Tab(len(m.views)))
			case key.Matches(msg, m.keys.books):
				return m, m.switchTo(BooksTab)
			case key.Matches(msg, m.keys.authors):
				return m, m.switchTo(AuthorsTab)
			}
		}
		return m, m.current().update(msg)

	case Msg:
		switch msg.kind {
		case MsgAuthorsChanged:
			return m, m.views[AuthorsTab].changed(msg.result())
		case MsgBooksChanged:
			return m, m.views[BooksTab].changed(msg.result())
		}
	}

	return m, nil
}

// View renders the header, tab bar, error banner, active view and help line.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("Library Management"))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if msg := m.current().errorMessage(); msg != "" {
		b.WriteString(styles.err.Render(msg))
		b.WriteString("\n\n")
	}

	b.WriteString(m.current().render())
	b.WriteString("\n\n")
	b.WriteString(m.help.ShortHelpView(m.current().helpKeys()))

	return b.String()
}

func (m *Model) renderTabs() string {
	tabs := make([]string, len(m.views))
	for i, v := range m.views {
		style := styles.tab
		if Tab(i) == m.tab {
			style = styles.activeTab
		}
		tabs[i] = style.Render(v.title())
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}
