package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/libman/internal/managers"
	"github.com/desertthunder/libman/internal/models"
)

const authorField = 2

// booksView is the "Manage Books" tab. Its form has title and published date inputs followed by an author
// selector cycled with the arrow keys.
type booksView struct {
	ctx    context.Context
	mgr    *managers.BooksManager
	keys   keyMap
	list   list.Model
	form   form
	search textinput.Model
	mode   mode
	editID int64
	author int64 // selected author id, 0 when none
}

func newBooksView(ctx context.Context, mgr *managers.BooksManager, keys keyMap) *booksView {
	search := textinput.New()
	search.Placeholder = "title or date"
	search.Prompt = "Search: "
	search.Cursor.SetMode(cursor.CursorStatic)

	return &booksView{
		ctx:    ctx,
		mgr:    mgr,
		keys:   keys,
		list:   newList("Books"),
		form:   newForm([]string{"Title", "Published", "Author"}, []string{"Dune", models.DateLayout}, 1),
		search: search,
	}
}

func (v *booksView) title() string { return "Manage Books" }

func (v *booksView) inForm() bool { return v.mode != modeList }

func (v *booksView) setSize(w, h int) { v.list.SetSize(w, h) }

func (v *booksView) errorMessage() string { return v.mgr.Error() }

func (v *booksView) load() tea.Cmd {
	return v.run(ActionLoad, v.mgr.Load)
}

func (v *booksView) run(action Action, fn func(context.Context) error) tea.Cmd {
	ctx := v.ctx
	return func() tea.Msg {
		return booksChangedMsg(action, fn(ctx))
	}
}

func (v *booksView) changed(r actionResult) tea.Cmd {
	snap := v.mgr.Snapshot()
	cmd := v.list.SetItems(bookItems(snap.Books, snap.Authors))
	if r.err == nil && ((r.action == ActionCreate && v.mode == modeCreate) || (r.action == ActionSave && v.mode == modeEdit)) {
		v.mode = modeList
	}
	if v.mode == modeEdit && snap.Edit == nil {
		v.mode = modeList
	}
	return cmd
}

func (v *booksView) selected() (models.Book, bool) {
	item, ok := v.list.SelectedItem().(bookItem)
	return item.book, ok
}

func (v *booksView) update(msg tea.KeyMsg) tea.Cmd {
	switch v.mode {
	case modeList:
		return v.updateList(msg)
	case modeSearch:
		return v.updateSearch(msg)
	}
	return v.updateForm(msg)
}

func (v *booksView) updateList(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, v.keys.create):
		draft := v.mgr.Draft()
		v.author = draft.Author
		v.mode = modeCreate
		return v.form.reset(draft.Title, draft.PublishedDate)
	case key.Matches(msg, v.keys.edit):
		book, ok := v.selected()
		if !ok {
			return nil
		}
		v.mgr.BeginEdit(book)
		v.editID = book.ID
		v.author = book.Author
		v.mode = modeEdit
		return v.form.reset(book.Title, book.PublishedDate)
	case key.Matches(msg, v.keys.remove):
		book, ok := v.selected()
		if !ok {
			return nil
		}
		return v.run(ActionDelete, func(ctx context.Context) error { return v.mgr.Delete(ctx, book.ID) })
	case key.Matches(msg, v.keys.dismiss):
		v.mgr.ClearError()
		return nil
	case key.Matches(msg, v.keys.refresh):
		return v.load()
	case key.Matches(msg, v.keys.search):
		v.mode = modeSearch
		v.search.SetValue(v.mgr.Search())
		v.search.CursorEnd()
		return v.search.Focus()
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return cmd
}

func (v *booksView) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, v.keys.cancel):
		v.search.Blur()
		v.mode = modeList
		return nil
	case key.Matches(msg, v.keys.submit):
		v.search.Blur()
		v.mgr.SetSearch(strings.TrimSpace(v.search.Value()))
		v.mode = modeList
		return v.run(ActionLoad, v.mgr.RefreshBooks)
	}

	var cmd tea.Cmd
	v.search, cmd = v.search.Update(msg)
	return cmd
}

func (v *booksView) updateForm(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, v.keys.cancel):
		if v.mode == modeEdit {
			v.mgr.CancelEdit()
		} else {
			v.mgr.SetDraft(v.input())
		}
		v.mode = modeList
		return nil
	case key.Matches(msg, v.keys.submit):
		in := v.input()
		if v.mode == modeEdit {
			v.mgr.SetEdit(models.Book{ID: v.editID, Title: in.Title, PublishedDate: in.PublishedDate, Author: in.Author})
			return v.run(ActionSave, v.mgr.SaveEdit)
		}
		v.mgr.SetDraft(in)
		return v.run(ActionCreate, v.mgr.Create)
	case key.Matches(msg, v.keys.nextField):
		return v.form.next()
	case key.Matches(msg, v.keys.prevField):
		return v.form.prev()
	case v.form.focus == authorField && key.Matches(msg, v.keys.nextOpt):
		v.cycleAuthor(1)
		return nil
	case v.form.focus == authorField && key.Matches(msg, v.keys.prevOpt):
		v.cycleAuthor(-1)
		return nil
	}
	return v.form.update(msg)
}

// cycleAuthor moves the selector by step through the unselected state and each author option.
func (v *booksView) cycleAuthor(step int) {
	options := v.mgr.AuthorOptions()
	if len(options) == 0 {
		v.author = 0
		return
	}

	// position 0 is "unselected", i+1 is options[i]
	pos := 0
	for i, a := range options {
		if a.ID == v.author {
			pos = i + 1
		}
	}
	n := len(options) + 1
	pos = ((pos+step)%n + n) % n

	if pos == 0 {
		v.author = 0
		return
	}
	v.author = options[pos-1].ID
}

func (v *booksView) input() models.BookInput {
	return models.BookInput{Title: v.form.value(0), PublishedDate: v.form.value(1), Author: v.author}
}

func (v *booksView) authorLabel() string {
	if v.author == 0 {
		return "‹ Select an author ›"
	}
	return fmt.Sprintf("‹ %s ›", models.AuthorName(v.mgr.AuthorOptions(), v.author))
}

func (v *booksView) helpKeys() []key.Binding {
	switch v.mode {
	case modeList:
		keys := []key.Binding{v.keys.create, v.keys.edit, v.keys.remove, v.keys.search, v.keys.refresh, v.keys.switchTab, v.keys.quit}
		if v.mgr.Error() != "" {
			keys = append(keys, v.keys.dismiss)
		}
		return keys
	case modeSearch:
		return []key.Binding{v.keys.submit, v.keys.cancel}
	}
	return []key.Binding{v.keys.submit, v.keys.cancel, v.keys.nextField, v.keys.prevOpt, v.keys.nextOpt}
}

func (v *booksView) render() string {
	switch v.mode {
	case modeCreate:
		return styles.title.Render("Add Book") + "\n" + v.form.view(v.authorLabel())
	case modeEdit:
		return styles.title.Render(fmt.Sprintf("Edit Book #%d", v.editID)) + "\n" + v.form.view(v.authorLabel())
	}

	var b strings.Builder
	if v.mode == modeSearch {
		b.WriteString(v.search.View() + "\n\n")
	} else if term := v.mgr.Search(); term != "" {
		b.WriteString(styles.help.Render(fmt.Sprintf("Filtered by %q (/ to change)", term)) + "\n\n")
	}

	if len(v.list.Items()) == 0 {
		b.WriteString(styles.title.Render("Books") + "\n" + styles.help.Render("No books found. Press n to add one."))
		return b.String()
	}
	b.WriteString(v.list.View())
	return b.String()
}
