package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/libman/internal/managers"
	"github.com/desertthunder/libman/internal/models"
)

// mode is what a view's key presses currently drive.
type mode int

const (
	modeList mode = iota
	modeCreate
	modeEdit
	modeSearch
)

// authorsView is the "Manage Authors" tab.
type authorsView struct {
	ctx    context.Context
	mgr    *managers.AuthorsManager
	keys   keyMap
	list   list.Model
	form   form
	mode   mode
	editID int64
}

func newAuthorsView(ctx context.Context, mgr *managers.AuthorsManager, keys keyMap) *authorsView {
	return &authorsView{
		ctx:  ctx,
		mgr:  mgr,
		keys: keys,
		list: newList("Authors"),
		form: newForm([]string{"Name", "Email"}, []string{"Edgar Allan Poe", "poe@example.com"}, 0),
	}
}

func (v *authorsView) title() string { return "Manage Authors" }

func (v *authorsView) inForm() bool { return v.mode != modeList }

func (v *authorsView) setSize(w, h int) { v.list.SetSize(w, h) }

func (v *authorsView) errorMessage() string { return v.mgr.Error() }

func (v *authorsView) load() tea.Cmd {
	return v.run(ActionLoad, v.mgr.Load)
}

func (v *authorsView) run(action Action, fn func(context.Context) error) tea.Cmd {
	ctx := v.ctx
	return func() tea.Msg {
		return authorsChangedMsg(action, fn(ctx))
	}
}

// changed syncs the list with the manager and leaves the form once its submission succeeded.
func (v *authorsView) changed(r actionResult) tea.Cmd {
	cmd := v.list.SetItems(authorItems(v.mgr.Authors()))
	if r.err == nil && ((r.action == ActionCreate && v.mode == modeCreate) || (r.action == ActionSave && v.mode == modeEdit)) {
		v.mode = modeList
	}
	if v.mode == modeEdit {
		if _, ok := v.mgr.Edit(); !ok {
			v.mode = modeList
		}
	}
	return cmd
}

func (v *authorsView) selected() (models.Author, bool) {
	item, ok := v.list.SelectedItem().(authorItem)
	return item.author, ok
}

func (v *authorsView) update(msg tea.KeyMsg) tea.Cmd {
	if v.mode == modeList {
		return v.updateList(msg)
	}
	return v.updateForm(msg)
}

func (v *authorsView) updateList(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, v.keys.create):
		draft := v.mgr.Draft()
		v.mode = modeCreate
		return v.form.reset(draft.Name, draft.Email)
	case key.Matches(msg, v.keys.edit):
		author, ok := v.selected()
		if !ok {
			return nil
		}
		v.mgr.BeginEdit(author)
		v.editID = author.ID
		v.mode = modeEdit
		return v.form.reset(author.Name, author.Email)
	case key.Matches(msg, v.keys.remove):
		author, ok := v.selected()
		if !ok {
			return nil
		}
		return v.run(ActionDelete, func(ctx context.Context) error { return v.mgr.Delete(ctx, author.ID) })
	case key.Matches(msg, v.keys.dismiss):
		v.mgr.ClearError()
		return nil
	case key.Matches(msg, v.keys.refresh):
		return v.run(ActionLoad, v.mgr.Refresh)
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return cmd
}

func (v *authorsView) updateForm(msg tea.KeyMsg) tea.Cmd {
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
		if v.mode == modeEdit {
			in := v.input()
			v.mgr.SetEdit(models.Author{ID: v.editID, Name: in.Name, Email: in.Email})
			return v.run(ActionSave, v.mgr.SaveEdit)
		}
		v.mgr.SetDraft(v.input())
		return v.run(ActionCreate, v.mgr.Create)
	case key.Matches(msg, v.keys.nextField):
		return v.form.next()
	case key.Matches(msg, v.keys.prevField):
		return v.form.prev()
	}
	return v.form.update(msg)
}

func (v *authorsView) input() models.AuthorInput {
	return models.AuthorInput{Name: v.form.value(0), Email: v.form.value(1)}
}

func (v *authorsView) helpKeys() []key.Binding {
	if v.mode == modeList {
		keys := []key.Binding{v.keys.create, v.keys.edit, v.keys.remove, v.keys.refresh, v.keys.switchTab, v.keys.quit}
		if v.mgr.Error() != "" {
			keys = append(keys, v.keys.dismiss)
		}
		return keys
	}
	return []key.Binding{v.keys.submit, v.keys.cancel, v.keys.nextField}
}

func (v *authorsView) render() string {
	switch v.mode {
	case modeCreate:
		return styles.title.Render("Add Author") + "\n" + v.form.view()
	case modeEdit:
		return styles.title.Render(fmt.Sprintf("Edit Author #%d", v.editID)) + "\n" + v.form.view()
	}
	if len(v.list.Items()) == 0 {
		return strings.Join([]string{styles.title.Render("Authors"), styles.help.Render("No authors yet. Press n to add one.")}, "\n")
	}
	return v.list.View()
}
