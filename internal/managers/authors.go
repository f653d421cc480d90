package managers

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/libman/internal/models"
	"github.com/desertthunder/libman/internal/services"
)

// Messages shown by the authors view.
const (
	MsgFetchAuthorsFailed = "Failed to fetch authors. Please try again."
	MsgCreateAuthorFailed = "Failed to create author. Please check the data and try again."
	MsgUpdateAuthorFailed = "Failed to update author. Please try again."
	msgDeleteAuthorFailed = "Failed to delete author with ID %d. Please try again."
)

// AuthorsSnapshot is a copy of an [AuthorsManager]'s state.
type AuthorsSnapshot struct {
	Authors []models.Author
	Draft   models.AuthorInput
	Edit    *models.Author
	Error   string
}

// AuthorsManager owns the authors view state: the author list in server order, the draft new author, at most one
// author being edited and the current error message.
type AuthorsManager struct {
	state
	api     services.CatalogService
	guard   refreshGuard
	authors []models.Author
	draft   models.AuthorInput
	edit    *models.Author
}

// NewAuthorsManager creates an empty [AuthorsManager]. Call Refresh to load the list.
func NewAuthorsManager(api services.CatalogService, logger *log.Logger) *AuthorsManager {
	m := &AuthorsManager{api: api}
	m.init(logger, "authors")
	return m
}

// Snapshot returns a copy of the current state.
func (m *AuthorsManager) Snapshot() AuthorsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return AuthorsSnapshot{
		Authors: cloneSlice(m.authors),
		Draft:   m.draft,
		Edit:    clonePtr(m.edit),
		Error:   m.err,
	}
}

// Authors returns a copy of the loaded authors.
func (m *AuthorsManager) Authors() []models.Author {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneSlice(m.authors)
}

// ValidateEmail reports whether email has a valid format.
func (m *AuthorsManager) ValidateEmail(email string) bool {
	return models.ValidateEmail(email)
}

// Load fetches the initial author list.
func (m *AuthorsManager) Load(ctx context.Context) error {
	return m.Refresh(ctx)
}

// Refresh replaces the author list with the server's. Success clears the error message.
func (m *AuthorsManager) Refresh(ctx context.Context) error {
	m.mu.Lock()
	seq := m.guard.next()
	m.mu.Unlock()

	authors, err := m.api.ListAuthors(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.guard.accept(seq) {
		m.logger.Debug("dropping stale refresh", "seq", seq)
		return err
	}

	if err != nil {
		m.logger.Error("refresh failed", "error", err)
		m.err = MsgFetchAuthorsFailed
		return err
	}

	m.authors = authors
	m.err = ""
	return nil
}

// Draft returns the draft new author.
func (m *AuthorsManager) Draft() models.AuthorInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draft
}

// SetDraft replaces the draft new author.
func (m *AuthorsManager) SetDraft(in models.AuthorInput) {
	m.mu.Lock()
	m.draft = in
	m.mu.Unlock()
}

// Create submits the draft. An invalid email is rejected without contacting the server. On success the draft is
// reset and the list refreshed; the new author only appears once that refresh lands.
func (m *AuthorsManager) Create(ctx context.Context) error {
	draft := m.Draft()
	if err := draft.Validate(); err != nil {
		return m.reject(models.MsgInvalidEmail)
	}

	if _, err := m.api.CreateAuthor(ctx, draft); err != nil {
		return m.fail("create", err, serverMessage(err, "email", MsgCreateAuthorFailed))
	}

	m.SetDraft(models.AuthorInput{})
	return m.Refresh(ctx)
}

// Edit returns a copy of the author in the edit slot.
func (m *AuthorsManager) Edit() (models.Author, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.edit == nil {
		return models.Author{}, false
	}
	return *m.edit, true
}

// BeginEdit puts a copy of author in the edit slot, discarding any unsaved edit.
func (m *AuthorsManager) BeginEdit(author models.Author) {
	m.mu.Lock()
	m.edit = &author
	m.mu.Unlock()
}

// SetEdit updates the fields of the author in the edit slot. It is ignored unless author is the one being edited.
func (m *AuthorsManager) SetEdit(author models.Author) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.edit == nil || m.edit.ID != author.ID {
		return false
	}
	*m.edit = author
	return true
}

// CancelEdit empties the edit slot.
func (m *AuthorsManager) CancelEdit() {
	m.mu.Lock()
	m.edit = nil
	m.mu.Unlock()
}

// SaveEdit submits the edit slot. The email is revalidated only when it differs from the one currently stored for
// that author. On success the slot and error are cleared and the list refreshed.
func (m *AuthorsManager) SaveEdit(ctx context.Context) error {
	m.mu.Lock()
	if m.edit == nil {
		m.mu.Unlock()
		return nil
	}
	edit := *m.edit
	original, _ := models.FindAuthor(m.authors, edit.ID)
	m.mu.Unlock()

	if edit.Email != original.Email && !models.ValidateEmail(edit.Email) {
		return m.reject(models.MsgInvalidEmail)
	}

	if _, err := m.api.UpdateAuthor(ctx, edit.ID, edit.Input()); err != nil {
		return m.fail("update", err, serverMessage(err, "email", MsgUpdateAuthorFailed), "id", edit.ID)
	}

	m.mu.Lock()
	if m.edit != nil && m.edit.ID == edit.ID {
		m.edit = nil
	}
	m.err = ""
	m.mu.Unlock()

	return m.Refresh(ctx)
}

// Delete removes the author with the given id and refreshes the list. A pending edit of that author is dropped.
func (m *AuthorsManager) Delete(ctx context.Context, id int64) error {
	if err := m.api.DeleteAuthor(ctx, id); err != nil {
		return m.fail("delete", err, fmt.Sprintf(msgDeleteAuthorFailed, id), "id", id)
	}

	m.mu.Lock()
	if m.edit != nil && m.edit.ID == id {
		m.edit = nil
	}
	m.mu.Unlock()

	return m.Refresh(ctx)
}

// serverMessage returns the server's first message for field, or fallback.
func serverMessage(err error, field, fallback string) string {
	if msg, ok := services.FieldMessage(err, field); ok {
		return msg
	}
	return fallback
}
