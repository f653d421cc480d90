package managers

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/libman/internal/models"
	"github.com/desertthunder/libman/internal/services"
)

// Messages shown by the books view.
const (
	MsgLoadBooksFailed   = "Failed to load books."
	MsgLoadAuthorsFailed = "Failed to load authors."
	MsgCreateBookFailed  = "Failed to create book. Please check the data and try again."
	MsgUpdateBookFailed  = "Failed to update the book. Please check the data and try again."
	MsgDeleteBookFailed  = "Failed to delete the book."
)

// BooksSnapshot is a copy of a [BooksManager]'s state.
type BooksSnapshot struct {
	Books   []models.Book
	Authors []models.Author
	Draft   models.BookInput
	Edit    *models.Book
	Search  string
	Error   string
}

// BooksManager owns the books view state: the book list, the authors offered by the selector, the draft new book,
// at most one book being edited, the search term and the current error message.
type BooksManager struct {
	state
	api         services.CatalogService
	bookGuard   refreshGuard
	authorGuard refreshGuard
	books       []models.Book
	authors     []models.Author
	draft       models.BookInput
	edit        *models.Book
	search      string
}

// NewBooksManager creates an empty [BooksManager]. Call Load to fetch books and authors.
func NewBooksManager(api services.CatalogService, logger *log.Logger) *BooksManager {
	m := &BooksManager{api: api}
	m.init(logger, "books")
	return m
}

// Snapshot returns a copy of the current state.
func (m *BooksManager) Snapshot() BooksSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return BooksSnapshot{
		Books:   cloneSlice(m.books),
		Authors: cloneSlice(m.authors),
		Draft:   m.draft,
		Edit:    clonePtr(m.edit),
		Search:  m.search,
		Error:   m.err,
	}
}

// Books returns a copy of the loaded books.
func (m *BooksManager) Books() []models.Book {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneSlice(m.books)
}

// AuthorOptions returns the authors offered by the selector, in server order.
func (m *BooksManager) AuthorOptions() []models.Author {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneSlice(m.authors)
}

// Load refreshes books and authors concurrently. A failure of one does not stop the other.
func (m *BooksManager) Load(ctx context.Context) error {
	var (
		wg                   sync.WaitGroup
		booksErr, authorsErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		booksErr = m.RefreshBooks(ctx)
	}()
	go func() {
		defer wg.Done()
		authorsErr = m.RefreshAuthors(ctx)
	}()
	wg.Wait()

	return errors.Join(booksErr, authorsErr)
}

// RefreshBooks replaces the book list with the server's, filtered by the current search term.
func (m *BooksManager) RefreshBooks(ctx context.Context) error {
	m.mu.Lock()
	seq := m.bookGuard.next()
	query := services.BookQuery{Search: m.search}
	m.mu.Unlock()

	books, err := m.api.ListBooks(ctx, query)

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.bookGuard.accept(seq) {
		m.logger.Debug("dropping stale book refresh", "seq", seq)
		return err
	}

	if err != nil {
		m.logger.Error("book refresh failed", "error", err)
		m.err = MsgLoadBooksFailed
		return err
	}

	m.books = books
	return nil
}

// RefreshAuthors replaces the selector's author list with the server's.
func (m *BooksManager) RefreshAuthors(ctx context.Context) error {
	m.mu.Lock()
	seq := m.authorGuard.next()
	m.mu.Unlock()

	authors, err := m.api.ListAuthors(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.authorGuard.accept(seq) {
		m.logger.Debug("dropping stale author refresh", "seq", seq)
		return err
	}

	if err != nil {
		m.logger.Error("author refresh failed", "error", err)
		m.err = MsgLoadAuthorsFailed
		return err
	}

	m.authors = authors
	return nil
}

// Search returns the current search term.
func (m *BooksManager) Search() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.search
}

// SetSearch sets the term used by the next RefreshBooks.
func (m *BooksManager) SetSearch(term string) {
	m.mu.Lock()
	m.search = term
	m.mu.Unlock()
}

// Draft returns the draft new book.
func (m *BooksManager) Draft() models.BookInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draft
}

// SetDraft replaces the draft new book.
func (m *BooksManager) SetDraft(in models.BookInput) {
	m.mu.Lock()
	m.draft = in
	m.mu.Unlock()
}

// Create submits the draft. A draft missing its title, published date or author is rejected without contacting the
// server.
func (m *BooksManager) Create(ctx context.Context) error {
	draft := m.Draft()
	if err := draft.Validate(); err != nil {
		return m.reject(models.MsgFieldsRequired)
	}

	if _, err := m.api.CreateBook(ctx, draft); err != nil {
		return m.fail("create", err, MsgCreateBookFailed)
	}

	m.mu.Lock()
	m.draft = models.BookInput{}
	m.err = ""
	m.mu.Unlock()

	return m.RefreshBooks(ctx)
}

// Edit returns a copy of the book in the edit slot.
func (m *BooksManager) Edit() (models.Book, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.edit == nil {
		return models.Book{}, false
	}
	return *m.edit, true
}

// BeginEdit puts a copy of book in the edit slot, discarding any unsaved edit.
func (m *BooksManager) BeginEdit(book models.Book) {
	m.mu.Lock()
	m.edit = &book
	m.mu.Unlock()
}

// SetEdit updates the fields of the book in the edit slot. It is ignored unless book is the one being edited.
func (m *BooksManager) SetEdit(book models.Book) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.edit == nil || m.edit.ID != book.ID {
		return false
	}
	*m.edit = book
	return true
}

// CancelEdit empties the edit slot.
func (m *BooksManager) CancelEdit() {
	m.mu.Lock()
	m.edit = nil
	m.mu.Unlock()
}

// SaveEdit submits title, published date and author of the edit slot. The server is left to validate them.
func (m *BooksManager) SaveEdit(ctx context.Context) error {
	edit, ok := m.Edit()
	if !ok {
		return nil
	}

	if _, err := m.api.UpdateBook(ctx, edit.ID, edit.Input()); err != nil {
		return m.fail("update", err, MsgUpdateBookFailed, "id", edit.ID)
	}

	m.mu.Lock()
	if m.edit != nil && m.edit.ID == edit.ID {
		m.edit = nil
	}
	m.err = ""
	m.mu.Unlock()

	return m.RefreshBooks(ctx)
}

// Delete removes the book with the given id and refreshes the list. A pending edit of that book is dropped.
func (m *BooksManager) Delete(ctx context.Context, id int64) error {
	if err := m.api.DeleteBook(ctx, id); err != nil {
		return m.fail("delete", err, MsgDeleteBookFailed, "id", id)
	}

	m.mu.Lock()
	if m.edit != nil && m.edit.ID == id {
		m.edit = nil
	}
	m.mu.Unlock()

	return m.RefreshBooks(ctx)
}
