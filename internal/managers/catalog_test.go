package managers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/libman/internal/models"
	"github.com/desertthunder/libman/internal/services"
	"github.com/desertthunder/libman/internal/shared"
)

// MockCatalog is an in-memory [services.CatalogService] that records every call.
type MockCatalog struct {
	mu      sync.Mutex
	authors []models.Author
	books   []models.Book
	nextID  int64
	calls   []string

	// Errs makes the named method fail with the given error.
	Errs map[string]error
	// OnListAuthors and OnListBooks run after the list is copied and before it is returned, without the lock held.
	// call counts from 1.
	OnListAuthors func(call int)
	OnListBooks   func(call int)

	listAuthorsCalls int
	listBooksCalls   int
}

var _ services.CatalogService = (*MockCatalog)(nil)

func NewMockCatalog(authors []models.Author, books []models.Book) *MockCatalog {
	m := &MockCatalog{authors: authors, books: books, Errs: map[string]error{}, nextID: 100}
	return m
}

func (m *MockCatalog) record(method string) error {
	m.calls = append(m.calls, method)
	return m.Errs[method]
}

// Calls returns the names of the methods called so far.
func (m *MockCatalog) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.calls)
}

// Count returns how often method was called.
func (m *MockCatalog) Count(method string) int {
	n := 0
	for _, c := range m.Calls() {
		if c == method {
			n++
		}
	}
	return n
}

// PutAuthor stores a server-side change behind the manager's back.
func (m *MockCatalog) PutAuthor(a models.Author) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.authors {
		if m.authors[i].ID == a.ID {
			m.authors[i] = a
			return
		}
	}
	m.authors = append(m.authors, a)
}

func (m *MockCatalog) ListAuthors(ctx context.Context) ([]models.Author, error) {
	m.mu.Lock()
	err := m.record("ListAuthors")
	m.listAuthorsCalls++
	call := m.listAuthorsCalls
	authors := slices.Clone(m.authors)
	hook := m.OnListAuthors
	m.mu.Unlock()

	if hook != nil {
		hook(call)
	}
	if err != nil {
		return nil, err
	}
	return authors, nil
}

func (m *MockCatalog) CreateAuthor(ctx context.Context, in models.AuthorInput) (*models.Author, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("CreateAuthor"); err != nil {
		return nil, err
	}
	m.nextID++
	a := models.Author{ID: m.nextID, Name: in.Name, Email: in.Email}
	m.authors = append(m.authors, a)
	return &a, nil
}

func (m *MockCatalog) UpdateAuthor(ctx context.Context, id int64, in models.AuthorInput) (*models.Author, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("UpdateAuthor"); err != nil {
		return nil, err
	}
	for i := range m.authors {
		if m.authors[i].ID == id {
			m.authors[i].Name, m.authors[i].Email = in.Name, in.Email
			a := m.authors[i]
			return &a, nil
		}
	}
	return nil, notFound("PUT", fmt.Sprintf("/authors/%d/", id))
}

func (m *MockCatalog) DeleteAuthor(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("DeleteAuthor"); err != nil {
		return err
	}
	for i := range m.authors {
		if m.authors[i].ID == id {
			m.authors = slices.Delete(m.authors, i, i+1)
			return nil
		}
	}
	return notFound("DELETE", fmt.Sprintf("/authors/%d/", id))
}

func (m *MockCatalog) ListBooks(ctx context.Context, query services.BookQuery) ([]models.Book, error) {
	m.mu.Lock()
	err := m.record("ListBooks")
	m.listBooksCalls++
	call := m.listBooksCalls
	var books []models.Book
	for _, b := range m.books {
		if query.Search == "" || strings.Contains(strings.ToLower(b.Title), strings.ToLower(query.Search)) {
			books = append(books, b)
		}
	}
	hook := m.OnListBooks
	m.mu.Unlock()

	if hook != nil {
		hook(call)
	}
	if err != nil {
		return nil, err
	}
	return books, nil
}

func (m *MockCatalog) CreateBook(ctx context.Context, in models.BookInput) (*models.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("CreateBook"); err != nil {
		return nil, err
	}
	m.nextID++
	b := models.Book{ID: m.nextID, Title: in.Title, PublishedDate: in.PublishedDate, Author: in.Author}
	m.books = append(m.books, b)
	return &b, nil
}

func (m *MockCatalog) UpdateBook(ctx context.Context, id int64, in models.BookInput) (*models.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("UpdateBook"); err != nil {
		return nil, err
	}
	for i := range m.books {
		if m.books[i].ID == id {
			m.books[i] = models.Book{ID: id, Title: in.Title, PublishedDate: in.PublishedDate, Author: in.Author}
			b := m.books[i]
			return &b, nil
		}
	}
	return nil, notFound("PUT", fmt.Sprintf("/books/%d/", id))
}

func (m *MockCatalog) DeleteBook(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("DeleteBook"); err != nil {
		return err
	}
	for i := range m.books {
		if m.books[i].ID == id {
			m.books = slices.Delete(m.books, i, i+1)
			return nil
		}
	}
	return notFound("DELETE", fmt.Sprintf("/books/%d/", id))
}

func notFound(method, path string) error {
	return &services.APIError{Method: method, Path: path, StatusCode: http.StatusNotFound, Detail: "Not found."}
}

func fieldError(field, msg string) error {
	return &services.APIError{
		Method:     "POST",
		StatusCode: http.StatusBadRequest,
		Fields:     map[string][]string{field: {msg}},
	}
}

func unavailable() error {
	return fmt.Errorf("%w: connection refused", shared.ErrServiceUnavailable)
}

func quietLogger() *log.Logger {
	return shared.NewLogger(io.Discard)
}
