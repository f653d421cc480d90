// package services defines interface CatalogService for the library catalog REST API
package services

import (
	"context"

	"github.com/desertthunder/libman/internal/models"
)

// CatalogService defines one operation per (resource, verb) pair of the catalog API.
//
// Create and update return the entity the server echoed back; callers reconcile their state by listing again
// rather than trusting these values.
type CatalogService interface {
	// ListAuthors returns every author in server order.
	ListAuthors(ctx context.Context) ([]models.Author, error)

	// CreateAuthor submits a new author.
	CreateAuthor(ctx context.Context, in models.AuthorInput) (*models.Author, error)

	// UpdateAuthor replaces every field of the author with the given id.
	UpdateAuthor(ctx context.Context, id int64, in models.AuthorInput) (*models.Author, error)

	// DeleteAuthor removes the author with the given id.
	DeleteAuthor(ctx context.Context, id int64) error

	// ListBooks returns every book in server order, optionally filtered.
	ListBooks(ctx context.Context, query BookQuery) ([]models.Book, error)

	// CreateBook submits a new book.
	CreateBook(ctx context.Context, in models.BookInput) (*models.Book, error)

	// UpdateBook replaces title, published_date and author of the book with the given id.
	UpdateBook(ctx context.Context, id int64, in models.BookInput) (*models.Book, error)

	// DeleteBook removes the book with the given id.
	DeleteBook(ctx context.Context, id int64) error
}

// BookQuery filters the book collection.
type BookQuery struct {
	// Search matches title or published date, case-insensitively.
	Search string
}
