// package models defines the data model for the library catalog
package models

import (
	"context"
	"strconv"
)

// Repository defines the interface for data access operations on one resource.
// T is the stored entity and In the id-less payload used to create or replace it.
type Repository[T any, In any] interface {
	Create(ctx context.Context, in In) (*T, error)                  // Create inserts a new entity and returns it with its id
	Get(ctx context.Context, id int64) (*T, error)                  // Get retrieves an entity by id
	Update(ctx context.Context, id int64, in In) (*T, error)        // Update replaces every field of an existing entity
	Delete(ctx context.Context, id int64) error                     // Delete removes an entity by id
	List(ctx context.Context, criteria map[string]any) ([]T, error) // List retrieves entities matching criteria, ordered by id
}

// Author is a catalog author as returned by the API.
type Author struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Input returns the author without its id.
func (a Author) Input() AuthorInput {
	return AuthorInput{Name: a.Name, Email: a.Email}
}

// AuthorInput is an [Author] without its id.
type AuthorInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Book is a catalog book as returned by the API. Author holds the id of the book's [Author].
type Book struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	PublishedDate string `json:"published_date"`
	Author        int64  `json:"author"`
}

// Input returns exactly the fields an update submits: title, published_date and author.
func (b Book) Input() BookInput {
	return BookInput{Title: b.Title, PublishedDate: b.PublishedDate, Author: b.Author}
}

// BookInput is a [Book] without its id. An Author of 0 means no author has been selected.
type BookInput struct {
	Title         string `json:"title"`
	PublishedDate string `json:"published_date"`
	Author        int64  `json:"author"`
}

// AuthorName returns the name of the author with the given id, or a placeholder naming the id.
func AuthorName(authors []Author, id int64) string {
	for _, a := range authors {
		if a.ID == id {
			return a.Name
		}
	}
	return "Author ID: " + strconv.FormatInt(id, 10)
}

// FindAuthor returns the author with the given id.
func FindAuthor(authors []Author, id int64) (Author, bool) {
	for _, a := range authors {
		if a.ID == id {
			return a, true
		}
	}
	return Author{}, false
}

// CatalogExport is a snapshot of the whole catalog for export.
type CatalogExport struct {
	Authors []Author
	Books   []Book
}

// BooksBy returns the books written by the author with the given id, in catalog order.
func (c CatalogExport) BooksBy(id int64) []Book {
	var books []Book
	for _, b := range c.Books {
		if b.Author == id {
			books = append(books, b)
		}
	}
	return books
}
