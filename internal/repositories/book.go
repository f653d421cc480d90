package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/libman/internal/models"
)

// BookRepository implements [models.Repository] for [models.Book] persistence.
type BookRepository struct {
	db *sql.DB
}

var _ models.Repository[models.Book, models.BookInput] = (*BookRepository)(nil)

// NewBookRepository creates a new [BookRepository] with the given database connection
func NewBookRepository(db *sql.DB) *BookRepository {
	return &BookRepository{db: db}
}

// validate checks the record and that its author exists.
func (r *BookRepository) validate(ctx context.Context, in models.BookInput) error {
	if err := in.ValidateRecord(); err != nil {
		return invalid(err)
	}

	found, err := exists(ctx, r.db, "authors", in.Author)
	if err != nil {
		return err
	}
	if !found {
		return invalidField("author", "validation_invalid_pk",
			fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", in.Author))
	}
	return nil
}

// Create validates and inserts a new book
func (r *BookRepository) Create(ctx context.Context, in models.BookInput) (*models.Book, error) {
	if err := r.validate(ctx, in); err != nil {
		return nil, err
	}

	query := `INSERT INTO books (title, published_date, author_id) VALUES (?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, in.Title, in.PublishedDate, in.Author)
	if err != nil {
		return nil, fmt.Errorf("failed to insert book: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get book id: %w", err)
	}

	return &models.Book{ID: id, Title: in.Title, PublishedDate: in.PublishedDate, Author: in.Author}, nil
}

// Get retrieves a book by id
func (r *BookRepository) Get(ctx context.Context, id int64) (*models.Book, error) {
	var b models.Book
	err := r.db.QueryRowContext(ctx, `SELECT id, title, published_date, author_id FROM books WHERE id = ?`, id).
		Scan(&b.ID, &b.Title, &b.PublishedDate, &b.Author)
	if err != nil {
		return nil, noRows(err, "book", id)
	}
	return &b, nil
}

// Update replaces title, published date and author of an existing book
func (r *BookRepository) Update(ctx context.Context, id int64, in models.BookInput) (*models.Book, error) {
	found, err := exists(ctx, r.db, "books", id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, notFound("book", id)
	}

	if err := r.validate(ctx, in); err != nil {
		return nil, err
	}

	query := `
		UPDATE books
		SET title = ?, published_date = ?, author_id = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, in.Title, in.PublishedDate, in.Author, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update book: %w", err)
	}
	if err := checkAffected(result, "book", id); err != nil {
		return nil, err
	}

	return &models.Book{ID: id, Title: in.Title, PublishedDate: in.PublishedDate, Author: in.Author}, nil
}

// Delete removes a book by id
func (r *BookRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	return checkAffected(result, "book", id)
}

// List retrieves books ordered by id.
//
// Criteria:
//   - "search" (string): case-insensitive substring of title or published date
//   - "author" (int64): author id
func (r *BookRepository) List(ctx context.Context, criteria map[string]any) ([]models.Book, error) {
	query := `SELECT id, title, published_date, author_id FROM books WHERE 1 = 1`
	args := []any{}

	if search, ok := criteria["search"].(string); ok && search != "" {
		query += " AND (title LIKE ? ESCAPE '\\' OR published_date LIKE ? ESCAPE '\\')"
		pattern := "%" + escapeLike(search) + "%"
		args = append(args, pattern, pattern)
	}

	if author, ok := criteria["author"].(int64); ok && author > 0 {
		query += " AND author_id = ?"
		args = append(args, author)
	}

	query += " ORDER BY id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	books := []models.Book{}
	for rows.Next() {
		var b models.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.PublishedDate, &b.Author); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return books, nil
}

// escapeLike escapes LIKE wildcards so the search term matches literally.
func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
