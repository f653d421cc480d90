package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/libman/internal/models"
)

// AuthorRepository implements [models.Repository] for [models.Author] persistence.
type AuthorRepository struct {
	db *sql.DB
}

var _ models.Repository[models.Author, models.AuthorInput] = (*AuthorRepository)(nil)

// NewAuthorRepository creates a new [AuthorRepository] with the given database connection
func NewAuthorRepository(db *sql.DB) *AuthorRepository {
	return &AuthorRepository{db: db}
}

// Create validates and inserts a new author
func (r *AuthorRepository) Create(ctx context.Context, in models.AuthorInput) (*models.Author, error) {
	if err := in.ValidateRecord(); err != nil {
		return nil, invalid(err)
	}

	result, err := r.db.ExecContext(ctx, `INSERT INTO authors (name, email) VALUES (?, ?)`, in.Name, in.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to insert author: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get author id: %w", err)
	}

	return &models.Author{ID: id, Name: in.Name, Email: in.Email}, nil
}

// Get retrieves an author by id
func (r *AuthorRepository) Get(ctx context.Context, id int64) (*models.Author, error) {
	var a models.Author
	err := r.db.QueryRowContext(ctx, `SELECT id, name, email FROM authors WHERE id = ?`, id).
		Scan(&a.ID, &a.Name, &a.Email)
	if err != nil {
		return nil, noRows(err, "author", id)
	}
	return &a, nil
}

// Update replaces name and email of an existing author
func (r *AuthorRepository) Update(ctx context.Context, id int64, in models.AuthorInput) (*models.Author, error) {
	found, err := exists(ctx, r.db, "authors", id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, notFound("author", id)
	}

	if err := in.ValidateRecord(); err != nil {
		return nil, invalid(err)
	}

	query := `
		UPDATE authors
		SET name = ?, email = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, in.Name, in.Email, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update author: %w", err)
	}
	if err := checkAffected(result, "author", id); err != nil {
		return nil, err
	}

	return &models.Author{ID: id, Name: in.Name, Email: in.Email}, nil
}

// Delete removes an author and, through the foreign key, their books
func (r *AuthorRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM authors WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete author: %w", err)
	}
	return checkAffected(result, "author", id)
}

// List retrieves all authors ordered by id. The "email" criterion filters by exact address.
func (r *AuthorRepository) List(ctx context.Context, criteria map[string]any) ([]models.Author, error) {
	query := `SELECT id, name, email FROM authors WHERE 1 = 1`
	args := []any{}

	if email, ok := criteria["email"].(string); ok && email != "" {
		query += " AND email = ?"
		args = append(args, email)
	}

	query += " ORDER BY id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query authors: %w", err)
	}
	defer rows.Close()

	authors := []models.Author{}
	for rows.Next() {
		var a models.Author
		if err := rows.Scan(&a.ID, &a.Name, &a.Email); err != nil {
			return nil, fmt.Errorf("failed to scan author: %w", err)
		}
		authors = append(authors, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return authors, nil
}
