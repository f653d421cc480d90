package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/desertthunder/libman/internal/shared"
)

// invalid wraps a validation failure so it matches both [shared.ErrInvalidInput] and [validation.Errors].
func invalid(err error) error {
	return fmt.Errorf("%w: %w", shared.ErrInvalidInput, err)
}

// invalidField reports a single field error.
func invalidField(field, code, msg string) error {
	return invalid(validation.Errors{field: validation.NewError(code, msg)})
}

func notFound(entity string, id int64) error {
	return fmt.Errorf("%w: %s %d", shared.ErrNotFound, entity, id)
}

// exists reports whether a row with the given id is present in table.
func exists(ctx context.Context, db *sql.DB, table string, id int64) (bool, error) {
	var found bool
	err := db.QueryRowContext(ctx, fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE id = ?)", table), id).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("failed to query %s: %w", table, err)
	}
	return found, nil
}

// checkAffected turns an update or delete that touched no rows into a not-found error.
func checkAffected(result sql.Result, entity string, id int64) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return notFound(entity, id)
	}
	return nil
}

// noRows maps [sql.ErrNoRows] to a not-found error.
func noRows(err error, entity string, id int64) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound(entity, id)
	}
	return fmt.Errorf("failed to query %s: %w", entity, err)
}
