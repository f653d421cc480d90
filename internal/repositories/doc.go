// Package repositories implements SQLite persistence for the catalog served by `libman serve`.
//
// Each repository implements [models.Repository] for one entity type, handling CRUD operations and criteria-based
// listing. Records are hard-deleted; deleting an author cascades to their books.
//
// Key Implementations:
//   - [AuthorRepository] : Author persistence ordered by id
//   - [BookRepository] : Book persistence with title/published date search and author checks
//
// Validation failures are returned as ozzo-validation errors wrapped with [shared.ErrInvalidInput] so callers can
// report them field by field with [models.FieldErrors]. Unknown ids wrap [shared.ErrNotFound].
package repositories
