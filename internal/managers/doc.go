// Package managers owns the per-view state of the catalog UI and keeps it in sync with the REST API.
//
// [AuthorsManager] and [BooksManager] are explicit state containers: the loaded collection, a draft backing the
// create form, a single edit slot backing the update form, and one user-facing error message. Every mutation goes
// to the server first and is followed by a refresh that replaces the whole collection; nothing is inserted or
// patched locally, and the value a mutation returns is never trusted for ordering.
//
// # Concurrency
//
// The TUI runs each operation in its own goroutine, so two user actions can interleave. State is guarded by a
// mutex that is never held across a network call, and each refresh is stamped with a sequence number: a result
// is applied only when it is newer than the last one applied, so a slow stale refresh cannot overwrite a newer
// one.
//
// # Errors
//
// Local validation failures return an error wrapping [shared.ErrInvalidInput] and never reach the network.
// Server and transport failures are logged, leave the collection untouched and set a derived or generic message
// readable through Error. The latest message always wins.
package managers
