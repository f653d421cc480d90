// Package services defines the [CatalogService] interface for the library catalog REST API and implements it
// with an HTTP [Client].
//
// # Endpoints
//
// The client maps each (resource, verb) pair onto a fixed endpoint template below the configured base URL:
//
//	GET    /authors/        ListAuthors
//	POST   /authors/        CreateAuthor
//	PUT    /authors/{id}/   UpdateAuthor
//	DELETE /authors/{id}/   DeleteAuthor
//	GET    /books/          ListBooks (?search=)
//	POST   /books/          CreateBook
//	PUT    /books/{id}/     UpdateBook
//	DELETE /books/{id}/     DeleteBook
//
// # Error Handling
//
// Any non-2xx response is returned as an [*APIError] carrying the status and body. Errors wrap typed errors
// from the shared package:
//   - [shared.ErrAPIRequest] : the server answered with a non-2xx status
//   - [shared.ErrNotFound] : the server answered 404
//   - [shared.ErrServiceUnavailable] : the request never produced a response
//
// Validation failures keyed by field name are exposed through [APIError.FieldMessage] so callers can surface
// a field-specific message (e.g. the email message for authors) and fall back to generic text otherwise.
package services
