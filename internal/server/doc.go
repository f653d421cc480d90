// Package server provides HTTP routing, middleware, and the resource handlers behind `libman serve`.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally; [BasicRouter.Handle] registers method-qualified
// patterns, so a wrong method yields a 405.
//
// # Catalog API
//
// [NewAPI] mounts two [Resource] handlers under [BasePath]:
//
//	/api/authors/        /api/authors/{id}/
//	/api/books/          /api/books/{id}/     (?search= matches title or published date)
//
// Bodies are JSON. Validation failures answer 400 with an object keyed by field name, each holding a list of
// messages, and unknown ids answer 404 with {"detail": "Not found."}. This is the shape the client in
// internal/services decodes into an APIError.
//
// # Middleware
//
//   - [RequestID] tags each request with an X-Request-ID (a UUID unless the client sent one)
//   - [Recover] converts handler panics into 500 responses
//   - [RequestLogger] logs "METHOD path" with status, duration and request id
//   - [RateLimit] applies a token bucket shared by all clients and answers 429 when it is empty
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
