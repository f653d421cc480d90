// package server contains the router, middleware & handlers for the reference catalog API
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/libman/internal/models"
	"github.com/desertthunder/libman/internal/repositories"
	"github.com/desertthunder/libman/internal/shared"
)

// BasePath prefixes every API route.
const BasePath = "/api"

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
// Common middleware includes logging, request ids, rate limiting, etc.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers in the catalog API.
// Implementations handle one resource's collection and item endpoints.
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
// Implementations register handlers, apply middleware, and configure the HTTP server.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// Options configures [NewAPI].
type Options struct {
	Logger    *log.Logger
	RateLimit float64 // requests per second across all clients; 0 disables limiting
	Burst     int
}

// NewAPI builds the catalog API router over db: authors and books resources behind request id, recovery, logging
// and rate limiting middleware.
func NewAPI(db *sql.DB, opts Options) *BasicRouter {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	router := NewBasicRouter()
	router.Use(RequestID(), Recover(logger), RequestLogger(logger), RateLimit(opts.RateLimit, opts.Burst))

	router.Handler(NewResource(BasePath+"/authors", repositories.NewAuthorRepository(db), logger, nil))
	router.Handler(NewResource(BasePath+"/books", repositories.NewBookRepository(db), logger, bookCriteria))

	router.Handle(http.MethodGet, BasePath+"/{$}", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"authors": absoluteURL(r, BasePath+"/authors/"),
			"books":   absoluteURL(r, BasePath+"/books/"),
		})
	}))

	router.Handler(notFoundHandler{})

	return router
}

// notFoundHandler answers every path no other route claims.
type notFoundHandler struct{}

func (notFoundHandler) Routes() []string { return []string{"/"} }

func (notFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeDetail(w, http.StatusNotFound, "Not found.")
}

// bookCriteria maps the ?search= query parameter to repository criteria.
func bookCriteria(r *http.Request) map[string]any {
	return map[string]any{"search": r.URL.Query().Get("search")}
}

func absoluteURL(r *http.Request, path string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s%s", scheme, r.Host, path)
}

// New creates an [http.Server] for handler listening on addr.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Serve accepts connections on ln until ctx is cancelled, then shuts the server down gracefully.
func Serve(ctx context.Context, srv *http.Server, ln net.Listener, logger *log.Logger) error {
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("serving catalog API", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
		close(serverErrors)
	}()

	select {
	case err := <-serverErrors:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("error shutting down server", "error", err)
		return err
	}
	logger.Info("server stopped")
	return nil
}

var (
	_ Handler = (*Resource[models.Author, models.AuthorInput])(nil)
	_ Router  = (*BasicRouter)(nil)
)
