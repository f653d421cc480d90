package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/libman/internal/models"
	"github.com/desertthunder/libman/internal/shared"
)

func newTestAPI(t *testing.T, opts Options) (*httptest.Server, *syncBuffer) {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = shared.RunMigrations(db)
	require.NoError(t, err)

	logs := &syncBuffer{}
	opts.Logger = shared.NewLogger(logs)

	srv := httptest.NewServer(NewAPI(db, opts))
	t.Cleanup(srv.Close)
	return srv, logs
}

func do(t *testing.T, srv *httptest.Server, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = strings.NewReader(b)
		default:
			data, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(data)
		}
	}

	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func TestAuthorsAPI(t *testing.T) {
	srv, _ := newTestAPI(t, Options{})

	resp, data := do(t, srv, http.MethodGet, "/api/authors/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(data))

	resp, data = do(t, srv, http.MethodPost, "/api/authors/", models.AuthorInput{Name: "Poe", Email: "poe@x.com"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	poe := decode[models.Author](t, data)
	assert.NotZero(t, poe.ID)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	resp, data = do(t, srv, http.MethodPost, "/api/authors/", models.AuthorInput{Name: "Lovecraft", Email: "bad"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"email": ["Enter a valid email address."]}`, string(data))

	resp, data = do(t, srv, http.MethodPut, "/api/authors/"+itoa(poe.ID)+"/", models.AuthorInput{Name: "Poe", Email: "poe@newmail.com"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "poe@newmail.com", decode[models.Author](t, data).Email)

	resp, data = do(t, srv, http.MethodGet, "/api/authors/"+itoa(poe.ID)+"/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "poe@newmail.com", decode[models.Author](t, data).Email)

	resp, _ = do(t, srv, http.MethodDelete, "/api/authors/"+itoa(poe.ID)+"/", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, data = do(t, srv, http.MethodDelete, "/api/authors/"+itoa(poe.ID)+"/", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"detail": "Not found."}`, string(data))
}

func TestBooksAPI(t *testing.T) {
	srv, _ := newTestAPI(t, Options{})

	_, data := do(t, srv, http.MethodPost, "/api/authors/", models.AuthorInput{Name: "Herbert", Email: "frank@x.com"})
	herbert := decode[models.Author](t, data)

	t.Run("create and list", func(t *testing.T) {
		resp, data := do(t, srv, http.MethodPost, "/api/books/", models.BookInput{Title: "Dune", PublishedDate: "1965-08-01", Author: herbert.ID})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.JSONEq(t, `{"id": 1, "title": "Dune", "published_date": "1965-08-01", "author": 1}`, string(data))

		do(t, srv, http.MethodPost, "/api/books/", models.BookInput{Title: "Emma", PublishedDate: "1815-12-23", Author: herbert.ID})

		resp, data = do(t, srv, http.MethodGet, "/api/books/?search=dune", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		books := decode[[]models.Book](t, data)
		require.Len(t, books, 1)
		assert.Equal(t, "Dune", books[0].Title)

		_, data = do(t, srv, http.MethodGet, "/api/books/?search=1815", nil)
		assert.Len(t, decode[[]models.Book](t, data), 1)
	})

	t.Run("unknown author", func(t *testing.T) {
		resp, data := do(t, srv, http.MethodPost, "/api/books/", models.BookInput{Title: "X", PublishedDate: "2000-01-01", Author: 9})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.JSONEq(t, `{"author": ["Invalid pk \"9\" - object does not exist."]}`, string(data))
	})

	t.Run("wrong type", func(t *testing.T) {
		resp, data := do(t, srv, http.MethodPost, "/api/books/", `{"title": "X", "published_date": "2000-01-01", "author": "one"}`)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, decode[map[string][]string](t, data), "author")
	})

	t.Run("malformed body", func(t *testing.T) {
		resp, data := do(t, srv, http.MethodPost, "/api/books/", `{`)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, string(data), "JSON parse error")
	})

	t.Run("update missing book", func(t *testing.T) {
		resp, _ := do(t, srv, http.MethodPut, "/api/books/99/", models.BookInput{Title: "X", PublishedDate: "2000-01-01", Author: herbert.ID})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("method not allowed", func(t *testing.T) {
		resp, data := do(t, srv, http.MethodPatch, "/api/books/1/", `{}`)
		require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.JSONEq(t, `{"detail": "Method \"PATCH\" not allowed."}`, string(data))
	})

	t.Run("cascade", func(t *testing.T) {
		resp, _ := do(t, srv, http.MethodDelete, "/api/authors/"+itoa(herbert.ID)+"/", nil)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		_, data := do(t, srv, http.MethodGet, "/api/books/", nil)
		assert.Empty(t, decode[[]models.Book](t, data))
	})
}

func TestRouting(t *testing.T) {
	srv, logs := newTestAPI(t, Options{})

	t.Run("root lists resources", func(t *testing.T) {
		resp, data := do(t, srv, http.MethodGet, "/api/", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		root := decode[map[string]string](t, data)
		assert.Equal(t, srv.URL+"/api/books/", root["books"])
	})

	t.Run("unknown path", func(t *testing.T) {
		resp, data := do(t, srv, http.MethodGet, "/nope", nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.JSONEq(t, `{"detail": "Not found."}`, string(data))
	})

	t.Run("non-numeric id", func(t *testing.T) {
		resp, _ := do(t, srv, http.MethodGet, "/api/authors/abc/", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("request id and log", func(t *testing.T) {
		resp, _ := do(t, srv, http.MethodGet, "/api/authors/", nil)
		id := resp.Header.Get(RequestIDHeader)
		require.NotEmpty(t, id)
		assert.Contains(t, logs.String(), "GET /api/authors/")
		assert.Contains(t, logs.String(), id)
	})

	t.Run("client request id is kept", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/authors/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		resp, err := srv.Client().Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))
	})
}

func TestRateLimit(t *testing.T) {
	srv, _ := newTestAPI(t, Options{RateLimit: 0.001, Burst: 2})

	for range 2 {
		resp, _ := do(t, srv, http.MethodGet, "/api/authors/", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, data := do(t, srv, http.MethodGet, "/api/authors/", nil)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
	assert.Contains(t, string(data), "Request was throttled.")
}

func TestRecover(t *testing.T) {
	var logs bytes.Buffer
	router := NewBasicRouter()
	router.Use(Recover(shared.NewLogger(&logs)))
	router.Handle(http.MethodGet, "/boom", http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, logs.String(), "handler panicked")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/boom", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestServe(t *testing.T) {
	db, err := shared.NewDatabase(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = shared.RunMigrations(db)
	require.NoError(t, err)

	logs := &syncBuffer{}
	logger := shared.NewLogger(logs)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, New(ln.Addr().String(), NewAPI(db, Options{Logger: logger})), ln, logger)
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/api/authors/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.Contains(t, logs.String(), "server stopped")
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

// syncBuffer is a bytes.Buffer safe to read while the server goroutines log into it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
