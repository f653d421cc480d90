// API client for the catalog REST API
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/libman/internal/models"
	"github.com/desertthunder/libman/internal/shared"
)

// UserAgent identifies libman to the catalog API.
var UserAgent = "libman/0.1.0"

const (
	authorsPath = "/authors/"
	booksPath   = "/books/"
)

var _ CatalogService = (*Client)(nil)

// Client talks to the catalog REST API. It adds no retries, auth headers or caching.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a catalog API client rooted at baseURL (e.g. http://localhost:8000/api).
func NewClient(baseURL string, client *http.Client) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = shared.DefaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: client,
	}
}

// BaseURL returns the API root the client sends requests to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListAuthors performs GET /authors/.
func (c *Client) ListAuthors(ctx context.Context) ([]models.Author, error) {
	var authors []models.Author
	if err := c.do(ctx, http.MethodGet, authorsPath, nil, &authors); err != nil {
		return nil, err
	}
	return authors, nil
}

// CreateAuthor performs POST /authors/.
func (c *Client) CreateAuthor(ctx context.Context, in models.AuthorInput) (*models.Author, error) {
	var author models.Author
	if err := c.do(ctx, http.MethodPost, authorsPath, in, &author); err != nil {
		return nil, err
	}
	return &author, nil
}

// UpdateAuthor performs PUT /authors/{id}/.
func (c *Client) UpdateAuthor(ctx context.Context, id int64, in models.AuthorInput) (*models.Author, error) {
	var author models.Author
	if err := c.do(ctx, http.MethodPut, itemPath(authorsPath, id), in, &author); err != nil {
		return nil, err
	}
	return &author, nil
}

// DeleteAuthor performs DELETE /authors/{id}/.
func (c *Client) DeleteAuthor(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, itemPath(authorsPath, id), nil, nil)
}

// ListBooks performs GET /books/, adding ?search= when the query has a search term.
func (c *Client) ListBooks(ctx context.Context, query BookQuery) ([]models.Book, error) {
	path := booksPath
	if search := strings.TrimSpace(query.Search); search != "" {
		path += "?" + url.Values{"search": {search}}.Encode()
	}

	var books []models.Book
	if err := c.do(ctx, http.MethodGet, path, nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// CreateBook performs POST /books/.
func (c *Client) CreateBook(ctx context.Context, in models.BookInput) (*models.Book, error) {
	var book models.Book
	if err := c.do(ctx, http.MethodPost, booksPath, in, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// UpdateBook performs PUT /books/{id}/ with a body of exactly title, published_date and author.
func (c *Client) UpdateBook(ctx context.Context, id int64, in models.BookInput) (*models.Book, error) {
	var book models.Book
	if err := c.do(ctx, http.MethodPut, itemPath(booksPath, id), in, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// DeleteBook performs DELETE /books/{id}/.
func (c *Client) DeleteBook(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, itemPath(booksPath, id), nil, nil)
}

func itemPath(collection string, id int64) string {
	return collection + strconv.FormatInt(id, 10) + "/"
}

// do sends a request with an optional JSON body and decodes a 2xx JSON response into dest.
// Non-2xx responses become an [*APIError].
func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %w", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(method, path, resp.StatusCode, data)
	}

	if dest == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// APIError is a non-2xx response from the catalog API.
//
// Validation failures arrive as an object keyed by field name, each holding a list of messages; those are
// decoded into Fields. A {"detail": "..."} body is decoded into Detail.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
	Fields     map[string][]string
	Detail     string
}

func newAPIError(method, path string, status int, body []byte) *APIError {
	apiErr := &APIError{Method: method, Path: path, StatusCode: status, Body: body}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return apiErr
	}

	for key, value := range raw {
		var messages []string
		if err := json.Unmarshal(value, &messages); err == nil {
			if apiErr.Fields == nil {
				apiErr.Fields = make(map[string][]string)
			}
			apiErr.Fields[key] = messages
			continue
		}

		var message string
		if err := json.Unmarshal(value, &message); err != nil {
			continue
		}
		if key == "detail" {
			apiErr.Detail = message
			continue
		}
		if apiErr.Fields == nil {
			apiErr.Fields = make(map[string][]string)
		}
		apiErr.Fields[key] = []string{message}
	}

	return apiErr
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%v: %s %s returned status %d", shared.ErrAPIRequest, e.Method, e.Path, e.StatusCode)
	switch {
	case e.Detail != "":
		msg += ": " + e.Detail
	case len(e.Fields) > 0:
		parts := make([]string, 0, len(e.Fields))
		for _, field := range models.FieldNames(e.Fields) {
			parts = append(parts, field+": "+strings.Join(e.Fields[field], " "))
		}
		msg += ": " + strings.Join(parts, "; ")
	}
	return msg
}

// Unwrap exposes [shared.ErrAPIRequest] to errors.Is.
func (e *APIError) Unwrap() error {
	return shared.ErrAPIRequest
}

// Is reports 404 responses as [shared.ErrNotFound].
func (e *APIError) Is(target error) bool {
	return target == shared.ErrNotFound && e.StatusCode == http.StatusNotFound
}

// FieldMessage returns the first message the server reported for field.
func (e *APIError) FieldMessage(field string) (string, bool) {
	if messages := e.Fields[field]; len(messages) > 0 && messages[0] != "" {
		return messages[0], true
	}
	return "", false
}

// FieldMessage returns the first server message for field when err wraps an [*APIError].
func FieldMessage(err error, field string) (string, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.FieldMessage(field)
	}
	return "", false
}
