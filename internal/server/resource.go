package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/libman/internal/models"
	"github.com/desertthunder/libman/internal/shared"
)

const maxBodyBytes = 1 << 20

// Resource serves one catalog resource over a [models.Repository]:
//
//	GET    <prefix>/        list
//	POST   <prefix>/        create, 201
//	GET    <prefix>/{id}/   retrieve
//	PUT    <prefix>/{id}/   replace
//	DELETE <prefix>/{id}/   delete, 204
//
// Validation failures are returned as 400 with a body mapping field names to messages; unknown ids as 404.
type Resource[T any, In any] struct {
	prefix   string
	repo     models.Repository[T, In]
	logger   *log.Logger
	criteria func(*http.Request) map[string]any
}

// NewResource creates a [Resource] mounted at prefix. criteria, when set, derives list filters from the request.
func NewResource[T any, In any](prefix string, repo models.Repository[T, In], logger *log.Logger, criteria func(*http.Request) map[string]any) *Resource[T, In] {
	return &Resource[T, In]{prefix: prefix, repo: repo, logger: logger, criteria: criteria}
}

// Routes returns the collection and item patterns.
func (h *Resource[T, In]) Routes() []string {
	return []string{h.prefix + "/{$}", h.prefix + "/{id}/"}
}

// ServeHTTP dispatches on the method and whether the path names an item.
func (h *Resource[T, In]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("id")
	if raw == "" {
		switch r.Method {
		case http.MethodGet, http.MethodHead:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			methodNotAllowed(w, r, "GET, HEAD, POST")
		}
		return
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return
	}

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		h.retrieve(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.destroy(w, r, id)
	default:
		methodNotAllowed(w, r, "GET, HEAD, PUT, DELETE")
	}
}

func (h *Resource[T, In]) list(w http.ResponseWriter, r *http.Request) {
	var criteria map[string]any
	if h.criteria != nil {
		criteria = h.criteria(r)
	}

	items, err := h.repo.List(r.Context(), criteria)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Resource[T, In]) create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decode(w, r)
	if !ok {
		return
	}

	item, err := h.repo.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *Resource[T, In]) retrieve(w http.ResponseWriter, r *http.Request, id int64) {
	item, err := h.repo.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Resource[T, In]) update(w http.ResponseWriter, r *http.Request, id int64) {
	in, ok := h.decode(w, r)
	if !ok {
		return
	}

	item, err := h.repo.Update(r.Context(), id, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Resource[T, In]) destroy(w http.ResponseWriter, r *http.Request, id int64) {
	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decode reads the request body into In, writing a 400 when it is not a JSON object of the right shape.
func (h *Resource[T, In]) decode(w http.ResponseWriter, r *http.Request) (In, bool) {
	var in In

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Could not read request body.")
		return in, false
	}

	if err := json.Unmarshal(body, &in); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			writeJSON(w, http.StatusBadRequest, map[string][]string{
				typeErr.Field: {fmt.Sprintf("Incorrect type. Expected %s, received %s.", typeErr.Type, typeErr.Value)},
			})
			return in, false
		}
		writeDetail(w, http.StatusBadRequest, "JSON parse error - "+err.Error())
		return in, false
	}

	return in, true
}

// writeError maps repository errors onto responses.
func (h *Resource[T, In]) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		writeDetail(w, http.StatusNotFound, "Not found.")
	case errors.Is(err, shared.ErrInvalidInput):
		if fields := models.FieldErrors(err); len(fields) > 0 {
			writeJSON(w, http.StatusBadRequest, fields)
			return
		}
		writeDetail(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("request failed", "path", r.URL.Path, "error", err, "request_id", RequestIDFrom(r.Context()))
		writeDetail(w, http.StatusInternalServerError, "A server error occurred.")
	}
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allow string) {
	w.Header().Set("Allow", allow)
	writeDetail(w, http.StatusMethodNotAllowed, fmt.Sprintf("Method \"%s\" not allowed.", r.Method))
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
