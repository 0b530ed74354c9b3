// Package api implements the JSON surface of the CRUD front-end using chi.
// It runs the same pipeline as the HTML routes: writes are escaped and
// sanitized against the category schema, reads are force-normalized.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/resource"
	"github.com/starford/othala/internal/sanitize"
)

// Handler holds the JSON route handlers.
type Handler struct {
	svc *resource.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *resource.Service) *Handler {
	return &Handler{svc: svc}
}

func readSubmission(w http.ResponseWriter, r *http.Request) (sanitize.Submission, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var sub sanitize.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return nil, false
	}
	return sub, true
}

// Create handles POST /api/{category} and echoes the stored record.
func (h *Handler) Create(category string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, ok := readSubmission(w, r)
		if !ok {
			return
		}
		created, err := h.svc.Create(r.Context(), category, sub)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

// Get handles GET /api/{category}/{id}.
func (h *Handler) Get(category string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := h.svc.Detail(r.Context(), category, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

// Update handles PUT /api/{category}/{id}.
func (h *Handler) Update(category string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, ok := readSubmission(w, r)
		if !ok {
			return
		}
		if err := h.svc.Update(r.Context(), category, chi.URLParam(r, "id"), sub); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// Delete handles DELETE /api/{category}/{id}.
func (h *Handler) Delete(category string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.svc.Delete(r.Context(), category, chi.URLParam(r, "id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// List handles GET /api/{category}.
func (h *Handler) List(category string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := h.svc.List(r.Context(), category)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"records": records,
			"total":   len(records),
		})
	}
}

// Options handles GET /api/{category}/options: the display options the HTML
// form would get for the category's reference attributes.
func (h *Handler) Options(category string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := h.svc.NewForm(r.Context(), category)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"options": form.Options,
		})
	}
}

// writeError is the single funnel mapping pipeline errors to JSON responses.
// Upstream response headers are relayed for diagnostics.
func writeError(w http.ResponseWriter, err error) {
	status := apperr.StatusFor(err)
	if status >= 500 {
		slog.Error("request failed", slog.String("error", err.Error()))
	}
	apperr.Relay(w.Header(), err)
	writeJSON(w, status, errorBody(http.StatusText(status)))
}
