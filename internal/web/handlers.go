// Package web serves the HTML front-end: one set of list/detail/form routes
// per configured resource category.
package web

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/resource"
	"github.com/starford/othala/internal/sanitize"
)

// Handler holds the HTML route handlers for every configured category.
type Handler struct {
	svc         *resource.Service
	views       *Views
	detailLevel int
}

// NewHandler creates a Handler. detailLevel is the number of leading
// attributes shown per row in list views.
func NewHandler(svc *resource.Service, views *Views, detailLevel int) *Handler {
	if detailLevel < 1 {
		detailLevel = 1
	}
	return &Handler{svc: svc, views: views, detailLevel: detailLevel}
}

type indexPage struct {
	basePage
}

// Home renders the category index.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	h.views.render(w, http.StatusOK, "index.html", indexPage{
		basePage: newBasePage("Resources", h.svc.Table()),
	})
}

type listPage struct {
	basePage
	Category string
	Columns  []string
	Rows     []row
}

// List renders the collection for one category, showing the first
// detailLevel attributes per row.
func (h *Handler) List(category string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := h.svc.List(r.Context(), category)
		if err != nil {
			h.renderError(w, err)
			return
		}
		res, _ := h.svc.Table().Resource(category)
		attrs := res.Attributes
		if len(attrs) > h.detailLevel {
			attrs = attrs[:h.detailLevel]
		}
		page := listPage{
			basePage: newBasePage(category, h.svc.Table()),
			Category: category,
		}
		for _, a := range attrs {
			page.Columns = append(page.Columns, a.Name)
		}
		for _, rec := range records {
			page.Rows = append(page.Rows, row{ID: rec.ID(), Fields: fieldsFor(attrs, rec)})
		}
		h.views.render(w, http.StatusOK, "list.html", page)
	}
}

type detailPage struct {
	basePage
	Category string
	ID       string
	Fields   []field
}

// Detail renders one record.
func (h *Handler) Detail(category string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		rec, err := h.svc.Detail(r.Context(), category, id)
		if err != nil {
			h.renderError(w, err)
			return
		}
		res, _ := h.svc.Table().Resource(category)
		h.views.render(w, http.StatusOK, "detail.html", detailPage{
			basePage: newBasePage(category, h.svc.Table()),
			Category: category,
			ID:       rec.ID(),
			Fields:   fieldsFor(res.Attributes, rec),
		})
	}
}

type formPage struct {
	basePage
	Category string
	Action   string
	Fields   []formField
}

// NewForm renders a creation form with populated reference options.
func (h *Handler) NewForm(category string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := h.svc.NewForm(r.Context(), category)
		if err != nil {
			h.renderError(w, err)
			return
		}
		h.views.render(w, http.StatusOK, "form.html", formPage{
			basePage: newBasePage("new "+category, h.svc.Table()),
			Category: category,
			Action:   "/" + category + "/new",
			Fields:   formFieldsFor(form),
		})
	}
}

// Create handles a creation submit and redirects to the new record's detail
// view using the identifier assigned by the store.
func (h *Handler) Create(category string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			h.renderStatus(w, http.StatusBadRequest)
			return
		}
		created, err := h.svc.Create(r.Context(), category, sanitize.FromForm(r.PostForm))
		if err != nil {
			h.renderError(w, err)
			return
		}
		http.Redirect(w, r, "/"+category+"/"+created.ID(), http.StatusSeeOther)
	}
}

// EditForm renders an edit form pre-filled with the decoded record.
func (h *Handler) EditForm(category string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		form, err := h.svc.EditForm(r.Context(), category, id)
		if err != nil {
			h.renderError(w, err)
			return
		}
		h.views.render(w, http.StatusOK, "form.html", formPage{
			basePage: newBasePage("edit "+category, h.svc.Table()),
			Category: category,
			Action:   "/" + category + "/" + id + "/edit",
			Fields:   formFieldsFor(form),
		})
	}
}

// Update handles an update submit and redirects to the detail view.
func (h *Handler) Update(category string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := r.ParseForm(); err != nil {
			h.renderStatus(w, http.StatusBadRequest)
			return
		}
		if err := h.svc.Update(r.Context(), category, id, sanitize.FromForm(r.PostForm)); err != nil {
			h.renderError(w, err)
			return
		}
		http.Redirect(w, r, "/"+category+"/"+id, http.StatusSeeOther)
	}
}

// Delete removes a record and redirects to the list view once the store has
// confirmed the deletion.
func (h *Handler) Delete(category string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := h.svc.Delete(r.Context(), category, id); err != nil {
			h.renderError(w, err)
			return
		}
		http.Redirect(w, r, "/"+category, http.StatusSeeOther)
	}
}

type errorPage struct {
	basePage
	Status  int
	Message string
}

// renderError is the single funnel that turns any pipeline error into a
// user-visible page. Upstream response headers are relayed for diagnostics.
func (h *Handler) renderError(w http.ResponseWriter, err error) {
	status := apperr.StatusFor(err)
	if status >= 500 {
		slog.Error("request failed", slog.String("error", err.Error()))
	}
	apperr.Relay(w.Header(), err)
	h.renderStatus(w, status)
}

// renderStatus renders the error page for a status the handler decided
// itself, such as a malformed form body.
func (h *Handler) renderStatus(w http.ResponseWriter, status int) {
	h.views.render(w, status, "error.html", errorPage{
		basePage: newBasePage("Error", h.svc.Table()),
		Status:   status,
		Message:  http.StatusText(status),
	})
}
