package web

import (
	"github.com/go-chi/chi/v5"

	"github.com/starford/othala/internal/resource"
)

// NewRouter mounts the HTML routes: the category index at /, and one CRUD
// subtree per configured category. Only configured categories get routes, so
// an unknown category is a plain 404 before any handler runs.
func NewRouter(svc *resource.Service, views *Views, detailLevel int) chi.Router {
	h := NewHandler(svc, views, detailLevel)

	r := chi.NewRouter()
	r.Get("/", h.Home)

	for _, res := range svc.Table().Resources() {
		category := res.Category
		r.Route("/"+category, func(r chi.Router) {
			r.Get("/", h.List(category))
			r.Post("/", h.Create(category))
			r.Get("/new", h.NewForm(category))
			r.Post("/new", h.Create(category))
			r.Get("/{id}", h.Detail(category))
			r.Put("/{id}", h.Update(category))
			r.Delete("/{id}", h.Delete(category))
			r.Get("/{id}/edit", h.EditForm(category))
			r.Post("/{id}/edit", h.Update(category))
			r.Post("/{id}/delete", h.Delete(category))
		})
	}

	return r
}
