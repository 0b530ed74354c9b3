package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/starford/othala/internal/resource"
)

// NewRouter creates a chi router with one JSON CRUD subtree per configured
// category.
func NewRouter(svc *resource.Service) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	for _, res := range svc.Table().Resources() {
		category := res.Category
		r.Route("/"+category, func(r chi.Router) {
			r.Get("/", h.List(category))
			r.Post("/", h.Create(category))
			r.Get("/options", h.Options(category))
			r.Get("/{id}", h.Get(category))
			r.Put("/{id}", h.Update(category))
			r.Delete("/{id}", h.Delete(category))
		})
	}
	return r
}
