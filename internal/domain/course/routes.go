package course

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// PublicRoutes returns read-only catalog routes.
func (h *Handler) PublicRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/facets", h.Facets)
	r.Get("/{id}", h.Get)
	return r
}

// AdminRoutes returns the catalog management routes.
func (h *Handler) AdminRoutes(adminAuth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(adminAuth)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/image", h.UploadImage)
	return r
}
