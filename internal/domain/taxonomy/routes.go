package taxonomy

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// CategoryPublicRoutes returns the read-only category router.
func (h *Handler) CategoryPublicRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListCategories)
	return r
}

// TagPublicRoutes returns the read-only tag router.
func (h *Handler) TagPublicRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListTags)
	return r
}

// CategoryAdminRoutes returns the category management router.
func (h *Handler) CategoryAdminRoutes(adminAuth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(adminAuth)
	r.Get("/", h.ListCategories)
	r.Post("/", h.CreateCategory)
	r.Put("/{id}", h.UpdateCategory)
	r.Delete("/{id}", h.DeleteCategory)
	return r
}

// TagAdminRoutes returns the tag management router.
func (h *Handler) TagAdminRoutes(adminAuth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(adminAuth)
	r.Get("/", h.ListTags)
	r.Post("/", h.CreateTag)
	r.Delete("/{id}", h.DeleteTag)
	return r
}
