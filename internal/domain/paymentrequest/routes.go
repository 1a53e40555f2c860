package paymentrequest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// PublicRoutes returns the applicant-facing intake route.
func (h *Handler) PublicRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Create)
	return r
}

// AdminRoutes returns the review queue routes.
func (h *Handler) AdminRoutes(adminAuth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(adminAuth)
	r.Get("/", h.List)
	r.Get("/stats", h.Stats)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}/status", h.UpdateStatus)
	return r
}
