package translation

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// AdminRoutes returns translation management routes.
func (h *Handler) AdminRoutes(adminAuth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(adminAuth)
	r.Put("/", h.Upsert)
	r.Delete("/", h.Delete)
	return r
}
