package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns admin auth routes. Login is public; everything else
// requires an admin token.
func (h *Handler) Routes(adminAuth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(adminAuth)
		r.Get("/me", h.Me)
	})
	return r
}
