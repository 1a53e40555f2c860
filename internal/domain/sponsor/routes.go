package sponsor

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// AdminRoutes returns sponsor management routes for administrators.
func (h *Handler) AdminRoutes(adminAuth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(adminAuth)
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/funds", h.AddFunds)
	r.Post("/{id}/adjustments", h.Adjust)
	r.Post("/{id}/allocations", h.CreateAllocation)
	r.Put("/{id}/allocations/{allocationID}", h.UpdateAllocation)
	r.Delete("/{id}/allocations/{allocationID}", h.DeleteAllocation)
	return r
}

// PortalRoutes returns the sponsor self-service routes. Everything but
// login and change-password sits behind the forced-password-change gate.
func (h *Handler) PortalRoutes(auth, sponsorOnly, passwordChanged func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(auth, sponsorOnly)
		r.Post("/change-password", h.ChangePassword)

		r.Group(func(r chi.Router) {
			r.Use(passwordChanged)
			r.Get("/me", h.Me)
			r.Get("/statement", h.Statement)
		})
	})
	return r
}
