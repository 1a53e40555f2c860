package admin

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coursebase/coursebase-api/internal/middleware"
	"github.com/coursebase/coursebase-api/internal/pkg/response"
	"github.com/coursebase/coursebase-api/internal/pkg/validator"
)

// Handler handles admin auth HTTP requests.
type Handler struct {
	service *Service
}

// NewHandler creates an admin handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Login handles POST /admin/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Unauthorized(w, "Invalid email or password")
			return
		}
		response.InternalError(w)
		return
	}
	response.OK(w, resp)
}

// Me handles GET /admin/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	admin, err := h.service.Me(r.Context(), middleware.GetSubjectID(r.Context()))
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			response.NotFound(w, "Admin not found")
			return
		}
		response.InternalError(w)
		return
	}
	response.OK(w, AdminResponseFromEntity(admin))
}
