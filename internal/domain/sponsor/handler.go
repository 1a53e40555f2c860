package sponsor

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/coursebase/coursebase-api/internal/middleware"
	"github.com/coursebase/coursebase-api/internal/pkg/response"
	"github.com/coursebase/coursebase-api/internal/pkg/validator"
)

// Handler handles sponsor HTTP requests, both the admin surface and
// the self-service portal.
type Handler struct {
	service *Service
}

// NewHandler creates a sponsor handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /admin/sponsors
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := 1
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	perPage := 20
	if v, err := strconv.Atoi(r.URL.Query().Get("per_page")); err == nil && v > 0 && v <= 100 {
		perPage = v
	}

	sponsors, total, err := h.service.List(r.Context(), r.URL.Query().Get("search"), page, perPage)
	if err != nil {
		log.Error().
			Str("request_id", middleware.GetRequestID(r.Context())).
			Err(err).
			Msg("sponsor list failed")
		response.InternalError(w)
		return
	}

	responses := make([]*SponsorResponse, len(sponsors))
	for i, s := range sponsors {
		responses[i] = SponsorResponseFromEntity(s)
	}
	response.WithMeta(w, responses, response.NewMeta(total, page, perPage))
}

// Create handles POST /admin/sponsors
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSponsorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	sponsor, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Created(w, SponsorResponseFromEntity(sponsor))
}

// Get handles GET /admin/sponsors/{id} and returns the full statement.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid sponsor ID")
		return
	}

	statement, err := h.service.Statement(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, statement)
}

// Update handles PUT /admin/sponsors/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid sponsor ID")
		return
	}

	var req UpdateSponsorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	sponsor, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, SponsorResponseFromEntity(sponsor))
}

// Delete handles DELETE /admin/sponsors/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid sponsor ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	response.NoContent(w)
}

// AddFunds handles POST /admin/sponsors/{id}/funds
func (h *Handler) AddFunds(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid sponsor ID")
		return
	}

	var req AddFundsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	sponsor, err := h.service.AddFunds(r.Context(), id, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, SponsorResponseFromEntity(sponsor))
}

// Adjust handles POST /admin/sponsors/{id}/adjustments
func (h *Handler) Adjust(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid sponsor ID")
		return
	}

	var req AdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	sponsor, err := h.service.Adjust(r.Context(), id, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, SponsorResponseFromEntity(sponsor))
}

// CreateAllocation handles POST /admin/sponsors/{id}/allocations
func (h *Handler) CreateAllocation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid sponsor ID")
		return
	}

	var req CreateAllocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	alloc, err := h.service.CreateAllocation(r.Context(), id, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Created(w, AllocationResponseFromEntity(alloc))
}

// UpdateAllocation handles PUT /admin/sponsors/{id}/allocations/{allocationID}
func (h *Handler) UpdateAllocation(w http.ResponseWriter, r *http.Request) {
	sponsorID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid sponsor ID")
		return
	}
	allocationID, err := uuid.Parse(chi.URLParam(r, "allocationID"))
	if err != nil {
		response.BadRequest(w, "Invalid allocation ID")
		return
	}

	var req UpdateAllocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	alloc, err := h.service.UpdateAllocation(r.Context(), sponsorID, allocationID, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, AllocationResponseFromEntity(alloc))
}

// DeleteAllocation handles DELETE /admin/sponsors/{id}/allocations/{allocationID}
func (h *Handler) DeleteAllocation(w http.ResponseWriter, r *http.Request) {
	sponsorID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid sponsor ID")
		return
	}
	allocationID, err := uuid.Parse(chi.URLParam(r, "allocationID"))
	if err != nil {
		response.BadRequest(w, "Invalid allocation ID")
		return
	}

	if err := h.service.DeleteAllocation(r.Context(), sponsorID, allocationID); err != nil {
		h.writeError(w, err)
		return
	}
	response.NoContent(w)
}

// Login handles POST /sponsor/login
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

// Me handles GET /sponsor/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	s, err := h.service.Get(r.Context(), middleware.GetSubjectID(r.Context()))
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, SponsorResponseFromEntity(s))
}

// Statement handles GET /sponsor/statement for the authenticated sponsor.
func (h *Handler) Statement(w http.ResponseWriter, r *http.Request) {
	sponsorID := middleware.GetSubjectID(r.Context())

	statement, err := h.service.Statement(r.Context(), sponsorID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, statement)
}

// ChangePassword handles POST /sponsor/change-password
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	sponsorID := middleware.GetSubjectID(r.Context())

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	resp, err := h.service.ChangePassword(r.Context(), sponsorID, &req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Unauthorized(w, "Current password is incorrect")
			return
		}
		h.writeError(w, err)
		return
	}
	response.OK(w, resp)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSponsorNotFound):
		response.NotFound(w, "Sponsor not found")
	case errors.Is(err, ErrAllocationNotFound):
		response.NotFound(w, "Allocation not found")
	case errors.Is(err, ErrInsufficientFunds):
		response.UnprocessableEntity(w, "INSUFFICIENT_FUNDS", "Sponsor balance is insufficient")
	case errors.Is(err, ErrInvalidAmount):
		response.UnprocessableEntity(w, "INVALID_AMOUNT", "Amount must be a positive value with at most two decimal places")
	case errors.Is(err, ErrDuplicateEmail):
		response.Conflict(w, "Email already registered")
	case errors.Is(err, ErrInvalidCourse):
		response.UnprocessableEntity(w, "INVALID_COURSE", "Course does not exist")
	default:
		response.InternalError(w)
	}
}
