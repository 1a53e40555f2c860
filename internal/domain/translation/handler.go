package translation

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coursebase/coursebase-api/internal/pkg/response"
	"github.com/coursebase/coursebase-api/internal/pkg/validator"
)

// Handler handles translation admin HTTP requests.
type Handler struct {
	service *Service
}

// NewHandler creates a translation handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Upsert handles PUT /admin/translations
func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req UpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	err := h.service.Upsert(r.Context(), Kind(req.EntityKind), req.EntityID, req.Locale, req.Field, req.Value)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.NoContent(w)
}

// Delete handles DELETE /admin/translations
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	var req DeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	err := h.service.Delete(r.Context(), Kind(req.EntityKind), req.EntityID, req.Locale, req.Field)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.NoContent(w)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidKind):
		response.UnprocessableEntity(w, "INVALID_KIND", "Unknown entity kind")
	case errors.Is(err, ErrInvalidLocale):
		response.UnprocessableEntity(w, "INVALID_LOCALE", "Locale must be provided")
	default:
		response.InternalError(w)
	}
}
