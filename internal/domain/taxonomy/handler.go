package taxonomy

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/coursebase/coursebase-api/internal/pkg/response"
	"github.com/coursebase/coursebase-api/internal/pkg/validator"
)

// Handler handles taxonomy HTTP requests.
type Handler struct {
	service *Service
}

// NewHandler creates a taxonomy handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListCategories handles GET /categories. The public filter panel only
// wants categories that actually have courses; admin passes all=1.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	withCoursesOnly := r.URL.Query().Get("all") == ""

	categories, err := h.service.ListCategories(r.Context(), withCoursesOnly)
	if err != nil {
		response.InternalError(w)
		return
	}

	locale := r.URL.Query().Get("locale")
	response.OK(w, h.service.CategoriesResponse(r.Context(), categories, locale))
}

// ListTags handles GET /tags
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.service.ListTags(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}

	locale := r.URL.Query().Get("locale")
	response.OK(w, h.service.TagsResponse(r.Context(), tags, locale))
}

// CreateCategory handles POST /admin/categories
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	category, err := h.service.CreateCategory(r.Context(), &req)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.Created(w, CategoryResponseFromEntity(category, nil))
}

// UpdateCategory handles PUT /admin/categories/{id}
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid category ID")
		return
	}

	var req UpdateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	category, err := h.service.UpdateCategory(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrCategoryNotFound):
			response.NotFound(w, "Category not found")
		default:
			response.InternalError(w)
		}
		return
	}
	response.OK(w, CategoryResponseFromEntity(category, nil))
}

// DeleteCategory handles DELETE /admin/categories/{id}
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid category ID")
		return
	}

	if err := h.service.DeleteCategory(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, ErrCategoryNotFound):
			response.NotFound(w, "Category not found")
		case errors.Is(err, ErrCategoryInUse):
			response.Conflict(w, "Category still has courses attached")
		default:
			response.InternalError(w)
		}
		return
	}
	response.NoContent(w)
}

// CreateTag handles POST /admin/tags
func (h *Handler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req CreateTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	tag, err := h.service.CreateTag(r.Context(), &req)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.Created(w, TagResponseFromEntity(tag, nil))
}

// DeleteTag handles DELETE /admin/tags/{id}
func (h *Handler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid tag ID")
		return
	}

	if err := h.service.DeleteTag(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, ErrTagNotFound):
			response.NotFound(w, "Tag not found")
		default:
			response.InternalError(w)
		}
		return
	}
	response.NoContent(w)
}
