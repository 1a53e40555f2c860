package course

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/coursebase/coursebase-api/internal/middleware"
	"github.com/coursebase/coursebase-api/internal/pkg/imaging"
	"github.com/coursebase/coursebase-api/internal/pkg/response"
	"github.com/coursebase/coursebase-api/internal/pkg/validator"
)

const defaultTopTags = 20

// Handler handles course HTTP requests.
type Handler struct {
	service *Service
}

// NewHandler creates a course handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /courses. All filter parameters are optional and
// malformed ones are ignored rather than rejected.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter, sort, pagination := Sanitize(r.URL.Query())

	courses, total, err := h.service.List(r.Context(), &filter, sort, pagination)
	if err != nil {
		log.Error().
			Str("request_id", middleware.GetRequestID(r.Context())).
			Err(err).
			Msg("course list failed")
		response.InternalError(w)
		return
	}

	locale := r.URL.Query().Get("locale")
	response.WithMeta(w,
		h.service.Responses(r.Context(), courses, locale),
		response.NewMeta(total, pagination.Page, pagination.PerPage),
	)
}

// Get handles GET /courses/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid course ID")
		return
	}

	course, related, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			response.NotFound(w, "Course not found")
			return
		}
		response.InternalError(w)
		return
	}

	locale := r.URL.Query().Get("locale")
	response.OK(w, &CourseDetailResponse{
		CourseResponse: *h.service.Response(r.Context(), course, locale),
		Related:        h.service.Responses(r.Context(), related, locale),
	})
}

// Facets handles GET /courses/facets
func (h *Handler) Facets(w http.ResponseWriter, r *http.Request) {
	topTags := defaultTopTags
	if raw := r.URL.Query().Get("top_tags"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			topTags = n
		}
	}

	facets, err := h.service.Facets(r.Context(), topTags, r.URL.Query().Get("locale"))
	if err != nil {
		log.Error().
			Str("request_id", middleware.GetRequestID(r.Context())).
			Err(err).
			Msg("facet aggregation failed")
		response.InternalError(w)
		return
	}
	response.OK(w, facets)
}

// Create handles POST /admin/courses
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	course, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Created(w, h.service.Response(r.Context(), course, ""))
}

// Update handles PUT /admin/courses/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid course ID")
		return
	}

	var req UpdateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	course, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, h.service.Response(r.Context(), course, ""))
}

// Delete handles DELETE /admin/courses/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid course ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	response.NoContent(w)
}

// UploadImage handles POST /admin/courses/{id}/image
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid course ID")
		return
	}

	if err := r.ParseMultipartForm(imaging.MaxFileSize); err != nil {
		response.BadRequest(w, "File too large or malformed form")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		response.BadRequest(w, "Missing image file")
		return
	}
	defer file.Close()

	course, err := h.service.UploadImage(r.Context(), id, header.Filename, file)
	if err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			response.NotFound(w, "Course not found")
			return
		}
		log.Error().
			Str("request_id", middleware.GetRequestID(r.Context())).
			Str("course_id", id.String()).
			Err(err).
			Msg("course image upload failed")
		response.UnprocessableEntity(w, "INVALID_IMAGE", "Could not process image")
		return
	}
	response.OK(w, h.service.Response(r.Context(), course, ""))
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrCourseNotFound):
		response.NotFound(w, "Course not found")
	case errors.Is(err, ErrInvalidCategory):
		response.UnprocessableEntity(w, "INVALID_CATEGORY", "Category does not exist")
	case errors.Is(err, ErrInvalidTag):
		response.UnprocessableEntity(w, "INVALID_TAG", "One or more tags do not exist")
	default:
		response.InternalError(w)
	}
}
