package paymentrequest

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/coursebase/coursebase-api/internal/middleware"
	"github.com/coursebase/coursebase-api/internal/pkg/response"
	"github.com/coursebase/coursebase-api/internal/pkg/validator"
)

// Handler handles payment request HTTP requests.
type Handler struct {
	service *Service
}

// NewHandler creates a payment request handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /payment-requests. The form arrives as multipart
// so an identity document can be attached; the document part is named
// "document".
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(MaxDocumentSize); err != nil {
		response.BadRequest(w, "File too large or malformed form")
		return
	}

	req := CreateRequest{
		FullName: strings.TrimSpace(r.FormValue("full_name")),
		Email:    strings.TrimSpace(r.FormValue("email")),
		Phone:    strings.TrimSpace(r.FormValue("phone")),
		Reason:   strings.TrimSpace(r.FormValue("reason")),
	}
	if raw := r.FormValue("course_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "Invalid course ID")
			return
		}
		req.CourseID = &id
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	var document io.Reader
	documentName := ""
	if file, header, err := r.FormFile("document"); err == nil {
		defer file.Close()
		document = file
		documentName = header.Filename
	}

	request, err := h.service.Create(r.Context(), &req, document, documentName, clientIP(r), r.UserAgent())
	if err != nil {
		if errors.Is(err, ErrInvalidCourse) {
			response.UnprocessableEntity(w, "INVALID_COURSE", "Course does not exist")
			return
		}
		log.Error().
			Str("request_id", middleware.GetRequestID(r.Context())).
			Err(err).
			Msg("payment request intake failed")
		response.InternalError(w)
		return
	}

	response.Created(w, &ConfirmationResponse{
		Reference: request.Reference,
		Status:    request.Status,
	})
}

// List handles GET /admin/payment-requests
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := &ListFilter{
		Term:    strings.TrimSpace(r.URL.Query().Get("term")),
		Page:    1,
		PerPage: 20,
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		if status := Status(raw); IsValidStatus(status) {
			filter.Status = &status
		}
	}
	if raw := r.URL.Query().Get("course_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			filter.CourseID = &id
		}
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		filter.Page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("per_page")); err == nil && v > 0 && v <= 100 {
		filter.PerPage = v
	}

	requests, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		log.Error().
			Str("request_id", middleware.GetRequestID(r.Context())).
			Err(err).
			Msg("payment request list failed")
		response.InternalError(w)
		return
	}

	responses := make([]*RequestResponse, len(requests))
	for i, req := range requests {
		responses[i] = h.service.Response(req)
	}
	response.WithMeta(w, responses, response.NewMeta(total, filter.Page, filter.PerPage))
}

// Get handles GET /admin/payment-requests/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid payment request ID")
		return
	}

	request, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrRequestNotFound) {
			response.NotFound(w, "Payment request not found")
			return
		}
		response.InternalError(w)
		return
	}
	response.OK(w, h.service.Response(request))
}

// UpdateStatus handles PATCH /admin/payment-requests/{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid payment request ID")
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	request, err := h.service.UpdateStatus(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrRequestNotFound):
			response.NotFound(w, "Payment request not found")
		case errors.Is(err, ErrInvalidStatus):
			response.UnprocessableEntity(w, "INVALID_STATUS", "Unknown request status")
		default:
			response.InternalError(w)
		}
		return
	}
	response.OK(w, h.service.Response(request))
}

// Stats handles GET /admin/payment-requests/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.service.CountByStatus(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, counts)
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
