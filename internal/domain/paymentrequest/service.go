package paymentrequest

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/coursebase/coursebase-api/internal/pkg/storage"
)

// MaxDocumentSize limits identity document uploads to 10MB.
const MaxDocumentSize int64 = 10 * 1024 * 1024

var allowedDocumentExts = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// Service implements payment request intake and review.
type Service struct {
	repo    Repository
	storage storage.Storage
}

// NewService creates a payment request service.
func NewService(repo Repository, store storage.Storage) *Service {
	return &Service{repo: repo, storage: store}
}

// Create stores the application and the optional identity document.
// document may be nil when the applicant attached nothing.
func (s *Service) Create(ctx context.Context, req *CreateRequest, document io.Reader, documentName, ipAddress, userAgent string) (*PaymentRequest, error) {
	request := &PaymentRequest{
		ID:        uuid.New(),
		Reference: newReference(),
		FullName:  req.FullName,
		Email:     req.Email,
		Phone:     req.Phone,
		Reason:    req.Reason,
		Status:    StatusPending,
	}
	if req.CourseID != nil {
		request.CourseID = uuid.NullUUID{UUID: *req.CourseID, Valid: true}
	}
	if ipAddress != "" {
		request.IPAddress = sql.NullString{String: ipAddress, Valid: true}
	}
	if userAgent != "" {
		request.UserAgent = sql.NullString{String: userAgent, Valid: true}
	}

	if document != nil {
		key, err := s.storeDocument(ctx, request.ID, documentName, document)
		if err != nil {
			return nil, err
		}
		request.DocumentKey = sql.NullString{String: key, Valid: true}
	}

	if err := s.repo.Create(ctx, request); err != nil {
		// The document is already in storage; drop it so rejected
		// submissions leave nothing behind.
		if request.DocumentKey.Valid {
			if delErr := s.storage.Delete(ctx, request.DocumentKey.String); delErr != nil {
				log.Warn().Str("key", request.DocumentKey.String).Err(delErr).Msg("failed to remove orphaned document")
			}
		}
		return nil, err
	}
	return request, nil
}

func (s *Service) storeDocument(ctx context.Context, requestID uuid.UUID, filename string, document io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	contentType, ok := allowedDocumentExts[ext]
	if !ok {
		return "", fmt.Errorf("unsupported document type %q", ext)
	}

	key := fmt.Sprintf("payment-requests/%s/document%s", requestID, ext)
	if err := s.storage.Put(ctx, key, document, contentType); err != nil {
		return "", err
	}
	return key, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*PaymentRequest, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter *ListFilter) ([]*PaymentRequest, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, req *UpdateStatusRequest) (*PaymentRequest, error) {
	status := Status(req.Status)
	if !IsValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	if err := s.repo.UpdateStatus(ctx, id, status, req.AdminNotes); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) CountByStatus(ctx context.Context) (map[Status]int, error) {
	return s.repo.CountByStatus(ctx)
}

// Response converts a request to its admin API shape.
func (s *Service) Response(req *PaymentRequest) *RequestResponse {
	resp := &RequestResponse{
		ID:         req.ID,
		Reference:  req.Reference,
		FullName:   req.FullName,
		Email:      req.Email,
		Phone:      req.Phone,
		Reason:     req.Reason,
		Status:     req.Status,
		AdminNotes: req.AdminNotes,
		CreatedAt:  req.CreatedAt,
		UpdatedAt:  req.UpdatedAt,
	}
	if req.CourseID.Valid {
		id := req.CourseID.UUID
		resp.CourseID = &id
	}
	if req.CourseTitle.Valid {
		resp.CourseTitle = req.CourseTitle.String
	}
	if req.DocumentKey.Valid {
		resp.DocumentURL = s.storage.GetURL(req.DocumentKey.String)
	}
	return resp
}

const referenceAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// newReference produces a short confirmation code like "PR-7K2MQ4".
// The ambiguous characters 0/O/1/I are excluded.
func newReference() string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; fall back to
		// the uuid so the reference stays unique regardless.
		return "PR-" + strings.ToUpper(uuid.New().String()[:6])
	}
	for i, b := range buf {
		buf[i] = referenceAlphabet[int(b)%len(referenceAlphabet)]
	}
	return "PR-" + string(buf)
}
