package course

import (
	"time"

	"github.com/google/uuid"

	"github.com/coursebase/coursebase-api/internal/domain/taxonomy"
)

type CreateCourseRequest struct {
	Title       string      `json:"title" validate:"required,min=2,max=255"`
	Description string      `json:"description" validate:"required"`
	ExternalURL string      `json:"external_url" validate:"required,url"`
	Duration    string      `json:"duration" validate:"max=100"`
	Platform    string      `json:"platform" validate:"required,max=100"`
	CategoryID  uuid.UUID   `json:"category_id" validate:"required"`
	TagIDs      []uuid.UUID `json:"tag_ids" validate:"max=20"`
	HaveCert    bool        `json:"have_cert"`
	Level       string      `json:"level" validate:"required,course_level"`
	Price       *float64    `json:"price" validate:"omitempty,gte=0"`
}

type UpdateCourseRequest struct {
	Title       string      `json:"title" validate:"required,min=2,max=255"`
	Description string      `json:"description" validate:"required"`
	ExternalURL string      `json:"external_url" validate:"required,url"`
	Duration    string      `json:"duration" validate:"max=100"`
	Platform    string      `json:"platform" validate:"required,max=100"`
	CategoryID  uuid.UUID   `json:"category_id" validate:"required"`
	TagIDs      []uuid.UUID `json:"tag_ids" validate:"max=20"`
	HaveCert    bool        `json:"have_cert"`
	Level       string      `json:"level" validate:"required,course_level"`
	Price       *float64    `json:"price" validate:"omitempty,gte=0"`
}

type CourseResponse struct {
	ID             uuid.UUID       `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	ExternalURL    string          `json:"external_url"`
	Duration       string          `json:"duration"`
	Platform       string          `json:"platform"`
	ImageURL       string          `json:"image_url,omitempty"`
	ThumbURL       string          `json:"thumb_url,omitempty"`
	CategoryID     uuid.UUID       `json:"category_id"`
	CategoryName   string          `json:"category_name"`
	CategorySlug   string          `json:"category_slug"`
	Tags           []*taxonomy.Tag `json:"tags"`
	HaveCert       bool            `json:"have_cert"`
	Level          string          `json:"level"`
	Price          *float64        `json:"price,omitempty"`
	FormattedPrice string          `json:"formatted_price"`
	IsPaid         bool            `json:"is_paid"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type CourseDetailResponse struct {
	CourseResponse
	Related []*CourseResponse `json:"related"`
}
