package paymentrequest

import (
	"time"

	"github.com/google/uuid"
)

// CreateRequest carries the applicant form. It arrives as multipart
// form fields so the identity document can ride along.
type CreateRequest struct {
	FullName string     `json:"full_name" validate:"required,min=2,max=255"`
	Email    string     `json:"email" validate:"required,email"`
	Phone    string     `json:"phone" validate:"required,min=6,max=20"`
	CourseID *uuid.UUID `json:"course_id"`
	Reason   string     `json:"reason" validate:"required,min=10,max=2000"`
}

type UpdateStatusRequest struct {
	Status     string `json:"status" validate:"required,request_status"`
	AdminNotes string `json:"admin_notes" validate:"max=2000"`
}

type RequestResponse struct {
	ID          uuid.UUID  `json:"id"`
	Reference   string     `json:"reference"`
	FullName    string     `json:"full_name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	CourseID    *uuid.UUID `json:"course_id,omitempty"`
	CourseTitle string     `json:"course_title,omitempty"`
	Reason      string     `json:"reason"`
	DocumentURL string     `json:"document_url,omitempty"`
	Status      Status     `json:"status"`
	AdminNotes  string     `json:"admin_notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ConfirmationResponse is the public acknowledgement; it exposes only
// the reference, never the stored record.
type ConfirmationResponse struct {
	Reference string `json:"reference"`
	Status    Status `json:"status"`
}
