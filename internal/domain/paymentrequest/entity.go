package paymentrequest

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status tracks a request through admin review.
type Status string

const (
	StatusPending   Status = "pending"
	StatusReviewing Status = "reviewing"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusContacted Status = "contacted"
)

// IsValidStatus reports whether s is a known request status.
func IsValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusReviewing, StatusApproved, StatusRejected, StatusContacted:
		return true
	}
	return false
}

// PaymentRequest is an applicant's ask for course sponsorship. The
// reference is a short human-readable confirmation code shown back to
// the applicant.
type PaymentRequest struct {
	ID          uuid.UUID      `db:"id"`
	Reference   string         `db:"reference"`
	FullName    string         `db:"full_name"`
	Email       string         `db:"email"`
	Phone       string         `db:"phone"`
	CourseID    uuid.NullUUID  `db:"course_id"`
	CourseTitle sql.NullString `db:"course_title"`
	Reason      string         `db:"reason"`
	DocumentKey sql.NullString `db:"document_key"`
	Status      Status         `db:"status"`
	AdminNotes  string         `db:"admin_notes"`
	IPAddress   sql.NullString `db:"ip_address"`
	UserAgent   sql.NullString `db:"user_agent"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}
