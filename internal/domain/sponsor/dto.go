package sponsor

import (
	"time"

	"github.com/google/uuid"

	"github.com/coursebase/coursebase-api/internal/pkg/money"
)

type CreateSponsorRequest struct {
	FullName       string `json:"full_name" validate:"required,min=2,max=255"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone" validate:"omitempty,max=32"`
	Password       string `json:"password" validate:"required,min=8,max=72"`
	InitialBalance string `json:"initial_balance" validate:"omitempty"`
}

type UpdateSponsorRequest struct {
	FullName string `json:"full_name" validate:"required,min=2,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,max=32"`
}

type AddFundsRequest struct {
	Amount    string `json:"amount" validate:"required"`
	Reference string `json:"reference" validate:"max=255"`
	Notes     string `json:"notes" validate:"max=1000"`
}

// AdjustmentRequest moves the balance in either direction; the ledger
// stores the signed delta.
type AdjustmentRequest struct {
	Amount    string `json:"amount" validate:"required"`
	Direction string `json:"direction" validate:"required,oneof=credit debit"`
	Notes     string `json:"notes" validate:"max=1000"`
}

type CreateAllocationRequest struct {
	RecipientFullName string     `json:"recipient_full_name" validate:"required,min=2,max=255"`
	CourseID          *uuid.UUID `json:"course_id"`
	BackupCourseURL   string     `json:"backup_course_url" validate:"omitempty,url,max=500"`
	Amount            string     `json:"amount" validate:"required"`
	Note              string     `json:"note" validate:"max=1000"`
}

type UpdateAllocationRequest struct {
	RecipientFullName string     `json:"recipient_full_name" validate:"required,min=2,max=255"`
	CourseID          *uuid.UUID `json:"course_id"`
	BackupCourseURL   string     `json:"backup_course_url" validate:"omitempty,url,max=500"`
	Amount            string     `json:"amount" validate:"required"`
	Note              string     `json:"note" validate:"max=1000"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

type SponsorResponse struct {
	ID                 uuid.UUID  `json:"id"`
	FullName           string     `json:"full_name"`
	Email              string     `json:"email"`
	Phone              string     `json:"phone,omitempty"`
	Balance            string     `json:"balance"`
	MustChangePassword bool       `json:"must_change_password"`
	LastLoginAt        *time.Time `json:"last_login_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	DeletedAt          *time.Time `json:"deleted_at,omitempty"`
}

type TransactionResponse struct {
	ID          uuid.UUID       `json:"id"`
	Type        TransactionType `json:"type"`
	AmountDelta string          `json:"amount_delta"`
	Reference   string          `json:"reference,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type AllocationResponse struct {
	ID                uuid.UUID  `json:"id"`
	RecipientFullName string     `json:"recipient_full_name"`
	CourseID          *uuid.UUID `json:"course_id,omitempty"`
	CourseTitle       string     `json:"course_title,omitempty"`
	BackupCourseURL   string     `json:"backup_course_url,omitempty"`
	Amount            string     `json:"amount"`
	Note              string     `json:"note,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// StatementResponse is the sponsor portal's full account view.
type StatementResponse struct {
	Sponsor      *SponsorResponse       `json:"sponsor"`
	Transactions []*TransactionResponse `json:"transactions"`
	Allocations  []*AllocationResponse  `json:"allocations"`
}

type LoginResponse struct {
	Token   string           `json:"token"`
	Sponsor *SponsorResponse `json:"sponsor"`
}

func SponsorResponseFromEntity(s *Sponsor) *SponsorResponse {
	resp := &SponsorResponse{
		ID:                 s.ID,
		FullName:           s.FullName,
		Email:              s.Email,
		Phone:              s.Phone,
		Balance:            money.Format(s.Balance),
		MustChangePassword: s.MustChangePassword,
		CreatedAt:          s.CreatedAt,
	}
	if s.LastLoginAt.Valid {
		t := s.LastLoginAt.Time
		resp.LastLoginAt = &t
	}
	if s.DeletedAt.Valid {
		t := s.DeletedAt.Time
		resp.DeletedAt = &t
	}
	return resp
}

func TransactionResponseFromEntity(t *Transaction) *TransactionResponse {
	resp := &TransactionResponse{
		ID:          t.ID,
		Type:        t.Type,
		AmountDelta: money.Format(t.AmountDelta),
		Notes:       t.Notes,
		CreatedAt:   t.CreatedAt,
	}
	if t.Reference.Valid {
		resp.Reference = t.Reference.String
	}
	return resp
}

func AllocationResponseFromEntity(a *Allocation) *AllocationResponse {
	resp := &AllocationResponse{
		ID:                a.ID,
		RecipientFullName: a.RecipientFullName,
		BackupCourseURL:   a.BackupCourseURL,
		Amount:            money.Format(a.Amount),
		Note:              a.Note,
		CreatedAt:         a.CreatedAt,
	}
	if a.CourseID.Valid {
		id := a.CourseID.UUID
		resp.CourseID = &id
	}
	if a.CourseTitle.Valid {
		resp.CourseTitle = a.CourseTitle.String
	}
	return resp
}
