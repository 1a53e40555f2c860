package admin

import (
	"time"

	"github.com/google/uuid"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AdminResponse struct {
	ID          uuid.UUID  `json:"id"`
	FullName    string     `json:"full_name"`
	Email       string     `json:"email"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

type LoginResponse struct {
	Token string         `json:"token"`
	Admin *AdminResponse `json:"admin"`
}

func AdminResponseFromEntity(a *Admin) *AdminResponse {
	resp := &AdminResponse{
		ID:       a.ID,
		FullName: a.FullName,
		Email:    a.Email,
	}
	if a.LastLoginAt.Valid {
		t := a.LastLoginAt.Time
		resp.LastLoginAt = &t
	}
	return resp
}
