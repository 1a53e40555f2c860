package admin

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/coursebase/coursebase-api/internal/pkg/jwt"
	"github.com/coursebase/coursebase-api/internal/pkg/password"
)

// Service implements admin authentication.
type Service struct {
	repo *Repository
	jwt  *jwt.Service
}

// NewService creates an admin service.
func NewService(repo *Repository, jwtService *jwt.Service) *Service {
	return &Service{repo: repo, jwt: jwtService}
}

// Login authenticates a back-office account.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	admin, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !password.Verify(req.Password, admin.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if err := s.repo.RecordLogin(ctx, admin.ID); err != nil {
		log.Warn().Str("admin_id", admin.ID.String()).Err(err).Msg("failed to record admin login")
	}

	token, err := s.jwt.GenerateToken(admin.ID, jwt.RoleAdmin, false)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{
		Token: token,
		Admin: AdminResponseFromEntity(admin),
	}, nil
}

// Me returns the authenticated admin's profile.
func (s *Service) Me(ctx context.Context, id uuid.UUID) (*Admin, error) {
	return s.repo.GetByID(ctx, id)
}
