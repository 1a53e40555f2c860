package sponsor

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/coursebase/coursebase-api/internal/pkg/jwt"
	"github.com/coursebase/coursebase-api/internal/pkg/money"
	"github.com/coursebase/coursebase-api/internal/pkg/password"
)

// Service implements sponsor account, ledger and portal operations.
type Service struct {
	repo *Repository
	jwt  *jwt.Service
}

// NewService creates a sponsor service.
func NewService(repo *Repository, jwtService *jwt.Service) *Service {
	return &Service{repo: repo, jwt: jwtService}
}

// Create registers a sponsor account. New accounts must change the
// admin-issued password on first portal login.
func (s *Service) Create(ctx context.Context, req *CreateSponsorRequest) (*Sponsor, error) {
	initialBalance := int64(0)
	if req.InitialBalance != "" {
		cents, err := money.Parse(req.InitialBalance)
		if err != nil || cents < 0 {
			return nil, ErrInvalidAmount
		}
		initialBalance = cents
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	sponsor := &Sponsor{
		ID:                 uuid.New(),
		FullName:           req.FullName,
		Email:              req.Email,
		Phone:              req.Phone,
		PasswordHash:       hash,
		Balance:            initialBalance,
		MustChangePassword: true,
	}
	if err := s.repo.CreateSponsor(ctx, sponsor); err != nil {
		return nil, err
	}
	return s.repo.GetSponsorByID(ctx, sponsor.ID)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Sponsor, error) {
	return s.repo.GetSponsorByID(ctx, id)
}

func (s *Service) List(ctx context.Context, search string, page, perPage int) ([]*Sponsor, int, error) {
	return s.repo.ListSponsors(ctx, search, page, perPage)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateSponsorRequest) (*Sponsor, error) {
	sponsor, err := s.repo.GetSponsorByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sponsor.FullName = req.FullName
	sponsor.Email = req.Email
	sponsor.Phone = req.Phone
	if err := s.repo.UpdateSponsor(ctx, sponsor); err != nil {
		return nil, err
	}
	return s.repo.GetSponsorByID(ctx, id)
}

// Delete soft-deletes the account. The ledger and allocations stay for
// bookkeeping; portal login stops working immediately.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteSponsor(ctx, id)
}

// AddFunds records a top-up. Amounts are strictly positive.
func (s *Service) AddFunds(ctx context.Context, sponsorID uuid.UUID, req *AddFundsRequest) (*Sponsor, error) {
	cents, err := money.Parse(req.Amount)
	if err != nil || cents <= 0 {
		return nil, ErrInvalidAmount
	}

	txn := &Transaction{
		ID:          uuid.New(),
		SponsorID:   sponsorID,
		Type:        TransactionTypeTopUp,
		AmountDelta: cents,
		Notes:       req.Notes,
	}
	if req.Reference != "" {
		txn.Reference = sql.NullString{String: req.Reference, Valid: true}
	}

	if err := s.repo.ApplyTransaction(ctx, txn); err != nil {
		return nil, err
	}
	return s.repo.GetSponsorByID(ctx, sponsorID)
}

// Adjust records a manual correction. A debit larger than the current
// balance is rejected the same way an overdrawing allocation is.
func (s *Service) Adjust(ctx context.Context, sponsorID uuid.UUID, req *AdjustmentRequest) (*Sponsor, error) {
	cents, err := money.Parse(req.Amount)
	if err != nil || cents <= 0 {
		return nil, ErrInvalidAmount
	}
	if req.Direction == "debit" {
		cents = -cents
	}

	txn := &Transaction{
		ID:          uuid.New(),
		SponsorID:   sponsorID,
		Type:        TransactionTypeAdjustment,
		AmountDelta: cents,
		Notes:       req.Notes,
	}
	if err := s.repo.ApplyTransaction(ctx, txn); err != nil {
		return nil, err
	}
	return s.repo.GetSponsorByID(ctx, sponsorID)
}

func (s *Service) CreateAllocation(ctx context.Context, sponsorID uuid.UUID, req *CreateAllocationRequest) (*Allocation, error) {
	cents, err := money.Parse(req.Amount)
	if err != nil || cents <= 0 {
		return nil, ErrInvalidAmount
	}

	alloc := &Allocation{
		ID:                uuid.New(),
		SponsorID:         sponsorID,
		RecipientFullName: req.RecipientFullName,
		BackupCourseURL:   req.BackupCourseURL,
		Amount:            cents,
		Note:              req.Note,
	}
	if req.CourseID != nil {
		alloc.CourseID = uuid.NullUUID{UUID: *req.CourseID, Valid: true}
	}

	if err := s.repo.CreateAllocation(ctx, alloc); err != nil {
		return nil, err
	}
	return s.repo.GetAllocation(ctx, sponsorID, alloc.ID)
}

func (s *Service) UpdateAllocation(ctx context.Context, sponsorID, allocationID uuid.UUID, req *UpdateAllocationRequest) (*Allocation, error) {
	cents, err := money.Parse(req.Amount)
	if err != nil || cents <= 0 {
		return nil, ErrInvalidAmount
	}

	alloc := &Allocation{
		ID:                allocationID,
		SponsorID:         sponsorID,
		RecipientFullName: req.RecipientFullName,
		BackupCourseURL:   req.BackupCourseURL,
		Amount:            cents,
		Note:              req.Note,
	}
	if req.CourseID != nil {
		alloc.CourseID = uuid.NullUUID{UUID: *req.CourseID, Valid: true}
	}

	if err := s.repo.UpdateAllocation(ctx, alloc); err != nil {
		return nil, err
	}
	return s.repo.GetAllocation(ctx, sponsorID, allocationID)
}

func (s *Service) DeleteAllocation(ctx context.Context, sponsorID, allocationID uuid.UUID) error {
	return s.repo.DeleteAllocation(ctx, sponsorID, allocationID)
}

// Statement assembles the full account view for the portal and the
// admin detail page. Soft-deleted accounts stay readable here so their
// ledger remains auditable.
func (s *Service) Statement(ctx context.Context, sponsorID uuid.UUID) (*StatementResponse, error) {
	sponsor, err := s.repo.GetSponsorForAudit(ctx, sponsorID)
	if err != nil {
		return nil, err
	}
	transactions, err := s.repo.ListTransactions(ctx, sponsorID)
	if err != nil {
		return nil, err
	}
	allocations, err := s.repo.ListAllocations(ctx, sponsorID)
	if err != nil {
		return nil, err
	}

	resp := &StatementResponse{
		Sponsor:      SponsorResponseFromEntity(sponsor),
		Transactions: make([]*TransactionResponse, len(transactions)),
		Allocations:  make([]*AllocationResponse, len(allocations)),
	}
	for i, t := range transactions {
		resp.Transactions[i] = TransactionResponseFromEntity(t)
	}
	for i, a := range allocations {
		resp.Allocations[i] = AllocationResponseFromEntity(a)
	}
	return resp, nil
}

// Login authenticates against the portal. Lookup failures and password
// mismatches both map to ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	sponsor, err := s.repo.GetSponsorByEmail(ctx, req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !password.Verify(req.Password, sponsor.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if err := s.repo.RecordLogin(ctx, sponsor.ID); err != nil {
		log.Warn().Str("sponsor_id", sponsor.ID.String()).Err(err).Msg("failed to record sponsor login")
	}

	token, err := s.jwt.GenerateToken(sponsor.ID, jwt.RoleSponsor, sponsor.MustChangePassword)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{
		Token:   token,
		Sponsor: SponsorResponseFromEntity(sponsor),
	}, nil
}

// ChangePassword verifies the current password, stores the new hash and
// clears the forced-change flag. A fresh token is issued so the client
// escapes the password gate without re-login.
func (s *Service) ChangePassword(ctx context.Context, sponsorID uuid.UUID, req *ChangePasswordRequest) (*LoginResponse, error) {
	sponsor, err := s.repo.GetSponsorByID(ctx, sponsorID)
	if err != nil {
		return nil, err
	}
	if !password.Verify(req.CurrentPassword, sponsor.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	hash, err := password.Hash(req.NewPassword)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdatePassword(ctx, sponsorID, hash); err != nil {
		return nil, err
	}

	sponsor, err = s.repo.GetSponsorByID(ctx, sponsorID)
	if err != nil {
		return nil, err
	}
	token, err := s.jwt.GenerateToken(sponsor.ID, jwt.RoleSponsor, false)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{
		Token:   token,
		Sponsor: SponsorResponseFromEntity(sponsor),
	}, nil
}
