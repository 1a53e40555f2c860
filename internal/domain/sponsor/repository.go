package sponsor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository owns sponsor accounts, the transaction ledger and
// allocations. Every balance mutation locks the sponsor row first so
// the stored balance, the ledger and the allocation table never drift
// apart.
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a sponsor repository.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) beginTx(ctx context.Context) (*sqlx.Tx, error) {
	return r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
}

// lockSponsor acquires the row lock serializing all balance writes for
// one sponsor and returns the current balance.
func (r *Repository) lockSponsor(ctx context.Context, tx *sqlx.Tx, sponsorID uuid.UUID) (int64, error) {
	var balance int64
	err := tx.GetContext(ctx, &balance, `
		SELECT balance FROM sponsors
		WHERE id = $1 AND deleted_at IS NULL
		FOR UPDATE
	`, sponsorID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrSponsorNotFound
	}
	return balance, err
}

func (r *Repository) updateBalance(ctx context.Context, tx *sqlx.Tx, sponsorID uuid.UUID, balance int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE sponsors SET balance = $2, updated_at = NOW() WHERE id = $1
	`, sponsorID, balance)
	return err
}

func (r *Repository) insertTransaction(ctx context.Context, tx *sqlx.Tx, txn *Transaction) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO sponsor_transactions (id, sponsor_id, type, amount_delta, reference, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, txn.ID, txn.SponsorID, txn.Type, txn.AmountDelta, txn.Reference, txn.Notes)
	return err
}

// ApplyTransaction atomically writes one ledger entry and moves the
// balance by its delta. The entry is rejected, nothing written, when
// the delta would take the balance below zero.
func (r *Repository) ApplyTransaction(ctx context.Context, txn *Transaction) error {
	tx, err := r.beginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	balance, err := r.lockSponsor(ctx, tx, txn.SponsorID)
	if err != nil {
		return err
	}

	nextBalance := balance + txn.AmountDelta
	if nextBalance < 0 {
		return ErrInsufficientFunds
	}

	if err := r.updateBalance(ctx, tx, txn.SponsorID, nextBalance); err != nil {
		return err
	}
	if err := r.insertTransaction(ctx, tx, txn); err != nil {
		return err
	}

	return tx.Commit()
}

// CreateAllocation atomically inserts the allocation and debits its
// amount from the sponsor balance.
func (r *Repository) CreateAllocation(ctx context.Context, alloc *Allocation) error {
	tx, err := r.beginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	balance, err := r.lockSponsor(ctx, tx, alloc.SponsorID)
	if err != nil {
		return err
	}

	nextBalance := balance - alloc.Amount
	if nextBalance < 0 {
		return ErrInsufficientFunds
	}

	if err := r.updateBalance(ctx, tx, alloc.SponsorID, nextBalance); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sponsor_allocations (
			id, sponsor_id, recipient_full_name, course_id, backup_course_url, amount, note
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, alloc.ID, alloc.SponsorID, alloc.RecipientFullName, alloc.CourseID, alloc.BackupCourseURL, alloc.Amount, alloc.Note)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return ErrInvalidCourse
		}
		return err
	}

	return tx.Commit()
}

// UpdateAllocation rewrites an allocation and settles the amount
// difference against the balance in the same transaction.
func (r *Repository) UpdateAllocation(ctx context.Context, alloc *Allocation) error {
	tx, err := r.beginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	balance, err := r.lockSponsor(ctx, tx, alloc.SponsorID)
	if err != nil {
		return err
	}

	var currentAmount int64
	err = tx.GetContext(ctx, &currentAmount, `
		SELECT amount FROM sponsor_allocations
		WHERE id = $1 AND sponsor_id = $2 AND deleted_at IS NULL
	`, alloc.ID, alloc.SponsorID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrAllocationNotFound
	}
	if err != nil {
		return err
	}

	nextBalance := balance + currentAmount - alloc.Amount
	if nextBalance < 0 {
		return ErrInsufficientFunds
	}

	if err := r.updateBalance(ctx, tx, alloc.SponsorID, nextBalance); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE sponsor_allocations SET
			recipient_full_name = $3, course_id = $4, backup_course_url = $5,
			amount = $6, note = $7, updated_at = NOW()
		WHERE id = $1 AND sponsor_id = $2 AND deleted_at IS NULL
	`, alloc.ID, alloc.SponsorID, alloc.RecipientFullName, alloc.CourseID, alloc.BackupCourseURL, alloc.Amount, alloc.Note)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return ErrInvalidCourse
		}
		return err
	}

	return tx.Commit()
}

// DeleteAllocation tombstones the allocation, credits its amount back
// and records the credit as an explicit refund entry. The tombstone and
// the refund cancel out, so the ledger minus all allocation rows keeps
// reconstructing the balance.
func (r *Repository) DeleteAllocation(ctx context.Context, sponsorID, allocationID uuid.UUID) error {
	tx, err := r.beginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	balance, err := r.lockSponsor(ctx, tx, sponsorID)
	if err != nil {
		return err
	}

	var amount int64
	err = tx.GetContext(ctx, &amount, `
		UPDATE sponsor_allocations SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND sponsor_id = $2 AND deleted_at IS NULL
		RETURNING amount
	`, allocationID, sponsorID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrAllocationNotFound
	}
	if err != nil {
		return err
	}

	if err := r.updateBalance(ctx, tx, sponsorID, balance+amount); err != nil {
		return err
	}
	if err := r.insertTransaction(ctx, tx, &Transaction{
		ID:          uuid.New(),
		SponsorID:   sponsorID,
		Type:        TransactionTypeRefund,
		AmountDelta: amount,
		Reference:   sql.NullString{String: allocationID.String(), Valid: true},
		Notes:       "allocation removed",
	}); err != nil {
		return err
	}

	return tx.Commit()
}

// CreateSponsor inserts the account and, when it opens with funds, the
// matching top-up ledger entry in the same transaction. The balance is
// never stored without the entry that justifies it.
func (r *Repository) CreateSponsor(ctx context.Context, s *Sponsor) error {
	tx, err := r.beginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sponsors (
			id, full_name, email, phone, password_hash, balance, must_change_password
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, s.ID, s.FullName, s.Email, s.Phone, s.PasswordHash, s.Balance, s.MustChangePassword)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return err
	}

	if s.Balance > 0 {
		if err := r.insertTransaction(ctx, tx, &Transaction{
			ID:          uuid.New(),
			SponsorID:   s.ID,
			Type:        TransactionTypeTopUp,
			AmountDelta: s.Balance,
			Notes:       "initial balance",
		}); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *Repository) GetSponsorByID(ctx context.Context, id uuid.UUID) (*Sponsor, error) {
	var s Sponsor
	err := r.db.GetContext(ctx, &s, `
		SELECT * FROM sponsors WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSponsorNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetSponsorForAudit looks the account up regardless of deletion.
// Soft-deleted sponsors keep their balance and history readable on the
// admin side; only this lookup reaches them.
func (r *Repository) GetSponsorForAudit(ctx context.Context, id uuid.UUID) (*Sponsor, error) {
	var s Sponsor
	err := r.db.GetContext(ctx, &s, `
		SELECT * FROM sponsors WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSponsorNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) GetSponsorByEmail(ctx context.Context, email string) (*Sponsor, error) {
	var s Sponsor
	err := r.db.GetContext(ctx, &s, `
		SELECT * FROM sponsors WHERE LOWER(email) = LOWER($1) AND deleted_at IS NULL
	`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSponsorNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) ListSponsors(ctx context.Context, search string, page, perPage int) ([]*Sponsor, int, error) {
	conditions := []string{"deleted_at IS NULL"}
	args := []interface{}{}
	argIndex := 1

	if search != "" {
		conditions = append(conditions, "(full_name ILIKE $1 OR email ILIKE $1)")
		args = append(args, "%"+search+"%")
		argIndex++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM sponsors "+where, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(
		"SELECT * FROM sponsors %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		where, argIndex, argIndex+1,
	)
	args = append(args, perPage, (page-1)*perPage)

	var sponsors []*Sponsor
	if err := r.db.SelectContext(ctx, &sponsors, query, args...); err != nil {
		return nil, 0, err
	}
	return sponsors, total, nil
}

func (r *Repository) UpdateSponsor(ctx context.Context, s *Sponsor) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sponsors SET full_name = $2, email = $3, phone = $4, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`, s.ID, s.FullName, s.Email, s.Phone)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return err
	}
	return requireRow(res)
}

func (r *Repository) DeleteSponsor(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sponsors SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *Repository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sponsors SET
			password_hash = $2, must_change_password = FALSE,
			password_changed_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`, id, passwordHash)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *Repository) RecordLogin(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE sponsors SET last_login_at = NOW() WHERE id = $1
	`, id)
	return err
}

func (r *Repository) ListTransactions(ctx context.Context, sponsorID uuid.UUID) ([]*Transaction, error) {
	transactions := []*Transaction{}
	err := r.db.SelectContext(ctx, &transactions, `
		SELECT * FROM sponsor_transactions
		WHERE sponsor_id = $1
		ORDER BY created_at DESC
	`, sponsorID)
	return transactions, err
}

func (r *Repository) ListAllocations(ctx context.Context, sponsorID uuid.UUID) ([]*Allocation, error) {
	allocations := []*Allocation{}
	err := r.db.SelectContext(ctx, &allocations, `
		SELECT a.id, a.sponsor_id, a.recipient_full_name, a.course_id,
		       c.title AS course_title, a.backup_course_url, a.amount, a.note,
		       a.created_at, a.updated_at
		FROM sponsor_allocations a
		LEFT JOIN courses c ON c.id = a.course_id
		WHERE a.sponsor_id = $1 AND a.deleted_at IS NULL
		ORDER BY a.created_at DESC
	`, sponsorID)
	return allocations, err
}

func (r *Repository) GetAllocation(ctx context.Context, sponsorID, allocationID uuid.UUID) (*Allocation, error) {
	var a Allocation
	err := r.db.GetContext(ctx, &a, `
		SELECT a.id, a.sponsor_id, a.recipient_full_name, a.course_id,
		       c.title AS course_title, a.backup_course_url, a.amount, a.note,
		       a.created_at, a.updated_at
		FROM sponsor_allocations a
		LEFT JOIN courses c ON c.id = a.course_id
		WHERE a.id = $1 AND a.sponsor_id = $2 AND a.deleted_at IS NULL
	`, allocationID, sponsorID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAllocationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSponsorNotFound
	}
	return nil
}
