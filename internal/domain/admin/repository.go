package admin

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines admin account data access.
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates an admin repository.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*Admin, error) {
	var a Admin
	err := r.db.GetContext(ctx, &a, `
		SELECT * FROM admins WHERE LOWER(email) = LOWER($1)
	`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAdminNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Admin, error) {
	var a Admin
	err := r.db.GetContext(ctx, &a, `SELECT * FROM admins WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAdminNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repository) RecordLogin(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE admins SET last_login_at = NOW() WHERE id = $1
	`, id)
	return err
}
