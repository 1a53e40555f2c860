package admin

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Admin is a back-office account.
type Admin struct {
	ID           uuid.UUID    `db:"id"`
	FullName     string       `db:"full_name"`
	Email        string       `db:"email"`
	PasswordHash string       `db:"password_hash"`
	LastLoginAt  sql.NullTime `db:"last_login_at"`
	CreatedAt    time.Time    `db:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at"`
}
