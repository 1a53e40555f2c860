package sponsor

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// TransactionType classifies ledger entries. Allocations are not
// transactions; they live in their own table and only refunds from
// deleted allocations flow back through the ledger.
type TransactionType string

const (
	TransactionTypeTopUp      TransactionType = "top_up"
	TransactionTypeAdjustment TransactionType = "adjustment"
	TransactionTypeRefund     TransactionType = "refund"
)

// IsValidTransactionType reports whether t is a known ledger entry type.
func IsValidTransactionType(t TransactionType) bool {
	return t == TransactionTypeTopUp || t == TransactionTypeAdjustment || t == TransactionTypeRefund
}

// Sponsor is a funding account. Balance is denominated in minor
// currency units and always equals the sum of transaction deltas minus
// the sum of all allocation amounts, tombstoned allocations included;
// every tombstone is paired with a refund entry that nets it out.
type Sponsor struct {
	ID                 uuid.UUID    `db:"id"`
	FullName           string       `db:"full_name"`
	Email              string       `db:"email"`
	Phone              string       `db:"phone"`
	PasswordHash       string       `db:"password_hash"`
	Balance            int64        `db:"balance"`
	MustChangePassword bool         `db:"must_change_password"`
	PasswordChangedAt  sql.NullTime `db:"password_changed_at"`
	LastLoginAt        sql.NullTime `db:"last_login_at"`
	CreatedAt          time.Time    `db:"created_at"`
	UpdatedAt          time.Time    `db:"updated_at"`
	DeletedAt          sql.NullTime `db:"deleted_at"`
}

// Transaction is one signed ledger entry. Top-ups and refunds are
// always positive; adjustments carry either sign.
type Transaction struct {
	ID          uuid.UUID       `db:"id"`
	SponsorID   uuid.UUID       `db:"sponsor_id"`
	Type        TransactionType `db:"type"`
	AmountDelta int64           `db:"amount_delta"`
	Reference   sql.NullString  `db:"reference"`
	Notes       string          `db:"notes"`
	CreatedAt   time.Time       `db:"created_at"`
}

// Allocation earmarks part of a sponsor's balance for one recipient.
// CourseID goes NULL when the course is removed from the catalog; the
// backup URL preserves what was sponsored. Removed allocations are
// tombstoned, never deleted, so statements keep reconciling.
type Allocation struct {
	ID                uuid.UUID      `db:"id"`
	SponsorID         uuid.UUID      `db:"sponsor_id"`
	RecipientFullName string         `db:"recipient_full_name"`
	CourseID          uuid.NullUUID  `db:"course_id"`
	CourseTitle       sql.NullString `db:"course_title"`
	BackupCourseURL   string         `db:"backup_course_url"`
	Amount            int64          `db:"amount"`
	Note              string         `db:"note"`
	CreatedAt         time.Time      `db:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at"`
	DeletedAt         sql.NullTime   `db:"deleted_at"`
}
