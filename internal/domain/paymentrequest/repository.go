package paymentrequest

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

// Repository defines payment request data access.
type Repository interface {
	Create(ctx context.Context, req *PaymentRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*PaymentRequest, error)
	List(ctx context.Context, filter *ListFilter) ([]*PaymentRequest, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, adminNotes string) error
	CountByStatus(ctx context.Context) (map[Status]int, error)
}

// ListFilter narrows the admin review queue.
type ListFilter struct {
	Term     string
	Status   *Status
	CourseID *uuid.UUID
	Page     int
	PerPage  int
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates a payment request repository.
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const requestSelectColumns = `
	pr.id, pr.reference, pr.full_name, pr.email, pr.phone, pr.course_id,
	c.title AS course_title, pr.reason, pr.document_key, pr.status,
	pr.admin_notes, pr.ip_address, pr.user_agent, pr.created_at, pr.updated_at
`

func (r *repository) Create(ctx context.Context, req *PaymentRequest) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payment_requests (
			id, reference, full_name, email, phone, course_id,
			reason, document_key, status, ip_address, user_agent
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11
		)
	`,
		req.ID, req.Reference, req.FullName, req.Email, req.Phone, req.CourseID,
		req.Reason, req.DocumentKey, req.Status, req.IPAddress, req.UserAgent,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return ErrInvalidCourse
		}
		return err
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*PaymentRequest, error) {
	var req PaymentRequest
	err := r.db.GetContext(ctx, &req, `
		SELECT `+requestSelectColumns+`
		FROM payment_requests pr
		LEFT JOIN courses c ON c.id = pr.course_id
		WHERE pr.id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) List(ctx context.Context, filter *ListFilter) ([]*PaymentRequest, int, error) {
	conditions := []string{"TRUE"}
	args := []interface{}{}
	argIndex := 1

	if filter.Term != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(pr.full_name ILIKE $%d OR pr.email ILIKE $%d OR pr.phone ILIKE $%d OR pr.reason ILIKE $%d)",
			argIndex, argIndex, argIndex, argIndex,
		))
		args = append(args, "%"+filter.Term+"%")
		argIndex++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("pr.status = $%d", argIndex))
		args = append(args, *filter.Status)
		argIndex++
	}
	if filter.CourseID != nil {
		conditions = append(conditions, fmt.Sprintf("pr.course_id = $%d", argIndex))
		args = append(args, *filter.CourseID)
		argIndex++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")
	from := "FROM payment_requests pr LEFT JOIN courses c ON c.id = pr.course_id"

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s %s", from, where), args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s %s %s
		ORDER BY pr.created_at DESC
		LIMIT $%d OFFSET $%d
	`, requestSelectColumns, from, where, argIndex, argIndex+1)
	args = append(args, filter.PerPage, (filter.Page-1)*filter.PerPage)

	requests := []*PaymentRequest{}
	if err := r.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status, adminNotes string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE payment_requests SET status = $2, admin_notes = $3, updated_at = NOW()
		WHERE id = $1
	`, id, status, adminNotes)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRequestNotFound
	}
	return nil
}

func (r *repository) CountByStatus(ctx context.Context) (map[Status]int, error) {
	rows, err := r.db.QueryxContext(ctx, `
		SELECT status, COUNT(*) FROM payment_requests GROUP BY status
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
