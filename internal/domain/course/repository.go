package course

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/coursebase/coursebase-api/internal/domain/taxonomy"
	"github.com/coursebase/coursebase-api/internal/middleware"
)

// Repository defines course data access.
type Repository interface {
	Create(ctx context.Context, course *Course, tagIDs []uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*Course, error)
	Update(ctx context.Context, course *Course, tagIDs []uuid.UUID) error
	UpdateImage(ctx context.Context, id uuid.UUID, imageKey, thumbKey string) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *Filter, sort Sort, pagination Pagination) ([]*Course, int, error)
	ListRelated(ctx context.Context, id uuid.UUID, limit int) ([]*Course, error)
}

type repository struct {
	db *sqlx.DB
}

const courseSelectColumns = `
	c.id, c.title, c.description, c.external_url, c.duration, c.platform,
	c.image_key, c.thumb_key, c.category_id, c.have_cert, c.level, c.price,
	c.created_at, c.updated_at, c.deleted_at,
	cat.name AS category_name, cat.slug AS category_slug
`

// NewRepository creates a course repository.
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, course *Course, tagIDs []uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO courses (
			id, title, description, external_url, duration, platform,
			image_key, thumb_key, category_id, have_cert, level, price
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11, $12
		)
	`,
		course.ID, course.Title, course.Description, course.ExternalURL, course.Duration, course.Platform,
		course.ImageKey, course.ThumbKey, course.CategoryID, course.HaveCert, course.Level, course.Price,
	)
	if err != nil {
		log.Error().
			Str("request_id", middleware.GetRequestID(ctx)).
			Str("course_id", course.ID.String()).
			Err(err).
			Msg("course insert failed")
		return mapCourseDBError(err)
	}

	if err := replaceTagsTx(ctx, tx, course.ID, tagIDs); err != nil {
		return mapCourseDBError(err)
	}

	return tx.Commit()
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Course, error) {
	query := `
		SELECT ` + courseSelectColumns + `
		FROM courses c
		JOIN categories cat ON cat.id = c.category_id
		WHERE c.id = $1 AND c.deleted_at IS NULL
	`

	var course Course
	err := r.db.GetContext(ctx, &course, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	if err := r.attachTags(ctx, []*Course{&course}); err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *repository) Update(ctx context.Context, course *Course, tagIDs []uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE courses SET
			title = $2, description = $3, external_url = $4, duration = $5,
			platform = $6, category_id = $7, have_cert = $8, level = $9,
			price = $10, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`,
		course.ID,
		course.Title, course.Description, course.ExternalURL, course.Duration,
		course.Platform, course.CategoryID, course.HaveCert, course.Level,
		course.Price,
	)
	if err != nil {
		return mapCourseDBError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCourseNotFound
	}

	if err := replaceTagsTx(ctx, tx, course.ID, tagIDs); err != nil {
		return mapCourseDBError(err)
	}

	return tx.Commit()
}

func (r *repository) UpdateImage(ctx context.Context, id uuid.UUID, imageKey, thumbKey string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE courses SET image_key = $2, thumb_key = $3, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`, id, imageKey, thumbKey)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCourseNotFound
	}
	return nil
}

// Delete soft-deletes the course and clears course references on sponsor
// allocations in the same transaction; their backup_course_url keeps the
// history readable.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE courses SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCourseNotFound
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE sponsor_allocations SET course_id = NULL WHERE course_id = $1
	`, id); err != nil {
		return err
	}

	return tx.Commit()
}

// List composes the catalog query from the sanitized filter set. Every
// predicate is ANDed; search alone fans out over title, description,
// category name and tag names.
func (r *repository) List(ctx context.Context, filter *Filter, sort Sort, pagination Pagination) ([]*Course, int, error) {
	conditions := []string{"c.deleted_at IS NULL"}
	args := []interface{}{}
	argIndex := 1

	if filter.Search != nil {
		conditions = append(conditions, fmt.Sprintf(`(
			c.title ILIKE $%d OR c.description ILIKE $%d OR cat.name ILIKE $%d
			OR EXISTS (
				SELECT 1 FROM course_tags ct
				JOIN tags t ON t.id = ct.tag_id
				WHERE ct.course_id = c.id AND t.name ILIKE $%d
			)
		)`, argIndex, argIndex, argIndex, argIndex))
		args = append(args, "%"+*filter.Search+"%")
		argIndex++
	}

	if filter.CategoryID != nil {
		conditions = append(conditions, fmt.Sprintf("c.category_id = $%d", argIndex))
		args = append(args, *filter.CategoryID)
		argIndex++
	}

	if filter.Platform != nil {
		conditions = append(conditions, fmt.Sprintf("c.platform = $%d", argIndex))
		args = append(args, *filter.Platform)
		argIndex++
	}

	if filter.Level != nil {
		conditions = append(conditions, fmt.Sprintf("c.level = $%d", argIndex))
		args = append(args, *filter.Level)
		argIndex++
	}

	if filter.HaveCert != nil {
		conditions = append(conditions, fmt.Sprintf("c.have_cert = $%d", argIndex))
		args = append(args, *filter.HaveCert)
		argIndex++
	}

	if len(filter.TagIDs) > 0 {
		conditions = append(conditions, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM course_tags ct
			WHERE ct.course_id = c.id AND ct.tag_id = ANY($%d)
		)`, argIndex))
		args = append(args, pq.Array(filter.TagIDs))
		argIndex++
	}

	if filter.CourseType != nil {
		switch *filter.CourseType {
		case TypeFree:
			conditions = append(conditions, "(c.price IS NULL OR c.price <= 0)")
		case TypePaid:
			conditions = append(conditions, "(c.price IS NOT NULL AND c.price > 0)")
		}
	}

	// Inclusive bounds; min > max simply matches nothing.
	if filter.MinPrice != nil {
		conditions = append(conditions, fmt.Sprintf("c.price >= $%d", argIndex))
		args = append(args, *filter.MinPrice)
		argIndex++
	}
	if filter.MaxPrice != nil {
		conditions = append(conditions, fmt.Sprintf("c.price <= $%d", argIndex))
		args = append(args, *filter.MaxPrice)
		argIndex++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")
	from := `FROM courses c JOIN categories cat ON cat.id = c.category_id`

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s %s", from, where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	orderBy := orderByClause(sort)

	offset := (pagination.Page - 1) * pagination.PerPage
	query := fmt.Sprintf(`
		SELECT %s %s %s %s
		LIMIT $%d OFFSET $%d
	`, courseSelectColumns, from, where, orderBy, argIndex, argIndex+1)
	args = append(args, pagination.PerPage, offset)

	var courses []*Course
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, 0, err
	}

	if err := r.attachTags(ctx, courses); err != nil {
		return nil, 0, err
	}

	return courses, total, nil
}

// ListRelated returns courses sharing the category or at least one tag,
// excluding the course itself, most recent first.
func (r *repository) ListRelated(ctx context.Context, id uuid.UUID, limit int) ([]*Course, error) {
	query := `
		SELECT ` + courseSelectColumns + `
		FROM courses c
		JOIN categories cat ON cat.id = c.category_id
		WHERE c.id != $1
		  AND c.deleted_at IS NULL
		  AND (
			c.category_id = (SELECT category_id FROM courses WHERE id = $1)
			OR EXISTS (
				SELECT 1 FROM course_tags ct
				WHERE ct.course_id = c.id
				  AND ct.tag_id IN (SELECT tag_id FROM course_tags WHERE course_id = $1)
			)
		  )
		ORDER BY c.created_at DESC
		LIMIT $2
	`

	var courses []*Course
	if err := r.db.SelectContext(ctx, &courses, query, id, limit); err != nil {
		return nil, err
	}
	if err := r.attachTags(ctx, courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// attachTags eager-loads tags for a page of courses in one query.
func (r *repository) attachTags(ctx context.Context, courses []*Course) error {
	if len(courses) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(courses))
	byID := make(map[uuid.UUID]*Course, len(courses))
	for i, c := range courses {
		ids[i] = c.ID
		byID[c.ID] = c
		c.Tags = []*taxonomy.Tag{}
	}

	query, args, err := sqlx.In(`
		SELECT ct.course_id, t.id, t.name, t.slug, t.created_at, t.updated_at
		FROM course_tags ct
		JOIN tags t ON t.id = ct.tag_id
		WHERE ct.course_id IN (?)
		ORDER BY t.name ASC
	`, ids)
	if err != nil {
		return err
	}
	query = r.db.Rebind(query)

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var courseID uuid.UUID
		var tag taxonomy.Tag
		if err := rows.Scan(&courseID, &tag.ID, &tag.Name, &tag.Slug, &tag.CreatedAt, &tag.UpdatedAt); err != nil {
			return err
		}
		if c, ok := byID[courseID]; ok {
			c.Tags = append(c.Tags, &tag)
		}
	}
	return rows.Err()
}

func orderByClause(sort Sort) string {
	dir := "ASC"
	if sort.Desc {
		dir = "DESC"
	}

	// sort.Field is whitelisted by Sanitize; the map guards direct
	// repository callers.
	columns := map[SortField]string{
		SortTitle:     "c.title",
		SortPlatform:  "c.platform",
		SortLevel:     "c.level",
		SortCreatedAt: "c.created_at",
		SortDuration:  "c.duration",
		SortPrice:     "c.price",
	}
	column, ok := columns[sort.Field]
	if !ok {
		column = "c.created_at"
		dir = "DESC"
	}

	if sort.Field == SortPrice {
		return fmt.Sprintf("ORDER BY %s %s NULLS LAST, c.created_at DESC", column, dir)
	}
	return fmt.Sprintf("ORDER BY %s %s, c.created_at DESC", column, dir)
}

func replaceTagsTx(ctx context.Context, tx *sqlx.Tx, courseID uuid.UUID, tagIDs []uuid.UUID) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM course_tags WHERE course_id = $1`, courseID); err != nil {
		return err
	}
	for _, tagID := range tagIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO course_tags (course_id, tag_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, courseID, tagID); err != nil {
			return err
		}
	}
	return nil
}

func mapCourseDBError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	if pqErr.Code == "23503" {
		if strings.Contains(pqErr.Constraint, "tag") {
			return fmt.Errorf("%w: %w", ErrInvalidTag, err)
		}
		return fmt.Errorf("%w: %w", ErrInvalidCategory, err)
	}
	return err
}
