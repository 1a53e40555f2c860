package taxonomy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines taxonomy data access.
type Repository interface {
	CreateCategory(ctx context.Context, c *Category) error
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*Category, error)
	UpdateCategory(ctx context.Context, c *Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	ListCategories(ctx context.Context, withCoursesOnly bool) ([]*Category, error)
	CategorySlugExists(ctx context.Context, slug string) (bool, error)

	CreateTag(ctx context.Context, t *Tag) error
	GetTagByID(ctx context.Context, id uuid.UUID) (*Tag, error)
	DeleteTag(ctx context.Context, id uuid.UUID) error
	ListTags(ctx context.Context) ([]*Tag, error)
	TagSlugExists(ctx context.Context, slug string) (bool, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates a taxonomy repository.
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateCategory(ctx context.Context, c *Category) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, slug) VALUES ($1, $2, $3)
	`, c.ID, c.Name, c.Slug)
	return mapUniqueError(err)
}

func (r *repository) GetCategoryByID(ctx context.Context, id uuid.UUID) (*Category, error) {
	var c Category
	err := r.db.GetContext(ctx, &c, `
		SELECT id, name, slug, created_at, updated_at FROM categories WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) GetCategoryBySlug(ctx context.Context, slug string) (*Category, error) {
	var c Category
	err := r.db.GetContext(ctx, &c, `
		SELECT id, name, slug, created_at, updated_at FROM categories WHERE slug = $1
	`, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) UpdateCategory(ctx context.Context, c *Category) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE categories SET name = $2, slug = $3, updated_at = NOW() WHERE id = $1
	`, c.ID, c.Name, c.Slug)
	if err != nil {
		return mapUniqueError(err)
	}
	return requireRow(res, ErrCategoryNotFound)
}

func (r *repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	var inUse bool
	err := r.db.GetContext(ctx, &inUse, `
		SELECT EXISTS (SELECT 1 FROM courses WHERE category_id = $1 AND deleted_at IS NULL)
	`, id)
	if err != nil {
		return err
	}
	if inUse {
		return ErrCategoryInUse
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res, ErrCategoryNotFound)
}

func (r *repository) ListCategories(ctx context.Context, withCoursesOnly bool) ([]*Category, error) {
	// Counts only consider non-deleted courses.
	query := `
		SELECT c.id, c.name, c.slug, c.created_at, c.updated_at,
		       COUNT(co.id) AS course_count
		FROM categories c
		LEFT JOIN courses co ON co.category_id = c.id AND co.deleted_at IS NULL
		GROUP BY c.id
	`
	if withCoursesOnly {
		query += ` HAVING COUNT(co.id) > 0`
	}
	query += ` ORDER BY c.name ASC`

	var categories []*Category
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *repository) CategorySlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM categories WHERE slug = $1)`, slug)
	return exists, err
}

func (r *repository) CreateTag(ctx context.Context, t *Tag) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tags (id, name, slug) VALUES ($1, $2, $3)
	`, t.ID, t.Name, t.Slug)
	return mapUniqueError(err)
}

func (r *repository) GetTagByID(ctx context.Context, id uuid.UUID) (*Tag, error) {
	var t Tag
	err := r.db.GetContext(ctx, &t, `
		SELECT id, name, slug, created_at, updated_at FROM tags WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTagNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) DeleteTag(ctx context.Context, id uuid.UUID) error {
	// course_tags rows go with the tag; courses themselves are untouched.
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM course_tags WHERE tag_id = $1`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if err := requireRow(res, ErrTagNotFound); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *repository) ListTags(ctx context.Context) ([]*Tag, error) {
	var tags []*Tag
	err := r.db.SelectContext(ctx, &tags, `
		SELECT t.id, t.name, t.slug, t.created_at, t.updated_at,
		       COUNT(co.id) AS course_count
		FROM tags t
		LEFT JOIN course_tags ct ON ct.tag_id = t.id
		LEFT JOIN courses co ON co.id = ct.course_id AND co.deleted_at IS NULL
		GROUP BY t.id
		ORDER BY t.name ASC
	`)
	if err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *repository) TagSlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM tags WHERE slug = $1)`, slug)
	return exists, err
}

func mapUniqueError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%w: %w", ErrDuplicateName, err)
	}
	return err
}

func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
