package translation

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository is the narrow lookup interface catalog read paths use, plus
// the admin write operations.
type Repository interface {
	// Get returns the translated value for one entity field, reporting
	// whether a row exists. Callers fall back to the base column value.
	Get(ctx context.Context, kind Kind, entityID uuid.UUID, locale, field string) (string, bool, error)

	// GetForEntities batch-loads all translated fields of the given
	// entities in one locale: entityID -> field -> value.
	GetForEntities(ctx context.Context, kind Kind, entityIDs []uuid.UUID, locale string) (map[uuid.UUID]map[string]string, error)

	Upsert(ctx context.Context, t *Translation) error
	Delete(ctx context.Context, kind Kind, entityID uuid.UUID, locale, field string) error
	DeleteForEntity(ctx context.Context, kind Kind, entityID uuid.UUID) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates a translation repository.
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context, kind Kind, entityID uuid.UUID, locale, field string) (string, bool, error) {
	var value string
	err := r.db.GetContext(ctx, &value, `
		SELECT value FROM translations
		WHERE entity_kind = $1 AND entity_id = $2 AND locale = $3 AND field = $4
	`, kind, entityID, locale, field)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (r *repository) GetForEntities(ctx context.Context, kind Kind, entityIDs []uuid.UUID, locale string) (map[uuid.UUID]map[string]string, error) {
	result := make(map[uuid.UUID]map[string]string)
	if len(entityIDs) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In(`
		SELECT entity_id, field, value FROM translations
		WHERE entity_kind = ? AND locale = ? AND entity_id IN (?)
	`, kind, locale, entityIDs)
	if err != nil {
		return nil, err
	}
	query = r.db.Rebind(query)

	type row struct {
		EntityID uuid.UUID `db:"entity_id"`
		Field    string    `db:"field"`
		Value    string    `db:"value"`
	}
	var rows []row
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	for _, row := range rows {
		if result[row.EntityID] == nil {
			result[row.EntityID] = make(map[string]string)
		}
		result[row.EntityID][row.Field] = row.Value
	}
	return result, nil
}

func (r *repository) Upsert(ctx context.Context, t *Translation) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO translations (id, entity_kind, entity_id, locale, field, value)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (entity_kind, entity_id, locale, field)
		DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`, t.ID, t.EntityKind, t.EntityID, t.Locale, t.Field, t.Value)
	return err
}

func (r *repository) Delete(ctx context.Context, kind Kind, entityID uuid.UUID, locale, field string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM translations
		WHERE entity_kind = $1 AND entity_id = $2 AND locale = $3 AND field = $4
	`, kind, entityID, locale, field)
	return err
}

func (r *repository) DeleteForEntity(ctx context.Context, kind Kind, entityID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM translations WHERE entity_kind = $1 AND entity_id = $2
	`, kind, entityID)
	return err
}
