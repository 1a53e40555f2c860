package translation

import (
	"time"

	"github.com/google/uuid"
)

// Kind tags the entity type owning a translation row.
type Kind string

const (
	KindCourse   Kind = "course"
	KindCategory Kind = "category"
	KindTag      Kind = "tag"
)

// IsValidKind reports whether k is a known entity kind.
func IsValidKind(k Kind) bool {
	return k == KindCourse || k == KindCategory || k == KindTag
}

// Translation is one localized field value for an entity.
// (entity_kind, entity_id, locale, field) is unique.
type Translation struct {
	ID         uuid.UUID `db:"id"`
	EntityKind Kind      `db:"entity_kind"`
	EntityID   uuid.UUID `db:"entity_id"`
	Locale     string    `db:"locale"`
	Field      string    `db:"field"`
	Value      string    `db:"value"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}
