package taxonomy

import (
	"time"

	"github.com/google/uuid"
)

// Category groups courses; every course belongs to exactly one.
type Category struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	Slug      string    `db:"slug"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	// Populated by count queries, not a column.
	CourseCount int `db:"course_count"`
}

// Tag is a free-form label attached to courses (many-to-many).
type Tag struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	Slug      string    `db:"slug"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	CourseCount int `db:"course_count"`
}
