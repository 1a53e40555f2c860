package course

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/coursebase/coursebase-api/internal/domain/taxonomy"
)

// Level represents course difficulty (matches course_level enum).
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// IsValidLevel reports whether l is a known difficulty level.
func IsValidLevel(l Level) bool {
	return l == LevelBeginner || l == LevelIntermediate || l == LevelAdvanced
}

// Course is a third-party course listed in the catalog.
type Course struct {
	ID        uuid.UUID    `db:"id"`
	CreatedAt time.Time    `db:"created_at"`
	UpdatedAt time.Time    `db:"updated_at"`
	DeletedAt sql.NullTime `db:"deleted_at"`

	Title       string `db:"title"`
	Description string `db:"description"`
	ExternalURL string `db:"external_url"`

	// Free text; courses come from arbitrary external platforms.
	Duration string `db:"duration"`
	Platform string `db:"platform"`

	ImageKey sql.NullString `db:"image_key"`
	ThumbKey sql.NullString `db:"thumb_key"`

	CategoryID uuid.UUID `db:"category_id"`
	HaveCert   bool      `db:"have_cert"`
	Level      Level     `db:"level"`

	// NULL or <= 0 means free.
	Price sql.NullFloat64 `db:"price"`

	// Joined data, not columns.
	CategoryName string         `db:"category_name"`
	CategorySlug string         `db:"category_slug"`
	Tags         []*taxonomy.Tag `db:"-"`
}

// IsPaid reports whether the course costs money.
func (c *Course) IsPaid() bool {
	return c.Price.Valid && c.Price.Float64 > 0
}

// FormattedPrice renders the price, or "" for free courses.
func (c *Course) FormattedPrice() string {
	if !c.IsPaid() {
		return ""
	}
	return strconv.FormatFloat(c.Price.Float64, 'f', 2, 64)
}
