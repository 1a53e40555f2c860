package course

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Facets describes the current shape of the catalog for building the
// filter sidebar: every value is derived from live (non-deleted)
// courses only.
type Facets struct {
	Categories []*CategoryFacet `json:"categories"`
	Tags       []*TagFacet      `json:"tags"`
	Platforms  []string         `json:"platforms"`
	Levels     []string         `json:"levels"`
	PriceRange *PriceRange      `json:"price_range"`
	FreeCount  int              `json:"free_count"`
	PaidCount  int              `json:"paid_count"`
}

type CategoryFacet struct {
	ID    uuid.UUID `json:"id" db:"id"`
	Name  string    `json:"name" db:"name"`
	Slug  string    `json:"slug" db:"slug"`
	Count int       `json:"count" db:"count"`
}

type TagFacet struct {
	ID    uuid.UUID `json:"id" db:"id"`
	Name  string    `json:"name" db:"name"`
	Slug  string    `json:"slug" db:"slug"`
	Count int       `json:"count" db:"count"`
}

// PriceRange is nil-valued in Facets when no paid courses exist.
type PriceRange struct {
	Min float64 `json:"min" db:"min"`
	Max float64 `json:"max" db:"max"`
}

// FacetRepository aggregates filter facets over the catalog.
type FacetRepository interface {
	GetFacets(ctx context.Context, topTags int) (*Facets, error)
}

type facetRepository struct {
	db *sqlx.DB
}

func NewFacetRepository(db *sqlx.DB) FacetRepository {
	return &facetRepository{db: db}
}

func (r *facetRepository) GetFacets(ctx context.Context, topTags int) (*Facets, error) {
	facets := &Facets{
		Categories: []*CategoryFacet{},
		Tags:       []*TagFacet{},
		Platforms:  []string{},
		Levels:     []string{},
	}

	err := r.db.SelectContext(ctx, &facets.Categories, `
		SELECT cat.id, cat.name, cat.slug, COUNT(c.id) AS count
		FROM categories cat
		JOIN courses c ON c.category_id = cat.id AND c.deleted_at IS NULL
		GROUP BY cat.id, cat.name, cat.slug
		ORDER BY cat.name ASC
	`)
	if err != nil {
		return nil, err
	}

	// Ties resolve alphabetically so the sidebar stays stable between
	// refreshes.
	err = r.db.SelectContext(ctx, &facets.Tags, `
		SELECT t.id, t.name, t.slug, COUNT(c.id) AS count
		FROM tags t
		JOIN course_tags ct ON ct.tag_id = t.id
		JOIN courses c ON c.id = ct.course_id AND c.deleted_at IS NULL
		GROUP BY t.id, t.name, t.slug
		HAVING COUNT(c.id) > 0
		ORDER BY count DESC, t.name ASC
		LIMIT $1
	`, topTags)
	if err != nil {
		return nil, err
	}

	err = r.db.SelectContext(ctx, &facets.Platforms, `
		SELECT DISTINCT platform FROM courses
		WHERE deleted_at IS NULL AND platform != ''
		ORDER BY platform ASC
	`)
	if err != nil {
		return nil, err
	}

	err = r.db.SelectContext(ctx, &facets.Levels, `
		SELECT DISTINCT level FROM courses
		WHERE deleted_at IS NULL
		ORDER BY level ASC
	`)
	if err != nil {
		return nil, err
	}

	var priceRange PriceRange
	err = r.db.GetContext(ctx, &priceRange, `
		SELECT MIN(price) AS min, MAX(price) AS max FROM courses
		WHERE deleted_at IS NULL AND price > 0
		HAVING COUNT(*) > 0
	`)
	if err == nil {
		facets.PriceRange = &priceRange
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	err = r.db.QueryRowxContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE price IS NULL OR price <= 0),
			COUNT(*) FILTER (WHERE price > 0)
		FROM courses WHERE deleted_at IS NULL
	`).Scan(&facets.FreeCount, &facets.PaidCount)
	if err != nil {
		return nil, err
	}

	return facets, nil
}

const facetCacheKey = "courses:facets"

// FacetCache fronts the facet aggregation with redis. A nil client
// disables caching and every read falls through to the repository.
type FacetCache struct {
	repo  FacetRepository
	redis *redis.Client
	ttl   time.Duration
}

func NewFacetCache(repo FacetRepository, client *redis.Client, ttl time.Duration) *FacetCache {
	return &FacetCache{repo: repo, redis: client, ttl: ttl}
}

func (c *FacetCache) Get(ctx context.Context, topTags int) (*Facets, error) {
	if c.redis != nil {
		raw, err := c.redis.Get(ctx, facetCacheKey).Bytes()
		if err == nil {
			var facets Facets
			if err := json.Unmarshal(raw, &facets); err == nil {
				return &facets, nil
			}
		} else if err != redis.Nil {
			log.Warn().Err(err).Msg("facet cache read failed")
		}
	}

	facets, err := c.repo.GetFacets(ctx, topTags)
	if err != nil {
		return nil, err
	}

	if c.redis != nil {
		if raw, err := json.Marshal(facets); err == nil {
			if err := c.redis.Set(ctx, facetCacheKey, raw, c.ttl).Err(); err != nil {
				log.Warn().Err(err).Msg("facet cache write failed")
			}
		}
	}

	return facets, nil
}

// Invalidate drops the cached facets after any catalog write.
func (c *FacetCache) Invalidate(ctx context.Context) {
	if c.redis == nil {
		return
	}
	if err := c.redis.Del(ctx, facetCacheKey).Err(); err != nil {
		log.Warn().Err(err).Msg("facet cache invalidation failed")
	}
}
