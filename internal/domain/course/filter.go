package course

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// CourseType partitions the catalog into free and paid listings.
type CourseType string

const (
	TypeFree CourseType = "free"
	TypePaid CourseType = "paid"
)

// Filter is the sanitized, well-typed predicate set for a catalog query.
// Nil/empty fields mean "no constraint"; all present predicates combine
// conjunctively except Search's internal four-way OR.
type Filter struct {
	Search     *string
	CategoryID *uuid.UUID
	Platform   *string
	Level      *Level
	HaveCert   *bool
	TagIDs     []uuid.UUID
	CourseType *CourseType
	MinPrice   *float64
	MaxPrice   *float64
}

// SortField is a whitelisted course ordering key.
type SortField string

const (
	SortTitle     SortField = "title"
	SortPlatform  SortField = "platform"
	SortLevel     SortField = "level"
	SortCreatedAt SortField = "created_at"
	SortDuration  SortField = "duration"
	SortPrice     SortField = "price"
)

// Sort pairs a whitelisted field with a direction.
type Sort struct {
	Field SortField
	Desc  bool
}

// DefaultSort is most-recent first.
var DefaultSort = Sort{Field: SortCreatedAt, Desc: true}

// Pagination for catalog listings.
type Pagination struct {
	Page    int
	PerPage int
}

const (
	DefaultPerPage = 12
	MaxPerPage     = 100
)

// Sanitize reduces raw untrusted query parameters to a typed filter set.
// Malformed scalars (non-uuid category_id, out-of-enum level, non-numeric
// prices) and unknown keys are dropped silently, never surfaced as errors.
func Sanitize(query url.Values) (Filter, Sort, Pagination) {
	filter := Filter{}

	if s := strings.TrimSpace(query.Get("search")); s != "" {
		filter.Search = &s
	}
	if raw := query.Get("category_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			filter.CategoryID = &id
		}
	}
	if p := strings.TrimSpace(query.Get("platform")); p != "" {
		filter.Platform = &p
	}
	if raw := query.Get("level"); raw != "" {
		if level := Level(raw); IsValidLevel(level) {
			filter.Level = &level
		}
	}
	if raw := query.Get("have_cert"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			filter.HaveCert = &v
		}
	}
	for _, raw := range query["tags"] {
		for _, part := range strings.Split(raw, ",") {
			if id, err := uuid.Parse(strings.TrimSpace(part)); err == nil {
				filter.TagIDs = append(filter.TagIDs, id)
			}
		}
	}
	if raw := query.Get("course_type"); raw == string(TypeFree) || raw == string(TypePaid) {
		t := CourseType(raw)
		filter.CourseType = &t
	}
	if raw := query.Get("min_price"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v >= 0 {
			filter.MinPrice = &v
		}
	}
	if raw := query.Get("max_price"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v >= 0 {
			filter.MaxPrice = &v
		}
	}

	// Explicit sorts default ascending; the catalog default stays
	// most-recent first.
	sort := DefaultSort
	switch field := SortField(query.Get("sort")); field {
	case SortCreatedAt:
		sort = Sort{Field: field, Desc: query.Get("order") != "asc"}
	case SortTitle, SortPlatform, SortLevel, SortDuration, SortPrice:
		sort = Sort{Field: field, Desc: query.Get("order") == "desc"}
	}

	pagination := Pagination{Page: 1, PerPage: DefaultPerPage}
	if raw := query.Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			pagination.Page = v
		}
	}
	if raw := query.Get("per_page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= MaxPerPage {
			pagination.PerPage = v
		}
	}

	return filter, sort, pagination
}
