package taxonomy

import (
	"github.com/google/uuid"
)

// CreateCategoryRequest for POST /admin/categories
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

// UpdateCategoryRequest for PUT /admin/categories/{id}
type UpdateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

// CreateTagRequest for POST /admin/tags
type CreateTagRequest struct {
	Name string `json:"name" validate:"required,min=2,max=50"`
}

// CategoryResponse represents a category in API responses.
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	CourseCount int       `json:"course_count,omitempty"`
}

// TagResponse represents a tag in API responses.
type TagResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	CourseCount int       `json:"course_count,omitempty"`
}

// CategoryResponseFromEntity converts an entity, applying a translation
// overlay when one is present.
func CategoryResponseFromEntity(c *Category, overlay map[string]string) *CategoryResponse {
	name := c.Name
	if v, ok := overlay["name"]; ok {
		name = v
	}
	return &CategoryResponse{
		ID:          c.ID,
		Name:        name,
		Slug:        c.Slug,
		CourseCount: c.CourseCount,
	}
}

// TagResponseFromEntity converts an entity with optional overlay.
func TagResponseFromEntity(t *Tag, overlay map[string]string) *TagResponse {
	name := t.Name
	if v, ok := overlay["name"]; ok {
		name = v
	}
	return &TagResponse{
		ID:          t.ID,
		Name:        name,
		Slug:        t.Slug,
		CourseCount: t.CourseCount,
	}
}
