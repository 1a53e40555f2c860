package taxonomy

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/coursebase/coursebase-api/internal/domain/translation"
	"github.com/coursebase/coursebase-api/internal/pkg/slug"
)

// Service drives category and tag lifecycle.
type Service struct {
	repo         Repository
	translations *translation.Service
}

// NewService creates a taxonomy service.
func NewService(repo Repository, translations *translation.Service) *Service {
	return &Service{repo: repo, translations: translations}
}

// CreateCategory creates a category with a collision-free slug.
func (s *Service) CreateCategory(ctx context.Context, req *CreateCategoryRequest) (*Category, error) {
	uniqueSlug, err := slug.MakeUnique(ctx, req.Name, s.repo.CategorySlugExists)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	c := &Category{
		ID:        uuid.New(),
		Name:      req.Name,
		Slug:      uniqueSlug,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}

	log.Info().Str("category_id", c.ID.String()).Str("slug", c.Slug).Msg("category created")
	return c, nil
}

// UpdateCategory renames a category. The slug is re-derived only when the
// name actually changed, so existing URLs stay stable on no-op updates.
func (s *Service) UpdateCategory(ctx context.Context, id uuid.UUID, req *UpdateCategoryRequest) (*Category, error) {
	c, err := s.repo.GetCategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != c.Name {
		newSlug, err := slug.MakeUnique(ctx, req.Name, s.repo.CategorySlugExists)
		if err != nil {
			return nil, err
		}
		c.Name = req.Name
		c.Slug = newSlug
	}

	if err := s.repo.UpdateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCategory removes a category; fails while courses reference it.
func (s *Service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return err
	}
	if err := s.translations.DeleteForEntity(ctx, translation.KindCategory, id); err != nil {
		log.Warn().Err(err).Str("category_id", id.String()).Msg("failed to purge category translations")
	}
	return nil
}

// ListCategories returns all categories or only ones with courses.
func (s *Service) ListCategories(ctx context.Context, withCoursesOnly bool) ([]*Category, error) {
	return s.repo.ListCategories(ctx, withCoursesOnly)
}

// CreateTag creates a tag with a collision-free slug.
func (s *Service) CreateTag(ctx context.Context, req *CreateTagRequest) (*Tag, error) {
	uniqueSlug, err := slug.MakeUnique(ctx, req.Name, s.repo.TagSlugExists)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	t := &Tag{
		ID:        uuid.New(),
		Name:      req.Name,
		Slug:      uniqueSlug,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateTag(ctx, t); err != nil {
		return nil, err
	}

	log.Info().Str("tag_id", t.ID.String()).Str("slug", t.Slug).Msg("tag created")
	return t, nil
}

// DeleteTag removes a tag, detaching it from courses.
func (s *Service) DeleteTag(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteTag(ctx, id); err != nil {
		return err
	}
	if err := s.translations.DeleteForEntity(ctx, translation.KindTag, id); err != nil {
		log.Warn().Err(err).Str("tag_id", id.String()).Msg("failed to purge tag translations")
	}
	return nil
}

// ListTags returns all tags with course counts.
func (s *Service) ListTags(ctx context.Context) ([]*Tag, error) {
	return s.repo.ListTags(ctx)
}

// translationsOverlay loads localized names for a list of IDs.
func (s *Service) translationsOverlay(ctx context.Context, kind translation.Kind, ids []uuid.UUID, locale string) map[uuid.UUID]map[string]string {
	overlay, err := s.translations.Overlay(ctx, kind, ids, locale)
	if err != nil {
		log.Warn().Err(err).Str("kind", string(kind)).Msg("translation overlay failed, serving base values")
		return map[uuid.UUID]map[string]string{}
	}
	return overlay
}

// CategoriesResponse localizes a category list.
func (s *Service) CategoriesResponse(ctx context.Context, categories []*Category, locale string) []*CategoryResponse {
	ids := make([]uuid.UUID, len(categories))
	for i, c := range categories {
		ids[i] = c.ID
	}
	overlay := s.translationsOverlay(ctx, translation.KindCategory, ids, locale)

	out := make([]*CategoryResponse, len(categories))
	for i, c := range categories {
		out[i] = CategoryResponseFromEntity(c, overlay[c.ID])
	}
	return out
}

// TagsResponse localizes a tag list.
func (s *Service) TagsResponse(ctx context.Context, tags []*Tag, locale string) []*TagResponse {
	ids := make([]uuid.UUID, len(tags))
	for i, t := range tags {
		ids[i] = t.ID
	}
	overlay := s.translationsOverlay(ctx, translation.KindTag, ids, locale)

	out := make([]*TagResponse, len(tags))
	for i, t := range tags {
		out[i] = TagResponseFromEntity(t, overlay[t.ID])
	}
	return out
}
