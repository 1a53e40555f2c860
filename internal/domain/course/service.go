package course

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/coursebase/coursebase-api/internal/domain/taxonomy"
	"github.com/coursebase/coursebase-api/internal/domain/translation"
	"github.com/coursebase/coursebase-api/internal/pkg/imaging"
	"github.com/coursebase/coursebase-api/internal/pkg/storage"
)

// Service implements catalog operations.
type Service struct {
	repo         Repository
	facets       *FacetCache
	translations *translation.Service
	storage      storage.Storage
	imaging      *imaging.Processor
	relatedLimit int
}

// NewService creates a course service.
func NewService(
	repo Repository,
	facets *FacetCache,
	translations *translation.Service,
	store storage.Storage,
	processor *imaging.Processor,
	relatedLimit int,
) *Service {
	return &Service{
		repo:         repo,
		facets:       facets,
		translations: translations,
		storage:      store,
		imaging:      processor,
		relatedLimit: relatedLimit,
	}
}

func (s *Service) Create(ctx context.Context, req *CreateCourseRequest) (*Course, error) {
	course := &Course{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		ExternalURL: req.ExternalURL,
		Duration:    req.Duration,
		Platform:    req.Platform,
		CategoryID:  req.CategoryID,
		HaveCert:    req.HaveCert,
		Level:       Level(req.Level),
		Price:       toNullFloat(req.Price),
	}

	if err := s.repo.Create(ctx, course, req.TagIDs); err != nil {
		return nil, err
	}
	s.facets.Invalidate(ctx)

	return s.repo.GetByID(ctx, course.ID)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateCourseRequest) (*Course, error) {
	course, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	course.Title = req.Title
	course.Description = req.Description
	course.ExternalURL = req.ExternalURL
	course.Duration = req.Duration
	course.Platform = req.Platform
	course.CategoryID = req.CategoryID
	course.HaveCert = req.HaveCert
	course.Level = Level(req.Level)
	course.Price = toNullFloat(req.Price)

	if err := s.repo.Update(ctx, course, req.TagIDs); err != nil {
		return nil, err
	}
	s.facets.Invalidate(ctx)

	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.facets.Invalidate(ctx)

	// Orphaned translations would shadow a future entity reusing the ID.
	if err := s.translations.DeleteForEntity(ctx, translation.KindCourse, id); err != nil {
		log.Warn().
			Str("course_id", id.String()).
			Err(err).
			Msg("failed to purge course translations")
	}
	return nil
}

// UploadImage processes and stores the course image plus its thumbnail.
func (s *Service) UploadImage(ctx context.Context, id uuid.UUID, filename string, file io.Reader) (*Course, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if !imaging.ValidateType(filename) {
		return nil, fmt.Errorf("unsupported image type %q", filepath.Ext(filename))
	}

	processed, err := s.imaging.Process(file)
	if err != nil {
		return nil, err
	}

	ext := "jpg"
	if processed.ContentType == "image/png" {
		ext = "png"
	}
	imageKey := fmt.Sprintf("courses/%s/image.%s", id, ext)
	thumbKey := fmt.Sprintf("courses/%s/thumb.%s", id, ext)

	if err := s.storage.Put(ctx, imageKey, bytes.NewReader(processed.Original), processed.ContentType); err != nil {
		return nil, err
	}
	if err := s.storage.Put(ctx, thumbKey, bytes.NewReader(processed.Thumbnail), processed.ContentType); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateImage(ctx, id, imageKey, thumbKey); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter *Filter, sort Sort, pagination Pagination) ([]*Course, int, error) {
	return s.repo.List(ctx, filter, sort, pagination)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Course, []*Course, error) {
	course, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	related, err := s.repo.ListRelated(ctx, id, s.relatedLimit)
	if err != nil {
		return nil, nil, err
	}
	return course, related, nil
}

func (s *Service) Facets(ctx context.Context, topTags int, locale string) (*Facets, error) {
	facets, err := s.facets.Get(ctx, topTags)
	if err != nil {
		return nil, err
	}
	s.localizeFacets(ctx, facets, locale)
	return facets, nil
}

// localizeFacets overlays translated names after the cache read so the
// cached entry stays locale independent.
func (s *Service) localizeFacets(ctx context.Context, facets *Facets, locale string) {
	catIDs := make([]uuid.UUID, len(facets.Categories))
	for i, c := range facets.Categories {
		catIDs[i] = c.ID
	}
	if overlay, err := s.translations.Overlay(ctx, translation.KindCategory, catIDs, locale); err == nil {
		for _, c := range facets.Categories {
			if name, ok := overlay[c.ID]["name"]; ok {
				c.Name = name
			}
		}
	}

	tagIDs := make([]uuid.UUID, len(facets.Tags))
	for i, t := range facets.Tags {
		tagIDs[i] = t.ID
	}
	if overlay, err := s.translations.Overlay(ctx, translation.KindTag, tagIDs, locale); err == nil {
		for _, t := range facets.Tags {
			if name, ok := overlay[t.ID]["name"]; ok {
				t.Name = name
			}
		}
	}
}

// Response converts a course to its API shape with the locale overlay
// applied to title, description and taxonomy names.
func (s *Service) Response(ctx context.Context, course *Course, locale string) *CourseResponse {
	responses := s.Responses(ctx, []*Course{course}, locale)
	return responses[0]
}

func (s *Service) Responses(ctx context.Context, courses []*Course, locale string) []*CourseResponse {
	ids := make([]uuid.UUID, len(courses))
	catIDs := make([]uuid.UUID, 0, len(courses))
	tagIDs := make([]uuid.UUID, 0, len(courses)*4)
	for i, c := range courses {
		ids[i] = c.ID
		catIDs = append(catIDs, c.CategoryID)
		for _, t := range c.Tags {
			tagIDs = append(tagIDs, t.ID)
		}
	}

	courseOverlay := s.overlay(ctx, translation.KindCourse, ids, locale)
	catOverlay := s.overlay(ctx, translation.KindCategory, catIDs, locale)
	tagOverlay := s.overlay(ctx, translation.KindTag, tagIDs, locale)

	responses := make([]*CourseResponse, len(courses))
	for i, c := range courses {
		resp := &CourseResponse{
			ID:             c.ID,
			Title:          c.Title,
			Description:    c.Description,
			ExternalURL:    c.ExternalURL,
			Duration:       c.Duration,
			Platform:       c.Platform,
			CategoryID:     c.CategoryID,
			CategoryName:   c.CategoryName,
			CategorySlug:   c.CategorySlug,
			Tags:           make([]*taxonomy.Tag, len(c.Tags)),
			HaveCert:       c.HaveCert,
			Level:          string(c.Level),
			FormattedPrice: c.FormattedPrice(),
			IsPaid:         c.IsPaid(),
			CreatedAt:      c.CreatedAt,
			UpdatedAt:      c.UpdatedAt,
		}
		if c.Price.Valid {
			price := c.Price.Float64
			resp.Price = &price
		}
		if c.ImageKey.Valid {
			resp.ImageURL = s.storage.GetURL(c.ImageKey.String)
		}
		if c.ThumbKey.Valid {
			resp.ThumbURL = s.storage.GetURL(c.ThumbKey.String)
		}

		if fields, ok := courseOverlay[c.ID]; ok {
			if v, ok := fields["title"]; ok {
				resp.Title = v
			}
			if v, ok := fields["description"]; ok {
				resp.Description = v
			}
		}
		if v, ok := catOverlay[c.CategoryID]["name"]; ok {
			resp.CategoryName = v
		}
		for j, t := range c.Tags {
			tag := *t
			if v, ok := tagOverlay[t.ID]["name"]; ok {
				tag.Name = v
			}
			resp.Tags[j] = &tag
		}

		responses[i] = resp
	}
	return responses
}

func (s *Service) overlay(ctx context.Context, kind translation.Kind, ids []uuid.UUID, locale string) map[uuid.UUID]map[string]string {
	overlay, err := s.translations.Overlay(ctx, kind, ids, locale)
	if err != nil {
		log.Warn().Str("kind", string(kind)).Err(err).Msg("translation overlay failed")
		return map[uuid.UUID]map[string]string{}
	}
	return overlay
}

func toNullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
