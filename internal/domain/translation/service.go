package translation

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service resolves display strings with base-value fallback and handles
// admin writes.
type Service struct {
	repo          Repository
	defaultLocale string
}

// NewService creates a translation service.
func NewService(repo Repository, defaultLocale string) *Service {
	return &Service{repo: repo, defaultLocale: defaultLocale}
}

// Resolve returns the translated field value, or base when no translation
// exists or the requested locale is the default.
func (s *Service) Resolve(ctx context.Context, kind Kind, entityID uuid.UUID, locale, field, base string) (string, error) {
	if locale == "" || locale == s.defaultLocale {
		return base, nil
	}
	value, ok, err := s.repo.Get(ctx, kind, entityID, locale, field)
	if err != nil {
		return base, err
	}
	if !ok {
		return base, nil
	}
	return value, nil
}

// Overlay batch-loads translations for a set of entities. Returns an
// empty map for the default locale so callers can skip per-row lookups.
func (s *Service) Overlay(ctx context.Context, kind Kind, entityIDs []uuid.UUID, locale string) (map[uuid.UUID]map[string]string, error) {
	if locale == "" || locale == s.defaultLocale {
		return map[uuid.UUID]map[string]string{}, nil
	}
	return s.repo.GetForEntities(ctx, kind, entityIDs, locale)
}

// Upsert writes one translated field value.
func (s *Service) Upsert(ctx context.Context, kind Kind, entityID uuid.UUID, locale, field, value string) error {
	if !IsValidKind(kind) {
		return ErrInvalidKind
	}
	if locale == "" {
		return ErrInvalidLocale
	}
	now := time.Now()
	return s.repo.Upsert(ctx, &Translation{
		ID:         uuid.New(),
		EntityKind: kind,
		EntityID:   entityID,
		Locale:     locale,
		Field:      field,
		Value:      value,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

// Delete removes one translated field value.
func (s *Service) Delete(ctx context.Context, kind Kind, entityID uuid.UUID, locale, field string) error {
	if !IsValidKind(kind) {
		return ErrInvalidKind
	}
	return s.repo.Delete(ctx, kind, entityID, locale, field)
}

// DeleteForEntity removes every translation for one entity, in all
// locales. Called when the entity itself is deleted.
func (s *Service) DeleteForEntity(ctx context.Context, kind Kind, entityID uuid.UUID) error {
	if !IsValidKind(kind) {
		return ErrInvalidKind
	}
	return s.repo.DeleteForEntity(ctx, kind, entityID)
}
