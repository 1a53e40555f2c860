package translation

import "github.com/google/uuid"

type UpsertRequest struct {
	EntityKind string    `json:"entity_kind" validate:"required,oneof=course category tag"`
	EntityID   uuid.UUID `json:"entity_id" validate:"required"`
	Locale     string    `json:"locale" validate:"required,bcp47_language_tag"`
	Field      string    `json:"field" validate:"required,oneof=title description name"`
	Value      string    `json:"value" validate:"required,max=5000"`
}

type DeleteRequest struct {
	EntityKind string    `json:"entity_kind" validate:"required,oneof=course category tag"`
	EntityID   uuid.UUID `json:"entity_id" validate:"required"`
	Locale     string    `json:"locale" validate:"required,bcp47_language_tag"`
	Field      string    `json:"field" validate:"required,oneof=title description name"`
}
