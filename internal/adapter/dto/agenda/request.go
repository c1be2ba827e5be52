package agenda

import (
	"github.com/google/uuid"

	"github.com/anujdevsingh/gram-panchayat/internal/domain/entities"
)

// ItemPayload represents one agenda item on the wire. ID and author fields
// are optional on input; unlabelled items are treated as official-authored.
type ItemPayload struct {
	ID              string            `json:"id,omitempty"`
	Title           map[string]string `json:"title" validate:"required,langmap"`
	Description     map[string]string `json:"description,omitempty"`
	LinkedIssues    []string          `json:"linked_issues,omitempty"`
	DurationMinutes int               `json:"duration_minutes,omitempty" validate:"omitempty,min=0"`
	CreatedByType   string            `json:"created_by_type,omitempty" validate:"omitempty,oneof=USER SYSTEM"`
	CreatedByUserID *uuid.UUID        `json:"created_by_user_id,omitempty"`
}

// ReplaceRequest represents the request to replace the outstanding agenda
// pool of a panchayat. An empty list clears the pool.
type ReplaceRequest struct {
	AgendaItems []ItemPayload `json:"agenda_items" validate:"omitempty,dive"`
}

// ToEntity converts a wire payload into a domain agenda item.
func (p ItemPayload) ToEntity() entities.AgendaItem {
	return entities.AgendaItem{
		ID:              p.ID,
		Title:           entities.LanguageMap(p.Title),
		Description:     entities.LanguageMap(p.Description),
		LinkedIssues:    p.LinkedIssues,
		DurationMinutes: p.DurationMinutes,
		CreatedByType:   entities.AgendaAuthor(p.CreatedByType),
		CreatedByUserID: p.CreatedByUserID,
	}
}

// ToEntityList converts a payload slice into a domain agenda item list.
func ToEntityList(payloads []ItemPayload) entities.AgendaItemList {
	items := make(entities.AgendaItemList, 0, len(payloads))
	for _, p := range payloads {
		items = append(items, p.ToEntity())
	}
	return items
}
