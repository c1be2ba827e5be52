package entities

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// LanguageMap holds language-code keyed text (e.g. {"en": ..., "hi": ...}).
// There is no fixed key set; a missing key means "no translation yet".
type LanguageMap map[string]string

// Scan implements sql.Scanner interface for GORM
func (m *LanguageMap) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, m)
}

// Value implements driver.Valuer interface for GORM
func (m LanguageMap) Value() (driver.Value, error) {
	if m == nil {
		return json.Marshal(LanguageMap{})
	}
	return json.Marshal(m)
}

// English returns the English text, or "" when no translation exists yet.
func (m LanguageMap) English() string {
	return m["en"]
}

// LanguageCode maps a language name to the code used as a LanguageMap key.
// External services exchange language names ("english", "hindi"); the maps
// key on codes.
func LanguageCode(language string) string {
	switch strings.ToLower(language) {
	case "english", "en":
		return "en"
	case "hindi", "hi":
		return "hi"
	default:
		return strings.ToLower(language)
	}
}

// AgendaAuthor identifies who created an agenda item
type AgendaAuthor string

const (
	AgendaAuthorUser   AgendaAuthor = "USER"   // authored by an official
	AgendaAuthorSystem AgendaAuthor = "SYSTEM" // produced by the summarization pipeline
)

// ErrMissingAuthor is returned when a USER item carries no author id.
var ErrMissingAuthor = errors.New("user agenda item requires created_by_user_id")

// AgendaItem is a discussion topic, embedded in both the panchayat-wide
// issue summary and in a Gram Sabha meeting's agenda snapshot. The ID is
// generated once at creation and survives merges, so clients can diff by id.
type AgendaItem struct {
	ID              string       `json:"id"`
	Title           LanguageMap  `json:"title"`
	Description     LanguageMap  `json:"description"`
	LinkedIssues    []string     `json:"linked_issues"`
	DurationMinutes int          `json:"duration_minutes,omitempty"`
	CreatedByType   AgendaAuthor `json:"created_by_type"`
	CreatedByUserID *uuid.UUID   `json:"created_by_user_id,omitempty"`
}

// NewUserAgendaItem creates an official-authored agenda item
func NewUserAgendaItem(title, description LanguageMap, linkedIssues []string, authorID uuid.UUID) AgendaItem {
	return AgendaItem{
		ID:              uuid.NewString(),
		Title:           title,
		Description:     description,
		LinkedIssues:    linkedIssues,
		CreatedByType:   AgendaAuthorUser,
		CreatedByUserID: &authorID,
	}
}

// NewSystemAgendaItem creates a summarizer-generated agenda item
func NewSystemAgendaItem(title, description LanguageMap, linkedIssues []string) AgendaItem {
	return AgendaItem{
		ID:            uuid.NewString(),
		Title:         title,
		Description:   description,
		LinkedIssues:  linkedIssues,
		CreatedByType: AgendaAuthorSystem,
	}
}

// IsUser reports whether an official authored this item
func (a AgendaItem) IsUser() bool {
	return a.CreatedByType == AgendaAuthorUser
}

// Validate enforces the authorship invariant: USER items must name their
// author; SYSTEM items must not.
func (a AgendaItem) Validate() error {
	switch a.CreatedByType {
	case AgendaAuthorUser:
		if a.CreatedByUserID == nil {
			return ErrMissingAuthor
		}
	case AgendaAuthorSystem:
		// author id on a SYSTEM item is ignored, not an error
	default:
		return errors.New("unknown agenda item author type")
	}
	return nil
}

// EnglishTitleKey returns the trimmed English title used when matching
// SYSTEM items against USER items during summary folding.
func (a AgendaItem) EnglishTitleKey() string {
	return strings.TrimSpace(a.Title.English())
}

// AgendaItemList is the jsonb-persisted agenda of a summary or meeting
type AgendaItemList []AgendaItem

// Scan implements sql.Scanner interface for GORM
func (l *AgendaItemList) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, l)
}

// Value implements driver.Valuer interface for GORM
func (l AgendaItemList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal(AgendaItemList{})
	}
	return json.Marshal(l)
}

// LinkedIssueUnion returns every linked issue id exactly once, in first-seen
// order across the list.
func (l AgendaItemList) LinkedIssueUnion() []string {
	seen := make(map[string]struct{})
	union := make([]string, 0)
	for _, item := range l {
		for _, id := range item.LinkedIssues {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			union = append(union, id)
		}
	}
	return union
}

// UserItems returns the official-authored items in order
func (l AgendaItemList) UserItems() AgendaItemList {
	out := make(AgendaItemList, 0, len(l))
	for _, item := range l {
		if item.IsUser() {
			out = append(out, item)
		}
	}
	return out
}

// SystemItems returns the summarizer-generated items in order
func (l AgendaItemList) SystemItems() AgendaItemList {
	out := make(AgendaItemList, 0, len(l))
	for _, item := range l {
		if !item.IsUser() {
			out = append(out, item)
		}
	}
	return out
}
