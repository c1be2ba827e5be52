package entities

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// IssueIDList is a jsonb-persisted set of issue id strings
type IssueIDList []string

// Scan implements sql.Scanner interface for GORM
func (l *IssueIDList) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, l)
}

// Value implements driver.Valuer interface for GORM
func (l IssueIDList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal(IssueIDList{})
	}
	return json.Marshal(l)
}

// Contains reports whether the given issue id is in the list
func (l IssueIDList) Contains(id string) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// IssueSummary is the panchayat-wide outstanding agenda: the pool of agenda
// items not yet claimed by any meeting, plus the flattened set of issue ids
// linked from those items. One document per panchayat; created lazily on the
// first agenda mutation or summary completion, deleted when emptied.
type IssueSummary struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	PanchayatID uuid.UUID      `json:"panchayat_id" gorm:"type:uuid;not null;uniqueIndex"`
	AgendaItems AgendaItemList `json:"agenda_items" gorm:"type:jsonb;serializer:json"`
	Issues      IssueIDList    `json:"issues" gorm:"type:jsonb;serializer:json"`
	CreatedAt   time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// NewIssueSummary creates an empty summary for a panchayat
func NewIssueSummary(panchayatID uuid.UUID) *IssueSummary {
	return &IssueSummary{
		ID:          uuid.New(),
		PanchayatID: panchayatID,
		AgendaItems: AgendaItemList{},
		Issues:      IssueIDList{},
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

// RecomputeIssues rebuilds the flattened issue set from the agenda items.
// Invariant: Issues always equals the union of the items' linked issues.
func (s *IssueSummary) RecomputeIssues() {
	s.Issues = IssueIDList(s.AgendaItems.LinkedIssueUnion())
}

// TableName specifies the table name for GORM
func (IssueSummary) TableName() string {
	return "issue_summaries"
}
