package entities

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// IssueStatus tracks an issue through its lifecycle
type IssueStatus string

const (
	IssueStatusReported           IssueStatus = "REPORTED"
	IssueStatusPickedInAgenda     IssueStatus = "PICKED_IN_AGENDA"
	IssueStatusDiscussedInSabha   IssueStatus = "DISCUSSED_IN_GRAM_SABHA"
	IssueStatusTransferred        IssueStatus = "TRANSFERRED"
	IssueStatusResolved           IssueStatus = "RESOLVED"
	IssueStatusNoActionNeeded     IssueStatus = "NO_ACTION_NEEDED"
)

// IssuePriority marks urgency
type IssuePriority string

const (
	IssuePriorityUrgent IssuePriority = "URGENT"
	IssuePriorityNormal IssuePriority = "NORMAL"
)

// IssueCategory is the top-level grievance classification
type IssueCategory string

const (
	CategoryCultureAndNature     IssueCategory = "CULTURE_AND_NATURE"
	CategoryInfrastructure       IssueCategory = "INFRASTRUCTURE"
	CategoryEarningOpportunities IssueCategory = "EARNING_OPPORTUNITIES"
	CategoryBasicAmenities       IssueCategory = "BASIC_AMENITIES"
	CategorySocialWelfareSchemes IssueCategory = "SOCIAL_WELFARE_SCHEMES"
	CategoryOther                IssueCategory = "OTHER"
)

// TranscriptionStatus tracks the async speech-to-text state of an issue
type TranscriptionStatus string

const (
	TranscriptionStatusPending    TranscriptionStatus = "PENDING"
	TranscriptionStatusProcessing TranscriptionStatus = "PROCESSING"
	TranscriptionStatusCompleted  TranscriptionStatus = "COMPLETED"
	TranscriptionStatusFailed     TranscriptionStatus = "FAILED"
)

// TranscriptionMaxRetries bounds automatic resubmission of failed
// speech-to-text requests.
const TranscriptionMaxRetries = 3

// Transcription is the embedded speech-to-text state of an issue, including
// the multi-language short descriptions filled in by the summarizer.
type Transcription struct {
	RequestID       string              `json:"request_id,omitempty"`
	Status          TranscriptionStatus `json:"status,omitempty"`
	Text            string              `json:"text,omitempty"`
	EnhancedEnglish string              `json:"enhanced_english,omitempty"`
	EnhancedHindi   string              `json:"enhanced_hindi,omitempty"`
	Description     LanguageMap         `json:"description,omitempty"`
	Language        string              `json:"language,omitempty"`
	Provider        string              `json:"provider,omitempty"`
	RequestedAt     *time.Time          `json:"requested_at,omitempty"`
	CompletedAt     *time.Time          `json:"completed_at,omitempty"`
	RetryCount      int                 `json:"retry_count,omitempty"`
	LastError       string              `json:"last_error,omitempty"`
}

// Scan implements sql.Scanner interface for GORM
func (t *Transcription) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, t)
}

// Value implements driver.Valuer interface for GORM
func (t Transcription) Value() (driver.Value, error) {
	return json.Marshal(t)
}

// IsRetryable reports whether a failed transcription still has retry budget
func (t Transcription) IsRetryable() bool {
	return t.Status == TranscriptionStatusFailed && t.RetryCount < TranscriptionMaxRetries
}

// SummaryText returns the text handed to the summarizer, preferring the
// enhanced English transcription over the raw one.
func (t Transcription) SummaryText() string {
	if t.EnhancedEnglish != "" {
		return t.EnhancedEnglish
	}
	return t.Text
}

// Attachment stores an object-storage reference for an issue upload
type Attachment struct {
	ObjectKey  string    `json:"object_key"`
	Filename   string    `json:"filename,omitempty"`
	MimeType   string    `json:"mime_type,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// AttachmentList is the jsonb-persisted attachment set of an issue
type AttachmentList []Attachment

// Scan implements sql.Scanner interface for GORM
func (l *AttachmentList) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, l)
}

// Value implements driver.Valuer interface for GORM
func (l AttachmentList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal(AttachmentList{})
	}
	return json.Marshal(l)
}

// Issue is a citizen-reported grievance or suggestion
type Issue struct {
	ID            uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Text          string         `json:"text,omitempty" gorm:"type:text"`
	Category      IssueCategory  `json:"category" gorm:"type:varchar(50);not null;index"`
	Subcategory   string         `json:"subcategory" gorm:"type:varchar(50);not null"`
	Priority      IssuePriority  `json:"priority" gorm:"type:varchar(20);default:'NORMAL'"`
	Status        IssueStatus    `json:"status" gorm:"type:varchar(50);not null;index;default:'REPORTED'"`
	PanchayatID   uuid.UUID      `json:"panchayat_id" gorm:"type:uuid;not null;index"`
	GramSabhaID   *uuid.UUID     `json:"gram_sabha_id,omitempty" gorm:"type:uuid;index"`
	CreatorID     uuid.UUID      `json:"creator_id" gorm:"type:uuid;not null"`
	CreatedForID  uuid.UUID      `json:"created_for_id" gorm:"type:uuid;not null"`
	Remark        string         `json:"remark,omitempty" gorm:"type:text"`
	IsSummarized  bool           `json:"is_summarized" gorm:"not null;index;default:false"`
	Transcription Transcription  `json:"transcription" gorm:"type:jsonb;serializer:json"`
	Attachments   AttachmentList `json:"attachments,omitempty" gorm:"type:jsonb;serializer:json"`
	CreatedAt     time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// NewIssue creates a reported issue for a panchayat
func NewIssue(panchayatID, creatorID, createdForID uuid.UUID, category IssueCategory, subcategory string) *Issue {
	return &Issue{
		ID:           uuid.New(),
		Category:     category,
		Subcategory:  subcategory,
		Priority:     IssuePriorityNormal,
		Status:       IssueStatusReported,
		PanchayatID:  panchayatID,
		CreatorID:    creatorID,
		CreatedForID: createdForID,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

// ReadyForSummary reports whether the issue is eligible for agenda
// summarization: transcription finished and not yet claimed by a summary.
func (i *Issue) ReadyForSummary() bool {
	return !i.IsSummarized && i.Transcription.Status == TranscriptionStatusCompleted
}

// TableName specifies the table name for GORM
func (Issue) TableName() string {
	return "issues"
}
