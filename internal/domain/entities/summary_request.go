package entities

import (
	"time"

	"github.com/google/uuid"
)

// SummaryRequestStatus represents the status of an outstanding summarization call
type SummaryRequestStatus string

const (
	SummaryRequestStatusPending    SummaryRequestStatus = "PENDING"
	SummaryRequestStatusProcessing SummaryRequestStatus = "PROCESSING" // submitted, awaiting result
	SummaryRequestStatusCompleted  SummaryRequestStatus = "COMPLETED"  // result folded into the summary
	SummaryRequestStatusFailed     SummaryRequestStatus = "FAILED"     // retried while retry_count < max_retries
)

// SummaryRequestType distinguishes fresh generation from incremental update
type SummaryRequestType string

const (
	SummaryRequestTypeCreate SummaryRequestType = "CREATE"
	SummaryRequestTypeUpdate SummaryRequestType = "UPDATE"
)

// SummaryRequest tracks one call to the external agenda-generation service.
// At most one PROCESSING request may exist per panchayat at a time; the
// scheduled jobs rely on this as their single-flight guard.
type SummaryRequest struct {
	ID          uuid.UUID            `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	RequestID   string               `json:"request_id" gorm:"type:varchar(255);not null;uniqueIndex"`
	PanchayatID uuid.UUID            `json:"panchayat_id" gorm:"type:uuid;not null;index"`
	RequestType SummaryRequestType   `json:"request_type" gorm:"type:varchar(20);not null"`
	Status      SummaryRequestStatus `json:"status" gorm:"type:varchar(20);not null;index;default:'PROCESSING'"`
	StatusURL   string               `json:"status_url" gorm:"type:text;not null"`
	ResultURL   string               `json:"result_url" gorm:"type:text;not null"`
	RetryCount  int                  `json:"retry_count" gorm:"type:integer;default:0"`
	MaxRetries  int                  `json:"max_retries" gorm:"type:integer;default:3"`
	LastError   *string              `json:"last_error,omitempty" gorm:"type:text"`
	LastRetryAt *time.Time           `json:"last_retry_at,omitempty" gorm:"type:timestamp"`
	CreatedAt   time.Time            `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time            `json:"updated_at" gorm:"autoUpdateTime"`
}

// NewSummaryRequest records a freshly submitted summarization call
func NewSummaryRequest(panchayatID uuid.UUID, requestType SummaryRequestType, requestID, statusURL, resultURL string) *SummaryRequest {
	return &SummaryRequest{
		ID:          uuid.New(),
		RequestID:   requestID,
		PanchayatID: panchayatID,
		RequestType: requestType,
		Status:      SummaryRequestStatusProcessing,
		StatusURL:   statusURL,
		ResultURL:   resultURL,
		RetryCount:  0,
		MaxRetries:  3,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

// IsRetryable checks if the request can still be resubmitted
func (r *SummaryRequest) IsRetryable() bool {
	return r.Status == SummaryRequestStatusFailed && r.RetryCount < r.MaxRetries
}

// MarkAsCompleted marks the request as folded into the summary.
// No transition may leave COMPLETED.
func (r *SummaryRequest) MarkAsCompleted() {
	r.Status = SummaryRequestStatusCompleted
	r.UpdatedAt = time.Now()
}

// MarkAsFailed records the failure reason
func (r *SummaryRequest) MarkAsFailed(errMsg string) {
	r.Status = SummaryRequestStatusFailed
	r.LastError = &errMsg
	r.UpdatedAt = time.Now()
}

// MarkAsResubmitted moves a failed request back to PROCESSING under a fresh
// external request id, consuming one retry.
func (r *SummaryRequest) MarkAsResubmitted(requestID, statusURL, resultURL string) {
	now := time.Now()
	r.RequestID = requestID
	r.StatusURL = statusURL
	r.ResultURL = resultURL
	r.Status = SummaryRequestStatusProcessing
	r.RetryCount++
	r.LastError = nil
	r.LastRetryAt = &now
	r.UpdatedAt = now
}

// TableName specifies the table name for GORM
func (SummaryRequest) TableName() string {
	return "summary_requests"
}
