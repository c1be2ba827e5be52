package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/anujdevsingh/gram-panchayat/internal/domain/entities"
)

// IssueSummaryRepository defines the interface for the per-panchayat
// outstanding-agenda aggregate. The compound writes pair the aggregate
// mutation with the issue flag/status updates so implementations can wrap
// both in one transaction.
type IssueSummaryRepository interface {
	// FindByPanchayat retrieves the aggregate, or nil when none exists yet
	FindByPanchayat(ctx context.Context, panchayatID uuid.UUID) (*entities.IssueSummary, error)

	// SaveWithFlags upserts the aggregate and flips isSummarized: false for
	// unlinkedIDs, true for linkedIDs
	SaveWithFlags(ctx context.Context, summary *entities.IssueSummary, unlinkedIDs, linkedIDs []string) error

	// SaveWithStatuses upserts the aggregate and sets issue lifecycle
	// statuses: PICKED_IN_AGENDA for claimedIDs, REPORTED for returnedIDs
	SaveWithStatuses(ctx context.Context, summary *entities.IssueSummary, claimedIDs, returnedIDs []string) error

	// DeleteWithFlags removes the aggregate and clears isSummarized on every
	// issue it linked; reports whether a document existed
	DeleteWithFlags(ctx context.Context, panchayatID uuid.UUID) (bool, error)

	// Save persists agenda/issue changes without touching issue rows
	Save(ctx context.Context, summary *entities.IssueSummary) error

	// ListAll retrieves every aggregate (translation job)
	ListAll(ctx context.Context) ([]*entities.IssueSummary, error)
}

// SummaryRequestRepository defines the interface for summarization call tracking
type SummaryRequestRepository interface {
	// Create records a freshly submitted request
	Create(ctx context.Context, request *entities.SummaryRequest) error

	// FindProcessingByPanchayat returns the in-flight request for a
	// panchayat, or nil — the single-flight guard
	FindProcessingByPanchayat(ctx context.Context, panchayatID uuid.UUID) (*entities.SummaryRequest, error)

	// ListProcessing retrieves all requests awaiting results
	ListProcessing(ctx context.Context) ([]*entities.SummaryRequest, error)

	// ListRetryable retrieves FAILED requests below the retry cap
	ListRetryable(ctx context.Context) ([]*entities.SummaryRequest, error)

	// Update persists status/retry bookkeeping changes
	Update(ctx context.Context, request *entities.SummaryRequest) error
}
