package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/anujdevsingh/gram-panchayat/internal/domain/entities"
)

// IssueRepository defines the interface for issue data access
type IssueRepository interface {
	// Create creates a new issue
	Create(ctx context.Context, issue *entities.Issue) error

	// FindByID retrieves an issue by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Issue, error)

	// Update updates an existing issue
	Update(ctx context.Context, issue *entities.Issue) error

	// List retrieves issues with filters and pagination
	List(ctx context.Context, filters IssueFilters) ([]*entities.Issue, int64, error)

	// FindReadyForSummary retrieves issues with completed transcriptions
	// that have not yet been claimed by any agenda item
	FindReadyForSummary(ctx context.Context, panchayatID uuid.UUID) ([]*entities.Issue, error)

	// FindPendingTranscriptions retrieves issues whose speech-to-text
	// request is still in flight, plus failed ones with retry budget left
	FindPendingTranscriptions(ctx context.Context, limit int) ([]*entities.Issue, error)

	// UpdateStatusByIDs sets the lifecycle status for a batch of issues
	UpdateStatusByIDs(ctx context.Context, ids []string, status entities.IssueStatus) error

	// SetSummarizedByIDs flips the isSummarized flag for a batch of issues
	SetSummarizedByIDs(ctx context.Context, ids []string, summarized bool) error

	// SetDescriptions merges per-language short descriptions into the
	// transcription sub-documents of the given issues
	SetDescriptions(ctx context.Context, descriptions map[string]entities.LanguageMap) error
}

// IssueFilters represents filter options for listing issues
type IssueFilters struct {
	PanchayatID *uuid.UUID
	Status      *entities.IssueStatus
	Category    *entities.IssueCategory
	CreatorID   *uuid.UUID
	Limit       int
	Offset      int
}
