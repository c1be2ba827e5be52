package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anujdevsingh/gram-panchayat/internal/domain/entities"
	domainrepo "github.com/anujdevsingh/gram-panchayat/internal/domain/repositories"
)

// IssueRepository handles issue data operations
type IssueRepository struct {
	db *gorm.DB
}

// NewIssueRepository creates a new issue repository
func NewIssueRepository(db *gorm.DB) *IssueRepository {
	return &IssueRepository{db: db}
}

// Create creates a new issue
func (r *IssueRepository) Create(ctx context.Context, issue *entities.Issue) error {
	if issue == nil {
		return errors.New("issue cannot be nil")
	}
	return r.db.WithContext(ctx).Create(issue).Error
}

// FindByID retrieves an issue by ID
func (r *IssueRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Issue, error) {
	var issue entities.Issue
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&issue).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &issue, nil
}

// Update updates an existing issue
func (r *IssueRepository) Update(ctx context.Context, issue *entities.Issue) error {
	if issue == nil {
		return errors.New("issue cannot be nil")
	}
	return r.db.WithContext(ctx).
		Model(&entities.Issue{}).
		Where("id = ?", issue.ID).
		Save(issue).Error
}

// List retrieves issues with filters and pagination
func (r *IssueRepository) List(ctx context.Context, filters domainrepo.IssueFilters) ([]*entities.Issue, int64, error) {
	query := r.db.WithContext(ctx).Model(&entities.Issue{})
	if filters.PanchayatID != nil {
		query = query.Where("panchayat_id = ?", *filters.PanchayatID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Category != nil {
		query = query.Where("category = ?", *filters.Category)
	}
	if filters.CreatorID != nil {
		query = query.Where("creator_id = ?", *filters.CreatorID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}

	var issues []*entities.Issue
	if err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(filters.Offset).
		Find(&issues).Error; err != nil {
		return nil, 0, err
	}
	return issues, total, nil
}

// FindReadyForSummary retrieves issues with completed transcriptions that
// have not yet been claimed by any agenda item
func (r *IssueRepository) FindReadyForSummary(ctx context.Context, panchayatID uuid.UUID) ([]*entities.Issue, error) {
	var issues []*entities.Issue
	if err := r.db.WithContext(ctx).
		Where("panchayat_id = ? AND is_summarized = ? AND transcription->>'status' = ?",
			panchayatID, false, string(entities.TranscriptionStatusCompleted)).
		Order("created_at ASC").
		Find(&issues).Error; err != nil {
		return nil, err
	}
	return issues, nil
}

// FindPendingTranscriptions retrieves issues whose speech-to-text request is
// still in flight, plus failed ones with retry budget left
func (r *IssueRepository) FindPendingTranscriptions(ctx context.Context, limit int) ([]*entities.Issue, error) {
	if limit <= 0 {
		limit = 50
	}
	var issues []*entities.Issue
	if err := r.db.WithContext(ctx).
		Where("transcription->>'status' IN ? OR (transcription->>'status' = ? AND COALESCE((transcription->>'retry_count')::int, 0) < ?)",
			[]string{
				string(entities.TranscriptionStatusPending),
				string(entities.TranscriptionStatusProcessing),
			},
			string(entities.TranscriptionStatusFailed),
			entities.TranscriptionMaxRetries,
		).
		Order("created_at ASC").
		Limit(limit).
		Find(&issues).Error; err != nil {
		return nil, err
	}
	return issues, nil
}

// UpdateStatusByIDs sets the lifecycle status for a batch of issues
func (r *IssueRepository) UpdateStatusByIDs(ctx context.Context, ids []string, status entities.IssueStatus) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&entities.Issue{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

// SetSummarizedByIDs flips the isSummarized flag for a batch of issues
func (r *IssueRepository) SetSummarizedByIDs(ctx context.Context, ids []string, summarized bool) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&entities.Issue{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"is_summarized": summarized,
			"updated_at":    time.Now(),
		}).Error
}

// SetDescriptions merges per-language short descriptions into the
// transcription sub-documents of the given issues. Issues that no longer
// exist are skipped.
func (r *IssueRepository) SetDescriptions(ctx context.Context, descriptions map[string]entities.LanguageMap) error {
	if len(descriptions) == 0 {
		return nil
	}

	ids := make([]string, 0, len(descriptions))
	for id := range descriptions {
		ids = append(ids, id)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var issues []*entities.Issue
		if err := tx.Where("id IN ?", ids).Find(&issues).Error; err != nil {
			return err
		}
		for _, issue := range issues {
			incoming := descriptions[issue.ID.String()]
			if len(incoming) == 0 {
				continue
			}
			if issue.Transcription.Description == nil {
				issue.Transcription.Description = entities.LanguageMap{}
			}
			for lang, text := range incoming {
				issue.Transcription.Description[lang] = text
			}
			if err := tx.Model(&entities.Issue{}).
				Where("id = ?", issue.ID).
				Updates(map[string]interface{}{
					"transcription": issue.Transcription,
					"updated_at":    time.Now(),
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
