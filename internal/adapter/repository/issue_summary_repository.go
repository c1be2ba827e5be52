package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/anujdevsingh/gram-panchayat/internal/domain/entities"
)

// IssueSummaryRepository handles the per-panchayat outstanding-agenda
// aggregate. The compound writes keep the aggregate and the issue rows in
// one transaction.
type IssueSummaryRepository struct {
	db *gorm.DB
}

// NewIssueSummaryRepository creates a new issue summary repository
func NewIssueSummaryRepository(db *gorm.DB) *IssueSummaryRepository {
	return &IssueSummaryRepository{db: db}
}

// FindByPanchayat retrieves the aggregate, or nil when none exists yet
func (r *IssueSummaryRepository) FindByPanchayat(ctx context.Context, panchayatID uuid.UUID) (*entities.IssueSummary, error) {
	var summary entities.IssueSummary
	if err := r.db.WithContext(ctx).Where("panchayat_id = ?", panchayatID).First(&summary).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &summary, nil
}

// Save upserts the aggregate without touching issue rows
func (r *IssueSummaryRepository) Save(ctx context.Context, summary *entities.IssueSummary) error {
	if summary == nil {
		return errors.New("summary cannot be nil")
	}
	return upsertSummary(r.db.WithContext(ctx), summary)
}

// SaveWithFlags upserts the aggregate and flips isSummarized: false for
// unlinkedIDs, true for linkedIDs
func (r *IssueSummaryRepository) SaveWithFlags(ctx context.Context, summary *entities.IssueSummary, unlinkedIDs, linkedIDs []string) error {
	if summary == nil {
		return errors.New("summary cannot be nil")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertSummary(tx, summary); err != nil {
			return err
		}
		if err := setSummarized(tx, unlinkedIDs, false); err != nil {
			return err
		}
		return setSummarized(tx, linkedIDs, true)
	})
}

// SaveWithStatuses upserts the aggregate and sets issue lifecycle statuses:
// PICKED_IN_AGENDA for claimedIDs, REPORTED for returnedIDs
func (r *IssueSummaryRepository) SaveWithStatuses(ctx context.Context, summary *entities.IssueSummary, claimedIDs, returnedIDs []string) error {
	if summary == nil {
		return errors.New("summary cannot be nil")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertSummary(tx, summary); err != nil {
			return err
		}
		if err := setStatus(tx, claimedIDs, entities.IssueStatusPickedInAgenda); err != nil {
			return err
		}
		return setStatus(tx, returnedIDs, entities.IssueStatusReported)
	})
}

// DeleteWithFlags removes the aggregate and clears isSummarized on every
// issue it linked; reports whether a document existed
func (r *IssueSummaryRepository) DeleteWithFlags(ctx context.Context, panchayatID uuid.UUID) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var summary entities.IssueSummary
		if err := tx.Where("panchayat_id = ?", panchayatID).First(&summary).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := setSummarized(tx, summary.Issues, false); err != nil {
			return err
		}
		if err := tx.Where("panchayat_id = ?", panchayatID).Delete(&entities.IssueSummary{}).Error; err != nil {
			return err
		}
		deleted = true
		return nil
	})
	return deleted, err
}

// ListAll retrieves every aggregate
func (r *IssueSummaryRepository) ListAll(ctx context.Context) ([]*entities.IssueSummary, error) {
	var summaries []*entities.IssueSummary
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&summaries).Error; err != nil {
		return nil, err
	}
	return summaries, nil
}

// upsertSummary inserts or replaces on the panchayat_id unique index
func upsertSummary(tx *gorm.DB, summary *entities.IssueSummary) error {
	summary.UpdatedAt = time.Now()
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "panchayat_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"agenda_items", "issues", "updated_at",
		}),
	}).Create(summary).Error
}

func setSummarized(tx *gorm.DB, ids []string, summarized bool) error {
	if len(ids) == 0 {
		return nil
	}
	return tx.Model(&entities.Issue{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"is_summarized": summarized,
			"updated_at":    time.Now(),
		}).Error
}

func setStatus(tx *gorm.DB, ids []string, status entities.IssueStatus) error {
	if len(ids) == 0 {
		return nil
	}
	return tx.Model(&entities.Issue{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}
