package agenda

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/anujdevsingh/gram-panchayat/errors"
	"github.com/anujdevsingh/gram-panchayat/internal/domain/entities"
	"github.com/anujdevsingh/gram-panchayat/internal/domain/repositories"
)

// Service keeps three views consistent under agenda mutation: the
// panchayat-wide outstanding-agenda aggregate, each meeting's agenda
// snapshot, and the issues' isSummarized/status fields.
type Service interface {
	// ApplyMeetingSelection reconciles the pool after a meeting's agenda is
	// created or edited: deselected items return to the pool, newly selected
	// items leave it, and linked issues move between REPORTED and
	// PICKED_IN_AGENDA accordingly.
	ApplyMeetingSelection(ctx context.Context, panchayatID uuid.UUID, selected, previous entities.AgendaItemList) error

	// ReplacePoolAgenda replaces the panchayat-wide agenda wholesale from a
	// client-submitted item list. An empty list deletes the aggregate and
	// releases every linked issue. Returns the resulting aggregate, or nil
	// when it was deleted.
	ReplacePoolAgenda(ctx context.Context, panchayatID, actingUserID uuid.UUID, items entities.AgendaItemList) (*entities.IssueSummary, error)

	// GetPoolAgenda fetches the current aggregate for a panchayat
	GetPoolAgenda(ctx context.Context, panchayatID uuid.UUID) (*entities.IssueSummary, error)
}

type service struct {
	summaries repositories.IssueSummaryRepository
	logger    *zap.Logger
}

// NewService constructs the agenda reconciliation service
func NewService(summaries repositories.IssueSummaryRepository, logger *zap.Logger) Service {
	return &service{
		summaries: summaries,
		logger:    logger,
	}
}

func (s *service) GetPoolAgenda(ctx context.Context, panchayatID uuid.UUID) (*entities.IssueSummary, error) {
	summary, err := s.summaries.FindByPanchayat(ctx, panchayatID)
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}
	if summary == nil {
		return nil, apperrors.ErrNotFound("issue summary")
	}
	return summary, nil
}

func (s *service) ApplyMeetingSelection(ctx context.Context, panchayatID uuid.UUID, selected, previous entities.AgendaItemList) error {
	summary, err := s.summaries.FindByPanchayat(ctx, panchayatID)
	if err != nil {
		return apperrors.ErrInternal(err)
	}
	if summary == nil {
		// Nothing to reconcile against; the meeting keeps its snapshot.
		return nil
	}

	diff := DiffSelection(selected, previous)
	if len(diff.Returned) == 0 && len(diff.Claimed) == 0 {
		return nil
	}

	summary.AgendaItems = applySelectionToPool(summary.AgendaItems, diff)
	summary.RecomputeIssues()

	claimedIssueIDs := diff.Claimed.LinkedIssueUnion()
	returnedIssueIDs := diff.Returned.LinkedIssueUnion()

	if err := s.summaries.SaveWithStatuses(ctx, summary, claimedIssueIDs, returnedIssueIDs); err != nil {
		return apperrors.ErrInternal(err)
	}

	s.logger.Info("meeting agenda selection reconciled",
		zap.String("panchayat_id", panchayatID.String()),
		zap.Int("claimed", len(diff.Claimed)),
		zap.Int("returned", len(diff.Returned)),
	)
	return nil
}

func (s *service) ReplacePoolAgenda(ctx context.Context, panchayatID, actingUserID uuid.UUID, items entities.AgendaItemList) (*entities.IssueSummary, error) {
	summary, err := s.summaries.FindByPanchayat(ctx, panchayatID)
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}

	// Empty submission is a documented destructive reset: drop the aggregate
	// and release every issue it linked.
	if len(items) == 0 {
		deleted, err := s.summaries.DeleteWithFlags(ctx, panchayatID)
		if err != nil {
			return nil, apperrors.ErrInternal(err)
		}
		if deleted {
			s.logger.Info("issue summary deleted on empty agenda submission",
				zap.String("panchayat_id", panchayatID.String()),
			)
		}
		return nil, nil
	}

	userItems := make(entities.AgendaItemList, 0, len(items))
	systemItems := make(entities.AgendaItemList, 0, len(items))
	for _, item := range items {
		switch item.CreatedByType {
		case entities.AgendaAuthorSystem:
			systemItems = append(systemItems, item)
		default:
			// Unlabelled submissions are treated as user-authored.
			item.CreatedByType = entities.AgendaAuthorUser
			if item.ID == "" {
				item.ID = uuid.NewString()
			}
			if item.CreatedByUserID == nil {
				author := actingUserID
				item.CreatedByUserID = &author
			}
			userItems = append(userItems, item)
		}
	}

	// Most-recently-submitted user item wins each contested issue id.
	dedupeLinkedIssues(userItems)

	merged := make(entities.AgendaItemList, 0, len(userItems)+len(systemItems))
	merged = append(merged, userItems...)
	merged = append(merged, systemItems...)

	if summary == nil {
		summary = entities.NewIssueSummary(panchayatID)
	}

	previousIssues := summary.Issues
	summary.AgendaItems = merged
	summary.RecomputeIssues()

	unlinked := diffIssueSets(previousIssues, summary.Issues)
	if err := s.summaries.SaveWithFlags(ctx, summary, unlinked, summary.Issues); err != nil {
		return nil, apperrors.ErrInternal(err)
	}

	s.logger.Info("pool agenda replaced",
		zap.String("panchayat_id", panchayatID.String()),
		zap.Int("user_items", len(userItems)),
		zap.Int("system_items", len(systemItems)),
		zap.Int("linked_issues", len(summary.Issues)),
		zap.Int("unlinked_issues", len(unlinked)),
	)
	return summary, nil
}
