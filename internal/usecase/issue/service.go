package issue

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/anujdevsingh/gram-panchayat/errors"
	"github.com/anujdevsingh/gram-panchayat/internal/domain/entities"
	domainrepo "github.com/anujdevsingh/gram-panchayat/internal/domain/repositories"
)

// ObjectStore persists issue attachments
type ObjectStore interface {
	UploadAttachment(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error
}

// CreateInput holds the fields for reporting an issue
type CreateInput struct {
	PanchayatID  uuid.UUID
	CreatorID    uuid.UUID
	CreatedForID uuid.UUID
	Category     entities.IssueCategory
	Subcategory  string
	Text         string
	Priority     entities.IssuePriority
}

// AttachmentUpload is one uploaded file
type AttachmentUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Service manages the issue lifecycle up to the point the summarization
// pipeline takes over.
type Service interface {
	Create(ctx context.Context, input CreateInput, uploads []AttachmentUpload) (*entities.Issue, error)
	Get(ctx context.Context, id uuid.UUID) (*entities.Issue, error)
	List(ctx context.Context, filters domainrepo.IssueFilters) ([]*entities.Issue, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.IssueStatus, remark string) (*entities.Issue, error)
}

type service struct {
	issues domainrepo.IssueRepository
	store  ObjectStore
	logger *zap.Logger
}

// NewService constructs the issue service
func NewService(issues domainrepo.IssueRepository, store ObjectStore, logger *zap.Logger) Service {
	return &service{
		issues: issues,
		store:  store,
		logger: logger,
	}
}

func (s *service) Create(ctx context.Context, input CreateInput, uploads []AttachmentUpload) (*entities.Issue, error) {
	if input.Category == "" {
		return nil, apperrors.ErrInvalidArgument("category is required")
	}
	if input.Text == "" && len(uploads) == 0 {
		return nil, apperrors.ErrInvalidArgument("issue needs text or an attachment")
	}

	issue := entities.NewIssue(input.PanchayatID, input.CreatorID, input.CreatedForID, input.Category, input.Subcategory)
	issue.Text = input.Text
	if input.Priority != "" {
		issue.Priority = input.Priority
	}

	hasAudio := false
	for _, upload := range uploads {
		objectKey := fmt.Sprintf("issues/%s/%s%s", issue.ID, uuid.NewString(), path.Ext(upload.Filename))
		if err := s.store.UploadAttachment(ctx, objectKey, upload.Reader, upload.Size, upload.ContentType); err != nil {
			return nil, apperrors.ErrStorageFailed("upload attachment", err)
		}
		issue.Attachments = append(issue.Attachments, entities.Attachment{
			ObjectKey:  objectKey,
			Filename:   upload.Filename,
			MimeType:   upload.ContentType,
			UploadedAt: time.Now(),
		})
		if strings.HasPrefix(upload.ContentType, "audio/") {
			hasAudio = true
		}
	}

	// Audio issues enter the transcription pipeline; text-only ones are
	// immediately eligible for summarization.
	if hasAudio {
		issue.Transcription.Status = entities.TranscriptionStatusPending
	} else {
		now := time.Now()
		issue.Transcription.Status = entities.TranscriptionStatusCompleted
		issue.Transcription.Text = input.Text
		issue.Transcription.CompletedAt = &now
	}

	if err := s.issues.Create(ctx, issue); err != nil {
		return nil, apperrors.ErrInternal(err)
	}

	s.logger.Info("issue reported",
		zap.String("issue_id", issue.ID.String()),
		zap.String("panchayat_id", input.PanchayatID.String()),
		zap.String("category", string(input.Category)),
		zap.Int("attachments", len(uploads)),
	)
	return issue, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*entities.Issue, error) {
	issue, err := s.issues.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}
	if issue == nil {
		return nil, apperrors.ErrNotFound("issue")
	}
	return issue, nil
}

func (s *service) List(ctx context.Context, filters domainrepo.IssueFilters) ([]*entities.Issue, int64, error) {
	issues, total, err := s.issues.List(ctx, filters)
	if err != nil {
		return nil, 0, apperrors.ErrInternal(err)
	}
	return issues, total, nil
}

// UpdateStatus sets an issue's lifecycle status. PICKED_IN_AGENDA is owned
// by the agenda reconciliation and cannot be set directly.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.IssueStatus, remark string) (*entities.Issue, error) {
	if status == entities.IssueStatusPickedInAgenda {
		return nil, apperrors.ErrInvalidArgument("status PICKED_IN_AGENDA is set by agenda selection")
	}

	issue, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	issue.Status = status
	if remark != "" {
		issue.Remark = remark
	}
	if err := s.issues.Update(ctx, issue); err != nil {
		return nil, apperrors.ErrInternal(err)
	}
	return issue, nil
}
