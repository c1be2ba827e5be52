package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anujdevsingh/gram-panchayat/internal/domain/entities"
)

// SummaryRequestRepository handles summarization call tracking
type SummaryRequestRepository struct {
	db *gorm.DB
}

// NewSummaryRequestRepository creates a new summary request repository
func NewSummaryRequestRepository(db *gorm.DB) *SummaryRequestRepository {
	return &SummaryRequestRepository{db: db}
}

// Create records a freshly submitted request
func (r *SummaryRequestRepository) Create(ctx context.Context, request *entities.SummaryRequest) error {
	if request == nil {
		return errors.New("request cannot be nil")
	}
	return r.db.WithContext(ctx).Create(request).Error
}

// FindProcessingByPanchayat returns the in-flight request for a panchayat,
// or nil. This is the single-flight guard.
func (r *SummaryRequestRepository) FindProcessingByPanchayat(ctx context.Context, panchayatID uuid.UUID) (*entities.SummaryRequest, error) {
	var request entities.SummaryRequest
	if err := r.db.WithContext(ctx).
		Where("panchayat_id = ? AND status = ?", panchayatID, entities.SummaryRequestStatusProcessing).
		Order("created_at DESC").
		First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

// ListProcessing retrieves all requests awaiting results
func (r *SummaryRequestRepository) ListProcessing(ctx context.Context) ([]*entities.SummaryRequest, error) {
	var requests []*entities.SummaryRequest
	if err := r.db.WithContext(ctx).
		Where("status = ?", entities.SummaryRequestStatusProcessing).
		Order("created_at ASC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// ListRetryable retrieves FAILED requests below the retry cap
func (r *SummaryRequestRepository) ListRetryable(ctx context.Context) ([]*entities.SummaryRequest, error) {
	var requests []*entities.SummaryRequest
	if err := r.db.WithContext(ctx).
		Where("status = ? AND retry_count < max_retries", entities.SummaryRequestStatusFailed).
		Order("updated_at ASC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// Update persists status/retry bookkeeping changes
func (r *SummaryRequestRepository) Update(ctx context.Context, request *entities.SummaryRequest) error {
	if request == nil {
		return errors.New("request cannot be nil")
	}
	return r.db.WithContext(ctx).
		Model(&entities.SummaryRequest{}).
		Where("id = ?", request.ID).
		Save(request).Error
}
