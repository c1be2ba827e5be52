package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anujdevsingh/gram-panchayat/internal/domain/entities"
)

// GramSabhaRepository handles meeting data operations
type GramSabhaRepository struct {
	db *gorm.DB
}

// NewGramSabhaRepository creates a new gram sabha repository
func NewGramSabhaRepository(db *gorm.DB) *GramSabhaRepository {
	return &GramSabhaRepository{db: db}
}

// Create creates a new meeting
func (r *GramSabhaRepository) Create(ctx context.Context, meeting *entities.GramSabha) error {
	if meeting == nil {
		return errors.New("meeting cannot be nil")
	}
	return r.db.WithContext(ctx).Create(meeting).Error
}

// FindByID retrieves a meeting by ID
func (r *GramSabhaRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.GramSabha, error) {
	var meeting entities.GramSabha
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&meeting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &meeting, nil
}

// Update updates an existing meeting
func (r *GramSabhaRepository) Update(ctx context.Context, meeting *entities.GramSabha) error {
	if meeting == nil {
		return errors.New("meeting cannot be nil")
	}
	return r.db.WithContext(ctx).
		Model(&entities.GramSabha{}).
		Where("id = ?", meeting.ID).
		Save(meeting).Error
}

// ListByPanchayat retrieves meetings for a panchayat, newest first
func (r *GramSabhaRepository) ListByPanchayat(ctx context.Context, panchayatID uuid.UUID, limit, offset int) ([]*entities.GramSabha, error) {
	if limit <= 0 {
		limit = 50
	}
	var meetings []*entities.GramSabha
	if err := r.db.WithContext(ctx).
		Where("panchayat_id = ?", panchayatID).
		Order("date_time DESC").
		Limit(limit).
		Offset(offset).
		Find(&meetings).Error; err != nil {
		return nil, err
	}
	return meetings, nil
}

// ListActive retrieves meetings that are SCHEDULED or IN_PROGRESS
func (r *GramSabhaRepository) ListActive(ctx context.Context) ([]*entities.GramSabha, error) {
	var meetings []*entities.GramSabha
	if err := r.db.WithContext(ctx).
		Where("status IN ?", []string{
			string(entities.GramSabhaStatusScheduled),
			string(entities.GramSabhaStatusInProgress),
		}).
		Order("date_time ASC").
		Find(&meetings).Error; err != nil {
		return nil, err
	}
	return meetings, nil
}

// ListUpcoming retrieves meetings scheduled at or after the given time
func (r *GramSabhaRepository) ListUpcoming(ctx context.Context, after time.Time) ([]*entities.GramSabha, error) {
	var meetings []*entities.GramSabha
	if err := r.db.WithContext(ctx).
		Where("date_time >= ?", after).
		Order("date_time ASC").
		Find(&meetings).Error; err != nil {
		return nil, err
	}
	return meetings, nil
}
