package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anujdevsingh/gram-panchayat/internal/domain/entities"
)

// PanchayatRepository handles panchayat data operations
type PanchayatRepository struct {
	db *gorm.DB
}

// NewPanchayatRepository creates a new panchayat repository
func NewPanchayatRepository(db *gorm.DB) *PanchayatRepository {
	return &PanchayatRepository{db: db}
}

// Create creates a new panchayat
func (r *PanchayatRepository) Create(ctx context.Context, panchayat *entities.Panchayat) error {
	if panchayat == nil {
		return errors.New("panchayat cannot be nil")
	}
	return r.db.WithContext(ctx).Create(panchayat).Error
}

// FindByID retrieves a panchayat by ID
func (r *PanchayatRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Panchayat, error) {
	var panchayat entities.Panchayat
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&panchayat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &panchayat, nil
}

// Update updates an existing panchayat
func (r *PanchayatRepository) Update(ctx context.Context, panchayat *entities.Panchayat) error {
	if panchayat == nil {
		return errors.New("panchayat cannot be nil")
	}
	return r.db.WithContext(ctx).
		Model(&entities.Panchayat{}).
		Where("id = ?", panchayat.ID).
		Save(panchayat).Error
}

// Delete removes a panchayat
func (r *PanchayatRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entities.Panchayat{}, id).Error
}

// ListAll retrieves every panchayat
func (r *PanchayatRepository) ListAll(ctx context.Context) ([]*entities.Panchayat, error) {
	var panchayats []*entities.Panchayat
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&panchayats).Error; err != nil {
		return nil, err
	}
	return panchayats, nil
}

// CreateWard adds a ward to a panchayat
func (r *PanchayatRepository) CreateWard(ctx context.Context, ward *entities.Ward) error {
	if ward == nil {
		return errors.New("ward cannot be nil")
	}
	return r.db.WithContext(ctx).Create(ward).Error
}

// ListWards retrieves the wards of a panchayat ordered by number
func (r *PanchayatRepository) ListWards(ctx context.Context, panchayatID uuid.UUID) ([]*entities.Ward, error) {
	var wards []*entities.Ward
	if err := r.db.WithContext(ctx).
		Where("panchayat_id = ?", panchayatID).
		Order("number ASC").
		Find(&wards).Error; err != nil {
		return nil, err
	}
	return wards, nil
}
