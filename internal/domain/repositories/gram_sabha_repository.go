package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/anujdevsingh/gram-panchayat/internal/domain/entities"
)

// GramSabhaRepository defines the interface for meeting data access
type GramSabhaRepository interface {
	// Create creates a new meeting
	Create(ctx context.Context, meeting *entities.GramSabha) error

	// FindByID retrieves a meeting by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.GramSabha, error)

	// Update updates an existing meeting
	Update(ctx context.Context, meeting *entities.GramSabha) error

	// ListByPanchayat retrieves meetings for a panchayat, newest first
	ListByPanchayat(ctx context.Context, panchayatID uuid.UUID, limit, offset int) ([]*entities.GramSabha, error)

	// ListActive retrieves meetings that are SCHEDULED or IN_PROGRESS
	ListActive(ctx context.Context) ([]*entities.GramSabha, error)

	// ListUpcoming retrieves meetings scheduled at or after the given time
	// (translation job walks these)
	ListUpcoming(ctx context.Context, after time.Time) ([]*entities.GramSabha, error)
}

// PanchayatRepository defines the interface for panchayat data access
type PanchayatRepository interface {
	// Create creates a new panchayat
	Create(ctx context.Context, panchayat *entities.Panchayat) error

	// FindByID retrieves a panchayat by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Panchayat, error)

	// Update updates an existing panchayat
	Update(ctx context.Context, panchayat *entities.Panchayat) error

	// Delete removes a panchayat
	Delete(ctx context.Context, id uuid.UUID) error

	// ListAll retrieves every panchayat (scheduled jobs iterate these)
	ListAll(ctx context.Context) ([]*entities.Panchayat, error)

	// CreateWard adds a ward to a panchayat
	CreateWard(ctx context.Context, ward *entities.Ward) error

	// ListWards retrieves the wards of a panchayat ordered by number
	ListWards(ctx context.Context, panchayatID uuid.UUID) ([]*entities.Ward, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *entities.User) error

	// FindByID retrieves a user by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error)

	// FindByPhone retrieves a user by phone number
	FindByPhone(ctx context.Context, phone string) (*entities.User, error)
}
