package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Panchayat is the village-level administrative unit; every other record in
// the system belongs to exactly one panchayat.
type Panchayat struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name       string    `json:"name" gorm:"type:varchar(255);not null"`
	State      string    `json:"state" gorm:"type:varchar(100);not null;index"`
	District   string    `json:"district" gorm:"type:varchar(100);not null"`
	Block      string    `json:"block,omitempty" gorm:"type:varchar(100)"`
	Village    string    `json:"village,omitempty" gorm:"type:varchar(255)"`
	Language   string    `json:"language" gorm:"type:varchar(50);default:'hindi'"`
	Population int       `json:"population,omitempty"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// NewPanchayat creates a panchayat record
func NewPanchayat(name, state, district, language string) *Panchayat {
	if language == "" {
		language = "hindi"
	}
	return &Panchayat{
		ID:        uuid.New(),
		Name:      name,
		State:     state,
		District:  district,
		Language:  language,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// SummaryLanguage returns the lowercase language code handed to the
// summarization service.
func (p *Panchayat) SummaryLanguage() string {
	if p.Language == "" {
		return "en"
	}
	return strings.ToLower(p.Language)
}

// TableName specifies the table name for GORM
func (Panchayat) TableName() string {
	return "panchayats"
}
