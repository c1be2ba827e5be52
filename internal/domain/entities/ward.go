package entities

import (
	"time"

	"github.com/google/uuid"
)

// Ward is a sub-division of a panchayat
type Ward struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	PanchayatID uuid.UUID `json:"panchayat_id" gorm:"type:uuid;not null;index"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Number      int       `json:"number"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Ward) TableName() string {
	return "wards"
}
