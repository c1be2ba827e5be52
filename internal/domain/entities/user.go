package entities

import (
	"time"

	"github.com/google/uuid"
)

// UserRole distinguishes citizens from panchayat officials and admins
type UserRole string

const (
	UserRoleCitizen  UserRole = "citizen"
	UserRoleOfficial UserRole = "official"
	UserRoleAdmin    UserRole = "admin"
)

// User is a registered citizen or official. Face login stores only a hash of
// the client-computed descriptor; matching accuracy lives on the client side.
type User struct {
	ID                 uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name               string     `json:"name" gorm:"type:varchar(255);not null"`
	PhoneNumber        string     `json:"phone_number" gorm:"type:varchar(20);not null;uniqueIndex"`
	Role               UserRole   `json:"role" gorm:"type:varchar(20);not null;default:'citizen'"`
	PanchayatID        *uuid.UUID `json:"panchayat_id,omitempty" gorm:"type:uuid;index"`
	WardID             *uuid.UUID `json:"ward_id,omitempty" gorm:"type:uuid"`
	FaceDescriptorHash string     `json:"-" gorm:"type:varchar(128)"`
	CreatedAt          time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt          time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// IsOfficial reports whether the user may manage agendas and meetings
func (u *User) IsOfficial() bool {
	return u.Role == UserRoleOfficial || u.Role == UserRoleAdmin
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}
