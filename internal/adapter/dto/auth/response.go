package auth

import "github.com/anujdevsingh/gram-panchayat/internal/domain/entities"

// TokenResponse carries issued tokens alongside the user record
type TokenResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	ExpiresIn    int64          `json:"expires_in"`
	User         *entities.User `json:"user,omitempty"`
}
