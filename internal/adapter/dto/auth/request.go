package auth

// RegisterRequest represents the request to register a new user
type RegisterRequest struct {
	Name           string  `json:"name" validate:"required,min=1,max=255"`
	PhoneNumber    string  `json:"phone_number" validate:"required,min=10,max=20"`
	Role           string  `json:"role" validate:"omitempty,oneof=citizen official admin"`
	PanchayatID    *string `json:"panchayat_id,omitempty" validate:"omitempty,uuid"`
	WardID         *string `json:"ward_id,omitempty" validate:"omitempty,uuid"`
	FaceDescriptor string  `json:"face_descriptor" validate:"required"`
}

// LoginRequest represents the face-login request. The client computes the
// face descriptor locally and sends it for hash comparison.
type LoginRequest struct {
	PhoneNumber    string `json:"phone_number" validate:"required,min=10,max=20"`
	FaceDescriptor string `json:"face_descriptor" validate:"required"`
}

// RefreshRequest represents the request to refresh an access token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}
