package panchayat

// CreateRequest represents the request to register a panchayat
type CreateRequest struct {
	Name       string `json:"name" validate:"required,min=1,max=255"`
	State      string `json:"state" validate:"required,min=1,max=100"`
	District   string `json:"district" validate:"required,min=1,max=100"`
	Block      string `json:"block,omitempty" validate:"omitempty,max=100"`
	Village    string `json:"village,omitempty" validate:"omitempty,max=255"`
	Language   string `json:"language,omitempty" validate:"omitempty,max=50"`
	Population int    `json:"population,omitempty" validate:"omitempty,min=0"`
}

// CreateWardRequest represents the request to add a ward
type CreateWardRequest struct {
	Name   string `json:"name" validate:"required,min=1,max=255"`
	Number int    `json:"number" validate:"required,min=1"`
}

// UpdateRequest represents a partial panchayat update
type UpdateRequest struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	State      *string `json:"state,omitempty" validate:"omitempty,min=1,max=100"`
	District   *string `json:"district,omitempty" validate:"omitempty,min=1,max=100"`
	Block      *string `json:"block,omitempty" validate:"omitempty,max=100"`
	Village    *string `json:"village,omitempty" validate:"omitempty,max=255"`
	Language   *string `json:"language,omitempty" validate:"omitempty,max=50"`
	Population *int    `json:"population,omitempty" validate:"omitempty,min=0"`
}
