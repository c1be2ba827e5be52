package issue

// CreateForm represents the multipart form fields for reporting an issue.
// File parts named "attachments" ride alongside these fields.
type CreateForm struct {
	PanchayatID  string `form:"panchayat_id" validate:"required,uuid"`
	CreatedForID string `form:"created_for_id" validate:"omitempty,uuid"`
	Category     string `form:"category" validate:"required,oneof=CULTURE_AND_NATURE INFRASTRUCTURE EARNING_OPPORTUNITIES BASIC_AMENITIES SOCIAL_WELFARE_SCHEMES OTHER"`
	Subcategory  string `form:"subcategory" validate:"omitempty,max=50"`
	Text         string `form:"text" validate:"omitempty,max=10000"`
	Priority     string `form:"priority" validate:"omitempty,oneof=URGENT NORMAL"`
}

// ListRequest represents query parameters for listing issues
type ListRequest struct {
	PanchayatID string `query:"panchayat_id" validate:"omitempty,uuid"`
	Status      string `query:"status" validate:"omitempty,oneof=REPORTED PICKED_IN_AGENDA DISCUSSED_IN_GRAM_SABHA TRANSFERRED RESOLVED NO_ACTION_NEEDED"`
	Category    string `query:"category" validate:"omitempty,oneof=CULTURE_AND_NATURE INFRASTRUCTURE EARNING_OPPORTUNITIES BASIC_AMENITIES SOCIAL_WELFARE_SCHEMES OTHER"`
	CreatorID   string `query:"creator_id" validate:"omitempty,uuid"`
	Page        int    `query:"page" validate:"omitempty,min=1"`
	PageSize    int    `query:"page_size" validate:"omitempty,min=1,max=100"`
}

// UpdateStatusRequest represents an issue lifecycle transition. The
// PICKED_IN_AGENDA status is owned by agenda selection and rejected here.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=REPORTED DISCUSSED_IN_GRAM_SABHA TRANSFERRED RESOLVED NO_ACTION_NEEDED"`
	Remark string `json:"remark,omitempty" validate:"omitempty,max=2000"`
}
