package gramsabha

import (
	"time"

	agendadto "github.com/anujdevsingh/gram-panchayat/internal/adapter/dto/agenda"
)

// CreateRequest represents the request to schedule a Gram Sabha meeting
type CreateRequest struct {
	PanchayatID   string                  `json:"panchayat_id" validate:"required,uuid"`
	Title         string                  `json:"title" validate:"required,min=1,max=255"`
	Location      string                  `json:"location" validate:"required,min=1,max=255"`
	DateTime      time.Time               `json:"date_time" validate:"required"`
	DurationHours float64                 `json:"scheduled_duration_hours" validate:"omitempty,min=0"`
	Agenda        []agendadto.ItemPayload `json:"agenda,omitempty" validate:"omitempty,dive"`
}

// UpdateAgendaRequest represents the request to replace a meeting's agenda
// selection. Items removed from the selection return to the panchayat pool.
type UpdateAgendaRequest struct {
	Agenda []agendadto.ItemPayload `json:"agenda" validate:"omitempty,dive"`
}

// UpdateStatusRequest represents a meeting lifecycle transition
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=SCHEDULED IN_PROGRESS CONCLUDED CANCELLED RESCHEDULED UNSCHEDULED"`
}

// AttendanceRequest represents one participant check-in
type AttendanceRequest struct {
	UserID             string `json:"user_id" validate:"required,uuid"`
	VerificationMethod string `json:"verification_method" validate:"omitempty,max=50"`
	Status             string `json:"status" validate:"omitempty,oneof=PRESENT ABSENT LATE"`
	Remarks            string `json:"remarks,omitempty" validate:"omitempty,max=500"`
}
