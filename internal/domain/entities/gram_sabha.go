package entities

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// GramSabhaStatus tracks a meeting through its lifecycle
type GramSabhaStatus string

const (
	GramSabhaStatusScheduled   GramSabhaStatus = "SCHEDULED"
	GramSabhaStatusInProgress  GramSabhaStatus = "IN_PROGRESS"
	GramSabhaStatusConcluded   GramSabhaStatus = "CONCLUDED"
	GramSabhaStatusCancelled   GramSabhaStatus = "CANCELLED"
	GramSabhaStatusRescheduled GramSabhaStatus = "RESCHEDULED"
	GramSabhaStatusUnscheduled GramSabhaStatus = "UNSCHEDULED"
)

// gramSabhaTransitions lists the allowed status moves. CONCLUDED and
// CANCELLED are terminal.
var gramSabhaTransitions = map[GramSabhaStatus][]GramSabhaStatus{
	GramSabhaStatusScheduled:   {GramSabhaStatusInProgress, GramSabhaStatusCancelled, GramSabhaStatusRescheduled, GramSabhaStatusUnscheduled},
	GramSabhaStatusRescheduled: {GramSabhaStatusScheduled, GramSabhaStatusInProgress, GramSabhaStatusCancelled},
	GramSabhaStatusUnscheduled: {GramSabhaStatusScheduled},
	GramSabhaStatusInProgress:  {GramSabhaStatusConcluded},
}

// AttendanceStatus marks a participant's presence
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
	AttendanceLate    AttendanceStatus = "LATE"
)

// Attendance records one participant check-in at a meeting
type Attendance struct {
	UserID             uuid.UUID        `json:"user_id"`
	CheckInTime        time.Time        `json:"check_in_time"`
	VerificationMethod string           `json:"verification_method"`
	Status             AttendanceStatus `json:"status"`
	Remarks            string           `json:"remarks,omitempty"`
}

// AttendanceList is the jsonb-persisted attendance roll of a meeting
type AttendanceList []Attendance

// Scan implements sql.Scanner interface for GORM
func (l *AttendanceList) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, l)
}

// Value implements driver.Valuer interface for GORM
func (l AttendanceList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal(AttendanceList{})
	}
	return json.Marshal(l)
}

// GramSabha is a village assembly meeting. Its Agenda is the snapshot of
// items actually claimed for this meeting, distinct from the panchayat-wide
// IssueSummary pool.
type GramSabha struct {
	ID                     uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	PanchayatID            uuid.UUID       `json:"panchayat_id" gorm:"type:uuid;not null;index"`
	Title                  string          `json:"title" gorm:"type:varchar(255);not null"`
	DateTime               time.Time       `json:"date_time" gorm:"not null;index"`
	Location               string          `json:"location" gorm:"type:varchar(255);not null"`
	ScheduledDurationHours float64         `json:"scheduled_duration_hours"`
	Agenda                 AgendaItemList  `json:"agenda" gorm:"type:jsonb;serializer:json"`
	Status                 GramSabhaStatus `json:"status" gorm:"type:varchar(20);not null;index;default:'SCHEDULED'"`
	MeetingLink            string          `json:"meeting_link,omitempty" gorm:"type:varchar(255)"`
	ConferenceRoom         string          `json:"conference_room,omitempty" gorm:"type:varchar(255)"`
	ConferenceData         datatypes.JSON  `json:"conference_data,omitempty" gorm:"type:jsonb"`
	Minutes                string          `json:"minutes,omitempty" gorm:"type:text"`
	Conclusion             string          `json:"conclusion,omitempty" gorm:"type:text"`
	RecordingLink          string          `json:"recording_link,omitempty" gorm:"type:varchar(255)"`
	ActualDurationMinutes  int             `json:"actual_duration_minutes,omitempty"`
	Attendances            AttendanceList  `json:"attendances" gorm:"type:jsonb;serializer:json"`
	ScheduledByID          uuid.UUID       `json:"scheduled_by_id" gorm:"type:uuid;not null"`
	CreatedAt              time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt              time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

// NewGramSabha schedules a meeting for a panchayat
func NewGramSabha(panchayatID, scheduledByID uuid.UUID, title, location string, dateTime time.Time) *GramSabha {
	return &GramSabha{
		ID:            uuid.New(),
		PanchayatID:   panchayatID,
		Title:         title,
		Location:      location,
		DateTime:      dateTime,
		Status:        GramSabhaStatusScheduled,
		Agenda:        AgendaItemList{},
		Attendances:   AttendanceList{},
		ScheduledByID: scheduledByID,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}

// ScheduledEnd returns when the meeting is expected to finish
func (g *GramSabha) ScheduledEnd() time.Time {
	return g.DateTime.Add(time.Duration(g.ScheduledDurationHours * float64(time.Hour)))
}

// AutoConclude closes a meeting past its scheduled end and reports whether
// it changed anything. Unlike the API transition table, this also closes
// SCHEDULED meetings that were never started.
func (g *GramSabha) AutoConclude(now time.Time) bool {
	if g.Status != GramSabhaStatusScheduled && g.Status != GramSabhaStatusInProgress {
		return false
	}
	if !now.After(g.ScheduledEnd()) {
		return false
	}
	g.Status = GramSabhaStatusConcluded
	return true
}

// CanTransitionTo reports whether the status move is allowed
func (g *GramSabha) CanTransitionTo(next GramSabhaStatus) bool {
	for _, allowed := range gramSabhaTransitions[g.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TableName specifies the table name for GORM
func (GramSabha) TableName() string {
	return "gram_sabhas"
}
