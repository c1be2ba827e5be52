package gramsabha

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	apperrors "github.com/anujdevsingh/gram-panchayat/errors"
	"github.com/anujdevsingh/gram-panchayat/internal/domain/entities"
	domainrepo "github.com/anujdevsingh/gram-panchayat/internal/domain/repositories"
	"github.com/anujdevsingh/gram-panchayat/internal/infrastructure/external/conference"
	"github.com/anujdevsingh/gram-panchayat/internal/usecase/agenda"
)

// CreateInput holds the fields for scheduling a meeting
type CreateInput struct {
	PanchayatID   uuid.UUID
	ScheduledByID uuid.UUID
	Title         string
	Location      string
	DateTime      time.Time
	DurationHours float64
	Agenda        entities.AgendaItemList
}

// Service manages Gram Sabha meetings. Agenda edits go through the agenda
// reconciliation service so the panchayat-wide pool stays consistent with
// each meeting's snapshot.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*entities.GramSabha, error)
	Get(ctx context.Context, id uuid.UUID) (*entities.GramSabha, error)
	List(ctx context.Context, panchayatID uuid.UUID, limit, offset int) ([]*entities.GramSabha, error)
	UpdateAgenda(ctx context.Context, id uuid.UUID, selected entities.AgendaItemList) (*entities.GramSabha, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.GramSabhaStatus) (*entities.GramSabha, error)
	Join(ctx context.Context, id uuid.UUID, user *entities.User) (string, error)
	RecordAttendance(ctx context.Context, id uuid.UUID, attendance entities.Attendance) (*entities.GramSabha, error)
	ConcludeOverdue(ctx context.Context) error
}

type service struct {
	meetings   domainrepo.GramSabhaRepository
	agendas    agenda.Service
	conference conference.Client
	logger     *zap.Logger
}

// NewService constructs the gram sabha service
func NewService(meetings domainrepo.GramSabhaRepository, agendas agenda.Service, conf conference.Client, logger *zap.Logger) Service {
	return &service{
		meetings:   meetings,
		agendas:    agendas,
		conference: conf,
		logger:     logger,
	}
}

func (s *service) Create(ctx context.Context, input CreateInput) (*entities.GramSabha, error) {
	if err := validateAgenda(input.Agenda); err != nil {
		return nil, err
	}

	meeting := entities.NewGramSabha(input.PanchayatID, input.ScheduledByID, input.Title, input.Location, input.DateTime)
	meeting.ScheduledDurationHours = input.DurationHours
	meeting.Agenda = input.Agenda

	if err := s.provisionRoom(ctx, meeting); err != nil {
		// The meeting is still usable without a conference room.
		s.logger.Warn("conference room provisioning failed",
			zap.String("gram_sabha_id", meeting.ID.String()),
			zap.Error(err),
		)
	}

	if err := s.meetings.Create(ctx, meeting); err != nil {
		return nil, apperrors.ErrInternal(err)
	}

	// Claim the selected items out of the panchayat-wide pool.
	if len(input.Agenda) > 0 {
		if err := s.agendas.ApplyMeetingSelection(ctx, input.PanchayatID, input.Agenda, nil); err != nil {
			return nil, err
		}
	}

	s.logger.Info("gram sabha scheduled",
		zap.String("gram_sabha_id", meeting.ID.String()),
		zap.String("panchayat_id", input.PanchayatID.String()),
		zap.Int("agenda_items", len(input.Agenda)),
	)
	return meeting, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*entities.GramSabha, error) {
	meeting, err := s.meetings.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}
	if meeting == nil {
		return nil, apperrors.ErrGramSabhaNotFound(id.String())
	}
	return meeting, nil
}

func (s *service) List(ctx context.Context, panchayatID uuid.UUID, limit, offset int) ([]*entities.GramSabha, error) {
	meetings, err := s.meetings.ListByPanchayat(ctx, panchayatID, limit, offset)
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}
	return meetings, nil
}

// UpdateAgenda replaces the meeting's agenda snapshot. Deselected items
// return to the pool; newly selected items leave it. An empty selection
// returns everything.
func (s *service) UpdateAgenda(ctx context.Context, id uuid.UUID, selected entities.AgendaItemList) (*entities.GramSabha, error) {
	if err := validateAgenda(selected); err != nil {
		return nil, err
	}

	meeting, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := meeting.Agenda
	if err := s.agendas.ApplyMeetingSelection(ctx, meeting.PanchayatID, selected, previous); err != nil {
		return nil, err
	}

	meeting.Agenda = selected
	if err := s.meetings.Update(ctx, meeting); err != nil {
		return nil, apperrors.ErrInternal(err)
	}
	return meeting, nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.GramSabhaStatus) (*entities.GramSabha, error) {
	meeting, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !meeting.CanTransitionTo(status) {
		return nil, apperrors.ErrGramSabhaInvalidTransition(id.String(), string(meeting.Status), string(status))
	}

	meeting.Status = status
	if err := s.meetings.Update(ctx, meeting); err != nil {
		return nil, apperrors.ErrInternal(err)
	}

	// A concluded or cancelled meeting no longer needs its room.
	if (status == entities.GramSabhaStatusConcluded || status == entities.GramSabhaStatusCancelled) && meeting.ConferenceRoom != "" {
		if err := s.conference.DeleteRoom(ctx, meeting.ConferenceRoom); err != nil {
			s.logger.Warn("failed to delete conference room",
				zap.String("gram_sabha_id", id.String()),
				zap.String("room", meeting.ConferenceRoom),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("gram sabha status changed",
		zap.String("gram_sabha_id", id.String()),
		zap.String("status", string(status)),
	)
	return meeting, nil
}

func (s *service) Join(ctx context.Context, id uuid.UUID, user *entities.User) (string, error) {
	meeting, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if meeting.ConferenceRoom == "" {
		return "", apperrors.ErrNotFound("conference room")
	}

	token, err := s.conference.JoinToken(user.ID.String(), meeting.ConferenceRoom, user.Name, &conference.TokenOptions{
		ValidFor:       6 * time.Hour,
		CanPublish:     true,
		CanSubscribe:   true,
		CanPublishData: true,
		RoomAdmin:      user.IsOfficial(),
	})
	if err != nil {
		return "", apperrors.ErrConferenceFailed("join token", err)
	}
	return token, nil
}

func (s *service) RecordAttendance(ctx context.Context, id uuid.UUID, attendance entities.Attendance) (*entities.GramSabha, error) {
	meeting, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// One row per user; a re-check-in replaces the earlier one.
	replaced := false
	for i := range meeting.Attendances {
		if meeting.Attendances[i].UserID == attendance.UserID {
			meeting.Attendances[i] = attendance
			replaced = true
			break
		}
	}
	if !replaced {
		meeting.Attendances = append(meeting.Attendances, attendance)
	}

	if err := s.meetings.Update(ctx, meeting); err != nil {
		return nil, apperrors.ErrInternal(err)
	}
	return meeting, nil
}

// ConcludeOverdue closes meetings past their scheduled end. Runs as a
// periodic job; per-meeting failures never abort the batch.
func (s *service) ConcludeOverdue(ctx context.Context) error {
	meetings, err := s.meetings.ListActive(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	for _, meeting := range meetings {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !meeting.AutoConclude(now) {
			continue
		}
		if err := s.meetings.Update(ctx, meeting); err != nil {
			s.logger.Error("failed to auto-conclude gram sabha",
				zap.String("gram_sabha_id", meeting.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if meeting.ConferenceRoom != "" {
			if err := s.conference.DeleteRoom(ctx, meeting.ConferenceRoom); err != nil {
				s.logger.Warn("failed to delete conference room",
					zap.String("gram_sabha_id", meeting.ID.String()),
					zap.String("room", meeting.ConferenceRoom),
					zap.Error(err),
				)
			}
		}
		s.logger.Info("gram sabha auto-concluded",
			zap.String("gram_sabha_id", meeting.ID.String()),
			zap.Time("scheduled_end", meeting.ScheduledEnd()),
		)
	}
	return nil
}

func (s *service) provisionRoom(ctx context.Context, meeting *entities.GramSabha) error {
	roomName := fmt.Sprintf("gram-sabha-%s", meeting.ID.String())
	room, err := s.conference.CreateRoom(ctx, roomName, nil)
	if err != nil {
		return err
	}

	meeting.ConferenceRoom = room.Name
	meeting.MeetingLink = fmt.Sprintf("/gram-sabhas/%s/join", meeting.ID.String())
	if data, err := json.Marshal(room); err == nil {
		meeting.ConferenceData = datatypes.JSON(data)
	}
	return nil
}

func validateAgenda(items entities.AgendaItemList) error {
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return apperrors.ErrInvalidArgument(err.Error())
		}
	}
	return nil
}
