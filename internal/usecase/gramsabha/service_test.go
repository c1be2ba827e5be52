package gramsabha

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/anujdevsingh/gram-panchayat/errors"
	"github.com/anujdevsingh/gram-panchayat/internal/domain/entities"
	"github.com/anujdevsingh/gram-panchayat/internal/infrastructure/external/conference"
)

type fakeMeetings struct {
	byID map[uuid.UUID]*entities.GramSabha
}

func newFakeMeetings(meetings ...*entities.GramSabha) *fakeMeetings {
	f := &fakeMeetings{byID: make(map[uuid.UUID]*entities.GramSabha)}
	for _, m := range meetings {
		f.byID[m.ID] = m
	}
	return f
}

func (f *fakeMeetings) Create(ctx context.Context, meeting *entities.GramSabha) error {
	f.byID[meeting.ID] = meeting
	return nil
}

func (f *fakeMeetings) FindByID(ctx context.Context, id uuid.UUID) (*entities.GramSabha, error) {
	return f.byID[id], nil
}

func (f *fakeMeetings) Update(ctx context.Context, meeting *entities.GramSabha) error {
	f.byID[meeting.ID] = meeting
	return nil
}

func (f *fakeMeetings) ListByPanchayat(ctx context.Context, panchayatID uuid.UUID, limit, offset int) ([]*entities.GramSabha, error) {
	var out []*entities.GramSabha
	for _, m := range f.byID {
		if m.PanchayatID == panchayatID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMeetings) ListActive(ctx context.Context) ([]*entities.GramSabha, error) {
	var out []*entities.GramSabha
	for _, m := range f.byID {
		if m.Status == entities.GramSabhaStatusScheduled || m.Status == entities.GramSabhaStatusInProgress {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMeetings) ListUpcoming(ctx context.Context, after time.Time) ([]*entities.GramSabha, error) {
	return nil, nil
}

// fakeAgendaService records reconciliation calls.
type fakeAgendaService struct {
	panchayatID uuid.UUID
	selected    entities.AgendaItemList
	previous    entities.AgendaItemList
	calls       int
}

func (f *fakeAgendaService) ApplyMeetingSelection(ctx context.Context, panchayatID uuid.UUID, selected, previous entities.AgendaItemList) error {
	f.panchayatID = panchayatID
	f.selected = selected
	f.previous = previous
	f.calls++
	return nil
}

func (f *fakeAgendaService) ReplacePoolAgenda(ctx context.Context, panchayatID, actingUserID uuid.UUID, items entities.AgendaItemList) (*entities.IssueSummary, error) {
	return nil, nil
}

func (f *fakeAgendaService) GetPoolAgenda(ctx context.Context, panchayatID uuid.UUID) (*entities.IssueSummary, error) {
	return nil, nil
}

type fakeConference struct {
	createErr    error
	deletedRooms []string
	tokenOpts    *conference.TokenOptions
}

func (f *fakeConference) CreateRoom(ctx context.Context, name string, options *conference.CreateRoomOptions) (*conference.RoomInfo, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &conference.RoomInfo{Name: name, SID: "RM_test", CreationTime: time.Now()}, nil
}

func (f *fakeConference) DeleteRoom(ctx context.Context, roomName string) error {
	f.deletedRooms = append(f.deletedRooms, roomName)
	return nil
}

func (f *fakeConference) JoinToken(userID, roomName, participantName string, options *conference.TokenOptions) (string, error) {
	f.tokenOpts = options
	return "token-" + userID, nil
}

func (f *fakeConference) ListParticipants(ctx context.Context, roomName string) ([]*conference.ParticipantInfo, error) {
	return nil, nil
}

func (f *fakeConference) RemoveParticipant(ctx context.Context, roomName, identity string) error {
	return nil
}

func systemItem(id string, issues ...string) entities.AgendaItem {
	return entities.AgendaItem{
		ID:            id,
		Title:         entities.LanguageMap{"en": "item " + id},
		LinkedIssues:  issues,
		CreatedByType: entities.AgendaAuthorSystem,
	}
}

func TestCreateProvisionsRoomAndClaimsAgenda(t *testing.T) {
	meetings := newFakeMeetings()
	agendas := &fakeAgendaService{}
	conf := &fakeConference{}
	svc := NewService(meetings, agendas, conf, zap.NewNop())

	panchayatID := uuid.New()
	selected := entities.AgendaItemList{systemItem("a", "i1")}

	meeting, err := svc.Create(context.Background(), CreateInput{
		PanchayatID:   panchayatID,
		ScheduledByID: uuid.New(),
		Title:         "Monthly Gram Sabha",
		Location:      "Panchayat Bhavan",
		DateTime:      time.Now().Add(48 * time.Hour),
		DurationHours: 2,
		Agenda:        selected,
	})

	require.NoError(t, err)
	assert.Equal(t, entities.GramSabhaStatusScheduled, meeting.Status)
	assert.Equal(t, "gram-sabha-"+meeting.ID.String(), meeting.ConferenceRoom)
	assert.NotEmpty(t, meeting.MeetingLink)

	assert.Equal(t, 1, agendas.calls)
	assert.Equal(t, panchayatID, agendas.panchayatID)
	assert.Equal(t, selected, agendas.selected)
	assert.Nil(t, agendas.previous)
}

func TestCreateSurvivesRoomProvisioningFailure(t *testing.T) {
	meetings := newFakeMeetings()
	conf := &fakeConference{createErr: errors.New("media server down")}
	svc := NewService(meetings, &fakeAgendaService{}, conf, zap.NewNop())

	meeting, err := svc.Create(context.Background(), CreateInput{
		PanchayatID:   uuid.New(),
		ScheduledByID: uuid.New(),
		Title:         "Monthly Gram Sabha",
		Location:      "Panchayat Bhavan",
		DateTime:      time.Now().Add(48 * time.Hour),
	})

	require.NoError(t, err)
	assert.Empty(t, meeting.ConferenceRoom)
}

func TestCreateRejectsInvalidAgendaItem(t *testing.T) {
	svc := NewService(newFakeMeetings(), &fakeAgendaService{}, &fakeConference{}, zap.NewNop())

	// USER item without an author id violates the authorship rule.
	bad := entities.AgendaItem{ID: "x", CreatedByType: entities.AgendaAuthorUser}
	_, err := svc.Create(context.Background(), CreateInput{
		PanchayatID:   uuid.New(),
		ScheduledByID: uuid.New(),
		Title:         "Monthly Gram Sabha",
		Location:      "Panchayat Bhavan",
		DateTime:      time.Now().Add(48 * time.Hour),
		Agenda:        entities.AgendaItemList{bad},
	})

	require.Error(t, err)
	var appErr apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorCode_INVALID_ARGUMENT, appErr.Code)
}

func TestUpdateAgendaPassesPreviousSnapshot(t *testing.T) {
	meeting := entities.NewGramSabha(uuid.New(), uuid.New(), "Sabha", "Bhavan", time.Now().Add(24*time.Hour))
	previous := entities.AgendaItemList{systemItem("a", "i1")}
	meeting.Agenda = previous

	meetings := newFakeMeetings(meeting)
	agendas := &fakeAgendaService{}
	svc := NewService(meetings, agendas, &fakeConference{}, zap.NewNop())

	selected := entities.AgendaItemList{systemItem("b", "i2")}
	updated, err := svc.UpdateAgenda(context.Background(), meeting.ID, selected)

	require.NoError(t, err)
	assert.Equal(t, selected, updated.Agenda)
	assert.Equal(t, selected, agendas.selected)
	assert.Equal(t, previous, agendas.previous)
}

func TestUpdateStatusRejectsInvalidTransition(t *testing.T) {
	meeting := entities.NewGramSabha(uuid.New(), uuid.New(), "Sabha", "Bhavan", time.Now().Add(24*time.Hour))
	svc := NewService(newFakeMeetings(meeting), &fakeAgendaService{}, &fakeConference{}, zap.NewNop())

	_, err := svc.UpdateStatus(context.Background(), meeting.ID, entities.GramSabhaStatusConcluded)

	require.Error(t, err)
	var appErr apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorCode_GRAM_SABHA_INVALID_TRANSITION, appErr.Code)
}

func TestUpdateStatusConcludeDeletesRoom(t *testing.T) {
	meeting := entities.NewGramSabha(uuid.New(), uuid.New(), "Sabha", "Bhavan", time.Now().Add(24*time.Hour))
	meeting.Status = entities.GramSabhaStatusInProgress
	meeting.ConferenceRoom = "gram-sabha-test"

	conf := &fakeConference{}
	svc := NewService(newFakeMeetings(meeting), &fakeAgendaService{}, conf, zap.NewNop())

	updated, err := svc.UpdateStatus(context.Background(), meeting.ID, entities.GramSabhaStatusConcluded)

	require.NoError(t, err)
	assert.Equal(t, entities.GramSabhaStatusConcluded, updated.Status)
	assert.Equal(t, []string{"gram-sabha-test"}, conf.deletedRooms)
}

func TestUpdateStatusUnknownMeeting(t *testing.T) {
	svc := NewService(newFakeMeetings(), &fakeAgendaService{}, &fakeConference{}, zap.NewNop())

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), entities.GramSabhaStatusCancelled)

	require.Error(t, err)
	var appErr apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorCode_GRAM_SABHA_NOT_FOUND, appErr.Code)
}

func TestJoinGrantsAdminToOfficials(t *testing.T) {
	meeting := entities.NewGramSabha(uuid.New(), uuid.New(), "Sabha", "Bhavan", time.Now().Add(24*time.Hour))
	meeting.ConferenceRoom = "gram-sabha-test"

	conf := &fakeConference{}
	svc := NewService(newFakeMeetings(meeting), &fakeAgendaService{}, conf, zap.NewNop())

	official := &entities.User{ID: uuid.New(), Name: "Sarpanch", Role: entities.UserRoleOfficial}
	token, err := svc.Join(context.Background(), meeting.ID, official)

	require.NoError(t, err)
	assert.Equal(t, "token-"+official.ID.String(), token)
	require.NotNil(t, conf.tokenOpts)
	assert.True(t, conf.tokenOpts.RoomAdmin)
	assert.True(t, conf.tokenOpts.CanPublish)

	citizen := &entities.User{ID: uuid.New(), Name: "Ram", Role: entities.UserRoleCitizen}
	_, err = svc.Join(context.Background(), meeting.ID, citizen)
	require.NoError(t, err)
	assert.False(t, conf.tokenOpts.RoomAdmin)
}

func TestJoinWithoutRoom(t *testing.T) {
	meeting := entities.NewGramSabha(uuid.New(), uuid.New(), "Sabha", "Bhavan", time.Now().Add(24*time.Hour))
	svc := NewService(newFakeMeetings(meeting), &fakeAgendaService{}, &fakeConference{}, zap.NewNop())

	_, err := svc.Join(context.Background(), meeting.ID, &entities.User{ID: uuid.New()})

	require.Error(t, err)
	var appErr apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorCode_NOT_FOUND, appErr.Code)
}

func TestRecordAttendanceReplacesExistingRow(t *testing.T) {
	meeting := entities.NewGramSabha(uuid.New(), uuid.New(), "Sabha", "Bhavan", time.Now().Add(24*time.Hour))
	svc := NewService(newFakeMeetings(meeting), &fakeAgendaService{}, &fakeConference{}, zap.NewNop())

	userID := uuid.New()
	first := entities.Attendance{UserID: userID, Status: entities.AttendanceLate, CheckInTime: time.Now()}
	updated, err := svc.RecordAttendance(context.Background(), meeting.ID, first)
	require.NoError(t, err)
	require.Len(t, updated.Attendances, 1)

	second := entities.Attendance{UserID: userID, Status: entities.AttendancePresent, CheckInTime: time.Now()}
	updated, err = svc.RecordAttendance(context.Background(), meeting.ID, second)
	require.NoError(t, err)
	require.Len(t, updated.Attendances, 1)
	assert.Equal(t, entities.AttendancePresent, updated.Attendances[0].Status)

	other := entities.Attendance{UserID: uuid.New(), Status: entities.AttendancePresent, CheckInTime: time.Now()}
	updated, err = svc.RecordAttendance(context.Background(), meeting.ID, other)
	require.NoError(t, err)
	assert.Len(t, updated.Attendances, 2)
}

func TestConcludeOverdueClosesMeetingsPastScheduledEnd(t *testing.T) {
	overdue := entities.NewGramSabha(uuid.New(), uuid.New(), "Old Sabha", "Bhavan", time.Now().Add(-3*time.Hour))
	overdue.ScheduledDurationHours = 2
	overdue.ConferenceRoom = "gram-sabha-" + overdue.ID.String()

	running := entities.NewGramSabha(uuid.New(), uuid.New(), "Running Sabha", "Bhavan", time.Now().Add(-4*time.Hour))
	running.ScheduledDurationHours = 1
	running.Status = entities.GramSabhaStatusInProgress

	upcoming := entities.NewGramSabha(uuid.New(), uuid.New(), "Next Sabha", "Bhavan", time.Now().Add(24*time.Hour))
	upcoming.ScheduledDurationHours = 2

	conf := &fakeConference{}
	meetings := newFakeMeetings(overdue, running, upcoming)
	svc := NewService(meetings, &fakeAgendaService{}, conf, zap.NewNop())

	require.NoError(t, svc.ConcludeOverdue(context.Background()))

	assert.Equal(t, entities.GramSabhaStatusConcluded, meetings.byID[overdue.ID].Status)
	assert.Equal(t, entities.GramSabhaStatusConcluded, meetings.byID[running.ID].Status)
	assert.Equal(t, entities.GramSabhaStatusScheduled, meetings.byID[upcoming.ID].Status)
	assert.Equal(t, []string{overdue.ConferenceRoom}, conf.deletedRooms)
}

func TestConcludeOverdueLeavesTerminalMeetingsAlone(t *testing.T) {
	cancelled := entities.NewGramSabha(uuid.New(), uuid.New(), "Cancelled Sabha", "Bhavan", time.Now().Add(-5*time.Hour))
	cancelled.ScheduledDurationHours = 1
	cancelled.Status = entities.GramSabhaStatusCancelled

	meetings := newFakeMeetings(cancelled)
	svc := NewService(meetings, &fakeAgendaService{}, &fakeConference{}, zap.NewNop())

	require.NoError(t, svc.ConcludeOverdue(context.Background()))
	assert.Equal(t, entities.GramSabhaStatusCancelled, meetings.byID[cancelled.ID].Status)
}
