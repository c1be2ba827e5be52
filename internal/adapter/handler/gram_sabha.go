package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/anujdevsingh/gram-panchayat/errors"
	agendadto "github.com/anujdevsingh/gram-panchayat/internal/adapter/dto/agenda"
	gsdto "github.com/anujdevsingh/gram-panchayat/internal/adapter/dto/gramsabha"
	"github.com/anujdevsingh/gram-panchayat/internal/domain/entities"
	gsUsecase "github.com/anujdevsingh/gram-panchayat/internal/usecase/gramsabha"
)

// GramSabha handles meeting HTTP requests
type GramSabha struct {
	meetingService gsUsecase.Service
	logger         *zap.Logger
}

// NewGramSabhaHandler creates a new meeting handler
func NewGramSabhaHandler(meetingService gsUsecase.Service, logger *zap.Logger) *GramSabha {
	return &GramSabha{
		meetingService: meetingService,
		logger:         logger,
	}
}

// Create handles POST /gram-sabhas
func (h *GramSabha) Create(c echo.Context) error {
	var req gsdto.CreateRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	panchayatID, err := uuid.Parse(req.PanchayatID)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid panchayat_id"))
	}

	created, err := h.meetingService.Create(c.Request().Context(), gsUsecase.CreateInput{
		PanchayatID:   panchayatID,
		ScheduledByID: userID,
		Title:         req.Title,
		Location:      req.Location,
		DateTime:      req.DateTime,
		DurationHours: req.DurationHours,
		Agenda:        agendadto.ToEntityList(req.Agenda),
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleCreated(h.logger, c, created)
}

// Get handles GET /gram-sabhas/:id
func (h *GramSabha) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid gram sabha id"))
	}

	found, err := h.meetingService.Get(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, found)
}

// List handles GET /panchayats/:id/gram-sabhas
func (h *GramSabha) List(c echo.Context) error {
	panchayatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid panchayat id"))
	}

	limit, offset := pagination(c)
	meetings, err := h.meetingService.List(c.Request().Context(), panchayatID, limit, offset)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, meetings)
}

// UpdateAgenda handles PUT /gram-sabhas/:id/agenda
func (h *GramSabha) UpdateAgenda(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid gram sabha id"))
	}

	var req gsdto.UpdateAgendaRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	updated, err := h.meetingService.UpdateAgenda(c.Request().Context(), id, agendadto.ToEntityList(req.Agenda))
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, updated)
}

// UpdateStatus handles PATCH /gram-sabhas/:id/status
func (h *GramSabha) UpdateStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid gram sabha id"))
	}

	var req gsdto.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	updated, err := h.meetingService.UpdateStatus(c.Request().Context(), id, entities.GramSabhaStatus(req.Status))
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, updated)
}

// Join handles POST /gram-sabhas/:id/join
func (h *GramSabha) Join(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid gram sabha id"))
	}

	user, ok := c.Get("user").(*entities.User)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	token, err := h.meetingService.Join(c.Request().Context(), id, user)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, map[string]string{"token": token})
}

// RecordAttendance handles POST /gram-sabhas/:id/attendances
func (h *GramSabha) RecordAttendance(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid gram sabha id"))
	}

	var req gsdto.AttendanceRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid user_id"))
	}

	status := entities.AttendanceStatus(req.Status)
	if status == "" {
		status = entities.AttendancePresent
	}

	updated, err := h.meetingService.RecordAttendance(c.Request().Context(), id, entities.Attendance{
		UserID:             userID,
		CheckInTime:        time.Now(),
		VerificationMethod: req.VerificationMethod,
		Status:             status,
		Remarks:            req.Remarks,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, updated)
}

// pagination reads page/page_size query params with defaults
func pagination(c echo.Context) (limit, offset int) {
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 20)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return pageSize, (page - 1) * pageSize
}
