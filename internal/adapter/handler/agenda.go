package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/anujdevsingh/gram-panchayat/errors"
	agendadto "github.com/anujdevsingh/gram-panchayat/internal/adapter/dto/agenda"
	agendaUsecase "github.com/anujdevsingh/gram-panchayat/internal/usecase/agenda"
)

// Agenda exposes the panchayat-wide outstanding agenda pool
type Agenda struct {
	agendaService agendaUsecase.Service
	logger        *zap.Logger
}

// NewAgendaHandler creates a new agenda handler
func NewAgendaHandler(agendaService agendaUsecase.Service, logger *zap.Logger) *Agenda {
	return &Agenda{
		agendaService: agendaService,
		logger:        logger,
	}
}

// Get handles GET /panchayats/:id/agenda
func (h *Agenda) Get(c echo.Context) error {
	panchayatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid panchayat id"))
	}

	summary, err := h.agendaService.GetPoolAgenda(c.Request().Context(), panchayatID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, summary)
}

// Replace handles PUT /panchayats/:id/agenda. The submitted list replaces
// the whole pool; an empty list deletes it and releases every linked issue.
func (h *Agenda) Replace(c echo.Context) error {
	panchayatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid panchayat id"))
	}

	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	var req agendadto.ReplaceRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	summary, err := h.agendaService.ReplacePoolAgenda(c.Request().Context(), panchayatID, userID, agendadto.ToEntityList(req.AgendaItems))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if summary == nil {
		return HandleSuccess(h.logger, c, map[string]string{"status": "cleared"})
	}

	return HandleSuccess(h.logger, c, summary)
}
