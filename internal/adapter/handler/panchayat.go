package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/anujdevsingh/gram-panchayat/errors"
	panchayatdto "github.com/anujdevsingh/gram-panchayat/internal/adapter/dto/panchayat"
	"github.com/anujdevsingh/gram-panchayat/internal/domain/entities"
	"github.com/anujdevsingh/gram-panchayat/internal/domain/repositories"
)

// Panchayat handles panchayat administration HTTP requests
type Panchayat struct {
	panchayats repositories.PanchayatRepository
	logger     *zap.Logger
}

// NewPanchayatHandler creates a new panchayat handler
func NewPanchayatHandler(panchayats repositories.PanchayatRepository, logger *zap.Logger) *Panchayat {
	return &Panchayat{
		panchayats: panchayats,
		logger:     logger,
	}
}

// Create handles POST /panchayats
func (h *Panchayat) Create(c echo.Context) error {
	var req panchayatdto.CreateRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	panchayat := entities.NewPanchayat(req.Name, req.State, req.District, req.Language)
	panchayat.Block = req.Block
	panchayat.Village = req.Village
	panchayat.Population = req.Population

	if err := h.panchayats.Create(c.Request().Context(), panchayat); err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}

	return HandleCreated(h.logger, c, panchayat)
}

// Get handles GET /panchayats/:id
func (h *Panchayat) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid panchayat id"))
	}

	panchayat, err := h.panchayats.FindByID(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}
	if panchayat == nil {
		return HandleError(h.logger, c, errors.ErrNotFound("panchayat"))
	}

	return HandleSuccess(h.logger, c, panchayat)
}

// List handles GET /panchayats
func (h *Panchayat) List(c echo.Context) error {
	panchayats, err := h.panchayats.ListAll(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}

	return HandleSuccess(h.logger, c, panchayats)
}

// Update handles PATCH /panchayats/:id
func (h *Panchayat) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid panchayat id"))
	}

	var req panchayatdto.UpdateRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	panchayat, err := h.panchayats.FindByID(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}
	if panchayat == nil {
		return HandleError(h.logger, c, errors.ErrNotFound("panchayat"))
	}

	if req.Name != nil {
		panchayat.Name = *req.Name
	}
	if req.State != nil {
		panchayat.State = *req.State
	}
	if req.District != nil {
		panchayat.District = *req.District
	}
	if req.Block != nil {
		panchayat.Block = *req.Block
	}
	if req.Village != nil {
		panchayat.Village = *req.Village
	}
	if req.Language != nil {
		panchayat.Language = *req.Language
	}
	if req.Population != nil {
		panchayat.Population = *req.Population
	}

	if err := h.panchayats.Update(c.Request().Context(), panchayat); err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}

	return HandleSuccess(h.logger, c, panchayat)
}

// CreateWard handles POST /panchayats/:id/wards
func (h *Panchayat) CreateWard(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid panchayat id"))
	}

	var req panchayatdto.CreateWardRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	panchayat, err := h.panchayats.FindByID(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}
	if panchayat == nil {
		return HandleError(h.logger, c, errors.ErrNotFound("panchayat"))
	}

	ward := &entities.Ward{
		ID:          uuid.New(),
		PanchayatID: id,
		Name:        req.Name,
		Number:      req.Number,
	}
	if err := h.panchayats.CreateWard(c.Request().Context(), ward); err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}

	return HandleCreated(h.logger, c, ward)
}

// ListWards handles GET /panchayats/:id/wards
func (h *Panchayat) ListWards(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid panchayat id"))
	}

	wards, err := h.panchayats.ListWards(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}

	return HandleSuccess(h.logger, c, wards)
}

// Delete handles DELETE /panchayats/:id
func (h *Panchayat) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid panchayat id"))
	}

	if err := h.panchayats.Delete(c.Request().Context(), id); err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}

	return HandleSuccess(h.logger, c, map[string]string{"status": "deleted"})
}
