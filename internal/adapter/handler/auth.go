package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/anujdevsingh/gram-panchayat/errors"
	authdto "github.com/anujdevsingh/gram-panchayat/internal/adapter/dto/auth"
	"github.com/anujdevsingh/gram-panchayat/internal/domain/entities"
	authUsecase "github.com/anujdevsingh/gram-panchayat/internal/usecase/auth"
	"github.com/anujdevsingh/gram-panchayat/pkg/jwt"
)

// Auth handles registration and face-login HTTP requests
type Auth struct {
	authService authUsecase.Service
	tokens      *jwt.Manager
	logger      *zap.Logger
}

// NewAuth creates a new auth handler
func NewAuth(authService authUsecase.Service, tokens *jwt.Manager, logger *zap.Logger) *Auth {
	return &Auth{
		authService: authService,
		tokens:      tokens,
		logger:      logger,
	}
}

// Register handles POST /auth/register
func (h *Auth) Register(c echo.Context) error {
	var req authdto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	input := authUsecase.RegisterInput{
		Name:           req.Name,
		PhoneNumber:    req.PhoneNumber,
		Role:           entities.UserRole(req.Role),
		FaceDescriptor: req.FaceDescriptor,
	}
	if req.PanchayatID != nil {
		id, err := uuid.Parse(*req.PanchayatID)
		if err != nil {
			return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid panchayat_id"))
		}
		input.PanchayatID = &id
	}
	if req.WardID != nil {
		id, err := uuid.Parse(*req.WardID)
		if err != nil {
			return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid ward_id"))
		}
		input.WardID = &id
	}

	user, err := h.authService.Register(c.Request().Context(), input)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleCreated(h.logger, c, user)
}

// Login handles POST /auth/login
func (h *Auth) Login(c echo.Context) error {
	var req authdto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	user, pair, err := h.authService.Login(c.Request().Context(), req.PhoneNumber, req.FaceDescriptor)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, authdto.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    int64(h.tokens.GetAccessExpiry().Seconds()),
		User:         user,
	})
}

// Refresh handles POST /auth/refresh
func (h *Auth) Refresh(c echo.Context) error {
	var req authdto.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	pair, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, authdto.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    int64(h.tokens.GetAccessExpiry().Seconds()),
	})
}

// Me handles GET /auth/me
func (h *Auth) Me(c echo.Context) error {
	user, ok := c.Get("user").(*entities.User)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}
	return HandleSuccess(h.logger, c, user)
}
