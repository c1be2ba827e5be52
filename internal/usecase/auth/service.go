package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/anujdevsingh/gram-panchayat/errors"
	"github.com/anujdevsingh/gram-panchayat/internal/domain/entities"
	domainrepo "github.com/anujdevsingh/gram-panchayat/internal/domain/repositories"
	"github.com/anujdevsingh/gram-panchayat/pkg/jwt"
)

// RegisterInput holds the fields for citizen registration. The face
// descriptor arrives pre-computed by the client; only its hash is stored.
type RegisterInput struct {
	Name           string
	PhoneNumber    string
	PanchayatID    *uuid.UUID
	WardID         *uuid.UUID
	Role           entities.UserRole
	FaceDescriptor string
}

// TokenPair is an issued access/refresh token pair
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Service handles registration and face-biometric login
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*entities.User, error)
	Login(ctx context.Context, phoneNumber, faceDescriptor string) (*entities.User, *TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}

type service struct {
	users  domainrepo.UserRepository
	tokens *jwt.Manager
	logger *zap.Logger
}

// NewService constructs the auth service
func NewService(users domainrepo.UserRepository, tokens *jwt.Manager, logger *zap.Logger) Service {
	return &service{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*entities.User, error) {
	phone := strings.TrimSpace(input.PhoneNumber)
	if phone == "" {
		return nil, apperrors.ErrInvalidArgument("phone number is required")
	}
	if input.FaceDescriptor == "" {
		return nil, apperrors.ErrInvalidArgument("face descriptor is required")
	}

	existing, err := s.users.FindByPhone(ctx, phone)
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}
	if existing != nil {
		return nil, apperrors.ErrUserAlreadyExists(phone)
	}

	role := input.Role
	if role == "" {
		role = entities.UserRoleCitizen
	}

	user := &entities.User{
		ID:                 uuid.New(),
		Name:               input.Name,
		PhoneNumber:        phone,
		Role:               role,
		PanchayatID:        input.PanchayatID,
		WardID:             input.WardID,
		FaceDescriptorHash: hashDescriptor(input.FaceDescriptor),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.ErrInternal(err)
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)
	return user, nil
}

func (s *service) Login(ctx context.Context, phoneNumber, faceDescriptor string) (*entities.User, *TokenPair, error) {
	user, err := s.users.FindByPhone(ctx, strings.TrimSpace(phoneNumber))
	if err != nil {
		return nil, nil, apperrors.ErrInternal(err)
	}
	if user == nil {
		return nil, nil, apperrors.ErrInvalidCredentials()
	}

	provided := hashDescriptor(faceDescriptor)
	if subtle.ConstantTimeCompare([]byte(provided), []byte(user.FaceDescriptorHash)) != 1 {
		return nil, nil, apperrors.ErrInvalidCredentials()
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, apperrors.ErrInternal(err)
	}
	return user, pair, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	userID, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidToken()
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound()
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}
	return pair, nil
}

func (s *service) issueTokens(user *entities.User) (*TokenPair, error) {
	access, err := s.tokens.GenerateAccessToken(user.ID, user.PhoneNumber, string(user.Role))
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func hashDescriptor(descriptor string) string {
	sum := sha256.Sum256([]byte(descriptor))
	return hex.EncodeToString(sum[:])
}
