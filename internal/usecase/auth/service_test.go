package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/anujdevsingh/gram-panchayat/errors"
	"github.com/anujdevsingh/gram-panchayat/internal/domain/entities"
	"github.com/anujdevsingh/gram-panchayat/pkg/jwt"
)

type fakeUsers struct {
	byID    map[uuid.UUID]*entities.User
	byPhone map[string]*entities.User
}

func newFakeUsers(users ...*entities.User) *fakeUsers {
	f := &fakeUsers{
		byID:    make(map[uuid.UUID]*entities.User),
		byPhone: make(map[string]*entities.User),
	}
	for _, u := range users {
		f.byID[u.ID] = u
		f.byPhone[u.PhoneNumber] = u
	}
	return f
}

func (f *fakeUsers) Create(ctx context.Context, user *entities.User) error {
	f.byID[user.ID] = user
	f.byPhone[user.PhoneNumber] = user
	return nil
}

func (f *fakeUsers) FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return f.byID[id], nil
}

func (f *fakeUsers) FindByPhone(ctx context.Context, phone string) (*entities.User, error) {
	return f.byPhone[phone], nil
}

func newTestAuth(users *fakeUsers) Service {
	tokens := jwt.NewManager("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	return NewService(users, tokens, zap.NewNop())
}

func TestRegisterStoresDescriptorHashOnly(t *testing.T) {
	users := newFakeUsers()
	svc := newTestAuth(users)

	user, err := svc.Register(context.Background(), RegisterInput{
		Name:           "Ram Kumar",
		PhoneNumber:    " +919999900001 ",
		FaceDescriptor: "descriptor-bytes",
	})

	require.NoError(t, err)
	assert.Equal(t, "+919999900001", user.PhoneNumber)
	assert.Equal(t, entities.UserRoleCitizen, user.Role)
	assert.NotEqual(t, "descriptor-bytes", user.FaceDescriptorHash)
	assert.Len(t, user.FaceDescriptorHash, 64)
}

func TestRegisterRejectsDuplicatePhone(t *testing.T) {
	users := newFakeUsers()
	svc := newTestAuth(users)

	input := RegisterInput{Name: "Ram", PhoneNumber: "+919999900001", FaceDescriptor: "d"}
	_, err := svc.Register(context.Background(), input)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), input)
	require.Error(t, err)
	var appErr apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorCode_AUTH_USER_ALREADY_EXISTS, appErr.Code)
}

func TestRegisterRequiresDescriptor(t *testing.T) {
	svc := newTestAuth(newFakeUsers())

	_, err := svc.Register(context.Background(), RegisterInput{Name: "Ram", PhoneNumber: "+919999900001"})
	require.Error(t, err)
	var appErr apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorCode_INVALID_ARGUMENT, appErr.Code)
}

func TestLoginMatchesFaceDescriptor(t *testing.T) {
	users := newFakeUsers()
	svc := newTestAuth(users)

	_, err := svc.Register(context.Background(), RegisterInput{
		Name:           "Ram",
		PhoneNumber:    "+919999900001",
		FaceDescriptor: "descriptor-bytes",
	})
	require.NoError(t, err)

	user, pair, err := svc.Login(context.Background(), "+919999900001", "descriptor-bytes")
	require.NoError(t, err)
	assert.Equal(t, "+919999900001", user.PhoneNumber)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
}

func TestLoginRejectsWrongDescriptor(t *testing.T) {
	users := newFakeUsers()
	svc := newTestAuth(users)

	_, err := svc.Register(context.Background(), RegisterInput{
		Name:           "Ram",
		PhoneNumber:    "+919999900001",
		FaceDescriptor: "descriptor-bytes",
	})
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "+919999900001", "someone-else")
	require.Error(t, err)
	var appErr apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorCode_AUTH_INVALID_CREDENTIALS, appErr.Code)
}

func TestLoginUnknownPhone(t *testing.T) {
	svc := newTestAuth(newFakeUsers())

	_, _, err := svc.Login(context.Background(), "+910000000000", "d")
	require.Error(t, err)
	var appErr apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorCode_AUTH_INVALID_CREDENTIALS, appErr.Code)
}

func TestRefreshIssuesNewPair(t *testing.T) {
	users := newFakeUsers()
	svc := newTestAuth(users)

	_, err := svc.Register(context.Background(), RegisterInput{
		Name:           "Ram",
		PhoneNumber:    "+919999900001",
		FaceDescriptor: "descriptor-bytes",
	})
	require.NoError(t, err)

	_, pair, err := svc.Login(context.Background(), "+919999900001", "descriptor-bytes")
	require.NoError(t, err)

	renewed, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, renewed.AccessToken)
	assert.NotEmpty(t, renewed.RefreshToken)
}

func TestRefreshRejectsGarbageToken(t *testing.T) {
	svc := newTestAuth(newFakeUsers())

	_, err := svc.Refresh(context.Background(), "not-a-token")
	require.Error(t, err)
	var appErr apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorCode_AUTH_INVALID_TOKEN, appErr.Code)
}
