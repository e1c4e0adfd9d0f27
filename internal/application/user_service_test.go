package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kousaila502/ecommerce-microservices-platform/internal/domain/entity"
	"github.com/kousaila502/ecommerce-microservices-platform/internal/domain/repository"
	"github.com/kousaila502/ecommerce-microservices-platform/pkg/helpers"
)

func newUserService(users *MockUserRepository, sessions *MockSessionRepository) *UserService {
	return &UserService{
		Users:    users,
		Sessions: sessions,
		JWT:      helpers.NewJWTManager("test-secret", 30*time.Minute),
		Logger:   testLogger(),
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	users := new(MockUserRepository)
	svc := newUserService(users, new(MockSessionRepository))

	var created *entity.User
	users.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*entity.User)
			created.ID = 1
		}).Return(nil)

	u, err := svc.Register(context.Background(), RegisterInput{
		Name: "Jane", Email: "Jane@Example.com", Mobile: "+15550001111", Password: "hunter2boom",
	})
	require.NoError(t, err)

	assert.Equal(t, "jane@example.com", u.Email)
	assert.Equal(t, entity.RoleUser, u.Role)
	assert.Equal(t, entity.StatusActive, u.Status)
	assert.NotEqual(t, "hunter2boom", u.Password)
	assert.True(t, helpers.CompareHashAndPassword(u.Password, "hunter2boom"))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := new(MockUserRepository)
	svc := newUserService(users, new(MockSessionRepository))

	users.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicateEmail)

	_, err := svc.Register(context.Background(), RegisterInput{
		Name: "Jane", Email: "jane@example.com", Password: "hunter2boom",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterPendingWhenVerificationEnabled(t *testing.T) {
	users := new(MockUserRepository)
	svc := newUserService(users, new(MockSessionRepository))
	svc.VerificationEnabled = true

	users.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { args.Get(1).(*entity.User).ID = 1 }).Return(nil)

	u, err := svc.Register(context.Background(), RegisterInput{
		Name: "Jane", Email: "jane@example.com", Password: "hunter2boom",
	})
	require.NoError(t, err)
	// Without redis/rabbitmq the job enqueue fails and is logged; the
	// account is still created in the pending state.
	assert.Equal(t, entity.StatusPendingVerification, u.Status)
}

func activeUser(t *testing.T) *entity.User {
	t.Helper()
	hash, err := helpers.HashPassword("hunter2boom")
	require.NoError(t, err)
	return &entity.User{
		ID: 7, Name: "Jane", Email: "jane@example.com", Password: hash,
		Role: entity.RoleUser, Status: entity.StatusActive,
	}
}

func TestLoginIssuesTokenAndSession(t *testing.T) {
	users := new(MockUserRepository)
	sessions := new(MockSessionRepository)
	svc := newUserService(users, sessions)

	u := activeUser(t)
	users.On("GetByEmail", mock.Anything, "jane@example.com").Return(u, nil)
	users.On("RecordLogin", mock.Anything, int64(7), mock.Anything).Return(nil)

	var sess *entity.UserSession
	sessions.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			sess = args.Get(1).(*entity.UserSession)
			sess.ID = 11
		}).Return(nil)

	res, err := svc.Login(context.Background(), "jane@example.com", "hunter2boom", "10.0.0.1", "go-test")
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)

	claims, err := svc.JWT.ParseToken(res.Token)
	require.NoError(t, err)
	uid, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(7), uid)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, entity.RoleUser, claims.Role)

	// The session row's token id must match the sid claim so logout can
	// find it.
	require.NotNil(t, sess)
	assert.Equal(t, claims.SessionID, sess.TokenID)
	assert.Equal(t, "10.0.0.1", sess.IPAddress)
}

func TestLoginWrongPassword(t *testing.T) {
	users := new(MockUserRepository)
	svc := newUserService(users, new(MockSessionRepository))

	users.On("GetByEmail", mock.Anything, "jane@example.com").Return(activeUser(t), nil)

	_, err := svc.Login(context.Background(), "jane@example.com", "wrong-password", "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	users := new(MockUserRepository)
	svc := newUserService(users, new(MockSessionRepository))

	users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, repository.ErrNotFound)

	_, err := svc.Login(context.Background(), "ghost@example.com", "whatever42", "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginBlockedUser(t *testing.T) {
	users := new(MockUserRepository)
	sessions := new(MockSessionRepository)
	svc := newUserService(users, sessions)

	u := activeUser(t)
	u.Status = entity.StatusBlocked
	users.On("GetByEmail", mock.Anything, "jane@example.com").Return(u, nil)

	// Same error as a bad password: the response must not reveal that
	// the account exists but is blocked.
	_, err := svc.Login(context.Background(), "jane@example.com", "hunter2boom", "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	sessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogoutClosedSessionIsNoop(t *testing.T) {
	sessions := new(MockSessionRepository)
	svc := newUserService(new(MockUserRepository), sessions)

	sessions.On("End", mock.Anything, "sid-1").Return(repository.ErrNotFound)
	assert.NoError(t, svc.Logout(context.Background(), "sid-1"))
}

func TestUpdateProfilePartial(t *testing.T) {
	users := new(MockUserRepository)
	svc := newUserService(users, new(MockSessionRepository))

	u := activeUser(t)
	u.Mobile = "+15550001111"
	users.On("GetByID", mock.Anything, int64(7)).Return(u, nil)
	users.On("Update", mock.Anything, u).Return(nil)

	name := "Jane Q"
	got, err := svc.UpdateProfile(context.Background(), 7, UpdateProfileInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Jane Q", got.Name)
	assert.Equal(t, "+15550001111", got.Mobile)
}
