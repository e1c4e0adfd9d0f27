package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kousaila502/ecommerce-microservices-platform/internal/domain/entity"
	"github.com/kousaila502/ecommerce-microservices-platform/internal/domain/repository"
)

func newAdminService(users *MockUserRepository, sessions *MockSessionRepository) *AdminService {
	return &AdminService{Users: users, Sessions: sessions, Logger: testLogger()}
}

func TestBlockUser(t *testing.T) {
	users := new(MockUserRepository)
	sessions := new(MockSessionRepository)
	svc := newAdminService(users, sessions)

	target := &entity.User{ID: 7, Role: entity.RoleUser, Status: entity.StatusActive}
	users.On("GetByID", mock.Anything, int64(7)).Return(target, nil)
	users.On("Update", mock.Anything, target).Return(nil)
	sessions.On("EndAll", mock.Anything, int64(7)).Return(int64(2), nil)

	u, err := svc.BlockUser(context.Background(), 1, 7, "abuse")
	require.NoError(t, err)

	assert.Equal(t, entity.StatusBlocked, u.Status)
	require.NotNil(t, u.BlockedAt)
	require.NotNil(t, u.BlockedBy)
	assert.Equal(t, int64(1), *u.BlockedBy)
	require.NotNil(t, u.BlockedReason)
	assert.Equal(t, "abuse", *u.BlockedReason)
}

func TestBlockSelfForbidden(t *testing.T) {
	users := new(MockUserRepository)
	svc := newAdminService(users, new(MockSessionRepository))

	_, err := svc.BlockUser(context.Background(), 1, 1, "")
	assert.ErrorIs(t, err, ErrSelfTarget)
	users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestBlockAdminForbidden(t *testing.T) {
	users := new(MockUserRepository)
	svc := newAdminService(users, new(MockSessionRepository))

	users.On("GetByID", mock.Anything, int64(2)).
		Return(&entity.User{ID: 2, Role: entity.RoleAdmin, Status: entity.StatusActive}, nil)

	_, err := svc.BlockUser(context.Background(), 1, 2, "")
	assert.ErrorIs(t, err, ErrAdminTarget)
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestBlockUnknownUser(t *testing.T) {
	users := new(MockUserRepository)
	svc := newAdminService(users, new(MockSessionRepository))

	users.On("GetByID", mock.Anything, int64(404)).Return(nil, repository.ErrNotFound)

	_, err := svc.BlockUser(context.Background(), 1, 404, "")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSuspendSharesBlockGuards(t *testing.T) {
	users := new(MockUserRepository)
	sessions := new(MockSessionRepository)
	svc := newAdminService(users, sessions)

	_, err := svc.SuspendUser(context.Background(), 1, 1, "")
	assert.ErrorIs(t, err, ErrSelfTarget)

	target := &entity.User{ID: 7, Role: entity.RoleUser, Status: entity.StatusActive}
	users.On("GetByID", mock.Anything, int64(7)).Return(target, nil)
	users.On("Update", mock.Anything, target).Return(nil)
	sessions.On("EndAll", mock.Anything, int64(7)).Return(int64(0), nil)

	u, err := svc.SuspendUser(context.Background(), 1, 7, "payment dispute")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusSuspended, u.Status)
}

func TestUnblockClearsModFields(t *testing.T) {
	users := new(MockUserRepository)
	svc := newAdminService(users, new(MockSessionRepository))

	by := int64(1)
	reason := "abuse"
	target := &entity.User{
		ID: 7, Role: entity.RoleUser, Status: entity.StatusBlocked,
		BlockedBy: &by, BlockedReason: &reason,
	}
	users.On("GetByID", mock.Anything, int64(7)).Return(target, nil)
	users.On("Update", mock.Anything, target).Return(nil)

	u, err := svc.UnblockUser(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusActive, u.Status)
	assert.Nil(t, u.BlockedAt)
	assert.Nil(t, u.BlockedBy)
	assert.Nil(t, u.BlockedReason)
}

func TestSetRoleValidation(t *testing.T) {
	users := new(MockUserRepository)
	svc := newAdminService(users, new(MockSessionRepository))

	_, err := svc.SetRole(context.Background(), 7, "superuser")
	assert.ErrorIs(t, err, ErrInvalidRole)
	users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)

	target := &entity.User{ID: 7, Role: entity.RoleUser, Status: entity.StatusActive}
	users.On("GetByID", mock.Anything, int64(7)).Return(target, nil)
	users.On("Update", mock.Anything, target).Return(nil)

	u, err := svc.SetRole(context.Background(), 7, entity.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, u.Role)
}

func TestLogoutAllCountsSessions(t *testing.T) {
	users := new(MockUserRepository)
	sessions := new(MockSessionRepository)
	svc := newAdminService(users, sessions)

	users.On("GetByID", mock.Anything, int64(7)).
		Return(&entity.User{ID: 7, Role: entity.RoleUser}, nil)
	sessions.On("EndAll", mock.Anything, int64(7)).Return(int64(3), nil)

	n, err := svc.LogoutAll(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestSearchUsersWithoutIndex(t *testing.T) {
	svc := newAdminService(new(MockUserRepository), new(MockSessionRepository))
	hits, err := svc.SearchUsers(context.Background(), "jane", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}
