package repository

import (
	"context"
	"errors"
	"time"

	"github.com/kousaila502/ecommerce-microservices-platform/internal/domain/entity"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when creating a user with an email that
// already exists.
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context, includeBlocked bool) ([]entity.User, error)
	ListBlocked(ctx context.Context) ([]entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	RecordLogin(ctx context.Context, id int64, at time.Time) error
	SetVerified(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*entity.UserStats, error)
}

// SessionRepository defines login session persistence operations.
type SessionRepository interface {
	Create(ctx context.Context, s *entity.UserSession) error
	ListActive(ctx context.Context, userID int64) ([]entity.UserSession, error)
	End(ctx context.Context, tokenID string) error
	EndAll(ctx context.Context, userID int64) (int64, error)
}
