package application

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/kousaila502/ecommerce-microservices-platform/internal/domain/entity"
	"github.com/kousaila502/ecommerce-microservices-platform/internal/infrastructure/client"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *entity.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, includeBlocked bool) ([]entity.User, error) {
	args := m.Called(ctx, includeBlocked)
	return args.Get(0).([]entity.User), args.Error(1)
}

func (m *MockUserRepository) ListBlocked(ctx context.Context) ([]entity.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]entity.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, u *entity.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) RecordLogin(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockUserRepository) SetVerified(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) Stats(ctx context.Context) (*entity.UserStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.UserStats), args.Error(1)
}

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, s *entity.UserSession) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSessionRepository) ListActive(ctx context.Context, userID int64) ([]entity.UserSession, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]entity.UserSession), args.Error(1)
}

func (m *MockSessionRepository) End(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func (m *MockSessionRepository) EndAll(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreateOrder(ctx context.Context, o *entity.Order, history *entity.OrderStatusHistory) error {
	args := m.Called(ctx, o, history)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id int64, ownerID *int64) (*entity.Order, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID int64, page, size int) ([]entity.Order, error) {
	args := m.Called(ctx, userID, page, size)
	return args.Get(0).([]entity.Order), args.Error(1)
}

func (m *MockOrderRepository) ListAll(ctx context.Context, page, size int) ([]entity.Order, error) {
	args := m.Called(ctx, page, size)
	return args.Get(0).([]entity.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateOrder(ctx context.Context, o *entity.Order, history *entity.OrderStatusHistory) error {
	args := m.Called(ctx, o, history)
	return args.Error(0)
}

func (m *MockOrderRepository) HistoryByOrder(ctx context.Context, orderID int64) ([]entity.OrderStatusHistory, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]entity.OrderStatusHistory), args.Error(1)
}

func (m *MockOrderRepository) Stats(ctx context.Context) (*entity.OrderStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.OrderStats), args.Error(1)
}

type MockCartFetcher struct {
	mock.Mock
}

func (m *MockCartFetcher) GetCart(ctx context.Context, userID int64, token string) ([]client.CartItem, error) {
	args := m.Called(ctx, userID, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]client.CartItem), args.Error(1)
}

func (m *MockCartFetcher) Clear(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

type MockProductFetcher struct {
	mock.Mock
}

func (m *MockProductFetcher) GetProduct(ctx context.Context, productID int64, token string) (*client.Product, error) {
	args := m.Called(ctx, productID, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Product), args.Error(1)
}

func (m *MockProductFetcher) UpdateStock(ctx context.Context, productID int64, stock int, token string) error {
	args := m.Called(ctx, productID, stock, token)
	return args.Error(0)
}
