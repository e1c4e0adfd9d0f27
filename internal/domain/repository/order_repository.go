package repository

import (
	"context"

	"github.com/kousaila502/ecommerce-microservices-platform/internal/domain/entity"
)

// OrderRepository defines order persistence operations. CreateOrder and
// UpdateOrder are transactional: the order, its items, and the history
// row are written all-or-nothing.
type OrderRepository interface {
	// CreateOrder inserts the order, its items, and the initial status
	// history row in a single transaction, filling in generated ids.
	CreateOrder(ctx context.Context, o *entity.Order, history *entity.OrderStatusHistory) error

	// GetByID loads an order with its items. When ownerID is non-nil the
	// order must belong to that user; otherwise ErrNotFound is returned
	// so non-owners cannot learn of its existence.
	GetByID(ctx context.Context, id int64, ownerID *int64) (*entity.Order, error)

	// ListByUser returns the user's orders newest first, without items.
	ListByUser(ctx context.Context, userID int64, page, size int) ([]entity.Order, error)

	// ListAll returns all orders newest first, without items.
	ListAll(ctx context.Context, page, size int) ([]entity.Order, error)

	// UpdateOrder persists the mutated order fields and, when history is
	// non-nil, appends the status history row in the same transaction.
	UpdateOrder(ctx context.Context, o *entity.Order, history *entity.OrderStatusHistory) error

	// HistoryByOrder returns the status trail oldest first.
	HistoryByOrder(ctx context.Context, orderID int64) ([]entity.OrderStatusHistory, error)

	Stats(ctx context.Context) (*entity.OrderStats, error)
}
