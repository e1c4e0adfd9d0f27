package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kousaila502/ecommerce-microservices-platform/internal/domain/entity"
	repo "github.com/kousaila502/ecommerce-microservices-platform/internal/domain/repository"
	"github.com/kousaila502/ecommerce-microservices-platform/internal/infrastructure/client"
	"github.com/kousaila502/ecommerce-microservices-platform/pkg/helpers"
)

var (
	ErrCartEmpty       = errors.New("cart is empty - cannot create order")
	ErrCartUnavailable = errors.New("cart service unavailable")
	ErrOrderNotFound   = errors.New("order not found")
	ErrInvalidStatus   = errors.New("invalid status value")
)

// ProductUnavailableError reports a cart line whose product could not be
// validated during checkout. No partial orders: one bad line fails the
// whole checkout.
type ProductUnavailableError struct {
	ProductID int64
}

func (e *ProductUnavailableError) Error() string {
	return fmt.Sprintf("product %d not found or unavailable", e.ProductID)
}

// InvalidCartLineError reports a cart line that cannot form a valid
// order item: quantity must be positive and price non-negative.
type InvalidCartLineError struct {
	ProductID int64
}

func (e *InvalidCartLineError) Error() string {
	return fmt.Sprintf("cart line for product %d has an invalid quantity or price", e.ProductID)
}

// CartFetcher is the slice of the cart service the checkout needs.
type CartFetcher interface {
	GetCart(ctx context.Context, userID int64, token string) ([]client.CartItem, error)
	Clear(ctx context.Context, token string) error
}

// ProductFetcher is the slice of the product service the checkout needs.
type ProductFetcher interface {
	GetProduct(ctx context.Context, productID int64, token string) (*client.Product, error)
	UpdateStock(ctx context.Context, productID int64, stock int, token string) error
}

// OrderService orchestrates checkout and implements the order read,
// update, and stats operations.
type OrderService struct {
	Orders   repo.OrderRepository
	Cart     CartFetcher
	Products ProductFetcher
	Rabbit   *helpers.RabbitPublisher
	Logger   *logrus.Logger
}

// Address is a postal address snapshot supplied at checkout.
type Address struct {
	Address    string
	City       string
	State      string
	PostalCode string
	Country    string
}

type CheckoutInput struct {
	ShippingAddress *Address
	BillingAddress  *Address
	CustomerPhone   string
	Notes           string
}

// OrderEvent is the payload published to the order events queue.
type OrderEvent struct {
	Type        string    `json:"type"`
	OrderID     int64     `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	UserID      int64     `json:"user_id"`
	OldStatus   *string   `json:"old_status,omitempty"`
	NewStatus   string    `json:"new_status"`
	Timestamp   time.Time `json:"timestamp"`
}

func orderNumber(now time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}

// taxFor is 10% of the subtotal, rounded half-up at cent precision.
func taxFor(subtotal entity.Cents) entity.Cents {
	return entity.Cents((int64(subtotal) + 5) / 10)
}

// shippingFor is a flat 10.00 below the 100.00 free-shipping threshold,
// free at the threshold and above.
func shippingFor(subtotal entity.Cents) entity.Cents {
	if subtotal < 10000 {
		return 1000
	}
	return 0
}

var defaultShipping = Address{
	Address:    "123 Default Street",
	City:       "Default City",
	State:      "CA",
	PostalCode: "90210",
	Country:    "USA",
}

// CreateOrder turns the user's cart into an order. The cart must be
// reachable and non-empty and every cart line must resolve to a product.
// The order, its items, and the initial history row commit in one
// transaction; stock decrement, cart clear, and the order.created event
// run after commit and never fail the request.
func (s *OrderService) CreateOrder(ctx context.Context, user *client.AuthUser, token string, in CheckoutInput) (*entity.Order, error) {
	cartItems, err := s.Cart.GetCart(ctx, user.ID, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCartUnavailable, err)
	}
	if len(cartItems) == 0 {
		return nil, ErrCartEmpty
	}

	ship := defaultShipping
	if in.ShippingAddress != nil {
		ship = *in.ShippingAddress
	}

	items := make([]entity.OrderItem, 0, len(cartItems))
	var subtotal entity.Cents
	for _, ci := range cartItems {
		if ci.Quantity <= 0 || ci.Price < 0 {
			return nil, &InvalidCartLineError{ProductID: ci.ProductID}
		}
		p, err := s.Products.GetProduct(ctx, ci.ProductID, token)
		if err != nil {
			return nil, &ProductUnavailableError{ProductID: ci.ProductID}
		}
		lineTotal := ci.Price * entity.Cents(ci.Quantity)
		subtotal += lineTotal
		items = append(items, entity.OrderItem{
			ProductID:    ci.ProductID,
			ProductName:  p.Title,
			ProductSKU:   p.SKU,
			ProductImage: p.Image,
			UnitPrice:    ci.Price,
			Quantity:     ci.Quantity,
			TotalPrice:   lineTotal,
		})
	}

	tax := taxFor(subtotal)
	shipping := shippingFor(subtotal)
	var discount entity.Cents
	total := subtotal + tax + shipping - discount

	now := time.Now().UTC()
	phone := in.CustomerPhone
	if phone == "" {
		phone = "+1-555-0000"
	}
	notes := in.Notes
	if notes == "" {
		notes = "Auto-generated order for " + user.Email
	}
	o := &entity.Order{
		UserID:        user.ID,
		OrderNumber:   orderNumber(now),
		Status:        entity.OrderPending,
		PaymentStatus: entity.PaymentPending,

		Subtotal:       subtotal,
		TaxAmount:      tax,
		ShippingAmount: shipping,
		DiscountAmount: discount,
		TotalAmount:    total,

		ShippingAddress:    ship.Address,
		ShippingCity:       ship.City,
		ShippingState:      ship.State,
		ShippingPostalCode: ship.PostalCode,
		ShippingCountry:    ship.Country,

		CustomerEmail: user.Email,
		CustomerPhone: phone,
		Notes:         notes,

		Items: items,
	}
	if b := in.BillingAddress; b != nil {
		o.BillingAddress = &b.Address
		o.BillingCity = &b.City
		o.BillingState = &b.State
		o.BillingPostalCode = &b.PostalCode
		o.BillingCountry = &b.Country
	}

	history := &entity.OrderStatusHistory{
		NewStatus: entity.OrderPending,
		ChangedBy: user.ID,
		Reason:    "Order created",
	}
	if err := s.Orders.CreateOrder(ctx, o, history); err != nil {
		return nil, err
	}

	s.afterCreate(ctx, o, token)

	return s.Orders.GetByID(ctx, o.ID, nil)
}

// afterCreate runs the best-effort post-commit side effects. Each one
// logs its own failure; none roll back the committed order.
func (s *OrderService) afterCreate(ctx context.Context, o *entity.Order, token string) {
	for _, it := range o.Items {
		p, err := s.Products.GetProduct(ctx, it.ProductID, token)
		if err != nil {
			s.Logger.WithError(err).WithField("product_id", it.ProductID).Warn("stock read failed")
			continue
		}
		newStock := p.Stock - it.Quantity
		if newStock < 0 {
			newStock = 0
		}
		if err := s.Products.UpdateStock(ctx, it.ProductID, newStock, token); err != nil {
			s.Logger.WithError(err).WithField("product_id", it.ProductID).Warn("stock update failed")
		}
	}
	if err := s.Cart.Clear(ctx, token); err != nil {
		s.Logger.WithError(err).WithField("order_id", o.ID).Warn("cart clear failed")
	}
	s.publishEvent(ctx, OrderEvent{
		Type:        "order.created",
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		NewStatus:   o.Status,
		Timestamp:   time.Now().UTC(),
	})
}

func (s *OrderService) publishEvent(ctx context.Context, ev OrderEvent) {
	if s.Rabbit == nil {
		return
	}
	if err := s.Rabbit.PublishJSON(ctx, ev); err != nil {
		s.Logger.WithError(err).WithField("order_id", ev.OrderID).Warn("publish order event failed")
	}
}

// GetOrder loads an order with items. Non-admin callers only see their
// own orders; anything else is a plain not-found.
func (s *OrderService) GetOrder(ctx context.Context, orderID int64, user *client.AuthUser) (*entity.Order, error) {
	var owner *int64
	if !user.IsAdmin() {
		owner = &user.ID
	}
	o, err := s.Orders.GetByID(ctx, orderID, owner)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	return o, err
}

// ListUserOrders pages through the user's own orders, newest first.
func (s *OrderService) ListUserOrders(ctx context.Context, userID int64, page, size int) ([]entity.Order, error) {
	return s.Orders.ListByUser(ctx, userID, page, size)
}

// ListAllOrders pages through every order, newest first. Admin only;
// the handler enforces the role.
func (s *OrderService) ListAllOrders(ctx context.Context, page, size int) ([]entity.Order, error) {
	return s.Orders.ListAll(ctx, page, size)
}

type UpdateOrderInput struct {
	Status         *string
	PaymentStatus  *string
	TrackingNumber *string
	Notes          *string
}

// UpdateOrder applies a partial admin update. A status change stamps the
// matching timestamp and appends exactly one history row; setting the
// current status again records nothing.
func (s *OrderService) UpdateOrder(ctx context.Context, orderID int64, admin *client.AuthUser, in UpdateOrderInput) (*entity.Order, error) {
	if in.Status != nil && !entity.ValidOrderStatus(*in.Status) {
		return nil, ErrInvalidStatus
	}
	if in.PaymentStatus != nil && !entity.ValidPaymentStatus(*in.PaymentStatus) {
		return nil, ErrInvalidStatus
	}

	o, err := s.Orders.GetByID(ctx, orderID, nil)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	oldStatus := o.Status
	now := time.Now().UTC()
	if in.Status != nil && *in.Status != "" {
		o.Status = *in.Status
		switch o.Status {
		case entity.OrderConfirmed:
			o.ConfirmedAt = &now
		case entity.OrderShipped:
			o.ShippedAt = &now
		case entity.OrderDelivered:
			o.DeliveredAt = &now
		case entity.OrderCancelled:
			o.CancelledAt = &now
		}
	}
	if in.PaymentStatus != nil && *in.PaymentStatus != "" {
		o.PaymentStatus = *in.PaymentStatus
	}
	if in.TrackingNumber != nil && *in.TrackingNumber != "" {
		o.TrackingNumber = *in.TrackingNumber
	}
	if in.Notes != nil && *in.Notes != "" {
		o.Notes = *in.Notes
	}

	var history *entity.OrderStatusHistory
	if o.Status != oldStatus {
		old := oldStatus
		history = &entity.OrderStatusHistory{
			OrderID:   o.ID,
			OldStatus: &old,
			NewStatus: o.Status,
			ChangedBy: admin.ID,
			Reason:    "Status updated by " + admin.Name,
		}
	}
	if err := s.Orders.UpdateOrder(ctx, o, history); err != nil {
		return nil, err
	}
	if history != nil {
		s.publishEvent(ctx, OrderEvent{
			Type:        "order.status_changed",
			OrderID:     o.ID,
			OrderNumber: o.OrderNumber,
			UserID:      o.UserID,
			OldStatus:   history.OldStatus,
			NewStatus:   o.Status,
			Timestamp:   now,
		})
	}
	return s.Orders.GetByID(ctx, o.ID, nil)
}

// OrderHistory returns the status trail, oldest first.
func (s *OrderService) OrderHistory(ctx context.Context, orderID int64, user *client.AuthUser) ([]entity.OrderStatusHistory, error) {
	if _, err := s.GetOrder(ctx, orderID, user); err != nil {
		return nil, err
	}
	return s.Orders.HistoryByOrder(ctx, orderID)
}

func (s *OrderService) Stats(ctx context.Context) (*entity.OrderStats, error) {
	return s.Orders.Stats(ctx)
}
