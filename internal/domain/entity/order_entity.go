package entity

import "time"

// Order statuses
const (
	OrderPending    = "pending"
	OrderConfirmed  = "confirmed"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
	OrderRefunded   = "refunded"
)

// Payment statuses
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderProcessing, OrderShipped,
		OrderDelivered, OrderCancelled, OrderRefunded:
		return true
	}
	return false
}

// ValidPaymentStatus reports whether s is a known payment status.
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// Order is the aggregate root: an order row plus its owned items,
// treated as one consistency unit. Address and contact fields are
// snapshots copied at creation time. The money invariant
// TotalAmount == Subtotal + TaxAmount + ShippingAmount - DiscountAmount
// holds for every persisted order.
type Order struct {
	ID            int64
	UserID        int64
	OrderNumber   string
	Status        string
	PaymentStatus string

	Subtotal       Cents
	TaxAmount      Cents
	ShippingAmount Cents
	DiscountAmount Cents
	TotalAmount    Cents

	ShippingAddress    string
	ShippingCity       string
	ShippingState      string
	ShippingPostalCode string
	ShippingCountry    string

	BillingAddress    *string
	BillingCity       *string
	BillingState      *string
	BillingPostalCode *string
	BillingCountry    *string

	CustomerEmail string
	CustomerPhone string

	Notes          string
	TrackingNumber string

	CreatedAt   time.Time
	UpdatedAt   time.Time
	ConfirmedAt *time.Time
	ShippedAt   *time.Time
	DeliveredAt *time.Time
	CancelledAt *time.Time

	Items []OrderItem
}

// OrderItem is a line item with product details denormalized at order
// time, so later catalog edits do not change historical orders.
type OrderItem struct {
	ID                int64
	OrderID           int64
	ProductID         int64
	ProductName       string
	ProductSKU        string
	ProductImage      string
	UnitPrice         Cents
	Quantity          int
	TotalPrice        Cents
	ProductAttributes string
	CreatedAt         time.Time
}

// OrderStatusHistory is one row of the append-only status audit trail.
// OldStatus is nil only for the initial creation entry.
type OrderStatusHistory struct {
	ID        int64
	OrderID   int64
	OldStatus *string
	NewStatus string
	ChangedBy int64
	Reason    string
	CreatedAt time.Time
}

// OrderStats is the admin dashboard aggregate over orders. Revenue only
// counts orders in confirmed, processing, shipped, or delivered status.
type OrderStats struct {
	TotalOrders      int64 `json:"total_orders"`
	PendingOrders    int64 `json:"pending_orders"`
	ConfirmedOrders  int64 `json:"confirmed_orders"`
	ProcessingOrders int64 `json:"processing_orders"`
	ShippedOrders    int64 `json:"shipped_orders"`
	DeliveredOrders  int64 `json:"delivered_orders"`
	CancelledOrders  int64 `json:"cancelled_orders"`
	RefundedOrders   int64 `json:"refunded_orders"`
	TotalRevenue     Cents `json:"total_revenue"`
	OrdersToday      int64 `json:"orders_today"`
	OrdersThisMonth  int64 `json:"orders_this_month"`
}
