package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kousaila502/ecommerce-microservices-platform/internal/domain/entity"
	"github.com/kousaila502/ecommerce-microservices-platform/internal/domain/repository"
)

const orderColumns = `id, user_id, order_number, status, payment_status,
	subtotal_cents, tax_cents, shipping_cents, discount_cents, total_cents,
	shipping_address, shipping_city, shipping_state, shipping_postal_code, shipping_country,
	billing_address, billing_city, billing_state, billing_postal_code, billing_country,
	customer_email, customer_phone, notes, tracking_number,
	created_at, updated_at, confirmed_at, shipped_at, delivered_at, cancelled_at`

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	o := &entity.Order{}
	err := row.Scan(&o.ID, &o.UserID, &o.OrderNumber, &o.Status, &o.PaymentStatus,
		&o.Subtotal, &o.TaxAmount, &o.ShippingAmount, &o.DiscountAmount, &o.TotalAmount,
		&o.ShippingAddress, &o.ShippingCity, &o.ShippingState, &o.ShippingPostalCode, &o.ShippingCountry,
		&o.BillingAddress, &o.BillingCity, &o.BillingState, &o.BillingPostalCode, &o.BillingCountry,
		&o.CustomerEmail, &o.CustomerPhone, &o.Notes, &o.TrackingNumber,
		&o.CreatedAt, &o.UpdatedAt, &o.ConfirmedAt, &o.ShippedAt, &o.DeliveredAt, &o.CancelledAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

// CreateOrder writes the order aggregate in one transaction: the order
// row, every item, and the initial status history entry.
func (r *OrderRepository) CreateOrder(ctx context.Context, o *entity.Order, history *entity.OrderStatusHistory) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		INSERT INTO orders (user_id, order_number, status, payment_status,
			subtotal_cents, tax_cents, shipping_cents, discount_cents, total_cents,
			shipping_address, shipping_city, shipping_state, shipping_postal_code, shipping_country,
			billing_address, billing_city, billing_state, billing_postal_code, billing_country,
			customer_email, customer_phone, notes, tracking_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23)
		RETURNING id, created_at, updated_at
	`, o.UserID, o.OrderNumber, o.Status, o.PaymentStatus,
		o.Subtotal, o.TaxAmount, o.ShippingAmount, o.DiscountAmount, o.TotalAmount,
		o.ShippingAddress, o.ShippingCity, o.ShippingState, o.ShippingPostalCode, o.ShippingCountry,
		o.BillingAddress, o.BillingCity, o.BillingState, o.BillingPostalCode, o.BillingCountry,
		o.CustomerEmail, o.CustomerPhone, o.Notes, o.TrackingNumber)
	if err := row.Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return err
	}

	for i := range o.Items {
		it := &o.Items[i]
		it.OrderID = o.ID
		row := tx.QueryRow(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, product_sku, product_image,
				unit_price_cents, quantity, total_price_cents, product_attributes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id, created_at
		`, it.OrderID, it.ProductID, it.ProductName, it.ProductSKU, it.ProductImage,
			it.UnitPrice, it.Quantity, it.TotalPrice, it.ProductAttributes)
		if err := row.Scan(&it.ID, &it.CreatedAt); err != nil {
			return err
		}
	}

	history.OrderID = o.ID
	if err := insertHistory(ctx, tx, history); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func insertHistory(ctx context.Context, tx pgx.Tx, h *entity.OrderStatusHistory) error {
	row := tx.QueryRow(ctx, `
		INSERT INTO order_status_history (order_id, old_status, new_status, changed_by, reason)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, h.OrderID, h.OldStatus, h.NewStatus, h.ChangedBy, h.Reason)
	return row.Scan(&h.ID, &h.CreatedAt)
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64, ownerID *int64) (*entity.Order, error) {
	var (
		o   *entity.Order
		err error
	)
	if ownerID != nil {
		o, err = scanOrder(r.pool.QueryRow(ctx,
			`SELECT `+orderColumns+` FROM orders WHERE id = $1 AND user_id = $2`, id, *ownerID))
	} else {
		o, err = scanOrder(r.pool.QueryRow(ctx,
			`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	}
	if err != nil {
		return nil, err
	}
	items, err := r.itemsByOrder(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *OrderRepository) itemsByOrder(ctx context.Context, orderID int64) ([]entity.OrderItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, product_id, product_name, product_sku, product_image,
			unit_price_cents, quantity, total_price_cents, product_attributes, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]entity.OrderItem, 0)
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.ProductSKU,
			&it.ProductImage, &it.UnitPrice, &it.Quantity, &it.TotalPrice, &it.ProductAttributes,
			&it.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID int64, page, size int) ([]entity.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3
	`, userID, offsetFor(page, size), size)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *OrderRepository) ListAll(ctx context.Context, page, size int) ([]entity.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+orderColumns+` FROM orders
		ORDER BY created_at DESC
		OFFSET $1 LIMIT $2
	`, offsetFor(page, size), size)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func offsetFor(page, size int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * size
}

func collectOrders(rows pgx.Rows) ([]entity.Order, error) {
	orders := make([]entity.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

// UpdateOrder persists mutable order fields and appends the status
// history row, when given, in the same transaction.
func (r *OrderRepository) UpdateOrder(ctx context.Context, o *entity.Order, history *entity.OrderStatusHistory) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	res, err := tx.Exec(ctx, `
		UPDATE orders
		SET status = $1, payment_status = $2, tracking_number = $3, notes = $4,
		    confirmed_at = $5, shipped_at = $6, delivered_at = $7, cancelled_at = $8,
		    updated_at = now()
		WHERE id = $9
	`, o.Status, o.PaymentStatus, o.TrackingNumber, o.Notes,
		o.ConfirmedAt, o.ShippedAt, o.DeliveredAt, o.CancelledAt, o.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	if history != nil {
		history.OrderID = o.ID
		if err := insertHistory(ctx, tx, history); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *OrderRepository) HistoryByOrder(ctx context.Context, orderID int64) ([]entity.OrderStatusHistory, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, old_status, new_status, changed_by, reason, created_at
		FROM order_status_history
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trail := make([]entity.OrderStatusHistory, 0)
	for rows.Next() {
		var h entity.OrderStatusHistory
		if err := rows.Scan(&h.ID, &h.OrderID, &h.OldStatus, &h.NewStatus, &h.ChangedBy,
			&h.Reason, &h.CreatedAt); err != nil {
			return nil, err
		}
		trail = append(trail, h)
	}
	return trail, rows.Err()
}

// Stats aggregates order counts and revenue in the database. Revenue
// counts only confirmed, processing, shipped, and delivered orders.
func (r *OrderRepository) Stats(ctx context.Context) (*entity.OrderStats, error) {
	s := &entity.OrderStats{}
	row := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'confirmed'),
			COUNT(*) FILTER (WHERE status = 'processing'),
			COUNT(*) FILTER (WHERE status = 'shipped'),
			COUNT(*) FILTER (WHERE status = 'delivered'),
			COUNT(*) FILTER (WHERE status = 'cancelled'),
			COUNT(*) FILTER (WHERE status = 'refunded'),
			COALESCE(SUM(total_cents) FILTER (WHERE status IN ('confirmed', 'processing', 'shipped', 'delivered')), 0),
			COUNT(*) FILTER (WHERE created_at::date = CURRENT_DATE),
			COUNT(*) FILTER (WHERE created_at::date >= date_trunc('month', CURRENT_DATE)::date)
		FROM orders
	`)
	if err := row.Scan(&s.TotalOrders, &s.PendingOrders, &s.ConfirmedOrders, &s.ProcessingOrders,
		&s.ShippedOrders, &s.DeliveredOrders, &s.CancelledOrders, &s.RefundedOrders,
		&s.TotalRevenue, &s.OrdersToday, &s.OrdersThisMonth); err != nil {
		return nil, err
	}
	return s, nil
}

var _ repository.OrderRepository = (*OrderRepository)(nil)
