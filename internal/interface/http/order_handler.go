package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/kousaila502/ecommerce-microservices-platform/internal/application"
	"github.com/kousaila502/ecommerce-microservices-platform/internal/domain/entity"
	"github.com/kousaila502/ecommerce-microservices-platform/internal/interface/middleware"
	"github.com/kousaila502/ecommerce-microservices-platform/pkg/response"
	"github.com/kousaila502/ecommerce-microservices-platform/pkg/validation"
)

// OrderHandler serves checkout and the order read/update endpoints.
type OrderHandler struct {
	Svc    *application.OrderService
	Logger *logrus.Logger
}

func NewOrderHandler(svc *application.OrderService, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{Svc: svc, Logger: logger}
}

type addressRequest struct {
	Address    string `json:"address" binding:"required"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state" binding:"required"`
	PostalCode string `json:"postal_code" binding:"required"`
	Country    string `json:"country" binding:"required"`
}

type createOrderRequest struct {
	ShippingAddress *addressRequest `json:"shipping_address"`
	BillingAddress  *addressRequest `json:"billing_address"`
	CustomerPhone   string          `json:"customer_phone"`
	Notes           string          `json:"notes"`
}

type updateOrderRequest struct {
	Status         *string `json:"status"`
	PaymentStatus  *string `json:"payment_status"`
	TrackingNumber *string `json:"tracking_number"`
	Notes          *string `json:"notes"`
}

func toAddress(a *addressRequest) *application.Address {
	if a == nil {
		return nil
	}
	return &application.Address{
		Address:    a.Address,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

func itemView(it *entity.OrderItem) gin.H {
	return gin.H{
		"id":            it.ID,
		"product_id":    it.ProductID,
		"product_name":  it.ProductName,
		"product_sku":   it.ProductSKU,
		"product_image": it.ProductImage,
		"unit_price":    it.UnitPrice,
		"quantity":      it.Quantity,
		"total_price":   it.TotalPrice,
	}
}

// orderView is the full order projection with items.
func orderView(o *entity.Order) gin.H {
	items := make([]gin.H, 0, len(o.Items))
	for i := range o.Items {
		items = append(items, itemView(&o.Items[i]))
	}
	return gin.H{
		"id":              o.ID,
		"order_number":    o.OrderNumber,
		"user_id":         o.UserID,
		"status":          o.Status,
		"payment_status":  o.PaymentStatus,
		"subtotal":        o.Subtotal,
		"tax_amount":      o.TaxAmount,
		"shipping_amount": o.ShippingAmount,
		"discount_amount": o.DiscountAmount,
		"total_amount":    o.TotalAmount,
		"shipping_address": gin.H{
			"address":     o.ShippingAddress,
			"city":        o.ShippingCity,
			"state":       o.ShippingState,
			"postal_code": o.ShippingPostalCode,
			"country":     o.ShippingCountry,
		},
		"customer_email":  o.CustomerEmail,
		"customer_phone":  o.CustomerPhone,
		"tracking_number": o.TrackingNumber,
		"notes":           o.Notes,
		"created_at":      o.CreatedAt,
		"updated_at":      o.UpdatedAt,
		"confirmed_at":    o.ConfirmedAt,
		"shipped_at":      o.ShippedAt,
		"delivered_at":    o.DeliveredAt,
		"cancelled_at":    o.CancelledAt,
		"items":           items,
	}
}

// orderSummaryView is the list projection, no items.
func orderSummaryView(o *entity.Order) gin.H {
	return gin.H{
		"id":             o.ID,
		"order_number":   o.OrderNumber,
		"status":         o.Status,
		"payment_status": o.PaymentStatus,
		"total_amount":   o.TotalAmount,
		"created_at":     o.CreatedAt,
	}
}

func orderSummaryViews(orders []entity.Order) []gin.H {
	out := make([]gin.H, 0, len(orders))
	for i := range orders {
		out = append(out, orderSummaryView(&orders[i]))
	}
	return out
}

func pageParams(c *gin.Context) (page, size int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ = strconv.Atoi(c.DefaultQuery("size", "10"))
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 10
	}
	return page, size
}

func (h *OrderHandler) Create(c *gin.Context) {
	user := middleware.AuthUser(c)
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	o, err := h.Svc.CreateOrder(c.Request.Context(), user, c.GetString("bearerToken"), application.CheckoutInput{
		ShippingAddress: toAddress(req.ShippingAddress),
		BillingAddress:  toAddress(req.BillingAddress),
		CustomerPhone:   req.CustomerPhone,
		Notes:           req.Notes,
	})
	if err != nil {
		var pe *application.ProductUnavailableError
		var le *application.InvalidCartLineError
		switch {
		case errors.Is(err, application.ErrCartEmpty):
			response.Fail(c, http.StatusBadRequest, err.Error(), nil)
		case errors.Is(err, application.ErrCartUnavailable):
			response.Fail(c, http.StatusBadGateway, "cart service unavailable", nil)
		case errors.As(err, &pe):
			response.Fail(c, http.StatusBadRequest, pe.Error(), nil)
		case errors.As(err, &le):
			response.Fail(c, http.StatusBadRequest, le.Error(), nil)
		default:
			h.Logger.WithError(err).WithField("user_id", user.ID).Error("create order failed")
			response.Fail(c, http.StatusInternalServerError, "failed to create order", nil)
		}
		return
	}
	response.Created(c, orderView(o), "order created")
}

func (h *OrderHandler) ListMine(c *gin.Context) {
	user := middleware.AuthUser(c)
	page, size := pageParams(c)
	orders, err := h.Svc.ListUserOrders(c.Request.Context(), user.ID, page, size)
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", user.ID).Error("list orders failed")
		response.Fail(c, http.StatusInternalServerError, "failed to list orders", nil)
		return
	}
	response.OK(c, orderSummaryViews(orders), "orders")
}

func (h *OrderHandler) Get(c *gin.Context) {
	user := middleware.AuthUser(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid order id", nil)
		return
	}
	o, err := h.Svc.GetOrder(c.Request.Context(), id, user)
	if err != nil {
		if errors.Is(err, application.ErrOrderNotFound) {
			response.Fail(c, http.StatusNotFound, "order not found", nil)
			return
		}
		h.Logger.WithError(err).WithField("order_id", id).Error("get order failed")
		response.Fail(c, http.StatusInternalServerError, "failed to load order", nil)
		return
	}
	response.OK(c, orderView(o), "order")
}

// Update applies a partial order update. Admin only: ownership of the
// order does not grant status control.
func (h *OrderHandler) Update(c *gin.Context) {
	user := middleware.AuthUser(c)
	if !user.IsAdmin() {
		response.Fail(c, http.StatusForbidden, "admin access required", nil)
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid order id", nil)
		return
	}
	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	o, err := h.Svc.UpdateOrder(c.Request.Context(), id, user, application.UpdateOrderInput{
		Status:         req.Status,
		PaymentStatus:  req.PaymentStatus,
		TrackingNumber: req.TrackingNumber,
		Notes:          req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, application.ErrOrderNotFound):
			response.Fail(c, http.StatusNotFound, "order not found", nil)
		case errors.Is(err, application.ErrInvalidStatus):
			response.Fail(c, http.StatusBadRequest, err.Error(), nil)
		default:
			h.Logger.WithError(err).WithField("order_id", id).Error("update order failed")
			response.Fail(c, http.StatusInternalServerError, "failed to update order", nil)
		}
		return
	}
	response.OK(c, orderView(o), "order updated")
}

func (h *OrderHandler) History(c *gin.Context) {
	user := middleware.AuthUser(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid order id", nil)
		return
	}
	rows, err := h.Svc.OrderHistory(c.Request.Context(), id, user)
	if err != nil {
		if errors.Is(err, application.ErrOrderNotFound) {
			response.Fail(c, http.StatusNotFound, "order not found", nil)
			return
		}
		h.Logger.WithError(err).WithField("order_id", id).Error("order history failed")
		response.Fail(c, http.StatusInternalServerError, "failed to load history", nil)
		return
	}
	out := make([]gin.H, 0, len(rows))
	for _, r := range rows {
		out = append(out, gin.H{
			"old_status": r.OldStatus,
			"new_status": r.NewStatus,
			"changed_by": r.ChangedBy,
			"reason":     r.Reason,
			"created_at": r.CreatedAt,
		})
	}
	response.OK(c, out, "status history")
}
