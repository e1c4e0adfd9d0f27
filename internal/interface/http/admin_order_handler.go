package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/kousaila502/ecommerce-microservices-platform/internal/application"
	"github.com/kousaila502/ecommerce-microservices-platform/internal/interface/middleware"
	"github.com/kousaila502/ecommerce-microservices-platform/pkg/response"
	"github.com/kousaila502/ecommerce-microservices-platform/pkg/validation"
)

// AdminOrderHandler serves the admin-scoped order endpoints. The router
// mounts it behind RequireAdmin.
type AdminOrderHandler struct {
	Svc    *application.OrderService
	Logger *logrus.Logger
}

func NewAdminOrderHandler(svc *application.OrderService, logger *logrus.Logger) *AdminOrderHandler {
	return &AdminOrderHandler{Svc: svc, Logger: logger}
}

func (h *AdminOrderHandler) ListAll(c *gin.Context) {
	page, size := pageParams(c)
	orders, err := h.Svc.ListAllOrders(c.Request.Context(), page, size)
	if err != nil {
		h.Logger.WithError(err).Error("list all orders failed")
		response.Fail(c, http.StatusInternalServerError, "failed to list orders", nil)
		return
	}
	response.OK(c, orderSummaryViews(orders), "orders")
}

func (h *AdminOrderHandler) Get(c *gin.Context) {
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

func (h *AdminOrderHandler) UpdateStatus(c *gin.Context) {
	user := middleware.AuthUser(c)
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
			h.Logger.WithError(err).WithField("order_id", id).Error("update order status failed")
			response.Fail(c, http.StatusInternalServerError, "failed to update order", nil)
		}
		return
	}
	response.OK(c, orderView(o), "order updated")
}

func (h *AdminOrderHandler) Stats(c *gin.Context) {
	stats, err := h.Svc.Stats(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("order stats failed")
		response.Fail(c, http.StatusInternalServerError, "failed to compute stats", nil)
		return
	}
	response.OK(c, stats, "order stats")
}
