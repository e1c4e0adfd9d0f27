package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/kousaila502/ecommerce-microservices-platform/internal/infrastructure/client"
	handlers "github.com/kousaila502/ecommerce-microservices-platform/internal/interface/http"
	"github.com/kousaila502/ecommerce-microservices-platform/internal/interface/middleware"
	"github.com/kousaila502/ecommerce-microservices-platform/pkg/helpers"
)

// OrderModule wires the customer-facing order routes. Every route runs
// behind RemoteAuth so identity is confirmed against the user service.
type OrderModule struct {
	Handler *handlers.OrderHandler
	Users   *client.UserClient
	JWT     *helpers.JWTManager
	Redis   *redis.Client
}

func NewOrderModule(h *handlers.OrderHandler, users *client.UserClient, jwt *helpers.JWTManager, rdb *redis.Client) *OrderModule {
	return &OrderModule{Handler: h, Users: users, JWT: jwt, Redis: rdb}
}

func (m *OrderModule) Register(rg *gin.RouterGroup) {
	checkoutLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIPAndPath(), nil)

	orders := rg.Group("/orders")
	orders.Use(middleware.RemoteAuth(m.Users, m.JWT))
	{
		orders.POST("", checkoutLimiter, m.Handler.Create)
		orders.GET("", m.Handler.ListMine)
		orders.GET("/:id", m.Handler.Get)
		orders.PUT("/:id", m.Handler.Update)
		orders.GET("/:id/history", m.Handler.History)
	}
}
