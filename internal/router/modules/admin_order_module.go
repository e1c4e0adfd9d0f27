package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/kousaila502/ecommerce-microservices-platform/internal/infrastructure/client"
	handlers "github.com/kousaila502/ecommerce-microservices-platform/internal/interface/http"
	"github.com/kousaila502/ecommerce-microservices-platform/internal/interface/middleware"
	"github.com/kousaila502/ecommerce-microservices-platform/pkg/helpers"
)

// AdminOrderModule wires the admin order routes under /admin/orders.
type AdminOrderModule struct {
	Handler *handlers.AdminOrderHandler
	Users   *client.UserClient
	JWT     *helpers.JWTManager
}

func NewAdminOrderModule(h *handlers.AdminOrderHandler, users *client.UserClient, jwt *helpers.JWTManager) *AdminOrderModule {
	return &AdminOrderModule{Handler: h, Users: users, JWT: jwt}
}

func (m *AdminOrderModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/admin/orders")
	admin.Use(middleware.RemoteAuth(m.Users, m.JWT), middleware.RequireAdmin())
	{
		admin.GET("", m.Handler.ListAll)
		admin.GET("/stats", m.Handler.Stats)
		admin.GET("/:id", m.Handler.Get)
		admin.PUT("/:id/status", m.Handler.UpdateStatus)
	}
}
