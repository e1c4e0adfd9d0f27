package modules

import (
	"github.com/gin-gonic/gin"

	repo "github.com/kousaila502/ecommerce-microservices-platform/internal/domain/repository"
	handlers "github.com/kousaila502/ecommerce-microservices-platform/internal/interface/http"
	"github.com/kousaila502/ecommerce-microservices-platform/internal/interface/middleware"
	"github.com/kousaila502/ecommerce-microservices-platform/pkg/helpers"
)

// AdminModule wires the admin user-management routes under /admin,
// behind Auth plus RequireAdmin.
type AdminModule struct {
	Handler *handlers.AdminHandler
	Users   repo.UserRepository
	JWT     *helpers.JWTManager
}

func NewAdminModule(h *handlers.AdminHandler, users repo.UserRepository, jwt *helpers.JWTManager) *AdminModule {
	return &AdminModule{Handler: h, Users: users, JWT: jwt}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.Auth(m.Users, m.JWT), middleware.RequireAdmin())
	{
		admin.GET("/users", m.Handler.ListUsers)
		admin.GET("/users/blocked", m.Handler.ListBlocked)
		admin.GET("/users/search", m.Handler.SearchUsers)
		admin.POST("/users/:id/block", m.Handler.BlockUser)
		admin.POST("/users/:id/unblock", m.Handler.UnblockUser)
		admin.POST("/users/:id/suspend", m.Handler.SuspendUser)
		admin.PUT("/users/:id/role", m.Handler.SetRole)
		admin.GET("/users/:id/sessions", m.Handler.UserSessions)
		admin.POST("/users/:id/logout-all", m.Handler.LogoutAll)
		admin.GET("/stats", m.Handler.Stats)
	}
}
