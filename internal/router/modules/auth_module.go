package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	repo "github.com/kousaila502/ecommerce-microservices-platform/internal/domain/repository"
	handlers "github.com/kousaila502/ecommerce-microservices-platform/internal/interface/http"
	"github.com/kousaila502/ecommerce-microservices-platform/internal/interface/middleware"
	"github.com/kousaila502/ecommerce-microservices-platform/pkg/helpers"
)

// AuthModule wires registration, login, profile, and verification routes.
// Public: POST /auth/register, POST /auth/login, POST /auth/verify/confirm
// Protected: POST /auth/logout, GET/PUT /auth/me, GET /users/:id
type AuthModule struct {
	Handler *handlers.AuthHandler
	Users   repo.UserRepository
	JWT     *helpers.JWTManager
	Redis   *redis.Client
}

func NewAuthModule(h *handlers.AuthHandler, users repo.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client) *AuthModule {
	return &AuthModule{Handler: h, Users: users, JWT: jwt, Redis: rdb}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(m.Redis, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	verifyLimiter := middleware.RateLimit(m.Redis, 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/auth/register", registerLimiter, m.Handler.Register)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)
	rg.POST("/auth/verify/confirm", verifyLimiter, m.Handler.VerifyConfirm)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Users, m.JWT))
	auth.Use(middleware.RateLimit(m.Redis, 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP()))
	{
		auth.POST("/auth/logout", m.Handler.Logout)
		auth.GET("/auth/me", m.Handler.Me)
		auth.PUT("/auth/me", m.Handler.UpdateMe)
		auth.GET("/users/:id", m.Handler.GetUser)
	}
}
