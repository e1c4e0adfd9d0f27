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

// AuthHandler serves registration, login, logout, profile, and email
// verification.
type AuthHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.UserService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Mobile   string `json:"mobile" binding:"required"`
	Password string `json:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type updateProfileRequest struct {
	Name   *string `json:"name"`
	Mobile *string `json:"mobile"`
}

type verifyConfirmRequest struct {
	Token string `json:"token" binding:"required"`
}

// userView is the public projection: no password hash, no block audit
// fields.
func userView(u *entity.User) gin.H {
	return gin.H{
		"id":                u.ID,
		"name":              u.Name,
		"email":             u.Email,
		"mobile":            u.Mobile,
		"role":              u.Role,
		"status":            u.Status,
		"is_email_verified": u.IsEmailVerified,
		"created_at":        u.CreatedAt,
		"last_login":        u.LastLogin,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Mobile:   req.Mobile,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, application.ErrEmailTaken) {
			response.Fail(c, http.StatusConflict, "email already registered", nil)
			return
		}
		h.Logger.WithError(err).Error("register failed")
		response.Fail(c, http.StatusInternalServerError, "registration failed", nil)
		return
	}
	response.Created(c, userView(u), "user registered")
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password,
		c.GetString("real_ip"), c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			response.Fail(c, http.StatusUnauthorized, "invalid credentials", nil)
			return
		}
		h.Logger.WithError(err).Error("login failed")
		response.Fail(c, http.StatusInternalServerError, "login failed", nil)
		return
	}
	data := gin.H{
		"access_token": res.Token,
		"token_type":   "bearer",
		"expires_at":   res.Expiry,
		"user":         userView(res.User),
	}
	response.OK(c, data, "login successful")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.Claims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, "missing bearer token", nil)
		return
	}
	if err := h.Svc.Logout(c.Request.Context(), claims.SessionID); err != nil {
		h.Logger.WithError(err).Error("logout failed")
		response.Fail(c, http.StatusInternalServerError, "logout failed", nil)
		return
	}
	response.OK(c, gin.H{"logged_out": true}, "logged out")
}

func (h *AuthHandler) Me(c *gin.Context) {
	u := middleware.CurrentUser(c)
	if u == nil {
		response.Fail(c, http.StatusUnauthorized, "missing bearer token", nil)
		return
	}
	response.OK(c, userView(u), "profile")
}

func (h *AuthHandler) UpdateMe(c *gin.Context) {
	u := middleware.CurrentUser(c)
	if u == nil {
		response.Fail(c, http.StatusUnauthorized, "missing bearer token", nil)
		return
	}
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	updated, err := h.Svc.UpdateProfile(c.Request.Context(), u.ID, application.UpdateProfileInput{
		Name:   req.Name,
		Mobile: req.Mobile,
	})
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", u.ID).Error("update profile failed")
		response.Fail(c, http.StatusInternalServerError, "failed to update profile", nil)
		return
	}
	response.OK(c, userView(updated), "profile updated")
}

func (h *AuthHandler) VerifyConfirm(c *gin.Context) {
	var req verifyConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.ConfirmVerification(c.Request.Context(), req.Token)
	if err != nil {
		if errors.Is(err, application.ErrInvalidToken) {
			response.Fail(c, http.StatusBadRequest, "invalid or expired token", nil)
			return
		}
		h.Logger.WithError(err).Error("verify confirm failed")
		response.Fail(c, http.StatusInternalServerError, "verification failed", nil)
		return
	}
	response.OK(c, userView(u), "email verified")
}

// GetUser serves GET /users/:id for authenticated callers; the order
// service uses it to confirm identity on every request.
func (h *AuthHandler) GetUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid user id", nil)
		return
	}
	u, err := h.Svc.GetProfile(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Fail(c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.Logger.WithError(err).WithField("user_id", id).Error("get user failed")
		response.Fail(c, http.StatusInternalServerError, "failed to load user", nil)
		return
	}
	response.OK(c, userView(u), "user")
}
