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

// AdminHandler serves the admin user-management endpoints.
type AdminHandler struct {
	Svc    *application.AdminService
	Logger *logrus.Logger
}

func NewAdminHandler(svc *application.AdminService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{Svc: svc, Logger: logger}
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

type roleRequest struct {
	Role string `json:"role" binding:"required"`
}

// adminUserView is the full projection, including moderation fields.
func adminUserView(u *entity.User) gin.H {
	v := userView(u)
	v["blocked_at"] = u.BlockedAt
	v["blocked_by"] = u.BlockedBy
	v["blocked_reason"] = u.BlockedReason
	v["updated_at"] = u.UpdatedAt
	return v
}

func adminUserViews(users []entity.User) []gin.H {
	out := make([]gin.H, 0, len(users))
	for i := range users {
		out = append(out, adminUserView(&users[i]))
	}
	return out
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, "invalid user id", nil)
		return 0, false
	}
	return id, true
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	includeBlocked := c.Query("include_blocked") == "true"
	users, err := h.Svc.ListUsers(c.Request.Context(), includeBlocked)
	if err != nil {
		h.Logger.WithError(err).Error("list users failed")
		response.Fail(c, http.StatusInternalServerError, "failed to list users", nil)
		return
	}
	response.OK(c, adminUserViews(users), "users")
}

func (h *AdminHandler) ListBlocked(c *gin.Context) {
	users, err := h.Svc.ListBlocked(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("list blocked users failed")
		response.Fail(c, http.StatusInternalServerError, "failed to list users", nil)
		return
	}
	response.OK(c, adminUserViews(users), "blocked users")
}

// moderationError maps the admin service guard errors to statuses.
func (h *AdminHandler) moderationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrUserNotFound):
		response.Fail(c, http.StatusNotFound, "user not found", nil)
	case errors.Is(err, application.ErrSelfTarget):
		response.Fail(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, application.ErrAdminTarget):
		response.Fail(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, application.ErrInvalidRole):
		response.Fail(c, http.StatusBadRequest, err.Error(), nil)
	default:
		h.Logger.WithError(err).Error("admin user operation failed")
		response.Fail(c, http.StatusInternalServerError, "operation failed", nil)
	}
}

func (h *AdminHandler) BlockUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req reasonRequest
	_ = c.ShouldBindJSON(&req)
	admin := middleware.CurrentUser(c)
	u, err := h.Svc.BlockUser(c.Request.Context(), admin.ID, id, req.Reason)
	if err != nil {
		h.moderationError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "user blocked", "user": adminUserView(u)}, "user blocked")
}

func (h *AdminHandler) UnblockUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	u, err := h.Svc.UnblockUser(c.Request.Context(), id)
	if err != nil {
		h.moderationError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "user unblocked", "user": adminUserView(u)}, "user unblocked")
}

func (h *AdminHandler) SuspendUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req reasonRequest
	_ = c.ShouldBindJSON(&req)
	admin := middleware.CurrentUser(c)
	u, err := h.Svc.SuspendUser(c.Request.Context(), admin.ID, id, req.Reason)
	if err != nil {
		h.moderationError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "user suspended", "user": adminUserView(u)}, "user suspended")
}

func (h *AdminHandler) SetRole(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.SetRole(c.Request.Context(), id, req.Role)
	if err != nil {
		h.moderationError(c, err)
		return
	}
	response.OK(c, adminUserView(u), "role updated")
}

func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.Svc.Stats(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("user stats failed")
		response.Fail(c, http.StatusInternalServerError, "failed to compute stats", nil)
		return
	}
	response.OK(c, stats, "user stats")
}

func (h *AdminHandler) UserSessions(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	sessions, err := h.Svc.UserSessions(c.Request.Context(), id)
	if err != nil {
		h.moderationError(c, err)
		return
	}
	out := make([]gin.H, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, gin.H{
			"id":         s.ID,
			"token_id":   s.TokenID,
			"login_time": s.LoginTime,
			"ip_address": s.IPAddress,
			"user_agent": s.UserAgent,
			"is_active":  s.IsActive,
		})
	}
	response.OK(c, out, "sessions")
}

func (h *AdminHandler) LogoutAll(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	n, err := h.Svc.LogoutAll(c.Request.Context(), id)
	if err != nil {
		h.moderationError(c, err)
		return
	}
	response.OK(c, gin.H{"sessions_ended": n}, "sessions ended")
}

func (h *AdminHandler) SearchUsers(c *gin.Context) {
	q := c.Query("q")
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.SearchUsers(c.Request.Context(), q, size)
	if err != nil {
		h.Logger.WithError(err).Error("user search failed")
		response.Fail(c, http.StatusInternalServerError, "search failed", nil)
		return
	}
	response.OK(c, hits, "search results")
}
