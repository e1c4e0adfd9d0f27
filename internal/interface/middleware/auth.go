package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kousaila502/ecommerce-microservices-platform/internal/domain/entity"
	repo "github.com/kousaila502/ecommerce-microservices-platform/internal/domain/repository"
	"github.com/kousaila502/ecommerce-microservices-platform/pkg/helpers"
	"github.com/kousaila502/ecommerce-microservices-platform/pkg/response"
)

// BearerToken extracts the raw token from the Authorization header.
func BearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func abortUnauthorized(c *gin.Context, msg string) {
	resp := response.Error[any](c, http.StatusUnauthorized, msg, nil)
	c.AbortWithStatusJSON(resp.Status, resp)
}

// Auth validates the bearer token and re-reads the user row, so revoked
// or blocked accounts lose access immediately regardless of token
// expiry. Sets currentUser, claims, userID, userRole, and bearerToken.
func Auth(users repo.UserRepository, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			abortUnauthorized(c, "missing bearer token")
			return
		}
		claims, err := jwt.ParseToken(token)
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}
		u, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			abortUnauthorized(c, "user not found")
			return
		}
		if !u.IsActive() {
			abortUnauthorized(c, "account is not active")
			return
		}
		c.Set("currentUser", u)
		c.Set("claims", claims)
		c.Set("userID", u.ID)
		c.Set("userRole", u.Role)
		c.Set("bearerToken", token)
		c.Next()
	}
}

// RequireAdmin aborts with 403 unless the authenticated principal holds
// the admin role. Must run after Auth or RemoteAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("userRole") != entity.RoleAdmin {
			resp := response.Error[any](c, http.StatusForbidden, "admin access required", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user loaded by Auth.
func CurrentUser(c *gin.Context) *entity.User {
	if v, ok := c.Get("currentUser"); ok {
		if u, ok := v.(*entity.User); ok {
			return u
		}
	}
	return nil
}

// Claims returns the token claims set by Auth.
func Claims(c *gin.Context) *helpers.Claims {
	if v, ok := c.Get("claims"); ok {
		if cl, ok := v.(*helpers.Claims); ok {
			return cl
		}
	}
	return nil
}
