package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kousaila502/ecommerce-microservices-platform/internal/infrastructure/client"
	"github.com/kousaila502/ecommerce-microservices-platform/pkg/helpers"
	"github.com/kousaila502/ecommerce-microservices-platform/pkg/response"
)

// RemoteAuth validates the bearer token locally, then re-fetches the
// user from the user service so the claims never outlive a block or
// role change. A missing or non-active user is a 401; an unreachable
// user service is a 503 because identity cannot be confirmed either way.
func RemoteAuth(users *client.UserClient, jwt *helpers.JWTManager) gin.HandlerFunc {
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
		u, err := users.GetUser(c.Request.Context(), userID, token)
		if err != nil {
			if errors.Is(err, client.ErrUserNotFound) {
				abortUnauthorized(c, "user not found")
				return
			}
			resp := response.Error[any](c, http.StatusServiceUnavailable, "user service unavailable", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}
		if u.Status != "active" {
			abortUnauthorized(c, "account is not active")
			return
		}
		c.Set("authUser", u)
		c.Set("userID", u.ID)
		c.Set("userRole", u.Role)
		c.Set("bearerToken", token)
		c.Next()
	}
}

// AuthUser returns the principal loaded by RemoteAuth.
func AuthUser(c *gin.Context) *client.AuthUser {
	if v, ok := c.Get("authUser"); ok {
		if u, ok := v.(*client.AuthUser); ok {
			return u
		}
	}
	return nil
}
