package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kousaila502/ecommerce-microservices-platform/internal/infrastructure/client"
	"github.com/kousaila502/ecommerce-microservices-platform/pkg/helpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func remoteAuthRig(t *testing.T, userServiceHandler http.HandlerFunc) (*gin.Engine, *helpers.JWTManager) {
	t.Helper()
	upstream := httptest.NewServer(userServiceHandler)
	t.Cleanup(upstream.Close)

	jwt := helpers.NewJWTManager("secret", time.Minute)
	users := client.NewUserClient(upstream.URL, time.Second)

	r := gin.New()
	r.GET("/ping", RemoteAuth(users, jwt), func(c *gin.Context) {
		u := AuthUser(c)
		c.JSON(http.StatusOK, gin.H{"user_id": u.ID})
	})
	return r, jwt
}

func doPing(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRemoteAuthHappyPath(t *testing.T) {
	r, jwt := remoteAuthRig(t, func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "/users/7", req.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"id":7,"name":"Jane","email":"jane@example.com","role":"user","status":"active"}}`))
	})

	token, _, err := jwt.GenerateToken(7, "jane@example.com", "user", "sid-1")
	require.NoError(t, err)

	w := doPing(r, token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRemoteAuthMissingToken(t *testing.T) {
	r, _ := remoteAuthRig(t, func(w http.ResponseWriter, req *http.Request) {
		t.Fatal("user service must not be called without a token")
	})

	w := doPing(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRemoteAuthUnknownUser(t *testing.T) {
	r, jwt := remoteAuthRig(t, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	token, _, err := jwt.GenerateToken(7, "jane@example.com", "user", "sid-1")
	require.NoError(t, err)

	w := doPing(r, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRemoteAuthBlockedUser(t *testing.T) {
	r, jwt := remoteAuthRig(t, func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"id":7,"role":"user","status":"blocked"}}`))
	})

	token, _, err := jwt.GenerateToken(7, "jane@example.com", "user", "sid-1")
	require.NoError(t, err)

	w := doPing(r, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRemoteAuthUserServiceDown(t *testing.T) {
	r, jwt := remoteAuthRig(t, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	token, _, err := jwt.GenerateToken(7, "jane@example.com", "user", "sid-1")
	require.NoError(t, err)

	// Unreachable identity is not the caller's fault: 503, not 401.
	w := doPing(r, token)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	r := gin.New()
	r.GET("/admin-only", func(c *gin.Context) { c.Set("userRole", "user") }, RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/admin-ok", func(c *gin.Context) { c.Set("userRole", "admin") }, RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin-only", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin-ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
