package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userServer(t *testing.T, handler http.HandlerFunc) *UserClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewUserClient(srv.URL, 2*time.Second)
}

func TestGetUserEnvelope(t *testing.T) {
	c := userServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/7", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":7,"name":"Jane","email":"jane@example.com","role":"admin","status":"active"}}`))
	})

	u, err := c.GetUser(context.Background(), 7, "tok")
	require.NoError(t, err)
	assert.Equal(t, int64(7), u.ID)
	assert.True(t, u.IsAdmin())
	assert.Equal(t, "active", u.Status)
}

func TestGetUserNotFound(t *testing.T) {
	c := userServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.GetUser(context.Background(), 7, "tok")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetUserUpstreamFailure(t *testing.T) {
	c := userServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.GetUser(context.Background(), 7, "tok")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.NotErrorIs(t, err, ErrUserNotFound)
}
