package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kousaila502/ecommerce-microservices-platform/internal/domain/entity"
)

func cartServer(t *testing.T, handler http.HandlerFunc) *CartClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewCartClient(srv.URL, 2*time.Second)
}

func TestGetCartCamelCaseKeys(t *testing.T) {
	c := cartServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cart/7", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"productId":42,"price":25.00,"quantity":2}]}`))
	})

	items, err := c.GetCart(context.Background(), 7, "tok")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(42), items[0].ProductID)
	assert.Equal(t, entity.Cents(2500), items[0].Price)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestGetCartSnakeCaseKeysInEnvelope(t *testing.T) {
	c := cartServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"items":[{"product_id":"42","price":"19.99","quantity":1}]}}`))
	})

	items, err := c.GetCart(context.Background(), 7, "tok")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(42), items[0].ProductID)
	assert.Equal(t, entity.Cents(1999), items[0].Price)
}

func TestGetCartEmptyIsNotAnError(t *testing.T) {
	c := cartServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[]}`))
	})

	items, err := c.GetCart(context.Background(), 7, "tok")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGetCartServerErrorIsUnavailable(t *testing.T) {
	c := cartServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.GetCart(context.Background(), 7, "tok")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGetCartUnreachableIsUnavailable(t *testing.T) {
	c := NewCartClient("http://127.0.0.1:1", 200*time.Millisecond)

	_, err := c.GetCart(context.Background(), 7, "tok")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClearCartAccepts404(t *testing.T) {
	c := cartServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/cart", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	})

	assert.NoError(t, c.Clear(context.Background(), "tok"))
}
