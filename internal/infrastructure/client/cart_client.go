package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kousaila502/ecommerce-microservices-platform/internal/domain/entity"
)

// ErrUnavailable means the collaborator service could not be reached or
// answered with a non-success status. Callers must treat it as a
// retryable upstream failure, not as domain data.
var ErrUnavailable = errors.New("service unavailable")

// CartItem is the normalized shape of one cart line. The cart service
// payload is inconsistent (productId vs product_id, optional data
// envelope); normalization happens here so core logic never sees it.
type CartItem struct {
	ProductID int64
	Price     entity.Cents
	Quantity  int
}

// CartClient talks to the cart service.
type CartClient struct {
	baseURL string
	http    *http.Client
}

func NewCartClient(baseURL string, timeout time.Duration) *CartClient {
	return &CartClient{baseURL: baseURL, http: &http.Client{Timeout: timeout}}
}

// cartItemWire tolerates both key spellings the cart service has used.
type cartItemWire struct {
	ProductID      json.Number `json:"productId"`
	ProductIDSnake json.Number `json:"product_id"`
	Price          json.Number `json:"price"`
	Quantity       int         `json:"quantity"`
}

type cartWire struct {
	Items []cartItemWire `json:"items"`
	Data  *struct {
		Items []cartItemWire `json:"items"`
	} `json:"data"`
}

func (w cartItemWire) normalize() (CartItem, error) {
	id := w.ProductID
	if id == "" {
		id = w.ProductIDSnake
	}
	if id == "" {
		return CartItem{}, errors.New("cart item missing product id")
	}
	pid, err := id.Int64()
	if err != nil {
		return CartItem{}, fmt.Errorf("cart item product id: %w", err)
	}
	price, err := w.Price.Float64()
	if err != nil {
		return CartItem{}, fmt.Errorf("cart item price: %w", err)
	}
	return CartItem{ProductID: pid, Price: entity.CentsFromFloat(price), Quantity: w.Quantity}, nil
}

// GetCart fetches the user's cart. An unreachable cart service or a
// non-2xx response returns ErrUnavailable; an empty cart returns an
// empty slice and a nil error, so the two cases stay distinguishable.
func (c *CartClient) GetCart(ctx context.Context, userID int64, token string) ([]CartItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/cart/%d", c.baseURL, userID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cart service: %w", ErrUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cart service returned %d: %w", resp.StatusCode, ErrUnavailable)
	}

	var wire cartWire
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("cart service decode: %w", err)
	}
	raw := wire.Items
	if len(raw) == 0 && wire.Data != nil {
		raw = wire.Data.Items
	}

	items := make([]CartItem, 0, len(raw))
	for _, w := range raw {
		item, err := w.normalize()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Clear empties the caller's cart. A 404 counts as success since the
// cart is gone either way.
func (c *CartClient) Clear(ctx context.Context, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/cart", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("cart service: %w", ErrUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("cart service returned %d clearing cart", resp.StatusCode)
	}
	return nil
}
