package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Product is the normalized product projection the order workflow needs.
type Product struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	SKU   string `json:"sku"`
	Image string `json:"image"`
	Stock int    `json:"stock"`
}

// ProductClient talks to the product service.
type ProductClient struct {
	baseURL string
	http    *http.Client
}

func NewProductClient(baseURL string, timeout time.Duration) *ProductClient {
	return &ProductClient{baseURL: baseURL, http: &http.Client{Timeout: timeout}}
}

// productWire tolerates both the bare product shape and the
// {success, data} envelope the product service wraps responses in.
type productWire struct {
	Product
	Success bool     `json:"success"`
	Data    *Product `json:"data"`
}

// GetProduct fetches product detail. Any failure, transport or HTTP,
// yields a nil product: the checkout treats a product it cannot verify
// as unavailable.
func (c *ProductClient) GetProduct(ctx context.Context, productID int64, token string) (*Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/products/%d", c.baseURL, productID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("product service: %w", ErrUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("product service returned %d for product %d", resp.StatusCode, productID)
	}

	var wire productWire
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("product service decode: %w", err)
	}
	p := wire.Product
	if wire.Data != nil {
		p = *wire.Data
	}
	if p.ID == 0 {
		p.ID = productID
	}
	return &p, nil
}

// UpdateStock PATCHes the product's absolute stock level.
func (c *ProductClient) UpdateStock(ctx context.Context, productID int64, stock int, token string) error {
	body, _ := json.Marshal(map[string]int{"stock": stock})
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch,
		fmt.Sprintf("%s/products/%d/stock", c.baseURL, productID), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("product service: %w", ErrUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("product service returned %d updating stock for product %d", resp.StatusCode, productID)
	}
	return nil
}
