package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrUserNotFound means the user service answered but knows no such user.
var ErrUserNotFound = errors.New("user not found")

// AuthUser is the authoritative user projection the order service reads
// back on every request. Token claims establish subject identity only;
// role and status always come from here.
type AuthUser struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *AuthUser) IsAdmin() bool { return u.Role == "admin" }

// UserClient talks to the user service.
type UserClient struct {
	baseURL string
	http    *http.Client
}

func NewUserClient(baseURL string, timeout time.Duration) *UserClient {
	return &UserClient{baseURL: baseURL, http: &http.Client{Timeout: timeout}}
}

type userWire struct {
	AuthUser
	Data *AuthUser `json:"data"`
}

// GetUser fetches the current user record. ErrUserNotFound distinguishes
// a missing user from the service being unreachable (ErrUnavailable).
func (c *UserClient) GetUser(ctx context.Context, userID int64, token string) (*AuthUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/users/%d", c.baseURL, userID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("user service: %w", ErrUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrUserNotFound
	default:
		return nil, fmt.Errorf("user service returned %d: %w", resp.StatusCode, ErrUnavailable)
	}

	var wire userWire
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("user service decode: %w", err)
	}
	u := wire.AuthUser
	if wire.Data != nil {
		u = *wire.Data
	}
	return &u, nil
}
