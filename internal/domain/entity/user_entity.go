package entity

import "time"

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User statuses
const (
	StatusActive              = "active"
	StatusBlocked             = "blocked"
	StatusSuspended           = "suspended"
	StatusPendingVerification = "pending_verification"
)

// User is the aggregate root for the user domain.
// Password holds a bcrypt hash and is never serialized.
type User struct {
	ID              int64
	Name            string
	Email           string
	Mobile          string
	Password        string
	Role            string
	Status          string
	IsEmailVerified bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
	LastLogin       *time.Time
	BlockedAt       *time.Time
	BlockedBy       *int64
	BlockedReason   *string
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// IsActive reports whether the user may authenticate and act.
func (u *User) IsActive() bool { return u.Status == StatusActive }

// UserSession records one login. TokenID matches the sid claim of the
// JWT issued for that login, so a token can be tied back to its session.
type UserSession struct {
	ID         int64
	UserID     int64
	TokenID    string
	LoginTime  time.Time
	LogoutTime *time.Time
	IPAddress  string
	UserAgent  string
	IsActive   bool
}

// UserStats is the admin dashboard aggregate over users.
type UserStats struct {
	TotalUsers          int64 `json:"total_users"`
	ActiveUsers         int64 `json:"active_users"`
	BlockedUsers        int64 `json:"blocked_users"`
	SuspendedUsers      int64 `json:"suspended_users"`
	PendingVerification int64 `json:"pending_verification"`
	UsersToday          int64 `json:"users_today"`
}
