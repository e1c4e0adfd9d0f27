package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/sirupsen/logrus"

	"github.com/kousaila502/ecommerce-microservices-platform/internal/domain/entity"
	repo "github.com/kousaila502/ecommerce-microservices-platform/internal/domain/repository"
)

var (
	ErrSelfTarget  = errors.New("cannot perform this action on your own account")
	ErrAdminTarget = errors.New("cannot perform this action on an admin account")
	ErrInvalidRole = errors.New("role must be user or admin")
)

// AdminService implements the admin-gated user management operations.
type AdminService struct {
	Users    repo.UserRepository
	Sessions repo.SessionRepository
	Logger   *logrus.Logger
	ES       *elasticsearch.Client
	ESIndex  string
}

func (s *AdminService) ListUsers(ctx context.Context, includeBlocked bool) ([]entity.User, error) {
	return s.Users.List(ctx, includeBlocked)
}

func (s *AdminService) ListBlocked(ctx context.Context) ([]entity.User, error) {
	return s.Users.ListBlocked(ctx)
}

// BlockUser sets the target to blocked and records who blocked it, when,
// and why. Admins cannot block themselves or other admins.
func (s *AdminService) BlockUser(ctx context.Context, adminID, targetID int64, reason string) (*entity.User, error) {
	return s.restrict(ctx, adminID, targetID, entity.StatusBlocked, reason)
}

// SuspendUser sets the target to suspended with the same guards as
// BlockUser. Suspension is manual; there is no automatic expiry.
func (s *AdminService) SuspendUser(ctx context.Context, adminID, targetID int64, reason string) (*entity.User, error) {
	return s.restrict(ctx, adminID, targetID, entity.StatusSuspended, reason)
}

func (s *AdminService) restrict(ctx context.Context, adminID, targetID int64, status, reason string) (*entity.User, error) {
	if adminID == targetID {
		return nil, ErrSelfTarget
	}
	u, err := s.Users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if u.IsAdmin() {
		return nil, ErrAdminTarget
	}
	now := time.Now().UTC()
	u.Status = status
	u.BlockedAt = &now
	u.BlockedBy = &adminID
	if r := strings.TrimSpace(reason); r != "" {
		u.BlockedReason = &r
	} else {
		u.BlockedReason = nil
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	if n, err := s.Sessions.EndAll(ctx, targetID); err != nil {
		s.Logger.WithError(err).WithField("user_id", targetID).Warn("end sessions failed")
	} else if n > 0 {
		s.Logger.WithFields(logrus.Fields{"user_id": targetID, "sessions": n}).Info("sessions ended")
	}
	return u, nil
}

// UnblockUser restores the target to active and clears the block fields.
func (s *AdminService) UnblockUser(ctx context.Context, targetID int64) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	u.Status = entity.StatusActive
	u.BlockedAt = nil
	u.BlockedBy = nil
	u.BlockedReason = nil
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// SetRole changes the target's role. Only user and admin are accepted.
func (s *AdminService) SetRole(ctx context.Context, targetID int64, role string) (*entity.User, error) {
	if role != entity.RoleUser && role != entity.RoleAdmin {
		return nil, ErrInvalidRole
	}
	u, err := s.Users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	u.Role = role
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AdminService) Stats(ctx context.Context) (*entity.UserStats, error) {
	return s.Users.Stats(ctx)
}

// UserSessions lists a user's active sessions. The user must exist.
func (s *AdminService) UserSessions(ctx context.Context, userID int64) ([]entity.UserSession, error) {
	if _, err := s.Users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.Sessions.ListActive(ctx, userID)
}

// LogoutAll deactivates every active session of the user and returns how
// many were closed.
func (s *AdminService) LogoutAll(ctx context.Context, userID int64) (int64, error) {
	if _, err := s.Users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return s.Sessions.EndAll(ctx, userID)
}

// SearchUsers performs a multi_match query over email and name in the
// users index. Without a configured index it returns an empty result.
func (s *AdminService) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "name"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
