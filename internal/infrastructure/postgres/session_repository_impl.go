package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kousaila502/ecommerce-microservices-platform/internal/domain/entity"
	"github.com/kousaila502/ecommerce-microservices-platform/internal/domain/repository"
)

type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

func (r *SessionRepository) Create(ctx context.Context, s *entity.UserSession) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO user_sessions (user_id, token_id, ip_address, user_agent, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING id, login_time
	`, s.UserID, s.TokenID, s.IPAddress, s.UserAgent)
	s.IsActive = true
	return row.Scan(&s.ID, &s.LoginTime)
}

func (r *SessionRepository) ListActive(ctx context.Context, userID int64) ([]entity.UserSession, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, token_id, login_time, logout_time, ip_address, user_agent, is_active
		FROM user_sessions
		WHERE user_id = $1 AND is_active
		ORDER BY login_time DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]entity.UserSession, 0)
	for rows.Next() {
		var s entity.UserSession
		if err := rows.Scan(&s.ID, &s.UserID, &s.TokenID, &s.LoginTime, &s.LogoutTime,
			&s.IPAddress, &s.UserAgent, &s.IsActive); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *SessionRepository) End(ctx context.Context, tokenID string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE user_sessions
		SET is_active = FALSE, logout_time = now()
		WHERE token_id = $1 AND is_active
	`, tokenID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *SessionRepository) EndAll(ctx context.Context, userID int64) (int64, error) {
	res, err := r.pool.Exec(ctx, `
		UPDATE user_sessions
		SET is_active = FALSE, logout_time = now()
		WHERE user_id = $1 AND is_active
	`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}

var _ repository.SessionRepository = (*SessionRepository)(nil)
