package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kousaila502/ecommerce-microservices-platform/internal/domain/entity"
	"github.com/kousaila502/ecommerce-microservices-platform/internal/domain/repository"
)

const userColumns = `id, name, email, mobile, password_hash, role, status,
	is_email_verified, created_at, updated_at, last_login, blocked_at, blocked_by, blocked_reason`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Mobile, &u.Password, &u.Role, &u.Status,
		&u.IsEmailVerified, &u.CreatedAt, &u.UpdatedAt, &u.LastLogin, &u.BlockedAt, &u.BlockedBy, &u.BlockedReason)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, mobile, password_hash, role, status, is_email_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, u.Name, u.Email, u.Mobile, u.Password, u.Role, u.Status, u.IsEmailVerified)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *UserRepository) List(ctx context.Context, includeBlocked bool) ([]entity.User, error) {
	q := `SELECT ` + userColumns + ` FROM users ORDER BY id`
	if !includeBlocked {
		q = `SELECT ` + userColumns + ` FROM users WHERE status <> 'blocked' ORDER BY id`
	}
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (r *UserRepository) ListBlocked(ctx context.Context) ([]entity.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE status IN ('blocked', 'suspended')
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func collectUsers(rows pgx.Rows) ([]entity.User, error) {
	users := make([]entity.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now().UTC()
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET name = $1, email = $2, mobile = $3, password_hash = $4, role = $5, status = $6,
		    is_email_verified = $7, blocked_at = $8, blocked_by = $9, blocked_reason = $10, updated_at = $11
		WHERE id = $12
	`, u.Name, u.Email, u.Mobile, u.Password, u.Role, u.Status,
		u.IsEmailVerified, u.BlockedAt, u.BlockedBy, u.BlockedReason, u.UpdatedAt, u.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) RecordLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET last_login = $1, updated_at = now() WHERE id = $2`, at, id)
	return err
}

func (r *UserRepository) SetVerified(ctx context.Context, id int64) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET is_email_verified = TRUE,
		    status = CASE WHEN status = 'pending_verification' THEN 'active' ELSE status END,
		    updated_at = now()
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Stats aggregates user counts in the database instead of loading every
// row into memory.
func (r *UserRepository) Stats(ctx context.Context) (*entity.UserStats, error) {
	s := &entity.UserStats{}
	row := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'active'),
			COUNT(*) FILTER (WHERE status = 'blocked'),
			COUNT(*) FILTER (WHERE status = 'suspended'),
			COUNT(*) FILTER (WHERE status = 'pending_verification'),
			COUNT(*) FILTER (WHERE created_at::date = CURRENT_DATE)
		FROM users
	`)
	if err := row.Scan(&s.TotalUsers, &s.ActiveUsers, &s.BlockedUsers,
		&s.SuspendedUsers, &s.PendingVerification, &s.UsersToday); err != nil {
		return nil, err
	}
	return s, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
