package application

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/kousaila502/ecommerce-microservices-platform/internal/domain/entity"
	repo "github.com/kousaila502/ecommerce-microservices-platform/internal/domain/repository"
	"github.com/kousaila502/ecommerce-microservices-platform/pkg/helpers"
	"github.com/kousaila502/ecommerce-microservices-platform/pkg/mailer"
	"github.com/kousaila502/ecommerce-microservices-platform/pkg/mailer/templates"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

const verifyTokenTTL = 24 * time.Hour

func verifyTokenKey(tok string) string {
	return "email:verify:token:" + tok
}

// UserService implements registration, authentication, sessions, and the
// self-service profile operations.
type UserService struct {
	Users    repo.UserRepository
	Sessions repo.SessionRepository
	JWT      *helpers.JWTManager
	Redis    *redis.Client
	Rabbit   *helpers.RabbitPublisher
	Logger   *logrus.Logger
	ES       *elasticsearch.Client
	ESIndex  string

	VerificationEnabled bool
	VerifyEmailURL      string
}

type RegisterInput struct {
	Name     string
	Email    string
	Mobile   string
	Password string
}

type LoginResult struct {
	Token  string
	Expiry time.Time
	User   *entity.User
}

// Register creates a new user. The email must be unused; the password is
// stored as a bcrypt hash. With verification enabled the account starts
// in pending_verification and a verification email job is enqueued.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	status := entity.StatusActive
	if s.VerificationEnabled {
		status = entity.StatusPendingVerification
	}
	u := &entity.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Mobile:   strings.TrimSpace(in.Mobile),
		Password: hash,
		Role:     entity.RoleUser,
		Status:   status,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	if s.VerificationEnabled {
		if err := s.sendVerification(ctx, u); err != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("enqueue verification email failed")
		}
	}
	s.indexUser(ctx, u)
	return u, nil
}

// Login validates credentials and issues a bearer token. Unknown email,
// wrong password, and non-active accounts all yield the same error so
// the response does not reveal which check failed.
func (s *UserService) Login(ctx context.Context, email, password, ip, userAgent string) (*LoginResult, error) {
	u, err := s.Users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive() {
		return nil, ErrInvalidCredentials
	}

	sid := uuid.NewString()
	token, exp, err := s.JWT.GenerateToken(u.ID, u.Email, u.Role, sid)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.Users.RecordLogin(ctx, u.ID, now); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("record last login failed")
	}
	sess := &entity.UserSession{
		UserID:    u.ID,
		TokenID:   sid,
		IPAddress: ip,
		UserAgent: userAgent,
		IsActive:  true,
	}
	if err := s.Sessions.Create(ctx, sess); err != nil {
		return nil, err
	}
	u.LastLogin = &now
	return &LoginResult{Token: token, Expiry: exp, User: u}, nil
}

// Logout closes the session tied to the token's sid claim. Logging out
// an already-closed session is a no-op.
func (s *UserService) Logout(ctx context.Context, sessionID string) error {
	err := s.Sessions.End(ctx, sessionID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil
	}
	return err
}

// GetProfile returns the user by id.
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

type UpdateProfileInput struct {
	Name   *string
	Mobile *string
}

// UpdateProfile applies a partial self-service update.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Mobile != nil {
		u.Mobile = strings.TrimSpace(*in.Mobile)
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	s.indexUser(ctx, u)
	return u, nil
}

// ConfirmVerification redeems a verification token from Redis, marks the
// user verified, and promotes pending_verification accounts to active.
func (s *UserService) ConfirmVerification(ctx context.Context, token string) (*entity.User, error) {
	if s.Redis == nil || token == "" {
		return nil, ErrInvalidToken
	}
	key := verifyTokenKey(token)
	raw, err := s.Redis.Get(ctx, key).Result()
	if err != nil {
		return nil, ErrInvalidToken
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if err := s.Users.SetVerified(ctx, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	_ = s.Redis.Del(ctx, key).Err()

	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.indexUser(ctx, u)
	if s.Rabbit != nil {
		job := mailer.EmailJob{
			To:       u.Email,
			Template: templates.Welcome,
			Data:     map[string]any{"Name": u.Name},
		}
		if err := s.Rabbit.PublishJSON(ctx, job); err != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("enqueue welcome email failed")
		}
	}
	return u, nil
}

func (s *UserService) sendVerification(ctx context.Context, u *entity.User) error {
	if s.Redis == nil || s.Rabbit == nil {
		return errors.New("verification requires redis and rabbitmq")
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return err
	}
	tok := hex.EncodeToString(buf)
	if err := s.Redis.Set(ctx, verifyTokenKey(tok), strconv.FormatInt(u.ID, 10), verifyTokenTTL).Err(); err != nil {
		return err
	}
	expires := time.Now().UTC().Add(verifyTokenTTL)
	job := mailer.EmailJob{
		To:       u.Email,
		Template: templates.VerifyEmail,
		Data: map[string]any{
			"Name":          u.Name,
			"VerifyURL":     s.VerifyEmailURL + "?token=" + tok,
			"ExpiresAtText": expires.Format("02 January 2006, 15:04"),
		},
	}
	return s.Rabbit.PublishJSON(ctx, job)
}

// indexUser mirrors the public projection into Elasticsearch. Failures
// are logged; the write path never depends on the index.
func (s *UserService) indexUser(ctx context.Context, u *entity.User) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	doc := map[string]any{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"mobile":     u.Mobile,
		"role":       u.Role,
		"status":     u.Status,
		"created_at": u.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": u.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{
		Index:      s.ESIndex,
		DocumentID: strconv.FormatInt(u.ID, 10),
		Body:       strings.NewReader(string(b)),
		Refresh:    "false",
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
}
