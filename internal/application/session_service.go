package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/a704/dodream-backend/internal/domain/entity"
	repo "github.com/a704/dodream-backend/internal/domain/repository"
	"github.com/a704/dodream-backend/pkg/helpers"
)

// SessionService issues JWT pairs bound to a session id. With Redis, the
// newest session id per user is recorded and older tokens stop working.
// A nil Redis client makes tokens stateless.
type SessionService struct {
	JWT    *helpers.JWTManager
	Redis  *redis.Client
	Users  repo.UserRepository
	Logger *logrus.Logger
	TTL    time.Duration
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func NewSessionService(jwt *helpers.JWTManager, rdb *redis.Client, users repo.UserRepository, logger *logrus.Logger, ttl time.Duration) *SessionService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionService{JWT: jwt, Redis: rdb, Users: users, Logger: logger, TTL: ttl}
}

// IssueTokens opens a new session for u, replacing any previous one.
func (s *SessionService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	return s.open(ctx, u)
}

// Refresh checks refreshToken against the live session and rotates it.
// Every rejection is ErrInvalidCredentials.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", claims.UserID).Error("refresh user lookup failed")
		}
		return TokenPair{}, "", ErrInvalidCredentials
	}
	if s.Redis != nil {
		live, err := helpers.LoadSession(ctx, s.Redis, u.ID)
		if err != nil || live.SID != claims.SessionID {
			return TokenPair{}, "", ErrInvalidCredentials
		}
	}

	pair, err := s.open(ctx, u)
	if err != nil {
		return TokenPair{}, "", err
	}
	return pair, u.ID, nil
}

// Revoke ends the user's session so outstanding tokens stop working.
func (s *SessionService) Revoke(ctx context.Context, userID string) error {
	if s.Redis == nil || userID == "" {
		return nil
	}
	return helpers.DeleteSession(ctx, s.Redis, userID)
}

func (s *SessionService) open(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	role := string(u.Role)

	var (
		pair TokenPair
		err  error
	)
	pair.AccessToken, pair.AccessTokenExpiry, err = s.JWT.GenerateAccessToken(u.ID, sid, role)
	if err == nil {
		pair.RefreshToken, pair.RefreshTokenExpiry, err = s.JWT.GenerateRefreshToken(u.ID, sid, role)
	}
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate tokens failed")
		}
		return TokenPair{}, err
	}

	if s.Redis != nil {
		sess := helpers.Session{UserID: u.ID, Name: u.Name, Role: role, SID: sid}
		if err := helpers.SaveSession(ctx, s.Redis, sess, s.TTL); err != nil && s.Logger != nil {
			// The tokens still verify; the session check will reject them later.
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("session save failed")
		}
	}
	return pair, nil
}
