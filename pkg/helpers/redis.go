package helpers

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
)

const sessionKeyPrefix = "user:session:"

// OpenRedis connects and pings. The caller decides whether a failure is fatal.
func OpenRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, oops.Code("REDIS_CONNECT").With("addr", addr).Wrap(err)
	}
	return rdb, nil
}

// SessionKey is the Redis hash holding a user's active session.
func SessionKey(userID string) string { return sessionKeyPrefix + userID }

// Session is the live-session hash stored under SessionKey. Only the newest
// session id per user is valid.
type Session struct {
	UserID   string `redis:"user_id"`
	Name     string `redis:"name"`
	Role     string `redis:"role"`
	SID      string `redis:"sid"`
	IssuedAt string `redis:"issued_at"`
}

// ErrNoSession is returned by LoadSession when the user has no live session.
var ErrNoSession = errors.New("no session")

// SaveSession replaces the user's session and resets its expiry.
func SaveSession(ctx context.Context, rdb *redis.Client, s Session, ttl time.Duration) error {
	if s.IssuedAt == "" {
		s.IssuedAt = time.Now().UTC().Format(time.RFC3339)
	}
	key := SessionKey(s.UserID)
	_, err := rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, key)
		p.HSet(ctx, key, s)
		p.Expire(ctx, key, ttl)
		return nil
	})
	return err
}

func LoadSession(ctx context.Context, rdb *redis.Client, userID string) (*Session, error) {
	cmd := rdb.HGetAll(ctx, SessionKey(userID))
	data, err := cmd.Result()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrNoSession
	}
	var s Session
	if err := cmd.Scan(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func DeleteSession(ctx context.Context, rdb *redis.Client, userID string) error {
	return rdb.Del(ctx, SessionKey(userID)).Err()
}
