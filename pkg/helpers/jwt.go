package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carries the session id so a rotated or revoked session invalidates old tokens.
type Claims struct {
	UserID    string `json:"uid"`
	SessionID string `json:"sid"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

type tokenKind struct {
	secret []byte
	ttl    time.Duration
	aud    string
}

// JWTManager signs and verifies HS256 access and refresh tokens. The two kinds
// use different secrets and audiences and never validate as each other.
type JWTManager struct {
	access  tokenKind
	refresh tokenKind
}

func NewJWTManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTManager {
	return &JWTManager{
		access:  tokenKind{secret: []byte(accessSecret), ttl: accessTTL, aud: "access"},
		refresh: tokenKind{secret: []byte(refreshSecret), ttl: refreshTTL, aud: "refresh"},
	}
}

func (m *JWTManager) AccessTTL() time.Duration  { return m.access.ttl }
func (m *JWTManager) RefreshTTL() time.Duration { return m.refresh.ttl }

func (m *JWTManager) GenerateAccessToken(userID, sessionID, role string) (string, time.Time, error) {
	return m.access.sign(userID, sessionID, role)
}

func (m *JWTManager) GenerateRefreshToken(userID, sessionID, role string) (string, time.Time, error) {
	return m.refresh.sign(userID, sessionID, role)
}

func (m *JWTManager) ParseAccessToken(token string) (*Claims, error) {
	return m.access.parse(token)
}

func (m *JWTManager) ParseRefreshToken(token string) (*Claims, error) {
	return m.refresh.parse(token)
}

func (k tokenKind) sign(userID, sessionID, role string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(k.ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID:    userID,
		SessionID: sessionID,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Audience:  jwt.ClaimStrings{k.aud},
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	s, err := t.SignedString(k.secret)
	return s, exp, err
}

func (k tokenKind) parse(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return k.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(k.aud),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	if claims.UserID == "" || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
