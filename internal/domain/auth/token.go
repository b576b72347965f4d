// Package auth issues and verifies the JWT access/refresh token pairs used to
// authenticate API callers.
package auth

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/golang-jwt/jwt/v5"

	"github.com/edutext/edutext-api/internal/domain/user"
)

// ErrInvalidToken is returned for any token that fails verification: bad
// signature, expired, malformed, or wrong token type.
var ErrInvalidToken = errors.New("invalid token")

// Token type values stored in the token_type claim. Access tokens never pass
// refresh verification and vice versa.
const (
	typeAccess  = "access"
	typeRefresh = "refresh"
)

// Claims carries the authenticated identity inside a signed token.
type Claims struct {
	jwt.RegisteredClaims

	Username  string `json:"username"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
}

// TokenPair is an access token plus the refresh token that can renew it.
type TokenPair struct {
	Access  string
	Refresh string
}

// Manager signs and verifies token pairs with a shared HMAC secret.
type Manager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewManager creates a Manager. The secret must be non-empty; TTLs apply to
// access and refresh tokens respectively.
func NewManager(secret []byte, accessTTL, refreshTTL time.Duration) *Manager {
	return &Manager{
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// IssuePair signs a fresh access/refresh pair for u.
func (m *Manager) IssuePair(u *user.User) (TokenPair, error) {
	access, err := m.sign(u, typeAccess, m.accessTTL)
	if err != nil {
		return TokenPair{}, errors.Wrap(err, "sign access token")
	}
	refresh, err := m.sign(u, typeRefresh, m.refreshTTL)
	if err != nil {
		return TokenPair{}, errors.Wrap(err, "sign refresh token")
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

func (m *Manager) sign(u *user.User, typ string, ttl time.Duration) (string, error) {
	now := m.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Username:  u.Username,
		Role:      string(u.Role),
		TokenType: typ,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// VerifyAccess verifies an access token and returns its claims.
func (m *Manager) VerifyAccess(token string) (*Claims, error) {
	return m.verify(token, typeAccess)
}

// VerifyRefresh verifies a refresh token and returns its claims.
func (m *Manager) VerifyRefresh(token string) (*Claims, error) {
	return m.verify(token, typeRefresh)
}

func (m *Manager) verify(token, typ string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != typ {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
