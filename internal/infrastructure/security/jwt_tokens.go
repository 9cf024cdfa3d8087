package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vitrine/catalog-admin/internal/core/domain"
)

// DefaultTokenTTL is how long a session token stays valid.
const DefaultTokenTTL = 7 * 24 * time.Hour

type sessionClaims struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// JWTManager issues and verifies HS256 session tokens with a shared secret.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option customises a JWTManager.
type Option func(*JWTManager)

// WithClock replaces time.Now for both issuance and verification.
func WithClock(now func() time.Time) Option {
	return func(m *JWTManager) { m.now = now }
}

func NewJWTManager(secret string, ttl time.Duration, opts ...Option) *JWTManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	m := &JWTManager{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Issue signs the claim set. IssuedAt and ExpiresAt on the input are ignored.
// exp has whole-second resolution and is rounded up, so the token stays valid
// for at least the full TTL.
func (m *JWTManager) Issue(claims domain.Claims) (string, error) {
	now := m.now()
	sc := sessionClaims{
		ID:    claims.PrincipalID,
		Email: claims.Email,
		Name:  claims.Name,
		Role:  claims.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(ceilSecond(now.Add(m.ttl))),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, sc).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func ceilSecond(t time.Time) time.Time {
	if r := t.Truncate(time.Second); r.Before(t) {
		return r.Add(time.Second)
	}
	return t
}

// Verify checks structure, signature and expiry, in that order. A token is
// rejected at or after its exp instant.
func (m *JWTManager) Verify(raw string) (*domain.Claims, error) {
	sc := &sessionClaims{}
	_, err := jwt.ParseWithClaims(raw, sc, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, domain.ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, domain.ErrTokenExpired
		default:
			return nil, domain.ErrTokenSignatureInvalid
		}
	}

	claims := &domain.Claims{
		PrincipalID: sc.ID,
		Email:       sc.Email,
		Name:        sc.Name,
		Role:        sc.Role,
	}
	if sc.IssuedAt != nil {
		claims.IssuedAt = sc.IssuedAt.Time
	}
	if sc.ExpiresAt != nil {
		claims.ExpiresAt = sc.ExpiresAt.Time
	}
	return claims, nil
}
