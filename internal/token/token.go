// Package token mints and verifies the bearer tokens handed out by login and
// refresh. A token is an HS256 JWT that names both the user and the session
// backing it; the session lookup is what makes revocation effective.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/gotodos/backend/domain"
)

// Type is reported to clients alongside every issued token.
const Type = "bearer"

// Claims carries the registered claims plus the user and session references.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
}

// Manager signs and parses access tokens with a shared secret.
type Manager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewManager(secret, issuer string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Manager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

// TTL returns the configured token lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a token for the given user/session pair.
func (m *Manager) Issue(userID, sessionID string, issuedAt time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(m.ttl)),
			ID:        sessionID,
		},
		UserID:    userID,
		SessionID: sessionID,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse verifies the signature and expiry and returns the claims. Any failure
// is reported as an unauthenticated error; callers must still confirm the
// referenced session exists.
func (m *Manager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrUnauthenticated
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.ErrUnauthenticated
	}
	if claims.UserID == "" || claims.SessionID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return claims, nil
}
