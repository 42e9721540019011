// Package auth decides whether a session may open the admin console.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const RoleAdmin = "admin"

var (
	ErrNoSession      = errors.New("no session token")
	ErrInvalidSession = errors.New("invalid session token")
	ErrNotAdmin       = errors.New("session is not an administrator")
)

// Session is the signed-in identity carried by a token.
type Session struct {
	Subject string
	Email   string
	Role    string
	Expires time.Time
}

func (s Session) IsAdmin() bool { return s.Subject != "" && s.Role == RoleAdmin }

type claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Gate checks HS256 session tokens against a shared secret.
type Gate struct {
	secret []byte
	now    func() time.Time
}

func NewGate(secret string) *Gate {
	return &Gate{secret: []byte(secret), now: time.Now}
}

// Authorize returns the session for token when it is a valid, unexpired
// administrator session.
func (g *Gate) Authorize(token string) (Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Session{}, ErrNoSession
	}
	if len(g.secret) == 0 {
		return Session{}, fmt.Errorf("%w: no secret configured", ErrInvalidSession)
	}

	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		return g.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(g.now), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	s := Session{Subject: c.Subject, Email: c.Email, Role: c.Role}
	if c.ExpiresAt != nil {
		s.Expires = c.ExpiresAt.Time
	}
	if !s.IsAdmin() {
		return s, ErrNotAdmin
	}
	return s, nil
}

// Issue signs a token for s that expires after ttl.
func Issue(secret string, s Session, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("issue token: secret required")
	}
	if s.Subject == "" {
		return "", errors.New("issue token: subject required")
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: s.Email,
		Role:  s.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
