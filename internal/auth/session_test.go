package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestAuthorizeAdmin(t *testing.T) {
	t.Parallel()

	tok, err := Issue(secret, Session{Subject: "u1", Email: "admin@x.com", Role: RoleAdmin}, time.Hour)
	require.NoError(t, err)

	s, err := NewGate(secret).Authorize(tok)
	require.NoError(t, err)
	require.True(t, s.IsAdmin())
	require.Equal(t, "admin@x.com", s.Email)
	require.Equal(t, "u1", s.Subject)
	require.False(t, s.Expires.IsZero())
}

func TestAuthorizeRejects(t *testing.T) {
	t.Parallel()

	member, err := Issue(secret, Session{Subject: "u2", Role: "member"}, time.Hour)
	require.NoError(t, err)
	expired, err := Issue(secret, Session{Subject: "u3", Role: RoleAdmin}, -time.Minute)
	require.NoError(t, err)
	foreign, err := Issue("other-secret", Session{Subject: "u4", Role: RoleAdmin}, time.Hour)
	require.NoError(t, err)

	gate := NewGate(secret)
	cases := map[string]struct {
		token string
		want  error
	}{
		"empty":        {"", ErrNoSession},
		"garbage":      {"not-a-jwt", ErrInvalidSession},
		"member":       {member, ErrNotAdmin},
		"expired":      {expired, ErrInvalidSession},
		"wrong secret": {foreign, ErrInvalidSession},
	}
	for name, tc := range cases {
		_, err := gate.Authorize(tc.token)
		require.Truef(t, errors.Is(err, tc.want), "%s: got %v", name, err)
	}
}

func TestAuthorizeWithoutSecret(t *testing.T) {
	t.Parallel()

	tok, err := Issue(secret, Session{Subject: "u1", Role: RoleAdmin}, time.Hour)
	require.NoError(t, err)
	_, err = NewGate("").Authorize(tok)
	require.ErrorIs(t, err, ErrInvalidSession)
}

func TestIssueRequiresSubject(t *testing.T) {
	t.Parallel()

	_, err := Issue(secret, Session{Role: RoleAdmin}, time.Hour)
	require.Error(t, err)
}
