package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	tok, err := NewSessionToken("secret", 42, "a@example.com", 24)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)
	assert.WithinDuration(t, time.Now().UTC().Add(24*time.Hour), tok.Exp, time.Minute)

	claims, err := VerifySessionToken("secret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)
}

func TestVerifySessionTokenRejections(t *testing.T) {
	tok, err := NewSessionToken("secret", 42, "a@example.com", 24)
	require.NoError(t, err)

	cases := []struct {
		name   string
		secret string
		raw    string
	}{
		{"wrong secret", "other", tok.Token},
		{"garbage", "secret", "not-a-jwt"},
		{"empty", "secret", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := VerifySessionToken(tc.secret, tc.raw)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestVerifySessionTokenExpired(t *testing.T) {
	// TTL of -1 hour yields a token that is already expired.
	tok, err := NewSessionToken("secret", 42, "a@example.com", -1)
	require.NoError(t, err)

	_, err = VerifySessionToken("secret", tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
