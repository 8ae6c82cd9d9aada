package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/ParamD12/taskhub-app/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestValidateExpiry(t *testing.T) {
	now := time.Now().UTC()

	t.Run("valid token", func(t *testing.T) {
		c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute))}}
		require.NoError(t, c.ValidateExpiry())
	})

	t.Run("expired token", func(t *testing.T) {
		c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute))}}
		require.ErrorIs(t, c.ValidateExpiry(), jwtx.ErrExpired)
	})

	t.Run("not yet valid", func(t *testing.T) {
		c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{NotBefore: jwt.NewNumericDate(now.Add(time.Minute))}}
		require.ErrorIs(t, c.ValidateExpiry(), jwtx.ErrNotYetValid)
	})

	t.Run("within leeway", func(t *testing.T) {
		c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(-10 * time.Second))}}
		require.NoError(t, c.ValidateExpiryWithLeeway(30*time.Second))
	})

	t.Run("no exp", func(t *testing.T) {
		c := &jwtx.Claims{}
		require.NoError(t, c.ValidateExpiry())
		require.True(t, c.Expiry().IsZero())
	})
}

func TestHS256RoundTrip(t *testing.T) {
	h, err := jwtx.NewHS256(testSecret, "taskhub-test")
	require.NoError(t, err)

	now := time.Now().UTC()
	claims := jwtx.NewAccessClaims("user-1", "alice@example.com", "sess-1", "taskhub-test", time.Hour, now)

	tok, err := h.Sign(claims)
	require.NoError(t, err)

	got, err := h.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, "user-1", got.Subject)
	require.Equal(t, "alice@example.com", got.Email)
	require.Equal(t, "sess-1", got.SessionID)
	require.Equal(t, jwtx.AudienceAuthenticated, got.Role)
	require.WithinDuration(t, now.Add(time.Hour), got.Expiry(), time.Second)
}

func TestHS256Rejects(t *testing.T) {
	h, err := jwtx.NewHS256(testSecret, "taskhub-test")
	require.NoError(t, err)

	now := time.Now().UTC()

	t.Run("expired", func(t *testing.T) {
		tok, err := h.Sign(jwtx.NewAccessClaims("u", "e", "s", "taskhub-test", -time.Minute, now))
		require.NoError(t, err)
		_, err = h.Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := jwtx.NewHS256([]byte(strings.Repeat("z", 32)), "taskhub-test")
		require.NoError(t, err)
		tok, err := other.Sign(jwtx.NewAccessClaims("u", "e", "s", "taskhub-test", time.Minute, now))
		require.NoError(t, err)
		_, err = h.Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		tok, err := h.Sign(jwtx.NewAccessClaims("u", "e", "s", "someone-else", time.Minute, now))
		require.NoError(t, err)
		_, err = h.Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrInvalidClaim)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := h.Verify("not.a.jwt")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("short secret", func(t *testing.T) {
		_, err := jwtx.NewHS256([]byte("short"), "")
		require.Error(t, err)
	})
}

func TestParseUnverified(t *testing.T) {
	h, err := jwtx.NewHS256(testSecret, "")
	require.NoError(t, err)

	tok, err := h.Sign(jwtx.NewAccessClaims("user-9", "z@example.com", "s", "", time.Minute, time.Now()))
	require.NoError(t, err)

	c, err := jwtx.ParseUnverified(tok)
	require.NoError(t, err)
	require.Equal(t, "user-9", c.Subject)

	_, err = jwtx.ParseUnverified("nope")
	require.ErrorIs(t, err, jwtx.ErrMalformed)
}
