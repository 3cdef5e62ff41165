package token_test

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jrsteele09/alpha-client/internal/errors"
	"github.com/jrsteele09/alpha-client/token"
)

const secretStr = "1234"

func sign(t *testing.T, claims jwtlib.MapClaims) string {
	t.Helper()
	raw, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte(secretStr))
	require.NoError(t, err)
	return raw
}

func TestInspect(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	orig := token.NowTimeFunc
	token.NowTimeFunc = func() time.Time { return now }
	t.Cleanup(func() { token.NowTimeFunc = orig })

	t.Run("reads registered claims without verifying", func(t *testing.T) {
		raw := sign(t, jwtlib.MapClaims{
			"sub": "user-1",
			"iss": "alpha-devapi",
			"jti": "abc",
			"iat": now.Add(-time.Minute).Unix(),
			"exp": now.Add(14 * time.Minute).Unix(),
		})

		info, err := token.Inspect(raw)
		require.NoError(t, err)
		require.Equal(t, "user-1", info.Subject)
		require.Equal(t, "alpha-devapi", info.Issuer)
		require.Equal(t, "abc", info.ID)
		require.True(t, now.Add(-time.Minute).Equal(*info.IssuedAt))

		left, ok := info.ExpiresIn()
		require.True(t, ok)
		require.Equal(t, 14*time.Minute, left)
	})

	t.Run("expired tokens are still readable", func(t *testing.T) {
		info, err := token.Inspect(sign(t, jwtlib.MapClaims{"sub": "user-1", "exp": now.Add(-time.Hour).Unix()}))
		require.NoError(t, err)
		left, ok := info.ExpiresIn()
		require.True(t, ok)
		require.Negative(t, left)
	})

	t.Run("no exp claim", func(t *testing.T) {
		info, err := token.Inspect(sign(t, jwtlib.MapClaims{"sub": "user-1"}))
		require.NoError(t, err)
		_, ok := info.ExpiresIn()
		require.False(t, ok)
	})

	t.Run("empty and malformed", func(t *testing.T) {
		_, err := token.Inspect("  ")
		require.ErrorIs(t, err, apperrors.ErrMissingAccessToken)
		_, err = token.Inspect("not-a-jwt")
		require.ErrorIs(t, err, apperrors.ErrDecode)
	})
}
