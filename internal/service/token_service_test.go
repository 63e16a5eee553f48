package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"go-marketplace/internal/cache"
	"go-marketplace/internal/model"
)

func TestNewTokenServiceRejectsBadSettings(t *testing.T) {
	t.Parallel()

	_, err := NewTokenService("", time.Minute, time.Hour, nil)
	require.Error(t, err)

	_, err = NewTokenService(testSecret, time.Hour, time.Minute, nil)
	require.Error(t, err)
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	clock := newTestClock()
	tokens := newTestTokens(t, nil, clock)

	token, err := tokens.CreateToken(42, []string{model.AuthorityUser})
	require.NoError(t, err)
	require.True(t, tokens.ValidateToken(token))

	t.Run("rejects garbage", func(t *testing.T) {
		require.False(t, tokens.ValidateToken(""))
		require.False(t, tokens.ValidateToken("not-a-token"))
		require.False(t, tokens.ValidateToken("a.b.c"))
	})

	t.Run("rejects a token signed with another key", func(t *testing.T) {
		other, err := NewTokenService("ffffffffffffffffffffffffffffffff", 30*time.Minute, time.Hour, nil, WithClock(clock.Now))
		require.NoError(t, err)
		forged, err := other.CreateToken(42, []string{model.AuthorityAdmin})
		require.NoError(t, err)
		require.False(t, tokens.ValidateToken(forged))
	})

	t.Run("rejects unsigned tokens", func(t *testing.T) {
		claims := tokenClaims{
			Authorities: []string{model.AuthorityAdmin},
			Type:        TokenTypeAccess,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "42",
				ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Hour)),
			},
		}
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		require.False(t, tokens.ValidateToken(unsigned))
	})
}

func TestValidateTokenExpires(t *testing.T) {
	t.Parallel()

	clock := newTestClock()
	tokens := newTestTokens(t, nil, clock)

	token, err := tokens.CreateToken(1, []string{model.AuthorityUser})
	require.NoError(t, err)

	clock.Advance(29 * time.Minute)
	require.True(t, tokens.ValidateToken(token))

	clock.Advance(2 * time.Minute)
	require.False(t, tokens.ValidateToken(token))
}

func TestGetAuthentication(t *testing.T) {
	t.Parallel()

	tokens := newTestTokens(t, nil, newTestClock())

	token, err := tokens.CreateRefreshToken(9, []string{model.AuthorityUser, model.AuthorityAdmin})
	require.NoError(t, err)

	identity, err := tokens.GetAuthentication(token)
	require.NoError(t, err)
	require.Equal(t, int64(9), identity.UserID)
	require.Equal(t, []string{model.AuthorityUser, model.AuthorityAdmin}, identity.Authorities)
	require.Equal(t, TokenTypeRefresh, identity.TokenType)
	require.NotEmpty(t, identity.TokenID)

	t.Run("token without authorities", func(t *testing.T) {
		bare, err := tokens.CreateToken(9, nil)
		require.NoError(t, err)
		_, err = tokens.GetAuthentication(bare)
		require.ErrorIs(t, err, model.ErrUnauthorityToken)
	})

	t.Run("invalid token", func(t *testing.T) {
		_, err := tokens.GetAuthentication("junk")
		require.ErrorIs(t, err, model.ErrInvalidToken)
	})
}

func TestGetExpiration(t *testing.T) {
	t.Parallel()

	clock := newTestClock()
	tokens := newTestTokens(t, nil, clock)

	token, err := tokens.CreateToken(3, []string{model.AuthorityUser})
	require.NoError(t, err)

	remaining, err := tokens.GetExpiration(token)
	require.NoError(t, err)
	require.Equal(t, 30*time.Minute, remaining)

	clock.Advance(10 * time.Minute)
	remaining, err = tokens.GetExpiration(token)
	require.NoError(t, err)
	require.Equal(t, 20*time.Minute, remaining)

	clock.Advance(time.Hour)
	_, err = tokens.GetExpiration(token)
	require.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestGetExpirationRoundsUpToMillisecond(t *testing.T) {
	t.Parallel()

	clock := newTestClock()
	tokens := newTestTokens(t, nil, clock)

	token, err := tokens.CreateToken(3, []string{model.AuthorityUser})
	require.NoError(t, err)

	clock.Advance(1500 * time.Microsecond)

	remaining, err := tokens.GetExpiration(token)
	require.NoError(t, err)
	require.Equal(t, 30*time.Minute-time.Millisecond, remaining)
	require.Zero(t, remaining%time.Millisecond)
}

func TestTokenServiceReissue(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sessions, _ := newTestSessions(t)
	tokens := newTestTokens(t, sessions, newTestClock())

	refresh, err := tokens.CreateRefreshToken(5, []string{model.AuthorityUser})
	require.NoError(t, err)

	t.Run("missing cache entry", func(t *testing.T) {
		_, err := tokens.Reissue(ctx, model.ReissueRequest{RefreshToken: refresh})
		require.ErrorIs(t, err, model.ErrInvalidRefreshToken)
	})

	require.NoError(t, sessions.SetDataExpire(ctx, cache.RefreshKey(5), refresh, tokens.RefreshTTL()))

	t.Run("matching refresh token", func(t *testing.T) {
		access, err := tokens.Reissue(ctx, model.ReissueRequest{RefreshToken: refresh})
		require.NoError(t, err)

		identity, err := tokens.GetAuthentication(access)
		require.NoError(t, err)
		require.Equal(t, int64(5), identity.UserID)
		require.Equal(t, TokenTypeAccess, identity.TokenType)
		require.Equal(t, []string{model.AuthorityUser}, identity.Authorities)
	})

	t.Run("superseded refresh token", func(t *testing.T) {
		newer, err := tokens.CreateRefreshToken(5, []string{model.AuthorityUser})
		require.NoError(t, err)
		require.NoError(t, sessions.SetDataExpire(ctx, cache.RefreshKey(5), newer, tokens.RefreshTTL()))

		_, err = tokens.Reissue(ctx, model.ReissueRequest{RefreshToken: refresh})
		require.ErrorIs(t, err, model.ErrInvalidRefreshToken)
	})

	t.Run("access token presented as refresh", func(t *testing.T) {
		access, err := tokens.CreateToken(5, []string{model.AuthorityUser})
		require.NoError(t, err)
		_, err = tokens.Reissue(ctx, model.ReissueRequest{RefreshToken: access})
		require.ErrorIs(t, err, model.ErrInvalidRefreshToken)
	})
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sessions, _ := newTestSessions(t)
	tokens := newTestTokens(t, sessions, newTestClock())

	access, err := tokens.CreateToken(11, []string{model.AuthorityUser})
	require.NoError(t, err)

	identity, err := tokens.Authenticate(ctx, access)
	require.NoError(t, err)
	require.Equal(t, int64(11), identity.UserID)

	refresh, err := tokens.CreateRefreshToken(11, []string{model.AuthorityUser})
	require.NoError(t, err)
	_, err = tokens.Authenticate(ctx, refresh)
	require.ErrorIs(t, err, model.ErrInvalidToken)

	require.NoError(t, sessions.SetDataExpire(ctx, cache.BlacklistKey(access), cache.LogoutMarker, time.Minute))
	_, err = tokens.Authenticate(ctx, access)
	require.ErrorIs(t, err, model.ErrInvalidToken)
}
