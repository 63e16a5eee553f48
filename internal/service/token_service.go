package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"go-marketplace/internal/cache"
	"go-marketplace/internal/metrics"
	"go-marketplace/internal/model"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type sessionReader interface {
	GetData(ctx context.Context, key string) (string, bool, error)
}

type tokenClaims struct {
	Authorities []string `json:"auth"`
	Type        string   `json:"typ"`
	jwt.RegisteredClaims
}

type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	sessions   sessionReader
	now        func() time.Time
}

type TokenOption func(*TokenService)

// WithClock replaces time.Now for issuing and validating tokens.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		s.now = now
	}
}

func NewTokenService(secret string, accessTTL time.Duration, refreshTTL time.Duration, sessions sessionReader, opts ...TokenOption) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if accessTTL <= 0 || refreshTTL <= accessTTL {
		return nil, fmt.Errorf("invalid token lifetimes: access=%s refresh=%s", accessTTL, refreshTTL)
	}

	s := &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		sessions:   sessions,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *TokenService) AccessTTL() time.Duration  { return s.accessTTL }
func (s *TokenService) RefreshTTL() time.Duration { return s.refreshTTL }

func (s *TokenService) CreateToken(userID int64, authorities []string) (string, error) {
	return s.sign(userID, authorities, TokenTypeAccess, s.accessTTL)
}

func (s *TokenService) CreateRefreshToken(userID int64, authorities []string) (string, error) {
	return s.sign(userID, authorities, TokenTypeRefresh, s.refreshTTL)
}

// ValidateToken checks signature and expiry. It never fails loudly: any
// malformed, tampered or expired input is simply false.
func (s *TokenService) ValidateToken(token string) bool {
	_, err := s.parse(token)
	return err == nil
}

func (s *TokenService) GetAuthentication(token string) (model.Identity, error) {
	claims, err := s.parse(token)
	if err != nil {
		return model.Identity{}, err
	}
	return identityFromClaims(claims)
}

// GetExpiration returns how long the token has left, never negative. The
// result is rounded up to whole milliseconds, the resolution of Redis PX, so a
// blacklist entry sized from it never expires before the token does.
func (s *TokenService) GetExpiration(token string) (time.Duration, error) {
	claims, err := s.parse(token)
	if err != nil {
		return 0, err
	}

	remaining := claims.ExpiresAt.Sub(s.now())
	if remaining <= 0 {
		return 0, nil
	}
	if rounded := remaining.Truncate(time.Millisecond); rounded < remaining {
		remaining = rounded + time.Millisecond
	}
	return remaining, nil
}

// Reissue mints a new access token when the presented refresh token matches
// the one stored for its owner. The refresh token itself is not rotated.
func (s *TokenService) Reissue(ctx context.Context, req model.ReissueRequest) (string, error) {
	claims, err := s.parse(req.RefreshToken)
	if err != nil || claims.Type != TokenTypeRefresh {
		return "", model.ErrInvalidRefreshToken
	}

	identity, err := identityFromClaims(claims)
	if err != nil {
		return "", model.ErrInvalidRefreshToken
	}

	stored, ok, err := s.sessions.GetData(ctx, cache.RefreshKey(identity.UserID))
	if err != nil {
		return "", err
	}
	if !ok || stored != req.RefreshToken {
		return "", model.ErrInvalidRefreshToken
	}

	return s.CreateToken(identity.UserID, identity.Authorities)
}

// Authenticate resolves a bearer access token that has not been logged out.
func (s *TokenService) Authenticate(ctx context.Context, token string) (model.Identity, error) {
	identity, err := s.GetAuthentication(token)
	if err != nil {
		return model.Identity{}, err
	}
	if identity.TokenType != TokenTypeAccess {
		return model.Identity{}, model.ErrInvalidToken
	}

	_, blacklisted, err := s.sessions.GetData(ctx, cache.BlacklistKey(token))
	if err != nil {
		return model.Identity{}, err
	}
	if blacklisted {
		return model.Identity{}, model.ErrInvalidToken
	}

	return identity, nil
}

func (s *TokenService) sign(userID int64, authorities []string, typ string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := tokenClaims{
		Authorities: authorities,
		Type:        typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", typ, err)
	}

	metrics.IssuedTokens.WithLabelValues(typ).Inc()
	return signed, nil
}

func (s *TokenService) parse(token string) (*tokenClaims, error) {
	if token == "" {
		return nil, model.ErrInvalidToken
	}

	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, model.ErrInvalidToken
	}

	return claims, nil
}

func identityFromClaims(claims *tokenClaims) (model.Identity, error) {
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return model.Identity{}, model.ErrInvalidToken
	}
	if len(claims.Authorities) == 0 {
		return model.Identity{}, model.ErrUnauthorityToken
	}

	return model.Identity{
		UserID:      userID,
		Authorities: claims.Authorities,
		TokenID:     claims.ID,
		TokenType:   claims.Type,
	}, nil
}
