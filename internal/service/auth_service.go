package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go-marketplace/internal/cache"
	"go-marketplace/internal/metrics"
	"go-marketplace/internal/model"
	"go-marketplace/internal/repository"
	"go-marketplace/internal/util"
)

// UserStore is the credential store plus its transaction scope.
type UserStore interface {
	Users() repository.Users
	WithinTx(ctx context.Context, fn func(ctx context.Context, users repository.Users) error) error
}

type HeartStore interface {
	FindHeartedByUser(ctx context.Context, userID int64) ([]model.HeartDataProduct, error)
	AddHeart(ctx context.Context, userID int64, productID int64) (model.Heart, error)
}

type SessionCache interface {
	cache.Writer
	GetData(ctx context.Context, key string) (string, bool, error)
	Atomically(ctx context.Context, fn func(w cache.Writer) error) error
}

type AuthService struct {
	users    UserStore
	hearts   HeartStore
	hasher   PasswordHasher
	tokens   *TokenService
	sessions SessionCache
}

func NewAuthService(users UserStore, hearts HeartStore, hasher PasswordHasher, tokens *TokenService, sessions SessionCache) *AuthService {
	return &AuthService{
		users:    users,
		hearts:   hearts,
		hasher:   hasher,
		tokens:   tokens,
		sessions: sessions,
	}
}

func (s *AuthService) Signup(ctx context.Context, req model.SignupRequest) (resp model.SignupResponse, err error) {
	defer func() { observe("signup", err) }()

	email := util.NormalizeEmail(req.Email)

	var saved model.User
	err = s.users.WithinTx(ctx, func(ctx context.Context, users repository.Users) error {
		exists, err := users.ExistsByEmail(ctx, email)
		if err != nil {
			return err
		}
		if exists {
			return model.ErrDuplicatedEmail
		}

		if !req.EmailAuth {
			return model.ErrEmailNotVerified
		}

		digest, err := s.hasher.Hash(req.Password)
		if err != nil {
			return err
		}

		saved, err = users.Save(ctx, model.User{
			Email:         email,
			PasswordHash:  digest,
			Name:          util.SanitizeText(req.Name, 100),
			PhoneNum:      util.SanitizeText(req.PhoneNum, 30),
			Authorities:   []string{model.AuthorityUser},
			EmailVerified: true,
		})
		return err
	})
	if err != nil {
		return model.SignupResponse{}, err
	}

	slog.InfoContext(ctx, "user signed up", "user_id", saved.ID)
	return model.SignupResponse{
		ID:          saved.ID,
		Email:       saved.Email,
		Name:        saved.Name,
		PhoneNum:    saved.PhoneNum,
		Authorities: saved.Authorities,
	}, nil
}

// Signin checks credentials and issues an access/refresh pair. The refresh
// token is stored under the user's refresh key.
func (s *AuthService) Signin(ctx context.Context, req model.SigninRequest) (resp model.SigninResponse, err error) {
	defer func() { observe("signin", err) }()

	user, err := s.users.Users().FindByEmail(ctx, util.NormalizeEmail(req.Email))
	if err != nil {
		return model.SigninResponse{}, err
	}

	if !s.hasher.Matches(req.Password, user.PasswordHash) {
		return model.SigninResponse{}, model.ErrInvalidPassword
	}

	accessToken, err := s.tokens.CreateToken(user.ID, user.Authorities)
	if err != nil {
		return model.SigninResponse{}, err
	}
	refreshToken, err := s.tokens.CreateRefreshToken(user.ID, user.Authorities)
	if err != nil {
		return model.SigninResponse{}, err
	}

	if err := s.sessions.SetDataExpire(ctx, cache.RefreshKey(user.ID), refreshToken, s.tokens.RefreshTTL()); err != nil {
		return model.SigninResponse{}, err
	}

	return model.SigninResponse{
		Email:        req.Email,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.tokens.AccessTTL().Seconds()),
	}, nil
}

// Logout drops the stored refresh token and blacklists the access token for
// exactly the lifetime it has left.
func (s *AuthService) Logout(ctx context.Context, accessToken string) (resp model.LogoutResponse, err error) {
	defer func() { observe("logout", err) }()

	if !s.tokens.ValidateToken(accessToken) {
		return model.LogoutResponse{}, model.ErrInvalidAccessToken
	}

	identity, err := s.tokens.GetAuthentication(accessToken)
	if err != nil {
		return model.LogoutResponse{}, err
	}
	if identity.TokenType != TokenTypeAccess {
		return model.LogoutResponse{}, model.ErrInvalidAccessToken
	}

	refreshKey := cache.RefreshKey(identity.UserID)
	_, hasRefresh, err := s.sessions.GetData(ctx, refreshKey)
	if err != nil {
		return model.LogoutResponse{}, err
	}

	remaining, err := s.tokens.GetExpiration(accessToken)
	if err != nil {
		return model.LogoutResponse{}, err
	}

	err = s.sessions.Atomically(ctx, func(w cache.Writer) error {
		if hasRefresh {
			if err := w.DeleteData(ctx, refreshKey); err != nil {
				return err
			}
		}
		return w.SetDataExpire(ctx, cache.BlacklistKey(accessToken), cache.LogoutMarker, remaining)
	})
	if err != nil {
		return model.LogoutResponse{}, err
	}

	metrics.BlacklistedTokens.Inc()
	slog.InfoContext(ctx, "user logged out", "user_id", identity.UserID, "blacklist_ttl", remaining)
	return model.LogoutResponse{UserID: identity.UserID}, nil
}

func (s *AuthService) Reissue(ctx context.Context, req model.ReissueRequest) (resp model.ReissueResponse, err error) {
	defer func() { observe("reissue", err) }()

	accessToken, err := s.tokens.Reissue(ctx, req)
	if err != nil {
		return model.ReissueResponse{}, err
	}

	return model.ReissueResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokens.AccessTTL().Seconds()),
	}, nil
}

func (s *AuthService) FindAll(ctx context.Context) ([]model.UserSummary, error) {
	users, err := s.users.Users().FindAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, model.UserSummary{Email: u.Email, Name: u.Name, PhoneNum: u.PhoneNum})
	}
	return out, nil
}

func (s *AuthService) FindOne(ctx context.Context, id int64) (model.UserIDResponse, error) {
	user, err := s.users.Users().FindByID(ctx, id)
	if err != nil {
		return model.UserIDResponse{}, err
	}
	return model.UserIDResponse{ID: user.ID}, nil
}

func (s *AuthService) FindHeartDataProducts(ctx context.Context, userID int64) ([]model.HeartDataProduct, error) {
	if _, err := s.users.Users().FindByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.hearts.FindHeartedByUser(ctx, userID)
}

func (s *AuthService) AddHeart(ctx context.Context, userID int64, productID int64) (model.Heart, error) {
	if productID <= 0 {
		return model.Heart{}, model.ErrNotFoundDataProduct
	}
	if _, err := s.users.Users().FindByID(ctx, userID); err != nil {
		return model.Heart{}, err
	}
	return s.hearts.AddHeart(ctx, userID, productID)
}

var domainErrors = []error{
	model.ErrDuplicatedEmail,
	model.ErrEmailNotVerified,
	model.ErrUserNotFound,
	model.ErrNotFoundUser,
	model.ErrInvalidPassword,
	model.ErrInvalidToken,
	model.ErrInvalidAccessToken,
	model.ErrInvalidRefreshToken,
	model.ErrUnauthorityToken,
	model.ErrInvalidCode,
	model.ErrNotFoundDataProduct,
	model.ErrDuplicatedHeart,
	model.ErrInvalidInput,
}

// IsDomainError reports whether err is an expected business rejection rather
// than an infrastructure failure.
func IsDomainError(err error) bool {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func observe(operation string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case IsDomainError(err):
		outcome = "rejected"
	default:
		outcome = "error"
		slog.Error("auth operation failed", "operation", operation, "error", fmt.Sprint(err))
	}
	metrics.AuthRequests.WithLabelValues(operation, outcome).Inc()
}
