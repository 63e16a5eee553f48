package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go-marketplace/internal/model"
)

type authenticator interface {
	Authenticate(ctx context.Context, token string) (model.Identity, error)
}

type contextKey string

const identityContextKey contextKey = "auth_identity"

type AuthMiddleware struct {
	authenticator authenticator
}

func NewAuthMiddleware(authenticator authenticator) *AuthMiddleware {
	return &AuthMiddleware{authenticator: authenticator}
}

// RequireAuth admits requests carrying a valid, non-blacklisted bearer access token.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := BearerToken(r)
		if !ok {
			writeResult(w, http.StatusUnauthorized, model.ResultNotUsesToken, "missing or invalid authorization header")
			return
		}

		identity, err := m.authenticator.Authenticate(r.Context(), token)
		switch {
		case err == nil:
		case errors.Is(err, model.ErrUnauthorityToken):
			writeResult(w, http.StatusUnauthorized, model.ResultUnauthorityToken, "")
			return
		case errors.Is(err, model.ErrInvalidToken):
			writeResult(w, http.StatusUnauthorized, model.ResultNotUsesToken, "invalid, expired or revoked token")
			return
		default:
			writeResult(w, http.StatusInternalServerError, model.ResultFail, "")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

// RequireAuthorities admits identities holding at least one of the given authorities.
func (m *AuthMiddleware) RequireAuthorities(authorities ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				writeResult(w, http.StatusUnauthorized, model.ResultNotUsesToken, "authentication required")
				return
			}

			for _, name := range authorities {
				if identity.HasAuthority(name) {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeResult(w, http.StatusForbidden, model.ResultForbidden, "")
		})
	}
}

func BearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return "", false
	}

	token := strings.TrimSpace(header[7:])
	return token, token != ""
}

func WithIdentity(ctx context.Context, identity model.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

func IdentityFromContext(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(model.Identity)
	return identity, ok
}
