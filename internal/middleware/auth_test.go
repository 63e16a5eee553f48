package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-marketplace/internal/model"
)

type stubAuthenticator map[string]model.Identity

func (s stubAuthenticator) Authenticate(_ context.Context, token string) (model.Identity, error) {
	switch token {
	case "boom":
		return model.Identity{}, errors.New("redis unavailable")
	case "bare":
		return model.Identity{}, model.ErrUnauthorityToken
	}
	identity, ok := s[token]
	if !ok {
		return model.Identity{}, model.ErrInvalidToken
	}
	return identity, nil
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *model.APIError {
	t.Helper()
	var body model.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.False(t, body.Success)
	require.NotNil(t, body.Error)
	return body.Error
}

func TestRequireAuth(t *testing.T) {
	mw := NewAuthMiddleware(stubAuthenticator{
		"user-token": {UserID: 7, Authorities: []string{model.AuthorityUser}},
	})

	var seen model.Identity
	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name   string
		header string
		status int
		result model.Result
	}{
		{"missing header", "", http.StatusUnauthorized, model.ResultNotUsesToken},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, model.ResultNotUsesToken},
		{"unknown token", "Bearer nope", http.StatusUnauthorized, model.ResultNotUsesToken},
		{"token without authorities", "Bearer bare", http.StatusUnauthorized, model.ResultUnauthorityToken},
		{"backend failure", "Bearer boom", http.StatusInternalServerError, model.ResultFail},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.result.Code, decodeError(t, rec).Code)
			assert.Equal(t, tc.result.Name, decodeError(t, rec).Name)
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "bearer user-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(7), seen.UserID)
}

func TestRequireAuthorities(t *testing.T) {
	mw := NewAuthMiddleware(stubAuthenticator{})
	handler := mw.RequireAuthorities(model.AuthorityAdmin)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	userCtx := WithIdentity(context.Background(), model.Identity{UserID: 1, Authorities: []string{model.AuthorityUser}})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(userCtx))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, model.ResultForbidden.Name, decodeError(t, rec).Name)

	adminCtx := WithIdentity(context.Background(), model.Identity{UserID: 2, Authorities: []string{model.AuthorityUser, model.AuthorityAdmin}})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(adminCtx))
	assert.Equal(t, http.StatusOK, rec.Code)
}
