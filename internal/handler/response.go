package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go-marketplace/internal/model"
	"go-marketplace/pkg/apierror"
)

type errorMapping struct {
	err    error
	status int
	result model.Result
}

// errorMappings is checked in order; the first errors.Is match wins.
var errorMappings = []errorMapping{
	{model.ErrInvalidInput, http.StatusBadRequest, model.ResultBadRequest},
	{model.ErrInvalidAccessToken, http.StatusBadRequest, model.ResultBadRequest},
	{model.ErrInvalidToken, http.StatusUnauthorized, model.ResultNotUsesToken},
	{model.ErrUnauthorized, http.StatusUnauthorized, model.ResultNotUsesToken},
	{model.ErrDuplicatedEmail, http.StatusConflict, model.ResultUserIDDuplicated},
	{model.ErrUserNotFound, http.StatusNotFound, model.ResultUserIDNotFound},
	{model.ErrInvalidPassword, http.StatusUnauthorized, model.ResultInvalidPassword},
	{model.ErrNotFoundUser, http.StatusNotFound, model.ResultNotFoundUser},
	{model.ErrUnauthorityToken, http.StatusUnauthorized, model.ResultUnauthorityToken},
	{model.ErrFailSendEmail, http.StatusBadGateway, model.ResultFailSendEmail},
	{model.ErrInvalidCode, http.StatusBadRequest, model.ResultIncorrectCode},
	{model.ErrInvalidRefreshToken, http.StatusUnauthorized, model.ResultInvalidRefreshToken},
	{model.ErrEmailNotVerified, http.StatusForbidden, model.ResultUnverifiedEmail},
	{model.ErrNotFoundDataProduct, http.StatusNotFound, model.ResultNotFoundDataProduct},
	{model.ErrDuplicatedHeart, http.StatusConflict, model.ResultDuplicatedHeart},
	{model.ErrForbidden, http.StatusForbidden, model.ResultForbidden},
}

func writeSuccess(w http.ResponseWriter, status int, data any, meta *model.Meta) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

func writeError(w http.ResponseWriter, err error) {
	status, body, known := classify(err)
	if !known {
		// Log unclassified errors so they are visible in container logs.
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error:   body,
	})
}

func classify(err error) (int, *model.APIError, bool) {
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatus, model.NewAPIError(apiErr.Result, apiErr.Details), true
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m.status, model.NewAPIError(m.result, ""), true
		}
	}

	return http.StatusInternalServerError, model.NewAPIError(model.ResultFail, ""), false
}
