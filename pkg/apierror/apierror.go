package apierror

import (
	"fmt"

	"go-marketplace/internal/model"
)

// APIError is a request-scoped failure that already knows its HTTP status.
type APIError struct {
	Result     model.Result `json:"-"`
	Details    string       `json:"details,omitempty"`
	HTTPStatus int          `json:"-"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Result.Name, e.Result.Message, e.Details)
	}

	return fmt.Sprintf("%s: %s", e.Result.Name, e.Result.Message)
}

func New(result model.Result, details string, status int) *APIError {
	return &APIError{Result: result, Details: details, HTTPStatus: status}
}
