package model

import "errors"

var (
	// User related errors
	ErrDuplicatedEmail  = errors.New("email already registered")
	ErrUserNotFound     = errors.New("user not found")
	ErrNotFoundUser     = errors.New("member not found")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrEmailNotVerified = errors.New("email not verified")

	// Token related errors
	ErrInvalidToken        = errors.New("invalid token")
	ErrInvalidAccessToken  = errors.New("invalid access token")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrUnauthorityToken    = errors.New("token carries no authorities")

	// Email verification errors
	ErrInvalidCode   = errors.New("invalid verification code")
	ErrFailSendEmail = errors.New("failed to send verification email")

	// Catalog related errors
	ErrNotFoundDataProduct = errors.New("data product not found")
	ErrDuplicatedHeart     = errors.New("data product already hearted")

	// Permission/Access related errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
