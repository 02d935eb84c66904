package service

import (
	"net/http"

	commonerrors "github.com/rkarimov/smart-traffic/internal/common/errors"
)

// Client-facing auth failures. The details are part of the public contract:
// InvalidCredentials deliberately collapses unknown-username and
// wrong-password, and Unauthorized collapses every token failure plus
// unknown subject, so neither can be used as an oracle.
var (
	ErrUsernameTaken = commonerrors.New(
		"USERNAME_TAKEN",
		commonerrors.CategoryConflict,
		http.StatusBadRequest,
		"Username already registered",
	)

	ErrInvalidCredentials = commonerrors.New(
		"INVALID_CREDENTIALS",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"Incorrect username or password",
	)

	ErrUnauthorized = commonerrors.New(
		"UNAUTHORIZED",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"Could not validate credentials",
	)

	ErrInactiveUser = commonerrors.New(
		"INACTIVE_USER",
		commonerrors.CategoryForbidden,
		http.StatusBadRequest,
		"Inactive user",
	)

	ErrUserNotFound = commonerrors.New(
		"USER_NOT_FOUND",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"User not found",
	)
)
