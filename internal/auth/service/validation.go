package service

import (
	"net/http"
	"regexp"

	"github.com/rkarimov/smart-traffic/internal/common/constants"
	commonerrors "github.com/rkarimov/smart-traffic/internal/common/errors"
)

var (
	ErrValidationUsernameLength = commonerrors.New(
		"VALIDATION_USERNAME_LENGTH",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"Username must be between 3 and 32 characters",
	)

	ErrValidationUsernameChars = commonerrors.New(
		"VALIDATION_USERNAME_CHARS",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"Username may only contain letters, digits, underscores and hyphens",
	)

	ErrValidationPasswordLength = commonerrors.New(
		"VALIDATION_PASSWORD_LENGTH",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"Password must be between 8 and 72 characters",
	)
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*[a-zA-Z0-9]$`)

func validateCredentials(username, password string) error {
	if len(username) < constants.UsernameMinLength || len(username) > constants.UsernameMaxLength {
		return ErrValidationUsernameLength
	}

	if !usernameRegex.MatchString(username) {
		return ErrValidationUsernameChars
	}

	// bcrypt truncates input beyond 72 bytes, so longer passwords are refused
	// rather than silently weakened.
	if len(password) < constants.PasswordMinLength || len(password) > constants.PasswordMaxLength {
		return ErrValidationPasswordLength
	}

	return nil
}
