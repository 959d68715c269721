package service

import (
	"net/http"

	commonerrors "github.com/nickgeorgouses/note-app/internal/common/errors"
)

var (
	ErrMissingRegisterFields = commonerrors.NewDomainError(
		"MISSING_REGISTER_FIELDS",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"Please provide username, email, and password",
	)

	ErrPasswordTooShort = commonerrors.NewDomainError(
		"PASSWORD_TOO_SHORT",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"Password must be at least 6 characters",
	)

	// ErrUserExists keeps the 400 status clients of the API already depend on.
	ErrUserExists = commonerrors.NewDomainError(
		"USER_EXISTS",
		commonerrors.CategoryConflict,
		http.StatusBadRequest,
		"User with this email or username already exists",
	)

	ErrMissingLoginFields = commonerrors.NewDomainError(
		"MISSING_LOGIN_FIELDS",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"Please provide email and password",
	)

	ErrInvalidCredentials = commonerrors.NewDomainError(
		"INVALID_CREDENTIALS",
		commonerrors.CategoryAuth,
		http.StatusBadRequest,
		"Invalid email or password",
	)

	ErrAuthFailed = commonerrors.NewDomainError(
		"AUTH_FAILED",
		commonerrors.CategoryInternal,
		http.StatusInternalServerError,
		"Server error",
	)
)
