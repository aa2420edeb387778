package account

import (
	"errors"

	apperrors "github.com/tendant/simple-account/pkg/errors"
)

// Repository errors
var (
	// ErrAccountNotFound is returned when no account matches a lookup
	ErrAccountNotFound = errors.New("account not found")

	// ErrDuplicateEmail is returned by Insert when the email is already taken
	ErrDuplicateEmail = errors.New("email already exists")

	// ErrStaleAccount is returned by Update when the stored version moved on
	ErrStaleAccount = errors.New("account was modified concurrently")
)

// Service errors, matched with errors.Is by code
var (
	ErrDuplicateAccount      = apperrors.New(apperrors.ErrCodeDuplicateAccount, "Email already registered")
	ErrInvalidOrExpiredToken = apperrors.New(apperrors.ErrCodeInvalidOrExpiredToken, "Invalid or expired verification token")
	// ErrUnknownAccount carries the same message as ErrInvalidCredentials so callers cannot probe for emails.
	ErrUnknownAccount     = apperrors.New(apperrors.ErrCodeUnknownAccount, "Invalid credentials")
	ErrUnverifiedAccount  = apperrors.New(apperrors.ErrCodeUnverifiedAccount, "Please verify your email first")
	ErrInvalidCredentials = apperrors.New(apperrors.ErrCodeInvalidCredentials, "Invalid credentials")
	ErrMissingCredentials = apperrors.InvalidInput("Email and password are required")
)

// ServerErrorMessage is the only text surfaced for unexpected failures
const ServerErrorMessage = "Server error"

// PublicMessage returns the text safe to show a client for err.
// Internal failures collapse to ServerErrorMessage.
func PublicMessage(err error) string {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) || appErr.Code == apperrors.ErrCodeInternal {
		return ServerErrorMessage
	}
	return appErr.Message
}
