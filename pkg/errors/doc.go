// Package errors provides structured error handling with error codes for simple-account.
//
// Every failure the account lifecycle can produce is an *Error carrying an
// ErrorCode. Handlers map the code to an HTTP status with
// MapErrorCodeToHTTPStatus and surface only Message to the caller; the wrapped
// Err is for logs.
//
// # Basic Usage
//
//	import "github.com/tendant/simple-account/pkg/errors"
//
//	// Declare a sentinel
//	var ErrDuplicateAccount = errors.New(errors.ErrCodeDuplicateAccount, "Email already registered")
//
//	// Wrap a collaborator failure
//	return errors.InternalWrap(err, "failed to persist account")
//
//	// Inspect
//	if errors.IsCode(err, errors.ErrCodeUnverifiedAccount) {
//		...
//	}
//
// Sentinels compare by code, so stdlib errors.Is(wrapped, ErrDuplicateAccount)
// holds for any *Error with the same code.
package errors
