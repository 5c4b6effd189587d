package auth

import "errors"

var (
	// ErrInvalidCredentials is surfaced when the provider rejects a
	// login attempt. The flow stays in LoggingIn for a retry.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidCode is surfaced when a reset verification code does
	// not match. The flow stays in ResetRequested.
	ErrInvalidCode = errors.New("invalid verification code")

	// ErrPasswordMismatch means the confirmation did not match the new
	// password.
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrWeakPassword means the new password fails the length policy.
	ErrWeakPassword = errors.New("password must be at least 8 characters")

	// ErrAttemptInFlight rejects a second provider-backed transition
	// while one is still pending, so out-of-order responses cannot
	// corrupt the state.
	ErrAttemptInFlight = errors.New("another attempt is in flight")

	// ErrInvalidTransition means the requested operation is not legal
	// from the current state.
	ErrInvalidTransition = errors.New("operation not allowed in current state")
)
