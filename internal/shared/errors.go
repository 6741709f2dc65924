package shared

import "errors"

// Sentinel errors shared across the repository, service and handler
// layers. Handlers match them with errors.Is to pick a status code.
var (
	// common errors
	ErrNotFound = errors.New("not found")

	// auth-specific errors
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrMissingSubject     = errors.New("token has no subject")

	// password-reset errors
	ErrEmailNotFound            = errors.New("email not found")
	ErrInvalidOtp               = errors.New("invalid otp")
	ErrOtpExpired               = errors.New("otp expired")
	ErrInvalidOrExpiredOtpToken = errors.New("invalid or expired otp token")

	// notifier errors
	ErrDelivery = errors.New("email delivery failed")
)
