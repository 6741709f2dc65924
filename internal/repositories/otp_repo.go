package repositories

import "taskboard/internal/models"

// OTPRepository defines the interface for password-reset OTP records.
type OTPRepository interface {
	Create(otp *models.PasswordResetOTP) error
	// GetByEmailOtpToken matches all three fields exactly (verify step).
	GetByEmailOtpToken(email, otp, otpToken string) (*models.PasswordResetOTP, error)
	// GetByEmailToken matches email and token only (reset step).
	GetByEmailToken(email, otpToken string) (*models.PasswordResetOTP, error)
	// Delete removes a record by id; a record already gone reports
	// shared.ErrNotFound, which enforces single use under concurrent
	// resets.
	Delete(id string) error
}
