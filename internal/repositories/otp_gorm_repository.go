package repositories

import (
	"errors"
	"fmt"

	"taskboard/internal/models"
	"taskboard/internal/shared"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOTPRepository is a GORM implementation of OTPRepository.
type GORMOTPRepository struct {
	db *gorm.DB
}

// NewGORMOTPRepository creates a new instance of GORMOTPRepository.
func NewGORMOTPRepository(db *gorm.DB) *GORMOTPRepository {
	return &GORMOTPRepository{
		db: db,
	}
}

// Create persists a new OTP record. Earlier records for the same email
// are left in place; each stays valid until used or expired.
func (r *GORMOTPRepository) Create(otp *models.PasswordResetOTP) error {
	if otp.ID == "" {
		otp.ID = uuid.New().String()
	}
	if err := r.db.Create(otp).Error; err != nil {
		return fmt.Errorf("failed to create otp record: %w", err)
	}
	return nil
}

// GetByEmailOtpToken retrieves the record matching email, code and token.
func (r *GORMOTPRepository) GetByEmailOtpToken(email, otp, otpToken string) (*models.PasswordResetOTP, error) {
	var record models.PasswordResetOTP
	err := r.db.First(&record, "email = ? AND otp = ? AND otp_token = ?", email, otp, otpToken).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("otp record for %s: %w", email, shared.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get otp record for %s: %w", email, err)
	}
	return &record, nil
}

// GetByEmailToken retrieves the record matching email and token only.
func (r *GORMOTPRepository) GetByEmailToken(email, otpToken string) (*models.PasswordResetOTP, error) {
	var record models.PasswordResetOTP
	err := r.db.First(&record, "email = ? AND otp_token = ?", email, otpToken).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("otp record for %s: %w", email, shared.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get otp record for %s: %w", email, err)
	}
	return &record, nil
}

// Delete removes an OTP record by id. Zero rows affected means another
// reset already consumed it.
func (r *GORMOTPRepository) Delete(id string) error {
	res := r.db.Delete(&models.PasswordResetOTP{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete otp record: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("otp record with ID %s: %w", id, shared.ErrNotFound)
	}
	return nil
}
