package repositories

import (
	"fmt"
	"sync"
	"time"

	"taskboard/internal/models"
	"taskboard/internal/shared"

	"github.com/google/uuid"
)

// MockOTPRepository is an in-memory implementation of OTPRepository.
type MockOTPRepository struct {
	records map[string]models.PasswordResetOTP
	mu      sync.RWMutex
}

// NewMockOTPRepository creates a new instance of MockOTPRepository.
func NewMockOTPRepository() *MockOTPRepository {
	return &MockOTPRepository{
		records: make(map[string]models.PasswordResetOTP),
	}
}

// Create adds a new OTP record.
func (r *MockOTPRepository) Create(otp *models.PasswordResetOTP) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if otp.ID == "" {
		otp.ID = uuid.New().String()
	}
	if otp.CreatedAt.IsZero() {
		otp.CreatedAt = time.Now().UTC()
	}
	r.records[otp.ID] = *otp
	return nil
}

// GetByEmailOtpToken returns the record matching email, code and token.
func (r *MockOTPRepository) GetByEmailOtpToken(email, otp, otpToken string) (*models.PasswordResetOTP, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.records {
		if rec.Email == email && rec.Otp == otp && rec.OtpToken == otpToken {
			record := rec
			return &record, nil
		}
	}
	return nil, fmt.Errorf("otp record for %s: %w", email, shared.ErrNotFound)
}

// GetByEmailToken returns the record matching email and token only.
func (r *MockOTPRepository) GetByEmailToken(email, otpToken string) (*models.PasswordResetOTP, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.records {
		if rec.Email == email && rec.OtpToken == otpToken {
			record := rec
			return &record, nil
		}
	}
	return nil, fmt.Errorf("otp record for %s: %w", email, shared.ErrNotFound)
}

// Delete removes an OTP record by id.
func (r *MockOTPRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return fmt.Errorf("otp record with ID %s: %w", id, shared.ErrNotFound)
	}
	delete(r.records, id)
	return nil
}

// Count reports the number of stored records.
func (r *MockOTPRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}
