package models

import "time"

// PasswordResetOTP is one outstanding password-reset code. The numeric
// code is delivered by email; the opaque token is returned to the
// client and is the actual reset capability. Several live records per
// email may coexist; a record is removed only when a reset consumes it.
type PasswordResetOTP struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email     string    `json:"email" gorm:"index;type:varchar(255)"`
	Otp       string    `json:"otp" gorm:"type:varchar(6)"`
	OtpToken  string    `json:"otp_token" gorm:"uniqueIndex;type:varchar(36)"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the record's deadline has passed. Stored
// timestamps are normalized to UTC before comparing; SQLite in
// particular hands back wall-clock values without a zone.
func (o *PasswordResetOTP) Expired(now time.Time) bool {
	return o.ExpiresAt.UTC().Before(now.UTC())
}
