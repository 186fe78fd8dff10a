package models

import "time"

// PasswordReset stores a pending OTP for the password-reset flow.
// The code is stored as a SHA-256 hex digest, never in plaintext.
type PasswordReset struct {
	Base
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	CodeHash  string     `gorm:"size:64;not null" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
}
