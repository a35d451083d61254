package models

import "time"

// EmailOTP is a one-time 6-digit login code issued for an email address.
// Only a hash of the code is stored.
type EmailOTP struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CodeHash  string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}
