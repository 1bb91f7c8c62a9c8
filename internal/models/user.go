package models

import "time"

// User represents an account holder. Users come into existence either via
// admin seeding or the first-sign-in sync flow, and may hold at most one
// API key at a time (stored only as a one-way hash).
type User struct {
	ID          int64     `json:"id"`
	Name        *string   `json:"name"`
	Email       *string   `json:"email"`
	ExternalSub *string   `json:"-"` // identity-provider subject, nil until first sign-in sync
	APIKeyHash  *string   `json:"-"` // SHA-256 hex of the API key, never the plaintext
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasAPIKey reports whether the user has generated an API key.
func (u *User) HasAPIKey() bool {
	return u.APIKeyHash != nil && *u.APIKeyHash != ""
}

// HasExternalIdentity reports whether an identity-provider subject is attached.
func (u *User) HasExternalIdentity() bool {
	return u.ExternalSub != nil && *u.ExternalSub != ""
}
