package domain

import "time"

// AuthProvider identifies how a user signs in.
type AuthProvider string

const (
	AuthProviderPassword AuthProvider = "password"
	AuthProviderGoogle   AuthProvider = "google"
)

// User represents an authenticated user. PasswordHash is set only for
// password-provider accounts and never leaves the server.
type User struct {
	ID           string       `json:"id" db:"id"`
	Provider     AuthProvider `json:"provider" db:"provider"`
	ProviderID   *string      `json:"provider_id,omitempty" db:"provider_id"`
	Email        string       `json:"email" db:"email"`
	DisplayName  string       `json:"display_name" db:"display_name"`
	AvatarURL    *string      `json:"avatar_url,omitempty" db:"avatar_url"`
	PasswordHash *string      `json:"-" db:"password_hash"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}
