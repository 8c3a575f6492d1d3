// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// Email is stored normalized (lower-cased) so the UNIQUE constraint in the
// database gives us case-insensitive uniqueness for free. PasswordHash and
// Salt hold the stored credential — the plaintext password never leaves
// the service layer.
//
// The json tags deliberately omit the credential fields: a User marshalled
// for an external caller must never carry hash or salt.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	Admin        bool      `json:"admin"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
