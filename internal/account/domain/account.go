package domain

import (
	"errors"
	"time"
)

// Account is a confirmed account record. It is written exactly once, at the moment
// a registration code is successfully verified; PasswordHash holds the salted
// record produced by the security package, never a plaintext password.
type Account struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Profile      map[string]string
	CreatedAt    time.Time
}

// ErrDuplicateEmail is returned by Create when the email is already taken.
// Uniqueness on email is enforced by the store, not by callers.
var ErrDuplicateEmail = errors.New("account: email already exists")

// Validate validates the account for persistence. Returns an error describing the first validation failure.
func (a *Account) Validate() error {
	if a.Email == "" {
		return errors.New("email is required")
	}
	if a.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	return nil
}
