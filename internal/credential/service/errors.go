package service

import (
	"errors"
	"fmt"
	"strings"

	"eduplatform/backend/internal/security"
)

// Sentinel errors for the credential service; the HTTP handler maps them to statuses.
var (
	ErrInvalidEmail      = errors.New("credential: invalid email address")
	ErrAlreadyRegistered = errors.New("credential: email already registered")
	ErrAccountNotFound   = errors.New("credential: account not found")
	ErrInvalidPassword   = errors.New("credential: invalid password")
)

// WeakPasswordError reports a password that failed the strength policy. It carries
// the per-check results so callers can tell the user which checks failed.
type WeakPasswordError struct {
	Result security.StrengthResult
}

func (e *WeakPasswordError) Error() string {
	failed := e.Result.Failed()
	if len(failed) == 0 {
		return "credential: password too weak"
	}
	return fmt.Sprintf("credential: password too weak (failed: %s)", strings.Join(failed, ", "))
}

// DeliveryError wraps a notifier failure. The pending verification code has already
// been discarded when this is returned, so the caller may simply retry.
type DeliveryError struct {
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("credential: code delivery failed: %v", e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// StoreError wraps an infrastructure failure from the account repository or the
// verification code store.
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("credential: store failure: %v", e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
