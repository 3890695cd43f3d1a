// Package repository defines persistence for confirmed accounts.
package repository

import (
	"context"

	"eduplatform/backend/internal/account/domain"
)

// Repository is the account store consumed by the credential service.
type Repository interface {
	// GetByEmail returns the account with the given email, or nil if not found.
	// It returns an error only for store failures, not for missing rows.
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	// Create persists the account. The account must have ID set. Returns
	// domain.ErrDuplicateEmail when the email is already taken.
	Create(ctx context.Context, a *domain.Account) error
}
