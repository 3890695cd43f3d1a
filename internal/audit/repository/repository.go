// Package repository defines persistence for audit events.
package repository

import (
	"context"

	"eduplatform/backend/internal/audit/domain"
)

// Repository defines persistence for audit events.
type Repository interface {
	Create(ctx context.Context, e *domain.Event) error
	ListByIdentity(ctx context.Context, identity string, limit, offset int32) ([]*domain.Event, error)
}
