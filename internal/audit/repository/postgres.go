package repository

import (
	"context"
	"database/sql"
	"fmt"

	"eduplatform/backend/internal/audit/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an audit event repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the audit event. The event must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, e *domain.Event) error {
	const q = `
		INSERT INTO audit_logs (id, identity, action, outcome, ip, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.db.ExecContext(ctx, q, e.ID, e.Identity, e.Action, e.Outcome, e.IP, e.Metadata, e.CreatedAt); err != nil {
		return fmt.Errorf("audit: create: %w", err)
	}
	return nil
}

// ListByIdentity returns audit events for the given identity, newest first,
// paginated by limit and offset.
func (r *PostgresRepository) ListByIdentity(ctx context.Context, identity string, limit, offset int32) ([]*domain.Event, error) {
	const q = `
		SELECT id, identity, action, outcome, ip, metadata, created_at
		FROM audit_logs WHERE identity = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, q, identity, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("audit: list: %w", err)
	}
	defer rows.Close()

	var out []*domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.Identity, &e.Action, &e.Outcome, &e.IP, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("audit: scan: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
