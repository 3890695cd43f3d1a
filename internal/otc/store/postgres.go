package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"eduplatform/backend/internal/otc/domain"
)

// PostgresStore is the Postgres-backed Store implementation (verification_codes
// table, one row per identity). Suited to single-backing-store deployments that
// already run Postgres for accounts.
type PostgresStore struct {
	db   *sql.DB
	nowF func() time.Time
}

// NewPostgresStore returns a Store that uses the given db.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db:   db,
		nowF: func() time.Time { return time.Now().UTC() },
	}
}

// NewPostgresStoreWithClock returns a PostgresStore that reads time from nowF. For tests.
func NewPostgresStoreWithClock(db *sql.DB, nowF func() time.Time) *PostgresStore {
	return &PostgresStore{db: db, nowF: nowF}
}

// Issue upserts the row for identity, replacing any pending entry.
func (s *PostgresStore) Issue(ctx context.Context, identity string, payload []byte, ttl time.Duration) (string, error) {
	code, err := domain.GenerateCode()
	if err != nil {
		return "", err
	}
	now := s.nowF()
	const q = `
		INSERT INTO verification_codes (identity, code, payload, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (identity) DO UPDATE
		SET code = EXCLUDED.code, payload = EXCLUDED.payload,
		    expires_at = EXCLUDED.expires_at, created_at = EXCLUDED.created_at`
	if _, err := s.db.ExecContext(ctx, q, identity, code, payload, now.Add(ttl), now); err != nil {
		return "", fmt.Errorf("otc: insert code: %w", err)
	}
	return code, nil
}

// Consume locks the row for identity, evaluates it, and deletes it when consumed or
// expired, all inside one transaction so consumption stays exactly-once.
func (s *PostgresStore) Consume(ctx context.Context, identity, code string) ([]byte, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("otc: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var (
		stored    string
		payload   []byte
		expiresAt time.Time
	)
	const sel = `SELECT code, payload, expires_at FROM verification_codes WHERE identity = $1 FOR UPDATE`
	err = tx.QueryRowContext(ctx, sel, identity).Scan(&stored, &payload, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("otc: select code: %w", err)
	}

	const del = `DELETE FROM verification_codes WHERE identity = $1`
	if s.nowF().After(expiresAt) {
		if _, err := tx.ExecContext(ctx, del, identity); err != nil {
			return nil, fmt.Errorf("otc: delete expired: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("otc: commit: %w", err)
		}
		return nil, domain.ErrExpired
	}
	if stored != code {
		return nil, domain.ErrCodeMismatch
	}
	if _, err := tx.ExecContext(ctx, del, identity); err != nil {
		return nil, fmt.Errorf("otc: delete consumed: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("otc: commit: %w", err)
	}
	return payload, nil
}

// Delete removes any pending entry for identity.
func (s *PostgresStore) Delete(ctx context.Context, identity string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM verification_codes WHERE identity = $1`, identity); err != nil {
		return fmt.Errorf("otc: delete: %w", err)
	}
	return nil
}
