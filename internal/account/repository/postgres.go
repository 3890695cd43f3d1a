package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"eduplatform/backend/internal/account/domain"
)

// uniqueViolation is the Postgres error code for unique constraint violations.
const uniqueViolation = "23505"

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an account repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByEmail returns the account with the given email, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	const q = `SELECT id, email, name, password_hash, profile, created_at FROM accounts WHERE email = $1`
	var (
		a       domain.Account
		profile []byte
	)
	err := r.db.QueryRowContext(ctx, q, email).Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &profile, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("account: get by email: %w", err)
	}
	if len(profile) > 0 {
		if err := json.Unmarshal(profile, &a.Profile); err != nil {
			return nil, fmt.Errorf("account: decode profile: %w", err)
		}
	}
	return &a, nil
}

// Create persists the account. The account must have ID set; it is not assigned by
// this method. A unique violation on email maps to domain.ErrDuplicateEmail.
func (r *PostgresRepository) Create(ctx context.Context, a *domain.Account) error {
	if err := a.Validate(); err != nil {
		return err
	}
	profile := a.Profile
	if profile == nil {
		profile = map[string]string{}
	}
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("account: encode profile: %w", err)
	}
	const q = `
		INSERT INTO accounts (id, email, name, password_hash, profile, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.db.ExecContext(ctx, q, a.ID, a.Email, a.Name, a.PasswordHash, raw, a.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("account: create: %w", err)
	}
	return nil
}
