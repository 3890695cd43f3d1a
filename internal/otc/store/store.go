// Package store provides the verification-code store: a keyed map from identity to
// a single pending one-time code with TTL and payload. Implementations back it with
// process memory, Redis, or Postgres.
package store

import (
	"context"
	"time"
)

// Store is the pending-code store. Per identity the lifecycle is
// NONE → PENDING → {CONSUMED | EXPIRED}, where both terminal states delete the
// entry and allow immediate reissue.
//
// Issue overwrites any pending entry for the identity: the
// single-pending-challenge-per-identity policy. A previously issued, unconsumed
// code is silently invalidated; latest code wins.
//
// Consume is exactly-once: the existence check, code comparison, and delete are
// atomic per identity, so two concurrent consumes cannot both succeed and a stale
// code cannot win after an overwrite. Expiry is observed lazily at access time;
// there is no background sweep, so an entry nobody touches again persists until the
// identity reissues (unbounded abandoned identities are a known resource caveat).
type Store interface {
	// Issue stores a fresh code for identity with the given payload and TTL,
	// replacing any pending entry, and returns the code for delivery.
	Issue(ctx context.Context, identity string, payload []byte, ttl time.Duration) (string, error)
	// Consume resolves a supplied code. Absent entry: domain.ErrNotFound. Elapsed
	// TTL: the entry is deleted and domain.ErrExpired returned. Wrong code:
	// domain.ErrCodeMismatch, entry intact. Match: the entry is deleted and the
	// payload returned.
	Consume(ctx context.Context, identity, code string) ([]byte, error)
	// Delete removes any pending entry for identity. Used to clean up a
	// half-issued challenge when delivery fails; deleting a missing entry is not
	// an error.
	Delete(ctx context.Context, identity string) error
}
