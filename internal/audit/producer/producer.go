// Package producer defines the interface for emitting audit events (e.g. to Kafka).
package producer

import (
	"context"
	"log"
	"time"

	"eduplatform/backend/internal/audit/domain"
)

// Producer emits audit events. Callers use it best-effort: log and ignore errors.
type Producer interface {
	// Emit sends a single audit event. Implementations may block briefly; call
	// from a goroutine if needed. Returns an error only on write failure.
	Emit(ctx context.Context, event *domain.Event) error
	// Close releases resources (e.g. Kafka writer). Safe to call if already closed.
	Close() error
}

// emitTimeout is the max time allowed for a single async emit.
const emitTimeout = 5 * time.Second

// ShutdownDrainDuration is how long to wait after the HTTP server drains before
// closing the producer, so in-flight async emits have time to complete. Must be
// >= emitTimeout.
const ShutdownDrainDuration = emitTimeout

// EmitAsync runs Emit in a goroutine with a short timeout so the caller is not
// blocked. Errors are logged. prod and event may be nil; EmitAsync then returns
// immediately without starting a goroutine. The goroutine uses
// context.Background() so request cancellation does not abort an in-flight emit.
func EmitAsync(prod Producer, ctx context.Context, event *domain.Event) {
	if prod == nil || event == nil {
		return
	}
	go func() {
		emitCtx, cancel := context.WithTimeout(context.Background(), emitTimeout)
		defer cancel()
		if err := prod.Emit(emitCtx, event); err != nil {
			log.Printf("audit: async emit failed: %v", err)
		}
	}()
}
