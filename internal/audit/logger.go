// Package audit records credential-flow events (who attempted what, with which
// outcome) to Postgres and, when configured, to a Kafka topic consumed by the
// audit worker. Recording is best-effort and never carries codes or passwords.
package audit

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"eduplatform/backend/internal/audit/domain"
	auditrepo "eduplatform/backend/internal/audit/repository"
	"eduplatform/backend/internal/audit/producer"
)

// Recorder writes a single audit event with explicit action/outcome. Used by the
// credential service. Record is best-effort: failures are logged and do not affect
// the caller.
type Recorder interface {
	Record(ctx context.Context, identity, action, outcome, metadata string)
}

// Emitter emits audit events to a secondary sink, e.g. OTel logs. Best-effort;
// callers log and ignore errors.
type Emitter interface {
	Emit(ctx context.Context, event *domain.Event) error
}

// Logger implements Recorder using the audit repository, an optional Kafka
// producer for the event pipeline, and an optional secondary emitter.
type Logger struct {
	repo     auditrepo.Repository
	producer producer.Producer
	emitter  Emitter
}

// NewLogger returns a Recorder that persists to repo, emits to prod, and mirrors
// to emitter. Any of the three may be nil; a nil sink is skipped.
func NewLogger(repo auditrepo.Repository, prod producer.Producer, emitter Emitter) *Logger {
	return &Logger{repo: repo, producer: prod, emitter: emitter}
}

// Record writes one audit event. Best-effort: errors are logged and not returned.
// The Kafka emit is asynchronous so request latency does not depend on the broker.
func (l *Logger) Record(ctx context.Context, identity, action, outcome, metadata string) {
	e := &domain.Event{
		ID:        uuid.New().String(),
		Identity:  identity,
		Action:    action,
		Outcome:   outcome,
		IP:        "unknown",
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	if l.repo != nil {
		if err := l.repo.Create(ctx, e); err != nil {
			log.Printf("audit: failed to record %s/%s: %v", action, outcome, err)
		}
	}
	producer.EmitAsync(l.producer, ctx, e)
	if l.emitter != nil {
		if err := l.emitter.Emit(ctx, e); err != nil {
			log.Printf("audit: otel emit failed: %v", err)
		}
	}
}
