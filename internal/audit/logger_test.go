package audit

import (
	"context"
	"errors"
	"sync"
	"testing"

	"eduplatform/backend/internal/audit/domain"
)

type memEventRepo struct {
	mu     sync.Mutex
	events []*domain.Event
	fail   error
}

func (r *memEventRepo) Create(ctx context.Context, e *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.events = append(r.events, e)
	return nil
}

func (r *memEventRepo) ListByIdentity(ctx context.Context, identity string, limit, offset int32) ([]*domain.Event, error) {
	return nil, nil
}

type captureEmitter struct {
	mu     sync.Mutex
	events []*domain.Event
}

func (c *captureEmitter) Emit(ctx context.Context, e *domain.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
	return nil
}

func TestRecordPersistsAndEmits(t *testing.T) {
	repo := &memEventRepo{}
	emitter := &captureEmitter{}
	l := NewLogger(repo, nil, emitter)

	l.Record(context.Background(), "ada@example.com", domain.ActionLogin, domain.OutcomeRejected, "password mismatch")

	repo.mu.Lock()
	defer repo.mu.Unlock()
	if len(repo.events) != 1 {
		t.Fatalf("persisted %d events, want 1", len(repo.events))
	}
	e := repo.events[0]
	if e.ID == "" || e.CreatedAt.IsZero() {
		t.Fatalf("event missing ID or timestamp: %+v", e)
	}
	if e.Identity != "ada@example.com" || e.Action != domain.ActionLogin || e.Outcome != domain.OutcomeRejected {
		t.Fatalf("event = %+v", e)
	}

	emitter.mu.Lock()
	defer emitter.mu.Unlock()
	if len(emitter.events) != 1 {
		t.Fatalf("emitted %d events, want 1", len(emitter.events))
	}
}

func TestRecordIsBestEffort(t *testing.T) {
	repo := &memEventRepo{fail: errors.New("db down")}
	l := NewLogger(repo, nil, nil)

	// Must not panic or surface the repository error.
	l.Record(context.Background(), "ada@example.com", domain.ActionRegister, domain.OutcomeCodeIssued, "")
}

func TestRecordWithNilSinks(t *testing.T) {
	l := NewLogger(nil, nil, nil)
	l.Record(context.Background(), "ada@example.com", domain.ActionRegister, domain.OutcomeCodeIssued, "")
}
