// Package devotc provides an in-memory sink for verification codes by identity,
// used only when dev OTC mode is enabled (GET /dev/otc). It lets a local frontend
// fetch the code without a mail gateway. Not used in production; config refuses to
// enable it there.
package devotc

import (
	"context"
	"sync"
	"time"
)

// Sink holds plain codes by identity for dev-only retrieval.
type Sink interface {
	// Put stores code for identity until expiresAt. Called alongside code issuance
	// in dev mode.
	Put(ctx context.Context, identity, code string, expiresAt time.Time)
	// Get returns the code for identity if present and not expired. Returns ok
	// false if missing or expired.
	Get(ctx context.Context, identity string) (code string, ok bool)
}

type entry struct {
	code      string
	expiresAt time.Time
}

// MemorySink is an in-memory Sink implementation.
type MemorySink struct {
	mu   sync.RWMutex
	m    map[string]entry
	nowF func() time.Time
}

// NewMemorySink returns a new in-memory dev code sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{
		m:    make(map[string]entry),
		nowF: func() time.Time { return time.Now().UTC() },
	}
}

// Put stores code for identity until expiresAt.
func (s *MemorySink) Put(ctx context.Context, identity, code string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[identity] = entry{code: code, expiresAt: expiresAt}
}

// Get returns the code for identity if present and not expired. Expired entries are
// dropped on observation.
func (s *MemorySink) Get(ctx context.Context, identity string) (string, bool) {
	s.mu.RLock()
	e, ok := s.m[identity]
	s.mu.RUnlock()
	if !ok {
		return "", false
	}
	if !e.expiresAt.After(s.nowF()) {
		s.mu.Lock()
		delete(s.m, identity)
		s.mu.Unlock()
		return "", false
	}
	return e.code, true
}
