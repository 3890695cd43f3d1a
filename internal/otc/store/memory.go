package store

import (
	"context"
	"sync"
	"time"

	"eduplatform/backend/internal/otc/domain"
)

// MemoryStore is the in-memory Store implementation. The mutex guards only the map
// operations; code generation and clock reads happen outside it, so contention
// between identities is limited to the map access itself.
type MemoryStore struct {
	mu   sync.Mutex
	m    map[string]domain.Entry
	nowF func() time.Time
}

// NewMemoryStore returns an empty in-memory store using the wall clock.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		m:    make(map[string]domain.Entry),
		nowF: func() time.Time { return time.Now().UTC() },
	}
}

// NewMemoryStoreWithClock returns a store that reads time from nowF. For tests.
func NewMemoryStoreWithClock(nowF func() time.Time) *MemoryStore {
	return &MemoryStore{m: make(map[string]domain.Entry), nowF: nowF}
}

// Issue stores a fresh code for identity, overwriting any pending entry.
func (s *MemoryStore) Issue(ctx context.Context, identity string, payload []byte, ttl time.Duration) (string, error) {
	code, err := domain.GenerateCode()
	if err != nil {
		return "", err
	}
	expiresAt := s.nowF().Add(ttl)

	s.mu.Lock()
	s.m[identity] = domain.Entry{
		Identity:  identity,
		Code:      code,
		ExpiresAt: expiresAt,
		Payload:   payload,
	}
	s.mu.Unlock()
	return code, nil
}

// Consume resolves code for identity with check-and-delete under one lock
// acquisition, so a second concurrent consume observes NONE.
func (s *MemoryStore) Consume(ctx context.Context, identity, code string) ([]byte, error) {
	now := s.nowF()

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.m[identity]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if e.Expired(now) {
		delete(s.m, identity)
		return nil, domain.ErrExpired
	}
	if e.Code != code {
		return nil, domain.ErrCodeMismatch
	}
	delete(s.m, identity)
	return e.Payload, nil
}

// Delete removes any pending entry for identity.
func (s *MemoryStore) Delete(ctx context.Context, identity string) error {
	s.mu.Lock()
	delete(s.m, identity)
	s.mu.Unlock()
	return nil
}
