package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"eduplatform/backend/internal/otc/domain"
)

// testClock is a settable clock for driving TTL expiry in tests.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestMemoryStore_IssueThenConsume(t *testing.T) {
	clock := newTestClock()
	s := NewMemoryStoreWithClock(clock.Now)
	ctx := context.Background()

	code, err := s.Issue(ctx, "a@b.com", []byte("payload"), 30*time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if len(code) != domain.CodeDigits {
		t.Fatalf("code %q length = %d, want %d", code, len(code), domain.CodeDigits)
	}

	payload, err := s.Consume(ctx, "a@b.com", code)
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if string(payload) != "payload" {
		t.Errorf("payload = %q, want %q", payload, "payload")
	}
}

func TestMemoryStore_ConsumeIsExactlyOnce(t *testing.T) {
	clock := newTestClock()
	s := NewMemoryStoreWithClock(clock.Now)
	ctx := context.Background()

	code, _ := s.Issue(ctx, "a@b.com", []byte("p"), 30*time.Minute)
	if _, err := s.Consume(ctx, "a@b.com", code); err != nil {
		t.Fatalf("first Consume: %v", err)
	}
	if _, err := s.Consume(ctx, "a@b.com", code); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second Consume err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_ConsumeUnknownIdentity(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.Consume(context.Background(), "nobody@b.com", "1234"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Consume err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_CodeMismatchKeepsEntry(t *testing.T) {
	clock := newTestClock()
	s := NewMemoryStoreWithClock(clock.Now)
	ctx := context.Background()

	code, _ := s.Issue(ctx, "a@b.com", []byte("p"), 30*time.Minute)
	wrong := "0000"
	if wrong == code {
		wrong = "0001"
	}
	if _, err := s.Consume(ctx, "a@b.com", wrong); !errors.Is(err, domain.ErrCodeMismatch) {
		t.Fatalf("Consume wrong code err = %v, want ErrCodeMismatch", err)
	}
	// The entry survives a mismatch; the right code still works.
	if _, err := s.Consume(ctx, "a@b.com", code); err != nil {
		t.Fatalf("Consume after mismatch: %v", err)
	}
}

func TestMemoryStore_ExpiryIsLazyAndReissueWorks(t *testing.T) {
	clock := newTestClock()
	s := NewMemoryStoreWithClock(clock.Now)
	ctx := context.Background()

	code, _ := s.Issue(ctx, "a@b.com", []byte("p"), 30*time.Minute)
	clock.Advance(30*time.Minute + time.Second)

	if _, err := s.Consume(ctx, "a@b.com", code); !errors.Is(err, domain.ErrExpired) {
		t.Fatalf("Consume after TTL err = %v, want ErrExpired", err)
	}
	// Expiry deleted the entry: the same code now reads as NotFound.
	if _, err := s.Consume(ctx, "a@b.com", code); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Consume after expiry-delete err = %v, want ErrNotFound", err)
	}

	// Reissue succeeds and produces a live code.
	code2, err := s.Issue(ctx, "a@b.com", []byte("p2"), 30*time.Minute)
	if err != nil {
		t.Fatalf("reissue: %v", err)
	}
	payload, err := s.Consume(ctx, "a@b.com", code2)
	if err != nil {
		t.Fatalf("Consume reissued: %v", err)
	}
	if string(payload) != "p2" {
		t.Errorf("payload = %q, want %q", payload, "p2")
	}
}

func TestMemoryStore_ReissueOverwritesPending(t *testing.T) {
	// single-pending-challenge-per-identity: the newest code invalidates the old one.
	clock := newTestClock()
	s := NewMemoryStoreWithClock(clock.Now)
	ctx := context.Background()

	old, _ := s.Issue(ctx, "a@b.com", []byte("first"), 30*time.Minute)
	fresh, _ := s.Issue(ctx, "a@b.com", []byte("second"), 30*time.Minute)

	if old != fresh {
		if _, err := s.Consume(ctx, "a@b.com", old); !errors.Is(err, domain.ErrCodeMismatch) {
			t.Fatalf("Consume old code err = %v, want ErrCodeMismatch", err)
		}
	}
	payload, err := s.Consume(ctx, "a@b.com", fresh)
	if err != nil {
		t.Fatalf("Consume fresh code: %v", err)
	}
	if string(payload) != "second" {
		t.Errorf("payload = %q, want %q (overwrite must replace payload)", payload, "second")
	}
}

func TestMemoryStore_IdentitiesAreIndependent(t *testing.T) {
	clock := newTestClock()
	s := NewMemoryStoreWithClock(clock.Now)
	ctx := context.Background()

	codeA, _ := s.Issue(ctx, "a@b.com", []byte("a"), 30*time.Minute)
	codeB, _ := s.Issue(ctx, "b@b.com", []byte("b"), 30*time.Minute)

	if _, err := s.Consume(ctx, "a@b.com", codeA); err != nil {
		t.Fatalf("Consume a: %v", err)
	}
	payload, err := s.Consume(ctx, "b@b.com", codeB)
	if err != nil {
		t.Fatalf("Consume b: %v", err)
	}
	if string(payload) != "b" {
		t.Errorf("payload = %q, want %q", payload, "b")
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	clock := newTestClock()
	s := NewMemoryStoreWithClock(clock.Now)
	ctx := context.Background()

	code, _ := s.Issue(ctx, "a@b.com", []byte("p"), 30*time.Minute)
	if err := s.Delete(ctx, "a@b.com"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Consume(ctx, "a@b.com", code); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Consume after Delete err = %v, want ErrNotFound", err)
	}
	// Deleting a missing entry is not an error.
	if err := s.Delete(ctx, "a@b.com"); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}
}

func TestMemoryStore_ConcurrentConsumeSingleWinner(t *testing.T) {
	clock := newTestClock()
	s := NewMemoryStoreWithClock(clock.Now)
	ctx := context.Background()

	code, _ := s.Issue(ctx, "a@b.com", []byte("p"), 30*time.Minute)

	const n = 16
	var wg sync.WaitGroup
	wins := make(chan struct{}, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Consume(ctx, "a@b.com", code); err == nil {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	count := 0
	for range wins {
		count++
	}
	if count != 1 {
		t.Fatalf("%d concurrent consumes succeeded, want exactly 1", count)
	}
}
