package marker

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

// fakeClock advances only when told to, so TTL tests do not depend on
// real time.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestStore(ttl time.Duration) (*Store, *fakeClock) {
	s := NewStore(ttl)
	clock := newFakeClock()
	s.now = clock.Now
	return s, clock
}

func TestMarkThenValid(t *testing.T) {
	s, _ := newTestStore(300 * time.Second)
	s.Mark("tg:1::42")
	if !s.IsValid("tg:1::42") {
		t.Fatalf("IsValid() = false immediately after Mark()")
	}
	if s.IsValid("tg:1::43") {
		t.Fatalf("IsValid() = true for a key never marked")
	}
}

func TestValidityExpiresAfterTTL(t *testing.T) {
	s, clock := newTestStore(300 * time.Second)
	s.Mark("k")

	clock.Advance(300 * time.Second)
	if !s.IsValid("k") {
		t.Fatalf("IsValid() = false at exactly TTL, want true")
	}

	clock.Advance(time.Second)
	if s.IsValid("k") {
		t.Fatalf("IsValid() = true past TTL")
	}
	// Lazy removal happened on the failed read.
	if s.Len() != 0 {
		t.Fatalf("Len() = %d after expired read, want 0", s.Len())
	}
}

func TestRemarkResetsTimestamp(t *testing.T) {
	s, clock := newTestStore(10 * time.Second)
	s.Mark("k")
	clock.Advance(8 * time.Second)
	s.Mark("k")
	clock.Advance(8 * time.Second)
	if !s.IsValid("k") {
		t.Fatalf("IsValid() = false, want true after re-mark reset the timestamp")
	}
}

func TestCleanupExpired(t *testing.T) {
	s, clock := newTestStore(60 * time.Second)
	s.Mark("old")
	clock.Advance(61 * time.Second)
	s.Mark("fresh")

	if removed := s.CleanupExpired(); removed != 1 {
		t.Fatalf("CleanupExpired() = %d, want 1", removed)
	}
	if s.IsValid("old") {
		t.Fatalf("expired key survived cleanup")
	}
	if !s.IsValid("fresh") {
		t.Fatalf("fresh key was dropped by cleanup")
	}
}

func TestClear(t *testing.T) {
	s, _ := newTestStore(time.Minute)
	s.Mark("a")
	s.Mark("b")
	s.Clear()
	if s.Len() != 0 {
		t.Fatalf("Len() = %d after Clear(), want 0", s.Len())
	}
}

func TestConcurrentMarkAndRead(t *testing.T) {
	s := NewStore(time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := string(rune('a' + n))
			for j := 0; j < 200; j++ {
				s.Mark(key)
				_ = s.IsValid(key)
				_ = s.CleanupExpired()
			}
		}(i)
	}
	wg.Wait()
	if s.Len() != 8 {
		t.Fatalf("Len() = %d, want 8", s.Len())
	}
}

func TestRunCleanupStopsOnCancel(t *testing.T) {
	s := NewStore(time.Minute)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.RunCleanup(ctx, time.Millisecond, logger)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("RunCleanup did not stop after cancel")
	}
}

func TestRunCleanupSweeps(t *testing.T) {
	s := NewStore(0) // everything written in the past is already expired
	s.now = func() time.Time { return time.Now() }
	s.Mark("k")
	// Backdate the entry so the sweep sees it as expired.
	s.mu.Lock()
	s.entries["k"] = time.Now().Add(-time.Second)
	s.mu.Unlock()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.RunCleanup(ctx, time.Millisecond, logger)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if s.Len() == 0 {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("background cleanup never removed the expired entry")
}
