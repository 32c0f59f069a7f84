package sweep

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type stubPurger struct {
	mu      sync.Mutex
	deleted int64
	err     error
	cutoffs []time.Time
}

func (p *stubPurger) DeleteUnverifiedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cutoffs = append(p.cutoffs, cutoff)
	return p.deleted, p.err
}

func (p *stubPurger) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.cutoffs)
}

func TestSweeper_SweepOnce(t *testing.T) {
	purger := &stubPurger{deleted: 3}
	s := NewSweeper(purger, 72*time.Hour, time.Hour, zerolog.Nop())

	if n := s.SweepOnce(context.Background()); n != 3 {
		t.Fatalf("expected 3 deleted, got %d", n)
	}
	if len(purger.cutoffs) != 1 {
		t.Fatalf("expected one purge call, got %d", len(purger.cutoffs))
	}

	// The cutoff is now minus the retention window.
	want := time.Now().UTC().Add(-72 * time.Hour)
	got := purger.cutoffs[0]
	if got.Before(want.Add(-time.Minute)) || got.After(want.Add(time.Minute)) {
		t.Fatalf("cutoff %v not within a minute of %v", got, want)
	}
}

func TestSweeper_SweepOnce_ErrorReturnsZero(t *testing.T) {
	purger := &stubPurger{err: errors.New("db down")}
	s := NewSweeper(purger, time.Hour, time.Hour, zerolog.Nop())

	if n := s.SweepOnce(context.Background()); n != 0 {
		t.Fatalf("expected 0 on error, got %d", n)
	}
}

func TestSweeper_Defaults(t *testing.T) {
	s := NewSweeper(&stubPurger{}, 0, 0, zerolog.Nop())
	if s.retention != defaultRetention {
		t.Fatalf("unexpected default retention: %v", s.retention)
	}
	if s.interval != defaultSweepInterval {
		t.Fatalf("unexpected default interval: %v", s.interval)
	}
}

func TestSweeper_StartStopsOnCancel(t *testing.T) {
	purger := &stubPurger{}
	s := NewSweeper(purger, time.Hour, 10*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)

	time.Sleep(50 * time.Millisecond)
	cancel()
	time.Sleep(20 * time.Millisecond)
	calls := purger.calls()
	if calls == 0 {
		t.Fatalf("sweep never ran")
	}

	time.Sleep(50 * time.Millisecond)
	if purger.calls() != calls {
		t.Fatalf("sweep kept running after cancel")
	}
}
