package sweep

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkpress/blog-platform/internal/api/metrics"
)

const (
	defaultRetention     = 72 * time.Hour
	defaultSweepInterval = time.Hour
)

// UserPurger is the slice of the user repository the sweep needs.
type UserPurger interface {
	DeleteUnverifiedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Sweeper deletes unverified accounts older than the retention window.
// It runs on a ticker until its context is cancelled.
type Sweeper struct {
	users     UserPurger
	retention time.Duration
	interval  time.Duration
	log       zerolog.Logger
}

func NewSweeper(users UserPurger, retention, interval time.Duration, log zerolog.Logger) *Sweeper {
	if retention <= 0 {
		retention = defaultRetention
	}
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &Sweeper{users: users, retention: retention, interval: interval, log: log}
}

// Start launches the sweep loop. It returns immediately; the loop stops when
// ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.SweepOnce(ctx)
			}
		}
	}()
}

// SweepOnce runs a single deletion pass and returns the number of accounts
// removed.
func (s *Sweeper) SweepOnce(ctx context.Context) int64 {
	cutoff := time.Now().UTC().Add(-s.retention)
	n, err := s.users.DeleteUnverifiedBefore(ctx, cutoff)
	if err != nil {
		s.log.Error().Err(err).Msg("unverified account sweep failed")
		return 0
	}
	if n > 0 {
		metrics.UnverifiedSweptTotal.Add(float64(n))
		s.log.Info().Int64("deleted", n).Time("cutoff", cutoff).Msg("unverified accounts swept")
	}
	return n
}
