package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
)

// Sweeper rejects stale applications across all owners.
type Sweeper interface {
	RejectStaleAll(ctx context.Context) (SweepResult, error)
}

// SweepScheduler runs a background staleness sweep on a fixed interval, in
// addition to the per-owner sweep done on every dashboard load.
type SweepScheduler struct {
	sweeper  Sweeper
	clock    clockwork.Clock
	interval time.Duration
	notify   chan struct{}
}

func NewSweepScheduler(sweeper Sweeper, clock clockwork.Clock, interval time.Duration) *SweepScheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if interval <= 0 {
		interval = time.Hour
	}
	return &SweepScheduler{
		sweeper:  sweeper,
		clock:    clock,
		interval: interval,
		notify:   make(chan struct{}, 1),
	}
}

// Notify requests an immediate sweep. Non-blocking.
func (s *SweepScheduler) Notify() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// Run sweeps once at start and then on every tick or Notify, until ctx is
// cancelled.
func (s *SweepScheduler) Run(ctx context.Context) {
	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.sweep(ctx)

		select {
		case <-ctx.Done():
			return
		case <-s.notify:
		case <-ticker.Chan():
		}
	}
}

func (s *SweepScheduler) sweep(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	res, err := s.sweeper.RejectStaleAll(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return // shutting down
		}
		slog.Error("sweeper: reject stale", "error", err)
		return
	}
	slog.Debug("sweeper: done", "checked", res.Checked, "rejected", res.Rejected, "failed", res.Failed)
}
