package application

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

type mockSweeper struct {
	runs atomic.Int64
	err  error
}

func (m *mockSweeper) RejectStaleAll(_ context.Context) (SweepResult, error) {
	m.runs.Add(1)
	return SweepResult{}, m.err
}

func waitForRuns(t *testing.T, s *mockSweeper, n int64) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for s.runs.Load() < n {
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for %d sweeps, got %d", n, s.runs.Load())
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
}

func TestSweepScheduler_SweepsOnStart(t *testing.T) {
	sw := &mockSweeper{}
	sched := NewSweepScheduler(sw, clockwork.NewFakeClock(), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sched.Run(ctx)
		close(done)
	}()

	waitForRuns(t, sw, 1)
	cancel()
	<-done
}

func TestSweepScheduler_TickTriggersSweep(t *testing.T) {
	sw := &mockSweeper{}
	clock := clockwork.NewFakeClock()
	sched := NewSweepScheduler(sw, clock, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sched.Run(ctx)
		close(done)
	}()

	waitForRuns(t, sw, 1)
	clock.BlockUntil(1)
	clock.Advance(time.Hour)
	waitForRuns(t, sw, 2)

	cancel()
	<-done
}

func TestSweepScheduler_NotifyWakesSweeper(t *testing.T) {
	sw := &mockSweeper{err: errors.New("store unreachable")}
	sched := NewSweepScheduler(sw, clockwork.NewFakeClock(), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sched.Run(ctx)
		close(done)
	}()

	waitForRuns(t, sw, 1)
	sched.Notify()
	waitForRuns(t, sw, 2)

	cancel()
	<-done
}

func TestSweepScheduler_GracefulShutdown(t *testing.T) {
	sched := NewSweepScheduler(&mockSweeper{}, nil, 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sched.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for graceful shutdown")
	}
}
