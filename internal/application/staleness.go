package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultStaleAfterDays is how long an application may sit in "applied"
// without any response before it counts as rejected.
const DefaultStaleAfterDays = 30

// StalenessPolicy decides which applications have gone unanswered for too
// long and moves them to rejected. Only "applied" records are ever touched.
type StalenessPolicy struct {
	clock     clockwork.Clock
	staleDays int
	// A calendar month is accepted as well as the day threshold, so an
	// application dated Feb 1 goes stale on Mar 1 after only 28 or 29 days.
	calendarMonth bool
}

type PolicyOption func(*StalenessPolicy)

// WithStaleAfterDays overrides the day threshold. The calendar-month rule only
// applies to the default threshold.
func WithStaleAfterDays(days int) PolicyOption {
	return func(p *StalenessPolicy) {
		if days <= 0 {
			return
		}
		p.staleDays = days
		p.calendarMonth = days == DefaultStaleAfterDays
	}
}

func NewStalenessPolicy(clock clockwork.Clock, opts ...PolicyOption) *StalenessPolicy {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	p := &StalenessPolicy{
		clock:         clock,
		staleDays:     DefaultStaleAfterDays,
		calendarMonth: true,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// IsStale reports whether a must be auto-rejected at the policy's current time.
func (p *StalenessPolicy) IsStale(a Application) bool {
	if a.Status != StatusApplied || a.ApplicationDate.IsZero() {
		return false
	}
	now := p.clock.Now()
	if now.Sub(a.ApplicationDate) >= time.Duration(p.staleDays)*24*time.Hour {
		return true
	}
	return p.calendarMonth && !now.Before(a.ApplicationDate.AddDate(0, 1, 0))
}

// SweepResult summarises one staleness sweep.
type SweepResult struct {
	Checked  int `json:"checked"`
	Rejected int `json:"rejected"`
	// Skipped counts records that left applied between the listing and the
	// write, usually through a concurrent user edit.
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Sweep rejects every stale application of ownerID through the store. It keeps
// going after individual update failures; those are joined into the returned
// error alongside whatever was already rejected. Each write is conditional on
// the record still being applied, so edits made after the listing win.
func (p *StalenessPolicy) Sweep(ctx context.Context, store Store, ownerID int64) (SweepResult, error) {
	apps, err := store.ListApplications(ctx, ownerID)
	if err != nil {
		return SweepResult{}, fmt.Errorf("list applications: %w", err)
	}

	res := SweepResult{Checked: len(apps)}
	var errs []error
	for _, a := range apps {
		if !p.IsStale(a) {
			continue
		}
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		ok, err := store.TransitionStatus(ctx, a.ID, StatusApplied, StatusRejected)
		if err != nil {
			res.Failed++
			errs = append(errs, fmt.Errorf("reject application %d: %w", a.ID, err))
			continue
		}
		if !ok {
			res.Skipped++
			continue
		}
		res.Rejected++
	}
	return res, errors.Join(errs...)
}
