// Package dashboard assembles the data behind the dashboard view: a
// staleness sweep, a fresh read of the owner's applications, the priority
// ordering and the stats snapshot.
package dashboard

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/ahmethakanbesel/jobtracker-api/internal/application"
	"github.com/ahmethakanbesel/jobtracker-api/internal/apperror"
	"github.com/ahmethakanbesel/jobtracker-api/internal/metrics"
	"github.com/ahmethakanbesel/jobtracker-api/internal/user"
)

// Applications is the subset of the application service the loader needs.
type Applications interface {
	RejectStale(ctx context.Context, req application.OwnerRequest) (application.SweepResult, error)
	Snapshot(ctx context.Context, ownerID int64) ([]application.Application, error)
}

type Profiles interface {
	Get(ctx context.Context, req user.GetUserRequest) (*user.User, error)
}

type Dashboard struct {
	Profile      *user.User                 `json:"profile,omitempty"`
	Applications []application.Application  `json:"applications"`
	Stats        application.Stats          `json:"stats"`
	Percentages  map[application.Status]int `json:"percentages"`
	Interview    application.Rollup         `json:"interview"`
	Sweep        *application.SweepResult   `json:"sweep,omitempty"`
}

type Loader struct {
	apps     Applications
	profiles Profiles
}

// NewLoader creates a loader. profiles may be nil, in which case the
// dashboard carries no profile. An owner without a stored profile is not an
// error either.
func NewLoader(apps Applications, profiles Profiles) *Loader {
	return &Loader{apps: apps, profiles: profiles}
}

// Load runs the staleness sweep and the profile read concurrently, then reads
// the application set only after the sweep has finished. A failed sweep is
// logged and otherwise ignored; a failed read is returned.
func (l *Loader) Load(ctx context.Context, ownerID int64) (*Dashboard, error) {
	d, err := l.load(ctx, ownerID)
	if err != nil {
		metrics.DashboardLoadsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.DashboardLoadsTotal.WithLabelValues("ok").Inc()
	return d, nil
}

func (l *Loader) load(ctx context.Context, ownerID int64) (*Dashboard, error) {
	d := &Dashboard{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := l.apps.RejectStale(gctx, application.OwnerRequest{OwnerID: ownerID})
		if err != nil {
			slog.WarnContext(ctx, "auto-reject failed, continuing with current data", "user", ownerID, "error", err)
			return nil
		}
		d.Sweep = &res
		return nil
	})
	if l.profiles != nil {
		g.Go(func() error {
			p, err := l.profiles.Get(gctx, user.GetUserRequest{ID: ownerID})
			if apperror.IsNotFound(err) {
				return nil
			}
			if err != nil {
				return err
			}
			d.Profile = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	apps, err := l.apps.Snapshot(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	st := application.Aggregate(apps)
	application.SortByPriority(apps)

	d.Applications = apps
	d.Stats = st
	d.Percentages = st.Percentages()
	d.Interview = st.Interview()
	return d, nil
}
