package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmethakanbesel/jobtracker-api/internal/apperror"
	"github.com/ahmethakanbesel/jobtracker-api/internal/metrics"
)

type Service struct {
	repo   Repository
	policy *StalenessPolicy
}

func NewService(repo Repository, policy *StalenessPolicy) *Service {
	if policy == nil {
		policy = NewStalenessPolicy(nil)
	}
	return &Service{repo: repo, policy: policy}
}

func (s *Service) Create(ctx context.Context, req CreateApplicationRequest) (*Application, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	a := req.toApplication()
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, req GetApplicationRequest) (*Application, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.owned(ctx, req.OwnerID, req.ID)
}

// List returns the owner's applications matching the request filters, most
// actionable first.
func (s *Service) List(ctx context.Context, req ListApplicationsRequest) ([]Application, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	apps, err := s.repo.Search(ctx, req.OwnerID, req.filter())
	if err != nil {
		return nil, err
	}
	SortByPriority(apps)
	return apps, nil
}

// Snapshot returns the owner's full, unfiltered application set in store order.
func (s *Service) Snapshot(ctx context.Context, ownerID int64) ([]Application, error) {
	if err := validateOwner(ownerID); err != nil {
		return nil, err
	}
	return s.repo.ListApplications(ctx, ownerID)
}

func (s *Service) Update(ctx context.Context, req UpdateApplicationRequest) (*Application, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	a, err := s.owned(ctx, req.OwnerID, req.ID)
	if err != nil {
		return nil, err
	}
	req.apply(a)
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, req DeleteApplicationRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if _, err := s.owned(ctx, req.OwnerID, req.ID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, req.ID)
}

func (s *Service) Stats(ctx context.Context, req OwnerRequest) (Stats, error) {
	if err := req.Validate(); err != nil {
		return Stats{}, err
	}
	apps, err := s.repo.ListApplications(ctx, req.OwnerID)
	if err != nil {
		return Stats{}, fmt.Errorf("list applications: %w", err)
	}
	return Aggregate(apps), nil
}

// RejectStale runs the staleness sweep for one owner.
func (s *Service) RejectStale(ctx context.Context, req OwnerRequest) (SweepResult, error) {
	if err := req.Validate(); err != nil {
		return SweepResult{}, err
	}

	start := time.Now()
	res, err := s.policy.Sweep(ctx, s.repo, req.OwnerID)
	metrics.StaleSweepDuration.Observe(time.Since(start).Seconds())
	metrics.AutoRejectedTotal.Add(float64(res.Rejected))

	switch {
	case err != nil && res.Rejected > 0:
		metrics.StaleSweepsTotal.WithLabelValues("partial").Inc()
	case err != nil:
		metrics.StaleSweepsTotal.WithLabelValues("error").Inc()
	default:
		metrics.StaleSweepsTotal.WithLabelValues("ok").Inc()
	}

	if res.Rejected > 0 {
		slog.InfoContext(ctx, "auto-rejected stale applications", "user", req.OwnerID, "count", res.Rejected)
	}
	if res.Skipped > 0 {
		slog.DebugContext(ctx, "stale applications changed before rejection", "user", req.OwnerID, "count", res.Skipped)
	}
	return res, err
}

// RejectStaleAll sweeps every owner known to the store. A failing owner does
// not stop the others.
func (s *Service) RejectStaleAll(ctx context.Context) (SweepResult, error) {
	owners, err := s.repo.ListOwnerIDs(ctx)
	if err != nil {
		return SweepResult{}, fmt.Errorf("list owners: %w", err)
	}

	var total SweepResult
	for _, id := range owners {
		if ctx.Err() != nil {
			return total, ctx.Err()
		}
		res, err := s.RejectStale(ctx, OwnerRequest{OwnerID: id})
		total.Checked += res.Checked
		total.Rejected += res.Rejected
		total.Skipped += res.Skipped
		total.Failed += res.Failed
		if err != nil {
			slog.WarnContext(ctx, "staleness sweep failed", "user", id, "error", err)
		}
	}
	return total, nil
}

func (s *Service) owned(ctx context.Context, ownerID, id int64) (*Application, error) {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.UserID != ownerID {
		return nil, apperror.New(apperror.NotFound, "job application not found")
	}
	return a, nil
}
