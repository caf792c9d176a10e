package application

import "context"

// Store is the narrow persistence contract the staleness policy and the
// dashboard depend on.
type Store interface {
	ListApplications(ctx context.Context, ownerID int64) ([]Application, error)
	// UpdateApplicationStatus sets the status and bumps updated_at. Calling it
	// again with the same status is harmless.
	UpdateApplicationStatus(ctx context.Context, id int64, status Status) (*Application, error)
	// TransitionStatus moves the record to status to only while it is still in
	// status from. It reports false, with no error, when the record has left
	// from or no longer exists.
	TransitionStatus(ctx context.Context, id int64, from, to Status) (bool, error)
}

type Repository interface {
	Store
	Create(ctx context.Context, a *Application) error
	Update(ctx context.Context, a *Application) error
	Get(ctx context.Context, id int64) (*Application, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, ownerID int64, f Filter) ([]Application, error)
	ListOwnerIDs(ctx context.Context) ([]int64, error)
}
