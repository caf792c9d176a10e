// Package supabase stores job applications in a Supabase (PostgREST) table.
package supabase

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
	supabase "github.com/nedpals/supabase-go"

	domain "github.com/ahmethakanbesel/jobtracker-api/internal/application"
	"github.com/ahmethakanbesel/jobtracker-api/internal/apperror"
)

const (
	table      = "job_applications"
	dateFormat = "2006-01-02"
)

// row mirrors the job_applications table as PostgREST serializes it.
type row struct {
	ID                  int64    `json:"id,omitempty"`
	UserID              int64    `json:"user_id"`
	CompanyName         string   `json:"company_name"`
	Position            string   `json:"position"`
	Status              string   `json:"status"`
	ApplicationDate     string   `json:"application_date"`
	ApplicationPlatform *string  `json:"application_platform"`
	JobType             *string  `json:"job_type"`
	Location            *string  `json:"location"`
	Salary              *float64 `json:"salary"`
	ContactPerson       *string  `json:"contact_person"`
	ContactEmail        *string  `json:"contact_email"`
	Notes               *string  `json:"notes"`
	CreatedAt           string   `json:"created_at,omitempty"`
	UpdatedAt           string   `json:"updated_at,omitempty"`
}

// Repository uses the nedpals/supabase-go SDK. PostgREST has no transactions
// across calls, so every method is a single request.
type Repository struct {
	client *supabase.Client
	clock  clockwork.Clock
}

func NewRepository(url, key string, clock clockwork.Clock) (*Repository, error) {
	if url == "" || key == "" {
		return nil, fmt.Errorf("supabase URL and key are required")
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Repository{client: supabase.CreateClient(url, key), clock: clock}, nil
}

func (r *Repository) Create(_ context.Context, a *domain.Application) error {
	now := r.now()
	in := toRow(a)
	in.CreatedAt = now
	in.UpdatedAt = now

	var out []row
	if err := r.client.DB.From(table).Insert(in).Execute(&out); err != nil {
		return fmt.Errorf("create job application: %w", err)
	}
	if len(out) == 0 {
		return fmt.Errorf("create job application: empty response")
	}
	*a = fromRow(out[0])
	return nil
}

func (r *Repository) Update(ctx context.Context, a *domain.Application) error {
	in := toRow(a)
	in.ID = 0
	in.CreatedAt = ""
	in.UpdatedAt = r.now()

	var out []row
	if err := r.client.DB.From(table).Update(in).Eq("id", idString(a.ID)).Execute(&out); err != nil {
		return fmt.Errorf("update job application: %w", err)
	}
	if len(out) == 0 {
		got, err := r.Get(ctx, a.ID)
		if err != nil {
			return err
		}
		*a = *got
		return nil
	}
	*a = fromRow(out[0])
	return nil
}

func (r *Repository) UpdateApplicationStatus(ctx context.Context, id int64, status domain.Status) (*domain.Application, error) {
	patch := map[string]any{
		"status":     string(status),
		"updated_at": r.now(),
	}

	var out []row
	if err := r.client.DB.From(table).Update(patch).Eq("id", idString(id)).Execute(&out); err != nil {
		return nil, fmt.Errorf("update job application status: %w", err)
	}
	// Without a returned representation, read the row back.
	if len(out) == 0 {
		return r.Get(ctx, id)
	}
	a := fromRow(out[0])
	return &a, nil
}

// TransitionStatus adds a status filter to the PATCH, so PostgREST only
// touches the row while it is still in from.
func (r *Repository) TransitionStatus(ctx context.Context, id int64, from, to domain.Status) (bool, error) {
	patch := map[string]any{
		"status":     string(to),
		"updated_at": r.now(),
	}

	var out []row
	err := r.client.DB.From(table).Update(patch).
		Eq("id", idString(id)).
		Eq("status", string(from)).
		Execute(&out)
	if err != nil {
		return false, fmt.Errorf("transition job application status: %w", err)
	}
	if len(out) > 0 {
		return true, nil
	}

	// No representation: either nothing matched or the server omitted it.
	got, err := r.Get(ctx, id)
	if apperror.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return got.Status == to, nil
}

func (r *Repository) Get(_ context.Context, id int64) (*domain.Application, error) {
	var out []row
	if err := r.client.DB.From(table).Select("*").Eq("id", idString(id)).Execute(&out); err != nil {
		return nil, fmt.Errorf("get job application: %w", err)
	}
	if len(out) == 0 {
		return nil, apperror.New(apperror.NotFound, "job application not found")
	}
	a := fromRow(out[0])
	return &a, nil
}

// Delete checks existence first since PostgREST may answer a delete with an
// empty body either way.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}
	var out []row
	if err := r.client.DB.From(table).Delete().Eq("id", idString(id)).Execute(&out); err != nil {
		return fmt.Errorf("delete job application: %w", err)
	}
	return nil
}

func (r *Repository) ListApplications(_ context.Context, ownerID int64) ([]domain.Application, error) {
	var out []row
	if err := r.client.DB.From(table).Select("*").Eq("user_id", idString(ownerID)).Execute(&out); err != nil {
		return nil, fmt.Errorf("list job applications: %w", err)
	}

	apps := make([]domain.Application, 0, len(out))
	for _, o := range out {
		apps = append(apps, fromRow(o))
	}
	// Match the SQLite store: newest record first.
	slices.SortFunc(apps, func(a, b domain.Application) int { return cmp.Compare(b.ID, a.ID) })
	return apps, nil
}

// Search filters in process; the owner's set is small enough that pushing
// the substring matches down to PostgREST is not worth the extra query shapes.
func (r *Repository) Search(ctx context.Context, ownerID int64, f domain.Filter) ([]domain.Application, error) {
	apps, err := r.ListApplications(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(apps, func(a domain.Application) bool { return !f.Match(a) }), nil
}

func (r *Repository) ListOwnerIDs(_ context.Context) ([]int64, error) {
	var out []struct {
		UserID int64 `json:"user_id"`
	}
	if err := r.client.DB.From(table).Select("user_id").Execute(&out); err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}

	ids := make([]int64, 0, len(out))
	for _, o := range out {
		ids = append(ids, o.UserID)
	}
	slices.Sort(ids)
	return slices.Compact(ids), nil
}

func (r *Repository) now() string {
	return r.clock.Now().UTC().Format(time.RFC3339Nano)
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}

func toRow(a *domain.Application) row {
	return row{
		ID:                  a.ID,
		UserID:              a.UserID,
		CompanyName:         a.CompanyName,
		Position:            a.Position,
		Status:              string(a.Status),
		ApplicationDate:     a.ApplicationDate.Format(dateFormat),
		ApplicationPlatform: optional(a.ApplicationPlatform),
		JobType:             optional(string(a.JobType)),
		Location:            optional(a.Location),
		Salary:              a.Salary,
		ContactPerson:       optional(a.ContactPerson),
		ContactEmail:        optional(a.ContactEmail),
		Notes:               optional(a.Notes),
	}
}

func fromRow(o row) domain.Application {
	a := domain.Application{
		ID:                  o.ID,
		UserID:              o.UserID,
		CompanyName:         o.CompanyName,
		Position:            o.Position,
		Status:              domain.NormalizeLegacy(domain.Status(o.Status)),
		ApplicationPlatform: deref(o.ApplicationPlatform),
		JobType:             domain.JobType(deref(o.JobType)),
		Location:            deref(o.Location),
		Salary:              o.Salary,
		ContactPerson:       deref(o.ContactPerson),
		ContactEmail:        deref(o.ContactEmail),
		Notes:               deref(o.Notes),
	}
	a.ApplicationDate = parseDate(o.ApplicationDate)
	a.CreatedAt, _ = time.Parse(time.RFC3339, o.CreatedAt)
	a.UpdatedAt, _ = time.Parse(time.RFC3339, o.UpdatedAt)
	return a
}

// parseDate accepts both a bare date column and a timestamp column.
func parseDate(s string) time.Time {
	if d, err := time.Parse(dateFormat, s); err == nil {
		return d
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		y, m, d := t.UTC().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	return time.Time{}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
