package application

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "github.com/ahmethakanbesel/jobtracker-api/internal/application"
	"github.com/ahmethakanbesel/jobtracker-api/internal/apperror"
)

const dateFormat = "2006-01-02"

const selectColumns = `SELECT id, user_id, company_name, position, status,
		application_date, application_platform, job_type, location, salary,
		contact_person, contact_email, notes, created_at, updated_at
		FROM job_applications`

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, a *domain.Application) error {
	const query = `INSERT INTO job_applications (user_id, company_name, position, status,
		application_date, application_platform, job_type, location, salary,
		contact_person, contact_email, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id, created_at, updated_at`

	var createdStr, updatedStr string
	err := r.db.QueryRowContext(ctx, query,
		a.UserID, a.CompanyName, a.Position, string(a.Status),
		a.ApplicationDate.Format(dateFormat),
		nullString(a.ApplicationPlatform), nullString(string(a.JobType)),
		nullString(a.Location), nullFloat(a.Salary),
		nullString(a.ContactPerson), nullString(a.ContactEmail), nullString(a.Notes),
	).Scan(&a.ID, &createdStr, &updatedStr)
	if err != nil {
		return fmt.Errorf("create job application: %w", err)
	}

	a.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
	a.UpdatedAt, _ = time.Parse(time.RFC3339, updatedStr)
	return nil
}

func (r *Repository) Update(ctx context.Context, a *domain.Application) error {
	const query = `UPDATE job_applications SET company_name = ?, position = ?, status = ?,
		application_date = ?, application_platform = ?, job_type = ?, location = ?,
		salary = ?, contact_person = ?, contact_email = ?, notes = ?,
		updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
		WHERE id = ?
		RETURNING updated_at`

	var updatedStr string
	err := r.db.QueryRowContext(ctx, query,
		a.CompanyName, a.Position, string(a.Status),
		a.ApplicationDate.Format(dateFormat),
		nullString(a.ApplicationPlatform), nullString(string(a.JobType)),
		nullString(a.Location), nullFloat(a.Salary),
		nullString(a.ContactPerson), nullString(a.ContactEmail), nullString(a.Notes),
		a.ID,
	).Scan(&updatedStr)
	if errors.Is(err, sql.ErrNoRows) {
		return apperror.New(apperror.NotFound, "job application not found")
	}
	if err != nil {
		return fmt.Errorf("update job application: %w", err)
	}

	a.UpdatedAt, _ = time.Parse(time.RFC3339, updatedStr)
	return nil
}

func (r *Repository) UpdateApplicationStatus(ctx context.Context, id int64, status domain.Status) (*domain.Application, error) {
	const query = `UPDATE job_applications SET status = ?,
		updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
		WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query, string(status), id)
	if err != nil {
		return nil, fmt.Errorf("update job application status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, apperror.New(apperror.NotFound, "job application not found")
	}
	return r.Get(ctx, id)
}

// TransitionStatus guards the write with the expected current status, so a
// record edited since it was read is left alone.
func (r *Repository) TransitionStatus(ctx context.Context, id int64, from, to domain.Status) (bool, error) {
	const query = `UPDATE job_applications SET status = ?,
		updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
		WHERE id = ? AND status = ?`

	res, err := r.db.ExecContext(ctx, query, string(to), id, string(from))
	if err != nil {
		return false, fmt.Errorf("transition job application status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("transition job application status: %w", err)
	}
	return n > 0, nil
}

func (r *Repository) Get(ctx context.Context, id int64) (*domain.Application, error) {
	a, err := scanApplication(r.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.New(apperror.NotFound, "job application not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get job application: %w", err)
	}
	return a, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM job_applications WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete job application: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.New(apperror.NotFound, "job application not found")
	}
	return nil
}

func (r *Repository) ListApplications(ctx context.Context, ownerID int64) ([]domain.Application, error) {
	return r.Search(ctx, ownerID, domain.Filter{})
}

func (r *Repository) Search(ctx context.Context, ownerID int64, f domain.Filter) ([]domain.Application, error) {
	query := selectColumns + ` WHERE user_id = ?`
	args := []any{ownerID}

	if f.Status != "" {
		forms := domain.StoredForms(f.Status)
		query += " AND status IN (?" + strings.Repeat(", ?", len(forms)-1) + ")"
		for _, s := range forms {
			args = append(args, string(s))
		}
	}
	if f.Company != "" {
		query += ` AND company_name LIKE ? ESCAPE '\'`
		args = append(args, likePattern(f.Company))
	}
	if f.Position != "" {
		query += ` AND position LIKE ? ESCAPE '\'`
		args = append(args, likePattern(f.Position))
	}
	if f.Query != "" {
		query += ` AND (company_name LIKE ? ESCAPE '\' OR position LIKE ? ESCAPE '\')`
		p := likePattern(f.Query)
		args = append(args, p, p)
	}
	query += " ORDER BY id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list job applications: %w", err)
	}
	defer func() { _ = rows.Close() }()

	apps := []domain.Application{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job application: %w", err)
		}
		apps = append(apps, *a)
	}

	return apps, rows.Err()
}

func (r *Repository) ListOwnerIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT user_id FROM job_applications ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan owner: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanApplication(s scanner) (*domain.Application, error) {
	a := &domain.Application{}
	var status, dateStr, createdStr, updatedStr string
	var platform, jobType, location, contactPerson, contactEmail, notes sql.NullString
	var salary sql.NullFloat64

	if err := s.Scan(
		&a.ID, &a.UserID, &a.CompanyName, &a.Position, &status,
		&dateStr, &platform, &jobType, &location, &salary,
		&contactPerson, &contactEmail, &notes, &createdStr, &updatedStr,
	); err != nil {
		return nil, err
	}

	a.Status = domain.NormalizeLegacy(domain.Status(status))
	a.ApplicationDate, _ = time.Parse(dateFormat, dateStr)
	a.ApplicationPlatform = platform.String
	a.JobType = domain.JobType(jobType.String)
	a.Location = location.String
	if salary.Valid {
		v := salary.Float64
		a.Salary = &v
	}
	a.ContactPerson = contactPerson.String
	a.ContactEmail = contactEmail.String
	a.Notes = notes.String
	a.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
	a.UpdatedAt, _ = time.Parse(time.RFC3339, updatedStr)
	return a, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func likePattern(s string) string {
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}
