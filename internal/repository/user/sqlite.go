package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmethakanbesel/jobtracker-api/internal/apperror"
	domain "github.com/ahmethakanbesel/jobtracker-api/internal/user"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, u *domain.User) error {
	const query = `INSERT INTO users (username, email, role, profile_picture)
		VALUES (?, ?, ?, ?)
		RETURNING id, created_at, updated_at`

	var createdStr, updatedStr string
	err := r.db.QueryRowContext(ctx, query, u.Username, u.Email, string(u.Role), nullString(u.ProfilePicture)).
		Scan(&u.ID, &createdStr, &updatedStr)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.New(apperror.Conflict, "username or email already taken")
		}
		return fmt.Errorf("create user: %w", err)
	}

	u.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
	u.UpdatedAt, _ = time.Parse(time.RFC3339, updatedStr)
	return nil
}

const selectColumns = `SELECT id, username, email, role, profile_picture, created_at, updated_at
		FROM users`

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*domain.User, error) {
	u := &domain.User{}
	var role, createdStr, updatedStr string
	var picture sql.NullString

	if err := row.Scan(&u.ID, &u.Username, &u.Email, &role, &picture, &createdStr, &updatedStr); err != nil {
		return nil, err
	}

	u.Role = domain.Role(role)
	u.ProfilePicture = picture.String
	u.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
	u.UpdatedAt, _ = time.Parse(time.RFC3339, updatedStr)
	return u, nil
}

func (r *Repository) Get(ctx context.Context, id int64) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.New(apperror.NotFound, "user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, selectColumns+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *Repository) Update(ctx context.Context, u *domain.User) error {
	const query = `UPDATE users SET username = ?, email = ?, role = ?, profile_picture = ?,
		updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
		WHERE id = ?
		RETURNING updated_at`

	var updatedStr string
	err := r.db.QueryRowContext(ctx, query, u.Username, u.Email, string(u.Role), nullString(u.ProfilePicture), u.ID).
		Scan(&updatedStr)
	if errors.Is(err, sql.ErrNoRows) {
		return apperror.New(apperror.NotFound, "user not found")
	}
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.New(apperror.Conflict, "username or email already taken")
		}
		return fmt.Errorf("update user: %w", err)
	}

	u.UpdatedAt, _ = time.Parse(time.RFC3339, updatedStr)
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.New(apperror.NotFound, "user not found")
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
