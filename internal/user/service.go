package user

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ahmethakanbesel/jobtracker-api/internal/apperror"
)

type Service struct {
	repo   Repository
	admins map[string]bool
}

type Option func(*Service)

// WithAdminEmails grants the admin role to sign-ups with one of these
// addresses. Matching ignores case.
func WithAdminEmails(emails ...string) Option {
	return func(s *Service) {
		for _, e := range emails {
			if e = strings.TrimSpace(e); e != "" {
				s.admins[strings.ToLower(e)] = true
			}
		}
	}
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, admins: make(map[string]bool)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, req CreateUserRequest) (*User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	role := RoleUser
	if s.admins[strings.ToLower(req.Email)] {
		role = RoleAdmin
	}
	u := &User{
		Username:       strings.TrimSpace(req.Username),
		Email:          req.Email,
		Role:           role,
		ProfilePicture: req.ProfilePicture,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) Get(ctx context.Context, req GetUserRequest) (*User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, req.ID)
}

// RequireAdmin fails with Forbidden unless actorID is a stored admin.
func (s *Service) RequireAdmin(ctx context.Context, actorID int64) error {
	if actorID <= 0 {
		return apperror.New(apperror.Forbidden, "admin access required")
	}
	u, err := s.repo.Get(ctx, actorID)
	if apperror.IsNotFound(err) {
		return apperror.New(apperror.Forbidden, "admin access required")
	}
	if err != nil {
		return err
	}
	if u.Role != RoleAdmin {
		return apperror.New(apperror.Forbidden, "admin access required")
	}
	return nil
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *Service) AdminCreate(ctx context.Context, req AdminCreateUserRequest) (*User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	role := req.Role
	if role == "" {
		role = RoleUser
	}
	u := &User{
		Username:       strings.TrimSpace(req.Username),
		Email:          req.Email,
		Role:           role,
		ProfilePicture: req.ProfilePicture,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "user created by admin", "user", u.ID, "role", u.Role)
	return u, nil
}

func (s *Service) Update(ctx context.Context, req UpdateUserRequest) (*User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	u, err := s.repo.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		u.Username = strings.TrimSpace(*req.Username)
	}
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.Role != nil {
		u.Role = *req.Role
	}
	if req.ProfilePicture != nil {
		u.ProfilePicture = *req.ProfilePicture
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) Delete(ctx context.Context, req DeleteUserRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, req.ID); err != nil {
		return err
	}
	slog.InfoContext(ctx, "user deleted by admin", "user", req.ID, "actor", req.ActorID)
	return nil
}
