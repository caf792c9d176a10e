package user

import (
	"net/mail"
	"strings"

	"github.com/ahmethakanbesel/jobtracker-api/internal/apperror"
)

type CreateUserRequest struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profile_picture"`
}

func (r CreateUserRequest) Validate() *apperror.AppError {
	if err := validateUsername(r.Username); err != nil {
		return err
	}
	return validateEmail(r.Email)
}

// AdminCreateUserRequest is an account created from the admin console, which
// may pick the role.
type AdminCreateUserRequest struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	Role           Role   `json:"role"`
	ProfilePicture string `json:"profile_picture"`
}

func (r AdminCreateUserRequest) Validate() *apperror.AppError {
	if err := validateUsername(r.Username); err != nil {
		return err
	}
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if r.Role != "" && !r.Role.Valid() {
		return apperror.New(apperror.BadRequest, "role must be user or admin")
	}
	return nil
}

// UpdateUserRequest changes only the fields that are set. ActorID is the
// admin making the change.
type UpdateUserRequest struct {
	ActorID        int64   `json:"-"`
	ID             int64   `json:"-"`
	Username       *string `json:"username"`
	Email          *string `json:"email"`
	Role           *Role   `json:"role"`
	ProfilePicture *string `json:"profile_picture"`
}

func (r UpdateUserRequest) Validate() *apperror.AppError {
	if r.ID <= 0 {
		return apperror.New(apperror.BadRequest, "invalid user id")
	}
	if r.Username != nil {
		if err := validateUsername(*r.Username); err != nil {
			return err
		}
	}
	if r.Email != nil {
		if err := validateEmail(*r.Email); err != nil {
			return err
		}
	}
	if r.Role != nil {
		if !r.Role.Valid() {
			return apperror.New(apperror.BadRequest, "role must be user or admin")
		}
		if r.ID == r.ActorID && *r.Role != RoleAdmin {
			return apperror.New(apperror.BadRequest, "admins cannot revoke their own role")
		}
	}
	return nil
}

type DeleteUserRequest struct {
	ActorID int64
	ID      int64
}

func (r DeleteUserRequest) Validate() *apperror.AppError {
	if r.ID <= 0 {
		return apperror.New(apperror.BadRequest, "invalid user id")
	}
	if r.ID == r.ActorID {
		return apperror.New(apperror.BadRequest, "admins cannot delete their own account")
	}
	return nil
}

func validateUsername(s string) *apperror.AppError {
	if len(strings.TrimSpace(s)) < 3 {
		return apperror.New(apperror.BadRequest, "username must be at least 3 characters")
	}
	return nil
}

func validateEmail(s string) *apperror.AppError {
	if addr, err := mail.ParseAddress(s); err != nil || addr.Address != s {
		return apperror.New(apperror.BadRequest, "invalid email")
	}
	return nil
}

type GetUserRequest struct {
	ID int64
}

func (r GetUserRequest) Validate() *apperror.AppError {
	if r.ID <= 0 {
		return apperror.New(apperror.BadRequest, "invalid user id")
	}
	return nil
}
