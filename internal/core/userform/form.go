// Package userform is the server half of the shared create/edit user form.
//
// The client opens the form in create or edit mode; this package builds the
// pre-filled view for it and parses the submission back into a create or
// update payload. It performs no network calls - persistence belongs to the
// caller that receives the payload.
package userform

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/userhub/dashboard/internal/core/domain"
)

const (
	ModeCreate = "create"
	ModeEdit   = "edit"
)

var ErrRoleNotOffered = errors.New("role is not offered by this form")
var ErrPasswordRequired = errors.New("password is required")

// Form is the pre-filled state sent to the client. In edit mode the password
// is never included: it is not fetched, not displayed, and not round-tripped.
type Form struct {
	Mode  string   `json:"mode"`
	ID    string   `json:"id,omitempty"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Role  string   `json:"role"`
	Image string   `json:"image,omitempty"`
	Roles []string `json:"roles"`
}

// New builds the form for the given target. A nil user means create mode.
// The role options offered are always {user, manager}: no form anywhere in
// the dashboard grants admin.
func New(userToEdit *domain.User) Form {
	f := Form{
		Mode:  ModeCreate,
		Role:  domain.RoleUser,
		Roles: []string{domain.RoleUser, domain.RoleManager},
	}
	if userToEdit != nil {
		f.Mode = ModeEdit
		f.ID = userToEdit.ID
		f.Name = userToEdit.Name
		f.Email = userToEdit.Email
		f.Role = userToEdit.Role
		f.Image = userToEdit.Image
	}
	return f
}

// Submission is what the client sends back. Password is required only in
// create mode; in edit mode it is ignored entirely.
type Submission struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"omitempty,min=8"`
	Role     string `json:"role"     validate:"required"`
	Image    string `json:"image"    validate:"omitempty,url"`
}

// CreatePayload is produced by submitting a create-mode form.
type CreatePayload struct {
	Name     string
	Email    string
	Password string
	Role     string
	Image    string
}

// UpdatePayload is produced by submitting an edit-mode form. There is no
// password field: edits never touch credentials.
type UpdatePayload struct {
	ID    string
	Name  string
	Email string
	Role  string
	Image string
}

var validate = validator.New()

// Submit validates sub against the form and produces exactly one payload:
// create in create mode, update in edit mode.
func (f Form) Submit(sub Submission) (*CreatePayload, *UpdatePayload, error) {
	if err := validate.Struct(sub); err != nil {
		return nil, nil, err
	}

	offered := false
	for _, r := range f.Roles {
		if r == sub.Role {
			offered = true
			break
		}
	}
	if !offered {
		return nil, nil, ErrRoleNotOffered
	}

	if f.Mode == ModeEdit {
		return nil, &UpdatePayload{
			ID:    f.ID,
			Name:  sub.Name,
			Email: sub.Email,
			Role:  sub.Role,
			Image: sub.Image,
		}, nil
	}

	if sub.Password == "" {
		return nil, nil, ErrPasswordRequired
	}
	return &CreatePayload{
		Name:     sub.Name,
		Email:    sub.Email,
		Password: sub.Password,
		Role:     sub.Role,
		Image:    sub.Image,
	}, nil, nil
}
