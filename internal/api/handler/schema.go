package handler

import (
	"github.com/userhub/dashboard/internal/core/domain"
	"github.com/userhub/dashboard/internal/core/ports"
	"github.com/userhub/dashboard/internal/core/userform"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type signupRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type authResponse struct {
	User    *domain.User `json:"user"`
	Message string       `json:"message,omitempty"`
}

// --- Pages ---

type homeView struct {
	User *domain.User  `json:"user"`
	Form userform.Form `json:"profile_form"`
	CSRF string        `json:"csrf_token"`
}

type directoryPageView struct {
	ports.DirectoryView
	Form userform.Form `json:"user_form"`
	CSRF string        `json:"csrf_token"`
}

type entryView struct {
	Page   string        `json:"page"`
	Form   userform.Form `json:"form,omitempty"`
	Fields []string      `json:"fields,omitempty"`
}

// --- Mutations ---

type createUserRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role"     validate:"required,oneof=user manager"`
	Image    string `json:"image"    validate:"omitempty,url"`
}

type updateUserRequest struct {
	Name  string `json:"name"  validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role"  validate:"omitempty,oneof=user manager"`
	Image string `json:"image" validate:"omitempty,url"`
}

type profileUpdateRequest struct {
	Name  string `json:"name"  validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Image string `json:"image" validate:"omitempty,url"`
}

type mutationResponse struct {
	User    *domain.User `json:"user,omitempty"`
	Message string       `json:"message"`
}

type bulkUploadResponse struct {
	Message string `json:"message"`
	Rows    int    `json:"rows"`
}
