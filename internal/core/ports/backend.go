package ports

import (
	"context"
	"io"
	"net/http"

	"github.com/userhub/dashboard/internal/core/domain"
)

// Credentials carries a login attempt.
type Credentials struct {
	Email    string
	Password string
}

// RegisterInput carries a self-service signup. The gateway always forces
// Role to "user" before calling the backend.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// CreateUserInput carries the payload for an admin-created account.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	Image    string
}

// UpdateUserInput carries a partial update. Empty fields are omitted from
// the request body; in particular an empty Role leaves the role untouched,
// which is how profile edits avoid role changes.
type UpdateUserInput struct {
	Name  string
	Email string
	Role  string
	Image string
}

// AuthResult is returned by Login and Register. Cookies holds the session
// cookies the backend issued, relayed verbatim to the browser.
type AuthResult struct {
	User    *domain.User
	Message string
	Cookies []*http.Cookie
}

// BackendClient wraps the user backend's REST surface. Every call forwards
// the caller's session cookie and classifies failures into the domain error
// taxonomy: transport failures wrap ErrBackendUnreachable, 401 becomes
// ErrUnauthenticated, and other 4xx/5xx become *domain.BackendError.
type BackendClient interface {
	Login(ctx context.Context, creds Credentials) (*AuthResult, error)
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Logout(ctx context.Context, token string) error

	CurrentUser(ctx context.Context, token string) (*domain.User, error)
	ListUsers(ctx context.Context, token string) ([]domain.User, error)
	CreateUser(ctx context.Context, token string, in CreateUserInput) (*domain.User, string, error)
	UpdateUser(ctx context.Context, token, id string, in UpdateUserInput) (*domain.User, string, error)
	DeleteUser(ctx context.Context, token, id string) (string, error)
	BulkUpload(ctx context.Context, token, filename string, file io.Reader) (string, error)
}
