package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/userhub/dashboard/internal/api/middleware"
	"github.com/userhub/dashboard/internal/core/domain"
	"github.com/userhub/dashboard/internal/core/ports"
)

type stubDirectory struct {
	view      *ports.DirectoryView
	viewErr   error
	createFn  func(in ports.CreateUserInput) (*domain.User, string, error)
	updateFn  func(id string, in ports.UpdateUserInput) (*domain.User, string, error)
	deleteFn  func(id string) (string, error)
	bulkFn    func(filename string, data []byte) (string, int, error)
	lastToken string
	lastRole  string
}

func (s *stubDirectory) View(ctx context.Context, token, role string, filter ports.DirectoryFilter) (*ports.DirectoryView, error) {
	s.lastToken, s.lastRole = token, role
	return s.view, s.viewErr
}

func (s *stubDirectory) Create(ctx context.Context, token, role string, in ports.CreateUserInput) (*domain.User, string, error) {
	s.lastToken, s.lastRole = token, role
	if s.createFn != nil {
		return s.createFn(in)
	}
	return &domain.User{ID: "new", Name: in.Name, Role: in.Role}, "", nil
}

func (s *stubDirectory) Update(ctx context.Context, token, role, id string, in ports.UpdateUserInput) (*domain.User, string, error) {
	s.lastToken, s.lastRole = token, role
	if s.updateFn != nil {
		return s.updateFn(id, in)
	}
	return &domain.User{ID: id, Name: in.Name}, "", nil
}

func (s *stubDirectory) Delete(ctx context.Context, token, role, id string) (string, error) {
	s.lastToken, s.lastRole = token, role
	if s.deleteFn != nil {
		return s.deleteFn(id)
	}
	return "", nil
}

func (s *stubDirectory) BulkImport(ctx context.Context, token, role, filename string, data []byte) (string, int, error) {
	s.lastToken, s.lastRole = token, role
	if s.bulkFn != nil {
		return s.bulkFn(filename, data)
	}
	return "", 0, nil
}

type stubSessions struct {
	updateFn  func(userID string, in ports.ProfileInput) (*domain.Session, string, error)
	logoutFn  func(token string)
	loggedOut []string
}

func (s *stubSessions) Bootstrap(ctx context.Context, token string) (*domain.Session, error) {
	return nil, domain.ErrUnauthenticated
}

func (s *stubSessions) Logout(ctx context.Context, token string) {
	s.loggedOut = append(s.loggedOut, token)
	if s.logoutFn != nil {
		s.logoutFn(token)
	}
}

func (s *stubSessions) UpdateProfile(ctx context.Context, token, userID string, in ports.ProfileInput) (*domain.Session, string, error) {
	if s.updateFn != nil {
		return s.updateFn(userID, in)
	}
	return &domain.Session{User: &domain.User{ID: userID, Name: in.Name, Email: in.Email, Role: domain.RoleUser}}, "", nil
}

type stubBackend struct {
	loginFn    func(creds ports.Credentials) (*ports.AuthResult, error)
	registerFn func(in ports.RegisterInput) (*ports.AuthResult, error)
}

func (s *stubBackend) Login(ctx context.Context, creds ports.Credentials) (*ports.AuthResult, error) {
	if s.loginFn != nil {
		return s.loginFn(creds)
	}
	return nil, domain.ErrUnauthenticated
}

func (s *stubBackend) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	if s.registerFn != nil {
		return s.registerFn(in)
	}
	return nil, domain.ErrUnauthenticated
}

func (s *stubBackend) Logout(ctx context.Context, token string) error { return nil }

func (s *stubBackend) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	return nil, domain.ErrUnauthenticated
}

func (s *stubBackend) ListUsers(ctx context.Context, token string) ([]domain.User, error) {
	return nil, nil
}

func (s *stubBackend) CreateUser(ctx context.Context, token string, in ports.CreateUserInput) (*domain.User, string, error) {
	return nil, "", nil
}

func (s *stubBackend) UpdateUser(ctx context.Context, token, id string, in ports.UpdateUserInput) (*domain.User, string, error) {
	return nil, "", nil
}

func (s *stubBackend) DeleteUser(ctx context.Context, token, id string) (string, error) {
	return "", nil
}

func (s *stubBackend) BulkUpload(ctx context.Context, token, filename string, file io.Reader) (string, error) {
	return "", nil
}

type stubIssuer struct{}

func (stubIssuer) Issue(sessionToken string) (string, error) { return "csrf-" + sessionToken, nil }

// newContext builds an echo context with the validator installed and, when
// sess is non-nil, the gate's context keys populated.
func newContext(t *testing.T, method, target, body string, sess *domain.Session) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = NewValidator()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if sess != nil {
		c.Set(middleware.ContextSession, sess)
		c.Set(middleware.ContextRole, sess.User.Role)
		c.Set(middleware.ContextToken, "tok")
	}
	return c, rec
}

func adminSession() *domain.Session {
	return &domain.Session{User: &domain.User{ID: "u1", Name: "Alice", Email: "alice@example.com", Role: domain.RoleAdmin}}
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T: %v", err, err)
	}
	return he.Code
}
