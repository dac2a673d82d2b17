package service

import (
	"context"
	"io"

	"github.com/userhub/dashboard/internal/core/domain"
	"github.com/userhub/dashboard/internal/core/ports"
)

// stubBackend implements ports.BackendClient with per-method hooks and call
// counters, so tests can assert how often the service hits the backend.
type stubBackend struct {
	currentUserFn func(ctx context.Context, token string) (*domain.User, error)
	listUsersFn   func(ctx context.Context, token string) ([]domain.User, error)
	createUserFn  func(ctx context.Context, token string, in ports.CreateUserInput) (*domain.User, string, error)
	updateUserFn  func(ctx context.Context, token, id string, in ports.UpdateUserInput) (*domain.User, string, error)
	deleteUserFn  func(ctx context.Context, token, id string) (string, error)
	logoutFn      func(ctx context.Context, token string) error
	bulkUploadFn  func(ctx context.Context, token, filename string, file io.Reader) (string, error)

	currentUserCalls int
	listUsersCalls   int
}

func (s *stubBackend) Login(ctx context.Context, creds ports.Credentials) (*ports.AuthResult, error) {
	return nil, domain.ErrUnauthenticated
}

func (s *stubBackend) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	return nil, domain.ErrUnauthenticated
}

func (s *stubBackend) Logout(ctx context.Context, token string) error {
	if s.logoutFn != nil {
		return s.logoutFn(ctx, token)
	}
	return nil
}

func (s *stubBackend) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	s.currentUserCalls++
	if s.currentUserFn != nil {
		return s.currentUserFn(ctx, token)
	}
	return nil, domain.ErrUnauthenticated
}

func (s *stubBackend) ListUsers(ctx context.Context, token string) ([]domain.User, error) {
	s.listUsersCalls++
	if s.listUsersFn != nil {
		return s.listUsersFn(ctx, token)
	}
	return nil, nil
}

func (s *stubBackend) CreateUser(ctx context.Context, token string, in ports.CreateUserInput) (*domain.User, string, error) {
	if s.createUserFn != nil {
		return s.createUserFn(ctx, token, in)
	}
	return &domain.User{ID: "new", Name: in.Name, Email: in.Email, Role: in.Role}, "user created", nil
}

func (s *stubBackend) UpdateUser(ctx context.Context, token, id string, in ports.UpdateUserInput) (*domain.User, string, error) {
	if s.updateUserFn != nil {
		return s.updateUserFn(ctx, token, id, in)
	}
	return &domain.User{ID: id, Name: in.Name, Email: in.Email, Role: in.Role}, "user updated", nil
}

func (s *stubBackend) DeleteUser(ctx context.Context, token, id string) (string, error) {
	if s.deleteUserFn != nil {
		return s.deleteUserFn(ctx, token, id)
	}
	return "user deleted", nil
}

func (s *stubBackend) BulkUpload(ctx context.Context, token, filename string, file io.Reader) (string, error) {
	if s.bulkUploadFn != nil {
		return s.bulkUploadFn(ctx, token, filename, file)
	}
	return "users imported", nil
}

// memoryCache is an in-process ports.DirectoryCache for tests.
type memoryCache struct {
	users       []domain.User
	filled      bool
	getErr      error
	invalidated int
}

func (c *memoryCache) Get(ctx context.Context) ([]domain.User, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	return c.users, c.filled, nil
}

func (c *memoryCache) Put(ctx context.Context, users []domain.User) error {
	c.users = users
	c.filled = true
	return nil
}

func (c *memoryCache) Invalidate(ctx context.Context) error {
	c.users = nil
	c.filled = false
	c.invalidated++
	return nil
}
