package service

import (
	"bytes"
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/userhub/dashboard/internal/core/domain"
	"github.com/userhub/dashboard/internal/core/ports"
	"github.com/userhub/dashboard/internal/infrastructure/spreadsheet"
)

// DirectoryService composes the admin/manager directory view and funnels
// every directory mutation through capability checks derived from the
// caller's role.
type DirectoryService struct {
	backend ports.BackendClient
	cache   ports.DirectoryCache
	logger  zerolog.Logger
	now     func() time.Time
}

func NewDirectoryService(backend ports.BackendClient, cache ports.DirectoryCache, logger zerolog.Logger) *DirectoryService {
	return &DirectoryService{backend: backend, cache: cache, logger: logger, now: time.Now}
}

// View returns the filtered user list plus the aggregates computed over the
// full list: role counts and the six-month registration histogram. The list
// comes from the cache when fresh, otherwise from the backend.
func (s *DirectoryService) View(ctx context.Context, token, role string, filter ports.DirectoryFilter) (*ports.DirectoryView, error) {
	caps := domain.CapabilitiesFor(role)
	if role != domain.RoleAdmin && role != domain.RoleManager {
		return nil, domain.ErrForbidden
	}

	users, err := s.listUsers(ctx, token)
	if err != nil {
		return nil, err
	}

	return &ports.DirectoryView{
		Users:        FilterDirectory(users, filter),
		Stats:        RoleCounts(users),
		Histogram:    RegistrationHistogram(users, s.now().UTC()),
		Capabilities: caps,
	}, nil
}

// Create adds a user on behalf of a caller whose capabilities allow it.
func (s *DirectoryService) Create(ctx context.Context, token, role string, in ports.CreateUserInput) (*domain.User, string, error) {
	caps := domain.CapabilitiesFor(role)
	if !caps.CanCreate {
		return nil, "", domain.ErrForbidden
	}
	if !caps.CanAssign(in.Role) {
		return nil, "", domain.ErrInvalidRole
	}

	user, msg, err := s.backend.CreateUser(ctx, token, in)
	if err != nil {
		return nil, "", err
	}
	s.invalidate(ctx)
	s.logger.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("user created")
	return user, msg, nil
}

// Update edits a user. A role change must stay within the caller's
// assignable set, so a manager can never promote anyone to admin.
func (s *DirectoryService) Update(ctx context.Context, token, role, id string, in ports.UpdateUserInput) (*domain.User, string, error) {
	caps := domain.CapabilitiesFor(role)
	if len(caps.AssignableRoles) == 0 {
		return nil, "", domain.ErrForbidden
	}
	if in.Role != "" && !caps.CanAssign(in.Role) {
		return nil, "", domain.ErrInvalidRole
	}

	user, msg, err := s.backend.UpdateUser(ctx, token, id, in)
	if err != nil {
		return nil, "", err
	}
	s.invalidate(ctx)
	s.logger.Info().Str("user_id", id).Msg("user updated")
	return user, msg, nil
}

// Delete removes a user for callers with the delete capability.
func (s *DirectoryService) Delete(ctx context.Context, token, role, id string) (string, error) {
	if !domain.CapabilitiesFor(role).CanDelete {
		return "", domain.ErrForbidden
	}

	msg, err := s.backend.DeleteUser(ctx, token, id)
	if err != nil {
		return "", err
	}
	s.invalidate(ctx)
	s.logger.Info().Str("user_id", id).Msg("user deleted")
	return msg, nil
}

// BulkImport validates a spreadsheet of users locally, then forwards the
// original file to the backend's bulk endpoint. Rows are checked against the
// caller's assignable roles before anything leaves the gateway.
func (s *DirectoryService) BulkImport(ctx context.Context, token, role, filename string, data []byte) (string, int, error) {
	caps := domain.CapabilitiesFor(role)
	if !caps.CanCreate {
		return "", 0, domain.ErrForbidden
	}

	rows, err := spreadsheet.ParseUsers(bytes.NewReader(data), caps.CanAssign)
	if err != nil {
		return "", 0, err
	}

	msg, err := s.backend.BulkUpload(ctx, token, filename, bytes.NewReader(data))
	if err != nil {
		return "", 0, err
	}
	s.invalidate(ctx)
	s.logger.Info().Int("rows", len(rows)).Msg("bulk user upload forwarded")
	return msg, len(rows), nil
}

func (s *DirectoryService) listUsers(ctx context.Context, token string) ([]domain.User, error) {
	if users, ok, err := s.cache.Get(ctx); err == nil && ok {
		return users, nil
	} else if err != nil {
		s.logger.Warn().Err(err).Msg("directory cache read failed, falling back to backend")
	}

	users, err := s.backend.ListUsers(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Put(ctx, users); err != nil {
		s.logger.Warn().Err(err).Msg("directory cache write failed")
	}
	return users, nil
}

func (s *DirectoryService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("directory cache invalidation failed")
	}
}
