package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/userhub/dashboard/internal/core/domain"
	"github.com/userhub/dashboard/internal/core/ports"
	"github.com/userhub/dashboard/internal/core/store"
)

// SessionService implements the session bootstrap against the user backend.
type SessionService struct {
	backend ports.BackendClient
	store   *store.Store
	logger  zerolog.Logger
}

func NewSessionService(backend ports.BackendClient, st *store.Store, logger zerolog.Logger) *SessionService {
	return &SessionService{backend: backend, store: st, logger: logger}
}

// Bootstrap asks the backend who the cookie belongs to. Exactly one backend
// fetch per call. Every failure mode collapses to ErrUnauthenticated and
// clears the stored session: the gate must fail toward denial, never toward
// permission, and it must never surface a raw backend error.
func (s *SessionService) Bootstrap(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}

	user, err := s.backend.CurrentUser(ctx, token)
	if err != nil {
		s.store.Delete(token)
		s.logger.Debug().Err(err).Msg("session bootstrap failed")
		return nil, domain.ErrUnauthenticated
	}
	if user == nil || !domain.ValidRole(user.Role) {
		s.store.Delete(token)
		return nil, domain.ErrUnauthenticated
	}

	sess := &domain.Session{User: user, ConfirmedAt: time.Now().UTC()}
	s.store.Put(token, sess)
	return sess, nil
}

// Logout ends the backend session and clears the local store. A backend
// failure is logged and swallowed: the local session is gone regardless, so
// the user always ends up logged out.
func (s *SessionService) Logout(ctx context.Context, token string) {
	if token != "" {
		if err := s.backend.Logout(ctx, token); err != nil {
			s.logger.Warn().Err(err).Msg("backend logout failed, clearing session anyway")
		}
	}
	s.store.Delete(token)
}

// UpdateProfile applies a self-edit keyed by the session user's id, then
// re-bootstraps. The fresh fetch is deliberate: the session reflects what
// the backend persisted, not an optimistic merge of the submitted fields.
func (s *SessionService) UpdateProfile(ctx context.Context, token, userID string, in ports.ProfileInput) (*domain.Session, string, error) {
	_, msg, err := s.backend.UpdateUser(ctx, token, userID, ports.UpdateUserInput{
		Name:  in.Name,
		Email: in.Email,
		Image: in.Image,
	})
	if err != nil {
		return nil, "", err
	}
	sess, err := s.Bootstrap(ctx, token)
	if err != nil {
		return nil, "", err
	}
	return sess, msg, nil
}
