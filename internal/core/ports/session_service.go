package ports

import (
	"context"

	"github.com/userhub/dashboard/internal/core/domain"
)

// ProfileInput carries a self-profile edit: name, email and image only.
// Role and password never travel through this path.
type ProfileInput struct {
	Name  string
	Email string
	Image string
}

// SessionService owns the session bootstrap and everything keyed by the
// current user.
type SessionService interface {
	// Bootstrap confirms the session cookie against the backend. It performs
	// exactly one backend fetch per call, and any failure - transport,
	// expiry, malformed response - collapses to ErrUnauthenticated with the
	// stored session cleared.
	Bootstrap(ctx context.Context, token string) (*domain.Session, error)

	// Logout invalidates the backend session best-effort and always clears
	// the local store.
	Logout(ctx context.Context, token string)

	// UpdateProfile applies a self-edit keyed by the session user's id, then
	// re-bootstraps so the returned session reflects backend state rather
	// than an optimistic merge.
	UpdateProfile(ctx context.Context, token, userID string, in ProfileInput) (*domain.Session, string, error)
}
