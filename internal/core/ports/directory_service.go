package ports

import (
	"context"
	"time"

	"github.com/userhub/dashboard/internal/core/domain"
)

// DirectoryFilter narrows the directory view. Role "all" (or empty) keeps
// every user; Search is a case-insensitive substring match on name or email.
// Both conditions combine with logical AND.
type DirectoryFilter struct {
	Role   string
	Search string
}

// RoleStats aggregates the directory by role.
type RoleStats struct {
	Total    int `json:"total"`
	Admins   int `json:"admins"`
	Managers int `json:"managers"`
	Users    int `json:"users"`
}

// MonthBucket is one calendar month of the registration histogram.
type MonthBucket struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Label string     `json:"label"`
	Count int        `json:"count"`
}

// DirectoryView is the composed payload behind the admin and manager pages:
// the filtered user list plus the aggregates derived from the full list.
type DirectoryView struct {
	Users        []domain.User       `json:"users"`
	Stats        RoleStats           `json:"stats"`
	Histogram    []MonthBucket       `json:"registration_histogram"`
	Capabilities domain.Capabilities `json:"capabilities"`
}

// DirectoryCache caches the full user list between page loads. Implementations
// must treat Get misses and errors identically from the caller's perspective:
// the service refetches from the backend either way.
type DirectoryCache interface {
	Get(ctx context.Context) ([]domain.User, bool, error)
	Put(ctx context.Context, users []domain.User) error
	Invalidate(ctx context.Context) error
}

// DirectoryService owns the user directory: the composed view plus every
// mutation. Each method derives capabilities from the caller's role and
// enforces them before touching the backend; the gate's role check gets a
// request onto these paths, but never past this boundary.
type DirectoryService interface {
	View(ctx context.Context, token, role string, filter DirectoryFilter) (*DirectoryView, error)
	Create(ctx context.Context, token, role string, in CreateUserInput) (*domain.User, string, error)
	Update(ctx context.Context, token, role, id string, in UpdateUserInput) (*domain.User, string, error)
	Delete(ctx context.Context, token, role, id string) (string, error)
	BulkImport(ctx context.Context, token, role, filename string, data []byte) (string, int, error)
}
