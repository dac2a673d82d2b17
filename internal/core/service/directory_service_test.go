package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/userhub/dashboard/internal/core/domain"
	"github.com/userhub/dashboard/internal/core/ports"
)

func newDirectoryService(backend *stubBackend, cache *memoryCache) *DirectoryService {
	svc := NewDirectoryService(backend, cache, zerolog.Nop())
	svc.now = func() time.Time {
		return time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func directoryFixture() []domain.User {
	return []domain.User{
		{ID: "u123", Name: "Alice", Email: "alice@example.com", Role: domain.RoleAdmin,
			CreatedAt: time.Date(2026, time.August, 3, 0, 0, 0, 0, time.UTC)},
		{ID: "u456", Name: "Bob", Email: "bob@example.com", Role: domain.RoleManager,
			CreatedAt: time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "u789", Name: "Carol", Email: "carol@example.com", Role: domain.RoleUser,
			CreatedAt: time.Date(2026, time.May, 20, 0, 0, 0, 0, time.UTC)},
	}
}

func TestView_ComposesAggregatesOverFullList(t *testing.T) {
	backend := &stubBackend{
		listUsersFn: func(ctx context.Context, token string) ([]domain.User, error) {
			return directoryFixture(), nil
		},
	}
	svc := newDirectoryService(backend, &memoryCache{})

	view, err := svc.View(context.Background(), "tok", domain.RoleAdmin, ports.DirectoryFilter{Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(view.Users) != 1 || view.Users[0].ID != "u789" {
		t.Fatalf("expected filtered list with only u789, got %+v", view.Users)
	}
	// Aggregates are computed over the full directory, not the filtered slice.
	if view.Stats.Total != 3 || view.Stats.Admins != 1 || view.Stats.Managers != 1 || view.Stats.Users != 1 {
		t.Fatalf("unexpected stats: %+v", view.Stats)
	}
	sum := 0
	for _, b := range view.Histogram {
		sum += b.Count
	}
	if sum != 3 {
		t.Fatalf("expected histogram over full list (sum 3), got %d", sum)
	}
	if !view.Capabilities.CanCreate || !view.Capabilities.CanDelete {
		t.Fatalf("admin view should carry full capabilities, got %+v", view.Capabilities)
	}
}

func TestView_ManagerCapabilities(t *testing.T) {
	backend := &stubBackend{
		listUsersFn: func(ctx context.Context, token string) ([]domain.User, error) {
			return directoryFixture(), nil
		},
	}
	svc := newDirectoryService(backend, &memoryCache{})

	view, err := svc.View(context.Background(), "tok", domain.RoleManager, ports.DirectoryFilter{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if view.Capabilities.CanCreate || view.Capabilities.CanDelete {
		t.Fatalf("manager must not create or delete, got %+v", view.Capabilities)
	}
	if len(view.Capabilities.AssignableRoles) != 2 {
		t.Fatalf("manager should be able to assign user and manager, got %v", view.Capabilities.AssignableRoles)
	}
}

func TestView_PlainUserForbidden(t *testing.T) {
	svc := newDirectoryService(&stubBackend{}, &memoryCache{})

	_, err := svc.View(context.Background(), "tok", domain.RoleUser, ports.DirectoryFilter{})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestView_SecondCallHitsCache(t *testing.T) {
	backend := &stubBackend{
		listUsersFn: func(ctx context.Context, token string) ([]domain.User, error) {
			return directoryFixture(), nil
		},
	}
	svc := newDirectoryService(backend, &memoryCache{})

	for i := 0; i < 2; i++ {
		if _, err := svc.View(context.Background(), "tok", domain.RoleAdmin, ports.DirectoryFilter{}); err != nil {
			t.Fatalf("view %d: %v", i, err)
		}
	}
	if backend.listUsersCalls != 1 {
		t.Fatalf("second view should come from cache, got %d backend calls", backend.listUsersCalls)
	}
}

func TestView_CacheErrorFallsBackToBackend(t *testing.T) {
	backend := &stubBackend{
		listUsersFn: func(ctx context.Context, token string) ([]domain.User, error) {
			return directoryFixture(), nil
		},
	}
	cache := &memoryCache{getErr: fmt.Errorf("redis down")}
	svc := newDirectoryService(backend, cache)

	view, err := svc.View(context.Background(), "tok", domain.RoleAdmin, ports.DirectoryFilter{})
	if err != nil {
		t.Fatalf("cache failure must not fail the view, got %v", err)
	}
	if len(view.Users) != 3 {
		t.Fatalf("expected backend list, got %d users", len(view.Users))
	}
	if backend.listUsersCalls != 1 {
		t.Fatalf("expected backend fallback, got %d calls", backend.listUsersCalls)
	}
}

func TestCreate_ManagerForbidden(t *testing.T) {
	svc := newDirectoryService(&stubBackend{}, &memoryCache{})

	_, _, err := svc.Create(context.Background(), "tok", domain.RoleManager, ports.CreateUserInput{
		Name: "Dana", Email: "dana@example.com", Password: "secret123", Role: domain.RoleUser,
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestCreate_AdminRoleNotAssignable(t *testing.T) {
	svc := newDirectoryService(&stubBackend{}, &memoryCache{})

	_, _, err := svc.Create(context.Background(), "tok", domain.RoleAdmin, ports.CreateUserInput{
		Name: "Dana", Email: "dana@example.com", Password: "secret123", Role: domain.RoleAdmin,
	})
	if !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("admin role must never be assignable, got %v", err)
	}
}

func TestCreate_InvalidatesCache(t *testing.T) {
	cache := &memoryCache{users: directoryFixture(), filled: true}
	svc := newDirectoryService(&stubBackend{}, cache)

	user, msg, err := svc.Create(context.Background(), "tok", domain.RoleAdmin, ports.CreateUserInput{
		Name: "Dana", Email: "dana@example.com", Password: "secret123", Role: domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.Name != "Dana" || msg == "" {
		t.Fatalf("expected created user and message, got %+v %q", user, msg)
	}
	if cache.invalidated != 1 {
		t.Fatalf("expected cache invalidated once, got %d", cache.invalidated)
	}
}

func TestUpdate_ManagerCannotPromoteToAdmin(t *testing.T) {
	svc := newDirectoryService(&stubBackend{}, &memoryCache{})

	_, _, err := svc.Update(context.Background(), "tok", domain.RoleManager, "u789", ports.UpdateUserInput{
		Role: domain.RoleAdmin,
	})
	if !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestUpdate_EmptyRoleLeavesRoleAlone(t *testing.T) {
	backend := &stubBackend{
		updateUserFn: func(ctx context.Context, token, id string, in ports.UpdateUserInput) (*domain.User, string, error) {
			if in.Role != "" {
				t.Fatalf("empty role must stay empty, got %q", in.Role)
			}
			return &domain.User{ID: id, Name: in.Name, Role: domain.RoleUser}, "user updated", nil
		},
	}
	svc := newDirectoryService(backend, &memoryCache{})

	_, _, err := svc.Update(context.Background(), "tok", domain.RoleManager, "u789", ports.UpdateUserInput{Name: "Caroline"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestDelete_RemovedUserGoneAfterRefetch(t *testing.T) {
	users := directoryFixture()
	backend := &stubBackend{
		listUsersFn: func(ctx context.Context, token string) ([]domain.User, error) {
			return users, nil
		},
		deleteUserFn: func(ctx context.Context, token, id string) (string, error) {
			kept := users[:0:0]
			for _, u := range users {
				if u.ID != id {
					kept = append(kept, u)
				}
			}
			users = kept
			return "user deleted", nil
		},
	}
	cache := &memoryCache{}
	svc := newDirectoryService(backend, cache)

	if _, err := svc.View(context.Background(), "tok", domain.RoleAdmin, ports.DirectoryFilter{}); err != nil {
		t.Fatalf("initial view: %v", err)
	}

	msg, err := svc.Delete(context.Background(), "tok", domain.RoleAdmin, "u123")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if msg != "user deleted" {
		t.Fatalf("expected backend message, got %q", msg)
	}
	if cache.invalidated != 1 {
		t.Fatalf("delete must invalidate the cache, got %d", cache.invalidated)
	}

	view, err := svc.View(context.Background(), "tok", domain.RoleAdmin, ports.DirectoryFilter{})
	if err != nil {
		t.Fatalf("view after delete: %v", err)
	}
	for _, u := range view.Users {
		if u.ID == "u123" {
			t.Fatal("deleted user still present after refetch")
		}
	}
	if backend.listUsersCalls != 2 {
		t.Fatalf("expected a fresh backend list after invalidation, got %d calls", backend.listUsersCalls)
	}
}

func TestDelete_ManagerForbidden(t *testing.T) {
	svc := newDirectoryService(&stubBackend{}, &memoryCache{})

	_, err := svc.Delete(context.Background(), "tok", domain.RoleManager, "u789")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestBulkImport_ValidatesBeforeForwarding(t *testing.T) {
	forwarded := false
	backend := &stubBackend{
		bulkUploadFn: func(ctx context.Context, token, filename string, file io.Reader) (string, error) {
			forwarded = true
			return "2 users imported", nil
		},
	}
	cache := &memoryCache{filled: true}
	svc := newDirectoryService(backend, cache)

	data := buildWorkbook(t, [][]interface{}{
		{"Name", "Email", "Password", "Role"},
		{"Dana", "dana@example.com", "secret123", "user"},
		{"Evan", "evan@example.com", "secret123", "manager"},
	})

	msg, rows, err := svc.BulkImport(context.Background(), "tok", domain.RoleAdmin, "users.xlsx", data)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rows != 2 || msg != "2 users imported" {
		t.Fatalf("expected 2 rows and backend message, got %d %q", rows, msg)
	}
	if !forwarded {
		t.Fatal("expected file forwarded to backend")
	}
	if cache.invalidated != 1 {
		t.Fatalf("bulk import must invalidate the cache, got %d", cache.invalidated)
	}
}

func TestBulkImport_BadRowsNeverReachBackend(t *testing.T) {
	backend := &stubBackend{
		bulkUploadFn: func(ctx context.Context, token, filename string, file io.Reader) (string, error) {
			t.Fatal("invalid spreadsheet must not be forwarded")
			return "", nil
		},
	}
	svc := newDirectoryService(backend, &memoryCache{})

	data := buildWorkbook(t, [][]interface{}{
		{"Name", "Email", "Password", "Role"},
		{"Dana", "dana@example.com", "secret123", "admin"},
	})

	_, _, err := svc.BulkImport(context.Background(), "tok", domain.RoleAdmin, "users.xlsx", data)
	if err == nil {
		t.Fatal("expected validation error for unassignable role")
	}
}

func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}
