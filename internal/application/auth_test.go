package application

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/example/campshare/internal/persistence"
)

func seedUser(t *testing.T, h harness, user User) {
	t.Helper()
	h.container.mu.Lock()
	defer h.container.mu.Unlock()
	h.container.users = append(h.container.users, user)
}

func TestContainer_LoginPrecedence(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t, nil)
	seedUser(t, h, User{
		ID:           "u-1",
		Name:         "Camper",
		Permissions:  []Permission{PermissionReadOnly},
		PhoneNumber:  "5551234567",
		TempPassword: "445566",
		Password:     "hunter2",
	})

	result, err := h.container.LoginWithPhoneAndPassword(ctx, "(555) 123-4567", "445566")
	if err != nil {
		t.Fatalf("temp password login returned error: %v", err)
	}
	if !result.MustSetPassword || result.User.LastLogin != nil {
		t.Fatalf("expected temp login without lastLogin update, got %#v", result)
	}
	stored, _ := h.container.User("u-1")
	if stored.LastLogin != nil || stored.TempPassword != "445566" {
		t.Fatalf("expected stored user untouched by temp login, got %#v", stored)
	}

	h.clock.Advance(time.Minute)
	result, err = h.container.LoginWithPhoneAndPassword(ctx, "5551234567", "hunter2")
	if err != nil {
		t.Fatalf("permanent password login returned error: %v", err)
	}
	wantLogin := referenceTime.Add(time.Minute)
	if result.MustSetPassword || result.User.LastLogin == nil || !result.User.LastLogin.Equal(wantLogin) {
		t.Fatalf("expected lastLogin update, got %#v", result)
	}
	stored, _ = h.container.User("u-1")
	if stored.LastLogin == nil || !stored.LastLogin.Equal(wantLogin) {
		t.Fatalf("expected stored lastLogin, got %#v", stored)
	}

	for _, attempt := range []string{"", "wrong", "HUNTER2", "44556"} {
		if _, err := h.container.LoginWithPhoneAndPassword(ctx, "5551234567", attempt); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("login with %q: expected ErrInvalidCredentials, got %v", attempt, err)
		}
	}
	if _, err := h.container.LoginWithPhoneAndPassword(ctx, "5550000000", "hunter2"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown phone: expected ErrInvalidCredentials, got %v", err)
	}

	current, ok := h.container.CurrentUser()
	if !ok || current.ID != "u-1" {
		t.Fatalf("expected failed attempts to keep the last session, got %#v %v", current, ok)
	}
	if !h.repo.has(persistence.BucketCurrentUser) {
		t.Fatalf("expected session to be persisted")
	}
}

func TestContainer_ResetPassword(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t, nil)
	seedUser(t, h, User{
		ID:               "u-1",
		Name:             "Camper",
		Permissions:      []Permission{PermissionReadOnly},
		PhoneNumber:      "5551234567",
		InvitationStatus: InvitationSent,
		TempPassword:     "445566",
	})

	before, _ := h.container.User("u-1")
	if err := h.container.ResetPassword(ctx, "u-1", "000000", "NewPass1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	after, _ := h.container.User("u-1")
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("expected user unchanged after failed reset:\n%#v\n%#v", before, after)
	}

	if _, err := h.container.LoginWithPhoneAndPassword(ctx, "5551234567", "445566"); err != nil {
		t.Fatalf("login returned error: %v", err)
	}

	h.clock.Advance(time.Hour)
	if err := h.container.ResetPassword(ctx, "u-1", "445566", "NewPass1"); err != nil {
		t.Fatalf("ResetPassword returned error: %v", err)
	}
	after, _ = h.container.User("u-1")
	if after.TempPassword != "" || after.Password != "NewPass1" || after.InvitationStatus != InvitationAccepted {
		t.Fatalf("unexpected user after reset %#v", after)
	}
	if !after.ProfileCompleted || after.PasswordSetAt == nil || !after.PasswordSetAt.Equal(referenceTime.Add(time.Hour)) {
		t.Fatalf("expected profile completion and passwordSetAt, got %#v", after)
	}

	current, ok := h.container.CurrentUser()
	if !ok || current.Password != "NewPass1" || current.TempPassword != "" {
		t.Fatalf("expected session user to mirror reset, got %#v", current)
	}

	if err := h.container.ResetPassword(ctx, "u-1", "NewPass1", "Another2"); err != nil {
		t.Fatalf("reset with permanent password returned error: %v", err)
	}
	if err := h.container.ResetPassword(ctx, "missing", "x", "NewPass1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestContainer_SessionLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := newHarness(t, nil)

	if _, err := h.container.Authorize(PermissionCalendar); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}

	if _, err := h.container.LoginWithPhoneAndPassword(ctx, "0987654321", "user123"); err != nil {
		t.Fatalf("login returned error: %v", err)
	}
	if _, err := h.container.Authorize(PermissionCalendar); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for read-only user, got %v", err)
	}
	if _, err := h.container.Authorize(PermissionReadOnly); err != nil {
		t.Fatalf("expected read-only access, got %v", err)
	}

	admin, _ := h.container.User("admin-user-id")
	if err := h.container.SetCurrentUser(ctx, &admin); err != nil {
		t.Fatalf("SetCurrentUser returned error: %v", err)
	}
	if user, err := h.container.Authorize(PermissionMaintenance); err != nil || user.ID != "admin-user-id" {
		t.Fatalf("expected admin to hold every permission, got %#v %v", user, err)
	}

	if err := h.container.Logout(ctx); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if _, ok := h.container.CurrentUser(); ok {
		t.Fatalf("expected no session after logout")
	}
	if h.repo.has(persistence.BucketCurrentUser) {
		t.Fatalf("expected persisted session to be removed")
	}
}
