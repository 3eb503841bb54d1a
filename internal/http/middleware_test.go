package http

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/example/campshare/internal/application"
)

type authorizerStub struct {
	user *application.User
}

func (a authorizerStub) CurrentUser() (application.User, bool) {
	if a.user == nil {
		return application.User{}, false
	}
	return *a.user, true
}

func (a authorizerStub) Authorize(permission application.Permission) (application.User, error) {
	user, ok := a.CurrentUser()
	if !ok {
		return application.User{}, application.ErrUnauthenticated
	}
	if !user.HasPermission(permission) {
		return application.User{}, application.ErrForbidden
	}
	return user, nil
}

func TestRequirePermission(t *testing.T) {
	t.Parallel()

	cleaner := &application.User{ID: "u-1", Permissions: []application.Permission{application.PermissionCleaning}}
	admin := &application.User{ID: "u-2", Permissions: []application.Permission{application.PermissionAdmin}}

	tests := []struct {
		name       string
		user       *application.User
		permission application.Permission
		wantStatus int
	}{
		{name: "no session", permission: application.PermissionCleaning, wantStatus: http.StatusUnauthorized},
		{name: "missing permission", user: cleaner, permission: application.PermissionCalendar, wantStatus: http.StatusForbidden},
		{name: "held permission", user: cleaner, permission: application.PermissionCleaning, wantStatus: http.StatusOK},
		{name: "admin implies all", user: admin, permission: application.PermissionMaintenance, wantStatus: http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var seen application.User
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = SessionUserFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})
			handler := RequirePermission(authorizerStub{user: tc.user}, tc.permission, slog.New(slog.NewTextHandler(io.Discard, nil)))(next)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/protected", nil))

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected status %d, got %d", tc.wantStatus, rec.Code)
			}
			if tc.wantStatus == http.StatusOK && seen.ID != tc.user.ID {
				t.Fatalf("expected session user %q in context, got %q", tc.user.ID, seen.ID)
			}
		})
	}
}

func TestRequireSession(t *testing.T) {
	t.Parallel()

	called := false
	handler := RequireSession(authorizerStub{}, nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events", nil))
	if rec.Code != http.StatusUnauthorized || called {
		t.Fatalf("expected 401 without calling next, got %d (called=%v)", rec.Code, called)
	}
}

func TestRequestLoggerAndRecover(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if LoggerFromContext(r.Context()) == nil {
			t.Errorf("expected request logger in context")
		}
		panic("boom")
	})
	handler := RequestLogger(logger)(Recover(logger)(panicking))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/explode", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	out := buf.String()
	if !strings.Contains(out, "panic recovered") || !strings.Contains(out, `"status":500`) {
		t.Fatalf("expected panic and completion records, got %s", out)
	}
	if !strings.Contains(out, `"path":"/explode"`) {
		t.Fatalf("expected request attributes, got %s", out)
	}
}
