package http

import (
	"context"
	"log/slog"

	"github.com/example/campshare/internal/application"
	"github.com/example/campshare/internal/logging"
)

type contextKey string

const sessionUserContextKey contextKey = "session_user"

// ContextWithLogger attaches a request scoped logger.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return logging.ContextWithLogger(ctx, logger)
}

// LoggerFromContext returns the request scoped logger, if any.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}

// ContextWithSessionUser returns a derived context containing the authorized session user.
func ContextWithSessionUser(ctx context.Context, user application.User) context.Context {
	return context.WithValue(ctx, sessionUserContextKey, user)
}

// SessionUserFromContext extracts the session user attached by the permission middleware.
func SessionUserFromContext(ctx context.Context) (application.User, bool) {
	user, ok := ctx.Value(sessionUserContextKey).(application.User)
	return user, ok
}
