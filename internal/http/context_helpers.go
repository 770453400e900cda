package httpx

import (
	"context"
	"log/slog"
	"net/http"

	domainauth "github.com/calcfunding/portal/internal/domain/auth"
	apperrors "github.com/calcfunding/portal/internal/errors"
)

// loggerKey is an unexported context key type to avoid collisions across packages.
type loggerKey struct{}

// WithLogger returns a child context carrying a request-scoped logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if logger == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// LoggerFrom returns the request-scoped logger, or slog.Default.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.Default()
}

// currentUser returns the authenticated identity or a forbidden error when
// the request reached a handler without one.
func currentUser(r *http.Request) (domainauth.Identity, error) {
	id, ok := domainauth.FromContext(r.Context())
	if !ok {
		return domainauth.Identity{}, apperrors.Forbidden("Sign in to continue")
	}
	return id, nil
}
