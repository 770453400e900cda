package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/calcfunding/portal/internal/domain/auth"
	apperrors "github.com/calcfunding/portal/internal/errors"
	obserrors "github.com/calcfunding/portal/internal/observability/errors"
	"github.com/calcfunding/portal/internal/ports"
)

// RequestIDHeader carries the correlation id echoed back to callers.
const RequestIDHeader = "X-Request-ID"

// RequestID assigns every request an id and a logger tagged with it. An
// inbound id is kept when it parses as a UUID.
func RequestID(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)
			ctx := WithLogger(r.Context(), logger.With(slog.String("request_id", id)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Logging returns a middleware that logs HTTP requests and responses.
func Logging() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			LoggerFrom(r.Context()).Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Unwrap lets http.ResponseController reach the underlying writer for flushing.
func (w *respWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// Recover returns a middleware that recovers from panics and logs them.
func Recover() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					LoggerFrom(r.Context()).Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					WriteError(w, r, apperrors.Internal("panic"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// Gate decides whether a verified identity may use the portal.
type Gate interface {
	Allows(id domainauth.Identity) bool
}

// RequireAuth verifies the bearer token and stores the identity in the
// request context. EventSource clients cannot set headers, so an
// access_token query parameter is accepted on GET requests.
func RequireAuth(verifier ports.TokenVerifier, gate Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				unauthorized(w, r, errors.New("missing bearer token"))
				return
			}
			id, err := verifier.Verify(r.Context(), raw)
			if err != nil {
				unauthorized(w, r, err)
				return
			}
			if gate != nil && !gate.Allows(id) {
				LoggerFrom(r.Context()).Warn("identity rejected by group gate",
					slog.String("user_id", id.UserID),
					slog.Int("groups", len(id.Groups)),
				)
				WriteError(w, r, apperrors.Forbidden("You do not have access to Calculate funding"))
				return
			}
			ctx := domainauth.WithIdentity(r.Context(), id)
			ctx = WithLogger(ctx, LoggerFrom(ctx).With(slog.String("user_id", id.UserID)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if r.Method == http.MethodGet {
		return r.URL.Query().Get("access_token")
	}
	return ""
}

func unauthorized(w http.ResponseWriter, r *http.Request, err error) {
	LoggerFrom(r.Context()).Debug("authentication failed",
		slog.Any("error", err),
		slog.String("error_type", obserrors.Classify(err)),
	)
	w.Header().Set("WWW-Authenticate", `Bearer realm="calculate-funding"`)
	WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
		Error:   "authentication_required",
		Message: "Sign in to continue",
	})
}
