package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/calcfunding/portal/internal/errors"
	"github.com/calcfunding/portal/internal/http/ui/viewmodel"
	obserrors "github.com/calcfunding/portal/internal/observability/errors"
)

// statusClientClosedRequest is the non-standard status logged when the caller disconnects.
const statusClientClosedRequest = 499

// ErrorResponse is the body of every failed API call. Summary drives the
// page's error summary and FieldErrors its inline messages.
type ErrorResponse struct {
	Error       string                 `json:"error"`
	Message     string                 `json:"message"`
	Summary     viewmodel.ErrorSummary `json:"summary"`
	FieldErrors map[string]string      `json:"fieldErrors,omitempty"`
}

// StatusFor maps an error to the HTTP status the API answers with.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeValidation:
		return http.StatusBadRequest
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeForbidden:
		return http.StatusForbidden
	case apperrors.ErrCodeConflict:
		return http.StatusConflict
	case apperrors.ErrCodeBusiness:
		return http.StatusUnprocessableEntity
	case apperrors.ErrCodeUnavailable:
		return http.StatusBadGateway
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case apperrors.ErrCodeCanceled:
		return statusClientClosedRequest
	default:
		return http.StatusInternalServerError
	}
}

// NewErrorResponse builds the response body for err.
func NewErrorResponse(err error) ErrorResponse {
	summary := viewmodel.ErrorSummary{Entries: []viewmodel.ErrorEntry{}}
	summary.AddError(err)

	resp := ErrorResponse{
		Error:   "internal",
		Message: "There is a problem with the service",
		Summary: summary,
	}
	if appErr, ok := apperrors.As(err); ok {
		resp.Error = string(appErr.Code)
		if !apperrors.IsInternal(err) {
			resp.Message = appErr.Message
		}
	}
	if fields := summary.FieldMessages(); len(fields) > 0 {
		resp.FieldErrors = fields
	}
	return resp
}

// WriteError renders err as JSON. Server-side failures are logged with their
// classification; client errors are not.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status == statusClientClosedRequest {
		w.WriteHeader(status)
		return
	}
	if status >= http.StatusInternalServerError {
		LoggerFrom(r.Context()).ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.Int("status", status),
			slog.Any("error", err),
			slog.String("error_type", obserrors.Classify(err)),
		)
	}
	WriteJSON(w, status, NewErrorResponse(err))
}
