// Package errors turns arbitrary errors into low-cardinality labels for logs and metrics.
package errors

import (
	"context"
	goerrors "errors"
	"net"
	"reflect"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/calcfunding/portal/internal/errors"
)

var pgLabels = map[string]string{
	pgerrcode.InsufficientPrivilege:             "pg_insufficient_privilege",
	pgerrcode.InvalidParameterValue:             "pg_invalid_parameter_value",
	pgerrcode.AdminShutdown:                     "pg_admin_shutdown",
	pgerrcode.CrashShutdown:                     "pg_crash_shutdown",
	pgerrcode.CannotConnectNow:                  "pg_cannot_connect_now",
	pgerrcode.TooManyConnections:                "pg_too_many_connections",
	pgerrcode.QueryCanceled:                     "pg_query_canceled",
	pgerrcode.InvalidPassword:                   "pg_invalid_password",
	pgerrcode.InvalidAuthorizationSpecification: "pg_invalid_authorization",
}

// classifyPg labels Postgres server errors by SQLSTATE, falling back to the
// error class and then to the raw code.
func classifyPg(code string) string {
	if label, ok := pgLabels[code]; ok {
		return label
	}
	switch {
	case pgerrcode.IsConnectionException(code):
		return "pg_connection_exception"
	case pgerrcode.IsOperatorIntervention(code):
		return "pg_operator_intervention"
	case pgerrcode.IsInsufficientResources(code):
		return "pg_insufficient_resources"
	case pgerrcode.IsDataException(code):
		return "pg_data_exception"
	case pgerrcode.IsSyntaxErrororAccessRuleViolation(code):
		return "pg_syntax_or_access"
	}
	return "pg_" + strings.ToLower(code)
}

// Classify returns a stable error_type label. Application errors are labelled
// by code, Postgres errors by SQLSTATE, context and network failures by kind,
// and anything else by the innermost concrete type in snake case.
func Classify(err error) string {
	if err == nil {
		return ""
	}
	if appErr, ok := apperrors.As(err); ok && appErr.Code != "" {
		return "app_" + string(appErr.Code)
	}
	switch {
	case goerrors.Is(err, context.Canceled):
		return "canceled"
	case goerrors.Is(err, context.DeadlineExceeded):
		return "timeout"
	}
	var pgErr *pgconn.PgError
	if goerrors.As(err, &pgErr) {
		return classifyPg(pgErr.Code)
	}
	var netErr net.Error
	if goerrors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}

	for {
		next := goerrors.Unwrap(err)
		if next == nil {
			break
		}
		err = next
	}
	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.String() == "" {
		return "unknown"
	}
	return strings.ToLower(strings.ReplaceAll(t.String(), ".", "_"))
}
