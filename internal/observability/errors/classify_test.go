package errors

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/calcfunding/portal/internal/errors"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"app error", fmt.Errorf("load: %w", apperrors.NotFound("missing")), "app_not_found"},
		{"canceled", fmt.Errorf("poll: %w", context.Canceled), "canceled"},
		{"deadline", context.DeadlineExceeded, "timeout"},
		{"path error", &os.PathError{Op: "open", Path: "x", Err: errors.New("boom")}, "errors_errorstring"},
		{"plain", errors.New("boom"), "errors_errorstring"},
		{"pg privilege", fmt.Errorf("listen: %w", &pgconn.PgError{Code: pgerrcode.InsufficientPrivilege}), "pg_insufficient_privilege"},
		{"pg payload too long", &pgconn.PgError{Code: pgerrcode.InvalidParameterValue}, "pg_invalid_parameter_value"},
		{"pg admin shutdown", &pgconn.PgError{Code: pgerrcode.AdminShutdown}, "pg_admin_shutdown"},
		{"pg connection class", &pgconn.PgError{Code: pgerrcode.ConnectionFailure}, "pg_connection_exception"},
		{"pg data class", &pgconn.PgError{Code: pgerrcode.NumericValueOutOfRange}, "pg_data_exception"},
		{"pg other", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, "pg_23505"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}
