package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "error without cause",
			err:  &AppError{Code: ErrCodeNotFound, Message: "specification not found"},
			want: "specification not found",
		},
		{
			name: "error with cause",
			err: &AppError{
				Code:    ErrCodeUnavailable,
				Message: "fetch jobs",
				Cause:   errors.New("connection refused"),
			},
			want: "fetch jobs: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(cause, ErrCodeInternal, "wrapped error")
	require.ErrorIs(t, err, cause)
}

func TestWrap_NilError(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "ignored"))
}

func TestConstructorsSetCodes(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		code ErrorCode
	}{
		{"not found", NotFound("x"), ErrCodeNotFound},
		{"not foundf", NotFoundf("job %s", "1"), ErrCodeNotFound},
		{"conflict", Conflict("x"), ErrCodeConflict},
		{"validation", Validation("x"), ErrCodeValidation},
		{"validationf", Validationf("%d", 1), ErrCodeValidation},
		{"forbidden", Forbidden("x"), ErrCodeForbidden},
		{"business", Business("x", "y"), ErrCodeBusiness},
		{"unavailable", Unavailable(errors.New("down"), "x"), ErrCodeUnavailable},
		{"internal", Internal("x"), ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.code, GetCode(fmt.Errorf("outer: %w", tt.err)))
		})
	}
}

func TestIsHelpers(t *testing.T) {
	tests := []struct {
		name string
		is   func(error) bool
		hit  error
		miss error
	}{
		{"not found", IsNotFound, NotFound("x"), Conflict("x")},
		{"conflict", IsConflict, Conflict("x"), NotFound("x")},
		{"validation", IsValidation, ValidationField("name", "x"), Internal("x")},
		{"internal", IsInternal, Internal("x"), Validation("x")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.is(fmt.Errorf("outer: %w", tt.hit)), "helpers must see through wrapping")
			assert.False(t, tt.is(tt.miss))
			assert.False(t, tt.is(errors.New("plain")))
			assert.False(t, tt.is(nil))
		})
	}
	assert.Equal(t, ErrorCode(""), GetCode(errors.New("plain")))
}

func TestValidationField(t *testing.T) {
	err := ValidationField("datasetName", "Enter a dataset name")
	assert.Equal(t, "datasetName", err.Field)
	assert.Equal(t, ErrCodeValidation, GetCode(err))
}

func TestValidationFailures(t *testing.T) {
	failures := map[string][]string{"file": {"Row 3 is missing a UKPRN"}}
	err := ValidationFailures("validation failed", failures, "https://blob/report.xlsx")

	appErr, ok := As(fmt.Errorf("upload: %w", err))
	require.True(t, ok)
	assert.Equal(t, failures, appErr.Failures)
	assert.Equal(t, "https://blob/report.xlsx", appErr.ReportURL)
}

func TestUnavailableCarriesSuggestion(t *testing.T) {
	err := Unavailable(errors.New("dial tcp"), "load specifications")
	assert.NotEmpty(t, err.Suggestion)
	assert.Equal(t, "load specifications: dial tcp", err.Error())
}
