package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/calcfunding/portal/internal/errors"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", apperrors.Validation("bad"), http.StatusBadRequest},
		{"wrapped not found", fmt.Errorf("get: %w", apperrors.NotFound("gone")), http.StatusNotFound},
		{"forbidden", apperrors.Forbidden("no"), http.StatusForbidden},
		{"conflict", apperrors.Conflict("dup"), http.StatusConflict},
		{"business", apperrors.Business("no job ID returned", ""), http.StatusUnprocessableEntity},
		{"unavailable", apperrors.Unavailable(errors.New("dial"), "down"), http.StatusBadGateway},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"canceled", context.Canceled, statusClientClosedRequest},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestNewErrorResponse(t *testing.T) {
	t.Run("internal details are hidden", func(t *testing.T) {
		resp := NewErrorResponse(errors.New("pq: connection refused"))
		assert.Equal(t, "internal", resp.Error)
		assert.Equal(t, "There is a problem with the service", resp.Message)
		assert.NotContains(t, resp.Message, "pq")
	})

	t.Run("backend failures become field messages and a report link", func(t *testing.T) {
		err := apperrors.ValidationFailures("The request contains errors",
			map[string][]string{"name": {"Name already in use"}}, "https://reports/1")
		resp := NewErrorResponse(err)
		assert.Equal(t, "validation", resp.Error)
		assert.Equal(t, map[string]string{"name": "Name already in use"}, resp.FieldErrors)
		last := resp.Summary.Entries[len(resp.Summary.Entries)-1]
		assert.Equal(t, "https://reports/1", last.Link)
	})
}
