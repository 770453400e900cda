// Package service orchestrates the funding platform calls behind each portal page.
//
// Services depend on port interfaces, validate input before any backend call,
// and return *errors.AppError values the HTTP layer can render directly.
// They never import internal/http or internal/adapters.
package service

import (
	"log/slog"

	apperrors "github.com/calcfunding/portal/internal/errors"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// invalid turns field-keyed messages into a validation error the error summary can list.
func invalid(messages map[string]string) error {
	failures := make(map[string][]string, len(messages))
	for field, msg := range messages {
		failures[field] = []string{msg}
	}
	return apperrors.ValidationFailures("There is a problem", failures, "")
}

func componentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With("component", component)
}

// PageBounds normalises a requested page number and size.
func PageBounds(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	switch {
	case size <= 0:
		size = defaultPageSize
	case size > maxPageSize:
		size = maxPageSize
	}
	return page, size
}
