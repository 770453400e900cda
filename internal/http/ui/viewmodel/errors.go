package viewmodel

import (
	"context"
	"errors"
	"sort"

	apperrors "github.com/calcfunding/portal/internal/errors"
	"github.com/calcfunding/portal/internal/http/validation"
)

// ErrorEntry is one line of a page's error summary. FieldName links the entry
// to an inline message; Link points at an external report.
type ErrorEntry struct {
	Description string `json:"description"`
	Suggestion  string `json:"suggestion,omitempty"`
	FieldName   string `json:"fieldName,omitempty"`
	Link        string `json:"link,omitempty"`
}

// ErrorSummary collects everything that went wrong on a page.
type ErrorSummary struct {
	Entries []ErrorEntry `json:"entries"`
}

// Empty reports whether there is nothing to show.
func (s *ErrorSummary) Empty() bool { return len(s.Entries) == 0 }

// Add appends an entry.
func (s *ErrorSummary) Add(entry ErrorEntry) {
	s.Entries = append(s.Entries, entry)
}

// AddFieldErrors appends inline form messages in form order.
func (s *ErrorSummary) AddFieldErrors(fieldErrors []validation.FieldError) {
	for _, fe := range fieldErrors {
		s.Add(ErrorEntry{Description: fe.Message, FieldName: fe.Field})
	}
}

// AddError converts err into entries. Validation failures reported by the
// backend become one entry per message, followed by a report link when
// present. Cancellation produces nothing.
func (s *ErrorSummary) AddError(err error) {
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}

	appErr, ok := apperrors.As(err)
	if !ok {
		s.Add(ErrorEntry{
			Description: "There is a problem with the service",
			Suggestion:  "Please try again later.",
		})
		return
	}

	switch appErr.Code {
	case apperrors.ErrCodeValidation:
		if len(appErr.Failures) == 0 {
			s.Add(ErrorEntry{Description: appErr.Message, FieldName: appErr.Field})
			break
		}
		fields := make([]string, 0, len(appErr.Failures))
		for field := range appErr.Failures {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			for _, msg := range appErr.Failures[field] {
				s.Add(ErrorEntry{Description: msg, FieldName: field})
			}
		}
	case apperrors.ErrCodeInternal:
		s.Add(ErrorEntry{
			Description: "There is a problem with the service",
			Suggestion:  "Please try again later.",
		})
	default:
		s.Add(ErrorEntry{
			Description: appErr.Message,
			Suggestion:  appErr.Suggestion,
			FieldName:   appErr.Field,
		})
	}

	if appErr.ReportURL != "" {
		s.Add(ErrorEntry{
			Description: "Download the error report for the full list of problems",
			Link:        appErr.ReportURL,
		})
	}
}

// FieldMessages flattens field-linked entries into inline messages, first
// message per field.
func (s *ErrorSummary) FieldMessages() map[string]string {
	out := make(map[string]string)
	for _, e := range s.Entries {
		if e.FieldName == "" {
			continue
		}
		if _, ok := out[e.FieldName]; !ok {
			out[e.FieldName] = e.Description
		}
	}
	return out
}
