package viewmodel

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calcfunding/portal/internal/domain/model"
	apperrors "github.com/calcfunding/portal/internal/errors"
	"github.com/calcfunding/portal/internal/http/validation"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name                 string
		page, size, total    int
		wantPage, start, end int
		text                 string
	}{
		{name: "first page", page: 1, size: 20, total: 45, wantPage: 1, start: 1, end: 20, text: "Showing 1–20 of 45"},
		{name: "last partial page", page: 3, size: 20, total: 45, wantPage: 3, start: 41, end: 45, text: "Showing 41–45 of 45"},
		{name: "page beyond end clamps", page: 9, size: 20, total: 45, wantPage: 3, start: 41, end: 45, text: "Showing 41–45 of 45"},
		{name: "zero page clamps", page: 0, size: 10, total: 5, wantPage: 1, start: 1, end: 5, text: "Showing 1–5 of 5"},
		{name: "default size", page: 1, size: 0, total: 25, wantPage: 1, start: 1, end: 20, text: "Showing 1–20 of 25"},
		{name: "empty", page: 2, size: 10, total: 0, wantPage: 1, text: "Showing 0 results"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, tt.size, tt.total)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.start, p.StartIndex)
			assert.Equal(t, tt.end, p.EndIndex)
			assert.Equal(t, tt.text, p.Summary)
		})
	}
}

func TestPaginationOrderingHolds(t *testing.T) {
	for total := 0; total <= 60; total += 7 {
		for page := -1; page <= 8; page++ {
			for _, size := range []int{1, 5, 20} {
				p := NewPagination(page, size, total)
				msg := fmt.Sprintf("page=%d size=%d total=%d", page, size, total)
				assert.LessOrEqual(t, p.StartIndex, p.EndIndex, msg)
				assert.LessOrEqual(t, p.EndIndex, p.TotalCount, msg)
				if total > 0 {
					assert.GreaterOrEqual(t, p.StartIndex, 1, msg)
				}
			}
		}
	}
}

func TestFromBackend(t *testing.T) {
	p := FromBackend(2, 10, 25, 11, 20)
	assert.Equal(t, "Showing 11–20 of 25", p.Text())

	short := FromBackend(3, 10, 25, 21, 24)
	assert.Equal(t, "Showing 21–24 of 25", short.Text(), "the backend may report fewer items than the page holds")

	tests := []struct {
		name                          string
		page, size, total, start, end int
		want                          string
	}{
		{"start after end", 2, 10, 25, 30, 12, "Showing 11–20 of 25"},
		{"window wider than page size", 1, 10, 100, 41, 100, "Showing 1–10 of 100"},
		{"window from another page", 2, 10, 100, 31, 40, "Showing 11–20 of 100"},
		{"end beyond total", 3, 10, 25, 21, 30, "Showing 21–25 of 25"},
		{"empty result", 1, 10, 0, 1, 10, "Showing 0 results"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := FromBackend(tt.page, tt.size, tt.total, tt.start, tt.end)
			assert.Equal(t, tt.want, p.Text())
			assert.LessOrEqual(t, p.EndIndex-p.StartIndex+1, tt.size)
		})
	}
}

func TestPagination_WithLinks(t *testing.T) {
	base, err := url.Parse("/api/specifications?searchTerm=dsg&page=2")
	require.NoError(t, err)

	p := NewPagination(2, 10, 35).WithLinks(base)
	assert.Equal(t, "/api/specifications?page=1&pageSize=10&searchTerm=dsg", p.PrevURL)
	assert.Equal(t, "/api/specifications?page=3&pageSize=10&searchTerm=dsg", p.NextURL)

	first := NewPagination(1, 10, 5).WithLinks(base)
	assert.Empty(t, first.PrevURL)
	assert.Empty(t, first.NextURL)
}

func TestTrail_ManageDataSourceFiles(t *testing.T) {
	assert.Equal(t, []Breadcrumb{
		{Name: "Calculate funding", URL: "/"},
		{Name: "Manage data", URL: "/Datasets/ManageData"},
		{Name: "Manage data source files"},
	}, Trail(PageManageDataSourceFiles))
}

func TestTrail(t *testing.T) {
	assert.Equal(t, []Breadcrumb{{Name: "Calculate funding"}}, Trail(PageHome))
	assert.Len(t, Trail(PageUploadDataSourceFile), 4)
	assert.Empty(t, Trail(Page("missing")))

	layout := NewLayout(PageCreateDataset, nil)
	assert.Equal(t, "Create dataset", layout.Title)
	assert.Len(t, layout.Breadcrumbs, 3)
	assert.True(t, layout.Errors.Empty())
}

func TestNewAction_PermissionAlwaysWins(t *testing.T) {
	states := []ActionState{{}, {Busy: true, BusyReason: "Job running"}, {NothingToDo: true}}
	for _, state := range states {
		a := NewAction("approve", "Approve", model.PermissionApproveFunding, &model.EffectivePermissions{}, state)
		assert.True(t, a.Disabled)
		assert.Equal(t, "You do not have permission to approve", a.Reason)

		nilPerms := NewAction("approve", "Approve", model.PermissionApproveFunding, nil, state)
		assert.True(t, nilPerms.Disabled)
	}
}

func TestFundingActions(t *testing.T) {
	perms := &model.EffectivePermissions{CanApproveFunding: true, CanRefreshFunding: true}

	actions := FundingActions(perms, ActionState{})
	require.Len(t, actions, 3)
	assert.False(t, actions[0].Disabled)
	assert.True(t, actions[1].Disabled, "release requires its own permission")
	assert.False(t, actions[2].Disabled)

	busy := FundingActions(perms, ActionState{Busy: true, BusyReason: "Refreshing funding"})
	assert.True(t, busy[0].Disabled)
	assert.Equal(t, "Refreshing funding", busy[0].Reason)

	data := DataActions(&model.EffectivePermissions{CanUploadDataSourceFiles: true}, ActionState{})
	assert.True(t, data[0].Disabled)
	assert.False(t, data[1].Disabled)
}

func TestErrorSummary(t *testing.T) {
	t.Run("field errors", func(t *testing.T) {
		var s ErrorSummary
		s.AddFieldErrors([]validation.FieldError{{Field: "name", Message: "Enter a dataset name"}})
		assert.Equal(t, []ErrorEntry{{Description: "Enter a dataset name", FieldName: "name"}}, s.Entries)
		assert.Equal(t, map[string]string{"name": "Enter a dataset name"}, s.FieldMessages())
	})

	t.Run("backend failures with report", func(t *testing.T) {
		var s ErrorSummary
		s.AddError(apperrors.ValidationFailures("validation failed", map[string][]string{
			"name":     {"Name already in use"},
			"filename": {"Row 3 is invalid", "Row 9 is invalid"},
		}, "https://reports.example/123"))

		assert.Equal(t, []ErrorEntry{
			{Description: "Row 3 is invalid", FieldName: "filename"},
			{Description: "Row 9 is invalid", FieldName: "filename"},
			{Description: "Name already in use", FieldName: "name"},
			{Description: "Download the error report for the full list of problems", Link: "https://reports.example/123"},
		}, s.Entries)
	})

	t.Run("business failure", func(t *testing.T) {
		var s ErrorSummary
		s.AddError(fmt.Errorf("approve: %w", apperrors.Business("No job ID was returned", "Refresh the page")))
		assert.Equal(t, []ErrorEntry{{Description: "No job ID was returned", Suggestion: "Refresh the page"}}, s.Entries)
	})

	t.Run("transport failure", func(t *testing.T) {
		var s ErrorSummary
		s.AddError(apperrors.Unavailable(errors.New("dial tcp"), "Unable to load specifications"))
		assert.Equal(t, []ErrorEntry{{Description: "Unable to load specifications", Suggestion: "Please try again later."}}, s.Entries)
	})

	t.Run("plain and cancelled errors", func(t *testing.T) {
		var s ErrorSummary
		s.AddError(errors.New("boom"))
		s.AddError(context.Canceled)
		s.AddError(nil)
		require.Len(t, s.Entries, 1)
		assert.Equal(t, "There is a problem with the service", s.Entries[0].Description)
	})
}

func TestNewJobStatus(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	failed := model.CompletionStatusFailed
	job := &model.JobDetails{
		JobID:                  "job-1",
		JobType:                model.JobTypeMapDataset,
		RunningStatus:          model.RunningStatusCompleted,
		CompletionStatus:       &failed,
		InvokerUserDisplayName: "Sam Jones",
		Outcome:                "Dataset schema mismatch",
		Created:                now.Add(-2 * time.Hour),
		LastUpdated:            now.Add(-5 * time.Minute),
	}

	view := NewJobStatus(job, now)
	require.NotNil(t, view)
	assert.Equal(t, "Mapping dataset", view.Description)
	assert.Equal(t, "Job failed", view.StatusMessage)
	assert.Equal(t, "5 minutes ago", view.LastUpdated)
	assert.Equal(t, "error", view.Severity)
	assert.True(t, view.IsFailed)
	assert.Equal(t, "Job initiated by Sam Jones on 1 March 2024 at 8:00am", view.InitiatedBy)

	assert.Nil(t, NewJobStatus(nil, now))
}
