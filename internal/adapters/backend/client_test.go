package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calcfunding/portal/internal/domain/job"
	"github.com/calcfunding/portal/internal/domain/model"
	"github.com/calcfunding/portal/internal/domain/template"
	apperrors "github.com/calcfunding/portal/internal/errors"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(context.Background(), Config{BaseURL: srv.URL + "/", Client: srv.Client()})
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(context.Background(), Config{})
	require.Error(t, err)
	_, err = NewClient(context.Background(), Config{BaseURL: "not-absolute"})
	require.Error(t, err)
}

func TestLatestJobsBuildsQueryAndSkipsEmptySlots(t *testing.T) {
	updated := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/jobs/latest", r.URL.Path)
		assert.Equal(t, "spec-1", r.URL.Query().Get("specificationId"))
		assert.Equal(t, "RefreshFundingJob,CreateInstructAllocationJob", r.URL.Query().Get("jobTypes"))
		writeJSON(w, http.StatusOK, []any{
			model.JobDetails{JobID: "j1", JobType: model.JobTypeRefreshFunding, RunningStatus: model.RunningStatusInProgress, LastUpdated: updated},
			nil,
		})
	}))

	jobs, err := c.LatestJobs(context.Background(), job.Filter{
		SpecificationID: "spec-1",
		JobTypes:        []model.JobType{model.JobTypeRefreshFunding, model.JobTypeCreateInstructAllocation},
	})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "j1", jobs[0].JobID)
	assert.True(t, jobs[0].LastUpdated.Equal(updated))
}

func TestLatestJobsByJobID(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/jobs/j-9", r.URL.Path)
		writeJSON(w, http.StatusOK, model.JobDetails{JobID: "j-9", RunningStatus: model.RunningStatusQueued})
	}))
	jobs, err := c.LatestJobs(context.Background(), job.Filter{JobID: "j-9"})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "j-9", jobs[0].JobID)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   any
		check  func(t *testing.T, err error)
	}{
		{
			name:   "validation failures",
			status: http.StatusBadRequest,
			body: model.ValidationFailureResponse{
				Failures:       map[string][]string{"name": {"Name already exists"}},
				ErrorReportURL: "https://reports/1",
			},
			check: func(t *testing.T, err error) {
				appErr, ok := apperrors.As(err)
				require.True(t, ok)
				assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
				assert.Equal(t, []string{"Name already exists"}, appErr.Failures["name"])
				assert.Equal(t, "https://reports/1", appErr.ReportURL)
			},
		},
		{
			name:   "not found",
			status: http.StatusNotFound,
			body:   map[string]string{},
			check:  func(t *testing.T, err error) { assert.True(t, apperrors.IsNotFound(err)) },
		},
		{
			name:   "forbidden",
			status: http.StatusForbidden,
			body:   map[string]string{},
			check:  func(t *testing.T, err error) { assert.Equal(t, apperrors.ErrCodeForbidden, apperrors.GetCode(err)) },
		},
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			body:   map[string]string{"message": "boom"},
			check:  func(t *testing.T, err error) { assert.True(t, apperrors.IsInternal(err)) },
		},
		{
			name:   "gateway",
			status: http.StatusBadGateway,
			body:   map[string]string{},
			check:  func(t *testing.T, err error) { assert.Equal(t, apperrors.ErrCodeUnavailable, apperrors.GetCode(err)) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, tt.status, tt.body)
			}))
			_, err := c.GetSpecification(context.Background(), "spec-1")
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestTransportFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewClient(context.Background(), Config{BaseURL: url, Timeout: time.Second})
	require.NoError(t, err)
	_, err = c.FundingStreams(context.Background())
	assert.Equal(t, apperrors.ErrCodeUnavailable, apperrors.GetCode(err))
}

func TestFundingActionRequiresJobID(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		switch r.URL.Path {
		case "/api/specs/spec-1/funding/approve":
			writeJSON(w, http.StatusOK, model.JobCreatedResponse{JobID: "job-1"})
		default:
			writeJSON(w, http.StatusOK, model.JobCreatedResponse{})
		}
	}))

	resp, err := c.ApproveFunding(context.Background(), "spec-1")
	require.NoError(t, err)
	assert.Equal(t, "job-1", resp.JobID)

	_, err = c.ReleaseFunding(context.Background(), "spec-1")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeBusiness, apperrors.GetCode(err))
	assert.Contains(t, err.Error(), "no job ID returned")
}

func TestUploadDataSourceFileSendsMultipart(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/datasets/datasource-files", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Pupil numbers", r.FormValue("name"))
		assert.Equal(t, "def-1", r.FormValue("datasetDefinitionId"))
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		body, _ := io.ReadAll(f)
		assert.Equal(t, "pupils.xlsx", hdr.Filename)
		assert.Equal(t, "sheet-bytes", string(body))
		writeJSON(w, http.StatusOK, model.UploadDataSourceFileResponse{DatasetID: "ds-1", JobID: "job-2"})
	}))

	resp, err := c.UploadDataSourceFile(context.Background(), model.UploadDataSourceFileRequest{
		Filename:            "pupils.xlsx",
		DatasetDefinitionID: "def-1",
		FundingStreamID:     "DSG",
		Name:                "Pupil numbers",
		Description:         "October census",
	}, strings.NewReader("sheet-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "ds-1", resp.DatasetID)
	assert.Equal(t, "job-2", resp.JobID)
}

func TestSearchDataSourceFilesQuery(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("pageNumber"))
		assert.Equal(t, "50", q.Get("pageSize"))
		assert.Equal(t, "pupil", q.Get("searchTerm"))
		assert.Equal(t, []string{"DSG", "PSG"}, q["fundingStreamId"])
		writeJSON(w, http.StatusOK, model.SearchResults[model.DataSourceFile]{
			Items:      []model.DataSourceFile{{ID: "f1", Name: "Pupils"}},
			TotalCount: 51,
		})
	}))
	res, err := c.SearchDataSourceFiles(context.Background(), model.SearchRequest{
		PageNumber: 2,
		PageSize:   50,
		SearchTerm: "pupil",
		Filters:    map[string][]string{"fundingStreamId": {"DSG", "PSG"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 51, res.TotalCount)
	assert.Equal(t, "Pupils", res.Items[0].Name)
}

func TestSchemaDownloadURLMissing(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, model.SchemaDownload{})
	}))
	_, err := c.SchemaDownloadURL(context.Background(), "def-1")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUpdateTemplateContent(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/templates/t-1/content", r.URL.Path)
		var got template.Template
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "1.2", got.SchemaVersion)
		require.Len(t, got.FundingLines, 1)
		w.WriteHeader(http.StatusNoContent)
	}))
	err := c.UpdateTemplateContent(context.Background(), "t-1", template.Template{
		SchemaVersion: "1.2",
		FundingLines:  []template.FundingLine{{TemplateLineID: 1, Name: "Total"}},
	})
	require.NoError(t, err)
}

func TestEffectivePermissions(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/u-1/permissions/spec-1", r.URL.Path)
		writeJSON(w, http.StatusOK, model.EffectivePermissions{SpecificationID: "spec-1", CanApproveFunding: true})
	}))
	perms, err := c.EffectivePermissions(context.Background(), "u-1", "spec-1")
	require.NoError(t, err)
	assert.True(t, perms.Has(model.PermissionApproveFunding))
	assert.False(t, perms.Has(model.PermissionReleaseFunding))
}
