package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/calcfunding/portal/internal/domain/model"
	"github.com/calcfunding/portal/internal/mocks"
	"github.com/calcfunding/portal/internal/ports"
)

const sampleTemplate = `{
  "schemaVersion": "1.1",
  "fundingLines": [
    {
      "templateLineId": 1,
      "name": "Total allocation",
      "fundingLineCode": "TA-001",
      "type": "Payment",
      "fundingLines": [
        {"templateLineId": 2, "name": "Pupil led", "type": "Payment", "fundingLines": [], "calculations": []}
      ],
      "calculations": [
        {"templateCalculationId": 10, "name": "Pupil count", "type": "PupilNumber", "valueFormat": "Number", "aggregationType": "Sum", "calculations": []}
      ]
    }
  ]
}`

func writeTemplate(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "template.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	if a.logger == nil {
		a.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	root := a.rootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := root.ExecuteContext(ctx)
	return out.String(), err
}

func TestTemplateTree(t *testing.T) {
	out, err := execute(t, &app{}, "template", "tree", writeTemplate(t, sampleTemplate))
	require.NoError(t, err)
	assert.Equal(t,
		"[1] Total allocation (Payment TA-001)\n"+
			"  [2] Pupil led (Payment)\n"+
			"  [3] Pupil count {PupilNumber}\n",
		out)
}

func TestTemplateValidateReportsProblems(t *testing.T) {
	path := writeTemplate(t, sampleTemplate)
	out, err := execute(t, &app{}, "template", "validate", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "problem(s) found")
	assert.Contains(t, out, path+": ")
}

func TestTemplateValidateOK(t *testing.T) {
	path := writeTemplate(t, `{"schemaVersion":"1.1","fundingLines":[{"templateLineId":1,"name":"Info","type":"Information","fundingLines":[],"calculations":[]}]}`)
	out, err := execute(t, &app{}, "template", "validate", path)
	require.NoError(t, err)
	assert.Equal(t, path+": ok (1 nodes)\n", out)
}

func TestTemplateCommandsNeedReadableFile(t *testing.T) {
	_, err := execute(t, &app{}, "template", "tree", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	_, err = execute(t, &app{}, "template", "validate", writeTemplate(t, "{not json"))
	require.ErrorContains(t, err, "decode template")

	_, err = execute(t, &app{}, "template", "validate")
	require.Error(t, err)
}

func TestWatchJobPrintsTransitionsUntilComplete(t *testing.T) {
	backend := mocks.NewMockBackend(gomock.NewController(t))
	started := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	succeeded := model.CompletionStatusSucceeded

	running := model.JobDetails{
		JobID:           "job-1",
		JobType:         model.JobTypeRefreshFunding,
		SpecificationID: "spec-1",
		RunningStatus:   model.RunningStatusInProgress,
		LastUpdated:     started,
	}
	done := running
	done.RunningStatus = model.RunningStatusCompleted
	done.CompletionStatus = &succeeded
	done.LastUpdated = started.Add(time.Minute)

	gomock.InOrder(
		backend.EXPECT().LatestJobs(gomock.Any(), gomock.Any()).Return([]model.JobDetails{running}, nil),
		backend.EXPECT().LatestJobs(gomock.Any(), gomock.Any()).Return([]model.JobDetails{done}, nil).AnyTimes(),
	)

	a := &app{jobs: func(context.Context, *slog.Logger) (ports.JobsAPI, error) { return backend, nil }}
	out, err := execute(t, a, "watch-job", "--spec", "spec-1", "--types", "RefreshFundingJob", "--interval", "10ms")
	require.NoError(t, err)
	assert.Contains(t, out, "Job in progress")
	assert.Contains(t, out, "Job completed successfully")
}

func TestWatchJobRejectsBadFilters(t *testing.T) {
	a := &app{jobs: func(context.Context, *slog.Logger) (ports.JobsAPI, error) {
		t.Fatal("backend should not be contacted")
		return nil, nil
	}}

	_, err := execute(t, a, "watch-job")
	require.Error(t, err)

	_, err = execute(t, a, "watch-job", "--spec", "s", "--types", "NotAJob")
	require.ErrorContains(t, err, "invalid JobType")

	_, err = execute(t, a, "watch-job", "--spec", "s", "--expr", "[[[")
	require.ErrorContains(t, err, "invalid filter expression")
}
