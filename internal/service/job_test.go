package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainjob "github.com/calcfunding/portal/internal/domain/job"
	"github.com/calcfunding/portal/internal/domain/model"
	apperrors "github.com/calcfunding/portal/internal/errors"
	"github.com/calcfunding/portal/internal/mocks"
)

func TestNewJobService_RequiresJobs(t *testing.T) {
	_, err := NewJobService(JobServiceOptions{})
	require.Error(t, err)
}

func TestJobService_GetJob(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)
	svc := MustNewJobService(JobServiceOptions{Jobs: backend})

	backend.EXPECT().GetJob(gomock.Any(), "job-1").Return(model.JobDetails{JobID: "job-1"}, nil)
	j, err := svc.GetJob(context.Background(), " job-1 ")
	require.NoError(t, err)
	assert.Equal(t, "job-1", j.JobID)

	_, err = svc.GetJob(context.Background(), "")
	assert.True(t, apperrors.IsValidation(err))

	backend.EXPECT().GetJob(gomock.Any(), "missing").Return(model.JobDetails{}, apperrors.NotFound("job not found"))
	_, err = svc.GetJob(context.Background(), "missing")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestJobService_WatchDeliversPriorAndPolledSnapshots(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)
	svc := MustNewJobService(JobServiceOptions{
		Jobs:   backend,
		Config: JobServiceConfig{PollInterval: 5 * time.Millisecond, MinPollInterval: time.Millisecond},
	})

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	queued := model.JobDetails{JobID: "job-1", SpecificationID: "spec-1", JobType: model.JobTypeRefreshFunding,
		RunningStatus: model.RunningStatusQueued, LastUpdated: base}
	running := queued
	running.RunningStatus = model.RunningStatusInProgress
	running.LastUpdated = base.Add(time.Second)

	gomock.InOrder(
		backend.EXPECT().LatestJobs(gomock.Any(), gomock.Any()).Return([]model.JobDetails{queued}, nil),
		backend.EXPECT().LatestJobs(gomock.Any(), gomock.Any()).Return([]model.JobDetails{running}, nil).AnyTimes(),
	)

	watch, err := svc.Watch(context.Background(), WatchRequest{
		Filter:     domainjob.Filter{SpecificationID: "spec-1"},
		FetchPrior: true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, watch.SubscriptionID())

	first := <-watch.Updates()
	assert.Equal(t, "Job in queue", first.StatusMessage)
	assert.Equal(t, domainjob.TransportPrior, first.Transport)
	second := <-watch.Updates()
	assert.Equal(t, "Job in progress", second.StatusMessage)

	watch.Close()
	for range watch.Updates() {
	}
}

func TestJobService_WatchReportsErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)
	svc := MustNewJobService(JobServiceOptions{
		Jobs:   backend,
		Config: JobServiceConfig{PollInterval: 5 * time.Millisecond, MinPollInterval: time.Millisecond},
	})
	backend.EXPECT().LatestJobs(gomock.Any(), gomock.Any()).Return(nil, errors.New("backend down")).MinTimes(1)

	watch, err := svc.Watch(context.Background(), WatchRequest{Filter: domainjob.Filter{JobID: "job-1"}})
	require.NoError(t, err)
	defer watch.Close()

	select {
	case err := <-watch.Errors():
		assert.ErrorContains(t, err, "backend down")
	case <-time.After(2 * time.Second):
		t.Fatal("expected a polling error")
	}
}

func TestJobService_WatchRejectsEmptyFilter(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := MustNewJobService(JobServiceOptions{Jobs: mocks.NewMockBackend(ctrl)})

	_, err := svc.Watch(context.Background(), WatchRequest{})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.ErrorIs(t, err, domainjob.ErrEmptyFilter)
}
