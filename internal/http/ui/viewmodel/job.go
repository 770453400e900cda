package viewmodel

import (
	"time"

	"github.com/calcfunding/portal/internal/domain/model"
	"github.com/calcfunding/portal/internal/http/uiutil"
)

// JobStatus is the job banner shown while background work runs.
type JobStatus struct {
	JobID         string `json:"jobId"`
	JobType       string `json:"jobType"`
	Description   string `json:"description"`
	StatusMessage string `json:"statusMessage"`
	Outcome       string `json:"outcome,omitempty"`
	InitiatedBy   string `json:"initiatedBy"`
	LastUpdated   string `json:"lastUpdated"`
	IsActive      bool   `json:"isActive"`
	IsComplete    bool   `json:"isComplete"`
	IsSuccessful  bool   `json:"isSuccessful"`
	IsFailed      bool   `json:"isFailed"`
	// Severity is one of info, success or error.
	Severity string `json:"severity"`
}

// NewJobStatus renders job relative to now. A nil job yields nil.
func NewJobStatus(job *model.JobDetails, now time.Time) *JobStatus {
	if job == nil {
		return nil
	}
	severity := "info"
	switch {
	case job.IsSuccessful():
		severity = "success"
	case job.IsFailed():
		severity = "error"
	}
	return &JobStatus{
		JobID:         job.JobID,
		JobType:       string(job.JobType),
		Description:   job.JobType.Description(),
		StatusMessage: job.StatusDescription(),
		Outcome:       job.Outcome,
		InitiatedBy:   uiutil.JobInitiatedBy(job.InvokerUserDisplayName, job.Created),
		LastUpdated:   uiutil.RelativeTime(job.LastUpdated, now),
		IsActive:      job.IsActive(),
		IsComplete:    job.IsComplete(),
		IsSuccessful:  job.IsSuccessful(),
		IsFailed:      job.IsFailed(),
		Severity:      severity,
	}
}
