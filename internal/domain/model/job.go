// Package model defines the funding platform data types the portal reads from the backend.
package model

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// JobType identifies the kind of server-side work a job performs.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type JobType string

const (
	JobTypeRefreshFunding                        JobType = "RefreshFundingJob"
	JobTypeApproveAllProviderFunding             JobType = "ApproveAllProviderFundingJob"
	JobTypeApproveBatchProviderFunding           JobType = "ApproveBatchProviderFundingJob"
	JobTypePublishAllProviderFunding             JobType = "PublishAllProviderFundingJob"
	JobTypePublishBatchProviderFunding           JobType = "PublishBatchProviderFundingJob"
	JobTypeReleaseProvidersToChannels            JobType = "ReleaseProvidersToChannelsJob"
	JobTypeRunSQLImport                          JobType = "RunSqlImportJob"
	JobTypeReIndexPublishedProviders             JobType = "ReIndexPublishedProvidersJob"
	JobTypeReIndexSpecificationCalcRelationships JobType = "ReIndexSpecificationCalculationRelationshipsJob"
	JobTypeCreateSpecification                   JobType = "CreateSpecificationJob"
	JobTypeAssignTemplateCalculations            JobType = "AssignTemplateCalculationsJob"
	JobTypeMapDataset                            JobType = "MapDatasetJob"
	JobTypeValidateDataset                       JobType = "ValidateDatasetJob"
	JobTypeCreateInstructAllocation              JobType = "CreateInstructAllocationJob"
	JobTypeGenerateGraphAndInstructAllocation    JobType = "GenerateGraphAndInstructAllocationJob"
	JobTypePopulateScopedProviders               JobType = "PopulateScopedProvidersJob"
)

//nolint:gochecknoglobals // static read-only lookup
var jobTypeDescriptions = map[JobType]string{
	JobTypeRefreshFunding:                        "Refreshing funding",
	JobTypeApproveAllProviderFunding:             "Approving funding",
	JobTypeApproveBatchProviderFunding:           "Approving batch funding",
	JobTypePublishAllProviderFunding:             "Releasing funding",
	JobTypePublishBatchProviderFunding:           "Releasing batch funding",
	JobTypeReleaseProvidersToChannels:            "Releasing providers to channels",
	JobTypeRunSQLImport:                          "Pushing data to SQL",
	JobTypeReIndexPublishedProviders:             "Re-indexing published providers",
	JobTypeReIndexSpecificationCalcRelationships: "Re-indexing calculation relationships",
	JobTypeCreateSpecification:                   "Creating specification",
	JobTypeAssignTemplateCalculations:            "Assigning template calculations",
	JobTypeMapDataset:                            "Mapping dataset",
	JobTypeValidateDataset:                       "Validating data source",
	JobTypeCreateInstructAllocation:              "Calculating",
	JobTypeGenerateGraphAndInstructAllocation:    "Calculating",
	JobTypePopulateScopedProviders:               "Refreshing scoped providers",
}

// AllJobTypes returns every known job type in a stable order.
func AllJobTypes() []JobType {
	out := make([]JobType, 0, len(jobTypeDescriptions))
	for t := range jobTypeDescriptions {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// Valid returns true if the JobType is known.
func (t JobType) Valid() bool {
	_, ok := jobTypeDescriptions[t]
	return ok
}

// Description returns the human readable label used in status messages.
func (t JobType) Description() string {
	if d, ok := jobTypeDescriptions[t]; ok {
		return d
	}
	return "Background job"
}

// UnmarshalText implements encoding.TextUnmarshaler for JobType to allow env and query parsing.
func (t *JobType) UnmarshalText(text []byte) error {
	jt := JobType(strings.TrimSpace(string(text)))
	if jt.Valid() {
		*t = jt
		return nil
	}
	return fmt.Errorf("invalid JobType: %q", string(text))
}

// ParseJobTypes parses a comma separated list of job types, skipping blanks.
func ParseJobTypes(raw string) ([]JobType, error) {
	var out []JobType
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		var jt JobType
		if err := jt.UnmarshalText([]byte(part)); err != nil {
			return nil, err
		}
		if !slices.Contains(out, jt) {
			out = append(out, jt)
		}
	}
	return out, nil
}

// RunningStatus is the lifecycle position of a job as reported by the job service.
type RunningStatus string

const (
	RunningStatusQueued            RunningStatus = "Queued"
	RunningStatusQueuedWithService RunningStatus = "QueuedWithService"
	RunningStatusInProgress        RunningStatus = "InProgress"
	RunningStatusCompleting        RunningStatus = "Completing"
	RunningStatusCompleted         RunningStatus = "Completed"
)

// Rank orders running statuses along the lifecycle; unknown statuses rank lowest.
func (s RunningStatus) Rank() int {
	switch s {
	case RunningStatusQueued, RunningStatusQueuedWithService:
		return 1
	case RunningStatusInProgress:
		return 2
	case RunningStatusCompleting:
		return 3
	case RunningStatusCompleted:
		return 4
	default:
		return 0
	}
}

// Valid returns true if the RunningStatus is known.
func (s RunningStatus) Valid() bool { return s.Rank() > 0 }

// CompletionStatus is set once a job reaches a terminal state.
type CompletionStatus string

const (
	CompletionStatusSucceeded  CompletionStatus = "Succeeded"
	CompletionStatusFailed     CompletionStatus = "Failed"
	CompletionStatusTimedOut   CompletionStatus = "TimedOut"
	CompletionStatusCancelled  CompletionStatus = "Cancelled"
	CompletionStatusSuperseded CompletionStatus = "Superseded"
)

// JobTrigger describes the entity whose change caused the job to be queued.
type JobTrigger struct {
	EntityID   string `json:"entityId,omitempty"`
	EntityType string `json:"entityType,omitempty"`
	Message    string `json:"message,omitempty"`
}

// JobDetails is a read-only snapshot of a server-side job.
type JobDetails struct {
	JobID                  string            `json:"jobId"`
	JobType                JobType           `json:"jobType"`
	SpecificationID        string            `json:"specificationId,omitempty"`
	RunningStatus          RunningStatus     `json:"runningStatus"`
	CompletionStatus       *CompletionStatus `json:"completionStatus,omitempty"`
	InvokerUserDisplayName string            `json:"invokerUserDisplayName,omitempty"`
	InvokerUserID          string            `json:"invokerUserId,omitempty"`
	Trigger                *JobTrigger       `json:"trigger,omitempty"`
	ParentJobID            string            `json:"parentJobId,omitempty"`
	Outcome                string            `json:"outcome,omitempty"`
	Created                time.Time         `json:"created"`
	LastUpdated            time.Time         `json:"lastUpdated"`
}

// IsComplete reports whether the job reached its terminal running status.
func (j *JobDetails) IsComplete() bool {
	return j != nil && j.RunningStatus == RunningStatusCompleted
}

// IsActive reports whether the job is still queued or running.
func (j *JobDetails) IsActive() bool {
	return j != nil && !j.IsComplete()
}

// IsSuccessful reports whether the job completed with a Succeeded status.
func (j *JobDetails) IsSuccessful() bool {
	return j.IsComplete() && j.CompletionStatus != nil && *j.CompletionStatus == CompletionStatusSucceeded
}

// IsFailed reports whether the job completed with any non-success status.
func (j *JobDetails) IsFailed() bool {
	return j.IsComplete() && !j.IsSuccessful()
}

// StatusDescription renders the job's position as the message shown to users.
func (j *JobDetails) StatusDescription() string {
	if j == nil {
		return ""
	}
	switch j.RunningStatus {
	case RunningStatusQueued, RunningStatusQueuedWithService:
		return "Job in queue"
	case RunningStatusInProgress:
		return "Job in progress"
	case RunningStatusCompleting:
		return "Completing job"
	case RunningStatusCompleted:
		if j.CompletionStatus == nil {
			return "Job completed"
		}
		switch *j.CompletionStatus {
		case CompletionStatusSucceeded:
			return "Job completed successfully"
		case CompletionStatusTimedOut:
			return "Job timed out"
		case CompletionStatusCancelled:
			return "Job cancelled"
		case CompletionStatusSuperseded:
			return "Job superseded"
		default:
			return "Job failed"
		}
	default:
		return "Job status unknown"
	}
}

// Newer reports whether j supersedes other. Later LastUpdated wins; equal
// timestamps fall back to the lifecycle rank so a Completed snapshot is never
// replaced by an InProgress one carrying the same time.
func (j *JobDetails) Newer(other *JobDetails) bool {
	if j == nil {
		return false
	}
	if other == nil {
		return true
	}
	if !j.LastUpdated.Equal(other.LastUpdated) {
		return j.LastUpdated.After(other.LastUpdated)
	}
	return j.RunningStatus.Rank() > other.RunningStatus.Rank()
}

// Clone returns a deep copy so callers can hand snapshots out without sharing pointers.
func (j *JobDetails) Clone() *JobDetails {
	if j == nil {
		return nil
	}
	out := *j
	if j.CompletionStatus != nil {
		cs := *j.CompletionStatus
		out.CompletionStatus = &cs
	}
	if j.Trigger != nil {
		tr := *j.Trigger
		out.Trigger = &tr
	}
	return &out
}

// JobCreatedResponse is returned by backend actions that queue a job.
type JobCreatedResponse struct {
	JobID string `json:"jobId"`
}
