package backend

import (
	"context"
	"net/url"
	"strings"

	"github.com/calcfunding/portal/internal/domain/job"
	"github.com/calcfunding/portal/internal/domain/model"
)

// LatestJobs returns the most recent job snapshots for the filter's criteria.
// A filter naming a job id fetches that job directly.
func (c *Client) LatestJobs(ctx context.Context, filter job.Filter) ([]model.JobDetails, error) {
	if filter.JobID != "" {
		j, err := c.GetJob(ctx, filter.JobID)
		if err != nil {
			return nil, err
		}
		return []model.JobDetails{j}, nil
	}

	q := url.Values{}
	if filter.SpecificationID != "" {
		q.Set("specificationId", filter.SpecificationID)
	}
	if filter.TriggerByEntityID != "" {
		q.Set("entityId", filter.TriggerByEntityID)
	}
	if len(filter.JobTypes) > 0 {
		types := make([]string, len(filter.JobTypes))
		for i, jt := range filter.JobTypes {
			types[i] = string(jt)
		}
		q.Set("jobTypes", strings.Join(types, ","))
	}

	// The endpoint returns one slot per requested job type, null when none exist.
	var raw []*model.JobDetails
	if err := c.getJSON(ctx, "/api/jobs/latest", q, &raw); err != nil {
		return nil, err
	}
	out := make([]model.JobDetails, 0, len(raw))
	for _, j := range raw {
		if j != nil && j.JobID != "" {
			out = append(out, *j)
		}
	}
	return out, nil
}

// GetJob returns one job snapshot.
func (c *Client) GetJob(ctx context.Context, jobID string) (model.JobDetails, error) {
	var out model.JobDetails
	err := c.getJSON(ctx, "/api/jobs/"+url.PathEscape(jobID), nil, &out)
	return out, err
}
