package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/calcfunding/portal/internal/domain/model"
	apperrors "github.com/calcfunding/portal/internal/errors"
)

// ApproveFunding queues an approval of the specification's funding.
func (c *Client) ApproveFunding(ctx context.Context, specificationID string) (model.JobCreatedResponse, error) {
	return c.fundingAction(ctx, specificationID, "approve")
}

// ReleaseFunding queues a release of the specification's funding.
func (c *Client) ReleaseFunding(ctx context.Context, specificationID string) (model.JobCreatedResponse, error) {
	return c.fundingAction(ctx, specificationID, "release")
}

// RefreshFunding queues a refresh of the specification's funding.
func (c *Client) RefreshFunding(ctx context.Context, specificationID string) (model.JobCreatedResponse, error) {
	return c.fundingAction(ctx, specificationID, "refresh")
}

func (c *Client) fundingAction(ctx context.Context, specificationID, action string) (model.JobCreatedResponse, error) {
	var out model.JobCreatedResponse
	path := "/api/specs/" + url.PathEscape(specificationID) + "/funding/" + action
	if err := c.sendJSON(ctx, http.MethodPost, path, nil, &out); err != nil {
		return out, err
	}
	if out.JobID == "" {
		return out, apperrors.Business("no job ID returned", "Please try again later.")
	}
	return out, nil
}
