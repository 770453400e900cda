package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/calcfunding/portal/internal/domain/model"
)

// SearchSpecifications returns one page of specifications.
func (c *Client) SearchSpecifications(
	ctx context.Context,
	req model.SearchRequest,
) (model.SearchResults[model.SpecificationSummary], error) {
	var out model.SearchResults[model.SpecificationSummary]
	err := c.getJSON(ctx, "/api/specs/search", searchQuery(req), &out)
	return out, err
}

// GetSpecification returns a specification summary by id.
func (c *Client) GetSpecification(ctx context.Context, specificationID string) (model.SpecificationSummary, error) {
	var out model.SpecificationSummary
	err := c.getJSON(ctx, "/api/specs/"+url.PathEscape(specificationID), nil, &out)
	return out, err
}

// CreateSpecification creates a specification.
func (c *Client) CreateSpecification(
	ctx context.Context,
	req model.CreateSpecificationRequest,
) (model.SpecificationSummary, error) {
	var out model.SpecificationSummary
	err := c.sendJSON(ctx, http.MethodPost, "/api/specs", req, &out)
	return out, err
}

// FundingStreams lists every funding stream.
func (c *Client) FundingStreams(ctx context.Context) ([]model.FundingStream, error) {
	var out []model.FundingStream
	err := c.getJSON(ctx, "/api/policy/fundingstreams", nil, &out)
	return out, err
}

// FundingPeriods lists the periods of a funding stream.
func (c *Client) FundingPeriods(ctx context.Context, fundingStreamID string) ([]model.FundingPeriod, error) {
	var out []model.FundingPeriod
	q := url.Values{"fundingStreamId": {fundingStreamID}}
	err := c.getJSON(ctx, "/api/policy/fundingperiods", q, &out)
	return out, err
}
