package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/calcfunding/portal/internal/domain/model"
	"github.com/calcfunding/portal/internal/ports"
)

// maxPeriodFetches bounds concurrent funding period lookups.
const maxPeriodFetches = 4

// SpecificationServiceOptions groups dependencies for SpecificationService.
type SpecificationServiceOptions struct {
	Backend ports.SpecificationsAPI // Required
	Logger  *slog.Logger
}

// SpecificationService backs specification search and the create page.
type SpecificationService struct {
	backend ports.SpecificationsAPI
	group   singleflight.Group
	logger  *slog.Logger
}

// NewSpecificationService constructs a SpecificationService.
func NewSpecificationService(opts SpecificationServiceOptions) (*SpecificationService, error) {
	if opts.Backend == nil {
		return nil, errors.New("SpecificationsAPI is required")
	}
	return &SpecificationService{
		backend: opts.Backend,
		logger:  componentLogger(opts.Logger, "specification_service"),
	}, nil
}

// SpecificationQuery is the specification search page request.
type SpecificationQuery struct {
	Page           int
	PageSize       int
	SearchTerm     string
	FundingPeriods []string
	FundingStreams []string
	Status         []string
}

// Search returns one page of specifications with facets.
func (s *SpecificationService) Search(
	ctx context.Context,
	q SpecificationQuery,
) (model.SearchResults[model.SpecificationSummary], error) {
	page, size := PageBounds(q.Page, q.PageSize)
	req := model.SearchRequest{
		PageNumber: page,
		PageSize:   size,
		SearchTerm: strings.TrimSpace(q.SearchTerm),
		Filters:    map[string][]string{},
	}
	for key, vals := range map[string][]string{
		"fundingPeriodName":  q.FundingPeriods,
		"fundingStreamNames": q.FundingStreams,
		"status":             q.Status,
	} {
		if len(vals) > 0 {
			req.Filters[key] = vals
		}
	}
	res, err := s.backend.SearchSpecifications(ctx, req)
	if err != nil {
		return res, fmt.Errorf("search specifications: %w", err)
	}
	return res, nil
}

// Get returns a specification summary.
func (s *SpecificationService) Get(ctx context.Context, specificationID string) (model.SpecificationSummary, error) {
	spec, err := s.backend.GetSpecification(ctx, specificationID)
	if err != nil {
		return spec, fmt.Errorf("get specification %s: %w", specificationID, err)
	}
	return spec, nil
}

// Create validates req and creates the specification.
func (s *SpecificationService) Create(
	ctx context.Context,
	req model.CreateSpecificationRequest,
) (model.SpecificationSummary, error) {
	messages, err := req.Validate()
	if err != nil {
		return model.SpecificationSummary{}, fmt.Errorf("validate specification: %w", err)
	}
	if len(messages) > 0 {
		return model.SpecificationSummary{}, invalid(messages)
	}
	spec, err := s.backend.CreateSpecification(ctx, req)
	if err != nil {
		return spec, fmt.Errorf("create specification: %w", err)
	}
	s.logger.InfoContext(ctx, "specification created", "specification_id", spec.ID)
	return spec, nil
}

// FundingStreams lists funding streams. Concurrent callers share one backend call.
func (s *SpecificationService) FundingStreams(ctx context.Context) ([]model.FundingStream, error) {
	v, err, _ := s.group.Do("funding_streams", func() (any, error) {
		return s.backend.FundingStreams(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("funding streams: %w", err)
	}
	return v.([]model.FundingStream), nil
}

// FundingPeriods lists a stream's periods. Concurrent callers share one backend call.
func (s *SpecificationService) FundingPeriods(ctx context.Context, fundingStreamID string) ([]model.FundingPeriod, error) {
	v, err, _ := s.group.Do("funding_periods:"+fundingStreamID, func() (any, error) {
		return s.backend.FundingPeriods(ctx, fundingStreamID)
	})
	if err != nil {
		return nil, fmt.Errorf("funding periods for %s: %w", fundingStreamID, err)
	}
	return v.([]model.FundingPeriod), nil
}

// ReferenceData is everything the create specification page offers in its selects.
type ReferenceData struct {
	FundingStreams []model.FundingStream            `json:"fundingStreams"`
	FundingPeriods map[string][]model.FundingPeriod `json:"fundingPeriods"`
}

// ReferenceData loads the funding streams, then every stream's periods concurrently.
func (s *SpecificationService) ReferenceData(ctx context.Context) (ReferenceData, error) {
	streams, err := s.FundingStreams(ctx)
	if err != nil {
		return ReferenceData{}, err
	}

	out := ReferenceData{
		FundingStreams: streams,
		FundingPeriods: make(map[string][]model.FundingPeriod, len(streams)),
	}
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxPeriodFetches)
	for _, stream := range streams {
		g.Go(func() error {
			periods, err := s.FundingPeriods(gctx, stream.ID)
			if err != nil {
				return err
			}
			mu.Lock()
			out.FundingPeriods[stream.ID] = periods
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ReferenceData{}, err
	}
	return out, nil
}
