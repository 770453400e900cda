package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	domainjob "github.com/calcfunding/portal/internal/domain/job"
	"github.com/calcfunding/portal/internal/domain/model"
	apperrors "github.com/calcfunding/portal/internal/errors"
	"github.com/calcfunding/portal/internal/ports"
)

// FundingAction names an operation on a specification's funding.
type FundingAction string

const (
	FundingApprove FundingAction = "approve"
	FundingRelease FundingAction = "release"
	FundingRefresh FundingAction = "refresh"
)

var fundingActions = map[FundingAction]struct {
	permission model.Permission
	label      string
}{
	FundingApprove: {model.PermissionApproveFunding, "approve funding"},
	FundingRelease: {model.PermissionReleaseFunding, "release funding"},
	FundingRefresh: {model.PermissionRefreshFunding, "refresh funding"},
}

// ParseFundingAction validates a route segment.
func ParseFundingAction(s string) (FundingAction, bool) {
	a := FundingAction(s)
	_, ok := fundingActions[a]
	return a, ok
}

// FundingJobTypes are the jobs the funding management page watches.
func FundingJobTypes() []model.JobType {
	return []model.JobType{
		model.JobTypeRefreshFunding,
		model.JobTypeApproveAllProviderFunding,
		model.JobTypeApproveBatchProviderFunding,
		model.JobTypePublishAllProviderFunding,
		model.JobTypePublishBatchProviderFunding,
		model.JobTypeReleaseProvidersToChannels,
	}
}

// FundingServiceOptions groups dependencies for FundingService.
type FundingServiceOptions struct {
	Backend ports.Backend // Required
	Logger  *slog.Logger
}

// FundingService backs the funding management page.
type FundingService struct {
	backend ports.Backend
	logger  *slog.Logger
}

// NewFundingService constructs a FundingService.
func NewFundingService(opts FundingServiceOptions) (*FundingService, error) {
	if opts.Backend == nil {
		return nil, errors.New("Backend is required")
	}
	return &FundingService{backend: opts.Backend, logger: componentLogger(opts.Logger, "funding_service")}, nil
}

// FundingOverview is the data behind the funding management page.
type FundingOverview struct {
	Specification model.SpecificationSummary
	Permissions   model.EffectivePermissions
	// LatestJob is the most recent funding job, nil when none ran.
	LatestJob *model.JobDetails
}

// Overview fetches the specification, the caller's permissions and the latest
// funding job concurrently.
func (s *FundingService) Overview(ctx context.Context, userID, specificationID string) (FundingOverview, error) {
	var out FundingOverview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		spec, err := s.backend.GetSpecification(gctx, specificationID)
		if err != nil {
			return fmt.Errorf("get specification: %w", err)
		}
		out.Specification = spec
		return nil
	})
	g.Go(func() error {
		perms, err := s.backend.EffectivePermissions(gctx, userID, specificationID)
		if err != nil {
			return fmt.Errorf("effective permissions: %w", err)
		}
		out.Permissions = perms
		return nil
	})
	g.Go(func() error {
		jobs, err := s.backend.LatestJobs(gctx, domainjob.Filter{
			SpecificationID: specificationID,
			JobTypes:        FundingJobTypes(),
		})
		// The platform answers 404 when no funding job has run yet.
		if apperrors.IsNotFound(err) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("latest funding jobs: %w", err)
		}
		out.LatestJob = newest(jobs)
		return nil
	})
	if err := g.Wait(); err != nil {
		return FundingOverview{}, err
	}
	return out, nil
}

// Run performs action after checking the caller's permission and returns the queued job id.
func (s *FundingService) Run(ctx context.Context, userID, specificationID string, action FundingAction) (string, error) {
	meta, ok := fundingActions[action]
	if !ok {
		return "", apperrors.Validationf("unknown funding action %q", action)
	}

	perms, err := s.backend.EffectivePermissions(ctx, userID, specificationID)
	if err != nil {
		return "", fmt.Errorf("effective permissions: %w", err)
	}
	if !perms.Has(meta.permission) {
		return "", apperrors.Forbidden("You do not have permission to " + meta.label)
	}

	var resp model.JobCreatedResponse
	switch action {
	case FundingApprove:
		resp, err = s.backend.ApproveFunding(ctx, specificationID)
	case FundingRelease:
		resp, err = s.backend.ReleaseFunding(ctx, specificationID)
	case FundingRefresh:
		resp, err = s.backend.RefreshFunding(ctx, specificationID)
	}
	if apperrors.IsConflict(err) {
		return "", apperrors.Business(
			"A funding job is already running for this specification",
			"Wait for it to finish before trying again.",
		)
	}
	if err != nil {
		return "", fmt.Errorf("%s funding: %w", action, err)
	}
	if resp.JobID == "" {
		return "", apperrors.Business("no job ID returned", "Please try again later.")
	}
	s.logger.InfoContext(ctx, "funding action queued",
		"action", string(action),
		"specification_id", specificationID,
		"job_id", resp.JobID,
		"user_id", userID,
	)
	return resp.JobID, nil
}

func newest(jobs []model.JobDetails) *model.JobDetails {
	var best *model.JobDetails
	for i := range jobs {
		if jobs[i].Newer(best) {
			best = &jobs[i]
		}
	}
	return best.Clone()
}
