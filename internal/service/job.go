package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	domainjob "github.com/calcfunding/portal/internal/domain/job"
	"github.com/calcfunding/portal/internal/domain/model"
	apperrors "github.com/calcfunding/portal/internal/errors"
	"github.com/calcfunding/portal/internal/observability/statsd"
	"github.com/calcfunding/portal/internal/ports"
)

// JobServiceConfig tunes the polling cadence of managers created by the service.
type JobServiceConfig struct {
	PollInterval     time.Duration
	MinPollInterval  time.Duration
	FallbackInterval time.Duration
}

// JobServiceOptions groups dependencies for JobService.
type JobServiceOptions struct {
	Jobs    ports.JobsAPI  // Required: polling source and job lookups
	Push    domainjob.Push // Optional: push hub fed by Redis or Postgres
	Config  JobServiceConfig
	Metrics statsd.Sink
	Logger  *slog.Logger
}

// JobService creates page-scoped subscription managers and looks up jobs.
type JobService struct {
	jobs     ports.JobsAPI
	push     domainjob.Push
	policy   *domainjob.PollPolicy
	fallback time.Duration
	metrics  statsd.Sink
	logger   *slog.Logger
}

// NewJobService constructs a JobService.
func NewJobService(opts JobServiceOptions) (*JobService, error) {
	if opts.Jobs == nil {
		return nil, errors.New("JobsAPI is required")
	}
	cfg := opts.Config
	if cfg.PollInterval == 0 {
		cfg.PollInterval = 10 * time.Second
	}
	if cfg.MinPollInterval == 0 {
		cfg.MinPollInterval = time.Second
	}
	policy, err := domainjob.NewPollPolicy(cfg.PollInterval, cfg.MinPollInterval)
	if err != nil {
		return nil, fmt.Errorf("create poll policy: %w", err)
	}
	return &JobService{
		jobs:     opts.Jobs,
		push:     opts.Push,
		policy:   policy,
		fallback: cfg.FallbackInterval,
		metrics:  opts.Metrics,
		logger:   componentLogger(opts.Logger, "job_service"),
	}, nil
}

// MustNewJobService constructs a JobService and panics on error.
func MustNewJobService(opts JobServiceOptions) *JobService {
	svc, err := NewJobService(opts)
	if err != nil {
		//nolint:forbidigo // startup wiring fails fast
		panic(fmt.Sprintf("failed to create JobService: %v", err))
	}
	return svc
}

// NewManager returns a manager for one page or connection. The caller owns it
// and must Close it when the page goes away.
func (s *JobService) NewManager() (*domainjob.Manager, error) {
	return domainjob.NewManager(domainjob.ManagerOptions{
		Source:           s.jobs,
		Push:             s.push,
		Policy:           s.policy,
		FallbackInterval: s.fallback,
		Metrics:          s.metrics,
		Logger:           s.logger,
	})
}

// GetJob returns one job snapshot.
func (s *JobService) GetJob(ctx context.Context, jobID string) (model.JobDetails, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return model.JobDetails{}, apperrors.ValidationField("jobId", "Job ID is required")
	}
	j, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		return model.JobDetails{}, fmt.Errorf("get job %s: %w", jobID, err)
	}
	return j, nil
}

// WatchRequest describes a single-subscription job stream.
type WatchRequest struct {
	Filter       domainjob.Filter
	FetchPrior   bool
	PollInterval time.Duration
}

// JobWatch is a manager holding exactly one subscription. Updates closes after Close.
type JobWatch struct {
	manager *domainjob.Manager
	sub     *domainjob.Subscription
	errs    chan error
}

// Updates streams every accepted notification.
func (w *JobWatch) Updates() <-chan domainjob.Notification { return w.manager.Updates() }

// Errors streams transport failures. Slow readers miss errors rather than block polling.
func (w *JobWatch) Errors() <-chan error { return w.errs }

// SubscriptionID identifies the underlying subscription.
func (w *JobWatch) SubscriptionID() string { return w.sub.ID() }

// Close tears the subscription down and waits for it to stop.
func (w *JobWatch) Close() { w.manager.Close() }

// Watch validates the filter and starts a single-subscription stream bound to ctx.
func (s *JobService) Watch(ctx context.Context, req WatchRequest) (*JobWatch, error) {
	if err := req.Filter.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "Invalid job filter")
	}
	m, err := s.NewManager()
	if err != nil {
		return nil, fmt.Errorf("create manager: %w", err)
	}

	errs := make(chan error, 4)
	sub, err := m.Subscribe(ctx, req.Filter, domainjob.SubscribeOptions{
		FetchPriorNotifications: req.FetchPrior,
		PollInterval:            req.PollInterval,
		OnError: func(err error) {
			select {
			case errs <- err:
			default:
			}
		},
	})
	if err != nil {
		m.Close()
		return nil, fmt.Errorf("subscribe: %w", err)
	}
	s.logger.DebugContext(ctx, "job watch started", "subscription_id", sub.ID(), "filter", req.Filter.String())
	return &JobWatch{manager: m, sub: sub, errs: errs}, nil
}
