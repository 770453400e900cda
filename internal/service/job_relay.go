package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	domainjob "github.com/calcfunding/portal/internal/domain/job"
	"github.com/calcfunding/portal/internal/domain/model"
	obserrors "github.com/calcfunding/portal/internal/observability/errors"
	"github.com/calcfunding/portal/internal/observability/statsd"
)

// JobPublisher fans a job snapshot out to portal instances.
type JobPublisher interface {
	Publish(ctx context.Context, j *model.JobDetails) error
}

// JobRelayOptions groups dependencies for JobRelay.
type JobRelayOptions struct {
	Source    domainjob.Listener // Required: where notifications originate (Postgres LISTEN)
	Publisher JobPublisher       // Required: where they are re-broadcast (Redis pub/sub)
	Backoff   time.Duration
	Metrics   statsd.Sink
	Logger    *slog.Logger
}

// JobRelay forwards job notifications from the platform database to the
// channel every portal instance's push hub listens on.
type JobRelay struct {
	source    domainjob.Listener
	publisher JobPublisher
	backoff   time.Duration
	metrics   statsd.Sink
	logger    *slog.Logger
}

// NewJobRelay constructs a JobRelay.
func NewJobRelay(opts JobRelayOptions) (*JobRelay, error) {
	if opts.Source == nil {
		return nil, errors.New("relay source is required")
	}
	if opts.Publisher == nil {
		return nil, errors.New("relay publisher is required")
	}
	backoff := opts.Backoff
	if backoff <= 0 {
		backoff = time.Second
	}
	return &JobRelay{
		source:    opts.Source,
		publisher: opts.Publisher,
		backoff:   backoff,
		metrics:   opts.Metrics,
		logger:    componentLogger(opts.Logger, "job_relay"),
	}, nil
}

// Run relays until ctx is cancelled, restarting the source after failures.
func (r *JobRelay) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "job relay started")
	defer r.logger.InfoContext(ctx, "job relay stopped")

	for {
		err := r.source.Listen(ctx, func(j *model.JobDetails) { r.forward(ctx, j) })
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			r.logger.WarnContext(ctx, "job relay source failed",
				"error", err,
				"error_type", obserrors.Classify(err),
				"backoff", r.backoff,
			)
		}
		timer := time.NewTimer(r.backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

func (r *JobRelay) forward(ctx context.Context, j *model.JobDetails) {
	result := "relayed"
	if err := r.publisher.Publish(ctx, j); err != nil && ctx.Err() == nil {
		result = "error"
		r.logger.WarnContext(ctx, "job relay publish failed",
			"job_id", j.JobID,
			"error", err,
			"error_type", obserrors.Classify(err),
		)
	}
	if r.metrics != nil {
		r.metrics.Count("job_relay.forwarded", 1, map[string]string{
			"result":   result,
			"job_type": string(j.JobType),
		})
	}
}
