package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/calcfunding/portal/internal/domain/job"
	"github.com/calcfunding/portal/internal/domain/model"
)

// DefaultJobChannel is the pub/sub channel job notifications travel on.
const DefaultJobChannel = "portal:job_notifications"

// ErrSubscriptionClosed is returned when Redis closes the subscription channel.
var ErrSubscriptionClosed = errors.New("redis job subscription closed")

// JobChannel publishes and receives job snapshots as JSON over Redis pub/sub.
// It is the push transport behind job.Hub.
type JobChannel struct {
	client  redis.UniversalClient
	channel string
	logger  *slog.Logger
}

var _ job.Listener = (*JobChannel)(nil)

// NewJobChannel creates a JobChannel. An empty channel name uses DefaultJobChannel.
func NewJobChannel(client redis.UniversalClient, channel string, logger *slog.Logger) *JobChannel {
	if channel == "" {
		channel = DefaultJobChannel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &JobChannel{
		client:  client,
		channel: channel,
		logger:  logger.With("component", "redis_job_channel", "channel", channel),
	}
}

// Publish sends one snapshot to every listener.
func (c *JobChannel) Publish(ctx context.Context, j *model.JobDetails) error {
	if j == nil || j.JobID == "" {
		return errors.New("job snapshot requires a job id")
	}
	payload, err := json.Marshal(j)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	return c.client.Publish(ctx, c.channel, payload).Err()
}

// Listen subscribes to the channel and calls deliver for every well-formed
// snapshot until ctx is cancelled. Malformed payloads are logged and skipped.
func (c *JobChannel) Listen(ctx context.Context, deliver func(*model.JobDetails)) error {
	sub := c.client.Subscribe(ctx, c.channel)
	defer func() { _ = sub.Close() }()

	// Wait for the subscription confirmation so callers know the listener is live.
	if _, err := sub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("subscribe %s: %w", c.channel, err)
	}

	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return ErrSubscriptionClosed
			}
			var j model.JobDetails
			if err := json.Unmarshal([]byte(msg.Payload), &j); err != nil || j.JobID == "" {
				c.logger.WarnContext(ctx, "discarding malformed job notification", "error", err)
				continue
			}
			deliver(&j)
		}
	}
}
