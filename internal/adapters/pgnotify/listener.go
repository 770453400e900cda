// Package pgnotify receives job notifications through PostgreSQL LISTEN/NOTIFY.
package pgnotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/calcfunding/portal/internal/domain/job"
	"github.com/calcfunding/portal/internal/domain/model"
)

// DefaultChannel is the notification channel the platform writes job snapshots to.
const DefaultChannel = "job_notifications"

// maxPayload is the largest NOTIFY payload Postgres accepts.
const maxPayload = 8000

// Listener holds one pooled connection in LISTEN mode while Listen runs.
type Listener struct {
	pool    *pgxpool.Pool
	channel string
	logger  *slog.Logger
}

var _ job.Listener = (*Listener)(nil)

// NewListener creates a Listener on channel (DefaultChannel when empty).
func NewListener(pool *pgxpool.Pool, channel string, logger *slog.Logger) *Listener {
	if channel == "" {
		channel = DefaultChannel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener{
		pool:    pool,
		channel: channel,
		logger:  logger.With("component", "pgnotify_listener", "channel", channel),
	}
}

// Listen delivers each decoded notification until ctx is cancelled.
func (l *Listener) Listen(ctx context.Context, deliver func(*model.JobDetails)) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("acquire listen connection: %w", err)
	}
	defer conn.Release()

	quoted := pgx.Identifier{l.channel}.Sanitize()
	if _, err := conn.Exec(ctx, "LISTEN "+quoted); err != nil {
		return fmt.Errorf("listen %s: %w", l.channel, err)
	}
	defer func() {
		// The connection returns to the pool, so the LISTEN must not outlive this call.
		_, _ = conn.Exec(context.WithoutCancel(ctx), "UNLISTEN "+quoted)
	}()

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("wait for notification: %w", err)
		}
		j, err := decode(n.Payload)
		if err != nil {
			l.logger.WarnContext(ctx, "discarding malformed job notification", "error", err)
			continue
		}
		deliver(j)
	}
}

// Notify publishes a snapshot on the channel.
func (l *Listener) Notify(ctx context.Context, j *model.JobDetails) error {
	payload, err := encode(j)
	if err != nil {
		return err
	}
	if _, err := l.pool.Exec(ctx, `SELECT pg_notify($1::text, $2::text)`, l.channel, payload); err != nil {
		return fmt.Errorf("notify %s: %w", l.channel, err)
	}
	return nil
}

func encode(j *model.JobDetails) (string, error) {
	if j == nil || j.JobID == "" {
		return "", errors.New("job snapshot requires a job id")
	}
	raw, err := json.Marshal(j)
	if err != nil {
		return "", fmt.Errorf("marshal job: %w", err)
	}
	if len(raw) > maxPayload {
		return "", fmt.Errorf("job notification is %d bytes, limit is %d", len(raw), maxPayload)
	}
	return string(raw), nil
}

func decode(payload string) (*model.JobDetails, error) {
	var j model.JobDetails
	if err := json.Unmarshal([]byte(payload), &j); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	if j.JobID == "" {
		return nil, errors.New("payload has no job id")
	}
	return &j, nil
}
