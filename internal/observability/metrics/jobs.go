package metrics

import (
	"time"

	obserrors "github.com/calcfunding/portal/internal/observability/errors"
	"github.com/calcfunding/portal/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultDelivered = "delivered"
	ResultStale     = "stale"
	ResultError     = "error"
)

// NotificationMetric captures one job notification outcome for metric emission.
type NotificationMetric struct {
	JobType   string
	Transport string
	Result    string
	// Latency is the time between the job's last update and its delivery.
	Latency time.Duration
	Err     error
}

// EmitNotification emits standardised job notification metrics.
func EmitNotification(sink statsd.Sink, in NotificationMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"transport": in.Transport,
		"result":    in.Result,
	}
	if in.JobType != "" {
		tags["job_type"] = in.JobType
	}

	if in.Err != nil && in.Result == ResultError {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("job_notification.received", 1, tags)

	if in.Latency > 0 && in.Result == ResultDelivered {
		sink.Timing("job_notification.latency", in.Latency, CloneTags(tags))
	}
}

// EmitSubscriptions records the number of live subscriptions held by a manager.
func EmitSubscriptions(sink statsd.Sink, active int) {
	if sink == nil {
		return
	}
	sink.Gauge("job_subscription.active", float64(active), nil)
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
