package httpx

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	domainjob "github.com/calcfunding/portal/internal/domain/job"
	"github.com/calcfunding/portal/internal/domain/model"
	apperrors "github.com/calcfunding/portal/internal/errors"
	"github.com/calcfunding/portal/internal/http/ui/viewmodel"
	"github.com/calcfunding/portal/internal/service"
)

const defaultKeepAlive = 25 * time.Second

// JobHandlers serves job status lookups and the job status stream.
type JobHandlers struct {
	Svc *service.JobService
	// KeepAlive is the interval between SSE comment frames.
	KeepAlive time.Duration
	Now       func() time.Time
}

func (h *JobHandlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// JobResponse is a job plus its rendered status banner.
type JobResponse struct {
	Job    model.JobDetails     `json:"job"`
	Status *viewmodel.JobStatus `json:"status"`
}

// GetJob returns one job with its status message.
func (h *JobHandlers) GetJob(w http.ResponseWriter, r *http.Request) {
	j, err := h.Svc.GetJob(r.Context(), r.PathValue("jobId"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, JobResponse{Job: j, Status: viewmodel.NewJobStatus(&j, h.now())})
}

// parseJobFilter reads a subscription filter from the query string.
func parseJobFilter(r *http.Request) (domainjob.Filter, error) {
	q := r.URL.Query()
	f := domainjob.Filter{
		SpecificationID:   strings.TrimSpace(q.Get("specificationId")),
		TriggerByEntityID: strings.TrimSpace(q.Get("triggerEntityId")),
		JobID:             strings.TrimSpace(q.Get("jobId")),
		Expression:        strings.TrimSpace(q.Get("expr")),
	}
	types, err := model.ParseJobTypes(strings.Join(q["jobTypes"], ","))
	if err != nil {
		return f, apperrors.Wrap(err, apperrors.ErrCodeValidation, "Invalid job type")
	}
	f.JobTypes = types
	return f, nil
}

// streamEvent is one SSE payload.
type streamEvent struct {
	domainjob.Notification
	Status *viewmodel.JobStatus `json:"status"`
}

// Stream serves Server-Sent Events for one subscription. The subscription
// lives exactly as long as the connection.
func (h *JobHandlers) Stream(w http.ResponseWriter, r *http.Request) {
	filter, err := parseJobFilter(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	ctx := r.Context()
	watch, err := h.Svc.Watch(ctx, service.WatchRequest{Filter: filter, FetchPrior: true})
	if err != nil {
		WriteError(w, r, err)
		return
	}
	defer watch.Close()

	rc := http.NewResponseController(w)
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		LoggerFrom(ctx).Warn("streaming unsupported", slog.Any("error", err))
		return
	}

	logger := LoggerFrom(ctx).With(slog.String("subscription_id", watch.SubscriptionID()))
	logger.Debug("job stream opened", slog.String("filter", filter.String()))
	defer logger.Debug("job stream closed")

	keepAlive := h.KeepAlive
	if keepAlive <= 0 {
		keepAlive = defaultKeepAlive
	}
	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-watch.Updates():
			if !ok {
				return
			}
			ev := streamEvent{Notification: n, Status: viewmodel.NewJobStatus(n.LatestJob, h.now())}
			if err := writeEvent(w, "job", ev); err != nil {
				return
			}
		case err := <-watch.Errors():
			resp := NewErrorResponse(err)
			if err := writeEvent(w, "job-error", resp); err != nil {
				return
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, event string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}
