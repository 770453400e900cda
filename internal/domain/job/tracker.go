package job

import (
	"sync"

	"github.com/calcfunding/portal/internal/domain/model"
)

// Tracker follows the notifications of one subscription and turns them into
// the status messages a page shows. OnCompleted fires once per job id when that
// job reaches Completed, whether it succeeded or failed.
type Tracker struct {
	onCompleted func(*model.JobDetails)

	mu        sync.Mutex
	latest    *model.JobDetails
	history   []string
	lastJobID string
	completed map[string]struct{}
}

// NewTracker constructs a Tracker. onCompleted may be nil.
func NewTracker(onCompleted func(*model.JobDetails)) *Tracker {
	return &Tracker{
		onCompleted: onCompleted,
		completed:   make(map[string]struct{}),
	}
}

// Observe records a notification. Messages are appended only when they change.
func (t *Tracker) Observe(n Notification) {
	job := n.LatestJob
	if job == nil {
		return
	}

	t.mu.Lock()
	msg := n.StatusMessage
	if msg == "" {
		msg = job.StatusDescription()
	}
	if len(t.history) == 0 || t.history[len(t.history)-1] != msg || t.lastJobID != job.JobID {
		t.history = append(t.history, msg)
	}
	t.lastJobID = job.JobID
	t.latest = job.Clone()

	fire := false
	if job.IsComplete() {
		if _, seen := t.completed[job.JobID]; !seen {
			t.completed[job.JobID] = struct{}{}
			fire = true
		}
	}
	t.mu.Unlock()

	if fire && t.onCompleted != nil {
		t.onCompleted(job.Clone())
	}
}

// Handler adapts the tracker for SubscribeOptions.OnUpdate.
func (t *Tracker) Handler() func(Notification) {
	return t.Observe
}

// StatusMessage returns the most recent status message, or "" before any notification.
func (t *Tracker) StatusMessage() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.history) == 0 {
		return ""
	}
	return t.history[len(t.history)-1]
}

// History returns every distinct status message in arrival order.
func (t *Tracker) History() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.history))
	copy(out, t.history)
	return out
}

// Latest returns a copy of the last observed snapshot.
func (t *Tracker) Latest() *model.JobDetails {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.latest.Clone()
}

// Completed reports whether jobID has been seen in its Completed state.
func (t *Tracker) Completed(jobID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.completed[jobID]
	return ok
}
