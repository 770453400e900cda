package job

import (
	"context"
	"sync"
	"time"

	"github.com/calcfunding/portal/internal/domain/model"
)

var baseTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func snapshot(id string, status model.RunningStatus, offset time.Duration) model.JobDetails {
	return model.JobDetails{
		JobID:           id,
		JobType:         model.JobTypeRefreshFunding,
		SpecificationID: "spec-1",
		RunningStatus:   status,
		Created:         baseTime,
		LastUpdated:     baseTime.Add(offset),
	}
}

func completed(id string, result model.CompletionStatus, offset time.Duration) model.JobDetails {
	job := snapshot(id, model.RunningStatusCompleted, offset)
	job.CompletionStatus = &result
	return job
}

// scriptedSource replays one response per call and repeats the last one.
type scriptedSource struct {
	mu        sync.Mutex
	responses [][]model.JobDetails
	err       error
	calls     int
}

func (s *scriptedSource) LatestJobs(ctx context.Context, _ Filter) ([]model.JobDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if len(s.responses) == 0 {
		return nil, nil
	}
	idx := s.calls - 1
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	return s.responses[idx], nil
}

func (s *scriptedSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// chanListener delivers whatever is written to in until ctx ends.
type chanListener struct {
	in      chan model.JobDetails
	mu      sync.Mutex
	started int
	stopped int
	err     error
}

func newChanListener() *chanListener {
	return &chanListener{in: make(chan model.JobDetails)}
}

func (l *chanListener) Listen(ctx context.Context, deliver func(*model.JobDetails)) error {
	l.mu.Lock()
	l.started++
	err := l.err
	l.mu.Unlock()
	defer func() {
		l.mu.Lock()
		l.stopped++
		l.mu.Unlock()
	}()

	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case job := <-l.in:
			deliver(&job)
		}
	}
}

func (l *chanListener) counts() (started, stopped int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.started, l.stopped
}

// recorder collects callbacks from a subscription.
type recorder struct {
	mu      sync.Mutex
	updates []Notification
	errs    []error
}

func (r *recorder) onUpdate(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, n)
}

func (r *recorder) onError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recorder) updateCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.updates)
}

func (r *recorder) errorCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errs)
}

func (r *recorder) statuses() []model.RunningStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.RunningStatus, 0, len(r.updates))
	for _, n := range r.updates {
		out = append(out, n.LatestJob.RunningStatus)
	}
	return out
}

func fastPolicy() *PollPolicy {
	policy, err := NewPollPolicy(5*time.Millisecond, time.Millisecond)
	if err != nil {
		panic(err)
	}
	return policy
}
