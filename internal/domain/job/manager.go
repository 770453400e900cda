package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/calcfunding/portal/internal/domain/model"
	obserrors "github.com/calcfunding/portal/internal/observability/errors"
	"github.com/calcfunding/portal/internal/observability/metrics"
	"github.com/calcfunding/portal/internal/observability/statsd"
)

var (
	// ErrManagerClosed is returned by Subscribe after Close.
	ErrManagerClosed = errors.New("subscription manager closed")
	// ErrNoTransport indicates neither a polling source nor a push hub is available.
	ErrNoTransport = errors.New("subscription requires a job source or push hub")
	// ErrSubscriptionNotFound is returned when unsubscribing an unknown id.
	ErrSubscriptionNotFound = errors.New("subscription not found")
)

// Source returns the latest job snapshots matching a filter. It backs polling
// and the optional prior-notification fetch.
type Source interface {
	LatestJobs(ctx context.Context, filter Filter) ([]model.JobDetails, error)
}

// Transport names the path a snapshot arrived by.
type Transport string

const (
	TransportPrior Transport = "prior"
	TransportPoll  Transport = "poll"
	TransportPush  Transport = "push"
)

// Notification is the content of a subscription's slot: the most recent
// matching job snapshot.
type Notification struct {
	SubscriptionID string            `json:"subscriptionId"`
	Filter         Filter            `json:"filter"`
	LatestJob      *model.JobDetails `json:"latestJob"`
	StatusMessage  string            `json:"statusMessage"`
	ReceivedAt     time.Time         `json:"receivedAt"`
	Transport      Transport         `json:"transport"`
}

// SubscribeOptions tune a single subscription.
type SubscribeOptions struct {
	// OnError receives transport failures only. Failed jobs are ordinary notifications.
	OnError func(error)
	// OnUpdate runs for every accepted snapshot. It must not call Unsubscribe
	// or UnsubscribeAll synchronously.
	OnUpdate func(Notification)
	// FetchPriorNotifications fetches the latest matching job once at start.
	FetchPriorNotifications bool
	// PollInterval overrides the default polling cadence.
	PollInterval time.Duration
	// DisablePush forces polling even when a push hub is configured.
	DisablePush bool
}

// ManagerOptions wire a Manager's transports and observability.
type ManagerOptions struct {
	Source Source
	Push   Push
	Policy *PollPolicy
	// FallbackInterval is the polling cadence while push delivery is active.
	// Negative disables polling for pushed subscriptions.
	FallbackInterval time.Duration
	// UpdatesBuffer is the capacity of the Updates channel.
	UpdatesBuffer int
	Metrics       statsd.Sink
	Logger        *slog.Logger
	Now           func() time.Time
}

// Subscription is a handle returned by Subscribe.
type Subscription struct {
	id     string
	filter Filter
	opts   SubscribeOptions

	cancel context.CancelFunc
	done   chan struct{}

	// Guarded by Manager.mu.
	closed bool
	slot   *Notification
}

// ID returns the subscription identifier.
func (s *Subscription) ID() string { return s.id }

// Filter returns the criteria the subscription was created with.
func (s *Subscription) Filter() Filter { return s.filter }

// Done is closed once the subscription stopped delivering.
func (s *Subscription) Done() <-chan struct{} { return s.done }

// Manager owns the subscriptions of one page or connection.
type Manager struct {
	source   Source
	push     Push
	policy   *PollPolicy
	fallback time.Duration
	sink     statsd.Sink
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	subs    map[string]*Subscription
	order   []string
	updates chan Notification
	closed  bool
}

// NewManager constructs a Manager.
func NewManager(opts ManagerOptions) (*Manager, error) {
	if opts.Source == nil && opts.Push == nil {
		return nil, ErrNoTransport
	}

	policy := opts.Policy
	if policy == nil {
		var err error
		policy, err = NewPollPolicy(10*time.Second, time.Second)
		if err != nil {
			return nil, err
		}
	}
	fallback := opts.FallbackInterval
	if fallback == 0 {
		fallback = time.Minute
	}
	buffer := opts.UpdatesBuffer
	if buffer <= 0 {
		buffer = 32
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Manager{
		source:   opts.Source,
		push:     opts.Push,
		policy:   policy,
		fallback: fallback,
		sink:     opts.Metrics,
		logger:   logger.With("component", "job_subscriptions"),
		now:      now,
		subs:     make(map[string]*Subscription),
		updates:  make(chan Notification, buffer),
	}, nil
}

// Subscribe registers interest in jobs matching filter and returns at once;
// delivery happens asynchronously until Unsubscribe, UnsubscribeAll, Close or
// cancellation of ctx.
func (m *Manager) Subscribe(ctx context.Context, filter Filter, opts SubscribeOptions) (*Subscription, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	usePush := m.push != nil && !opts.DisablePush
	if !usePush && m.source == nil {
		return nil, ErrNoTransport
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrManagerClosed
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		id:     uuid.NewString(),
		filter: filter,
		opts:   opts,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	m.subs[sub.id] = sub
	m.order = append(m.order, sub.id)
	metrics.EmitSubscriptions(m.sink, len(m.subs))

	var pushCh <-chan *model.JobDetails
	var unsubPush func()
	if usePush {
		unsubPush, pushCh = m.push.Subscribe()
	}

	m.logger.Debug("subscription created",
		"subscription_id", sub.id,
		"filter", filter.String(),
		"push", usePush)

	go m.run(subCtx, sub, pushCh, unsubPush)
	return sub, nil
}

// Unsubscribe stops a subscription. Once it returns no further delivery
// happens for that subscription.
func (m *Manager) Unsubscribe(id string) error {
	m.mu.Lock()
	sub, ok := m.subs[id]
	if ok {
		m.detach(sub)
	}
	m.mu.Unlock()

	if !ok {
		return ErrSubscriptionNotFound
	}
	<-sub.done
	return nil
}

// UnsubscribeAll stops every subscription owned by the manager.
func (m *Manager) UnsubscribeAll() {
	m.mu.Lock()
	stopped := make([]*Subscription, 0, len(m.subs))
	for _, id := range m.order {
		if sub, ok := m.subs[id]; ok {
			stopped = append(stopped, sub)
		}
	}
	for _, sub := range stopped {
		m.detach(sub)
	}
	m.mu.Unlock()

	for _, sub := range stopped {
		<-sub.done
	}
}

// Close unsubscribes everything and closes the Updates channel.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.mu.Unlock()

	m.UnsubscribeAll()

	m.mu.Lock()
	close(m.updates)
	m.mu.Unlock()
}

// Notifications returns the populated slots in subscription order.
func (m *Manager) Notifications() []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Notification, 0, len(m.order))
	for _, id := range m.order {
		sub, ok := m.subs[id]
		if !ok || sub.slot == nil {
			continue
		}
		n := *sub.slot
		n.LatestJob = n.LatestJob.Clone()
		out = append(out, n)
	}
	return out
}

// Updates streams every accepted notification. A slow reader loses the oldest
// buffered entries, never the newest.
func (m *Manager) Updates() <-chan Notification {
	return m.updates
}

// Len returns the number of live subscriptions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

// detach marks sub closed and removes it. Callers hold m.mu.
func (m *Manager) detach(sub *Subscription) {
	if sub.closed {
		return
	}
	sub.closed = true
	sub.cancel()
	delete(m.subs, sub.id)
	for i, id := range m.order {
		if id == sub.id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	metrics.EmitSubscriptions(m.sink, len(m.subs))
}

func (m *Manager) run(ctx context.Context, sub *Subscription, pushCh <-chan *model.JobDetails, unsubPush func()) {
	defer close(sub.done)
	defer func() {
		if unsubPush != nil {
			unsubPush()
		}
		m.mu.Lock()
		m.detach(sub)
		m.mu.Unlock()
	}()

	if sub.opts.FetchPriorNotifications && m.source != nil {
		m.poll(ctx, sub, TransportPrior)
	}

	interval := m.pollInterval(sub, pushCh != nil)
	var ticks <-chan time.Time
	var ticker *time.Ticker
	if interval > 0 && m.source != nil {
		ticker = time.NewTicker(interval)
		defer ticker.Stop()
		ticks = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticks:
			m.poll(ctx, sub, TransportPoll)
		case job, ok := <-pushCh:
			if !ok {
				// Push hub stopped; continue on the regular polling cadence.
				pushCh = nil
				if m.source == nil {
					return
				}
				interval = m.pollInterval(sub, false)
				if ticker == nil {
					ticker = time.NewTicker(interval)
					defer ticker.Stop()
					ticks = ticker.C
				} else {
					ticker.Reset(interval)
				}
				continue
			}
			if sub.filter.Matches(job) {
				m.deliver(sub, job, TransportPush)
			}
		}
	}
}

func (m *Manager) pollInterval(sub *Subscription, pushed bool) time.Duration {
	if pushed {
		if m.fallback < 0 {
			return 0
		}
		return m.fallback
	}
	decision := m.policy.Resolve(sub.opts.PollInterval)
	if decision.Clamped() {
		m.logger.Debug("poll interval clamped",
			"subscription_id", sub.id,
			"requested", decision.Requested,
			"interval", decision.Interval)
	}
	return decision.Interval
}

func (m *Manager) poll(ctx context.Context, sub *Subscription, transport Transport) {
	jobs, err := m.source.LatestJobs(ctx, sub.filter)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		m.reportError(sub, transport, fmt.Errorf("fetch latest jobs: %w", err))
		return
	}

	matched := make([]*model.JobDetails, 0, len(jobs))
	for i := range jobs {
		if sub.filter.Matches(&jobs[i]) {
			matched = append(matched, &jobs[i])
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[j].Newer(matched[i])
	})
	for _, job := range matched {
		m.deliver(sub, job, transport)
	}
}

func (m *Manager) reportError(sub *Subscription, transport Transport, err error) {
	m.mu.Lock()
	closed := sub.closed
	m.mu.Unlock()
	if closed {
		return
	}

	m.logger.Warn("job subscription transport error",
		"subscription_id", sub.id,
		"transport", transport,
		"error", err,
		"error_type", obserrors.Classify(err))
	metrics.EmitNotification(m.sink, metrics.NotificationMetric{
		Transport: string(transport),
		Result:    metrics.ResultError,
		Err:       err,
	})
	if sub.opts.OnError != nil {
		sub.opts.OnError(err)
	}
}

// deliver applies the supersede rule: the slot only ever moves to a newer snapshot.
func (m *Manager) deliver(sub *Subscription, job *model.JobDetails, transport Transport) {
	m.mu.Lock()
	if sub.closed {
		m.mu.Unlock()
		return
	}

	var current *model.JobDetails
	if sub.slot != nil {
		current = sub.slot.LatestJob
	}
	if !job.Newer(current) {
		m.mu.Unlock()
		metrics.EmitNotification(m.sink, metrics.NotificationMetric{
			JobType:   string(job.JobType),
			Transport: string(transport),
			Result:    metrics.ResultStale,
		})
		return
	}

	now := m.now()
	n := Notification{
		SubscriptionID: sub.id,
		Filter:         sub.filter,
		LatestJob:      job.Clone(),
		StatusMessage:  job.StatusDescription(),
		ReceivedAt:     now,
		Transport:      transport,
	}
	sub.slot = &n

	out := n
	out.LatestJob = n.LatestJob.Clone()
	if !m.closed {
		m.publish(out)
	}
	m.mu.Unlock()

	var latency time.Duration
	if !job.LastUpdated.IsZero() {
		latency = now.Sub(job.LastUpdated)
	}
	metrics.EmitNotification(m.sink, metrics.NotificationMetric{
		JobType:   string(job.JobType),
		Transport: string(transport),
		Result:    metrics.ResultDelivered,
		Latency:   latency,
	})

	if sub.opts.OnUpdate != nil {
		sub.opts.OnUpdate(out)
	}
}

// publish pushes to the Updates channel, evicting the oldest entry when full.
// Callers hold m.mu.
func (m *Manager) publish(n Notification) {
	select {
	case m.updates <- n:
		return
	default:
	}
	select {
	case <-m.updates:
	default:
	}
	select {
	case m.updates <- n:
	default:
	}
}
