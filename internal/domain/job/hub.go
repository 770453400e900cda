package job

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/calcfunding/portal/internal/domain/model"
	obserrors "github.com/calcfunding/portal/internal/observability/errors"
)

// ErrListenerRequired indicates a hub cannot be constructed without a listener.
var ErrListenerRequired = errors.New("hub listener is required")

// Listener streams job snapshots pushed by the platform. Listen blocks until
// ctx is cancelled or the underlying transport fails.
type Listener interface {
	Listen(ctx context.Context, deliver func(*model.JobDetails)) error
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(ctx context.Context, deliver func(*model.JobDetails)) error

// Listen implements Listener.
func (f ListenerFunc) Listen(ctx context.Context, deliver func(*model.JobDetails)) error {
	return f(ctx, deliver)
}

// Push fans one pushed job stream out to any number of receivers.
type Push interface {
	Subscribe() (func(), <-chan *model.JobDetails)
	StopAll()
}

// HubOptions configure the behaviour of Hub.
type HubOptions struct {
	Listener Listener
	// Backoff is the fixed delay before restarting a failed listener.
	Backoff time.Duration
	// Buffer is the per-receiver channel capacity.
	Buffer int
	Logger *slog.Logger
}

type listenerHandle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Hub runs a single listener while at least one receiver is attached and
// broadcasts every snapshot to all receivers.
type Hub struct {
	listener Listener
	backoff  time.Duration
	buffer   int
	logger   *slog.Logger

	mu      sync.Mutex
	subs    map[chan *model.JobDetails]struct{}
	running *listenerHandle
}

// NewHub constructs a Hub.
func NewHub(opts HubOptions) (*Hub, error) {
	if opts.Listener == nil {
		return nil, ErrListenerRequired
	}

	backoff := opts.Backoff
	if backoff <= 0 {
		backoff = time.Second
	}
	buffer := opts.Buffer
	if buffer <= 0 {
		buffer = 16
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Hub{
		listener: opts.Listener,
		backoff:  backoff,
		buffer:   buffer,
		logger:   logger.With("component", "job_hub"),
		subs:     make(map[chan *model.JobDetails]struct{}),
	}, nil
}

// Subscribe attaches a receiver, starting the listener if none is running.
// The returned function detaches it and closes the channel; it is safe to call
// more than once.
func (h *Hub) Subscribe() (func(), <-chan *model.JobDetails) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.running == nil {
		ctx, cancel := context.WithCancel(context.Background())
		handle := &listenerHandle{cancel: cancel, done: make(chan struct{})}
		h.running = handle
		go h.listenLoop(ctx, handle.done)
	}

	ch := make(chan *model.JobDetails, h.buffer)
	h.subs[ch] = struct{}{}

	unsub := func() {
		var stopped *listenerHandle

		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			drainAndClose(ch)
			if len(h.subs) == 0 {
				stopped = h.detachListener()
			}
		}
		h.mu.Unlock()

		if stopped != nil {
			<-stopped.done
		}
	}

	return unsub, ch
}

// Receivers returns the number of attached receivers.
func (h *Hub) Receivers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// StopAll stops the listener and closes every receiver channel.
func (h *Hub) StopAll() {
	h.mu.Lock()
	stopped := h.detachListener()
	for ch := range h.subs {
		drainAndClose(ch)
		delete(h.subs, ch)
	}
	h.mu.Unlock()

	if stopped != nil {
		<-stopped.done
	}
}

// detachListener cancels the running listener. Callers hold h.mu and must wait
// on the returned handle only after releasing it.
func (h *Hub) detachListener() *listenerHandle {
	handle := h.running
	if handle == nil {
		return nil
	}
	handle.cancel()
	h.running = nil
	return handle
}

func (h *Hub) listenLoop(ctx context.Context, done chan struct{}) {
	defer close(done)

	for ctx.Err() == nil {
		err := h.listener.Listen(ctx, func(job *model.JobDetails) {
			h.broadcast(ctx, job)
		})
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			h.logger.Warn("job push listener failed",
				"error", err,
				"error_type", obserrors.Classify(err),
				"backoff", h.backoff)
		}

		timer := time.NewTimer(h.backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func (h *Hub) broadcast(ctx context.Context, job *model.JobDetails) {
	if job == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	// A listener that was detached may still be delivering its last message.
	if ctx.Err() != nil {
		return
	}

	for ch := range h.subs {
		snapshot := job.Clone()
		select {
		case ch <- snapshot:
			continue
		default:
		}
		// Receiver is behind: drop its oldest snapshot to make room for the newest.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snapshot:
		default:
		}
	}
}

// drainAndClose removes any buffered snapshots before closing the channel so
// receivers observe a closed channel immediately.
func drainAndClose(ch chan *model.JobDetails) {
	for {
		select {
		case <-ch:
		default:
			close(ch)
			return
		}
	}
}

var _ Push = (*Hub)(nil)
