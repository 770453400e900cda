package job

import (
	"errors"
	"time"
)

// ErrInvalidPollInterval indicates the configured default poll interval is not positive.
var ErrInvalidPollInterval = errors.New("default poll interval must be positive")

// IntervalSource identifies how a poll interval was resolved.
type IntervalSource string

const (
	// IntervalSourceExplicit indicates the caller supplied a usable interval.
	IntervalSourceExplicit IntervalSource = "explicit"
	// IntervalSourceDefault indicates the default interval was used.
	IntervalSourceDefault IntervalSource = "default"
	// IntervalSourceClamped indicates the requested interval was raised to the minimum.
	IntervalSourceClamped IntervalSource = "clamped"
)

// PollPolicy normalises the cadence subscriptions poll the job source at.
type PollPolicy struct {
	defaultInterval time.Duration
	minInterval     time.Duration
}

// NewPollPolicy constructs a PollPolicy. A non-positive minimum disables clamping.
func NewPollPolicy(defaultInterval, minInterval time.Duration) (*PollPolicy, error) {
	if defaultInterval <= 0 {
		return nil, ErrInvalidPollInterval
	}
	if minInterval < 0 {
		minInterval = 0
	}
	if defaultInterval < minInterval {
		defaultInterval = minInterval
	}
	return &PollPolicy{defaultInterval: defaultInterval, minInterval: minInterval}, nil
}

// Default returns the configured default interval.
func (p *PollPolicy) Default() time.Duration {
	if p == nil {
		return 0
	}
	return p.defaultInterval
}

// IntervalDecision captures the outcome of resolving a requested interval.
type IntervalDecision struct {
	Interval  time.Duration
	Source    IntervalSource
	Requested time.Duration
}

// UsedDefault reports whether the policy fell back to the default interval.
func (d IntervalDecision) UsedDefault() bool {
	return d.Source == IntervalSourceDefault
}

// Clamped reports whether the requested value was raised to the minimum interval.
func (d IntervalDecision) Clamped() bool {
	return d.Source == IntervalSourceClamped
}

// Resolve normalises a requested interval. Zero selects the default; anything
// below the minimum (including negatives) is clamped up to it.
func (p *PollPolicy) Resolve(request time.Duration) IntervalDecision {
	decision := IntervalDecision{Requested: request}
	if p == nil {
		decision.Source = IntervalSourceDefault
		return decision
	}

	switch {
	case request == 0:
		decision.Interval = p.defaultInterval
		decision.Source = IntervalSourceDefault
	case request < p.minInterval || request < 0:
		decision.Interval = max(p.minInterval, time.Millisecond)
		decision.Source = IntervalSourceClamped
	default:
		decision.Interval = request
		decision.Source = IntervalSourceExplicit
	}
	return decision
}
