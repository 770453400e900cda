package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ServiceMode represents the available service modes.
type ServiceMode string

const (
	// ServiceModeHTTP runs the portal API server.
	ServiceModeHTTP ServiceMode = "http"
	// ServiceModeJobRelay forwards Postgres job notifications onto Redis pub/sub.
	ServiceModeJobRelay ServiceMode = "job-relay"
)

// ValidServiceModes returns all valid service mode names.
func ValidServiceModes() []ServiceMode {
	return []ServiceMode{ServiceModeHTTP, ServiceModeJobRelay}
}

// ParseServices parses a comma-delimited string of service names and returns the enabled services.
// It validates that all service names are valid and returns an error if any are invalid.
func ParseServices(servicesStr string) (map[ServiceMode]bool, error) {
	services := make(map[ServiceMode]bool)

	if servicesStr == "" {
		return services, errors.New("at least one service must be specified")
	}

	for part := range strings.SplitSeq(servicesStr, ",") {
		serviceName := strings.TrimSpace(part)
		if serviceName == "" {
			continue
		}

		mode := ServiceMode(serviceName)
		switch mode {
		case ServiceModeHTTP, ServiceModeJobRelay:
			services[mode] = true
		default:
			return nil, fmt.Errorf("invalid service name: %q (valid options: http, job-relay)", serviceName)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("at least one valid service must be specified")
	}

	return services, nil
}

// PushMode selects where job notifications are received from.
type PushMode string

const (
	// PushModeNone relies on polling alone.
	PushModeNone PushMode = "none"
	// PushModeRedis subscribes to a Redis pub/sub channel.
	PushModeRedis PushMode = "redis"
	// PushModePostgres listens on a Postgres NOTIFY channel.
	PushModePostgres PushMode = "postgres"
)

// UnmarshalText implements encoding.TextUnmarshaler for PushMode.
func (p *PushMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "", "none":
		*p = PushModeNone
	case "redis", "postgres":
		*p = PushMode(v)
	default:
		return fmt.Errorf("invalid PushMode: %q (valid options: none, redis, postgres)", v)
	}
	return nil
}

const (
	minPollInterval     = 250 * time.Millisecond
	defaultPollInterval = 5 * time.Second
	maxPollInterval     = 5 * time.Minute
)

// JobsConfig controls job status subscriptions.
type JobsConfig struct {
	PollInterval    time.Duration `env:"POLL_INTERVAL"     envDefault:"5s"`
	MinPollInterval time.Duration `env:"MIN_POLL_INTERVAL" envDefault:"1s"`
	// FallbackInterval is the polling cadence while push delivery is active.
	// Negative disables polling for pushed subscriptions.
	FallbackInterval time.Duration `env:"FALLBACK_INTERVAL" envDefault:"1m"`

	PushMode PushMode `env:"PUSH_MODE" envDefault:"none"`
	// Channel names both the Postgres NOTIFY channel and the Redis pub/sub channel.
	Channel string `env:"CHANNEL" envDefault:"job_notifications"`
	// ListenerBackoff is the delay before a failed push listener is restarted.
	ListenerBackoff time.Duration `env:"LISTENER_BACKOFF" envDefault:"2s"`
}

// Sanitize clamps polling intervals into a sane range.
func (j *JobsConfig) Sanitize() {
	if j.MinPollInterval < minPollInterval {
		j.MinPollInterval = minPollInterval
	}
	if j.MinPollInterval > maxPollInterval {
		j.MinPollInterval = maxPollInterval
	}
	if j.PollInterval <= 0 {
		j.PollInterval = defaultPollInterval
	}
	if j.PollInterval < j.MinPollInterval {
		j.PollInterval = j.MinPollInterval
	}
	if j.PollInterval > maxPollInterval {
		j.PollInterval = maxPollInterval
	}
	if j.FallbackInterval > 0 && j.FallbackInterval < j.PollInterval {
		j.FallbackInterval = j.PollInterval
	}
	if j.PushMode == "" {
		j.PushMode = PushModeNone
	}
	if j.Channel = strings.TrimSpace(j.Channel); j.Channel == "" {
		j.Channel = "job_notifications"
	}
	if j.ListenerBackoff <= 0 {
		j.ListenerBackoff = 2 * time.Second
	}
}

// DraftStoreKind selects where template editor drafts live.
type DraftStoreKind string

const (
	DraftStoreMemory DraftStoreKind = "memory"
	DraftStoreRedis  DraftStoreKind = "redis"
)

// UnmarshalText implements encoding.TextUnmarshaler for DraftStoreKind.
func (d *DraftStoreKind) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "", "memory":
		*d = DraftStoreMemory
	case "redis":
		*d = DraftStoreRedis
	default:
		return fmt.Errorf("invalid DraftStoreKind: %q (valid options: memory, redis)", v)
	}
	return nil
}

// DraftsConfig controls template editor draft storage.
type DraftsConfig struct {
	Store DraftStoreKind `env:"STORE" envDefault:"memory"`
	TTL   time.Duration  `env:"TTL"   envDefault:"12h"`
}

// Sanitize keeps draft TTLs within a working day or two.
func (d *DraftsConfig) Sanitize() {
	if d.Store == "" {
		d.Store = DraftStoreMemory
	}
	if d.TTL < time.Minute {
		d.TTL = time.Minute
	}
	if d.TTL > 72*time.Hour {
		d.TTL = 72 * time.Hour
	}
}
