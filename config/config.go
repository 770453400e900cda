package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// concern-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual files for details
// on available environment variables:
//   - auth.go: bearer token verification and the access gate
//   - backend.go: the funding platform REST API
//   - database.go: Postgres and Redis connections
//   - http.go: HTTP server configuration
//   - services.go: service modes, job subscriptions and template drafts
type AppConfig struct {
	// IsDev relaxes startup checks (mock auth allowed, verbose logging).
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Auth    AuthConfig
	Backend BackendConfig `envPrefix:"BACKEND_"`

	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	HTTP HTTPConfig

	// Services is a comma-delimited list of service modes to run.
	Services string `env:"SERVICES" envDefault:"http"`

	Jobs   JobsConfig   `envPrefix:"JOBS_"`
	Drafts DraftsConfig `envPrefix:"DRAFTS_"`

	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.Backend.Sanitize()
	c.Auth.Sanitize()
	c.Jobs.Sanitize()
	c.Drafts.Sanitize()
	c.Observability.Sanitize()

	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.detectDevMode()
}

// detectDevMode falls back to NODE_ENV when DEV is unset.
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}

// GetEnabledServices returns the enabled services based on the Services field.
func (c *AppConfig) GetEnabledServices() (map[ServiceMode]bool, error) {
	return ParseServices(c.Services)
}

// IsHTTPServerEnabled returns true if the HTTP server service is enabled.
func (c *AppConfig) IsHTTPServerEnabled() bool {
	services, err := c.GetEnabledServices()
	if err != nil {
		return false
	}
	return services[ServiceModeHTTP]
}

// IsJobRelayEnabled returns true if the Postgres to Redis job relay is enabled.
func (c *AppConfig) IsJobRelayEnabled() bool {
	services, err := c.GetEnabledServices()
	if err != nil {
		return false
	}
	return services[ServiceModeJobRelay]
}

// NeedsRedis reports whether any enabled component talks to Redis.
func (c *AppConfig) NeedsRedis() bool {
	return c.Jobs.PushMode == PushModeRedis || c.Drafts.Store == DraftStoreRedis || c.IsJobRelayEnabled()
}

// NeedsPostgres reports whether any enabled component listens on Postgres.
func (c *AppConfig) NeedsPostgres() bool {
	return c.Jobs.PushMode == PushModePostgres || c.IsJobRelayEnabled()
}
