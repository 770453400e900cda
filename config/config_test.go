package config

import (
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, vars map[string]string) AppConfig {
	t.Helper()
	var cfg AppConfig
	require.NoError(t, env.ParseWithOptions(&cfg, env.Options{Environment: vars}))
	cfg.Sanitize()
	return cfg
}

func TestParseServices(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    map[ServiceMode]bool
		expectError bool
	}{
		{
			name:     "http only",
			input:    "http",
			expected: map[ServiceMode]bool{ServiceModeHTTP: true},
		},
		{
			name:     "relay only",
			input:    "job-relay",
			expected: map[ServiceMode]bool{ServiceModeJobRelay: true},
		},
		{
			name:     "both with spaces and duplicates",
			input:    " http , job-relay ,http",
			expected: map[ServiceMode]bool{ServiceModeHTTP: true, ServiceModeJobRelay: true},
		},
		{name: "empty string", input: "", expectError: true},
		{name: "only commas", input: " , ,", expectError: true},
		{name: "unknown service", input: "http,scheduler", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseServices(tt.input)
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestAppConfig_Defaults(t *testing.T) {
	cfg := parse(t, map[string]string{})

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, defaultMaxUploadBytes, cfg.HTTP.MaxUploadBytes)
	assert.Equal(t, AuthModeOIDC, cfg.Auth.Mode)
	assert.Equal(t, "calculate-funding", cfg.Auth.OIDC.ClientID)
	assert.Equal(t, "http://localhost:5000", cfg.Backend.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Backend.Timeout)
	assert.False(t, cfg.Backend.UsesClientCredentials())
	assert.Equal(t, PushModeNone, cfg.Jobs.PushMode)
	assert.Equal(t, 5*time.Second, cfg.Jobs.PollInterval)
	assert.Equal(t, time.Minute, cfg.Jobs.FallbackInterval)
	assert.Equal(t, DraftStoreMemory, cfg.Drafts.Store)
	assert.True(t, cfg.IsHTTPServerEnabled())
	assert.False(t, cfg.IsJobRelayEnabled())
	assert.False(t, cfg.NeedsRedis())
	assert.False(t, cfg.NeedsPostgres())
	assert.False(t, cfg.Observability.Metrics.IsEnabled())
}

func TestAppConfig_FromEnvironment(t *testing.T) {
	cfg := parse(t, map[string]string{
		"AUTH_MODE":                     "MOCK",
		"AUTH_ALLOWED_GROUPS":           "funding ; admins;",
		"DEV_AUTH_GROUPS":               "funding",
		"BACKEND_BASE_URL":              "https://api.example.test/",
		"BACKEND_TOKEN_URL":             "https://login.example.test/token",
		"BACKEND_CLIENT_ID":             "portal",
		"BACKEND_SCOPES":                "api://funding/.default other",
		"JOBS_PUSH_MODE":                "redis",
		"JOBS_POLL_INTERVAL":            "2s",
		"DRAFTS_STORE":                  "redis",
		"DRAFTS_TTL":                    "30m",
		"SERVICES":                      "http,job-relay",
		"HTTP_MAX_UPLOAD_BYTES":         "1024",
		"OBSERVABILITY_METRICS_ENABLED": "true",
	})

	assert.Equal(t, AuthModeMock, cfg.Auth.Mode)
	assert.Equal(t, []string{"funding", "admins"}, cfg.Auth.AllowedGroups)
	assert.Equal(t, []string{"funding"}, cfg.Auth.DevAuth.Groups)
	assert.Equal(t, "https://api.example.test", cfg.Backend.BaseURL)
	assert.True(t, cfg.Backend.UsesClientCredentials())
	assert.Equal(t, []string{"api://funding/.default", "other"}, cfg.Backend.Scopes)
	assert.Equal(t, PushModeRedis, cfg.Jobs.PushMode)
	assert.Equal(t, 2*time.Second, cfg.Jobs.PollInterval)
	assert.Equal(t, DraftStoreRedis, cfg.Drafts.Store)
	assert.Equal(t, 30*time.Minute, cfg.Drafts.TTL)
	assert.Equal(t, int64(1024), cfg.HTTP.MaxUploadBytes)
	assert.True(t, cfg.IsJobRelayEnabled())
	assert.True(t, cfg.NeedsRedis())
	assert.True(t, cfg.NeedsPostgres())
	assert.True(t, cfg.Observability.Metrics.IsEnabled())
}

func TestAppConfig_InvalidEnums(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{name: "auth mode", vars: map[string]string{"AUTH_MODE": "oauth"}},
		{name: "push mode", vars: map[string]string{"JOBS_PUSH_MODE": "kafka"}},
		{name: "draft store", vars: map[string]string{"DRAFTS_STORE": "disk"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg AppConfig
			assert.Error(t, env.ParseWithOptions(&cfg, env.Options{Environment: tt.vars}))
		})
	}
}

func TestJobsConfig_Sanitize(t *testing.T) {
	tests := []struct {
		name  string
		in    JobsConfig
		check func(t *testing.T, c JobsConfig)
	}{
		{
			name: "min interval floor",
			in:   JobsConfig{MinPollInterval: time.Millisecond, PollInterval: 10 * time.Millisecond},
			check: func(t *testing.T, c JobsConfig) {
				assert.Equal(t, minPollInterval, c.MinPollInterval)
				assert.Equal(t, minPollInterval, c.PollInterval)
			},
		},
		{
			name: "poll interval ceiling",
			in:   JobsConfig{MinPollInterval: time.Second, PollInterval: time.Hour},
			check: func(t *testing.T, c JobsConfig) {
				assert.Equal(t, maxPollInterval, c.PollInterval)
			},
		},
		{
			name: "fallback never faster than polling",
			in:   JobsConfig{MinPollInterval: time.Second, PollInterval: 10 * time.Second, FallbackInterval: time.Second},
			check: func(t *testing.T, c JobsConfig) {
				assert.Equal(t, 10*time.Second, c.FallbackInterval)
			},
		},
		{
			name: "negative fallback kept",
			in:   JobsConfig{MinPollInterval: time.Second, PollInterval: 5 * time.Second, FallbackInterval: -1},
			check: func(t *testing.T, c JobsConfig) {
				assert.Equal(t, time.Duration(-1), c.FallbackInterval)
				assert.Equal(t, PushModeNone, c.PushMode)
				assert.Equal(t, "job_notifications", c.Channel)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.in
			c.Sanitize()
			tt.check(t, c)
		})
	}
}

func TestBackendConfig_SanitizeClampsTimeout(t *testing.T) {
	b := BackendConfig{Timeout: time.Millisecond}
	b.Sanitize()
	assert.Equal(t, minBackendTimeout, b.Timeout)

	b.Timeout = time.Hour
	b.Sanitize()
	assert.Equal(t, maxBackendTimeout, b.Timeout)
}

func TestDBConfig_DSN(t *testing.T) {
	d := DBConfig{Host: "db", Port: 5433, User: "u", Password: "p@ss", Name: "funding", SSLMode: "require", MaxConns: 0}
	assert.Equal(t, "postgres://u:p%40ss@db:5433/funding?pool_max_conns=1&sslmode=require", d.DSN())
}

func TestDetectDevModeFromNodeEnv(t *testing.T) {
	t.Setenv("NODE_ENV", "development")
	cfg := parse(t, map[string]string{})
	assert.True(t, cfg.IsDev)
}
