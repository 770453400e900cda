package config

import (
	"strings"
	"time"
)

const (
	minBackendTimeout = time.Second
	maxBackendTimeout = 5 * time.Minute
)

// BackendConfig points the portal at the funding platform REST API.
// When TokenURL is set the client authenticates with OAuth2 client credentials.
type BackendConfig struct {
	BaseURL string        `env:"BASE_URL" envDefault:"http://localhost:5000"`
	Timeout time.Duration `env:"TIMEOUT"  envDefault:"30s"`

	TokenURL     string   `env:"TOKEN_URL"`
	ClientID     string   `env:"CLIENT_ID"`
	ClientSecret string   `env:"CLIENT_SECRET"`
	Scopes       []string `env:"SCOPES"        envSeparator:" "`
}

// Sanitize clamps the request timeout and normalises the base URL.
func (b *BackendConfig) Sanitize() {
	b.BaseURL = strings.TrimRight(strings.TrimSpace(b.BaseURL), "/")
	b.TokenURL = strings.TrimSpace(b.TokenURL)
	if b.Timeout < minBackendTimeout {
		b.Timeout = minBackendTimeout
	}
	if b.Timeout > maxBackendTimeout {
		b.Timeout = maxBackendTimeout
	}
}

// UsesClientCredentials reports whether OAuth2 client credentials are configured.
func (b *BackendConfig) UsesClientCredentials() bool {
	return b.TokenURL != "" && b.ClientID != ""
}
