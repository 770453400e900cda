package config

const (
	defaultMaxUploadBytes int64 = 100 << 20
	maxMaxUploadBytes     int64 = 1 << 30
)

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// MaxUploadBytes caps data source file uploads.
	MaxUploadBytes int64 `env:"HTTP_MAX_UPLOAD_BYTES" envDefault:"104857600"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.Addr == "" {
		h.Addr = ":8080"
	}
	if h.MaxUploadBytes <= 0 {
		h.MaxUploadBytes = defaultMaxUploadBytes
	}
	if h.MaxUploadBytes > maxMaxUploadBytes {
		h.MaxUploadBytes = maxMaxUploadBytes
	}
}
