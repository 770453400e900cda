package bootstrap

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/calcfunding/portal/config"
	domainjob "github.com/calcfunding/portal/internal/domain/job"
	httpx "github.com/calcfunding/portal/internal/http"
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// BuildHTTPHandler assembles the router over the service container.
func BuildHTTPHandler(cfg *HTTPServerConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	return httpx.NewRouter(httpx.RouterServices{
		Jobs:           cfg.Services.Jobs,
		Datasets:       cfg.Services.Datasets,
		Specifications: cfg.Services.Specifications,
		Funding:        cfg.Services.Funding,
		Templates:      cfg.Services.Templates,
		Verifier:       cfg.Services.Verifier,
		Gate:           cfg.Services.Gate,
		MaxUploadBytes: appCfg.HTTP.MaxUploadBytes,
		Logger:         logger,
	})
}

// newHTTPServer builds the server. Request contexts derive from base so that
// cancelling it ends open job streams before Shutdown drains.
func newHTTPServer(base context.Context, cfg *HTTPServerConfig) *http.Server {
	addr := ":8080"
	if cfg.Config != nil && cfg.Config.HTTP.Addr != "" {
		addr = cfg.Config.HTTP.Addr
	}
	return &http.Server{
		Addr:              addr,
		Handler:           BuildHTTPHandler(cfg),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       5 * time.Minute, // data source uploads
		// The job stream is long-lived; handlers bound their own work.
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return base },
	}
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Server *http.Server
	Push   *domainjob.Hub
	Logger *slog.Logger
}

// ShutdownHTTPServer stops the push hub so open streams end, then drains the server.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}
	if cfg.Logger != nil {
		cfg.Logger.Info("shutting down HTTP server")
	}

	if cfg.Push != nil {
		cfg.Push.StopAll()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWaitTimeout)
	defer cancel()

	if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("HTTP server stopped")
	}
	return nil
}
