package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/calcfunding/portal/config"
	"github.com/calcfunding/portal/internal/bootstrap"
	"github.com/calcfunding/portal/internal/observability/statsd"
)

func main() {
	ctx := context.Background()
	cfg, err := bootstrap.LoadConfig()
	logger := bootstrap.InitLogger(cfg.LogLevel)
	if err == nil {
		err = run(ctx, logger, &cfg)
	}
	if err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) (err error) {
	logStartupInfo(ctx, logger, cfg)

	if err = bootstrap.ValidateServiceConfig(cfg); err != nil {
		return err
	}

	conns, err := bootstrap.Connect(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer func() {
		if cerr := conns.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	metrics, err := bootstrap.NewMetrics(cfg.Observability.Metrics, logger)
	if err != nil {
		return err
	}
	defer func() { _ = metrics.Close() }()

	var services bootstrap.ServiceContainer
	if cfg.IsHTTPServerEnabled() {
		services, err = buildHTTPServices(ctx, cfg, conns, metrics, logger)
		if err != nil {
			return err
		}
	} else {
		services.Metrics = metrics
	}

	return bootstrap.RunServicesWithShutdown(&bootstrap.ServiceOrchestrationConfig{
		Config:      cfg,
		Services:    services,
		Connections: conns,
		Logger:      logger,
	})
}

func buildHTTPServices(
	ctx context.Context,
	cfg *config.AppConfig,
	conns bootstrap.Connections,
	metrics *statsd.Client,
	logger *slog.Logger,
) (bootstrap.ServiceContainer, error) {
	backend, err := bootstrap.NewBackendClient(ctx, cfg.Backend, logger)
	if err != nil {
		return bootstrap.ServiceContainer{}, err
	}
	verifier, err := bootstrap.NewTokenVerifier(ctx, cfg.Auth, logger)
	if err != nil {
		return bootstrap.ServiceContainer{}, err
	}
	return bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config:      cfg,
		Backend:     backend,
		Verifier:    verifier,
		Connections: conns,
		Metrics:     metrics,
		Logger:      logger,
	})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting calculate funding portal",
		"backend", cfg.Backend.BaseURL,
		"auth_mode", cfg.Auth.Mode,
		"push_mode", cfg.Jobs.PushMode,
		"draft_store", cfg.Drafts.Store,
		"enabled_services", bootstrap.GetEnabledServices(cfg))
}
