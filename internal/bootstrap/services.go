package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/calcfunding/portal/config"
	"github.com/calcfunding/portal/internal/adapters/authroles"
	"github.com/calcfunding/portal/internal/adapters/pgnotify"
	redisadapter "github.com/calcfunding/portal/internal/adapters/redis"
	domainjob "github.com/calcfunding/portal/internal/domain/job"
	"github.com/calcfunding/portal/internal/observability/statsd"
	"github.com/calcfunding/portal/internal/ports"
	"github.com/calcfunding/portal/internal/service"
)

const shutdownWaitTimeout = 10 * time.Second

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Jobs           *service.JobService
	Datasets       *service.DatasetService
	Specifications *service.SpecificationService
	Funding        *service.FundingService
	Templates      *service.TemplateService

	Verifier ports.TokenVerifier
	Gate     authroles.GroupGate

	// Push is nil when job notifications are polled only.
	Push    *domainjob.Hub
	Metrics *statsd.Client
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	Backend     ports.Backend
	Verifier    ports.TokenVerifier
	Connections Connections
	Metrics     *statsd.Client
	Logger      *slog.Logger
}

// NewServices builds the service layer over the backend client and push transports.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil || deps.Backend == nil {
		return ServiceContainer{}, errors.New("service deps require config and backend")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	hub, err := NewPushHub(cfg.Jobs, deps.Connections, logger)
	if err != nil {
		return ServiceContainer{}, err
	}
	drafts, err := NewDraftStore(cfg.Drafts, deps.Connections.Redis)
	if err != nil {
		return ServiceContainer{}, err
	}

	jobOpts := service.JobServiceOptions{
		Jobs: deps.Backend,
		Config: service.JobServiceConfig{
			PollInterval:     cfg.Jobs.PollInterval,
			MinPollInterval:  cfg.Jobs.MinPollInterval,
			FallbackInterval: cfg.Jobs.FallbackInterval,
		},
		Metrics: deps.Metrics,
		Logger:  logger,
	}
	if hub != nil {
		jobOpts.Push = hub
	}

	c := ServiceContainer{
		Jobs:     service.MustNewJobService(jobOpts),
		Verifier: deps.Verifier,
		Gate:     NewGate(cfg.Auth),
		Push:     hub,
		Metrics:  deps.Metrics,
	}
	if c.Datasets, err = service.NewDatasetService(service.DatasetServiceOptions{Backend: deps.Backend, Logger: logger}); err != nil {
		return ServiceContainer{}, err
	}
	if c.Specifications, err = service.NewSpecificationService(service.SpecificationServiceOptions{Backend: deps.Backend, Logger: logger}); err != nil {
		return ServiceContainer{}, err
	}
	if c.Funding, err = service.NewFundingService(service.FundingServiceOptions{Backend: deps.Backend, Logger: logger}); err != nil {
		return ServiceContainer{}, err
	}
	if c.Templates, err = service.NewTemplateService(service.TemplateServiceOptions{
		Backend: deps.Backend,
		Drafts:  drafts,
		Logger:  logger,
	}); err != nil {
		return ServiceContainer{}, err
	}
	return c, nil
}

// NewJobRelay forwards Postgres NOTIFY job payloads onto the Redis channel
// that http instances subscribe to.
func NewJobRelay(cfg config.JobsConfig, conns Connections, metrics statsd.Sink, logger *slog.Logger) (*service.JobRelay, error) {
	if conns.Postgres == nil || conns.Redis == nil {
		return nil, errors.New("job relay requires postgres and redis connections")
	}
	return service.NewJobRelay(service.JobRelayOptions{
		Source:    pgnotify.NewListener(conns.Postgres, cfg.Channel, logger),
		Publisher: redisadapter.NewJobChannel(conns.Redis, cfg.Channel, logger),
		Backoff:   cfg.ListenerBackoff,
		Metrics:   metrics,
		Logger:    logger,
	})
}

// ServiceOrchestrationConfig contains everything needed to run the enabled services.
type ServiceOrchestrationConfig struct {
	Config      *config.AppConfig
	Services    ServiceContainer
	Connections Connections
	Logger      *slog.Logger
}

// RunServicesWithShutdown starts all enabled services and manages their lifecycle.
// It blocks until SIGINT/SIGTERM is received or a service fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil || cfg.Config == nil {
		return errors.New("service orchestration config is required")
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return RunServices(ctx, cfg)
}

// RunServices runs the enabled services until ctx is cancelled or one fails.
func RunServices(ctx context.Context, cfg *ServiceOrchestrationConfig) error {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	enabled, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}

	var relay *service.JobRelay
	if enabled[config.ServiceModeJobRelay] {
		if relay, err = NewJobRelay(cfg.Config.Jobs, cfg.Connections, cfg.Services.Metrics, logger); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	if enabled[config.ServiceModeHTTP] {
		server := newHTTPServer(gctx, &HTTPServerConfig{
			Config:   cfg.Config,
			Services: cfg.Services,
			Logger:   logger,
		})
		g.Go(func() error {
			logger.Info("starting HTTP server", "addr", server.Addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			return ShutdownHTTPServer(ShutdownConfig{
				Server: server,
				Push:   cfg.Services.Push,
				Logger: logger,
			})
		})
	}

	if relay != nil {
		g.Go(func() error {
			logger.Info("starting job relay", "channel", cfg.Config.Jobs.Channel)
			if err := relay.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("job relay: %w", err)
			}
			logger.Info("job relay stopped")
			return nil
		})
	}

	err = g.Wait()
	if err != nil {
		logger.Error("service error", "error", err)
	}
	return err
}
