package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/calcfunding/portal/config"
	"github.com/calcfunding/portal/internal/adapters/authroles"
	"github.com/calcfunding/portal/internal/adapters/backend"
	"github.com/calcfunding/portal/internal/adapters/devauth"
	"github.com/calcfunding/portal/internal/adapters/oidc"
	"github.com/calcfunding/portal/internal/adapters/pgnotify"
	redisadapter "github.com/calcfunding/portal/internal/adapters/redis"
	domainjob "github.com/calcfunding/portal/internal/domain/job"
	"github.com/calcfunding/portal/internal/domain/template"
	"github.com/calcfunding/portal/internal/observability/statsd"
	"github.com/calcfunding/portal/internal/ports"
)

// Connections holds the shared transport clients. Either field may be nil
// when no enabled component needs it.
type Connections struct {
	Redis    redis.UniversalClient
	Postgres *pgxpool.Pool
}

// Close releases every open connection.
func (c Connections) Close() error {
	var errs []error
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if c.Postgres != nil {
		c.Postgres.Close()
	}
	return errors.Join(errs...)
}

// Connect opens only the connections the configuration calls for.
func Connect(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (Connections, error) {
	var conns Connections
	dbCfg := DatabaseConfig{DBConfig: cfg.Postgres, RedisConfig: cfg.Redis, Logger: logger}

	if cfg.NeedsRedis() {
		client, err := ConnectRedis(ctx, dbCfg)
		if err != nil {
			return conns, err
		}
		conns.Redis = client
	}
	if cfg.NeedsPostgres() {
		pool, err := ConnectPostgres(ctx, dbCfg)
		if err != nil {
			return conns, errors.Join(err, conns.Close())
		}
		conns.Postgres = pool
	}
	return conns, nil
}

// NewBackendClient builds the funding platform REST client.
func NewBackendClient(ctx context.Context, cfg config.BackendConfig, logger *slog.Logger) (*backend.Client, error) {
	bcfg := backend.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Logger:  logger,
	}
	if cfg.UsesClientCredentials() {
		bcfg.TokenURL = cfg.TokenURL
		bcfg.ClientID = cfg.ClientID
		bcfg.ClientSecret = cfg.ClientSecret
		bcfg.Scopes = cfg.Scopes
	}
	client, err := backend.NewClient(ctx, bcfg)
	if err != nil {
		return nil, fmt.Errorf("create backend client: %w", err)
	}
	return client, nil
}

// NewTokenVerifier returns the verifier for the configured auth mode.
//
//nolint:ireturn // the verifier implementation depends on AUTH_MODE.
func NewTokenVerifier(ctx context.Context, cfg config.AuthConfig, logger *slog.Logger) (ports.TokenVerifier, error) {
	switch cfg.Mode {
	case config.AuthModeMock:
		if logger != nil {
			logger.Warn("dev auth enabled: every bearer token is accepted", "user_id", cfg.DevAuth.UserID)
		}
		v, err := devauth.NewVerifier(devauth.Config{
			UserID:      cfg.DevAuth.UserID,
			DisplayName: cfg.DevAuth.DisplayName,
			Email:       cfg.DevAuth.Email,
			Groups:      cfg.DevAuth.Groups,
		})
		if err != nil {
			return nil, fmt.Errorf("create dev verifier: %w", err)
		}
		return v, nil
	case config.AuthModeOIDC:
		v, err := oidc.NewVerifier(ctx, oidc.Config{
			IssuerURL: cfg.OIDC.IssuerURL,
			ClientID:  cfg.OIDC.ClientID,
		})
		if err != nil {
			return nil, fmt.Errorf("create oidc verifier: %w", err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported auth mode %q", cfg.Mode)
	}
}

// NewGate restricts the portal to the configured groups.
func NewGate(cfg config.AuthConfig) authroles.GroupGate {
	return authroles.GroupGate{Allowed: cfg.AllowedGroups}
}

// NewDraftStore picks the template draft store.
//
//nolint:ireturn // memory or redis depending on DRAFTS_STORE.
func NewDraftStore(cfg config.DraftsConfig, client redis.UniversalClient) (template.DraftStore, error) {
	if cfg.Store != config.DraftStoreRedis {
		return template.NewMemoryDraftStore(cfg.TTL), nil
	}
	if client == nil {
		return nil, errors.New("redis draft store requires a redis connection")
	}
	return redisadapter.NewDraftStore(client, cfg.TTL), nil
}

// NewPushHub builds the job notification hub for the configured push mode.
// It returns nil, nil when push is disabled.
func NewPushHub(cfg config.JobsConfig, conns Connections, logger *slog.Logger) (*domainjob.Hub, error) {
	var listener domainjob.Listener
	switch cfg.PushMode {
	case config.PushModeRedis:
		if conns.Redis == nil {
			return nil, errors.New("redis push requires a redis connection")
		}
		listener = redisadapter.NewJobChannel(conns.Redis, cfg.Channel, logger)
	case config.PushModePostgres:
		if conns.Postgres == nil {
			return nil, errors.New("postgres push requires a postgres connection")
		}
		listener = pgnotify.NewListener(conns.Postgres, cfg.Channel, logger)
	default:
		return nil, nil
	}
	hub, err := domainjob.NewHub(domainjob.HubOptions{
		Listener: listener,
		Backoff:  cfg.ListenerBackoff,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create push hub: %w", err)
	}
	return hub, nil
}

// NewMetrics builds the StatsD client. A disabled client is a no-op sink.
func NewMetrics(cfg config.ObservabilityMetricsConfig, logger *slog.Logger) (*statsd.Client, error) {
	client, err := statsd.NewClient(statsd.Config{
		Enabled: cfg.IsEnabled(),
		Address: cfg.StatsdAddress,
		Prefix:  cfg.Prefix,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create statsd client: %w", err)
	}
	return client, nil
}
