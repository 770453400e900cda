package bootstrap

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/calcfunding/portal/config"
)

const connectTimeout = 5 * time.Second

// DatabaseConfig contains configuration for the push transports.
type DatabaseConfig struct {
	DBConfig    config.DBConfig
	RedisConfig config.RedisConfig
	Logger      *slog.Logger
}

// ConnectPostgres opens the pgx pool used for LISTEN/NOTIFY job notifications.
func ConnectPostgres(ctx context.Context, cfg DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DBConfig.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	poolCfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if pingErr := pool.Ping(pingCtx); pingErr != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", pingErr)
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("postgres connected",
			"host", cfg.DBConfig.Host,
			"port", cfg.DBConfig.Port,
			"database", cfg.DBConfig.Name,
		)
	}
	return pool, nil
}

// ConnectRedis resolves the configured topology, connects and pings.
//
//nolint:ireturn // single, sentinel and cluster clients share redis.UniversalClient.
func ConnectRedis(ctx context.Context, cfg DatabaseConfig) (redis.UniversalClient, error) {
	target, err := resolveRedisTarget(cfg.RedisConfig)
	if err != nil {
		return nil, err
	}
	client := target.client()

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if pingErr := client.Ping(pingCtx).Err(); pingErr != nil {
		if closeErr := client.Close(); closeErr != nil {
			pingErr = errors.Join(pingErr, fmt.Errorf("close redis client: %w", closeErr))
		}
		return nil, fmt.Errorf("ping redis %s: %w", target, pingErr)
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("redis connected", "mode", target.mode, "addr", target.String())
	}
	return client, nil
}

type redisMode string

const (
	redisDirect   redisMode = "direct"
	redisSentinel redisMode = "sentinel"
	redisCluster  redisMode = "cluster"
)

// redisTarget is a resolved connection plan. String never includes credentials.
type redisTarget struct {
	mode             redisMode
	addrs            []string
	username         string
	password         string
	masterName       string
	sentinelPassword string
	tls              *tls.Config
}

func (t redisTarget) String() string {
	switch t.mode {
	case redisSentinel:
		return "sentinel:" + t.masterName
	case redisCluster:
		return "cluster:" + strings.Join(t.addrs, ",")
	default:
		return strings.Join(t.addrs, ",")
	}
}

//nolint:ireturn // see ConnectRedis.
func (t redisTarget) client() redis.UniversalClient {
	switch t.mode {
	case redisCluster:
		return redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:     t.addrs,
			Username:  t.username,
			Password:  t.password,
			TLSConfig: t.tls,
		})
	case redisSentinel:
		return redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:       t.masterName,
			SentinelAddrs:    t.addrs,
			Password:         t.password,
			SentinelPassword: t.sentinelPassword,
		})
	default:
		return redis.NewClient(&redis.Options{
			Addr:      t.addrs[0],
			Username:  t.username,
			Password:  t.password,
			TLSConfig: t.tls,
		})
	}
}

// resolveRedisTarget picks cluster, sentinel or a direct connection. A
// redis:// or rediss:// URI supplies credentials and TLS for direct and
// single-seed cluster setups.
func resolveRedisTarget(cfg config.RedisConfig) (redisTarget, error) {
	switch {
	case cfg.UseCluster:
		t := redisTarget{mode: redisCluster, addrs: normalizeAddrs(cfg.ClusterNodes), password: cfg.Password}
		if len(t.addrs) == 0 {
			seed, err := targetFromURI(cfg.URI, cfg.Password)
			if err != nil {
				return redisTarget{}, fmt.Errorf("redis cluster seed: %w", err)
			}
			seed.mode = redisCluster
			t = seed
		}
		return t, nil
	case cfg.UseSentinel:
		addrs := normalizeAddrs(cfg.SentinelNodes)
		if len(addrs) == 0 {
			return redisTarget{}, errors.New("redis sentinel configuration requires at least one sentinel node")
		}
		return redisTarget{
			mode:             redisSentinel,
			addrs:            addrs,
			password:         cfg.Password,
			masterName:       cfg.SentinelMasterName,
			sentinelPassword: cfg.SentinelPassword,
		}, nil
	default:
		return targetFromURI(cfg.URI, cfg.Password)
	}
}

func targetFromURI(uri, password string) (redisTarget, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return redisTarget{}, errors.New("redis URI is required")
	}
	if !strings.HasPrefix(uri, "redis://") && !strings.HasPrefix(uri, "rediss://") {
		return redisTarget{mode: redisDirect, addrs: []string{uri}, password: password}, nil
	}
	opt, err := redis.ParseURL(uri)
	if err != nil {
		return redisTarget{}, fmt.Errorf("parse redis url: %w", err)
	}
	if opt.Password != "" {
		password = opt.Password
	}
	return redisTarget{
		mode:     redisDirect,
		addrs:    []string{opt.Addr},
		username: opt.Username,
		password: password,
		tls:      opt.TLSConfig,
	}, nil
}

func normalizeAddrs(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, addr := range raw {
		if trimmed := strings.TrimSpace(addr); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
