// Package testutil holds helpers for tests that need Redis or Postgres.
// Tests skip when the service is unreachable unless TEST_REQUIRE_INFRA (or the
// service-specific TEST_REQUIRE_REDIS / TEST_REQUIRE_DB) is set.
package testutil

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// TB is the subset of testing.TB used by the helpers.
type TB interface {
	Helper()
	Skipf(format string, args ...any)
	Fatalf(format string, args ...any)
	Logf(format string, args ...any)
	Cleanup(func())
}

var _ TB = (testing.TB)(nil)

// SetupTestRedis returns a client on a per-process database index, flushed
// before use and closed on cleanup.
func SetupTestRedis(t TB) *redis.Client {
	t.Helper()

	addrs := []string{"localhost:6379", "redis:6379", "localhost:56379"}
	if env := os.Getenv("REDIS_ADDR"); env != "" {
		addrs = []string{env}
	}

	for _, addr := range addrs {
		client := redis.NewClient(&redis.Options{Addr: addr, DB: testRedisDB()})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := client.Ping(ctx).Err()
		if err == nil {
			err = client.FlushDB(ctx).Err()
		}
		cancel()
		if err != nil {
			_ = client.Close()
			t.Logf("redis not available at %s: %v", addr, err)
			continue
		}
		t.Cleanup(func() { _ = client.Close() })
		return client
	}

	if required("TEST_REQUIRE_REDIS") {
		t.Fatalf("redis not available for testing")
	}
	t.Skipf("redis not available for testing")
	return nil
}

func testRedisDB() int {
	if v := os.Getenv("TEST_REDIS_DB"); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			return i
		}
	}
	// Spread parallel package runs across databases 1..15.
	return os.Getpid()%15 + 1
}

// TestDatabaseURL returns the Postgres DSN used by integration tests.
func TestDatabaseURL() string {
	if v := os.Getenv("TEST_DATABASE_URL"); v != "" {
		return v
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		envOr("TEST_DB_USER", "portal"),
		envOr("TEST_DB_PASSWORD", "portal"),
		envOr("TEST_DB_HOST", "localhost"),
		envOr("TEST_DB_PORT", "55432"),
		envOr("TEST_DB_NAME", "portal"),
	)
}

// SetupTestPool connects a pgx pool to the test database.
func SetupTestPool(t TB) *pgxpool.Pool {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, TestDatabaseURL())
	if err == nil {
		err = pool.Ping(ctx)
		if err != nil {
			pool.Close()
		}
	}
	if err != nil {
		if required("TEST_REQUIRE_DB") {
			t.Fatalf("test database not available: %v", err)
		}
		t.Skipf("test database not available: %v", err)
		return nil
	}
	t.Cleanup(pool.Close)
	return pool
}

// FixedTimeFunc returns a clock that always reports ts.
func FixedTimeFunc(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

// TestTime is the reference instant used by time-sensitive tests.
func TestTime() time.Time {
	return time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func required(key string) bool {
	return truthy(os.Getenv(key)) || truthy(os.Getenv("TEST_REQUIRE_INFRA"))
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}
