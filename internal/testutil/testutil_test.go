package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTestDatabaseURL(t *testing.T) {
	t.Setenv("TEST_DATABASE_URL", "")
	t.Setenv("TEST_DB_HOST", "db")
	t.Setenv("TEST_DB_PORT", "5432")
	assert.Equal(t, "postgres://portal:portal@db:5432/portal?sslmode=disable", TestDatabaseURL())

	t.Setenv("TEST_DATABASE_URL", "postgres://x")
	assert.Equal(t, "postgres://x", TestDatabaseURL())
}

func TestRequired(t *testing.T) {
	t.Setenv("TEST_REQUIRE_INFRA", "")
	t.Setenv("TEST_REQUIRE_REDIS", "yes")
	assert.True(t, required("TEST_REQUIRE_REDIS"))
	assert.False(t, required("TEST_REQUIRE_DB"))

	t.Setenv("TEST_REQUIRE_INFRA", "1")
	assert.True(t, required("TEST_REQUIRE_DB"))
}

func TestTestRedisDBOverride(t *testing.T) {
	t.Setenv("TEST_REDIS_DB", "7")
	assert.Equal(t, 7, testRedisDB())

	t.Setenv("TEST_REDIS_DB", "bad")
	db := testRedisDB()
	assert.GreaterOrEqual(t, db, 1)
	assert.LessOrEqual(t, db, 15)
}
