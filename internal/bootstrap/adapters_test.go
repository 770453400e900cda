package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calcfunding/portal/config"
	"github.com/calcfunding/portal/internal/adapters/devauth"
	domainauth "github.com/calcfunding/portal/internal/domain/auth"
	"github.com/calcfunding/portal/internal/domain/template"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewTokenVerifier(t *testing.T) {
	t.Run("mock mode", func(t *testing.T) {
		v, err := NewTokenVerifier(context.Background(), config.AuthConfig{
			Mode:    config.AuthModeMock,
			DevAuth: config.DevAuthConfig{UserID: "dev", Groups: []string{"funding"}},
		}, discardLogger())
		require.NoError(t, err)
		assert.IsType(t, &devauth.Verifier{}, v)

		id, err := v.Verify(context.Background(), "anything")
		require.NoError(t, err)
		assert.Equal(t, "dev", id.UserID)
	})

	t.Run("mock mode without user", func(t *testing.T) {
		_, err := NewTokenVerifier(context.Background(), config.AuthConfig{Mode: config.AuthModeMock}, nil)
		require.Error(t, err)
	})

	t.Run("oidc without issuer", func(t *testing.T) {
		_, err := NewTokenVerifier(context.Background(), config.AuthConfig{
			Mode: config.AuthModeOIDC,
			OIDC: config.OIDCConfig{ClientID: "portal"},
		}, nil)
		require.ErrorContains(t, err, "create oidc verifier")
	})

	t.Run("unknown mode", func(t *testing.T) {
		_, err := NewTokenVerifier(context.Background(), config.AuthConfig{Mode: "saml"}, nil)
		require.ErrorContains(t, err, "unsupported auth mode")
	})
}

func TestNewGate(t *testing.T) {
	gate := NewGate(config.AuthConfig{AllowedGroups: []string{"funding"}})
	assert.True(t, gate.Allows(domainauth.Identity{UserID: "a", Groups: []string{"funding"}}))
	assert.False(t, gate.Allows(domainauth.Identity{UserID: "b", Groups: []string{"other"}}))
}

func TestNewDraftStore(t *testing.T) {
	store, err := NewDraftStore(config.DraftsConfig{Store: config.DraftStoreMemory, TTL: time.Hour}, nil)
	require.NoError(t, err)
	assert.IsType(t, &template.MemoryDraftStore{}, store)

	_, err = NewDraftStore(config.DraftsConfig{Store: config.DraftStoreRedis, TTL: time.Hour}, nil)
	require.ErrorContains(t, err, "requires a redis connection")
}

func TestNewPushHub(t *testing.T) {
	hub, err := NewPushHub(config.JobsConfig{PushMode: config.PushModeNone}, Connections{}, discardLogger())
	require.NoError(t, err)
	assert.Nil(t, hub)

	_, err = NewPushHub(config.JobsConfig{PushMode: config.PushModeRedis}, Connections{}, discardLogger())
	require.ErrorContains(t, err, "redis push")

	_, err = NewPushHub(config.JobsConfig{PushMode: config.PushModePostgres}, Connections{}, discardLogger())
	require.ErrorContains(t, err, "postgres push")
}

func TestNewMetricsDisabledIsNoop(t *testing.T) {
	client, err := NewMetrics(config.ObservabilityMetricsConfig{StatsdAddress: "127.0.0.1:8125"}, discardLogger())
	require.NoError(t, err)
	assert.False(t, client.Enabled())
	client.Count("anything", 1, nil)
	assert.NoError(t, client.Close())
}

func TestNewBackendClient(t *testing.T) {
	client, err := NewBackendClient(context.Background(), config.BackendConfig{
		BaseURL: "http://backend.example.test",
		Timeout: time.Second,
	}, discardLogger())
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestConnectionsCloseEmpty(t *testing.T) {
	assert.NoError(t, Connections{}.Close())
}
