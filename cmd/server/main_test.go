package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpAdapter "github.com/iho/bankledger/internal/adapter/http"
	"github.com/iho/bankledger/internal/app"
	"github.com/iho/bankledger/internal/infrastructure/config"
	"github.com/iho/bankledger/internal/infrastructure/metrics"
)

func memoryConfig() *config.Config {
	return &config.Config{
		StoreDriver:        config.StoreDriverMemory,
		PINHashCost:        4,
		TransactionTimeout: time.Second,
		NotifyKafkaTopic:   "bankledger.notifications",
	}
}

func TestOpenInfrastructure_Memory(t *testing.T) {
	infra, err := openInfrastructure(context.Background(), memoryConfig(), zerolog.Nop())
	require.NoError(t, err)
	defer infra.Close()

	assert.Nil(t, infra.Cache)
	assert.Nil(t, infra.Idempotency)
	assert.Contains(t, infra.Pingers, "store")
}

func TestOpenInfrastructure_Redis(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := memoryConfig()
	cfg.RedisEnabled = true
	cfg.RedisURL = "redis://" + mr.Addr()
	cfg.NotifyStream = "bankledger:notifications"

	infra, err := openInfrastructure(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer infra.Close()

	assert.NotNil(t, infra.Cache)
	assert.NotNil(t, infra.Idempotency)
	assert.Contains(t, infra.Pingers, "redis")

	publishers, closeAll, err := buildPublishers(cfg, infra, zerolog.Nop())
	require.NoError(t, err)
	defer closeAll()

	names := make([]string, 0, len(publishers))
	for _, p := range publishers {
		names = append(names, p.Name())
	}
	assert.Equal(t, []string{"log", "stream"}, names)
}

func TestOpenInfrastructure_RedisUnavailable(t *testing.T) {
	cfg := memoryConfig()
	cfg.RedisEnabled = true
	cfg.RedisURL = "redis://127.0.0.1:1"

	_, err := openInfrastructure(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}

func TestBuildPublishers_AllChannels(t *testing.T) {
	cfg := memoryConfig()
	cfg.NotifyKafkaBrokers = []string{"127.0.0.1:9092"}
	cfg.SMTPHost = "smtp.bank.test"
	cfg.SMTPPort = 587
	cfg.SMTPFrom = "noreply@bank.test"

	infra, err := openInfrastructure(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer infra.Close()

	publishers, closeAll, err := buildPublishers(cfg, infra, zerolog.Nop())
	require.NoError(t, err)
	defer closeAll()

	names := make([]string, 0, len(publishers))
	for _, p := range publishers {
		names = append(names, p.Name())
	}
	assert.Equal(t, []string{"log", "kafka", "email"}, names)
}

func TestNewRouterConfig_AuthToggle(t *testing.T) {
	cfg := memoryConfig()
	infra, err := openInfrastructure(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer infra.Close()

	m := metrics.New(prometheus.NewRegistry())
	a := app.New(app.Deps{Repos: infra.Repos, Metrics: m, Logger: zerolog.Nop()}, cfg)

	open := newRouterConfig(cfg, a, infra, m, zerolog.Nop())
	assert.Nil(t, open.TokenVerifier)
	assert.Nil(t, open.IdempotencyStore)

	rec := httptest.NewRecorder()
	httpAdapter.NewRouter(open).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	cfg.AuthEnabled = true
	cfg.JWTSecret = "secret"
	cfg.JWTExpiration = time.Hour

	secured := newRouterConfig(cfg, a, infra, m, zerolog.Nop())
	require.NotNil(t, secured.TokenVerifier)

	rec = httptest.NewRecorder()
	httpAdapter.NewRouter(secured).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
