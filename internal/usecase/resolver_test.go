package usecase_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/infrastructure/metrics"
	"github.com/iho/bankledger/internal/usecase"
	"github.com/iho/bankledger/internal/usecase/mocks"
)

func TestCachedAccountResolver_MissThenHit(t *testing.T) {
	ctx := context.Background()
	accounts := mocks.NewMockAccountRepository()
	accounts.Put(&domain.Account{ID: "a1", AccountNumber: "SAV0001"})

	var lookups atomic.Int64
	accounts.GetByNumberFunc = func(ctx context.Context, number string) (*domain.Account, error) {
		lookups.Add(1)
		return &domain.Account{ID: "a1", AccountNumber: number}, nil
	}

	var ttl time.Duration
	cache := mocks.NewMockAccountCache()
	cache.SetAccountIDFunc = func(ctx context.Context, number, id string, d time.Duration) error {
		ttl = d
		cache.SetAccountIDFunc = nil
		return cache.SetAccountID(ctx, number, id, d)
	}

	m := metrics.New(prometheus.NewRegistry())
	r := usecase.NewCachedAccountResolver(accounts, cache, 0, m, zerolog.Nop())

	id, err := r.ResolveID(ctx, "SAV0001")
	require.NoError(t, err)
	assert.Equal(t, "a1", id)
	assert.Equal(t, usecase.DefaultAccountCacheTTL, ttl)

	id, err = r.ResolveID(ctx, "SAV0001")
	require.NoError(t, err)
	assert.Equal(t, "a1", id)

	assert.EqualValues(t, 1, lookups.Load())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AccountCacheLookups.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AccountCacheLookups.WithLabelValues("hit")))
}

func TestCachedAccountResolver_CacheFailureFallsBack(t *testing.T) {
	accounts := mocks.NewMockAccountRepository()
	accounts.Put(&domain.Account{ID: "a1", AccountNumber: "SAV0001"})

	cache := mocks.NewMockAccountCache()
	cache.GetAccountIDFunc = func(ctx context.Context, number string) (string, bool, error) {
		return "", false, errors.New("redis unavailable")
	}
	cache.SetAccountIDFunc = func(ctx context.Context, number, id string, ttl time.Duration) error {
		return errors.New("redis unavailable")
	}

	r := usecase.NewCachedAccountResolver(accounts, cache, time.Minute, nil, zerolog.Nop())

	id, err := r.ResolveID(context.Background(), "SAV0001")
	require.NoError(t, err)
	assert.Equal(t, "a1", id)
}

func TestCachedAccountResolver_NotFound(t *testing.T) {
	r := usecase.NewCachedAccountResolver(mocks.NewMockAccountRepository(), nil, 0, nil, zerolog.Nop())

	_, err := r.ResolveID(context.Background(), "NOPE")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestCachedAccountResolver_ConcurrentMissesShareLookup(t *testing.T) {
	release := make(chan struct{})
	var lookups atomic.Int64

	accounts := mocks.NewMockAccountRepository()
	accounts.GetByNumberFunc = func(ctx context.Context, number string) (*domain.Account, error) {
		lookups.Add(1)
		<-release
		return &domain.Account{ID: "a1", AccountNumber: number}, nil
	}

	r := usecase.NewCachedAccountResolver(accounts, nil, 0, nil, zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := r.ResolveID(context.Background(), "SAV0001")
			assert.NoError(t, err)
			assert.Equal(t, "a1", id)
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, lookups.Load())
}
