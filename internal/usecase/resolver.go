package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/iho/bankledger/internal/infrastructure/metrics"
)

// CachedAccountResolver resolves account numbers through an optional cache.
// Concurrent misses for the same number share one repository lookup.
// Cache failures fall back to the repository.
type CachedAccountResolver struct {
	accountRepo AccountRepository
	cache       AccountCache
	ttl         time.Duration
	group       singleflight.Group
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// NewCachedAccountResolver creates a resolver. cache may be nil.
func NewCachedAccountResolver(accountRepo AccountRepository, cache AccountCache, ttl time.Duration, m *metrics.Metrics, logger zerolog.Logger) *CachedAccountResolver {
	if ttl <= 0 {
		ttl = DefaultAccountCacheTTL
	}

	return &CachedAccountResolver{
		accountRepo: accountRepo,
		cache:       cache,
		ttl:         ttl,
		metrics:     m,
		logger:      logger,
	}
}

// ResolveID returns the internal id for accountNumber.
func (r *CachedAccountResolver) ResolveID(ctx context.Context, accountNumber string) (string, error) {
	if r.cache != nil {
		id, ok, err := r.cache.GetAccountID(ctx, accountNumber)
		switch {
		case err != nil:
			r.logger.Warn().Err(err).Str("account_number", accountNumber).Msg("account cache read failed")
			r.observe("error")
		case ok:
			r.observe("hit")
			return id, nil
		default:
			r.observe("miss")
		}
	}

	v, err, _ := r.group.Do(accountNumber, func() (any, error) {
		account, err := r.accountRepo.GetByNumber(ctx, accountNumber)
		if err != nil {
			return "", err
		}

		if r.cache != nil {
			if err := r.cache.SetAccountID(ctx, accountNumber, account.ID, r.ttl); err != nil {
				r.logger.Warn().Err(err).Str("account_number", accountNumber).Msg("account cache write failed")
			}
		}

		return account.ID, nil
	})
	if err != nil {
		return "", err
	}

	return v.(string), nil
}

func (r *CachedAccountResolver) observe(result string) {
	if r.metrics != nil {
		r.metrics.AccountCacheLookups.WithLabelValues(result).Inc()
	}
}
