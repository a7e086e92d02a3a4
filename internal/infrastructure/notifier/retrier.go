package notifier

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

// Retrier re-runs a delivery with exponential backoff until it succeeds,
// returns a permanent error, or runs out of attempts.
type Retrier struct {
	maxRetries      int
	initialInterval time.Duration
	maxInterval     time.Duration
	maxElapsedTime  time.Duration
	logger          zerolog.Logger
}

// NewRetrier creates a retrier allowing maxRetries attempts after the first.
func NewRetrier(maxRetries int, logger zerolog.Logger) *Retrier {
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Retrier{
		maxRetries:      maxRetries,
		initialInterval: 100 * time.Millisecond,
		maxInterval:     2 * time.Second,
		maxElapsedTime:  30 * time.Second,
		logger:          logger,
	}
}

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Retry executes operation with exponential backoff. The returned error is
// the last one operation produced, or ctx's error if it expired first.
func (r *Retrier) Retry(ctx context.Context, operation func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialInterval
	b.MaxInterval = r.maxInterval
	b.MaxElapsedTime = r.maxElapsedTime

	retryCount := 0

	return backoff.Retry(func() error {
		err := operation()
		if err == nil {
			return nil
		}

		retryCount++
		if retryCount > r.maxRetries {
			return backoff.Permanent(err)
		}

		r.logger.Warn().
			Err(err).
			Int("retry", retryCount).
			Msg("notification delivery failed, retrying")

		return err
	}, backoff.WithContext(b, ctx))
}
