package notifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func fastRetrier(maxRetries int) *Retrier {
	r := NewRetrier(maxRetries, zerolog.Nop())
	r.initialInterval = time.Millisecond
	r.maxInterval = 2 * time.Millisecond
	r.maxElapsedTime = time.Second
	return r
}

func TestRetrierRetriesUntilSuccess(t *testing.T) {
	r := fastRetrier(3)

	attempts := 0
	err := r.Retry(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("smtp unavailable")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected success after retry, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestRetrierStopsOnPermanentError(t *testing.T) {
	r := fastRetrier(5)
	permanentErr := errors.New("no such recipient")

	attempts := 0
	err := r.Retry(context.Background(), func() error {
		attempts++
		return Permanent(permanentErr)
	})

	if !errors.Is(err, permanentErr) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestRetrierGivesUpAfterMaxRetries(t *testing.T) {
	r := fastRetrier(2)
	failure := errors.New("broker down")

	attempts := 0
	err := r.Retry(context.Background(), func() error {
		attempts++
		return failure
	})

	if !errors.Is(err, failure) {
		t.Fatalf("expected last failure, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestRetrierNegativeRetriesMeansSingleAttempt(t *testing.T) {
	r := fastRetrier(-1)

	attempts := 0
	_ = r.Retry(context.Background(), func() error {
		attempts++
		return errors.New("fail")
	})

	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}
