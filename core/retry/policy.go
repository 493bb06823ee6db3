// ABOUTME: Bounded retry with a fixed delay between attempts, built on cenkalti/backoff
// ABOUTME: Only errors classified as retryable trigger another attempt

package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"conversion-roast-api/core/errors"
)

// Policy describes how often and how far apart an operation is attempted
type Policy struct {
	MaxAttempts int
	Backoff     time.Duration

	// Retryable decides whether an error warrants another attempt.
	// Defaults to errors.IsRetryable.
	Retryable func(error) bool

	// OnRetry is called before waiting for the next attempt
	OnRetry func(attempt int, err error)
}

// DefaultPolicy is three attempts three seconds apart
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, Backoff: 3 * time.Second}
}

// Do runs fn until it succeeds, returns a non-retryable error or the attempts
// are exhausted. The attempt number passed to fn starts at 1. The last error
// is returned unchanged.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context, attempt int) error) error {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	retryable := p.Retryable
	if retryable == nil {
		retryable = errors.IsRetryable
	}

	attempt := 0
	operation := func() error {
		attempt++
		err := fn(ctx, attempt)
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, _ time.Duration) {
		if p.OnRetry != nil {
			p.OnRetry(attempt+1, err)
		}
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(p.Backoff), uint64(maxAttempts-1)),
		ctx,
	)
	return backoff.RetryNotify(operation, b, notify)
}
