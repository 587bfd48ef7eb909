// Package retry provides the single retry policy applied to every
// mirror interaction (catalog fetch and archive download alike).
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/ocup/ocup/internal/errs"
)

// Policy bounds repeated attempts of an operation prone to transient
// failure: at most MaxAttempts tries, exponential delays starting at
// BaseDelay, randomized by the Jitter fraction.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Jitter      float64
}

// Default returns the policy used when the configuration does not
// override it: three attempts, one second base delay, 10% jitter.
func Default() Policy {
	return Policy{MaxAttempts: 3, BaseDelay: time.Second, Jitter: 0.1}
}

// Do runs op until it succeeds, returns a non-retryable error, the
// attempt budget is exhausted, or ctx is done. Retryability is decided
// by errs.Retryable, so only transient network errors are re-attempted.
func (p Policy) Do(ctx context.Context, op func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = p.BaseDelay
	bo.RandomizationFactor = p.Jitter
	bo.Multiplier = 2
	bo.MaxInterval = 30 * time.Second
	bo.MaxElapsedTime = 0

	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	wrapped := func() error {
		err := op()
		if err != nil && !errs.Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	return backoff.Retry(wrapped, backoff.WithContext(backoff.WithMaxRetries(bo, uint64(attempts-1)), ctx))
}
