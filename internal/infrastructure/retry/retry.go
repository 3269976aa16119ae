// Package retry runs outbound calls with a per-attempt timeout and bounded exponential backoff
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/Conte777/TrackFlow/config"
)

// Policy bounds an outbound call
type Policy struct {
	Timeout     time.Duration
	MaxAttempts int
	BaseBackoff time.Duration
	// OnRetry is called before every attempt after the first
	OnRetry func(attempt int, err error)
}

// FromConfig builds a Policy from outbound configuration
func FromConfig(cfg *config.OutboundConfig) Policy {
	return Policy{
		Timeout:     cfg.Timeout,
		MaxAttempts: cfg.MaxAttempts,
		BaseBackoff: cfg.BaseBackoff,
	}
}

// Permanent marks err as not worth retrying
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Do calls fn until it succeeds, returns a Permanent error, the attempts are
// exhausted or ctx is done. Each attempt gets its own timeout.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = p.BaseBackoff
	eb.Multiplier = 2
	eb.RandomizationFactor = 0.2
	eb.MaxElapsedTime = 0

	b := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(attempts-1)), ctx)

	attempt := 0
	op := func() error {
		attempt++
		callCtx := ctx
		if p.Timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, p.Timeout)
			defer cancel()
		}
		return fn(callCtx)
	}

	notify := func(err error, _ time.Duration) {
		if p.OnRetry != nil {
			p.OnRetry(attempt+1, err)
		}
	}

	return backoff.RetryNotify(op, b, notify)
}
