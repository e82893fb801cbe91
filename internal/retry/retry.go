// Package retry runs an operation under a bounded exponential backoff,
// retrying only the errors a Policy classifies as retryable.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

type Policy struct {
	// Attempts is the total number of calls, including the first one.
	Attempts   int
	Delay      time.Duration
	Multiplier float64
	// Retryable decides whether an error is worth another attempt. A nil
	// Retryable retries every error.
	Retryable func(error) bool
	// OnRetry is called before each sleep.
	OnRetry func(err error, wait time.Duration)
}

func Default() Policy {
	return Policy{
		Attempts:   6,
		Delay:      100 * time.Millisecond,
		Multiplier: 2,
	}
}

// With returns a copy of p using the given classifier.
func (p Policy) With(retryable func(error) bool) Policy {
	p.Retryable = retryable
	return p
}

func (p Policy) backOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.Delay
	exp.Multiplier = p.Multiplier
	if exp.Multiplier < 1 {
		exp.Multiplier = 1
	}
	exp.RandomizationFactor = 0
	exp.MaxInterval = time.Hour
	exp.MaxElapsedTime = 0

	retries := p.Attempts - 1
	if retries < 0 {
		retries = 0
	}

	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(retries)), ctx)
}

// Do calls op until it succeeds, returns a non-retryable error, the attempts
// run out or ctx is done. The last error from op is returned.
func Do(ctx context.Context, p Policy, op func() error) error {
	attempt := func() error {
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}

		err := op()
		if err != nil && p.Retryable != nil && !p.Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	var notify backoff.Notify
	if p.OnRetry != nil {
		notify = backoff.Notify(p.OnRetry)
	}

	return backoff.RetryNotify(attempt, p.backOff(ctx), notify)
}

// Value is Do for operations producing a result.
func Value[T any](ctx context.Context, p Policy, op func() (T, error)) (T, error) {
	var out T
	err := Do(ctx, p, func() error {
		v, err := op()
		if err != nil {
			return err
		}
		out = v
		return nil
	})

	return out, err
}
