// Package poll repeats a status check at a fixed interval until it reports
// completion, fails permanently, or runs out of attempts.
package poll

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ErrTimeout is returned when every attempt reported "not done yet".
var ErrTimeout = errors.New("poll: attempts exhausted")

var errPending = errors.New("poll: pending")

// Options configures Until. Timer is optional; tests inject a fake one so no
// real time passes between attempts.
type Options struct {
	Interval    time.Duration
	MaxAttempts int
	Timer       backoff.Timer
	// OnAttempt, if set, is called after each check with its 1-based number.
	OnAttempt func(attempt int, done bool, err error)
}

// Check inspects the resource once. done=true stops polling with the value;
// a non-nil error stops polling immediately and is returned as-is.
type Check[T any] func(ctx context.Context, attempt int) (value T, done bool, err error)

// Until runs check, waiting Interval between attempts, at most MaxAttempts
// times. The first check runs without delay.
func Until[T any](ctx context.Context, opts Options, check Check[T]) (T, int, error) {
	var (
		result  T
		attempt int
	)
	max := opts.MaxAttempts
	if max < 1 {
		max = 1
	}

	op := func() error {
		attempt++
		v, done, err := check(ctx, attempt)
		if opts.OnAttempt != nil {
			opts.OnAttempt(attempt, done, err)
		}
		if err != nil {
			return backoff.Permanent(err)
		}
		if !done {
			return errPending
		}
		result = v
		return nil
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(opts.Interval), uint64(max-1)),
		ctx,
	)
	err := backoff.RetryNotifyWithTimer(op, b, nil, opts.Timer)
	switch {
	case err == nil:
		return result, attempt, nil
	case errors.Is(err, errPending):
		var zero T
		return zero, attempt, ErrTimeout
	default:
		var zero T
		return zero, attempt, err
	}
}
