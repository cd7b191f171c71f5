// Package retry executes operations with bounded retries, exponential
// backoff and an overall wall-clock ceiling.
package retry

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"
)

// sleep is overridden in tests to avoid real backoff delays.
var sleep = func(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Options configures a retried operation.
type Options struct {
	// Retries is the number of attempts after the first. The operation
	// runs at most Retries+1 times.
	Retries int
	// Factor multiplies the backoff delay after every failed attempt.
	Factor float64
	// MinDelay and MaxDelay bound the computed backoff delay.
	MinDelay time.Duration
	MaxDelay time.Duration
	// OperationTimeout is a hard wall-clock ceiling over the entire
	// attempt sequence, independent of remaining retry budget.
	OperationTimeout time.Duration
	// Jitter randomizes each delay within [delay/2, delay) so
	// concurrent callers do not retry in lockstep.
	Jitter bool
	// ShouldBail converts a matching failure into a permanent one
	// without consuming further retry budget.
	ShouldBail func(error) bool
	// OnBeforeRetry runs before each retry past the first attempt. A
	// non-nil error stops retrying immediately with that error.
	OnBeforeRetry func(context.Context) error
	// Logger receives per-attempt failure logs; defaults to
	// slog.Default.
	Logger *slog.Logger
}

// DefaultOptions returns the retry policy used for processing-service
// stage calls.
func DefaultOptions() Options {
	return Options{
		Retries:          3,
		Factor:           2,
		MinDelay:         500 * time.Millisecond,
		MaxDelay:         8 * time.Second,
		OperationTimeout: 10 * time.Minute,
		Jitter:           true,
	}
}

// NoRetry returns a deterministic single-attempt policy for tests.
func NoRetry() Options {
	return Options{Retries: 0, Factor: 1, MinDelay: 0, MaxDelay: 0}
}

// Do runs op until it succeeds, the retry budget is exhausted, a bail
// condition matches, the pre-retry gate fails, or the operation
// timeout fires.
func Do[T any](ctx context.Context, name string, op func(context.Context) (T, error), opts Options) (T, error) {
	var zero T

	if opts.OperationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.OperationTimeout)
		defer cancel()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	attempts := opts.Retries + 1
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 && opts.OnBeforeRetry != nil {
			if err := opts.OnBeforeRetry(ctx); err != nil {
				return zero, err
			}
		}

		value, err := op(ctx)
		if err == nil {
			return value, nil
		}
		lastErr = err

		logger.Warn("operation attempt failed",
			"operation", name,
			"attempt", attempt,
			"attempts", attempts,
			"error", err)

		if opts.ShouldBail != nil && opts.ShouldBail(err) {
			return zero, err
		}
		if attempt == attempts {
			break
		}

		if sleepErr := sleep(ctx, delayFor(opts, attempt)); sleepErr != nil {
			return zero, fmt.Errorf("%s aborted: %w; last attempt: %w", name, sleepErr, lastErr)
		}
	}

	return zero, lastErr
}

// delayFor computes the backoff before the retry following the given
// attempt (1-based).
func delayFor(opts Options, attempt int) time.Duration {
	factor := opts.Factor
	if factor < 1 {
		factor = 1
	}

	delay := time.Duration(float64(opts.MinDelay) * math.Pow(factor, float64(attempt-1)))
	if opts.MaxDelay > 0 && delay > opts.MaxDelay {
		delay = opts.MaxDelay
	}
	if delay <= 0 {
		return 0
	}

	if opts.Jitter {
		half := delay / 2
		return half + time.Duration(rand.Int63n(int64(half)+1))
	}
	return delay
}
