// Package retry provides a bounded retry combinator parameterized by max
// attempts, a delay function, and a retryable-error predicate. The sleep
// function is injectable so delay schedules are verifiable in tests without
// real clocks.
package retry

import (
	"context"
	"time"
)

// DelayFunc computes the delay before retry attempt n (1-based, counting
// retries rather than the initial attempt).
type DelayFunc func(attempt int) time.Duration

// RetryIfFunc reports whether an error is worth retrying.
type RetryIfFunc func(err error) bool

// SleepFunc waits for the given duration or until the context is done,
// returning the context error in the latter case.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Options configure a Do call.
type Options struct {
	// MaxRetries is the number of additional attempts after the first.
	MaxRetries int

	// Delay computes the wait before each retry. Required when MaxRetries > 0.
	Delay DelayFunc

	// RetryIf decides which errors trigger a retry. A nil predicate retries
	// every error.
	RetryIf RetryIfFunc

	// Sleep waits between attempts. Defaults to a context-aware timer sleep.
	Sleep SleepFunc
}

// Option mutates Options.
type Option func(*Options)

// WithMaxRetries sets the number of additional attempts after the first.
func WithMaxRetries(n int) Option {
	return func(o *Options) { o.MaxRetries = n }
}

// WithDelay sets the per-retry delay function.
func WithDelay(fn DelayFunc) Option {
	return func(o *Options) { o.Delay = fn }
}

// WithRetryIf sets the retryable-error predicate.
func WithRetryIf(fn RetryIfFunc) Option {
	return func(o *Options) { o.RetryIf = fn }
}

// WithSleep replaces the sleep function, letting tests observe the delay
// schedule instead of waiting it out.
func WithSleep(fn SleepFunc) Option {
	return func(o *Options) { o.Sleep = fn }
}

// ExponentialDelay returns a delay function computing
// base × 2^attempt + offset for retry attempt n (1-based).
func ExponentialDelay(base, offset time.Duration) DelayFunc {
	return func(attempt int) time.Duration {
		return base<<uint(attempt) + offset
	}
}

func timerSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do runs op, retrying on errors accepted by the predicate until MaxRetries
// additional attempts are exhausted. The last error is returned unchanged;
// non-retryable errors surface immediately. Context cancellation during a
// delay aborts with the context error.
func Do(ctx context.Context, op func() error, opts ...Option) error {
	options := Options{Sleep: timerSleep}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Sleep == nil {
		options.Sleep = timerSleep
	}

	var err error
	for attempt := 0; ; attempt++ {
		err = op()
		if err == nil {
			return nil
		}

		if options.RetryIf != nil && !options.RetryIf(err) {
			return err
		}

		if attempt >= options.MaxRetries {
			return err
		}

		var delay time.Duration
		if options.Delay != nil {
			delay = options.Delay(attempt + 1)
		}

		if sleepErr := options.Sleep(ctx, delay); sleepErr != nil {
			return sleepErr
		}
	}
}
