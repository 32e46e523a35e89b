// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the retry loop shared by every API call.
package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryBaseDelay is the default first backoff wait. Tests override this to
// avoid real sleeps.
var RetryBaseDelay = 1 * time.Second

const defaultMaxAttempts = 3

// Retryable is implemented by errors that know whether they are transient
// and how long the remote side asked the caller to wait.
type Retryable interface {
	error
	Temporary() bool
	RetryAfter() time.Duration
}

// Policy bounds a retry loop.
type Policy struct {
	// MaxAttempts is the total number of attempts including the first.
	// Zero selects the default (3).
	MaxAttempts int

	// BaseDelay is the wait after the first failed attempt; it doubles on
	// every later attempt. Zero selects RetryBaseDelay.
	BaseDelay time.Duration

	// Sleep waits for d or until ctx is done. Nil uses a timer.
	Sleep func(ctx context.Context, d time.Duration) error

	// OnRetry, when set, is called before each backoff wait.
	OnRetry func(attempt int, wait time.Duration, err error)
}

func (p Policy) maxAttempts() int {
	if p.MaxAttempts <= 0 {
		return defaultMaxAttempts
	}
	return p.MaxAttempts
}

// Backoff returns the wait after the given failed attempt (1-based):
// BaseDelay, 2*BaseDelay, 4*BaseDelay, ... raised to the server's
// RetryAfter when that is longer.
func (p Policy) Backoff(attempt int, err Retryable) time.Duration {
	base := p.BaseDelay
	if base <= 0 {
		base = RetryBaseDelay
	}
	if attempt < 1 {
		attempt = 1
	}
	wait := base << (attempt - 1)
	if err != nil {
		if ra := err.RetryAfter(); ra > wait {
			wait = ra
		}
	}
	return wait
}

// Retry runs op until it succeeds, fails with an error that is not
// Retryable or not Temporary, or the attempt ceiling is reached. The last
// error from op is returned unchanged. If ctx is done during a backoff wait
// the loop stops and also returns the last error from op.
func Retry(ctx context.Context, p Policy, op func(ctx context.Context, attempt int) error) error {
	maxAttempts := p.maxAttempts()
	sleep := p.Sleep
	if sleep == nil {
		sleep = SleepContext
	}

	for attempt := 1; ; attempt++ {
		err := op(ctx, attempt)
		if err == nil {
			return nil
		}

		var re Retryable
		if !errors.As(err, &re) || !re.Temporary() {
			return err
		}
		if attempt >= maxAttempts {
			return err
		}

		wait := p.Backoff(attempt, re)
		if p.OnRetry != nil {
			p.OnRetry(attempt, wait, err)
		}
		if sleepErr := sleep(ctx, wait); sleepErr != nil {
			return err
		}
	}
}

// SleepContext waits for d, returning ctx.Err() if ctx is done first.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
