// Package retryx runs operations under a bounded exponential-backoff
// policy and reports how the final outcome was reached.
package retryx

import (
	"context"
	"errors"
	"fmt"
	"time"

	retry "github.com/sethvargo/go-retry"
)

// Policy bounds the retry loop for one class of operations. With Exponential
// set, the k-th retry waits min(BaseDelay*2^(k-1), MaxDelay); otherwise every
// retry waits BaseDelay. RetryIf decides whether an error is worth another
// attempt; a nil RetryIf retries nothing.
type Policy struct {
	// MaxAttempts is the total number of invocations, first try included.
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Exponential bool
	RetryIf     func(error) bool
}

// Error is the terminal outcome of a failed operation run under a Policy.
type Error struct {
	// Err is the error from the last attempt.
	Err error
	// Attempts is how many invocations were made before giving up.
	Attempts int
	// Retryable reports whether the last error matched the policy
	// predicate. False means the loop aborted on a permanent error.
	Retryable bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err is a retryx.Error whose final cause was
// classified retryable. Errors from other sources report false.
func IsRetryable(err error) bool {
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr.Retryable
	}
	return false
}

// Do invokes op until it succeeds, the policy is exhausted, a permanent
// error occurs, or ctx is done. Failures come back as *Error.
func Do(ctx context.Context, p Policy, op func(context.Context) error) error {
	attempts := 0
	retryable := false

	err := retry.Do(ctx, p.backoff(), func(ctx context.Context) error {
		attempts++
		err := op(ctx)
		if err == nil {
			return nil
		}
		retryable = p.RetryIf != nil && p.RetryIf(err)
		if retryable {
			return retry.RetryableError(err)
		}
		return err
	})
	if err == nil {
		return nil
	}
	return &Error{Err: err, Attempts: attempts, Retryable: retryable}
}

// DoWithResult is Do for operations that produce a value. On failure the
// zero value is returned alongside the *Error.
func DoWithResult[T any](ctx context.Context, p Policy, op func(context.Context) (T, error)) (T, error) {
	var out T
	err := Do(ctx, p, func(ctx context.Context) error {
		v, err := op(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func (p Policy) backoff() retry.Backoff {
	base := p.BaseDelay
	if base <= 0 {
		base = time.Millisecond
	}
	var b retry.Backoff
	if p.Exponential {
		b = retry.NewExponential(base)
	} else {
		b = retry.NewConstant(base)
	}
	if p.MaxDelay > 0 {
		b = retry.WithCappedDuration(p.MaxDelay, b)
	}
	retries := p.MaxAttempts - 1
	if retries < 0 {
		retries = 0
	}
	return retry.WithMaxRetries(uint64(retries), b)
}
