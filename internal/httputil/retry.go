// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides retry helpers shared across pipeline stages.
package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"
)

// RetryBaseDelay controls the base duration for exponential backoff.
// Tests override this to avoid real sleeps.
var RetryBaseDelay = time.Second

const defaultMaxAttempts = 3

// DoWithRetry executes an HTTP request with up to maxAttempts total attempts,
// retrying transport errors and retryable status codes (429 and 5xx) with
// exponential backoff: BaseDelay, 2x, 4x, and so on.
//
// When maxAttempts is 0 the default (3) is used. On each retryable response
// the body is drained and closed before sleeping. If the context is cancelled
// during a backoff wait the function returns ctx.Err(). After exhausting
// attempts the last response is returned so the caller can inspect it; a
// final transport error is returned as-is.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxAttempts int) (*http.Response, error) {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	for attempt := 1; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err == nil && !retryableStatus(resp.StatusCode) {
			return resp, nil
		}

		if attempt >= maxAttempts {
			// Exhausted attempts: surface whatever the last attempt produced.
			return resp, err
		}

		if resp != nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}

		if waitErr := backoff(ctx, attempt); waitErr != nil {
			return nil, waitErr
		}
	}
}

// retryableStatus reports whether a status code signals a transient condition.
func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// Policy is an explicit retry policy for non-HTTP operations such as
// inference calls: a total attempt budget plus exponential backoff.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// Do invokes op until it succeeds, returns a fatal error, or the attempt
// budget is exhausted. The final error is wrapped with the attempt count.
func (p Policy) Do(ctx context.Context, op func() error) error {
	maxAttempts := p.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	base := p.BaseDelay
	if base <= 0 {
		base = RetryBaseDelay
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			delay := time.Duration(math.Pow(2, float64(attempt-2))) * base
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		err := op()
		if err == nil {
			return nil
		}
		lastErr = err
		if IsFatal(err) {
			return err
		}
	}
	return fmt.Errorf("after %d attempts: %w", maxAttempts, lastErr)
}

// fatalError marks an error that must not be retried.
type fatalError struct{ err error }

func (e *fatalError) Error() string { return e.err.Error() }
func (e *fatalError) Unwrap() error { return e.err }

// Fatal wraps err so Policy.Do stops retrying immediately.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &fatalError{err: err}
}

// IsFatal reports whether err was marked with Fatal.
func IsFatal(err error) bool {
	var fe *fatalError
	return errors.As(err, &fe)
}

func backoff(ctx context.Context, attempt int) error {
	delay := time.Duration(math.Pow(2, float64(attempt-1))) * RetryBaseDelay
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}
