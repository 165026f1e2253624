package httputil

import (
	"context"
	"errors"
	"time"

	perrors "github.com/matzehuels/pedigree/pkg/errors"
)

// RetryableError marks a failure as transient. [Retry] only retries errors
// that wrap one.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry runs fn up to attempts times. The delay before each retry doubles.
// A non-retryable error ends the loop at once. When every attempt fails the
// last error is returned unwrapped; when ctx ends first the result is a
// CANCELED error.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var last error
	for i := range attempts {
		err := fn()
		if err == nil {
			return nil
		}
		var re *RetryableError
		if !errors.As(err, &re) {
			return err
		}
		last = re.Err
		if i == attempts-1 {
			break
		}
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return perrors.Wrap(perrors.ErrCodeCanceled, ctx.Err(), "retry canceled")
		case <-t.C:
			delay *= 2
		}
	}
	return last
}
