// Package httputil provides HTTP helpers for the local editor bridge.
//
// # Overview
//
//   - [WriteJSON] and [WriteError]: JSON responses with coded errors
//   - [Status]: maps error codes from pkg/errors to HTTP status codes
//   - [Retry]: bounded retry with exponential backoff
//
// # Errors
//
// Every error response has the same shape, so front ends can show the
// message as a notice and branch on the code:
//
//	{"code": "INVALID_SELECTION", "message": "select exactly two parents"}
//
// Errors without a code are reported as INTERNAL_ERROR with status 500.
//
// # Retry
//
// [Retry] re-runs an operation that failed with a [RetryableError]. The
// file watcher uses it to reread a document that an external editor is
// still writing:
//
//	err := httputil.Retry(ctx, 3, 50*time.Millisecond, func() error {
//	    if err := reload(); perrors.Is(err, perrors.ErrCodeInvalidFormat) {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    return nil
//	})
package httputil
