package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	perrors "github.com/matzehuels/pedigree/pkg/errors"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{perrors.New(perrors.ErrCodeInvalidSelection, "x"), http.StatusUnprocessableEntity},
		{perrors.New(perrors.ErrCodeNodeNotFound, "x"), http.StatusNotFound},
		{perrors.New(perrors.ErrCodeBusy, "x"), http.StatusConflict},
		{perrors.New(perrors.ErrCodeInvalidStructure, "x"), http.StatusBadRequest},
		{perrors.New(perrors.ErrCodeExport, "x"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := Status(tt.err); got != tt.want {
				t.Errorf("Status(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorBody
	}{
		{"coded", perrors.New(perrors.ErrCodeBusy, "export in progress"), ErrorBody{perrors.ErrCodeBusy, "export in progress"}},
		{"plain", errors.New("boom"), ErrorBody{perrors.ErrCodeInternal, "boom"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			if err := WriteError(rec, tt.err); err != nil {
				t.Fatal(err)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
			var got ErrorBody
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("body = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRetry(t *testing.T) {
	transient := &RetryableError{Err: errors.New("half written")}

	t.Run("succeeds after retries", func(t *testing.T) {
		calls := 0
		err := Retry(context.Background(), 3, time.Millisecond, func() error {
			calls++
			if calls < 3 {
				return transient
			}
			return nil
		})
		if err != nil || calls != 3 {
			t.Errorf("Retry() = %v after %d calls", err, calls)
		}
	})

	t.Run("returns last error", func(t *testing.T) {
		calls := 0
		err := Retry(context.Background(), 2, time.Millisecond, func() error {
			calls++
			return transient
		})
		if err == nil || err.Error() != "half written" || calls != 2 {
			t.Errorf("Retry() = %v after %d calls", err, calls)
		}
	})

	t.Run("stops on permanent error", func(t *testing.T) {
		calls := 0
		permanent := errors.New("permanent")
		err := Retry(context.Background(), 5, time.Millisecond, func() error {
			calls++
			return permanent
		})
		if !errors.Is(err, permanent) || calls != 1 {
			t.Errorf("Retry() = %v after %d calls", err, calls)
		}
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := Retry(ctx, 3, time.Hour, func() error { return transient })
		if !perrors.Is(err, perrors.ErrCodeCanceled) {
			t.Errorf("Retry() = %v, want CANCELED", err)
		}
	})
}
