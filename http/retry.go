package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/fwojciec/rosdoc"
)

// DefaultRetryDelays returns the backoff delays for index retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// statusError is returned for non-200 responses.
type statusError struct {
	Code int
	URL  string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.Code, e.URL)
}

// retryable reports whether a failed request may succeed when repeated.
// Server errors, throttling and transport failures qualify. Client errors
// and malformed documents do not.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.Code >= 500 || se.Code == http.StatusTooManyRequests
	}
	return rosdoc.ErrorCode(err) == rosdoc.EINTERNAL
}

// withRetry calls fn until it succeeds, fails permanently, or the delays run
// out. One attempt is made per delay plus the initial one.
func withRetry(ctx context.Context, rawURL string, delays []time.Duration, logger *slog.Logger, fn func() error) error {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 || !retryable(err) {
			break
		}

		logger.Debug("retrying request", "url", rawURL, "attempt", attempt+2, "err", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return lastErr
}
