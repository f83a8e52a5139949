package compact

import (
	"context"
	"time"
)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays for model call retries:
// 2s, 4s, 8s. Model calls are slower and pricier than page fetches, so
// the ladder starts higher than a fetch retry would.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second}
}

// withRetryDelays attempts fn with backoff retries. fn is one complete
// transition attempt: a model call plus response decoding. It returns the
// number of attempts made alongside the final error. A canceled parent
// context stops retrying immediately; a per-attempt timeout inside fn is
// an ordinary transient failure and is retried.
func withRetryDelays(ctx context.Context, fn func(ctx context.Context) error, logger LogFunc, delays []time.Duration) (int, error) {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return attempt + 1, nil
		}
		lastErr = err

		// Don't retry after the last attempt
		if attempt >= maxAttempts-1 {
			return attempt + 1, lastErr
		}

		// Check context before sleeping
		select {
		case <-ctx.Done():
			return attempt + 1, ctx.Err()
		default:
		}

		if logger != nil {
			logger("  retry transition (attempt %d): %v", attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return attempt + 1, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return maxAttempts, lastErr
}
