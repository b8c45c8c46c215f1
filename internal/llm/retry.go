package llm

import (
	"errors"
	"math/rand/v2"
	"time"
)

// MaxRetries bounds client-side attempts per call. The pipeline itself
// never retries; transient-failure handling lives here.
const MaxRetries = 3

// IsRetryable reports whether a failed attempt is worth repeating:
// rate limits and 5xx provider failures. Auth failures and client-side
// errors are not.
func IsRetryable(err error) bool {
	var rateErr *RateLimitError
	if errors.As(err, &rateErr) {
		return true
	}
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.StatusCode >= 500
	}
	return false
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}
