package service

import (
	"math/rand"
	"net/http"
	"time"
)

// Statuses worth retrying. Anything else from the partner side is a request
// problem that repeating the same request cannot fix.
var retryableStatuses = map[int]bool{
	http.StatusRequestTimeout:      true,
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

const retryJitterFraction = 0.1

// RetryPolicy is the pure decision function for failed deliveries: which
// failures are retryable, when the next attempt runs, and when to give up.
type RetryPolicy struct {
	baseDelay   time.Duration
	maxDelay    time.Duration
	maxAttempts int
}

// NewRetryPolicy builds a policy, falling back to the documented defaults
// for missing values: 30s base, 1h cap, 5 attempts.
func NewRetryPolicy(baseDelay, maxDelay time.Duration, maxAttempts int) *RetryPolicy {
	if baseDelay <= 0 {
		baseDelay = 30 * time.Second
	}
	if maxDelay <= 0 {
		maxDelay = time.Hour
	}
	if maxAttempts < 1 {
		maxAttempts = 5
	}
	return &RetryPolicy{
		baseDelay:   baseDelay,
		maxDelay:    maxDelay,
		maxAttempts: maxAttempts,
	}
}

// Retryable reports whether a failed attempt is worth retrying. A nil status
// means the request never completed (network error), which is always
// retryable.
func (p *RetryPolicy) Retryable(responseStatus *int) bool {
	if responseStatus == nil {
		return true
	}
	return retryableStatuses[*responseStatus]
}

// Exhausted reports whether a delivery that has now made attemptCount
// attempts is out of budget. A maxAttempts of zero falls back to the policy
// default.
func (p *RetryPolicy) Exhausted(attemptCount, maxAttempts int) bool {
	if maxAttempts <= 0 {
		maxAttempts = p.maxAttempts
	}
	return attemptCount >= maxAttempts
}

// NextDelay computes the backoff before the next attempt. The exponent is
// the attempt count before the failure was recorded, so the schedule under
// default settings is ~30s, ~60s, ~120s, ~240s, ~480s. Jitter of +/-10%
// spreads out retries after a mass failure.
func (p *RetryPolicy) NextDelay(attemptCount int) time.Duration {
	delay := p.baseDelay
	for i := 0; i < attemptCount && delay < p.maxDelay; i++ {
		delay *= 2
	}
	if delay > p.maxDelay {
		delay = p.maxDelay
	}
	jitter := 1 + (rand.Float64()*2-1)*retryJitterFraction
	return time.Duration(float64(delay) * jitter)
}

// MaxAttempts returns the default attempt budget stamped on new queue rows.
func (p *RetryPolicy) MaxAttempts() int {
	return p.maxAttempts
}
