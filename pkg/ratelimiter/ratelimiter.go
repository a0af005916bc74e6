package ratelimiter

import (
	"math"
	"sync"
	"time"
)

const (
	// sweepInterval is how often idle buckets are scanned for eviction.
	sweepInterval = 5 * time.Minute
	// idleTTL is how long a bucket may go untouched before eviction.
	idleTTL = 1 * time.Hour
)

// RatePolicy defines the rate limit configuration for an endpoint.
// MaxRequests is both the bucket capacity and the number of tokens
// replenished per Window.
type RatePolicy struct {
	MaxRequests int
	Window      time.Duration
}

func (p RatePolicy) ratePerSecond() float64 {
	if p.Window <= 0 {
		return 0
	}
	return float64(p.MaxRequests) / p.Window.Seconds()
}

// Result reports the outcome of a single rate limit check, carrying
// everything the HTTP layer needs for the X-RateLimit-* headers and,
// on rejection, Retry-After.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
	ResetAt    time.Time
}

type bucket struct {
	tokens     float64
	lastRefill time.Time
}

// RateLimiter provides in-memory token bucket rate limiting keyed by
// (endpoint, identity). Buckets refill continuously: on each check the
// elapsed time since the last refill is converted to tokens and capped at
// the policy capacity. Buckets are created lazily on first use and evicted
// by a background sweeper after an hour of inactivity.
//
// Example usage:
//
//	rl := ratelimiter.NewRateLimiter()
//	rl.SetPolicy("webhooks", 100, 1*time.Minute)
//
//	res := rl.Check("webhooks", clientIP)
//	if !res.Allowed {
//	    return http.StatusTooManyRequests
//	}
type RateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]map[string]*bucket // endpoint -> identity -> bucket
	policies  map[string]RatePolicy         // endpoint -> policy
	nowFn     func() time.Time
	stopSweep chan struct{}
	stopped   bool
}

// NewRateLimiter creates a new rate limiter and starts its background
// sweeper. After creation, use SetPolicy to configure each endpoint.
func NewRateLimiter() *RateLimiter {
	rl := &RateLimiter{
		buckets:   make(map[string]map[string]*bucket),
		policies:  make(map[string]RatePolicy),
		nowFn:     time.Now,
		stopSweep: make(chan struct{}),
	}

	go rl.sweep()

	return rl
}

// SetPolicy configures the rate limit policy for an endpoint. Call during
// initialization before Check is used for that endpoint.
func (rl *RateLimiter) SetPolicy(endpoint string, maxRequests int, window time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.policies[endpoint] = RatePolicy{
		MaxRequests: maxRequests,
		Window:      window,
	}
}

// Check refills the (endpoint, identity) bucket, then consumes one token if
// at least one is available. Endpoints without a configured policy are
// denied (fail closed).
//
// This method is thread-safe and can be called concurrently.
func (rl *RateLimiter) Check(endpoint, identity string) Result {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	policy, exists := rl.policies[endpoint]
	if !exists || policy.MaxRequests <= 0 {
		return Result{Allowed: false}
	}

	now := rl.nowFn()
	rate := policy.ratePerSecond()
	capacity := float64(policy.MaxRequests)

	identities, ok := rl.buckets[endpoint]
	if !ok {
		identities = make(map[string]*bucket)
		rl.buckets[endpoint] = identities
	}

	b, ok := identities[identity]
	if !ok {
		b = &bucket{tokens: capacity, lastRefill: now}
		identities[identity] = b
	} else {
		elapsed := now.Sub(b.lastRefill).Seconds()
		if elapsed > 0 {
			b.tokens = math.Min(capacity, b.tokens+elapsed*rate)
		}
		b.lastRefill = now
	}

	res := Result{Limit: policy.MaxRequests}

	if b.tokens >= 1 {
		b.tokens--
		res.Allowed = true
	} else {
		res.RetryAfter = time.Duration((1 - b.tokens) / rate * float64(time.Second))
	}

	res.Remaining = int(b.tokens)
	res.ResetAt = now.Add(time.Duration((capacity - b.tokens) / rate * float64(time.Second)))

	return res
}

// Reset drops the bucket for the given endpoint and identity, restoring a
// full allowance on the next check.
func (rl *RateLimiter) Reset(endpoint, identity string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if identities, ok := rl.buckets[endpoint]; ok {
		delete(identities, identity)
	}
}

// TrackedIdentities returns the number of live buckets across all
// endpoints. Feeds the rate_limit_tracked_identities gauge.
func (rl *RateLimiter) TrackedIdentities() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	total := 0
	for _, identities := range rl.buckets {
		total += len(identities)
	}
	return total
}

// sweep runs in a background goroutine and periodically evicts buckets that
// have not been touched within idleTTL. This prevents unbounded memory
// growth from one-off identities.
func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.evictIdle()
		case <-rl.stopSweep:
			return
		}
	}
}

// evictIdle performs one eviction pass.
func (rl *RateLimiter) evictIdle() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.nowFn().Add(-idleTTL)
	for endpoint, identities := range rl.buckets {
		for identity, b := range identities {
			if b.lastRefill.Before(cutoff) {
				delete(identities, identity)
			}
		}
		if len(identities) == 0 {
			delete(rl.buckets, endpoint)
		}
	}
}

// Stop stops the background sweeper. Safe to call multiple times.
func (rl *RateLimiter) Stop() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if !rl.stopped {
		close(rl.stopSweep)
		rl.stopped = true
	}
}
