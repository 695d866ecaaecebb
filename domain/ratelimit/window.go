// Package ratelimit provides pure rate limiting algorithms.
// All functions are deterministic - same input always produces same output.
//
// The limiter is a fixed window anchored on the first request after the
// previous window elapsed. It admits up to 2x the limit across a window
// boundary; that burst is an accepted approximation, not a precise rate.
package ratelimit

import "time"

// Window is the length of every rate limit window.
const Window = time.Minute

// Bucket is the live window state for one key (value type).
type Bucket struct {
	Count   int       // Requests admitted in current window
	ResetAt time.Time // When current window ends
}

// Decision represents the outcome of a rate limit check (value type).
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int           // Requests remaining in window
	ResetAt    time.Time     // When limit resets
	RetryAfter time.Duration // Zero when allowed
	Reason     string        // If not allowed, why
}

// Reasons for denial
const (
	ReasonLimitExceeded = "rate_limit_exceeded"
)

// Expired reports whether the bucket must be replaced at now.
// A zero bucket is always expired.
// This is a PURE function.
func (b Bucket) Expired(now time.Time) bool {
	return b.ResetAt.IsZero() || !now.Before(b.ResetAt)
}

// Check performs a rate limit check.
// This is a PURE function - no side effects, deterministic.
//
// Returns the decision and the bucket the caller must persist.
func Check(b Bucket, limit int, now time.Time) (Decision, Bucket) {
	if b.Expired(now) {
		b = Bucket{Count: 0, ResetAt: now.Add(Window)}
	}

	if b.Count < limit {
		b.Count++
		return Decision{
			Allowed:   true,
			Limit:     limit,
			Remaining: limit - b.Count,
			ResetAt:   b.ResetAt,
		}, b
	}

	return Decision{
		Allowed:    false,
		Limit:      limit,
		Remaining:  0,
		ResetAt:    b.ResetAt,
		RetryAfter: RetryAfter(b.ResetAt, now),
		Reason:     ReasonLimitExceeded,
	}, b
}

// RetryAfter returns how long to wait before the window resets, never negative.
// This is a PURE function.
func RetryAfter(resetAt, now time.Time) time.Duration {
	d := resetAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// RetryAfterSeconds rounds a delay up to whole seconds for the Retry-After header.
// This is a PURE function.
func RetryAfterSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	secs := d / time.Second
	if d%time.Second != 0 {
		secs++
	}
	return int(secs)
}
