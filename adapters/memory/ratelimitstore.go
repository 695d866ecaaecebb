package memory

import (
	"context"

	"github.com/artpar/sportsgate/domain/ratelimit"
	"github.com/artpar/sportsgate/ports"
)

// RateLimitStore is a sharded in-memory implementation of ports.RateLimiter.
// Buckets expire lazily when read; there is no cleanup goroutine.
type RateLimitStore struct {
	clock   ports.Clock
	buckets *shardedMap[ratelimit.Bucket]
}

// NewRateLimitStore creates a rate limiter with the given shard count
// (DefaultShards when n <= 0).
func NewRateLimitStore(clock ports.Clock, n int) *RateLimitStore {
	return &RateLimitStore{
		clock:   clock,
		buckets: newShardedMap[ratelimit.Bucket](n),
	}
}

// Acquire atomically gets the bucket, checks the limit and stores the result.
func (s *RateLimitStore) Acquire(ctx context.Context, apiKey string, limitPerMinute int) ratelimit.Decision {
	now := s.clock.Now()
	var d ratelimit.Decision
	s.buckets.update(apiKey, func(cur ratelimit.Bucket, _ bool) ratelimit.Bucket {
		var next ratelimit.Bucket
		d, next = ratelimit.Check(cur, limitPerMinute, now)
		return next
	})
	return d
}

// Bucket returns the stored bucket for apiKey (for testing).
func (s *RateLimitStore) Bucket(apiKey string) (ratelimit.Bucket, bool) {
	return s.buckets.load(apiKey)
}

// Len returns the number of tracked buckets.
func (s *RateLimitStore) Len() int {
	return s.buckets.len()
}

// Ensure interface compliance.
var _ ports.RateLimiter = (*RateLimitStore)(nil)
