// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/.
package ports

import (
	"context"
	"errors"
	"time"

	"github.com/artpar/sportsgate/domain/key"
	"github.com/artpar/sportsgate/domain/matches"
	"github.com/artpar/sportsgate/domain/ratelimit"
	"github.com/artpar/sportsgate/domain/usage"
)

// -----------------------------------------------------------------------------
// Infrastructure Ports
// -----------------------------------------------------------------------------

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// Random abstracts randomness for testability.
type Random interface {
	// Bytes generates n random bytes.
	Bytes(n int) ([]byte, error)
}

// IDGenerator generates unique identifiers.
type IDGenerator interface {
	New() string
}

// Hasher provides secret hashing.
type Hasher interface {
	// Hash generates a hash from a plaintext value.
	Hash(plaintext string) ([]byte, error)

	// Compare checks if plaintext matches hash.
	Compare(hash []byte, plaintext string) bool
}

// -----------------------------------------------------------------------------
// State Ports
// -----------------------------------------------------------------------------

// KeyStore holds issued API keys.
type KeyStore interface {
	// Lookup returns the record for token, if it was ever issued.
	Lookup(ctx context.Context, token string) (key.Record, bool)

	// Insert stores a new record. Fails with key.ErrDuplicateKey if the
	// token is taken.
	Insert(ctx context.Context, rec key.Record) error

	// Revoke marks a key as revoked. Fails with key.ErrKeyNotFound.
	Revoke(ctx context.Context, token string) error

	// CountActive returns the number of unrevoked keys.
	CountActive() int
}

// UsageLedger holds the current-month usage record per key.
type UsageLedger interface {
	// Reserve atomically counts one request when fewer than quota were
	// counted this month. It returns the resulting record and whether the
	// request was admitted.
	Reserve(ctx context.Context, apiKey string, quota int64) (usage.Record, bool)

	// Record rolls the record over if needed and applies d.
	Record(ctx context.Context, apiKey string, d usage.Delta) usage.Record

	// Get returns the current-month record without changing counters.
	Get(ctx context.Context, apiKey string) usage.Record

	// Len returns the number of tracked keys.
	Len() int
}

// RateLimiter admits or denies one request per call.
type RateLimiter interface {
	Acquire(ctx context.Context, apiKey string, limitPerMinute int) ratelimit.Decision
}

// MatchCache holds fixture payloads per sport for a bounded time.
type MatchCache interface {
	// Get returns a copy marked Cached when the entry has not expired.
	Get(ctx context.Context, sport string) (matches.Payload, bool)

	// Put stores p until now+ttl, overwriting any previous entry.
	Put(ctx context.Context, sport string, p matches.Payload, ttl time.Duration)

	// Len returns the number of stored entries.
	Len() int
}

// -----------------------------------------------------------------------------
// External Service Ports
// -----------------------------------------------------------------------------

// ErrUpstreamNotConfigured is returned by a Fetcher with no upstream source.
// It means "skip upstream", not a failure.
var ErrUpstreamNotConfigured = errors.New("upstream not configured")

// Fetcher retrieves fixtures from the upstream data source.
type Fetcher interface {
	// Fetch returns upstream fixtures for sport.
	Fetch(ctx context.Context, sport string) (matches.Payload, error)

	// Configured reports whether an upstream source is set.
	Configured() bool
}

// Catalog provides fallback fixtures.
type Catalog interface {
	Fixtures(sport string) []string
}

// -----------------------------------------------------------------------------
// Observability Ports
// -----------------------------------------------------------------------------

// Counter names a process-wide pipeline tally.
type Counter int

// Pipeline tallies.
const (
	CacheHits Counter = iota
	CacheMisses
	UpstreamRequests
	UpstreamFailures
	FallbackUses
	APIAuthFailures
	RateLimitBlocks
	QuotaBlocks
	InternalErrors
)

// Counters is a point-in-time copy of the pipeline tallies.
type Counters struct {
	CacheHits        int64
	CacheMisses      int64
	UpstreamRequests int64
	UpstreamFailures int64
	FallbackUses     int64
	APIAuthFailures  int64
	RateLimitBlocks  int64
	QuotaBlocks      int64
	InternalErrors   int64
}

// Metrics records pipeline tallies.
type Metrics interface {
	Inc(c Counter)
	ObserveUpstream(d time.Duration, ok bool)
	Snapshot() Counters
}
