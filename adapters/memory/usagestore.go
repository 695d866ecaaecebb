package memory

import (
	"context"

	"github.com/artpar/sportsgate/domain/usage"
	"github.com/artpar/sportsgate/ports"
)

// UsageStore is a sharded in-memory implementation of ports.UsageLedger.
// Each key has one live record for the current month.
type UsageStore struct {
	clock   ports.Clock
	records *shardedMap[usage.Record]
}

// NewUsageStore creates a usage ledger with the given shard count
// (DefaultShards when n <= 0).
func NewUsageStore(clock ports.Clock, n int) *UsageStore {
	return &UsageStore{
		clock:   clock,
		records: newShardedMap[usage.Record](n),
	}
}

// Record applies d to the current-month record of apiKey, resetting the
// record first when the month changed.
func (s *UsageStore) Record(ctx context.Context, apiKey string, d usage.Delta) usage.Record {
	now := s.clock.Now()
	return s.records.update(apiKey, func(cur usage.Record, _ bool) usage.Record {
		return usage.Apply(cur, apiKey, d, now)
	})
}

// Reserve counts one request for apiKey when the current month is below
// quota. The check and the increment happen under one shard lock, so
// concurrent callers can never push Requests past quota. A refused
// reservation stores nothing.
func (s *UsageStore) Reserve(ctx context.Context, apiKey string, quota int64) (usage.Record, bool) {
	now := s.clock.Now()
	return s.records.updateIf(apiKey, func(cur usage.Record, _ bool) (usage.Record, bool) {
		return usage.Reserve(cur, apiKey, quota, now)
	})
}

// Get returns the current-month record of apiKey. A stale or unseen record
// reads as zero for the current month; nothing is stored.
func (s *UsageStore) Get(ctx context.Context, apiKey string) usage.Record {
	cur, _ := s.records.load(apiKey)
	rec, _ := usage.Current(cur, apiKey, s.clock.Now())
	return rec
}

// Len returns the number of tracked keys.
func (s *UsageStore) Len() int {
	return s.records.len()
}

// Ensure interface compliance.
var _ ports.UsageLedger = (*UsageStore)(nil)
