package memory

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// DefaultShards is the shard count used when none is configured.
const DefaultShards = 32

// shard is one lock-protected partition of a keyed map.
type shard[T any] struct {
	mu    sync.Mutex
	items map[string]T
}

// shardedMap partitions per-key state so unrelated keys never contend on
// the same lock. A key always maps to the same shard.
type shardedMap[T any] struct {
	shards []*shard[T]
}

func newShardedMap[T any](n int) *shardedMap[T] {
	if n <= 0 {
		n = DefaultShards
	}
	m := &shardedMap[T]{shards: make([]*shard[T], n)}
	for i := range m.shards {
		m.shards[i] = &shard[T]{items: make(map[string]T)}
	}
	return m
}

// get returns the shard for a given key using consistent hashing.
func (m *shardedMap[T]) get(key string) *shard[T] {
	return m.shards[xxhash.Sum64String(key)%uint64(len(m.shards))]
}

// update runs fn on the current value for key under the shard lock and
// stores what it returns.
func (m *shardedMap[T]) update(key string, fn func(cur T, ok bool) T) T {
	s := m.get(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.items[key]
	next := fn(cur, ok)
	s.items[key] = next
	return next
}

// updateIf runs fn on the current value for key under the shard lock and
// stores the result only when fn reports true.
func (m *shardedMap[T]) updateIf(key string, fn func(cur T, ok bool) (T, bool)) (T, bool) {
	s := m.get(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.items[key]
	next, store := fn(cur, ok)
	if store {
		s.items[key] = next
	}
	return next, store
}

// load returns the value for key.
func (m *shardedMap[T]) load(key string) (T, bool) {
	s := m.get(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[key]
	return v, ok
}

// len returns the total number of entries across all shards.
func (m *shardedMap[T]) len() int {
	total := 0
	for _, s := range m.shards {
		s.mu.Lock()
		total += len(s.items)
		s.mu.Unlock()
	}
	return total
}
