package ratelimit

import (
	"context"
	"sync"
	"time"
)

type bucketState struct {
	tokens     int
	lastRefill time.Time
}

// MemoryStore implements Store using in-process state. Suitable for tests
// and single-instance deployments; multi-instance deployments should use the
// Redis store so limits apply across replicas.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucketState
	ops     int
}

// Sweep idle buckets every this many consume calls.
const sweepEvery = 4096

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{buckets: make(map[string]*bucketState)}
}

// ConsumeTokens attempts to consume tokens from the bucket.
func (ms *MemoryStore) ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (int, time.Time, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := time.Now()

	// A bucket untouched long enough to refill completely is identical to an
	// absent one, so idle entries can be dropped instead of accumulating for
	// the process lifetime.
	ms.ops++
	if ms.ops%sweepEvery == 0 {
		staleAfter := time.Duration(config.Capacity/config.RefillRate+1) * config.RefillInterval
		for k, state := range ms.buckets {
			if now.Sub(state.lastRefill) >= staleAfter {
				delete(ms.buckets, k)
			}
		}
	}

	b, exists := ms.buckets[key]
	if !exists {
		b = &bucketState{tokens: config.Capacity, lastRefill: now}
		ms.buckets[key] = b
	}

	elapsed := now.Sub(b.lastRefill)
	// Cap intervals to prevent overflow in high-capacity/low-rate setups.
	maxIntervals := int64(config.Capacity/config.RefillRate + 1)
	intervals := int(min(int64(elapsed/config.RefillInterval), maxIntervals))

	if intervals > 0 {
		b.tokens = min(b.tokens+intervals*config.RefillRate, config.Capacity)
		b.lastRefill = now
	}

	// A denied request must not mutate the balance: persisting the deficit
	// would let retries while limited push the bucket further into debt and
	// extend the caller's own lockout.
	if b.tokens < tokens {
		return b.tokens - tokens, b.lastRefill.Add(config.RefillInterval), nil
	}

	b.tokens -= tokens

	return b.tokens, b.lastRefill.Add(config.RefillInterval), nil
}

func (ms *MemoryStore) Reset(ctx context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.buckets, key)
	return nil
}
