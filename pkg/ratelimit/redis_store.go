package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Token bucket refill and consume in a single round trip so concurrent
// consumers on different instances cannot interleave between read and write.
//
// KEYS[1]  bucket key
// ARGV[1]  capacity
// ARGV[2]  refill rate (tokens per interval)
// ARGV[3]  refill interval in milliseconds
// ARGV[4]  tokens requested
// ARGV[5]  current time in milliseconds
//
// Returns {remaining, last_refill_ms}.
var consumeScript = redis.NewScript(`
local capacity = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local interval = tonumber(ARGV[3])
local requested = tonumber(ARGV[4])
local now = tonumber(ARGV[5])

local state = redis.call('HMGET', KEYS[1], 'tokens', 'last_refill')
local tokens = tonumber(state[1])
local last_refill = tonumber(state[2])

if tokens == nil then
    tokens = capacity
    last_refill = now
end

local intervals = math.floor((now - last_refill) / interval)
local max_intervals = math.floor(capacity / rate) + 1
if intervals > max_intervals then
    intervals = max_intervals
end

if intervals > 0 then
    tokens = math.min(tokens + intervals * rate, capacity)
    last_refill = now
end

-- Denied requests must not dig the bucket into debt: persist the decrement
-- only when there are enough tokens, but still report the deficit so the
-- caller sees a negative remainder.
local remaining = tokens - requested
if remaining >= 0 then
    tokens = remaining
end

redis.call('HSET', KEYS[1], 'tokens', tokens, 'last_refill', last_refill)
redis.call('PEXPIRE', KEYS[1], interval * (max_intervals + 1))

return {remaining, last_refill}
`)

// RedisStore implements Store on top of Redis, sharing bucket state across
// service instances.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisStore creates a Redis-backed store. The prefix namespaces bucket
// keys so unrelated applications can share one Redis database.
func NewRedisStore(client *redis.Client, keyPrefix string) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = "ratelimit"
	}
	return &RedisStore{client: client, keyPrefix: keyPrefix}
}

func (rs *RedisStore) key(key string) string {
	return rs.keyPrefix + ":" + key
}

// ConsumeTokens attempts to consume tokens from the bucket.
func (rs *RedisStore) ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (int, time.Time, error) {
	now := time.Now()

	res, err := consumeScript.Run(ctx, rs.client, []string{rs.key(key)},
		config.Capacity,
		config.RefillRate,
		config.RefillInterval.Milliseconds(),
		tokens,
		now.UnixMilli(),
	).Int64Slice()
	if err != nil {
		return 0, time.Time{}, errors.Join(ErrStoreUnavailable, err)
	}
	if len(res) != 2 {
		return 0, time.Time{}, ErrStoreUnavailable
	}

	remaining := int(res[0])
	lastRefill := time.UnixMilli(res[1])

	return remaining, lastRefill.Add(config.RefillInterval), nil
}

func (rs *RedisStore) Reset(ctx context.Context, key string) error {
	if err := rs.client.Del(ctx, rs.key(key)).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}
