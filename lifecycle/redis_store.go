package lifecycle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	keyPrefix  = "scanctl:lifecycle:"
	defaultTTL = 90 * 24 * time.Hour
)

// RedisStore is a Redis-backed Store, the durable KV swap-in the lifecycle
// store interface is designed for. It mirrors the teacher's execution debug
// store: a key-prefix convention, a TTL on every write, and a simple
// retry-with-backoff layer around the client call rather than a full
// circuit breaker — lifecycle updates are latency-tolerant and idempotent,
// so a bounded retry is sufficient resilience here.
type RedisStore struct {
	client  *redis.Client
	prefix  string
	ttl     time.Duration
	retries int
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithKeyPrefix overrides the default "scanctl:lifecycle:" prefix.
func WithKeyPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) { s.prefix = prefix }
}

// WithTTL overrides the default 90-day retention for lifecycle records.
func WithTTL(ttl time.Duration) RedisStoreOption {
	return func(s *RedisStore) { s.ttl = ttl }
}

// WithRetries overrides the number of attempts (default 3) made against
// Redis before an Update call fails.
func WithRetries(n int) RedisStoreOption {
	return func(s *RedisStore) { s.retries = n }
}

// NewRedisStore wraps an existing Redis client as a lifecycle Store.
func NewRedisStore(client *redis.Client, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{client: client, prefix: keyPrefix, ttl: defaultTTL, retries: 3}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Update implements Store, serializing per entity ID via a Redis WATCH/
// transaction so concurrent scans updating the same entity still produce a
// correct times_seen/resurfaced sequence.
func (s *RedisStore) Update(ctx context.Context, entityID string, now time.Time) (Fields, error) {
	key := s.prefix + entityID

	var result Fields
	var txErr error

	for attempt := 0; attempt < s.retries; attempt++ {
		txErr = s.client.Watch(ctx, func(tx *redis.Tx) error {
			prev, existed, err := s.get(ctx, tx, key)
			if err != nil {
				return err
			}

			var next Fields
			if !existed {
				next = Fields{FirstSeen: now, LastSeen: now, TimesSeen: 1, Resurfaced: false}
			} else {
				next = Fields{
					FirstSeen:  prev.FirstSeen,
					LastSeen:   now,
					TimesSeen:  prev.TimesSeen + 1,
					Resurfaced: now.After(prev.LastSeen),
				}
			}

			data, err := json.Marshal(next)
			if err != nil {
				return err
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, data, s.ttl)
				return nil
			})
			if err != nil {
				return err
			}

			result = next
			return nil
		}, key)

		if txErr == nil {
			return result, nil
		}
		if !errors.Is(txErr, redis.TxFailedErr) {
			break
		}
	}

	return Fields{}, fmt.Errorf("lifecycle: redis update failed for %s: %w", entityID, txErr)
}

func (s *RedisStore) get(ctx context.Context, tx *redis.Tx, key string) (Fields, bool, error) {
	data, err := tx.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Fields{}, false, nil
	}
	if err != nil {
		return Fields{}, false, err
	}
	var f Fields
	if err := json.Unmarshal(data, &f); err != nil {
		return Fields{}, false, err
	}
	return f, true, nil
}
