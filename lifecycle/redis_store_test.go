package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, client
}

func TestRedisStoreFirstSighting(t *testing.T) {
	mr, client := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	store := NewRedisStore(client)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	fields, err := store.Update(context.Background(), "entity-1", now)
	require.NoError(t, err)
	assert.Equal(t, 1, fields.TimesSeen)
	assert.False(t, fields.Resurfaced)
}

func TestRedisStoreResightingPreservesFirstSeen(t *testing.T) {
	mr, client := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	store := NewRedisStore(client, WithKeyPrefix("test:"))
	first := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	second := first.Add(48 * time.Hour)

	_, err := store.Update(context.Background(), "entity-1", first)
	require.NoError(t, err)

	fields, err := store.Update(context.Background(), "entity-1", second)
	require.NoError(t, err)
	assert.Equal(t, first, fields.FirstSeen)
	assert.Equal(t, 2, fields.TimesSeen)
	assert.True(t, fields.Resurfaced)
}

func TestRedisStoreAppliesTTL(t *testing.T) {
	mr, client := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	store := NewRedisStore(client, WithTTL(time.Hour))
	_, err := store.Update(context.Background(), "entity-1", time.Now().UTC())
	require.NoError(t, err)

	ttl := mr.TTL(store.prefix + "entity-1")
	assert.InDelta(t, time.Hour.Seconds(), ttl.Seconds(), time.Minute.Seconds())
}
