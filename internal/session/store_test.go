package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreLazyCreate(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	s1, err := store.Resolve(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", s1.ID)
	assert.NotEmpty(t, s1.TaskID)
	assert.NotEmpty(t, s1.ContextID)
	assert.NotEqual(t, s1.TaskID, s1.ContextID)

	// Resolving again returns the same identifier pair, so multi-turn
	// exchanges stay linked.
	s2, err := store.Resolve(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, s1.TaskID, s2.TaskID)
	assert.Equal(t, s1.ContextID, s2.ContextID)

	// A different session gets fresh identifiers.
	other, err := store.Resolve(context.Background(), "sess-2")
	require.NoError(t, err)
	assert.NotEqual(t, s1.TaskID, other.TaskID)
}

func TestMemoryStoreSave(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	s, err := store.Resolve(context.Background(), "sess-1")
	require.NoError(t, err)

	s.Turns = 3
	require.NoError(t, store.Save(context.Background(), s))

	reloaded, err := store.Resolve(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.Turns)
}

func TestMemoryStoreClosed(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Close())

	_, err := store.Resolve(context.Background(), "sess-1")
	assert.ErrorIs(t, err, ErrStoreClosed)
}

func newRedisTestStore(t *testing.T, ttl time.Duration) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStoreFromClient(client, RedisConfig{TTL: ttl})
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store := newRedisTestStore(t, 0)

	s1, err := store.Resolve(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.NotEmpty(t, s1.TaskID)

	s1.Turns = 2
	require.NoError(t, store.Save(context.Background(), s1))

	s2, err := store.Resolve(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, s1.TaskID, s2.TaskID)
	assert.Equal(t, s1.ContextID, s2.ContextID)
	assert.Equal(t, 2, s2.Turns)
}

func TestRedisStoreIndependentSessions(t *testing.T) {
	store := newRedisTestStore(t, time.Hour)

	a, err := store.Resolve(context.Background(), "sess-a")
	require.NoError(t, err)
	b, err := store.Resolve(context.Background(), "sess-b")
	require.NoError(t, err)

	assert.NotEqual(t, a.TaskID, b.TaskID)
	assert.NotEqual(t, a.ContextID, b.ContextID)
}

func TestRedisStoreClosed(t *testing.T) {
	store := newRedisTestStore(t, 0)
	require.NoError(t, store.Close())

	_, err := store.Resolve(context.Background(), "sess-1")
	assert.ErrorIs(t, err, ErrStoreClosed)
}
