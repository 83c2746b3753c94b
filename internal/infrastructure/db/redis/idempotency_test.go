package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore connects to REDIS_TEST_ADDR or skips.
func newTestStore(t *testing.T) *IdempotencyStore {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	client, err := Connect(context.Background(), Config{Addr: addr, Timeout: 2 * time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewIdempotencyStore(client, time.Minute)
}

func TestIdempotencyStore_Lifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	key := "test:" + uuid.NewString()
	t.Cleanup(func() { _ = store.Release(ctx, key) })

	_, found, err := store.Lookup(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)

	ok, err := store.Reserve(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Reserve(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok, "second reservation must fail")

	_, found, err = store.Lookup(ctx, key)
	require.NoError(t, err)
	assert.False(t, found, "pending reservation is not a saved response")

	require.NoError(t, store.Save(ctx, key, []byte(`{"id":"a1"}`)))
	body, found, err := store.Lookup(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"id":"a1"}`, string(body))
}

func TestIdempotencyStore_ReleaseAllowsRetry(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	key := "test:" + uuid.NewString()
	t.Cleanup(func() { _ = store.Release(ctx, key) })

	ok, err := store.Reserve(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, store.Release(ctx, key))

	ok, err = store.Reserve(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIdempotencyStore_Key(t *testing.T) {
	s := NewIdempotencyStore(nil, 0)
	assert.Equal(t, "idempotency:allocations:u1:abc", s.key("u1:abc"))
	assert.Equal(t, defaultIdempotencyTTL, s.ttl)
}
