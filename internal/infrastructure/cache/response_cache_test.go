package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResponse(body string) *CachedResponse {
	return &CachedResponse{
		Status:      200,
		ContentType: "application/json",
		Body:        []byte(body),
		StoredAt:    time.Now(),
	}
}

func TestResponseCache_GetSet(t *testing.T) {
	cache := NewResponseCache()
	defer cache.Close()

	key := "GET:/api/v1/products"

	// Cache miss
	resp := cache.Get(key)
	assert.Nil(t, resp)

	cache.Set(key, newTestResponse(`{"items":[]}`), 5*time.Second)

	// Cache hit
	resp = cache.Get(key)
	require.NotNil(t, resp)
	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, []byte(`{"items":[]}`), resp.Body)
}

func TestResponseCache_SetNilIsNoop(t *testing.T) {
	cache := NewResponseCache()
	defer cache.Close()

	cache.Set("nil-key", nil, time.Second)

	assert.Nil(t, cache.Get("nil-key"))
	assert.Equal(t, 0, cache.Len())
}

func TestResponseCache_Expiry(t *testing.T) {
	cache := NewResponseCache()
	defer cache.Close()

	key := "GET:/api/v1/products/abc"
	cache.Set(key, newTestResponse("{}"), 10*time.Millisecond)

	require.NotNil(t, cache.Get(key))

	time.Sleep(20 * time.Millisecond)

	assert.Nil(t, cache.Get(key))
	assert.Equal(t, 0, cache.Len())
}

func TestResponseCache_EvictsLeastRecentlyUsed(t *testing.T) {
	cache := NewResponseCache(WithMaxEntries(3))
	defer cache.Close()

	for i := 0; i < 3; i++ {
		cache.Set(fmt.Sprintf("key-%d", i), newTestResponse("{}"), time.Minute)
	}

	// Touch key-0 so key-1 becomes the least recently used
	require.NotNil(t, cache.Get("key-0"))

	cache.Set("key-3", newTestResponse("{}"), time.Minute)

	assert.Equal(t, 3, cache.Len())
	assert.Nil(t, cache.Get("key-1"))
	assert.NotNil(t, cache.Get("key-0"))
	assert.NotNil(t, cache.Get("key-2"))
	assert.NotNil(t, cache.Get("key-3"))

	_, _, evictions := cache.GetStats()
	assert.Equal(t, int64(1), evictions)
}

func TestResponseCache_SetExistingKeyRefreshes(t *testing.T) {
	cache := NewResponseCache(WithMaxEntries(2))
	defer cache.Close()

	cache.Set("key-a", newTestResponse("old"), time.Minute)
	cache.Set("key-b", newTestResponse("{}"), time.Minute)
	cache.Set("key-a", newTestResponse("new"), time.Minute)

	// Overwrite must not grow the cache or evict anything
	assert.Equal(t, 2, cache.Len())

	resp := cache.Get("key-a")
	require.NotNil(t, resp)
	assert.Equal(t, []byte("new"), resp.Body)
}

func TestResponseCache_Delete(t *testing.T) {
	cache := NewResponseCache()
	defer cache.Close()

	cache.Set("key-a", newTestResponse("{}"), time.Minute)
	cache.Delete("key-a")

	assert.Nil(t, cache.Get("key-a"))
	assert.Equal(t, 0, cache.Len())
}

func TestResponseCache_InvalidatePrefix(t *testing.T) {
	cache := NewResponseCache()
	defer cache.Close()

	cache.Set("GET:/api/v1/products?page=1", newTestResponse("{}"), time.Minute)
	cache.Set("GET:/api/v1/products?page=2", newTestResponse("{}"), time.Minute)
	cache.Set("GET:/api/v1/warehouses", newTestResponse("{}"), time.Minute)

	removed := cache.InvalidatePrefix("GET:/api/v1/products")

	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, cache.Len())
	assert.NotNil(t, cache.Get("GET:/api/v1/warehouses"))
}

func TestResponseCache_InvalidateAll(t *testing.T) {
	cache := NewResponseCache()
	defer cache.Close()

	cache.Set("key-a", newTestResponse("{}"), time.Minute)
	cache.Set("key-b", newTestResponse("{}"), time.Minute)

	cache.InvalidateAll()

	assert.Equal(t, 0, cache.Len())
	assert.Nil(t, cache.Get("key-a"))
}

func TestResponseCache_Stats(t *testing.T) {
	cache := NewResponseCache()
	defer cache.Close()

	cache.Set("key-a", newTestResponse("{}"), time.Minute)

	cache.Get("key-a")   // hit
	cache.Get("key-a")   // hit
	cache.Get("missing") // miss

	hits, misses, _ := cache.GetStats()
	assert.Equal(t, int64(2), hits)
	assert.Equal(t, int64(1), misses)

	cache.ResetStats()
	hits, misses, _ = cache.GetStats()
	assert.Equal(t, int64(0), hits)
	assert.Equal(t, int64(0), misses)
}

func TestInMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	newlyMarked, err := store.MarkProcessed(ctx, "checkout-123", time.Minute)
	require.NoError(t, err)
	assert.True(t, newlyMarked)

	// Second attempt with the same key is rejected
	newlyMarked, err = store.MarkProcessed(ctx, "checkout-123", time.Minute)
	require.NoError(t, err)
	assert.False(t, newlyMarked)

	processed, err := store.IsProcessed(ctx, "checkout-123")
	require.NoError(t, err)
	assert.True(t, processed)
}

func TestInMemoryIdempotencyStore_ExpiredKeyCanBeReused(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	newlyMarked, err := store.MarkProcessed(ctx, "checkout-456", 10*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, newlyMarked)

	time.Sleep(20 * time.Millisecond)

	processed, err := store.IsProcessed(ctx, "checkout-456")
	require.NoError(t, err)
	assert.False(t, processed)

	newlyMarked, err = store.MarkProcessed(ctx, "checkout-456", time.Minute)
	require.NoError(t, err)
	assert.True(t, newlyMarked)
}
