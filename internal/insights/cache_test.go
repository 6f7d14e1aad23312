package insights

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eakarsu/parapilot/internal/model"
)

func TestCacheStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	cache, err := NewCacheStore(NewMemoryKVStore())
	require.NoError(t, err)

	period := model.PeriodKey("2026-08")

	_, ok, err := cache.Get(ctx, "user-1", period)
	require.NoError(t, err)
	assert.False(t, ok, "empty cache should miss")

	snapshot := testSnapshot(period)
	require.NoError(t, cache.Put(ctx, "user-1", period, snapshot))

	got, ok, err := cache.Get(ctx, "user-1", period)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, snapshot.Coach.Headline, got.Coach.Headline)
	assert.Equal(t, snapshot.Version, got.Version)
	assert.Len(t, got.NextActions, 2)
}

func TestCacheStoreKeysAreIsolated(t *testing.T) {
	ctx := context.Background()
	cache, err := NewCacheStore(NewMemoryKVStore())
	require.NoError(t, err)

	period := model.PeriodKey("2026-08")
	require.NoError(t, cache.Put(ctx, "user-1", period, testSnapshot(period)))

	_, ok, err := cache.Get(ctx, "user-2", period)
	require.NoError(t, err)
	assert.False(t, ok, "another user's slot must not be visible")

	_, ok, err = cache.Get(ctx, "user-1", model.PeriodKey("2026-07"))
	require.NoError(t, err)
	assert.False(t, ok, "another period's slot must not be visible")
}

func TestCacheStorePutOverwrites(t *testing.T) {
	ctx := context.Background()
	cache, err := NewCacheStore(NewMemoryKVStore())
	require.NoError(t, err)

	period := model.PeriodKey("2026-08")
	first := testSnapshot(period)
	require.NoError(t, cache.Put(ctx, "user-1", period, first))

	second := testSnapshot(period)
	second.Coach.Headline = "Revised analysis."
	require.NoError(t, cache.Put(ctx, "user-1", period, second))

	got, ok, err := cache.Get(ctx, "user-1", period)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Revised analysis.", got.Coach.Headline)
}

func TestCacheStoreCorruptEntryIsAMiss(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKVStore()
	cache, err := NewCacheStore(kv)
	require.NoError(t, err)

	period := model.PeriodKey("2026-08")
	require.NoError(t, kv.Set(ctx, cacheKey("user-1", period), []byte("{not json")))

	_, ok, err := cache.Get(ctx, "user-1", period)
	require.NoError(t, err)
	assert.False(t, ok, "corrupt entries should behave like a miss")
}

func TestCacheStoreRejectsInvalidSnapshot(t *testing.T) {
	ctx := context.Background()
	cache, err := NewCacheStore(NewMemoryKVStore())
	require.NoError(t, err)

	period := model.PeriodKey("2026-08")
	bad := testSnapshot(period)
	bad.PeriodKey = ""

	err = cache.Put(ctx, "user-1", period, bad)
	assert.Error(t, err)
}

func TestIsStale(t *testing.T) {
	cache, err := NewCacheStore(NewMemoryKVStore())
	require.NoError(t, err)

	now := time.Now()
	period := model.PeriodKey("2026-08")

	fresh := testSnapshot(period)
	fresh.ComputedAt = now.Add(-time.Hour)
	assert.False(t, cache.IsStale(fresh, now))

	expired := testSnapshot(period)
	expired.ComputedAt = now.Add(-SnapshotTTL - time.Minute)
	assert.True(t, cache.IsStale(expired, now), "older than TTL")

	outdated := testSnapshot(period)
	outdated.ComputedAt = now.Add(-time.Hour)
	outdated.Version = CurrentSnapshotVersion - 1
	assert.True(t, cache.IsStale(outdated, now), "old schema version")

	assert.True(t, cache.IsStale(nil, now))
}

func TestMemoryKVStoreHonorsContext(t *testing.T) {
	kv := NewMemoryKVStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := kv.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, kv.Set(ctx, "k", []byte("v")), context.Canceled)
	assert.ErrorIs(t, kv.Delete(ctx, "k"), context.Canceled)
}

func TestMemoryKVStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKVStore()

	value := []byte("original")
	require.NoError(t, kv.Set(ctx, "k", value))
	value[0] = 'X'

	got, ok, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "original", string(got))

	got[0] = 'Y'
	again, _, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "original", string(again))
}
