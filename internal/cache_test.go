package internal

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	fetchedAt := time.Date(2024, 3, 1, 9, 0, 0, 123, time.UTC)

	store, err := OpenSQLiteStore(dir, "safpis_cache_day", zerolog.Nop())
	require.NoError(t, err)

	_, ok, err := store.Get(ctx, "GET /a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(ctx, "GET /a", &CachedResponse{StatusCode: 200, Body: []byte(`{"a":1}`), FetchedAt: fetchedAt}, time.Hour))
	require.NoError(t, store.Put(ctx, "GET /a", &CachedResponse{StatusCode: 400, Body: []byte(`{"a":2}`), FetchedAt: fetchedAt}, time.Hour))
	require.NoError(t, store.Close())

	store, err = OpenSQLiteStore(dir, "safpis_cache_day", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	resp, ok, err := store.Get(ctx, "GET /a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, `{"a":2}`, string(resp.Body))
	assert.True(t, resp.FetchedAt.Equal(fetchedAt))
}

func TestSQLiteStoresAreSeparateFiles(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	day, err := OpenSQLiteStore(dir, "safpis_cache_day", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = day.Close() })

	minute, err := OpenSQLiteStore(dir, "safpis_cache_minute", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = minute.Close() })

	require.NoError(t, day.Put(ctx, "k", &CachedResponse{StatusCode: 200, Body: []byte("x"), FetchedAt: time.Now()}, time.Hour))

	_, ok, err := minute.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.FileExists(t, dir+"/safpis_cache_day.sqlite")
	assert.FileExists(t, dir+"/safpis_cache_minute.sqlite")
}

func TestResponseCacheExpiry(t *testing.T) {
	clock := newFakeClock()
	cache := NewResponseCache(NewMemoryStore(), time.Minute, clock.Now)
	ctx := context.Background()

	require.NoError(t, cache.Save(ctx, "k", &CachedResponse{StatusCode: 200, Body: []byte("x"), FetchedAt: clock.Now()}))

	resp, ok, err := cache.Lookup(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "x", string(resp.Body))

	clock.Advance(time.Minute)
	_, ok, err = cache.Lookup(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreCopiesEntries(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	original := &CachedResponse{StatusCode: 200, Body: []byte("x")}
	require.NoError(t, store.Put(ctx, "k", original, time.Hour))
	original.StatusCode = 500

	resp, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 200, resp.StatusCode)
}
