package internal

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore keeps responses in process memory. Nothing survives a restart.
type MemoryStore struct {
	cache *gocache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache: gocache.New(gocache.NoExpiration, 10*time.Minute),
	}
}

func (m *MemoryStore) Get(_ context.Context, key string) (*CachedResponse, bool, error) {
	v, ok := m.cache.Get(key)
	if !ok {
		return nil, false, nil
	}
	resp := *v.(*CachedResponse)
	return &resp, true, nil
}

func (m *MemoryStore) Put(_ context.Context, key string, resp *CachedResponse, ttl time.Duration) error {
	stored := *resp
	m.cache.Set(key, &stored, ttl)
	return nil
}

func (m *MemoryStore) Close() error {
	m.cache.Flush()
	return nil
}
