package internal

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares responses between processes through Redis. Keys are
// namespaced by store name so the day and minute stores never collide.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, name string) *RedisStore {
	return &RedisStore{client: client, prefix: name + ":"}
}

func (r *RedisStore) Get(ctx context.Context, key string) (*CachedResponse, bool, error) {
	val, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get error: %w", err)
	}

	var resp CachedResponse
	if err := json.Unmarshal(val, &resp); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached response: %w", err)
	}
	return &resp, true, nil
}

func (r *RedisStore) Put(ctx context.Context, key string, resp *CachedResponse, ttl time.Duration) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal cached response: %w", err)
	}
	if err := r.client.Set(ctx, r.prefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("cache set error: %w", err)
	}
	return nil
}

// Close is a no-op; the client is shared by both stores and closed by its owner.
func (r *RedisStore) Close() error {
	return nil
}
