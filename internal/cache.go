package internal

import (
	"context"
	"net/url"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/rm-hull/safpis/internal/models"
)

// Freshness selects which cache store, and so which expiry policy, serves a request.
type Freshness int

const (
	FreshnessDay Freshness = iota + 1
	FreshnessMinute
)

func (f Freshness) TTL() (time.Duration, error) {
	switch f {
	case FreshnessDay:
		return 24 * time.Hour, nil
	case FreshnessMinute:
		return time.Minute, nil
	default:
		return 0, errors.Wrapf(models.ErrInvalidFreshness, "%d", int(f))
	}
}

func (f Freshness) String() string {
	switch f {
	case FreshnessDay:
		return "day"
	case FreshnessMinute:
		return "minute"
	default:
		return "invalid"
	}
}

// CachedResponse is what the gateway stores: status, body and when it was fetched.
type CachedResponse struct {
	StatusCode int       `json:"status_code"`
	Body       []byte    `json:"body"`
	FetchedAt  time.Time `json:"fetched_at"`
}

// CacheStore persists responses by request key. Stores do not judge freshness;
// ttl is only a hint for backends that can evict on their own.
type CacheStore interface {
	Get(ctx context.Context, key string) (*CachedResponse, bool, error)
	Put(ctx context.Context, key string, resp *CachedResponse, ttl time.Duration) error
	Close() error
}

// CacheKey identifies a request by method, endpoint path and query parameters.
// Parameters are encoded sorted by key so their order never matters.
func CacheKey(method, path string, params url.Values) string {
	key := method + " " + path
	if encoded := params.Encode(); encoded != "" {
		key += "?" + encoded
	}
	return key
}

// ResponseCache applies one freshness policy to one store. Entries are valid
// for ttl from the time they were fetched.
type ResponseCache struct {
	store CacheStore
	ttl   time.Duration
	now   func() time.Time
}

func NewResponseCache(store CacheStore, ttl time.Duration, now func() time.Time) *ResponseCache {
	if now == nil {
		now = time.Now
	}
	return &ResponseCache{store: store, ttl: ttl, now: now}
}

// Lookup returns the stored response for key if it is still fresh.
func (c *ResponseCache) Lookup(ctx context.Context, key string) (*CachedResponse, bool, error) {
	resp, ok, err := c.store.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	if c.now().Sub(resp.FetchedAt) >= c.ttl {
		return nil, false, nil
	}
	return resp, true, nil
}

func (c *ResponseCache) Save(ctx context.Context, key string, resp *CachedResponse) error {
	return c.store.Put(ctx, key, resp, c.ttl)
}

func (c *ResponseCache) Close() error {
	return c.store.Close()
}
