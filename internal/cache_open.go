package internal

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/rm-hull/safpis/internal/config"
	"github.com/rm-hull/safpis/internal/models"
)

const (
	DayCacheName    = "safpis_cache_day"
	MinuteCacheName = "safpis_cache_minute"
)

// Caches is the pair of stores backing the two freshness classes.
type Caches struct {
	Day    CacheStore
	Minute CacheStore
	close  func() error
}

func (c *Caches) Close() error {
	var errs []error
	for _, store := range []CacheStore{c.Day, c.Minute} {
		if err := store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.close != nil {
		if err := c.close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// OpenCaches builds the day and minute stores for the configured backend.
func OpenCaches(ctx context.Context, cfg config.CacheConfig, redisCfg config.RedisConfig, logger zerolog.Logger) (*Caches, error) {
	switch cfg.Backend {
	case config.CacheBackendMemory:
		return &Caches{Day: NewMemoryStore(), Minute: NewMemoryStore()}, nil

	case config.CacheBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     redisCfg.Addr,
			Password: redisCfg.Password,
			DB:       redisCfg.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, errors.Wrapf(models.ErrConfiguration, "failed to connect to redis at %s: %v", redisCfg.Addr, err)
		}
		return &Caches{
			Day:    NewRedisStore(client, DayCacheName),
			Minute: NewRedisStore(client, MinuteCacheName),
			close:  client.Close,
		}, nil

	case config.CacheBackendSQLite, "":
		day, err := OpenSQLiteStore(cfg.Dir, DayCacheName, logger)
		if err != nil {
			return nil, err
		}
		minute, err := OpenSQLiteStore(cfg.Dir, MinuteCacheName, logger)
		if err != nil {
			_ = day.Close()
			return nil, err
		}
		return &Caches{Day: day, Minute: minute}, nil

	default:
		return nil, errors.Wrapf(models.ErrConfiguration, "unknown cache backend: %s", cfg.Backend)
	}
}
