package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/rm-hull/safpis/internal/models"
)

const (
	CacheBackendSQLite = "sqlite"
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

type Config struct {
	Upstream UpstreamConfig
	Cache    CacheConfig
	Redis    RedisConfig
	Log      LogConfig
}

type UpstreamConfig struct {
	SubscriberToken string
	BaseURL         string        `validate:"required,url"`
	CountryID       int           `validate:"gt=0"`
	GeoRegionLevel  int           `validate:"gt=0"`
	GeoRegionID     int           `validate:"gt=0"`
	Timezone        string        `validate:"required"`
	Timeout         time.Duration `validate:"gt=0"`
}

type CacheConfig struct {
	Backend string `validate:"oneof=sqlite memory redis"`
	Dir     string `validate:"required_if=Backend sqlite"`
}

type RedisConfig struct {
	Addr     string `validate:"required_if=Backend redis"`
	Password string
	DB       int `validate:"gte=0"`
	Backend  string
}

type LogConfig struct {
	Level  string `validate:"oneof=trace debug info warn error fatal panic disabled"`
	Format string `validate:"oneof=json console"`
}

var validate = validator.New()

func defaults(v *viper.Viper) {
	v.SetDefault("SAFPIS_BASE_URL", "https://fppdirectapi-prod.safuelpricinginformation.com.au")
	v.SetDefault("SAFPIS_COUNTRY_ID", 21)
	v.SetDefault("SAFPIS_GEO_REGION_LEVEL", models.LevelState)
	v.SetDefault("SAFPIS_GEO_REGION_ID", 4)
	v.SetDefault("SAFPIS_TIMEZONE", models.DefaultTimezone)
	v.SetDefault("SAFPIS_HTTP_TIMEOUT", "30s")
	v.SetDefault("SAFPIS_CACHE_BACKEND", CacheBackendSQLite)
	v.SetDefault("SAFPIS_CACHE_DIR", defaultCacheDir())
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "safpis")
}

// Load reads configuration from the environment. Any .env file should already
// have been loaded into the environment by the caller.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	defaults(v)

	backend := strings.ToLower(v.GetString("SAFPIS_CACHE_BACKEND"))
	cfg := &Config{
		Upstream: UpstreamConfig{
			SubscriberToken: v.GetString("SAFPIS_SUBSCRIBER_TOKEN"),
			BaseURL:         v.GetString("SAFPIS_BASE_URL"),
			CountryID:       v.GetInt("SAFPIS_COUNTRY_ID"),
			GeoRegionLevel:  v.GetInt("SAFPIS_GEO_REGION_LEVEL"),
			GeoRegionID:     v.GetInt("SAFPIS_GEO_REGION_ID"),
			Timezone:        v.GetString("SAFPIS_TIMEZONE"),
			Timeout:         v.GetDuration("SAFPIS_HTTP_TIMEOUT"),
		},
		Cache: CacheConfig{
			Backend: backend,
			Dir:     v.GetString("SAFPIS_CACHE_DIR"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			Backend:  backend,
		},
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("LOG_LEVEL")),
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
		},
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, errors.Wrapf(models.ErrConfiguration, "invalid configuration: %v", err)
	}
	if _, err := models.LoadLocation(cfg.Upstream.Timezone); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Location() (*time.Location, error) {
	return models.LoadLocation(c.Upstream.Timezone)
}

func (c *Config) String() string {
	return fmt.Sprintf("upstream=%s cache=%s tz=%s", c.Upstream.BaseURL, c.Cache.Backend, c.Upstream.Timezone)
}
