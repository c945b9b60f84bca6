package cmd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/rm-hull/godx"
	"github.com/rs/zerolog"

	"github.com/rm-hull/safpis/internal"
	"github.com/rm-hull/safpis/internal/config"
)

// app holds the resources shared by every command that talks to upstream.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
	caches *internal.Caches
	client *internal.Client
}

// bootstrap loads configuration and builds the cached, authenticated client.
// Command flags override the configured log settings when set.
func bootstrap(ctx context.Context, opts Options, diagnostics bool) (*app, error) {
	if err := godotenv.Load(); err != nil {
		envLogger := SetupLogger(opts.LogLevel, opts.LogFormat)
		envLogger.Debug().Msg("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level, format := cfg.Log.Level, cfg.Log.Format
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	if opts.LogFormat != "" {
		format = opts.LogFormat
	}
	logger := SetupLogger(level, format)

	if diagnostics {
		godx.GitVersion()
		godx.EnvironmentVars()
		godx.UserInfo()
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	caches, err := internal.OpenCaches(ctx, cfg.Cache, cfg.Redis, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open caches: %w", err)
	}

	gateway, err := internal.NewGateway(cfg.Upstream.SubscriberToken, caches.Day, caches.Minute,
		internal.WithBaseURL(cfg.Upstream.BaseURL),
		internal.WithHTTPClient(&http.Client{Timeout: cfg.Upstream.Timeout}),
		internal.WithLogger(logger),
	)
	if err != nil {
		_ = caches.Close()
		return nil, err
	}

	scope := internal.Scope{
		CountryID:      cfg.Upstream.CountryID,
		GeoRegionLevel: cfg.Upstream.GeoRegionLevel,
		GeoRegionID:    cfg.Upstream.GeoRegionID,
	}

	logger.Debug().Stringer("config", cfg).Msg("bootstrapped")
	return &app{
		cfg:    cfg,
		logger: logger,
		caches: caches,
		client: internal.NewClient(gateway, scope, loc, logger),
	}, nil
}

// facade fetches the reference collections.
func (a *app) facade(ctx context.Context) (*internal.Safpis, error) {
	return internal.New(ctx, a.client, a.client.Location(), a.logger)
}

func (a *app) Close() {
	if err := a.caches.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("failed to close caches")
	}
}
