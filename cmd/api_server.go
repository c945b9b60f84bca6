package cmd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Depado/ginprom"
	"github.com/aurowora/compress"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	healthcheck "github.com/tavsec/gin-healthcheck"
	"github.com/tavsec/gin-healthcheck/checks"
	hc_config "github.com/tavsec/gin-healthcheck/config"

	"github.com/rm-hull/safpis/internal"
	"github.com/rm-hull/safpis/internal/routes"
)

func ApiServer(ctx context.Context, opts Options, dbPath string, port int, debug bool) error {
	a, err := bootstrap(ctx, opts, true)
	if err != nil {
		return err
	}
	defer a.Close()

	repo, err := internal.OpenFuelPricesRepository(dbPath, a.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			a.logger.Warn().Err(err).Msg("failed to close repository")
		}
	}()

	safpis, err := a.facade(ctx)
	if err != nil {
		return err
	}

	c, err := internal.StartCron(a.client, repo, a.logger, safpis.Refresh)
	if err != nil {
		return fmt.Errorf("failed to start CRON jobs: %w", err)
	}
	defer c.Stop()

	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	prometheus := ginprom.New(
		ginprom.Engine(r),
		ginprom.Path("/metrics"),
		ginprom.Ignore("/healthz"),
	)

	r.Use(
		gin.Recovery(),
		gin.LoggerWithWriter(gin.DefaultWriter, "/healthz", "/metrics"),
		routes.RequestID(),
		prometheus.Instrument(),
		compress.Compress(),
		cors.Default(),
	)

	if debug {
		a.logger.Warn().Msg("pprof endpoints are enabled and exposed. Do not run with this flag in production.")
		pprof.Register(r)
	}

	err = healthcheck.New(r, hc_config.DefaultConfig(), []checks.Check{
		repo.Check(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize healthcheck: %w", err)
	}

	routes.Register(r.Group("/v1/fuel-prices"), safpis, repo, a.logger)

	addr := fmt.Sprintf(":%d", port)
	a.logger.Info().Int("port", port).Msg("Starting HTTP API Server")
	if err := r.Run(addr); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP API Server failed to start on port %d: %w", port, err)
	}

	return nil
}
