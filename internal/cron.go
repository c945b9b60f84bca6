package internal

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const CronScheduleStations = "0 */6 * * *" // Every 6 hours
const CronSchedulePrices = "10 */1 * * *"  // Every hour

// ImportStations records the current full site details snapshot.
func ImportStations(ctx context.Context, client FuelPricesClient, repo FuelPricesRepository) (int, error) {
	stations, err := client.FullSiteDetails(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch site details: %w", err)
	}
	return repo.InsertStations(stations)
}

// ImportPrices records the current price snapshot; known observations are skipped.
func ImportPrices(ctx context.Context, client FuelPricesClient, repo FuelPricesRepository) (int, error) {
	prices, err := client.SitesPrices(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch site prices: %w", err)
	}
	return repo.InsertPrices(prices)
}

// StartCron schedules the station and price imports. Extra jobs run on the
// station schedule after the station import.
func StartCron(client FuelPricesClient, repo FuelPricesRepository, logger zerolog.Logger, onStations ...func(context.Context) error) (*cron.Cron, error) {
	logger = logger.With().Str("component", "cron").Logger()
	c := cron.New()

	logger.Info().Msg("Starting CRON jobs to update stations and fuel prices")

	if _, err := c.AddFunc(CronScheduleStations, func() {
		ctx := context.Background()
		n, err := ImportStations(ctx, client, repo)
		if err != nil {
			logger.Error().Err(err).Msg("error importing stations")
		} else {
			logger.Info().Int("count", n).Msg("imported stations")
		}
		for _, job := range onStations {
			if err := job(ctx); err != nil {
				logger.Error().Err(err).Msg("error running station job")
			}
		}
	}); err != nil {
		return nil, err
	}

	if _, err := c.AddFunc(CronSchedulePrices, func() {
		n, err := ImportPrices(context.Background(), client, repo)
		if err != nil {
			logger.Error().Err(err).Msg("error importing fuel prices")
			return
		}
		logger.Info().Int("count", n).Msg("imported fuel prices")
	}); err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}
