package cmd

import (
	"context"
	"fmt"

	"github.com/rm-hull/safpis/internal"
)

// Import records one station and price snapshot into the history database.
func Import(ctx context.Context, opts Options, dbPath string) error {
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

	numStations, err := internal.ImportStations(ctx, a.client, repo)
	if err != nil {
		return fmt.Errorf("failed to import stations: %w", err)
	}
	a.logger.Info().Int("count", numStations).Msg("imported stations")

	numPrices, err := internal.ImportPrices(ctx, a.client, repo)
	if err != nil {
		return fmt.Errorf("failed to import fuel prices: %w", err)
	}
	a.logger.Info().Int("count", numPrices).Msg("imported fuel prices")

	return nil
}
