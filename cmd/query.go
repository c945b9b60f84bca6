package cmd

import (
	"context"
	"io"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/rm-hull/safpis/internal"
	"github.com/rm-hull/safpis/internal/models"
)

// Price prints every current observation for the station and fuel. Both ids
// are required.
func Price(ctx context.Context, opts Options, siteID, fuelID *int, out io.Writer) error {
	if siteID == nil || fuelID == nil {
		return errors.Wrap(models.ErrUsage, "both --site-id and --fuel-id are required")
	}
	return lookup(ctx, opts, out, func(s *internal.Safpis) ([]models.StationPrice, error) {
		return s.Price(ctx, *siteID, *fuelID)
	})
}

func Nearest(ctx context.Context, opts Options, lat, lng float64, limit int, out io.Writer) error {
	return lookup(ctx, opts, out, func(s *internal.Safpis) ([]models.StationDistance, error) {
		return s.ClosestStations(lat, lng, limit), nil
	})
}

func Cheapest(ctx context.Context, opts Options, fuel string, out io.Writer) error {
	if fuel == "" {
		return errors.Wrap(models.ErrUsage, "--fuel is required")
	}
	return lookup(ctx, opts, out, func(s *internal.Safpis) ([]models.PricedStation, error) {
		return s.CheapestFuel(ctx, fuel)
	})
}

// Open prints the stations open at the RFC 3339 instant at, or now when at is empty.
func Open(ctx context.Context, opts Options, at string, out io.Writer) error {
	var instant *time.Time
	if at != "" {
		t, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return errors.Wrapf(models.ErrUsage, "--at must be an RFC 3339 timestamp: %q", at)
		}
		instant = &t
	}
	return lookup(ctx, opts, out, func(s *internal.Safpis) ([]models.Station, error) {
		if instant == nil {
			return s.OpenStationsNow(), nil
		}
		return s.OpenStationsAt(*instant), nil
	})
}
