package internal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"github.com/rm-hull/safpis/internal/models"
	"github.com/rm-hull/safpis/internal/query"
	"github.com/rm-hull/safpis/internal/stats"
)

// FuelPricesClient is the typed upstream API as the facade sees it.
type FuelPricesClient interface {
	CountryBrands(ctx context.Context) ([]models.Brand, error)
	CountryFuelTypes(ctx context.Context) ([]models.Fuel, error)
	CountryGeographicRegions(ctx context.Context) ([]models.Region, error)
	FullSiteDetails(ctx context.Context) ([]models.Station, error)
	SitesPrices(ctx context.Context) ([]models.StationPrice, error)
}

type snapshot struct {
	brands    []models.Brand
	fuels     []models.Fuel
	regions   []models.Region
	stations  []models.Station
	fetchedAt time.Time
}

// Safpis holds the reference collections fetched at construction and answers
// queries against them. Prices are fetched per query.
type Safpis struct {
	client FuelPricesClient
	loc    *time.Location
	logger zerolog.Logger
	now    func() time.Time

	mu   sync.RWMutex
	snap *snapshot
}

// New eagerly fetches brands, fuel types, regions and stations.
func New(ctx context.Context, client FuelPricesClient, loc *time.Location, logger zerolog.Logger) (*Safpis, error) {
	if loc == nil {
		loc = time.UTC
	}
	s := &Safpis{
		client: client,
		loc:    loc,
		logger: logger.With().Str("component", "safpis").Logger(),
		now:    time.Now,
	}
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Refresh replaces the reference collections with a newly fetched snapshot.
// The previous snapshot stays in place if any fetch fails.
func (s *Safpis) Refresh(ctx context.Context) error {
	brands, err := s.client.CountryBrands(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to fetch brands")
	}
	fuels, err := s.client.CountryFuelTypes(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to fetch fuel types")
	}
	regions, err := s.client.CountryGeographicRegions(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to fetch geographic regions")
	}
	stations, err := s.client.FullSiteDetails(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to fetch site details")
	}

	snap := &snapshot{
		brands:    brands,
		fuels:     fuels,
		regions:   regions,
		stations:  stations,
		fetchedAt: s.now(),
	}

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()

	s.logger.Info().
		Int("brands", len(brands)).
		Int("fuels", len(fuels)).
		Int("regions", len(regions)).
		Int("stations", len(stations)).
		Msg("reference data loaded")
	return nil
}

func (s *Safpis) current() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *Safpis) Location() *time.Location {
	return s.loc
}

// LastUpdated is when the reference collections were last fetched.
func (s *Safpis) LastUpdated() *time.Time {
	t := s.current().fetchedAt
	return &t
}

func (s *Safpis) Brands() []models.Brand {
	return s.current().brands
}

func (s *Safpis) BrandByID(id int) (models.Brand, error) {
	return query.ExactlyOne(query.FindByID(s.current().brands, id), "brand", id)
}

func (s *Safpis) BrandByName(name string) (models.Brand, error) {
	return query.ExactlyOne(query.FindByName(s.current().brands, name), "brand", name)
}

func (s *Safpis) Fuels() []models.Fuel {
	return s.current().fuels
}

func (s *Safpis) FuelByID(id int) (models.Fuel, error) {
	return query.ExactlyOne(query.FindByID(s.current().fuels, id), "fuel", id)
}

func (s *Safpis) FuelByName(name string) (models.Fuel, error) {
	return query.ExactlyOne(query.FindByName(s.current().fuels, name), "fuel", name)
}

func (s *Safpis) Regions() []models.Region {
	return s.current().regions
}

func (s *Safpis) RegionByID(id int) (models.Region, error) {
	return query.ExactlyOne(query.FindByID(s.current().regions, id), "region", id)
}

func (s *Safpis) RegionByName(name string) (models.Region, error) {
	return query.ExactlyOne(query.FindByName(s.current().regions, name), "region", name)
}

// SubRegions lists the regions directly below parentID.
func (s *Safpis) SubRegions(parentID int) []models.Region {
	return query.Children(s.current().regions, parentID)
}

func (s *Safpis) Stations() []models.Station {
	return s.current().stations
}

func (s *Safpis) StationByID(id int) (models.Station, error) {
	return query.ExactlyOne(query.FindByID(s.current().stations, id), "station", id)
}

func (s *Safpis) StationByName(name string) (models.Station, error) {
	return query.ExactlyOne(query.FindByName(s.current().stations, name), "station", name)
}

// StationsByBrandName fails with not found when the brand is unknown or owns
// no stations.
func (s *Safpis) StationsByBrandName(name string) ([]models.Station, error) {
	brand, err := s.BrandByName(name)
	if err != nil {
		return nil, err
	}
	stations := query.StationsByBrand(s.current().stations, brand.ID)
	if len(stations) == 0 {
		return nil, errors.Wrapf(models.ErrNotFound, "no stations found for brand: %s", name)
	}
	return stations, nil
}

func (s *Safpis) BrandOf(station models.Station) (models.Brand, error) {
	return s.BrandByID(station.BrandID)
}

// ClosestStations ranks every station by distance from the point; limit <= 0
// keeps them all.
func (s *Safpis) ClosestStations(latitude, longitude float64, limit int) []models.StationDistance {
	return query.Nearest(s.current().stations, latitude, longitude, limit)
}

// OpenStationsAt evaluates opening hours at the local civil time of at.
func (s *Safpis) OpenStationsAt(at time.Time) []models.Station {
	return query.OpenAt(s.current().stations, at.In(s.loc))
}

func (s *Safpis) OpenStationsNow() []models.Station {
	return s.OpenStationsAt(s.now())
}

// Prices fetches the current price snapshot.
func (s *Safpis) Prices(ctx context.Context) ([]models.StationPrice, error) {
	prices, err := s.client.SitesPrices(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch site prices")
	}
	return prices, nil
}

// Price returns every observation for the station and fuel in the current
// price snapshot.
func (s *Safpis) Price(ctx context.Context, stationID, fuelID int) ([]models.StationPrice, error) {
	prices, err := s.Prices(ctx)
	if err != nil {
		return nil, err
	}
	return query.PriceAt(prices, stationID, fuelID), nil
}

// CheapestFuel orders the current prices for the named fuel from cheapest up,
// each joined with its station when the station is known.
func (s *Safpis) CheapestFuel(ctx context.Context, fuelName string) ([]models.PricedStation, error) {
	fuel, err := s.FuelByName(fuelName)
	if err != nil {
		return nil, err
	}
	prices, err := s.Prices(ctx)
	if err != nil {
		return nil, err
	}
	return s.withStations(query.Cheapest(prices, fuel.ID)), nil
}

// PriceStatistics summarises the current price snapshot per fuel name.
func (s *Safpis) PriceStatistics(ctx context.Context, bucketSize int) (*models.PriceStatistics, error) {
	prices, err := s.Prices(ctx)
	if err != nil {
		return nil, err
	}
	fuelName := func(id int) string {
		if fuel, err := s.FuelByID(id); err == nil {
			return fuel.Name
		}
		return fmt.Sprintf("fuel %d", id)
	}
	brandName := func(id int) string {
		if brand, err := s.BrandByID(id); err == nil {
			return brand.Name
		}
		return fmt.Sprintf("brand %d", id)
	}
	return stats.Derive(s.withStations(prices), fuelName, brandName, bucketSize), nil
}

func (s *Safpis) withStations(prices []models.StationPrice) []models.PricedStation {
	stations := s.current().stations
	byID := make(map[int]*models.Station, len(stations))
	for i := range stations {
		if _, seen := byID[stations[i].ID]; !seen {
			byID[stations[i].ID] = &stations[i]
		}
	}

	results := make([]models.PricedStation, 0, len(prices))
	for _, p := range prices {
		results = append(results, models.PricedStation{StationPrice: p, Station: byID[p.StationID]})
	}
	return results
}
