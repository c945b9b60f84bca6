package routes

import (
	"context"
	"time"

	"github.com/rm-hull/safpis/internal/models"
)

// FuelPrices is the query surface the API serves from.
type FuelPrices interface {
	LastUpdated() *time.Time

	Brands() []models.Brand
	BrandByID(id int) (models.Brand, error)
	BrandByName(name string) (models.Brand, error)

	Fuels() []models.Fuel
	FuelByID(id int) (models.Fuel, error)
	FuelByName(name string) (models.Fuel, error)

	Regions() []models.Region
	RegionByID(id int) (models.Region, error)
	RegionByName(name string) (models.Region, error)

	Stations() []models.Station
	StationByID(id int) (models.Station, error)
	StationByName(name string) (models.Station, error)
	StationsByBrandName(name string) ([]models.Station, error)
	ClosestStations(latitude, longitude float64, limit int) []models.StationDistance
	OpenStationsAt(at time.Time) []models.Station
	OpenStationsNow() []models.Station

	Price(ctx context.Context, stationID, fuelID int) ([]models.StationPrice, error)
	CheapestFuel(ctx context.Context, fuelName string) ([]models.PricedStation, error)
	PriceStatistics(ctx context.Context, bucketSize int) (*models.PriceStatistics, error)
}

type PriceHistory interface {
	PriceHistory(stationID, fuelID, limit int) ([]models.StationPrice, error)
}
