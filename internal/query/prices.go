package query

import (
	"slices"

	"github.com/rm-hull/safpis/internal/models"
)

// Cheapest filters prices to one fuel type and orders them by amount, cheapest
// first. Equal amounts keep input order. No match yields an empty slice.
func Cheapest(prices []models.StationPrice, fuelID int) []models.StationPrice {
	matches := filter(prices, func(p models.StationPrice) bool { return p.FuelID == fuelID })
	slices.SortStableFunc(matches, func(a, b models.StationPrice) int {
		return a.Price.Cmp(b.Price)
	})
	return matches
}

// PriceAt returns every observation for the station and fuel pair, in input order.
func PriceAt(prices []models.StationPrice, stationID, fuelID int) []models.StationPrice {
	return filter(prices, func(p models.StationPrice) bool {
		return p.StationID == stationID && p.FuelID == fuelID
	})
}
