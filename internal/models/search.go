package models

import "time"

// StationDistance pairs a station with its geodesic distance from a query point.
type StationDistance struct {
	Station
	DistanceMetres float64 `json:"distance_metres"`
}

// PricedStation is a price observation joined with the station it was taken at.
type PricedStation struct {
	StationPrice
	Station *Station `json:"station,omitempty"`
}

type SearchResponse[T any] struct {
	Results     []T        `json:"results"`
	Attribution []string   `json:"attribution"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
}

var Attribution = []string{
	"Fuel price data provided by the South Australian Fuel Pricing Information Scheme",
}

func NewSearchResponse[T any](results []T, lastUpdated *time.Time) SearchResponse[T] {
	if results == nil {
		results = []T{}
	}
	return SearchResponse[T]{
		Results:     results,
		Attribution: Attribution,
		LastUpdated: lastUpdated,
	}
}

// PriceStatistics summarises one price snapshot per fuel name. Amounts are in
// cents per litre.
type PriceStatistics struct {
	CheapestStations  map[string][]int          `json:"cheapest_stations"`
	LowestPrice       map[string]float64        `json:"lowest_price"`
	AveragePrice      map[string]float64        `json:"average_price"`
	HighestPrice      map[string]float64        `json:"highest_price"`
	StandardDeviation map[string]float64        `json:"standard_deviation"`
	PriceDistribution map[string]map[string]int `json:"price_distribution"`
	BrandDistribution map[string]int            `json:"brand_distribution"`
}
