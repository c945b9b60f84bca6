package stats

import (
	"fmt"
	"math"
	"slices"

	"github.com/rm-hull/safpis/internal/models"
)

// Namer resolves a reference id to a display name.
type Namer func(id int) string

// Derive summarises a price snapshot per fuel. Prices are bucketed into
// bucketSize-cent wide bands for the distribution.
func Derive(prices []models.PricedStation, fuelName, brandName Namer, bucketSize int) *models.PriceStatistics {
	if bucketSize <= 0 {
		bucketSize = 3
	}
	stats := &models.PriceStatistics{
		CheapestStations:  make(map[string][]int),
		LowestPrice:       make(map[string]float64),
		AveragePrice:      make(map[string]float64),
		HighestPrice:      make(map[string]float64),
		StandardDeviation: make(map[string]float64),
		PriceDistribution: make(map[string]map[string]int),
		BrandDistribution: make(map[string]int),
	}

	fuelPrices := make(map[string][]float64)
	fuelStations := make(map[string]map[float64][]int) // price -> station ids
	brandStations := make(map[string]map[int]struct{})

	for _, p := range prices {
		fuel := fuelName(p.FuelID)
		cents := p.Price.Amount.Shift(2).InexactFloat64()
		fuelPrices[fuel] = append(fuelPrices[fuel], cents)

		if fuelStations[fuel] == nil {
			fuelStations[fuel] = make(map[float64][]int)
		}
		if !slices.Contains(fuelStations[fuel][cents], p.StationID) {
			fuelStations[fuel][cents] = append(fuelStations[fuel][cents], p.StationID)
		}

		if p.Station != nil {
			brand := brandName(p.Station.BrandID)
			if brandStations[brand] == nil {
				brandStations[brand] = make(map[int]struct{})
			}
			brandStations[brand][p.StationID] = struct{}{}
		}
	}

	for fuel, values := range fuelPrices {
		lowest := values[0]
		highest := values[0]
		sum := 0.0
		for _, v := range values {
			lowest = math.Min(lowest, v)
			highest = math.Max(highest, v)
			sum += v
		}
		stats.LowestPrice[fuel] = lowest
		stats.HighestPrice[fuel] = highest
		stats.CheapestStations[fuel] = fuelStations[fuel][lowest]

		avg := sum / float64(len(values))
		stats.AveragePrice[fuel] = math.Round(avg*10) / 10

		if len(values) > 1 {
			variance := 0.0
			for _, v := range values {
				variance += math.Pow(v-avg, 2)
			}
			variance /= float64(len(values))
			stats.StandardDeviation[fuel] = math.Sqrt(variance)
		}

		stats.PriceDistribution[fuel] = make(map[string]int)
		for _, v := range values {
			bucketStart := (int(v) / bucketSize) * bucketSize
			bucketKey := fmt.Sprintf("%d-%d", bucketStart, bucketStart+bucketSize-1)
			stats.PriceDistribution[fuel][bucketKey]++
		}
	}

	for brand, stations := range brandStations {
		stats.BrandDistribution[brand] = len(stations)
	}

	return stats
}
