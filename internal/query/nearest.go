package query

import (
	"cmp"
	"slices"

	"github.com/tidwall/geodesic"

	"github.com/rm-hull/safpis/internal/models"
)

// Distance is the WGS-84 geodesic distance in metres between a station and a point.
func Distance(station models.Station, latitude, longitude float64) float64 {
	return distance(station.Latitude, station.Longitude, latitude, longitude)
}

func distance(lat1, lng1, lat2, lng2 float64) float64 {
	if lat1 == lat2 && lng1 == lng2 {
		return 0
	}
	var metres float64
	geodesic.WGS84.Inverse(lat1, lng1, lat2, lng2, &metres, nil, nil)
	return metres
}

// Nearest ranks stations by distance from the point, closest first. Equal
// distances keep input order. A limit of zero or less returns every station.
func Nearest(stations []models.Station, latitude, longitude float64, limit int) []models.StationDistance {
	ranked := make([]models.StationDistance, len(stations))
	for i, s := range stations {
		ranked[i] = models.StationDistance{
			Station:        s,
			DistanceMetres: Distance(s, latitude, longitude),
		}
	}

	slices.SortStableFunc(ranked, func(a, b models.StationDistance) int {
		return cmp.Compare(a.DistanceMetres, b.DistanceMetres)
	})

	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked
}
