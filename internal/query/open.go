package query

import (
	"time"

	"github.com/rm-hull/safpis/internal/models"
)

// IsOpen evaluates the station's schedule at the wall-clock time and weekday
// of at, as expressed in at's own location. Callers convert at into the
// stations' civil time zone first.
func IsOpen(station models.Station, at time.Time) bool {
	return station.OpeningHours.On(at.Weekday()).Contains(models.SinceMidnight(at))
}

// OpenAt keeps the stations open at the given instant, in input order.
func OpenAt(stations []models.Station, at time.Time) []models.Station {
	return filter(stations, func(s models.Station) bool { return IsOpen(s, at) })
}
