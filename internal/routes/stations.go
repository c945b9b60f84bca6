package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rm-hull/safpis/internal/models"
)

const DefaultNearestLimit = 10

// Stations serves the station snapshot, narrowed by id, name or brand name.
func Stations(svc FuelPrices, logger zerolog.Logger) gin.HandlerFunc {
	byID := lookup(svc, logger, svc.Stations, svc.StationByID, svc.StationByName)
	return func(c *gin.Context) {
		brand := c.Query("brand")
		if brand == "" {
			byID(c)
			return
		}
		if err := atMostOne(c, "id", "name", "brand"); err != nil {
			abortWithError(c, logger, err)
			return
		}

		stations, err := svc.StationsByBrandName(brand)
		if err != nil {
			abortWithError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, models.NewSearchResponse(stations, svc.LastUpdated()))
	}
}

func NearestStations(svc FuelPrices, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		lat, err := requiredFloat(c, "lat")
		if err != nil {
			abortWithError(c, logger, err)
			return
		}
		lng, err := requiredFloat(c, "lng")
		if err != nil {
			abortWithError(c, logger, err)
			return
		}
		if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
			abortWithError(c, logger, errors.Wrapf(models.ErrValidation, "coordinates out of range: %v,%v", lat, lng))
			return
		}

		limit := DefaultNearestLimit
		if l, err := optionalInt(c, "limit"); err != nil {
			abortWithError(c, logger, err)
			return
		} else if l != nil {
			limit = *l
		}

		results := svc.ClosestStations(lat, lng, limit)
		c.JSON(http.StatusOK, models.NewSearchResponse(results, svc.LastUpdated()))
	}
}

// OpenStations lists stations open at the RFC 3339 instant in "at", or now.
func OpenStations(svc FuelPrices, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var results []models.Station
		if raw := strings.TrimSpace(c.Query("at")); raw != "" {
			at, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				abortWithError(c, logger, errors.Wrapf(models.ErrMalformedTimestamp, "at: %q", raw))
				return
			}
			results = svc.OpenStationsAt(at)
		} else {
			results = svc.OpenStationsNow()
		}
		c.JSON(http.StatusOK, models.NewSearchResponse(results, svc.LastUpdated()))
	}
}
