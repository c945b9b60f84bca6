package routes

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rm-hull/safpis/internal/models"
)

const (
	DefaultHistoryLimit = 50
	DefaultBucketSize   = 3
)

func Prices(svc FuelPrices, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		siteID, err := requiredInt(c, "site_id")
		if err != nil {
			abortWithError(c, logger, err)
			return
		}
		fuelID, err := requiredInt(c, "fuel_id")
		if err != nil {
			abortWithError(c, logger, err)
			return
		}

		results, err := svc.Price(c.Request.Context(), siteID, fuelID)
		if err != nil {
			abortWithError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, models.NewSearchResponse(results, svc.LastUpdated()))
	}
}

func CheapestPrices(svc FuelPrices, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		fuel := c.Query("fuel")
		if fuel == "" {
			abortWithError(c, logger, errors.Wrap(models.ErrUsage, "missing fuel parameter"))
			return
		}

		results, err := svc.CheapestFuel(c.Request.Context(), fuel)
		if err != nil {
			abortWithError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, models.NewSearchResponse(results, svc.LastUpdated()))
	}
}

func PriceStatistics(svc FuelPrices, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		bucketSize := DefaultBucketSize
		if b, err := optionalInt(c, "bucket_size"); err != nil {
			abortWithError(c, logger, err)
			return
		} else if b != nil {
			bucketSize = *b
		}

		stats, err := svc.PriceStatistics(c.Request.Context(), bucketSize)
		if err != nil {
			abortWithError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"statistics":   stats,
			"attribution":  models.Attribution,
			"last_updated": svc.LastUpdated(),
		})
	}
}

// History serves recorded observations for one station and fuel, newest first.
func History(svc FuelPrices, repo PriceHistory, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		siteID, err := requiredInt(c, "site_id")
		if err != nil {
			abortWithError(c, logger, err)
			return
		}
		fuelID, err := requiredInt(c, "fuel_id")
		if err != nil {
			abortWithError(c, logger, err)
			return
		}
		limit := DefaultHistoryLimit
		if l, err := optionalInt(c, "limit"); err != nil {
			abortWithError(c, logger, err)
			return
		} else if l != nil {
			limit = *l
		}

		results, err := repo.PriceHistory(siteID, fuelID, limit)
		if err != nil {
			abortWithError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, models.NewSearchResponse(results, svc.LastUpdated()))
	}
}

// Register mounts every fuel price endpoint on group.
func Register(group *gin.RouterGroup, svc FuelPrices, repo PriceHistory, logger zerolog.Logger) {
	group.GET("/brands", Brands(svc, logger))
	group.GET("/fuels", Fuels(svc, logger))
	group.GET("/regions", Regions(svc, logger))
	group.GET("/stations", Stations(svc, logger))
	group.GET("/stations/nearest", NearestStations(svc, logger))
	group.GET("/stations/open", OpenStations(svc, logger))
	group.GET("/prices", Prices(svc, logger))
	group.GET("/prices/cheapest", CheapestPrices(svc, logger))
	group.GET("/prices/stats", PriceStatistics(svc, logger))
	group.GET("/prices/history", History(svc, repo, logger))
}
