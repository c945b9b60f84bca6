package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rm-hull/safpis/internal/models"
)

// lookup serves a reference collection, narrowed to one record by id or name
// when either is given.
func lookup[T any](
	svc FuelPrices,
	logger zerolog.Logger,
	all func() []T,
	byID func(int) (T, error),
	byName func(string) (T, error),
) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := atMostOne(c, "id", "name"); err != nil {
			abortWithError(c, logger, err)
			return
		}

		id, err := optionalInt(c, "id")
		if err != nil {
			abortWithError(c, logger, err)
			return
		}

		var results []T
		switch {
		case id != nil:
			item, err := byID(*id)
			if err != nil {
				abortWithError(c, logger, err)
				return
			}
			results = []T{item}
		case c.Query("name") != "":
			item, err := byName(c.Query("name"))
			if err != nil {
				abortWithError(c, logger, err)
				return
			}
			results = []T{item}
		default:
			results = all()
		}

		c.JSON(http.StatusOK, models.NewSearchResponse(results, svc.LastUpdated()))
	}
}

func Brands(svc FuelPrices, logger zerolog.Logger) gin.HandlerFunc {
	return lookup(svc, logger, svc.Brands, svc.BrandByID, svc.BrandByName)
}

func Fuels(svc FuelPrices, logger zerolog.Logger) gin.HandlerFunc {
	return lookup(svc, logger, svc.Fuels, svc.FuelByID, svc.FuelByName)
}

func Regions(svc FuelPrices, logger zerolog.Logger) gin.HandlerFunc {
	return lookup(svc, logger, svc.Regions, svc.RegionByID, svc.RegionByName)
}
