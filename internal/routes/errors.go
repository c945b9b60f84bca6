package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rm-hull/safpis/internal/models"
)

// StatusFor maps an error kind onto the HTTP status the API answers with.
func StatusFor(err error) int {
	switch models.KindOf(err) {
	case models.KindNotFound:
		return http.StatusNotFound
	case models.KindCardinality:
		return http.StatusConflict
	case models.KindValidation, models.KindUsage:
		return http.StatusBadRequest
	case models.KindTransport:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, logger zerolog.Logger, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Str("request_id", c.GetString(RequestIDKey)).Str("path", c.FullPath()).Msg("internal error")
		c.AbortWithStatusJSON(status, gin.H{"error": "An internal server error occurred"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error(), "kind": models.KindOf(err).String()})
}
