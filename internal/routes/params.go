package routes

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"github.com/rm-hull/safpis/internal/models"
)

func optionalInt(c *gin.Context, name string) (*int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errors.Wrapf(models.ErrValidation, "invalid %s parameter: %q", name, raw)
	}
	return &v, nil
}

func requiredInt(c *gin.Context, name string) (int, error) {
	v, err := optionalInt(c, name)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, errors.Wrapf(models.ErrUsage, "missing %s parameter", name)
	}
	return *v, nil
}

func requiredFloat(c *gin.Context, name string) (float64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, errors.Wrapf(models.ErrUsage, "missing %s parameter", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.Wrapf(models.ErrValidation, "invalid %s parameter: %q", name, raw)
	}
	return v, nil
}

// atMostOne rejects requests that set more than one of the named parameters.
func atMostOne(c *gin.Context, names ...string) error {
	var set []string
	for _, name := range names {
		if c.Query(name) != "" {
			set = append(set, name)
		}
	}
	if len(set) > 1 {
		return errors.Wrapf(models.ErrUsage, "parameters are mutually exclusive: %s", strings.Join(set, ", "))
	}
	return nil
}
