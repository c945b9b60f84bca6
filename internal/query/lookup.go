// Package query holds read-only lookups, filters and rankings over record snapshots.
// Every function is pure: inputs are never mutated and results are fresh slices.
package query

import (
	"github.com/cockroachdb/errors"

	"github.com/rm-hull/safpis/internal/models"
)

type Identified interface {
	Identity() int
}

type Named interface {
	DisplayName() string
}

// FindByID returns every item whose id equals id, in input order.
func FindByID[T Identified](items []T, id int) []T {
	return filter(items, func(item T) bool { return item.Identity() == id })
}

// FindByName returns every item whose name equals name exactly, in input order.
func FindByName[T Named](items []T, name string) []T {
	return filter(items, func(item T) bool { return item.DisplayName() == name })
}

// ExactlyOne unwraps a lookup that must match a single item.
func ExactlyOne[T any](matches []T, what string, key any) (T, error) {
	var zero T
	switch len(matches) {
	case 0:
		return zero, errors.Wrapf(models.ErrNotFound, "no %s found for: %v", what, key)
	case 1:
		return matches[0], nil
	default:
		return zero, errors.Wrapf(models.ErrCardinality, "%d %s records found for: %v", len(matches), what, key)
	}
}

// StationsByBrand returns the stations carrying brandID, in input order.
func StationsByBrand(stations []models.Station, brandID int) []models.Station {
	return filter(stations, func(s models.Station) bool { return s.BrandID == brandID })
}

// Children returns the regions whose parent is parentID.
func Children(regions []models.Region, parentID int) []models.Region {
	return filter(regions, func(r models.Region) bool {
		return r.ParentID != nil && *r.ParentID == parentID
	})
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0)
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
