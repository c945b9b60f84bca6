package cmd

import (
	"context"
	"io"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/rm-hull/safpis/internal"
	"github.com/rm-hull/safpis/internal/models"
)

// LookupKey selects a record either by id or by exact name, never both.
type LookupKey struct {
	ID   *int
	Name string
}

// NewLookupKey fails with a usage error unless exactly one of the id and name
// flags was given.
func NewLookupKey(idSet bool, id int, name string) (LookupKey, error) {
	nameSet := strings.TrimSpace(name) != ""
	switch {
	case idSet && nameSet:
		return LookupKey{}, errors.Wrap(models.ErrUsage, "--id and --name are mutually exclusive")
	case !idSet && !nameSet:
		return LookupKey{}, errors.Wrap(models.ErrUsage, "one of --id or --name is required")
	case idSet:
		return LookupKey{ID: &id}, nil
	default:
		return LookupKey{Name: name}, nil
	}
}

func resolve[T any](key LookupKey, byID func(int) (T, error), byName func(string) (T, error)) (T, error) {
	if key.ID != nil {
		return byID(*key.ID)
	}
	return byName(key.Name)
}

// lookup bootstraps the facade, resolves one record from it and prints it.
func lookup[T any](ctx context.Context, opts Options, out io.Writer, find func(*internal.Safpis) (T, error)) error {
	a, err := bootstrap(ctx, opts, false)
	if err != nil {
		return err
	}
	defer a.Close()

	s, err := a.facade(ctx)
	if err != nil {
		return err
	}

	result, err := find(s)
	if err != nil {
		return err
	}
	return printJSON(out, result)
}

func Site(ctx context.Context, opts Options, key LookupKey, out io.Writer) error {
	return lookup(ctx, opts, out, func(s *internal.Safpis) (models.Station, error) {
		return resolve(key, s.StationByID, s.StationByName)
	})
}

func Brand(ctx context.Context, opts Options, key LookupKey, out io.Writer) error {
	return lookup(ctx, opts, out, func(s *internal.Safpis) (models.Brand, error) {
		return resolve(key, s.BrandByID, s.BrandByName)
	})
}

func Fuel(ctx context.Context, opts Options, key LookupKey, out io.Writer) error {
	return lookup(ctx, opts, out, func(s *internal.Safpis) (models.Fuel, error) {
		return resolve(key, s.FuelByID, s.FuelByName)
	})
}
