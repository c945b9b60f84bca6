package internal

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"

	"github.com/rm-hull/safpis/internal/models"
)

const (
	pathCountryBrands     = "/Subscriber/GetCountryBrands"
	pathCountryFuelTypes  = "/Subscriber/GetCountryFuelTypes"
	pathCountryRegions    = "/Subscriber/GetCountryGeographicRegions"
	pathFullSiteDetails   = "/Subscriber/GetFullSiteDetails"
	pathSitesPrices       = "/Price/GetSitesPrices"
	defaultCountryID      = 21
	defaultGeoRegionLevel = models.LevelState
	defaultGeoRegionID    = 4
)

// Fetcher is the part of the Gateway the typed client depends on.
type Fetcher interface {
	Fetch(ctx context.Context, path string, params url.Values, freshness Freshness) (*CachedResponse, error)
}

// Scope selects which country and geographic region the client asks about.
type Scope struct {
	CountryID      int
	GeoRegionLevel int
	GeoRegionID    int
}

// DefaultScope is the whole of South Australia.
func DefaultScope() Scope {
	return Scope{
		CountryID:      defaultCountryID,
		GeoRegionLevel: defaultGeoRegionLevel,
		GeoRegionID:    defaultGeoRegionID,
	}
}

func (s Scope) countryParams() url.Values {
	return url.Values{"countryId": {strconv.Itoa(s.CountryID)}}
}

func (s Scope) regionParams() url.Values {
	params := s.countryParams()
	params.Set("geoRegionLevel", strconv.Itoa(s.GeoRegionLevel))
	params.Set("geoRegionId", strconv.Itoa(s.GeoRegionID))
	return params
}

// Client decodes upstream envelopes into typed records. Reference data uses the
// day freshness class and prices the minute class.
type Client struct {
	fetcher Fetcher
	scope   Scope
	loc     *time.Location
	logger  zerolog.Logger
}

func NewClient(fetcher Fetcher, scope Scope, loc *time.Location, logger zerolog.Logger) *Client {
	return &Client{
		fetcher: fetcher,
		scope:   scope,
		loc:     loc,
		logger:  logger.With().Str("component", "client").Logger(),
	}
}

func (c *Client) Location() *time.Location {
	return c.loc
}

func (c *Client) CountryBrands(ctx context.Context) ([]models.Brand, error) {
	return fetchCollection(ctx, c, pathCountryBrands, c.scope.countryParams(), FreshnessDay, "Brands", models.ParseBrand)
}

func (c *Client) CountryFuelTypes(ctx context.Context) ([]models.Fuel, error) {
	return fetchCollection(ctx, c, pathCountryFuelTypes, c.scope.countryParams(), FreshnessDay, "Fuels", models.ParseFuel)
}

func (c *Client) CountryGeographicRegions(ctx context.Context) ([]models.Region, error) {
	return fetchCollection(ctx, c, pathCountryRegions, c.scope.countryParams(), FreshnessDay, "GeographicRegions", models.ParseRegion)
}

func (c *Client) FullSiteDetails(ctx context.Context) ([]models.Station, error) {
	parse := func(rec models.Record) (models.Station, error) {
		return models.ParseStation(rec, c.loc)
	}
	return fetchCollection(ctx, c, pathFullSiteDetails, c.scope.regionParams(), FreshnessDay, "S", parse)
}

func (c *Client) SitesPrices(ctx context.Context) ([]models.StationPrice, error) {
	return fetchCollection(ctx, c, pathSitesPrices, c.scope.regionParams(), FreshnessMinute, "SitePrices", models.ParsePrice)
}

// fetchCollection parses every record under envelope in the response body. A
// record that fails to parse aborts the whole collection.
func fetchCollection[T any](
	ctx context.Context,
	c *Client,
	path string,
	params url.Values,
	freshness Freshness,
	envelope string,
	parse func(models.Record) (T, error),
) ([]T, error) {
	resp, err := c.fetcher.Fetch(ctx, path, params, freshness)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusBadRequest {
		c.logger.Warn().
			Str("path", path).
			Str("response", truncate(string(resp.Body), 200)).
			Msg("upstream rejected request, treating as empty")
		return []T{}, nil
	}

	var body map[string]jsoniter.RawMessage
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "failed to unmarshal response from %s", path), models.ErrValidation)
	}

	raw, ok := body[envelope]
	if !ok {
		return nil, errors.Wrapf(models.ErrValidation, "response from %s has no %q collection", path, envelope)
	}

	var records []models.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "failed to unmarshal %q collection from %s", envelope, path), models.ErrValidation)
	}

	results := make([]T, 0, len(records))
	for i, rec := range records {
		item, err := parse(rec)
		if err != nil {
			return nil, errors.Wrapf(err, "%s record %d", envelope, i)
		}
		results = append(results, item)
	}
	return results, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
