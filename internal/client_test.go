package internal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rm-hull/safpis/internal/models"
)

const brandsFixture = `{"Brands":[
	{"BrandId":2,"Name":"Shell"},
	{"BrandId":5,"Name":"BP"},
	{"BrandId":169,"Name":"On the Run"},
	{"BrandId":200,"Name":"Nobody"}
]}`

const fuelsFixture = `{"Fuels":[
	{"FuelId":2,"Name":"Unleaded"},
	{"FuelId":3,"Name":"Diesel"},
	{"FuelId":5,"Name":"Premium Unleaded 95"}
]}`

const regionsFixture = `{"GeographicRegions":[
	{"GeoRegionLevel":3,"GeoRegionId":4,"Name":"South Australia","Abbrev":"SA","GeoRegionParentId":null},
	{"GeoRegionLevel":2,"GeoRegionId":189,"Name":"Adelaide","Abbrev":"ADL","GeoRegionParentId":4},
	{"GeoRegionLevel":1,"GeoRegionId":170227225,"Name":"Dry Creek","Abbrev":"DC","GeoRegionParentId":189}
]}`

const sitesFixture = `{"S":[
	{"S":"61205460","A":"11 Vader Street","N":"OTR Dry Creek","B":169,"P":"5094",
	 "G1":170227225,"G2":189,"G3":4,"G4":0,"G5":0,"Lat":-34.819297,"Lng":138.592116,
	 "M":"2023-12-27T09:15:01.100","GPI":"ChIJKy0p_ra3sGoRaWz3bT-5iEk",
	 "MO":"06:00","MC":"23:59","TO":"06:00","TC":"23:59","WO":"06:00","WC":"23:59",
	 "THO":"06:00","THC":"23:59","FO":"06:00","FC":"23:59","SO":"06:00","SC":"23:59",
	 "SUO":"06:00","SUC":"23:59"},
	{"S":61205461,"A":"1 Main North Road","N":"Shell Gepps Cross","B":2,"P":"5094",
	 "G1":170227225,"G2":189,"G3":4,"G4":0,"G5":0,"Lat":-34.842,"Lng":138.603,
	 "M":"2023-12-27T09:15:01","GPI":"ChIJ-shell",
	 "MO":"","MC":"","TO":"","TC":"","WO":"","WC":"","THO":"","THC":"","FO":"","FC":"",
	 "SO":"","SC":"","SUO":"","SUC":""},
	{"S":61205462,"A":"5 Port Road","N":"BP Hindmarsh","B":5,"P":"5007",
	 "G1":170227226,"G2":189,"G3":4,"G4":0,"G5":0,"Lat":-34.905,"Lng":138.571,
	 "M":"2023-12-27T09:15:01","GPI":"ChIJ-bp",
	 "MO":"00:00","MC":"23:59","TO":"00:00","TC":"23:59","WO":"00:00","WC":"23:59",
	 "THO":"00:00","THC":"23:59","FO":"00:00","FC":"23:59","SO":"00:00","SC":"23:59",
	 "SUO":"00:00","SUC":"23:59"}
]}`

const pricesFixture = `{"SitePrices":[
	{"SiteId":61205460,"FuelId":2,"CollectionMethod":"T","TransactionDateUtc":"2023-12-27T01:00:00","Price":1899.0},
	{"SiteId":61205461,"FuelId":2,"CollectionMethod":"T","TransactionDateUtc":"2023-12-27T01:05:00.250","Price":1799.0},
	{"SiteId":61205462,"FuelId":2,"CollectionMethod":"Q","TransactionDateUtc":"2023-12-27T01:10:00","Price":1849.0},
	{"SiteId":61205460,"FuelId":3,"CollectionMethod":"T","TransactionDateUtc":"2023-12-27T01:00:00","Price":2049.0},
	{"SiteId":99999999,"FuelId":2,"CollectionMethod":"T","TransactionDateUtc":"2023-12-27T01:00:00","Price":1999.0}
]}`

type fixtureServer struct {
	*httptest.Server
	mu     sync.Mutex
	hits   map[string]int
	bodies map[string]string
	status map[string]int
}

func newFixtureServer(t *testing.T) *fixtureServer {
	fs := &fixtureServer{
		hits: make(map[string]int),
		bodies: map[string]string{
			pathCountryBrands:    brandsFixture,
			pathCountryFuelTypes: fuelsFixture,
			pathCountryRegions:   regionsFixture,
			pathFullSiteDetails:  sitesFixture,
			pathSitesPrices:      pricesFixture,
		},
		status: make(map[string]int),
	}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.mu.Lock()
		defer fs.mu.Unlock()
		fs.hits[r.URL.Path]++

		body, ok := fs.bodies[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		status := http.StatusOK
		if s, ok := fs.status[r.URL.Path]; ok {
			status = s
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(fs.Close)
	return fs
}

func (fs *fixtureServer) respond(path string, status int, body string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.status[path] = status
	fs.bodies[path] = body
}

func (fs *fixtureServer) hitCount(path string) int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.hits[path]
}

func newTestClient(t *testing.T, fs *fixtureServer, clock *fakeClock) *Client {
	t.Helper()
	loc, err := models.LoadLocation("")
	require.NoError(t, err)
	g, err := NewGateway("secret-token", NewMemoryStore(), NewMemoryStore(),
		WithBaseURL(fs.URL),
		WithClock(clock.Now),
	)
	require.NoError(t, err)
	return NewClient(g, DefaultScope(), loc, zerolog.Nop())
}

func TestClientReferenceData(t *testing.T) {
	fs := newFixtureServer(t)
	c := newTestClient(t, fs, newFakeClock())
	ctx := context.Background()

	brands, err := c.CountryBrands(ctx)
	require.NoError(t, err)
	assert.Len(t, brands, 4)
	assert.Equal(t, models.Brand{ID: 169, Name: "On the Run"}, brands[2])

	fuels, err := c.CountryFuelTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, fuels, 3)

	regions, err := c.CountryGeographicRegions(ctx)
	require.NoError(t, err)
	require.Len(t, regions, 3)
	assert.True(t, regions[0].IsRoot())
	assert.Equal(t, "SA", regions[0].Abbreviation)

	stations, err := c.FullSiteDetails(ctx)
	require.NoError(t, err)
	require.Len(t, stations, 3)
	assert.Equal(t, 61205460, stations[0].ID)
	assert.True(t, stations[1].ClosedAllWeek())

	_, err = c.CountryBrands(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, fs.hitCount(pathCountryBrands))
}

func TestClientPricesUseMinuteFreshness(t *testing.T) {
	fs := newFixtureServer(t)
	clock := newFakeClock()
	c := newTestClient(t, fs, clock)
	ctx := context.Background()

	prices, err := c.SitesPrices(ctx)
	require.NoError(t, err)
	require.Len(t, prices, 5)
	assert.Equal(t, "1.899", prices[0].Price.Amount.String())
	assert.Equal(t, time.Date(2023, 12, 27, 1, 5, 0, 250_000_000, time.UTC), prices[1].TransactionDate)

	clock.Advance(30 * time.Second)
	_, err = c.SitesPrices(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, fs.hitCount(pathSitesPrices))

	clock.Advance(31 * time.Second)
	_, err = c.SitesPrices(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, fs.hitCount(pathSitesPrices))
}

func TestClientBadRequestIsEmpty(t *testing.T) {
	fs := newFixtureServer(t)
	fs.respond(pathCountryBrands, http.StatusBadRequest, `{"Message":"The request is invalid."}`)
	c := newTestClient(t, fs, newFakeClock())

	brands, err := c.CountryBrands(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, brands)
	assert.Empty(t, brands)
}

func TestClientMalformedRecordAbortsCollection(t *testing.T) {
	fs := newFixtureServer(t)
	fs.respond(pathCountryFuelTypes, http.StatusOK, `{"Fuels":[{"FuelId":2,"Name":"Unleaded"},{"FuelId":"two","Name":"Diesel"}]}`)
	c := newTestClient(t, fs, newFakeClock())

	_, err := c.CountryFuelTypes(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrMalformedField))
	assert.Equal(t, models.KindValidation, models.KindOf(err))
}

func TestClientMissingEnvelope(t *testing.T) {
	fs := newFixtureServer(t)
	fs.respond(pathCountryFuelTypes, http.StatusOK, `{"Brands":[]}`)
	c := newTestClient(t, fs, newFakeClock())

	_, err := c.CountryFuelTypes(context.Background())
	require.Error(t, err)
	assert.Equal(t, models.KindValidation, models.KindOf(err))
}

func TestClientServerError(t *testing.T) {
	fs := newFixtureServer(t)
	fs.respond(pathFullSiteDetails, http.StatusServiceUnavailable, `down`)
	c := newTestClient(t, fs, newFakeClock())

	_, err := c.FullSiteDetails(context.Background())
	require.Error(t, err)
	assert.Equal(t, models.KindTransport, models.KindOf(err))
}
