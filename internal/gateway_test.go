package internal

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rm-hull/safpis/internal/models"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type upstream struct {
	*httptest.Server
	hits      atomic.Int32
	status    atomic.Int32
	lastQuery atomic.Value
	lastAuth  atomic.Value
}

func newUpstream(t *testing.T, body string) *upstream {
	u := &upstream{}
	u.status.Store(http.StatusOK)
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.hits.Add(1)
		u.lastQuery.Store(r.URL.RawQuery)
		u.lastAuth.Store(r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(int(u.status.Load()))
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(u.Close)
	return u
}

func newTestGateway(t *testing.T, baseURL string, clock *fakeClock) *Gateway {
	t.Helper()
	g, err := NewGateway("secret-token", NewMemoryStore(), NewMemoryStore(),
		WithBaseURL(baseURL),
		WithClock(clock.Now),
		WithLogger(zerolog.Nop()),
	)
	require.NoError(t, err)
	return g
}

func TestNewGatewayMissingCredential(t *testing.T) {
	for _, token := range []string{"", "   "} {
		_, err := NewGateway(token, NewMemoryStore(), NewMemoryStore())
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrMissingCredential))
		assert.Equal(t, models.KindConfiguration, models.KindOf(err))
	}
}

func TestFetchCachesWithinFreshnessWindow(t *testing.T) {
	srv := newUpstream(t, `{"Brands":[{"BrandId":5,"Name":"OTR"}]}`)
	clock := newFakeClock()
	g := newTestGateway(t, srv.URL, clock)
	ctx := context.Background()
	params := url.Values{"countryId": {"21"}}

	first, err := g.Fetch(ctx, "/Subscriber/GetCountryBrands", params, FreshnessDay)
	require.NoError(t, err)
	assert.Equal(t, int32(1), srv.hits.Load())
	assert.Equal(t, "FPDAPI SubscriberToken=secret-token", srv.lastAuth.Load())

	clock.Advance(23 * time.Hour)
	second, err := g.Fetch(ctx, "/Subscriber/GetCountryBrands", params, FreshnessDay)
	require.NoError(t, err)
	assert.Equal(t, int32(1), srv.hits.Load(), "second call inside the window must not reach upstream")
	assert.Equal(t, first.Body, second.Body)

	clock.Advance(time.Hour)
	_, err = g.Fetch(ctx, "/Subscriber/GetCountryBrands", params, FreshnessDay)
	require.NoError(t, err)
	assert.Equal(t, int32(2), srv.hits.Load(), "expired entry triggers exactly one new call")
}

func TestFetchMinuteFreshness(t *testing.T) {
	srv := newUpstream(t, `{"SitePrices":[]}`)
	clock := newFakeClock()
	g := newTestGateway(t, srv.URL, clock)
	ctx := context.Background()

	_, err := g.Fetch(ctx, "/Price/GetSitesPrices", nil, FreshnessMinute)
	require.NoError(t, err)

	clock.Advance(59 * time.Second)
	_, err = g.Fetch(ctx, "/Price/GetSitesPrices", nil, FreshnessMinute)
	require.NoError(t, err)
	assert.Equal(t, int32(1), srv.hits.Load())

	clock.Advance(time.Second)
	_, err = g.Fetch(ctx, "/Price/GetSitesPrices", nil, FreshnessMinute)
	require.NoError(t, err)
	assert.Equal(t, int32(2), srv.hits.Load())
}

func TestFetchStoresAreIndependent(t *testing.T) {
	srv := newUpstream(t, `{}`)
	g := newTestGateway(t, srv.URL, newFakeClock())
	ctx := context.Background()

	_, err := g.Fetch(ctx, "/x", nil, FreshnessDay)
	require.NoError(t, err)
	_, err = g.Fetch(ctx, "/x", nil, FreshnessMinute)
	require.NoError(t, err)
	assert.Equal(t, int32(2), srv.hits.Load())
}

func TestFetchParameterOrderDoesNotMatter(t *testing.T) {
	srv := newUpstream(t, `{}`)
	g := newTestGateway(t, srv.URL, newFakeClock())
	ctx := context.Background()

	a := url.Values{}
	a.Add("countryId", "21")
	a.Add("geoRegionLevel", "3")
	a.Add("geoRegionId", "4")

	b := url.Values{}
	b.Add("geoRegionId", "4")
	b.Add("geoRegionLevel", "3")
	b.Add("countryId", "21")

	_, err := g.Fetch(ctx, "/Subscriber/GetFullSiteDetails", a, FreshnessDay)
	require.NoError(t, err)
	_, err = g.Fetch(ctx, "/Subscriber/GetFullSiteDetails", b, FreshnessDay)
	require.NoError(t, err)

	assert.Equal(t, int32(1), srv.hits.Load())
	assert.Equal(t, "countryId=21&geoRegionId=4&geoRegionLevel=3", srv.lastQuery.Load())
}

func TestFetchCachesBadRequest(t *testing.T) {
	srv := newUpstream(t, `{"Message":"The request is invalid."}`)
	srv.status.Store(http.StatusBadRequest)
	g := newTestGateway(t, srv.URL, newFakeClock())
	ctx := context.Background()

	resp, err := g.Fetch(ctx, "/Subscriber/GetCountryBrands", nil, FreshnessDay)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = g.Fetch(ctx, "/Subscriber/GetCountryBrands", nil, FreshnessDay)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, int32(1), srv.hits.Load())
}

func TestFetchServerErrorIsNotCached(t *testing.T) {
	for _, status := range []int{http.StatusInternalServerError, http.StatusUnauthorized, http.StatusNotFound} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			srv := newUpstream(t, `oops`)
			srv.status.Store(int32(status))
			g := newTestGateway(t, srv.URL, newFakeClock())
			ctx := context.Background()

			_, err := g.Fetch(ctx, "/Price/GetSitesPrices", nil, FreshnessMinute)
			require.Error(t, err)
			assert.True(t, errors.Is(err, models.ErrTransport))
			assert.Equal(t, models.KindTransport, models.KindOf(err))

			var statusErr *models.HTTPStatusError
			require.True(t, errors.As(err, &statusErr))
			assert.Equal(t, status, statusErr.StatusCode)

			_, err = g.Fetch(ctx, "/Price/GetSitesPrices", nil, FreshnessMinute)
			require.Error(t, err)
			assert.Equal(t, int32(2), srv.hits.Load())
		})
	}
}

func TestFetchInvalidFreshness(t *testing.T) {
	srv := newUpstream(t, `{}`)
	g := newTestGateway(t, srv.URL, newFakeClock())

	_, err := g.Fetch(context.Background(), "/x", nil, Freshness(42))
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidFreshness))
	assert.Equal(t, models.KindUsage, models.KindOf(err))
	assert.Zero(t, srv.hits.Load())
}

func TestFetchTransportFailure(t *testing.T) {
	srv := newUpstream(t, `{}`)
	baseURL := srv.URL
	srv.Close()

	g := newTestGateway(t, baseURL, newFakeClock())
	_, err := g.Fetch(context.Background(), "/x", nil, FreshnessDay)
	require.Error(t, err)
	assert.Equal(t, models.KindTransport, models.KindOf(err))
}

func TestFetchDecompressesGzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(`{"Fuels":[]}`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "gzip, deflate", r.Header.Get("Accept-Encoding"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "*/*", r.Header.Get("Accept"))
		w.Header().Set("Content-Encoding", "gzip")
		_, _ = w.Write(buf.Bytes())
	}))
	t.Cleanup(srv.Close)

	g := newTestGateway(t, srv.URL, newFakeClock())
	resp, err := g.Fetch(context.Background(), "/Subscriber/GetCountryFuelTypes", nil, FreshnessDay)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Fuels":[]}`, string(resp.Body))
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "GET /a", CacheKey(http.MethodGet, "/a", nil))
	assert.Equal(t, "GET /a?x=1&y=2", CacheKey(http.MethodGet, "/a", url.Values{"y": {"2"}, "x": {"1"}}))
	assert.NotEqual(t, CacheKey(http.MethodGet, "/a", nil), CacheKey(http.MethodPost, "/a", nil))
}

func TestFreshnessTTL(t *testing.T) {
	ttl, err := FreshnessDay.TTL()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, ttl)

	ttl, err = FreshnessMinute.TTL()
	require.NoError(t, err)
	assert.Equal(t, time.Minute, ttl)

	_, err = Freshness(0).TTL()
	assert.True(t, errors.Is(err, models.ErrInvalidFreshness))
}
