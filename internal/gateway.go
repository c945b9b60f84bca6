package internal

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/rs/zerolog"

	"github.com/rm-hull/safpis/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const DefaultBaseURL = "https://fppdirectapi-prod.safuelpricinginformation.com.au"

// Gateway performs authenticated GETs against the upstream API, answering from
// the cache selected by the request's freshness class whenever it can. The
// stores stay owned by the caller.
type Gateway struct {
	baseURL string
	token   string
	stores  map[Freshness]CacheStore
	caches  map[Freshness]*ResponseCache
	client  *http.Client
	logger  zerolog.Logger
	now     func() time.Time
}

type GatewayOption func(*Gateway)

func WithBaseURL(baseURL string) GatewayOption {
	return func(g *Gateway) {
		g.baseURL = strings.TrimRight(baseURL, "/")
	}
}

func WithHTTPClient(client *http.Client) GatewayOption {
	return func(g *Gateway) {
		g.client = client
	}
}

func WithLogger(logger zerolog.Logger) GatewayOption {
	return func(g *Gateway) {
		g.logger = logger
	}
}

func WithClock(now func() time.Time) GatewayOption {
	return func(g *Gateway) {
		g.now = now
	}
}

// NewGateway fails with models.ErrMissingCredential before any network
// activity if token is empty.
func NewGateway(token string, day, minute CacheStore, opts ...GatewayOption) (*Gateway, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.Wrap(models.ErrMissingCredential, "subscriber token is not set")
	}

	g := &Gateway{
		baseURL: DefaultBaseURL,
		token:   token,
		stores:  map[Freshness]CacheStore{FreshnessDay: day, FreshnessMinute: minute},
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  zerolog.Nop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = g.logger.With().Str("component", "gateway").Logger()

	g.caches = make(map[Freshness]*ResponseCache, len(g.stores))
	for freshness, store := range g.stores {
		ttl, err := freshness.TTL()
		if err != nil {
			return nil, err
		}
		g.caches[freshness] = NewResponseCache(store, ttl, g.now)
	}
	return g, nil
}

// Fetch returns the response for GET path?params, from the freshness class's
// cache when a fresh entry exists and from upstream otherwise. Status 200 and
// 400 responses are cached and returned; any other status is returned as a
// *models.HTTPStatusError and never cached.
func (g *Gateway) Fetch(ctx context.Context, path string, params url.Values, freshness Freshness) (*CachedResponse, error) {
	cache, ok := g.caches[freshness]
	if !ok {
		return nil, errors.Wrapf(models.ErrInvalidFreshness, "%d", int(freshness))
	}

	key := CacheKey(http.MethodGet, path, params)
	cached, hit, err := cache.Lookup(ctx, key)
	if err != nil {
		return nil, errors.Wrapf(err, "cache lookup failed for %s", key)
	}
	if hit {
		cacheLookupsTotal.WithLabelValues(freshness.String(), "hit").Inc()
		g.logger.Debug().Str("key", key).Str("freshness", freshness.String()).Msg("cache hit")
		return cached, nil
	}
	cacheLookupsTotal.WithLabelValues(freshness.String(), "miss").Inc()
	g.logger.Debug().Str("key", key).Str("freshness", freshness.String()).Msg("cache miss")

	resp, err := g.get(ctx, path, params)
	if err != nil {
		return nil, err
	}

	if err := cache.Save(ctx, key, resp); err != nil {
		return nil, errors.Wrapf(err, "cache store failed for %s", key)
	}
	return resp, nil
}

func (g *Gateway) get(ctx context.Context, path string, params url.Values) (*CachedResponse, error) {
	u := g.baseURL + path
	if encoded := params.Encode(); encoded != "" {
		u += "?" + encoded
	}

	g.logger.Debug().Str("url", u).Msg("GET")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Authorization", "FPDAPI SubscriberToken="+g.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Encoding", "gzip, deflate")

	started := time.Now()
	resp, err := g.client.Do(req)
	upstreamRequestDuration.WithLabelValues(path).Observe(time.Since(started).Seconds())
	if err != nil {
		upstreamRequestsTotal.WithLabelValues(path, "error").Inc()
		g.logger.Error().Err(err).Str("url", u).Msg("upstream request failed")
		return nil, errors.Mark(errors.Wrapf(err, "failed to fetch from %s", u), models.ErrTransport)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			g.logger.Warn().Err(err).Msg("failed to close body")
		}
	}()
	upstreamRequestsTotal.WithLabelValues(path, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusBadRequest {
		g.logger.Error().Str("url", u).Str("status", resp.Status).Msg("upstream returned an uncacheable status")
		return nil, &models.HTTPStatusError{URL: u, Status: resp.Status, StatusCode: resp.StatusCode}
	}

	body, err := readBody(resp)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "failed to read response body from %s", u), models.ErrTransport)
	}

	return &CachedResponse{
		StatusCode: resp.StatusCode,
		Body:       body,
		FetchedAt:  g.now(),
	}, nil
}

// readBody decodes the body according to Content-Encoding. The transport only
// decompresses transparently when it chose Accept-Encoding itself.
func readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer func() { _ = gz.Close() }()
		reader = gz
	case "deflate":
		zr, err := zlib.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer func() { _ = zr.Close() }()
		reader = zr
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
