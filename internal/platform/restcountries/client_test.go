package restcountries

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourvisto/tourvisto-api/internal/config"
	"github.com/tourvisto/tourvisto-api/internal/domain"
	"github.com/tourvisto/tourvisto-api/internal/platform/cache"
)

const catalogue = `[
	{"name": {"common": "Japan"}, "flag": "🇯🇵", "latlng": [36, 138], "maps": {"openStreetMaps": "https://www.openstreetmap.org/relation/382313"}},
	{"name": {"common": "Antarctica"}, "flag": "🇦🇶", "latlng": [-90, 0], "maps": {}},
	{"name": {"common": ""}, "flag": "?"},
	{"name": {"common": "Nowhere"}, "flag": "🏳"}
]`

func testConfig(baseURL string) config.CountriesConfig {
	return config.CountriesConfig{BaseURL: baseURL, RequestsPerSecond: 100, CacheTTLSeconds: 60}
}

func TestListCountries(t *testing.T) {
	var gotPath, gotFields string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotFields = r.URL.Query().Get("fields")
		_, _ = w.Write([]byte(catalogue))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), nil, nil, nil)
	countries, err := c.ListCountries(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/v3.1/all", gotPath)
	assert.Equal(t, "name,flag,latlng,maps", gotFields)
	require.Len(t, countries, 3, "entries without a name should be skipped")

	assert.Equal(t, "Antarctica", countries[0].Value, "countries should be sorted by name")
	assert.Equal(t, domain.Country{
		Name:          "🇯🇵 Japan",
		Value:         "Japan",
		Coordinates:   [2]float64{36, 138},
		OpenStreetMap: "https://www.openstreetmap.org/relation/382313",
	}, countries[1])
	assert.Equal(t, [2]float64{0, 0}, countries[2].Coordinates)
}

func TestListCountries_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), nil, nil, nil)
	_, err := c.ListCountries(context.Background())
	assert.Error(t, err)
}

func TestListCountries_Cached(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(catalogue))
	}))
	defer srv.Close()

	mr := miniredis.RunT(t)
	redisCache := cache.NewRedis(mr.Addr(), "", 0, "", nil)
	defer func() { _ = redisCache.Close() }()

	c := NewClient(testConfig(srv.URL), redisCache, nil, nil)
	first, err := c.ListCountries(context.Background())
	require.NoError(t, err)
	second, err := c.ListCountries(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}
