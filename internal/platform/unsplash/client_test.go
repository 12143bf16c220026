package unsplash

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourvisto/tourvisto-api/internal/config"
	"github.com/tourvisto/tourvisto-api/internal/platform/cache"
)

func testConfig(baseURL string) config.ImagesConfig {
	return config.ImagesConfig{
		UnsplashAccessKey: "key-123",
		BaseURL:           baseURL,
		PerPage:           3,
		RequestsPerSecond: 100,
		CacheTTLSeconds:   60,
	}
}

func resultsBody(n int) string {
	body := `{"results": [`
	for i := 0; i < n; i++ {
		if i > 0 {
			body += ","
		}
		body += fmt.Sprintf(`{"urls": {"regular": "https://images.test/%d.jpg"}}`, i)
	}
	return body + `]}`
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient(config.ImagesConfig{BaseURL: "http://x"}, nil, nil, nil)
	assert.Error(t, err)
}

func TestSearch(t *testing.T) {
	var gotQuery, gotPerPage, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/photos", r.URL.Path)
		gotQuery = r.URL.Query().Get("query")
		gotPerPage = r.URL.Query().Get("per_page")
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(resultsBody(5)))
	}))
	defer srv.Close()

	c, err := NewClient(testConfig(srv.URL), nil, nil, nil)
	require.NoError(t, err)

	urls, err := c.Search(context.Background(), "Japan Food Relaxed", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://images.test/0.jpg",
		"https://images.test/1.jpg",
		"https://images.test/2.jpg",
	}, urls, "results should be capped at the limit")
	assert.Equal(t, "Japan Food Relaxed", gotQuery)
	assert.Equal(t, "3", gotPerPage)
	assert.Equal(t, "Client-ID key-123", gotAuth)
}

func TestSearch_SkipsEntriesWithoutURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": [{"urls": {}}, {"urls": {"regular": "https://images.test/ok.jpg"}}]}`))
	}))
	defer srv.Close()

	c, err := NewClient(testConfig(srv.URL), nil, nil, nil)
	require.NoError(t, err)

	urls, err := c.Search(context.Background(), "q", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://images.test/ok.jpg"}, urls)
}

func TestSearch_EmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": []}`))
	}))
	defer srv.Close()

	c, err := NewClient(testConfig(srv.URL), nil, nil, nil)
	require.NoError(t, err)

	urls, err := c.Search(context.Background(), "nowhere", 3)
	assert.ErrorIs(t, err, ErrNoResults)
	assert.Nil(t, urls)
}

func TestSearch_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, err := NewClient(testConfig(srv.URL), nil, nil, nil)
	require.NoError(t, err)

	_, err = c.Search(context.Background(), "q", 3)
	assert.Error(t, err)
}

func TestSearch_UsesCache(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(resultsBody(2)))
	}))
	defer srv.Close()

	mr := miniredis.RunT(t)
	redisCache := cache.NewRedis(mr.Addr(), "", 0, "", nil)
	defer func() { _ = redisCache.Close() }()

	c, err := NewClient(testConfig(srv.URL), redisCache, nil, nil)
	require.NoError(t, err)

	first, err := c.Search(context.Background(), "Japan Food", 3)
	require.NoError(t, err)
	second, err := c.Search(context.Background(), "  japan food ", 3)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "second search should be served from cache")
}
