// Package unsplash searches destination photos on the Unsplash API.
package unsplash

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tourvisto/tourvisto-api/internal/config"
	"github.com/tourvisto/tourvisto-api/internal/platform/cache"
	"github.com/tourvisto/tourvisto-api/internal/platform/httpclient"
	"github.com/tourvisto/tourvisto-api/internal/platform/logger"
)

// ErrNoResults is returned when a search matched no usable photos.
var ErrNoResults = errors.New("unsplash: no results")

type searchResponse struct {
	Results []struct {
		URLs struct {
			Regular string `json:"regular"`
		} `json:"urls"`
	} `json:"results"`
}

// Client searches photos. Non-empty results are cached.
type Client struct {
	http      *httpclient.Client
	baseURL   string
	accessKey string
	perPage   int
	cache     cache.Cache
	ttl       time.Duration
	logger    *slog.Logger
}

// NewClient creates an Unsplash client. c may be nil to disable caching.
func NewClient(cfg config.ImagesConfig, c cache.Cache, obs httpclient.Observer, log *slog.Logger) (*Client, error) {
	if cfg.UnsplashAccessKey == "" {
		return nil, errors.New("unsplash access key is required")
	}
	if c == nil {
		c = cache.Nop{}
	}
	if log == nil {
		log = slog.Default()
	}
	perPage := cfg.PerPage
	if perPage <= 0 {
		perPage = 3
	}
	return &Client{
		http: httpclient.New(httpclient.Config{
			Service:           "unsplash",
			RequestsPerSecond: cfg.RequestsPerSecond,
			MaxRetries:        2,
			Timeout:           10 * time.Second,
		}, nil, obs),
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		accessKey: cfg.UnsplashAccessKey,
		perPage:   perPage,
		cache:     c,
		ttl:       time.Duration(cfg.CacheTTLSeconds) * time.Second,
		logger:    log.With(slog.String("component", "unsplash_client")),
	}, nil
}

// Search returns up to limit regular-size photo URLs for query. A limit
// of zero or less uses the configured page size.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]string, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)
	if limit <= 0 {
		limit = c.perPage
	}

	key := "unsplash:" + strconv.Itoa(limit) + ":" + strings.ToLower(strings.TrimSpace(query))
	var cached []string
	if found, err := c.cache.Get(ctx, key, &cached); err != nil {
		log.WarnContext(ctx, "image cache read failed", slog.String("error", err.Error()))
	} else if found && len(cached) > 0 {
		return cached, nil
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(limit))

	header := http.Header{}
	header.Set("Authorization", "Client-ID "+c.accessKey)
	header.Set("Accept-Version", "v1")

	var resp searchResponse
	if err := c.http.GetJSON(ctx, "search_photos", c.baseURL+"/search/photos?"+params.Encode(), header, &resp); err != nil {
		return nil, fmt.Errorf("unsplash search: %w", err)
	}

	urls := make([]string, 0, limit)
	for _, r := range resp.Results {
		if r.URLs.Regular == "" {
			continue
		}
		urls = append(urls, r.URLs.Regular)
		if len(urls) == limit {
			break
		}
	}
	if len(urls) == 0 {
		return nil, ErrNoResults
	}

	if err := c.cache.Set(ctx, key, urls, c.ttl); err != nil {
		log.WarnContext(ctx, "image cache write failed", slog.String("error", err.Error()))
	}
	return urls, nil
}
