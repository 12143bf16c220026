// Package restcountries loads the destination catalogue from the REST
// Countries API.
package restcountries

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/tourvisto/tourvisto-api/internal/config"
	"github.com/tourvisto/tourvisto-api/internal/domain"
	"github.com/tourvisto/tourvisto-api/internal/platform/cache"
	"github.com/tourvisto/tourvisto-api/internal/platform/httpclient"
	"github.com/tourvisto/tourvisto-api/internal/platform/logger"
)

const cacheKey = "restcountries:all"

type apiCountry struct {
	Name struct {
		Common string `json:"common"`
	} `json:"name"`
	Flag   string    `json:"flag"`
	LatLng []float64 `json:"latlng"`
	Maps   struct {
		OpenStreetMap string `json:"openStreetMaps"`
	} `json:"maps"`
}

// Client lists countries, caching the full catalogue.
type Client struct {
	http    *httpclient.Client
	baseURL string
	cache   cache.Cache
	ttl     time.Duration
	logger  *slog.Logger
}

// NewClient creates a REST Countries client. c may be nil to disable caching.
func NewClient(cfg config.CountriesConfig, c cache.Cache, obs httpclient.Observer, log *slog.Logger) *Client {
	if c == nil {
		c = cache.Nop{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		http: httpclient.New(httpclient.Config{
			Service:           "restcountries",
			RequestsPerSecond: cfg.RequestsPerSecond,
			MaxRetries:        2,
			Timeout:           15 * time.Second,
		}, nil, obs),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		cache:   c,
		ttl:     time.Duration(cfg.CacheTTLSeconds) * time.Second,
		logger:  log.With(slog.String("component", "restcountries_client")),
	}
}

// ListCountries returns every country sorted by common name.
func (c *Client) ListCountries(ctx context.Context) ([]domain.Country, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	var cached []domain.Country
	if found, err := c.cache.Get(ctx, cacheKey, &cached); err != nil {
		log.WarnContext(ctx, "country cache read failed", slog.String("error", err.Error()))
	} else if found && len(cached) > 0 {
		return cached, nil
	}

	var raw []apiCountry
	if err := c.http.GetJSON(ctx, "all", c.baseURL+"/v3.1/all?fields=name,flag,latlng,maps", nil, &raw); err != nil {
		return nil, fmt.Errorf("restcountries: %w", err)
	}

	countries := make([]domain.Country, 0, len(raw))
	for _, rc := range raw {
		if rc.Name.Common == "" {
			continue
		}
		countries = append(countries, domain.NewCountry(rc.Name.Common, rc.Flag, rc.LatLng, rc.Maps.OpenStreetMap))
	}
	sort.Slice(countries, func(i, j int) bool { return countries[i].Value < countries[j].Value })

	if len(countries) > 0 {
		if err := c.cache.Set(ctx, cacheKey, countries, c.ttl); err != nil {
			log.WarnContext(ctx, "country cache write failed", slog.String("error", err.Error()))
		}
	}
	return countries, nil
}
