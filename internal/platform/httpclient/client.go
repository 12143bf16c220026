// Package httpclient is a small JSON-over-HTTP client for third-party APIs
// that have no Go SDK. It adds client-side rate limiting, retries on 429
// and transient 5xx answers (honouring Retry-After) and outbound metrics.
package httpclient

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Errors returned for non-retryable statuses.
var (
	ErrNotFound     = errors.New("remote: not found")
	ErrUnauthorized = errors.New("remote: unauthorized")
	ErrForbidden    = errors.New("remote: forbidden")
)

// StatusError is returned for any other unexpected status.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bad status %d: %s", e.Status, e.Body)
}

// Observer receives one callback per HTTP exchange.
type Observer interface {
	ObserveExternal(service, endpoint string, status int, dur time.Duration)
}

// Config configures a Client.
type Config struct {
	// Service names the remote API in metrics and errors.
	Service string
	// RequestsPerSecond limits outbound calls. Values below 1 default to 5.
	RequestsPerSecond int
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int
	Timeout    time.Duration
	UserAgent  string
}

// Client performs rate-limited GET requests that decode JSON.
type Client struct {
	service    string
	hc         *http.Client
	rl         *rate.Limiter
	obs        Observer
	maxRetries int
	userAgent  string
	backoff    func(attempt int) time.Duration
}

// New creates a Client. hc and obs may be nil.
func New(cfg Config, hc *http.Client, obs Observer) *Client {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 20 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = "tourvisto-api/1.0"
	}
	return &Client{
		service:    cfg.Service,
		hc:         hc,
		rl:         rate.NewLimiter(rate.Limit(rps), rps),
		obs:        obs,
		maxRetries: cfg.MaxRetries,
		userAgent:  ua,
		backoff:    Backoff,
	}
}

// WithBackoff replaces the retry delay function. Intended for tests.
func (c *Client) WithBackoff(fn func(attempt int) time.Duration) *Client {
	c.backoff = fn
	return c
}

// GetJSON fetches rawURL and decodes the JSON body into out. endpoint is a
// low-cardinality label for metrics.
func (c *Client) GetJSON(ctx context.Context, endpoint, rawURL string, header http.Header, out any) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		// Retries draw from the same budget as first attempts.
		if err := c.rl.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return err
		}
		for k, vs := range header {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			c.observe(endpoint, 0, start)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = fmt.Errorf("%s: %w", c.service, err)
			if attempt < c.maxRetries && sleepCtx(ctx, c.backoff(attempt)) {
				continue
			}
			return c.finalErr(ctx, lastErr)
		}
		c.observe(endpoint, resp.StatusCode, start)

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			if resp.StatusCode == http.StatusNoContent {
				drain(resp)
				return nil
			}
			err := json.NewDecoder(resp.Body).Decode(out)
			drain(resp)
			if err != nil {
				return fmt.Errorf("%s: decode response: %w", c.service, err)
			}
			return nil

		case resp.StatusCode == http.StatusNotFound:
			drain(resp)
			return ErrNotFound

		case resp.StatusCode == http.StatusUnauthorized:
			drain(resp)
			return ErrUnauthorized

		case resp.StatusCode == http.StatusForbidden:
			drain(resp)
			return ErrForbidden

		case retryable(resp.StatusCode):
			wait := RetryAfter(resp)
			drain(resp)
			if wait == 0 {
				wait = c.backoff(attempt)
			}
			lastErr = &StatusError{Status: resp.StatusCode}
			if attempt < c.maxRetries && sleepCtx(ctx, wait) {
				continue
			}
			return c.finalErr(ctx, lastErr)

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			drain(resp)
			return &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(b))}
		}
	}

	return lastErr
}

func (c *Client) observe(endpoint string, status int, start time.Time) {
	if c.obs != nil {
		c.obs.ObserveExternal(c.service, endpoint, status, time.Since(start))
	}
}

func (c *Client) finalErr(ctx context.Context, lastErr error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return lastErr
}

func retryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}

// sleepCtx waits for d or returns false early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// RetryAfter parses the Retry-After header (seconds or HTTP-date).
// It returns 0 if the header is absent or invalid.
func RetryAfter(resp *http.Response) time.Duration {
	h := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(h); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// Backoff returns an exponential delay (200ms, 400ms, 800ms...) with up to
// 50% random jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<attempt) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
