// Steamscope - Steam Library Recommendation Service
// Copyright 2026 Steamscope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/steamscope/steamscope

package steam

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/steamscope/steamscope/internal/cachestore"
	"github.com/steamscope/steamscope/internal/logging"
	"github.com/steamscope/steamscope/internal/metrics"
	"github.com/steamscope/steamscope/internal/models"
)

// maxErrorBodySize limits how much of an error response body is read for
// diagnostics, preventing unbounded allocation on large error pages.
const maxErrorBodySize = 64 * 1024 // 64KB

// API is the upstream surface consumed by the engine and the HTTP layer.
// Implemented by Client for production and by mocks in tests; the
// CircuitBreakerClient wrapper also satisfies it.
type API interface {
	// GetOwnedGames returns the user's library. Transport failures
	// return a non-nil error.
	GetOwnedGames(ctx context.Context, steamID string) ([]models.OwnedGame, error)

	// GetGameDetails returns storefront metadata for one title.
	// (nil, nil) means the title is delisted or region-locked, which is
	// a normal outcome during feed walking.
	GetGameDetails(ctx context.Context, appID int) (*models.Game, error)

	// GetPopularGames returns the global most-played chart in rank order.
	GetPopularGames(ctx context.Context) ([]models.PopularityEntry, error)

	// GetCurrentPlayers returns the live player count for a title.
	GetCurrentPlayers(ctx context.Context, appID int) (int, error)
}

// Config holds Steam client settings. Zero values are filled in by
// NewClient from the defaults below.
type Config struct {
	// APIKey authenticates Web API calls (owned games). Storefront and
	// chart endpoints are unauthenticated.
	APIKey string

	// WebAPIURL and StoreAPIURL override the upstream hosts, mainly for
	// httptest servers.
	WebAPIURL   string
	StoreAPIURL string

	// Per-call timeouts. Library fetches get the longest budget, live
	// player counts the shortest.
	OwnedGamesTimeout time.Duration
	DetailsTimeout    time.Duration
	PopularTimeout    time.Duration
	PlayersTimeout    time.Duration

	// DetailsPerSecond throttles storefront detail calls. 0 disables
	// throttling (tests).
	DetailsPerSecond float64

	// RateLimitBackoff is how long to wait after an HTTP 429 before the
	// single retry.
	RateLimitBackoff time.Duration

	// Cache TTLs.
	UserGamesTTL   time.Duration
	GameDetailsTTL time.Duration
	PopularTTL     time.Duration
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		WebAPIURL:         "https://api.steampowered.com",
		StoreAPIURL:       "https://store.steampowered.com/api",
		OwnedGamesTimeout: 10 * time.Second,
		DetailsTimeout:    15 * time.Second,
		PopularTimeout:    10 * time.Second,
		PlayersTimeout:    5 * time.Second,
		DetailsPerSecond:  2,
		RateLimitBackoff:  5 * time.Second,
		UserGamesTTL:      24 * time.Hour,
		GameDetailsTTL:    time.Hour,
		PopularTTL:        2 * time.Hour,
	}
}

// Client talks to the Steam Web API and storefront. Safe for concurrent
// use; the cache gateway is the only shared mutable state.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	cache   cachestore.Store
	logger  zerolog.Logger
}

// NewClient creates a Steam client backed by the given cache store.
func NewClient(cfg Config, cache cachestore.Store) *Client {
	defaults := DefaultConfig()
	if cfg.WebAPIURL == "" {
		cfg.WebAPIURL = defaults.WebAPIURL
	}
	if cfg.StoreAPIURL == "" {
		cfg.StoreAPIURL = defaults.StoreAPIURL
	}
	if cfg.OwnedGamesTimeout <= 0 {
		cfg.OwnedGamesTimeout = defaults.OwnedGamesTimeout
	}
	if cfg.DetailsTimeout <= 0 {
		cfg.DetailsTimeout = defaults.DetailsTimeout
	}
	if cfg.PopularTimeout <= 0 {
		cfg.PopularTimeout = defaults.PopularTimeout
	}
	if cfg.PlayersTimeout <= 0 {
		cfg.PlayersTimeout = defaults.PlayersTimeout
	}
	if cfg.RateLimitBackoff <= 0 {
		cfg.RateLimitBackoff = defaults.RateLimitBackoff
	}
	if cfg.UserGamesTTL <= 0 {
		cfg.UserGamesTTL = defaults.UserGamesTTL
	}
	if cfg.GameDetailsTTL <= 0 {
		cfg.GameDetailsTTL = defaults.GameDetailsTTL
	}
	if cfg.PopularTTL <= 0 {
		cfg.PopularTTL = defaults.PopularTTL
	}

	var limiter *rate.Limiter
	if cfg.DetailsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.DetailsPerSecond), 1)
	}

	return &Client{
		cfg:     cfg,
		http:    &http.Client{},
		limiter: limiter,
		cache:   cache,
		logger:  logging.With().Str("component", "steam").Logger(),
	}
}

// getJSON performs a GET with the given timeout and decodes the body into
// result. An HTTP 429 returns errRateLimited so callers can apply their
// backoff policy.
func (c *Client) getJSON(ctx context.Context, endpoint, reqURL string, timeout time.Duration, result interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create %s request: %w", endpoint, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.SteamRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("%s request failed: %w", endpoint, err)
	}
	defer resp.Body.Close()
	metrics.SteamRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	if resp.StatusCode == http.StatusTooManyRequests {
		metrics.SteamRequestsTotal.WithLabelValues(endpoint, "rate_limited").Inc()
		return errRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		metrics.SteamRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		body := readBodyForError(resp.Body)
		return fmt.Errorf("%s request failed with status %d: %s", endpoint, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		metrics.SteamRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}

	metrics.SteamRequestsTotal.WithLabelValues(endpoint, "success").Inc()
	return nil
}

// errRateLimited signals an explicit HTTP 429 from upstream.
var errRateLimited = fmt.Errorf("rate limited (HTTP 429)")

// readBodyForError reads up to maxErrorBodySize of a response body for
// error reporting.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// cacheGet decodes a cached JSON entry into out, reporting a hit.
func (c *Client) cacheGet(ctx context.Context, key string, out interface{}) bool {
	raw, ok := c.cache.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("undecodable cache entry, refetching")
		return false
	}
	return true
}

// cacheSet serializes value and stores it best-effort.
func (c *Client) cacheSet(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache serialization failed")
		return
	}
	c.cache.Set(ctx, key, raw, ttl)
}

// Verify interface implementation at compile time
var _ API = (*Client)(nil)
