// Steamscope - Steam Library Recommendation Service
// Copyright 2026 Steamscope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/steamscope/steamscope

// Package config loads Steamscope configuration with layered sources:
// built-in defaults, an optional YAML file, then environment variables.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Steam     SteamConfig     `koanf:"steam"`
	Cache     CacheConfig     `koanf:"cache"`
	Engine    EngineConfig    `koanf:"engine"`
	Logging   LoggingConfig   `koanf:"logging"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	RequestTimeout  time.Duration `koanf:"request_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`

	// PublicURL is the externally visible base URL, used to build the
	// Steam OpenID return address.
	PublicURL string `koanf:"public_url"`
}

// SteamConfig holds upstream Steam API settings.
type SteamConfig struct {
	APIKey      string `koanf:"api_key"`
	WebAPIURL   string `koanf:"web_api_url"`
	StoreAPIURL string `koanf:"store_api_url"`

	OwnedGamesTimeout time.Duration `koanf:"owned_games_timeout"`
	DetailsTimeout    time.Duration `koanf:"details_timeout"`
	PopularTimeout    time.Duration `koanf:"popular_timeout"`
	PlayersTimeout    time.Duration `koanf:"players_timeout"`

	// DetailsPerSecond throttles storefront detail calls; 0 disables.
	DetailsPerSecond float64       `koanf:"details_per_second"`
	RateLimitBackoff time.Duration `koanf:"rate_limit_backoff"`

	// CircuitBreaker enables the upstream breaker wrapper.
	CircuitBreaker bool `koanf:"circuit_breaker"`

	UserGamesTTL   time.Duration `koanf:"user_games_ttl"`
	GameDetailsTTL time.Duration `koanf:"game_details_ttl"`
	PopularTTL     time.Duration `koanf:"popular_ttl"`
}

// CacheConfig holds cache gateway settings.
type CacheConfig struct {
	// Path is the badger directory. Ignored when InMemory is set.
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`

	// MetricsTTL is how long run metrics records are retained.
	MetricsTTL time.Duration `koanf:"metrics_ttl"`
}

// EngineConfig holds the recommendation pipeline parameters.
type EngineConfig struct {
	RecentlyPlayedLimit int `koanf:"recently_played_limit"`
	TopPlayedLimit      int `koanf:"top_played_limit"`
	MaxDetailFetches    int `koanf:"max_detail_fetches"`
	MaxResults          int `koanf:"max_results"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// RateLimitConfig holds inbound HTTP rate limiting settings.
type RateLimitConfig struct {
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
}

// defaultConfig returns a Config with all default values. These are
// applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			RequestTimeout:  60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
			PublicURL:       "http://localhost:8080",
		},
		Steam: SteamConfig{
			APIKey:            "",
			WebAPIURL:         "https://api.steampowered.com",
			StoreAPIURL:       "https://store.steampowered.com/api",
			OwnedGamesTimeout: 10 * time.Second,
			DetailsTimeout:    15 * time.Second,
			PopularTimeout:    10 * time.Second,
			PlayersTimeout:    5 * time.Second,
			DetailsPerSecond:  2,
			RateLimitBackoff:  5 * time.Second,
			CircuitBreaker:    true,
			UserGamesTTL:      24 * time.Hour,
			GameDetailsTTL:    time.Hour,
			PopularTTL:        2 * time.Hour,
		},
		Cache: CacheConfig{
			Path:       "/data/steamscope",
			InMemory:   false,
			MetricsTTL: 7 * 24 * time.Hour,
		},
		Engine: EngineConfig{
			RecentlyPlayedLimit: 25,
			TopPlayedLimit:      10,
			MaxDetailFetches:    25,
			MaxResults:          30,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		RateLimit: RateLimitConfig{
			Requests: 100,
			Window:   time.Minute,
		},
	}
}

// Validate checks the configuration for values the service cannot run
// with. An empty Steam API key is allowed (the popularity and storefront
// endpoints are unauthenticated) but makes library fetches fail.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	if !c.Cache.InMemory && c.Cache.Path == "" {
		return fmt.Errorf("cache path is required unless in_memory is set")
	}
	if c.Cache.MetricsTTL < 0 {
		return fmt.Errorf("metrics TTL must not be negative")
	}
	if c.Steam.UserGamesTTL < 0 || c.Steam.GameDetailsTTL < 0 || c.Steam.PopularTTL < 0 {
		return fmt.Errorf("cache TTLs must not be negative")
	}
	if c.Steam.DetailsPerSecond < 0 {
		return fmt.Errorf("details rate must not be negative")
	}
	if c.Engine.RecentlyPlayedLimit <= 0 || c.Engine.TopPlayedLimit <= 0 ||
		c.Engine.MaxDetailFetches <= 0 || c.Engine.MaxResults <= 0 {
		return fmt.Errorf("engine limits must be positive")
	}
	if c.Engine.TopPlayedLimit > c.Engine.RecentlyPlayedLimit {
		return fmt.Errorf("engine top played limit %d exceeds recently played limit %d",
			c.Engine.TopPlayedLimit, c.Engine.RecentlyPlayedLimit)
	}
	if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate limit requests and window must be positive")
	}
	return nil
}
