// Steamscope - Steam Library Recommendation Service
// Copyright 2026 Steamscope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/steamscope/steamscope

// Package main is the entry point for the Steamscope server.
//
// Steamscope aggregates a Steam user's library with the global
// most-played chart to produce personalized game recommendations. The
// server initializes components in the following order:
//
//  1. Configuration: layered Koanf v2 sources (defaults, YAML, env)
//  2. Logging: zerolog, JSON or console format
//  3. Cache: BadgerDB with per-key TTLs (in-memory mode for development)
//  4. Steam client: Web API + storefront, rate limited, circuit breaker
//  5. Recommendation engine and run metrics recorder
//  6. HTTP server: chi REST API with Prometheus metrics
//
// Configuration is environment-first, e.g.:
//
//	export STEAMSCOPE_STEAM_API_KEY=your-web-api-key
//	export STEAMSCOPE_CACHE_PATH=/data/steamscope
//	./steamscope
//
// The server shuts down gracefully on SIGINT and SIGTERM, waiting for
// in-flight requests before closing the cache.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/steamscope/steamscope/internal/api"
	"github.com/steamscope/steamscope/internal/cachestore"
	"github.com/steamscope/steamscope/internal/config"
	"github.com/steamscope/steamscope/internal/logging"
	"github.com/steamscope/steamscope/internal/recommend"
	"github.com/steamscope/steamscope/internal/steam"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Timestamp: true,
	})
	logging.Info().Str("version", version).Msg("Starting Steamscope")

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Server failed")
	}
	logging.Info().Msg("Server stopped gracefully")
}

func run(cfg *config.Config) error {
	// Cache gateway. An empty path with in_memory set runs badger fully
	// in memory, which is what the Docker-less dev loop uses.
	cachePath := cfg.Cache.Path
	if cfg.Cache.InMemory {
		cachePath = ""
	}
	store, err := cachestore.OpenBadger(cachePath)
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Warn().Err(err).Msg("Cache close failed")
		}
	}()

	// Steam client, optionally wrapped in a circuit breaker.
	var steamClient steam.API = steam.NewClient(steam.Config{
		APIKey:            cfg.Steam.APIKey,
		WebAPIURL:         cfg.Steam.WebAPIURL,
		StoreAPIURL:       cfg.Steam.StoreAPIURL,
		OwnedGamesTimeout: cfg.Steam.OwnedGamesTimeout,
		DetailsTimeout:    cfg.Steam.DetailsTimeout,
		PopularTimeout:    cfg.Steam.PopularTimeout,
		PlayersTimeout:    cfg.Steam.PlayersTimeout,
		DetailsPerSecond:  cfg.Steam.DetailsPerSecond,
		RateLimitBackoff:  cfg.Steam.RateLimitBackoff,
		UserGamesTTL:      cfg.Steam.UserGamesTTL,
		GameDetailsTTL:    cfg.Steam.GameDetailsTTL,
		PopularTTL:        cfg.Steam.PopularTTL,
	}, store)
	if cfg.Steam.CircuitBreaker {
		steamClient = steam.NewCircuitBreakerClient(steamClient)
	}
	if cfg.Steam.APIKey == "" {
		logging.Warn().Msg("No Steam API key configured; library fetches will fail")
	}

	engine, err := recommend.NewEngine(recommend.Config{
		RecentlyPlayedLimit: cfg.Engine.RecentlyPlayedLimit,
		TopPlayedLimit:      cfg.Engine.TopPlayedLimit,
		MaxDetailFetches:    cfg.Engine.MaxDetailFetches,
		MaxResults:          cfg.Engine.MaxResults,
	}, steamClient, steamClient)
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}

	recorder := recommend.NewRecorder(store, cfg.Cache.MetricsTTL)
	handler := api.NewHandler(steamClient, engine, recorder, cfg.Server.PublicURL, version)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(cfg, handler),
		ReadTimeout:  cfg.Server.RequestTimeout,
		WriteTimeout: cfg.Server.RequestTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
