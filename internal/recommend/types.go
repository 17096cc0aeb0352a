// Steamscope - Steam Library Recommendation Service
// Copyright 2026 Steamscope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/steamscope/steamscope

package recommend

import (
	"context"
	"fmt"

	"github.com/steamscope/steamscope/internal/models"
)

// CatalogProvider supplies per-user libraries and per-title metadata.
// Implemented by the steam client; substitutable with fakes in tests.
type CatalogProvider interface {
	GetOwnedGames(ctx context.Context, steamID string) ([]models.OwnedGame, error)

	// GetGameDetails returns (nil, nil) for titles with no storefront
	// data; the engine skips those.
	GetGameDetails(ctx context.Context, appID int) (*models.Game, error)
}

// PopularityProvider supplies the global most-played chart.
type PopularityProvider interface {
	GetPopularGames(ctx context.Context) ([]models.PopularityEntry, error)
}

// Result pairs a ranked recommendation list with its run metrics.
type Result struct {
	Games   []models.Game     `json:"games"`
	Metrics models.RunMetrics `json:"metrics"`
}

// Config holds the engine's ranking parameters. The defaults encode the
// documented pipeline shape; tests shrink them to probe edge behavior.
type Config struct {
	// RecentlyPlayedLimit is the size of the recency cut (step one of
	// the two-stage reduction).
	RecentlyPlayedLimit int

	// TopPlayedLimit is how many taste-defining titles survive the
	// playtime cut. Bounds taste-profile detail fetches.
	TopPlayedLimit int

	// MaxDetailFetches caps per-title detail calls during the
	// acceptance walk, independent of feed length.
	MaxDetailFetches int

	// MaxResults is the maximum length of the returned ranking.
	MaxResults int
}

// DefaultConfig returns the production ranking parameters.
func DefaultConfig() Config {
	return Config{
		RecentlyPlayedLimit: 25,
		TopPlayedLimit:      10,
		MaxDetailFetches:    25,
		MaxResults:          30,
	}
}

// Validate rejects configurations the pipeline cannot run with.
func (c Config) Validate() error {
	if c.RecentlyPlayedLimit <= 0 {
		return fmt.Errorf("recently played limit must be positive, got %d", c.RecentlyPlayedLimit)
	}
	if c.TopPlayedLimit <= 0 {
		return fmt.Errorf("top played limit must be positive, got %d", c.TopPlayedLimit)
	}
	if c.TopPlayedLimit > c.RecentlyPlayedLimit {
		return fmt.Errorf("top played limit %d exceeds recently played limit %d", c.TopPlayedLimit, c.RecentlyPlayedLimit)
	}
	if c.MaxDetailFetches <= 0 {
		return fmt.Errorf("max detail fetches must be positive, got %d", c.MaxDetailFetches)
	}
	if c.MaxResults <= 0 {
		return fmt.Errorf("max results must be positive, got %d", c.MaxResults)
	}
	return nil
}
