// Steamscope - Steam Library Recommendation Service
// Copyright 2026 Steamscope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/steamscope/steamscope

package steam

import (
	"context"
	"fmt"

	"github.com/steamscope/steamscope/internal/models"
)

// popularGamesKey is the single cache key for the global chart; there is
// no per-user variation.
const popularGamesKey = "popular_games"

// GetPopularGames fetches the global most-played chart in rank order,
// cache-first under popular_games with a 2h TTL. On failure the caller
// decides what "no popularity signal" means; no fallback list is baked in
// at this layer.
func (c *Client) GetPopularGames(ctx context.Context) ([]models.PopularityEntry, error) {
	var cached []models.PopularityEntry
	if c.cacheGet(ctx, popularGamesKey, &cached) {
		return cached, nil
	}

	reqURL := fmt.Sprintf("%s/ISteamChartsService/GetMostPlayedGames/v1/", c.cfg.WebAPIURL)

	var payload mostPlayedResponse
	if err := c.getJSON(ctx, "most_played", reqURL, c.cfg.PopularTimeout, &payload); err != nil {
		c.logger.Error().Err(err).Msg("most-played chart fetch failed")
		return nil, err
	}

	ranks := payload.Response.Ranks
	if ranks == nil {
		ranks = []models.PopularityEntry{}
	}

	c.cacheSet(ctx, popularGamesKey, ranks, c.cfg.PopularTTL)
	return ranks, nil
}

// GetCurrentPlayers returns the live player count for a title. Not cached:
// the value is only meaningful live, and the ranking core does not use it.
func (c *Client) GetCurrentPlayers(ctx context.Context, appID int) (int, error) {
	reqURL := fmt.Sprintf("%s/ISteamUserStats/GetNumberOfCurrentPlayers/v1/?appid=%d", c.cfg.WebAPIURL, appID)

	var payload playerCountResponse
	if err := c.getJSON(ctx, "player_count", reqURL, c.cfg.PlayersTimeout, &payload); err != nil {
		c.logger.Error().Err(err).Int("appid", appID).Msg("player count fetch failed")
		return 0, err
	}

	return payload.Response.PlayerCount, nil
}
