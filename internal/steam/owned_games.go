// Steamscope - Steam Library Recommendation Service
// Copyright 2026 Steamscope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/steamscope/steamscope

package steam

import (
	"context"
	"fmt"
	"net/url"

	"github.com/steamscope/steamscope/internal/models"
)

// userGamesKeyPrefix is the cache namespace for per-user libraries.
const userGamesKeyPrefix = "user_games:"

// GetOwnedGames fetches the user's owned-game list, cache-first under
// user_games:{steam_id} with a 24h TTL. The upstream call requests full
// app info and played free games. The raw list is cached as returned;
// callers apply their own filtering.
func (c *Client) GetOwnedGames(ctx context.Context, steamID string) ([]models.OwnedGame, error) {
	key := userGamesKeyPrefix + steamID

	var cached []models.OwnedGame
	if c.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	params := url.Values{}
	params.Set("key", c.cfg.APIKey)
	params.Set("steamid", steamID)
	params.Set("include_appinfo", "1")
	params.Set("include_played_free_games", "1")

	reqURL := fmt.Sprintf("%s/IPlayerService/GetOwnedGames/v1/?%s", c.cfg.WebAPIURL, params.Encode())

	var payload ownedGamesResponse
	if err := c.getJSON(ctx, "owned_games", reqURL, c.cfg.OwnedGamesTimeout, &payload); err != nil {
		c.logger.Error().Err(err).Str("steam_id", steamID).Msg("owned games fetch failed")
		return nil, err
	}

	games := payload.Response.Games
	if games == nil {
		games = []models.OwnedGame{}
	}

	c.cacheSet(ctx, key, games, c.cfg.UserGamesTTL)
	return games, nil
}
