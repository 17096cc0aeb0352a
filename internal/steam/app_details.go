// Steamscope - Steam Library Recommendation Service
// Copyright 2026 Steamscope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/steamscope/steamscope

package steam

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/steamscope/steamscope/internal/metrics"
	"github.com/steamscope/steamscope/internal/models"
)

// gameDetailsKeyPrefix is the cache namespace for per-title metadata.
const gameDetailsKeyPrefix = "game_details:"

// GetGameDetails fetches storefront metadata for one title, cache-first
// under game_details:{app_id} with a 1h TTL.
//
// Returns (nil, nil) when the storefront marks the request unsuccessful or
// returns no data — many identifiers are delisted or region-locked and
// this is a routine outcome, not an error.
//
// Storefront calls pass through the client's token-bucket limiter. On an
// explicit HTTP 429 the client waits the configured backoff and retries
// exactly once; a second 429 degrades to a transport error.
func (c *Client) GetGameDetails(ctx context.Context, appID int) (*models.Game, error) {
	key := gameDetailsKeyPrefix + strconv.Itoa(appID)

	var cached models.Game
	if c.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	reqURL := fmt.Sprintf("%s/appdetails?appids=%d", c.cfg.StoreAPIURL, appID)

	payload := map[string]appDetailsEnvelope{}
	err := c.getJSON(ctx, "appdetails", reqURL, c.cfg.DetailsTimeout, &payload)
	if errors.Is(err, errRateLimited) {
		c.logger.Warn().Int("appid", appID).Dur("backoff", c.cfg.RateLimitBackoff).Msg("storefront rate limit, backing off")
		select {
		case <-time.After(c.cfg.RateLimitBackoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		payload = map[string]appDetailsEnvelope{}
		err = c.getJSON(ctx, "appdetails", reqURL, c.cfg.DetailsTimeout, &payload)
	}
	if err != nil {
		c.logger.Error().Err(err).Int("appid", appID).Msg("appdetails fetch failed")
		return nil, err
	}

	envelope, ok := payload[strconv.Itoa(appID)]
	if !ok || !envelope.Success || envelope.Data == nil {
		metrics.SteamRequestsTotal.WithLabelValues("appdetails", "not_found").Inc()
		c.logger.Debug().Int("appid", appID).Msg("no storefront data for title")
		return nil, nil
	}

	game := gameFromDetails(appID, envelope.Data)
	c.cacheSet(ctx, key, game, c.cfg.GameDetailsTTL)
	return game, nil
}
