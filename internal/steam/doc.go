// Steamscope - Steam Library Recommendation Service
// Copyright 2026 Steamscope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/steamscope/steamscope

// Package steam implements the upstream catalog and popularity clients.
//
// Two HTTP surfaces are involved: the Steam Web API
// (api.steampowered.com) for owned games, the most-played chart, and live
// player counts, and the storefront API (store.steampowered.com/api) for
// per-title metadata. Every fetch is cache-first through the shared
// cachestore gateway; cache keys and TTLs:
//
//	user_games:{steam_id}   24h
//	game_details:{app_id}   1h
//	popular_games           2h
//
// Error contract: transport failures and non-success statuses return a
// non-nil error; a delisted or region-locked title is semantic absence and
// returns (nil, nil) from GetGameDetails. Callers collapse both to empty
// results at their own boundary.
//
// Storefront calls are throttled by an explicit token-bucket limiter
// (golang.org/x/time/rate) rather than fixed sleeps, so tests can disable
// the delay. An HTTP 429 triggers one backoff-and-retry before the call
// degrades to a transport error.
package steam
