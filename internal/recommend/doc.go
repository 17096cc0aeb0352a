// Steamscope - Steam Library Recommendation Service
// Copyright 2026 Steamscope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/steamscope/steamscope

// Package recommend implements the recommendation aggregation pipeline.
//
// The engine fetches a user's library and the global most-played chart
// concurrently, derives a preference set from the user's top-played
// titles, filters the chart against it, and ranks the survivors by
// storefront recommendation count and release year.
//
// The two-stage reduction (25 most recently played, then top 10 by
// playtime) bounds taste-profile detail fetches to 10 regardless of
// library size; the acceptance walk is capped at 25 detail fetches
// regardless of feed length. Category-or-genre matching favors recall
// over precision.
//
// Upstream degradation never escapes the engine: the worst outcome is an
// empty recommendation list with metrics reflecting zero counts. The only
// error Recommend returns is context cancellation.
//
// The Recorder persists one RunMetrics record per invocation under
// metrics:{user_id}:{unix_seconds} and enumerates them by prefix, newest
// first.
package recommend
