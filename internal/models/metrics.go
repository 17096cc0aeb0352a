// Steamscope - Steam Library Recommendation Service
// Copyright 2026 Steamscope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/steamscope/steamscope

package models

import "time"

// RunMetrics captures one execution of the recommendation engine.
//
// Records are immutable: they are written once under
// metrics:{user_id}:{unix_seconds} and later enumerated by prefix, never
// updated in place.
type RunMetrics struct {
	RunID  string `json:"run_id"`
	UserID string `json:"user_id"`

	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`

	// InputGamesCount is the size of the raw owned-games list;
	// FilteredGamesCount is what survived the zero-playtime filter.
	InputGamesCount    int `json:"input_games_count"`
	FilteredGamesCount int `json:"filtered_games_count"`

	// Labels discovered from the user's top-played games. Categories and
	// genres are pooled for matching but reported separately here.
	CategoriesUsed []string `json:"categories_used"`
	GenresUsed     []string `json:"genres_used"`

	// CandidatesConsidered is the popularity feed length for this run,
	// not the number of accepted candidates.
	CandidatesConsidered int `json:"candidates_considered"`
	RecommendedCount     int `json:"recommended_count"`
}
