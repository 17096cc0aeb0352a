// Steamscope - Steam Library Recommendation Service
// Copyright 2026 Steamscope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/steamscope/steamscope

// Package models defines the domain types shared between the Steam clients,
// the recommendation engine, and the HTTP transport layer.
package models

import "fmt"

// Game is a catalog entry from the Steam storefront.
//
// Categories and Genres only ever contain allow-listed labels (see
// internal/steam allow-lists); anything outside the vocabulary is dropped
// at decode time and never stored. A Game is immutable once constructed
// and is cached as JSON keyed by its AppID.
type Game struct {
	AppID           int      `json:"steam_appid"`
	Name            string   `json:"name"`
	Categories      []string `json:"categories"`
	Genres          []string `json:"genres"`
	Recommendations int      `json:"recommendations"`

	// ReleaseYear is nil when the storefront release date could not be
	// parsed. Ranking treats unknown as 0.
	ReleaseYear *int `json:"release_year,omitempty"`
}

// String implements fmt.Stringer for log output.
func (g *Game) String() string {
	return fmt.Sprintf("%s (ID: %d)", g.Name, g.AppID)
}

// ReleaseYearOrZero returns the release year, or 0 when unknown.
func (g *Game) ReleaseYearOrZero() int {
	if g.ReleaseYear == nil {
		return 0
	}
	return *g.ReleaseYear
}

// OwnedGame is a single (user, game) ownership fact from the Steam Web API.
// The Name is whatever the ownership endpoint reports and may differ from
// the canonical storefront name.
type OwnedGame struct {
	AppID int    `json:"appid"`
	Name  string `json:"name"`

	// PlaytimeForever is cumulative playtime in minutes.
	PlaytimeForever int `json:"playtime_forever"`

	// LastPlayed is the last-played timestamp in epoch seconds, 0 if the
	// game was never launched.
	LastPlayed int64 `json:"rtime_last_played"`
}

// PopularityEntry is one row of the global most-played chart.
type PopularityEntry struct {
	Rank       int `json:"rank"`
	AppID      int `json:"appid"`
	PeakInGame int `json:"peak_in_game"`
}
