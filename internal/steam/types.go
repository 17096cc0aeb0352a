// Steamscope - Steam Library Recommendation Service
// Copyright 2026 Steamscope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/steamscope/steamscope

package steam

import (
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/steamscope/steamscope/internal/models"
)

// Wire types for Steam Web API and storefront payloads. These decode
// defensively: every field is optional and missing values fall back to
// zero values, so schema drift degrades to defaults instead of failing
// the whole fetch.

// ownedGamesResponse wraps IPlayerService/GetOwnedGames.
type ownedGamesResponse struct {
	Response struct {
		GameCount int                `json:"game_count"`
		Games     []models.OwnedGame `json:"games"`
	} `json:"response"`
}

// mostPlayedResponse wraps ISteamChartsService/GetMostPlayedGames.
type mostPlayedResponse struct {
	Response struct {
		Ranks []models.PopularityEntry `json:"ranks"`
	} `json:"response"`
}

// playerCountResponse wraps ISteamUserStats/GetNumberOfCurrentPlayers.
type playerCountResponse struct {
	Response struct {
		PlayerCount int `json:"player_count"`
		Result      int `json:"result"`
	} `json:"response"`
}

// appDetailsEnvelope is the per-appid wrapper of the storefront
// appdetails payload: {"570": {"success": true, "data": {...}}}.
type appDetailsEnvelope struct {
	Success bool            `json:"success"`
	Data    *appDetailsData `json:"data"`
}

// labeledValue is the {id, description} shape shared by storefront
// category and genre lists.
type labeledValue struct {
	Description string `json:"description"`
}

// appDetailsData is the storefront metadata we consume.
type appDetailsData struct {
	Name       string         `json:"name"`
	Categories []labeledValue `json:"categories"`
	Genres     []labeledValue `json:"genres"`

	ReleaseDate struct {
		Date string `json:"date"`
	} `json:"release_date"`

	Recommendations struct {
		// Total is decoded as json.Number so a malformed upstream value
		// degrades to 0 instead of failing the decode.
		Total json.Number `json:"total"`
	} `json:"recommendations"`
}

// descriptions extracts the description labels from a storefront list.
func descriptions(values []labeledValue) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v.Description != "" {
			out = append(out, v.Description)
		}
	}
	return out
}

// recommendationTotal parses the recommendation count, defaulting to 0.
func (d *appDetailsData) recommendationTotal() int {
	n, err := d.Recommendations.Total.Int64()
	if err != nil || n < 0 {
		return 0
	}
	return int(n)
}

// parseReleaseYear extracts the year from a free-text storefront release
// date such as "9 Jul, 2013" or "2013". The trailing comma-separated
// token is parsed as an integer; anything unparsable leaves the year
// unknown.
func parseReleaseYear(date string) *int {
	if date == "" {
		return nil
	}
	parts := strings.Split(date, ",")
	token := strings.TrimSpace(parts[len(parts)-1])

	year, err := strconv.Atoi(token)
	if err != nil {
		return nil
	}
	return &year
}

// gameFromDetails builds the domain Game from a decoded storefront
// payload, applying the allow-lists and field defaults.
func gameFromDetails(appID int, d *appDetailsData) *models.Game {
	name := d.Name
	if name == "" {
		name = "Game " + strconv.Itoa(appID)
	}

	return &models.Game{
		AppID:           appID,
		Name:            name,
		Categories:      FilterCategories(descriptions(d.Categories)),
		Genres:          FilterGenres(descriptions(d.Genres)),
		Recommendations: d.recommendationTotal(),
		ReleaseYear:     parseReleaseYear(d.ReleaseDate.Date),
	}
}
