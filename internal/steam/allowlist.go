// Steamscope - Steam Library Recommendation Service
// Copyright 2026 Steamscope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/steamscope/steamscope

package steam

// categoryAllowList holds the exact storefront category names we keep.
// Anything outside the list is dropped on ingest, never stored.
var categoryAllowList = map[string]struct{}{
	"Single-player":              {},
	"Multi-player":               {},
	"Co-op":                      {},
	"Online Co-op":               {},
	"Local Co-op":                {},
	"Online Multi-Player":        {},
	"Local Multi-Player":         {},
	"Cross-Platform Multiplayer": {},
	"MMO":                        {},
	"PvP":                        {},
	"PvE":                        {},
	"Shared/Split Screen":        {},
}

// genreAllowList holds the exact storefront genre names we keep.
var genreAllowList = map[string]struct{}{
	"Action":                {},
	"Adventure":             {},
	"Casual":                {},
	"Indie":                 {},
	"Massively Multiplayer": {},
	"Racing":                {},
	"RPG":                   {},
	"Simulation":            {},
	"Sports":                {},
	"Strategy":              {},
	"Free to Play":          {},
	"Early Access":          {},
	"Gore":                  {},
	"Violent":               {},
	"Nudity":                {},
	"Sexual Content":        {},
	"Anime":                 {},
	"Story Rich":            {},
	"Atmospheric":           {},
	"Great Soundtrack":      {},
	"Pixel Graphics":        {},
	"Classic":               {},
	"Retro":                 {},
	"2D":                    {},
	"3D":                    {},
	"First-Person":          {},
	"Third Person":          {},
	"Isometric":             {},
	"Top-Down":              {},
	"Side Scroller":         {},
	"Survival":              {},
	"Horror":                {},
	"Sci-fi":                {},
	"Fantasy":               {},
	"Zombies":               {},
	"Open World":            {},
	"Sandbox":               {},
	"Space":                 {},
	"Stealth":               {},
	"Hack and Slash":        {},
	"Shooter":               {},
	"Fighting":              {},
	"Platformer":            {},
	"Puzzle":                {},
	"Rhythm":                {},
	"Tower Defense":         {},
	"Turn-Based":            {},
	"Real-Time":             {},
	"Tactical":              {},
	"Visual Novel":          {},
	"Card Game":             {},
	"Board Game":            {},
	"MOBA":                  {},
	"Battle Royale":         {},
	"Military":              {},
	"Historical":            {},
	"Comedy":                {},
	"Cyberpunk":             {},
	"Post-apocalyptic":      {},
	"Dystopian":             {},
	"Mystery":               {},
	"Detective":             {},
	"Thriller":              {},
	"Western":               {},
	"Roguelike":             {},
}

// filterAllowed keeps labels present in allowed, preserving input order.
// Filtering is idempotent: filtering an already-filtered slice is a no-op.
func filterAllowed(labels []string, allowed map[string]struct{}) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if _, ok := allowed[l]; ok {
			out = append(out, l)
		}
	}
	return out
}

// FilterCategories drops category labels outside the allow-list.
func FilterCategories(labels []string) []string {
	return filterAllowed(labels, categoryAllowList)
}

// FilterGenres drops genre labels outside the allow-list.
func FilterGenres(labels []string) []string {
	return filterAllowed(labels, genreAllowList)
}
