// Steamscope - Steam Library Recommendation Service
// Copyright 2026 Steamscope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/steamscope/steamscope

package steam

import (
	"reflect"
	"testing"
)

func TestParseReleaseYear(t *testing.T) {
	tests := []struct {
		name string
		date string
		want *int
	}{
		{"full date", "9 Jul, 2013", intPtr(2013)},
		{"year only", "2013", intPtr(2013)},
		{"extra comma", "Coming, 9 Jul, 2021", intPtr(2021)},
		{"padded", "9 Jul,  2013 ", intPtr(2013)},
		{"empty", "", nil},
		{"tba", "Coming soon", nil},
		{"non-numeric tail", "9 Jul, soon", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseReleaseYear(tt.date)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("parseReleaseYear(%q) = %d, want nil", tt.date, *got)
			case tt.want != nil && got == nil:
				t.Errorf("parseReleaseYear(%q) = nil, want %d", tt.date, *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Errorf("parseReleaseYear(%q) = %d, want %d", tt.date, *got, *tt.want)
			}
		})
	}
}

func TestFilterCategories(t *testing.T) {
	in := []string{"Single-player", "Steam Achievements", "Co-op", "Steam Cloud", "PvP"}
	want := []string{"Single-player", "Co-op", "PvP"}

	got := FilterCategories(in)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FilterCategories(%v) = %v, want %v", in, got, want)
	}
}

func TestFilterGenresIdempotent(t *testing.T) {
	in := []string{"RPG", "Photo Editing", "Roguelike", "Accounting"}

	once := FilterGenres(in)
	twice := FilterGenres(once)

	if !reflect.DeepEqual(once, []string{"RPG", "Roguelike"}) {
		t.Errorf("first pass = %v", once)
	}
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("filtering is not idempotent: %v != %v", once, twice)
	}
}

func TestFilterPreservesOrder(t *testing.T) {
	in := []string{"Strategy", "Action", "Indie"}
	got := FilterGenres(in)
	if !reflect.DeepEqual(got, in) {
		t.Errorf("order not preserved: %v", got)
	}
}

func TestGameFromDetailsDefaults(t *testing.T) {
	d := &appDetailsData{}
	g := gameFromDetails(570, d)

	if g.Name != "Game 570" {
		t.Errorf("missing name should synthesize placeholder, got %q", g.Name)
	}
	if g.Recommendations != 0 {
		t.Errorf("missing recommendations should default to 0, got %d", g.Recommendations)
	}
	if g.ReleaseYear != nil {
		t.Errorf("missing release date should leave year unset, got %d", *g.ReleaseYear)
	}
	if len(g.Categories) != 0 || len(g.Genres) != 0 {
		t.Errorf("expected empty label sets, got %v / %v", g.Categories, g.Genres)
	}
}

func TestRecommendationTotalMalformed(t *testing.T) {
	d := &appDetailsData{}
	d.Recommendations.Total = "not-a-number"
	if got := d.recommendationTotal(); got != 0 {
		t.Errorf("malformed total should default to 0, got %d", got)
	}

	d.Recommendations.Total = "-5"
	if got := d.recommendationTotal(); got != 0 {
		t.Errorf("negative total should default to 0, got %d", got)
	}

	d.Recommendations.Total = "12345"
	if got := d.recommendationTotal(); got != 12345 {
		t.Errorf("total = %d, want 12345", got)
	}
}

func intPtr(v int) *int { return &v }
