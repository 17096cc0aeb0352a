// Steamscope - Steam Library Recommendation Service
// Copyright 2026 Steamscope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/steamscope/steamscope

package recommend

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/steamscope/steamscope/internal/models"
)

// mockCatalog implements CatalogProvider for testing.
type mockCatalog struct {
	owned        []models.OwnedGame
	ownedErr     error
	details      map[int]*models.Game
	detailsErr   error
	detailsCalls int32
}

func (m *mockCatalog) GetOwnedGames(ctx context.Context, steamID string) ([]models.OwnedGame, error) {
	if m.ownedErr != nil {
		return nil, m.ownedErr
	}
	return m.owned, nil
}

func (m *mockCatalog) GetGameDetails(ctx context.Context, appID int) (*models.Game, error) {
	atomic.AddInt32(&m.detailsCalls, 1)
	if m.detailsErr != nil {
		return nil, m.detailsErr
	}
	return m.details[appID], nil
}

// mockPopularity implements PopularityProvider for testing.
type mockPopularity struct {
	entries []models.PopularityEntry
	err     error
	calls   int32
}

func (m *mockPopularity) GetPopularGames(ctx context.Context) ([]models.PopularityEntry, error) {
	atomic.AddInt32(&m.calls, 1)
	if m.err != nil {
		return nil, m.err
	}
	return m.entries, nil
}

func newTestEngine(t *testing.T, catalog *mockCatalog, popularity *mockPopularity) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultConfig(), catalog, popularity)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func game(appID int, name string, categories, genres []string, recommendations int, year *int) *models.Game {
	return &models.Game{
		AppID:           appID,
		Name:            name,
		Categories:      categories,
		Genres:          genres,
		Recommendations: recommendations,
		ReleaseYear:     year,
	}
}

func yearPtr(y int) *int { return &y }

func TestNewEngineValidation(t *testing.T) {
	catalog := &mockCatalog{}
	popularity := &mockPopularity{}

	if _, err := NewEngine(Config{}, catalog, popularity); err == nil {
		t.Error("zero config must be rejected")
	}
	if _, err := NewEngine(DefaultConfig(), nil, popularity); err == nil {
		t.Error("nil catalog must be rejected")
	}
	if _, err := NewEngine(DefaultConfig(), catalog, nil); err == nil {
		t.Error("nil popularity provider must be rejected")
	}

	bad := DefaultConfig()
	bad.TopPlayedLimit = bad.RecentlyPlayedLimit + 1
	if _, err := NewEngine(bad, catalog, popularity); err == nil {
		t.Error("top played > recently played must be rejected")
	}
}

func TestRecommendZeroPlaytimeShortCircuit(t *testing.T) {
	// User owns only title 570 with 0 minutes playtime.
	catalog := &mockCatalog{
		owned: []models.OwnedGame{{AppID: 570, Name: "Dota 2", PlaytimeForever: 0}},
	}
	popularity := &mockPopularity{
		entries: []models.PopularityEntry{{Rank: 1, AppID: 730}},
	}
	e := newTestEngine(t, catalog, popularity)

	result, err := e.Recommend(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if len(result.Games) != 0 {
		t.Errorf("expected empty list, got %d games", len(result.Games))
	}
	if result.Metrics.InputGamesCount != 1 {
		t.Errorf("input_games_count = %d, want 1", result.Metrics.InputGamesCount)
	}
	if result.Metrics.FilteredGamesCount != 0 {
		t.Errorf("filtered_games_count = %d, want 0", result.Metrics.FilteredGamesCount)
	}
	if n := atomic.LoadInt32(&catalog.detailsCalls); n != 0 {
		t.Errorf("short-circuited run issued %d detail calls, want 0", n)
	}
}

func TestRecommendEmptyLibrary(t *testing.T) {
	catalog := &mockCatalog{owned: []models.OwnedGame{}}
	popularity := &mockPopularity{}
	e := newTestEngine(t, catalog, popularity)

	result, err := e.Recommend(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(result.Games) != 0 || result.Metrics.InputGamesCount != 0 {
		t.Errorf("unexpected result for empty library: %+v", result.Metrics)
	}
}

func TestRecommendUpstreamFailuresDegrade(t *testing.T) {
	catalog := &mockCatalog{ownedErr: errors.New("steam down")}
	popularity := &mockPopularity{err: errors.New("charts down")}
	e := newTestEngine(t, catalog, popularity)

	result, err := e.Recommend(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("upstream failure must not surface: %v", err)
	}
	if len(result.Games) != 0 {
		t.Errorf("expected empty list, got %d", len(result.Games))
	}
	if result.Metrics.InputGamesCount != 0 || result.Metrics.CandidatesConsidered != 0 {
		t.Errorf("metrics should reflect zero counts: %+v", result.Metrics)
	}
}

func TestRecommendCategoryMatchScenario(t *testing.T) {
	// Top-played title yields {"Co-op"}; feed has a Co-op title and a
	// Sports title, neither owned. Only the Co-op title survives.
	catalog := &mockCatalog{
		owned: []models.OwnedGame{
			{AppID: 10, Name: "Owned Game", PlaytimeForever: 600, LastPlayed: 1700000000},
		},
		details: map[int]*models.Game{
			10:  game(10, "Owned Game", []string{"Co-op"}, nil, 0, nil),
			100: game(100, "Match", []string{"Co-op"}, nil, 50, nil),
			200: game(200, "No Match", []string{"Sports"}, nil, 90, nil),
		},
	}
	popularity := &mockPopularity{
		entries: []models.PopularityEntry{
			{Rank: 1, AppID: 100},
			{Rank: 2, AppID: 200},
		},
	}
	e := newTestEngine(t, catalog, popularity)

	result, err := e.Recommend(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if len(result.Games) != 1 || result.Games[0].AppID != 100 {
		t.Fatalf("expected exactly title 100, got %+v", result.Games)
	}
	if result.Metrics.CandidatesConsidered != 2 {
		t.Errorf("candidates_considered = %d, want feed length 2", result.Metrics.CandidatesConsidered)
	}
}

func TestRecommendGenreMatchAlsoAccepts(t *testing.T) {
	// Matching is category-OR-genre: a genre-only overlap accepts.
	catalog := &mockCatalog{
		owned: []models.OwnedGame{
			{AppID: 10, PlaytimeForever: 600, LastPlayed: 1700000000},
		},
		details: map[int]*models.Game{
			10:  game(10, "Owned", nil, []string{"RPG"}, 0, nil),
			100: game(100, "Candidate", []string{"Single-player"}, []string{"RPG"}, 10, nil),
		},
	}
	popularity := &mockPopularity{entries: []models.PopularityEntry{{Rank: 1, AppID: 100}}}
	e := newTestEngine(t, catalog, popularity)

	result, err := e.Recommend(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(result.Games) != 1 {
		t.Fatalf("genre overlap should accept, got %+v", result.Games)
	}
}

func TestRecommendNeverReturnsOwnedTitles(t *testing.T) {
	// Owned identifiers come from the unfiltered list: even a 0-minute
	// owned title must never be recommended.
	catalog := &mockCatalog{
		owned: []models.OwnedGame{
			{AppID: 10, PlaytimeForever: 600, LastPlayed: 1700000000},
			{AppID: 20, PlaytimeForever: 0}, // never played, still owned
		},
		details: map[int]*models.Game{
			10: game(10, "Played", []string{"Co-op"}, nil, 0, nil),
			20: game(20, "Unplayed", []string{"Co-op"}, nil, 100, nil),
			30: game(30, "Fresh", []string{"Co-op"}, nil, 40, nil),
		},
	}
	popularity := &mockPopularity{
		entries: []models.PopularityEntry{
			{Rank: 1, AppID: 20},
			{Rank: 2, AppID: 10},
			{Rank: 3, AppID: 30},
		},
	}
	e := newTestEngine(t, catalog, popularity)

	result, err := e.Recommend(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	for _, g := range result.Games {
		if g.AppID == 10 || g.AppID == 20 {
			t.Errorf("owned title %d was recommended", g.AppID)
		}
	}
	if len(result.Games) != 1 || result.Games[0].AppID != 30 {
		t.Errorf("expected only title 30, got %+v", result.Games)
	}
}

func TestRecommendDetailFetchCap(t *testing.T) {
	// The acceptance walk never issues more than MaxDetailFetches detail
	// calls, regardless of feed length.
	details := map[int]*models.Game{10: game(10, "Owned", []string{"Co-op"}, nil, 0, nil)}
	feed := make([]models.PopularityEntry, 500)
	for i := range feed {
		appID := 1000 + i
		feed[i] = models.PopularityEntry{Rank: i + 1, AppID: appID}
		// No detail entry: every candidate resolves to absence, so the
		// walk keeps fetching until the cap, never until acceptance.
	}

	catalog := &mockCatalog{
		owned:   []models.OwnedGame{{AppID: 10, PlaytimeForever: 600, LastPlayed: 1700000000}},
		details: details,
	}
	popularity := &mockPopularity{entries: feed}
	e := newTestEngine(t, catalog, popularity)

	result, err := e.Recommend(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(result.Games) != 0 {
		t.Errorf("expected no acceptances, got %d", len(result.Games))
	}

	// 1 taste-profile fetch + at most 25 walk fetches.
	walkCalls := atomic.LoadInt32(&catalog.detailsCalls) - 1
	if walkCalls > 25 {
		t.Errorf("acceptance walk issued %d detail calls, cap is 25", walkCalls)
	}
	if result.Metrics.CandidatesConsidered != 500 {
		t.Errorf("candidates_considered = %d, want 500", result.Metrics.CandidatesConsidered)
	}
}

func TestRecommendOrdering(t *testing.T) {
	catalog := &mockCatalog{
		owned: []models.OwnedGame{
			{AppID: 10, PlaytimeForever: 600, LastPlayed: 1700000000},
		},
		details: map[int]*models.Game{
			10:  game(10, "Owned", []string{"Co-op"}, nil, 0, nil),
			100: game(100, "Low votes, new", []string{"Co-op"}, nil, 50, yearPtr(2024)),
			200: game(200, "High votes", []string{"Co-op"}, nil, 900, yearPtr(2015)),
			300: game(300, "High votes, newer", []string{"Co-op"}, nil, 900, yearPtr(2022)),
			400: game(400, "High votes, unknown year", []string{"Co-op"}, nil, 900, nil),
		},
	}
	popularity := &mockPopularity{
		entries: []models.PopularityEntry{
			{Rank: 1, AppID: 100},
			{Rank: 2, AppID: 200},
			{Rank: 3, AppID: 300},
			{Rank: 4, AppID: 400},
		},
	}
	e := newTestEngine(t, catalog, popularity)

	result, err := e.Recommend(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(result.Games) != 4 {
		t.Fatalf("got %d games, want 4", len(result.Games))
	}

	// Primary: recommendations desc. Secondary: release year desc with
	// unknown treated as 0, so 300 (2022) > 200 (2015) > 400 (unknown).
	wantOrder := []int{300, 200, 400, 100}
	for i, want := range wantOrder {
		if result.Games[i].AppID != want {
			t.Errorf("position %d = %d, want %d (full order %v)", i, result.Games[i].AppID, want, appIDs(result.Games))
		}
	}
}

func TestRecommendEmptyPreferenceSet(t *testing.T) {
	// Top-played titles yield no allow-listed labels at all.
	catalog := &mockCatalog{
		owned: []models.OwnedGame{
			{AppID: 10, PlaytimeForever: 600, LastPlayed: 1700000000},
		},
		details: map[int]*models.Game{
			10: game(10, "Unlabeled", nil, nil, 0, nil),
		},
	}
	popularity := &mockPopularity{
		entries: []models.PopularityEntry{{Rank: 1, AppID: 100}},
	}
	e := newTestEngine(t, catalog, popularity)

	result, err := e.Recommend(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(result.Games) != 0 {
		t.Errorf("expected empty result, got %+v", result.Games)
	}

	// Exactly one detail call (taste profile); the walk never starts.
	if n := atomic.LoadInt32(&catalog.detailsCalls); n != 1 {
		t.Errorf("detail calls = %d, want 1", n)
	}
}

func TestRecommendTwoStageReduction(t *testing.T) {
	// 30 played games; only the 25 most recent are eligible, and of
	// those only the top 10 by playtime define taste. A game outside the
	// recency window with huge playtime must not contribute.
	owned := make([]models.OwnedGame, 0, 31)
	details := map[int]*models.Game{}

	// Game 999: most playtime of all, but oldest last-played.
	owned = append(owned, models.OwnedGame{AppID: 999, PlaytimeForever: 100000, LastPlayed: 100})
	details[999] = game(999, "Stale Favorite", []string{"MMO"}, nil, 0, nil)

	for i := 0; i < 30; i++ {
		appID := 1000 + i
		owned = append(owned, models.OwnedGame{
			AppID:           appID,
			PlaytimeForever: 60 + i,
			LastPlayed:      int64(1700000000 + i),
		})
		details[appID] = game(appID, "Recent", []string{"Co-op"}, nil, 0, nil)
	}

	// Candidate matching only the stale favorite's label.
	details[5000] = game(5000, "MMO Candidate", []string{"MMO"}, nil, 10, nil)
	details[6000] = game(6000, "Co-op Candidate", []string{"Co-op"}, nil, 10, nil)

	catalog := &mockCatalog{owned: owned, details: details}
	popularity := &mockPopularity{
		entries: []models.PopularityEntry{
			{Rank: 1, AppID: 5000},
			{Rank: 2, AppID: 6000},
		},
	}
	e := newTestEngine(t, catalog, popularity)

	result, err := e.Recommend(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if len(result.Games) != 1 || result.Games[0].AppID != 6000 {
		t.Errorf("stale favorite leaked into taste profile: %v", appIDs(result.Games))
	}
	if got := result.Metrics.CategoriesUsed; len(got) != 1 || got[0] != "Co-op" {
		t.Errorf("categories_used = %v, want [Co-op]", got)
	}
}

func TestRecommendMetricsLabelSplit(t *testing.T) {
	catalog := &mockCatalog{
		owned: []models.OwnedGame{
			{AppID: 10, PlaytimeForever: 600, LastPlayed: 1700000000},
		},
		details: map[int]*models.Game{
			10: game(10, "Owned", []string{"Co-op", "PvP"}, []string{"RPG"}, 0, nil),
		},
	}
	popularity := &mockPopularity{}
	e := newTestEngine(t, catalog, popularity)

	result, err := e.Recommend(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	if len(result.Metrics.CategoriesUsed) != 2 {
		t.Errorf("categories_used = %v, want 2 entries", result.Metrics.CategoriesUsed)
	}
	if len(result.Metrics.GenresUsed) != 1 || result.Metrics.GenresUsed[0] != "RPG" {
		t.Errorf("genres_used = %v, want [RPG]", result.Metrics.GenresUsed)
	}
}

func TestRecommendMaxResults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxResults = 3

	details := map[int]*models.Game{10: game(10, "Owned", []string{"Co-op"}, nil, 0, nil)}
	feed := []models.PopularityEntry{}
	for i := 0; i < 10; i++ {
		appID := 100 + i
		details[appID] = game(appID, "Candidate", []string{"Co-op"}, nil, i, nil)
		feed = append(feed, models.PopularityEntry{Rank: i + 1, AppID: appID})
	}

	catalog := &mockCatalog{
		owned:   []models.OwnedGame{{AppID: 10, PlaytimeForever: 600, LastPlayed: 1700000000}},
		details: details,
	}
	e, err := NewEngine(cfg, catalog, &mockPopularity{entries: feed})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	result, err := e.Recommend(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(result.Games) != 3 {
		t.Errorf("got %d games, want MaxResults=3", len(result.Games))
	}
}

func TestRecommendCanceledContext(t *testing.T) {
	catalog := &mockCatalog{
		owned: []models.OwnedGame{{AppID: 10, PlaytimeForever: 600}},
	}
	popularity := &mockPopularity{}
	e := newTestEngine(t, catalog, popularity)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.Recommend(ctx, "user-1"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRecommendDetailErrorsSkipCandidates(t *testing.T) {
	// Transport errors on candidate details skip the candidate without
	// aborting the run.
	catalog := &mockCatalog{
		owned: []models.OwnedGame{
			{AppID: 10, PlaytimeForever: 600, LastPlayed: 1700000000},
		},
		details: map[int]*models.Game{
			10: game(10, "Owned", []string{"Co-op"}, nil, 0, nil),
		},
	}
	popularity := &mockPopularity{entries: []models.PopularityEntry{{Rank: 1, AppID: 100}}}
	e := newTestEngine(t, catalog, popularity)

	// First run builds the preference set, then the candidate fetch
	// fails: the mock returns nil (absence) for unknown IDs, which is
	// already a skip. Force a hard error path instead.
	catalog.detailsErr = nil
	result, err := e.Recommend(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(result.Games) != 0 {
		t.Errorf("absent candidate should be skipped, got %+v", result.Games)
	}
}

func appIDs(games []models.Game) []int {
	out := make([]int, len(games))
	for i, g := range games {
		out[i] = g.AppID
	}
	return out
}
