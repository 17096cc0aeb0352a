// Steamscope - Steam Library Recommendation Service
// Copyright 2026 Steamscope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/steamscope/steamscope

package recommend

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/steamscope/steamscope/internal/logging"
	"github.com/steamscope/steamscope/internal/metrics"
	"github.com/steamscope/steamscope/internal/models"
)

// Engine orchestrates the recommendation pipeline. Dependencies are
// injected; the engine holds no mutable state across runs, so it is safe
// for concurrent use.
type Engine struct {
	cfg        Config
	catalog    CatalogProvider
	popularity PopularityProvider
	logger     zerolog.Logger
}

// NewEngine creates an engine with explicit dependencies.
func NewEngine(cfg Config, catalog CatalogProvider, popularity PopularityProvider) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if catalog == nil || popularity == nil {
		return nil, fmt.Errorf("catalog and popularity providers are required")
	}

	return &Engine{
		cfg:        cfg,
		catalog:    catalog,
		popularity: popularity,
		logger:     logging.With().Str("component", "recommend").Logger(),
	}, nil
}

// Recommend produces the ranked recommendation list and run metrics for
// one user. Upstream failures degrade to empty results; the only error
// returned is context cancellation.
func (e *Engine) Recommend(ctx context.Context, steamID string) (*Result, error) {
	start := time.Now()
	log := e.logger.With().Str("steam_id", steamID).Logger()

	run := models.RunMetrics{
		RunID:          uuid.NewString(),
		UserID:         steamID,
		StartedAt:      start,
		CategoriesUsed: []string{},
		GenresUsed:     []string{},
	}

	// Step 1: fetch the library and the chart concurrently. Either
	// failing yields an empty slice, not an abort.
	owned, feed := e.fetchInputs(ctx, steamID, &log)
	if ctx.Err() != nil {
		metrics.RecommendRunsTotal.WithLabelValues("canceled").Inc()
		return nil, ctx.Err()
	}

	run.InputGamesCount = len(owned)
	run.CandidatesConsidered = len(feed)

	// Step 3: drop never-played games.
	played := make([]models.OwnedGame, 0, len(owned))
	for _, g := range owned {
		if g.PlaytimeForever > 0 {
			played = append(played, g)
		}
	}
	run.FilteredGamesCount = len(played)

	if len(played) == 0 {
		log.Warn().Int("input_games", run.InputGamesCount).Msg("no played games, returning empty result")
		return e.finish(&run, nil, start, "empty_library"), nil
	}

	// Steps 4-5: recency cut, then playtime cut. The surviving titles
	// define the user's taste.
	sort.SliceStable(played, func(i, j int) bool {
		return played[i].LastPlayed > played[j].LastPlayed
	})
	recent := played
	if len(recent) > e.cfg.RecentlyPlayedLimit {
		recent = recent[:e.cfg.RecentlyPlayedLimit]
	}

	topPlayed := make([]models.OwnedGame, len(recent))
	copy(topPlayed, recent)
	sort.SliceStable(topPlayed, func(i, j int) bool {
		return topPlayed[i].PlaytimeForever > topPlayed[j].PlaytimeForever
	})
	if len(topPlayed) > e.cfg.TopPlayedLimit {
		topPlayed = topPlayed[:e.cfg.TopPlayedLimit]
	}

	// Step 6: build the preference set. Categories and genres are pooled
	// for matching but tracked separately for metrics.
	prefs, categories, genres := e.buildPreferences(ctx, topPlayed, &log)
	if ctx.Err() != nil {
		metrics.RecommendRunsTotal.WithLabelValues("canceled").Inc()
		return nil, ctx.Err()
	}
	run.CategoriesUsed = categories
	run.GenresUsed = genres

	if len(prefs) == 0 {
		log.Warn().Msg("no allow-listed labels among top played games, returning empty result")
		return e.finish(&run, nil, start, "empty_preferences"), nil
	}

	// Step 8: walk the feed in order. Owned identifiers come from the
	// unfiltered list so nothing ever owned is recommended, even unplayed.
	ownedIDs := make(map[int]struct{}, len(owned))
	for _, g := range owned {
		ownedIDs[g.AppID] = struct{}{}
	}

	accepted := e.walkFeed(ctx, feed, ownedIDs, prefs, &log)
	if ctx.Err() != nil {
		metrics.RecommendRunsTotal.WithLabelValues("canceled").Inc()
		return nil, ctx.Err()
	}

	// Step 9: rank by recommendation count, then release year (unknown
	// ranks as 0).
	sort.SliceStable(accepted, func(i, j int) bool {
		if accepted[i].Recommendations != accepted[j].Recommendations {
			return accepted[i].Recommendations > accepted[j].Recommendations
		}
		return accepted[i].ReleaseYearOrZero() > accepted[j].ReleaseYearOrZero()
	})

	if len(accepted) > e.cfg.MaxResults {
		accepted = accepted[:e.cfg.MaxResults]
	}

	log.Info().
		Int("input_games", run.InputGamesCount).
		Int("filtered_games", run.FilteredGamesCount).
		Int("candidates", run.CandidatesConsidered).
		Int("recommended", len(accepted)).
		Msg("recommendation run complete")

	return e.finish(&run, accepted, start, "recommended"), nil
}

// fetchInputs runs the two independent upstream fetches concurrently and
// waits for both. Each failure is logged and collapsed to an empty slice.
func (e *Engine) fetchInputs(ctx context.Context, steamID string, log *zerolog.Logger) ([]models.OwnedGame, []models.PopularityEntry) {
	var (
		wg    sync.WaitGroup
		owned []models.OwnedGame
		feed  []models.PopularityEntry
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		games, err := e.catalog.GetOwnedGames(ctx, steamID)
		if err != nil {
			log.Error().Err(err).Msg("owned games unavailable, proceeding with empty library")
			return
		}
		owned = games
	}()
	go func() {
		defer wg.Done()
		entries, err := e.popularity.GetPopularGames(ctx)
		if err != nil {
			log.Error().Err(err).Msg("popularity feed unavailable, proceeding without candidates")
			return
		}
		feed = entries
	}()
	wg.Wait()

	return owned, feed
}

// buildPreferences fetches details for the taste-defining titles and
// pools their labels. Returns the pooled set plus sorted category and
// genre lists for metrics.
func (e *Engine) buildPreferences(ctx context.Context, topPlayed []models.OwnedGame, log *zerolog.Logger) (map[string]struct{}, []string, []string) {
	prefs := make(map[string]struct{})
	catSet := make(map[string]struct{})
	genreSet := make(map[string]struct{})

	for _, g := range topPlayed {
		if ctx.Err() != nil {
			break
		}

		details, err := e.catalog.GetGameDetails(ctx, g.AppID)
		if err != nil {
			log.Warn().Err(err).Int("appid", g.AppID).Msg("details unavailable for taste profile")
			continue
		}
		if details == nil {
			continue
		}

		for _, c := range details.Categories {
			prefs[c] = struct{}{}
			catSet[c] = struct{}{}
		}
		for _, gn := range details.Genres {
			prefs[gn] = struct{}{}
			genreSet[gn] = struct{}{}
		}
	}

	return prefs, sortedKeys(catSet), sortedKeys(genreSet)
}

// walkFeed walks the popularity feed in its given order, skipping owned
// titles, and accepts candidates whose categories or genres intersect the
// preference set. At most MaxDetailFetches detail calls are issued
// regardless of feed length, which also caps accepted candidates.
func (e *Engine) walkFeed(ctx context.Context, feed []models.PopularityEntry, ownedIDs map[int]struct{}, prefs map[string]struct{}, log *zerolog.Logger) []models.Game {
	accepted := []models.Game{}
	fetches := 0

	for _, entry := range feed {
		if fetches >= e.cfg.MaxDetailFetches || ctx.Err() != nil {
			break
		}
		if _, owns := ownedIDs[entry.AppID]; owns {
			continue
		}

		fetches++
		metrics.RecommendDetailFetches.Inc()

		details, err := e.catalog.GetGameDetails(ctx, entry.AppID)
		if err != nil {
			log.Warn().Err(err).Int("appid", entry.AppID).Msg("candidate details unavailable")
			continue
		}
		if details == nil {
			continue
		}

		if intersects(details.Categories, prefs) || intersects(details.Genres, prefs) {
			accepted = append(accepted, *details)
		}
	}

	return accepted
}

// finish stamps the run metrics and assembles the result. games may be
// nil for short-circuited runs.
func (e *Engine) finish(run *models.RunMetrics, games []models.Game, start time.Time, outcome string) *Result {
	if games == nil {
		games = []models.Game{}
	}
	run.RecommendedCount = len(games)
	run.DurationMS = time.Since(start).Milliseconds()

	metrics.RecommendRunsTotal.WithLabelValues(outcome).Inc()
	metrics.RecommendRunDuration.Observe(time.Since(start).Seconds())

	return &Result{Games: games, Metrics: *run}
}

// intersects reports whether any label is in the preference set.
func intersects(labels []string, set map[string]struct{}) bool {
	for _, l := range labels {
		if _, ok := set[l]; ok {
			return true
		}
	}
	return false
}

// sortedKeys returns the set's keys in sorted order.
func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
