// Steamscope - Steam Library Recommendation Service
// Copyright 2026 Steamscope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/steamscope/steamscope

package api

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/steamscope/steamscope/internal/logging"
	"github.com/steamscope/steamscope/internal/models"
	"github.com/steamscope/steamscope/internal/recommend"
	"github.com/steamscope/steamscope/internal/steam"
)

// Handler holds the dependencies for all API endpoints.
type Handler struct {
	steam    steam.API
	engine   *recommend.Engine
	recorder *recommend.Recorder

	// publicURL is the externally visible base URL, used for the Steam
	// OpenID return address.
	publicURL string

	// version is reported by the health endpoint.
	version string
}

// NewHandler creates the API handler.
func NewHandler(steamClient steam.API, engine *recommend.Engine, recorder *recommend.Recorder, publicURL, version string) *Handler {
	return &Handler{
		steam:     steamClient,
		engine:    engine,
		recorder:  recorder,
		publicURL: publicURL,
		version:   version,
	}
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.version,
	})
}

// UserSummary handles GET /api/v1/user/{steamID}.
// Returns a library summary: total count plus the five most recently
// played titles.
func (h *Handler) UserSummary(w http.ResponseWriter, r *http.Request) {
	steamID, ok := steamIDParam(w, r)
	if !ok {
		return
	}

	games, err := h.steam.GetOwnedGames(r.Context(), steamID)
	if err != nil {
		respondError(w, r, http.StatusBadGateway, ErrCodeExternalServiceFail, "Failed to fetch owned games", err)
		return
	}

	recent := make([]models.OwnedGame, len(games))
	copy(recent, games)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].LastPlayed > recent[j].LastPlayed
	})
	if len(recent) > 5 {
		recent = recent[:5]
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"steam_id":        steamID,
		"game_count":      len(games),
		"recently_played": recent,
	})
}

// UserGames handles GET /api/v1/user/{steamID}/games.
// Returns the user's full owned library, cached for a day.
func (h *Handler) UserGames(w http.ResponseWriter, r *http.Request) {
	steamID, ok := steamIDParam(w, r)
	if !ok {
		return
	}

	games, err := h.steam.GetOwnedGames(r.Context(), steamID)
	if err != nil {
		respondError(w, r, http.StatusBadGateway, ErrCodeExternalServiceFail, "Failed to fetch owned games", err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"steam_id": steamID,
		"count":    len(games),
		"games":    games,
	})
}

// Game handles GET /api/v1/game/{appID}.
// Returns filtered storefront metadata for one title.
func (h *Handler) Game(w http.ResponseWriter, r *http.Request) {
	appID, ok := appIDParam(w, r)
	if !ok {
		return
	}

	game, err := h.steam.GetGameDetails(r.Context(), appID)
	if err != nil {
		respondError(w, r, http.StatusBadGateway, ErrCodeExternalServiceFail, "Failed to fetch game details", err)
		return
	}
	if game == nil {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Game not found or delisted", nil)
		return
	}

	respondJSON(w, r, http.StatusOK, game)
}

// GamePlayers handles GET /api/v1/game/{appID}/players.
// Returns the live player count for one title.
func (h *Handler) GamePlayers(w http.ResponseWriter, r *http.Request) {
	appID, ok := appIDParam(w, r)
	if !ok {
		return
	}

	count, err := h.steam.GetCurrentPlayers(r.Context(), appID)
	if err != nil {
		respondError(w, r, http.StatusBadGateway, ErrCodeExternalServiceFail, "Failed to fetch player count", err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]int{
		"appid":   appID,
		"players": count,
	})
}

// PopularGames handles GET /api/v1/popular.
// Returns the global most-played chart, cached for two hours.
func (h *Handler) PopularGames(w http.ResponseWriter, r *http.Request) {
	entries, err := h.steam.GetPopularGames(r.Context())
	if err != nil {
		respondError(w, r, http.StatusBadGateway, ErrCodeExternalServiceFail, "Failed to fetch popular games", err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"count": len(entries),
		"games": entries,
	})
}

// recommendedGame is one recommendation with its store page link.
type recommendedGame struct {
	models.Game
	StoreURL string `json:"store_url"`
}

// recommendResponse is the recommendation endpoint payload.
type recommendResponse struct {
	SteamID string            `json:"steam_id"`
	Games   []recommendedGame `json:"games"`
	Run     models.RunMetrics `json:"run"`
}

// Recommend handles GET /api/v1/recommend/{steamID}.
// Runs the full pipeline and persists the run metrics. An empty result
// is a successful response, not an error.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	steamID, ok := steamIDParam(w, r)
	if !ok {
		return
	}

	result, err := h.engine.Recommend(r.Context(), steamID)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "Recommendation run failed", err)
		return
	}

	if !h.recorder.Record(r.Context(), result.Metrics) {
		logging.Warn().Str("steam_id", steamID).Msg("run metrics not persisted")
	}

	games := make([]recommendedGame, 0, len(result.Games))
	for _, g := range result.Games {
		games = append(games, recommendedGame{
			Game:     g,
			StoreURL: fmt.Sprintf("https://store.steampowered.com/app/%d", g.AppID),
		})
	}

	respondJSON(w, r, http.StatusOK, recommendResponse{
		SteamID: steamID,
		Games:   games,
		Run:     result.Metrics,
	})
}

// MetricsRuns handles GET /api/v1/metrics/runs/{steamID}.
// Returns recent recommendation runs for the user, newest first. The
// limit query parameter caps the result (default 20, max 100).
func (h *Handler) MetricsRuns(w http.ResponseWriter, r *http.Request) {
	steamID, ok := steamIDParam(w, r)
	if !ok {
		return
	}

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid limit", err)
			return
		}
		limit = parsed
	}
	if limit > 100 {
		limit = 100
	}

	runs := h.recorder.List(r.Context(), steamID, limit)

	respondJSON(w, r, http.StatusOK, map[string]any{
		"steam_id": steamID,
		"count":    len(runs),
		"runs":     runs,
	})
}

// steamIDParam extracts and validates the steamID path parameter.
// Steam64 identifiers are decimal digit strings.
func steamIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	steamID := chi.URLParam(r, "steamID")
	if !isDigits(steamID) {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid Steam ID", nil)
		return "", false
	}
	return steamID, true
}

// appIDParam extracts and validates the appID path parameter.
func appIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	appID, err := strconv.Atoi(chi.URLParam(r, "appID"))
	if err != nil || appID < 1 {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid app ID", err)
		return 0, false
	}
	return appID, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
