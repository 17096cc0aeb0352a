// Steamscope - Steam Library Recommendation Service
// Copyright 2026 Steamscope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/steamscope/steamscope

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/steamscope/steamscope/internal/config"
)

// NewRouter wires the full route tree with the global middleware stack.
func NewRouter(cfg *config.Config, handler *Handler) http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Prometheus scrape endpoint, outside the rate limit.
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(cfg.RateLimit.Requests, cfg.RateLimit.Window))
		r.Use(PrometheusMetrics)

		r.Get("/health", handler.Health)

		r.Route("/auth", func(r chi.Router) {
			r.Get("/login", handler.Login)
			r.Get("/callback", handler.AuthCallback)
		})

		r.Get("/user/{steamID}", handler.UserSummary)
		r.Get("/user/{steamID}/games", handler.UserGames)
		r.Get("/game/{appID}", handler.Game)
		r.Get("/game/{appID}/players", handler.GamePlayers)
		r.Get("/popular", handler.PopularGames)
		r.Get("/recommend/{steamID}", handler.Recommend)
		r.Get("/metrics/runs/{steamID}", handler.MetricsRuns)
	})

	return r
}
