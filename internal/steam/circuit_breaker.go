// Steamscope - Steam Library Recommendation Service
// Copyright 2026 Steamscope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/steamscope/steamscope

package steam

import (
	"context"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/steamscope/steamscope/internal/logging"
	"github.com/steamscope/steamscope/internal/metrics"
	"github.com/steamscope/steamscope/internal/models"
)

// CircuitBreakerClient wraps a Steam API with a circuit breaker so a slow
// or failing upstream cannot stall every recommendation run. An open
// circuit returns transport-style errors, which callers already degrade
// on. Semantic absence from GetGameDetails is a success and never trips
// the breaker.
type CircuitBreakerClient struct {
	inner API
	cb    *gobreaker.CircuitBreaker[any]
	name  string
}

// NewCircuitBreakerClient wraps inner with a breaker that opens at a 60%
// failure rate over at least 10 requests, with a 2-minute recovery
// timeout and up to 3 probe requests in half-open state.
func NewCircuitBreakerClient(inner API) *CircuitBreakerClient {
	cbName := "steam-api"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6

			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &CircuitBreakerClient{inner: inner, cb: cb, name: cbName}
}

// GetOwnedGames implements API with breaker protection.
func (c *CircuitBreakerClient) GetOwnedGames(ctx context.Context, steamID string) ([]models.OwnedGame, error) {
	result, err := c.cb.Execute(func() (any, error) {
		return c.inner.GetOwnedGames(ctx, steamID)
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.OwnedGame), nil
}

// GetGameDetails implements API with breaker protection.
func (c *CircuitBreakerClient) GetGameDetails(ctx context.Context, appID int) (*models.Game, error) {
	result, err := c.cb.Execute(func() (any, error) {
		game, err := c.inner.GetGameDetails(ctx, appID)
		if err != nil {
			return nil, err
		}
		return game, nil
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}
	return result.(*models.Game), nil
}

// GetPopularGames implements API with breaker protection.
func (c *CircuitBreakerClient) GetPopularGames(ctx context.Context) ([]models.PopularityEntry, error) {
	result, err := c.cb.Execute(func() (any, error) {
		return c.inner.GetPopularGames(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.PopularityEntry), nil
}

// GetCurrentPlayers implements API with breaker protection.
func (c *CircuitBreakerClient) GetCurrentPlayers(ctx context.Context, appID int) (int, error) {
	result, err := c.cb.Execute(func() (any, error) {
		return c.inner.GetCurrentPlayers(ctx, appID)
	})
	if err != nil {
		return 0, err
	}
	return result.(int), nil
}

// stateToString converts a gobreaker state for logs and metric labels.
func stateToString(s gobreaker.State) string {
	switch s {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// stateToFloat converts a gobreaker state for the state gauge.
func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

var _ API = (*CircuitBreakerClient)(nil)
