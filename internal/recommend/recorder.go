// Steamscope - Steam Library Recommendation Service
// Copyright 2026 Steamscope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/steamscope/steamscope

package recommend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/steamscope/steamscope/internal/cachestore"
	"github.com/steamscope/steamscope/internal/logging"
	"github.com/steamscope/steamscope/internal/models"
)

// metricsKeyPrefix is the cache namespace for run metrics records.
const metricsKeyPrefix = "metrics:"

// defaultMetricsTTL keeps run history for a week.
const defaultMetricsTTL = 7 * 24 * time.Hour

// Recorder persists run metrics to the cache gateway. Writes are
// best-effort: a failed write only loses one history entry.
type Recorder struct {
	store  cachestore.Store
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRecorder creates a recorder. A non-positive ttl selects the 7-day
// default.
func NewRecorder(store cachestore.Store, ttl time.Duration) *Recorder {
	if ttl <= 0 {
		ttl = defaultMetricsTTL
	}
	return &Recorder{
		store:  store,
		ttl:    ttl,
		logger: logging.With().Str("component", "recorder").Logger(),
	}
}

// metricsKey builds metrics:{user_id}:{unix_seconds}. Epoch seconds are
// fixed-width until 2286, so lexicographic key order is chronological.
func metricsKey(userID string, ts time.Time) string {
	return fmt.Sprintf("%s%s:%d", metricsKeyPrefix, userID, ts.Unix())
}

// Record persists one run metrics record under the user+timestamp key.
func (r *Recorder) Record(ctx context.Context, m models.RunMetrics) bool {
	raw, err := json.Marshal(m)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", m.UserID).Msg("metrics serialization failed")
		return false
	}

	key := metricsKey(m.UserID, m.StartedAt)
	if !r.store.Set(ctx, key, raw, r.ttl) {
		r.logger.Warn().Str("key", key).Msg("metrics write failed")
		return false
	}
	return true
}

// List returns up to limit run metrics for the user, newest first.
// Records that fail to deserialize are skipped.
func (r *Recorder) List(ctx context.Context, userID string, limit int) []models.RunMetrics {
	out := []models.RunMetrics{}
	if limit <= 0 {
		return out
	}

	keys := r.store.Keys(ctx, metricsKeyPrefix+userID+":")
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	for _, key := range keys {
		if len(out) >= limit {
			break
		}

		raw, ok := r.store.Get(ctx, key)
		if !ok {
			continue
		}

		var m models.RunMetrics
		if err := json.Unmarshal(raw, &m); err != nil {
			r.logger.Warn().Err(err).Str("key", key).Msg("skipping undecodable metrics record")
			continue
		}
		out = append(out, m)
	}

	return out
}
