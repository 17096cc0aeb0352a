// Steamscope - Steam Library Recommendation Service
// Copyright 2026 Steamscope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/steamscope/steamscope

// Package cachestore provides the shared TTL key-value gateway that all
// upstream-derived data passes through.
//
// The gateway is a blind byte store: it owns no domain semantics and never
// surfaces errors to callers. A store failure on Get is indistinguishable
// from a true miss, so callers must treat both as "go fetch fresh". A
// failed Set only means the next read recomputes from upstream.
package cachestore

import (
	"context"
	"strings"
	"time"
)

// Store is the cache gateway contract.
//
// Implementations must swallow all store errors: Get reports (nil, false),
// Set reports false, Keys reports an empty slice. Retry policy, if any,
// belongs to callers.
type Store interface {
	// Get retrieves the value for key. The second return is false on a
	// miss, an expired entry, or any store error.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores value under key with the given TTL. Returns false when
	// the write failed; the failure is non-fatal by contract.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool

	// Keys returns all live keys starting with prefix, in store order.
	// Returns an empty slice on error.
	Keys(ctx context.Context, prefix string) []string

	// Close releases store resources.
	Close() error
}

// metricPrefix reduces a cache key to its namespace for metric labels,
// e.g. "game_details:570" -> "game_details".
func metricPrefix(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}
