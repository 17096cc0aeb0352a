// Steamscope - Steam Library Recommendation Service
// Copyright 2026 Steamscope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/steamscope/steamscope

package cachestore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// memoryEntry is a cached value with its expiry.
type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore is a map-backed Store for tests and cacheless deployments.
// Expired entries are dropped lazily on access.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get retrieves a value, dropping it if expired.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool) {
	if ctx.Err() != nil {
		return nil, false
	}

	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false
	}

	// Copy so callers cannot mutate the stored slice.
	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, true
}

// Set stores a value with ttl. A ttl of 0 means no expiry.
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[key] = memoryEntry{value: stored, expiresAt: expiresAt}
	s.mu.Unlock()
	return true
}

// Keys returns live keys matching prefix, sorted for determinism.
func (s *MemoryStore) Keys(ctx context.Context, prefix string) []string {
	keys := []string{}
	if ctx.Err() != nil {
		return keys
	}

	now := s.now()
	s.mu.RLock()
	for k, entry := range s.entries {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		if !entry.expiresAt.IsZero() && now.After(entry.expiresAt) {
			continue
		}
		keys = append(keys, k)
	}
	s.mu.RUnlock()

	sort.Strings(keys)
	return keys
}

// Close implements Store; nothing to release.
func (s *MemoryStore) Close() error {
	return nil
}

var _ Store = (*MemoryStore)(nil)
