// Steamscope - Steam Library Recommendation Service
// Copyright 2026 Steamscope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/steamscope/steamscope

package cachestore

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/steamscope/steamscope/internal/logging"
	"github.com/steamscope/steamscope/internal/metrics"
)

// BadgerStore implements Store on top of BadgerDB. Expiration is delegated
// to badger's native entry TTLs, so a Get after expiry is a plain miss.
type BadgerStore struct {
	db     *badger.DB
	logger zerolog.Logger
}

// OpenBadger opens (or creates) a badger-backed store at path. An empty
// path opens an in-memory database, which is what tests use.
func OpenBadger(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	// Badger's own logger is too chatty for a cache.
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return NewBadgerStore(db), nil
}

// NewBadgerStore wraps an already-open badger database.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{
		db:     db,
		logger: logging.With().Str("component", "cachestore").Logger(),
	}
}

// Get retrieves a value. Store errors and expired entries both report a miss.
func (s *BadgerStore) Get(ctx context.Context, key string) ([]byte, bool) {
	if ctx.Err() != nil {
		return nil, false
	}

	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})

	switch {
	case err == nil:
		metrics.CacheHits.WithLabelValues(metricPrefix(key)).Inc()
		return value, true
	case errors.Is(err, badger.ErrKeyNotFound):
		metrics.CacheMisses.WithLabelValues(metricPrefix(key)).Inc()
		return nil, false
	default:
		metrics.CacheErrors.WithLabelValues("get").Inc()
		s.logger.Warn().Err(err).Str("key", key).Msg("cache get failed, treating as miss")
		return nil, false
	}
}

// Set stores value with ttl. Failures are logged and reported as false.
func (s *BadgerStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), value)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
	if err != nil {
		metrics.CacheErrors.WithLabelValues("set").Inc()
		s.logger.Warn().Err(err).Str("key", key).Msg("cache set failed")
		return false
	}
	return true
}

// Keys enumerates live keys by prefix. Values are not prefetched.
func (s *BadgerStore) Keys(ctx context.Context, prefix string) []string {
	keys := []string{}
	if ctx.Err() != nil {
		return keys
	}

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	if err != nil {
		metrics.CacheErrors.WithLabelValues("keys").Inc()
		s.logger.Warn().Err(err).Str("prefix", prefix).Msg("cache key scan failed")
		return []string{}
	}
	return keys
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// Verify interface implementation at compile time
var _ Store = (*BadgerStore)(nil)
