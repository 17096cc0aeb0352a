// Steamscope - Steam Library Recommendation Service
// Copyright 2026 Steamscope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/steamscope/steamscope

package cachestore

import (
	"context"
	"testing"
	"time"
)

// storeFactories lets every contract test run against both implementations.
var storeFactories = map[string]func(t *testing.T) Store{
	"memory": func(t *testing.T) Store {
		return NewMemoryStore()
	},
	"badger": func(t *testing.T) Store {
		s, err := OpenBadger("")
		if err != nil {
			t.Fatalf("open in-memory badger: %v", err)
		}
		t.Cleanup(func() { _ = s.Close() })
		return s
	},
}

func TestStoreRoundTrip(t *testing.T) {
	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			s := factory(t)
			ctx := context.Background()

			if !s.Set(ctx, "game_details:570", []byte(`{"name":"Dota 2"}`), time.Hour) {
				t.Fatal("set failed")
			}

			got, ok := s.Get(ctx, "game_details:570")
			if !ok {
				t.Fatal("expected hit")
			}
			if string(got) != `{"name":"Dota 2"}` {
				t.Errorf("value mismatch: %s", got)
			}
		})
	}
}

func TestStoreMiss(t *testing.T) {
	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			s := factory(t)

			if _, ok := s.Get(context.Background(), "absent"); ok {
				t.Error("expected miss for absent key")
			}
		})
	}
}

func TestStoreKeysByPrefix(t *testing.T) {
	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			s := factory(t)
			ctx := context.Background()

			s.Set(ctx, "metrics:alice:1700000001", []byte("a"), time.Hour)
			s.Set(ctx, "metrics:alice:1700000002", []byte("b"), time.Hour)
			s.Set(ctx, "metrics:bob:1700000003", []byte("c"), time.Hour)
			s.Set(ctx, "user_games:alice", []byte("d"), time.Hour)

			keys := s.Keys(ctx, "metrics:alice:")
			if len(keys) != 2 {
				t.Fatalf("got %d keys, want 2: %v", len(keys), keys)
			}
			for _, k := range keys {
				if k != "metrics:alice:1700000001" && k != "metrics:alice:1700000002" {
					t.Errorf("unexpected key %q", k)
				}
			}
		})
	}
}

func TestStoreKeysEmptyOnNoMatch(t *testing.T) {
	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			s := factory(t)

			keys := s.Keys(context.Background(), "metrics:nobody:")
			if keys == nil {
				t.Fatal("Keys must return an empty slice, not nil")
			}
			if len(keys) != 0 {
				t.Errorf("got %v, want empty", keys)
			}
		})
	}
}

func TestStoreCanceledContext(t *testing.T) {
	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			s := factory(t)
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			if s.Set(ctx, "k", []byte("v"), time.Hour) {
				t.Error("set with canceled context should report false")
			}
			if _, ok := s.Get(ctx, "k"); ok {
				t.Error("get with canceled context should report miss")
			}
			if keys := s.Keys(ctx, ""); len(keys) != 0 {
				t.Error("keys with canceled context should be empty")
			}
		})
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore()
	base := time.Now()
	s.now = func() time.Time { return base }
	ctx := context.Background()

	s.Set(ctx, "popular_games", []byte("x"), time.Hour)

	// Still inside the TTL window: stale-but-present entries must be served.
	s.now = func() time.Time { return base.Add(59 * time.Minute) }
	if _, ok := s.Get(ctx, "popular_games"); !ok {
		t.Fatal("entry expired before TTL")
	}

	s.now = func() time.Time { return base.Add(61 * time.Minute) }
	if _, ok := s.Get(ctx, "popular_games"); ok {
		t.Fatal("entry survived past TTL")
	}
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	original := []byte("abc")
	s.Set(ctx, "k", original, time.Hour)
	original[0] = 'z'

	got, _ := s.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("stored value aliased caller slice: %s", got)
	}

	got[0] = 'q'
	again, _ := s.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("returned value aliased stored slice: %s", again)
	}
}

func TestBadgerStoreTTLExpiry(t *testing.T) {
	s, err := OpenBadger("")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	s.Set(ctx, "short", []byte("v"), time.Second)
	if _, ok := s.Get(ctx, "short"); !ok {
		t.Fatal("expected hit before expiry")
	}

	time.Sleep(1100 * time.Millisecond)
	if _, ok := s.Get(ctx, "short"); ok {
		t.Fatal("expected miss after badger TTL expiry")
	}
}

func TestMetricPrefix(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"game_details:570", "game_details"},
		{"user_games:7656", "user_games"},
		{"metrics:alice:170", "metrics"},
		{"popular_games", "popular_games"},
	}
	for _, tt := range tests {
		if got := metricPrefix(tt.key); got != tt.want {
			t.Errorf("metricPrefix(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
