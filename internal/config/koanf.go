// Steamscope - Steam Library Recommendation Service
// Copyright 2026 Steamscope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/steamscope/steamscope

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "CONFIG_PATH"

// envPrefix namespaces all Steamscope environment variables.
const envPrefix = "STEAMSCOPE_"

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config/config.yaml",
	"/etc/steamscope/config.yaml",
}

// Load builds the configuration from three layers, later layers winning:
//
//  1. Defaults from defaultConfig
//  2. Optional YAML config file
//  3. STEAMSCOPE_* environment variables
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, preferring the
// CONFIG_PATH environment variable over the default search paths.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envMappings translates STEAMSCOPE_ environment variable names (prefix
// stripped, lowercased) to config paths. Underscores inside leaf keys
// make a generic split ambiguous, so the mapping is explicit.
var envMappings = map[string]string{
	"host":             "server.host",
	"port":             "server.port",
	"request_timeout":  "server.request_timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"cors_origins":     "server.cors_origins",
	"public_url":       "server.public_url",

	"steam_api_key":             "steam.api_key",
	"steam_web_api_url":         "steam.web_api_url",
	"steam_store_api_url":       "steam.store_api_url",
	"steam_owned_games_timeout": "steam.owned_games_timeout",
	"steam_details_timeout":     "steam.details_timeout",
	"steam_popular_timeout":     "steam.popular_timeout",
	"steam_players_timeout":     "steam.players_timeout",
	"steam_details_per_second":  "steam.details_per_second",
	"steam_rate_limit_backoff":  "steam.rate_limit_backoff",
	"steam_circuit_breaker":     "steam.circuit_breaker",
	"steam_user_games_ttl":      "steam.user_games_ttl",
	"steam_game_details_ttl":    "steam.game_details_ttl",
	"steam_popular_ttl":         "steam.popular_ttl",

	"cache_path":        "cache.path",
	"cache_in_memory":   "cache.in_memory",
	"cache_metrics_ttl": "cache.metrics_ttl",

	"recently_played_limit": "engine.recently_played_limit",
	"top_played_limit":      "engine.top_played_limit",
	"max_detail_fetches":    "engine.max_detail_fetches",
	"max_results":           "engine.max_results",

	"log_level":  "logging.level",
	"log_format": "logging.format",

	"rate_limit_requests": "rate_limit.requests",
	"rate_limit_window":   "rate_limit.window",
}

// envTransformFunc maps an environment variable name to its config path.
// Unrecognized variables are dropped.
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	return envMappings[key]
}

// sliceConfigPaths lists config paths parsed as comma-separated slices
// when set through environment variables.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for
// known slice fields. Env vars arrive as plain strings.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}
