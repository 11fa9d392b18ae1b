// Theoryforge - ARPG Build Recommendation Engine
// Copyright 2026 Theoryforge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theoryforge/theoryforge

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/theoryforge/theoryforge/internal/scoring"
)

// DefaultConfigPaths lists where config files are searched, first hit wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/theoryforge/config.yaml",
	"/etc/theoryforge/config.yml",
}

// ConfigPathEnvVar overrides the config file search.
const ConfigPathEnvVar = "CONFIG_PATH"

// envPrefix namespaces every configuration environment variable.
const envPrefix = "THEORYFORGE_"

// Default returns the built-in configuration. These values are applied
// first and overridden by the config file and environment.
func Default() *Config {
	sc := scoring.DefaultConfig()

	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    6112,
			Timeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Catalog: CatalogConfig{
			Path: "",
		},
		Generator: GeneratorConfig{
			Seed: 0, // time-based
		},
		Scoring: ScoringConfig{
			Weights: WeightsConfig{
				Damage:        sc.Weights.Damage,
				Survivability: sc.Weights.Survivability,
				Budget:        sc.Weights.Budget,
				Popularity:    sc.Weights.Popularity,
				EaseOfUse:     sc.Weights.EaseOfUse,
			},
			DamageBands:           BandsConfig(sc.DamageBands),
			SurvivalBands:         BandsConfig(sc.SurvivalBands),
			ReferenceBudget:       sc.ReferenceBudget,
			DiversityThreshold:    sc.DiversityThreshold,
			DiversityLimit:        sc.DiversityLimit,
			FuzzyComplexityWindow: sc.FuzzyComplexityWindow,
		},
		Pipeline: PipelineConfig{
			CallTimeout:    10 * time.Second,
			PricingFanOut:  4,
			PriceTTL:       15 * time.Minute,
			BaseCostOffset: 1,
		},
		Health: HealthConfig{
			ProbeInterval:   30 * time.Second,
			ProbeTimeout:    5 * time.Second,
			DegradedLatency: 2 * time.Second,
		},
		Providers: ProvidersConfig{
			Engine:           CollaboratorConfig{Timeout: 30 * time.Second},
			Pricing:          CollaboratorConfig{Timeout: 15 * time.Second},
			CalculatorLocal:  CollaboratorConfig{Timeout: 20 * time.Second},
			CalculatorWeb:    CollaboratorConfig{Timeout: 30 * time.Second},
			Meta:             CollaboratorConfig{Timeout: 15 * time.Second},
			PricingRateLimit: 4,
		},
		Cache: CacheConfig{
			Path: "", // in-memory
		},
		API: APIConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   60,
			RateLimitWindow: time.Minute,
		},
	}
}

// Load builds the configuration from three layers: struct defaults, an
// optional YAML file, then THEORYFORGE_-prefixed environment variables.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
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

// findConfigFile returns the first readable config file, honoring the
// CONFIG_PATH override.
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

// sliceConfigPaths lists config paths parsed as comma-separated slices when
// they arrive through the environment.
var sliceConfigPaths = []string{
	"api.cors_origins",
}

// processSliceFields converts comma-separated env strings into slices for
// the known slice fields. YAML-sourced slices pass through untouched.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

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

// envTransform maps THEORYFORGE_* environment variable names to koanf paths
// through an explicit table. Unmapped variables are dropped so stray
// environment entries cannot pollute the configuration.
//
// Examples:
//   - THEORYFORGE_HTTP_PORT            -> server.port
//   - THEORYFORGE_ENGINE_URL           -> providers.engine.url
//   - THEORYFORGE_DIVERSITY_THRESHOLD  -> scoring.diversity_threshold
func envTransform(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))

	envMappings := map[string]string{
		// Server
		"http_host":    "server.host",
		"http_port":    "server.port",
		"http_timeout": "server.timeout",

		// Logging
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",

		// Catalog and generator
		"catalog_path":   "catalog.path",
		"generator_seed": "generator.seed",

		// Scoring
		"weight_damage":           "scoring.weights.damage",
		"weight_survivability":    "scoring.weights.survivability",
		"weight_budget":           "scoring.weights.budget",
		"weight_popularity":       "scoring.weights.popularity",
		"weight_ease_of_use":      "scoring.weights.ease_of_use",
		"reference_budget":        "scoring.reference_budget",
		"diversity_threshold":     "scoring.diversity_threshold",
		"diversity_limit":         "scoring.diversity_limit",
		"fuzzy_complexity_window": "scoring.fuzzy_complexity_window",

		// Pipeline
		"call_timeout":     "pipeline.call_timeout",
		"pricing_fan_out":  "pipeline.pricing_fan_out",
		"price_ttl":        "pipeline.price_ttl",
		"base_cost_offset": "pipeline.base_cost_offset",

		// Health probing
		"probe_interval":   "health.probe_interval",
		"probe_timeout":    "health.probe_timeout",
		"degraded_latency": "health.degraded_latency",

		// Collaborators
		"engine_url":             "providers.engine.url",
		"engine_api_key":         "providers.engine.api_key",
		"engine_timeout":         "providers.engine.timeout",
		"pricing_url":            "providers.pricing.url",
		"pricing_api_key":        "providers.pricing.api_key",
		"pricing_timeout":        "providers.pricing.timeout",
		"pricing_rate_limit":     "providers.pricing_rate_limit",
		"calculator_local_url":   "providers.calculator_local.url",
		"calculator_web_url":     "providers.calculator_web.url",
		"calculator_web_api_key": "providers.calculator_web.api_key",
		"meta_url":               "providers.meta.url",
		"meta_api_key":           "providers.meta.api_key",
		"meta_timeout":           "providers.meta.timeout",

		// Cache
		"cache_path": "cache.path",

		// API
		"cors_origins":        "api.cors_origins",
		"rate_limit_requests": "api.rate_limit_reqs",
		"rate_limit_window":   "api.rate_limit_window",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return ""
}
