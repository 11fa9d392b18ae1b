// Theoryforge - ARPG Build Recommendation Engine
// Copyright 2026 Theoryforge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theoryforge/theoryforge

// Package config loads and validates the service configuration from three
// layered sources: built-in defaults, an optional YAML file, and environment
// variables, highest priority last.
package config

import (
	"fmt"
	"time"

	"github.com/theoryforge/theoryforge/internal/scoring"
)

// Config is the root configuration for the theoryforge service.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Generator GeneratorConfig `koanf:"generator"`
	Scoring   ScoringConfig   `koanf:"scoring"`
	Pipeline  PipelineConfig  `koanf:"pipeline"`
	Health    HealthConfig    `koanf:"health"`
	Providers ProvidersConfig `koanf:"providers"`
	Cache     CacheConfig     `koanf:"cache"`
	API       APIConfig       `koanf:"api"`
}

// ScoringConfig mirrors scoring.Config with koanf tags; ToScoring converts
// it for the scorer.
type ScoringConfig struct {
	Weights               WeightsConfig `koanf:"weights"`
	DamageBands           BandsConfig   `koanf:"damage_bands"`
	SurvivalBands         BandsConfig   `koanf:"survival_bands"`
	ReferenceBudget       float64       `koanf:"reference_budget"`
	DiversityThreshold    float64       `koanf:"diversity_threshold"`
	DiversityLimit        int           `koanf:"diversity_limit"`
	FuzzyComplexityWindow int           `koanf:"fuzzy_complexity_window"`
}

// WeightsConfig mirrors scoring.Weights.
type WeightsConfig struct {
	Damage        float64 `koanf:"damage"`
	Survivability float64 `koanf:"survivability"`
	Budget        float64 `koanf:"budget"`
	Popularity    float64 `koanf:"popularity"`
	EaseOfUse     float64 `koanf:"ease_of_use"`
}

// BandsConfig mirrors scoring.Bands.
type BandsConfig struct {
	Acceptable float64 `koanf:"acceptable"`
	Good       float64 `koanf:"good"`
	Excellent  float64 `koanf:"excellent"`
}

// ToScoring converts the section to the scorer's own config type.
func (s ScoringConfig) ToScoring() scoring.Config {
	return scoring.Config{
		Weights: scoring.Weights{
			Damage:        s.Weights.Damage,
			Survivability: s.Weights.Survivability,
			Budget:        s.Weights.Budget,
			Popularity:    s.Weights.Popularity,
			EaseOfUse:     s.Weights.EaseOfUse,
		},
		DamageBands:           scoring.Bands(s.DamageBands),
		SurvivalBands:         scoring.Bands(s.SurvivalBands),
		ReferenceBudget:       s.ReferenceBudget,
		DiversityThreshold:    s.DiversityThreshold,
		DiversityLimit:        s.DiversityLimit,
		FuzzyComplexityWindow: s.FuzzyComplexityWindow,
	}
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// LoggingConfig holds the zerolog settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`
	// Format is json or console.
	Format string `koanf:"format"`
	// Caller includes file and line in every entry.
	Caller bool `koanf:"caller"`
}

// CatalogConfig holds the template catalog settings.
type CatalogConfig struct {
	// Path is an optional YAML overlay with additional templates, merged
	// on top of the built-in set.
	Path string `koanf:"path"`
}

// GeneratorConfig holds the build generator settings.
type GeneratorConfig struct {
	// Seed pins the random source for reproducible generation. Zero picks
	// a time-based seed.
	Seed int64 `koanf:"seed"`
}

// PipelineConfig holds the orchestrator settings.
type PipelineConfig struct {
	CallTimeout    time.Duration `koanf:"call_timeout"`
	PricingFanOut  int           `koanf:"pricing_fan_out"`
	PriceTTL       time.Duration `koanf:"price_ttl"`
	BaseCostOffset float64       `koanf:"base_cost_offset"`
}

// HealthConfig holds the probe sweep settings.
type HealthConfig struct {
	ProbeInterval   time.Duration `koanf:"probe_interval"`
	ProbeTimeout    time.Duration `koanf:"probe_timeout"`
	DegradedLatency time.Duration `koanf:"degraded_latency"`
}

// CollaboratorConfig holds the connection settings for one external
// collaborator. An empty URL leaves the collaborator disabled.
type CollaboratorConfig struct {
	URL     string        `koanf:"url"`
	APIKey  string        `koanf:"api_key"`
	Timeout time.Duration `koanf:"timeout"`
}

// Enabled reports whether the collaborator has a configured endpoint.
func (c CollaboratorConfig) Enabled() bool {
	return c.URL != ""
}

// ProvidersConfig holds one section per collaborator.
type ProvidersConfig struct {
	Engine          CollaboratorConfig `koanf:"engine"`
	Pricing         CollaboratorConfig `koanf:"pricing"`
	CalculatorLocal CollaboratorConfig `koanf:"calculator_local"`
	CalculatorWeb   CollaboratorConfig `koanf:"calculator_web"`
	Meta            CollaboratorConfig `koanf:"meta"`

	// PricingRateLimit bounds outbound pricing calls per second; zero
	// disables throttling.
	PricingRateLimit float64 `koanf:"pricing_rate_limit"`
}

// CacheConfig holds the price cache settings.
type CacheConfig struct {
	// Path is the badger directory. Empty selects the in-memory store.
	Path string `koanf:"path"`
}

// APIConfig holds the HTTP API settings.
type APIConfig struct {
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// validLogLevels and validLogFormats bound the logging section.
var (
	validLogLevels  = map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	validLogFormats = map[string]bool{"json": true, "console": true}
)

// Validate checks the configuration for out-of-range values. It is called
// after every load; a service never starts on an invalid config.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d outside [1, 65535]", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %v", c.Server.Timeout)
	}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level %q is not one of trace, debug, info, warn, error", c.Logging.Level)
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format %q is not json or console", c.Logging.Format)
	}
	if err := c.Scoring.ToScoring().Validate(); err != nil {
		return fmt.Errorf("scoring: %w", err)
	}
	if c.Pipeline.CallTimeout <= 0 {
		return fmt.Errorf("pipeline.call_timeout must be positive, got %v", c.Pipeline.CallTimeout)
	}
	if c.Pipeline.PricingFanOut < 1 {
		return fmt.Errorf("pipeline.pricing_fan_out must be at least 1, got %d", c.Pipeline.PricingFanOut)
	}
	if c.Pipeline.PriceTTL <= 0 {
		return fmt.Errorf("pipeline.price_ttl must be positive, got %v", c.Pipeline.PriceTTL)
	}
	if c.Health.ProbeInterval <= 0 {
		return fmt.Errorf("health.probe_interval must be positive, got %v", c.Health.ProbeInterval)
	}
	if c.Health.ProbeTimeout <= 0 {
		return fmt.Errorf("health.probe_timeout must be positive, got %v", c.Health.ProbeTimeout)
	}
	if c.Health.DegradedLatency <= 0 {
		return fmt.Errorf("health.degraded_latency must be positive, got %v", c.Health.DegradedLatency)
	}
	if c.Providers.PricingRateLimit < 0 {
		return fmt.Errorf("providers.pricing_rate_limit must be non-negative, got %f", c.Providers.PricingRateLimit)
	}
	if c.API.RateLimitReqs < 1 {
		return fmt.Errorf("api.rate_limit_reqs must be at least 1, got %d", c.API.RateLimitReqs)
	}
	if c.API.RateLimitWindow <= 0 {
		return fmt.Errorf("api.rate_limit_window must be positive, got %v", c.API.RateLimitWindow)
	}
	return nil
}
