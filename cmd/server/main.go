// Theoryforge - ARPG Build Recommendation Engine
// Copyright 2026 Theoryforge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theoryforge/theoryforge

// Package main is the entry point for the theoryforge server.
//
// Theoryforge orchestrates ARPG character build recommendations: it generates
// candidate builds from a curated template catalog and an optional external
// generation engine, enriches them with live market prices, validates their
// stats through build calculators, and ranks them with meta popularity data.
// Every external collaborator is optional; the pipeline degrades stage by
// stage instead of failing.
//
// The server initializes in this order:
//
//  1. Configuration: koanf v2 layers (defaults, YAML file, THEORYFORGE_ env)
//  2. Logging: zerolog, json or console
//  3. Catalog: built-in templates plus an optional YAML overlay
//  4. Price cache: badger on disk, or in-memory when no path is configured
//  5. Provider clients: breaker-wrapped HTTP clients, Disabled stand-ins for
//     collaborators with no configured URL
//  6. Health registry and prober
//  7. Generator, scorer, and the pipeline orchestrator
//  8. Initialize sweep: the process starts even when the sweep fails;
//     readiness stays false and a later sweep can flip it
//  9. Supervision tree: prober loop and HTTP server under suture
//
// Shutdown is signal driven: SIGINT or SIGTERM cancels the root context, the
// HTTP server drains, and the supervisor reports anything that failed to stop.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/theoryforge/theoryforge/internal/api"
	"github.com/theoryforge/theoryforge/internal/catalog"
	"github.com/theoryforge/theoryforge/internal/config"
	"github.com/theoryforge/theoryforge/internal/generator"
	"github.com/theoryforge/theoryforge/internal/health"
	"github.com/theoryforge/theoryforge/internal/logging"
	"github.com/theoryforge/theoryforge/internal/pipeline"
	"github.com/theoryforge/theoryforge/internal/pricecache"
	"github.com/theoryforge/theoryforge/internal/providers"
	"github.com/theoryforge/theoryforge/internal/scoring"
	"github.com/theoryforge/theoryforge/internal/supervisor"
	"github.com/theoryforge/theoryforge/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Int("port", cfg.Server.Port).
		Str("log_level", cfg.Logging.Level).
		Bool("engine", cfg.Providers.Engine.Enabled()).
		Bool("pricing", cfg.Providers.Pricing.Enabled()).
		Bool("meta", cfg.Providers.Meta.Enabled()).
		Msg("Starting theoryforge")

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Catalog.Path).Msg("Failed to load template catalog")
	}
	logging.Info().Int("templates", cat.Len()).Msg("Template catalog loaded")

	// Price cache: badger when a path is configured, memory otherwise.
	cache, closeCache, err := newCacheStore(cfg.Cache.Path)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Cache.Path).Msg("Failed to open price cache")
	}
	defer func() {
		if err := closeCache(); err != nil {
			logging.Error().Err(err).Msg("Error closing price cache")
		}
	}()

	collab := buildCollaborators(cfg, cache)

	registry := health.NewRegistry()
	prober := health.NewProber(registry, probeTargets(collab), health.ProberConfig{
		Interval:        cfg.Health.ProbeInterval,
		Timeout:         cfg.Health.ProbeTimeout,
		DegradedLatency: cfg.Health.DegradedLatency,
	}, logging.Logger())

	gen := generator.New(cat, cfg.Generator.Seed, logging.Logger())
	scorer := scoring.NewScorer(cfg.Scoring.ToScoring())

	orchestrator := pipeline.New(pipeline.Config{
		CallTimeout:    cfg.Pipeline.CallTimeout,
		PricingFanOut:  cfg.Pipeline.PricingFanOut,
		PriceTTL:       cfg.Pipeline.PriceTTL,
		BaseCostOffset: cfg.Pipeline.BaseCostOffset,
	}, cat, gen, scorer, registry, prober, collab, logging.Logger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	switch s := cache.(type) {
	case *pricecache.BadgerStore:
		s.StartGC(ctx, time.Hour)
	case *pricecache.MemoryStore:
		s.StartCleanupRoutine(ctx, 5*time.Minute)
	}

	// Degraded start: a failed sweep does not stop the process. Readiness
	// stays false and the periodic prober can flip initialization later.
	initCtx, initCancel := context.WithTimeout(ctx, 30*time.Second)
	if !orchestrator.Initialize(initCtx) {
		logging.Warn().Msg("Initialization sweep failed; serving with readiness false until components recover")
	}
	initCancel()

	router := api.NewRouter(
		api.NewHandler(orchestrator, cat),
		api.NewMiddleware(&api.MiddlewareConfig{
			CORSAllowedOrigins: cfg.API.CORSOrigins,
			CORSAllowedMethods: []string{"GET", "POST", "OPTIONS"},
			CORSAllowedHeaders: []string{"Content-Type", "X-Request-ID"},
			CORSMaxAge:         86400,
			RateLimitRequests:  cfg.API.RateLimitReqs,
			RateLimitWindow:    cfg.API.RateLimitWindow,
		}),
		cfg.Server.Timeout,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddMonitoringService(prober)
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Stopped gracefully")
}

// newCacheStore opens the badger-backed price cache, or the in-memory store
// when no path is configured.
func newCacheStore(path string) (providers.CacheStore, func() error, error) {
	if path == "" {
		store := pricecache.NewMemoryStore()
		logging.Info().Msg("Price cache: in-memory store")
		return store, store.Close, nil
	}

	store, err := pricecache.NewBadgerStore(path)
	if err != nil {
		return nil, nil, err
	}
	logging.Info().Str("path", path).Msg("Price cache: badger store")
	return store, store.Close, nil
}

// buildCollaborators wires one implementation per external capability:
// breaker-wrapped HTTP clients for configured services, Disabled stand-ins
// otherwise.
func buildCollaborators(cfg *config.Config, cache providers.CacheStore) pipeline.Collaborators {
	collab := pipeline.Collaborators{
		Engine:          providers.DisabledEngine{},
		Pricing:         providers.DisabledPricing{},
		CalculatorLocal: providers.DisabledCalculator{Component: string(health.ComponentCalculatorLocal)},
		CalculatorWeb:   providers.DisabledCalculator{Component: string(health.ComponentCalculatorWeb)},
		Meta:            providers.DisabledMeta{},
		Cache:           cache,
	}

	if c := cfg.Providers.Engine; c.Enabled() {
		collab.Engine = providers.WithEngineBreaker(providers.NewEngineClient(clientConfig(c)))
	}
	if c := cfg.Providers.Pricing; c.Enabled() {
		collab.Pricing = providers.WithPricingBreaker(
			providers.NewPricingClient(clientConfig(c), cfg.Providers.PricingRateLimit))
	}
	if c := cfg.Providers.CalculatorLocal; c.Enabled() {
		collab.CalculatorLocal = providers.WithCalculatorBreaker(
			string(health.ComponentCalculatorLocal), providers.NewCalculatorClient(clientConfig(c)))
	}
	if c := cfg.Providers.CalculatorWeb; c.Enabled() {
		collab.CalculatorWeb = providers.WithCalculatorBreaker(
			string(health.ComponentCalculatorWeb), providers.NewCalculatorClient(clientConfig(c)))
	}
	if c := cfg.Providers.Meta; c.Enabled() {
		collab.Meta = providers.WithMetaBreaker(providers.NewMetaClient(clientConfig(c)))
	}

	return collab
}

func clientConfig(c config.CollaboratorConfig) providers.ClientConfig {
	return providers.ClientConfig{
		BaseURL: c.URL,
		APIKey:  c.APIKey,
		Timeout: c.Timeout,
	}
}

// probeTargets lists every collaborator for the health prober, in whatever
// order; the prober sorts them into canonical probe order itself.
func probeTargets(collab pipeline.Collaborators) []health.Target {
	return []health.Target{
		{Component: health.ComponentCache, Pinger: collab.Cache},
		{Component: health.ComponentPricing, Pinger: collab.Pricing},
		{Component: health.ComponentMeta, Pinger: collab.Meta},
		{Component: health.ComponentCalculatorLocal, Pinger: collab.CalculatorLocal},
		{Component: health.ComponentCalculatorWeb, Pinger: collab.CalculatorWeb},
		{Component: health.ComponentGenerationEngine, Pinger: collab.Engine},
	}
}
