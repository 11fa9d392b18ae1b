// Theoryforge - ARPG Build Recommendation Engine
// Copyright 2026 Theoryforge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theoryforge/theoryforge

// Package pipeline orchestrates the recommendation flow: GENERATE candidates
// from templates and the external engine, ENHANCE them with market prices,
// VALIDATE them through a build calculator, and FINALIZE them through the
// scorer and diversifier. Every stage is conditional on collaborator health;
// the caller always receives a Result.
package pipeline

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/theoryforge/theoryforge/internal/build"
	"github.com/theoryforge/theoryforge/internal/catalog"
	"github.com/theoryforge/theoryforge/internal/generator"
	"github.com/theoryforge/theoryforge/internal/health"
	"github.com/theoryforge/theoryforge/internal/metrics"
	"github.com/theoryforge/theoryforge/internal/providers"
	"github.com/theoryforge/theoryforge/internal/scoring"
)

// Config holds the orchestrator's tuning knobs.
type Config struct {
	// CallTimeout bounds each individual collaborator call. Default: 10s.
	CallTimeout time.Duration `json:"call_timeout"`

	// PricingFanOut bounds concurrent item price lookups per candidate.
	// Default: 4.
	PricingFanOut int `json:"pricing_fan_out"`

	// PriceTTL is how long fresh prices stay in the cache. Default: 15m.
	PriceTTL time.Duration `json:"price_ttl"`

	// BaseCostOffset is added to the summed item prices during ENHANCE to
	// cover gems, flasks, and crafting incidentals. Default: 1 divine.
	BaseCostOffset float64 `json:"base_cost_offset"`
}

func (c Config) withDefaults() Config {
	if c.CallTimeout <= 0 {
		c.CallTimeout = 10 * time.Second
	}
	if c.PricingFanOut <= 0 {
		c.PricingFanOut = 4
	}
	if c.PriceTTL <= 0 {
		c.PriceTTL = 15 * time.Minute
	}
	if c.BaseCostOffset <= 0 {
		c.BaseCostOffset = 1
	}
	return c
}

// Collaborators bundles one implementation per external capability. Fields
// must all be non-nil; wiring uses Disabled variants for unconfigured
// services so the pipeline never checks for nil.
type Collaborators struct {
	Engine          providers.GenerationEngine
	Pricing         providers.PricingProvider
	CalculatorLocal providers.Calculator
	CalculatorWeb   providers.Calculator
	Meta            providers.MetaProvider
	Cache           providers.CacheStore
}

// Orchestrator runs the recommendation pipeline. It is stateless between
// requests except for the shared health registry and the cumulative
// counters; safe for concurrent use.
type Orchestrator struct {
	config   Config
	catalog  *catalog.Catalog
	gen      *generator.Generator
	scorer   *scoring.Scorer
	registry *health.Registry
	prober   *health.Prober
	collab   Collaborators
	logger   zerolog.Logger

	initAttempted atomic.Bool
	initialized   atomic.Bool

	requestCount  atomic.Int64
	errorCount    atomic.Int64
	fallbackCount atomic.Int64
	totalLatency  atomic.Int64 // nanoseconds
}

// New creates an orchestrator. All collaborators are injected; production
// wiring passes breaker-wrapped HTTP clients, tests pass doubles.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(cfg Config, cat *catalog.Catalog, gen *generator.Generator, scorer *scoring.Scorer,
	registry *health.Registry, prober *health.Prober, collab Collaborators, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		config:   cfg.withDefaults(),
		catalog:  cat,
		gen:      gen,
		scorer:   scorer,
		registry: registry,
		prober:   prober,
		collab:   collab,
		logger:   logger.With().Str("component", "pipeline").Logger(),
	}
}

// Initialize runs the one-shot probe sweep and reports whether the pipeline
// is fit to serve: at least half of the probed components must be healthy.
// Initialize may be called again after a failure.
func (o *Orchestrator) Initialize(ctx context.Context) bool {
	o.initAttempted.Store(true)

	healthy, total := o.prober.Sweep(ctx)
	ok := total > 0 && healthy*2 >= total
	o.initialized.Store(ok)

	if ok {
		metrics.PipelineInitialized.Set(1)
		o.logger.Info().Int("healthy", healthy).Int("total", total).Msg("pipeline initialized")
	} else {
		metrics.PipelineInitialized.Set(0)
		o.logger.Error().Int("healthy", healthy).Int("total", total).
			Msg("pipeline initialization failed, refusing to serve")
	}
	return ok
}

// Initialized reports whether the pipeline may serve requests. After a
// failed Initialize the answer can flip to true once the periodic prober
// records enough healthy components (degraded-start recovery); it never
// flips without an initialization attempt.
func (o *Orchestrator) Initialized() bool {
	if o.initialized.Load() {
		return true
	}
	if !o.initAttempted.Load() {
		return false
	}

	healthy, _, total := o.registry.Counts()
	if total > 0 && healthy*2 >= total {
		if o.initialized.CompareAndSwap(false, true) {
			metrics.PipelineInitialized.Set(1)
			o.logger.Info().Int("healthy", healthy).Int("total", total).
				Msg("pipeline recovered to initialized after degraded start")
		}
		return true
	}
	return false
}

// Recommend runs the full pipeline for one request. It returns
// ErrNotInitialized before initialization; afterwards it always returns a
// Result: collaborator failures degrade stages and unexpected panics are
// replaced by the synthetic fallback build.
func (o *Orchestrator) Recommend(ctx context.Context, req build.Request) (result *Result, err error) {
	if !o.Initialized() {
		metrics.RecommendationRequests.WithLabelValues("not_initialized").Inc()
		return nil, ErrNotInitialized
	}

	req = req.Normalized()
	start := time.Now()
	o.requestCount.Add(1)

	defer func() {
		if r := recover(); r != nil {
			o.errorCount.Add(1)
			o.fallbackCount.Add(1)
			o.logger.Error().
				Str("request_id", req.RequestID).
				Interface("panic", r).
				Msg("pipeline panicked, returning fallback build")
			metrics.RecommendationRequests.WithLabelValues("fallback").Inc()
			result = o.fallbackResult(req, fmt.Sprintf("pipeline failure: %v", r), start)
			err = nil
		}
		o.totalLatency.Add(int64(time.Since(start)))
		metrics.RecommendationDuration.Observe(time.Since(start).Seconds())
	}()

	r := newRun(req)

	o.stageGenerate(ctx, r)
	o.stageEnhance(ctx, r)
	o.stageValidate(ctx, r)
	recs := o.stageFinalize(ctx, r)

	outcome := "success"
	if len(recs) == 0 {
		outcome = "empty"
	}
	metrics.RecommendationRequests.WithLabelValues(outcome).Inc()

	o.logger.Info().
		Str("request_id", req.RequestID).
		Str("class", req.Class).
		Str("goal", string(req.Goal)).
		Int("builds", len(recs)).
		Bool("validated", r.validated).
		Bool("degraded", r.degraded()).
		Dur("duration", time.Since(start)).
		Msg("recommendation complete")

	return o.assembleResult(r, recs, start), nil
}

// assembleResult folds the run state into the caller-facing Result.
func (o *Orchestrator) assembleResult(r *run, recs []build.Recommendation, start time.Time) *Result {
	confidence := 0.0
	for i := range recs {
		confidence += recs[i].Score.Confidence
	}
	if len(recs) > 0 {
		confidence /= float64(len(recs))
	}

	return &Result{
		Builds:         recs,
		Confidence:     confidence,
		Validated:      r.validated,
		UsedComponents: r.used,
		Metadata: Metadata{
			RequestID:       r.req.RequestID,
			Degraded:        r.degraded(),
			Notes:           r.notes,
			Errors:          r.errors,
			CandidateCounts: r.counts,
			GeneratedAt:     time.Now(),
		},
		GenerationTime: time.Since(start),
	}
}

// Stats returns a snapshot of the cumulative counters.
func (o *Orchestrator) Stats() Stats {
	requests := o.requestCount.Load()
	errors := o.errorCount.Load()

	s := Stats{
		RequestCount:  requests,
		ErrorCount:    errors,
		FallbackCount: o.fallbackCount.Load(),
		SuccessRate:   1,
	}
	if requests > 0 {
		s.SuccessRate = float64(requests-errors) / float64(requests)
		s.AverageLatency = time.Duration(o.totalLatency.Load() / requests)
	}
	return s
}

// HealthCheck combines the registry snapshot with the counters.
func (o *Orchestrator) HealthCheck() HealthReport {
	return HealthReport{
		Status:      o.registry.Overall(),
		Initialized: o.Initialized(),
		Components:  o.registry.Snapshot(),
		Stats:       o.Stats(),
	}
}

// callCtx derives the per-collaborator call context.
func (o *Orchestrator) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, o.config.CallTimeout)
}

// run accumulates per-request pipeline state.
type run struct {
	req         build.Request
	candidates  []build.Candidate
	exportCodes map[string]string
	popularity  scoring.PopularityIndex
	used        []string
	notes       []string
	errors      []string
	counts      map[string]int
	validated   bool
}

func newRun(req build.Request) *run {
	return &run{
		req:         req,
		exportCodes: make(map[string]string),
		counts:      make(map[string]int, 4),
	}
}

// use records a collaborator or internal component as having contributed.
func (r *run) use(component string) {
	for _, have := range r.used {
		if have == component {
			return
		}
	}
	r.used = append(r.used, component)
}

func (r *run) note(format string, args ...interface{}) {
	r.notes = append(r.notes, fmt.Sprintf(format, args...))
}

func (r *run) fail(format string, args ...interface{}) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

// degraded reports whether any stage ran short of data.
func (r *run) degraded() bool {
	return len(r.notes) > 0 || len(r.errors) > 0
}

// endStage records the candidate pool size leaving a stage.
func (r *run) endStage(stage string, start time.Time) {
	r.counts[stage] = len(r.candidates)
	metrics.RecordStage(stage, time.Since(start), len(r.candidates))
}
