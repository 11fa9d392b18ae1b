// Theoryforge - ARPG Build Recommendation Engine
// Copyright 2026 Theoryforge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theoryforge/theoryforge

package health

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/theoryforge/theoryforge/internal/metrics"
	"github.com/theoryforge/theoryforge/internal/providers"
)

// Pinger is the probe surface every collaborator exposes. All provider
// clients and cache stores satisfy it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Target pairs a component name with the collaborator to probe.
type Target struct {
	Component Component
	Pinger    Pinger
}

// ProberConfig holds the sweep timing knobs.
type ProberConfig struct {
	// Interval between periodic sweeps. Default: 30s.
	Interval time.Duration

	// Timeout applied to each individual probe. Default: 5s.
	Timeout time.Duration

	// DegradedLatency is the probe latency above which a succeeding
	// component is marked degraded. Default: 2s.
	DegradedLatency time.Duration
}

func (c ProberConfig) withDefaults() ProberConfig {
	if c.Interval <= 0 {
		c.Interval = 30 * time.Second
	}
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}
	if c.DegradedLatency <= 0 {
		c.DegradedLatency = 2 * time.Second
	}
	return c
}

// Prober checks collaborator health and records the results in the
// registry. It runs once for the initialization sweep and then periodically
// under Suture supervision.
type Prober struct {
	registry *Registry
	targets  []Target
	config   ProberConfig
	logger   zerolog.Logger
	name     string
}

// NewProber creates a prober over the given targets. Targets are swept in
// canonical probe order regardless of registration order.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewProber(registry *Registry, targets []Target, cfg ProberConfig, logger zerolog.Logger) *Prober {
	return &Prober{
		registry: registry,
		targets:  orderTargets(targets),
		config:   cfg.withDefaults(),
		logger:   logger.With().Str("component", "health-prober").Logger(),
		name:     "health-prober",
	}
}

// orderTargets sorts targets into probe order: cheap local dependencies
// first, the engine last. Unknown components keep their relative order at
// the end.
func orderTargets(targets []Target) []Target {
	rank := make(map[Component]int, len(targets))
	for i, c := range ProbeOrder() {
		rank[c] = i
	}

	ordered := make([]Target, 0, len(targets))
	for _, want := range ProbeOrder() {
		for _, t := range targets {
			if t.Component == want {
				ordered = append(ordered, t)
			}
		}
	}
	for _, t := range targets {
		if _, known := rank[t.Component]; !known {
			ordered = append(ordered, t)
		}
	}
	return ordered
}

// Sweep probes every target once and returns how many reported healthy out
// of the total probed. Individual failures are tolerated; they only lower
// the count.
func (p *Prober) Sweep(ctx context.Context) (healthy, total int) {
	start := time.Now()

	for _, t := range p.targets {
		total++
		if p.probe(ctx, t) == StatusHealthy {
			healthy++
		}
	}

	p.logger.Debug().
		Int("healthy", healthy).
		Int("total", total).
		Dur("duration", time.Since(start)).
		Msg("probe sweep complete")

	return healthy, total
}

// probe runs a single health check, classifies the outcome, and records it.
//
// Classification:
//   - success within the latency threshold -> healthy
//   - success above the latency threshold  -> degraded
//   - timeout or ErrUnavailable            -> unavailable
//   - any other error                      -> error
func (p *Prober) probe(ctx context.Context, t Target) Status {
	probeCtx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	start := time.Now()
	err := t.Pinger.Ping(probeCtx)
	latency := time.Since(start)

	var status Status
	switch {
	case err == nil && latency > p.config.DegradedLatency:
		status = StatusDegraded
	case err == nil:
		status = StatusHealthy
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, providers.ErrUnavailable):
		status = StatusUnavailable
	default:
		status = StatusError
	}

	p.registry.Set(t.Component, status, latency, err)
	metrics.RecordComponentHealth(string(t.Component), float64(status))

	if status.Usable() {
		p.logger.Debug().
			Str("target", string(t.Component)).
			Str("status", status.String()).
			Dur("latency", latency).
			Msg("probe ok")
	} else {
		p.logger.Warn().
			Str("target", string(t.Component)).
			Str("status", status.String()).
			Dur("latency", latency).
			Err(err).
			Msg("probe failed")
	}

	return status
}

// Serve implements the suture.Service interface. It runs an immediate sweep
// and then re-probes on the configured interval until the context is
// cancelled.
func (p *Prober) Serve(ctx context.Context) error {
	p.logger.Info().
		Int("targets", len(p.targets)).
		Dur("interval", p.config.Interval).
		Msg("health prober starting")

	p.Sweep(ctx)

	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info().Msg("health prober shutting down")
			return ctx.Err()

		case <-ticker.C:
			p.Sweep(ctx)
		}
	}
}

// String returns the service name for logging.
func (p *Prober) String() string {
	return p.name
}
