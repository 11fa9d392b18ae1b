// Theoryforge - ARPG Build Recommendation Engine
// Copyright 2026 Theoryforge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theoryforge/theoryforge

/*
Package metrics provides Prometheus metrics collection and export for observability.

# Overview

The package exposes package-level collectors for:
  - recommendation pipeline throughput, latency, and per-stage behavior
  - collaborator call outcomes, latency, and component health
  - circuit breaker state and transitions
  - price cache hit/miss rates
  - API endpoint latency and throughput

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:6112/metrics

# Usage

Collectors are registered via promauto at package load; callers record through
the exported variables or the Record* helpers:

	metrics.RecordStage("generate", elapsed, len(candidates))
	metrics.RecommendationRequests.WithLabelValues("success").Inc()
*/
package metrics
