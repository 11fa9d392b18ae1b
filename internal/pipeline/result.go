// Theoryforge - ARPG Build Recommendation Engine
// Copyright 2026 Theoryforge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theoryforge/theoryforge

package pipeline

import (
	"time"

	"github.com/theoryforge/theoryforge/internal/build"
	"github.com/theoryforge/theoryforge/internal/health"
)

// Pipeline stage names, used in metadata candidate counts and metrics labels.
const (
	StageGenerate = "generate"
	StageEnhance  = "enhance"
	StageValidate = "validate"
	StageFinalize = "finalize"
)

// Metadata describes how a result was produced: which degradations occurred,
// how the candidate pool evolved, and whether the fallback path fired.
type Metadata struct {
	RequestID string `json:"request_id"`

	// Fallback is set when the pipeline failed unrecoverably and the result
	// contains the single synthetic default build.
	Fallback bool `json:"fallback"`

	// Degraded is set when any stage was skipped or lost a collaborator
	// mid-run. The result is still genuine, just produced with less data.
	Degraded bool `json:"degraded"`

	// Notes records stage-level degradations in occurrence order.
	Notes []string `json:"notes,omitempty"`

	// Errors records collaborator failures caught during the run.
	Errors []string `json:"errors,omitempty"`

	// CandidateCounts is the candidate pool size after each stage.
	CandidateCounts map[string]int `json:"candidate_counts,omitempty"`

	GeneratedAt time.Time `json:"generated_at"`
}

// Result is what every Recommend call returns. Lower-level failures fold
// into Metadata and Confidence; the shape never changes.
type Result struct {
	Builds         []build.Recommendation `json:"builds"`
	Confidence     float64                `json:"confidence"`
	Validated      bool                   `json:"validated"`
	UsedComponents []string               `json:"used_components,omitempty"`
	Metadata       Metadata               `json:"metadata"`
	GenerationTime time.Duration          `json:"generation_time"`
}

// Stats is a snapshot of the orchestrator's cumulative counters.
type Stats struct {
	RequestCount   int64         `json:"request_count"`
	ErrorCount     int64         `json:"error_count"`
	FallbackCount  int64         `json:"fallback_count"`
	SuccessRate    float64       `json:"success_rate"`
	AverageLatency time.Duration `json:"average_latency"`
}

// HealthReport combines the component registry snapshot with the pipeline
// counters into one health answer.
type HealthReport struct {
	Status      health.OverallStatus `json:"status"`
	Initialized bool                 `json:"initialized"`
	Components  []health.Record      `json:"components"`
	Stats       Stats                `json:"stats"`
}
