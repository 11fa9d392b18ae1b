// Theoryforge - ARPG Build Recommendation Engine
// Copyright 2026 Theoryforge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theoryforge/theoryforge

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/theoryforge/theoryforge/internal/build"
	"github.com/theoryforge/theoryforge/internal/catalog"
	"github.com/theoryforge/theoryforge/internal/health"
	"github.com/theoryforge/theoryforge/internal/logging"
	"github.com/theoryforge/theoryforge/internal/models"
	"github.com/theoryforge/theoryforge/internal/pipeline"
	"github.com/theoryforge/theoryforge/internal/validation"
)

// maxRequestBody bounds the recommendation request body.
const maxRequestBody = 1 << 20 // 1 MiB

// Orchestrator is the slice of the pipeline the handlers need.
type Orchestrator interface {
	Recommend(ctx context.Context, req build.Request) (*pipeline.Result, error)
	Initialized() bool
	Stats() pipeline.Stats
	HealthCheck() pipeline.HealthReport
}

// Handler serves the API endpoints.
type Handler struct {
	orchestrator Orchestrator
	catalog      *catalog.Catalog
	startTime    time.Time
}

// NewHandler creates the handler set.
func NewHandler(orchestrator Orchestrator, cat *catalog.Catalog) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		catalog:      cat,
		startTime:    time.Now(),
	}
}

// Recommend handles POST /api/v1/recommendations. Collaborator failures fold
// into the result's confidence and metadata; the only error statuses are
// malformed input (400) and an uninitialized pipeline (503).
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req models.RecommendationRequest
	body := io.LimitReader(r.Body, maxRequestBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		rw.BadRequest("Invalid JSON body: " + err.Error())
		return
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	requestID := logging.RequestIDFromContext(r.Context())
	result, err := h.orchestrator.Recommend(r.Context(), req.ToBuildRequest(requestID))
	if err != nil {
		if errors.Is(err, pipeline.ErrNotInitialized) {
			rw.ServiceUnavailable(models.ErrCodeNotInitialized, "Recommendation pipeline is not initialized")
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Msg("Recommendation failed")
		rw.InternalError("Recommendation failed")
		return
	}

	rw.Success(result)
}

// Templates handles GET /api/v1/templates.
func (h *Handler) Templates(w http.ResponseWriter, r *http.Request) {
	templates := h.catalog.All()
	NewResponseWriter(w, r).Success(models.TemplateListResponse{
		Templates: templates,
		Classes:   h.catalog.Classes(),
		Count:     len(templates),
	})
}

// TemplatesByClass handles GET /api/v1/templates/{class}.
func (h *Handler) TemplatesByClass(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	class := chi.URLParam(r, "class")
	if !h.catalog.HasClass(class) {
		rw.NotFound("Unknown class: " + class)
		return
	}

	templates := h.catalog.ByClass(class)
	rw.Success(models.TemplateListResponse{
		Templates: templates,
		Count:     len(templates),
	})
}

// Stats handles GET /api/v1/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(h.startTime)
	NewResponseWriter(w, r).Success(models.StatsResponse{
		Pipeline:  h.orchestrator.Stats(),
		StartedAt: h.startTime,
		Uptime:    uptime.Round(time.Second).String(),
	})
}

// Health handles GET /api/v1/health with the full component report. Always
// 200; the report body carries the classification.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.orchestrator.HealthCheck())
}

// HealthLive handles GET /api/v1/health/live. Process liveness only.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "alive"})
}

// HealthReady handles GET /api/v1/health/ready. Ready means the pipeline is
// initialized and the component set is not unhealthy overall.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	report := h.orchestrator.HealthCheck()
	ready := report.Initialized && report.Status != health.OverallUnhealthy
	if !ready {
		rw.ServiceUnavailable(models.ErrCodeServiceUnavailable, "Not ready")
		return
	}

	rw.Success(map[string]interface{}{
		"status":      "ready",
		"initialized": report.Initialized,
		"overall":     report.Status,
	})
}
