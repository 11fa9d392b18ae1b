// Theoryforge - ARPG Build Recommendation Engine
// Copyright 2026 Theoryforge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theoryforge/theoryforge

package models

import (
	"time"

	"github.com/theoryforge/theoryforge/internal/build"
	"github.com/theoryforge/theoryforge/internal/pipeline"
)

// RecommendationRequest is the POST /api/v1/recommendations body. Every field
// is optional; an empty body asks for recommendations with no preference.
type RecommendationRequest struct {
	// Class restricts recommendations to one character class.
	Class string `json:"class" validate:"omitempty,max=40"`

	// Goal is the desired playstyle (clear_speed, bossing, league_start,
	// tanky, max_damage, balanced).
	Goal string `json:"goal" validate:"omitempty,build_goal"`

	// MaxBudget is the spending ceiling in chaos-equivalent currency.
	MaxBudget float64 `json:"max_budget" validate:"omitempty,gte=0"`

	// MinDPS and MinEHP are hard floors on the build's computed stats.
	MinDPS float64 `json:"min_dps" validate:"omitempty,gte=0"`
	MinEHP float64 `json:"min_ehp" validate:"omitempty,gte=0"`

	// RequireCappedRes demands all three elemental resistances at the cap.
	RequireCappedRes bool `json:"require_capped_res"`

	// ComplexityPreference centers the fuzzy complexity filter
	// (beginner, intermediate, advanced, expert).
	ComplexityPreference string `json:"complexity_preference" validate:"omitempty,complexity_tier"`

	// PreferredDamageTypes biases generation toward these damage flavors.
	PreferredDamageTypes []string `json:"preferred_damage_types" validate:"omitempty,max=5,dive,damage_type"`

	// ForbiddenItems excludes builds keyed on any of these uniques.
	ForbiddenItems []string `json:"forbidden_items" validate:"omitempty,max=20,dive,max=80"`

	// MaxResults bounds the response (default 5).
	MaxResults int `json:"max_results" validate:"omitempty,gte=1,lte=20"`

	// CandidateCount sizes the generation pool (default 12).
	CandidateCount int `json:"candidate_count" validate:"omitempty,gte=1,lte=50"`
}

// ToBuildRequest converts the wire shape into the pipeline's domain request.
func (r *RecommendationRequest) ToBuildRequest(requestID string) build.Request {
	damageTypes := make([]build.DamageType, len(r.PreferredDamageTypes))
	for i, dt := range r.PreferredDamageTypes {
		damageTypes[i] = build.DamageType(dt)
	}

	return build.Request{
		RequestID:            requestID,
		Class:                r.Class,
		Goal:                 build.Goal(r.Goal),
		MaxBudget:            r.MaxBudget,
		MinDPS:               r.MinDPS,
		MinEHP:               r.MinEHP,
		RequireCappedRes:     r.RequireCappedRes,
		ComplexityPreference: r.ComplexityPreference,
		PreferredDamageTypes: damageTypes,
		ForbiddenItems:       r.ForbiddenItems,
		MaxResults:           r.MaxResults,
		CandidateCount:       r.CandidateCount,
	}
}

// StatsResponse is the GET /api/v1/stats payload: the orchestrator counters
// plus process uptime.
type StatsResponse struct {
	Pipeline  pipeline.Stats `json:"pipeline"`
	StartedAt time.Time      `json:"started_at"`
	Uptime    string         `json:"uptime"`
}

// TemplateListResponse is the GET /api/v1/templates payload.
type TemplateListResponse struct {
	Templates interface{} `json:"templates"`
	Classes   []string    `json:"classes,omitempty"`
	Count     int         `json:"count"`
}
