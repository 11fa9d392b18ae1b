// Theoryforge - ARPG Build Recommendation Engine
// Copyright 2026 Theoryforge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theoryforge/theoryforge

package scoring

import (
	"fmt"
	"math"

	"github.com/theoryforge/theoryforge/internal/build"
)

// Defaults applied by DefaultConfig and, for zero-valued fields, by NewScorer.
const (
	// DefaultDiversityThreshold is the pairwise similarity at or above which
	// two builds count as near-duplicates during diversification.
	DefaultDiversityThreshold = 0.8

	// DefaultDiversityLimit caps how many builds the greedy diversity pass
	// selects before backfilling by score.
	DefaultDiversityLimit = 8

	// DefaultFuzzyComplexityWindow is how many ordinal steps the estimated
	// complexity bucket may deviate from the requested preference.
	DefaultFuzzyComplexityWindow = 1

	// DefaultReferenceBudget is the budget (in divines) the budget criterion
	// scores against when a request carries no MaxBudget.
	DefaultReferenceBudget = 50.0
)

// Weights distributes scoring emphasis across the five criteria. Weights are
// relative; consumers only ever use the Normalize()d form.
type Weights struct {
	Damage        float64 `json:"damage"`
	Survivability float64 `json:"survivability"`
	Budget        float64 `json:"budget"`
	Popularity    float64 `json:"popularity"`
	EaseOfUse     float64 `json:"ease_of_use"`
}

// DefaultWeights favors raw output, then staying alive, then affordability.
func DefaultWeights() Weights {
	return Weights{
		Damage:        0.30,
		Survivability: 0.25,
		Budget:        0.20,
		Popularity:    0.15,
		EaseOfUse:     0.10,
	}
}

// Sum returns the raw weight total.
func (w Weights) Sum() float64 {
	return w.Damage + w.Survivability + w.Budget + w.Popularity + w.EaseOfUse
}

// Normalize returns a copy scaled so the weights sum to 1.0. An all-zero or
// negative-sum weight set normalizes to equal weights.
func (w Weights) Normalize() Weights {
	sum := w.Sum()
	if sum <= 0 {
		equal := 1.0 / 5.0
		return Weights{
			Damage:        equal,
			Survivability: equal,
			Budget:        equal,
			Popularity:    equal,
			EaseOfUse:     equal,
		}
	}
	return Weights{
		Damage:        w.Damage / sum,
		Survivability: w.Survivability / sum,
		Budget:        w.Budget / sum,
		Popularity:    w.Popularity / sum,
		EaseOfUse:     w.EaseOfUse / sum,
	}
}

// ToMap returns the weights keyed by criterion name.
func (w Weights) ToMap() map[string]float64 {
	return map[string]float64{
		build.CriterionDamage:        w.Damage,
		build.CriterionSurvivability: w.Survivability,
		build.CriterionBudget:        w.Budget,
		build.CriterionPopularity:    w.Popularity,
		build.CriterionEaseOfUse:     w.EaseOfUse,
	}
}

// Bands are the thresholds of a piecewise-linear score ramp: values below
// Acceptable score under 0.4, values at Excellent and beyond score 1.0.
type Bands struct {
	Acceptable float64 `json:"acceptable"`
	Good       float64 `json:"good"`
	Excellent  float64 `json:"excellent"`
}

// valid reports whether the thresholds form a strictly increasing positive ramp.
func (b Bands) valid() bool {
	return b.Acceptable > 0 && b.Acceptable < b.Good && b.Good < b.Excellent
}

// zero reports whether the bands were left unset.
func (b Bands) zero() bool {
	return b.Acceptable == 0 && b.Good == 0 && b.Excellent == 0
}

// Config contains scorer and diversifier parameters.
type Config struct {
	// Weights distributes emphasis across the five criteria.
	Weights Weights `json:"weights"`

	// DamageBands are the DPS thresholds for the damage criterion.
	// Default: 100k / 500k / 2M.
	DamageBands Bands `json:"damage_bands"`

	// SurvivalBands are the EHP thresholds for the survivability criterion.
	// Default: 4k / 6.5k / 10k.
	SurvivalBands Bands `json:"survival_bands"`

	// ReferenceBudget is scored against when a request has no MaxBudget.
	// Default: 50 divines.
	ReferenceBudget float64 `json:"reference_budget"`

	// DiversityThreshold is the similarity at or above which a build is
	// skipped during the greedy diversity pass.
	// Default: 0.8.
	DiversityThreshold float64 `json:"diversity_threshold"`

	// DiversityLimit caps the greedy diversity pass.
	// Default: 8.
	DiversityLimit int `json:"diversity_limit"`

	// FuzzyComplexityWindow is the allowed ordinal distance between a
	// candidate's estimated complexity bucket and the requested preference.
	// Default: 1.
	FuzzyComplexityWindow int `json:"fuzzy_complexity_window"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Weights:               DefaultWeights(),
		DamageBands:           Bands{Acceptable: 100_000, Good: 500_000, Excellent: 2_000_000},
		SurvivalBands:         Bands{Acceptable: 4_000, Good: 6_500, Excellent: 10_000},
		ReferenceBudget:       DefaultReferenceBudget,
		DiversityThreshold:    DefaultDiversityThreshold,
		DiversityLimit:        DefaultDiversityLimit,
		FuzzyComplexityWindow: DefaultFuzzyComplexityWindow,
	}
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	for name, v := range c.Weights.ToMap() {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("weights.%s must be non-negative, got %f", name, v)
		}
	}
	if !c.DamageBands.valid() {
		return fmt.Errorf("damage_bands must be strictly increasing and positive, got %+v", c.DamageBands)
	}
	if !c.SurvivalBands.valid() {
		return fmt.Errorf("survival_bands must be strictly increasing and positive, got %+v", c.SurvivalBands)
	}
	if c.ReferenceBudget <= 0 {
		return fmt.Errorf("reference_budget must be positive, got %f", c.ReferenceBudget)
	}
	if c.DiversityThreshold <= 0 || c.DiversityThreshold > 1 {
		return fmt.Errorf("diversity_threshold must be in (0, 1], got %f", c.DiversityThreshold)
	}
	if c.DiversityLimit < 1 {
		return fmt.Errorf("diversity_limit must be positive, got %d", c.DiversityLimit)
	}
	if c.FuzzyComplexityWindow < 0 {
		return fmt.Errorf("fuzzy_complexity_window must be non-negative, got %d", c.FuzzyComplexityWindow)
	}
	return nil
}
