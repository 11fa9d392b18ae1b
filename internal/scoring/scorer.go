// Theoryforge - ARPG Build Recommendation Engine
// Copyright 2026 Theoryforge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theoryforge/theoryforge

package scoring

import (
	"fmt"
	"strings"

	"github.com/theoryforge/theoryforge/internal/build"
)

// Elemental overcap bonus on the survivability criterion: one five-hundredths
// of a point per combined overcap percentage point, capped at +0.05 (reached
// at 25 combined points, e.g. 8-9 overcap on each element).
const (
	overcapBonusPerPoint = 0.002
	overcapBonusCap      = 0.05
)

// reasonFloor is the criterion score from which a criterion is named as a
// reason for recommending the build.
const reasonFloor = 0.7

// PopularityIndex maps lower-cased primary skill names to their meta
// popularity share in [0, 1]. A nil or empty index means no meta data was
// available and every skill scores neutral.
type PopularityIndex map[string]float64

// Lookup returns the popularity for a skill, neutral 0.5 when the index is
// empty, and 0 for skills the meta snapshot does not mention.
func (p PopularityIndex) Lookup(skill string) float64 {
	if len(p) == 0 {
		return 0.5
	}
	return clamp01(p[strings.ToLower(skill)])
}

// Scorer scores candidates over five weighted criteria and ranks them with a
// similarity-capped diversity pass.
//
// The total is a weighted sum over normalized weights:
//
//	total = w_damage * damage + w_surv * survivability + w_budget * budget +
//	        w_pop * popularity + w_ease * ease_of_use
//
// with every criterion mapped into [0, 1] first.
type Scorer struct {
	config  Config
	weights Weights
}

// NewScorer creates a scorer, filling defaults for zero-valued config fields.
// Weights are normalized once here; an all-zero weight set becomes equal
// weights.
func NewScorer(cfg Config) *Scorer {
	// Apply defaults
	if cfg.DamageBands.zero() {
		cfg.DamageBands = DefaultConfig().DamageBands
	}
	if cfg.SurvivalBands.zero() {
		cfg.SurvivalBands = DefaultConfig().SurvivalBands
	}
	if cfg.ReferenceBudget <= 0 {
		cfg.ReferenceBudget = DefaultReferenceBudget
	}
	if cfg.DiversityThreshold <= 0 {
		cfg.DiversityThreshold = DefaultDiversityThreshold
	}
	if cfg.DiversityLimit <= 0 {
		cfg.DiversityLimit = DefaultDiversityLimit
	}
	if cfg.FuzzyComplexityWindow <= 0 {
		cfg.FuzzyComplexityWindow = DefaultFuzzyComplexityWindow
	}

	return &Scorer{
		config:  cfg,
		weights: cfg.Weights.Normalize(),
	}
}

// Score assesses one candidate against the request. The returned score
// carries all five criteria, the weighted total, a confidence estimate, and
// a deterministic explanation.
func (s *Scorer) Score(c *build.Candidate, req build.Request, popularity PopularityIndex) build.Score {
	criteria := map[string]float64{
		build.CriterionDamage:        bandScore(c.Stats.DPS, s.config.DamageBands),
		build.CriterionSurvivability: s.survivabilityScore(c),
		build.CriterionBudget:        s.budgetScore(c.EstimatedCost, req.MaxBudget),
		build.CriterionPopularity:    popularity.Lookup(c.PrimarySkill),
		build.CriterionEaseOfUse:     easeOfUseScore(c),
	}

	weights := s.weights.ToMap()
	total := 0.0
	for name, value := range criteria {
		total += weights[name] * value
	}
	total = clamp01(total)

	explanation, reasons := explain(c.Name, criteria, total)

	return build.Score{
		Total:       total,
		Criteria:    criteria,
		Confidence:  s.confidence(c, criteria),
		Explanation: explanation,
		Reasons:     reasons,
	}
}

// bandScore maps a value onto a piecewise-linear ramp: 0 to 0.4 below the
// acceptable threshold, 0.4 to 0.7 up to good, 0.7 to 1.0 up to excellent,
// then flat at 1.0.
func bandScore(v float64, b Bands) float64 {
	switch {
	case v <= 0:
		return 0
	case v < b.Acceptable:
		return 0.4 * v / b.Acceptable
	case v < b.Good:
		return 0.4 + 0.3*(v-b.Acceptable)/(b.Good-b.Acceptable)
	case v < b.Excellent:
		return 0.7 + 0.3*(v-b.Good)/(b.Excellent-b.Good)
	default:
		return 1.0
	}
}

// survivabilityScore bands EHP and adds a small bonus for elemental overcap,
// which buys resistance headroom against curses and map mods.
func (s *Scorer) survivabilityScore(c *build.Candidate) float64 {
	score := bandScore(c.Stats.EHP, s.config.SurvivalBands)

	bonus := float64(c.Stats.ElementalOvercap()) * overcapBonusPerPoint
	if bonus > overcapBonusCap {
		bonus = overcapBonusCap
	}

	return clamp01(score + bonus)
}

// budgetScore rewards builds that leave budget headroom: a build at half the
// budget or less scores 1.0, one exactly on budget scores 0.4, and the score
// fades to 0 at double budget. With no budget in the request the configured
// reference budget is used.
func (s *Scorer) budgetScore(cost, maxBudget float64) float64 {
	budget := maxBudget
	if budget <= 0 {
		budget = s.config.ReferenceBudget
	}

	ratio := cost / budget
	switch {
	case ratio <= 0.5:
		return 1.0
	case ratio <= 1.0:
		return 1.0 - 1.2*(ratio-0.5)
	case ratio <= 2.0:
		return 0.4 - 0.4*(ratio-1.0)
	default:
		return 0
	}
}

// Ease-of-use scores per estimated complexity bucket.
const (
	easeSimple   = 1.0
	easeModerate = 0.7
	easeComplex  = 0.4
)

// easeOfUseScore maps the heuristic complexity bucket to a fixed score.
func easeOfUseScore(c *build.Candidate) float64 {
	switch complexityBucket(c) {
	case bucketSimple:
		return easeSimple
	case bucketModerate:
		return easeModerate
	default:
		return easeComplex
	}
}

// confidence is the unweighted mean of three signals: how much of the
// candidate's data is filled in, how much the criteria agree with each other,
// and whether the candidate passes structural validation.
func (s *Scorer) confidence(c *build.Candidate, criteria map[string]float64) float64 {
	completeness := dataCompleteness(c)
	agreement := 1.0 - criteriaVariance(criteria)

	structural := 0.3
	if c.Validate() == nil {
		structural = 0.9
	}

	return clamp01((completeness + agreement + structural) / 3.0)
}

// dataCompleteness returns the fraction of informative candidate fields that
// are populated.
func dataCompleteness(c *build.Candidate) float64 {
	checks := []bool{
		c.PrimarySkill != "",
		c.Ascendancy != "",
		len(c.SupportGems) > 0,
		len(c.KeyItems) > 0,
		len(c.Keystones) > 0,
		c.Stats.DPS > 0,
		c.Stats.EHP > 0,
		c.EstimatedCost > 0,
	}

	present := 0
	for _, ok := range checks {
		if ok {
			present++
		}
	}
	return float64(present) / float64(len(checks))
}

// criteriaVariance returns the population variance of the criterion scores.
// With all values in [0, 1] the variance cannot exceed 0.25.
func criteriaVariance(criteria map[string]float64) float64 {
	if len(criteria) == 0 {
		return 0
	}

	mean := 0.0
	for _, v := range criteria {
		mean += v
	}
	mean /= float64(len(criteria))

	variance := 0.0
	for _, v := range criteria {
		d := v - mean
		variance += d * d
	}
	return variance / float64(len(criteria))
}

// explain renders the deterministic explanation string and picks the reasons:
// every criterion at or above the reason floor in presentation order, or the
// single strongest criterion when none reaches it.
func explain(name string, criteria map[string]float64, total float64) (string, []string) {
	parts := make([]string, 0, len(criteria))
	reasons := make([]string, 0, len(criteria))
	best := ""
	bestValue := -1.0

	for _, criterion := range build.Criteria() {
		v := criteria[criterion]
		parts = append(parts, fmt.Sprintf("%s %.2f", criterion, v))
		if v >= reasonFloor {
			reasons = append(reasons, criterion)
		}
		if v > bestValue {
			best, bestValue = criterion, v
		}
	}

	if len(reasons) == 0 && best != "" {
		reasons = append(reasons, best)
	}

	explanation := fmt.Sprintf("%s scores %.2f (%s)", name, total, strings.Join(parts, ", "))
	return explanation, reasons
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
