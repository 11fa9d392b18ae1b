// Theoryforge - ARPG Build Recommendation Engine
// Copyright 2026 Theoryforge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theoryforge/theoryforge

package scoring

import (
	"sort"
	"strings"

	"github.com/theoryforge/theoryforge/internal/build"
)

// Fixed component values inside the similarity metric.
const (
	goalAffinityRelated = 0.5
)

// goalAffinity pairs goals that overlap in practice: a bossing build clears
// reasonably and a league starter is budget-shaped. Keys are ordered pairs;
// lookup checks both orders.
var goalAffinity = map[[2]build.Goal]bool{
	{build.GoalBossing, build.GoalMaxDamage}:      true,
	{build.GoalClearSpeed, build.GoalLeagueStart}: true,
	{build.GoalTanky, build.GoalBalanced}:         true,
	{build.GoalLeagueStart, build.GoalBalanced}:   true,
}

// goalMatch gives full credit for equal goals, partial credit for related
// pairs, and nothing otherwise.
func goalMatch(a, b build.Goal) float64 {
	if a == b {
		return 1.0
	}
	if goalAffinity[[2]build.Goal{a, b}] || goalAffinity[[2]build.Goal{b, a}] {
		return goalAffinityRelated
	}
	return 0
}

// Similarity measures how interchangeable two builds are, in [0, 1]: the mean
// of class match, primary-skill match, goal match with partial credit, and
// the cost ratio min/max. Two near-identical builds at nearly the same price
// score close to 1 and compete for one diversity slot.
func Similarity(a, b *build.Candidate) float64 {
	classMatch := 0.0
	if strings.EqualFold(a.Class, b.Class) {
		classMatch = 1.0
	}

	skillMatch := 0.0
	if strings.EqualFold(a.PrimarySkill, b.PrimarySkill) {
		skillMatch = 1.0
	}

	costRatio := 1.0 // both free counts as identical
	lo, hi := a.EstimatedCost, b.EstimatedCost
	if lo > hi {
		lo, hi = hi, lo
	}
	if hi > 0 {
		costRatio = lo / hi
	}

	return (classMatch + skillMatch + goalMatch(a.Goal, b.Goal) + costRatio) / 4.0
}

// Heuristic complexity buckets, estimated from observable build size rather
// than the template tier so engine-sourced candidates bucket the same way.
type bucket int

const (
	bucketSimple bucket = iota
	bucketModerate
	bucketComplex
)

// Bucket thresholds: a build earns one point per loaded dimension.
const (
	complexSupportGems  = 5
	moderateSupportGems = 4
	complexKeyItems     = 4
	moderateKeyItems    = 2
	complexCost         = 50.0
	moderateCost        = 10.0
)

// complexityBucket estimates a candidate's piloting demand from its support
// count, item count, and cost.
func complexityBucket(c *build.Candidate) bucket {
	points := 0
	switch {
	case len(c.SupportGems) >= complexSupportGems:
		points += 2
	case len(c.SupportGems) >= moderateSupportGems:
		points++
	}
	switch {
	case len(c.KeyItems) >= complexKeyItems:
		points += 2
	case len(c.KeyItems) >= moderateKeyItems:
		points++
	}
	switch {
	case c.EstimatedCost >= complexCost:
		points += 2
	case c.EstimatedCost >= moderateCost:
		points++
	}

	switch {
	case points >= 4:
		return bucketComplex
	case points >= 2:
		return bucketModerate
	default:
		return bucketSimple
	}
}

// bucketForPreference maps a requested complexity tier onto the 3-bucket
// estimate: beginner wants simple, intermediate moderate, everything above
// lands in complex.
func bucketForPreference(tier build.Complexity) bucket {
	switch tier {
	case build.ComplexityBeginner:
		return bucketSimple
	case build.ComplexityIntermediate:
		return bucketModerate
	default:
		return bucketComplex
	}
}

// passesHardFilters applies the request's non-negotiable requirements.
func (s *Scorer) passesHardFilters(c *build.Candidate, req build.Request) bool {
	if req.Class != "" && !strings.EqualFold(c.Class, req.Class) {
		return false
	}
	if req.MaxBudget > 0 && c.EstimatedCost > req.MaxBudget {
		return false
	}
	if req.MinDPS > 0 && c.Stats.DPS < req.MinDPS {
		return false
	}
	if req.MinEHP > 0 && c.Stats.EHP < req.MinEHP {
		return false
	}
	if req.RequireCappedRes && !c.Stats.ResistanceCapped() {
		return false
	}
	if req.ComplexityPreference != "" {
		tier, err := build.ParseComplexity(req.ComplexityPreference)
		if err == nil {
			want := bucketForPreference(tier)
			have := complexityBucket(c)
			diff := int(have) - int(want)
			if diff < 0 {
				diff = -diff
			}
			if diff > s.config.FuzzyComplexityWindow {
				return false
			}
		}
	}
	return true
}

// Rank filters, scores, sorts, and diversifies the candidates, returning at
// most req.MaxResults recommendations ordered by total score, ties broken by
// confidence.
//
// Diversification is greedy: the top build is always kept, each later build
// only while its similarity to every kept build stays under the configured
// threshold, up to the diversity limit; if that leaves fewer than MaxResults,
// the skipped builds backfill in score order.
func (s *Scorer) Rank(candidates []build.Candidate, req build.Request, popularity PopularityIndex) []build.Recommendation {
	req = req.Normalized()

	scored := make([]build.Recommendation, 0, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		if !s.passesHardFilters(c, req) {
			continue
		}
		scored = append(scored, build.Recommendation{
			Build: *c,
			Score: s.Score(c, req, popularity),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score.Total != scored[j].Score.Total {
			return scored[i].Score.Total > scored[j].Score.Total
		}
		return scored[i].Score.Confidence > scored[j].Score.Confidence
	})

	return s.diversify(scored, req.MaxResults)
}

// diversify runs the greedy similarity pass and backfills from the skipped
// builds when the pass kept fewer than wanted.
func (s *Scorer) diversify(scored []build.Recommendation, wanted int) []build.Recommendation {
	if wanted <= 0 || len(scored) == 0 {
		return []build.Recommendation{}
	}
	if wanted > len(scored) {
		wanted = len(scored)
	}

	kept := make([]build.Recommendation, 0, wanted)
	skipped := make([]build.Recommendation, 0, len(scored))

	for i := range scored {
		if len(kept) >= wanted || len(kept) >= s.config.DiversityLimit {
			skipped = append(skipped, scored[i])
			continue
		}
		if len(kept) == 0 {
			kept = append(kept, scored[i])
			continue
		}

		distinct := true
		for j := range kept {
			if Similarity(&scored[i].Build, &kept[j].Build) >= s.config.DiversityThreshold {
				distinct = false
				break
			}
		}
		if distinct {
			kept = append(kept, scored[i])
		} else {
			skipped = append(skipped, scored[i])
		}
	}

	// Backfill preserves score order; skipped builds were appended in order.
	for i := 0; len(kept) < wanted && i < len(skipped); i++ {
		kept = append(kept, skipped[i])
	}

	// The backfill can interleave scores out of order; restore the contract.
	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Score.Total != kept[j].Score.Total {
			return kept[i].Score.Total > kept[j].Score.Total
		}
		return kept[i].Score.Confidence > kept[j].Score.Confidence
	})

	return kept
}
