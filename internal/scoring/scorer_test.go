// Theoryforge - ARPG Build Recommendation Engine
// Copyright 2026 Theoryforge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theoryforge/theoryforge

package scoring

import (
	"fmt"
	"math"
	"testing"

	"github.com/theoryforge/theoryforge/internal/build"
)

const epsilon = 1e-9

func cappedStats(dps, ehp float64) build.Stats {
	return build.Stats{
		DPS:          dps,
		EHP:          ehp,
		Life:         ehp,
		FireRes:      75,
		ColdRes:      75,
		LightningRes: 75,
		ChaosRes:     -20,
	}
}

func testCandidate(name, skill string, cost float64) build.Candidate {
	return build.Candidate{
		Name:          name,
		Class:         "Ranger",
		Level:         90,
		Goal:          build.GoalClearSpeed,
		PrimarySkill:  skill,
		SupportGems:   []string{"Mirage Archer", "Chain", "Added Cold Damage"},
		KeyItems:      []string{"Windripper"},
		Stats:         cappedStats(500_000, 6_000),
		EstimatedCost: cost,
		Currency:      build.DefaultCurrency,
		Source:        build.SourceTemplate,
	}
}

func TestWeightsNormalizeSumsToOne(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   Weights
	}{
		{"defaults", DefaultWeights()},
		{"skewed", Weights{Damage: 10, Survivability: 1, Budget: 0.5, Popularity: 0, EaseOfUse: 3}},
		{"tiny", Weights{Damage: 1e-6, Survivability: 2e-6, Budget: 3e-6, Popularity: 4e-6, EaseOfUse: 5e-6}},
		{"all_zero", Weights{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := tc.in.Normalize()
			if diff := math.Abs(got.Sum() - 1.0); diff > epsilon {
				t.Errorf("Normalize().Sum() = %v, want 1.0 +- %v", got.Sum(), epsilon)
			}
		})
	}
}

func TestWeightsNormalizeZeroBecomesEqual(t *testing.T) {
	t.Parallel()

	got := Weights{}.Normalize()
	for name, v := range got.ToMap() {
		if math.Abs(v-0.2) > epsilon {
			t.Errorf("zero weights normalized %s = %v, want 0.2", name, v)
		}
	}
}

func TestBandScore(t *testing.T) {
	t.Parallel()

	b := Bands{Acceptable: 100, Good: 500, Excellent: 2000}
	cases := []struct {
		value float64
		want  float64
	}{
		{0, 0},
		{-5, 0},
		{50, 0.2},
		{100, 0.4},
		{300, 0.55},
		{500, 0.7},
		{2000, 1.0},
		{9999, 1.0},
	}

	for _, tc := range cases {
		if got := bandScore(tc.value, b); math.Abs(got-tc.want) > 1e-6 {
			t.Errorf("bandScore(%v) = %v, want %v", tc.value, got, tc.want)
		}
	}
}

func TestBudgetScoreRewardsHeadroom(t *testing.T) {
	t.Parallel()

	s := NewScorer(DefaultConfig())
	cases := []struct {
		cost, budget, want float64
	}{
		{5, 10, 1.0},   // half budget
		{10, 10, 0.4},  // exactly on budget
		{20, 10, 0},    // double budget
		{30, 10, 0},    // beyond double
	}

	for _, tc := range cases {
		if got := s.budgetScore(tc.cost, tc.budget); math.Abs(got-tc.want) > 1e-6 {
			t.Errorf("budgetScore(%v, %v) = %v, want %v", tc.cost, tc.budget, got, tc.want)
		}
	}

	// No budget in the request falls back to the reference budget.
	if got := s.budgetScore(25, 0); math.Abs(got-1.0) > 1e-6 {
		t.Errorf("budgetScore(25, unset) = %v, want 1.0 against reference budget 50", got)
	}
}

func TestScoreCarriesAllCriteria(t *testing.T) {
	t.Parallel()

	s := NewScorer(DefaultConfig())
	c := testCandidate("Test Build", "Tornado Shot", 8)
	score := s.Score(&c, build.Request{Class: "Ranger", MaxBudget: 20}, nil)

	if len(score.Criteria) != 5 {
		t.Fatalf("Score has %d criteria, want 5", len(score.Criteria))
	}
	for _, criterion := range build.Criteria() {
		v, ok := score.Criteria[criterion]
		if !ok {
			t.Errorf("criterion %q missing", criterion)
		}
		if v < 0 || v > 1 {
			t.Errorf("criterion %q = %v outside [0, 1]", criterion, v)
		}
	}
	if score.Total < 0 || score.Total > 1 {
		t.Errorf("Total = %v outside [0, 1]", score.Total)
	}
	if score.Confidence < 0 || score.Confidence > 1 {
		t.Errorf("Confidence = %v outside [0, 1]", score.Confidence)
	}
	if score.Explanation == "" {
		t.Error("Explanation is empty")
	}
	if len(score.Reasons) == 0 {
		t.Error("Reasons is empty")
	}
}

func TestPopularityIndexLookup(t *testing.T) {
	t.Parallel()

	var empty PopularityIndex
	if got := empty.Lookup("Tornado Shot"); got != 0.5 {
		t.Errorf("empty index Lookup = %v, want neutral 0.5", got)
	}

	idx := PopularityIndex{"tornado shot": 0.8}
	if got := idx.Lookup("Tornado Shot"); got != 0.8 {
		t.Errorf("Lookup is not case-insensitive: got %v, want 0.8", got)
	}
	if got := idx.Lookup("Unknown Skill"); got != 0 {
		t.Errorf("Lookup of unlisted skill = %v, want 0", got)
	}
}

func TestSimilarityNearDuplicates(t *testing.T) {
	t.Parallel()

	a := testCandidate("A", "Tornado Shot", 5)
	b := testCandidate("B", "Tornado Shot", 5.1)

	if sim := Similarity(&a, &b); sim < 0.9 {
		t.Errorf("Similarity of near-duplicates = %v, want >= 0.9", sim)
	}
}

func TestSimilarityComponents(t *testing.T) {
	t.Parallel()

	base := testCandidate("Base", "Tornado Shot", 10)

	differentSkill := testCandidate("Other", "Lightning Arrow", 10)
	if sim := Similarity(&base, &differentSkill); sim != 0.75 {
		t.Errorf("Similarity with different skill = %v, want 0.75", sim)
	}

	differentClass := testCandidate("Other", "Tornado Shot", 10)
	differentClass.Class = "Witch"
	if sim := Similarity(&base, &differentClass); sim != 0.75 {
		t.Errorf("Similarity with different class = %v, want 0.75", sim)
	}

	relatedGoal := testCandidate("Other", "Tornado Shot", 10)
	relatedGoal.Goal = build.GoalLeagueStart
	want := (1.0 + 1.0 + 0.5 + 1.0) / 4.0
	if sim := Similarity(&base, &relatedGoal); math.Abs(sim-want) > 1e-9 {
		t.Errorf("Similarity with related goal = %v, want %v", sim, want)
	}

	bothFree := testCandidate("Other", "Tornado Shot", 0)
	freeBase := testCandidate("Base", "Tornado Shot", 0)
	if sim := Similarity(&freeBase, &bothFree); sim != 1.0 {
		t.Errorf("Similarity of two zero-cost twins = %v, want 1.0", sim)
	}
}

func TestRankBoundedAndSorted(t *testing.T) {
	t.Parallel()

	s := NewScorer(DefaultConfig())
	candidates := make([]build.Candidate, 0, 20)
	for i := 0; i < 20; i++ {
		c := testCandidate(fmt.Sprintf("Build %d", i), fmt.Sprintf("Skill %d", i), float64(2+i))
		c.Stats = cappedStats(float64(100_000*(i+1)), float64(4_000+300*i))
		c.Stats.Life = c.Stats.EHP
		candidates = append(candidates, c)
	}

	req := build.Request{Class: "Ranger", MaxResults: 5}
	got := s.Rank(candidates, req, nil)

	if len(got) > 5 {
		t.Fatalf("Rank returned %d results, want <= 5", len(got))
	}
	for i := 1; i < len(got); i++ {
		prev, cur := got[i-1].Score, got[i].Score
		if cur.Total > prev.Total {
			t.Errorf("results out of order at %d: %v before %v", i, prev.Total, cur.Total)
		}
		if cur.Total == prev.Total && cur.Confidence > prev.Confidence {
			t.Errorf("tie at %d not broken by confidence", i)
		}
	}
}

func TestRankHardFilters(t *testing.T) {
	t.Parallel()

	s := NewScorer(DefaultConfig())
	wrongClass := testCandidate("Wrong Class", "Spark", 5)
	wrongClass.Class = "Witch"
	tooPricey := testCandidate("Too Pricey", "Tornado Shot", 50)
	tooWeak := testCandidate("Too Weak", "Lightning Arrow", 5)
	tooWeak.Stats = cappedStats(50_000, 6_000)
	uncapped := testCandidate("Uncapped", "Ice Shot", 5)
	uncapped.Stats.FireRes = 40
	keeper := testCandidate("Keeper", "Rain of Arrows", 5)

	req := build.Request{
		Class:            "Ranger",
		MaxBudget:        20,
		MinDPS:           200_000,
		RequireCappedRes: true,
	}
	got := s.Rank([]build.Candidate{wrongClass, tooPricey, tooWeak, uncapped, keeper}, req, nil)

	if len(got) != 1 {
		t.Fatalf("Rank returned %d results, want 1", len(got))
	}
	if got[0].Build.Name != "Keeper" {
		t.Errorf("Rank kept %q, want Keeper", got[0].Build.Name)
	}
}

func TestRankDiversificationSuppressesDuplicates(t *testing.T) {
	t.Parallel()

	s := NewScorer(DefaultConfig())

	// Two near-identical builds plus distinct alternatives. Only one of the
	// twins may survive while distinct candidates remain.
	twinA := testCandidate("Twin A", "Tornado Shot", 5)
	twinB := testCandidate("Twin B", "Tornado Shot", 5.1)
	other1 := testCandidate("Other 1", "Lightning Arrow", 12)
	other1.Goal = build.GoalBossing
	other2 := testCandidate("Other 2", "Ice Shot", 25)
	other2.Goal = build.GoalTanky

	req := build.Request{Class: "Ranger", MaxResults: 3}
	got := s.Rank([]build.Candidate{twinA, twinB, other1, other2}, req, nil)

	if len(got) != 3 {
		t.Fatalf("Rank returned %d results, want 3", len(got))
	}

	twins := 0
	for _, rec := range got {
		if rec.Build.PrimarySkill == "Tornado Shot" {
			twins++
		}
	}
	if twins > 1 {
		t.Errorf("both near-duplicate twins survived diversification with distinct candidates available")
	}
}

func TestRankBackfillsWhenAllSimilar(t *testing.T) {
	t.Parallel()

	s := NewScorer(DefaultConfig())

	// Every candidate is a near-duplicate; backfill must still fill up to
	// MaxResults rather than returning a single build.
	candidates := make([]build.Candidate, 0, 6)
	for i := 0; i < 6; i++ {
		candidates = append(candidates, testCandidate(fmt.Sprintf("Clone %d", i), "Tornado Shot", 5+0.01*float64(i)))
	}

	got := s.Rank(candidates, build.Request{Class: "Ranger", MaxResults: 4}, nil)
	if len(got) != 4 {
		t.Errorf("Rank returned %d results, want 4 via backfill", len(got))
	}
}

func TestRankDiversityProperty(t *testing.T) {
	t.Parallel()

	s := NewScorer(DefaultConfig())
	skills := []string{"Tornado Shot", "Lightning Arrow", "Ice Shot", "Rain of Arrows",
		"Toxic Rain", "Caustic Arrow", "Explosive Arrow", "Scourge Arrow", "Split Arrow", "Burning Arrow"}
	goals := []build.Goal{build.GoalClearSpeed, build.GoalBossing, build.GoalTanky, build.GoalMaxDamage}

	candidates := make([]build.Candidate, 0, len(skills))
	for i, skill := range skills {
		c := testCandidate(fmt.Sprintf("Build %d", i), skill, float64(3+7*i))
		c.Goal = goals[i%len(goals)]
		candidates = append(candidates, c)
	}

	got := s.Rank(candidates, build.Request{Class: "Ranger", MaxResults: 8}, nil)
	for i := 0; i < len(got); i++ {
		for j := i + 1; j < len(got); j++ {
			if sim := Similarity(&got[i].Build, &got[j].Build); sim >= DefaultDiversityThreshold {
				t.Errorf("kept builds %q and %q have similarity %v >= %v without backfill pressure",
					got[i].Build.Name, got[j].Build.Name, sim, DefaultDiversityThreshold)
			}
		}
	}
}

func TestRankFuzzyComplexityFilter(t *testing.T) {
	t.Parallel()

	s := NewScorer(DefaultConfig())

	simple := testCandidate("Simple", "Tornado Shot", 3)
	simple.SupportGems = []string{"Pierce"}
	simple.KeyItems = nil

	complexBuild := testCandidate("Complex", "Lightning Arrow", 120)
	complexBuild.SupportGems = []string{"a", "b", "c", "d", "e", "f"}
	complexBuild.KeyItems = []string{"w", "x", "y", "z"}

	req := build.Request{Class: "Ranger", ComplexityPreference: "beginner", MaxResults: 5}
	got := s.Rank([]build.Candidate{simple, complexBuild}, req, nil)

	for _, rec := range got {
		if rec.Build.Name == "Complex" {
			t.Error("complex build survived a beginner preference with the default one-step window")
		}
	}
	if len(got) == 0 {
		t.Error("simple build should survive the beginner preference")
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error: %v", err)
	}

	bad := DefaultConfig()
	bad.Weights.Damage = -1
	if err := bad.Validate(); err == nil {
		t.Error("Validate accepted a negative weight")
	}

	bad = DefaultConfig()
	bad.DiversityThreshold = 1.5
	if err := bad.Validate(); err == nil {
		t.Error("Validate accepted diversity_threshold > 1")
	}

	bad = DefaultConfig()
	bad.DamageBands = Bands{Acceptable: 10, Good: 5, Excellent: 20}
	if err := bad.Validate(); err == nil {
		t.Error("Validate accepted non-increasing damage bands")
	}
}
