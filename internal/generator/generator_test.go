// Theoryforge - ARPG Build Recommendation Engine
// Copyright 2026 Theoryforge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theoryforge/theoryforge

package generator

import (
	"context"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/theoryforge/theoryforge/internal/build"
	"github.com/theoryforge/theoryforge/internal/catalog"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default() error: %v", err)
	}
	return c
}

func testGenerator(t *testing.T, seed int64) *Generator {
	t.Helper()
	return New(testCatalog(t), seed, zerolog.Nop())
}

func TestGenerateBudgetSpeedFarmer(t *testing.T) {
	t.Parallel()

	g := testGenerator(t, 42)
	cons := build.Constraints{MaxBudget: 10, MinDPS: 200000}
	candidates := g.Generate(context.Background(), "Ranger", build.GoalClearSpeed, cons, 12)

	if len(candidates) == 0 {
		t.Fatal("Generate returned no candidates")
	}

	affordable := 0
	for _, c := range candidates {
		if c.EstimatedCost <= 10 && c.Stats.DPS >= 200000 {
			affordable++
		}
	}
	if affordable == 0 {
		t.Errorf("no candidate met cost <= 10 and dps >= 200000 out of %d", len(candidates))
	}
}

func TestGenerateUnknownClass(t *testing.T) {
	t.Parallel()

	g := testGenerator(t, 1)
	candidates := g.Generate(context.Background(), "Paladin", build.GoalBossing, build.Constraints{}, 8)

	if candidates == nil {
		t.Fatal("Generate returned nil for unknown class, want empty slice")
	}
	if len(candidates) != 0 {
		t.Errorf("Generate returned %d candidates for unknown class", len(candidates))
	}
}

func TestGenerateRespectsCount(t *testing.T) {
	t.Parallel()

	g := testGenerator(t, 7)
	for _, count := range []int{0, 1, 5, 25} {
		candidates := g.Generate(context.Background(), "Witch", "", build.Constraints{}, count)
		if len(candidates) > count {
			t.Errorf("Generate(count=%d) returned %d candidates", count, len(candidates))
		}
		if count > 0 && len(candidates) == 0 {
			t.Errorf("Generate(count=%d) returned nothing", count)
		}
	}
}

func TestGenerateDeterministicForSeed(t *testing.T) {
	t.Parallel()

	cons := build.Constraints{MaxBudget: 30}
	a := testGenerator(t, 99).Generate(context.Background(), "Duelist", build.GoalBossing, cons, 10)
	b := testGenerator(t, 99).Generate(context.Background(), "Duelist", build.GoalBossing, cons, 10)

	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different candidates")
	}

	c := testGenerator(t, 100).Generate(context.Background(), "Duelist", build.GoalBossing, cons, 10)
	if reflect.DeepEqual(a, c) {
		t.Error("different seeds produced identical candidates")
	}
}

func TestGenerateDoesNotMutateConstraints(t *testing.T) {
	t.Parallel()

	ceiling := build.ComplexityAdvanced
	cons := build.Constraints{
		MaxBudget:            20,
		ComplexityCeiling:    &ceiling,
		PreferredDamageTypes: []build.DamageType{build.DamageLightning, build.DamageCold},
		RequiredResistances:  map[string]int{build.ElementFire: 75},
		ForbiddenItems:       []string{"Mageblood"},
	}
	snapshot := build.Constraints{
		MaxBudget:            20,
		ComplexityCeiling:    &ceiling,
		PreferredDamageTypes: []build.DamageType{build.DamageLightning, build.DamageCold},
		RequiredResistances:  map[string]int{build.ElementFire: 75},
		ForbiddenItems:       []string{"Mageblood"},
	}

	testGenerator(t, 5).Generate(context.Background(), "Witch", build.GoalClearSpeed, cons, 10)

	if !reflect.DeepEqual(cons, snapshot) {
		t.Errorf("constraints mutated: %+v", cons)
	}
}

func TestGenerateOverFilteredFallsBack(t *testing.T) {
	t.Parallel()

	// A budget below every Ranger template minimum filters the whole pool;
	// generation falls back to the full class set instead of going empty.
	g := testGenerator(t, 3)
	cons := build.Constraints{MaxBudget: 0.1}
	candidates := g.Generate(context.Background(), "Ranger", "", cons, 6)

	if len(candidates) == 0 {
		t.Fatal("over-filtered generation returned nothing, want full-set fallback")
	}
}

func TestGenerateComplexityCeiling(t *testing.T) {
	t.Parallel()

	ceiling := build.ComplexityBeginner
	g := testGenerator(t, 11)
	candidates := g.Generate(context.Background(), "Ranger", "", build.Constraints{ComplexityCeiling: &ceiling}, 9)

	if len(candidates) == 0 {
		t.Fatal("no candidates under beginner ceiling")
	}
	for _, c := range candidates {
		if c.Complexity > build.ComplexityBeginner {
			t.Errorf("candidate %q complexity %v exceeds the ceiling", c.Name, c.Complexity)
		}
	}
}

func TestGenerateDamageTypePreference(t *testing.T) {
	t.Parallel()

	g := testGenerator(t, 13)
	cons := build.Constraints{PreferredDamageTypes: []build.DamageType{build.DamageLightning}}
	candidates := g.Generate(context.Background(), "Ranger", "", cons, 8)

	if len(candidates) == 0 {
		t.Fatal("no candidates for lightning preference")
	}
	for _, c := range candidates {
		if c.DamageType != build.DamageLightning {
			t.Errorf("candidate %q damage type %q, want lightning", c.Name, c.DamageType)
		}
	}
}

func TestGenerateForbiddenItems(t *testing.T) {
	t.Parallel()

	g := testGenerator(t, 17)
	cons := build.Constraints{ForbiddenItems: []string{"windripper"}}
	candidates := g.Generate(context.Background(), "Ranger", build.GoalClearSpeed, cons, 10)

	for _, c := range candidates {
		for _, item := range c.KeyItems {
			if item == "Windripper" {
				t.Fatalf("candidate %q still carries a forbidden item", c.Name)
			}
		}
	}
}

func TestGenerateCandidatesAreValid(t *testing.T) {
	t.Parallel()

	g := testGenerator(t, 23)
	for _, class := range testCatalog(t).Classes() {
		candidates := g.Generate(context.Background(), class, "", build.Constraints{}, 10)
		for i := range candidates {
			if err := candidates[i].Validate(); err != nil {
				t.Errorf("class %s candidate %d invalid: %v", class, i, err)
			}
			if candidates[i].Level < minGeneratedLevel || candidates[i].Level > build.MaxLevel {
				t.Errorf("class %s candidate %d level %d outside [%d, %d]",
					class, i, candidates[i].Level, minGeneratedLevel, build.MaxLevel)
			}
		}
	}
}

func TestGenerateGoalMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		archetype build.Archetype
		goal      build.Goal
		want      bool
	}{
		{build.ArchetypeSpeedFarmer, build.GoalClearSpeed, true},
		{build.ArchetypeSpeedFarmer, build.GoalBossing, false},
		{build.ArchetypeBossKiller, build.GoalBossing, true},
		{build.ArchetypePureDamage, build.GoalMaxDamage, true},
		{build.ArchetypePureDamage, build.GoalBossing, true},
		{build.ArchetypePureDamage, build.GoalClearSpeed, false},
		{build.ArchetypeTank, build.GoalTanky, true},
		{build.ArchetypeLeagueStarter, build.GoalLeagueStart, true},
		// Balanced is unmapped on purpose: it fits every goal.
		{build.ArchetypeBalanced, build.GoalClearSpeed, true},
		{build.ArchetypeBalanced, build.GoalTanky, true},
		// So does anything a template overlay invents.
		{build.Archetype("ssf-special"), build.GoalBossing, true},
		// Empty goal matches all archetypes.
		{build.ArchetypeTank, "", true},
	}

	for _, tt := range tests {
		if got := archetypeMatchesGoal(tt.archetype, tt.goal); got != tt.want {
			t.Errorf("archetypeMatchesGoal(%q, %q) = %v, want %v", tt.archetype, tt.goal, got, tt.want)
		}
	}
}

func TestPickSupportsBounds(t *testing.T) {
	t.Parallel()

	g := testGenerator(t, 29)
	for i := 0; i < 50; i++ {
		candidates := g.Generate(context.Background(), "Marauder", "", build.Constraints{}, 1)
		if len(candidates) != 1 {
			t.Fatalf("expected one candidate, got %d", len(candidates))
		}
		n := len(candidates[0].SupportGems)
		if n < minSupports || n > maxSupports {
			t.Fatalf("support count %d outside [%d, %d]", n, minSupports, maxSupports)
		}
		seen := make(map[string]bool, n)
		for _, gem := range candidates[0].SupportGems {
			if seen[gem] {
				t.Fatalf("support %q picked twice", gem)
			}
			seen[gem] = true
		}
	}
}
