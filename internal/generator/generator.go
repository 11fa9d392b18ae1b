// Theoryforge - ARPG Build Recommendation Engine
// Copyright 2026 Theoryforge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theoryforge/theoryforge

// Package generator instantiates concrete build candidates from catalog
// templates. Generation is deterministic for a fixed seed, which is how the
// tests pin down jitter behavior.
package generator

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/theoryforge/theoryforge/internal/build"
	"github.com/theoryforge/theoryforge/internal/catalog"
)

// Jitter and substitution tuning. Substitution keeps repeated generation from
// degenerating into a pure round-robin over the filtered pool.
const (
	substitutionChance = 0.30
	dpsJitter          = 0.15
	ehpJitter          = 0.10
	levelOffsetSpan    = 3
	minGeneratedLevel  = 75
	minSupports        = 3
	maxSupports        = 6
	resistanceJitter   = 5
)

// levelBase maps a template's complexity tier to the level candidates are
// generated around.
var levelBase = map[build.Complexity]int{
	build.ComplexityBeginner:     84,
	build.ComplexityIntermediate: 88,
	build.ComplexityAdvanced:     92,
	build.ComplexityExpert:       95,
}

// archetypeGoals is the fixed archetype to goal compatibility table. An
// archetype missing from the table (balanced, or anything a template file
// invents) is compatible with every goal.
var archetypeGoals = map[build.Archetype][]build.Goal{
	build.ArchetypePureDamage:    {build.GoalMaxDamage, build.GoalBossing},
	build.ArchetypeTank:          {build.GoalTanky},
	build.ArchetypeSpeedFarmer:   {build.GoalClearSpeed},
	build.ArchetypeBossKiller:    {build.GoalBossing},
	build.ArchetypeLeagueStarter: {build.GoalLeagueStart},
}

// archetypeMatchesGoal applies the compatibility table. The empty goal
// matches everything.
func archetypeMatchesGoal(a build.Archetype, goal build.Goal) bool {
	if goal == "" {
		return true
	}
	goals, mapped := archetypeGoals[a]
	if !mapped {
		return true
	}
	for _, g := range goals {
		if g == goal {
			return true
		}
	}
	return false
}

// Generator produces candidates from a catalog. Safe for concurrent use; the
// random source is guarded by a mutex, the catalog is immutable.
type Generator struct {
	catalog *catalog.Catalog
	logger  zerolog.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

// New creates a generator over the catalog. A zero seed picks a time-based
// one; tests pass a fixed seed for reproducible output.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(cat *catalog.Catalog, seed int64, logger zerolog.Logger) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		catalog: cat,
		logger:  logger.With().Str("component", "generator").Logger(),
		rng:     rand.New(rand.NewSource(seed)), //nolint:gosec // deterministic jitter, not cryptography
	}
}

// Generate instantiates up to count candidates for the class and goal under
// the given constraints. An unknown class yields an empty slice, never an
// error. Constraints are read-only; candidates failing validation are dropped
// without replacement.
func (g *Generator) Generate(ctx context.Context, class string, goal build.Goal, cons build.Constraints, count int) []build.Candidate {
	out := make([]build.Candidate, 0, max(count, 0))
	if count <= 0 {
		return out
	}

	templates := g.catalog.ByClass(class)
	if len(templates) == 0 {
		g.logger.Debug().Str("class", class).Msg("no templates for class")
		return out
	}

	pool := filterTemplates(templates, goal, cons)
	if len(pool) == 0 {
		// Over-filtered: fall back to the full class set rather than
		// returning nothing.
		g.logger.Debug().
			Str("class", class).
			Str("goal", string(goal)).
			Msg("constraints filtered out all templates, using full class set")
		pool = templates
	}

	variants := make(map[string]int, len(pool))
	for i := 0; i < count; i++ {
		if ctx.Err() != nil {
			break
		}

		g.rngMu.Lock()
		tmpl := pool[i%len(pool)]
		if g.rng.Float64() < substitutionChance {
			tmpl = pool[g.rng.Intn(len(pool))]
		}
		cand := instantiate(g.rng, &tmpl, goal, cons)
		g.rngMu.Unlock()

		variants[tmpl.Name]++
		if n := variants[tmpl.Name]; n > 1 {
			cand.Name = fmt.Sprintf("%s (variant %d)", tmpl.Name, n)
		}

		if err := cand.Validate(); err != nil {
			g.logger.Debug().Err(err).Str("template", tmpl.Name).Msg("dropping invalid candidate")
			continue
		}
		out = append(out, cand)
	}

	return out
}

// filterTemplates keeps the templates compatible with the goal and the hard
// constraints: reachable budget, complexity ceiling, preferred damage types.
func filterTemplates(templates []catalog.Template, goal build.Goal, cons build.Constraints) []catalog.Template {
	pool := make([]catalog.Template, 0, len(templates))
	for _, tmpl := range templates {
		if !archetypeMatchesGoal(tmpl.Archetype, goal) {
			continue
		}
		if cons.MaxBudget > 0 && tmpl.BudgetMin > cons.MaxBudget {
			continue
		}
		if cons.ComplexityCeiling != nil && tmpl.Complexity > *cons.ComplexityCeiling {
			continue
		}
		if !damageTypeMatches(tmpl.DamageType, cons.PreferredDamageTypes) {
			continue
		}
		pool = append(pool, tmpl)
	}
	return pool
}

// damageTypeMatches treats an untyped template as compatible with any
// preference, mirroring the unmapped-archetype rule.
func damageTypeMatches(have build.DamageType, preferred []build.DamageType) bool {
	if len(preferred) == 0 || have == "" {
		return true
	}
	for _, want := range preferred {
		if have == want {
			return true
		}
	}
	return false
}

// instantiate turns one template into a concrete candidate. The random source
// is threaded explicitly; the caller holds the rng lock.
func instantiate(rng *rand.Rand, tmpl *catalog.Template, goal build.Goal, cons build.Constraints) build.Candidate {
	dps := tmpl.TargetDPS * (1 + symmetricJitter(rng, dpsJitter))
	ehp := tmpl.TargetEHP * (1 + symmetricJitter(rng, ehpJitter))
	life, es := splitEHP(rng, tmpl, ehp)

	cand := build.Candidate{
		Name:         tmpl.Name,
		Class:        tmpl.Class,
		Ascendancy:   tmpl.Ascendancy,
		Level:        rollLevel(rng, tmpl.Complexity),
		Goal:         candidateGoal(tmpl.Archetype, goal),
		Archetype:    tmpl.Archetype,
		Complexity:   tmpl.Complexity,
		DamageType:   tmpl.DamageType,
		PrimarySkill: tmpl.PrimarySkills[rng.Intn(len(tmpl.PrimarySkills))],
		SupportGems:  pickSupports(rng, tmpl.SupportGems),
		KeyItems:     withoutForbidden(tmpl.EssentialItems, cons.ForbiddenItems),
		Keystones:    append([]string(nil), tmpl.Keystones...),
		Tags:         append([]string(nil), tmpl.Tags...),
		Stats: build.Stats{
			DPS:          dps,
			EHP:          ehp,
			Life:         life,
			EnergyShield: es,
		},
		EstimatedCost: rollCost(rng, tmpl, cons.MaxBudget),
		Currency:      build.DefaultCurrency,
		Source:        build.SourceTemplate,
	}

	rollResistances(rng, tmpl, &cand.Stats)
	rollSecondaryStats(rng, tmpl, &cand.Stats)
	return cand
}

// candidateGoal records the requested goal, or the template's natural goal
// when the request had none.
func candidateGoal(a build.Archetype, requested build.Goal) build.Goal {
	if requested != "" {
		return requested
	}
	if goals, mapped := archetypeGoals[a]; mapped && len(goals) > 0 {
		return goals[0]
	}
	return build.GoalBalanced
}

// symmetricJitter returns a uniform value in [-span, +span].
func symmetricJitter(rng *rand.Rand, span float64) float64 {
	return (rng.Float64()*2 - 1) * span
}

// rollLevel derives the character level from the complexity-keyed base plus a
// small offset, clamped to the endgame range.
func rollLevel(rng *rand.Rand, complexity build.Complexity) int {
	base, ok := levelBase[complexity]
	if !ok {
		base = levelBase[build.ComplexityIntermediate]
	}
	level := base + rng.Intn(2*levelOffsetSpan+1) - levelOffsetSpan
	if level < minGeneratedLevel {
		level = minGeneratedLevel
	}
	if level > build.MaxLevel {
		level = build.MaxLevel
	}
	return level
}

// splitEHP divides the effective health pool into life and energy shield,
// biased by the template's defense tags. Life is derived last so the parts
// always sum exactly to the pool.
func splitEHP(rng *rand.Rand, tmpl *catalog.Template, ehp float64) (life, es float64) {
	var esShare float64
	switch {
	case tmpl.HasTag("energy-shield"):
		esShare = 0.70 + rng.Float64()*0.15
	case tmpl.HasTag("hybrid"):
		esShare = 0.35 + rng.Float64()*0.15
	default:
		esShare = 0.05 + rng.Float64()*0.10
	}
	es = ehp * esShare
	life = ehp - es
	return life, es
}

// rollCost samples the cost from the template budget clipped to the
// requested ceiling. When the ceiling sits below the whole template range the
// floor wins; downstream filters deal with the overshoot.
func rollCost(rng *rand.Rand, tmpl *catalog.Template, maxBudget float64) float64 {
	lo, hi := tmpl.BudgetMin, tmpl.BudgetMax
	if maxBudget > 0 && maxBudget < hi {
		hi = maxBudget
	}
	if hi < lo {
		hi = lo
	}
	return lo + rng.Float64()*(hi-lo)
}

// rollResistances starts from the template minimums and adds a small overcap
// jitter, clamped to the legal range. Templates without explicit minimums get
// capped elemental and deeply negative chaos resistance.
func rollResistances(rng *rand.Rand, tmpl *catalog.Template, stats *build.Stats) {
	minFor := func(element string, fallback int) int {
		if res, ok := tmpl.MinResistances[element]; ok {
			return res
		}
		return fallback
	}
	roll := func(floor int) int {
		res := floor + rng.Intn(resistanceJitter+1)
		if res > build.MaxResistance {
			res = build.MaxResistance
		}
		if res < build.MinResistance {
			res = build.MinResistance
		}
		return res
	}
	stats.FireRes = roll(minFor(build.ElementFire, build.ResistanceCap))
	stats.ColdRes = roll(minFor(build.ElementCold, build.ResistanceCap))
	stats.LightningRes = roll(minFor(build.ElementLightning, build.ResistanceCap))
	stats.ChaosRes = roll(minFor(build.ElementChaos, -60))
}

// rollSecondaryStats fills crit and movement numbers. Crit-flavored support
// setups roll a higher chance band; speed archetypes move faster.
func rollSecondaryStats(rng *rand.Rand, tmpl *catalog.Template, stats *build.Stats) {
	critBuild := false
	for _, gem := range tmpl.SupportGems {
		if strings.Contains(gem, "Critical") {
			critBuild = true
			break
		}
	}
	if critBuild {
		stats.CritChance = 35 + rng.Float64()*40
		stats.CritMulti = 250 + rng.Float64()*200
	} else {
		stats.CritChance = 5 + rng.Float64()*15
		stats.CritMulti = 150 + rng.Float64()*50
	}

	if tmpl.Archetype == build.ArchetypeSpeedFarmer {
		stats.MovementSpeed = 60 + rng.Float64()*70
	} else {
		stats.MovementSpeed = 10 + rng.Float64()*60
	}
}

// pickSupports samples between three and six support gems without
// replacement. Short lists are returned whole.
func pickSupports(rng *rand.Rand, gems []string) []string {
	if len(gems) <= minSupports {
		return append([]string(nil), gems...)
	}
	upper := maxSupports
	if len(gems) < upper {
		upper = len(gems)
	}
	k := minSupports + rng.Intn(upper-minSupports+1)

	picked := make([]string, 0, k)
	for _, idx := range rng.Perm(len(gems))[:k] {
		picked = append(picked, gems[idx])
	}
	return picked
}

// withoutForbidden copies items, dropping forbidden ones (case-insensitive).
func withoutForbidden(items, forbidden []string) []string {
	if len(items) == 0 {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		banned := false
		for _, f := range forbidden {
			if strings.EqualFold(item, f) {
				banned = true
				break
			}
		}
		if !banned {
			out = append(out, item)
		}
	}
	return out
}
