// Theoryforge - ARPG Build Recommendation Engine
// Copyright 2026 Theoryforge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theoryforge/theoryforge

// Package build defines the domain types shared by the catalog, generator,
// scoring, and pipeline packages: candidate builds, their stats, generation
// constraints, and recommendation requests.
package build

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Level bounds for a playable character.
const (
	MinLevel = 1
	MaxLevel = 100
)

// Resistance bounds and the elemental cap. A build is considered capped when
// all three elemental resistances reach ResistanceCap; values above it count
// as overcap up to MaxResistance.
const (
	MinResistance = -100
	MaxResistance = 90
	ResistanceCap = 75
)

// DefaultCurrency is the trade currency costs are denominated in.
const DefaultCurrency = "divine"

// Element keys used in resistance maps.
const (
	ElementFire      = "fire"
	ElementCold      = "cold"
	ElementLightning = "lightning"
	ElementChaos     = "chaos"
)

// Archetype classifies the playstyle a template is curated for.
type Archetype string

// Known archetypes.
const (
	ArchetypePureDamage    Archetype = "pure-damage"
	ArchetypeTank          Archetype = "tank"
	ArchetypeBalanced      Archetype = "balanced"
	ArchetypeSpeedFarmer   Archetype = "speed-farmer"
	ArchetypeBossKiller    Archetype = "boss-killer"
	ArchetypeLeagueStarter Archetype = "league-starter"
)

// Goal is what the player wants out of a build.
type Goal string

// Known goals.
const (
	GoalClearSpeed  Goal = "clear_speed"
	GoalBossing     Goal = "bossing"
	GoalLeagueStart Goal = "league_start"
	GoalTanky       Goal = "tanky"
	GoalMaxDamage   Goal = "max_damage"
	GoalBalanced    Goal = "balanced"
)

// Goals lists every recognized goal.
func Goals() []Goal {
	return []Goal{GoalClearSpeed, GoalBossing, GoalLeagueStart, GoalTanky, GoalMaxDamage, GoalBalanced}
}

// Valid reports whether g is a recognized goal. The empty goal is valid and
// means "no preference".
func (g Goal) Valid() bool {
	if g == "" {
		return true
	}
	for _, known := range Goals() {
		if g == known {
			return true
		}
	}
	return false
}

// DamageType is the dominant damage flavor of a build.
type DamageType string

// Known damage types.
const (
	DamagePhysical  DamageType = "physical"
	DamageFire      DamageType = "fire"
	DamageCold      DamageType = "cold"
	DamageLightning DamageType = "lightning"
	DamageChaos     DamageType = "chaos"
)

// Complexity grades how demanding a build is to pilot and gear. Tiers are
// ordered; comparisons on the underlying int are meaningful.
type Complexity int

// Complexity tiers, ascending.
const (
	ComplexityBeginner Complexity = iota
	ComplexityIntermediate
	ComplexityAdvanced
	ComplexityExpert
)

// String returns the tier name.
func (c Complexity) String() string {
	switch c {
	case ComplexityBeginner:
		return "beginner"
	case ComplexityIntermediate:
		return "intermediate"
	case ComplexityAdvanced:
		return "advanced"
	case ComplexityExpert:
		return "expert"
	default:
		return fmt.Sprintf("complexity(%d)", int(c))
	}
}

// ParseComplexity converts a tier name to its Complexity value.
func ParseComplexity(s string) (Complexity, error) {
	switch s {
	case "beginner":
		return ComplexityBeginner, nil
	case "intermediate":
		return ComplexityIntermediate, nil
	case "advanced":
		return ComplexityAdvanced, nil
	case "expert":
		return ComplexityExpert, nil
	default:
		return 0, fmt.Errorf("unknown complexity tier %q", s)
	}
}

// MarshalJSON encodes the tier as its name.
func (c Complexity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

// UnmarshalJSON decodes a tier name.
func (c *Complexity) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("complexity must be a JSON string, got %s", data)
	}
	parsed, err := ParseComplexity(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Stats holds the computed combat and defense numbers of a build.
type Stats struct {
	DPS           float64 `json:"dps"`
	EHP           float64 `json:"ehp"`
	Life          float64 `json:"life"`
	EnergyShield  float64 `json:"energy_shield"`
	FireRes       int     `json:"fire_res"`
	ColdRes       int     `json:"cold_res"`
	LightningRes  int     `json:"lightning_res"`
	ChaosRes      int     `json:"chaos_res"`
	CritChance    float64 `json:"crit_chance"`
	CritMulti     float64 `json:"crit_multi"`
	MovementSpeed float64 `json:"movement_speed"`
}

// ResistanceCapped reports whether all three elemental resistances are at or
// above the cap. Chaos resistance does not participate.
func (s Stats) ResistanceCapped() bool {
	return s.FireRes >= ResistanceCap && s.ColdRes >= ResistanceCap && s.LightningRes >= ResistanceCap
}

// ElementalOvercap returns the summed resistance points above the cap across
// the three elements. Negative margins do not subtract.
func (s Stats) ElementalOvercap() int {
	overcap := 0
	for _, res := range []int{s.FireRes, s.ColdRes, s.LightningRes} {
		if res > ResistanceCap {
			overcap += res - ResistanceCap
		}
	}
	return overcap
}

// Candidate is one concrete, playable build produced by generation.
type Candidate struct {
	Name          string     `json:"name"`
	Class         string     `json:"class"`
	Ascendancy    string     `json:"ascendancy,omitempty"`
	Level         int        `json:"level"`
	Goal          Goal       `json:"goal,omitempty"`
	Archetype     Archetype  `json:"archetype,omitempty"`
	Complexity    Complexity `json:"complexity"`
	DamageType    DamageType `json:"damage_type,omitempty"`
	PrimarySkill  string     `json:"primary_skill"`
	SupportGems   []string   `json:"support_gems,omitempty"`
	KeyItems      []string   `json:"key_items,omitempty"`
	Keystones     []string   `json:"keystones,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	Stats         Stats      `json:"stats"`
	EstimatedCost float64    `json:"estimated_cost"`
	Currency      string     `json:"currency"`
	Source        string     `json:"source,omitempty"`
	Notes         []string   `json:"notes,omitempty"`
}

// Candidate sources.
const (
	SourceTemplate = "template"
	SourceEngine   = "engine"
	SourceFallback = "fallback"
)

// ehpTolerance is the relative slack allowed between EHP and Life+ES before a
// candidate is considered internally inconsistent.
const ehpTolerance = 0.05

// Validate checks the structural invariants of a candidate. Invalid
// candidates are dropped by generation and never reach scoring.
func (c *Candidate) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("candidate has no name")
	}
	if c.Class == "" {
		return fmt.Errorf("candidate %q has no class", c.Name)
	}
	if c.PrimarySkill == "" {
		return fmt.Errorf("candidate %q has no primary skill", c.Name)
	}
	if c.Level < MinLevel || c.Level > MaxLevel {
		return fmt.Errorf("candidate %q level %d outside [%d, %d]", c.Name, c.Level, MinLevel, MaxLevel)
	}
	if c.Stats.DPS <= 0 {
		return fmt.Errorf("candidate %q has non-positive dps", c.Name)
	}
	if c.Stats.EHP <= 0 {
		return fmt.Errorf("candidate %q has non-positive ehp", c.Name)
	}
	if c.Stats.Life < 0 || c.Stats.EnergyShield < 0 {
		return fmt.Errorf("candidate %q has negative life or energy shield", c.Name)
	}
	if diff := math.Abs(c.Stats.EHP - (c.Stats.Life + c.Stats.EnergyShield)); diff > ehpTolerance*c.Stats.EHP {
		return fmt.Errorf("candidate %q ehp %.0f inconsistent with life %.0f + es %.0f",
			c.Name, c.Stats.EHP, c.Stats.Life, c.Stats.EnergyShield)
	}
	for element, res := range map[string]int{
		ElementFire:      c.Stats.FireRes,
		ElementCold:      c.Stats.ColdRes,
		ElementLightning: c.Stats.LightningRes,
		ElementChaos:     c.Stats.ChaosRes,
	} {
		if res < MinResistance || res > MaxResistance {
			return fmt.Errorf("candidate %q %s resistance %d outside [%d, %d]",
				c.Name, element, res, MinResistance, MaxResistance)
		}
	}
	return nil
}

// Constraints narrows what the generator may produce. The zero value of every
// field means unconstrained. Consumers treat Constraints as read-only.
type Constraints struct {
	MaxBudget            float64        `json:"max_budget,omitempty"`
	ComplexityCeiling    *Complexity    `json:"complexity_ceiling,omitempty"`
	PreferredDamageTypes []DamageType   `json:"preferred_damage_types,omitempty"`
	MinDPS               float64        `json:"min_dps,omitempty"`
	MinEHP               float64        `json:"min_ehp,omitempty"`
	RequiredResistances  map[string]int `json:"required_resistances,omitempty"`
	ForbiddenItems       []string       `json:"forbidden_items,omitempty"`
}

// Request is a player's ask: what to build, for which goal, under which
// limits. Zero-valued optional fields mean "no preference".
type Request struct {
	RequestID            string       `json:"request_id,omitempty"`
	Class                string       `json:"class"`
	Goal                 Goal         `json:"goal,omitempty"`
	MaxBudget            float64      `json:"max_budget,omitempty"`
	MinDPS               float64      `json:"min_dps,omitempty"`
	MinEHP               float64      `json:"min_ehp,omitempty"`
	RequireCappedRes     bool         `json:"require_capped_res,omitempty"`
	ComplexityPreference string       `json:"complexity_preference,omitempty"`
	PreferredDamageTypes []DamageType `json:"preferred_damage_types,omitempty"`
	ForbiddenItems       []string     `json:"forbidden_items,omitempty"`
	MaxResults           int          `json:"max_results,omitempty"`
	CandidateCount       int          `json:"candidate_count,omitempty"`
}

// Request defaults applied by Normalized.
const (
	DefaultMaxResults     = 5
	DefaultCandidateCount = 12
)

// Normalized returns a copy with defaults filled in: a request id when none
// was supplied and sane result/candidate counts.
func (r Request) Normalized() Request {
	if r.RequestID == "" {
		r.RequestID = uuid.NewString()
	}
	if r.MaxResults <= 0 {
		r.MaxResults = DefaultMaxResults
	}
	if r.CandidateCount <= 0 {
		r.CandidateCount = DefaultCandidateCount
	}
	return r
}

// Constraints derives the generation constraints implied by the request.
func (r Request) Constraints() Constraints {
	cons := Constraints{
		MaxBudget:            r.MaxBudget,
		MinDPS:               r.MinDPS,
		MinEHP:               r.MinEHP,
		PreferredDamageTypes: r.PreferredDamageTypes,
		ForbiddenItems:       r.ForbiddenItems,
	}
	if r.ComplexityPreference != "" {
		if tier, err := ParseComplexity(r.ComplexityPreference); err == nil {
			ceiling := tier
			cons.ComplexityCeiling = &ceiling
		}
	}
	if r.RequireCappedRes {
		cons.RequiredResistances = map[string]int{
			ElementFire:      ResistanceCap,
			ElementCold:      ResistanceCap,
			ElementLightning: ResistanceCap,
		}
	}
	return cons
}
