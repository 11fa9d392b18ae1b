// Theoryforge - ARPG Build Recommendation Engine
// Copyright 2026 Theoryforge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theoryforge/theoryforge

package build

import (
	"testing"
)

func validCandidate() Candidate {
	return Candidate{
		Name:         "Lightning Arrow Deadeye",
		Class:        "Ranger",
		Ascendancy:   "Deadeye",
		Level:        92,
		Goal:         GoalClearSpeed,
		PrimarySkill: "Lightning Arrow",
		SupportGems:  []string{"Mirage Archer", "Added Cold Damage", "Inspiration"},
		Stats: Stats{
			DPS:          420000,
			EHP:          5200,
			Life:         4600,
			EnergyShield: 600,
			FireRes:      75,
			ColdRes:      76,
			LightningRes: 78,
			ChaosRes:     -12,
		},
		EstimatedCost: 6.5,
		Currency:      DefaultCurrency,
		Source:        SourceTemplate,
	}
}

func TestStatsResistanceCapped(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fire int
		cold int
		ltng int
		want bool
	}{
		{"all at cap", 75, 75, 75, true},
		{"all overcapped", 80, 82, 90, true},
		{"fire below", 74, 75, 75, false},
		{"cold below", 75, 0, 75, false},
		{"lightning negative", 75, 75, -30, false},
		{"all zero", 0, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := Stats{FireRes: tt.fire, ColdRes: tt.cold, LightningRes: tt.ltng, ChaosRes: -60}
			if got := s.ResistanceCapped(); got != tt.want {
				t.Errorf("ResistanceCapped() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatsElementalOvercap(t *testing.T) {
	t.Parallel()

	s := Stats{FireRes: 80, ColdRes: 75, LightningRes: 60, ChaosRes: 90}
	if got := s.ElementalOvercap(); got != 5 {
		t.Errorf("ElementalOvercap() = %d, want 5 (chaos must not count, deficits must not subtract)", got)
	}
}

func TestComplexityOrdering(t *testing.T) {
	t.Parallel()

	if !(ComplexityBeginner < ComplexityIntermediate &&
		ComplexityIntermediate < ComplexityAdvanced &&
		ComplexityAdvanced < ComplexityExpert) {
		t.Fatal("complexity tiers are not strictly ordered")
	}
}

func TestComplexityRoundTrip(t *testing.T) {
	t.Parallel()

	for _, tier := range []Complexity{ComplexityBeginner, ComplexityIntermediate, ComplexityAdvanced, ComplexityExpert} {
		parsed, err := ParseComplexity(tier.String())
		if err != nil {
			t.Fatalf("ParseComplexity(%q) error: %v", tier.String(), err)
		}
		if parsed != tier {
			t.Errorf("round trip %v -> %q -> %v", tier, tier.String(), parsed)
		}
	}

	if _, err := ParseComplexity("grandmaster"); err == nil {
		t.Error("ParseComplexity accepted an unknown tier")
	}
}

func TestComplexityJSON(t *testing.T) {
	t.Parallel()

	data, err := ComplexityAdvanced.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON error: %v", err)
	}
	if string(data) != `"advanced"` {
		t.Errorf("MarshalJSON = %s, want %q", data, `"advanced"`)
	}

	var c Complexity
	if err := c.UnmarshalJSON([]byte(`"expert"`)); err != nil {
		t.Fatalf("UnmarshalJSON error: %v", err)
	}
	if c != ComplexityExpert {
		t.Errorf("UnmarshalJSON = %v, want %v", c, ComplexityExpert)
	}

	if err := c.UnmarshalJSON([]byte(`42`)); err == nil {
		t.Error("UnmarshalJSON accepted a non-string value")
	}
}

func TestCandidateValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Candidate)
		wantErr bool
	}{
		{"valid", func(*Candidate) {}, false},
		{"missing name", func(c *Candidate) { c.Name = "" }, true},
		{"missing class", func(c *Candidate) { c.Class = "" }, true},
		{"missing skill", func(c *Candidate) { c.PrimarySkill = "" }, true},
		{"level too low", func(c *Candidate) { c.Level = 0 }, true},
		{"level too high", func(c *Candidate) { c.Level = 101 }, true},
		{"zero dps", func(c *Candidate) { c.Stats.DPS = 0 }, true},
		{"zero ehp", func(c *Candidate) { c.Stats.EHP = 0 }, true},
		{"negative life", func(c *Candidate) { c.Stats.Life = -1; c.Stats.EHP = -1 + c.Stats.EnergyShield }, true},
		{"ehp inconsistent", func(c *Candidate) { c.Stats.EHP = c.Stats.Life * 3 }, true},
		{"resistance above max", func(c *Candidate) { c.Stats.FireRes = 91 }, true},
		{"resistance below min", func(c *Candidate) { c.Stats.ChaosRes = -101 }, true},
		{"overcapped but legal", func(c *Candidate) { c.Stats.FireRes = 90 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := validCandidate()
			tt.mutate(&c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRequestNormalized(t *testing.T) {
	t.Parallel()

	req := Request{Class: "Ranger", Goal: GoalClearSpeed}
	norm := req.Normalized()

	if norm.RequestID == "" {
		t.Error("Normalized() did not assign a request id")
	}
	if norm.MaxResults != DefaultMaxResults {
		t.Errorf("MaxResults = %d, want %d", norm.MaxResults, DefaultMaxResults)
	}
	if norm.CandidateCount != DefaultCandidateCount {
		t.Errorf("CandidateCount = %d, want %d", norm.CandidateCount, DefaultCandidateCount)
	}

	// Explicit values survive normalization.
	req = Request{RequestID: "fixed", MaxResults: 3, CandidateCount: 20}
	norm = req.Normalized()
	if norm.RequestID != "fixed" || norm.MaxResults != 3 || norm.CandidateCount != 20 {
		t.Errorf("Normalized() overwrote explicit values: %+v", norm)
	}
}

func TestRequestConstraints(t *testing.T) {
	t.Parallel()

	req := Request{
		Class:                "Witch",
		MaxBudget:            15,
		MinDPS:               100000,
		MinEHP:               6000,
		RequireCappedRes:     true,
		ComplexityPreference: "intermediate",
		ForbiddenItems:       []string{"Mageblood"},
	}
	cons := req.Constraints()

	if cons.MaxBudget != 15 || cons.MinDPS != 100000 || cons.MinEHP != 6000 {
		t.Errorf("numeric constraints not carried: %+v", cons)
	}
	if cons.ComplexityCeiling == nil || *cons.ComplexityCeiling != ComplexityIntermediate {
		t.Errorf("ComplexityCeiling = %v, want intermediate", cons.ComplexityCeiling)
	}
	for _, element := range []string{ElementFire, ElementCold, ElementLightning} {
		if cons.RequiredResistances[element] != ResistanceCap {
			t.Errorf("RequiredResistances[%s] = %d, want %d", element, cons.RequiredResistances[element], ResistanceCap)
		}
	}
	if _, ok := cons.RequiredResistances[ElementChaos]; ok {
		t.Error("chaos must not be part of the cap requirement")
	}
	if len(cons.ForbiddenItems) != 1 || cons.ForbiddenItems[0] != "Mageblood" {
		t.Errorf("ForbiddenItems = %v", cons.ForbiddenItems)
	}

	// Unknown complexity preference is ignored rather than failing the request.
	req = Request{ComplexityPreference: "impossible"}
	if got := req.Constraints(); got.ComplexityCeiling != nil {
		t.Errorf("ComplexityCeiling = %v for unknown preference, want nil", got.ComplexityCeiling)
	}
}

func TestGoalValid(t *testing.T) {
	t.Parallel()

	for _, g := range Goals() {
		if !g.Valid() {
			t.Errorf("Goal(%q).Valid() = false", g)
		}
	}
	if !Goal("").Valid() {
		t.Error("empty goal must be valid (no preference)")
	}
	if Goal("speedrun").Valid() {
		t.Error("unknown goal reported valid")
	}
}
