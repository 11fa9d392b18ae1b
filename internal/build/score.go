// Theoryforge - ARPG Build Recommendation Engine
// Copyright 2026 Theoryforge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theoryforge/theoryforge

package build

// Scoring criteria keys. Every Score carries exactly these five entries.
const (
	CriterionDamage        = "damage"
	CriterionSurvivability = "survivability"
	CriterionBudget        = "budget"
	CriterionPopularity    = "popularity"
	CriterionEaseOfUse     = "ease-of-use"
)

// Criteria lists the scoring criteria in presentation order.
func Criteria() []string {
	return []string{
		CriterionDamage,
		CriterionSurvivability,
		CriterionBudget,
		CriterionPopularity,
		CriterionEaseOfUse,
	}
}

// Score is the scored assessment of one candidate. Total and every criterion
// value live in [0, 1]; Confidence expresses how much the numbers should be
// trusted given data completeness and internal agreement.
type Score struct {
	Total       float64            `json:"total"`
	Criteria    map[string]float64 `json:"criteria"`
	Confidence  float64            `json:"confidence"`
	Explanation string             `json:"explanation,omitempty"`
	Reasons     []string           `json:"reasons,omitempty"`
}

// Recommendation pairs a candidate with its score. ExportCode is only set
// when a calculator produced one during validation.
type Recommendation struct {
	Build      Candidate `json:"build"`
	Score      Score     `json:"score"`
	ExportCode string    `json:"export_code,omitempty"`
}
