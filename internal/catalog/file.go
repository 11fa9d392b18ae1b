// Theoryforge - ARPG Build Recommendation Engine
// Copyright 2026 Theoryforge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theoryforge/theoryforge

package catalog

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/theoryforge/theoryforge/internal/build"
)

// fileTemplate mirrors Template for YAML decoding. Complexity arrives as a
// tier name and is parsed during conversion.
type fileTemplate struct {
	Name           string         `koanf:"name"`
	Archetype      string         `koanf:"archetype"`
	Class          string         `koanf:"class"`
	Ascendancy     string         `koanf:"ascendancy"`
	Complexity     string         `koanf:"complexity"`
	DamageType     string         `koanf:"damage_type"`
	PrimarySkills  []string       `koanf:"primary_skills"`
	SupportGems    []string       `koanf:"support_gems"`
	EssentialItems []string       `koanf:"essential_items"`
	Keystones      []string       `koanf:"keystones"`
	Tags           []string       `koanf:"tags"`
	TargetDPS      float64        `koanf:"target_dps"`
	TargetEHP      float64        `koanf:"target_ehp"`
	BudgetMin      float64        `koanf:"budget_min"`
	BudgetMax      float64        `koanf:"budget_max"`
	MinResistances map[string]int `koanf:"min_resistances"`
}

type fileSchema struct {
	Templates []fileTemplate `koanf:"templates"`
}

func (ft fileTemplate) toTemplate() (Template, error) {
	complexity := build.ComplexityIntermediate
	if ft.Complexity != "" {
		parsed, err := build.ParseComplexity(ft.Complexity)
		if err != nil {
			return Template{}, fmt.Errorf("template %q: %w", ft.Name, err)
		}
		complexity = parsed
	}
	return Template{
		Name:           ft.Name,
		Archetype:      build.Archetype(ft.Archetype),
		Class:          ft.Class,
		Ascendancy:     ft.Ascendancy,
		Complexity:     complexity,
		DamageType:     build.DamageType(ft.DamageType),
		PrimarySkills:  ft.PrimarySkills,
		SupportGems:    ft.SupportGems,
		EssentialItems: ft.EssentialItems,
		Keystones:      ft.Keystones,
		Tags:           ft.Tags,
		TargetDPS:      ft.TargetDPS,
		TargetEHP:      ft.TargetEHP,
		BudgetMin:      ft.BudgetMin,
		BudgetMax:      ft.BudgetMax,
		MinResistances: ft.MinResistances,
	}, nil
}

// LoadFile reads additional templates from a YAML file. The file carries a
// top-level "templates" list.
func LoadFile(path string) ([]Template, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load template file %s: %w", path, err)
	}

	var schema fileSchema
	if err := k.Unmarshal("", &schema); err != nil {
		return nil, fmt.Errorf("failed to parse template file %s: %w", path, err)
	}

	templates := make([]Template, 0, len(schema.Templates))
	for _, ft := range schema.Templates {
		t, err := ft.toTemplate()
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, nil
}

// Load builds the catalog from the built-in defaults, extended by the YAML
// overlay at path when one is configured. An empty path means defaults only.
func Load(path string) (*Catalog, error) {
	templates := DefaultTemplates()
	if path != "" {
		extra, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		templates = append(templates, extra...)
	}
	return New(templates)
}
