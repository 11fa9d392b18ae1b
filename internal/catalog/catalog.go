// Theoryforge - ARPG Build Recommendation Engine
// Copyright 2026 Theoryforge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theoryforge/theoryforge

// Package catalog holds the curated build templates the generator works from.
// A Catalog is built once at startup from the built-in defaults, optionally
// extended by a YAML overlay file, and is immutable afterwards.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/theoryforge/theoryforge/internal/build"
)

// Template is a curated build blueprint for one class and archetype. The
// generator instantiates concrete candidates from it.
type Template struct {
	Name           string           `json:"name"`
	Archetype      build.Archetype  `json:"archetype"`
	Class          string           `json:"class"`
	Ascendancy     string           `json:"ascendancy,omitempty"`
	Complexity     build.Complexity `json:"complexity"`
	DamageType     build.DamageType `json:"damage_type,omitempty"`
	PrimarySkills  []string         `json:"primary_skills"`
	SupportGems    []string         `json:"support_gems,omitempty"`
	EssentialItems []string         `json:"essential_items,omitempty"`
	Keystones      []string         `json:"keystones,omitempty"`
	Tags           []string         `json:"tags,omitempty"`
	TargetDPS      float64          `json:"target_dps"`
	TargetEHP      float64          `json:"target_ehp"`
	BudgetMin      float64          `json:"budget_min"`
	BudgetMax      float64          `json:"budget_max"`
	MinResistances map[string]int   `json:"min_resistances,omitempty"`
}

// Validate checks template invariants. Catalog construction rejects any
// template that fails.
func (t *Template) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("template has no name")
	}
	if t.Class == "" {
		return fmt.Errorf("template %q has no class", t.Name)
	}
	if len(t.PrimarySkills) == 0 {
		return fmt.Errorf("template %q has no primary skills", t.Name)
	}
	if t.BudgetMin < 0 {
		return fmt.Errorf("template %q has negative budget minimum %.2f", t.Name, t.BudgetMin)
	}
	if t.BudgetMin > t.BudgetMax {
		return fmt.Errorf("template %q budget minimum %.2f exceeds maximum %.2f", t.Name, t.BudgetMin, t.BudgetMax)
	}
	if t.TargetDPS <= 0 {
		return fmt.Errorf("template %q has non-positive target dps", t.Name)
	}
	if t.TargetEHP <= 0 {
		return fmt.Errorf("template %q has non-positive target ehp", t.Name)
	}
	for element, res := range t.MinResistances {
		if res < build.MinResistance || res > build.MaxResistance {
			return fmt.Errorf("template %q %s resistance %d outside [%d, %d]",
				t.Name, element, res, build.MinResistance, build.MaxResistance)
		}
	}
	return nil
}

// HasTag reports whether the template carries the given tag.
func (t *Template) HasTag(tag string) bool {
	for _, have := range t.Tags {
		if strings.EqualFold(have, tag) {
			return true
		}
	}
	return false
}

// Catalog is the immutable template registry, indexed by class.
type Catalog struct {
	byClass map[string][]Template
	classes []string
	total   int
}

// New builds a catalog from the given templates, validating each. Class
// lookup is case-insensitive; the canonical spelling of the first occurrence
// is kept for listings.
func New(templates []Template) (*Catalog, error) {
	c := &Catalog{byClass: make(map[string][]Template)}
	canonical := make(map[string]string)

	for i := range templates {
		t := templates[i]
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("invalid template at index %d: %w", i, err)
		}
		key := classKey(t.Class)
		if _, seen := canonical[key]; !seen {
			canonical[key] = t.Class
			c.classes = append(c.classes, t.Class)
		}
		c.byClass[key] = append(c.byClass[key], t)
		c.total++
	}

	sort.Strings(c.classes)
	return c, nil
}

// Default builds the catalog from the built-in template set.
func Default() (*Catalog, error) {
	return New(DefaultTemplates())
}

// ByClass returns copies of the templates for a class, or nil when the class
// is unknown.
func (c *Catalog) ByClass(class string) []Template {
	templates, ok := c.byClass[classKey(class)]
	if !ok {
		return nil
	}
	out := make([]Template, len(templates))
	copy(out, templates)
	return out
}

// HasClass reports whether any template exists for the class.
func (c *Catalog) HasClass(class string) bool {
	_, ok := c.byClass[classKey(class)]
	return ok
}

// Classes returns the known class names, sorted.
func (c *Catalog) Classes() []string {
	out := make([]string, len(c.classes))
	copy(out, c.classes)
	return out
}

// All returns copies of every template, grouped by class in sorted order.
func (c *Catalog) All() []Template {
	out := make([]Template, 0, c.total)
	for _, class := range c.classes {
		out = append(out, c.byClass[classKey(class)]...)
	}
	return out
}

// Len returns the number of templates.
func (c *Catalog) Len() int {
	return c.total
}

func classKey(class string) string {
	return strings.ToLower(strings.TrimSpace(class))
}
