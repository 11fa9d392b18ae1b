// Theoryforge - ARPG Build Recommendation Engine
// Copyright 2026 Theoryforge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theoryforge/theoryforge

package providers

import (
	"context"
	"fmt"

	"github.com/theoryforge/theoryforge/internal/build"
)

// Disabled collaborators stand in for services with no configured URL.
// Every call reports ErrUnavailable, which the health prober maps to an
// unavailable component and the pipeline handles by skipping or degrading
// the corresponding stage. This keeps the wiring uniform: the pipeline
// never has to check for nil collaborators.

func disabledErr(component string) error {
	return fmt.Errorf("%s not configured: %w", component, ErrUnavailable)
}

// DisabledEngine is a GenerationEngine with no backing service.
type DisabledEngine struct{}

func (DisabledEngine) Ping(context.Context) error { return disabledErr("generation-engine") }

func (DisabledEngine) Suggest(context.Context, Query) ([]EngineBuild, error) {
	return nil, disabledErr("generation-engine")
}

// DisabledPricing is a PricingProvider with no backing service.
type DisabledPricing struct{}

func (DisabledPricing) Ping(context.Context) error { return disabledErr("pricing-provider") }

func (DisabledPricing) Price(context.Context, string) (*ItemPrice, error) {
	return nil, disabledErr("pricing-provider")
}

// DisabledCalculator is a Calculator with no backing service.
type DisabledCalculator struct {
	// Component distinguishes the local and web deployments in error text.
	Component string
}

func (d DisabledCalculator) component() string {
	if d.Component == "" {
		return "calculator"
	}
	return d.Component
}

func (d DisabledCalculator) Ping(context.Context) error { return disabledErr(d.component()) }

func (d DisabledCalculator) CalculateStats(context.Context, build.Candidate) (*build.Stats, error) {
	return nil, disabledErr(d.component())
}

func (d DisabledCalculator) ExportCode(context.Context, build.Candidate) (string, error) {
	return "", disabledErr(d.component())
}

// DisabledMeta is a MetaProvider with no backing service.
type DisabledMeta struct{}

func (DisabledMeta) Ping(context.Context) error { return disabledErr("meta-provider") }

func (DisabledMeta) MetaBuilds(context.Context, string) ([]MetaBuild, error) {
	return nil, disabledErr("meta-provider")
}
