// Theoryforge - ARPG Build Recommendation Engine
// Copyright 2026 Theoryforge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theoryforge/theoryforge

package pipeline

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/theoryforge/theoryforge/internal/build"
	"github.com/theoryforge/theoryforge/internal/health"
	"github.com/theoryforge/theoryforge/internal/metrics"
	"github.com/theoryforge/theoryforge/internal/providers"
	"github.com/theoryforge/theoryforge/internal/scoring"
)

// stageGenerate fills the candidate pool. With the generation engine
// unusable the whole stage is skipped and the request proceeds to an empty,
// zero-confidence result; a mid-call engine failure only costs the
// engine-sourced suggestions.
func (o *Orchestrator) stageGenerate(ctx context.Context, r *run) {
	start := time.Now()
	defer r.endStage(StageGenerate, start)

	if !o.registry.Usable(health.ComponentGenerationEngine) {
		r.note("generation engine unavailable, no candidates generated")
		return
	}

	r.candidates = o.gen.Generate(ctx, r.req.Class, r.req.Goal, r.req.Constraints(), r.req.CandidateCount)
	r.use("generator")

	callCtx, cancel := o.callCtx(ctx)
	defer cancel()

	callStart := time.Now()
	suggestions, err := o.collab.Engine.Suggest(callCtx, providers.Query{
		Class:     r.req.Class,
		Goal:      string(r.req.Goal),
		MaxBudget: r.req.MaxBudget,
	})
	metrics.RecordCollaboratorCall(string(health.ComponentGenerationEngine), time.Since(callStart), err)

	if err != nil {
		o.registry.MarkUnavailable(health.ComponentGenerationEngine, err)
		r.fail("generation engine call failed: %v", err)
		o.logger.Warn().Err(err).Str("request_id", r.req.RequestID).
			Msg("engine suggestions unavailable, continuing with template candidates")
		return
	}

	r.use(string(health.ComponentGenerationEngine))
	for i := range suggestions {
		cand := engineCandidate(&suggestions[i], r.req)
		if err := cand.Validate(); err != nil {
			o.logger.Debug().Err(err).Msg("dropping invalid engine suggestion")
			continue
		}
		r.candidates = append(r.candidates, cand)
	}
}

// engineCandidate converts an engine suggestion into a candidate. Engine
// estimates carry no resistance data; the validation stage fills that in
// when a calculator is reachable.
func engineCandidate(eb *providers.EngineBuild, req build.Request) build.Candidate {
	level := eb.Level
	if level < build.MinLevel || level > build.MaxLevel {
		level = 90
	}

	class := eb.Class
	if class == "" {
		class = req.Class
	}

	return build.Candidate{
		Name:         eb.Name,
		Class:        class,
		Ascendancy:   eb.Ascendancy,
		Level:        level,
		Goal:         req.Goal,
		PrimarySkill: eb.MainSkill,
		SupportGems:  append([]string(nil), eb.SupportGems...),
		KeyItems:     append([]string(nil), eb.KeyItems...),
		Keystones:    append([]string(nil), eb.Keystones...),
		Stats: build.Stats{
			DPS:  eb.EstimatedDPS,
			EHP:  eb.EstimatedEHP,
			Life: eb.EstimatedEHP,
		},
		EstimatedCost: eb.EstimatedCost,
		Currency:      build.DefaultCurrency,
		Source:        build.SourceEngine,
	}
}

// stageEnhance refreshes candidate costs from market prices. Items are
// priced through the cache first, with bounded concurrent fan-out per
// candidate; a provider outage mid-stage leaves the remaining candidates on
// their generator estimates.
func (o *Orchestrator) stageEnhance(ctx context.Context, r *run) {
	start := time.Now()
	defer r.endStage(StageEnhance, start)

	if len(r.candidates) == 0 {
		return
	}
	if !o.registry.Usable(health.ComponentPricing) {
		r.note("pricing provider unavailable, keeping estimated costs")
		return
	}

	r.use(string(health.ComponentPricing))
	kept := r.candidates[:0]
	for i := range r.candidates {
		cand := &r.candidates[i]

		total, priced, err := o.priceItems(ctx, cand.KeyItems)
		if err != nil {
			o.registry.MarkUnavailable(health.ComponentPricing, err)
			r.fail("pricing provider failed mid-stage: %v", err)
			o.logger.Warn().Err(err).Str("request_id", r.req.RequestID).
				Msg("pricing lost mid-stage, remaining candidates keep estimates")
			kept = append(kept, r.candidates[i:]...)
			break
		}
		if priced > 0 {
			cand.EstimatedCost = total + o.config.BaseCostOffset
		}

		if r.req.MaxBudget > 0 && cand.EstimatedCost > r.req.MaxBudget {
			o.logger.Debug().
				Str("build", cand.Name).
				Float64("cost", cand.EstimatedCost).
				Float64("budget", r.req.MaxBudget).
				Msg("dropping candidate over refreshed budget")
			continue
		}
		kept = append(kept, *cand)
	}
	r.candidates = kept
}

// priceItems resolves every item's median price, cache first. It returns
// the summed prices and how many items resolved. Unknown items price at
// zero; an unavailable provider aborts with the error.
func (o *Orchestrator) priceItems(ctx context.Context, items []string) (total float64, priced int, err error) {
	if len(items) == 0 {
		return 0, 0, nil
	}

	prices := make([]float64, len(items))
	found := make([]bool, len(items))

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(o.config.PricingFanOut)

	for i, item := range items {
		g.Go(func() error {
			price, err := o.priceItem(groupCtx, item)
			if err != nil {
				if errors.Is(err, providers.ErrNotFound) {
					return nil
				}
				return err
			}
			prices[i] = price.Median
			found[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, 0, err
	}

	for i := range prices {
		if found[i] {
			total += prices[i]
			priced++
		}
	}
	return total, priced, nil
}

// priceItem resolves one item: cache hit, or provider call with a
// write-back when the cache is usable.
func (o *Orchestrator) priceItem(ctx context.Context, item string) (*providers.ItemPrice, error) {
	cacheUsable := o.registry.Usable(health.ComponentCache)

	if cacheUsable {
		if price, err := o.collab.Cache.GetPrice(ctx, item); err == nil {
			metrics.PriceCacheHits.Inc()
			return price, nil
		} else if !errors.Is(err, providers.ErrNotFound) {
			o.logger.Debug().Err(err).Str("item", item).Msg("price cache read failed")
		} else {
			metrics.PriceCacheMisses.Inc()
		}
	}

	callCtx, cancel := o.callCtx(ctx)
	defer cancel()

	callStart := time.Now()
	price, err := o.collab.Pricing.Price(callCtx, item)
	metrics.RecordCollaboratorCall(string(health.ComponentPricing), time.Since(callStart), err)
	if err != nil {
		return nil, err
	}

	if cacheUsable {
		if err := o.collab.Cache.SetPrice(ctx, price, o.config.PriceTTL); err != nil {
			o.logger.Debug().Err(err).Str("item", item).Msg("price cache write failed")
		}
	}
	return price, nil
}

// stageValidate recomputes candidate stats through a calculator, preferring
// the local sidecar over the web service. Candidates failing the request's
// hard minimums are dropped; losing every calculator mid-stage leaves the
// pool unvalidated rather than empty.
func (o *Orchestrator) stageValidate(ctx context.Context, r *run) {
	start := time.Now()
	defer r.endStage(StageValidate, start)

	if len(r.candidates) == 0 {
		return
	}

	calc, component := o.pickCalculator()
	if calc == nil {
		r.note("no calculator available, serving unvalidated stats")
		return
	}

	kept := r.candidates[:0]
	validatedAny := false
	exhausted := false
	for i := range r.candidates {
		cand := &r.candidates[i]

		stats, err := o.calculateStats(ctx, calc, component, *cand)
		if err != nil {
			o.registry.MarkUnavailable(component, err)
			r.fail("%s failed mid-stage: %v", component, err)

			calc, component = o.pickCalculator()
			if calc != nil {
				stats, err = o.calculateStats(ctx, calc, component, *cand)
				if err != nil {
					o.registry.MarkUnavailable(component, err)
					r.fail("%s failed mid-stage: %v", component, err)
					calc = nil
				}
			}
			if calc == nil {
				r.note("all calculators lost mid-stage, remaining candidates unvalidated")
				exhausted = true
				kept = append(kept, r.candidates[i:]...)
				break
			}
		}

		cand.Stats = *stats
		validatedAny = true
		r.use(string(component))

		if !o.meetsRequirements(cand, r.req) {
			o.logger.Debug().Str("build", cand.Name).Msg("dropping candidate failing validated requirements")
			continue
		}

		if code, err := calc.ExportCode(ctx, *cand); err == nil && code != "" {
			r.exportCodes[cand.Name] = code
		}
		kept = append(kept, *cand)
	}

	r.candidates = kept
	r.validated = validatedAny && !exhausted
}

// pickCalculator returns the preferred usable calculator, local first.
func (o *Orchestrator) pickCalculator() (providers.Calculator, health.Component) {
	if o.registry.Usable(health.ComponentCalculatorLocal) {
		return o.collab.CalculatorLocal, health.ComponentCalculatorLocal
	}
	if o.registry.Usable(health.ComponentCalculatorWeb) {
		return o.collab.CalculatorWeb, health.ComponentCalculatorWeb
	}
	return nil, ""
}

// calculateStats wraps one calculator call with timeout and metrics.
func (o *Orchestrator) calculateStats(ctx context.Context, calc providers.Calculator,
	component health.Component, cand build.Candidate) (*build.Stats, error) {
	callCtx, cancel := o.callCtx(ctx)
	defer cancel()

	callStart := time.Now()
	stats, err := calc.CalculateStats(callCtx, cand)
	metrics.RecordCollaboratorCall(string(component), time.Since(callStart), err)
	return stats, err
}

// meetsRequirements applies the request's post-validation hard minimums.
func (o *Orchestrator) meetsRequirements(c *build.Candidate, req build.Request) bool {
	if req.MinDPS > 0 && c.Stats.DPS < req.MinDPS {
		return false
	}
	if req.MinEHP > 0 && c.Stats.EHP < req.MinEHP {
		return false
	}
	if req.RequireCappedRes && !c.Stats.ResistanceCapped() {
		return false
	}
	return true
}

// stageFinalize folds meta popularity into the scorer and produces the
// ranked, diversified recommendation list.
func (o *Orchestrator) stageFinalize(ctx context.Context, r *run) []build.Recommendation {
	start := time.Now()
	defer r.endStage(StageFinalize, start)

	if o.registry.Usable(health.ComponentMeta) {
		callCtx, cancel := o.callCtx(ctx)
		callStart := time.Now()
		metaBuilds, err := o.collab.Meta.MetaBuilds(callCtx, r.req.Class)
		cancel()
		metrics.RecordCollaboratorCall(string(health.ComponentMeta), time.Since(callStart), err)

		if err != nil {
			o.registry.MarkUnavailable(health.ComponentMeta, err)
			r.fail("meta provider call failed: %v", err)
		} else {
			r.popularity = popularityIndex(metaBuilds)
			r.use(string(health.ComponentMeta))
		}
	} else {
		r.note("meta provider unavailable, popularity scored neutral")
	}

	r.use("scorer")
	recs := o.scorer.Rank(r.candidates, r.req, r.popularity)

	for i := range recs {
		if code, ok := r.exportCodes[recs[i].Build.Name]; ok {
			recs[i].ExportCode = code
		}
	}
	return recs
}

// popularityIndex folds meta summaries into a skill-keyed popularity map,
// keeping the highest share per skill.
func popularityIndex(metaBuilds []providers.MetaBuild) scoring.PopularityIndex {
	if len(metaBuilds) == 0 {
		return nil
	}
	idx := make(scoring.PopularityIndex, len(metaBuilds))
	for _, mb := range metaBuilds {
		key := strings.ToLower(mb.MainSkill)
		if mb.Popularity > idx[key] {
			idx[key] = mb.Popularity
		}
	}
	return idx
}

// fallbackResult produces the single synthetic minimal build served when the
// pipeline fails unrecoverably.
func (o *Orchestrator) fallbackResult(req build.Request, reason string, start time.Time) *Result {
	cand := o.fallbackCandidate(req)

	score := build.Score{
		Total:       0.3,
		Criteria:    map[string]float64{},
		Confidence:  0.1,
		Explanation: "Fallback build served after a pipeline failure; numbers are conservative defaults.",
		Reasons:     []string{"fallback"},
	}
	for _, criterion := range build.Criteria() {
		score.Criteria[criterion] = 0.3
	}

	return &Result{
		Builds:     []build.Recommendation{{Build: cand, Score: score}},
		Confidence: score.Confidence,
		Validated:  false,
		Metadata: Metadata{
			RequestID:   req.RequestID,
			Fallback:    true,
			Degraded:    true,
			Errors:      []string{reason},
			GeneratedAt: time.Now(),
		},
		GenerationTime: time.Since(start),
	}
}

// fallbackCandidate is a deliberately boring league-start shape: cheap,
// capped, unexciting numbers that any class can approximate.
func (o *Orchestrator) fallbackCandidate(req build.Request) build.Candidate {
	class := req.Class
	if class == "" {
		class = "Scion"
	}

	cand := build.Candidate{
		Name:         "Minimal Viable Starter",
		Class:        class,
		Level:        80,
		Goal:         build.GoalLeagueStart,
		Complexity:   build.ComplexityBeginner,
		PrimarySkill: "Default Attack",
		Stats: build.Stats{
			DPS:          50_000,
			EHP:          4_500,
			Life:         4_500,
			FireRes:      75,
			ColdRes:      75,
			LightningRes: 75,
			ChaosRes:     -30,
		},
		EstimatedCost: 1,
		Currency:      build.DefaultCurrency,
		Source:        build.SourceFallback,
		Notes:         []string{"Synthetic fallback produced after a pipeline failure."},
	}

	// Borrow the cheapest template's skill outline when the class has one.
	if templates := o.catalog.ByClass(class); len(templates) > 0 {
		tmpl := templates[0]
		for _, t := range templates[1:] {
			if t.BudgetMin < tmpl.BudgetMin {
				tmpl = t
			}
		}
		cand.Name = tmpl.Name + " (fallback)"
		cand.Ascendancy = tmpl.Ascendancy
		cand.PrimarySkill = tmpl.PrimarySkills[0]
		cand.SupportGems = append([]string(nil), tmpl.SupportGems...)
		cand.Keystones = append([]string(nil), tmpl.Keystones...)
	}
	return cand
}
