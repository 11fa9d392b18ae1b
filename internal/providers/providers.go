// Theoryforge - ARPG Build Recommendation Engine
// Copyright 2026 Theoryforge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theoryforge/theoryforge

// Package providers defines the collaborator interfaces the recommendation
// pipeline depends on, together with their HTTP client implementations.
//
// Each collaborator is an external service the pipeline can survive without:
// the generation engine proposes candidate builds, the pricing provider
// resolves item prices from trade listings, the calculators recompute build
// stats, and the meta provider reports ladder popularity. Implementations
// wrap transport failures in ErrUnavailable so callers can distinguish
// "service is down" from "service answered with an error".
//
// All production clients are wrapped with circuit breakers (see breaker.go)
// before being handed to the pipeline.
package providers

import (
	"context"
	"errors"
	"time"

	"github.com/theoryforge/theoryforge/internal/build"
)

// Sentinel errors used to classify collaborator failures.
//
// ErrUnavailable marks connection-level failures (refused, DNS, timeout,
// HTTP 5xx, open circuit breaker). ErrNotFound marks a well-formed answer
// that simply has no data for the request. Anything else is a genuine
// collaborator error.
var (
	ErrUnavailable = errors.New("collaborator unavailable")
	ErrNotFound    = errors.New("not found")
)

// Query describes what the generation engine should suggest builds for.
type Query struct {
	Class           string   `json:"class"`
	Ascendancy      string   `json:"ascendancy,omitempty"`
	Goal            string   `json:"goal"`
	MaxBudget       float64  `json:"max_budget,omitempty"`
	PreferredSkills []string `json:"preferred_skills,omitempty"`
	Playstyle       string   `json:"playstyle,omitempty"`
}

// EngineBuild is a single suggestion returned by the generation engine.
// Estimates are the engine's own and are re-validated by the calculator
// stage before they reach a client.
type EngineBuild struct {
	Name          string   `json:"name"`
	Class         string   `json:"class"`
	Ascendancy    string   `json:"ascendancy"`
	Level         int      `json:"level"`
	MainSkill     string   `json:"main_skill"`
	SupportGems   []string `json:"support_gems"`
	KeyItems      []string `json:"key_items"`
	Keystones     []string `json:"keystones"`
	EstimatedDPS  float64  `json:"estimated_dps"`
	EstimatedEHP  float64  `json:"estimated_ehp"`
	EstimatedCost float64  `json:"estimated_cost"`
	Confidence    float64  `json:"confidence"`
}

// ItemPrice is the median market price for a single item.
type ItemPrice struct {
	Item      string    `json:"item"`
	Median    float64   `json:"median"`
	Currency  string    `json:"currency"`
	Listings  int       `json:"listings"`
	FetchedAt time.Time `json:"fetched_at"`
}

// MetaBuild is one ladder entry from the meta provider. Popularity is the
// share of ladder characters playing the build, in [0, 1].
type MetaBuild struct {
	Name       string  `json:"name"`
	Class      string  `json:"class"`
	Ascendancy string  `json:"ascendancy"`
	MainSkill  string  `json:"main_skill"`
	Popularity float64 `json:"popularity"`
}

// GenerationEngine proposes candidate builds for a query. Backed by an
// AI-assisted build suggestion service in production.
type GenerationEngine interface {
	Ping(ctx context.Context) error
	Suggest(ctx context.Context, q Query) ([]EngineBuild, error)
}

// PricingProvider resolves a single item name to its current market price.
type PricingProvider interface {
	Ping(ctx context.Context) error
	Price(ctx context.Context, item string) (*ItemPrice, error)
}

// Calculator recomputes the stats of a candidate build and exports it in a
// format build planners can import. Two implementations exist: a local
// sidecar process and a hosted web service.
type Calculator interface {
	Ping(ctx context.Context) error
	CalculateStats(ctx context.Context, c build.Candidate) (*build.Stats, error)
	ExportCode(ctx context.Context, c build.Candidate) (string, error)
}

// MetaProvider reports which builds are currently popular on the ladder.
type MetaProvider interface {
	Ping(ctx context.Context) error
	MetaBuilds(ctx context.Context, class string) ([]MetaBuild, error)
}

// CacheStore persists item prices between pricing calls. GetPrice returns
// ErrNotFound for missing or expired entries.
type CacheStore interface {
	Ping(ctx context.Context) error
	GetPrice(ctx context.Context, item string) (*ItemPrice, error)
	SetPrice(ctx context.Context, price *ItemPrice, ttl time.Duration) error
	Close() error
}
