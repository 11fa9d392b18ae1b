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

// CalculatorClient talks to a build calculator over HTTP. The same client
// serves both deployments: the local sidecar process (fast, preferred) and
// the hosted web service (fallback). They expose the same API.
//
// Thread Safety: Safe for concurrent use.
type CalculatorClient struct {
	http *httpClient
}

// NewCalculatorClient creates a calculator client from the provided
// connection settings.
func NewCalculatorClient(cfg ClientConfig) *CalculatorClient {
	return &CalculatorClient{http: newHTTPClient(cfg)}
}

// Ping verifies connectivity to the calculator.
func (c *CalculatorClient) Ping(ctx context.Context) error {
	return c.http.ping(ctx, "/api/v1/health")
}

// calculateRequest is the wire shape sent to the calculate endpoint.
// Only the fields the calculator needs to rebuild the character are sent.
type calculateRequest struct {
	Name        string   `json:"name"`
	Class       string   `json:"class"`
	Ascendancy  string   `json:"ascendancy"`
	Level       int      `json:"level"`
	MainSkill   string   `json:"main_skill"`
	SupportGems []string `json:"support_gems"`
	KeyItems    []string `json:"key_items"`
	Keystones   []string `json:"keystones"`
}

func newCalculateRequest(c build.Candidate) calculateRequest {
	return calculateRequest{
		Name:        c.Name,
		Class:       c.Class,
		Ascendancy:  c.Ascendancy,
		Level:       c.Level,
		MainSkill:   c.PrimarySkill,
		SupportGems: c.SupportGems,
		KeyItems:    c.KeyItems,
		Keystones:   c.Keystones,
	}
}

// calculateResponse is the wire shape of the calculate endpoint.
type calculateResponse struct {
	DPS           float64 `json:"dps"`
	Life          float64 `json:"life"`
	EnergyShield  float64 `json:"energy_shield"`
	EHP           float64 `json:"ehp"`
	FireRes       int     `json:"fire_res"`
	ColdRes       int     `json:"cold_res"`
	LightningRes  int     `json:"lightning_res"`
	ChaosRes      int     `json:"chaos_res"`
	CritChance    float64 `json:"crit_chance"`
	CritMulti     float64 `json:"crit_multi"`
	MovementSpeed float64 `json:"movement_speed"`
}

// CalculateStats rebuilds the candidate in the calculator and returns the
// recomputed stats.
func (c *CalculatorClient) CalculateStats(ctx context.Context, cand build.Candidate) (*build.Stats, error) {
	var resp calculateResponse
	if err := c.http.postJSON(ctx, "/api/v1/calculate", newCalculateRequest(cand), &resp); err != nil {
		return nil, fmt.Errorf("calculate stats for %q: %w", cand.Name, err)
	}

	ehp := resp.EHP
	if ehp == 0 {
		ehp = resp.Life + resp.EnergyShield
	}

	return &build.Stats{
		DPS:           resp.DPS,
		EHP:           ehp,
		Life:          resp.Life,
		EnergyShield:  resp.EnergyShield,
		FireRes:       resp.FireRes,
		ColdRes:       resp.ColdRes,
		LightningRes:  resp.LightningRes,
		ChaosRes:      resp.ChaosRes,
		CritChance:    resp.CritChance,
		CritMulti:     resp.CritMulti,
		MovementSpeed: resp.MovementSpeed,
	}, nil
}

// exportResponse is the wire shape of the export endpoint.
type exportResponse struct {
	Code string `json:"code"`
}

// ExportCode renders the candidate as an import code for build planners.
func (c *CalculatorClient) ExportCode(ctx context.Context, cand build.Candidate) (string, error) {
	var resp exportResponse
	if err := c.http.postJSON(ctx, "/api/v1/export", newCalculateRequest(cand), &resp); err != nil {
		return "", fmt.Errorf("export code for %q: %w", cand.Name, err)
	}
	return resp.Code, nil
}
