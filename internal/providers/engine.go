// Theoryforge - ARPG Build Recommendation Engine
// Copyright 2026 Theoryforge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theoryforge/theoryforge

package providers

import (
	"context"
	"fmt"
)

// EngineClient talks to the build generation engine over HTTP.
//
// The engine is an AI-assisted suggestion service: given a class, goal, and
// budget it returns build sketches with its own DPS/EHP estimates. The
// pipeline treats those estimates as provisional until the calculator stage
// has validated them.
//
// Thread Safety: Safe for concurrent use. Each request creates its own HTTP
// request.
type EngineClient struct {
	http *httpClient
}

// NewEngineClient creates a generation engine client from the provided
// connection settings.
func NewEngineClient(cfg ClientConfig) *EngineClient {
	return &EngineClient{http: newHTTPClient(cfg)}
}

// Ping verifies connectivity to the generation engine.
func (c *EngineClient) Ping(ctx context.Context) error {
	return c.http.ping(ctx, "/api/v1/health")
}

// engineSuggestResponse is the wire shape of the engine's suggest endpoint.
type engineSuggestResponse struct {
	Builds []EngineBuild `json:"builds"`
	Model  string        `json:"model,omitempty"`
}

// Suggest requests build suggestions for the query. Returns an empty slice
// when the engine has nothing to offer for the class/goal combination.
func (c *EngineClient) Suggest(ctx context.Context, q Query) ([]EngineBuild, error) {
	var resp engineSuggestResponse
	if err := c.http.postJSON(ctx, "/api/v1/suggest", q, &resp); err != nil {
		return nil, fmt.Errorf("engine suggest: %w", err)
	}
	if resp.Builds == nil {
		return []EngineBuild{}, nil
	}
	return resp.Builds, nil
}
