// Theoryforge - ARPG Build Recommendation Engine
// Copyright 2026 Theoryforge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theoryforge/theoryforge

package providers

import (
	"context"
	"fmt"
	"net/url"
)

// MetaClient talks to the ladder meta provider over HTTP. The provider
// aggregates ladder snapshots into per-build popularity shares.
//
// Thread Safety: Safe for concurrent use.
type MetaClient struct {
	http *httpClient
}

// NewMetaClient creates a meta provider client from the provided connection
// settings.
func NewMetaClient(cfg ClientConfig) *MetaClient {
	return &MetaClient{http: newHTTPClient(cfg)}
}

// Ping verifies connectivity to the meta provider.
func (c *MetaClient) Ping(ctx context.Context) error {
	return c.http.ping(ctx, "/api/v1/health")
}

// metaResponse is the wire shape of the ladder meta endpoint.
type metaResponse struct {
	League string      `json:"league,omitempty"`
	Builds []MetaBuild `json:"builds"`
}

// MetaBuilds returns the ladder popularity snapshot, optionally narrowed to
// a single class. An empty class returns the full ladder.
func (c *MetaClient) MetaBuilds(ctx context.Context, class string) ([]MetaBuild, error) {
	path := "/api/v1/meta/builds"
	if class != "" {
		path += "?class=" + url.QueryEscape(class)
	}

	var resp metaResponse
	if err := c.http.getJSON(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("meta builds: %w", err)
	}
	if resp.Builds == nil {
		return []MetaBuild{}, nil
	}
	return resp.Builds, nil
}
