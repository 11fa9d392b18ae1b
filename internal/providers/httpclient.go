// Theoryforge - ARPG Build Recommendation Engine
// Copyright 2026 Theoryforge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theoryforge/theoryforge

package providers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

// maxErrorBodySize limits the maximum amount of response body read for error
// reporting. This prevents unbounded memory allocation when an upstream
// returns a large error page.
const maxErrorBodySize = 64 * 1024 // 64KB

// defaultTimeout is the per-request HTTP timeout applied when a client
// config does not specify one.
const defaultTimeout = 30 * time.Second

// ClientConfig carries the connection settings shared by all collaborator
// HTTP clients.
type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

func (c ClientConfig) timeout() time.Duration {
	if c.Timeout <= 0 {
		return defaultTimeout
	}
	return c.Timeout
}

// readBodyForError reads the response body for error reporting (max 64KB).
// Returns the body content or a placeholder message if reading fails.
// Uses io.LimitReader to prevent unbounded memory allocation.
func readBodyForError(r io.Reader) []byte {
	limitedReader := io.LimitReader(r, maxErrorBodySize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// httpClient is the shared request layer under every collaborator client.
// It owns the transport, authentication header, and the translation of
// transport-level failures into ErrUnavailable.
type httpClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func newHTTPClient(cfg ClientConfig) *httpClient {
	return &httpClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client: &http.Client{
			Timeout: cfg.timeout(),
		},
	}
}

// do performs a single HTTP request and classifies the outcome.
//
// Classification follows the collaborator error taxonomy:
//   - transport failure (refused, DNS, timeout)  -> ErrUnavailable
//   - HTTP 429, 502, 503, 504                    -> ErrUnavailable
//   - HTTP 404                                   -> ErrNotFound
//   - any other non-2xx                          -> plain error
//
// On success the caller owns resp.Body and must close it.
func (c *httpClient) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w: %w", path, ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return resp, nil
	case resp.StatusCode == http.StatusNotFound:
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	case resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode == http.StatusBadGateway,
		resp.StatusCode == http.StatusServiceUnavailable,
		resp.StatusCode == http.StatusGatewayTimeout:
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%s returned status %d: %w", path, resp.StatusCode, ErrUnavailable)
	default:
		errBody := readBodyForError(resp.Body)
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%s request failed with status %d: %s", path, resp.StatusCode, string(errBody))
	}
}

// getJSON performs a GET request and decodes the JSON response into result.
func (c *httpClient) getJSON(ctx context.Context, path string, result interface{}) error {
	resp, err := c.do(ctx, http.MethodGet, path, http.NoBody)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// postJSON encodes payload as JSON, performs a POST request, and decodes the
// JSON response into result.
func (c *httpClient) postJSON(ctx context.Context, path string, payload, result interface{}) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", path, err)
	}

	resp, err := c.do(ctx, http.MethodPost, path, bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// ping issues a GET against the service health endpoint. Any classified
// failure is returned unchanged so the health prober can map it to a
// component status.
func (c *httpClient) ping(ctx context.Context, path string) error {
	resp, err := c.do(ctx, http.MethodGet, path, http.NoBody)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	return nil
}
