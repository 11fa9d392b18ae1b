// Theoryforge - ARPG Build Recommendation Engine
// Copyright 2026 Theoryforge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theoryforge/theoryforge

package providers

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// Pricing client retry policy for HTTP 429 responses. Trade APIs rate limit
// aggressively, so on top of the proactive limiter the client retries with
// exponential backoff (1s, 2s, 4s) before reporting the provider
// unavailable.
const (
	pricingMaxRetries     = 3
	pricingRetryBaseDelay = 1 * time.Second
)

// PricingClient talks to the trade pricing provider over HTTP.
//
// Outbound requests pass through a token bucket limiter so a burst of
// enhancement lookups cannot trip the upstream's rate limits. The limiter
// blocks in Wait until a slot is free or the context is cancelled.
//
// Thread Safety: Safe for concurrent use.
type PricingClient struct {
	http    *httpClient
	limiter *rate.Limiter
}

// NewPricingClient creates a pricing client. requestsPerSecond bounds the
// sustained outbound request rate; zero or negative disables throttling.
func NewPricingClient(cfg ClientConfig, requestsPerSecond float64) *PricingClient {
	var limiter *rate.Limiter
	if requestsPerSecond > 0 {
		// Burst of 1 keeps request spacing even under fan-out
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
	return &PricingClient{
		http:    newHTTPClient(cfg),
		limiter: limiter,
	}
}

// Ping verifies connectivity to the pricing provider. Ping bypasses the
// rate limiter so health probes stay cheap.
func (c *PricingClient) Ping(ctx context.Context) error {
	return c.http.ping(ctx, "/api/v1/health")
}

// priceResponse is the wire shape of the pricing endpoint.
type priceResponse struct {
	Item     string  `json:"item"`
	Median   float64 `json:"median"`
	Currency string  `json:"currency"`
	Listings int     `json:"listings"`
}

// Price resolves an item name to its current median market price.
// Returns ErrNotFound when the provider has no listings for the item.
func (c *PricingClient) Price(ctx context.Context, item string) (*ItemPrice, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("pricing rate limit wait: %w", err)
		}
	}

	path := "/api/v1/prices/" + url.PathEscape(item)

	var resp priceResponse
	var lastErr error
	for attempt := 0; attempt <= pricingMaxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		lastErr = c.http.getJSON(ctx, path, &resp)
		if lastErr == nil {
			break
		}
		// Only connection-level failures are worth retrying, and not-found
		// answers never change on retry
		if errors.Is(lastErr, ErrNotFound) || !errors.Is(lastErr, ErrUnavailable) {
			return nil, fmt.Errorf("price %q: %w", item, lastErr)
		}
		if attempt == pricingMaxRetries {
			return nil, fmt.Errorf("price %q: %w", item, lastErr)
		}

		// Exponential backoff: 1s, 2s, 4s
		delay := pricingRetryBaseDelay * time.Duration(1<<uint(attempt))
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	currency := resp.Currency
	if currency == "" {
		currency = "divine"
	}
	name := resp.Item
	if name == "" {
		name = item
	}

	return &ItemPrice{
		Item:      name,
		Median:    resp.Median,
		Currency:  currency,
		Listings:  resp.Listings,
		FetchedAt: time.Now().UTC(),
	}, nil
}
