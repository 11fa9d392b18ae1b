// Theoryforge - ARPG Build Recommendation Engine
// Copyright 2026 Theoryforge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theoryforge/theoryforge

/*
Package pricecache provides the item price cache backing the pricing
collaborator.

Budget estimation re-prices the same handful of league staples (uniques,
currency items, cluster bases) for every candidate in a request, while the
upstream pricing provider is rate limited. Caching fetched prices keeps the
fan-out cheap and keeps the engine usable through short pricing outages.

# Backends

Two implementations of providers.CacheStore are available:

  - BadgerStore persists prices in BadgerDB with entry TTLs, surviving
    restarts. Use when a cache directory is configured.
  - MemoryStore holds prices in a mutex-guarded map with lazy expiry.
    The default when no cache directory is configured.

Both report hits, misses and evictions through the metrics package.

# Usage Example

	store, err := pricecache.NewBadgerStore(cfg.Cache.Path)
	if err != nil {
	    return err
	}
	defer store.Close()
	store.StartGC(ctx, 10*time.Minute)

	price, err := store.GetPrice(ctx, "Mageblood")
	if errors.Is(err, providers.ErrNotFound) {
	    // fall through to the pricing provider
	}
*/
package pricecache
