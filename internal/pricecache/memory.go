// Theoryforge - ARPG Build Recommendation Engine
// Copyright 2026 Theoryforge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theoryforge/theoryforge

package pricecache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/theoryforge/theoryforge/internal/metrics"
	"github.com/theoryforge/theoryforge/internal/providers"
)

type memoryEntry struct {
	price     providers.ItemPrice
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryStore is an in-memory implementation of providers.CacheStore.
// Suitable for development and single-instance deployments without a cache
// directory configured. For durable caching, use BadgerStore.
type MemoryStore struct {
	mu     sync.RWMutex
	prices map[string]memoryEntry
}

// NewMemoryStore creates a new in-memory price cache.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		prices: make(map[string]memoryEntry),
	}
}

// Ping always succeeds; the store lives in process memory.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// GetPrice retrieves a cached price by item name. Expired entries are
// removed lazily and reported as providers.ErrNotFound.
func (s *MemoryStore) GetPrice(ctx context.Context, item string) (*providers.ItemPrice, error) {
	s.mu.RLock()
	entry, ok := s.prices[item]
	s.mu.RUnlock()

	if !ok {
		metrics.PriceCacheMisses.Inc()
		return nil, providers.ErrNotFound
	}

	if entry.expired(time.Now()) {
		s.mu.Lock()
		// Re-check under the write lock; a concurrent SetPrice may have
		// replaced the entry since the read above.
		if cur, ok := s.prices[item]; ok && cur.expiresAt.Equal(entry.expiresAt) {
			delete(s.prices, item)
			metrics.PriceCacheEvictions.Inc()
		}
		s.mu.Unlock()

		metrics.PriceCacheMisses.Inc()
		return nil, providers.ErrNotFound
	}

	metrics.PriceCacheHits.Inc()

	// Return a copy to prevent external modifications
	price := entry.price
	return &price, nil
}

// SetPrice stores a price with the given TTL. A non-positive TTL stores the
// entry without expiry.
func (s *MemoryStore) SetPrice(ctx context.Context, price *providers.ItemPrice, ttl time.Duration) error {
	if price == nil {
		return errors.New("price cannot be nil")
	}
	if price.Item == "" {
		return errors.New("price item name cannot be empty")
	}

	entry := memoryEntry{price: *price}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}

	s.mu.Lock()
	s.prices[price.Item] = entry
	s.mu.Unlock()

	return nil
}

// Close is a no-op; the map is reclaimed when the store is dropped.
func (s *MemoryStore) Close() error {
	return nil
}

// Len returns the number of entries currently held, including entries whose
// TTL has lapsed but which have not been swept yet.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.prices)
}

// StartCleanupRoutine starts a background goroutine that periodically sweeps
// expired entries. The routine stops when the context is canceled.
// Without it the store still behaves correctly, but expired entries linger
// until the next GetPrice touches them.
func (s *MemoryStore) StartCleanupRoutine(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.cleanupExpired()
			}
		}
	}()
}

// cleanupExpired removes all expired entries and returns the count removed.
func (s *MemoryStore) cleanupExpired() int {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for item, entry := range s.prices {
		if entry.expired(now) {
			delete(s.prices, item)
			removed++
		}
	}

	if removed > 0 {
		metrics.PriceCacheEvictions.Add(float64(removed))
	}
	return removed
}

// Compile-time interface assertion
var _ providers.CacheStore = (*MemoryStore)(nil)
