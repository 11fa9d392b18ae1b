// Theoryforge - ARPG Build Recommendation Engine
// Copyright 2026 Theoryforge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theoryforge/theoryforge

package pricecache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/theoryforge/theoryforge/internal/metrics"
	"github.com/theoryforge/theoryforge/internal/providers"
)

// Price storage key prefix for namespacing in BadgerDB.
const priceKeyPrefix = "price:"

// BadgerStore implements providers.CacheStore using BadgerDB for durable
// storage. Cached prices survive server restarts, which keeps the pricing
// provider's rate budget intact across deploys.
//
// Expiry is delegated to BadgerDB entry TTLs: expired entries simply stop
// resolving and are reclaimed by value log garbage collection.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens a BadgerDB-backed price cache at the given directory.
//
// Example:
//
//	store, err := pricecache.NewBadgerStore("/data/prices")
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
func NewBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Suppress BadgerDB internal logs
	// Value log sized for small price entries (default is 1GB)
	opts.ValueLogFileSize = 16 << 20 // 16MB
	// Prices are re-fetchable from the provider, so skip fsync per write
	opts.SyncWrites = false

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for price cache: %w", err)
	}

	return &BadgerStore{db: db}, nil
}

// NewBadgerStoreFromDB creates a price cache from an existing BadgerDB
// connection. This is useful when sharing a BadgerDB instance across stores.
func NewBadgerStoreFromDB(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// Ping reports whether the store can serve reads.
func (s *BadgerStore) Ping(ctx context.Context) error {
	if s.db == nil || s.db.IsClosed() {
		return fmt.Errorf("price cache closed: %w", providers.ErrUnavailable)
	}

	err := s.db.View(func(txn *badger.Txn) error { return nil })
	if err != nil {
		return fmt.Errorf("price cache read check: %w: %w", providers.ErrUnavailable, err)
	}
	return nil
}

// GetPrice retrieves a cached price by item name.
// Returns providers.ErrNotFound when the entry is missing or its TTL has
// lapsed; BadgerDB hides expired entries from reads.
func (s *BadgerStore) GetPrice(ctx context.Context, item string) (*providers.ItemPrice, error) {
	if item == "" {
		return nil, providers.ErrNotFound
	}

	var price providers.ItemPrice

	err := s.db.View(func(txn *badger.Txn) error {
		key := []byte(priceKeyPrefix + item)
		it, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return providers.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get price: %w", err)
		}

		return it.Value(func(val []byte) error {
			return json.Unmarshal(val, &price)
		})
	})

	if err != nil {
		metrics.PriceCacheMisses.Inc()
		return nil, err
	}

	metrics.PriceCacheHits.Inc()
	return &price, nil
}

// SetPrice stores a price with the given TTL. A non-positive TTL stores the
// entry without expiry.
func (s *BadgerStore) SetPrice(ctx context.Context, price *providers.ItemPrice, ttl time.Duration) error {
	if price == nil {
		return errors.New("price cannot be nil")
	}
	if price.Item == "" {
		return errors.New("price item name cannot be empty")
	}

	data, err := json.Marshal(price)
	if err != nil {
		return fmt.Errorf("marshal price: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := []byte(priceKeyPrefix + price.Item)

		entry := badger.NewEntry(key, data)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}

		return txn.SetEntry(entry)
	})
}

// Close closes the underlying BadgerDB connection.
func (s *BadgerStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// StartGC starts a background goroutine that periodically runs BadgerDB
// value log garbage collection to reclaim space from expired price entries.
// The routine stops when the context is canceled.
func (s *BadgerStore) StartGC(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				// ErrNoRewrite just means there was nothing to reclaim
				//nolint:errcheck // GC errors are non-fatal
				s.db.RunValueLogGC(0.5)
			}
		}
	}()
}

// Compile-time interface assertion
var _ providers.CacheStore = (*BadgerStore)(nil)
