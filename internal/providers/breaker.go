// Theoryforge - ARPG Build Recommendation Engine
// Copyright 2026 Theoryforge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theoryforge/theoryforge

package providers

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/theoryforge/theoryforge/internal/build"
	"github.com/theoryforge/theoryforge/internal/logging"
	"github.com/theoryforge/theoryforge/internal/metrics"
)

// breaker wraps a collaborator call with circuit breaker protection.
// The breaker prevents cascading failures when a collaborator is
// unavailable or slow.
//
// DETERMINISM NOTE: The circuit breaker uses real time (via sony/gobreaker)
// for its interval and timeout calculations. This is intentional for
// production resilience: the timing determines when to recover from
// failures, not data integrity. Unit tests should exercise the wrapped
// client directly.
type breaker struct {
	cb   *gobreaker.CircuitBreaker[interface{}]
	name string
}

// newBreaker creates a circuit breaker with the shared collaborator policy:
//   - Max 3 concurrent requests in half-open state
//   - 1 minute measurement window
//   - 2 minute timeout before attempting recovery
//   - Opens after 60% failure rate with minimum 10 requests
func newBreaker(name string) breaker {
	// Initialize circuit breaker state metrics
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,               // Allow 3 concurrent requests in half-open state
		Interval:    time.Minute,     // Reset counts after 1 minute in closed state
		Timeout:     2 * time.Minute, // Wait 2 minutes before transitioning from open to half-open

		// ReadyToTrip determines when to open the circuit
		// Opens when failure rate >= 60% with minimum 10 requests
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false // Need at least 10 requests for statistical significance
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6

			if shouldTrip {
				logging.Warn().Str("breaker", name).Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			}

			return shouldTrip
		},

		// OnStateChange is called whenever the circuit breaker changes state
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return breaker{cb: cb, name: name}
}

// execute wraps a collaborator call with circuit breaker protection.
// A rejected call (open circuit or half-open saturation) is reported as
// ErrUnavailable so the pipeline degrades the same way it does for a
// direct connection failure.
func (b breaker) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := b.cb.Execute(fn)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			logging.Warn().Str("breaker", b.name).Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
			return nil, fmt.Errorf("%s: %w: %w", b.name, ErrUnavailable, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	return result, nil
}

// castResult safely type-casts the circuit breaker result with error
// checking. Returns the typed result or an error if the assertion fails.
func castResult[T any](result interface{}, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// BreakerEngine wraps a GenerationEngine with circuit breaker protection.
type BreakerEngine struct {
	inner GenerationEngine
	breaker
}

// WithEngineBreaker protects a generation engine client with a circuit
// breaker named "generation-engine".
func WithEngineBreaker(inner GenerationEngine) *BreakerEngine {
	return &BreakerEngine{inner: inner, breaker: newBreaker("generation-engine")}
}

// Ping verifies connectivity to the generation engine with circuit breaker protection.
func (b *BreakerEngine) Ping(ctx context.Context) error {
	_, err := b.execute(func() (interface{}, error) {
		return nil, b.inner.Ping(ctx)
	})
	return err
}

// Suggest requests build suggestions with circuit breaker protection.
func (b *BreakerEngine) Suggest(ctx context.Context, q Query) ([]EngineBuild, error) {
	return castResult[[]EngineBuild](b.execute(func() (interface{}, error) {
		return b.inner.Suggest(ctx, q)
	}))
}

// BreakerPricing wraps a PricingProvider with circuit breaker protection.
type BreakerPricing struct {
	inner PricingProvider
	breaker
}

// WithPricingBreaker protects a pricing client with a circuit breaker named
// "pricing-provider".
func WithPricingBreaker(inner PricingProvider) *BreakerPricing {
	return &BreakerPricing{inner: inner, breaker: newBreaker("pricing-provider")}
}

// Ping verifies connectivity to the pricing provider with circuit breaker protection.
func (b *BreakerPricing) Ping(ctx context.Context) error {
	_, err := b.execute(func() (interface{}, error) {
		return nil, b.inner.Ping(ctx)
	})
	return err
}

// Price resolves an item price with circuit breaker protection.
func (b *BreakerPricing) Price(ctx context.Context, item string) (*ItemPrice, error) {
	return castResult[*ItemPrice](b.execute(func() (interface{}, error) {
		return b.inner.Price(ctx, item)
	}))
}

// BreakerCalculator wraps a Calculator with circuit breaker protection.
type BreakerCalculator struct {
	inner Calculator
	breaker
}

// WithCalculatorBreaker protects a calculator client with a circuit breaker
// carrying the given component name ("calculator-local" or "calculator-web").
func WithCalculatorBreaker(name string, inner Calculator) *BreakerCalculator {
	return &BreakerCalculator{inner: inner, breaker: newBreaker(name)}
}

// Ping verifies connectivity to the calculator with circuit breaker protection.
func (b *BreakerCalculator) Ping(ctx context.Context) error {
	_, err := b.execute(func() (interface{}, error) {
		return nil, b.inner.Ping(ctx)
	})
	return err
}

// CalculateStats recomputes candidate stats with circuit breaker protection.
func (b *BreakerCalculator) CalculateStats(ctx context.Context, c build.Candidate) (*build.Stats, error) {
	return castResult[*build.Stats](b.execute(func() (interface{}, error) {
		return b.inner.CalculateStats(ctx, c)
	}))
}

// ExportCode exports a candidate build with circuit breaker protection.
func (b *BreakerCalculator) ExportCode(ctx context.Context, c build.Candidate) (string, error) {
	return castResult[string](b.execute(func() (interface{}, error) {
		return b.inner.ExportCode(ctx, c)
	}))
}

// BreakerMeta wraps a MetaProvider with circuit breaker protection.
type BreakerMeta struct {
	inner MetaProvider
	breaker
}

// WithMetaBreaker protects a meta provider client with a circuit breaker
// named "meta-provider".
func WithMetaBreaker(inner MetaProvider) *BreakerMeta {
	return &BreakerMeta{inner: inner, breaker: newBreaker("meta-provider")}
}

// Ping verifies connectivity to the meta provider with circuit breaker protection.
func (b *BreakerMeta) Ping(ctx context.Context) error {
	_, err := b.execute(func() (interface{}, error) {
		return nil, b.inner.Ping(ctx)
	})
	return err
}

// MetaBuilds retrieves ladder popularity with circuit breaker protection.
func (b *BreakerMeta) MetaBuilds(ctx context.Context, class string) ([]MetaBuild, error) {
	return castResult[[]MetaBuild](b.execute(func() (interface{}, error) {
		return b.inner.MetaBuilds(ctx, class)
	}))
}
