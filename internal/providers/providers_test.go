// Theoryforge - ARPG Build Recommendation Engine
// Copyright 2026 Theoryforge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theoryforge/theoryforge

package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/theoryforge/theoryforge/internal/build"
)

func TestNewEngineClient(t *testing.T) {
	t.Parallel()

	client := NewEngineClient(ClientConfig{
		BaseURL: "http://localhost:9901",
		APIKey:  "test-api-key",
	})

	if client == nil {
		t.Fatal("NewEngineClient returned nil")
	}

	if client.http.baseURL != "http://localhost:9901" {
		t.Errorf("Expected baseURL http://localhost:9901, got %s", client.http.baseURL)
	}

	if client.http.client.Timeout != 30*time.Second {
		t.Errorf("Expected default timeout 30s, got %v", client.http.client.Timeout)
	}
}

func TestEngineClient_Ping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		statusCode      int
		expectError     bool
		wantUnavailable bool
	}{
		{
			name:        "successful ping",
			statusCode:  http.StatusOK,
			expectError: false,
		},
		{
			name:            "service unavailable",
			statusCode:      http.StatusServiceUnavailable,
			expectError:     true,
			wantUnavailable: true,
		},
		{
			name:        "server error",
			statusCode:  http.StatusInternalServerError,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/v1/health" {
					t.Errorf("Expected path /api/v1/health, got %s", r.URL.Path)
				}
				w.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			client := NewEngineClient(ClientConfig{BaseURL: server.URL})

			err := client.Ping(context.Background())

			if tt.expectError && err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tt.wantUnavailable && !errors.Is(err, ErrUnavailable) {
				t.Errorf("Expected ErrUnavailable, got %v", err)
			}
		})
	}
}

func TestEngineClient_Suggest(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer engine-key" {
			t.Errorf("Expected bearer auth header, got %q", got)
		}

		var q Query
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			t.Fatalf("Failed to decode query: %v", err)
		}
		if q.Class != "Ranger" || q.Goal != "clear_speed" {
			t.Errorf("Unexpected query: %+v", q)
		}

		resp := engineSuggestResponse{
			Builds: []EngineBuild{
				{
					Name:          "Tornado Shot Deadeye",
					Class:         "Ranger",
					Ascendancy:    "Deadeye",
					Level:         95,
					MainSkill:     "Tornado Shot",
					SupportGems:   []string{"Greater Multiple Projectiles"},
					EstimatedDPS:  2_500_000,
					EstimatedEHP:  5500,
					EstimatedCost: 45,
					Confidence:    0.8,
				},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewEngineClient(ClientConfig{BaseURL: server.URL, APIKey: "engine-key"})

	builds, err := client.Suggest(context.Background(), Query{
		Class:     "Ranger",
		Goal:      "clear_speed",
		MaxBudget: 50,
	})
	if err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}

	if len(builds) != 1 {
		t.Fatalf("Expected 1 build, got %d", len(builds))
	}
	if builds[0].Name != "Tornado Shot Deadeye" {
		t.Errorf("Unexpected build name: %s", builds[0].Name)
	}
	if builds[0].EstimatedDPS != 2_500_000 {
		t.Errorf("Unexpected DPS: %f", builds[0].EstimatedDPS)
	}
}

func TestEngineClient_SuggestEmpty(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewEngineClient(ClientConfig{BaseURL: server.URL})

	builds, err := client.Suggest(context.Background(), Query{Class: "Witch", Goal: "bossing"})
	if err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}
	if builds == nil {
		t.Fatal("Expected empty slice, got nil")
	}
	if len(builds) != 0 {
		t.Errorf("Expected 0 builds, got %d", len(builds))
	}
}

func TestEngineClient_NetworkFailure(t *testing.T) {
	t.Parallel()

	client := NewEngineClient(ClientConfig{
		BaseURL: "http://localhost:1", // Nothing listens here
		Timeout: 500 * time.Millisecond,
	})

	err := client.Ping(context.Background())
	if err == nil {
		t.Fatal("Expected network error for Ping, got nil")
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Expected ErrUnavailable for network failure, got %v", err)
	}

	_, err = client.Suggest(context.Background(), Query{Class: "Ranger", Goal: "tanky"})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Expected ErrUnavailable for Suggest, got %v", err)
	}
}

func TestPricingClient_Price(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/prices/Mageblood" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(priceResponse{
			Item:     "Mageblood",
			Median:   185.5,
			Currency: "divine",
			Listings: 73,
		})
	}))
	defer server.Close()

	client := NewPricingClient(ClientConfig{BaseURL: server.URL}, 0)

	price, err := client.Price(context.Background(), "Mageblood")
	if err != nil {
		t.Fatalf("Price() error = %v", err)
	}

	if price.Item != "Mageblood" {
		t.Errorf("Expected item Mageblood, got %s", price.Item)
	}
	if price.Median != 185.5 {
		t.Errorf("Expected median 185.5, got %f", price.Median)
	}
	if price.Listings != 73 {
		t.Errorf("Expected 73 listings, got %d", price.Listings)
	}
	if price.FetchedAt.IsZero() {
		t.Error("Expected FetchedAt to be set")
	}
}

func TestPricingClient_PriceDefaults(t *testing.T) {
	t.Parallel()

	// Sparse response: no item echo, no currency
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"median": 2.5, "listings": 140}`))
	}))
	defer server.Close()

	client := NewPricingClient(ClientConfig{BaseURL: server.URL}, 0)

	price, err := client.Price(context.Background(), "Lightning Coil")
	if err != nil {
		t.Fatalf("Price() error = %v", err)
	}

	if price.Item != "Lightning Coil" {
		t.Errorf("Expected item name filled from request, got %s", price.Item)
	}
	if price.Currency != "divine" {
		t.Errorf("Expected default currency divine, got %s", price.Currency)
	}
}

func TestPricingClient_PriceNotFound(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewPricingClient(ClientConfig{BaseURL: server.URL}, 0)

	_, err := client.Price(context.Background(), "Unknown Unique")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}

	// Not-found answers must not be retried
	if got := requests.Load(); got != 1 {
		t.Errorf("Expected exactly 1 request, got %d", got)
	}
}

func TestPricingClient_RetryOnRateLimit(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if requests.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(priceResponse{Item: "Headhunter", Median: 40, Currency: "divine"})
	}))
	defer server.Close()

	client := NewPricingClient(ClientConfig{BaseURL: server.URL}, 0)

	price, err := client.Price(context.Background(), "Headhunter")
	if err != nil {
		t.Fatalf("Price() error after retry = %v", err)
	}
	if price.Median != 40 {
		t.Errorf("Expected median 40, got %f", price.Median)
	}
	if got := requests.Load(); got != 2 {
		t.Errorf("Expected 2 requests (429 then 200), got %d", got)
	}
}

func TestCalculatorClient_CalculateStats(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/calculate" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}

		var req calculateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if req.MainSkill != "Righteous Fire" {
			t.Errorf("Expected main skill Righteous Fire, got %s", req.MainSkill)
		}

		_ = json.NewEncoder(w).Encode(calculateResponse{
			DPS:          620_000,
			Life:         5800,
			EnergyShield: 0,
			EHP:          7200,
			FireRes:      75,
			ColdRes:      75,
			LightningRes: 75,
			ChaosRes:     -12,
		})
	}))
	defer server.Close()

	client := NewCalculatorClient(ClientConfig{BaseURL: server.URL})

	cand := build.Candidate{
		Name:         "Righteous Fire Juggernaut",
		Class:        "Marauder",
		Ascendancy:   "Juggernaut",
		Level:        92,
		PrimarySkill: "Righteous Fire",
	}

	stats, err := client.CalculateStats(context.Background(), cand)
	if err != nil {
		t.Fatalf("CalculateStats() error = %v", err)
	}

	if stats.DPS != 620_000 {
		t.Errorf("Expected DPS 620000, got %f", stats.DPS)
	}
	if stats.EHP != 7200 {
		t.Errorf("Expected EHP 7200, got %f", stats.EHP)
	}
	if stats.FireRes != 75 {
		t.Errorf("Expected fire res 75, got %d", stats.FireRes)
	}
}

func TestCalculatorClient_CalculateStatsEHPFallback(t *testing.T) {
	t.Parallel()

	// Older calculator builds omit the aggregate EHP field
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(calculateResponse{
			DPS:          100_000,
			Life:         4000,
			EnergyShield: 1500,
		})
	}))
	defer server.Close()

	client := NewCalculatorClient(ClientConfig{BaseURL: server.URL})

	stats, err := client.CalculateStats(context.Background(), build.Candidate{Name: "test"})
	if err != nil {
		t.Fatalf("CalculateStats() error = %v", err)
	}

	if stats.EHP != 5500 {
		t.Errorf("Expected EHP fallback life+es = 5500, got %f", stats.EHP)
	}
}

func TestCalculatorClient_ExportCode(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/export" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(exportResponse{Code: "eNrtWd1z2jgQ"})
	}))
	defer server.Close()

	client := NewCalculatorClient(ClientConfig{BaseURL: server.URL})

	code, err := client.ExportCode(context.Background(), build.Candidate{Name: "test"})
	if err != nil {
		t.Fatalf("ExportCode() error = %v", err)
	}
	if code != "eNrtWd1z2jgQ" {
		t.Errorf("Unexpected export code: %s", code)
	}
}

func TestMetaClient_MetaBuilds(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/meta/builds" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("class"); got != "Witch" {
			t.Errorf("Expected class=Witch query, got %q", got)
		}
		_ = json.NewEncoder(w).Encode(metaResponse{
			League: "Settlers",
			Builds: []MetaBuild{
				{Name: "SRS Necromancer", Class: "Witch", MainSkill: "Summon Raging Spirit", Popularity: 0.12},
				{Name: "Arc Elementalist", Class: "Witch", MainSkill: "Arc", Popularity: 0.04},
			},
		})
	}))
	defer server.Close()

	client := NewMetaClient(ClientConfig{BaseURL: server.URL})

	builds, err := client.MetaBuilds(context.Background(), "Witch")
	if err != nil {
		t.Fatalf("MetaBuilds() error = %v", err)
	}

	if len(builds) != 2 {
		t.Fatalf("Expected 2 builds, got %d", len(builds))
	}
	if builds[0].Popularity != 0.12 {
		t.Errorf("Expected popularity 0.12, got %f", builds[0].Popularity)
	}
}

func TestMetaClient_MetaBuildsAllClasses(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "" {
			t.Errorf("Expected no query params, got %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"builds": []}`))
	}))
	defer server.Close()

	client := NewMetaClient(ClientConfig{BaseURL: server.URL})

	builds, err := client.MetaBuilds(context.Background(), "")
	if err != nil {
		t.Fatalf("MetaBuilds() error = %v", err)
	}
	if len(builds) != 0 {
		t.Errorf("Expected 0 builds, got %d", len(builds))
	}
}

func TestDisabledProviders(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	if err := (DisabledEngine{}).Ping(ctx); !errors.Is(err, ErrUnavailable) {
		t.Errorf("DisabledEngine.Ping = %v, want ErrUnavailable", err)
	}
	if _, err := (DisabledEngine{}).Suggest(ctx, Query{}); !errors.Is(err, ErrUnavailable) {
		t.Errorf("DisabledEngine.Suggest = %v, want ErrUnavailable", err)
	}

	if err := (DisabledPricing{}).Ping(ctx); !errors.Is(err, ErrUnavailable) {
		t.Errorf("DisabledPricing.Ping = %v, want ErrUnavailable", err)
	}
	if _, err := (DisabledPricing{}).Price(ctx, "item"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("DisabledPricing.Price = %v, want ErrUnavailable", err)
	}

	calc := DisabledCalculator{Component: "calculator-web"}
	if err := calc.Ping(ctx); !errors.Is(err, ErrUnavailable) {
		t.Errorf("DisabledCalculator.Ping = %v, want ErrUnavailable", err)
	}
	if _, err := calc.CalculateStats(ctx, build.Candidate{}); !errors.Is(err, ErrUnavailable) {
		t.Errorf("DisabledCalculator.CalculateStats = %v, want ErrUnavailable", err)
	}
	if _, err := calc.ExportCode(ctx, build.Candidate{}); !errors.Is(err, ErrUnavailable) {
		t.Errorf("DisabledCalculator.ExportCode = %v, want ErrUnavailable", err)
	}

	if err := (DisabledMeta{}).Ping(ctx); !errors.Is(err, ErrUnavailable) {
		t.Errorf("DisabledMeta.Ping = %v, want ErrUnavailable", err)
	}
	if _, err := (DisabledMeta{}).MetaBuilds(ctx, ""); !errors.Is(err, ErrUnavailable) {
		t.Errorf("DisabledMeta.MetaBuilds = %v, want ErrUnavailable", err)
	}
}
