// Theoryforge - ARPG Build Recommendation Engine
// Copyright 2026 Theoryforge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theoryforge/theoryforge

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/theoryforge/theoryforge/internal/middleware"
	"github.com/theoryforge/theoryforge/internal/models"
)

// Router wires handlers and middleware into one http.Handler.
type Router struct {
	handler    *Handler
	middleware *Middleware
	timeout    time.Duration
}

// NewRouter creates the router. A zero timeout disables the per-request
// deadline.
func NewRouter(handler *Handler, mw *Middleware, timeout time.Duration) *Router {
	if mw == nil {
		mw = NewMiddleware(nil)
	}
	return &Router{
		handler:    handler,
		middleware: mw,
		timeout:    timeout,
	}
}

// Setup configures all routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger())
	r.Use(chimiddleware.Recoverer)
	r.Use(router.middleware.CORS())
	if router.timeout > 0 {
		r.Use(chimiddleware.Timeout(router.timeout))
	}

	// Health endpoints: permissive rate limit so monitoring can poll often.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.middleware.RateLimitHealth())
		r.Use(SecurityHeaders())
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// Core API endpoints.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.middleware.RateLimit())
		r.Use(SecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		r.Post("/recommendations", router.handler.Recommend)
		r.Get("/templates", router.handler.Templates)
		r.Get("/templates/{class}", router.handler.TemplatesByClass)
		r.Get("/stats", router.handler.Stats)
	})

	// Prometheus scrape endpoint, outside the envelope and rate limits.
	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("Unknown endpoint")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusMethodNotAllowed, models.ErrCodeMethodNotAllowed, "Method not allowed")
	})

	return r
}
