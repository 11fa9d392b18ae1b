// Theoryforge - ARPG Build Recommendation Engine
// Copyright 2026 Theoryforge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theoryforge/theoryforge

// Package api provides the HTTP surface: a chi router with CORS, rate
// limiting, request-id tracing, and structured request logging, plus the
// handlers for recommendations, templates, stats, and health.
package api
