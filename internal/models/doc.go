// Theoryforge - ARPG Build Recommendation Engine
// Copyright 2026 Theoryforge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theoryforge/theoryforge

// Package models defines the HTTP request and response shapes of the public
// API: the recommendation request with its validation tags and the shared
// response envelope every endpoint wraps its payload in.
package models
