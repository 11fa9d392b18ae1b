// Theoryforge - ARPG Build Recommendation Engine
// Copyright 2026 Theoryforge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theoryforge/theoryforge

// Package services wraps non-suture lifecycles as suture.Service
// implementations. The health prober implements suture.Service directly and
// needs no wrapper here.
package services
