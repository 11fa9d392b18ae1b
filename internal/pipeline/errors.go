// Theoryforge - ARPG Build Recommendation Engine
// Copyright 2026 Theoryforge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theoryforge/theoryforge

package pipeline

import "errors"

// ErrNotInitialized is returned by Recommend when the orchestrator has not
// passed initialization. This is the one failure that surfaces as an error:
// calling the pipeline before Initialize is a programming error, not a
// degraded condition.
var ErrNotInitialized = errors.New("pipeline not initialized")
