// Theoryforge - ARPG Build Recommendation Engine
// Copyright 2026 Theoryforge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theoryforge/theoryforge

// Package logging provides centralized zerolog-based structured logging for Theoryforge.
//
// The package exposes a configured global logger plus helpers for
// context-aware logging, so every component logs through the same sink with
// consistent field names. JSON output is the production default; console
// output is available for development.
//
// # Quick Start
//
//	import "github.com/theoryforge/theoryforge/internal/logging"
//
//	// Initialize at application startup
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	// Log messages with structured fields
//	logging.Info().Str("class", "Ranger").Msg("Recommendation generated")
//	logging.Error().Err(err).Str("component", "pricing-provider").Msg("Probe failed")
//
//	// Context-aware logging (request_id added automatically)
//	logging.Ctx(ctx).Info().Msg("Pipeline stage complete")
//
// # Configuration
//
//	logging.Init(logging.Config{
//	    Level:     "debug",    // trace, debug, info, warn, error, fatal
//	    Format:    "console",  // json or console
//	    Caller:    true,       // Include caller info
//	    Timestamp: true,       // Include timestamps
//	    Output:    os.Stderr,  // Output writer
//	})
//
// # Structured Logging Best Practices
//
// Always terminate log chains with .Msg() or .Send():
//
//	logging.Info().Str("key", "value").Msg("message")  // Correct
//	logging.Info().Str("key", "value")                 // WRONG - log not emitted
//
// Use structured fields instead of string formatting:
//
//	// Good - structured, searchable, efficient
//	logging.Info().
//	    Str("class", class).
//	    Int("candidates", n).
//	    Dur("elapsed", duration).
//	    Msg("Generation complete")
//
//	// Avoid - unstructured, harder to parse
//	logging.Info().Msgf("Generated %d candidates for %s in %v", n, class, duration)
//
// # Component Loggers
//
// Create component-specific loggers with default fields:
//
//	proberLogger := logging.WithComponent("health-prober")
//	proberLogger.Info().Msg("Sweep complete")
//
// # slog Adapter
//
// The package provides an slog adapter for libraries that require slog.Logger:
//
//	slogLogger := logging.NewSlogLogger()
//	// Use slogLogger with Suture or other slog-compatible libraries
//
// # Thread Safety
//
// All exported functions are safe for concurrent use. The global logger
// is protected by sync.RWMutex for configuration changes.
//
// # Testing
//
// Create test loggers that capture output:
//
//	var buf bytes.Buffer
//	logger := logging.NewTestLogger(&buf)
//	logger.Info().Msg("test message")
//	output := buf.String()
//
// # See Also
//
//   - github.com/rs/zerolog: Underlying logging library
//   - internal/api: Request ID middleware feeding Ctx()
package logging
