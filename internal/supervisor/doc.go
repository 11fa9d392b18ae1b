// Theoryforge - ARPG Build Recommendation Engine
// Copyright 2026 Theoryforge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theoryforge/theoryforge

/*
Package supervisor provides process supervision using suture v4.

The tree organizes the long-running services into two layers for failure
isolation:

	RootSupervisor ("theoryforge")
	├── MonitoringSupervisor ("monitoring-layer")
	│   └── health.Prober loop
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crash in the prober loop does not take down the HTTP server; each layer has
independent failure counting with exponential decay, and the root restarts a
whole layer only when its failures exceed the threshold.

Services implement suture.Service:

	type Service interface {
	    Serve(ctx context.Context) error
	}

Return nil to stop cleanly, return an error to be restarted, and return
promptly when the context is canceled. Supervision events are logged through
slog via the sutureslog adapter, which in turn feeds zerolog.
*/
package supervisor
