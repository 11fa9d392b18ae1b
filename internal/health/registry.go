// Theoryforge - ARPG Build Recommendation Engine
// Copyright 2026 Theoryforge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/theoryforge/theoryforge

// Package health tracks the liveness of every collaborator the pipeline
// depends on. The registry is passed by handle; there is no package-level
// state.
package health

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Component identifies one tracked collaborator.
type Component string

// Tracked components.
const (
	ComponentGenerationEngine Component = "generation-engine"
	ComponentCalculatorLocal  Component = "calculator-local"
	ComponentCalculatorWeb    Component = "calculator-web"
	ComponentPricing          Component = "pricing-provider"
	ComponentMeta             Component = "meta-provider"
	ComponentCache            Component = "cache"
)

// ProbeOrder lists the components in the order the initialization sweep
// probes them: cheap local dependencies first, the engine last.
func ProbeOrder() []Component {
	return []Component{
		ComponentCache,
		ComponentPricing,
		ComponentMeta,
		ComponentCalculatorLocal,
		ComponentCalculatorWeb,
		ComponentGenerationEngine,
	}
}

// Status is the health state of a component, ordered by severity.
type Status int

// Statuses, ascending severity.
const (
	StatusUnchecked Status = iota
	StatusHealthy
	StatusDegraded
	StatusUnavailable
	StatusError
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusUnchecked:
		return "unchecked"
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusUnavailable:
		return "unavailable"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// MarshalJSON encodes the status as its name.
func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Usable reports whether a component in this status can still serve
// requests. Degraded components remain usable.
func (s Status) Usable() bool {
	return s == StatusHealthy || s == StatusDegraded
}

// unhealthy components count against the overall classification. A component
// that has never been probed is not trusted either.
func (s Status) unhealthy() bool {
	return s == StatusUnchecked || s >= StatusUnavailable
}

// Record is one component's current health.
type Record struct {
	Component           Component     `json:"component"`
	Status              Status        `json:"status"`
	Latency             time.Duration `json:"latency"`
	CheckedAt           time.Time     `json:"checked_at"`
	Err                 string        `json:"error,omitempty"`
	ConsecutiveFailures int           `json:"consecutive_failures,omitempty"`
}

// OverallStatus classifies the registry as a whole.
type OverallStatus string

// Overall classifications.
const (
	OverallHealthy   OverallStatus = "healthy"
	OverallDegraded  OverallStatus = "degraded"
	OverallUnhealthy OverallStatus = "unhealthy"
)

// Registry holds the current health of all tracked components. Safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	records map[Component]Record
}

// NewRegistry seeds every known component as unchecked.
func NewRegistry() *Registry {
	r := &Registry{records: make(map[Component]Record, len(ProbeOrder()))}
	for _, c := range ProbeOrder() {
		r.records[c] = Record{Component: c, Status: StatusUnchecked}
	}
	return r
}

// Set records a probe or request outcome for a component. Failure streaks
// accumulate while the status stays at unavailable or worse.
func (r *Registry) Set(c Component, status Status, latency time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := Record{
		Component: c,
		Status:    status,
		Latency:   latency,
		CheckedAt: time.Now(),
	}
	if err != nil {
		rec.Err = err.Error()
	}
	if status >= StatusUnavailable {
		rec.ConsecutiveFailures = r.records[c].ConsecutiveFailures + 1
	}
	r.records[c] = rec
}

// MarkUnavailable demotes a component after a request-time failure so later
// stages of the same run stop calling it. The next probe sweep can recover it.
func (r *Registry) MarkUnavailable(c Component, err error) {
	r.Set(c, StatusUnavailable, 0, err)
}

// Get returns the record for a component.
func (r *Registry) Get(c Component) (Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[c]
	return rec, ok
}

// Status returns the component's current status, unchecked when unknown.
func (r *Registry) Status(c Component) Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.records[c].Status
}

// Usable reports whether the component can serve requests right now.
func (r *Registry) Usable(c Component) bool {
	return r.Status(c).Usable()
}

// Snapshot returns a copy of every record, probe order first, then any
// extra components sorted by name.
func (r *Registry) Snapshot() []Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Record, 0, len(r.records))
	seen := make(map[Component]bool, len(r.records))
	for _, c := range ProbeOrder() {
		if rec, ok := r.records[c]; ok {
			out = append(out, rec)
			seen[c] = true
		}
	}

	var extras []Record
	for c, rec := range r.records {
		if !seen[c] {
			extras = append(extras, rec)
		}
	}
	sort.Slice(extras, func(i, j int) bool { return extras[i].Component < extras[j].Component })
	return append(out, extras...)
}

// Counts returns how many components are healthy, unhealthy, and tracked in
// total. Degraded components count as neither.
func (r *Registry) Counts() (healthy, unhealthy, total int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.records {
		total++
		switch {
		case rec.Status == StatusHealthy:
			healthy++
		case rec.Status.unhealthy():
			unhealthy++
		}
	}
	return healthy, unhealthy, total
}

// Overall classifies the registry: healthy with zero unhealthy components,
// degraded while fewer than half are unhealthy, unhealthy otherwise.
func (r *Registry) Overall() OverallStatus {
	_, unhealthy, total := r.Counts()
	switch {
	case total == 0 || unhealthy == 0:
		return OverallHealthy
	case unhealthy*2 < total:
		return OverallDegraded
	default:
		return OverallUnhealthy
	}
}
