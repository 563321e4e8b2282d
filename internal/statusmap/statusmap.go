// Package statusmap holds the current-status view: the latest outcome
// observed for each endpoint, keyed by endpoint name.
package statusmap

import (
	"sort"
	"strings"
	"sync"

	"github.com/jroosing/forge/internal/probe"
)

// Map is safe for concurrent use. Construct it with New; the zero value
// has no backing map, so Set on it panics.
type Map struct {
	mu    sync.RWMutex
	byKey map[string]probe.Outcome
}

// New returns an empty Map.
func New() *Map {
	return &Map{byKey: make(map[string]probe.Outcome)}
}

// Set inserts or overwrites the outcome for an endpoint name.
func (m *Map) Set(name string, out probe.Outcome) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byKey[name] = out
}

// Get returns the current outcome for an endpoint, if present.
func (m *Map) Get(name string) (probe.Outcome, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out, ok := m.byKey[name]
	return out, ok
}

// Purge removes an endpoint's entry, used when reconciliation removes it.
func (m *Map) Purge(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byKey, name)
}

// Snapshot returns every current outcome, sorted by endpoint name
// (case-insensitive), the order the read API's status listing exposes.
func (m *Map) Snapshot() []probe.Outcome {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]probe.Outcome, 0, len(m.byKey))
	for _, v := range m.byKey {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].EndpointName) < strings.ToLower(out[j].EndpointName)
	})
	return out
}

// Len returns the number of tracked endpoints.
func (m *Map) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byKey)
}
