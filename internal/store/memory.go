// Package store keeps the last good derived sensor state per area group.
package store

import (
	"errors"
	"sort"
	"sync"

	"github.com/eireweather/met-warnings-service/internal/domain"
)

// ErrNotFound is returned when no state exists for a group.
var ErrNotFound = errors.New("no state for area group")

// MemoryStore is a concurrency-safe in-memory holder of per-group sensor
// state. A failed poll cycle never touches it, so readers keep seeing the
// last-known warnings through a transient upstream outage (fail-static).
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]domain.DerivedSensorState
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]domain.DerivedSensorState)}
}

// ReplaceAll atomically swaps in the full result set of one successful
// poll cycle. Partial results are never published: callers either pass
// every group or nothing.
func (s *MemoryStore) ReplaceAll(states []domain.DerivedSensorState) {
	next := make(map[string]domain.DerivedSensorState, len(states))
	for _, st := range states {
		next[st.Group] = st
	}

	s.mu.Lock()
	s.states = next
	s.mu.Unlock()
}

// Get returns the last-known state for a group.
func (s *MemoryStore) Get(group string) (domain.DerivedSensorState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.states[group]
	if !ok {
		return domain.DerivedSensorState{}, ErrNotFound
	}
	return st, nil
}

// All returns every group's state, ordered by group name for stable output.
func (s *MemoryStore) All() []domain.DerivedSensorState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]domain.DerivedSensorState, 0, len(s.states))
	for _, st := range s.states {
		all = append(all, st)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Group < all[j].Group })
	return all
}
