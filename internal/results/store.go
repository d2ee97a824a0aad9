// Package results holds the current result set: a single-slot,
// single-writer-many-readers cache scoped to the running process. Nothing is
// persisted; a new completed run replaces the previous set wholesale.
package results

import (
	"sync"

	"github.com/hwangga/signal-app/internal/models"
)

type Store struct {
	mu      sync.RWMutex
	current *models.ResultSet
}

func NewStore() *Store {
	return &Store{}
}

// Replace installs a completed run's result set. Only callers holding a
// fully built set may call this; the store never sees a run in progress.
func (s *Store) Replace(rs *models.ResultSet) {
	if rs == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = rs
}

// Current returns the most recent result set, or nil before the first run.
func (s *Store) Current() *models.ResultSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Criteria returns the criteria behind the current result set, for refresh
// runs. The second return is false before the first run.
func (s *Store) Criteria() (models.SearchCriteria, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return models.SearchCriteria{}, false
	}
	return s.current.Criteria, true
}
