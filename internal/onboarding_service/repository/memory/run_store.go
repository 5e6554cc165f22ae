// Package memory keeps run status records in process memory.
package memory

import (
	"context"
	"sync"

	"github.com/justclara/onboarding_services/internal/onboarding_service/domain"
)

// RunStore is a domain.RunStore backed by a map. Records are cloned on the
// way in and out. Everything is lost on restart.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]*domain.Run
}

func NewRunStore() *RunStore {
	return &RunStore{runs: make(map[string]*domain.Run)}
}

func (s *RunStore) Save(_ context.Context, run *domain.Run) error {
	c := run.Clone()
	s.mu.Lock()
	s.runs[c.ID] = c
	s.mu.Unlock()
	return nil
}

func (s *RunStore) Get(_ context.Context, id string) (*domain.Run, error) {
	s.mu.RLock()
	run, ok := s.runs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	return run.Clone(), nil
}
