package store

import (
	"context"
	"sync"

	"github.com/ctabha/coop-training/internal/allocation"
	"github.com/ctabha/coop-training/pkg/platform/sentinel"
)

// InMemory keeps assignments in a mutex-guarded map. It is the default for
// development and the reference implementation for store semantics in tests.
type InMemory struct {
	mu          sync.RWMutex
	assignments map[string]allocation.Assignment
}

// NewInMemory creates an empty in-memory store.
func NewInMemory() *InMemory {
	return &InMemory{assignments: make(map[string]allocation.Assignment)}
}

func (s *InMemory) Get(_ context.Context, traineeID string) (allocation.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.assignments[traineeID]; ok {
		return a, nil
	}
	return allocation.Assignment{}, sentinel.ErrNotFound
}

func (s *InMemory) Put(_ context.Context, assignment allocation.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.assignments[assignment.TraineeID]; exists {
		return sentinel.ErrConflict
	}
	s.assignments[assignment.TraineeID] = assignment
	return nil
}

func (s *InMemory) All(_ context.Context) ([]allocation.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]allocation.Assignment, 0, len(s.assignments))
	for _, a := range s.assignments {
		out = append(out, a)
	}
	return out, nil
}

func (s *InMemory) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments = make(map[string]allocation.Assignment)
	return nil
}
