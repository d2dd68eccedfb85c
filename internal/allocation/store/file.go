package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ctabha/coop-training/internal/allocation"
	"github.com/ctabha/coop-training/pkg/platform/sentinel"
)

// File persists assignments as a single JSON document. Every write lands in a
// temp file first and is renamed into place, so a crash mid-write never
// corrupts previously committed assignments. A malformed file surfaces as
// sentinel.ErrCorrupted on every operation; it is never silently replaced.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile creates a file-backed store at path. The parent directory is
// created if missing.
func NewFile(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &File{path: path}, nil
}

func (s *File) Get(_ context.Context, traineeID string) (allocation.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	assignments, err := s.load()
	if err != nil {
		return allocation.Assignment{}, err
	}
	if a, ok := assignments[traineeID]; ok {
		return a, nil
	}
	return allocation.Assignment{}, sentinel.ErrNotFound
}

func (s *File) Put(_ context.Context, assignment allocation.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	assignments, err := s.load()
	if err != nil {
		return err
	}
	if _, exists := assignments[assignment.TraineeID]; exists {
		return sentinel.ErrConflict
	}
	assignments[assignment.TraineeID] = assignment
	return s.save(assignments)
}

func (s *File) All(_ context.Context) ([]allocation.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	assignments, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]allocation.Assignment, 0, len(assignments))
	for _, a := range assignments {
		out = append(out, a)
	}
	return out, nil
}

func (s *File) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(map[string]allocation.Assignment{})
}

func (s *File) load() (map[string]allocation.Assignment, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]allocation.Assignment{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read assignment store: %w", err)
	}
	var assignments map[string]allocation.Assignment
	if err := json.Unmarshal(raw, &assignments); err != nil {
		return nil, fmt.Errorf("decode assignment store: %w", sentinel.ErrCorrupted)
	}
	if assignments == nil {
		assignments = map[string]allocation.Assignment{}
	}
	return assignments, nil
}

func (s *File) save(assignments map[string]allocation.Assignment) error {
	raw, err := json.MarshalIndent(assignments, "", "  ")
	if err != nil {
		return fmt.Errorf("encode assignment store: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".assignments-*.json")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp store file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync temp store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp store file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace assignment store: %w", err)
	}
	return nil
}
