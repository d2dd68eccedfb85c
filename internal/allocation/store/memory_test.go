package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/ctabha/coop-training/internal/allocation"
	"github.com/ctabha/coop-training/pkg/platform/sentinel"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func newAssignment(traineeID, org string) allocation.Assignment {
	return allocation.Assignment{
		ID:             uuid.NewString(),
		TraineeID:      traineeID,
		Specialization: "CS",
		Organization:   org,
		CommittedAt:    time.Now(),
	}
}

func (s *MemoryStoreSuite) TestPutAndGet() {
	a := newAssignment("1001", "Acme")
	s.Require().NoError(s.store.Put(s.ctx, a))

	found, err := s.store.Get(s.ctx, "1001")
	s.Require().NoError(err)
	s.Equal(a.Organization, found.Organization)
}

func (s *MemoryStoreSuite) TestGetUnknownReturnsNotFound() {
	_, err := s.store.Get(s.ctx, "9999")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *MemoryStoreSuite) TestPutIsCreateOnly() {
	s.Require().NoError(s.store.Put(s.ctx, newAssignment("1001", "Acme")))

	err := s.store.Put(s.ctx, newAssignment("1001", "Globex"))
	s.Require().ErrorIs(err, sentinel.ErrConflict)

	// Original record untouched.
	found, err := s.store.Get(s.ctx, "1001")
	s.Require().NoError(err)
	s.Equal("Acme", found.Organization)
}

func (s *MemoryStoreSuite) TestAllAndReset() {
	s.Require().NoError(s.store.Put(s.ctx, newAssignment("1001", "Acme")))
	s.Require().NoError(s.store.Put(s.ctx, newAssignment("1002", "Globex")))

	all, err := s.store.All(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 2)

	s.Require().NoError(s.store.Reset(s.ctx))
	all, err = s.store.All(s.ctx)
	s.Require().NoError(err)
	s.Empty(all)

	_, err = s.store.Get(s.ctx, "1001")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}
