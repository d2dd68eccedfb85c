//go:build integration

package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/ctabha/coop-training/internal/allocation"
	"github.com/ctabha/coop-training/internal/allocation/store"
	"github.com/ctabha/coop-training/pkg/platform/sentinel"
	"github.com/ctabha/coop-training/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
	s.Require().NoError(s.store.Migrate(context.Background()))
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.store.Reset(context.Background()))
}

func testAssignment(traineeID, org string) allocation.Assignment {
	return allocation.Assignment{
		ID:             uuid.NewString(),
		TraineeID:      traineeID,
		Specialization: "CS",
		Organization:   org,
		CommittedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
}

func (s *PostgresStoreSuite) TestPutGetAll() {
	ctx := context.Background()
	a := testAssignment("1001", "Acme")
	s.Require().NoError(s.store.Put(ctx, a))

	found, err := s.store.Get(ctx, "1001")
	s.Require().NoError(err)
	s.Equal(a.Organization, found.Organization)
	s.Equal(a.ID, found.ID)

	all, err := s.store.All(ctx)
	s.Require().NoError(err)
	s.Len(all, 1)
}

func (s *PostgresStoreSuite) TestGetUnknownReturnsNotFound() {
	_, err := s.store.Get(context.Background(), "9999")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

// TestConcurrentDuplicatePut verifies that concurrent commits for the same
// trainee result in exactly one stored assignment.
func (s *PostgresStoreSuite) TestConcurrentDuplicatePut() {
	ctx := context.Background()
	const goroutines = 20

	var wg sync.WaitGroup
	var successCount, conflictCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.Put(ctx, testAssignment("1001", "Acme"))
			if err == nil {
				successCount.Add(1)
			} else if errors.Is(err, sentinel.ErrConflict) {
				conflictCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load(), "exactly one put should succeed")
	s.Equal(int32(goroutines-1), conflictCount.Load(), "all others should conflict")

	all, err := s.store.All(ctx)
	s.Require().NoError(err)
	s.Len(all, 1)
}

func (s *PostgresStoreSuite) TestReset() {
	ctx := context.Background()
	s.Require().NoError(s.store.Put(ctx, testAssignment("1001", "Acme")))
	s.Require().NoError(s.store.Reset(ctx))

	all, err := s.store.All(ctx)
	s.Require().NoError(err)
	s.Empty(all)
}
