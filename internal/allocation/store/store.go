// Package store persists committed assignments. Implementations return
// sentinel errors so the service can translate them into domain errors.
package store

import (
	"context"

	"github.com/ctabha/coop-training/internal/allocation"
)

//go:generate mockgen -source=store.go -destination=mocks/mocks.go -package=mocks Store

// Store is the durable assignment mapping keyed by trainee ID. Put must be
// create-only: a second Put for the same trainee returns sentinel.ErrConflict
// and leaves the original record untouched. Reset clears every entry; it is
// only reachable through the administrative reset path.
type Store interface {
	Get(ctx context.Context, traineeID string) (allocation.Assignment, error)
	Put(ctx context.Context, assignment allocation.Assignment) error
	All(ctx context.Context) ([]allocation.Assignment, error)
	Reset(ctx context.Context) error
}
