package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/ctabha/coop-training/internal/allocation"
	"github.com/ctabha/coop-training/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

// Postgres persists assignments in a PostgreSQL table. The primary key on
// trainee_id makes duplicate commits a database-level conflict, so the
// create-only contract holds even across processes.
type Postgres struct {
	db *sql.DB
}

// NewPostgres wraps an open database handle.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Migrate creates the assignments table when it does not exist yet.
func (s *Postgres) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS assignments (
			trainee_id     TEXT PRIMARY KEY,
			id             TEXT NOT NULL,
			specialization TEXT NOT NULL,
			organization   TEXT NOT NULL,
			committed_at   TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("migrate assignments table: %w", err)
	}
	return nil
}

func (s *Postgres) Get(ctx context.Context, traineeID string) (allocation.Assignment, error) {
	var a allocation.Assignment
	err := s.db.QueryRowContext(ctx, `
		SELECT id, trainee_id, specialization, organization, committed_at
		FROM assignments WHERE trainee_id = $1`, traineeID).
		Scan(&a.ID, &a.TraineeID, &a.Specialization, &a.Organization, &a.CommittedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return allocation.Assignment{}, sentinel.ErrNotFound
	}
	if err != nil {
		return allocation.Assignment{}, fmt.Errorf("get assignment: %w", err)
	}
	return a, nil
}

func (s *Postgres) Put(ctx context.Context, assignment allocation.Assignment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO assignments (id, trainee_id, specialization, organization, committed_at)
		VALUES ($1, $2, $3, $4, $5)`,
		assignment.ID, assignment.TraineeID, assignment.Specialization,
		assignment.Organization, assignment.CommittedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("put assignment: %w", err)
	}
	return nil
}

func (s *Postgres) All(ctx context.Context) ([]allocation.Assignment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, trainee_id, specialization, organization, committed_at
		FROM assignments`)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var out []allocation.Assignment
	for rows.Next() {
		var a allocation.Assignment
		if err := rows.Scan(&a.ID, &a.TraineeID, &a.Specialization, &a.Organization, &a.CommittedAt); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assignments: %w", err)
	}
	return out, nil
}

func (s *Postgres) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `TRUNCATE assignments`); err != nil {
		return fmt.Errorf("reset assignments: %w", err)
	}
	return nil
}
