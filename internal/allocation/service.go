package allocation

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ctabha/coop-training/internal/audit"
	"github.com/ctabha/coop-training/internal/roster"
	dErrors "github.com/ctabha/coop-training/pkg/domain-errors"
	"github.com/ctabha/coop-training/pkg/platform/sentinel"
	"github.com/ctabha/coop-training/pkg/requestcontext"
)

// Store is the assignment persistence the service commits through. It is the
// only mutable state in the system.
type Store interface {
	Get(ctx context.Context, traineeID string) (Assignment, error)
	Put(ctx context.Context, assignment Assignment) error
	All(ctx context.Context) ([]Assignment, error)
	Reset(ctx context.Context) error
}

// CapacitySnapshotCache receives derived capacity tables and explicit
// invalidations. It is never consulted for offer or commit decisions.
type CapacitySnapshotCache interface {
	Put(ctx context.Context, table CapacityTable) error
	Invalidate(ctx context.Context) error
}

// Auditor records audit events. Emit must not block.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event)
}

// Metrics is the subset of the metrics type the service calls.
type Metrics interface {
	RecordCommit()
	RecordRejection(reason string)
	RecordReset()
	SetRosterRows(n int)
}

// Service is the slot-allocation engine. All commits serialize through a
// single mutex so the last slot of an organization can never be claimed
// twice; reads never take the write path.
type Service struct {
	source roster.Source
	store  Store

	cache   CapacitySnapshotCache
	auditor Auditor
	metrics Metrics
	logger  *slog.Logger
	tracer  trace.Tracer

	mu       sync.RWMutex
	snapshot *roster.Snapshot
	capacity CapacityTable
}

// Option configures optional service dependencies.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics attaches allocation metrics.
func WithMetrics(m Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithAuditor attaches an audit publisher.
func WithAuditor(a Auditor) Option {
	return func(s *Service) { s.auditor = a }
}

// WithCapacityCache attaches a capacity snapshot cache.
func WithCapacityCache(c CapacitySnapshotCache) Option {
	return func(s *Service) { s.cache = c }
}

// NewService builds the allocation service. Reload must be called before the
// service answers trainee requests.
func NewService(source roster.Source, store Store, opts ...Option) (*Service, error) {
	if source == nil {
		return nil, errors.New("roster source is required")
	}
	if store == nil {
		return nil, errors.New("assignment store is required")
	}
	s := &Service{
		source:   source,
		store:    store,
		logger:   slog.Default(),
		tracer:   otel.Tracer("coop-training/allocation"),
		snapshot: roster.NewSnapshot(nil),
		capacity: CapacityTable{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Reload re-reads the roster and re-derives the capacity table. This is the
// forced recompute-from-roster path; the snapshot cache is refreshed as a
// side effect and stays advisory.
func (s *Service) Reload(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "allocation.Reload")
	defer span.End()

	records, err := s.source.Load(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "roster load failed", "error", err)
		return dErrors.New(dErrors.CodeInternal, "roster load failed")
	}

	snapshot := roster.NewSnapshot(records)
	capacity := DeriveCapacity(records)

	s.mu.Lock()
	s.snapshot = snapshot
	s.capacity = capacity
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.SetRosterRows(snapshot.Len())
	}
	if s.cache != nil {
		if err := s.cache.Put(ctx, capacity); err != nil {
			// Advisory cache only; the derived table in memory is authoritative.
			s.logger.WarnContext(ctx, "capacity cache refresh failed", "error", err)
		}
	}
	s.emit(ctx, audit.Event{Action: audit.ActionReload, Detail: "roster reloaded"})
	s.logger.InfoContext(ctx, "roster reloaded",
		"rows", snapshot.Len(),
		"specializations", len(capacity),
	)
	span.SetAttributes(attribute.Int("roster.rows", snapshot.Len()))
	return nil
}

// Trainee returns the canonical roster record for a trainee ID.
func (s *Service) Trainee(ctx context.Context, traineeID string) (roster.TraineeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.snapshot.Find(traineeID)
	if !ok {
		return roster.TraineeRecord{}, dErrors.New(dErrors.CodeNotFound, "trainee not found in roster")
	}
	return rec, nil
}

// ListAvailable returns the organizations a trainee may legally choose right
// now: remaining slots per organization for the trainee's own specialization,
// with exhausted organizations omitted. A store read failure offers nothing.
func (s *Service) ListAvailable(ctx context.Context, traineeID string) (map[string]int, error) {
	rec, err := s.Trainee(ctx, traineeID)
	if err != nil {
		return nil, err
	}

	assignments, err := s.store.All(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "assignment store read failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return nil, dErrors.New(dErrors.CodeInternal, "assignment store unavailable")
	}

	s.mu.RLock()
	remaining := s.capacity.Remaining(rec.Specialization, assignments)
	s.mu.RUnlock()
	return remaining, nil
}

// GetAssignment returns the trainee's committed assignment.
func (s *Service) GetAssignment(ctx context.Context, traineeID string) (Assignment, error) {
	if _, err := s.Trainee(ctx, traineeID); err != nil {
		return Assignment{}, err
	}
	a, err := s.store.Get(ctx, traineeID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return Assignment{}, dErrors.New(dErrors.CodeNotFound, "no assignment committed yet")
	}
	if err != nil {
		return Assignment{}, dErrors.New(dErrors.CodeInternal, "assignment store unavailable")
	}
	return a, nil
}

// Commit records the trainee's one-time choice of organization.
//
// The passed specialization is a defense against forged form input: when
// non-empty it must match the trainee's roster specialization. Remaining
// slots are recomputed from a live store count inside the critical section,
// so a commit can never act on stale capacity.
//
// A trainee who already committed gets the original assignment back with
// AlreadyCommitted set; repeated submissions never double-count and never
// move the trainee to a different organization.
func (s *Service) Commit(ctx context.Context, traineeID, specialization, organization string) (CommitResult, error) {
	ctx, span := s.tracer.Start(ctx, "allocation.Commit",
		trace.WithAttributes(attribute.String("organization", organization)))
	defer span.End()

	rec, err := s.Trainee(ctx, traineeID)
	if err != nil {
		s.reject("trainee_not_found")
		return CommitResult{}, err
	}
	if specialization != "" && specialization != rec.Specialization {
		s.reject("specialization_mismatch")
		return CommitResult{}, dErrors.New(dErrors.CodeValidation, "specialization does not match roster record")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Idempotent resubmission: report the existing choice, change nothing.
	if existing, err := s.store.Get(ctx, traineeID); err == nil {
		return CommitResult{Assignment: existing, AlreadyCommitted: true}, nil
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		s.reject("store_error")
		return CommitResult{}, dErrors.New(dErrors.CodeInternal, "assignment store unavailable")
	}

	assignments, err := s.store.All(ctx)
	if err != nil {
		s.reject("store_error")
		return CommitResult{}, dErrors.New(dErrors.CodeInternal, "assignment store unavailable")
	}

	if _, offered := s.capacity[rec.Specialization][organization]; !offered {
		s.reject("organization_not_offered")
		return CommitResult{}, dErrors.New(dErrors.CodeValidation, "organization is not available for your specialization")
	}
	remaining := s.capacity.Remaining(rec.Specialization, assignments)
	if remaining[organization] <= 0 {
		s.reject("capacity_exhausted")
		return CommitResult{}, dErrors.New(dErrors.CodeConflict, "organization has no remaining slots")
	}

	assignment := Assignment{
		ID:             uuid.NewString(),
		TraineeID:      rec.TraineeID,
		Specialization: rec.Specialization,
		Organization:   organization,
		CommittedAt:    requestcontext.Now(ctx),
	}
	if err := s.store.Put(ctx, assignment); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			// Another writer (shared file or database) won the race for this
			// trainee; the stored record is the committed truth.
			if existing, getErr := s.store.Get(ctx, traineeID); getErr == nil {
				return CommitResult{Assignment: existing, AlreadyCommitted: true}, nil
			}
		}
		s.reject("store_error")
		return CommitResult{}, dErrors.New(dErrors.CodeInternal, "assignment write failed")
	}

	if s.metrics != nil {
		s.metrics.RecordCommit()
	}
	s.emit(ctx, audit.Event{
		Action:         audit.ActionCommit,
		TraineeID:      rec.TraineeID,
		Specialization: rec.Specialization,
		Organization:   organization,
	})
	s.logger.InfoContext(ctx, "assignment committed",
		"request_id", requestcontext.RequestID(ctx),
		"trainee_id", rec.TraineeID,
		"specialization", rec.Specialization,
		"organization", organization,
	)
	return CommitResult{Assignment: assignment}, nil
}

// Reset clears every committed assignment and invalidates the capacity cache.
// Used when the roster is regenerated and old choices must be invalidated.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Reset(ctx); err != nil {
		return dErrors.New(dErrors.CodeInternal, "assignment store reset failed")
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.WarnContext(ctx, "capacity cache invalidation failed", "error", err)
		}
	}
	if s.metrics != nil {
		s.metrics.RecordReset()
	}
	s.emit(ctx, audit.Event{Action: audit.ActionReset, Detail: "all assignments cleared"})
	s.logger.InfoContext(ctx, "assignment store reset",
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

// Report returns the per-organization usage table for every specialization,
// including exhausted organizations.
func (s *Service) Report(ctx context.Context) (map[string][]OrganizationSlots, error) {
	assignments, err := s.store.All(ctx)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeInternal, "assignment store unavailable")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	report := make(map[string][]OrganizationSlots, len(s.capacity))
	for _, specialization := range s.capacity.Specializations() {
		report[specialization] = s.capacity.Report(specialization, assignments)
	}
	return report, nil
}

func (s *Service) reject(reason string) {
	if s.metrics != nil {
		s.metrics.RecordRejection(reason)
	}
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditor != nil {
		s.auditor.Emit(ctx, event)
	}
}
