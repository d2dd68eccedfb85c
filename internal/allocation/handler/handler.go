// Package handler exposes the placement endpoints: what a trainee may choose,
// the one-time commit, the confirmation letter, and the admin surface.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ctabha/coop-training/internal/allocation"
	"github.com/ctabha/coop-training/internal/platform/middleware"
	"github.com/ctabha/coop-training/internal/roster"
	dErrors "github.com/ctabha/coop-training/pkg/domain-errors"
	"github.com/ctabha/coop-training/pkg/platform/httputil"
	"github.com/ctabha/coop-training/pkg/requestcontext"
)

// Service defines the allocation operations the handler needs.
type Service interface {
	Trainee(ctx context.Context, traineeID string) (roster.TraineeRecord, error)
	ListAvailable(ctx context.Context, traineeID string) (map[string]int, error)
	GetAssignment(ctx context.Context, traineeID string) (allocation.Assignment, error)
	Commit(ctx context.Context, traineeID, specialization, organization string) (allocation.CommitResult, error)
	Reset(ctx context.Context) error
	Reload(ctx context.Context) error
	Report(ctx context.Context) (map[string][]allocation.OrganizationSlots, error)
}

// LetterRenderer renders the confirmation letter for a committed assignment.
type LetterRenderer interface {
	Render(rec roster.TraineeRecord, assignment allocation.Assignment) (string, error)
}

// Handler wires placement endpoints to the allocation service.
type Handler struct {
	service    Service
	letters    LetterRenderer
	logger     *slog.Logger
	validator  middleware.TokenValidator
	adminToken string
}

// New constructs a placement handler.
func New(service Service, letters LetterRenderer, validator middleware.TokenValidator, adminToken string, logger *slog.Logger) *Handler {
	return &Handler{
		service:    service,
		letters:    letters,
		logger:     logger,
		validator:  validator,
		adminToken: adminToken,
	}
}

// Register mounts the trainee and admin routes.
func (h *Handler) Register(r chi.Router) {
	r.Route("/placements", func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.validator, h.logger))
		r.Get("/organizations", h.handleListOrganizations)
		r.Get("/assignment", h.handleGetAssignment)
		r.Post("/assignment", h.handleCommit)
		r.Get("/letter", h.handleLetter)
	})
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireAdminToken(h.adminToken, h.logger))
		r.Get("/capacity", h.handleCapacityReport)
		r.Post("/reset", h.handleReset)
		r.Post("/reload", h.handleReload)
	})
}

func (h *Handler) handleListOrganizations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	traineeID := requestcontext.TraineeID(ctx)

	rec, err := h.service.Trainee(ctx, traineeID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	remaining, err := h.service.ListAvailable(ctx, traineeID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, organizationsFromRemaining(rec.Specialization, remaining))
}

func (h *Handler) handleGetAssignment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	traineeID := requestcontext.TraineeID(ctx)

	a, err := h.service.GetAssignment(ctx, traineeID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, assignmentResponse(a, false))
}

func (h *Handler) handleCommit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	traineeID := requestcontext.TraineeID(ctx)

	req, ok := httputil.DecodeAndPrepare[CommitRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Commit(ctx, traineeID, req.Specialization, req.Organization)
	if err != nil {
		h.logger.WarnContext(ctx, "commit rejected",
			"request_id", requestID,
			"trainee_id", traineeID,
			"organization", req.Organization,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	status := http.StatusCreated
	if result.AlreadyCommitted {
		status = http.StatusOK
	}
	httputil.WriteJSON(w, status, assignmentResponse(result.Assignment, result.AlreadyCommitted))
}

func (h *Handler) handleLetter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	traineeID := requestcontext.TraineeID(ctx)

	a, err := h.service.GetAssignment(ctx, traineeID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	rec, err := h.service.Trainee(ctx, traineeID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	body, err := h.letters.Render(rec, a)
	if err != nil {
		h.logger.ErrorContext(ctx, "letter rendering failed",
			"request_id", requestcontext.RequestID(ctx),
			"trainee_id", traineeID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "letter rendering failed"))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

func (h *Handler) handleCapacityReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Report(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, CapacityReportResponse{Specializations: report})
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.service.Reset(ctx); err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "administrative reset",
		"request_id", requestcontext.RequestID(ctx),
	)
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (h *Handler) handleReload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.service.Reload(ctx); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "reloaded"})
}
