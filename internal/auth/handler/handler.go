// Package handler wires the login endpoint to the auth service.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ctabha/coop-training/internal/roster"
	"github.com/ctabha/coop-training/pkg/platform/httputil"
	"github.com/ctabha/coop-training/pkg/requestcontext"
)

// Service defines the auth operations the handler needs.
type Service interface {
	Login(ctx context.Context, traineeID, phoneLast4 string) (string, roster.TraineeRecord, error)
}

// Handler handles authentication endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an auth handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts auth endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/login", h.handleLogin)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[LoginRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	token, rec, err := h.service.Login(ctx, req.TraineeID, req.PhoneLast4)
	if err != nil {
		h.logger.WarnContext(ctx, "login rejected",
			"request_id", requestID,
			"trainee_id", req.TraineeID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "trainee logged in",
		"request_id", requestID,
		"trainee_id", rec.TraineeID,
	)
	httputil.WriteJSON(w, http.StatusOK, LoginResponse{
		Token: token,
		Trainee: TraineeResponse{
			TraineeID:      rec.TraineeID,
			Name:           rec.Name,
			Specialization: rec.Specialization,
			Phone:          rec.Phone,
		},
	})
}
