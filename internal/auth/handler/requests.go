package handler

import (
	"strings"

	dErrors "github.com/ctabha/coop-training/pkg/domain-errors"
)

// LoginRequest is the HTTP request body for POST /auth/login.
type LoginRequest struct {
	TraineeID  string `json:"trainee_id"`
	PhoneLast4 string `json:"phone_last4"`
}

// Validate implements httputil.Validatable.
func (r *LoginRequest) Validate() error {
	r.TraineeID = strings.TrimSpace(r.TraineeID)
	r.PhoneLast4 = strings.TrimSpace(r.PhoneLast4)
	if r.TraineeID == "" {
		return dErrors.New(dErrors.CodeValidation, "trainee_id is required")
	}
	if r.PhoneLast4 == "" {
		return dErrors.New(dErrors.CodeValidation, "phone_last4 is required")
	}
	return nil
}

// LoginResponse is the HTTP response for a successful login.
type LoginResponse struct {
	Token   string          `json:"token"`
	Trainee TraineeResponse `json:"trainee"`
}

// TraineeResponse echoes the roster identity back to the client.
type TraineeResponse struct {
	TraineeID      string `json:"trainee_id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	Phone          string `json:"phone"`
}
