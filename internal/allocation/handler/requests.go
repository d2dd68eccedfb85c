package handler

import (
	"strings"

	dErrors "github.com/ctabha/coop-training/pkg/domain-errors"
)

// CommitRequest is the HTTP request body for POST /placements/assignment.
// Specialization is optional; when present it must match the trainee's roster
// record, which guards against forged form input.
type CommitRequest struct {
	Organization   string `json:"organization"`
	Specialization string `json:"specialization,omitempty"`
}

// Validate implements httputil.Validatable.
func (r *CommitRequest) Validate() error {
	r.Organization = strings.TrimSpace(r.Organization)
	r.Specialization = strings.TrimSpace(r.Specialization)
	if r.Organization == "" {
		return dErrors.New(dErrors.CodeValidation, "organization is required")
	}
	return nil
}
