package handler

import (
	"sort"
	"time"

	"github.com/ctabha/coop-training/internal/allocation"
)

// OrganizationResponse is one offered organization with its remaining slots.
type OrganizationResponse struct {
	Organization string `json:"organization"`
	Remaining    int    `json:"remaining"`
}

// OrganizationsResponse is the HTTP response for GET /placements/organizations.
type OrganizationsResponse struct {
	Specialization string                 `json:"specialization"`
	Organizations  []OrganizationResponse `json:"organizations"`
}

// AssignmentResponse is the HTTP representation of a committed assignment.
type AssignmentResponse struct {
	ID               string    `json:"id"`
	TraineeID        string    `json:"trainee_id"`
	Specialization   string    `json:"specialization"`
	Organization     string    `json:"organization"`
	CommittedAt      time.Time `json:"committed_at"`
	AlreadyCommitted bool      `json:"already_committed,omitempty"`
}

// CapacityReportResponse is the admin usage report.
type CapacityReportResponse struct {
	Specializations map[string][]allocation.OrganizationSlots `json:"specializations"`
}

func organizationsFromRemaining(specialization string, remaining map[string]int) OrganizationsResponse {
	orgs := make([]OrganizationResponse, 0, len(remaining))
	for org, left := range remaining {
		orgs = append(orgs, OrganizationResponse{Organization: org, Remaining: left})
	}
	sort.Slice(orgs, func(i, j int) bool {
		return orgs[i].Organization < orgs[j].Organization
	})
	return OrganizationsResponse{Specialization: specialization, Organizations: orgs}
}

func assignmentResponse(a allocation.Assignment, alreadyCommitted bool) AssignmentResponse {
	return AssignmentResponse{
		ID:               a.ID,
		TraineeID:        a.TraineeID,
		Specialization:   a.Specialization,
		Organization:     a.Organization,
		CommittedAt:      a.CommittedAt,
		AlreadyCommitted: alreadyCommitted,
	}
}
