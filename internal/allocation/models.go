// Package allocation implements the slot-allocation engine: capacity derived
// from roster row repetition, live remaining-slot computation, and the
// one-time durable commit of a trainee's placement choice.
package allocation

import "time"

// Assignment is the durable record of a trainee's committed choice. It is
// created exactly once per trainee and never updated; the specialization and
// organization are captured at commit time.
type Assignment struct {
	ID             string    `json:"id"`
	TraineeID      string    `json:"trainee_id"`
	Specialization string    `json:"specialization"`
	Organization   string    `json:"organization"`
	CommittedAt    time.Time `json:"committed_at"`
}

// CommitResult reports the outcome of a commit. AlreadyCommitted is true when
// the trainee had a prior assignment; in that case Assignment is the original
// record and no state was changed.
type CommitResult struct {
	Assignment       Assignment
	AlreadyCommitted bool
}

// OrganizationSlots is one row of an availability or usage report.
type OrganizationSlots struct {
	Organization string `json:"organization"`
	Capacity     int    `json:"capacity"`
	Used         int    `json:"used"`
	Remaining    int    `json:"remaining"`
}
