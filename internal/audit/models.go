// Package audit captures an append-only trail of the actions that change or
// inspect placement state. Events fan out through a channel worker so slow
// sinks never block request handling.
package audit

import "time"

// Action names the audited operation.
type Action string

const (
	ActionLogin  Action = "trainee.login"
	ActionCommit Action = "assignment.commit"
	ActionReset  Action = "assignment.reset"
	ActionReload Action = "roster.reload"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so sinks can fan out.
type Event struct {
	Timestamp      time.Time `json:"timestamp"`
	TraineeID      string    `json:"trainee_id,omitempty"`
	Action         Action    `json:"action"`
	Specialization string    `json:"specialization,omitempty"`
	Organization   string    `json:"organization,omitempty"`
	Detail         string    `json:"detail,omitempty"`
}
