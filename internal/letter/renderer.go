// Package letter renders the placement confirmation letter from a committed
// assignment and the trainee's roster record. It only ever reads allocation
// state; nothing here can mutate the assignment store.
package letter

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	"github.com/ctabha/coop-training/internal/allocation"
	"github.com/ctabha/coop-training/internal/roster"
)

const defaultTemplate = `To whom it may concern at {{.Organization}},

This letter confirms that the trainee below has been assigned to your
organization for the cooperative training program.

  Trainee ID:     {{.TraineeID}}
  Name:           {{.Name}}
  Specialization: {{.Specialization}}
  Phone:          {{.Phone}}
{{- if .Supervisor}}
  Supervisor:     {{.Supervisor}}
{{- end}}
{{- if .CourseRef}}
  Course Ref:     {{.CourseRef}}
{{- end}}

Assignment committed on {{.CommittedAt}}.
Reference: {{.AssignmentID}}
`

// Fields is the data a letter template is executed with.
type Fields struct {
	TraineeID      string
	Name           string
	Phone          string
	Specialization string
	Organization   string
	Supervisor     string
	CourseRef      string
	CommittedAt    string
	AssignmentID   string
}

// Renderer fills the letter template.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the built-in letter template.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("letter").Parse(defaultTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse letter template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// NewRendererFromText parses a custom letter template.
func NewRendererFromText(text string) (*Renderer, error) {
	tmpl, err := template.New("letter").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse letter template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render produces the confirmation letter for a committed assignment.
func (r *Renderer) Render(rec roster.TraineeRecord, assignment allocation.Assignment) (string, error) {
	var buf bytes.Buffer
	err := r.tmpl.Execute(&buf, Fields{
		TraineeID:      rec.TraineeID,
		Name:           rec.Name,
		Phone:          rec.Phone,
		Specialization: assignment.Specialization,
		Organization:   assignment.Organization,
		Supervisor:     rec.Supervisor,
		CourseRef:      rec.CourseRef,
		CommittedAt:    assignment.CommittedAt.Format(time.DateOnly),
		AssignmentID:   assignment.ID,
	})
	if err != nil {
		return "", fmt.Errorf("render letter: %w", err)
	}
	return buf.String(), nil
}
