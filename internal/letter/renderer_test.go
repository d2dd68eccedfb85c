package letter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctabha/coop-training/internal/allocation"
	"github.com/ctabha/coop-training/internal/roster"
)

func TestRenderIncludesAllFields(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	rec := roster.TraineeRecord{
		TraineeID:      "1001",
		Name:           "Ahmed Ali",
		Phone:          "0551234567",
		Specialization: "CS",
		Organization:   "Acme",
		Supervisor:     "Dr. Saleh",
		CourseRef:      "REF-1",
	}
	assignment := allocation.Assignment{
		ID:             "a-1",
		TraineeID:      "1001",
		Specialization: "CS",
		Organization:   "Acme",
		CommittedAt:    time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC),
	}

	out, err := r.Render(rec, assignment)
	require.NoError(t, err)

	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "Ahmed Ali")
	assert.Contains(t, out, "1001")
	assert.Contains(t, out, "Dr. Saleh")
	assert.Contains(t, out, "REF-1")
	assert.Contains(t, out, "2026-08-25")
	assert.Contains(t, out, "a-1")
}

func TestRenderOmitsEmptyOptionalFields(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	out, err := r.Render(roster.TraineeRecord{TraineeID: "1001", Name: "Ahmed"}, allocation.Assignment{
		Organization: "Acme",
		CommittedAt:  time.Now(),
	})
	require.NoError(t, err)
	assert.NotContains(t, out, "Supervisor:")
	assert.NotContains(t, out, "Course Ref:")
}

func TestNewRendererFromTextRejectsBadTemplate(t *testing.T) {
	_, err := NewRendererFromText("{{.Broken")
	require.Error(t, err)
}
