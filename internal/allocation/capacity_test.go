package allocation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctabha/coop-training/internal/roster"
)

func csRow(id, org string) roster.TraineeRecord {
	return roster.TraineeRecord{TraineeID: id, Specialization: "CS", Organization: org}
}

func TestDeriveCapacityCountsRowRepetition(t *testing.T) {
	records := []roster.TraineeRecord{
		csRow("1", "Acme"),
		csRow("2", "Acme"),
		csRow("3", "Acme"),
		csRow("4", "Globex"),
		csRow("5", "Globex"),
		{TraineeID: "6", Specialization: "IT", Organization: "Initech"},
	}

	table := DeriveCapacity(records)

	assert.Equal(t, 3, table["CS"]["Acme"])
	assert.Equal(t, 2, table["CS"]["Globex"])
	assert.Equal(t, 1, table["IT"]["Initech"])
	assert.Equal(t, []string{"CS", "IT"}, table.Specializations())
}

func TestDeriveCapacitySkipsIncompleteRows(t *testing.T) {
	records := []roster.TraineeRecord{
		csRow("1", "Acme"),
		{TraineeID: "2", Specialization: "", Organization: "Acme"},
		{TraineeID: "3", Specialization: "CS", Organization: ""},
	}

	table := DeriveCapacity(records)

	assert.Equal(t, 1, table["CS"]["Acme"])
	assert.Len(t, table, 1)
}

func TestRemainingFiltersExhaustedOrganizations(t *testing.T) {
	table := DeriveCapacity([]roster.TraineeRecord{
		csRow("1", "Acme"),
		csRow("2", "Acme"),
		csRow("3", "Globex"),
	})

	assignments := []Assignment{
		{TraineeID: "1", Specialization: "CS", Organization: "Acme"},
		{TraineeID: "3", Specialization: "CS", Organization: "Globex"},
	}

	remaining := table.Remaining("CS", assignments)
	require.NotNil(t, remaining)
	assert.Equal(t, map[string]int{"Acme": 1}, remaining, "Globex is exhausted and must be omitted")
}

func TestRemainingIgnoresOtherSpecializations(t *testing.T) {
	table := DeriveCapacity([]roster.TraineeRecord{
		csRow("1", "Acme"),
		{TraineeID: "2", Specialization: "IT", Organization: "Acme"},
	})

	// An IT assignment at Acme must not consume CS capacity at Acme.
	assignments := []Assignment{
		{TraineeID: "2", Specialization: "IT", Organization: "Acme"},
	}

	assert.Equal(t, map[string]int{"Acme": 1}, table.Remaining("CS", assignments))
	assert.Nil(t, table.Remaining("IT", assignments))
}

func TestRemainingNeverNegativeAfterRosterShrink(t *testing.T) {
	// Capacity shrank below the committed count after a roster reload; the
	// pair is over-subscribed and must offer zero, never a negative value.
	table := CapacityTable{"CS": {"Acme": 1}}
	assignments := []Assignment{
		{TraineeID: "1", Specialization: "CS", Organization: "Acme"},
		{TraineeID: "2", Specialization: "CS", Organization: "Acme"},
	}

	assert.Nil(t, table.Remaining("CS", assignments))

	report := table.Report("CS", assignments)
	require.Len(t, report, 1)
	assert.Equal(t, 0, report[0].Remaining)
	assert.Equal(t, 2, report[0].Used)
}

func TestRemainingUnknownSpecialization(t *testing.T) {
	table := DeriveCapacity([]roster.TraineeRecord{csRow("1", "Acme")})
	assert.Nil(t, table.Remaining("Medicine", nil))
}

func TestReportSorted(t *testing.T) {
	table := DeriveCapacity([]roster.TraineeRecord{
		csRow("1", "Globex"),
		csRow("2", "Acme"),
	})

	report := table.Report("CS", nil)
	require.Len(t, report, 2)
	assert.Equal(t, "Acme", report[0].Organization)
	assert.Equal(t, "Globex", report[1].Organization)
}
