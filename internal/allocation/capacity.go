package allocation

import (
	"sort"

	"github.com/ctabha/coop-training/internal/roster"
)

// CapacityTable maps specialization -> organization -> total capacity.
// It is derived from the roster and regenerable at any time; it is never the
// ground truth for anything beyond the roster snapshot it was built from.
type CapacityTable map[string]map[string]int

// DeriveCapacity counts roster rows per (specialization, organization) pair.
// The count is the total capacity of that pair. Rows with an empty
// specialization or organization carry no capacity and are skipped.
func DeriveCapacity(records []roster.TraineeRecord) CapacityTable {
	table := make(CapacityTable)
	for _, rec := range records {
		if rec.Specialization == "" || rec.Organization == "" {
			continue
		}
		orgs := table[rec.Specialization]
		if orgs == nil {
			orgs = make(map[string]int)
			table[rec.Specialization] = orgs
		}
		orgs[rec.Organization]++
	}
	return table
}

// Remaining computes per-organization remaining slots for a specialization:
// capacity minus committed assignments, floored at zero, with exhausted
// organizations omitted. Capacity can legally shrink below the committed
// count after a roster reload; the pair then simply offers nothing.
func (t CapacityTable) Remaining(specialization string, assignments []Assignment) map[string]int {
	orgs := t[specialization]
	if len(orgs) == 0 {
		return nil
	}

	used := make(map[string]int)
	for _, a := range assignments {
		if a.Specialization == specialization {
			used[a.Organization]++
		}
	}

	remaining := make(map[string]int, len(orgs))
	for org, capacity := range orgs {
		if left := capacity - used[org]; left > 0 {
			remaining[org] = left
		}
	}
	if len(remaining) == 0 {
		return nil
	}
	return remaining
}

// Report builds the full usage report for a specialization, including
// exhausted organizations, sorted by organization name.
func (t CapacityTable) Report(specialization string, assignments []Assignment) []OrganizationSlots {
	orgs := t[specialization]
	if len(orgs) == 0 {
		return nil
	}

	used := make(map[string]int)
	for _, a := range assignments {
		if a.Specialization == specialization {
			used[a.Organization]++
		}
	}

	report := make([]OrganizationSlots, 0, len(orgs))
	for org, capacity := range orgs {
		remaining := capacity - used[org]
		if remaining < 0 {
			remaining = 0
		}
		report = append(report, OrganizationSlots{
			Organization: org,
			Capacity:     capacity,
			Used:         used[org],
			Remaining:    remaining,
		})
	}
	sort.Slice(report, func(i, j int) bool {
		return report[i].Organization < report[j].Organization
	})
	return report
}

// Specializations lists the specializations present in the table, sorted.
func (t CapacityTable) Specializations() []string {
	out := make([]string, 0, len(t))
	for s := range t {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
