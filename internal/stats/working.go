package stats

import (
	"sort"
	"time"

	"github.com/breakroster/internal/schedule"
)

// WorkingEmployee joins a day's entry with its employee and analysis.
type WorkingEmployee struct {
	Employee  schedule.Employee
	Entry     schedule.BreakEntry
	Analysis  schedule.Analysis
	Coverage1 *schedule.Employee
	Coverage2 *schedule.Employee
}

// Working returns the detailed roster for day. Entries whose employee is not
// on the roster are dropped. Results are sorted by employee name.
func Working(entries []schedule.BreakEntry, employees []schedule.Employee, day time.Time) []WorkingEmployee {
	byID := indexEmployees(employees)

	var out []WorkingEmployee
	for _, e := range OnDate(entries, day) {
		emp, ok := byID[e.EmployeeID]
		if !ok {
			continue
		}
		e = e.Normalize()
		w := WorkingEmployee{
			Employee: emp,
			Entry:    e,
			Analysis: schedule.Analyze(e),
		}
		if c, ok := byID[e.Coverage1]; ok {
			w.Coverage1 = &c
		}
		if c, ok := byID[e.Coverage2]; ok {
			w.Coverage2 = &c
		}
		out = append(out, w)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Employee.Name < out[j].Employee.Name
	})
	return out
}

// Filter narrows a working roster. Zero-valued fields match everything.
type Filter struct {
	Department schedule.Department
	Bucket     schedule.Bucket

	// MissingBreaksOnly keeps entries without break 1.
	MissingBreaksOnly bool
	// CoverageIssuesOnly keeps entries with an uncovered scheduled break.
	CoverageIssuesOnly bool
}

// Apply returns the rows that pass every set criterion.
func (f Filter) Apply(rows []WorkingEmployee) []WorkingEmployee {
	var out []WorkingEmployee
	for _, w := range rows {
		if f.Department != "" && w.Employee.Department != f.Department {
			continue
		}
		if f.Bucket != "" && w.Analysis.BreakStatus.Bucket() != f.Bucket {
			continue
		}
		if f.MissingBreaksOnly && w.Analysis.HasBreak1 {
			continue
		}
		if f.CoverageIssuesOnly && !(w.Analysis.Break1Uncovered || w.Analysis.Break2Uncovered) {
			continue
		}
		out = append(out, w)
	}
	return out
}
