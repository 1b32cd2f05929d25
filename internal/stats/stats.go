package stats

import (
	"time"

	"github.com/breakroster/internal/schedule"
)

// DetailedStats is the management overview for one day.
type DetailedStats struct {
	TotalEmployees      int                         `json:"totalEmployees"`
	MissingBreaks       int                         `json:"missingBreaks"`
	CoverageIssues      int                         `json:"coverageIssues"`
	OvertimeAlerts      int                         `json:"overtimeAlerts"`
	DepartmentBreakdown map[schedule.Department]int `json:"departmentBreakdown"`

	TotalShiftHours    float64 `json:"totalShiftHours"`
	AverageShiftLength float64 `json:"averageShiftLength"`
	LongestShift       float64 `json:"longestShift"`
	ShortestShift      float64 `json:"shortestShift"`

	BreakComplianceRate    float64 `json:"breakComplianceRate"`
	CoverageComplianceRate float64 `json:"coverageComplianceRate"`

	EmployeesWithFullBreaks    int `json:"employeesWithFullBreaks"`
	EmployeesWithPartialBreaks int `json:"employeesWithPartialBreaks"`
	EmployeesWithNoBreaks      int `json:"employeesWithNoBreaks"`
	TotalBreaksScheduled       int `json:"totalBreaksScheduled"`
	TotalCoverageAssigned      int `json:"totalCoverageAssigned"`
}

// OnDate returns the entries that fall on day, in input order.
func OnDate(entries []schedule.BreakEntry, day time.Time) []schedule.BreakEntry {
	var out []schedule.BreakEntry
	for _, e := range entries {
		if e.OnDay(day) {
			out = append(out, e)
		}
	}
	return out
}

// ForDate filters entries to day and rolls them up.
func ForDate(entries []schedule.BreakEntry, employees []schedule.Employee, day time.Time) DetailedStats {
	return Compute(OnDate(entries, day), employees)
}

// Compute rolls up a day's entries. It holds no state and is safe to call
// repeatedly; empty input yields zero rates and shift lengths.
func Compute(dayEntries []schedule.BreakEntry, employees []schedule.Employee) DetailedStats {
	s := DetailedStats{
		TotalEmployees:      len(dayEntries),
		DepartmentBreakdown: make(map[schedule.Department]int, len(schedule.Departments)),
	}
	for _, d := range schedule.Departments {
		s.DepartmentBreakdown[d] = 0
	}

	byID := indexEmployees(employees)

	for i, e := range dayEntries {
		a := schedule.Analyze(e)

		if !a.HasBreak1 {
			s.MissingBreaks++
		}
		if a.Break1Uncovered || a.Break2Uncovered {
			s.CoverageIssues++
		}
		if emp, ok := byID[e.EmployeeID]; ok {
			if _, known := s.DepartmentBreakdown[emp.Department]; known {
				s.DepartmentBreakdown[emp.Department]++
			}
		}

		s.TotalShiftHours += a.ShiftHours
		if i == 0 || a.ShiftHours > s.LongestShift {
			s.LongestShift = a.ShiftHours
		}
		if i == 0 || a.ShiftHours < s.ShortestShift {
			s.ShortestShift = a.ShiftHours
		}
		if a.Overtime {
			s.OvertimeAlerts++
		}

		s.TotalBreaksScheduled += a.BreaksScheduled
		s.TotalCoverageAssigned += a.CoverageAssigned

		switch a.BreakStatus.Bucket() {
		case schedule.BucketMissing:
			s.EmployeesWithNoBreaks++
		case schedule.BucketPartial:
			s.EmployeesWithPartialBreaks++
		default:
			s.EmployeesWithFullBreaks++
		}
	}

	if s.TotalEmployees > 0 {
		s.AverageShiftLength = s.TotalShiftHours / float64(s.TotalEmployees)
		s.BreakComplianceRate = float64(s.EmployeesWithFullBreaks+s.EmployeesWithPartialBreaks) / float64(s.TotalEmployees) * 100
	}
	if s.TotalBreaksScheduled > 0 {
		s.CoverageComplianceRate = float64(s.TotalCoverageAssigned) / float64(s.TotalBreaksScheduled) * 100
	}

	return s
}

func indexEmployees(employees []schedule.Employee) map[string]schedule.Employee {
	byID := make(map[string]schedule.Employee, len(employees))
	for _, emp := range employees {
		byID[emp.ID] = emp
	}
	return byID
}

// ComplianceGrade is the badge shown next to a compliance rate.
type ComplianceGrade string

const (
	GradeExcellent      ComplianceGrade = "Excellent"
	GradeGood           ComplianceGrade = "Good"
	GradeNeedsAttention ComplianceGrade = "Needs Attention"
)

// Grade maps a percentage to its badge: 90 and up is excellent, 70 and up good.
func Grade(rate float64) ComplianceGrade {
	switch {
	case rate >= 90:
		return GradeExcellent
	case rate >= 70:
		return GradeGood
	default:
		return GradeNeedsAttention
	}
}
