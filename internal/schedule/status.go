package schedule

import "github.com/breakroster/internal/work"

// BreakStatus classifies how far an entry's breaks are scheduled.
type BreakStatus string

const (
	NoBreaks      BreakStatus = "no-breaks"
	PartialBreaks BreakStatus = "partial-breaks"
	AllBreaks     BreakStatus = "all-breaks"
	Break1Only    BreakStatus = "break1-only"
)

// Bucket groups break statuses the way the roster views filter them.
type Bucket string

const (
	BucketMissing  Bucket = "missing"
	BucketPartial  Bucket = "partial"
	BucketComplete Bucket = "complete"
)

// Bucket collapses all-breaks and break1-only into the complete bucket.
func (s BreakStatus) Bucket() Bucket {
	switch s {
	case NoBreaks:
		return BucketMissing
	case PartialBreaks:
		return BucketPartial
	default:
		return BucketComplete
	}
}

// Label is the short text shown next to an entry.
func (s BreakStatus) Label() string {
	switch s {
	case NoBreaks:
		return "No Breaks"
	case PartialBreaks:
		return "Partial"
	case AllBreaks:
		return "All Breaks"
	case Break1Only:
		return "Complete"
	}
	return string(s)
}

// CoverageStatus classifies whether scheduled breaks have a covering employee.
type CoverageStatus string

const (
	NoCoverageNeeded CoverageStatus = "no-coverage-needed"
	MissingCoverage  CoverageStatus = "missing-coverage"
	FullCoverage     CoverageStatus = "full-coverage"
)

func (s CoverageStatus) Label() string {
	switch s {
	case NoCoverageNeeded:
		return "N/A"
	case MissingCoverage:
		return "Missing"
	case FullCoverage:
		return "Covered"
	}
	return string(s)
}

// Analysis is everything derived from a single entry. Statuses are computed
// from these fields only.
type Analysis struct {
	ShiftMinutes int
	ShiftHours   float64
	NetMinutes   int

	HasBreak1         bool
	HasBreak2         bool
	EligibleForBreak2 bool
	HasCoverage1      bool
	HasCoverage2      bool
	Break1Uncovered   bool
	Break2Uncovered   bool
	BreaksScheduled   int
	CoverageAssigned  int
	Overtime          bool
	BreakStatus       BreakStatus
	CoverageStatus    CoverageStatus
}

// Analyze normalizes e and classifies it.
func Analyze(e BreakEntry) Analysis {
	e = e.Normalize()

	a := Analysis{
		ShiftMinutes: ShiftMinutes(e.ShiftStart, e.ShiftEnd),
		NetMinutes:   NetWorkedMinutes(e),
		HasBreak1:    e.Break1Scheduled(),
		HasBreak2:    e.Break2Scheduled(),
		HasCoverage1: e.Coverage1 != "",
		HasCoverage2: e.Coverage2 != "",
	}
	a.ShiftHours = float64(a.ShiftMinutes) / 60
	a.EligibleForBreak2 = work.IsEligibleForSecondBreak(a.ShiftHours)
	a.Overtime = work.IsOvertime(a.ShiftHours)
	a.Break1Uncovered = a.HasBreak1 && !a.HasCoverage1
	a.Break2Uncovered = a.HasBreak2 && !a.HasCoverage2

	if a.HasBreak1 {
		a.BreaksScheduled++
	}
	if a.HasBreak2 {
		a.BreaksScheduled++
	}
	if a.HasCoverage1 {
		a.CoverageAssigned++
	}
	if a.HasCoverage2 {
		a.CoverageAssigned++
	}

	a.BreakStatus = classifyBreaks(a)
	a.CoverageStatus = classifyCoverage(a)
	return a
}

func classifyBreaks(a Analysis) BreakStatus {
	switch {
	case !a.HasBreak1:
		return NoBreaks
	case a.EligibleForBreak2 && !a.HasBreak2:
		return PartialBreaks
	case a.EligibleForBreak2:
		return AllBreaks
	default:
		return Break1Only
	}
}

func classifyCoverage(a Analysis) CoverageStatus {
	switch {
	case !a.HasBreak1 && !a.HasBreak2:
		return NoCoverageNeeded
	case a.Break1Uncovered || a.Break2Uncovered:
		return MissingCoverage
	default:
		return FullCoverage
	}
}

// GetBreakStatus classifies e's breaks.
func GetBreakStatus(e BreakEntry) BreakStatus {
	return Analyze(e).BreakStatus
}

// GetCoverageStatus classifies e's coverage.
func GetCoverageStatus(e BreakEntry) CoverageStatus {
	return Analyze(e).CoverageStatus
}
