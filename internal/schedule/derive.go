package schedule

import (
	"fmt"
	"math"

	"github.com/breakroster/internal/timeofday"
	"github.com/breakroster/internal/work"
)

// ShiftMinutes returns the shift length in minutes, wrapping past midnight.
func ShiftMinutes(shiftStart, shiftEnd string) int {
	return timeofday.Duration(shiftStart, shiftEnd)
}

// ShiftHours returns the shift length in hours, or 0 if either bound is missing.
func ShiftHours(shiftStart, shiftEnd string) float64 {
	return float64(ShiftMinutes(shiftStart, shiftEnd)) / 60
}

// EligibleForSecondBreak reports whether a shift of the given hours earns break 2.
func EligibleForSecondBreak(hours float64) bool {
	return work.IsEligibleForSecondBreak(hours)
}

// NetWorkedMinutes is the shift minus both breaks and outside-therapy time.
func NetWorkedMinutes(e BreakEntry) int {
	return timeofday.Duration(e.ShiftStart, e.ShiftEnd) -
		timeofday.Duration(e.Break1Start, e.Break1End) -
		timeofday.Duration(e.Break2Start, e.Break2End) -
		timeofday.Duration(e.OutsideTherapyStart, e.OutsideTherapyEnd)
}

// NetWorkedHours renders net worked time as "H.MM", where MM is the leftover
// minutes and not a decimal fraction: 7h05m is "7.05". Exported files depend
// on this encoding.
func NetWorkedHours(e BreakEntry) string {
	if e.ShiftStart == "" || e.ShiftEnd == "" {
		return "0.00"
	}
	return pseudoDecimal(NetWorkedMinutes(e))
}

// FormatShiftHours renders fractional hours in the same "H.MM" encoding as
// NetWorkedHours, followed by " hrs".
func FormatShiftHours(hours float64) string {
	return pseudoDecimal(int(math.Round(hours*60))) + " hrs"
}

// FormatOutsideTherapy renders the outside-therapy window in 12 hour time,
// with the reason in parentheses when one is set.
func FormatOutsideTherapy(e BreakEntry) string {
	if e.OutsideTherapyStart == "" || e.OutsideTherapyEnd == "" {
		return ""
	}
	s := timeofday.Format12h(e.OutsideTherapyStart) + " - " + timeofday.Format12h(e.OutsideTherapyEnd)
	if e.OutsideTherapyReason != "" {
		s += " (" + e.OutsideTherapyReason + ")"
	}
	return s
}

func pseudoDecimal(total int) string {
	sign := ""
	if total < 0 {
		sign = "-"
		total = -total
	}
	return fmt.Sprintf("%s%d.%02d", sign, total/60, total%60)
}
