package schedule

import (
	"errors"
	"fmt"

	"github.com/breakroster/internal/timeofday"
	"github.com/breakroster/internal/work"
)

// ErrNotEligible is returned when break 2 is requested on a shift too short for it.
var ErrNotEligible = errors.New("shift is not eligible for a second break")

// QuickBreak fills break 1 or break 2 with a default-length break placed at
// a fixed offset from shift start. Times wrap past midnight.
func QuickBreak(e BreakEntry, which int) (BreakEntry, error) {
	if which != 1 && which != 2 {
		return e, fmt.Errorf("unknown break %d (use 1 or 2)", which)
	}
	start, err := timeofday.Parse(e.ShiftStart)
	if err != nil {
		return e, fmt.Errorf("shift start: %w", err)
	}
	if which == 2 && !EligibleForSecondBreak(ShiftHours(e.ShiftStart, e.ShiftEnd)) {
		return e, ErrNotEligible
	}

	breakStart := start + work.QuickBreakOffset(which)
	breakEnd := breakStart + work.QuickBreakMinutes

	if which == 1 {
		e.Break1Start = timeofday.Format(breakStart)
		e.Break1End = timeofday.Format(breakEnd)
	} else {
		e.Break2Start = timeofday.Format(breakStart)
		e.Break2End = timeofday.Format(breakEnd)
	}
	return e, nil
}
