package work

// =============================================================================
// BREAK RULES CONFIGURATION
// =============================================================================
// Edit these values to match your clinic's scheduling policy.
//
// To customize:
// 1. Change SecondBreakMinHours to the shift length that earns a second break
// 2. Change OvertimeHours to the shift length flagged as overtime
// 3. Change the QuickBreak* offsets used when a break is added with one click
// =============================================================================

const (
	// SecondBreakMinHours - shifts at least this long are eligible for break 2
	SecondBreakMinHours = 6.5

	// OvertimeHours - shifts strictly longer than this raise an overtime alert
	OvertimeHours = 8.0

	// QuickBreak1OffsetMinutes - quick-add break 1 starts this long after shift start
	QuickBreak1OffsetMinutes = 120

	// QuickBreak2OffsetMinutes - quick-add break 2 starts this long after shift start
	QuickBreak2OffsetMinutes = 240

	// QuickBreakMinutes - length of a quick-add break
	QuickBreakMinutes = 10

	// DefaultShiftStart / DefaultShiftEnd - shift created by "schedule" for selected employees
	DefaultShiftStart = "09:00"
	DefaultShiftEnd   = "17:00"
)

// IsEligibleForSecondBreak returns true if a shift of the given length earns break 2
func IsEligibleForSecondBreak(shiftHours float64) bool {
	return shiftHours >= SecondBreakMinHours
}

// IsOvertime returns true if a shift of the given length counts as overtime
func IsOvertime(shiftHours float64) bool {
	return shiftHours > OvertimeHours
}

// QuickBreakOffset returns the minutes after shift start at which quick-add break n begins
func QuickBreakOffset(n int) int {
	if n == 2 {
		return QuickBreak2OffsetMinutes
	}
	return QuickBreak1OffsetMinutes
}
