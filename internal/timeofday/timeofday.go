// Package timeofday converts "HH:MM" clock strings to minutes since midnight
// and back.
package timeofday

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay is the length of the clock face; durations wrap at this value.
const MinutesPerDay = 24 * 60

// ErrEmpty is returned by Parse for an absent time field.
var ErrEmpty = errors.New("empty time")

// ParseError reports a time string that is present but not "HH:MM".
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid time %q, expected HH:MM", e.Input)
}

// Parse returns the minutes since midnight for s, in [0, MinutesPerDay).
func Parse(s string) (int, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return 0, ErrEmpty
	}
	parts := strings.Split(t, ":")
	if len(parts) != 2 || len(parts[1]) != 2 || len(parts[0]) == 0 || len(parts[0]) > 2 ||
		!digits(parts[0]) || !digits(parts[1]) {
		return 0, &ParseError{Input: s}
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, &ParseError{Input: s}
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, &ParseError{Input: s}
	}
	return h*60 + m, nil
}

func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Minutes is the lenient form of Parse: empty or malformed input yields 0.
func Minutes(s string) int {
	m, err := Parse(s)
	if err != nil {
		return 0
	}
	return m
}

// Duration returns the minutes from start to end, wrapping past midnight when
// end is earlier than start. Either side absent or malformed gives 0.
func Duration(start, end string) int {
	s, err := Parse(start)
	if err != nil {
		return 0
	}
	e, err := Parse(end)
	if err != nil {
		return 0
	}
	return Between(s, e)
}

// Between is Duration for values already in minutes.
func Between(start, end int) int {
	if end >= start {
		return end - start
	}
	return MinutesPerDay - start + end
}

// Format renders minutes as "HH:MM", wrapping modulo one day.
func Format(min int) string {
	min %= MinutesPerDay
	if min < 0 {
		min += MinutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// Format12h converts "HH:MM" to "H:MM AM/PM". Empty input gives "" and
// anything unparseable is returned unchanged.
func Format12h(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	m, err := Parse(s)
	if err != nil {
		return s
	}
	h := m / 60
	ampm := "AM"
	if h >= 12 {
		ampm = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, m%60, ampm)
}
