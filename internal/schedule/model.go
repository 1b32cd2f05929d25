package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/breakroster/internal/timeofday"
)

// DateLayout is the calendar-day key used for grouping entries.
const DateLayout = "2006-01-02"

// NoCoverage is the legacy sentinel meaning no covering employee.
const NoCoverage = "none"

type Department string

const (
	DepartmentRBT        Department = "RBT"
	DepartmentOperations Department = "Operations"
	DepartmentBCBA       Department = "BCBA"
	DepartmentFloater    Department = "Floater"
)

// Departments lists every department in display order.
var Departments = []Department{DepartmentRBT, DepartmentOperations, DepartmentBCBA, DepartmentFloater}

// ParseDepartment matches s against the known departments, ignoring case.
func ParseDepartment(s string) (Department, error) {
	for _, d := range Departments {
		if strings.EqualFold(strings.TrimSpace(s), string(d)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown department %q (use RBT, Operations, BCBA or Floater)", s)
}

type Employee struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Department Department `json:"department"`
}

// Validate checks the fields required to save an employee.
func (e Employee) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return errors.New("employee name cannot be empty")
	}
	if _, err := ParseDepartment(string(e.Department)); err != nil {
		return err
	}
	return nil
}

// BreakEntry is one employee's shift on one day. Time fields are "HH:MM"
// strings; an empty string means the field is absent.
type BreakEntry struct {
	ID                   string    `json:"id"`
	EmployeeID           string    `json:"employeeId"`
	Date                 time.Time `json:"date"`
	ShiftStart           string    `json:"shiftStart"`
	ShiftEnd             string    `json:"shiftEnd"`
	Break1Start          string    `json:"break1Start,omitempty"`
	Break1End            string    `json:"break1End,omitempty"`
	Break2Start          string    `json:"break2Start,omitempty"`
	Break2End            string    `json:"break2End,omitempty"`
	Coverage1            string    `json:"coverageEmployeeId,omitempty"`
	Coverage2            string    `json:"coverage2EmployeeId,omitempty"`
	OutsideTherapyStart  string    `json:"outsideTherapyStart,omitempty"`
	OutsideTherapyEnd    string    `json:"outsideTherapyEnd,omitempty"`
	OutsideTherapyReason string    `json:"outsideTherapyReason,omitempty"`
}

// NormalizeCoverage folds the "none" sentinel into the empty string.
func NormalizeCoverage(id string) string {
	id = strings.TrimSpace(id)
	if id == NoCoverage {
		return ""
	}
	return id
}

// Normalize returns a copy with coverage sentinels folded and time fields trimmed.
func (e BreakEntry) Normalize() BreakEntry {
	e.Coverage1 = NormalizeCoverage(e.Coverage1)
	e.Coverage2 = NormalizeCoverage(e.Coverage2)
	for _, f := range e.timeFields() {
		*f.value = strings.TrimSpace(*f.value)
	}
	return e
}

// DayKey returns the entry's calendar day as "YYYY-MM-DD".
func (e BreakEntry) DayKey() string {
	return e.Date.Format(DateLayout)
}

// OnDay reports whether the entry falls on the same calendar day as day.
func (e BreakEntry) OnDay(day time.Time) bool {
	return e.DayKey() == day.Format(DateLayout)
}

// Break1Scheduled is true when both ends of break 1 are present.
func (e BreakEntry) Break1Scheduled() bool {
	return e.Break1Start != "" && e.Break1End != ""
}

// Break2Scheduled is true when both ends of break 2 are present.
func (e BreakEntry) Break2Scheduled() bool {
	return e.Break2Start != "" && e.Break2End != ""
}

// ClearBreak2 drops break 2 and its coverage.
func (e *BreakEntry) ClearBreak2() {
	e.Break2Start = ""
	e.Break2End = ""
	e.Coverage2 = ""
}

type timeField struct {
	name  string
	value *string
}

func (e *BreakEntry) timeFields() []timeField {
	return []timeField{
		{"shiftStart", &e.ShiftStart},
		{"shiftEnd", &e.ShiftEnd},
		{"break1Start", &e.Break1Start},
		{"break1End", &e.Break1End},
		{"break2Start", &e.Break2Start},
		{"break2End", &e.Break2End},
		{"outsideTherapyStart", &e.OutsideTherapyStart},
		{"outsideTherapyEnd", &e.OutsideTherapyEnd},
	}
}

// Validate checks the fields required to save an entry. Every malformed time
// is reported, each wrapped around a *timeofday.ParseError.
func (e BreakEntry) Validate() error {
	var errs []error
	if strings.TrimSpace(e.EmployeeID) == "" {
		errs = append(errs, errors.New("employee is required"))
	}
	if e.Date.IsZero() {
		errs = append(errs, errors.New("date is required"))
	}
	if strings.TrimSpace(e.ShiftStart) == "" || strings.TrimSpace(e.ShiftEnd) == "" {
		errs = append(errs, errors.New("shift start and shift end are required"))
	}
	for _, f := range e.timeFields() {
		if strings.TrimSpace(*f.value) == "" {
			continue
		}
		if _, err := timeofday.Parse(*f.value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f.name, err))
		}
	}
	return errors.Join(errs...)
}
