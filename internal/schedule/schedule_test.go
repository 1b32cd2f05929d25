package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/breakroster/internal/timeofday"
)

func entry(shiftStart, shiftEnd string) BreakEntry {
	return BreakEntry{
		ID:         "e1",
		EmployeeID: "emp1",
		Date:       time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		ShiftStart: shiftStart,
		ShiftEnd:   shiftEnd,
	}
}

func TestShiftHours(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		expected   float64
	}{
		{"day shift", "09:00", "17:00", 8.0},
		{"half hour", "09:00", "15:30", 6.5},
		{"overnight", "22:00", "06:00", 8.0},
		{"missing end", "09:00", "", 0},
		{"missing start", "", "17:00", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ShiftHours(tt.start, tt.end)
			if result != tt.expected {
				t.Errorf("ShiftHours(%q, %q) = %f, want %f", tt.start, tt.end, result, tt.expected)
			}
		})
	}
}

func TestFormatShiftHours(t *testing.T) {
	tests := []struct {
		hours    float64
		expected string
	}{
		{8.0, "8.00 hrs"},
		{6.5, "6.30 hrs"},
		{7.25, "7.15 hrs"},
		{0, "0.00 hrs"},
		{7.9999, "8.00 hrs"},
		{float64(485) / 60, "8.05 hrs"},
	}

	for _, tt := range tests {
		if got := FormatShiftHours(tt.hours); got != tt.expected {
			t.Errorf("FormatShiftHours(%f) = %q, want %q", tt.hours, got, tt.expected)
		}
	}
}

func TestNetWorkedHours(t *testing.T) {
	tests := []struct {
		name     string
		entry    BreakEntry
		expected string
	}{
		{"no breaks minutes stay minutes", entry("09:00", "17:05"), "8.05"},
		{"missing shift", entry("", "17:00"), "0.00"},
		{
			"breaks and outside therapy subtracted",
			BreakEntry{
				ShiftStart: "09:00", ShiftEnd: "17:00",
				Break1Start: "11:00", Break1End: "11:10",
				Break2Start: "13:00", Break2End: "13:30",
				OutsideTherapyStart: "15:00", OutsideTherapyEnd: "15:15",
			},
			"7.05",
		},
		{
			"half scheduled break ignored",
			BreakEntry{ShiftStart: "09:00", ShiftEnd: "12:00", Break1Start: "10:00"},
			"3.00",
		},
		{
			"overnight shift",
			BreakEntry{ShiftStart: "22:00", ShiftEnd: "05:30", Break1Start: "23:55", Break1End: "00:05"},
			"7.20",
		},
		{
			"breaks longer than shift",
			BreakEntry{ShiftStart: "09:00", ShiftEnd: "09:10", Break1Start: "09:00", Break1End: "09:15"},
			"-0.05",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NetWorkedHours(tt.entry); got != tt.expected {
				t.Errorf("NetWorkedHours() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestFormatOutsideTherapy(t *testing.T) {
	e := BreakEntry{OutsideTherapyStart: "13:00", OutsideTherapyEnd: "13:45", OutsideTherapyReason: "Parent meeting"}
	if got := FormatOutsideTherapy(e); got != "1:00 PM - 1:45 PM (Parent meeting)" {
		t.Errorf("FormatOutsideTherapy() = %q", got)
	}
	e.OutsideTherapyReason = ""
	if got := FormatOutsideTherapy(e); got != "1:00 PM - 1:45 PM" {
		t.Errorf("FormatOutsideTherapy() without reason = %q", got)
	}
	e.OutsideTherapyEnd = ""
	if got := FormatOutsideTherapy(e); got != "" {
		t.Errorf("FormatOutsideTherapy() with missing end = %q, want empty", got)
	}
}

func TestGetBreakStatus(t *testing.T) {
	withBreak1 := func(e BreakEntry) BreakEntry {
		e.Break1Start, e.Break1End = "11:00", "11:10"
		return e
	}
	withBreak2 := func(e BreakEntry) BreakEntry {
		e.Break2Start, e.Break2End = "14:00", "14:10"
		return e
	}

	tests := []struct {
		name     string
		entry    BreakEntry
		expected BreakStatus
	}{
		{"no break 1", entry("09:00", "17:00"), NoBreaks},
		{"no break 1 but break 2", withBreak2(entry("09:00", "17:00")), NoBreaks},
		{"8h break 1 only", withBreak1(entry("09:00", "17:00")), PartialBreaks},
		{"8h both breaks", withBreak2(withBreak1(entry("09:00", "17:00"))), AllBreaks},
		{"4h break 1", withBreak1(entry("09:00", "13:00")), Break1Only},
		{"exactly 6.5h", withBreak1(entry("09:00", "15:30")), PartialBreaks},
		{"6h29m", withBreak1(entry("09:00", "15:29")), Break1Only},
		{"ineligible with break 2", withBreak2(withBreak1(entry("09:00", "13:00"))), Break1Only},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetBreakStatus(tt.entry); got != tt.expected {
				t.Errorf("GetBreakStatus() = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestGetCoverageStatus(t *testing.T) {
	base := entry("09:00", "17:00")

	tests := []struct {
		name     string
		mutate   func(*BreakEntry)
		expected CoverageStatus
	}{
		{"no breaks", func(e *BreakEntry) {}, NoCoverageNeeded},
		{"coverage without breaks", func(e *BreakEntry) { e.Coverage1 = "emp2" }, NoCoverageNeeded},
		{"break 1 with none sentinel", func(e *BreakEntry) {
			e.Break1Start, e.Break1End, e.Coverage1 = "11:00", "11:10", "none"
		}, MissingCoverage},
		{"break 1 empty coverage", func(e *BreakEntry) {
			e.Break1Start, e.Break1End = "11:00", "11:10"
		}, MissingCoverage},
		{"break 1 covered break 2 missing", func(e *BreakEntry) {
			e.Break1Start, e.Break1End, e.Coverage1 = "11:00", "11:10", "emp2"
			e.Break2Start, e.Break2End, e.Coverage2 = "14:00", "14:10", "none"
		}, MissingCoverage},
		{"only break 2 uncovered", func(e *BreakEntry) {
			e.Break2Start, e.Break2End = "14:00", "14:10"
		}, MissingCoverage},
		{"both covered", func(e *BreakEntry) {
			e.Break1Start, e.Break1End, e.Coverage1 = "11:00", "11:10", "emp2"
			e.Break2Start, e.Break2End, e.Coverage2 = "14:00", "14:10", "emp3"
		}, FullCoverage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := base
			tt.mutate(&e)
			if got := GetCoverageStatus(e); got != tt.expected {
				t.Errorf("GetCoverageStatus() = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestBreakStatusBucket(t *testing.T) {
	tests := []struct {
		status   BreakStatus
		expected Bucket
	}{
		{NoBreaks, BucketMissing},
		{PartialBreaks, BucketPartial},
		{AllBreaks, BucketComplete},
		{Break1Only, BucketComplete},
	}
	for _, tt := range tests {
		if got := tt.status.Bucket(); got != tt.expected {
			t.Errorf("%s.Bucket() = %s, want %s", tt.status, got, tt.expected)
		}
	}
}

func TestAnalyzeCounts(t *testing.T) {
	e := entry("08:00", "17:00")
	e.Break1Start, e.Break1End, e.Coverage1 = "10:00", "10:10", "none"
	e.Break2Start, e.Break2End, e.Coverage2 = "14:00", "14:10", "emp2"

	a := Analyze(e)
	if a.BreaksScheduled != 2 {
		t.Errorf("BreaksScheduled = %d, want 2", a.BreaksScheduled)
	}
	if a.CoverageAssigned != 1 {
		t.Errorf("CoverageAssigned = %d, want 1", a.CoverageAssigned)
	}
	if !a.Overtime {
		t.Error("9 hour shift should be overtime")
	}
	if !a.Break1Uncovered || a.Break2Uncovered {
		t.Errorf("uncovered flags = %v/%v, want true/false", a.Break1Uncovered, a.Break2Uncovered)
	}
	if a.NetMinutes != 9*60-20 {
		t.Errorf("NetMinutes = %d, want %d", a.NetMinutes, 9*60-20)
	}
}

func TestNormalize(t *testing.T) {
	e := BreakEntry{Coverage1: "none", Coverage2: " emp2 ", ShiftStart: " 09:00"}
	n := e.Normalize()
	if n.Coverage1 != "" || n.Coverage2 != "emp2" || n.ShiftStart != "09:00" {
		t.Errorf("Normalize() = %+v", n)
	}
	if e.Coverage1 != "none" {
		t.Error("Normalize should not modify the receiver")
	}
}

func TestValidate(t *testing.T) {
	good := entry("09:00", "17:00")
	if err := good.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}

	bad := entry("9am", "17:00")
	bad.Break1Start = "11:75"
	err := bad.Validate()
	var pe *timeofday.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Validate() error = %v, want a *timeofday.ParseError", err)
	}

	missing := BreakEntry{}
	if err := missing.Validate(); err == nil {
		t.Error("Validate() should reject an empty entry")
	}
}

func TestEmployeeValidate(t *testing.T) {
	if err := (Employee{Name: "Ana", Department: DepartmentBCBA}).Validate(); err != nil {
		t.Errorf("valid employee rejected: %v", err)
	}
	if err := (Employee{Name: "  ", Department: DepartmentBCBA}).Validate(); err == nil {
		t.Error("blank name accepted")
	}
	if err := (Employee{Name: "Ana", Department: "Sales"}).Validate(); err == nil {
		t.Error("unknown department accepted")
	}
}

func TestParseDepartment(t *testing.T) {
	d, err := ParseDepartment("operations")
	if err != nil || d != DepartmentOperations {
		t.Errorf("ParseDepartment(operations) = %q, %v", d, err)
	}
	if _, err := ParseDepartment("HR"); err == nil {
		t.Error("ParseDepartment(HR) should fail")
	}
}

func TestQuickBreak(t *testing.T) {
	e, err := QuickBreak(entry("09:00", "17:00"), 1)
	if err != nil {
		t.Fatalf("QuickBreak(1) error: %v", err)
	}
	if e.Break1Start != "11:00" || e.Break1End != "11:10" {
		t.Errorf("break 1 = %s-%s, want 11:00-11:10", e.Break1Start, e.Break1End)
	}

	e, err = QuickBreak(e, 2)
	if err != nil {
		t.Fatalf("QuickBreak(2) error: %v", err)
	}
	if e.Break2Start != "13:00" || e.Break2End != "13:10" {
		t.Errorf("break 2 = %s-%s, want 13:00-13:10", e.Break2Start, e.Break2End)
	}

	late, err := QuickBreak(entry("22:30", "06:30"), 1)
	if err != nil {
		t.Fatalf("QuickBreak overnight error: %v", err)
	}
	if late.Break1Start != "00:30" || late.Break1End != "00:40" {
		t.Errorf("overnight break 1 = %s-%s, want 00:30-00:40", late.Break1Start, late.Break1End)
	}

	if _, err := QuickBreak(entry("09:00", "13:00"), 2); !errors.Is(err, ErrNotEligible) {
		t.Errorf("QuickBreak(2) on short shift error = %v, want ErrNotEligible", err)
	}
	if _, err := QuickBreak(entry("", "13:00"), 1); err == nil {
		t.Error("QuickBreak without shift start should fail")
	}
}
