package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/breakroster/internal/schedule"
	"github.com/breakroster/internal/stats"
)

const (
	entriesSheet = "Break Entries"
	statsSheet   = "Daily Stats"
)

var statsHeader = []string{
	"Date",
	"Employees",
	"Missing Breaks",
	"Coverage Issues",
	"Overtime",
	"Breaks Scheduled",
	"Break Compliance %",
	"Coverage Compliance %",
	"Grade",
}

var entryColumnWidths = []float64{12, 22, 12, 11, 11, 12, 12, 20, 12, 12, 20, 14, 14, 28, 11}

// WriteXLSX writes a workbook with the entry rows and a per-day stats sheet.
func WriteXLSX(w io.Writer, entries []schedule.BreakEntry, employees []schedule.Employee) error {
	f := excelize.NewFile()
	defer f.Close()

	for _, name := range []string{entriesSheet, statsSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet: %w", err)
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to delete default sheet: %w", err)
	}
	// Deleting the default sheet shifts indexes, so look the entries sheet up again.
	index, err := f.GetSheetIndex(entriesSheet)
	if err != nil {
		return fmt.Errorf("failed to find sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeSheet(f, entriesSheet, Header, headerStyle, entryRows(entries, employees)); err != nil {
		return err
	}
	for i, width := range entryColumnWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(entriesSheet, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}
	if err := writeSheet(f, statsSheet, statsHeader, headerStyle, statsRows(entries, employees)); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func entryRows(entries []schedule.BreakEntry, employees []schedule.Employee) [][]any {
	var out [][]any
	for _, r := range Rows(entries, employees) {
		cells := r.cells()
		row := make([]any, len(cells))
		for i, c := range cells {
			row[i] = c
		}
		out = append(out, row)
	}
	return out
}

// statsRows rolls entries up per calendar day, oldest first.
func statsRows(entries []schedule.BreakEntry, employees []schedule.Employee) [][]any {
	byDay := make(map[string][]schedule.BreakEntry)
	for _, e := range entries {
		byDay[e.DayKey()] = append(byDay[e.DayKey()], e)
	}
	days := make([]string, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Strings(days)

	var out [][]any
	for _, d := range days {
		s := stats.Compute(byDay[d], employees)
		out = append(out, []any{
			d,
			s.TotalEmployees,
			s.MissingBreaks,
			s.CoverageIssues,
			s.OvertimeAlerts,
			s.TotalBreaksScheduled,
			round2(s.BreakComplianceRate),
			round2(s.CoverageComplianceRate),
			string(stats.Grade(s.BreakComplianceRate)),
		})
	}
	return out
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}

func writeSheet(f *excelize.File, sheet string, header []string, headerStyle int, rows [][]any) error {
	for col, h := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to set header style: %w", err)
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
