// Package export writes break entries as CSV, JSON or XLSX for payroll and
// management review.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/breakroster/internal/schedule"
	"github.com/breakroster/internal/timeofday"
)

// Header is the column order shared by every format.
var Header = []string{
	"Date",
	"Employee",
	"Department",
	"Shift Start",
	"Shift End",
	"Break 1 Start",
	"Break 1 End",
	"Break 1 Coverage",
	"Break 2 Start",
	"Break 2 End",
	"Break 2 Coverage",
	"Outside Therapy Start",
	"Outside Therapy End",
	"Outside Therapy Reason",
	"Total Hours",
}

const unknown = "Unknown"

// FileName returns the download name for an export of day, e.g.
// "employee-breaks-2024-03-04.csv".
func FileName(day time.Time, ext string) string {
	return fmt.Sprintf("employee-breaks-%s.%s", day.Format(schedule.DateLayout), strings.TrimPrefix(ext, "."))
}

// Row is one exported entry with names resolved and times in 12-hour form.
type Row struct {
	Date                 string `json:"date"`
	Employee             string `json:"employee"`
	Department           string `json:"department"`
	ShiftStart           string `json:"shiftStart"`
	ShiftEnd             string `json:"shiftEnd"`
	Break1Start          string `json:"break1Start"`
	Break1End            string `json:"break1End"`
	Break1Coverage       string `json:"break1Coverage"`
	Break2Start          string `json:"break2Start"`
	Break2End            string `json:"break2End"`
	Break2Coverage       string `json:"break2Coverage"`
	OutsideTherapyStart  string `json:"outsideTherapyStart"`
	OutsideTherapyEnd    string `json:"outsideTherapyEnd"`
	OutsideTherapyReason string `json:"outsideTherapyReason"`
	TotalHours           string `json:"totalHours"`
}

func (r Row) cells() []string {
	return []string{
		r.Date, r.Employee, r.Department,
		r.ShiftStart, r.ShiftEnd,
		r.Break1Start, r.Break1End, r.Break1Coverage,
		r.Break2Start, r.Break2End, r.Break2Coverage,
		r.OutsideTherapyStart, r.OutsideTherapyEnd, r.OutsideTherapyReason,
		r.TotalHours,
	}
}

// Rows resolves entries against employees. Unknown employees export as
// "Unknown"; unknown coverage exports blank.
func Rows(entries []schedule.BreakEntry, employees []schedule.Employee) []Row {
	byID := make(map[string]schedule.Employee, len(employees))
	for _, e := range employees {
		byID[e.ID] = e
	}
	name := func(id string) string {
		if e, ok := byID[id]; ok {
			return e.Name
		}
		return ""
	}

	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		e = e.Normalize()
		r := Row{
			Date:                 e.Date.Format("1/2/2006"),
			Employee:             unknown,
			Department:           unknown,
			ShiftStart:           timeofday.Format12h(e.ShiftStart),
			ShiftEnd:             timeofday.Format12h(e.ShiftEnd),
			Break1Start:          timeofday.Format12h(e.Break1Start),
			Break1End:            timeofday.Format12h(e.Break1End),
			Break1Coverage:       name(e.Coverage1),
			Break2Start:          timeofday.Format12h(e.Break2Start),
			Break2End:            timeofday.Format12h(e.Break2End),
			Break2Coverage:       name(e.Coverage2),
			OutsideTherapyStart:  timeofday.Format12h(e.OutsideTherapyStart),
			OutsideTherapyEnd:    timeofday.Format12h(e.OutsideTherapyEnd),
			OutsideTherapyReason: e.OutsideTherapyReason,
			TotalHours:           schedule.NetWorkedHours(e),
		}
		if emp, ok := byID[e.EmployeeID]; ok {
			r.Employee = emp.Name
			r.Department = string(emp.Department)
		}
		rows = append(rows, r)
	}
	return rows
}

// WriteCSV writes the header unquoted and every data cell quoted, one record
// per line.
func WriteCSV(w io.Writer, entries []schedule.BreakEntry, employees []schedule.Employee) error {
	lines := []string{strings.Join(Header, ",")}
	for _, r := range Rows(entries, employees) {
		cells := r.cells()
		for i, c := range cells {
			cells[i] = `"` + strings.ReplaceAll(c, `"`, `""`) + `"`
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}

func WriteJSON(w io.Writer, entries []schedule.BreakEntry, employees []schedule.Employee) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Rows(entries, employees))
}
