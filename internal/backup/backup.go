// Package backup produces and validates full-roster JSON snapshots.
package backup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/breakroster/internal/schedule"
)

// Version is the only snapshot format this package reads and writes.
const Version = "1.0"

type Metadata struct {
	TotalEmployees    int      `json:"totalEmployees"`
	TotalBreakEntries int      `json:"totalBreakEntries"`
	Departments       []string `json:"departments"`
}

type BackupData struct {
	Version      string                `json:"version"`
	Timestamp    time.Time             `json:"timestamp"`
	Employees    []schedule.Employee   `json:"employees"`
	BreakEntries []schedule.BreakEntry `json:"breakEntries"`
	Metadata     Metadata              `json:"metadata"`
}

// ValidationError reports why a snapshot was rejected.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid backup: %s - %s", e.Field, e.Message)
}

// FileName is the download name for a snapshot taken at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("employee-break-backup-%s.json", t.Format(schedule.DateLayout))
}

// Generate snapshots employees and entries at now.
func Generate(employees []schedule.Employee, entries []schedule.BreakEntry, now time.Time) BackupData {
	seen := make(map[string]bool)
	departments := []string{}
	for _, e := range employees {
		d := string(e.Department)
		if !seen[d] {
			seen[d] = true
			departments = append(departments, d)
		}
	}

	if employees == nil {
		employees = []schedule.Employee{}
	}
	if entries == nil {
		entries = []schedule.BreakEntry{}
	}
	return BackupData{
		Version:      Version,
		Timestamp:    now.UTC(),
		Employees:    employees,
		BreakEntries: entries,
		Metadata: Metadata{
			TotalEmployees:    len(employees),
			TotalBreakEntries: len(entries),
			Departments:       departments,
		},
	}
}

func Encode(w io.Writer, data BackupData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// Decode parses and validates a snapshot. Entries come back normalized.
func Decode(r io.Reader) (BackupData, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return BackupData{}, &ValidationError{Field: "data", Message: "backup is empty"}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return BackupData{}, &ValidationError{Field: "data", Message: "not a JSON object"}
	}
	if err := checkPresence(fields); err != nil {
		return BackupData{}, err
	}

	var data BackupData
	if err := json.Unmarshal(raw, &data); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup: %w", err)
	}
	if data.Version != Version {
		return BackupData{}, &ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported backup version %s, expected %s", data.Version, Version),
		}
	}

	for i, e := range data.Employees {
		if e.ID == "" || strings.TrimSpace(e.Name) == "" || e.Department == "" {
			return BackupData{}, &ValidationError{
				Field:   fmt.Sprintf("employees[%d]", i),
				Message: "id, name and department are required",
			}
		}
		if err := e.Validate(); err != nil {
			return BackupData{}, &ValidationError{Field: fmt.Sprintf("employees[%d]", i), Message: err.Error()}
		}
	}
	for i, e := range data.BreakEntries {
		if e.ID == "" || e.EmployeeID == "" || e.Date.IsZero() || e.ShiftStart == "" || e.ShiftEnd == "" {
			return BackupData{}, &ValidationError{
				Field:   fmt.Sprintf("breakEntries[%d]", i),
				Message: "id, employeeId, date, shiftStart and shiftEnd are required",
			}
		}
		e = e.Normalize()
		if err := e.Validate(); err != nil {
			return BackupData{}, &ValidationError{Field: fmt.Sprintf("breakEntries[%d]", i), Message: err.Error()}
		}
		data.BreakEntries[i] = e
	}

	return data, nil
}

func checkPresence(fields map[string]json.RawMessage) error {
	for _, key := range []string{"version", "timestamp"} {
		v, ok := fields[key]
		if !ok || isNull(v) || string(v) == `""` {
			return &ValidationError{Field: key, Message: "is required"}
		}
	}
	for _, key := range []string{"employees", "breakEntries"} {
		v := bytes.TrimSpace(fields[key])
		if len(v) == 0 || v[0] != '[' {
			return &ValidationError{Field: key, Message: "must be an array"}
		}
	}
	if v := bytes.TrimSpace(fields["metadata"]); len(v) == 0 || v[0] != '{' {
		return &ValidationError{Field: "metadata", Message: "must be an object"}
	}
	return nil
}

func isNull(v json.RawMessage) bool {
	return string(bytes.TrimSpace(v)) == "null"
}
