package backup

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breakroster/internal/schedule"
)

var now = time.Date(2024, 3, 4, 15, 30, 0, 0, time.UTC)

func sample() ([]schedule.Employee, []schedule.BreakEntry) {
	employees := []schedule.Employee{
		{ID: "a", Name: "Avery", Department: schedule.DepartmentRBT},
		{ID: "b", Name: "Blake", Department: schedule.DepartmentRBT},
		{ID: "c", Name: "Casey", Department: schedule.DepartmentBCBA},
	}
	entries := []schedule.BreakEntry{
		{ID: "1", EmployeeID: "a", Date: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
			ShiftStart: "09:00", ShiftEnd: "17:00", Break1Start: "11:00", Break1End: "11:10", Coverage1: "c"},
	}
	return employees, entries
}

func TestGenerate(t *testing.T) {
	employees, entries := sample()
	data := Generate(employees, entries, now)

	assert.Equal(t, "1.0", data.Version)
	assert.Equal(t, now, data.Timestamp)
	assert.Equal(t, Metadata{TotalEmployees: 3, TotalBreakEntries: 1, Departments: []string{"RBT", "BCBA"}}, data.Metadata)
	assert.Equal(t, "employee-break-backup-2024-03-04.json", FileName(now))
}

func TestEncodeDecode(t *testing.T) {
	employees, entries := sample()
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, Generate(employees, entries, now)))

	assert.Contains(t, buf.String(), `"breakEntries"`)
	assert.Contains(t, buf.String(), `"coverageEmployeeId": "c"`)
	assert.Contains(t, buf.String(), `"totalBreakEntries": 1`)

	got, err := Decode(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(employees, got.Employees); diff != "" {
		t.Errorf("employees mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, got.BreakEntries, 1)
	assert.True(t, got.BreakEntries[0].Date.Equal(entries[0].Date))
}

func TestEncodeEmptyUsesArrays(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, Generate(nil, nil, now)))
	assert.Contains(t, buf.String(), `"employees": []`)

	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.Empty(t, got.Employees)
}

func TestDecodeNormalizesEntries(t *testing.T) {
	in := `{"version":"1.0","timestamp":"2024-03-04T10:00:00.000Z","employees":[],
		"breakEntries":[{"id":"1","employeeId":"a","date":"2024-03-04T00:00:00.000Z",
		"shiftStart":"09:00","shiftEnd":"17:00","coverageEmployeeId":"none"}],"metadata":{}}`
	got, err := Decode(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "", got.BreakEntries[0].Coverage1)
}

func TestDecodeRejects(t *testing.T) {
	const entry = `{"id":"1","employeeId":"a","date":"2024-03-04T00:00:00Z","shiftStart":"09:00","shiftEnd":"17:00"}`
	tests := []struct {
		name  string
		input string
		field string
	}{
		{"empty", "  ", "data"},
		{"not an object", `[1,2]`, "data"},
		{"no version", `{"timestamp":"2024-03-04T00:00:00Z","employees":[],"breakEntries":[],"metadata":{}}`, "version"},
		{"no timestamp", `{"version":"1.0","employees":[],"breakEntries":[],"metadata":{}}`, "timestamp"},
		{"employees not array", `{"version":"1.0","timestamp":"2024-03-04T00:00:00Z","employees":{},"breakEntries":[],"metadata":{}}`, "employees"},
		{"missing entries", `{"version":"1.0","timestamp":"2024-03-04T00:00:00Z","employees":[],"metadata":{}}`, "breakEntries"},
		{"null metadata", `{"version":"1.0","timestamp":"2024-03-04T00:00:00Z","employees":[],"breakEntries":[],"metadata":null}`, "metadata"},
		{"wrong version", `{"version":"2.0","timestamp":"2024-03-04T00:00:00Z","employees":[],"breakEntries":[],"metadata":{}}`, "version"},
		{"employee without name", `{"version":"1.0","timestamp":"2024-03-04T00:00:00Z","employees":[{"id":"a","department":"RBT"}],"breakEntries":[],"metadata":{}}`, "employees[0]"},
		{"unknown department", `{"version":"1.0","timestamp":"2024-03-04T00:00:00Z","employees":[{"id":"a","name":"Avery","department":"Sales"}],"breakEntries":[],"metadata":{}}`, "employees[0]"},
		{"malformed break time", `{"version":"1.0","timestamp":"2024-03-04T00:00:00Z","employees":[],"breakEntries":[{"id":"1","employeeId":"a","date":"2024-03-04T00:00:00Z","shiftStart":"09:00","shiftEnd":"17:00","break1Start":"9am","break1End":"10:10"}],"metadata":{}}`, "breakEntries[0]"},
		{"entry without shift end", `{"version":"1.0","timestamp":"2024-03-04T00:00:00Z","employees":[],"breakEntries":[` + entry + `,{"id":"2","employeeId":"a","date":"2024-03-04T00:00:00Z","shiftStart":"09:00"}],"metadata":{}}`, "breakEntries[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}
