package roster

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/breakroster/internal/alerts"
	"github.com/breakroster/internal/schedule"
	"github.com/breakroster/internal/stats"
	"github.com/breakroster/internal/storage"
)

var (
	ctx = context.Background()
	day = time.Date(2024, 3, 6, 0, 0, 0, 0, time.Local) // Wednesday
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := storage.New(filepath.Join(t.TempDir(), "roster.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := New(db, zap.NewNop(), alerts.DefaultThresholds())
	svc.now = func() time.Time { return time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestGetWeekStart(t *testing.T) {
	// Monday Jan 1, 2024
	monday := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input time.Time
	}{
		{"Monday", monday},
		{"Tuesday", monday.AddDate(0, 0, 1)},
		{"Wednesday", monday.AddDate(0, 0, 2)},
		{"Saturday", monday.AddDate(0, 0, 5)},
		{"Sunday", monday.AddDate(0, 0, 6)},
	}

	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := weekStart(tt.input)
			if !result.Equal(want) {
				t.Errorf("weekStart(%v) = %v, want %v", tt.input, result, want)
			}
		})
	}
}

func TestAddEmployee(t *testing.T) {
	svc := newTestService(t)

	e, err := svc.AddEmployee(ctx, "  Avery ", "rbt")
	require.NoError(t, err)
	assert.Equal(t, "Avery", e.Name)
	assert.Equal(t, schedule.DepartmentRBT, e.Department)
	assert.Len(t, e.ID, 36)

	_, err = svc.AddEmployee(ctx, "", schedule.DepartmentRBT)
	assert.Error(t, err)
	_, err = svc.AddEmployee(ctx, "Blake", "Kitchen")
	assert.Error(t, err)

	e.Department = "bcba"
	require.NoError(t, svc.UpdateEmployee(ctx, e))
	got, err := svc.Employee(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, schedule.DepartmentBCBA, got.Department)
}

func TestAddEntryValidation(t *testing.T) {
	svc := newTestService(t)
	emp, err := svc.AddEmployee(ctx, "Avery", schedule.DepartmentRBT)
	require.NoError(t, err)

	_, err = svc.AddEntry(ctx, schedule.BreakEntry{EmployeeID: emp.ID, Date: day, ShiftStart: "9am", ShiftEnd: "17:00"})
	assert.Error(t, err)

	_, err = svc.AddEntry(ctx, schedule.BreakEntry{EmployeeID: "ghost", Date: day, ShiftStart: "09:00", ShiftEnd: "17:00"})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	e, err := svc.AddEntry(ctx, schedule.BreakEntry{
		EmployeeID: emp.ID, Date: day, ShiftStart: "09:00", ShiftEnd: "14:00",
		Break2Start: "12:00", Break2End: "12:10", Coverage2: "none",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.Break2Scheduled(), "short shifts do not keep a second break")
}

func TestCreateWorkSchedule(t *testing.T) {
	svc := newTestService(t)
	a, _ := svc.AddEmployee(ctx, "Avery", schedule.DepartmentRBT)
	b, _ := svc.AddEmployee(ctx, "Blake", schedule.DepartmentFloater)

	_, err := svc.CreateWorkSchedule(ctx, day, nil)
	assert.ErrorIs(t, err, ErrNoEmployees)

	created, err := svc.CreateWorkSchedule(ctx, day, []string{a.ID})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "09:00", created[0].ShiftStart)
	assert.Equal(t, "17:00", created[0].ShiftEnd)

	created, err = svc.CreateWorkSchedule(ctx, day, []string{a.ID, b.ID, b.ID})
	require.NoError(t, err)
	require.Len(t, created, 1, "already scheduled employees are skipped")
	assert.Equal(t, b.ID, created[0].EmployeeID)

	entries, err := svc.Entries(ctx, day)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestQuickAddBreak(t *testing.T) {
	svc := newTestService(t)
	a, _ := svc.AddEmployee(ctx, "Avery", schedule.DepartmentRBT)
	b, _ := svc.AddEmployee(ctx, "Blake", schedule.DepartmentRBT)

	_, err := svc.AddEntry(ctx, schedule.BreakEntry{EmployeeID: a.ID, Date: day, ShiftStart: "22:30", ShiftEnd: "07:00"})
	require.NoError(t, err)
	_, err = svc.AddEntry(ctx, schedule.BreakEntry{EmployeeID: b.ID, Date: day, ShiftStart: "09:00", ShiftEnd: "13:00"})
	require.NoError(t, err)

	e, err := svc.QuickAddBreak(ctx, a.ID, day, 2)
	require.NoError(t, err)
	assert.Equal(t, "02:30", e.Break2Start, "wraps past midnight")
	assert.Equal(t, "02:40", e.Break2End)

	e, err = svc.QuickAddBreak(ctx, a.ID, day, 1)
	require.NoError(t, err)
	assert.Equal(t, "00:30", e.Break1Start)

	stored, err := svc.Entry(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "00:30", stored.Break1Start)
	assert.Equal(t, "02:30", stored.Break2Start)

	_, err = svc.QuickAddBreak(ctx, b.ID, day, 2)
	assert.ErrorIs(t, err, schedule.ErrNotEligible)

	_, err = svc.QuickAddBreak(ctx, b.ID, day.AddDate(0, 0, 1), 1)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDayStatsAndWorking(t *testing.T) {
	svc := newTestService(t)
	a, _ := svc.AddEmployee(ctx, "Avery", schedule.DepartmentRBT)
	b, _ := svc.AddEmployee(ctx, "Blake", schedule.DepartmentBCBA)

	_, err := svc.AddEntry(ctx, schedule.BreakEntry{
		EmployeeID: a.ID, Date: day, ShiftStart: "09:00", ShiftEnd: "15:00",
		Break1Start: "11:00", Break1End: "11:10", Coverage1: b.ID,
	})
	require.NoError(t, err)
	_, err = svc.AddEntry(ctx, schedule.BreakEntry{EmployeeID: b.ID, Date: day, ShiftStart: "08:00", ShiftEnd: "17:00"})
	require.NoError(t, err)

	st, err := svc.DayStats(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, 2, st.TotalEmployees)
	assert.Equal(t, 1, st.MissingBreaks)
	assert.Equal(t, 1, st.OvertimeAlerts)
	assert.Equal(t, 50.0, st.BreakComplianceRate)

	rows, err := svc.Working(ctx, day, stats.Filter{MissingBreaksOnly: true})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Blake", rows[0].Employee.Name)

	week, err := svc.Week(ctx, day)
	require.NoError(t, err)
	require.Len(t, week, 7)
	assert.Equal(t, time.Monday, week[0].Date.Weekday())
	assert.Equal(t, 2, week[2].Stats.TotalEmployees)
	assert.Equal(t, 0, week[3].Stats.TotalEmployees)
}

func TestCheckAlerts(t *testing.T) {
	svc := newTestService(t)
	for _, name := range []string{"A", "B", "C"} {
		e, err := svc.AddEmployee(ctx, name, schedule.DepartmentRBT)
		require.NoError(t, err)
		_, err = svc.AddEntry(ctx, schedule.BreakEntry{EmployeeID: e.ID, Date: day, ShiftStart: "09:00", ShiftEnd: "17:00"})
		require.NoError(t, err)
	}

	added, err := svc.CheckAlerts(ctx, day)
	require.NoError(t, err)
	titles := make([]string, 0, len(added))
	for _, n := range added {
		titles = append(titles, n.Title)
	}
	assert.ElementsMatch(t, []string{alerts.TitleBreakCompliance, alerts.TitleMissingBreaks}, titles)

	again, err := svc.CheckAlerts(ctx, day)
	require.NoError(t, err)
	assert.Empty(t, again, "same breaches are not reported twice")

	ok, err := svc.AcknowledgeNotification(ctx, added[0].ID)
	require.NoError(t, err)
	assert.True(t, ok)

	all, err := svc.Notifications(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.True(t, all[0].Acknowledged)

	active, err := svc.UnacknowledgedNotifications(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, all[1].ID, active[0].ID)

	require.NoError(t, svc.ClearNotifications(ctx))
	all, err = svc.Notifications(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestDeleteEmployeeCascades(t *testing.T) {
	svc := newTestService(t)
	a, _ := svc.AddEmployee(ctx, "Avery", schedule.DepartmentRBT)
	_, err := svc.CreateWorkSchedule(ctx, day, []string{a.ID})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteEmployee(ctx, a.ID))
	entries, err := svc.Entries(ctx, day)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
