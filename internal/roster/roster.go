// Package roster is the service layer over storage: it validates input,
// assigns ids and runs the schedule engine for day views.
package roster

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/breakroster/internal/alerts"
	"github.com/breakroster/internal/schedule"
	"github.com/breakroster/internal/stats"
	"github.com/breakroster/internal/work"
)

// Store is the persistence the service needs. *storage.Database satisfies it.
type Store interface {
	InsertEmployee(ctx context.Context, e schedule.Employee) error
	UpdateEmployee(ctx context.Context, e schedule.Employee) error
	GetEmployee(ctx context.Context, id string) (schedule.Employee, error)
	ListEmployees(ctx context.Context) ([]schedule.Employee, error)
	DeleteEmployee(ctx context.Context, id string) error

	InsertEntry(ctx context.Context, e schedule.BreakEntry) error
	UpdateEntry(ctx context.Context, e schedule.BreakEntry) error
	GetEntry(ctx context.Context, id string) (schedule.BreakEntry, error)
	DeleteEntry(ctx context.Context, id string) error
	EntriesOnDate(ctx context.Context, day time.Time) ([]schedule.BreakEntry, error)
	EntriesInRange(ctx context.Context, start, end time.Time) ([]schedule.BreakEntry, error)
	EntryFor(ctx context.Context, employeeID string, day time.Time) (schedule.BreakEntry, error)

	LoadNotifications(ctx context.Context) ([]alerts.Notification, error)
	SaveNotifications(ctx context.Context, ns []alerts.Notification) error
}

var ErrNoEmployees = errors.New("no employees selected")

type Service struct {
	store      Store
	log        *zap.Logger
	thresholds alerts.Thresholds
	now        func() time.Time
}

func New(store Store, log *zap.Logger, thresholds alerts.Thresholds) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:      store,
		log:        log,
		thresholds: thresholds,
		now:        time.Now,
	}
}

func (s *Service) AddEmployee(ctx context.Context, name string, dept schedule.Department) (schedule.Employee, error) {
	d, err := schedule.ParseDepartment(string(dept))
	if err != nil {
		return schedule.Employee{}, err
	}
	e := schedule.Employee{ID: uuid.NewString(), Name: strings.TrimSpace(name), Department: d}
	if err := e.Validate(); err != nil {
		return schedule.Employee{}, err
	}
	if err := s.store.InsertEmployee(ctx, e); err != nil {
		return schedule.Employee{}, err
	}
	s.log.Info("employee added", zap.String("employee_id", e.ID), zap.String("department", string(d)))
	return e, nil
}

func (s *Service) UpdateEmployee(ctx context.Context, e schedule.Employee) error {
	e.Name = strings.TrimSpace(e.Name)
	d, err := schedule.ParseDepartment(string(e.Department))
	if err != nil {
		return err
	}
	e.Department = d
	if err := e.Validate(); err != nil {
		return err
	}
	return s.store.UpdateEmployee(ctx, e)
}

// DeleteEmployee removes the employee and the entries that depend on them.
func (s *Service) DeleteEmployee(ctx context.Context, id string) error {
	return s.store.DeleteEmployee(ctx, id)
}

func (s *Service) Employees(ctx context.Context) ([]schedule.Employee, error) {
	return s.store.ListEmployees(ctx)
}

func (s *Service) Employee(ctx context.Context, id string) (schedule.Employee, error) {
	return s.store.GetEmployee(ctx, id)
}

// prepare validates e and folds it into its stored form. Break 2 is dropped
// from shifts too short to carry it.
func (s *Service) prepare(ctx context.Context, e schedule.BreakEntry) (schedule.BreakEntry, error) {
	e = e.Normalize()
	if err := e.Validate(); err != nil {
		return e, err
	}
	if _, err := s.store.GetEmployee(ctx, e.EmployeeID); err != nil {
		return e, err
	}
	if !schedule.EligibleForSecondBreak(schedule.ShiftHours(e.ShiftStart, e.ShiftEnd)) && e.Break2Scheduled() {
		s.log.Debug("dropping second break from short shift", zap.String("entry_id", e.ID))
		e.ClearBreak2()
	}
	return e, nil
}

// AddEntry stores a new entry, assigning an id when e has none.
func (s *Service) AddEntry(ctx context.Context, e schedule.BreakEntry) (schedule.BreakEntry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e, err := s.prepare(ctx, e)
	if err != nil {
		return e, err
	}
	if err := s.store.InsertEntry(ctx, e); err != nil {
		return e, err
	}
	s.log.Info("entry added",
		zap.String("entry_id", e.ID),
		zap.String("employee_id", e.EmployeeID),
		zap.String("date", e.DayKey()))
	return e, nil
}

func (s *Service) UpdateEntry(ctx context.Context, e schedule.BreakEntry) (schedule.BreakEntry, error) {
	e, err := s.prepare(ctx, e)
	if err != nil {
		return e, err
	}
	return e, s.store.UpdateEntry(ctx, e)
}

func (s *Service) DeleteEntry(ctx context.Context, id string) error {
	return s.store.DeleteEntry(ctx, id)
}

func (s *Service) Entry(ctx context.Context, id string) (schedule.BreakEntry, error) {
	return s.store.GetEntry(ctx, id)
}

// CreateWorkSchedule gives each listed employee a default shift on day.
// Employees already scheduled that day are skipped. It returns the entries
// it created.
func (s *Service) CreateWorkSchedule(ctx context.Context, day time.Time, employeeIDs []string) ([]schedule.BreakEntry, error) {
	if len(employeeIDs) == 0 {
		return nil, ErrNoEmployees
	}

	existing, err := s.store.EntriesOnDate(ctx, day)
	if err != nil {
		return nil, err
	}
	scheduled := make(map[string]bool, len(existing))
	for _, e := range existing {
		scheduled[e.EmployeeID] = true
	}

	var created []schedule.BreakEntry
	for _, id := range employeeIDs {
		if scheduled[id] {
			s.log.Debug("employee already scheduled", zap.String("employee_id", id), zap.String("date", day.Format(schedule.DateLayout)))
			continue
		}
		scheduled[id] = true

		e, err := s.AddEntry(ctx, schedule.BreakEntry{
			EmployeeID: id,
			Date:       day,
			ShiftStart: work.DefaultShiftStart,
			ShiftEnd:   work.DefaultShiftEnd,
		})
		if err != nil {
			return created, fmt.Errorf("schedule %s: %w", id, err)
		}
		created = append(created, e)
	}
	return created, nil
}

// QuickAddBreak fills break 1 or 2 of the employee's entry on day with the
// default placement.
func (s *Service) QuickAddBreak(ctx context.Context, employeeID string, day time.Time, which int) (schedule.BreakEntry, error) {
	e, err := s.store.EntryFor(ctx, employeeID, day)
	if err != nil {
		return e, err
	}
	e, err = schedule.QuickBreak(e, which)
	if err != nil {
		return e, err
	}
	if err := s.store.UpdateEntry(ctx, e); err != nil {
		return e, err
	}
	s.log.Info("quick break added", zap.String("entry_id", e.ID), zap.Int("break", which))
	return e, nil
}

func (s *Service) Entries(ctx context.Context, day time.Time) ([]schedule.BreakEntry, error) {
	return s.store.EntriesOnDate(ctx, day)
}

func (s *Service) DayStats(ctx context.Context, day time.Time) (stats.DetailedStats, error) {
	employees, err := s.store.ListEmployees(ctx)
	if err != nil {
		return stats.DetailedStats{}, err
	}
	entries, err := s.store.EntriesOnDate(ctx, day)
	if err != nil {
		return stats.DetailedStats{}, err
	}
	return stats.Compute(entries, employees), nil
}

// Working returns the day's roster narrowed by f.
func (s *Service) Working(ctx context.Context, day time.Time, f stats.Filter) ([]stats.WorkingEmployee, error) {
	employees, err := s.store.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := s.store.EntriesOnDate(ctx, day)
	if err != nil {
		return nil, err
	}
	return f.Apply(stats.Working(entries, employees, day)), nil
}

type DaySummary struct {
	Date  time.Time
	Stats stats.DetailedStats
}

// Week returns one summary per day of the Monday-to-Sunday week holding day.
func (s *Service) Week(ctx context.Context, day time.Time) ([]DaySummary, error) {
	start := weekStart(day)
	end := start.AddDate(0, 0, 6)

	employees, err := s.store.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := s.store.EntriesInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	week := make([]DaySummary, 0, 7)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		week = append(week, DaySummary{Date: d, Stats: stats.ForDate(entries, employees, d)})
	}
	return week, nil
}

func weekStart(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return t.AddDate(0, 0, -weekday+1)
}
