package archive

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/breakroster/internal/schedule"
	"github.com/breakroster/internal/stats"
	"github.com/breakroster/internal/timeofday"
)

// ErrNoEntries is returned when a month holds nothing to archive.
var ErrNoEntries = errors.New("no entries found")

// Store is the storage the archiver reads from and cleans.
type Store interface {
	ListEmployees(ctx context.Context) ([]schedule.Employee, error)
	EntriesInRange(ctx context.Context, start, end time.Time) ([]schedule.BreakEntry, error)
	DeleteEntriesInRange(ctx context.Context, start, end time.Time) (int64, error)
	OldestEntryDate(ctx context.Context) (time.Time, bool, error)
}

// Archiver handles monthly data archival to markdown
type Archiver struct {
	db          Store
	historyPath string
	log         *zap.Logger
	now         func() time.Time
}

// New creates a new Archiver
func New(db Store, historyPath string, log *zap.Logger) *Archiver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Archiver{
		db:          db,
		historyPath: historyPath,
		log:         log,
		now:         time.Now,
	}
}

// MonthSummary contains archived month data
type MonthSummary struct {
	Month          time.Time
	EntryCount     int
	DaysScheduled  int
	TotalShiftHrs  float64
	MissingBreaks  int
	CoverageIssues int
	OvertimeAlerts int
	Days           []DayRecord
	Entries        []EntryRecord
}

// DayRecord is one day's rollup.
type DayRecord struct {
	Date  string
	Stats stats.DetailedStats
}

// EntryRecord is a simplified entry for archive
type EntryRecord struct {
	Date     string
	Employee string
	Shift    string
	Break1   string
	Break2   string
	NetHours string
	Status   string
	Coverage string
}

func monthBounds(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	return start, start.AddDate(0, 1, -1)
}

func fileName(year int, month time.Month) string {
	return fmt.Sprintf("%d-%02d.md", year, month)
}

// ArchiveMonth exports a month's entries to markdown and optionally removes
// them from the database.
func (a *Archiver) ArchiveMonth(ctx context.Context, year int, month time.Month, cleanDB bool) error {
	start, end := monthBounds(year, month)

	entries, err := a.db.EntriesInRange(ctx, start, end)
	if err != nil {
		return fmt.Errorf("failed to get entries: %w", err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("%w for %s %d", ErrNoEntries, month, year)
	}
	employees, err := a.db.ListEmployees(ctx)
	if err != nil {
		return fmt.Errorf("failed to get employees: %w", err)
	}

	markdown := a.generateMarkdown(buildSummary(start, entries, employees))

	if err := os.MkdirAll(a.historyPath, 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}
	filePath := filepath.Join(a.historyPath, fileName(year, month))
	if err := os.WriteFile(filePath, []byte(markdown), 0644); err != nil {
		return fmt.Errorf("failed to write archive: %w", err)
	}
	a.log.Info("month archived", zap.String("file", filePath), zap.Int("entries", len(entries)))

	if cleanDB {
		n, err := a.db.DeleteEntriesInRange(ctx, start, end)
		if err != nil {
			return fmt.Errorf("failed to clean database: %w", err)
		}
		a.log.Info("archived entries removed", zap.Int64("entries", n))
	}

	return nil
}

func buildSummary(monthStart time.Time, entries []schedule.BreakEntry, employees []schedule.Employee) *MonthSummary {
	summary := &MonthSummary{
		Month:      monthStart,
		EntryCount: len(entries),
		Entries:    make([]EntryRecord, 0, len(entries)),
	}

	names := make(map[string]string, len(employees))
	for _, e := range employees {
		names[e.ID] = e.Name
	}
	byDay := make(map[string][]schedule.BreakEntry)

	for _, e := range entries {
		e = e.Normalize()
		byDay[e.DayKey()] = append(byDay[e.DayKey()], e)

		a := schedule.Analyze(e)
		name, ok := names[e.EmployeeID]
		if !ok {
			name = "Unknown"
		}
		summary.Entries = append(summary.Entries, EntryRecord{
			Date:     e.DayKey(),
			Employee: name,
			Shift:    span(e.ShiftStart, e.ShiftEnd),
			Break1:   span(e.Break1Start, e.Break1End),
			Break2:   span(e.Break2Start, e.Break2End),
			NetHours: schedule.NetWorkedHours(e),
			Status:   a.BreakStatus.Label(),
			Coverage: a.CoverageStatus.Label(),
		})
	}

	days := make([]string, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Strings(days)

	for _, d := range days {
		s := stats.Compute(byDay[d], employees)
		summary.TotalShiftHrs += s.TotalShiftHours
		summary.MissingBreaks += s.MissingBreaks
		summary.CoverageIssues += s.CoverageIssues
		summary.OvertimeAlerts += s.OvertimeAlerts
		summary.Days = append(summary.Days, DayRecord{Date: d, Stats: s})
	}
	summary.DaysScheduled = len(days)
	return summary
}

// truncate shortens s to at most n runes, ending in "..." when cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func span(start, end string) string {
	if start == "" || end == "" {
		return "-"
	}
	return timeofday.Format12h(start) + " - " + timeofday.Format12h(end)
}

func (a *Archiver) generateMarkdown(summary *MonthSummary) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s\n\n", summary.Month.Format("January 2006")))

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Entries | %d |\n", summary.EntryCount))
	sb.WriteString(fmt.Sprintf("| Days Scheduled | %d |\n", summary.DaysScheduled))
	sb.WriteString(fmt.Sprintf("| Total Shift Hours | %.2f |\n", summary.TotalShiftHrs))
	sb.WriteString(fmt.Sprintf("| Missing Breaks | %d |\n", summary.MissingBreaks))
	sb.WriteString(fmt.Sprintf("| Coverage Issues | %d |\n", summary.CoverageIssues))
	sb.WriteString(fmt.Sprintf("| Overtime Alerts | %d |\n", summary.OvertimeAlerts))
	sb.WriteString("\n")

	sb.WriteString("## Daily Compliance\n\n")
	sb.WriteString("| Date | Employees | Break % | Coverage % | Missing | Overtime | Grade |\n")
	sb.WriteString("|------|-----------|---------|------------|---------|----------|-------|\n")
	for _, d := range summary.Days {
		s := d.Stats
		sb.WriteString(fmt.Sprintf("| %s | %d | %.1f | %.1f | %d | %d | %s |\n",
			d.Date, s.TotalEmployees, s.BreakComplianceRate, s.CoverageComplianceRate,
			s.MissingBreaks, s.OvertimeAlerts, stats.Grade(s.BreakComplianceRate)))
	}
	sb.WriteString("\n")

	sb.WriteString("## Entries\n\n")
	sb.WriteString("| Date | Employee | Shift | Break 1 | Break 2 | Net | Breaks | Coverage |\n")
	sb.WriteString("|------|----------|-------|---------|---------|-----|--------|----------|\n")
	for _, e := range summary.Entries {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			e.Date, truncate(e.Employee, 30), e.Shift, e.Break1, e.Break2, e.NetHours, e.Status, e.Coverage))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("---\n*Archived: %s*\n", a.now().Format("2006-01-02 15:04")))

	return sb.String()
}

// AutoArchivePastMonths archives and cleans every complete month before the
// current one that has not been archived yet.
func (a *Archiver) AutoArchivePastMonths(ctx context.Context) ([]string, error) {
	now := a.now()
	currentMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)

	oldest, ok, err := a.db.OldestEntryDate(ctx)
	if err != nil || !ok {
		return nil, err
	}

	var archived []string
	for monthStart := time.Date(oldest.Year(), oldest.Month(), 1, 0, 0, 0, 0, time.Local); monthStart.Before(currentMonth); monthStart = monthStart.AddDate(0, 1, 0) {
		name := fileName(monthStart.Year(), monthStart.Month())
		if _, err := os.Stat(filepath.Join(a.historyPath, name)); err == nil {
			continue
		}

		err := a.ArchiveMonth(ctx, monthStart.Year(), monthStart.Month(), true)
		if errors.Is(err, ErrNoEntries) {
			continue
		}
		if err != nil {
			return archived, err
		}
		archived = append(archived, name)
	}

	return archived, nil
}

// ListArchives returns list of archived months
func (a *Archiver) ListArchives() ([]string, error) {
	entries, err := os.ReadDir(a.historyPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var archives []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".md") {
			archives = append(archives, e.Name())
		}
	}

	sort.Strings(archives)
	return archives, nil
}

// ReadArchive reads a specific month's archive
func (a *Archiver) ReadArchive(year int, month time.Month) (string, error) {
	name := fileName(year, month)
	data, err := os.ReadFile(filepath.Join(a.historyPath, name))
	if err != nil {
		return "", fmt.Errorf("archive not found: %s", name)
	}
	return string(data), nil
}

// History returns the summary rows of the last monthsBack archives.
func (a *Archiver) History(monthsBack int) (string, error) {
	archives, err := a.ListArchives()
	if err != nil || len(archives) == 0 {
		return "", err
	}

	start := len(archives) - monthsBack
	if start < 0 {
		start = 0
	}

	var sb strings.Builder
	for _, archive := range archives[start:] {
		content, err := os.ReadFile(filepath.Join(a.historyPath, archive))
		if err != nil {
			continue
		}

		inSummary := false
		for _, line := range strings.Split(string(content), "\n") {
			if strings.HasPrefix(line, "# ") {
				sb.WriteString(fmt.Sprintf("%s:\n", strings.TrimPrefix(line, "# ")))
			}
			if strings.HasPrefix(line, "## Summary") {
				inSummary = true
				continue
			}
			if strings.HasPrefix(line, "## ") {
				inSummary = false
			}
			if inSummary && strings.HasPrefix(line, "| ") && !strings.HasPrefix(line, "| Metric") {
				sb.WriteString(fmt.Sprintf("  %s\n", line))
			}
		}
	}

	return sb.String(), nil
}
