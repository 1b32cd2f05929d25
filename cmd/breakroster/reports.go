package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/breakroster/internal/alerts"
	"github.com/breakroster/internal/schedule"
	"github.com/breakroster/internal/stats"
	"github.com/breakroster/internal/visualization"
)

var statsCmd = &cobra.Command{
	Use:     "stats",
	Aliases: []string{"st", "today"},
	Short:   "Show the day's break and coverage statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		dateStr, _ := cmd.Flags().GetString("date")
		day, err := parseDay(dateStr)
		if err != nil {
			return err
		}
		s, err := rosterService.DayStats(cmd.Context(), day)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(s)
		}

		fmt.Printf("Day: %s | Working: %d | Missing breaks: %d | Coverage issues: %d | Overtime: %d\n",
			day.Format("Monday, Jan 2"), s.TotalEmployees, s.MissingBreaks, s.CoverageIssues, s.OvertimeAlerts)
		fmt.Printf("Breaks: %.1f%% (%s) | Coverage: %.1f%% (%s)\n",
			s.BreakComplianceRate, stats.Grade(s.BreakComplianceRate),
			s.CoverageComplianceRate, stats.Grade(s.CoverageComplianceRate))
		fmt.Printf("Shifts: total %.2fh | avg %.2fh | longest %.2fh | shortest %.2fh\n",
			s.TotalShiftHours, s.AverageShiftLength, s.LongestShift, s.ShortestShift)
		fmt.Printf("Full: %d | Partial: %d | None: %d | Scheduled breaks: %d | Covered: %d\n",
			s.EmployeesWithFullBreaks, s.EmployeesWithPartialBreaks, s.EmployeesWithNoBreaks,
			s.TotalBreaksScheduled, s.TotalCoverageAssigned)

		var depts []string
		for _, d := range schedule.Departments {
			depts = append(depts, fmt.Sprintf("%s %d", d, s.DepartmentBreakdown[d]))
		}
		fmt.Printf("Departments: %s\n", strings.Join(depts, " | "))
		return nil
	},
}

var weekCmd = &cobra.Command{
	Use:     "week",
	Aliases: []string{"w"},
	Short:   "Show compliance for each day of the week",
	RunE: func(cmd *cobra.Command, args []string) error {
		dateStr, _ := cmd.Flags().GetString("date")
		day, err := parseDay(dateStr)
		if err != nil {
			return err
		}
		week, err := rosterService.Week(cmd.Context(), day)
		if err != nil {
			return err
		}
		today := day.Format(schedule.DateLayout)
		for _, d := range week {
			marker := ""
			if d.Date.Format(schedule.DateLayout) == today {
				marker = " *"
			}
			fmt.Printf("  %s %s: %d working | breaks %.1f%% | coverage %.1f%%%s\n",
				d.Date.Format("01/02"), d.Date.Format("Mon"), d.Stats.TotalEmployees,
				d.Stats.BreakComplianceRate, d.Stats.CoverageComplianceRate, marker)
		}
		return nil
	},
}

var workingCmd = &cobra.Command{
	Use:   "working",
	Short: "List who is working and their break status",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := workingFilter(cmd)
		if err != nil {
			return err
		}
		dateStr, _ := cmd.Flags().GetString("date")
		day, err := parseDay(dateStr)
		if err != nil {
			return err
		}
		rows, err := rosterService.Working(cmd.Context(), day, f)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			fmt.Println("Nobody matches")
			return nil
		}
		for _, w := range rows {
			fmt.Println(entryLine(w))
		}
		return nil
	},
}

func workingFilter(cmd *cobra.Command) (stats.Filter, error) {
	var f stats.Filter
	if dept, _ := cmd.Flags().GetString("department"); dept != "" {
		d, err := schedule.ParseDepartment(dept)
		if err != nil {
			return f, err
		}
		f.Department = d
	}
	if status, _ := cmd.Flags().GetString("status"); status != "" {
		switch b := schedule.Bucket(strings.ToLower(status)); b {
		case schedule.BucketMissing, schedule.BucketPartial, schedule.BucketComplete:
			f.Bucket = b
		default:
			return f, fmt.Errorf("unknown status %q (use missing, partial or complete)", status)
		}
	}
	f.MissingBreaksOnly, _ = cmd.Flags().GetBool("missing-breaks")
	f.CoverageIssuesOnly, _ = cmd.Flags().GetBool("coverage-issues")
	return f, nil
}

var alertsCmd = &cobra.Command{
	Use:     "alerts",
	Aliases: []string{"notifications"},
	Short:   "Check thresholds and manage notifications",
}

var alertsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Evaluate the day against the configured thresholds",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.NotificationsEnabled {
			fmt.Println("Notifications are disabled (set NotificationsEnabled in config)")
			return nil
		}
		dateStr, _ := cmd.Flags().GetString("date")
		day, err := parseDay(dateStr)
		if err != nil {
			return err
		}
		added, err := rosterService.CheckAlerts(cmd.Context(), day)
		if err != nil {
			return err
		}
		if len(added) == 0 {
			fmt.Println("No new alerts")
			return nil
		}
		printNotifications(added)
		return nil
	},
}

var alertsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, err := rosterService.Notifications(cmd.Context())
		if err != nil {
			return err
		}
		active, err := rosterService.UnacknowledgedNotifications(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(notificationSummary(len(all), len(active)))

		ns := all
		if only, _ := cmd.Flags().GetBool("unacknowledged"); only {
			ns = active
		}
		printNotifications(ns)
		return nil
	},
}

var alertsAckCmd = &cobra.Command{
	Use:   "ack <id>",
	Short: "Acknowledge a notification",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ok, err := rosterService.AcknowledgeNotification(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("notification %s not found", args[0])
		}
		fmt.Printf("Notification %s acknowledged\n", args[0])
		return nil
	},
}

var alertsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := rosterService.ClearNotifications(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Notifications cleared")
		return nil
	},
}

func notificationSummary(total, active int) string {
	if total == 0 {
		return "No notifications"
	}
	return fmt.Sprintf("Notifications: %d active of %d", active, total)
}

func printNotifications(ns []alerts.Notification) {
	for _, n := range ns {
		ack := ""
		if n.Acknowledged {
			ack = " (ack)"
		}
		fmt.Printf("[%s] %s: %s%s\n  id=%s %s\n", strings.ToUpper(string(n.Severity)), n.Title, n.Message, ack,
			n.ID, n.Timestamp.Format("2006-01-02 15:04"))
	}
}

var reportCmd = &cobra.Command{
	Use:   "report [html|day-svg|week-svg]",
	Short: "Render the day as an HTML report or SVG chart",
	Long: `Render a report for the day.

Examples:
  breakroster report html -o today.html
  breakroster report week-svg --date 2024-03-04 -o week.svg`,
	Args:      cobra.ExactValidArgs(1),
	ValidArgs: []string{"html", "day-svg", "week-svg"},
	RunE: func(cmd *cobra.Command, args []string) error {
		dateStr, _ := cmd.Flags().GetString("date")
		day, err := parseDay(dateStr)
		if err != nil {
			return err
		}
		viz := visualization.New()

		var out string
		switch args[0] {
		case "html":
			s, err := rosterService.DayStats(cmd.Context(), day)
			if err != nil {
				return err
			}
			rows, err := rosterService.Working(cmd.Context(), day, stats.Filter{})
			if err != nil {
				return err
			}
			out = viz.GenerateHTMLReport(day, s, rows)
		case "day-svg":
			s, err := rosterService.DayStats(cmd.Context(), day)
			if err != nil {
				return err
			}
			out = viz.GenerateDaySVG(day, s)
		case "week-svg":
			week, err := rosterService.Week(cmd.Context(), day)
			if err != nil {
				return err
			}
			out = viz.GenerateWeekSVG(week)
		}

		outputPath, _ := cmd.Flags().GetString("output")
		w, closeFn, err := outputFile(outputPath)
		if err != nil {
			return err
		}
		if _, err := w.WriteString(out); err != nil {
			closeFn()
			return err
		}
		if err := closeFn(); err != nil {
			return err
		}
		if outputPath != "" {
			fmt.Printf("Wrote %s\n", outputPath)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().String("date", "", "Day (YYYY-MM-DD, default today)")
	statsCmd.Flags().Bool("json", false, "Print statistics as JSON")

	weekCmd.Flags().String("date", "", "Any day in the week (YYYY-MM-DD, default today)")

	workingCmd.Flags().String("date", "", "Day (YYYY-MM-DD, default today)")
	workingCmd.Flags().StringP("department", "d", "", "Only this department")
	workingCmd.Flags().StringP("status", "s", "", "Break status: missing, partial, complete")
	workingCmd.Flags().Bool("missing-breaks", false, "Only employees without break 1")
	workingCmd.Flags().Bool("coverage-issues", false, "Only employees with an uncovered break")

	alertsCmd.AddCommand(alertsCheckCmd)
	alertsCmd.AddCommand(alertsListCmd)
	alertsCmd.AddCommand(alertsAckCmd)
	alertsCmd.AddCommand(alertsClearCmd)
	alertsCheckCmd.Flags().String("date", "", "Day (YYYY-MM-DD, default today)")
	alertsListCmd.Flags().BoolP("unacknowledged", "u", false, "Only notifications not yet acknowledged")

	reportCmd.Flags().String("date", "", "Day (YYYY-MM-DD, default today)")
	reportCmd.Flags().StringP("output", "o", "", "Output file (stdout if empty)")
}
