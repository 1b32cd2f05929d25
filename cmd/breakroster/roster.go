package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/breakroster/internal/schedule"
	"github.com/breakroster/internal/stats"
)

var employeeCmd = &cobra.Command{
	Use:     "employee",
	Aliases: []string{"emp"},
	Short:   "Manage employees",
}

var employeeAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an employee",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deptStr, _ := cmd.Flags().GetString("department")
		dept := cfg.DefaultDepartment
		if deptStr != "" {
			d, err := schedule.ParseDepartment(deptStr)
			if err != nil {
				return err
			}
			dept = d
		}

		e, err := rosterService.AddEmployee(cmd.Context(), strings.Join(args, " "), dept)
		if err != nil {
			return err
		}
		fmt.Printf("Added %s (%s) id=%s\n", e.Name, e.Department, e.ID)
		return nil
	},
}

var employeeListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List employees",
	RunE: func(cmd *cobra.Command, args []string) error {
		employees, err := rosterService.Employees(cmd.Context())
		if err != nil {
			return err
		}
		if len(employees) == 0 {
			fmt.Println("No employees")
			return nil
		}
		for _, e := range employees {
			fmt.Printf("%s  %-10s %s\n", e.ID, e.Department, e.Name)
		}
		return nil
	},
}

var employeeUpdateCmd = &cobra.Command{
	Use:     "update <id>",
	Aliases: []string{"edit"},
	Short:   "Rename an employee or change department",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := rosterService.Employee(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("name") {
			e.Name, _ = cmd.Flags().GetString("name")
		}
		if cmd.Flags().Changed("department") {
			deptStr, _ := cmd.Flags().GetString("department")
			if e.Department, err = schedule.ParseDepartment(deptStr); err != nil {
				return err
			}
		}
		if err := rosterService.UpdateEmployee(cmd.Context(), e); err != nil {
			return err
		}
		fmt.Printf("Updated %s (%s)\n", e.Name, e.Department)
		return nil
	},
}

var employeeDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete an employee and their break entries",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if !force {
			fmt.Printf("Delete employee %s and all of their entries? Use --force to confirm.\n", args[0])
			return nil
		}
		if err := rosterService.DeleteEmployee(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Employee %s deleted\n", args[0])
		return nil
	},
}

var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Manage daily break entries",
}

// entryFlags maps flag names onto the entry fields they set.
var entryFlags = []struct {
	name  string
	usage string
	field func(e *schedule.BreakEntry) *string
}{
	{"shift-start", "Shift start (HH:MM)", func(e *schedule.BreakEntry) *string { return &e.ShiftStart }},
	{"shift-end", "Shift end (HH:MM)", func(e *schedule.BreakEntry) *string { return &e.ShiftEnd }},
	{"break1-start", "Break 1 start (HH:MM)", func(e *schedule.BreakEntry) *string { return &e.Break1Start }},
	{"break1-end", "Break 1 end (HH:MM)", func(e *schedule.BreakEntry) *string { return &e.Break1End }},
	{"coverage1", "Employee id covering break 1", func(e *schedule.BreakEntry) *string { return &e.Coverage1 }},
	{"break2-start", "Break 2 start (HH:MM)", func(e *schedule.BreakEntry) *string { return &e.Break2Start }},
	{"break2-end", "Break 2 end (HH:MM)", func(e *schedule.BreakEntry) *string { return &e.Break2End }},
	{"coverage2", "Employee id covering break 2", func(e *schedule.BreakEntry) *string { return &e.Coverage2 }},
	{"ot-start", "Outside therapy start (HH:MM)", func(e *schedule.BreakEntry) *string { return &e.OutsideTherapyStart }},
	{"ot-end", "Outside therapy end (HH:MM)", func(e *schedule.BreakEntry) *string { return &e.OutsideTherapyEnd }},
	{"ot-reason", "Outside therapy reason", func(e *schedule.BreakEntry) *string { return &e.OutsideTherapyReason }},
}

func addEntryFlags(fs *pflag.FlagSet) {
	for _, f := range entryFlags {
		fs.String(f.name, "", f.usage)
	}
}

// applyEntryFlags copies only the flags the user set, so an update leaves
// the other fields alone.
func applyEntryFlags(fs *pflag.FlagSet, e *schedule.BreakEntry) {
	for _, f := range entryFlags {
		if fs.Changed(f.name) {
			*f.field(e), _ = fs.GetString(f.name)
		}
	}
}

var entryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Schedule a shift for an employee",
	Long: `Create a break entry for one employee on one day.

Examples:
  breakroster entry add --employee <id> --shift-start 09:00 --shift-end 17:00
  breakroster entry add --employee <id> --date 2024-03-04 --shift-start 08:00 --shift-end 16:30 \
      --break1-start 10:00 --break1-end 10:10 --coverage1 <id>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		empID, _ := cmd.Flags().GetString("employee")
		dateStr, _ := cmd.Flags().GetString("date")
		day, err := parseDay(dateStr)
		if err != nil {
			return err
		}

		e := schedule.BreakEntry{EmployeeID: empID, Date: day}
		applyEntryFlags(cmd.Flags(), &e)
		saved, err := rosterService.AddEntry(cmd.Context(), e)
		if err != nil {
			return err
		}
		fmt.Printf("Entry %s: %s-%s (%s)\n", saved.ID, saved.ShiftStart, saved.ShiftEnd,
			schedule.FormatShiftHours(schedule.ShiftHours(saved.ShiftStart, saved.ShiftEnd)))
		if e.Break2Start != "" && saved.Break2Start == "" {
			fmt.Println("Break 2 dropped: shift is too short for a second break")
		}
		return nil
	},
}

var entryUpdateCmd = &cobra.Command{
	Use:     "update <id>",
	Aliases: []string{"edit"},
	Short:   "Change fields of a break entry",
	Long:    `Change only the fields given as flags. Pass an empty value (--coverage1 "") to clear a field.`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := rosterService.Entry(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("date") {
			dateStr, _ := cmd.Flags().GetString("date")
			if e.Date, err = parseDay(dateStr); err != nil {
				return err
			}
		}
		applyEntryFlags(cmd.Flags(), &e)
		saved, err := rosterService.UpdateEntry(cmd.Context(), e)
		if err != nil {
			return err
		}
		fmt.Printf("Entry %s updated\n", saved.ID)
		return nil
	},
}

var entryDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a break entry",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := rosterService.DeleteEntry(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Entry %s deleted\n", args[0])
		return nil
	},
}

var entryListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the day's entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		dateStr, _ := cmd.Flags().GetString("date")
		day, err := parseDay(dateStr)
		if err != nil {
			return err
		}
		rows, err := rosterService.Working(cmd.Context(), day, stats.Filter{})
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			fmt.Printf("No entries for %s\n", day.Format("Monday, Jan 2"))
			return nil
		}
		for _, w := range rows {
			fmt.Println(entryLine(w))
		}
		return nil
	},
}

func entryLine(w stats.WorkingEmployee) string {
	e := w.Entry
	line := fmt.Sprintf("%s  %-20s %s-%s %s net %s | %s | %s", e.ID, w.Employee.Name,
		e.ShiftStart, e.ShiftEnd, schedule.FormatShiftHours(w.Analysis.ShiftHours),
		schedule.NetWorkedHours(e), w.Analysis.BreakStatus.Label(), w.Analysis.CoverageStatus.Label())
	if ot := schedule.FormatOutsideTherapy(e); ot != "" {
		line += " | OT " + ot
	}
	if w.Analysis.Overtime {
		line += " [OVERTIME]"
	}
	return line
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule <employee-id>...",
	Short: "Create default 09:00-17:00 shifts",
	Long:  `Create a default shift for each listed employee. Employees already scheduled that day are skipped.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dateStr, _ := cmd.Flags().GetString("date")
		day, err := parseDay(dateStr)
		if err != nil {
			return err
		}
		created, err := rosterService.CreateWorkSchedule(cmd.Context(), day, args)
		if err != nil {
			return err
		}
		fmt.Printf("Scheduled %d shift(s) for %s\n", len(created), day.Format("Monday, Jan 2"))
		return nil
	},
}

var quickBreakCmd = &cobra.Command{
	Use:     "quick-break <employee-id> <1|2>",
	Aliases: []string{"qb"},
	Short:   "Add a default 10 minute break",
	Long:    `Place break 1 two hours after shift start, or break 2 four hours after.`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		which, err := strconv.Atoi(args[1])
		if err != nil || (which != 1 && which != 2) {
			return fmt.Errorf("break must be 1 or 2, got %q", args[1])
		}
		dateStr, _ := cmd.Flags().GetString("date")
		day, err := parseDay(dateStr)
		if err != nil {
			return err
		}
		e, err := rosterService.QuickAddBreak(cmd.Context(), args[0], day, which)
		if err != nil {
			return err
		}
		start, end := e.Break1Start, e.Break1End
		if which == 2 {
			start, end = e.Break2Start, e.Break2End
		}
		fmt.Printf("Break %d: %s-%s\n", which, start, end)
		return nil
	},
}

func init() {
	employeeCmd.AddCommand(employeeAddCmd)
	employeeCmd.AddCommand(employeeListCmd)
	employeeCmd.AddCommand(employeeUpdateCmd)
	employeeCmd.AddCommand(employeeDeleteCmd)

	employeeAddCmd.Flags().StringP("department", "d", "", "Department: RBT, Operations, BCBA, Floater")
	employeeUpdateCmd.Flags().StringP("name", "n", "", "New name")
	employeeUpdateCmd.Flags().StringP("department", "d", "", "New department")
	employeeDeleteCmd.Flags().BoolP("force", "f", false, "Delete without confirmation")

	entryCmd.AddCommand(entryAddCmd)
	entryCmd.AddCommand(entryUpdateCmd)
	entryCmd.AddCommand(entryDeleteCmd)
	entryCmd.AddCommand(entryListCmd)

	entryAddCmd.Flags().StringP("employee", "e", "", "Employee id")
	entryAddCmd.Flags().String("date", "", "Day (YYYY-MM-DD, default today)")
	addEntryFlags(entryAddCmd.Flags())
	_ = entryAddCmd.MarkFlagRequired("employee")

	entryUpdateCmd.Flags().String("date", "", "Move the entry to another day (YYYY-MM-DD)")
	addEntryFlags(entryUpdateCmd.Flags())

	entryListCmd.Flags().String("date", "", "Day (YYYY-MM-DD, default today)")
	scheduleCmd.Flags().String("date", "", "Day (YYYY-MM-DD, default today)")
	quickBreakCmd.Flags().String("date", "", "Day (YYYY-MM-DD, default today)")
}
