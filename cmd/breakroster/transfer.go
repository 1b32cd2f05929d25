package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/breakroster/internal/backup"
	"github.com/breakroster/internal/export"
	"github.com/breakroster/internal/schedule"
)

var exportCmd = &cobra.Command{
	Use:     "export [csv|json|xlsx]",
	Aliases: []string{"exp"},
	Short:   "Export break entries to CSV, JSON or XLSX",
	Long: `Export break entries for payroll or review. All entries are exported
unless a date or range is given.

Examples:
  breakroster export csv -o breaks.csv
  breakroster export json --date 2024-03-04
  breakroster export xlsx -s 2024-03-01 -e 2024-03-31`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		if len(args) > 0 {
			format = args[0]
		}
		dateStr, _ := cmd.Flags().GetString("date")
		startStr, _ := cmd.Flags().GetString("start")
		endStr, _ := cmd.Flags().GetString("end")
		outputPath, _ := cmd.Flags().GetString("output")

		var write func(io.Writer, []schedule.BreakEntry, []schedule.Employee) error
		switch format {
		case "csv":
			write = export.WriteCSV
		case "json":
			write = export.WriteJSON
		case "xlsx":
			write = export.WriteXLSX
			if outputPath == "" {
				outputPath = export.FileName(time.Now(), "xlsx")
			}
		default:
			return fmt.Errorf("unknown format: %s (use csv, json, or xlsx)", format)
		}

		ctx := cmd.Context()
		var entries []schedule.BreakEntry
		var err error
		switch {
		case dateStr != "":
			day, perr := parseDay(dateStr)
			if perr != nil {
				return perr
			}
			entries, err = db.EntriesOnDate(ctx, day)
		case startStr != "" || endStr != "":
			start, perr := parseDay(startStr)
			if perr != nil {
				return perr
			}
			end, perr := parseDay(endStr)
			if perr != nil {
				return perr
			}
			entries, err = db.EntriesInRange(ctx, start, end)
		default:
			entries, err = db.ListEntries(ctx)
		}
		if err != nil {
			return err
		}
		employees, err := db.ListEmployees(ctx)
		if err != nil {
			return err
		}

		w, closeFn, err := outputFile(outputPath)
		if err != nil {
			return err
		}
		if err := write(w, entries, employees); err != nil {
			closeFn()
			return err
		}
		if err := closeFn(); err != nil {
			return err
		}
		if outputPath != "" {
			fmt.Printf("Exported %d entries to %s\n", len(entries), outputPath)
		}
		return nil
	},
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write a JSON snapshot of all employees and entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		employees, err := db.ListEmployees(ctx)
		if err != nil {
			return err
		}
		entries, err := db.ListEntries(ctx)
		if err != nil {
			return err
		}

		lastUpdate, hasUpdate, err := db.LastDataUpdate(ctx)
		if err != nil {
			return err
		}

		now := time.Now()
		data := backup.Generate(employees, entries, now)

		outputPath, _ := cmd.Flags().GetString("output")
		if outputPath == "" {
			outputPath = backup.FileName(now)
		}
		w, closeFn, err := outputFile(outputPath)
		if err != nil {
			return err
		}
		if err := backup.Encode(w, data); err != nil {
			closeFn()
			return err
		}
		if err := closeFn(); err != nil {
			return err
		}

		log.Info("backup written")
		fmt.Printf("Backed up %d employees and %d entries to %s\n",
			data.Metadata.TotalEmployees, data.Metadata.TotalBreakEntries, outputPath)
		fmt.Println(lastModifiedLine(lastUpdate, hasUpdate))
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Replace all data with a backup snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		data, err := backup.Decode(f)
		if err != nil {
			return err
		}

		force, _ := cmd.Flags().GetBool("force")
		if !force {
			fmt.Printf("Backup from %s holds %d employees and %d entries.\n",
				data.Timestamp.Local().Format("2006-01-02 15:04"), len(data.Employees), len(data.BreakEntries))
			fmt.Println("Restoring replaces ALL current data. Use --force to confirm.")
			return nil
		}

		if err := db.ReplaceAll(cmd.Context(), data.Employees, data.BreakEntries); err != nil {
			return err
		}
		fmt.Printf("Restored %d employees and %d entries\n", len(data.Employees), len(data.BreakEntries))
		return nil
	},
}

func lastModifiedLine(t time.Time, ok bool) string {
	if !ok {
		return "Last modified: never"
	}
	return "Last modified: " + t.Local().Format("2006-01-02 15:04")
}

func init() {
	exportCmd.Flags().StringP("format", "f", "csv", "Output format: csv, json, xlsx")
	exportCmd.Flags().String("date", "", "Only this day (YYYY-MM-DD)")
	exportCmd.Flags().StringP("start", "s", "", "Range start (YYYY-MM-DD)")
	exportCmd.Flags().StringP("end", "e", "", "Range end (YYYY-MM-DD)")
	exportCmd.Flags().StringP("output", "o", "", "Output file (stdout if empty; xlsx defaults to a dated file)")

	backupCmd.Flags().StringP("output", "o", "", "Output file (defaults to a dated file)")
	restoreCmd.Flags().BoolP("force", "f", false, "Replace data without confirmation")
}
