package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/breakroster/internal/archive"
	"github.com/breakroster/internal/config"
	"github.com/breakroster/internal/logging"
	"github.com/breakroster/internal/roster"
	"github.com/breakroster/internal/storage"
)

var (
	cfg           *config.Config
	log           *zap.Logger
	db            *storage.Database
	rosterService *roster.Service
)

var rootCmd = &cobra.Command{
	Use:   "breakroster",
	Short: "Shift and break scheduling for therapy teams",
	Long: `Breakroster keeps each employee's shift, breaks, coverage and outside
therapy time for the day, and reports compliance against management limits.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		log, err = logging.New(cfg.LogLevel, cfg.LogFormat, "breakroster")
		if err != nil {
			return err
		}
		db, err = storage.New(cfg.DatabasePath, log)
		if err != nil {
			return err
		}
		rosterService = roster.New(db, log, cfg.Thresholds)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if log != nil {
			_ = log.Sync()
		}
		if db != nil {
			return db.Close()
		}
		return nil
	},
}

func historyPath() string {
	return filepath.Join(filepath.Dir(cfg.DatabasePath), "history")
}

func newArchiver() *archive.Archiver {
	return archive.New(db, historyPath(), log)
}

// parseDay reads a YYYY-MM-DD flag value; empty means today.
func parseDay(s string) (time.Time, error) {
	if s == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local), nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", s)
	}
	return t, nil
}

// outputFile opens path for writing, or returns stdout when path is empty.
func outputFile(path string) (*os.File, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func init() {
	rootCmd.AddCommand(employeeCmd)
	rootCmd.AddCommand(entryCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(quickBreakCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(weekCmd)
	rootCmd.AddCommand(workingCmd)
	rootCmd.AddCommand(alertsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(shareCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(completionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
