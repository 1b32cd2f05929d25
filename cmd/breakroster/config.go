package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/breakroster/internal/config"
	"github.com/breakroster/internal/schedule"
	"github.com/breakroster/internal/work"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Long:  `Display the configuration, alert thresholds and the break rules.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Config: %s | DB=%s | Log=%s/%s\n", config.Path(), cfg.DatabasePath, cfg.LogLevel, cfg.LogFormat)
		fmt.Printf("Sharing: %s | Sender: %s | Default department: %s\n",
			cfg.ShareBaseURL, cfg.SenderName, cfg.DefaultDepartment)
		t := cfg.Thresholds
		fmt.Printf("Alerts: enabled=%t | Breaks >= %g%% | Coverage >= %g%% | Overtime <= %d | Missing breaks <= %d\n",
			cfg.NotificationsEnabled, t.BreakCompliance, t.CoverageCompliance, t.OvertimeLimit, t.MissingBreaksLimit)
		fmt.Printf("Rules: Break: %dmin | Second break from %gh | Overtime over %gh\n",
			work.QuickBreakMinutes, work.SecondBreakMinHours, work.OvertimeHours)
		return nil
	},
}

// configSetters maps each settable key onto the field it writes.
var configSetters = map[string]func(c *config.Config, v string) error{
	"database":   func(c *config.Config, v string) error { c.DatabasePath = v; return nil },
	"log-level":  func(c *config.Config, v string) error { c.LogLevel = v; return nil },
	"log-format": func(c *config.Config, v string) error { c.LogFormat = v; return nil },
	"share-url":  func(c *config.Config, v string) error { c.ShareBaseURL = v; return nil },
	"sender":     func(c *config.Config, v string) error { c.SenderName = v; return nil },
	"notifications": func(c *config.Config, v string) error {
		b, err := strconv.ParseBool(v)
		c.NotificationsEnabled = b
		return err
	},
	"break-threshold": func(c *config.Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		c.Thresholds.BreakCompliance = f
		return err
	},
	"coverage-threshold": func(c *config.Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		c.Thresholds.CoverageCompliance = f
		return err
	},
	"overtime-limit": func(c *config.Config, v string) error {
		n, err := strconv.Atoi(v)
		c.Thresholds.OvertimeLimit = n
		return err
	},
	"missing-breaks-limit": func(c *config.Config, v string) error {
		n, err := strconv.Atoi(v)
		c.Thresholds.MissingBreaksLimit = n
		return err
	},
	"department": func(c *config.Config, v string) error {
		d, err := schedule.ParseDepartment(v)
		c.DefaultDepartment = d
		return err
	},
}

func configKeys() []string {
	keys := make([]string, 0, len(configSetters))
	for k := range configSetters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a configuration value",
	Long:  `Change a configuration value and save it. Keys: ` + strings.Join(configKeys(), ", "),
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, ok := configSetters[args[0]]
		if !ok {
			return fmt.Errorf("unknown key %q (use one of: %s)", args[0], strings.Join(configKeys(), ", "))
		}
		fileCfg, err := config.LoadFile(config.Path())
		if err != nil {
			return err
		}
		if err := set(fileCfg, args[1]); err != nil {
			return fmt.Errorf("invalid value for %s: %w", args[0], err)
		}
		if err := fileCfg.Validate(); err != nil {
			return err
		}
		if err := config.Save(fileCfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		fmt.Printf("%s = %s\n", args[0], args[1])
		return nil
	},
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for breakroster.

To load completions:

Bash:
  $ source <(breakroster completion bash)

Zsh:
  $ breakroster completion zsh > "${fpath[1]}/_breakroster"

Fish:
  $ breakroster completion fish > ~/.config/fish/completions/breakroster.fish

PowerShell:
  PS> breakroster completion powershell > breakroster.ps1
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.ExactValidArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletion(os.Stdout)
		case "zsh":
			return cmd.Root().GenZshCompletion(os.Stdout)
		case "fish":
			return cmd.Root().GenFishCompletion(os.Stdout, true)
		case "powershell":
			return cmd.Root().GenPowerShellCompletion(os.Stdout)
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
}
