package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/breakroster/internal/alerts"
	"github.com/breakroster/internal/schedule"
)

const fileName = ".breakroster.yaml"

type Config struct {
	DatabasePath string `yaml:"DatabasePath"`

	LogLevel  string `yaml:"LogLevel"`
	LogFormat string `yaml:"LogFormat"`

	// Sharing
	ShareBaseURL string `yaml:"ShareBaseURL"`
	SenderName   string `yaml:"SenderName"`

	NotificationsEnabled bool              `yaml:"NotificationsEnabled"`
	Thresholds           alerts.Thresholds `yaml:"Thresholds"`

	DefaultDepartment schedule.Department `yaml:"DefaultDepartment"`
}

// Load reads the config at Path(), falling back to defaults when no file
// exists. A .env file in the working directory is loaded first so its
// variables take part in the overrides.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadFile(Path())
}

// LoadFile reads the config at path. Missing fields keep their defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	cfg.DatabasePath = expandHome(cfg.DatabasePath)
	return cfg, nil
}

// Save writes cfg to Path().
func Save(cfg *Config) error {
	return SaveFile(cfg, Path())
}

func SaveFile(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Path is the config file location in the user's home directory.
func Path() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, fileName)
}

func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		DatabasePath:         filepath.Join(home, ".breakroster", "data.db"),
		LogLevel:             "info",
		LogFormat:            "console",
		ShareBaseURL:         "https://breakroster.local/shared",
		SenderName:           "Break Management",
		NotificationsEnabled: true,
		Thresholds:           alerts.DefaultThresholds(),
		DefaultDepartment:    schedule.DepartmentRBT,
	}
}

func (c *Config) applyEnvOverrides() {
	if path := os.Getenv("BREAKROSTER_DB"); path != "" {
		c.DatabasePath = path
	}
	if level := os.Getenv("BREAKROSTER_LOG_LEVEL"); level != "" {
		c.LogLevel = level
	}
	if format := os.Getenv("BREAKROSTER_LOG_FORMAT"); format != "" {
		c.LogFormat = format
	}
	if url := os.Getenv("BREAKROSTER_SHARE_BASE_URL"); url != "" {
		c.ShareBaseURL = url
	}
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation error: %s - %s", e.Field, e.Message)
}

// Validate checks the configuration for common issues
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return &ValidationError{Field: "DatabasePath", Message: "Database path is required"}
	}

	switch c.LogFormat {
	case "json", "console":
	default:
		return &ValidationError{Field: "LogFormat", Message: fmt.Sprintf("unknown format %q (use json or console)", c.LogFormat)}
	}

	t := c.Thresholds
	if t.BreakCompliance < 0 || t.BreakCompliance > 100 {
		return &ValidationError{Field: "Thresholds.BreakCompliance", Message: "must be between 0 and 100"}
	}
	if t.CoverageCompliance < 0 || t.CoverageCompliance > 100 {
		return &ValidationError{Field: "Thresholds.CoverageCompliance", Message: "must be between 0 and 100"}
	}
	if t.OvertimeLimit < 0 {
		return &ValidationError{Field: "Thresholds.OvertimeLimit", Message: "must not be negative"}
	}
	if t.MissingBreaksLimit < 0 {
		return &ValidationError{Field: "Thresholds.MissingBreaksLimit", Message: "must not be negative"}
	}

	if c.DefaultDepartment != "" {
		if _, err := schedule.ParseDepartment(string(c.DefaultDepartment)); err != nil {
			return &ValidationError{Field: "DefaultDepartment", Message: err.Error()}
		}
	}

	return nil
}
