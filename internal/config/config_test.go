package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/breakroster/internal/schedule"
)

func TestLoadNonExistentFile(t *testing.T) {
	t.Setenv("BREAKROSTER_DB", "")
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	def := Default()
	if cfg.LogLevel != "info" {
		t.Errorf("Default LogLevel = %s, want info", cfg.LogLevel)
	}
	if cfg.Thresholds != def.Thresholds {
		t.Errorf("Default Thresholds = %+v, want %+v", cfg.Thresholds, def.Thresholds)
	}
	if cfg.Thresholds.BreakCompliance != 85 || cfg.Thresholds.MissingBreaksLimit != 2 {
		t.Errorf("unexpected threshold defaults: %+v", cfg.Thresholds)
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("BREAKROSTER_DB", "")
	path := filepath.Join(t.TempDir(), fileName)

	cfg := Default()
	cfg.DatabasePath = "/tmp/roster.db"
	cfg.SenderName = "Clinic Ops"
	cfg.Thresholds.OvertimeLimit = 5
	if err := SaveFile(cfg, path); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if loaded.SenderName != "Clinic Ops" {
		t.Errorf("SenderName = %q, want %q", loaded.SenderName, "Clinic Ops")
	}
	if loaded.Thresholds.OvertimeLimit != 5 {
		t.Errorf("OvertimeLimit = %d, want 5", loaded.Thresholds.OvertimeLimit)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	t.Setenv("BREAKROSTER_DB", "")
	path := filepath.Join(t.TempDir(), fileName)
	if err := os.WriteFile(path, []byte("LogLevel: debug\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug", cfg.LogLevel)
	}
	if cfg.Thresholds.CoverageCompliance != 90 {
		t.Errorf("CoverageCompliance = %v, want 90", cfg.Thresholds.CoverageCompliance)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), fileName)
	if err := os.WriteFile(path, []byte("LogLevel: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("BREAKROSTER_DB", "/data/env.db")
	t.Setenv("BREAKROSTER_LOG_LEVEL", "warn")
	t.Setenv("BREAKROSTER_LOG_FORMAT", "json")
	t.Setenv("BREAKROSTER_SHARE_BASE_URL", "https://roster.example.com/s")

	cfg := Default()
	cfg.applyEnvOverrides()

	if cfg.DatabasePath != "/data/env.db" {
		t.Errorf("DatabasePath = %s, want /data/env.db", cfg.DatabasePath)
	}
	if cfg.LogLevel != "warn" || cfg.LogFormat != "json" {
		t.Errorf("log settings = %s/%s, want warn/json", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.ShareBaseURL != "https://roster.example.com/s" {
		t.Errorf("ShareBaseURL = %s", cfg.ShareBaseURL)
	}
}

func TestExpandHome(t *testing.T) {
	home, _ := os.UserHomeDir()
	if got := expandHome("~/x/data.db"); got != filepath.Join(home, "x", "data.db") {
		t.Errorf("expandHome() = %s", got)
	}
	if got := expandHome("/abs/data.db"); got != "/abs/data.db" {
		t.Errorf("expandHome() = %s, want unchanged", got)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Config)
		field string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"missing database", func(c *Config) { c.DatabasePath = "" }, "DatabasePath"},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, "LogFormat"},
		{"break rate over 100", func(c *Config) { c.Thresholds.BreakCompliance = 101 }, "Thresholds.BreakCompliance"},
		{"negative coverage rate", func(c *Config) { c.Thresholds.CoverageCompliance = -1 }, "Thresholds.CoverageCompliance"},
		{"negative overtime", func(c *Config) { c.Thresholds.OvertimeLimit = -1 }, "Thresholds.OvertimeLimit"},
		{"negative missing", func(c *Config) { c.Thresholds.MissingBreaksLimit = -2 }, "Thresholds.MissingBreaksLimit"},
		{"unknown department", func(c *Config) { c.DefaultDepartment = "Kitchen" }, "DefaultDepartment"},
		{"lowercase department ok", func(c *Config) { c.DefaultDepartment = schedule.Department("bcba") }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.edit(cfg)
			err := cfg.Validate()

			if tt.field == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if ve.Field != tt.field {
				t.Errorf("Field = %s, want %s", ve.Field, tt.field)
			}
		})
	}
}
