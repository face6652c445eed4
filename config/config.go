package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the directory. Relative paths resolve
// against DataDir.
type Config struct {
	// DataDir is the directory holding the snapshot, audit log and backups
	DataDir string `yaml:"data_dir"`

	SnapshotFile string `yaml:"snapshot_file"`
	AuditFile    string `yaml:"audit_file"`
	// ExportFile is where Export writes; empty means the snapshot file
	ExportFile string `yaml:"export_file"`

	Backup BackupConfig `yaml:"backup"`

	// RestoreWindow is how long a deleted contact can be restored
	RestoreWindow time.Duration `yaml:"restore_window"`

	// MaxRecords caps the store size; 0 means unlimited
	MaxRecords int `yaml:"max_records"`
	// IndexBuckets is the fixed bucket count of the name index
	IndexBuckets int `yaml:"index_buckets"`

	Logging LoggingConfig `yaml:"logging"`
}

// BackupConfig controls daily snapshot backups
type BackupConfig struct {
	Dir      string        `yaml:"dir"`
	Prefix   string        `yaml:"prefix"`
	Interval time.Duration `yaml:"interval"`
	// Keep is the number of newest backups retained; 0 keeps all
	Keep int `yaml:"keep"`
}

// LoggingConfig selects log level and format
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration matching the classic file layout in the
// current directory.
func Default() *Config {
	return &Config{
		DataDir:       ".",
		SnapshotFile:  "contacts_snapshot.csv",
		AuditFile:     "contacts_log.csv",
		RestoreWindow: 15 * 24 * time.Hour,
		IndexBuckets:  1024,
		Backup: BackupConfig{
			Prefix:   "contacts_backup_",
			Interval: 24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a YAML config from path on top of Default. A missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.SnapshotFile == "" {
		return fmt.Errorf("snapshot_file is required")
	}
	if c.AuditFile == "" {
		return fmt.Errorf("audit_file is required")
	}
	if c.resolve(c.SnapshotFile) == c.resolve(c.AuditFile) {
		return fmt.Errorf("snapshot_file and audit_file must differ")
	}
	if c.ExportFile != "" && c.resolve(c.ExportFile) == c.resolve(c.AuditFile) {
		return fmt.Errorf("export_file must differ from audit_file")
	}
	if c.RestoreWindow < 0 {
		return fmt.Errorf("restore_window cannot be negative")
	}
	if c.MaxRecords < 0 {
		return fmt.Errorf("max_records cannot be negative")
	}
	if c.IndexBuckets < 0 {
		return fmt.Errorf("index_buckets cannot be negative")
	}
	if c.Backup.Interval < 0 {
		return fmt.Errorf("backup.interval cannot be negative")
	}
	if c.Backup.Keep < 0 {
		return fmt.Errorf("backup.keep cannot be negative")
	}
	if strings.ContainsAny(c.Backup.Prefix, `/\`) {
		return fmt.Errorf("backup.prefix cannot contain path separators")
	}

	validFormats := map[string]bool{"": true, "text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("invalid logging format: %s (must be 'text' or 'json')", c.Logging.Format)
	}
	validLevels := map[string]bool{"": true, "debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid logging level: %s (must be 'debug', 'info', 'warn' or 'error')", c.Logging.Level)
	}
	return nil
}

func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(c.DataDir, p)
}

// SnapshotPath returns the resolved snapshot location
func (c *Config) SnapshotPath() string {
	return c.resolve(c.SnapshotFile)
}

// AuditPath returns the resolved audit log location
func (c *Config) AuditPath() string {
	return c.resolve(c.AuditFile)
}

// ExportPath returns the resolved export location
func (c *Config) ExportPath() string {
	if c.ExportFile == "" {
		return c.SnapshotPath()
	}
	return c.resolve(c.ExportFile)
}

// BackupDir returns the resolved backup directory
func (c *Config) BackupDir() string {
	if c.Backup.Dir == "" {
		return c.DataDir
	}
	return c.resolve(c.Backup.Dir)
}
