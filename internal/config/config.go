//-------------------------------------------------------------------------
//
// pgEdge Data Cleaner
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for pgedge-dataclean.
// Configuration is loaded from config files and CLI flags (no environment variables).
// CLI flags take precedence over config file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/spf13/viper"
)

var suffixPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// Config holds all configuration for pgedge-dataclean.
type Config struct {
	// Connection is the PostgreSQL connection string.
	Connection string `mapstructure:"connection"`

	// Dataset is the dataset to initialize or clean.
	Dataset string `mapstructure:"dataset"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Init holds configuration for the init subcommand.
	Init InitConfig `mapstructure:"init"`

	// Clean holds configuration for the clean subcommand.
	Clean CleanConfig `mapstructure:"clean"`
}

// InitConfig holds configuration for loading raw data.
type InitConfig struct {
	// Size is the target raw data size (e.g., "50MB").
	Size string `mapstructure:"size"`

	// DirtyRatio is the fraction of generated rows that get a defect.
	DirtyRatio float64 `mapstructure:"dirty_ratio"`

	// Seed makes generation reproducible. Zero picks a random seed.
	Seed uint64 `mapstructure:"seed"`

	// DropExisting drops existing tables before initialization.
	DropExisting bool `mapstructure:"drop_existing"`
}

// CleanConfig holds configuration for the normalization run.
type CleanConfig struct {
	// Workers is the number of goroutines used per record rule.
	Workers int `mapstructure:"workers"`

	// SampleSize is the number of before/after samples kept per rule.
	SampleSize int `mapstructure:"sample_size"`

	// DryRun cleans in memory and reports without writing anything back.
	DryRun bool `mapstructure:"dry_run"`

	// Verify re-runs the rules on cleaned data and fails if anything changes.
	Verify bool `mapstructure:"verify"`

	// Prune removes child rows whose foreign key has no parent.
	Prune bool `mapstructure:"prune"`

	// BackupSuffix names the table copy taken before a table is rewritten.
	BackupSuffix string `mapstructure:"backup_suffix"`

	// TargetSuffix writes cleaned rows to new tables instead of in place.
	TargetSuffix string `mapstructure:"target_suffix"`

	// Format is the report output format: "table" or "json".
	Format string `mapstructure:"format"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Dataset:  "fooddelivery",
		LogLevel: "info",
		Init: InitConfig{
			Size:         "10MB",
			DirtyRatio:   0.2,
			DropExisting: false,
		},
		Clean: CleanConfig{
			Workers:      4,
			SampleSize:   5,
			Prune:        true,
			BackupSuffix: "_backup",
			Format:       "table",
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./pgedge-dataclean.yaml
// 3. ~/.config/pgedge-dataclean/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("pgedge-dataclean")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "pgedge-dataclean"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Connection == "" {
		return fmt.Errorf("connection string is required")
	}
	if c.Dataset == "" {
		return fmt.Errorf("dataset is required")
	}
	return nil
}

// ValidateInit checks configuration required for init command.
func (c *Config) ValidateInit() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Init.Size == "" {
		return fmt.Errorf("target size is required for init")
	}
	if c.Init.DirtyRatio < 0 || c.Init.DirtyRatio > 1 {
		return fmt.Errorf("dirty_ratio must be between 0 and 1")
	}
	return nil
}

// ValidateClean checks configuration required for clean command.
func (c *Config) ValidateClean() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Clean.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	if c.Clean.SampleSize < 0 {
		return fmt.Errorf("sample_size must be non-negative")
	}
	if c.Clean.Format != "table" && c.Clean.Format != "json" {
		return fmt.Errorf("format must be 'table' or 'json'")
	}
	if !suffixPattern.MatchString(c.Clean.BackupSuffix) {
		return fmt.Errorf("backup_suffix must be non-empty and contain only a-z, 0-9 and _")
	}
	if c.Clean.TargetSuffix != "" {
		if !suffixPattern.MatchString(c.Clean.TargetSuffix) {
			return fmt.Errorf("target_suffix must contain only a-z, 0-9 and _")
		}
		if c.Clean.TargetSuffix == c.Clean.BackupSuffix {
			return fmt.Errorf("target_suffix must differ from backup_suffix")
		}
	}
	return nil
}
