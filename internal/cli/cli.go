//-------------------------------------------------------------------------
//
// pgEdge Data Cleaner
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for pgedge-dataclean.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-dataclean/internal/config"
	"github.com/pgEdge/pgedge-dataclean/internal/datasets"
	"github.com/pgEdge/pgedge-dataclean/internal/logging"
	"github.com/pgEdge/pgedge-dataclean/internal/report"
	"github.com/pgEdge/pgedge-dataclean/pkg/version"
)

var (
	// Global flags
	cfgFile    string
	connection string
	dataset    string
	logLevel   string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "pgedge-dataclean",
		Short: "Rule-driven cleaning of inconsistent PostgreSQL datasets",
		Long: `pgedge-dataclean loads a raw, inconsistently formatted dataset into
PostgreSQL and cleans it with an ordered set of idempotent column rules:
delimiter spacing, title casing, noise and control character stripping,
categorical remapping, numeric suffix correction and duplicate elimination.
Rows whose references have no parent are pruned before cleaned data is
written back.

Every run reports how many rows each rule changed, with before/after
samples. Running clean twice changes nothing the second time.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./pgedge-dataclean.yaml)")
	rootCmd.PersistentFlags().StringVar(&connection, "connection", "",
		"PostgreSQL connection string")
	rootCmd.PersistentFlags().StringVar(&dataset, "dataset", "",
		"dataset name (default: fooddelivery)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(datasetsCmd)
	rootCmd.AddCommand(rulesCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if connection != "" {
		cfg.Connection = connection
	}
	if dataset != "" {
		cfg.Dataset = dataset
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}

var listFormat string

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List available datasets",
	RunE: func(cmd *cobra.Command, args []string) error {
		return report.RenderDatasets(cmd.OutOrStdout(), datasets.All(), listFormat)
	},
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the cleaning rules of a dataset",
	Long: `List the cleaning rules of the selected dataset, per table and in
the order they are applied, followed by the references used for pruning.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := datasets.Get(cfg.Dataset)
		if err != nil {
			return err
		}
		return report.RenderRules(cmd.OutOrStdout(), ds, listFormat)
	},
}

func init() {
	datasetsCmd.Flags().StringVar(&listFormat, "format", report.FormatTable,
		"output format (table, json)")
	rulesCmd.Flags().StringVar(&listFormat, "format", report.FormatTable,
		"output format (table, json)")
}
