//-------------------------------------------------------------------------
//
// pgEdge Data Cleaner
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-dataclean/internal/datasets"
	"github.com/pgEdge/pgedge-dataclean/internal/db"
	"github.com/pgEdge/pgedge-dataclean/internal/logging"
	"github.com/pgEdge/pgedge-dataclean/internal/report"
	"github.com/pgEdge/pgedge-dataclean/internal/runner"
)

var (
	cleanWorkers      int
	cleanSampleSize   int
	cleanDryRun       bool
	cleanVerify       bool
	cleanNoPrune      bool
	cleanBackupSuffix string
	cleanTargetSuffix string
	cleanFormat       string
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean the dataset's tables",
	Long: `Load every table of the dataset, apply its cleaning rules in order,
prune rows whose references have no parent and write the result back.

Tables are rewritten in place inside one transaction after a copy of each
is saved as <table><backup-suffix>. With --target-suffix the cleaned rows
go to new tables and the raw tables are left alone. With --dry-run nothing
is written and only the report is printed.

Any malformed value aborts the run and names the rule and row that failed.

Example:
  pgedge-dataclean clean --workers 8 --dry-run --connection "postgres://..."`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().IntVar(&cleanWorkers, "workers", 0,
		"goroutines per rule (default: 4)")
	cleanCmd.Flags().IntVar(&cleanSampleSize, "sample-size", -1,
		"before/after samples kept per rule (default: 5)")
	cleanCmd.Flags().BoolVar(&cleanDryRun, "dry-run", false,
		"clean in memory and report without writing")
	cleanCmd.Flags().BoolVar(&cleanVerify, "verify", false,
		"re-run the rules on cleaned data and fail if anything changes")
	cleanCmd.Flags().BoolVar(&cleanNoPrune, "no-prune", false,
		"keep rows whose references have no parent")
	cleanCmd.Flags().StringVar(&cleanBackupSuffix, "backup-suffix", "",
		"suffix of the backup copy taken before rewriting (default: _backup)")
	cleanCmd.Flags().StringVar(&cleanTargetSuffix, "target-suffix", "",
		"write cleaned rows to <table><suffix> instead of in place")
	cleanCmd.Flags().StringVar(&cleanFormat, "format", "",
		"report format: table, json (default: table)")
}

func runClean(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if cleanWorkers > 0 {
		cfg.Clean.Workers = cleanWorkers
	}
	if cleanSampleSize >= 0 {
		cfg.Clean.SampleSize = cleanSampleSize
	}
	if cleanDryRun {
		cfg.Clean.DryRun = true
	}
	if cleanVerify {
		cfg.Clean.Verify = true
	}
	if cleanNoPrune {
		cfg.Clean.Prune = false
	}
	if cleanBackupSuffix != "" {
		cfg.Clean.BackupSuffix = cleanBackupSuffix
	}
	if cleanTargetSuffix != "" {
		cfg.Clean.TargetSuffix = cleanTargetSuffix
	}
	if cleanFormat != "" {
		cfg.Clean.Format = cleanFormat
	}

	// Validate configuration
	if err := cfg.ValidateClean(); err != nil {
		return err
	}

	ds, err := datasets.Get(cfg.Dataset)
	if err != nil {
		return err
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case sig := <-sigChan:
			logging.Info().
				Str("signal", sig.String()).
				Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	// The whole run uses one connection and one transaction
	conn, err := db.ConnectSingle(ctx, cfg.Connection, "clean")
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer conn.Close(context.Background())

	// Check that the database holds this dataset
	existing, err := db.GetMetadataValue(ctx, conn, db.KeyDataset)
	if err != nil {
		return fmt.Errorf(
			"database has not been initialized; run 'pgedge-dataclean init' first")
	}
	if existing != cfg.Dataset {
		return fmt.Errorf(
			"database was initialized for '%s' but '%s' was specified; "+
				"re-run with --dataset=%s",
			existing, cfg.Dataset, existing)
	}

	r, err := runner.New(conn, runner.Config{
		Dataset:      ds,
		Workers:      cfg.Clean.Workers,
		SampleSize:   cfg.Clean.SampleSize,
		DryRun:       cfg.Clean.DryRun,
		Verify:       cfg.Clean.Verify,
		Prune:        cfg.Clean.Prune,
		BackupSuffix: cfg.Clean.BackupSuffix,
		TargetSuffix: cfg.Clean.TargetSuffix,
	})
	if err != nil {
		return err
	}

	result, runErr := r.Run(ctx)
	if result != nil {
		if err := report.Render(cmd.OutOrStdout(), result, cfg.Clean.Format); err != nil {
			return err
		}
	}
	if runErr != nil {
		return fmt.Errorf("clean failed: %w", runErr)
	}
	return nil
}
