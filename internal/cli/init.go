package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-dataclean/internal/datagen"
	"github.com/pgEdge/pgedge-dataclean/internal/datasets"
	"github.com/pgEdge/pgedge-dataclean/internal/db"
	"github.com/pgEdge/pgedge-dataclean/internal/logging"
)

var (
	initSize         string
	initDirtyRatio   float64
	initSeed         uint64
	initDropExisting bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a database with raw, uncleaned data",
	Long: `Initialize a PostgreSQL database with the raw tables of the
specified dataset and fill them with generated data carrying the defects
the clean command repairs. The target size controls how much data is
generated; the dirty ratio controls how many values are defective.

Example:
  pgedge-dataclean init --dataset fooddelivery --size 50MB --connection "postgres://..."`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initSize, "size", "",
		"target raw data size (e.g., 50MB, 1GB)")
	initCmd.Flags().Float64Var(&initDirtyRatio, "dirty-ratio", -1,
		"fraction of values that receive a defect, 0 to 1 (default: 0.2)")
	initCmd.Flags().Uint64Var(&initSeed, "seed", 0,
		"random seed for reproducible data (default: random)")
	initCmd.Flags().BoolVar(&initDropExisting, "drop-existing", false,
		"drop existing tables before initialization")
}

func runInit(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if initSize != "" {
		cfg.Init.Size = initSize
	}
	if initDirtyRatio >= 0 {
		cfg.Init.DirtyRatio = initDirtyRatio
	}
	if initSeed != 0 {
		cfg.Init.Seed = initSeed
	}
	if initDropExisting {
		cfg.Init.DropExisting = true
	}

	// Validate configuration
	if err := cfg.ValidateInit(); err != nil {
		return err
	}

	ds, err := datasets.Get(cfg.Dataset)
	if err != nil {
		return err
	}

	targetBytes, err := datagen.ParseSize(cfg.Init.Size)
	if err != nil {
		return fmt.Errorf("invalid size: %w", err)
	}

	logging.Info().
		Str("dataset", cfg.Dataset).
		Str("size", cfg.Init.Size).
		Float64("dirty_ratio", cfg.Init.DirtyRatio).
		Msg("Initializing database")

	// Connect to database
	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	// Refuse to load on top of another dataset
	existing, err := db.GetMetadataValue(ctx, pool, db.KeyDataset)
	if err == nil && existing != "" && !cfg.Init.DropExisting {
		return fmt.Errorf(
			"database was already initialized for '%s'; "+
				"use --drop-existing to reinitialize", existing)
	}

	if cfg.Init.DropExisting {
		logging.Info().Msg("Dropping existing schema")
		if err := ds.DropSchema(ctx, pool); err != nil {
			return fmt.Errorf("failed to drop schema: %w", err)
		}
		if err := db.DropMetadata(ctx, pool); err != nil {
			logging.Debug().Err(err).Msg("No metadata table to drop")
		}
	}

	logging.Info().Msg("Creating schema")
	if err := ds.CreateSchema(ctx, pool); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	logging.Info().
		Str("target", datagen.FormatSize(targetBytes)).
		Msg("Generating raw data")

	genCfg := datasets.GeneratorConfig{
		TargetSize: targetBytes,
		DirtyRatio: cfg.Init.DirtyRatio,
		Seed:       cfg.Init.Seed,
	}
	if err := ds.GenerateData(ctx, pool, genCfg); err != nil {
		return fmt.Errorf("failed to generate data: %w", err)
	}

	if err := db.SaveInitMetadata(ctx, pool, cfg.Dataset, cfg.Init.Size, cfg.Init.Seed); err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}

	logging.Info().
		Str("dataset", cfg.Dataset).
		Str("size", cfg.Init.Size).
		Msg("Database initialization complete")

	return nil
}
