package fooddelivery

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgEdge/pgedge-dataclean/internal/datasets"
	"github.com/pgEdge/pgedge-dataclean/internal/normalize"
)

// Dataset implements the food delivery dataset.
type Dataset struct{}

// New creates a new food delivery dataset.
func New() *Dataset {
	return &Dataset{}
}

// Name returns the dataset name.
func (d *Dataset) Name() string {
	return "fooddelivery"
}

// Description returns a human-readable description.
func (d *Dataset) Description() string {
	return "Food delivery marketplace - restaurants, users, orders, menu entries " +
		"and food items scraped with inconsistent formatting"
}

// Tables returns the table definitions, parents before children.
func (d *Dataset) Tables() []datasets.TableDefinition {
	out := make([]datasets.TableDefinition, len(tableDefinitions))
	copy(out, tableDefinitions)
	return out
}

// CreateSchema creates the raw tables.
func (d *Dataset) CreateSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return CreateSchema(ctx, pool)
}

// DropSchema drops the dataset's tables, views, triggers and functions.
func (d *Dataset) DropSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return DropSchema(ctx, pool)
}

// GenerateData loads raw data with injected defects.
func (d *Dataset) GenerateData(ctx context.Context, pool *pgxpool.Pool, cfg datasets.GeneratorConfig) error {
	gen := NewGenerator(cfg.Seed, cfg.DirtyRatio)
	return gen.GenerateData(ctx, pool, cfg.TargetSize)
}

// Rules returns the ordered cleaning rules for a table.
func (d *Dataset) Rules(table string) ([]normalize.Rule, error) {
	return tableRules(table)
}

// References returns the pruning steps in application order.
func (d *Dataset) References() []datasets.Reference {
	out := make([]datasets.Reference, len(references))
	copy(out, references)
	return out
}

// BeforeWrite drops the foreign keys added by a previous run so tables can
// be emptied and reloaded.
func (d *Dataset) BeforeWrite(ctx context.Context, db datasets.DB) error {
	if _, err := db.Exec(ctx, dropConstraintsSQL); err != nil {
		return fmt.Errorf("failed to drop constraints: %w", err)
	}
	return nil
}

// AfterWrite declares foreign keys, installs the audit triggers and
// refreshes the summary view.
func (d *Dataset) AfterWrite(ctx context.Context, db datasets.DB) error {
	if _, err := db.Exec(ctx, addConstraintsSQL); err != nil {
		return fmt.Errorf("failed to add constraints: %w", err)
	}
	if _, err := db.Exec(ctx, createAuditSQL); err != nil {
		return fmt.Errorf("failed to install audit triggers: %w", err)
	}
	if _, err := db.Exec(ctx, createSummaryViewSQL); err != nil {
		return fmt.Errorf("failed to refresh summary view: %w", err)
	}
	return nil
}

func init() {
	datasets.Register(New())
}
