//-------------------------------------------------------------------------
//
// pgEdge Data Cleaner
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package datasets defines the dataset interface and the registry of
// available datasets.
package datasets

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgEdge/pgedge-dataclean/internal/normalize"
)

// DB is an interface that *pgxpool.Pool, *pgx.Conn and pgx.Tx satisfy.
// This allows schema work to run inside the caller's transaction.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ColumnType is the storage type of a column as seen by the cleaner.
type ColumnType string

const (
	// Text columns hold strings.
	Text ColumnType = "text"

	// Integer columns hold int64 values.
	Integer ColumnType = "integer"
)

// Column describes one column of a table.
type Column struct {
	Name string
	Type ColumnType
}

// TableDefinition describes a table in the dataset's schema.
type TableDefinition struct {
	// Name is the table name.
	Name string

	// Key is the primary key column; snapshots are ordered by it.
	Key string

	// Columns lists the table's columns in storage order.
	Columns []Column

	// BaseRowSize is the estimated average row size in bytes.
	BaseRowSize int64

	// ScaleRatio determines how row count scales relative to base.
	ScaleRatio float64
}

// ColumnNames returns the column names in storage order.
func (t TableDefinition) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column by name.
func (t TableDefinition) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Reference is a foreign key relation enforced by referential pruning.
type Reference struct {
	Child     string `json:"child"`
	Column    string `json:"column"`
	Parent    string `json:"parent"`
	ParentKey string `json:"parent_key"`
}

// GeneratorConfig holds configuration for raw data generation.
type GeneratorConfig struct {
	// TargetSize is the target raw data size in bytes.
	TargetSize int64

	// DirtyRatio is the fraction of rows that receive a defect.
	DirtyRatio float64

	// Seed makes generation reproducible.
	Seed uint64
}

// Dataset defines the interface that all datasets must implement.
type Dataset interface {
	// Name returns the dataset name.
	Name() string

	// Description returns a human-readable description.
	Description() string

	// Tables returns the table definitions. Tables are cleaned in this
	// order.
	Tables() []TableDefinition

	// CreateSchema creates the raw tables.
	CreateSchema(ctx context.Context, pool *pgxpool.Pool) error

	// DropSchema drops every object the dataset created.
	DropSchema(ctx context.Context, pool *pgxpool.Pool) error

	// GenerateData loads raw, deliberately inconsistent data.
	GenerateData(ctx context.Context, pool *pgxpool.Pool, cfg GeneratorConfig) error

	// Rules returns the ordered cleaning rules for a table.
	Rules(table string) ([]normalize.Rule, error)

	// References returns the pruning steps, applied in order.
	References() []Reference

	// BeforeWrite prepares the schema for rewriting tables in place, for
	// example by dropping foreign keys.
	BeforeWrite(ctx context.Context, db DB) error

	// AfterWrite restores constraints, triggers and views once cleaned
	// rows are in place.
	AfterWrite(ctx context.Context, db DB) error
}
