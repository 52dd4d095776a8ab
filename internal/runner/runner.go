//-------------------------------------------------------------------------
//
// pgEdge Data Cleaner
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package runner implements the clean job: load every table of a dataset,
// run its cleaning pipeline, prune dangling references and persist the
// result.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pgEdge/pgedge-dataclean/internal/datasets"
	"github.com/pgEdge/pgedge-dataclean/internal/db"
	"github.com/pgEdge/pgedge-dataclean/internal/logging"
	"github.com/pgEdge/pgedge-dataclean/internal/normalize"
	"github.com/pgEdge/pgedge-dataclean/internal/store"
)

// DB is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// Config holds configuration for a clean run.
type Config struct {
	Dataset    datasets.Dataset
	Workers    int
	SampleSize int

	// DryRun cleans in memory and reports without writing anything.
	DryRun bool

	// Verify re-runs each pipeline on its own output and fails if the
	// second pass changes anything.
	Verify bool

	// Prune removes rows whose references have no parent.
	Prune bool

	// BackupSuffix names the copy taken of each table before it is
	// rewritten in place.
	BackupSuffix string

	// TargetSuffix, when set, writes cleaned rows to <table><suffix> and
	// leaves the source tables untouched.
	TargetSuffix string
}

// TableResult is the outcome for one table.
type TableResult struct {
	Table   string            `json:"table"`
	Report  *normalize.Report `json:"report"`
	Backup  string            `json:"backup,omitempty"`
	Target  string            `json:"target,omitempty"`
	Written int64             `json:"written"`
}

// Result is the outcome of a clean run.
type Result struct {
	RunID    string         `json:"run_id"`
	Dataset  string         `json:"dataset"`
	DryRun   bool           `json:"dry_run"`
	Started  time.Time      `json:"started"`
	Finished time.Time      `json:"finished"`
	Tables   []*TableResult `json:"tables"`
}

// Table returns the result for the named table, or nil.
func (r *Result) Table(name string) *TableResult {
	for _, t := range r.Tables {
		if t.Table == name {
			return t
		}
	}
	return nil
}

// Failure returns the table and failure that aborted the run, if any.
func (r *Result) Failure() (string, *normalize.Failure) {
	for _, t := range r.Tables {
		if t.Report != nil && t.Report.Failed() {
			return t.Table, t.Report.Failure
		}
	}
	return "", nil
}

// Runner executes clean runs.
type Runner struct {
	db  DB
	cfg Config

	now   func() time.Time
	newID func() string
}

// New creates a runner.
func New(conn DB, cfg Config) (*Runner, error) {
	if cfg.Dataset == nil {
		return nil, errors.New("no dataset configured")
	}
	if cfg.TargetSuffix == "" && cfg.BackupSuffix == "" && !cfg.DryRun {
		return nil, errors.New("a backup suffix is required to clean in place")
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.SampleSize < 0 {
		cfg.SampleSize = normalize.DefaultSampleSize
	}

	return &Runner{
		db:    conn,
		cfg:   cfg,
		now:   time.Now,
		newID: uuid.NewString,
	}, nil
}

// Run performs one clean run. On a rule failure the returned result holds
// the reports gathered so far, including the failing table's.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	ds := r.cfg.Dataset
	result := &Result{
		RunID:   r.newID(),
		Dataset: ds.Name(),
		DryRun:  r.cfg.DryRun,
		Started: r.now(),
	}

	logging.Info().
		Str("run_id", result.RunID).
		Str("dataset", ds.Name()).
		Int("workers", r.cfg.Workers).
		Bool("dry_run", r.cfg.DryRun).
		Msg("Starting clean run")

	defs := ds.Tables()
	cleaned := make(map[string][]normalize.Record, len(defs))

	for _, def := range defs {
		records, tr, err := r.cleanTable(ctx, def)
		if tr != nil {
			result.Tables = append(result.Tables, tr)
		}
		if err != nil {
			result.Finished = r.now()
			return result, err
		}
		cleaned[def.Name] = records
	}

	if r.cfg.Prune {
		if err := r.prune(result, cleaned); err != nil {
			result.Finished = r.now()
			return result, err
		}
	}

	if !r.cfg.DryRun {
		if err := r.persist(ctx, result, defs, cleaned); err != nil {
			result.Finished = r.now()
			return result, err
		}
	}

	result.Finished = r.now()
	logging.Info().
		Str("run_id", result.RunID).
		Dur("elapsed", result.Finished.Sub(result.Started)).
		Msg("Clean run complete")
	return result, nil
}

func (r *Runner) cleanTable(ctx context.Context, def datasets.TableDefinition) ([]normalize.Record, *TableResult, error) {
	log := logging.WithTable(def.Name)

	rules, err := r.cfg.Dataset.Rules(def.Name)
	if err != nil {
		return nil, nil, err
	}
	p, err := normalize.New(rules,
		normalize.WithWorkers(r.cfg.Workers),
		normalize.WithSampleSize(r.cfg.SampleSize))
	if err != nil {
		return nil, nil, fmt.Errorf("invalid rules for %s: %w", def.Name, err)
	}

	records, err := store.LoadTable(ctx, r.db, def)
	if err != nil {
		return nil, nil, err
	}

	out, report, err := p.Run(records)
	tr := &TableResult{Table: def.Name, Report: report}
	if err != nil {
		log.Error().Err(err).Msg("Cleaning failed")
		return nil, tr, fmt.Errorf("table %s: %w", def.Name, err)
	}

	if r.cfg.Verify {
		if _, err := p.CheckIdempotent(records); err != nil {
			return nil, tr, fmt.Errorf("table %s: %w", def.Name, err)
		}
	}

	log.Info().
		Int("rows", report.InputRecords).
		Int("changed", report.TotalChanged()).
		Int("kept", report.OutputRecords).
		Msg("Table cleaned")
	return out, tr, nil
}

// prune applies each reference in order against the cleaned parents.
func (r *Runner) prune(result *Result, cleaned map[string][]normalize.Record) error {
	for _, ref := range r.cfg.Dataset.References() {
		child := result.Table(ref.Child)
		if child == nil || result.Table(ref.Parent) == nil {
			return fmt.Errorf("reference %s.%s -> %s.%s names an unknown table",
				ref.Child, ref.Column, ref.Parent, ref.ParentKey)
		}

		res := normalize.Prune(cleaned[ref.Child], ref.Column, cleaned[ref.Parent], ref.ParentKey)
		cleaned[ref.Child] = res.Kept
		child.Report.AddPrune(normalize.PruneReport{
			Child:     ref.Child,
			Column:    ref.Column,
			Parent:    ref.Parent,
			ParentKey: ref.ParentKey,
			Before:    len(res.Backup),
			Pruned:    len(res.Pruned),
		})

		if len(res.Pruned) > 0 {
			logging.Warn().
				Str("table", ref.Child).
				Str("column", ref.Column).
				Str("parent", ref.Parent).
				Int("pruned", len(res.Pruned)).
				Msg("Removed rows with no matching parent")
		}
	}
	return nil
}

// persist writes every table in one transaction.
func (r *Runner) persist(ctx context.Context, result *Result, defs []datasets.TableDefinition, cleaned map[string][]normalize.Record) error {
	ds := r.cfg.Dataset
	inPlace := r.cfg.TargetSuffix == ""

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if inPlace {
		if err := ds.BeforeWrite(ctx, tx); err != nil {
			return err
		}
	}

	for _, def := range defs {
		tr := result.Table(def.Name)
		if inPlace {
			tr.Backup, err = store.BackupTable(ctx, tx, def.Name, r.cfg.BackupSuffix)
			if err != nil {
				return err
			}
			tr.Written, err = store.ReplaceTable(ctx, tx, def, cleaned[def.Name])
		} else {
			tr.Target = def.Name + r.cfg.TargetSuffix
			tr.Written, err = store.WriteTable(ctx, tx, def, tr.Target, cleaned[def.Name])
		}
		if err != nil {
			return err
		}
	}

	if inPlace {
		if err := ds.AfterWrite(ctx, tx); err != nil {
			return err
		}
	}

	if err := db.SaveCleanMetadata(ctx, tx, result.RunID, r.now()); err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}
