//-------------------------------------------------------------------------
//
// pgEdge Data Cleaner
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package store reads table snapshots into records and writes cleaned
// records back to PostgreSQL.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pgEdge/pgedge-dataclean/internal/datasets"
	"github.com/pgEdge/pgedge-dataclean/internal/logging"
	"github.com/pgEdge/pgedge-dataclean/internal/normalize"
)

// DB is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

func quoteColumns(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = pgx.Identifier{c}.Sanitize()
	}
	return strings.Join(quoted, ", ")
}

// LoadTable reads a full snapshot of a table ordered by its key. Values
// are returned as string, int64 or nil.
func LoadTable(ctx context.Context, db DB, def datasets.TableDefinition) ([]normalize.Record, error) {
	cols := def.ColumnNames()
	sql := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
		quoteColumns(cols),
		pgx.Identifier{def.Name}.Sanitize(),
		pgx.Identifier{def.Key}.Sanitize())

	rows, err := db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", def.Name, err)
	}
	defer rows.Close()

	var records []normalize.Record
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s row: %w", def.Name, err)
		}
		if len(values) != len(cols) {
			return nil, fmt.Errorf("table %s: expected %d columns, got %d", def.Name, len(cols), len(values))
		}
		rec := make(normalize.Record, len(cols))
		for i, col := range cols {
			v, err := loadValue(values[i])
			if err != nil {
				return nil, fmt.Errorf("table %s column %s: %w", def.Name, col, err)
			}
			rec[col] = v
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", def.Name, err)
	}

	logging.Debug().
		Str("table", def.Name).
		Int("rows", len(records)).
		Msg("Loaded table snapshot")
	return records, nil
}

// BackupTable copies table into table+suffix, replacing any previous
// backup, and returns the backup table name.
func BackupTable(ctx context.Context, db DB, table, suffix string) (string, error) {
	if suffix == "" {
		return "", fmt.Errorf("backup suffix must not be empty")
	}
	name := table + suffix
	ident := pgx.Identifier{name}.Sanitize()

	if _, err := db.Exec(ctx, "DROP TABLE IF EXISTS "+ident); err != nil {
		return "", fmt.Errorf("failed to drop old backup %s: %w", name, err)
	}
	sql := fmt.Sprintf("CREATE TABLE %s AS TABLE %s", ident, pgx.Identifier{table}.Sanitize())
	if _, err := db.Exec(ctx, sql); err != nil {
		return "", fmt.Errorf("failed to back up %s: %w", table, err)
	}
	return name, nil
}

// ReplaceTable empties the table and loads records into it. Run it inside
// a transaction so a failed copy leaves the original rows in place.
func ReplaceTable(ctx context.Context, db DB, def datasets.TableDefinition, records []normalize.Record) (int64, error) {
	if _, err := db.Exec(ctx, "DELETE FROM "+pgx.Identifier{def.Name}.Sanitize()); err != nil {
		return 0, fmt.Errorf("failed to empty %s: %w", def.Name, err)
	}
	return copyRecords(ctx, db, def, def.Name, records)
}

// WriteTable creates target with the structure of the source table and
// loads records into it. An existing target is dropped first.
func WriteTable(ctx context.Context, db DB, def datasets.TableDefinition, target string, records []normalize.Record) (int64, error) {
	if target == def.Name {
		return 0, fmt.Errorf("target table must differ from %s", def.Name)
	}
	ident := pgx.Identifier{target}.Sanitize()

	if _, err := db.Exec(ctx, "DROP TABLE IF EXISTS "+ident); err != nil {
		return 0, fmt.Errorf("failed to drop %s: %w", target, err)
	}
	sql := fmt.Sprintf("CREATE TABLE %s (LIKE %s INCLUDING ALL)", ident, pgx.Identifier{def.Name}.Sanitize())
	if _, err := db.Exec(ctx, sql); err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", target, err)
	}
	return copyRecords(ctx, db, def, target, records)
}

func copyRecords(ctx context.Context, db DB, def datasets.TableDefinition, table string, records []normalize.Record) (int64, error) {
	rows := make([][]any, len(records))
	for i, rec := range records {
		row := make([]any, len(def.Columns))
		for j, col := range def.Columns {
			v, err := storeValue(col, rec[col.Name])
			if err != nil {
				return 0, fmt.Errorf("table %s row %d column %s: %w", table, i, col.Name, err)
			}
			row[j] = v
		}
		rows[i] = row
	}

	n, err := db.CopyFrom(ctx, pgx.Identifier{table}, def.ColumnNames(), pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("failed to copy into %s: %w", table, err)
	}

	logging.Debug().
		Str("table", table).
		Int64("rows", n).
		Msg("Wrote cleaned rows")
	return n, nil
}
