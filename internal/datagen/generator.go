//-------------------------------------------------------------------------
//
// pgEdge Data Cleaner
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package datagen provides raw data generation utilities: seeded fake
// values, defect injection and bulk loading.
package datagen

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/pgEdge/pgedge-dataclean/internal/logging"
)

// Copier is the subset of *pgxpool.Pool, *pgx.Conn and pgx.Tx used for
// bulk loading.
type Copier interface {
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// BatchInsertConfig configures batch insert behavior.
type BatchInsertConfig struct {
	// BatchSize is the number of rows per COPY.
	BatchSize int

	// ProgressInterval is how often to log progress (in rows).
	ProgressInterval int64
}

// DefaultBatchConfig returns default batch insert configuration.
func DefaultBatchConfig() BatchInsertConfig {
	return BatchInsertConfig{
		BatchSize:        5000,
		ProgressInterval: 50000,
	}
}

// ProgressReporter tracks and reports data generation progress.
type ProgressReporter struct {
	tableName        string
	totalRows        int64
	currentRow       int64
	progressInterval int64
}

// NewProgressReporter creates a new progress reporter.
func NewProgressReporter(tableName string, totalRows int64, interval int64) *ProgressReporter {
	return &ProgressReporter{
		tableName:        tableName,
		totalRows:        totalRows,
		progressInterval: interval,
	}
}

// Update updates the progress and logs if necessary.
func (p *ProgressReporter) Update(rowsInserted int64) {
	oldRow := p.currentRow
	p.currentRow += rowsInserted

	if p.progressInterval <= 0 || p.totalRows <= 0 {
		return
	}
	// Check if we crossed a progress interval
	if p.currentRow/p.progressInterval > oldRow/p.progressInterval {
		pct := float64(p.currentRow) / float64(p.totalRows) * 100
		logging.Info().
			Str("table", p.tableName).
			Int64("rows", p.currentRow).
			Int64("total", p.totalRows).
			Float64("percent", pct).
			Msg("Generating data")
	}
}

// Rows returns the number of rows reported so far.
func (p *ProgressReporter) Rows() int64 {
	return p.currentRow
}

// Done logs completion.
func (p *ProgressReporter) Done() {
	logging.Info().
		Str("table", p.tableName).
		Int64("rows", p.currentRow).
		Msg("Table complete")
}

// SizeCalculator helps calculate row counts based on target size.
type SizeCalculator struct {
	tables []TableSizeInfo
}

// TableSizeInfo holds size information for a table.
type TableSizeInfo struct {
	Name        string
	BaseRowSize int64   // Average row size in bytes
	ScaleRatio  float64 // Ratio relative to base table
	IndexFactor float64 // Estimated index overhead (e.g., 1.3 = 30% overhead)
}

// NewSizeCalculator creates a new size calculator.
func NewSizeCalculator(tables []TableSizeInfo) *SizeCalculator {
	return &SizeCalculator{tables: tables}
}

// CalculateRowCounts calculates row counts for each table given a target size.
func (c *SizeCalculator) CalculateRowCounts(targetSize int64) map[string]int64 {
	// Calculate total size per scale unit
	var sizePerUnit float64
	for _, t := range c.tables {
		// Size per table = base_row_size * scale_ratio * index_factor
		indexFactor := t.IndexFactor
		if indexFactor == 0 {
			indexFactor = 1.3 // Default 30% index overhead
		}
		sizePerUnit += float64(t.BaseRowSize) * t.ScaleRatio * indexFactor
	}

	if sizePerUnit == 0 {
		return make(map[string]int64)
	}

	// Calculate scale factor
	scaleFactor := float64(targetSize) / sizePerUnit

	// Calculate row counts
	rowCounts := make(map[string]int64)
	for _, t := range c.tables {
		rows := int64(scaleFactor * t.ScaleRatio)
		if rows < 1 {
			rows = 1
		}
		rowCounts[t.Name] = rows
	}

	return rowCounts
}

// EstimatedSize returns the estimated size for given row counts.
func (c *SizeCalculator) EstimatedSize(rowCounts map[string]int64) int64 {
	var total int64
	for _, t := range c.tables {
		rows := rowCounts[t.Name]
		indexFactor := t.IndexFactor
		if indexFactor == 0 {
			indexFactor = 1.3
		}
		total += int64(float64(rows) * float64(t.BaseRowSize) * indexFactor)
	}
	return total
}

// FormatSize formats a byte count as a human-readable string.
func FormatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
		TB = GB * 1024
	)

	switch {
	case bytes >= TB:
		return fmt.Sprintf("%.2f TB", float64(bytes)/float64(TB))
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// BatchWriter buffers generated rows and loads them with COPY once a batch
// fills up.
type BatchWriter struct {
	db       Copier
	table    string
	columns  []string
	cfg      BatchInsertConfig
	rows     [][]any
	progress *ProgressReporter
}

// NewBatchWriter creates a writer for table. total is the expected row
// count and only drives progress logging.
func NewBatchWriter(db Copier, table string, columns []string, total int64, cfg BatchInsertConfig) *BatchWriter {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchConfig().BatchSize
	}
	return &BatchWriter{
		db:       db,
		table:    table,
		columns:  columns,
		cfg:      cfg,
		rows:     make([][]any, 0, cfg.BatchSize),
		progress: NewProgressReporter(table, total, cfg.ProgressInterval),
	}
}

// Add buffers one row, flushing when the batch is full.
func (w *BatchWriter) Add(ctx context.Context, values ...any) error {
	if len(values) != len(w.columns) {
		return fmt.Errorf("table %s: expected %d values, got %d", w.table, len(w.columns), len(values))
	}
	w.rows = append(w.rows, values)
	if len(w.rows) >= w.cfg.BatchSize {
		return w.Flush(ctx)
	}
	return nil
}

// Flush copies any buffered rows.
func (w *BatchWriter) Flush(ctx context.Context) error {
	if len(w.rows) == 0 {
		return nil
	}
	n, err := w.db.CopyFrom(ctx, pgx.Identifier{w.table}, w.columns, pgx.CopyFromRows(w.rows))
	if err != nil {
		return fmt.Errorf("failed to copy into %s: %w", w.table, err)
	}
	w.progress.Update(n)
	w.rows = w.rows[:0]
	return nil
}

// Close flushes the remaining rows and logs completion.
func (w *BatchWriter) Close(ctx context.Context) error {
	if err := w.Flush(ctx); err != nil {
		return err
	}
	w.progress.Done()
	return nil
}

// Rows returns the number of rows written so far.
func (w *BatchWriter) Rows() int64 {
	return w.progress.Rows()
}

// ParseSize converts a size string (e.g., "5GB", "500MB") to bytes.
func ParseSize(s string) (int64, error) {
	var value float64
	var unit string

	_, err := fmt.Sscanf(strings.TrimSpace(s), "%f%s", &value, &unit)
	if err != nil {
		return 0, fmt.Errorf("invalid size format: %s", s)
	}
	if value <= 0 {
		return 0, fmt.Errorf("size must be positive: %s", s)
	}

	var multiplier int64
	switch strings.ToUpper(unit) {
	case "B":
		multiplier = 1
	case "KB", "K":
		multiplier = 1024
	case "MB", "M":
		multiplier = 1024 * 1024
	case "GB", "G":
		multiplier = 1024 * 1024 * 1024
	case "TB", "T":
		multiplier = 1024 * 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unknown size unit: %s", unit)
	}

	return int64(value * float64(multiplier)), nil
}
