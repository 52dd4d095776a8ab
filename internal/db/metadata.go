//-------------------------------------------------------------------------
//
// pgEdge Data Cleaner
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package db

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/pgEdge/pgedge-dataclean/internal/logging"
	"github.com/pgEdge/pgedge-dataclean/pkg/version"
)

// MetadataTable records which dataset a database holds and the last clean run.
const MetadataTable = "dataclean_metadata"

// Metadata keys.
const (
	KeyDataset       = "dataset"
	KeyVersion       = "version"
	KeyInitializedAt = "initialized_at"
	KeyTargetSize    = "target_size"
	KeySeed          = "seed"
	KeyLastCleanRun  = "last_clean_run"
	KeyLastCleanAt   = "last_clean_at"
)

const createMetadataTableSQL = `
CREATE TABLE IF NOT EXISTS dataclean_metadata (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
)`

const upsertMetadataSQL = `
INSERT INTO dataclean_metadata (key, value) VALUES ($1, $2)
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`

// SaveMetadata upserts the given key/value pairs, creating the table if
// needed. Keys are written in sorted order.
func SaveMetadata(ctx context.Context, q Querier, values map[string]string) error {
	if _, err := q.Exec(ctx, createMetadataTableSQL); err != nil {
		return fmt.Errorf("failed to create metadata table: %w", err)
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, err := q.Exec(ctx, upsertMetadataSQL, key, values[key]); err != nil {
			return fmt.Errorf("failed to save metadata %s: %w", key, err)
		}
	}
	return nil
}

// SaveInitMetadata records the dataset loaded by the init command.
func SaveInitMetadata(ctx context.Context, q Querier, dataset, targetSize string, seed uint64) error {
	err := SaveMetadata(ctx, q, map[string]string{
		KeyDataset:       dataset,
		KeyVersion:       version.Short(),
		KeyInitializedAt: time.Now().UTC().Format(time.RFC3339),
		KeyTargetSize:    targetSize,
		KeySeed:          fmt.Sprintf("%d", seed),
	})
	if err != nil {
		return err
	}

	logging.Debug().
		Str("dataset", dataset).
		Str("target_size", targetSize).
		Msg("Saved metadata")
	return nil
}

// SaveCleanMetadata records the identifier and time of a clean run.
func SaveCleanMetadata(ctx context.Context, q Querier, runID string, at time.Time) error {
	return SaveMetadata(ctx, q, map[string]string{
		KeyLastCleanRun: runID,
		KeyLastCleanAt:  at.UTC().Format(time.RFC3339),
	})
}

// GetMetadataValue retrieves a single metadata value by key.
func GetMetadataValue(ctx context.Context, q Querier, key string) (string, error) {
	var value string
	err := q.QueryRow(ctx, `
        SELECT value FROM dataclean_metadata WHERE key = $1
    `, key).Scan(&value)
	if err != nil {
		return "", err
	}
	return value, nil
}

// GetAllMetadata retrieves all metadata as a map.
func GetAllMetadata(ctx context.Context, q Querier) (map[string]string, error) {
	rows, err := q.Query(ctx, `SELECT key, value FROM dataclean_metadata`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metadata := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		metadata[key] = value
	}

	return metadata, rows.Err()
}

// DropMetadata drops the metadata table.
func DropMetadata(ctx context.Context, q Querier) error {
	_, err := q.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", MetadataTable))
	return err
}
