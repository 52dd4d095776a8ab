package db

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveCleanMetadata(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS dataclean_metadata")).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO dataclean_metadata")).
		WithArgs(KeyLastCleanAt, "2026-03-01T12:00:00Z").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO dataclean_metadata")).
		WithArgs(KeyLastCleanRun, "run-1").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = SaveCleanMetadata(context.Background(), mock, "run-1", at)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveMetadataCreateFails(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS dataclean_metadata")).
		WillReturnError(assert.AnError)

	err = SaveMetadata(context.Background(), mock, map[string]string{"k": "v"})
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMetadataValue(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM dataclean_metadata WHERE key = $1")).
		WithArgs(KeyDataset).
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow("fooddelivery"))

	value, err := GetMetadataValue(context.Background(), mock, KeyDataset)
	require.NoError(t, err)
	assert.Equal(t, "fooddelivery", value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllMetadata(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT key, value FROM dataclean_metadata")).
		WillReturnRows(pgxmock.NewRows([]string{"key", "value"}).
			AddRow(KeyDataset, "fooddelivery").
			AddRow(KeySeed, "42"))

	md, err := GetAllMetadata(context.Background(), mock)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{KeyDataset: "fooddelivery", KeySeed: "42"}, md)
	assert.NoError(t, mock.ExpectationsWereMet())
}
