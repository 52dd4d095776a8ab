package datagen

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
)

type fakeCopier struct {
	calls int
	rows  [][]any
	err   error
}

func (c *fakeCopier) CopyFrom(ctx context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error) {
	if c.err != nil {
		return 0, c.err
	}
	c.calls++
	var n int64
	for src.Next() {
		values, err := src.Values()
		if err != nil {
			return n, err
		}
		c.rows = append(c.rows, values)
		n++
	}
	return n, nil
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"100B", 100, false},
		{"1KB", 1024, false},
		{"10MB", 10 * 1024 * 1024, false},
		{"1.5GB", 1536 * 1024 * 1024, false},
		{"2tb", 2 * 1024 * 1024 * 1024 * 1024, false},
		{"5 M", 5 * 1024 * 1024, false},
		{"10XB", 0, true},
		{"abc", 0, true},
		{"0MB", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseSize(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseSize(%q) expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSize(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSize(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{512, "512 B"},
		{2048, "2.00 KB"},
		{5 * 1024 * 1024, "5.00 MB"},
		{3 * 1024 * 1024 * 1024, "3.00 GB"},
	}
	for _, tt := range tests {
		if got := FormatSize(tt.bytes); got != tt.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}

func TestSizeCalculator(t *testing.T) {
	calc := NewSizeCalculator([]TableSizeInfo{
		{Name: "parent", BaseRowSize: 100, ScaleRatio: 1, IndexFactor: 1},
		{Name: "child", BaseRowSize: 100, ScaleRatio: 10, IndexFactor: 1},
	})

	counts := calc.CalculateRowCounts(110000)
	if counts["parent"] != 100 {
		t.Errorf("Expected 100 parent rows, got %d", counts["parent"])
	}
	if counts["child"] != 1000 {
		t.Errorf("Expected 1000 child rows, got %d", counts["child"])
	}
	if size := calc.EstimatedSize(counts); size != 110000 {
		t.Errorf("Expected estimated size 110000, got %d", size)
	}

	tiny := calc.CalculateRowCounts(1)
	if tiny["parent"] != 1 {
		t.Errorf("Expected at least one row, got %d", tiny["parent"])
	}
}

func TestBatchWriter(t *testing.T) {
	ctx := context.Background()
	c := &fakeCopier{}
	w := NewBatchWriter(c, "food", []string{"f_id", "item"}, 5,
		BatchInsertConfig{BatchSize: 2, ProgressInterval: 2})

	for i := 0; i < 5; i++ {
		if err := w.Add(ctx, "fd", "Dosa"); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}
	if c.calls != 2 {
		t.Errorf("Expected 2 copies before close, got %d", c.calls)
	}
	if err := w.Close(ctx); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if c.calls != 3 {
		t.Errorf("Expected 3 copies after close, got %d", c.calls)
	}
	if len(c.rows) != 5 || w.Rows() != 5 {
		t.Errorf("Expected 5 rows, got %d copied and %d counted", len(c.rows), w.Rows())
	}
}

func TestBatchWriterArity(t *testing.T) {
	w := NewBatchWriter(&fakeCopier{}, "food", []string{"f_id", "item"}, 1, DefaultBatchConfig())
	if err := w.Add(context.Background(), "fd1"); err == nil {
		t.Error("Expected error for wrong value count")
	}
}

func TestBatchWriterCopyError(t *testing.T) {
	boom := errors.New("boom")
	w := NewBatchWriter(&fakeCopier{err: boom}, "food", []string{"f_id"}, 1, DefaultBatchConfig())
	if err := w.Add(context.Background(), "fd1"); err != nil {
		t.Fatalf("Add should buffer, got %v", err)
	}
	if err := w.Close(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Expected wrapped copy error, got %v", err)
	}
}
