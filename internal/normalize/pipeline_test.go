//-------------------------------------------------------------------------
//
// pgEdge Data Cleaner
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package normalize

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func menuPipeline(t *testing.T, opts ...Option) *Pipeline {
	t.Helper()
	p, err := New([]Rule{
		ControlStrip("menu.cuisine.ctrl", "cuisine"),
		DelimiterSpacing("menu.cuisine.spacing", ",", "cuisine"),
		Integer("menu.price.int", "price"),
		Dedup("menu.dedup", menuIdentity, "menu_id"),
	}, opts...)
	require.NoError(t, err)
	return p
}

func TestPipelineRun(t *testing.T) {
	p := menuPipeline(t)
	input := []Record{
		menuRow(1, 1, "f1", "Indian,Chinese", "100"),
		menuRow(2, 1, "f1", "Indian, Chinese\r", "0100"),
		menuRow(3, 2, "f2", "Chinese", "80"),
	}
	inputBefore := CloneAll(input)

	out, report, err := p.Run(input)
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 3}, menuIDs(out))
	assert.Equal(t, "Indian, Chinese", out[0]["cuisine"])
	assert.Equal(t, "100", out[0]["price"])
	assert.Equal(t, inputBefore, input, "input must not be modified")

	assert.Equal(t, 3, report.InputRecords)
	assert.Equal(t, 2, report.OutputRecords)
	require.Len(t, report.Rules, 4)
	assert.Equal(t, 1, report.Rule("menu.cuisine.ctrl").RecordsChanged)
	assert.Equal(t, 1, report.Rule("menu.cuisine.spacing").RecordsChanged)
	assert.Equal(t, 1, report.Rule("menu.price.int").RecordsChanged)
	assert.Equal(t, 1, report.Rule("menu.dedup").RecordsChanged)
	assert.False(t, report.Failed())

	dedup := report.Rule("menu.dedup")
	require.Len(t, dedup.Samples, 1)
	assert.True(t, dedup.Samples[0].Removed)
	assert.Equal(t, 1, dedup.Samples[0].Index)
}

func TestPipelineIdempotent(t *testing.T) {
	p := menuPipeline(t)
	input := []Record{
		menuRow(1, 1, "f1", "Indian,Chinese", "100"),
		menuRow(2, 1, "f1", "Indian, Chinese\r", "0100"),
	}
	second, err := p.CheckIdempotent(input)
	require.NoError(t, err)
	assert.Zero(t, second.TotalChanged())
}

func TestPipelineFailFast(t *testing.T) {
	for _, workers := range []int{1, 3, 8} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			p := menuPipeline(t, WithWorkers(workers))
			input := make([]Record, 0, 50)
			for i := 0; i < 50; i++ {
				price := "100"
				if i == 17 || i == 41 {
					price = "n/a"
				}
				input = append(input, menuRow(int64(i), int64(i), "f1", "Indian", price))
			}

			out, report, err := p.Run(input)
			require.Error(t, err)
			assert.Nil(t, out)
			assert.True(t, errors.Is(err, ErrMalformedValue))

			var ruleErr *RuleError
			require.True(t, errors.As(err, &ruleErr))
			assert.Equal(t, "menu.price.int", ruleErr.Rule)
			assert.Equal(t, 17, ruleErr.Index)
			assert.Equal(t, "price", ruleErr.Column)
			assert.Equal(t, "n/a", ruleErr.Value)

			require.NotNil(t, report.Failure)
			assert.Equal(t, "menu.price.int", report.Failure.Rule)
			assert.Equal(t, 17, report.Failure.Index)
		})
	}
}

func TestPipelineFailureIndexRefersToInput(t *testing.T) {
	p, err := New([]Rule{
		Dedup("dedup", []string{"k"}, "id"),
		Integer("int", "n"),
	})
	require.NoError(t, err)

	_, report, err := p.Run([]Record{
		{"k": "a", "id": int64(1), "n": "1"},
		{"k": "a", "id": int64(2), "n": "1"},
		{"k": "b", "id": int64(3), "n": "x"},
	})
	require.Error(t, err)
	assert.Equal(t, 2, report.Failure.Index)
}

func TestPipelineParallelMatchesSerial(t *testing.T) {
	input := make([]Record, 0, 200)
	for i := 0; i < 200; i++ {
		cuisine := "Indian,Chinese"
		if i%3 == 0 {
			cuisine = "Indian, Chinese"
		}
		input = append(input, menuRow(int64(i), int64(i%7), "f1", cuisine, fmt.Sprintf("%d", 100+i%5)))
	}

	serialOut, serialReport, err := menuPipeline(t).Run(input)
	require.NoError(t, err)
	parallelOut, parallelReport, err := menuPipeline(t, WithWorkers(6)).Run(input)
	require.NoError(t, err)

	assert.Equal(t, serialOut, parallelOut)
	assert.Equal(t, serialReport, parallelReport)
}

func TestPipelineSampleSize(t *testing.T) {
	p, err := New([]Rule{ControlStrip("ctrl", "currency")}, WithSampleSize(2), WithWorkers(4))
	require.NoError(t, err)

	input := make([]Record, 10)
	for i := range input {
		input[i] = Record{"currency": "INR\r"}
	}
	_, report, err := p.Run(input)
	require.NoError(t, err)

	rr := report.Rule("ctrl")
	assert.Equal(t, 10, rr.RecordsChanged)
	require.Len(t, rr.Samples, 2)
	assert.Equal(t, 0, rr.Samples[0].Index)
	assert.Equal(t, 1, rr.Samples[1].Index)
	assert.Equal(t, "INR\r", rr.Samples[0].Before)
	assert.Equal(t, "INR", rr.Samples[0].After)
}

func TestPipelineEmptyInput(t *testing.T) {
	out, report, err := menuPipeline(t, WithWorkers(4)).Run(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Zero(t, report.OutputRecords)
}

func TestNewRejectsControlStripAfterDedup(t *testing.T) {
	_, err := New([]Rule{
		Dedup("dedup", []string{"currency"}, "id"),
		ControlStrip("ctrl", "currency"),
	})
	assert.ErrorIs(t, err, ErrInvalidRule)
}

func TestNewRejectsDuplicateNames(t *testing.T) {
	_, err := New([]Rule{
		ControlStrip("same", "a"),
		TitleCase("same", "b"),
	})
	assert.ErrorIs(t, err, ErrInvalidRule)
}

func TestNewRejectsNilRule(t *testing.T) {
	_, err := New([]Rule{nil})
	assert.ErrorIs(t, err, ErrInvalidRule)
}

func TestCheckIdempotentDetectsDrift(t *testing.T) {
	p, err := New([]Rule{appendRule{}})
	require.NoError(t, err)

	_, err = p.CheckIdempotent([]Record{{"v": "x"}})
	assert.ErrorIs(t, err, ErrNotIdempotent)
}

// appendRule is deliberately not idempotent.
type appendRule struct{}

func (appendRule) Name() string      { return "append" }
func (appendRule) Kind() string      { return "test" }
func (appendRule) Columns() []string { return []string{"v"} }

func (appendRule) Apply(rec Record) (Record, bool, error) {
	out := rec.Clone()
	out["v"] = rec["v"].(string) + "!"
	return out, true, nil
}
