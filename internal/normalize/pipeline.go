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

	"golang.org/x/sync/errgroup"
)

// Pipeline applies an ordered list of rules to a record set.
type Pipeline struct {
	rules      []Rule
	workers    int
	sampleSize int
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithWorkers sets how many goroutines a record rule may use. Values below
// one mean a single worker.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		p.workers = max(1, n)
	}
}

// WithSampleSize sets how many before/after samples are kept per rule.
func WithSampleSize(n int) Option {
	return func(p *Pipeline) {
		p.sampleSize = max(0, n)
	}
}

// New builds a pipeline from rules, applied in the given order.
func New(rules []Rule, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		rules:      append([]Rule(nil), rules...),
		workers:    1,
		sampleSize: DefaultSampleSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	if err := validate(p.rules); err != nil {
		return nil, err
	}
	return p, nil
}

// Rules returns the rules in application order.
func (p *Pipeline) Rules() []Rule {
	return append([]Rule(nil), p.rules...)
}

func validate(rules []Rule) error {
	seen := make(map[string]bool, len(rules))
	for i, r := range rules {
		if r == nil {
			return fmt.Errorf("%w: rule %d is nil", ErrInvalidRule, i)
		}
		if seen[r.Name()] {
			return fmt.Errorf("%w: duplicate rule name %q", ErrInvalidRule, r.Name())
		}
		seen[r.Name()] = true

		switch r.(type) {
		case RecordRule, SetRule:
		default:
			return fmt.Errorf("%w: %s is neither a record nor a set rule", ErrInvalidRule, r.Name())
		}

		if _, ok := r.(SetRule); !ok {
			continue
		}
		// Control characters make equal-looking values compare unequal, so
		// stripping must happen before grouping on the same column.
		grouped := make(map[string]bool)
		for _, c := range r.Columns() {
			grouped[c] = true
		}
		for _, later := range rules[i+1:] {
			if later == nil || later.Kind() != KindControlStrip {
				continue
			}
			for _, c := range later.Columns() {
				if grouped[c] {
					return fmt.Errorf("%w: %s strips column %q after %s groups by it",
						ErrInvalidRule, later.Name(), c, r.Name())
				}
			}
		}
	}
	return nil
}

// Run applies every rule in order and returns the cleaned records and a
// report. The input is not modified. Any rule error aborts the run: the
// result is nil, the error is a *RuleError, and the report's Failure names
// the rule and input record index.
func (p *Pipeline) Run(records []Record) ([]Record, *Report, error) {
	report := &Report{
		InputRecords: len(records),
		Rules:        make([]*RuleReport, 0, len(p.rules)),
	}

	cur := CloneAll(records)
	origin := make([]int, len(cur))
	for i := range origin {
		origin[i] = i
	}

	for _, rule := range p.rules {
		var (
			rr  *RuleReport
			err *RuleError
		)
		switch r := rule.(type) {
		case RecordRule:
			cur, rr, err = p.applyRecordRule(r, cur, origin)
		case SetRule:
			cur, origin, rr, err = p.applySetRule(r, cur, origin)
		}
		if err != nil {
			report.Failure = &Failure{
				Rule:    err.Rule,
				Index:   err.Index,
				Column:  err.Column,
				Message: err.Error(),
			}
			return nil, report, err
		}
		report.Rules = append(report.Rules, rr)
	}

	report.OutputRecords = len(cur)
	return cur, report, nil
}

// CheckIdempotent runs the pipeline, then runs it again on its own output.
// It returns ErrNotIdempotent when the second pass changes anything; the
// returned report is the one from the second pass.
func (p *Pipeline) CheckIdempotent(records []Record) (*Report, error) {
	cleaned, _, err := p.Run(records)
	if err != nil {
		return nil, err
	}
	_, second, err := p.Run(cleaned)
	if err != nil {
		return second, err
	}
	if n := second.TotalChanged(); n > 0 {
		return second, fmt.Errorf("%w: %d records changed on second pass", ErrNotIdempotent, n)
	}
	return second, nil
}

type chunkResult struct {
	changed int
	samples []Diff
	err     *RuleError
}

func (p *Pipeline) applyRecordRule(rule RecordRule, records []Record, origin []int) ([]Record, *RuleReport, *RuleError) {
	out := make([]Record, len(records))
	n := len(records)
	workers := min(p.workers, n)
	if workers < 1 {
		workers = 1
	}
	chunkSize := (n + workers - 1) / workers
	if chunkSize == 0 {
		chunkSize = 1
	}
	numChunks := (n + chunkSize - 1) / chunkSize
	results := make([]chunkResult, numChunks)

	var g errgroup.Group
	g.SetLimit(workers)
	for c := 0; c < numChunks; c++ {
		start := c * chunkSize
		end := min(start+chunkSize, n)
		g.Go(func() error {
			results[c] = p.applyChunk(rule, records, origin, out, start, end)
			return nil
		})
	}
	_ = g.Wait()

	rr := &RuleReport{Rule: rule.Name(), Kind: rule.Kind()}
	var firstErr *RuleError
	for _, res := range results {
		if res.err != nil && (firstErr == nil || res.err.Index < firstErr.Index) {
			firstErr = res.err
		}
		rr.RecordsChanged += res.changed
		for _, d := range res.samples {
			if len(rr.Samples) < p.sampleSize {
				rr.Samples = append(rr.Samples, d)
			}
		}
	}
	if firstErr != nil {
		return nil, nil, firstErr
	}
	return out, rr, nil
}

// applyChunk processes records[start:end]. It stops at the first error in
// the chunk, so the caller can pick the lowest failing index.
func (p *Pipeline) applyChunk(rule RecordRule, records []Record, origin []int, out []Record, start, end int) chunkResult {
	var res chunkResult
	for i := start; i < end; i++ {
		rec := records[i]
		updated, changed, err := rule.Apply(rec)
		if err != nil {
			res.err = newRuleError(rule.Name(), origin[i], err)
			return res
		}
		out[i] = updated
		if !changed {
			continue
		}
		res.changed++
		if len(res.samples) < p.sampleSize {
			res.samples = append(res.samples, diffRecord(origin[i], rule.Columns(), rec, updated)...)
			if len(res.samples) > p.sampleSize {
				res.samples = res.samples[:p.sampleSize]
			}
		}
	}
	return res
}

func (p *Pipeline) applySetRule(rule SetRule, records []Record, origin []int) ([]Record, []int, *RuleReport, *RuleError) {
	kept, removed, err := rule.ApplySet(records)
	if err != nil {
		return nil, nil, nil, newRuleError(rule.Name(), -1, err)
	}

	rr := &RuleReport{
		Rule:           rule.Name(),
		Kind:           rule.Kind(),
		RecordsChanged: len(removed),
	}
	gone := make(map[int]bool, len(removed))
	for _, i := range removed {
		gone[i] = true
		if len(rr.Samples) < p.sampleSize {
			rr.Samples = append(rr.Samples, Diff{
				Index:   origin[i],
				Before:  describe(records[i], rule.Columns()),
				Removed: true,
			})
		}
	}

	nextOrigin := make([]int, 0, len(kept))
	for i := range records {
		if !gone[i] {
			nextOrigin = append(nextOrigin, origin[i])
		}
	}
	return kept, nextOrigin, rr, nil
}

func newRuleError(rule string, index int, err error) *RuleError {
	re := &RuleError{Rule: rule, Index: index, Err: err}
	var ce *columnError
	if errors.As(err, &ce) {
		re.Column = ce.column
		re.Value = ce.value
		re.Err = ce.err
	}
	return re
}

func diffRecord(index int, columns []string, before, after Record) []Diff {
	var diffs []Diff
	for _, col := range columns {
		b, a := before[col], after[col]
		if !valuesEqual(b, a) {
			diffs = append(diffs, Diff{Index: index, Column: col, Before: b, After: a})
		}
	}
	return diffs
}

func describe(rec Record, columns []string) map[string]any {
	out := make(map[string]any, len(columns))
	for _, c := range columns {
		out[c] = rec[c]
	}
	return out
}
