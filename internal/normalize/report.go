//-------------------------------------------------------------------------
//
// pgEdge Data Cleaner
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package normalize

// DefaultSampleSize is the number of before/after samples kept per rule.
const DefaultSampleSize = 5

// Diff is a single before/after sample. Index is the position of the
// record in the pipeline input. Removed is set for records dropped by a
// set rule.
type Diff struct {
	Index   int    `json:"index"`
	Column  string `json:"column,omitempty"`
	Before  any    `json:"before"`
	After   any    `json:"after"`
	Removed bool   `json:"removed,omitempty"`
}

// RuleReport summarizes the effect of one rule.
type RuleReport struct {
	Rule           string `json:"rule"`
	Kind           string `json:"kind"`
	RecordsChanged int    `json:"records_changed"`
	Samples        []Diff `json:"sample_diffs,omitempty"`
}

// PruneReport summarizes one referential pruning step.
type PruneReport struct {
	Child     string `json:"child"`
	Column    string `json:"column"`
	Parent    string `json:"parent"`
	ParentKey string `json:"parent_key"`
	Before    int    `json:"before"`
	Pruned    int    `json:"pruned"`
}

// Failure records the rule and input record index that aborted a run.
type Failure struct {
	Rule    string `json:"rule"`
	Index   int    `json:"index"`
	Column  string `json:"column,omitempty"`
	Message string `json:"message"`
}

// Report accumulates the outcome of a pipeline run.
type Report struct {
	InputRecords  int            `json:"input_records"`
	OutputRecords int            `json:"output_records"`
	Rules         []*RuleReport  `json:"rules"`
	Prunes        []*PruneReport `json:"prunes,omitempty"`
	Failure       *Failure       `json:"failure,omitempty"`
}

// Rule returns the report for the named rule, or nil.
func (r *Report) Rule(name string) *RuleReport {
	for _, rr := range r.Rules {
		if rr.Rule == name {
			return rr
		}
	}
	return nil
}

// TotalChanged returns the sum of records changed over all rules.
func (r *Report) TotalChanged() int {
	total := 0
	for _, rr := range r.Rules {
		total += rr.RecordsChanged
	}
	return total
}

// TotalPruned returns the number of records removed by pruning.
func (r *Report) TotalPruned() int {
	total := 0
	for _, p := range r.Prunes {
		total += p.Pruned
	}
	return total
}

// AddPrune appends a pruning outcome and adjusts the output count.
func (r *Report) AddPrune(p PruneReport) {
	r.Prunes = append(r.Prunes, &p)
	r.OutputRecords -= p.Pruned
	if r.OutputRecords < 0 {
		r.OutputRecords = 0
	}
}

// Failed reports whether the run was aborted.
func (r *Report) Failed() bool {
	return r.Failure != nil
}
