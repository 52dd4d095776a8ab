//-------------------------------------------------------------------------
//
// pgEdge Data Cleaner
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package report renders clean run results and rule listings.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/pgEdge/pgedge-dataclean/internal/datasets"
	"github.com/pgEdge/pgedge-dataclean/internal/normalize"
	"github.com/pgEdge/pgedge-dataclean/internal/runner"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// ValidFormat reports whether format is a supported output format.
func ValidFormat(format string) bool {
	return format == FormatTable || format == FormatJSON
}

// Render writes a clean run result in the given format.
func Render(w io.Writer, result *runner.Result, format string) error {
	switch format {
	case FormatJSON:
		return renderJSON(w, result)
	case FormatTable, "":
		renderResultTable(w, result)
		return nil
	}
	return fmt.Errorf("unknown format: %s", format)
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	if title != "" {
		t.SetTitle(title)
	}
	return t
}

func renderResultTable(w io.Writer, result *runner.Result) {
	mode := "applied"
	if result.DryRun {
		mode = "dry run"
	}
	_, _ = fmt.Fprintf(w, "Run %s (%s, %s)\n", result.RunID, result.Dataset, mode)

	summary := newTable(w, "Tables")
	summary.AppendHeader(table.Row{"Table", "Input", "Changed", "Pruned", "Output", "Written", "Copy"})
	for _, tr := range result.Tables {
		r := tr.Report
		summary.AppendRow(table.Row{
			tr.Table,
			r.InputRecords,
			r.TotalChanged(),
			r.TotalPruned(),
			r.OutputRecords,
			tr.Written,
			firstNonEmpty(tr.Target, tr.Backup),
		})
	}
	summary.Render()

	rules := newTable(w, "Rules")
	rules.AppendHeader(table.Row{"Table", "Rule", "Kind", "Changed"})
	for _, tr := range result.Tables {
		for _, rr := range tr.Report.Rules {
			rules.AppendRow(table.Row{tr.Table, rr.Rule, rr.Kind, rr.RecordsChanged})
		}
	}
	rules.Render()

	samples := newTable(w, "Samples")
	samples.AppendHeader(table.Row{"Rule", "Row", "Column", "Before", "After"})
	n := 0
	for _, tr := range result.Tables {
		for _, rr := range tr.Report.Rules {
			for _, d := range rr.Samples {
				samples.AppendRow(sampleRow(rr.Rule, d))
				n++
			}
		}
	}
	if n > 0 {
		samples.Render()
	}

	prunes := newTable(w, "Referential pruning")
	prunes.AppendHeader(table.Row{"Reference", "Before", "Pruned"})
	n = 0
	for _, tr := range result.Tables {
		for _, p := range tr.Report.Prunes {
			ref := fmt.Sprintf("%s.%s -> %s.%s", p.Child, p.Column, p.Parent, p.ParentKey)
			prunes.AppendRow(table.Row{ref, p.Before, p.Pruned})
			n++
		}
	}
	if n > 0 {
		prunes.Render()
	}

	if name, f := result.Failure(); f != nil {
		_, _ = fmt.Fprintf(w, "FAILED: table %s, rule %s, row %d: %s\n", name, f.Rule, f.Index, f.Message)
	}
}

func sampleRow(rule string, d normalize.Diff) table.Row {
	if d.Removed {
		return table.Row{rule, d.Index, d.Column, FormatValue(d.Before), "(removed)"}
	}
	return table.Row{rule, d.Index, d.Column, FormatValue(d.Before), FormatValue(d.After)}
}

// FormatValue renders a record value for display. Control characters are
// escaped so they stay visible.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "NULL"
	case string:
		q := strconv.Quote(t)
		return q[1 : len(q)-1]
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + "=" + FormatValue(t[k])
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(t)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// RuleInfo describes one rule of a dataset for listing.
type RuleInfo struct {
	Table   string   `json:"table"`
	Order   int      `json:"order"`
	Rule    string   `json:"rule"`
	Kind    string   `json:"kind"`
	Columns []string `json:"columns"`
}

// DatasetRules collects the rules of every table of a dataset, in
// application order.
func DatasetRules(ds datasets.Dataset) ([]RuleInfo, error) {
	var infos []RuleInfo
	for _, def := range ds.Tables() {
		rules, err := ds.Rules(def.Name)
		if err != nil {
			return nil, err
		}
		for i, r := range rules {
			infos = append(infos, RuleInfo{
				Table:   def.Name,
				Order:   i + 1,
				Rule:    r.Name(),
				Kind:    r.Kind(),
				Columns: r.Columns(),
			})
		}
	}
	return infos, nil
}

// RenderRules writes the rules and references of a dataset.
func RenderRules(w io.Writer, ds datasets.Dataset, format string) error {
	infos, err := DatasetRules(ds)
	if err != nil {
		return err
	}

	switch format {
	case FormatJSON:
		return renderJSON(w, struct {
			Dataset    string               `json:"dataset"`
			Rules      []RuleInfo           `json:"rules"`
			References []datasets.Reference `json:"references"`
		}{ds.Name(), infos, ds.References()})
	case FormatTable, "":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	t := newTable(w, "Rules: "+ds.Name())
	t.AppendHeader(table.Row{"Table", "#", "Rule", "Kind", "Columns"})
	for _, info := range infos {
		t.AppendRow(table.Row{info.Table, info.Order, info.Rule, info.Kind, strings.Join(info.Columns, ", ")})
	}
	t.Render()

	refs := newTable(w, "References")
	refs.AppendHeader(table.Row{"#", "Child", "Parent"})
	for i, ref := range ds.References() {
		refs.AppendRow(table.Row{i + 1, ref.Child + "." + ref.Column, ref.Parent + "." + ref.ParentKey})
	}
	refs.Render()
	return nil
}

// RenderDatasets writes the registered datasets.
func RenderDatasets(w io.Writer, all []datasets.Dataset, format string) error {
	type entry struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Tables      []string `json:"tables"`
	}
	entries := make([]entry, len(all))
	for i, ds := range all {
		e := entry{Name: ds.Name(), Description: ds.Description()}
		for _, def := range ds.Tables() {
			e.Tables = append(e.Tables, def.Name)
		}
		entries[i] = e
	}

	switch format {
	case FormatJSON:
		return renderJSON(w, entries)
	case FormatTable, "":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	t := newTable(w, "")
	t.AppendHeader(table.Row{"Dataset", "Tables", "Description"})
	for _, e := range entries {
		t.AppendRow(table.Row{e.Name, strings.Join(e.Tables, ", "), e.Description})
	}
	t.Render()
	return nil
}
