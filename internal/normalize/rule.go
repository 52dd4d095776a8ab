//-------------------------------------------------------------------------
//
// pgEdge Data Cleaner
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package normalize

// Rule kinds, as reported by Rule.Kind.
const (
	KindDelimiterSpacing = "delimiter-spacing"
	KindTitleCase        = "title-case"
	KindNoiseStrip       = "noise-strip"
	KindRemap            = "remap"
	KindControlStrip     = "control-strip"
	KindNumericSuffix    = "numeric-suffix"
	KindInteger          = "integer"
	KindDedup            = "dedup"
)

// Rule is a named cleaning step scoped to one or more columns. Every rule
// must be idempotent.
type Rule interface {
	// Name identifies the rule in reports and errors.
	Name() string

	// Kind returns the rule type (one of the Kind constants).
	Kind() string

	// Columns returns the columns the rule reads or rewrites.
	Columns() []string
}

// RecordRule transforms one record at a time. Apply must not mutate its
// argument; it returns the (possibly new) record and whether it changed.
type RecordRule interface {
	Rule
	Apply(rec Record) (Record, bool, error)
}

// SetRule operates on the whole record set. ApplySet returns the retained
// records and the input indexes it removed, in ascending order.
type SetRule interface {
	Rule
	ApplySet(records []Record) ([]Record, []int, error)
}

// valueFunc rewrites a single column value.
type valueFunc func(v any) (any, error)

// columnRule applies a valueFunc to each configured column that is present
// in the record. Missing columns are skipped.
type columnRule struct {
	name    string
	kind    string
	columns []string
	fn      valueFunc
}

func (r *columnRule) Name() string      { return r.name }
func (r *columnRule) Kind() string      { return r.kind }
func (r *columnRule) Columns() []string { return append([]string(nil), r.columns...) }

func (r *columnRule) Apply(rec Record) (Record, bool, error) {
	var out Record
	for _, col := range r.columns {
		v, ok := rec[col]
		if !ok {
			continue
		}
		nv, err := r.fn(v)
		if err != nil {
			return nil, false, &columnError{column: col, value: v, err: err}
		}
		if valuesEqual(v, nv) {
			continue
		}
		if out == nil {
			out = rec.Clone()
		}
		out[col] = nv
	}
	if out == nil {
		return rec, false, nil
	}
	return out, true, nil
}

// textFunc lifts a string transform to a valueFunc. Nulls pass through and
// non-text values are malformed.
func textFunc(fn func(s string) (string, error)) valueFunc {
	return func(v any) (any, error) {
		switch t := v.(type) {
		case nil:
			return nil, nil
		case string:
			return fn(t)
		default:
			return nil, malformed("expected text, got %T", v)
		}
	}
}

func pureText(fn func(s string) string) valueFunc {
	return textFunc(func(s string) (string, error) {
		return fn(s), nil
	})
}
