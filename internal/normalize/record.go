//-------------------------------------------------------------------------
//
// pgEdge Data Cleaner
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package normalize implements the rule-driven dataset normalization
// pipeline. Records flow through an ordered list of idempotent rules and
// come out cleaned, together with a report of what changed.
package normalize

import (
	"fmt"
	"strconv"
)

// Record is a single row keyed by column name. Values are string, int64
// or nil.
type Record map[string]any

// Clone returns a shallow copy of the record. Values are immutable so a
// shallow copy is sufficient.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Equal reports whether two records hold the same columns and values.
func (r Record) Equal(other Record) bool {
	if len(r) != len(other) {
		return false
	}
	for k, v := range r {
		ov, ok := other[k]
		if !ok || !valuesEqual(v, ov) {
			return false
		}
	}
	return true
}

// CloneAll copies every record in the slice.
func CloneAll(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}

// KeyString returns the canonical text form of a key value, used for
// equality joins. Integers and their decimal text form share a key; nil
// has no key.
func KeyString(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case int64:
		return strconv.FormatInt(t, 10), true
	case int:
		return strconv.Itoa(t), true
	case int32:
		return strconv.FormatInt(int64(t), 10), true
	default:
		return fmt.Sprint(t), true
	}
}

func valuesEqual(a, b any) bool {
	switch at := a.(type) {
	case nil:
		return b == nil
	case string:
		bt, ok := b.(string)
		return ok && at == bt
	case int64:
		bt, ok := b.(int64)
		return ok && at == bt
	default:
		return fmt.Sprintf("%T:%v", a, a) == fmt.Sprintf("%T:%v", b, b)
	}
}
