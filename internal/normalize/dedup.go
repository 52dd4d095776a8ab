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
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type dedupRule struct {
	name     string
	identity []string
	tieBreak string
}

// Dedup keeps exactly one record per distinct tuple of identity values.
// Within a group, records are ordered by the tie-break column ascending and
// the first one is retained. Retained records keep their input order.
func Dedup(name string, identity []string, tieBreak string) SetRule {
	return &dedupRule{
		name:     name,
		identity: append([]string(nil), identity...),
		tieBreak: tieBreak,
	}
}

func (d *dedupRule) Name() string { return d.name }
func (d *dedupRule) Kind() string { return KindDedup }

func (d *dedupRule) Columns() []string {
	cols := append([]string(nil), d.identity...)
	if d.tieBreak != "" {
		cols = append(cols, d.tieBreak)
	}
	return cols
}

func (d *dedupRule) ApplySet(records []Record) ([]Record, []int, error) {
	if len(d.identity) == 0 {
		return nil, nil, fmt.Errorf("%w: %s: no identity columns", ErrInvalidRule, d.name)
	}

	groups := make(map[string][]int)
	order := make([]string, 0)
	for i, rec := range records {
		key := d.identityKey(rec)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}

	keep := make([]bool, len(records))
	for _, key := range order {
		idx := groups[key]
		if len(idx) > 1 && d.tieBreak != "" {
			sort.SliceStable(idx, func(a, b int) bool {
				return compareValues(records[idx[a]][d.tieBreak], records[idx[b]][d.tieBreak]) < 0
			})
		}
		keep[idx[0]] = true
	}

	kept := make([]Record, 0, len(order))
	var removed []int
	for i, rec := range records {
		if keep[i] {
			kept = append(kept, rec)
		} else {
			removed = append(removed, i)
		}
	}
	return kept, removed, nil
}

// identityKey encodes the identity tuple with type tags so that nil, ""
// and 0 never collide.
func (d *dedupRule) identityKey(rec Record) string {
	var b strings.Builder
	for _, col := range d.identity {
		switch t := rec[col].(type) {
		case nil:
			b.WriteString("n:")
		case string:
			b.WriteString("s:")
			b.WriteString(strconv.Quote(t))
		case int64:
			b.WriteString("i:")
			b.WriteString(strconv.FormatInt(t, 10))
		default:
			fmt.Fprintf(&b, "%T:%v", t, t)
		}
		b.WriteByte(0)
	}
	return b.String()
}

// compareValues orders nulls first, then numbers (int64 or integer text)
// numerically, then everything else by its text form.
func compareValues(a, b any) int {
	an, aNum, aNil := numericValue(a)
	bn, bNum, bNil := numericValue(b)
	switch {
	case aNil && bNil:
		return 0
	case aNil:
		return -1
	case bNil:
		return 1
	case aNum && bNum:
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		default:
			return 0
		}
	case aNum:
		return -1
	case bNum:
		return 1
	}
	as, _ := KeyString(a)
	bs, _ := KeyString(b)
	return strings.Compare(as, bs)
}

func numericValue(v any) (n int64, isNum, isNil bool) {
	switch t := v.(type) {
	case nil:
		return 0, false, true
	case int64:
		return t, true, false
	case int:
		return int64(t), true, false
	case string:
		if integerText.MatchString(t) {
			if n, err := strconv.ParseInt(t, 10, 64); err == nil {
				return n, true, false
			}
		}
	}
	return 0, false, false
}
