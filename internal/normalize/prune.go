//-------------------------------------------------------------------------
//
// pgEdge Data Cleaner
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package normalize

// PruneResult holds the outcome of a referential pruning step.
type PruneResult struct {
	// Kept are the child records whose key matched a parent.
	Kept []Record

	// Backup is a full copy of the child set before pruning.
	Backup []Record

	// Pruned holds the removed child records.
	Pruned []Record
}

// Prune removes child records whose fkColumn value has no matching
// pkColumn value in parents. Keys compare by their text form, so an int64
// 42 matches "42" but not "42.0". Null foreign keys are kept. Neither the
// children nor the parents are modified.
func Prune(children []Record, fkColumn string, parents []Record, pkColumn string) PruneResult {
	keys := make(map[string]struct{}, len(parents))
	for _, p := range parents {
		if k, ok := KeyString(p[pkColumn]); ok {
			keys[k] = struct{}{}
		}
	}

	res := PruneResult{
		Backup: CloneAll(children),
		Kept:   make([]Record, 0, len(children)),
	}
	for _, c := range children {
		k, ok := KeyString(c[fkColumn])
		if !ok {
			res.Kept = append(res.Kept, c.Clone())
			continue
		}
		if _, found := keys[k]; found {
			res.Kept = append(res.Kept, c.Clone())
		} else {
			res.Pruned = append(res.Pruned, c.Clone())
		}
	}
	return res
}
