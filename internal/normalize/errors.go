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
)

var (
	// ErrMalformedValue is returned when a value does not have the shape a
	// rule expects.
	ErrMalformedValue = errors.New("malformed value")

	// ErrInvalidRule is returned when a rule or rule sequence is
	// misconfigured.
	ErrInvalidRule = errors.New("invalid rule")

	// ErrNotIdempotent is returned by CheckIdempotent when a second pass
	// over cleaned records still changes them.
	ErrNotIdempotent = errors.New("rule sequence is not idempotent")
)

// RuleError identifies the rule and record that aborted a pipeline run.
type RuleError struct {
	Rule   string
	Index  int
	Column string
	Value  any
	Err    error
}

func (e *RuleError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("rule %q failed on record %d, column %q (value %q): %v",
			e.Rule, e.Index, e.Column, fmt.Sprint(e.Value), e.Err)
	}
	return fmt.Sprintf("rule %q failed on record %d: %v", e.Rule, e.Index, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}

// columnError is returned by column transforms; the pipeline turns it into
// a RuleError once the record index is known.
type columnError struct {
	column string
	value  any
	err    error
}

func (e *columnError) Error() string {
	return fmt.Sprintf("column %q: %v", e.column, e.err)
}

func (e *columnError) Unwrap() error {
	return e.err
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedValue, fmt.Sprintf(format, args...))
}
