//-------------------------------------------------------------------------
//
// pgEdge Data Cleaner
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"strconv"
	"strings"
)

// Dirtier injects the kinds of defects found in scraped data. Each method
// applies its defect with probability equal to the configured ratio and
// otherwise returns the clean value.
type Dirtier struct {
	faker *Faker
	ratio float64
}

// NewDirtier creates a Dirtier that corrupts a ratio (0..1) of values.
func NewDirtier(f *Faker, ratio float64) *Dirtier {
	return &Dirtier{faker: f, ratio: min(max(ratio, 0), 1)}
}

// Hit reports whether the next value should be corrupted.
func (d *Dirtier) Hit() bool {
	switch {
	case d.ratio <= 0:
		return false
	case d.ratio >= 1:
		return true
	}
	return d.faker.Float64(0, 1) < d.ratio
}

// Case returns s in lower or upper case.
func (d *Dirtier) Case(s string) string {
	if !d.Hit() {
		return s
	}
	if d.faker.Bool() {
		return strings.ToLower(s)
	}
	return strings.ToUpper(s)
}

// Backslashes inserts a run of literal backslashes after the first word.
func (d *Dirtier) Backslashes(s string) string {
	if !d.Hit() {
		return s
	}
	run := strings.Repeat(`\`, d.faker.Int(1, 4))
	if i := strings.IndexByte(s, ' '); i > 0 {
		return s[:i] + run + s[i:]
	}
	return s + run
}

// Join joins items with ", ", or with a bare delimiter when corrupted.
func (d *Dirtier) Join(items []string) string {
	if d.Hit() {
		return strings.Join(items, ",")
	}
	return strings.Join(items, ", ")
}

// Control appends a carriage return.
func (d *Dirtier) Control(s string) string {
	if !d.Hit() {
		return s
	}
	return s + "\r"
}

// FloatID renders an integer identifier, with a ".0" suffix when corrupted.
func (d *Dirtier) FloatID(id int) string {
	s := strconv.Itoa(id)
	if d.Hit() {
		return s + ".0"
	}
	return s
}

// Padded renders an integer, with a leading zero when corrupted.
func (d *Dirtier) Padded(n int) string {
	s := strconv.Itoa(n)
	if d.Hit() {
		return "0" + s
	}
	return s
}
