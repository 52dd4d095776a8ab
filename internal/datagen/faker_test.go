//-------------------------------------------------------------------------
//
// pgEdge Data Cleaner
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"testing"
	"time"
)

func TestNewFaker(t *testing.T) {
	f := NewFaker()
	if f == nil {
		t.Fatal("NewFaker returned nil")
	}
	if f.faker == nil {
		t.Fatal("faker field is nil")
	}
}

func TestNewFakerWithSeed(t *testing.T) {
	seed := uint64(12345)
	f1 := NewFakerWithSeed(seed)
	f2 := NewFakerWithSeed(seed)

	// Same seed should produce same sequence
	for i := 0; i < 10; i++ {
		v1 := f1.Int(0, 1000)
		v2 := f2.Int(0, 1000)
		if v1 != v2 {
			t.Errorf("Same seed produced different values: %d != %d", v1, v2)
		}
	}
	if f1.Dish() != f2.Dish() {
		t.Error("Same seed produced different dishes")
	}
}

func TestNewFakerWithZeroSeed(t *testing.T) {
	if NewFakerWithSeed(0).faker == nil {
		t.Fatal("faker field is nil")
	}
}

func TestFakerStrings(t *testing.T) {
	f := NewFaker()
	values := map[string]string{
		"Name":     f.Name(),
		"Email":    f.Email(),
		"Street":   f.Street(),
		"Company":  f.Company(),
		"Gender":   f.Gender(),
		"JobTitle": f.JobTitle(),
		"Dish":     f.Dish(),
	}
	for name, v := range values {
		if v == "" {
			t.Errorf("%s returned empty string", name)
		}
	}
}

func TestFakerDigits(t *testing.T) {
	f := NewFaker()
	d := f.Digits(14)
	if len(d) != 14 {
		t.Errorf("Digits length should be 14, got %d", len(d))
	}
	for _, r := range d {
		if r < '0' || r > '9' {
			t.Errorf("Digits returned non-digit %q", r)
		}
	}
}

func TestFakerDateRange(t *testing.T) {
	f := NewFaker()
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC)
	d := f.DateRange(start, end)
	if d.Before(start) || d.After(end) {
		t.Errorf("DateRange %v not in range", d)
	}
}

func TestFakerInt(t *testing.T) {
	f := NewFaker()
	for i := 0; i < 100; i++ {
		v := f.Int(5, 10)
		if v < 5 || v > 10 {
			t.Errorf("Int %d not in range [5, 10]", v)
		}
	}
}

func TestFakerFloat64(t *testing.T) {
	f := NewFaker()
	for i := 0; i < 100; i++ {
		v := f.Float64(1.5, 3.5)
		if v < 1.5 || v > 3.5 {
			t.Errorf("Float64 %f not in range [1.5, 3.5]", v)
		}
	}
}

func TestFakerBool(t *testing.T) {
	f := NewFaker()
	trueCount := 0
	falseCount := 0

	for i := 0; i < 100; i++ {
		if f.Bool() {
			trueCount++
		} else {
			falseCount++
		}
	}

	// Should have a mix of true and false
	if trueCount == 0 || falseCount == 0 {
		t.Error("Bool should produce both true and false values")
	}
}

func TestChoose(t *testing.T) {
	f := NewFaker()
	items := []string{"a", "b", "c"}
	for i := 0; i < 20; i++ {
		v := Choose(f, items)
		if v != "a" && v != "b" && v != "c" {
			t.Errorf("Choose returned unexpected value %q", v)
		}
	}
}

func TestChooseEmpty(t *testing.T) {
	f := NewFaker()
	if v := Choose(f, []string{}); v != "" {
		t.Errorf("Choose on empty slice should return zero value, got %q", v)
	}
}

func TestChooseWeighted(t *testing.T) {
	f := NewFaker()
	items := []string{"never", "always"}
	weights := []int{0, 10}
	for i := 0; i < 50; i++ {
		if v := ChooseWeighted(f, items, weights); v != "always" {
			t.Errorf("ChooseWeighted returned zero-weight item %q", v)
		}
	}
}

func TestChooseN(t *testing.T) {
	f := NewFaker()
	items := []int{1, 2, 3, 4, 5}

	got := ChooseN(f, items, 3)
	if len(got) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(got))
	}
	seen := make(map[int]bool)
	for _, v := range got {
		if seen[v] {
			t.Errorf("ChooseN returned duplicate %d", v)
		}
		seen[v] = true
	}

	if all := ChooseN(f, items, 10); len(all) != 5 {
		t.Errorf("Expected all 5 items, got %d", len(all))
	}
	if items[0] != 1 || items[4] != 5 {
		t.Error("ChooseN must not reorder its input")
	}
}

func BenchmarkFakerInt(b *testing.B) {
	f := NewFaker()
	for i := 0; i < b.N; i++ {
		f.Int(0, 1000)
	}
}

func BenchmarkChoose(b *testing.B) {
	f := NewFaker()
	items := []string{"a", "b", "c", "d", "e"}
	for i := 0; i < b.N; i++ {
		Choose(f, items)
	}
}
