//-------------------------------------------------------------------------
//
// pgEdge Data Cleaner
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package datagen provides data generation utilities.
package datagen

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// Faker provides fake data generation using gofakeit.
type Faker struct {
	faker *gofakeit.Faker
}

// NewFaker creates a new Faker with a random seed.
func NewFaker() *Faker {
	return &Faker{
		faker: gofakeit.New(uint64(time.Now().UnixNano())),
	}
}

// NewFakerWithSeed creates a new Faker with a specific seed for
// reproducibility. A zero seed picks a random one.
func NewFakerWithSeed(seed uint64) *Faker {
	if seed == 0 {
		return NewFaker()
	}
	return &Faker{
		faker: gofakeit.New(seed),
	}
}

// Name generates a random full name.
func (f *Faker) Name() string {
	return f.faker.Name()
}

// Email generates a random email address.
func (f *Faker) Email() string {
	return f.faker.Email()
}

// Street generates a random street address.
func (f *Faker) Street() string {
	return f.faker.Street()
}

// Company generates a random company name.
func (f *Faker) Company() string {
	return f.faker.Company()
}

// Gender generates a random gender.
func (f *Faker) Gender() string {
	return f.faker.Gender()
}

// JobTitle generates a random job title.
func (f *Faker) JobTitle() string {
	return f.faker.JobTitle()
}

// Dish generates a random dish name from the lunch, dinner, snack and
// dessert catalogues.
func (f *Faker) Dish() string {
	switch f.Int(0, 3) {
	case 0:
		return f.faker.Lunch()
	case 1:
		return f.faker.Dinner()
	case 2:
		return f.faker.Snack()
	default:
		return f.faker.Dessert()
	}
}

// Digits generates a random string of digits of length n.
func (f *Faker) Digits(n int) string {
	return f.faker.DigitN(uint(n))
}

// DateRange generates a random date within a range.
func (f *Faker) DateRange(start, end time.Time) time.Time {
	return f.faker.DateRange(start, end)
}

// Int generates a random integer between min and max (inclusive).
func (f *Faker) Int(min, max int) int {
	return f.faker.IntRange(min, max)
}

// Float64 generates a random float64 between min and max.
func (f *Faker) Float64(min, max float64) float64 {
	return f.faker.Float64Range(min, max)
}

// Bool generates a random boolean.
func (f *Faker) Bool() bool {
	return f.faker.Bool()
}

// Choose returns a random element from the given slice.
func Choose[T any](f *Faker, items []T) T {
	if len(items) == 0 {
		var zero T
		return zero
	}
	return items[f.Int(0, len(items)-1)]
}

// ChooseWeighted returns a random element based on weights.
func ChooseWeighted[T any](f *Faker, items []T, weights []int) T {
	if len(items) == 0 || len(weights) == 0 {
		var zero T
		return zero
	}

	totalWeight := 0
	for _, w := range weights {
		totalWeight += w
	}

	r := f.Int(1, totalWeight)
	cumulative := 0
	for i, w := range weights {
		cumulative += w
		if r <= cumulative {
			return items[i]
		}
	}

	return items[len(items)-1]
}

// ChooseN returns n distinct elements of items in random order. If n is
// larger than len(items), all items are returned.
func ChooseN[T any](f *Faker, items []T, n int) []T {
	pool := append([]T(nil), items...)
	n = min(n, len(pool))
	for i := 0; i < n; i++ {
		j := f.Int(i, len(pool)-1)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}
