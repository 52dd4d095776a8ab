//-------------------------------------------------------------------------
//
// pgEdge Data Cleaner
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package fooddelivery

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgEdge/pgedge-dataclean/internal/datagen"
	"github.com/pgEdge/pgedge-dataclean/internal/logging"
)

// Reference data
var namePrefixes = []string{"Spice", "Royal", "Golden", "Tandoor", "Curry", "Masala", "Saffron", "Udupi", "Punjabi", "Coastal"}
var nameSuffixes = []string{"Garden", "Palace", "House", "Corner", "Kitchen", "Express", "Junction", "Dhaba", "Cafe"}
var cities = []string{"Bangalore", "Mumbai", "Delhi", "Chennai", "Hyderabad", "Pune", "Kolkata", "Jaipur", "Ahmedabad", "Lucknow"}
var cuisines = []string{"North Indian", "South Indian", "Chinese", "Biryani", "Rajasthani", "Street Food", "Desserts", "Beverages", "Fast Food", "Mughlai"}
var maritalStatuses = []string{"Single", "Married", "Prefer not to say"}
var occupations = []string{"Student", "Employee", "Self Employeed", "House wife"}
var educations = []string{"Graduate", "Post Graduate", "Ph.D", "School", "Uneducated"}
var legacyIncomes = []string{"No Income", "Below Rs.10000", "10001 to 25000", "25001 to 50000", "More than 50000"}
var ratings = []string{"--", "3.2", "3.5", "3.8", "4.0", "4.1", "4.3", "4.5", "4.7"}

// orphanChance is the share of dirty child rows that point at a parent
// that does not exist, one in orphanChance.
const orphanChance = 10

// Generator generates raw food delivery data.
type Generator struct {
	faker *datagen.Faker
	dirt  *datagen.Dirtier
	cfg   datagen.BatchInsertConfig

	restaurants int64
	users       int64
	foods       int64
}

// NewGenerator creates a generator. A zero seed picks a random one.
func NewGenerator(seed uint64, dirtyRatio float64) *Generator {
	f := datagen.NewFakerWithSeed(seed)
	return &Generator{
		faker: f,
		dirt:  datagen.NewDirtier(f, dirtyRatio),
		cfg:   datagen.DefaultBatchConfig(),
	}
}

func sizeInfo() []datagen.TableSizeInfo {
	info := make([]datagen.TableSizeInfo, len(tableDefinitions))
	for i, t := range tableDefinitions {
		info[i] = datagen.TableSizeInfo{
			Name:        t.Name,
			BaseRowSize: t.BaseRowSize,
			ScaleRatio:  t.ScaleRatio,
			IndexFactor: 1.2,
		}
	}
	return info
}

// GenerateData generates raw data to approximately fill the target size.
func (g *Generator) GenerateData(ctx context.Context, pool *pgxpool.Pool, targetSize int64) error {
	calc := datagen.NewSizeCalculator(sizeInfo())
	rowCounts := calc.CalculateRowCounts(targetSize)

	logging.Info().
		Int64("restaurants", rowCounts[TableRestaurant]).
		Int64("orders", rowCounts[TableOrders]).
		Str("estimated_size", datagen.FormatSize(calc.EstimatedSize(rowCounts))).
		Msg("Generating food delivery data")

	return g.generate(ctx, pool, rowCounts)
}

func (g *Generator) generate(ctx context.Context, db datagen.Copier, rowCounts map[string]int64) error {
	g.restaurants = max(1, rowCounts[TableRestaurant])
	g.users = max(1, rowCounts[TableUsers])
	g.foods = max(1, rowCounts[TableFood])

	if err := g.generateRestaurants(ctx, db); err != nil {
		return fmt.Errorf("failed to generate restaurant: %w", err)
	}
	if err := g.generateUsers(ctx, db); err != nil {
		return fmt.Errorf("failed to generate users: %w", err)
	}
	if err := g.generateFood(ctx, db); err != nil {
		return fmt.Errorf("failed to generate food: %w", err)
	}
	if err := g.generateMenu(ctx, db, max(1, rowCounts[TableMenu])); err != nil {
		return fmt.Errorf("failed to generate menu: %w", err)
	}
	if err := g.generateOrders(ctx, db, max(1, rowCounts[TableOrders])); err != nil {
		return fmt.Errorf("failed to generate orders: %w", err)
	}
	return nil
}

func (g *Generator) writer(db datagen.Copier, table string, total int64) *datagen.BatchWriter {
	def := tableDefinition(table)
	return datagen.NewBatchWriter(db, table, def.ColumnNames(), total, g.cfg)
}

func (g *Generator) generateRestaurants(ctx context.Context, db datagen.Copier) error {
	w := g.writer(db, TableRestaurant, g.restaurants)

	for id := int64(1); id <= g.restaurants; id++ {
		city := datagen.Choose(g.faker, cities)
		name := datagen.Choose(g.faker, namePrefixes) + " " + datagen.Choose(g.faker, nameSuffixes)

		var rating, licNo any
		if g.faker.Int(0, 9) > 0 {
			rating = datagen.Choose(g.faker, ratings)
		}
		if g.faker.Int(0, 4) > 0 {
			licNo = g.faker.Digits(14)
		}

		err := w.Add(ctx,
			id,
			g.dirt.Backslashes(g.dirt.Case(name)),
			g.dirt.Case(city),
			rating,
			g.dirt.Padded(g.faker.Int(2, 20)*50),
			g.dirt.Join(datagen.ChooseN(g.faker, cuisines, g.faker.Int(1, 3))),
			licNo,
			g.dirt.Backslashes(g.dirt.Case(g.faker.Street()+", "+city)),
		)
		if err != nil {
			return err
		}
	}
	return w.Close(ctx)
}

func (g *Generator) generateUsers(ctx context.Context, db datagen.Copier) error {
	w := g.writer(db, TableUsers, g.users)

	for id := int64(1); id <= g.users; id++ {
		err := w.Add(ctx,
			id,
			g.dirt.Case(g.faker.Name()),
			g.faker.Email(),
			int64(g.faker.Int(18, 60)),
			g.dirt.Control(g.faker.Gender()),
			datagen.Choose(g.faker, maritalStatuses),
			datagen.Choose(g.faker, occupations),
			datagen.Choose(g.faker, legacyIncomes),
			datagen.Choose(g.faker, educations),
			int64(g.faker.Int(1, 6)),
		)
		if err != nil {
			return err
		}
	}
	return w.Close(ctx)
}

func foodID(n int64) string {
	return "fd" + strconv.FormatInt(n, 10)
}

func (g *Generator) generateFood(ctx context.Context, db datagen.Copier) error {
	w := g.writer(db, TableFood, g.foods)

	for n := int64(1); n <= g.foods; n++ {
		veg := datagen.ChooseWeighted(g.faker, []string{"Veg", "Non-veg"}, []int{3, 2})
		err := w.Add(ctx,
			foodID(n),
			g.dirt.Case(g.faker.Dish()),
			g.dirt.Control(veg),
		)
		if err != nil {
			return err
		}
	}
	return w.Close(ctx)
}

// orphan reports whether the next child row should reference a missing
// parent.
func (g *Generator) orphan() bool {
	return g.dirt.Hit() && g.faker.Int(1, orphanChance) == 1
}

func (g *Generator) parentID(count int64) int64 {
	if g.orphan() {
		return count + int64(g.faker.Int(1, 1000))
	}
	return int64(g.faker.Int(1, int(count)))
}

func (g *Generator) generateMenu(ctx context.Context, db datagen.Copier, count int64) error {
	w := g.writer(db, TableMenu, count)

	for id := int64(1); id <= count; id++ {
		row := []any{
			id,
			g.parentID(g.restaurants),
			foodID(g.parentID(g.foods)),
			g.dirt.Control(g.dirt.Join(datagen.ChooseN(g.faker, cuisines, g.faker.Int(1, 2)))),
			g.dirt.Padded(g.faker.Int(5, 60) * 10),
		}
		if err := w.Add(ctx, row...); err != nil {
			return err
		}

		// The scraper visited some listings twice.
		if id < count && g.dirt.Hit() && g.faker.Int(0, 3) == 0 {
			id++
			dup := append([]any{id}, row[1:]...)
			if err := w.Add(ctx, dup...); err != nil {
				return err
			}
		}
	}
	return w.Close(ctx)
}

func (g *Generator) generateOrders(ctx context.Context, db datagen.Copier, count int64) error {
	w := g.writer(db, TableOrders, count)

	start := time.Date(2017, 10, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2020, 6, 30, 0, 0, 0, 0, time.UTC)

	for id := int64(1); id <= count; id++ {
		qty := g.faker.Int(1, 5)
		err := w.Add(ctx,
			id,
			g.faker.DateRange(start, end).Format("2006-01-02"),
			int64(qty),
			int64(qty*g.faker.Int(90, 700)),
			g.dirt.Control("INR"),
			g.dirt.FloatID(int(g.parentID(g.users))),
			g.dirt.FloatID(int(g.parentID(g.restaurants))),
		)
		if err != nil {
			return err
		}
	}
	return w.Close(ctx)
}
