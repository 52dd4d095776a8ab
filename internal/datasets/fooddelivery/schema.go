//-------------------------------------------------------------------------
//
// pgEdge Data Cleaner
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package fooddelivery implements the food delivery dataset: restaurants,
// users, orders, menu entries and food items, loaded raw and cleaned in
// place.
package fooddelivery

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgEdge/pgedge-dataclean/internal/datasets"
)

// Table names.
const (
	TableRestaurant = "restaurant"
	TableUsers      = "users"
	TableOrders     = "orders"
	TableMenu       = "menu"
	TableFood       = "food"
)

// Raw tables carry no foreign keys: the source data violates them until it
// has been cleaned and pruned.
const createSchemaSQL = `
-- Restaurant: one row per outlet
CREATE TABLE IF NOT EXISTS restaurant (
    id       INTEGER PRIMARY KEY,
    name     TEXT,
    city     TEXT,
    rating   TEXT,
    cost     TEXT,
    cuisine  TEXT,
    lic_no   TEXT,
    address  TEXT
);

-- Users: customer demographics
CREATE TABLE IF NOT EXISTS users (
    user_id                    INTEGER PRIMARY KEY,
    name                       TEXT,
    email                      TEXT,
    age                        INTEGER,
    gender                     TEXT,
    marital_status             TEXT,
    occupation                 TEXT,
    monthly_income             TEXT,
    educational_qualifications TEXT,
    family_size                INTEGER
);

-- Orders: ids were exported through a spreadsheet and may carry ".0"
CREATE TABLE IF NOT EXISTS orders (
    order_id     INTEGER PRIMARY KEY,
    order_date   TEXT,
    sales_qty    INTEGER,
    sales_amount INTEGER,
    currency     TEXT,
    user_id      TEXT,
    r_id         TEXT
);

-- Food: dish catalogue
CREATE TABLE IF NOT EXISTS food (
    f_id           TEXT PRIMARY KEY,
    item           TEXT,
    veg_or_non_veg TEXT
);

-- Menu: dish offered by a restaurant at a price
CREATE TABLE IF NOT EXISTS menu (
    menu_id INTEGER PRIMARY KEY,
    r_id    INTEGER,
    f_id    TEXT,
    cuisine TEXT,
    price   TEXT
);
`

// Audit tables and triggers log price changes made after cleaning.
const createAuditSQL = `
CREATE TABLE IF NOT EXISTS menu_price_log (
    log_id     SERIAL PRIMARY KEY,
    menu_id    INTEGER NOT NULL,
    old_price  TEXT,
    new_price  TEXT,
    changed_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS restaurant_cost_log (
    log_id     SERIAL PRIMARY KEY,
    r_id       INTEGER NOT NULL,
    old_cost   TEXT,
    new_cost   TEXT,
    changed_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE OR REPLACE FUNCTION log_menu_price() RETURNS trigger AS $$
BEGIN
    IF NEW.price IS DISTINCT FROM OLD.price THEN
        INSERT INTO menu_price_log (menu_id, old_price, new_price)
        VALUES (OLD.menu_id, OLD.price, NEW.price);
    END IF;
    RETURN NEW;
END;
$$ LANGUAGE plpgsql;

CREATE OR REPLACE FUNCTION log_restaurant_cost() RETURNS trigger AS $$
BEGIN
    IF NEW.cost IS DISTINCT FROM OLD.cost THEN
        INSERT INTO restaurant_cost_log (r_id, old_cost, new_cost)
        VALUES (OLD.id, OLD.cost, NEW.cost);
    END IF;
    RETURN NEW;
END;
$$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS menu_price_audit ON menu;
CREATE TRIGGER menu_price_audit
    AFTER UPDATE OF price ON menu
    FOR EACH ROW EXECUTE FUNCTION log_menu_price();

DROP TRIGGER IF EXISTS restaurant_cost_audit ON restaurant;
CREATE TRIGGER restaurant_cost_audit
    AFTER UPDATE OF cost ON restaurant
    FOR EACH ROW EXECUTE FUNCTION log_restaurant_cost();
`

const dropConstraintsSQL = `
ALTER TABLE menu DROP CONSTRAINT IF EXISTS menu_r_id_fkey;
ALTER TABLE menu DROP CONSTRAINT IF EXISTS menu_f_id_fkey;
`

// orders.user_id and orders.r_id stay TEXT, so only the menu relations can
// be declared; the order relations are enforced by pruning alone.
const addConstraintsSQL = `
ALTER TABLE menu ADD CONSTRAINT menu_r_id_fkey
    FOREIGN KEY (r_id) REFERENCES restaurant(id);
ALTER TABLE menu ADD CONSTRAINT menu_f_id_fkey
    FOREIGN KEY (f_id) REFERENCES food(f_id);
`

const createSummaryViewSQL = `
CREATE MATERIALIZED VIEW IF NOT EXISTS restaurant_menu_summary AS
SELECT r.id,
       r.name,
       r.city,
       count(m.menu_id)             AS menu_items,
       round(avg(m.price::integer)) AS avg_price
FROM restaurant r
LEFT JOIN menu m ON m.r_id = r.id
GROUP BY r.id, r.name, r.city;

REFRESH MATERIALIZED VIEW restaurant_menu_summary;
`

const dropSchemaSQL = `
DROP MATERIALIZED VIEW IF EXISTS restaurant_menu_summary;
DROP TABLE IF EXISTS menu CASCADE;
DROP TABLE IF EXISTS food CASCADE;
DROP TABLE IF EXISTS orders CASCADE;
DROP TABLE IF EXISTS users CASCADE;
DROP TABLE IF EXISTS restaurant CASCADE;
DROP TABLE IF EXISTS menu_price_log;
DROP TABLE IF EXISTS restaurant_cost_log;
DROP FUNCTION IF EXISTS log_menu_price();
DROP FUNCTION IF EXISTS log_restaurant_cost();
`

var tableDefinitions = []datasets.TableDefinition{
	{
		Name: TableRestaurant,
		Key:  "id",
		Columns: []datasets.Column{
			{Name: "id", Type: datasets.Integer},
			{Name: "name", Type: datasets.Text},
			{Name: "city", Type: datasets.Text},
			{Name: "rating", Type: datasets.Text},
			{Name: "cost", Type: datasets.Text},
			{Name: "cuisine", Type: datasets.Text},
			{Name: "lic_no", Type: datasets.Text},
			{Name: "address", Type: datasets.Text},
		},
		BaseRowSize: 250,
		ScaleRatio:  1,
	},
	{
		Name: TableUsers,
		Key:  "user_id",
		Columns: []datasets.Column{
			{Name: "user_id", Type: datasets.Integer},
			{Name: "name", Type: datasets.Text},
			{Name: "email", Type: datasets.Text},
			{Name: "age", Type: datasets.Integer},
			{Name: "gender", Type: datasets.Text},
			{Name: "marital_status", Type: datasets.Text},
			{Name: "occupation", Type: datasets.Text},
			{Name: "monthly_income", Type: datasets.Text},
			{Name: "educational_qualifications", Type: datasets.Text},
			{Name: "family_size", Type: datasets.Integer},
		},
		BaseRowSize: 220,
		ScaleRatio:  10,
	},
	{
		Name: TableFood,
		Key:  "f_id",
		Columns: []datasets.Column{
			{Name: "f_id", Type: datasets.Text},
			{Name: "item", Type: datasets.Text},
			{Name: "veg_or_non_veg", Type: datasets.Text},
		},
		BaseRowSize: 70,
		ScaleRatio:  5,
	},
	{
		Name: TableMenu,
		Key:  "menu_id",
		Columns: []datasets.Column{
			{Name: "menu_id", Type: datasets.Integer},
			{Name: "r_id", Type: datasets.Integer},
			{Name: "f_id", Type: datasets.Text},
			{Name: "cuisine", Type: datasets.Text},
			{Name: "price", Type: datasets.Text},
		},
		BaseRowSize: 80,
		ScaleRatio:  20,
	},
	{
		Name: TableOrders,
		Key:  "order_id",
		Columns: []datasets.Column{
			{Name: "order_id", Type: datasets.Integer},
			{Name: "order_date", Type: datasets.Text},
			{Name: "sales_qty", Type: datasets.Integer},
			{Name: "sales_amount", Type: datasets.Integer},
			{Name: "currency", Type: datasets.Text},
			{Name: "user_id", Type: datasets.Text},
			{Name: "r_id", Type: datasets.Text},
		},
		BaseRowSize: 90,
		ScaleRatio:  30,
	},
}

// CreateSchema creates the raw food delivery tables.
func CreateSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, createSchemaSQL); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// DropSchema drops all food delivery objects.
func DropSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, dropSchemaSQL)
	return err
}

func tableDefinition(name string) datasets.TableDefinition {
	for _, t := range tableDefinitions {
		if t.Name == name {
			return t
		}
	}
	panic("fooddelivery: unknown table " + name)
}
