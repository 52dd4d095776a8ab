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
	"fmt"

	"github.com/pgEdge/pgedge-dataclean/internal/datasets"
	"github.com/pgEdge/pgedge-dataclean/internal/normalize"
)

// incomeLabels maps the survey's income brackets to rupee ranges.
var incomeLabels = map[string]string{
	"No Income":       "₹0",
	"Below Rs.10000":  "<₹10,000",
	"10001 to 25000":  "₹10,001-₹25,000",
	"25001 to 50000":  "₹25,001-₹50,000",
	"More than 50000": "₹50,000+",
}

// backslashRun matches the escape debris left by the scraper.
const backslashRun = `\\+`

var references = []datasets.Reference{
	{Child: TableOrders, Column: "user_id", Parent: TableUsers, ParentKey: "user_id"},
	{Child: TableOrders, Column: "r_id", Parent: TableRestaurant, ParentKey: "id"},
	{Child: TableMenu, Column: "r_id", Parent: TableRestaurant, ParentKey: "id"},
	{Child: TableMenu, Column: "f_id", Parent: TableFood, ParentKey: "f_id"},
}

func tableRules(table string) ([]normalize.Rule, error) {
	switch table {
	case TableRestaurant:
		noise, err := normalize.NoiseStrip("restaurant.noise", backslashRun, "name", "address")
		if err != nil {
			return nil, err
		}
		return []normalize.Rule{
			noise,
			normalize.TitleCase("restaurant.title", "name", "city", "address"),
			normalize.DelimiterSpacing("restaurant.cuisine.spacing", ",", "cuisine"),
			normalize.Integer("restaurant.cost.integer", "cost"),
		}, nil

	case TableUsers:
		income, err := normalize.Remap("users.income.remap", "monthly_income", incomeLabels)
		if err != nil {
			return nil, err
		}
		return []normalize.Rule{
			normalize.ControlStrip("users.gender.ctrl", "gender"),
			normalize.TitleCase("users.name.title", "name"),
			income,
		}, nil

	case TableFood:
		return []normalize.Rule{
			normalize.ControlStrip("food.veg.ctrl", "veg_or_non_veg"),
			normalize.TitleCase("food.item.title", "item"),
		}, nil

	case TableMenu:
		return []normalize.Rule{
			normalize.ControlStrip("menu.cuisine.ctrl", "cuisine"),
			normalize.DelimiterSpacing("menu.cuisine.spacing", ",", "cuisine"),
			normalize.Integer("menu.price.integer", "price"),
			normalize.Dedup("menu.dedup", []string{"r_id", "f_id", "cuisine", "price"}, "menu_id"),
		}, nil

	case TableOrders:
		return []normalize.Rule{
			normalize.ControlStrip("orders.currency.ctrl", "currency"),
			normalize.NumericSuffix("orders.fk.suffix", "user_id", "r_id"),
		}, nil
	}
	return nil, fmt.Errorf("no rules for table %s", table)
}
