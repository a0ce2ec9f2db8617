package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/cafe_pos/internal/icons"
	"github.com/Skotchmaster/cafe_pos/internal/models"
	"github.com/Skotchmaster/cafe_pos/internal/repo"
	"github.com/Skotchmaster/cafe_pos/pkg/logging"
)

type seedProduct struct {
	name  string
	price int64
}

var demoMenu = []struct {
	category string
	icon     icons.Icon
	products []seedProduct
}{
	{"Topli napici", icons.Coffee, []seedProduct{
		{"Espresso", 120}, {"Kapućino", 150}, {"Domaća kafa", 110}, {"Čaj", 130},
	}},
	{"Sokovi", icons.CupSoda, []seedProduct{
		{"Coca-Cola 0,25", 180}, {"Cedevita", 160}, {"Ceđena pomorandža", 250},
	}},
	{"Voda", icons.GlassWater, []seedProduct{
		{"Rosa 0,33", 140}, {"Knjaz Miloš 0,33", 150},
	}},
	{"Pivo", icons.Beer, []seedProduct{
		{"Jelen 0,5", 220}, {"Lav 0,5", 220}, {"Nikšićko tamno", 260},
	}},
	{"Vino", icons.Wine, []seedProduct{
		{"Belo vino 0,1", 200}, {"Crno vino 0,1", 210},
	}},
	{"Kolači", icons.Cake, []seedProduct{
		{"Čokoladna torta", 290}, {"Palačinka", 240},
	}},
}

const demoTables = 6

// SeedIfEmpty fills a fresh store with a demo menu and tables. It leaves
// any existing catalog or floor plan alone.
func SeedIfEmpty(ctx context.Context, r *repo.GormRepo) error {
	l := logging.FromContext(ctx).With("component", "seed")

	empty, err := r.CatalogEmpty(ctx)
	if err != nil {
		return err
	}
	if empty {
		var (
			cats   []models.Category
			prods  []models.Product
			catIdx []int
		)
		for i, c := range demoMenu {
			cats = append(cats, models.Category{Name: c.category, Sort: i + 1, Icon: c.icon})
			for _, p := range c.products {
				prods = append(prods, models.Product{Name: p.name, Price: decimal.NewFromInt(p.price)})
				catIdx = append(catIdx, i)
			}
		}
		if err := r.ReplaceCatalog(ctx, cats, prods, catIdx); err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
		l.Info("seed_catalog", "categories", len(cats), "products", len(prods))
	}

	n, err := r.CountTables(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	tables := make([]models.PosTable, 0, demoTables)
	for i := 0; i < demoTables; i++ {
		x := 0.15 + float64(i%3)*0.3
		y := 0.25 + float64(i/3)*0.4
		tables = append(tables, models.PosTable{Name: fmt.Sprintf("Sto %d", i+1), XPct: &x, YPct: &y})
	}
	if err := r.CreateTables(ctx, tables); err != nil {
		return fmt.Errorf("seed tables: %w", err)
	}
	l.Info("seed_tables", "tables", len(tables))
	return nil
}
