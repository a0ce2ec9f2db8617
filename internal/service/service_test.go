package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/cafe_pos/internal/appstate"
	"github.com/Skotchmaster/cafe_pos/internal/csvimport"
	"github.com/Skotchmaster/cafe_pos/internal/events"
	"github.com/Skotchmaster/cafe_pos/internal/models"
	"github.com/Skotchmaster/cafe_pos/internal/reports"
	"github.com/Skotchmaster/cafe_pos/internal/repo"
	pkgdb "github.com/Skotchmaster/cafe_pos/pkg/db"
)

var belgrade = time.FixedZone("CET", 3600)

type env struct {
	repo     *repo.GormRepo
	events   *events.Memory
	now      time.Time
	catalog  *CatalogService
	layout   *LayoutService
	orders   *OrderService
	receipts *ReceiptService
	reports  *ReportService
	settings *SettingsService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := pkgdb.Open(context.Background(), "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	r := &repo.GormRepo{DB: db}
	require.NoError(t, r.Migrate(context.Background()))

	e := &env{
		repo:   r,
		events: &events.Memory{},
		now:    time.Date(2024, 3, 10, 18, 0, 0, 0, belgrade),
	}
	clock := func() time.Time { return e.now }
	state := appstate.New(r)

	e.catalog = &CatalogService{Repo: r, Events: e.events, Classifier: csvimport.DefaultClassifier()}
	e.layout = &LayoutService{Repo: r}
	e.orders = &OrderService{Repo: r, Events: e.events, Now: clock}
	e.receipts = &ReceiptService{Repo: r, Events: e.events, Loc: belgrade}
	e.reports = &ReportService{
		Repo:   r,
		State:  state,
		Clock:  reports.Clock{Loc: belgrade, CutoffHour: 15},
		Events: e.events,
		Now:    clock,
	}
	e.settings = &SettingsService{State: state}
	return e
}

func (e *env) product(t *testing.T, name string, price int64) *models.Product {
	t.Helper()
	p, err := e.catalog.CreateProduct(context.Background(), ProductInput{Name: name, Price: decimal.NewFromInt(price)})
	require.NoError(t, err)
	return p
}

func (e *env) table(t *testing.T) *models.PosTable {
	t.Helper()
	tbl, err := e.layout.CreateTable(context.Background(), "")
	require.NoError(t, err)
	return tbl
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
