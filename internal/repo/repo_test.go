package repo

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/cafe_pos/internal/icons"
	"github.com/Skotchmaster/cafe_pos/internal/models"
	pkgdb "github.com/Skotchmaster/cafe_pos/pkg/db"
)

func newRepo(t *testing.T) *GormRepo {
	t.Helper()
	db, err := pkgdb.Open(context.Background(), "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	r := &GormRepo{DB: db}
	require.NoError(t, r.Migrate(context.Background()))
	return r
}

func seedProduct(t *testing.T, r *GormRepo, name string, price int64) models.Product {
	t.Helper()
	p := models.Product{Name: name, Price: decimal.NewFromInt(price)}
	require.NoError(t, r.CreateProduct(context.Background(), &p))
	return p
}

func TestCategoriesOrderedBySort(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	require.NoError(t, r.CreateCategory(ctx, &models.Category{Name: "Pivo", Sort: 2, Icon: icons.Beer}))
	require.NoError(t, r.CreateCategory(ctx, &models.Category{Name: "Kafa", Sort: 1, Icon: icons.Coffee}))

	cats, err := r.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	require.Equal(t, "Kafa", cats[0].Name)
	require.Equal(t, icons.Coffee, cats[0].Icon)

	top, err := r.MaxCategorySort(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, top)
}

func TestProductPriceRoundTrip(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	p := models.Product{Name: "Kapućino", Price: decimal.RequireFromString("150.50")}
	require.NoError(t, r.CreateProduct(ctx, &p))

	got, err := r.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, got.Price.Equal(decimal.RequireFromString("150.5")), got.Price.String())
	require.Nil(t, got.CategoryID)
}

func TestListProductsFilters(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	cat := models.Category{Name: "Kafa", Icon: icons.Coffee}
	require.NoError(t, r.CreateCategory(ctx, &cat))

	for _, p := range []models.Product{
		{Name: "Espresso", Price: decimal.NewFromInt(120), CategoryID: &cat.ID},
		{Name: "Kapućino", Price: decimal.NewFromInt(150), CategoryID: &cat.ID},
		{Name: "Čaj", Price: decimal.NewFromInt(100)},
	} {
		p := p
		require.NoError(t, r.CreateProduct(ctx, &p))
	}

	all, err := r.ListProducts(ctx, ProductFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	inCat, err := r.ListProducts(ctx, ProductFilter{CategoryID: &cat.ID})
	require.NoError(t, err)
	require.Len(t, inCat, 2)

	found, err := r.ListProducts(ctx, ProductFilter{Query: "ČAJ"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "Čaj", found[0].Name)
}

func TestOpenOrderForTableIsLazyAndStable(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	tbl := models.PosTable{Name: "Sto 1"}
	require.NoError(t, r.CreateTable(ctx, &tbl))

	o1, err := r.OpenOrderForTable(ctx, tbl.ID)
	require.NoError(t, err)
	o2, err := r.OpenOrderForTable(ctx, tbl.ID)
	require.NoError(t, err)
	require.Equal(t, o1.ID, o2.ID)
	require.Equal(t, models.OrderOpen, o2.Status)
}

func TestAddItemMergesByProductAndGuest(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	esp := seedProduct(t, r, "Espresso", 120)
	tbl := models.PosTable{Name: "Sto 1"}
	require.NoError(t, r.CreateTable(ctx, &tbl))
	o, err := r.OpenOrderForTable(ctx, tbl.ID)
	require.NoError(t, err)

	_, err = r.AddItem(ctx, o.ID, esp, 0)
	require.NoError(t, err)
	it, err := r.AddItem(ctx, o.ID, esp, 0)
	require.NoError(t, err)
	require.Equal(t, 2, it.Qty)
	_, err = r.AddItem(ctx, o.ID, esp, 2)
	require.NoError(t, err)

	// a later price change does not touch the snapshot
	esp.Price = decimal.NewFromInt(999)
	require.NoError(t, r.SaveProduct(ctx, &esp))
	it, err = r.AddItem(ctx, o.ID, esp, 0)
	require.NoError(t, err)
	require.Equal(t, 3, it.Qty)
	require.Equal(t, "120", it.PriceEach.String())

	got, err := r.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
}

func TestChangeItemQtyDeletesAtZero(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	esp := seedProduct(t, r, "Espresso", 120)
	tbl := models.PosTable{Name: "Sto 1"}
	require.NoError(t, r.CreateTable(ctx, &tbl))
	o, _ := r.OpenOrderForTable(ctx, tbl.ID)
	it, err := r.AddItem(ctx, o.ID, esp, 0)
	require.NoError(t, err)
	_, err = r.AddItem(ctx, o.ID, esp, 0)
	require.NoError(t, err)

	deleted, err := r.ChangeItemQty(ctx, o.ID, it.ID, -1)
	require.NoError(t, err)
	require.False(t, deleted)

	deleted, err = r.ChangeItemQty(ctx, o.ID, it.ID, -5)
	require.NoError(t, err)
	require.True(t, deleted)

	_, err = r.ChangeItemQty(ctx, o.ID, it.ID, 1)
	require.Error(t, err)
}

func TestSetItemGuestMerges(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	esp := seedProduct(t, r, "Espresso", 120)
	tbl := models.PosTable{Name: "Sto 1"}
	require.NoError(t, r.CreateTable(ctx, &tbl))
	o, _ := r.OpenOrderForTable(ctx, tbl.ID)

	a, _ := r.AddItem(ctx, o.ID, esp, 1)
	_, _ = r.AddItem(ctx, o.ID, esp, 2)
	require.NoError(t, r.SetItemGuest(ctx, o.ID, a.ID, 2))

	got, err := r.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	require.Equal(t, 2, got.Items[0].Qty)
	require.Equal(t, 2, got.Items[0].Guest)
}

func TestArchiveFullOrderFreesTable(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	p := seedProduct(t, r, "Sok", 50)
	tbl := models.PosTable{Name: "Sto 1"}
	require.NoError(t, r.CreateTable(ctx, &tbl))
	o, _ := r.OpenOrderForTable(ctx, tbl.ID)
	for i := 0; i < 3; i++ {
		_, err := r.AddItem(ctx, o.ID, p, 0)
		require.NoError(t, err)
	}

	at := time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC)
	arch, err := r.ArchiveOrder(ctx, ArchiveRequest{OrderID: o.ID, Label: "Sto #1", At: at})
	require.NoError(t, err)
	require.Len(t, arch.Items, 1)
	require.Equal(t, 3, arch.Items[0].Qty)
	require.Equal(t, "150", arch.Total.String())
	require.NotZero(t, arch.Items[0].ID)

	open, err := r.OpenOrders(ctx)
	require.NoError(t, err)
	require.Empty(t, open)

	sales, err := r.Sales(ctx)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	require.Equal(t, arch.Items[0].ID, sales[0].ArchivedItemID)
	require.True(t, at.Equal(*sales[0].At))

	lines, err := r.ArchivedLines(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.True(t, at.Equal(lines[0].ArchivedAt))
}

func TestArchivePartialKeepsRemainder(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	p := seedProduct(t, r, "Sok", 50)
	tbl := models.PosTable{Name: "Sto 1"}
	require.NoError(t, r.CreateTable(ctx, &tbl))
	o, _ := r.OpenOrderForTable(ctx, tbl.ID)
	var it *models.OrderItem
	for i := 0; i < 3; i++ {
		var err error
		it, err = r.AddItem(ctx, o.ID, p, 0)
		require.NoError(t, err)
	}

	_, err := r.ArchiveOrder(ctx, ArchiveRequest{OrderID: o.ID, Take: map[uint]int{it.ID: 4}, At: time.Now()})
	require.ErrorIs(t, err, ErrQtyExceeded)

	arch, err := r.ArchiveOrder(ctx, ArchiveRequest{OrderID: o.ID, Take: map[uint]int{it.ID: 2}, At: time.Now()})
	require.NoError(t, err)
	require.Equal(t, 2, arch.Items[0].Qty)

	left, err := r.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, left.Items, 1)
	require.Equal(t, 1, left.Items[0].Qty)

	_, err = r.ArchiveOrder(ctx, ArchiveRequest{OrderID: o.ID, Guest: 3, At: time.Now()})
	require.ErrorIs(t, err, ErrNothingToArchive)
}

func TestArchiveQuickLeavesNoOpenOrder(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	p := seedProduct(t, r, "Espresso", 120)

	arch, err := r.ArchiveQuick(ctx, []models.OrderItem{
		{ProductID: p.ID, Name: p.Name, Qty: 2, PriceEach: p.Price},
	}, "Brzo kucanje", time.Now())
	require.NoError(t, err)
	require.Nil(t, arch.TableID)
	require.Equal(t, "240", arch.Total.String())

	var n int64
	require.NoError(t, r.DB.Model(&models.Order{}).Count(&n).Error)
	require.Zero(t, n)
	require.NoError(t, r.DB.Model(&models.OrderItem{}).Count(&n).Error)
	require.Zero(t, n)
}

func TestDeleteArchivedRemovesSales(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	p := seedProduct(t, r, "Espresso", 120)
	arch, err := r.ArchiveQuick(ctx, []models.OrderItem{{ProductID: p.ID, Name: p.Name, Qty: 1, PriceEach: p.Price}}, "Brzo kucanje", time.Now())
	require.NoError(t, err)

	_, err = r.DeleteArchived(ctx, arch.ID)
	require.NoError(t, err)

	sales, err := r.Sales(ctx)
	require.NoError(t, err)
	require.Empty(t, sales)
	lines, err := r.ArchivedLines(ctx)
	require.NoError(t, err)
	require.Empty(t, lines)

	_, err = r.DeleteArchived(ctx, arch.ID)
	require.Error(t, err)
}

func TestKVUpsert(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)

	_, ok, err := r.GetKV(ctx, "ui.theme")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, r.SetKVs(ctx, map[string]string{"ui.theme": "light", "a": "1"}))
	require.NoError(t, r.SetKVs(ctx, map[string]string{"ui.theme": "dark"}))

	v, ok, err := r.GetKV(ctx, "ui.theme")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "dark", v)
}

func TestTopProducts(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	esp := seedProduct(t, r, "Espresso", 120)
	sok := seedProduct(t, r, "Sok", 150)
	tbl := models.PosTable{Name: "Sto 1"}
	require.NoError(t, r.CreateTable(ctx, &tbl))
	o, _ := r.OpenOrderForTable(ctx, tbl.ID)
	_, _ = r.AddItem(ctx, o.ID, esp, 0)
	_, _ = r.AddItem(ctx, o.ID, sok, 0)
	_, _ = r.AddItem(ctx, o.ID, sok, 1)

	top, err := r.TopProducts(ctx, 12)
	require.NoError(t, err)
	require.Len(t, top, 2)
	require.Equal(t, "Sok", top[0].Name)
}

func TestDeleteTableDropsOpenOrder(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	p := seedProduct(t, r, "Sok", 50)
	tbl := models.PosTable{Name: "Sto 1"}
	require.NoError(t, r.CreateTable(ctx, &tbl))
	o, _ := r.OpenOrderForTable(ctx, tbl.ID)
	_, _ = r.AddItem(ctx, o.ID, p, 0)

	require.NoError(t, r.DeleteTable(ctx, tbl.ID))
	_, err := r.GetOrder(ctx, o.ID)
	require.Error(t, err)
	require.Error(t, r.DeleteTable(ctx, tbl.ID))
}
