package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/cafe_pos/internal/events"
	"github.com/Skotchmaster/cafe_pos/internal/receipt"
)

func TestOpenTableIsLazyAndStable(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	tbl := e.table(t)

	first, err := e.orders.OpenTable(ctx, tbl.ID)
	require.NoError(t, err)
	again, err := e.orders.OpenTable(ctx, tbl.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	_, err = e.orders.OpenTable(ctx, 999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAddTwiceThenDecrementToZero(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	tbl := e.table(t)
	p := e.product(t, "Espresso", 120)

	o, err := e.orders.OpenTable(ctx, tbl.ID)
	require.NoError(t, err)
	_, err = e.orders.AddItem(ctx, o.ID, p.ID, 0)
	require.NoError(t, err)
	v, err := e.orders.AddItem(ctx, o.ID, p.ID, 0)
	require.NoError(t, err)

	require.Len(t, v.Items, 1)
	assert.Equal(t, 2, v.Qty)
	assert.Equal(t, "240.00", v.Total.StringFixed(2))

	v, err = e.orders.ChangeQty(ctx, o.ID, v.Items[0].ID, -2)
	require.NoError(t, err)
	assert.Empty(t, v.Items)
	assert.True(t, v.Total.IsZero())
}

func TestAddItemValidation(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	tbl := e.table(t)
	p := e.product(t, "Espresso", 120)
	o, err := e.orders.OpenTable(ctx, tbl.ID)
	require.NoError(t, err)

	_, err = e.orders.AddItem(ctx, o.ID, p.ID, 6)
	require.ErrorIs(t, err, ErrValidation)
	_, err = e.orders.AddItem(ctx, o.ID, 999, 0)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = e.orders.AddItem(ctx, 999, p.ID, 0)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = e.orders.ChangeQty(ctx, o.ID, 1, 0)
	require.ErrorIs(t, err, ErrValidation)
}

func TestPrintFullOrderFreesTable(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	tbl := e.table(t)
	p := e.product(t, "Sok", 50)

	o, err := e.orders.OpenTable(ctx, tbl.ID)
	require.NoError(t, err)
	var v *OrderView
	for i := 0; i < 3; i++ {
		v, err = e.orders.AddItem(ctx, o.ID, p.ID, 0)
		require.NoError(t, err)
	}
	require.Equal(t, 3, v.Qty)

	arch, err := e.orders.Print(ctx, o.ID, 0)
	require.NoError(t, err)
	require.Len(t, arch.Items, 1)
	assert.Equal(t, 3, arch.Items[0].Qty)
	assert.Equal(t, "150.00", arch.Total.StringFixed(2))
	assert.Equal(t, receipt.TableLabel(&tbl.ID), arch.Label)

	_, err = e.orders.GetOrder(ctx, o.ID)
	require.ErrorIs(t, err, ErrNotFound)

	views, err := e.layout.Tables(ctx)
	require.NoError(t, err)
	assert.False(t, findTable(t, views, tbl.ID).Occupied)

	fresh, err := e.orders.OpenTable(ctx, tbl.ID)
	require.NoError(t, err)
	assert.Empty(t, fresh.Items)
	assert.Equal(t, []string{events.ReceiptArchived}, e.events.Types())
}

func TestPrintGuestLeavesOthersOpen(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	tbl := e.table(t)
	espresso := e.product(t, "Espresso", 120)
	sok := e.product(t, "Sok", 50)

	o, err := e.orders.OpenTable(ctx, tbl.ID)
	require.NoError(t, err)
	_, err = e.orders.AddItem(ctx, o.ID, espresso.ID, 1)
	require.NoError(t, err)
	_, err = e.orders.AddItem(ctx, o.ID, sok.ID, 2)
	require.NoError(t, err)

	arch, err := e.orders.Print(ctx, o.ID, 1)
	require.NoError(t, err)
	require.Len(t, arch.Items, 1)
	assert.Equal(t, "Espresso", arch.Items[0].Name)
	assert.Contains(t, arch.Label, "Gost 1")

	left, err := e.orders.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, left.Items, 1)
	assert.Equal(t, "Sok", left.Items[0].Name)

	_, err = e.orders.Print(ctx, o.ID, 3)
	require.ErrorIs(t, err, ErrValidation)
}

func TestGuestViewFiltersLines(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	tbl := e.table(t)
	espresso := e.product(t, "Espresso", 120)
	sok := e.product(t, "Sok", 50)

	o, err := e.orders.OpenTable(ctx, tbl.ID)
	require.NoError(t, err)
	_, err = e.orders.AddItem(ctx, o.ID, espresso.ID, 1)
	require.NoError(t, err)
	_, err = e.orders.AddItem(ctx, o.ID, sok.ID, 2)
	require.NoError(t, err)
	_, err = e.orders.AddItem(ctx, o.ID, sok.ID, 2)
	require.NoError(t, err)

	all, err := e.orders.GuestView(ctx, o.ID, 0)
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)
	assert.Equal(t, 3, all.Qty)
	assert.Equal(t, "220.00", all.Total.StringFixed(2))

	second, err := e.orders.GuestView(ctx, o.ID, 2)
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.Equal(t, "Sok", second.Items[0].Name)
	assert.Equal(t, 2, second.Guest)
	assert.Equal(t, 2, second.Qty)
	assert.Equal(t, "100.00", second.Total.StringFixed(2))

	empty, err := e.orders.GuestView(ctx, o.ID, 4)
	require.NoError(t, err)
	assert.Empty(t, empty.Items)
	assert.True(t, empty.Total.IsZero())

	_, err = e.orders.GuestView(ctx, o.ID, 9)
	require.ErrorIs(t, err, ErrValidation)
}

func TestPrintSplitReducesLines(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	tbl := e.table(t)
	p := e.product(t, "Pivo", 220)

	o, err := e.orders.OpenTable(ctx, tbl.ID)
	require.NoError(t, err)
	var v *OrderView
	for i := 0; i < 4; i++ {
		v, err = e.orders.AddItem(ctx, o.ID, p.ID, 0)
		require.NoError(t, err)
	}
	itemID := v.Items[0].ID

	_, err = e.orders.PrintSplit(ctx, o.ID, map[uint]int{itemID: 5})
	require.ErrorIs(t, err, ErrValidation)

	arch, err := e.orders.PrintSplit(ctx, o.ID, map[uint]int{itemID: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, arch.Items[0].Qty)

	left, err := e.orders.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, left.Items, 1)
	assert.Equal(t, 1, left.Items[0].Qty)

	_, err = e.orders.PrintSplit(ctx, o.ID, map[uint]int{itemID: 1})
	require.NoError(t, err)
	_, err = e.orders.GetOrder(ctx, o.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPrintQuickUsesCatalogPrice(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	p := e.product(t, "Espresso", 120)

	sok := e.product(t, "Sok", 50)

	arch, err := e.orders.PrintQuick(ctx, []QuickLine{{ProductID: p.ID, Qty: 1}, {ProductID: p.ID, Qty: 1}})
	require.NoError(t, err)
	assert.True(t, arch.Quick())
	assert.Equal(t, receipt.QuickLabel, arch.Label)
	require.Len(t, arch.Items, 1)
	assert.Equal(t, 2, arch.Items[0].Qty)
	assert.Equal(t, "240.00", arch.Total.StringFixed(2))

	arch, err = e.orders.PrintQuick(ctx, []QuickLine{
		{ProductID: p.ID, Qty: 2},
		{ProductID: sok.ID, Qty: 4},
		{ProductID: p.ID, Qty: 3},
	})
	require.NoError(t, err)
	require.Len(t, arch.Items, 2)
	assert.Equal(t, "Espresso", arch.Items[0].Name)
	assert.Equal(t, 5, arch.Items[0].Qty)
	assert.Equal(t, 4, arch.Items[1].Qty)
	assert.Equal(t, "800.00", arch.Total.StringFixed(2))

	_, err = e.orders.PrintQuick(ctx, nil)
	require.ErrorIs(t, err, ErrValidation)
	_, err = e.orders.PrintQuick(ctx, []QuickLine{{ProductID: 999, Qty: 1}})
	require.ErrorIs(t, err, ErrNotFound)
	_, err = e.orders.PrintQuick(ctx, []QuickLine{{ProductID: p.ID, Qty: 0}})
	require.ErrorIs(t, err, ErrValidation)
}

func TestSetGuestMergesLines(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	tbl := e.table(t)
	p := e.product(t, "Espresso", 120)

	o, err := e.orders.OpenTable(ctx, tbl.ID)
	require.NoError(t, err)
	_, err = e.orders.AddItem(ctx, o.ID, p.ID, 0)
	require.NoError(t, err)
	v, err := e.orders.AddItem(ctx, o.ID, p.ID, 2)
	require.NoError(t, err)
	require.Len(t, v.Items, 2)

	v, err = e.orders.SetGuest(ctx, o.ID, v.Items[0].ID, 2)
	require.NoError(t, err)
	require.Len(t, v.Items, 1)
	assert.Equal(t, 2, v.Items[0].Qty)
	assert.Equal(t, 2, v.Items[0].Guest)

	_, err = e.orders.SetGuest(ctx, o.ID, v.Items[0].ID, 9)
	require.ErrorIs(t, err, ErrValidation)
}
