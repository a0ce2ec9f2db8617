package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Skotchmaster/cafe_pos/internal/layout"
	"github.com/Skotchmaster/cafe_pos/internal/models"
	"github.com/Skotchmaster/cafe_pos/internal/repo"
)

type LayoutService struct {
	Repo *repo.GormRepo
}

// TableView is a table as the map shows it: resolved position and the
// derived occupancy flag.
type TableView struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	XPct     float64 `json:"xpct"`
	YPct     float64 `json:"ypct"`
	Occupied bool    `json:"occupied"`
	OrderID  *uint   `json:"order_id,omitempty"`
	Qty      int     `json:"qty"`
}

func (s *LayoutService) Tables(ctx context.Context) ([]TableView, error) {
	tables, err := s.Repo.ListTables(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.Repo.OpenOrders(ctx)
	if err != nil {
		return nil, err
	}

	type open struct {
		orderID uint
		qty     int
	}
	byTable := make(map[uint]open, len(orders))
	for _, o := range orders {
		if o.TableID == nil {
			continue
		}
		qty := 0
		for _, it := range o.Items {
			qty += it.Qty
		}
		prev, seen := byTable[*o.TableID]
		if !seen || prev.qty == 0 {
			byTable[*o.TableID] = open{orderID: o.ID, qty: qty}
		}
	}

	out := make([]TableView, 0, len(tables))
	for _, t := range tables {
		pos := layout.Resolve(t)
		v := TableView{ID: t.ID, Name: t.Name, XPct: pos.XPct, YPct: pos.YPct}
		if o, ok := byTable[t.ID]; ok {
			id := o.orderID
			v.OrderID = &id
			v.Qty = o.qty
			v.Occupied = o.qty > 0
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *LayoutService) CreateTable(ctx context.Context, name string) (*models.PosTable, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		n, err := s.Repo.CountTables(ctx)
		if err != nil {
			return nil, err
		}
		name = fmt.Sprintf("Sto %d", n+1)
	}
	x, y := layout.DefaultPos, layout.DefaultPos
	t := &models.PosTable{Name: name, XPct: &x, YPct: &y}
	if err := s.Repo.CreateTable(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *LayoutService) RenameTable(ctx context.Context, id uint, name string) (*models.PosTable, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("table name is required: %w", ErrValidation)
	}
	t, err := s.Repo.GetTable(ctx, id)
	if err != nil {
		return nil, notFound(err, "table")
	}
	t.Name = name
	if err := s.Repo.SaveTable(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// PlaceTable stores a clamped position and drops any legacy grid cell.
func (s *LayoutService) PlaceTable(ctx context.Context, id uint, x, y float64) (*models.PosTable, error) {
	t, err := s.Repo.GetTable(ctx, id)
	if err != nil {
		return nil, notFound(err, "table")
	}
	pos := layout.Normalize(x, y)
	t.XPct, t.YPct = &pos.XPct, &pos.YPct
	t.X, t.Y = nil, nil
	if err := s.Repo.SaveTable(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *LayoutService) DeleteTable(ctx context.Context, id uint) error {
	views, err := s.Tables(ctx)
	if err != nil {
		return err
	}
	for _, v := range views {
		if v.ID == id && v.Occupied {
			return fmt.Errorf("table %d has an open order: %w", id, ErrConflict)
		}
	}
	return notFound(s.Repo.DeleteTable(ctx, id), "table")
}
