package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/cafe_pos/internal/cart"
	"github.com/Skotchmaster/cafe_pos/internal/events"
	"github.com/Skotchmaster/cafe_pos/internal/models"
	"github.com/Skotchmaster/cafe_pos/internal/receipt"
	"github.com/Skotchmaster/cafe_pos/internal/repo"
)

type OrderService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	Now    func() time.Time
}

// QuickLine is one line of a quick cart as posted at print time.
type QuickLine struct {
	ProductID uint `json:"product_id"`
	Qty       int  `json:"qty"`
}

// OrderView is an open order with its computed totals. With Guest set the
// items and totals cover only that guest's lines.
type OrderView struct {
	models.Order
	Guest int             `json:"guest,omitempty"`
	Total decimal.Decimal `json:"total"`
	Qty   int             `json:"qty"`
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func viewOf(o *models.Order, guest int) *OrderView {
	c := cart.Cart{Lines: cart.ForGuest(cart.FromOrderItems(o.Items), guest)}
	v := &OrderView{Order: *o, Guest: guest, Total: c.Total(), Qty: c.Quantity()}
	if guest == 0 {
		return v
	}
	keep := make(map[uint]bool, len(c.Lines))
	for _, l := range c.Lines {
		keep[l.ItemID] = true
	}
	v.Items = make([]models.OrderItem, 0, len(c.Lines))
	for _, it := range o.Items {
		if keep[it.ID] {
			v.Items = append(v.Items, it)
		}
	}
	return v
}

// OpenTable returns the table's open order, creating an empty one on the
// first visit.
func (s *OrderService) OpenTable(ctx context.Context, tableID uint) (*OrderView, error) {
	if _, err := s.Repo.GetTable(ctx, tableID); err != nil {
		return nil, notFound(err, "table")
	}
	o, err := s.Repo.OpenOrderForTable(ctx, tableID)
	if err != nil {
		return nil, err
	}
	return viewOf(o, 0), nil
}

func (s *OrderService) GetOrder(ctx context.Context, id uint) (*OrderView, error) {
	return s.GuestView(ctx, id, 0)
}

// GuestView is the order as one guest sees it; guest 0 is the whole table.
func (s *OrderService) GuestView(ctx context.Context, id uint, guest int) (*OrderView, error) {
	if !cart.ValidGuest(guest) {
		return nil, fmt.Errorf("%w: %w", ErrValidation, cart.ErrGuest)
	}
	o, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, notFound(err, "order")
	}
	return viewOf(o, guest), nil
}

func (s *OrderService) AddItem(ctx context.Context, orderID, productID uint, guest int) (*OrderView, error) {
	if !cart.ValidGuest(guest) {
		return nil, fmt.Errorf("%w: %w", ErrValidation, cart.ErrGuest)
	}
	if _, err := s.Repo.GetOrder(ctx, orderID); err != nil {
		return nil, notFound(err, "order")
	}
	p, err := s.Repo.GetProduct(ctx, productID)
	if err != nil {
		return nil, notFound(err, "product")
	}
	if _, err := s.Repo.AddItem(ctx, orderID, *p, guest); err != nil {
		return nil, err
	}
	return s.GetOrder(ctx, orderID)
}

// ChangeQty applies delta to a line; a line that reaches zero is removed.
func (s *OrderService) ChangeQty(ctx context.Context, orderID, itemID uint, delta int) (*OrderView, error) {
	if delta == 0 {
		return nil, fmt.Errorf("delta must not be zero: %w", ErrValidation)
	}
	if _, err := s.Repo.ChangeItemQty(ctx, orderID, itemID, delta); err != nil {
		return nil, notFound(err, "order item")
	}
	return s.GetOrder(ctx, orderID)
}

func (s *OrderService) SetGuest(ctx context.Context, orderID, itemID uint, guest int) (*OrderView, error) {
	if !cart.ValidGuest(guest) {
		return nil, fmt.Errorf("%w: %w", ErrValidation, cart.ErrGuest)
	}
	if err := s.Repo.SetItemGuest(ctx, orderID, itemID, guest); err != nil {
		return nil, notFound(err, "order item")
	}
	return s.GetOrder(ctx, orderID)
}

// Print archives the whole order, or only the lines of one guest when
// guest is set.
func (s *OrderService) Print(ctx context.Context, orderID uint, guest int) (*models.ArchivedOrder, error) {
	if !cart.ValidGuest(guest) {
		return nil, fmt.Errorf("%w: %w", ErrValidation, cart.ErrGuest)
	}
	o, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, notFound(err, "order")
	}
	return s.archive(ctx, repo.ArchiveRequest{
		OrderID: orderID,
		Guest:   guest,
		Label:   printLabel(o.TableID, guest),
		At:      s.now(),
	})
}

// PrintSplit archives the chosen quantity of each line and leaves the rest
// of the order open.
func (s *OrderService) PrintSplit(ctx context.Context, orderID uint, take map[uint]int) (*models.ArchivedOrder, error) {
	if len(take) == 0 {
		return nil, fmt.Errorf("nothing selected: %w", ErrValidation)
	}
	for id, qty := range take {
		if qty < 0 {
			return nil, fmt.Errorf("negative quantity for item %d: %w", id, ErrValidation)
		}
	}
	o, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, notFound(err, "order")
	}
	return s.archive(ctx, repo.ArchiveRequest{
		OrderID: orderID,
		Take:    take,
		Label:   printLabel(o.TableID, 0),
		At:      s.now(),
	})
}

// PrintQuick archives a quick cart. Prices come from the catalog as it is
// at print time.
func (s *OrderService) PrintQuick(ctx context.Context, lines []QuickLine) (*models.ArchivedOrder, error) {
	ids := make([]uint, 0, len(lines))
	seen := make(map[uint]bool, len(lines))
	for _, l := range lines {
		if l.Qty <= 0 {
			return nil, fmt.Errorf("quantity must be positive: %w", ErrValidation)
		}
		if !seen[l.ProductID] {
			seen[l.ProductID] = true
			ids = append(ids, l.ProductID)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("quick cart is empty: %w", ErrValidation)
	}

	products, err := s.Repo.GetProducts(ctx, ids)
	if err != nil {
		return nil, err
	}
	var c cart.Cart
	for _, l := range lines {
		p, ok := products[l.ProductID]
		if !ok {
			return nil, fmt.Errorf("product %d not found: %w", l.ProductID, ErrNotFound)
		}
		if err := c.Add(p, 0); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		c.Change(c.Index(p.ID, 0), l.Qty-1)
	}
	items := make([]models.OrderItem, 0, len(c.Lines))
	for _, ln := range c.Lines {
		items = append(items, models.OrderItem{
			ProductID: ln.ProductID,
			Name:      ln.Name,
			Qty:       ln.Qty,
			PriceEach: ln.PriceEach,
		})
	}

	arch, err := s.Repo.ArchiveQuick(ctx, items, receipt.QuickLabel, s.now())
	if err != nil {
		return nil, err
	}
	s.published(ctx, arch)
	return arch, nil
}

func (s *OrderService) archive(ctx context.Context, req repo.ArchiveRequest) (*models.ArchivedOrder, error) {
	arch, err := s.Repo.ArchiveOrder(ctx, req)
	switch {
	case err == nil:
	case errors.Is(err, repo.ErrNothingToArchive), errors.Is(err, repo.ErrQtyExceeded):
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	default:
		return nil, notFound(err, "order item")
	}
	s.published(ctx, arch)
	return arch, nil
}

func (s *OrderService) published(ctx context.Context, arch *models.ArchivedOrder) {
	publish(ctx, s.Events, arch.ReceiptNo.String(), events.ReceiptArchived, ReceiptEvent{
		ID:        arch.ID,
		ReceiptNo: arch.ReceiptNo.String(),
		TableID:   arch.TableID,
		Total:     arch.Total,
		Items:     len(arch.Items),
		At:        arch.ArchivedAt,
	})
}

type ReceiptEvent struct {
	ID        uint            `json:"id"`
	ReceiptNo string          `json:"receipt_no"`
	TableID   *uint           `json:"table_id,omitempty"`
	Total     decimal.Decimal `json:"total"`
	Items     int             `json:"items"`
	At        time.Time       `json:"at"`
}

func printLabel(tableID *uint, guest int) string {
	label := receipt.TableLabel(tableID)
	if guest > 0 {
		label = fmt.Sprintf("%s / Gost %d", label, guest)
	}
	return label
}
