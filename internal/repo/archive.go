package repo

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/cafe_pos/internal/models"
)

var (
	ErrNothingToArchive = errors.New("nothing to archive")
	ErrQtyExceeded      = errors.New("requested quantity exceeds line quantity")
)

// ArchiveRequest selects what part of an open order gets printed. With a
// nil Take every line (of Guest, when set) is archived in full.
type ArchiveRequest struct {
	OrderID uint
	Take    map[uint]int
	Guest   int
	Label   string
	At      time.Time
}

func (r *GormRepo) ArchiveOrder(ctx context.Context, req ArchiveRequest) (*models.ArchivedOrder, error) {
	var out *models.ArchivedOrder
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		out, err = archiveTx(tx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ArchiveQuick stores a quick cart as a throwaway order and archives it in
// the same transaction.
func (r *GormRepo) ArchiveQuick(ctx context.Context, items []models.OrderItem, label string, at time.Time) (*models.ArchivedOrder, error) {
	var out *models.ArchivedOrder
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o := models.Order{Status: models.OrderOpen, Items: items}
		if err := tx.Create(&o).Error; err != nil {
			return err
		}
		var err error
		out, err = archiveTx(tx, ArchiveRequest{OrderID: o.ID, Label: label, At: at})
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func archiveTx(tx *gorm.DB, req ArchiveRequest) (*models.ArchivedOrder, error) {
	var order models.Order
	if err := tx.Preload("Items", itemsByID).First(&order, req.OrderID).Error; err != nil {
		return nil, err
	}

	arch := models.ArchivedOrder{
		OrderID:    order.ID,
		TableID:    order.TableID,
		Label:      req.Label,
		Total:      decimal.Zero,
		ArchivedAt: req.At.UTC(),
	}
	type change struct {
		item models.OrderItem
		left int
	}
	changes := make([]change, 0, len(order.Items))

	for _, it := range order.Items {
		qty := it.Qty
		if req.Take != nil {
			qty = req.Take[it.ID]
		} else if req.Guest != 0 && it.Guest != req.Guest {
			qty = 0
		}
		if qty <= 0 {
			continue
		}
		if qty > it.Qty {
			return nil, ErrQtyExceeded
		}

		productID := it.ProductID
		line := models.ArchivedItem{
			ProductID: &productID,
			Name:      it.Name,
			Qty:       qty,
			PriceEach: it.PriceEach,
			Guest:     it.Guest,
		}
		arch.Items = append(arch.Items, line)
		arch.Total = arch.Total.Add(line.Amount())
		changes = append(changes, change{item: it, left: it.Qty - qty})
	}
	if req.Take != nil {
		for id := range req.Take {
			if !hasItem(order.Items, id) {
				return nil, gorm.ErrRecordNotFound
			}
		}
	}
	if len(arch.Items) == 0 {
		return nil, ErrNothingToArchive
	}

	if err := tx.Create(&arch).Error; err != nil {
		return nil, err
	}

	at := arch.ArchivedAt
	sales := make([]models.Sale, 0, len(arch.Items))
	for _, it := range arch.Items {
		sales = append(sales, models.Sale{
			ArchivedItemID:  it.ID,
			ArchivedOrderID: arch.ID,
			TableID:         arch.TableID,
			ProductID:       it.ProductID,
			Name:            it.Name,
			Qty:             it.Qty,
			PriceEach:       it.PriceEach,
			At:              &at,
		})
	}
	if err := tx.Create(&sales).Error; err != nil {
		return nil, err
	}

	remaining := len(order.Items)
	for _, ch := range changes {
		if ch.left > 0 {
			if err := tx.Model(&models.OrderItem{}).Where("id = ?", ch.item.ID).Update("qty", ch.left).Error; err != nil {
				return nil, err
			}
			continue
		}
		if err := tx.Delete(&models.OrderItem{}, ch.item.ID).Error; err != nil {
			return nil, err
		}
		remaining--
	}
	if remaining == 0 {
		if err := tx.Delete(&models.Order{}, order.ID).Error; err != nil {
			return nil, err
		}
	}

	return &arch, nil
}

func hasItem(items []models.OrderItem, id uint) bool {
	for _, it := range items {
		if it.ID == id {
			return true
		}
	}
	return false
}

func (r *GormRepo) ListArchived(ctx context.Context, tableID *uint) ([]models.ArchivedOrder, error) {
	q := r.DB.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") })
	if tableID != nil {
		q = q.Where("table_id = ?", *tableID)
	}
	var out []models.ArchivedOrder
	if err := q.Order("archived_at DESC, id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) GetArchived(ctx context.Context, id uint) (*models.ArchivedOrder, error) {
	var o models.ArchivedOrder
	if err := r.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// DeleteArchived removes a receipt with its items and sales rows, taking
// it out of every report.
func (r *GormRepo) DeleteArchived(ctx context.Context, id uint) (*models.ArchivedOrder, error) {
	var o models.ArchivedOrder
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&o, id).Error; err != nil {
			return err
		}
		if err := tx.Where("archived_order_id = ?", id).Delete(&models.Sale{}).Error; err != nil {
			return err
		}
		if err := tx.Where("archived_order_id = ?", id).Delete(&models.ArchivedItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.ArchivedOrder{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// ArchivedLine is an archived item joined with its receipt.
type ArchivedLine struct {
	ItemID     uint64
	OrderID    uint
	TableID    *uint
	ProductID  *uint
	Name       string
	Qty        int
	PriceEach  decimal.Decimal
	ArchivedAt time.Time
}

func (r *GormRepo) ArchivedLines(ctx context.Context) ([]ArchivedLine, error) {
	var orders []models.ArchivedOrder
	if err := r.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Order("archived_at ASC, id ASC").
		Find(&orders).Error; err != nil {
		return nil, err
	}

	out := make([]ArchivedLine, 0, len(orders))
	for _, o := range orders {
		for _, it := range o.Items {
			out = append(out, ArchivedLine{
				ItemID:     it.ID,
				OrderID:    o.ID,
				TableID:    o.TableID,
				ProductID:  it.ProductID,
				Name:       it.Name,
				Qty:        it.Qty,
				PriceEach:  it.PriceEach,
				ArchivedAt: o.ArchivedAt,
			})
		}
	}
	return out, nil
}

func (r *GormRepo) Sales(ctx context.Context) ([]models.Sale, error) {
	var out []models.Sale
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) CreateSales(ctx context.Context, rows []models.Sale) error {
	if len(rows) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Create(&rows).Error
}
