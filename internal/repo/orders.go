package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Skotchmaster/cafe_pos/internal/models"
)

func itemsByID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

func (r *GormRepo) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	if err := r.DB.WithContext(ctx).Preload("Items", itemsByID).First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// OpenOrderForTable returns the table's open order, creating it on first
// visit.
func (r *GormRepo) OpenOrderForTable(ctx context.Context, tableID uint) (*models.Order, error) {
	var o models.Order
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("table_id = ? AND status = ?", tableID, models.OrderOpen).
			Order("id ASC").
			Preload("Items", itemsByID).
			First(&o).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		o = models.Order{TableID: &tableID, Status: models.OrderOpen}
		return tx.Create(&o).Error
	})
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormRepo) OpenOrders(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	if err := r.DB.WithContext(ctx).
		Where("status = ? AND table_id IS NOT NULL", models.OrderOpen).
		Preload("Items", itemsByID).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// AddItem bumps the line with the same product and guest or inserts a new
// line priced at the product's current price.
func (r *GormRepo) AddItem(ctx context.Context, orderID uint, p models.Product, guest int) (*models.OrderItem, error) {
	item := models.OrderItem{
		OrderID:   orderID,
		ProductID: p.ID,
		Name:      p.Name,
		Qty:       1,
		PriceEach: p.Price,
		Guest:     guest,
	}
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.OrderItem{}).
			Where("order_id = ? AND product_id = ? AND guest = ?", orderID, p.ID, guest).
			Update("qty", gorm.Expr("qty + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return tx.Where("order_id = ? AND product_id = ? AND guest = ?", orderID, p.ID, guest).First(&item).Error
		}
		return tx.Create(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ChangeItemQty applies delta and deletes the line when it drops to zero.
func (r *GormRepo) ChangeItemQty(ctx context.Context, orderID, itemID uint, delta int) (bool, error) {
	deleted := false
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.OrderItem{}).
			Where("id = ? AND order_id = ?", itemID, orderID).
			Update("qty", gorm.Expr("qty + ?", delta))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		var item models.OrderItem
		if err := tx.First(&item, itemID).Error; err != nil {
			return err
		}
		if item.Qty > 0 {
			return nil
		}
		deleted = true
		return tx.Delete(&item).Error
	})
	return deleted, err
}

// SetItemGuest moves a line to another guest, folding it into that guest's
// line for the same product if one exists.
func (r *GormRepo) SetItemGuest(ctx context.Context, orderID, itemID uint, guest int) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.OrderItem
		if err := tx.Where("id = ? AND order_id = ?", itemID, orderID).First(&item).Error; err != nil {
			return err
		}
		if item.Guest == guest {
			return nil
		}

		var twin models.OrderItem
		err := tx.Where("order_id = ? AND product_id = ? AND guest = ? AND id <> ?", orderID, item.ProductID, guest, item.ID).
			First(&twin).Error
		switch {
		case err == nil:
			if err := tx.Model(&twin).Update("qty", gorm.Expr("qty + ?", item.Qty)).Error; err != nil {
				return err
			}
			return tx.Delete(&item).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Model(&item).Update("guest", guest).Error
		default:
			return err
		}
	})
}
