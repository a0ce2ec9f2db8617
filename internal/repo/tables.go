package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/cafe_pos/internal/models"
)

func (r *GormRepo) ListTables(ctx context.Context) ([]models.PosTable, error) {
	var out []models.PosTable
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) GetTable(ctx context.Context, id uint) (*models.PosTable, error) {
	var t models.PosTable
	if err := r.DB.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *GormRepo) CountTables(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.PosTable{}).Count(&n).Error
	return n, err
}

func (r *GormRepo) CreateTable(ctx context.Context, t *models.PosTable) error {
	return r.DB.WithContext(ctx).Create(t).Error
}

func (r *GormRepo) CreateTables(ctx context.Context, ts []models.PosTable) error {
	if len(ts) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Create(&ts).Error
}

func (r *GormRepo) SaveTable(ctx context.Context, t *models.PosTable) error {
	return r.DB.WithContext(ctx).Save(t).Error
}

// DeleteTable removes the table together with its open orders.
func (r *GormRepo) DeleteTable(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var orderIDs []uint
		if err := tx.Model(&models.Order{}).Where("table_id = ?", id).Pluck("id", &orderIDs).Error; err != nil {
			return err
		}
		if len(orderIDs) > 0 {
			if err := tx.Where("order_id IN ?", orderIDs).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", orderIDs).Delete(&models.Order{}).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&models.PosTable{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
