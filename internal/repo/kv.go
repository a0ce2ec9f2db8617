package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/cafe_pos/internal/models"
)

func (r *GormRepo) GetKV(ctx context.Context, key string) (string, bool, error) {
	var e models.KVEntry
	err := r.DB.WithContext(ctx).Where("name = ?", key).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return e.Value, true, nil
}

func (r *GormRepo) SetKVs(ctx context.Context, values map[string]string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for k, v := range values {
			e := models.KVEntry{Key: k, Value: v}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&e).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
