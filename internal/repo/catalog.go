package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/cafe_pos/internal/models"
)

func (r *GormRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := r.DB.WithContext(ctx).Order("sort ASC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var c models.Category
	if err := r.DB.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormRepo) MaxCategorySort(ctx context.Context) (int, error) {
	var top int
	if err := r.DB.WithContext(ctx).Model(&models.Category{}).Select("COALESCE(MAX(sort), 0)").Scan(&top).Error; err != nil {
		return 0, err
	}
	return top, nil
}

func (r *GormRepo) CreateCategory(ctx context.Context, c *models.Category) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *GormRepo) SaveCategory(ctx context.Context, c *models.Category) error {
	return r.DB.WithContext(ctx).Save(c).Error
}

func (r *GormRepo) DeleteCategory(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type ProductFilter struct {
	CategoryID *uint
	Query      string
}

// ListProducts filters by substring in Go: SQLite's LOWER only folds ASCII
// and menu names are full of č, ć and š.
func (r *GormRepo) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	q := r.DB.WithContext(ctx).Model(&models.Product{}).Order("name ASC, id ASC")
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}

	var items []models.Product
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(f.Query))
	if needle == "" {
		return items, nil
	}
	out := items[:0]
	for _, p := range items {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRepo) GetProducts(ctx context.Context, ids []uint) (map[uint]models.Product, error) {
	var items []models.Product
	if len(ids) > 0 {
		if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
			return nil, err
		}
	}
	out := make(map[uint]models.Product, len(items))
	for _, p := range items {
		out[p.ID] = p
	}
	return out, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *GormRepo) SaveProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Save(p).Error
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type ProductCount struct {
	ProductID uint
	TotalQty  int
}

// TopProducts ranks products by quantity currently on open orders.
func (r *GormRepo) TopProducts(ctx context.Context, limit int) ([]models.Product, error) {
	var counts []ProductCount
	if err := r.DB.WithContext(ctx).
		Model(&models.OrderItem{}).
		Select("product_id, SUM(qty) AS total_qty").
		Group("product_id").
		Order("total_qty DESC, product_id ASC").
		Limit(limit).
		Scan(&counts).Error; err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(counts))
	for _, c := range counts {
		ids = append(ids, c.ProductID)
	}
	byID, err := r.GetProducts(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.Product, 0, len(counts))
	for _, c := range counts {
		if p, ok := byID[c.ProductID]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// ReplaceCatalog wipes categories and products and inserts the given ones.
// Products reference categories by position in cats via catIdx.
func (r *GormRepo) ReplaceCatalog(ctx context.Context, cats []models.Category, prods []models.Product, catIdx []int) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Product{}).Error; err != nil {
			return err
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Category{}).Error; err != nil {
			return err
		}
		if len(cats) > 0 {
			if err := tx.Create(&cats).Error; err != nil {
				return err
			}
		}
		for i := range prods {
			if i < len(catIdx) && catIdx[i] >= 0 && catIdx[i] < len(cats) {
				id := cats[catIdx[i]].ID
				prods[i].CategoryID = &id
			}
		}
		if len(prods) > 0 {
			if err := tx.CreateInBatches(&prods, 200).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormRepo) CatalogEmpty(ctx context.Context) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Category{}).Count(&n).Error; err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Count(&n).Error; err != nil {
		return false, err
	}
	return n == 0, nil
}
