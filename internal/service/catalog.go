package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/cafe_pos/internal/csvimport"
	"github.com/Skotchmaster/cafe_pos/internal/events"
	"github.com/Skotchmaster/cafe_pos/internal/icons"
	"github.com/Skotchmaster/cafe_pos/internal/models"
	"github.com/Skotchmaster/cafe_pos/internal/repo"
)

const TopProductsLimit = 12

type CatalogService struct {
	Repo       *repo.GormRepo
	Events     events.Publisher
	Classifier csvimport.Classifier
}

type CategoryInput struct {
	Name string     `json:"name"`
	Sort *int       `json:"sort"`
	Icon icons.Icon `json:"icon"`
}

type CategoryPatch struct {
	Name *string     `json:"name"`
	Sort *int        `json:"sort"`
	Icon *icons.Icon `json:"icon"`
}

type ProductInput struct {
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	CategoryID *uint           `json:"category_id"`
}

type ProductPatch struct {
	Name       *string          `json:"name"`
	Price      *decimal.Decimal `json:"price"`
	CategoryID *uint            `json:"category_id"`
	// ClearCategory detaches the product from its category.
	ClearCategory bool `json:"clear_category"`
}

type ImportResult struct {
	Categories int `json:"categories"`
	Products   int `json:"products"`
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

func (s *CatalogService) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("category name is required: %w", ErrValidation)
	}

	sort := 0
	if in.Sort != nil {
		sort = *in.Sort
	} else {
		top, err := s.Repo.MaxCategorySort(ctx)
		if err != nil {
			return nil, err
		}
		sort = top + 1
	}

	icon := in.Icon
	if !icon.Valid() {
		icon = icons.ForCategory(name)
	}

	c := &models.Category{Name: name, Sort: sort, Icon: icon}
	if err := s.Repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) PatchCategory(ctx context.Context, id uint, p CategoryPatch) (*models.Category, error) {
	c, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		return nil, notFound(err, "category")
	}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return nil, fmt.Errorf("category name is required: %w", ErrValidation)
		}
		c.Name = name
	}
	if p.Sort != nil {
		c.Sort = *p.Sort
	}
	if p.Icon != nil {
		c.Icon = icons.Parse(string(*p.Icon))
	}
	if err := s.Repo.SaveCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	return notFound(s.Repo.DeleteCategory(ctx, id), "category")
}

func (s *CatalogService) ListProducts(ctx context.Context, categoryID *uint, query string) ([]models.Product, error) {
	return s.Repo.ListProducts(ctx, repo.ProductFilter{CategoryID: categoryID, Query: query})
}

func (s *CatalogService) TopProducts(ctx context.Context) ([]models.Product, error) {
	return s.Repo.TopProducts(ctx, TopProductsLimit)
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}
	return p, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("product name is required: %w", ErrValidation)
	}
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("price cannot be negative: %w", ErrValidation)
	}
	p := &models.Product{Name: name, Price: in.Price, CategoryID: in.CategoryID}
	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) PatchProduct(ctx context.Context, id uint, in ProductPatch) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("product name is required: %w", ErrValidation)
		}
		p.Name = name
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, fmt.Errorf("price cannot be negative: %w", ErrValidation)
		}
		p.Price = *in.Price
	}
	switch {
	case in.ClearCategory:
		p.CategoryID = nil
	case in.CategoryID != nil:
		p.CategoryID = in.CategoryID
	}
	if err := s.Repo.SaveProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	return notFound(s.Repo.DeleteProduct(ctx, id), "product")
}

// ImportMenu replaces the whole catalog with the parsed price list. Rows
// without a category go through the classifier first.
func (s *CatalogService) ImportMenu(ctx context.Context, data []byte) (*ImportResult, error) {
	rows, err := csvimport.Sniff(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return s.ResetAndImport(ctx, rows)
}

func (s *CatalogService) ResetAndImport(ctx context.Context, rows []csvimport.Row) (*ImportResult, error) {
	csvimport.FillCategories(rows, s.Classifier)

	names := csvimport.Categories(rows)
	cats := make([]models.Category, 0, len(names))
	pos := make(map[string]int, len(names))
	for i, n := range names {
		pos[n] = i
		cats = append(cats, models.Category{Name: n, Sort: i + 1, Icon: icons.ForCategory(n)})
	}

	prods := make([]models.Product, 0, len(rows))
	catIdx := make([]int, 0, len(rows))
	for _, r := range rows {
		prods = append(prods, models.Product{Name: r.Name, Price: r.Price})
		catIdx = append(catIdx, pos[r.Category])
	}

	if err := s.Repo.ReplaceCatalog(ctx, cats, prods, catIdx); err != nil {
		return nil, err
	}

	res := &ImportResult{Categories: len(cats), Products: len(prods)}
	publish(ctx, s.Events, "catalog", events.CatalogImported, res)
	return res, nil
}
