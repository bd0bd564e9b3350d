package repository

import (
	"context"
	"fmt"

	"github.com/DaviAleixo/pollyana3-sub000/internal/model"
	"github.com/DaviAleixo/pollyana3-sub000/internal/stock"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProductFilter narrows product listings. The zero value lists everything.
type ProductFilter struct {
	StorefrontOnly bool // active and visible
	CategoryIDs    []uint
}

// ProductRepository defines the data access contract for products.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]model.Product, error)
	Update(ctx context.Context, p *model.Product) error
	SetVisible(ctx context.Context, id uuid.UUID, visible bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	LowStock(ctx context.Context, threshold int) ([]model.Product, error)

	// ApplyStockUpdates writes every update and its movements in one transaction.
	ApplyStockUpdates(ctx context.Context, updates []stock.Update) error
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error) {
	var list []model.Product
	if len(ids) == 0 {
		return list, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("created_at ASC, id ASC").Find(&list).Error
	return list, err
}

// List returns products in insertion order.
func (r *productRepo) List(ctx context.Context, filter ProductFilter) ([]model.Product, error) {
	q := r.db.WithContext(ctx).Model(&model.Product{})
	if filter.StorefrontOnly {
		q = q.Where("active = ? AND visible = ?", true, true)
	}
	if len(filter.CategoryIDs) > 0 {
		q = q.Where("category_id IN ?", filter.CategoryIDs)
	}
	var list []model.Product
	err := q.Order("created_at ASC, id ASC").Find(&list).Error
	return list, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Omit("Category").Save(p).Error
}

func (r *productRepo) SetVisible(ctx context.Context, id uuid.UUID, visible bool) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Update("visible", visible)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the product. Its stock movements stay as history.
func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepo) LowStock(ctx context.Context, threshold int) ([]model.Product, error) {
	var list []model.Product
	err := r.db.WithContext(ctx).
		Where("active = ? AND stock <= ?", true, threshold).
		Order("stock ASC, name ASC").
		Find(&list).Error
	return list, err
}

func (r *productRepo) ApplyStockUpdates(ctx context.Context, updates []stock.Update) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range updates {
			fields := map[string]any{"stock": u.Stock}
			if u.Variants != nil {
				fields["variants"] = datatypes.JSONSlice[model.ProductVariant](u.Variants)
			}
			res := tx.Model(&model.Product{}).Where("id = ?", u.ProductID).Updates(fields)
			if res.Error != nil {
				return fmt.Errorf("update product %s: %w", u.ProductID, res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("update product %s: %w", u.ProductID, gorm.ErrRecordNotFound)
			}
			if len(u.Movements) > 0 {
				if err := tx.Create(&u.Movements).Error; err != nil {
					return fmt.Errorf("log movements %s: %w", u.ProductID, err)
				}
			}
		}
		return nil
	})
}
