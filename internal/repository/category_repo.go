package repository

import (
	"context"

	"github.com/DaviAleixo/pollyana3-sub000/internal/catalog"
	"github.com/DaviAleixo/pollyana3-sub000/internal/model"

	"gorm.io/gorm"
)

// CategoryOrder is one row of a reorder request.
type CategoryOrder struct {
	ID        uint
	SortOrder int
}

// CategoryRepository defines CRUD operations for Category.
type CategoryRepository interface {
	Create(ctx context.Context, c *model.Category) error
	List(ctx context.Context, visibleOnly bool) ([]model.Category, error)
	FindByID(ctx context.Context, id uint) (*model.Category, error)
	Update(ctx context.Context, c *model.Category) error
	// Delete executes plan atomically: children move to plan.NewParent,
	// products move to the root category, then the row is removed.
	Delete(ctx context.Context, plan catalog.DeletionPlan) error
	Reorder(ctx context.Context, orders []CategoryOrder) error
}

type categoryRepository struct{ db *gorm.DB }

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, c *model.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *categoryRepository) List(ctx context.Context, visibleOnly bool) ([]model.Category, error) {
	q := r.db.WithContext(ctx)
	if visibleOnly {
		q = q.Where("visible = ?", true)
	}
	var list []model.Category
	err := q.Order("sort_order ASC, name ASC").Find(&list).Error
	return list, err
}

func (r *categoryRepository) FindByID(ctx context.Context, id uint) (*model.Category, error) {
	var c model.Category
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepository) Update(ctx context.Context, c *model.Category) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *categoryRepository) Delete(ctx context.Context, plan catalog.DeletionPlan) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(plan.Children) > 0 {
			if err := tx.Model(&model.Category{}).
				Where("id IN ?", plan.Children).
				Update("parent_id", plan.NewParent).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&model.Product{}).
			Where("category_id = ?", plan.CategoryID).
			Update("category_id", model.RootCategoryID).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Banner{}).
			Where("linked_category_id = ?", plan.CategoryID).
			Updates(map[string]any{"link_type": model.BannerLinkInformational, "linked_category_id": nil}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Category{}, "id = ?", plan.CategoryID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *categoryRepository) Reorder(ctx context.Context, orders []CategoryOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, o := range orders {
			if err := tx.Model(&model.Category{}).Where("id = ?", o.ID).Update("sort_order", o.SortOrder).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
