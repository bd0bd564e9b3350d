package repository

import (
	"context"

	"github.com/DaviAleixo/pollyana3-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BannerRepository interface {
	Create(ctx context.Context, b *model.Banner) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Banner, error)
	List(ctx context.Context, visibleOnly bool) ([]model.Banner, error)
	Update(ctx context.Context, b *model.Banner) error
	Delete(ctx context.Context, id uuid.UUID) error
	// Reorder assigns SortOrder = position in ids, in one transaction.
	Reorder(ctx context.Context, ids []uuid.UUID) error
}

type bannerRepo struct{ db *gorm.DB }

func NewBannerRepository(db *gorm.DB) BannerRepository { return &bannerRepo{db: db} }

func (r *bannerRepo) Create(ctx context.Context, b *model.Banner) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *bannerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Banner, error) {
	var b model.Banner
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bannerRepo) List(ctx context.Context, visibleOnly bool) ([]model.Banner, error) {
	q := r.db.WithContext(ctx)
	if visibleOnly {
		q = q.Where("visible = ?", true)
	}
	var list []model.Banner
	err := q.Order("sort_order ASC, created_at ASC").Find(&list).Error
	return list, err
}

func (r *bannerRepo) Update(ctx context.Context, b *model.Banner) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *bannerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Banner{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *bannerRepo) Reorder(ctx context.Context, ids []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			if err := tx.Model(&model.Banner{}).Where("id = ?", id).Update("sort_order", i).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
