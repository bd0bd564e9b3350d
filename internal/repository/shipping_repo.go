package repository

import (
	"context"

	"github.com/DaviAleixo/pollyana3-sub000/internal/model"

	"gorm.io/gorm"
)

type ShippingRepository interface {
	Get(ctx context.Context) (*model.ShippingConfig, error)
	// Save replaces the config row and its whole tier list atomically.
	Save(ctx context.Context, cfg *model.ShippingConfig) error
}

type shippingRepo struct{ db *gorm.DB }

func NewShippingRepository(db *gorm.DB) ShippingRepository { return &shippingRepo{db: db} }

func (r *shippingRepo) Get(ctx context.Context) (*model.ShippingConfig, error) {
	var cfg model.ShippingConfig
	err := r.db.WithContext(ctx).
		Preload("Tiers", func(db *gorm.DB) *gorm.DB { return db.Order("city ASC") }).
		First(&cfg, "id = ?", model.ShippingConfigID).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *shippingRepo) Save(ctx context.Context, cfg *model.ShippingConfig) error {
	cfg.ID = model.ShippingConfigID
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tiers").Save(cfg).Error; err != nil {
			return err
		}
		if err := tx.Where("config_id = ?", cfg.ID).Delete(&model.ShippingTier{}).Error; err != nil {
			return err
		}
		if len(cfg.Tiers) == 0 {
			return nil
		}
		for i := range cfg.Tiers {
			cfg.Tiers[i].ID = 0
			cfg.Tiers[i].ConfigID = cfg.ID
		}
		return tx.Create(&cfg.Tiers).Error
	})
}
