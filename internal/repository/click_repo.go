package repository

import (
	"context"
	"time"

	"github.com/DaviAleixo/pollyana3-sub000/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ClickRepository interface {
	// Increment adds n clicks to the target, creating the row on first use.
	Increment(ctx context.Context, targetType, targetID string, n int64, at time.Time) error
	Top(ctx context.Context, targetType string, limit int) ([]model.ClickStat, error)
}

type clickRepo struct{ db *gorm.DB }

func NewClickRepository(db *gorm.DB) ClickRepository { return &clickRepo{db: db} }

func (r *clickRepo) Increment(ctx context.Context, targetType, targetID string, n int64, at time.Time) error {
	row := model.ClickStat{TargetType: targetType, TargetID: targetID, Clicks: n, LastClickAt: at}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "target_type"}, {Name: "target_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"clicks":        gorm.Expr("click_stats.clicks + ?", n),
			"last_click_at": at,
		}),
	}).Create(&row).Error
}

func (r *clickRepo) Top(ctx context.Context, targetType string, limit int) ([]model.ClickStat, error) {
	_, limit = NormalizePage(1, limit)
	q := r.db.WithContext(ctx)
	if targetType != "" {
		q = q.Where("target_type = ?", targetType)
	}
	var list []model.ClickStat
	err := q.Order("clicks DESC, last_click_at DESC").Limit(limit).Find(&list).Error
	return list, err
}
