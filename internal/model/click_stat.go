package model

import "time"

// Click target types.
const (
	ClickProduct  = "product"
	ClickBanner   = "banner"
	ClickCategory = "category"
	ClickWhatsApp = "whatsapp"
)

// ClickStat aggregates storefront clicks per target.
type ClickStat struct {
	ID          uint   `gorm:"primaryKey"`
	TargetType  string `gorm:"not null;uniqueIndex:idx_click_target"`
	TargetID    string `gorm:"not null;uniqueIndex:idx_click_target"`
	Clicks      int64  `gorm:"not null;default:0"`
	LastClickAt time.Time
}
