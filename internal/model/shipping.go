package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShippingConfigID is the primary key of the singleton shipping row.
const ShippingConfigID uint = 1

// ShippingConfig holds store-wide delivery settings.
type ShippingConfig struct {
	ID                    uint             `gorm:"primaryKey"`
	OriginCity            string           `gorm:"not null;default:''"`
	LocalFee              decimal.Decimal  `gorm:"type:decimal(10,2);not null;default:0"`
	DefaultFee            *decimal.Decimal `gorm:"type:decimal(10,2)"` // nil: fee agreed over chat
	FreeShippingThreshold *decimal.Decimal `gorm:"type:decimal(10,2)"`
	DeliveryNote          string
	UpdatedAt             time.Time

	Tiers []ShippingTier `gorm:"foreignKey:ConfigID"`
}

// ShippingTier prices delivery to one city.
type ShippingTier struct {
	ID            uint            `gorm:"primaryKey"`
	ConfigID      uint            `gorm:"not null;index"`
	City          string          `gorm:"not null"`
	Fee           decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	EstimatedDays int             `gorm:"not null;default:0"`
}
