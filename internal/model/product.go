package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Size schemes a product can use to build its variant matrix.
const (
	SizeSchemeLetters = "letters"
	SizeSchemeNumeric = "numeric"
)

// Discount types.
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// Product is a catalog item. When Variants is non-empty, Stock is a cache of
// the variant sum and every write that touches variants must refresh it.
type Product struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string          `gorm:"index;not null"`
	Description   string          `gorm:"type:text"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ImageURL      string
	CategoryID    uint `gorm:"not null;default:1;index"`
	Active        bool `gorm:"not null;default:true"`
	Visible       bool `gorm:"not null;default:true"`
	Stock         int  `gorm:"not null;default:0"`
	SizeScheme    string
	Colors        datatypes.JSONSlice[ProductColor]   `gorm:"type:jsonb"`
	Variants      datatypes.JSONSlice[ProductVariant] `gorm:"type:jsonb"`
	ImagePerColor bool                                `gorm:"not null;default:false"`

	DiscountActive    bool            `gorm:"not null;default:false"`
	DiscountType      string          `gorm:"not null;default:''"`
	DiscountValue     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	DiscountExpiresAt *time.Time

	IsLaunch        bool `gorm:"not null;default:false"`
	LaunchExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Category *Category `gorm:"foreignKey:CategoryID"`
}

// ProductColor is one entry of a product's color palette. ImageURL is
// optional and falls back to the product image.
type ProductColor struct {
	Name     string `json:"name"`
	ImageURL string `json:"image_url,omitempty"`
	Custom   bool   `json:"custom"`
	Hex      string `json:"hex,omitempty"`
}

// ProductVariant holds the stock of one (color, size) combination.
type ProductVariant struct {
	ID    string `json:"id"`
	Color string `json:"color"`
	Size  string `json:"size"`
	Stock int    `json:"stock"`
}

// HasVariants reports whether per-variant stock is authoritative.
func (p *Product) HasVariants() bool { return len(p.Variants) > 0 }

// ColorImage returns the image for color, falling back to the main image.
func (p *Product) ColorImage(color string) string {
	for _, c := range p.Colors {
		if c.Name == color && c.ImageURL != "" {
			return c.ImageURL
		}
	}
	return p.ImageURL
}
