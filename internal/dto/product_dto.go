package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ColorInput struct {
	Name     string `json:"name"      validate:"required,max=40"`
	ImageURL string `json:"image_url" validate:"omitempty,url"`
	Custom   bool   `json:"custom"`
	Hex      string `json:"hex"       validate:"omitempty,hexcolor"`
}

// SaveProductRequest is used for both create and full update. On update the
// variant matrix is regenerated from Colors × sizes of SizeScheme, keeping
// the stock of combinations that already existed.
type SaveProductRequest struct {
	Name          string          `json:"name"           validate:"required,min=2,max=120"`
	Description   string          `json:"description"    validate:"max=4000"`
	Price         decimal.Decimal `json:"price"          validate:"required,gt=0"`
	ImageURL      string          `json:"image_url"      validate:"omitempty,url"`
	CategoryID    uint            `json:"category_id"    validate:"required,min=1"`
	Active        bool            `json:"active"`
	Visible       bool            `json:"visible"`
	Stock         int             `json:"stock"          validate:"min=0"` // only for products without variants
	SizeScheme    string          `json:"size_scheme"    validate:"omitempty,oneof=letters numeric"`
	Colors        []ColorInput    `json:"colors"         validate:"dive"`
	ImagePerColor bool            `json:"image_per_color"`

	DiscountActive    bool            `json:"discount_active"`
	DiscountType      string          `json:"discount_type"  validate:"omitempty,oneof=percentage fixed"`
	DiscountValue     decimal.Decimal `json:"discount_value"`
	DiscountExpiresAt *time.Time      `json:"discount_expires_at"`

	IsLaunch        bool       `json:"is_launch"`
	LaunchExpiresAt *time.Time `json:"launch_expires_at"`
}

type SetVisibilityRequest struct {
	Visible bool `json:"visible"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

// CatalogQuery is the storefront listing query string.
// category accepts a numeric id or the "promocoes" pseudo-category.
type CatalogQuery struct {
	Category string `form:"category"`
	Search   string `form:"q"`
	Sort     string `form:"sort"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PriceResponse struct {
	Original       decimal.Decimal `json:"original"`
	Effective      decimal.Decimal `json:"effective"`
	Savings        decimal.Decimal `json:"savings"`
	SavingsPercent int             `json:"savings_percent"`
	HasDiscount    bool            `json:"has_discount"`
}

// ProductCard is the catalog grid entry.
type ProductCard struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	ImageURL     string        `json:"image_url"`
	CategoryID   uint          `json:"category_id"`
	CategoryName string        `json:"category_name"`
	Price        PriceResponse `json:"price"`
	IsLaunch     bool          `json:"is_launch"`
	InStock      bool          `json:"in_stock"`
}

type ColorOption struct {
	Name      string   `json:"name"`
	Hex       string   `json:"hex,omitempty"`
	ImageURL  string   `json:"image_url"`
	Available bool     `json:"available"`
	Sizes     []string `json:"sizes"` // sizes in stock for this color
}

type VariantResponse struct {
	ID    string `json:"id"`
	Color string `json:"color"`
	Size  string `json:"size"`
	Stock int    `json:"stock"`
}

// ProductDetail is the storefront product page.
type ProductDetail struct {
	ProductCard
	Description string        `json:"description"`
	SizeScheme  string        `json:"size_scheme,omitempty"`
	Colors      []ColorOption `json:"colors"`
	Stock       int           `json:"stock"`
}

// ProductAdminResponse exposes every stored field for the admin console.
type ProductAdminResponse struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Description       string            `json:"description"`
	Price             decimal.Decimal   `json:"price"`
	ImageURL          string            `json:"image_url"`
	CategoryID        uint              `json:"category_id"`
	Active            bool              `json:"active"`
	Visible           bool              `json:"visible"`
	Stock             int               `json:"stock"`
	SizeScheme        string            `json:"size_scheme"`
	Colors            []ColorInput      `json:"colors"`
	Variants          []VariantResponse `json:"variants"`
	ImagePerColor     bool              `json:"image_per_color"`
	DiscountActive    bool              `json:"discount_active"`
	DiscountType      string            `json:"discount_type"`
	DiscountValue     decimal.Decimal   `json:"discount_value"`
	DiscountExpiresAt *time.Time        `json:"discount_expires_at"`
	IsLaunch          bool              `json:"is_launch"`
	LaunchExpiresAt   *time.Time        `json:"launch_expires_at"`
	Pricing           PriceResponse     `json:"pricing"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}
